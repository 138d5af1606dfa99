package graph

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"regexp"
	"strings"

	"github.com/c360studio/nidmcheck/vocabulary/rdf"
)

// labelMarker prefixes explicit blank node labels before decoding. The
// decoder names anonymous nodes b1, b2, ... in the same label space, so a
// marked label can never collide with a generated one.
const labelMarker = "e"

// blankLabels maps decoder blank node ids back to graph labels. Explicit
// labels are restored unchanged; anonymous nodes get a label no explicit
// node uses.
type blankLabels struct {
	explicit map[string]bool
	anon     map[string]string
}

func newBlankLabels(explicit map[string]bool) *blankLabels {
	if explicit == nil {
		explicit = make(map[string]bool)
	}
	return &blankLabels{explicit: explicit, anon: make(map[string]string)}
}

func (l *blankLabels) term(id string) Term {
	if label, ok := strings.CutPrefix(id, labelMarker); ok {
		return NewBlankNode(label)
	}
	if label, ok := l.anon[id]; ok {
		return NewBlankNode(label)
	}
	label := id
	for n := 1; l.explicit[label]; n++ {
		label = fmt.Sprintf("%s_%d", id, n)
	}
	l.anon[id] = label
	return NewBlankNode(label)
}

// markTurtleLabels prefixes every explicit blank node label of a Turtle or
// N-Triples document with labelMarker and returns the original labels.
// Comments, IRIs and string literals are copied untouched.
func markTurtleLabels(data []byte) ([]byte, map[string]bool) {
	explicit := make(map[string]bool)
	out := make([]byte, 0, len(data)+64)
	for i := 0; i < len(data); {
		c := data[i]
		switch {
		case c == '\\' && i+1 < len(data):
			out = append(out, data[i:i+2]...)
			i += 2
		case c == '#':
			j := bytes.IndexByte(data[i:], '\n')
			if j < 0 {
				j = len(data) - i
			}
			out = append(out, data[i:i+j]...)
			i += j
		case c == '<':
			j := bytes.IndexByte(data[i:], '>')
			if j < 0 {
				j = len(data) - i - 1
			}
			out = append(out, data[i:i+j+1]...)
			i += j + 1
		case c == '"' || c == '\'':
			j := stringEnd(data, i)
			out = append(out, data[i:j]...)
			i = j
		case c == '_' && i+1 < len(data) && data[i+1] == ':' && (i == 0 || !isNameByte(data[i-1])):
			j := i + 2
			for j < len(data) && isLabelByte(data[j]) {
				j++
			}
			// A label never ends with '.'; that dot terminates the statement.
			for j > i+2 && data[j-1] == '.' {
				j--
			}
			explicit[string(data[i+2:j])] = true
			out = append(out, "_:"+labelMarker...)
			out = append(out, data[i+2:j]...)
			i = j
		default:
			out = append(out, c)
			i++
		}
	}
	return out, explicit
}

// stringEnd returns the offset just past the string literal starting at i.
func stringEnd(data []byte, i int) int {
	q := data[i]
	long := i+2 < len(data) && data[i+1] == q && data[i+2] == q
	j := i + 1
	if long {
		j = i + 3
	}
	for j < len(data) {
		switch {
		case data[j] == '\\':
			j += 2
		case data[j] == q && !long:
			return j + 1
		case data[j] == q && j+2 < len(data) && data[j+1] == q && data[j+2] == q:
			end := j + 3
			for end < len(data) && data[end] == q && end-j < 5 {
				end++
			}
			return end
		default:
			j++
		}
	}
	return len(data)
}

func isLabelByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
		c == '_' || c == '-' || c == '.' || c >= 0x80
}

func isNameByte(c byte) bool {
	return isLabelByte(c) || c == ':' || c == '%'
}

var nodeIDAttr = regexp.MustCompile(`(nodeID\s*=\s*["'])`)

// markXMLNodeIDs prefixes every rdf:nodeID value of an RDF/XML document with
// labelMarker. Marking stops at the first token the XML tokenizer rejects;
// the decoder reports the error.
func markXMLNodeIDs(data []byte) ([]byte, map[string]bool) {
	explicit := make(map[string]bool)
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false

	var out []byte
	last := 0
	for {
		start := int(dec.InputOffset())
		tok, err := dec.Token()
		if err != nil {
			break
		}
		el, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		marked := false
		for _, a := range el.Attr {
			if a.Name.Space == rdf.RDF && a.Name.Local == "nodeID" {
				explicit[a.Value] = true
				marked = true
			}
		}
		if !marked {
			continue
		}
		end := int(dec.InputOffset())
		out = append(out, data[last:start]...)
		out = append(out, nodeIDAttr.ReplaceAll(data[start:end], []byte("${1}"+labelMarker))...)
		last = end
	}
	if len(explicit) == 0 {
		return data, explicit
	}
	return append(out, data[last:]...), explicit
}
