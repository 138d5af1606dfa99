package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	errs "github.com/c360studio/semstreams/pkg/errs"
	"github.com/knakk/rdf"
)

// Format is a serialization format accepted by Load.
type Format string

// Supported formats.
const (
	FormatTurtle   Format = "turtle"
	FormatNTriples Format = "ntriples"
	FormatRDFXML   Format = "rdfxml"
	// FormatTriplesJSON is a JSON array of EntityIngestMessage documents as
	// produced by the export pipeline.
	FormatTriplesJSON Format = "json"
)

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ttl", ".turtle":
		return FormatTurtle, nil
	case ".nt":
		return FormatNTriples, nil
	case ".owl", ".rdf", ".xml":
		return FormatRDFXML, nil
	case ".json":
		return FormatTriplesJSON, nil
	default:
		return "", fmt.Errorf("unsupported graph file extension: %q", filepath.Ext(path))
	}
}

// ParseFormat parses a format name.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case FormatTurtle, FormatNTriples, FormatRDFXML, FormatTriplesJSON:
		return f, nil
	case "ttl":
		return FormatTurtle, nil
	case "nt":
		return FormatNTriples, nil
	case "owl", "xml":
		return FormatRDFXML, nil
	default:
		return "", fmt.Errorf("unsupported format: %s (valid: turtle, ntriples, rdfxml, json)", name)
	}
}

// LoadError reports that a graph document could not be read or parsed.
// It is fatal for the affected graph only.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load graph %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Load parses a document into a frozen graph.
func Load(r io.Reader, format Format, name string) (*Graph, error) {
	if format == FormatTriplesJSON {
		return loadTriplesJSON(r, name)
	}

	var decFormat rdf.Format
	switch format {
	case FormatTurtle:
		decFormat = rdf.Turtle
	case FormatNTriples:
		decFormat = rdf.NTriples
	case FormatRDFXML:
		decFormat = rdf.RDFXML
	default:
		return nil, loadError(name, "select decoder", fmt.Errorf("unsupported format: %s", format))
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, loadError(name, "read", err)
	}
	var explicit map[string]bool
	if format == FormatRDFXML {
		data, explicit = markXMLNodeIDs(data)
	} else {
		data, explicit = markTurtleLabels(data)
	}
	labels := newBlankLabels(explicit)

	g := New(name)
	dec := rdf.NewTripleDecoder(bytes.NewReader(data), decFormat)
	for {
		tr, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, loadError(name, "decode", err)
		}
		st, err := labels.statement(tr)
		if err != nil {
			return nil, loadError(name, "convert triple", err)
		}
		if err := g.Add(st); err != nil {
			return nil, loadError(name, "add statement", err)
		}
	}
	return g.Freeze(), nil
}

// LoadFile loads a graph file, inferring the format from its extension.
func LoadFile(path string) (*Graph, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, loadError(path, "detect format", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, loadError(path, "read file", err)
	}
	return Load(bytes.NewReader(data), format, path)
}

func loadError(source, action string, err error) error {
	return &LoadError{
		Source: source,
		Err:    errs.WrapInvalid(err, "graph", "Load", action),
	}
}

func loadTriplesJSON(r io.Reader, name string) (*Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, loadError(name, "read", err)
	}

	var msgs []EntityIngestMessage
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var msg EntityIngestMessage
		if err := json.Unmarshal(trimmed, &msg); err != nil {
			return nil, loadError(name, "unmarshal entity", err)
		}
		msgs = append(msgs, msg)
	} else if err := json.Unmarshal(trimmed, &msgs); err != nil {
		return nil, loadError(name, "unmarshal entities", err)
	}

	g, err := FromEntities(name, msgs, DefaultTripleOptions())
	if err != nil {
		return nil, loadError(name, "convert triples", err)
	}
	return g, nil
}

func (l *blankLabels) statement(tr rdf.Triple) (Statement, error) {
	s, err := l.fromRDFTerm(tr.Subj)
	if err != nil {
		return Statement{}, err
	}
	p, err := l.fromRDFTerm(tr.Pred)
	if err != nil {
		return Statement{}, err
	}
	o, err := l.fromRDFTerm(tr.Obj)
	if err != nil {
		return Statement{}, err
	}
	return NewStatement(s, p, o)
}

func (l *blankLabels) fromRDFTerm(t rdf.Term) (Term, error) {
	switch v := t.(type) {
	case rdf.IRI:
		return NewNamedNode(v.String()), nil
	case rdf.Blank:
		return l.term(v.String()), nil
	case rdf.Literal:
		if lang := v.Lang(); lang != "" {
			return NewLangLiteral(v.String(), lang), nil
		}
		return NewTypedLiteral(v.String(), v.DataType.String()), nil
	default:
		return Term{}, fmt.Errorf("unsupported term %T", t)
	}
}
