// Package graph provides the in-memory triple store the validation engine
// works on: terms, statements, read-only graphs with pattern matching, and
// loaders for serialized documents and pipeline triples.
package graph

import (
	"strings"

	"github.com/c360studio/nidmcheck/vocabulary/rdf"
)

// TermKind distinguishes the three kinds of RDF terms.
type TermKind uint8

// Term kinds. The zero value is not a valid kind.
const (
	KindNamedNode TermKind = iota + 1
	KindBlankNode
	KindLiteral
)

// String returns the kind name.
func (k TermKind) String() string {
	switch k {
	case KindNamedNode:
		return "named_node"
	case KindBlankNode:
		return "blank_node"
	case KindLiteral:
		return "literal"
	default:
		return "invalid"
	}
}

// Term is a named node (IRI), a blank node, or a literal.
//
// Term is a comparable value type and can be used as a map key. Two named
// nodes are equal when their IRIs are equal. Blank node labels are only
// meaningful inside the graph that owns them.
type Term struct {
	Kind TermKind
	// Value holds the IRI, the blank node label, or the literal lexical form.
	Value string
	// Datatype is the literal datatype IRI; empty for non-literals.
	Datatype string
	// Lang is the literal language tag, if any.
	Lang string
}

// NewNamedNode returns a named node for the IRI.
func NewNamedNode(iri string) Term {
	return Term{Kind: KindNamedNode, Value: iri}
}

// NewBlankNode returns a blank node with the given graph-local label.
// A leading "_:" is stripped.
func NewBlankNode(label string) Term {
	return Term{Kind: KindBlankNode, Value: strings.TrimPrefix(label, "_:")}
}

// NewLiteral returns a plain literal, which has datatype xsd:string.
func NewLiteral(value string) Term {
	return Term{Kind: KindLiteral, Value: value, Datatype: rdf.XSDString}
}

// NewTypedLiteral returns a literal with an explicit datatype. An empty
// datatype means xsd:string.
func NewTypedLiteral(value, datatype string) Term {
	if datatype == "" {
		datatype = rdf.XSDString
	}
	return Term{Kind: KindLiteral, Value: value, Datatype: datatype}
}

// NewLangLiteral returns a language-tagged literal (datatype rdf:langString).
func NewLangLiteral(value, lang string) Term {
	return Term{Kind: KindLiteral, Value: value, Datatype: rdf.LangString, Lang: strings.ToLower(lang)}
}

// IsNamedNode reports whether t is an IRI.
func (t Term) IsNamedNode() bool { return t.Kind == KindNamedNode }

// IsBlank reports whether t is a blank node.
func (t Term) IsBlank() bool { return t.Kind == KindBlankNode }

// IsLiteral reports whether t is a literal.
func (t Term) IsLiteral() bool { return t.Kind == KindLiteral }

// IsValid reports whether t has a known kind.
func (t Term) IsValid() bool {
	return t.Kind >= KindNamedNode && t.Kind <= KindLiteral
}

// String renders the term in N-Triples syntax.
func (t Term) String() string {
	switch t.Kind {
	case KindNamedNode:
		return "<" + t.Value + ">"
	case KindBlankNode:
		return "_:" + t.Value
	case KindLiteral:
		s := `"` + escapeString(t.Value) + `"`
		switch {
		case t.Lang != "":
			return s + "@" + t.Lang
		case t.Datatype != "" && t.Datatype != rdf.XSDString:
			return s + "^^<" + t.Datatype + ">"
		default:
			return s
		}
	default:
		return "?"
	}
}

// escapeString escapes special characters in strings for N-Triples output.
func escapeString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}
