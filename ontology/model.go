// Package ontology holds the vocabulary an exported graph is validated
// against: declared classes with their superclasses, and declared properties
// with their value ranges.
//
// A Model is immutable once built. It can be loaded from an ontology document
// (Load, LoadFile), derived from the semstreams predicate registry
// (FromVocabulary), or combined from several sources (Merge).
package ontology

import (
	"slices"
	"strings"

	"github.com/c360studio/nidmcheck/graph"
	"github.com/c360studio/nidmcheck/vocabulary/rdf"
)

// RangeKind distinguishes class ranges from literal datatype ranges.
type RangeKind int

const (
	// ExpectedClass requires the object to be an instance of a target class.
	ExpectedClass RangeKind = iota + 1
	// ExpectedLiteralType requires the object to be a literal of a target datatype.
	ExpectedLiteralType
)

func (k RangeKind) String() string {
	switch k {
	case ExpectedClass:
		return "class"
	case ExpectedLiteralType:
		return "datatype"
	default:
		return "unconstrained"
	}
}

// RangeSpec is the declared range of a property. A nil *RangeSpec means the
// range is unconstrained. Several targets express a union: satisfying any one
// of them is enough.
type RangeSpec struct {
	Kind    RangeKind
	Targets []string
}

func (r *RangeSpec) String() string {
	if r == nil {
		return "unconstrained"
	}
	return strings.Join(r.Targets, " | ")
}

// Property is a declared property.
type Property struct {
	IRI    string
	Range  *RangeSpec
	Domain []string
}

// Model is an immutable ontology snapshot.
type Model struct {
	source       string
	classes      map[string]struct{}
	classOrder   []string
	superclasses map[string][]string
	properties   map[string]*Property
	propOrder    []string
}

func newModel(source string) *Model {
	return &Model{
		source:       source,
		classes:      make(map[string]struct{}),
		superclasses: make(map[string][]string),
		properties:   make(map[string]*Property),
	}
}

// Source names the document or registry the model was built from.
func (m *Model) Source() string { return m.source }

// IsKnownClass reports whether node is a declared class.
func (m *Model) IsKnownClass(node graph.Term) bool {
	if !node.IsNamedNode() {
		return false
	}
	_, ok := m.classes[node.Value]
	return ok
}

// IsKnownProperty reports whether node is a declared property.
func (m *Model) IsKnownProperty(node graph.Term) bool {
	if !node.IsNamedNode() {
		return false
	}
	_, ok := m.properties[node.Value]
	return ok
}

// DeclaredRange returns the range declared for predicate. It returns nil both
// for unconstrained and for unknown properties; use IsKnownProperty to tell
// them apart.
func (m *Model) DeclaredRange(predicate graph.Term) *RangeSpec {
	p, ok := m.properties[predicate.Value]
	if !ok || !predicate.IsNamedNode() {
		return nil
	}
	return p.Range
}

// Property returns the declaration of a property IRI.
func (m *Model) Property(iri string) (Property, bool) {
	p, ok := m.properties[iri]
	if !ok {
		return Property{}, false
	}
	return *p, true
}

// Classes returns declared class IRIs in declaration order.
func (m *Model) Classes() []string { return slices.Clone(m.classOrder) }

// Properties returns declared property IRIs in declaration order.
func (m *Model) Properties() []string { return slices.Clone(m.propOrder) }

// IsSubClassOf reports whether sub equals super or reaches it through
// rdfs:subClassOf. Every known class is a subclass of owl:Thing.
func (m *Model) IsSubClassOf(sub, super string) bool {
	if sub == super {
		return true
	}
	if super == rdf.OWLThing {
		_, ok := m.classes[sub]
		return ok
	}
	return slices.Contains(m.Superclasses(sub), super)
}

// Superclasses returns the transitive superclasses of class, nearest first.
// Cycles in the hierarchy are tolerated.
func (m *Model) Superclasses(class string) []string {
	var out []string
	seen := map[string]bool{class: true}
	queue := []string{class}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		for _, parent := range m.superclasses[c] {
			if seen[parent] {
				continue
			}
			seen[parent] = true
			out = append(out, parent)
			queue = append(queue, parent)
		}
	}
	return out
}

func (m *Model) addClass(iri string) {
	if _, ok := m.classes[iri]; ok {
		return
	}
	m.classes[iri] = struct{}{}
	m.classOrder = append(m.classOrder, iri)
}

func (m *Model) addSuperclass(sub, super string) {
	m.addClass(sub)
	m.addClass(super)
	if !slices.Contains(m.superclasses[sub], super) {
		m.superclasses[sub] = append(m.superclasses[sub], super)
	}
}

// addProperty declares iri, keeping the first range and domain seen.
func (m *Model) addProperty(iri string, rng *RangeSpec, domain []string) {
	p, ok := m.properties[iri]
	if !ok {
		p = &Property{IRI: iri}
		m.properties[iri] = p
		m.propOrder = append(m.propOrder, iri)
	}
	if p.Range == nil && rng != nil {
		p.Range = rng
	}
	for _, d := range domain {
		if !slices.Contains(p.Domain, d) {
			p.Domain = append(p.Domain, d)
		}
	}
}

// Merge combines models into a new one. Classes, hierarchy edges and
// properties are unioned; when several models constrain the same property the
// first declared range wins.
func Merge(models ...*Model) *Model {
	var sources []string
	for _, m := range models {
		if m != nil && m.source != "" {
			sources = append(sources, m.source)
		}
	}
	out := newModel(strings.Join(sources, "+"))
	for _, m := range models {
		if m == nil {
			continue
		}
		for _, c := range m.classOrder {
			out.addClass(c)
			for _, parent := range m.superclasses[c] {
				out.addSuperclass(c, parent)
			}
		}
		for _, iri := range m.propOrder {
			p := m.properties[iri]
			out.addProperty(iri, p.Range, p.Domain)
		}
	}
	return out
}
