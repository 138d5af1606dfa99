package ontology

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/c360studio/nidmcheck/graph"
	"github.com/c360studio/nidmcheck/vocabulary/nidm"
	"github.com/c360studio/nidmcheck/vocabulary/rdf"
	errs "github.com/c360studio/semstreams/pkg/errs"
)

// LoadError reports that an ontology document is unreadable or malformed.
// A validation run cannot proceed without an ontology, so the wrapped error
// is classified fatal.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load ontology %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func loadError(source, action string, err error) error {
	return &LoadError{
		Source: source,
		Err:    errs.WrapFatal(err, "ontology", "Load", action),
	}
}

var errEmptyOntology = errors.New("document declares no classes or properties")

// propertyTypes are the rdf:type objects that declare a property.
var propertyTypes = []string{
	rdf.OWLObjectProperty,
	rdf.OWLDatatypeProperty,
	rdf.OWLAnnotationProperty,
	rdf.Property,
}

// Load parses an ontology document.
func Load(r io.Reader, format graph.Format, source string) (*Model, error) {
	g, err := graph.Load(r, format, source)
	if err != nil {
		return nil, loadError(source, "parse", err)
	}
	return FromGraph(g)
}

// LoadFile loads an ontology file, inferring the format from its extension.
func LoadFile(path string) (*Model, error) {
	g, err := graph.LoadFile(path)
	if err != nil {
		return nil, loadError(path, "parse", err)
	}
	return FromGraph(g)
}

// Default loads the embedded NIDM-Results ontology.
func Default() (*Model, error) {
	return Load(strings.NewReader(nidm.OntologyTurtle), graph.FormatTurtle, nidm.OntologySource)
}

// FromGraph interprets an already parsed ontology graph.
//
// Classes are subjects typed owl:Class or rdfs:Class and named nodes on either
// side of rdfs:subClassOf. Properties are subjects typed as OWL object,
// datatype or annotation properties, or rdf:Property.
func FromGraph(g *graph.Graph) (*Model, error) {
	m := newModel(g.Name())
	typ := graph.NewNamedNode(rdf.Type)

	for _, classType := range []string{rdf.OWLClass, rdf.Class} {
		obj := graph.NewNamedNode(classType)
		for st := range g.Match(nil, &typ, &obj) {
			if st.Subject.IsNamedNode() {
				m.addClass(st.Subject.Value)
			}
		}
	}

	subClassOf := graph.NewNamedNode(rdf.SubClassOf)
	for st := range g.Match(nil, &subClassOf, nil) {
		if st.Subject.IsNamedNode() && st.Object.IsNamedNode() {
			m.addSuperclass(st.Subject.Value, st.Object.Value)
		}
	}

	rangePred := graph.NewNamedNode(rdf.Range)
	domainPred := graph.NewNamedNode(rdf.Domain)
	for _, propType := range propertyTypes {
		obj := graph.NewNamedNode(propType)
		for st := range g.Match(nil, &typ, &obj) {
			if !st.Subject.IsNamedNode() {
				continue
			}
			prop := st.Subject
			var rng *RangeSpec
			for r := range g.Match(&prop, &rangePred, nil) {
				rng = rangeFromTerm(g, r.Object)
				break
			}
			var domain []string
			for d := range g.Match(&prop, &domainPred, nil) {
				if d.Object.IsNamedNode() {
					domain = append(domain, d.Object.Value)
				}
			}
			m.addProperty(prop.Value, rng, domain)
		}
	}

	if len(m.classOrder) == 0 && len(m.propOrder) == 0 {
		return nil, loadError(g.Name(), "interpret", errEmptyOntology)
	}
	return m, nil
}

// rangeFromTerm converts an rdfs:range object. Unions of datatypes or of
// classes become multi-target specs; unions mixing both, and anonymous
// ranges that are not unions, are left unconstrained.
func rangeFromTerm(g *graph.Graph, obj graph.Term) *RangeSpec {
	if obj.IsNamedNode() {
		return &RangeSpec{Kind: rangeKindOf(obj.Value), Targets: []string{obj.Value}}
	}
	if !obj.IsBlank() {
		return nil
	}

	unionOf := graph.NewNamedNode(rdf.OWLUnionOf)
	for st := range g.Match(&obj, &unionOf, nil) {
		members := listMembers(g, st.Object)
		if len(members) == 0 {
			return nil
		}
		kind := rangeKindOf(members[0])
		for _, mem := range members[1:] {
			if rangeKindOf(mem) != kind {
				return nil
			}
		}
		return &RangeSpec{Kind: kind, Targets: members}
	}
	return nil
}

func rangeKindOf(iri string) RangeKind {
	if isDatatype(iri) {
		return ExpectedLiteralType
	}
	return ExpectedClass
}

// listMembers walks an rdf:first/rdf:rest collection and returns its named
// members. Malformed or cyclic lists end the walk.
func listMembers(g *graph.Graph, head graph.Term) []string {
	first := graph.NewNamedNode(rdf.First)
	rest := graph.NewNamedNode(rdf.Rest)
	var out []string
	seen := make(map[graph.Term]bool)
	for node := head; !(node.IsNamedNode() && node.Value == rdf.Nil); {
		if seen[node] || node.IsLiteral() {
			break
		}
		seen[node] = true
		for st := range g.Match(&node, &first, nil) {
			if st.Object.IsNamedNode() {
				out = append(out, st.Object.Value)
			}
			break
		}
		next, ok := graph.Term{}, false
		for st := range g.Match(&node, &rest, nil) {
			next, ok = st.Object, true
			break
		}
		if !ok {
			break
		}
		node = next
	}
	return out
}
