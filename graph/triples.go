package graph

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/c360studio/nidmcheck/vocabulary/rdf"
	"github.com/c360studio/semstreams/message"
	"github.com/c360studio/semstreams/vocabulary"
)

// EntityIngestMessage is the entity document emitted by the export
// pipeline: an entity ID and the triples describing it.
type EntityIngestMessage struct {
	ID        string           `json:"id"`
	Triples   []message.Triple `json:"triples"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// TripleOptions controls how pipeline triples become statements.
type TripleOptions struct {
	// EntityBase prefixes dotted entity IDs to form IRIs.
	EntityBase string
	// PredicateBase prefixes dotted predicates that have no registered IRI.
	PredicateBase string
}

// DefaultTripleOptions returns the default IRI bases.
func DefaultTripleOptions() TripleOptions {
	return TripleOptions{
		EntityBase:    "https://nidmcheck.dev/entity/",
		PredicateBase: "https://nidmcheck.dev/ontology/",
	}
}

// FromEntities converts entity documents into a frozen graph.
func FromEntities(name string, msgs []EntityIngestMessage, opts TripleOptions) (*Graph, error) {
	var triples []message.Triple
	for _, m := range msgs {
		triples = append(triples, m.Triples...)
	}
	return FromTriples(name, triples, opts)
}

// FromTriples converts semstreams pipeline triples into a frozen graph.
//
// Subjects and string objects that are absolute IRIs stay IRIs, "_:" labels
// become blank nodes, and dotted entity IDs are placed under EntityBase.
// Predicates registered in the semstreams vocabulary resolve to their
// standard IRI. Other Go values become typed literals.
func FromTriples(name string, triples []message.Triple, opts TripleOptions) (*Graph, error) {
	g := New(name)
	for i, t := range triples {
		subject := opts.nodeTerm(t.Subject)
		if subject.IsLiteral() {
			subject = NewNamedNode(opts.entityIRI(t.Subject))
		}
		st, err := NewStatement(subject, opts.predicateTerm(t.Predicate), opts.objectTerm(t.Object))
		if err != nil {
			return nil, fmt.Errorf("triple %d: %w", i, err)
		}
		if err := g.Add(st); err != nil {
			return nil, fmt.Errorf("triple %d: %w", i, err)
		}
	}
	return g.Freeze(), nil
}

func (o TripleOptions) predicateTerm(p string) Term {
	if isAbsoluteIRI(p) {
		return NewNamedNode(p)
	}
	if meta := vocabulary.GetPredicateMetadata(p); meta != nil && meta.StandardIRI != "" {
		return NewNamedNode(meta.StandardIRI)
	}
	return NewNamedNode(o.PredicateBase + p)
}

// nodeTerm resolves a string into an IRI, a blank node, or a literal.
func (o TripleOptions) nodeTerm(v string) Term {
	switch {
	case strings.HasPrefix(v, "_:"):
		return NewBlankNode(v)
	case isAbsoluteIRI(v):
		return NewNamedNode(v)
	case looksLikeEntityID(v):
		return NewNamedNode(o.entityIRI(v))
	}
	if _, err := time.Parse(time.RFC3339, v); err == nil {
		return NewTypedLiteral(v, rdf.XSDDateTime)
	}
	return NewLiteral(v)
}

func (o TripleOptions) objectTerm(obj any) Term {
	switch v := obj.(type) {
	case string:
		return o.nodeTerm(v)
	case int:
		return NewTypedLiteral(strconv.Itoa(v), rdf.XSDInteger)
	case int32:
		return NewTypedLiteral(strconv.FormatInt(int64(v), 10), rdf.XSDInteger)
	case int64:
		return NewTypedLiteral(strconv.FormatInt(v, 10), rdf.XSDInteger)
	case float32:
		return NewTypedLiteral(strconv.FormatFloat(float64(v), 'g', -1, 32), rdf.XSDDouble)
	case float64:
		return NewTypedLiteral(strconv.FormatFloat(v, 'g', -1, 64), rdf.XSDDouble)
	case bool:
		return NewTypedLiteral(strconv.FormatBool(v), rdf.XSDBoolean)
	case time.Time:
		return NewTypedLiteral(v.UTC().Format(time.RFC3339Nano), rdf.XSDDateTime)
	default:
		return NewLiteral(fmt.Sprintf("%v", v))
	}
}

// entityIRI converts a dotted entity ID into an IRI under EntityBase.
// Example: "acme.nidm.example001.statistic_map.tstat" becomes
// "<base>acme/nidm/example001/statistic_map/tstat".
func (o TripleOptions) entityIRI(id string) string {
	return o.EntityBase + strings.ReplaceAll(id, ".", "/")
}

func isAbsoluteIRI(s string) bool {
	return strings.HasPrefix(s, "http://") ||
		strings.HasPrefix(s, "https://") ||
		strings.HasPrefix(s, "urn:")
}

// looksLikeEntityID matches dotted IDs with at least four parts and no spaces.
func looksLikeEntityID(s string) bool {
	return !strings.ContainsAny(s, " \t\n") && len(strings.Split(s, ".")) >= 4
}
