package nidm

import (
	"strings"
	"testing"

	"github.com/c360studio/semstreams/vocabulary"
)

func TestPredicatesRegistered(t *testing.T) {
	for _, pred := range Predicates() {
		t.Run(pred, func(t *testing.T) {
			meta := vocabulary.GetPredicateMetadata(pred)
			if meta == nil || meta.Description == "" {
				t.Fatalf("predicate %s not registered or missing description", pred)
			}
			if meta.StandardIRI == "" {
				t.Errorf("predicate %s has no standard IRI", pred)
			}
			if !strings.HasPrefix(pred, "nidm.") {
				t.Errorf("predicate %s is outside the nidm domain", pred)
			}
		})
	}
}

func TestEntityPredicatesHaveClassRange(t *testing.T) {
	classes := make(map[string]bool)
	for _, c := range Classes() {
		classes[c] = true
	}

	for _, pred := range Predicates() {
		meta := vocabulary.GetPredicateMetadata(pred)
		if meta == nil || meta.DataType != "entity_id" {
			continue
		}
		if !classes[meta.Range] {
			t.Errorf("predicate %s range %q is not a NIDM-Results class", pred, meta.Range)
		}
	}
}

func TestOntologyDocumentMentionsEveryIRI(t *testing.T) {
	local := func(iri string) string {
		if i := strings.LastIndexAny(iri, "#/"); i >= 0 {
			return iri[i+1:]
		}
		return iri
	}

	for _, c := range Classes() {
		if !strings.Contains(OntologyTurtle, ":"+local(c)+" a owl:Class") {
			t.Errorf("class %s not declared in %s", c, OntologySource)
		}
	}
	for _, pred := range Predicates() {
		iri := vocabulary.GetPredicateMetadata(pred).StandardIRI
		if !strings.Contains(OntologyTurtle, ":"+local(iri)+" a owl:") {
			t.Errorf("property %s not declared in %s", iri, OntologySource)
		}
	}
}
