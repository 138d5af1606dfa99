package ontology

import (
	"github.com/c360studio/nidmcheck/vocabulary/rdf"
	"github.com/c360studio/semstreams/vocabulary"
)

// RegistrySource names models built by FromVocabulary.
const RegistrySource = "vocabulary-registry"

// dataTypeIRIs maps semstreams predicate data types to XSD datatypes.
var dataTypeIRIs = map[string]string{
	"string":   rdf.XSDString,
	"bool":     rdf.XSDBoolean,
	"int":      rdf.XSDInteger,
	"int32":    rdf.XSDInt,
	"int64":    rdf.XSDLong,
	"float32":  rdf.XSDFloat,
	"float64":  rdf.XSDDouble,
	"datetime": rdf.XSDDateTime,
	"url":      rdf.XSDAnyURI,
}

// FromVocabulary builds a model from the semstreams predicate registry.
//
// Each registered predicate contributes its standard IRI as a property.
// Entity references whose range is an IRI become class ranges; scalar data
// types become datatype ranges; "any" and unknown types are unconstrained.
// Predicates that are not registered or have no standard IRI are skipped.
func FromVocabulary(classes, predicates []string) *Model {
	m := newModel(RegistrySource)
	for _, c := range classes {
		m.addClass(c)
	}

	for _, name := range predicates {
		meta := vocabulary.GetPredicateMetadata(name)
		if meta == nil || meta.StandardIRI == "" {
			continue
		}
		rng := registryRange(meta.DataType, meta.Range)
		if rng != nil && rng.Kind == ExpectedClass {
			for _, c := range rng.Targets {
				m.addClass(c)
			}
		}
		m.addProperty(meta.StandardIRI, rng, nil)
	}
	return m
}

func registryRange(dataType, rangeIRI string) *RangeSpec {
	switch {
	case dataType == "entity_id":
		if !isIRI(rangeIRI) {
			return nil
		}
		return &RangeSpec{Kind: ExpectedClass, Targets: []string{rangeIRI}}
	case isIRI(dataType):
		return &RangeSpec{Kind: rangeKindOf(dataType), Targets: []string{dataType}}
	}
	if dt, ok := dataTypeIRIs[dataType]; ok {
		return &RangeSpec{Kind: ExpectedLiteralType, Targets: []string{dt}}
	}
	return nil
}

func isIRI(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ':':
			return i > 0 && len(s) > i+1
		case '/', '#', ' ':
			return false
		}
	}
	return false
}
