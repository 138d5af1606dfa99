// Package rdf contains the RDF, RDFS, OWL and XSD terms the validation
// engine interprets structurally.
package rdf

// Namespaces.
const (
	RDF  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFS = "http://www.w3.org/2000/01/rdf-schema#"
	OWL  = "http://www.w3.org/2002/07/owl#"
	XSD  = "http://www.w3.org/2001/XMLSchema#"
)

// RDF terms.
const (
	// Type is the "is-a-type-of" predicate.
	Type       = RDF + "type"
	Property   = RDF + "Property"
	LangString = RDF + "langString"
	First      = RDF + "first"
	Rest       = RDF + "rest"
	Nil        = RDF + "nil"
)

// RDFS terms.
const (
	Class         = RDFS + "Class"
	SubClassOf    = RDFS + "subClassOf"
	Domain        = RDFS + "domain"
	Range         = RDFS + "range"
	Literal       = RDFS + "Literal"
	Label         = RDFS + "label"
	Comment       = RDFS + "comment"
	SubPropertyOf = RDFS + "subPropertyOf"
)

// OWL terms.
const (
	OWLClass              = OWL + "Class"
	OWLObjectProperty     = OWL + "ObjectProperty"
	OWLDatatypeProperty   = OWL + "DatatypeProperty"
	OWLAnnotationProperty = OWL + "AnnotationProperty"
	OWLOntology           = OWL + "Ontology"
	OWLUnionOf            = OWL + "unionOf"
	OWLThing              = OWL + "Thing"
)

// XSD datatypes.
const (
	XSDString             = XSD + "string"
	XSDNormalizedString   = XSD + "normalizedString"
	XSDToken              = XSD + "token"
	XSDBoolean            = XSD + "boolean"
	XSDDecimal            = XSD + "decimal"
	XSDInteger            = XSD + "integer"
	XSDLong               = XSD + "long"
	XSDInt                = XSD + "int"
	XSDShort              = XSD + "short"
	XSDByte               = XSD + "byte"
	XSDNonNegativeInteger = XSD + "nonNegativeInteger"
	XSDPositiveInteger    = XSD + "positiveInteger"
	XSDNonPositiveInteger = XSD + "nonPositiveInteger"
	XSDNegativeInteger    = XSD + "negativeInteger"
	XSDUnsignedLong       = XSD + "unsignedLong"
	XSDUnsignedInt        = XSD + "unsignedInt"
	XSDFloat              = XSD + "float"
	XSDDouble             = XSD + "double"
	XSDDateTime           = XSD + "dateTime"
	XSDDate               = XSD + "date"
	XSDAnyURI             = XSD + "anyURI"
)
