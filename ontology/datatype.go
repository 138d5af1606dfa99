package ontology

import (
	"strings"

	"github.com/c360studio/nidmcheck/vocabulary/rdf"
)

// datatypeParent is the subset of the XSD derivation hierarchy the checker
// understands.
var datatypeParent = map[string]string{
	rdf.XSDInteger:            rdf.XSDDecimal,
	rdf.XSDLong:               rdf.XSDInteger,
	rdf.XSDInt:                rdf.XSDLong,
	rdf.XSDShort:              rdf.XSDInt,
	rdf.XSDByte:               rdf.XSDShort,
	rdf.XSDNonNegativeInteger: rdf.XSDInteger,
	rdf.XSDPositiveInteger:    rdf.XSDNonNegativeInteger,
	rdf.XSDNonPositiveInteger: rdf.XSDInteger,
	rdf.XSDNegativeInteger:    rdf.XSDNonPositiveInteger,
	rdf.XSDUnsignedLong:       rdf.XSDNonNegativeInteger,
	rdf.XSDUnsignedInt:        rdf.XSDUnsignedLong,
	rdf.XSDNormalizedString:   rdf.XSDString,
	rdf.XSDToken:              rdf.XSDNormalizedString,
}

// DatatypeSatisfies reports whether a literal of datatype actual satisfies a
// range of datatype expected: the types are equal, actual is derived from
// expected, or expected is rdfs:Literal.
func DatatypeSatisfies(actual, expected string) bool {
	if expected == rdf.Literal {
		return true
	}
	for dt := actual; dt != ""; dt = datatypeParent[dt] {
		if dt == expected {
			return true
		}
	}
	return false
}

func isDatatype(iri string) bool {
	return strings.HasPrefix(iri, rdf.XSD) || iri == rdf.Literal || iri == rdf.LangString
}
