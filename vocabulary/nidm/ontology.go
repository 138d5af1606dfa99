package nidm

import _ "embed"

// OntologyTurtle is the NIDM-Results ontology in Turtle syntax.
//
//go:embed nidm-results.ttl
var OntologyTurtle string

// OntologySource is the name given to graphs loaded from OntologyTurtle.
const OntologySource = "nidm-results.ttl"
