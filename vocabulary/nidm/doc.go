// Package nidm provides the NIDM-Results vocabulary: class and property IRIs,
// semstreams predicate registrations, and the embedded ontology document the
// validator checks exports against.
//
// # Semstreams Integration
//
// Predicates use three-level dotted notation (nidm.category.property) and are
// registered in init() with vocabulary.Register. Each registration carries the
// standard IRI used in exported RDF, a data type, and for entity references
// the class expected as range:
//
//	meta := vocabulary.GetPredicateMetadata(nidm.GeneratedBy)
//	meta.StandardIRI // http://www.w3.org/ns/prov#wasGeneratedBy
//	meta.Range       // http://www.w3.org/ns/prov#Activity
//
// # Ontology
//
// OntologyTurtle holds a Turtle rendition of the NIDM-Results classes and
// properties (with their PROV-O superclasses). It is the default ontology for
// a validation run when no ontology file is configured.
//
// # Class Hierarchy
//
//	prov:Entity
//	  nidm:Map
//	    nidm:StatisticMap, nidm:ContrastMap, nidm:ExcursionSet, ...
//	  nidm:DesignMatrix, nidm:Cluster, nidm:Peak, ...
//	prov:Activity
//	  nidm:ModelParametersEstimation, nidm:ContrastEstimation, nidm:Inference
//	prov:Agent
//	  prov:SoftwareAgent
//	    spm:SPM
package nidm
