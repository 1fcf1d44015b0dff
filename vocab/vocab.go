// Package vocab collects the well-known IRI constants every RDF consumer
// needs: rdf:type, the XSD datatypes, and the SHACL namespace. They are
// plain string constants, initialized once at program start and never
// mutated.
package vocab

// RDF namespace.
const (
	RDFType string = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
)

// RDFS namespace.
const (
	RDFSComment       string = "http://www.w3.org/2000/01/rdf-schema#comment"
	RDFSLabel         string = "http://www.w3.org/2000/01/rdf-schema#label"
	RDFSSubClassOf    string = "http://www.w3.org/2000/01/rdf-schema#subClassOf"
	RDFSSubPropertyOf string = "http://www.w3.org/2000/01/rdf-schema#subPropertyOf"
	RDFSDomain        string = "http://www.w3.org/2000/01/rdf-schema#domain"
	RDFSRange         string = "http://www.w3.org/2000/01/rdf-schema#range"
	RDFSDatatype      string = "http://www.w3.org/2000/01/rdf-schema#Datatype"
)

// OWL namespace.
const (
	OWLClass    string = "http://www.w3.org/2002/07/owl#Class"
	OWLSameAs   string = "http://www.w3.org/2002/07/owl#sameAs"
	OWLOntology string = "http://www.w3.org/2002/07/owl#Ontology"
)

// XSD datatypes.
const (
	XSDString   string = "http://www.w3.org/2001/XMLSchema#string"
	XSDBoolean  string = "http://www.w3.org/2001/XMLSchema#boolean"
	XSDDecimal  string = "http://www.w3.org/2001/XMLSchema#decimal"
	XSDInteger  string = "http://www.w3.org/2001/XMLSchema#integer"
	XSDDouble   string = "http://www.w3.org/2001/XMLSchema#double"
	XSDFloat    string = "http://www.w3.org/2001/XMLSchema#float"
	XSDDate     string = "http://www.w3.org/2001/XMLSchema#date"
	XSDDateTime string = "http://www.w3.org/2001/XMLSchema#dateTime"
)

// SHACL namespace: shapes this module's shacl package constructs against.
const (
	SHACLNodeShape     string = "http://www.w3.org/ns/shacl#NodeShape"
	SHACLPropertyShape string = "http://www.w3.org/ns/shacl#PropertyShape"
	SHACLViolation     string = "http://www.w3.org/ns/shacl#Violation"
	SHACLWarning       string = "http://www.w3.org/ns/shacl#Warning"
	SHACLInfo          string = "http://www.w3.org/ns/shacl#Info"
)
