// Package rdf holds a small, parser independent model of RDF triples and the
// decoders that produce it.
package rdf

import "strings"

const (
	RDFNamespace string = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	XSDNamespace string = "http://www.w3.org/2001/XMLSchema#"

	RDFType       string = RDFNamespace + "type"
	RDFLangString string = RDFNamespace + "langString"

	XSDString   string = XSDNamespace + "string"
	XSDBoolean  string = XSDNamespace + "boolean"
	XSDDecimal  string = XSDNamespace + "decimal"
	XSDDouble   string = XSDNamespace + "double"
	XSDFloat    string = XSDNamespace + "float"
	XSDInteger  string = XSDNamespace + "integer"
	XSDDateTime string = XSDNamespace + "dateTime"
)

type TermKind int

const (
	KindIRI TermKind = iota
	KindBlank
	KindLiteral
)

// Term is a subject, predicate or object of a triple. Value holds the IRI, the
// blank node label or the lexical form of a literal.
type Term struct {
	Kind     TermKind
	Value    string
	Datatype string
	Language string
}

func NewIRI(iri string) Term {
	return Term{Kind: KindIRI, Value: iri}
}

func NewBlank(label string) Term {
	return Term{Kind: KindBlank, Value: strings.TrimPrefix(label, "_:")}
}

// NewLiteral creates a typed literal. An empty datatype defaults to xsd:string.
func NewLiteral(lexical, datatype string) Term {
	if datatype == "" {
		datatype = XSDString
	}
	return Term{Kind: KindLiteral, Value: lexical, Datatype: datatype}
}

func NewLangLiteral(lexical, language string) Term {
	return Term{Kind: KindLiteral, Value: lexical, Datatype: RDFLangString, Language: language}
}

func (t Term) IsLiteral() bool {
	return t.Kind == KindLiteral
}

// ID returns the identifier of a term as used for entity ids, types and
// relationship objects. Blank nodes keep their _: prefix.
func (t Term) ID() string {
	if t.Kind == KindBlank {
		return "_:" + t.Value
	}
	return t.Value
}

func (t Term) String() string {
	switch t.Kind {
	case KindIRI:
		return "<" + t.Value + ">"
	case KindBlank:
		return "_:" + t.Value
	}

	if t.Language != "" {
		return `"` + t.Value + `"@` + t.Language
	}

	return `"` + t.Value + `"^^<` + t.Datatype + `>`
}

type Triple struct {
	Subject   Term
	Predicate Term
	Object    Term
}

func NewTriple(subject, predicate, object Term) Triple {
	return Triple{Subject: subject, Predicate: predicate, Object: object}
}
