package rdf

import (
	"fmt"
	"io"

	knakk "github.com/knakk/rdf"
)

func decodeTriples(r io.Reader, format Format) ([]Triple, error) {
	f := knakk.Turtle
	if format == NTriples {
		f = knakk.NTriples
	}

	dec := knakk.NewTripleDecoder(r, f)
	triples := []Triple{}

	for {
		tr, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s document: %w", format, err)
		}

		triples = append(triples, NewTriple(
			fromKnakkTerm(tr.Subj),
			fromKnakkTerm(tr.Pred),
			fromKnakkTerm(tr.Obj),
		))
	}

	return triples, nil
}

func fromKnakkTerm(t knakk.Term) Term {
	switch t.Type() {
	case knakk.TermBlank:
		return NewBlank(t.String())
	case knakk.TermLiteral:
		lit, ok := t.(knakk.Literal)
		if !ok {
			return NewLiteral(t.String(), "")
		}
		if lit.Lang() != "" {
			return NewLangLiteral(lit.String(), lit.Lang())
		}
		return NewLiteral(lit.String(), lit.DataType.String())
	}

	return NewIRI(t.String())
}
