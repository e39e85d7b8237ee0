package rdf

import (
	"fmt"
	"io"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/nquads"
)

func decodeQuads(r io.Reader) ([]Triple, error) {
	// raw mode keeps typed literals as quad.TypedString so that datatypes survive
	reader := nquads.NewReader(r, true)
	triples := []Triple{}

	for {
		q, err := reader.ReadQuad()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s document: %w", NQuads, err)
		}

		s, err := fromQuadValue(q.Subject)
		if err != nil {
			return nil, err
		}
		p, err := fromQuadValue(q.Predicate)
		if err != nil {
			return nil, err
		}
		o, err := fromQuadValue(q.Object)
		if err != nil {
			return nil, err
		}

		triples = append(triples, NewTriple(s, p, o))
	}

	return triples, nil
}

func fromQuadValue(v quad.Value) (Term, error) {
	switch value := v.(type) {
	case quad.IRI:
		return NewIRI(string(value)), nil
	case quad.BNode:
		return NewBlank(string(value)), nil
	case quad.String:
		return NewLiteral(string(value), XSDString), nil
	case quad.TypedString:
		return NewLiteral(string(value.Value), string(value.Type)), nil
	case quad.LangString:
		return NewLangLiteral(string(value.Value), value.Lang), nil
	case nil:
		return Term{}, fmt.Errorf("failed to decode %s document: missing term", NQuads)
	}

	return Term{}, fmt.Errorf("failed to decode %s document: unsupported term %T", NQuads, v)
}
