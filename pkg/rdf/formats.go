package rdf

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

type Format string

const (
	Turtle   Format = "turtle"
	NTriples Format = "nt"
	NQuads   Format = "nquads"
)

var ErrUnsupportedFormat = errors.New("unsupported rdf format")

// ParseFormat accepts the canonical format names as well as their common file
// extensions.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "turtle", "ttl":
		return Turtle, nil
	case "nt", "ntriples", "n-triples":
		return NTriples, nil
	case "nquads", "nq", "n-quads":
		return NQuads, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// Decode reads a complete document from r and returns its triples in document
// order. Graph labels of quads are dropped.
func Decode(r io.Reader, format Format) ([]Triple, error) {
	switch format {
	case Turtle, NTriples:
		return decodeTriples(r, format)
	case NQuads:
		return decodeQuads(r)
	}

	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(format))
}
