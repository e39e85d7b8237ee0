package translator

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/diwise/rdf-to-ngsi-ld/pkg/ngsild/types"
	"github.com/diwise/rdf-to-ngsi-ld/pkg/ngsild/types/entities"
	"github.com/diwise/rdf-to-ngsi-ld/pkg/rdf"
)

var integerDatatypes = map[string]struct{}{
	rdf.XSDInteger: {},

	rdf.XSDNamespace + "int":                {},
	rdf.XSDNamespace + "long":               {},
	rdf.XSDNamespace + "short":              {},
	rdf.XSDNamespace + "byte":               {},
	rdf.XSDNamespace + "nonNegativeInteger": {},
	rdf.XSDNamespace + "nonPositiveInteger": {},
	rdf.XSDNamespace + "positiveInteger":    {},
	rdf.XSDNamespace + "negativeInteger":    {},
	rdf.XSDNamespace + "unsignedLong":       {},
	rdf.XSDNamespace + "unsignedInt":        {},
	rdf.XSDNamespace + "unsignedShort":      {},
	rdf.XSDNamespace + "unsignedByte":       {},
}

var decimalDatatypes = map[string]struct{}{
	rdf.XSDDecimal: {},
	rdf.XSDDouble:  {},
	rdf.XSDFloat:   {},
}

// Translate groups the triples by subject and maps every group to an entity.
// Groups that can not be mapped are left out of the result and their errors
// are joined into the returned error.
func Translate(triples []rdf.Triple, decorators ...entities.EntityDecoratorFunc) ([]types.Entity, error) {
	groups := GroupBySubject(triples)
	result := make([]types.Entity, 0, len(groups))

	var errs []error

	for _, g := range groups {
		e, err := MapEntity(g, decorators...)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		result = append(result, e)
	}

	return result, errors.Join(errs...)
}

// MapEntity builds one entity from the triples of a single subject. Later
// triples for the same predicate replace earlier ones.
func MapEntity(group SubjectGroup, decorators ...entities.EntityDecoratorFunc) (types.Entity, error) {
	entityID := group.Subject.ID()
	entityType := ""

	attributes := make([]entities.EntityDecoratorFunc, 0, len(decorators)+len(group.Triples))
	attributes = append(attributes, decorators...)

	for _, t := range group.Triples {
		predicate := t.Predicate.ID()

		if predicate == rdf.RDFType {
			entityType = t.Object.ID()
			continue
		}

		if !t.Object.IsLiteral() {
			attributes = append(attributes, entities.Object(predicate, t.Object.ID()))
			continue
		}

		attr, err := literalAttribute(predicate, t.Object)
		if err != nil {
			return nil, fmt.Errorf("failed to map %s of %s: %w", predicate, entityID, err)
		}
		attributes = append(attributes, attr)
	}

	if entityType == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingType, entityID)
	}

	return entities.New(entityID, entityType, attributes...)
}

func literalAttribute(name string, literal rdf.Term) (entities.EntityDecoratorFunc, error) {
	lexical := literal.Value

	if literal.Datatype == rdf.XSDDateTime {
		value, err := FormatDateTime(lexical)
		if err != nil {
			return nil, err
		}
		return entities.DateTime(name, value), nil
	}

	if literal.Datatype == rdf.XSDBoolean {
		if b, err := strconv.ParseBool(strings.TrimSpace(lexical)); err == nil {
			return entities.Boolean(name, b), nil
		}
	}

	// integers that do not fit in an int64 are kept as text rather than rounded
	if _, ok := integerDatatypes[literal.Datatype]; ok {
		if i, err := strconv.ParseInt(strings.TrimSpace(lexical), 10, 64); err == nil {
			return entities.Integer(name, i), nil
		}
		return entities.Text(name, lexical), nil
	}

	if _, ok := decimalDatatypes[literal.Datatype]; ok {
		n, err := strconv.ParseFloat(strings.TrimSpace(lexical), 64)
		if err == nil && !math.IsInf(n, 0) && !math.IsNaN(n) {
			return entities.Number(name, n), nil
		}
	}

	return entities.Text(name, lexical), nil
}
