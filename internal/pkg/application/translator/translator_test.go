package translator

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/diwise/rdf-to-ngsi-ld/pkg/ngsild/types"
	"github.com/diwise/rdf-to-ngsi-ld/pkg/ngsild/types/entities"
	"github.com/diwise/rdf-to-ngsi-ld/pkg/rdf"
	"github.com/matryer/is"
)

const ex string = "http://example.org/"

func iri(name string) rdf.Term {
	return rdf.NewIRI(ex + name)
}

func typeOf(subject, entityType string) rdf.Triple {
	return rdf.NewTriple(iri(subject), rdf.NewIRI(rdf.RDFType), iri(entityType))
}

func TestGroupBySubjectKeepsFirstOccurrenceOrder(t *testing.T) {
	is := is.New(t)

	triples := []rdf.Triple{
		typeOf("B", "Device"),
		typeOf("A", "Device"),
		rdf.NewTriple(iri("B"), iri("name"), rdf.NewLiteral("b", "")),
		rdf.NewTriple(iri("C"), iri("name"), rdf.NewLiteral("c", "")),
		rdf.NewTriple(iri("A"), iri("name"), rdf.NewLiteral("a", "")),
	}

	groups := GroupBySubject(triples)

	is.Equal(len(groups), 3) // should find three distinct subjects
	is.Equal(groups[0].Subject, iri("B"))
	is.Equal(groups[1].Subject, iri("A"))
	is.Equal(groups[2].Subject, iri("C"))

	is.Equal(len(groups[0].Triples), 2) // non contiguous triples should end up in the same group
	is.Equal(groups[0].Triples[1].Object.Value, "b")
}

func TestGroupBySubjectSeparatesBlankNodesFromIRIs(t *testing.T) {
	is := is.New(t)

	triples := []rdf.Triple{
		rdf.NewTriple(rdf.NewIRI("b0"), iri("p"), rdf.NewLiteral("x", "")),
		rdf.NewTriple(rdf.NewBlank("_:b0"), iri("p"), rdf.NewLiteral("y", "")),
	}

	is.Equal(len(GroupBySubject(triples)), 2)
}

func TestGroupBySubjectWithNoTriples(t *testing.T) {
	is := is.New(t)
	is.Equal(len(GroupBySubject(nil)), 0)
}

func TestRoundTrip(t *testing.T) {
	is := is.New(t)

	triples := []rdf.Triple{
		typeOf("A", "Device"),
		rdf.NewTriple(iri("A"), iri("hasName"), rdf.NewLiteral("sensor1", "")),
		rdf.NewTriple(iri("A"), iri("connectedTo"), iri("B")),
		rdf.NewTriple(iri("A"), iri("installedAt"), rdf.NewLiteral("2023-01-01T00:00:00Z", rdf.XSDDateTime)),
	}

	result, err := Translate(triples)
	is.NoErr(err)
	is.Equal(len(result), 1)

	e := result[0]
	is.Equal(e.ID(), ex+"A")
	is.Equal(e.Type(), ex+"Device")

	b, err := json.Marshal(e)
	is.NoErr(err)
	is.Equal(string(b), roundTripJSON)
}

func TestTranslateEmptyInput(t *testing.T) {
	is := is.New(t)

	result, err := Translate([]rdf.Triple{})
	is.NoErr(err)
	is.Equal(len(result), 0)
}

func TestOneEntityPerSubject(t *testing.T) {
	is := is.New(t)

	triples := []rdf.Triple{
		typeOf("A", "Device"),
		typeOf("B", "Device"),
		rdf.NewTriple(iri("A"), iri("value"), rdf.NewLiteral("1", rdf.XSDInteger)),
		typeOf("C", "Sensor"),
		rdf.NewTriple(iri("B"), iri("value"), rdf.NewLiteral("2", rdf.XSDInteger)),
	}

	result, err := Translate(triples)
	is.NoErr(err)
	is.Equal(len(result), 3)
	is.Equal(result[0].ID(), ex+"A")
	is.Equal(result[1].ID(), ex+"B")
	is.Equal(result[2].ID(), ex+"C")
}

func TestLaterValueOverwritesEarlierValue(t *testing.T) {
	is := is.New(t)

	triples := []rdf.Triple{
		typeOf("A", "Device"),
		rdf.NewTriple(iri("A"), iri("name"), rdf.NewLiteral("first", "")),
		rdf.NewTriple(iri("A"), iri("name"), rdf.NewLiteral("second", "")),
		rdf.NewTriple(iri("A"), iri("link"), rdf.NewLiteral("not yet", "")),
		rdf.NewTriple(iri("A"), iri("link"), iri("B")),
	}

	e, err := MapEntity(GroupBySubject(triples)[0])
	is.NoErr(err)

	attrs := attributesOf(e)
	is.Equal(len(attrs), 2) // should have one attribute per distinct predicate
	is.Equal(attrs[ex+"name"].(types.Property).Value(), "second")
	is.Equal(attrs[ex+"link"].(types.Relationship).Object(), ex+"B")
}

func TestLastTypeWins(t *testing.T) {
	is := is.New(t)

	e, err := MapEntity(GroupBySubject([]rdf.Triple{typeOf("A", "Device"), typeOf("A", "Sensor")})[0])
	is.NoErr(err)
	is.Equal(e.Type(), ex+"Sensor")
}

func TestNonLiteralObjectsBecomeRelationships(t *testing.T) {
	is := is.New(t)

	triples := []rdf.Triple{
		typeOf("A", "Device"),
		rdf.NewTriple(iri("A"), iri("owner"), rdf.NewIRI("42")),
		rdf.NewTriple(iri("A"), iri("location"), rdf.NewBlank("loc1")),
	}

	e, err := MapEntity(GroupBySubject(triples)[0])
	is.NoErr(err)

	attrs := attributesOf(e)
	is.Equal(attrs[ex+"owner"].(types.Relationship).Object(), "42")
	is.Equal(attrs[ex+"location"].(types.Relationship).Object(), "_:loc1")
}

func TestLiteralDatatypes(t *testing.T) {
	is := is.New(t)

	triples := []rdf.Triple{
		typeOf("A", "Device"),
		rdf.NewTriple(iri("A"), iri("count"), rdf.NewLiteral("17", rdf.XSDInteger)),
		rdf.NewTriple(iri("A"), iri("ratio"), rdf.NewLiteral("0.25", rdf.XSDDouble)),
		rdf.NewTriple(iri("A"), iri("bytes"), rdf.NewLiteral("255", rdf.XSDNamespace+"unsignedByte")),
		rdf.NewTriple(iri("A"), iri("active"), rdf.NewLiteral("true", rdf.XSDBoolean)),
		rdf.NewTriple(iri("A"), iri("broken"), rdf.NewLiteral("many", rdf.XSDInteger)),
		rdf.NewTriple(iri("A"), iri("label"), rdf.NewLangLiteral("givare", "sv")),
		rdf.NewTriple(iri("A"), iri("code"), rdf.NewLiteral("0042", ex+"code")),
	}

	e, err := MapEntity(GroupBySubject(triples)[0])
	is.NoErr(err)

	attrs := attributesOf(e)
	is.Equal(attrs[ex+"count"].(types.Property).Value(), int64(17))
	is.Equal(attrs[ex+"ratio"].(types.Property).Value(), 0.25)
	is.Equal(attrs[ex+"bytes"].(types.Property).Value(), int64(255))
	is.Equal(attrs[ex+"active"].(types.Property).Value(), true)
	is.Equal(attrs[ex+"broken"].(types.Property).Value(), "many") // unparseable numbers should fall back to text
	is.Equal(attrs[ex+"label"].(types.Property).Value(), "givare")
	is.Equal(attrs[ex+"code"].(types.Property).Value(), "0042")
}

func TestLargeIntegersKeepTheirExactValue(t *testing.T) {
	is := is.New(t)

	triples := []rdf.Triple{
		typeOf("A", "Device"),
		rdf.NewTriple(iri("A"), iri("serial"), rdf.NewLiteral("12345678901234567891", rdf.XSDInteger)),
		rdf.NewTriple(iri("A"), iri("counter"), rdf.NewLiteral("9007199254740993", rdf.XSDNamespace+"long")),
	}

	e, err := MapEntity(GroupBySubject(triples)[0])
	is.NoErr(err)

	b, err := json.Marshal(e)
	is.NoErr(err)

	is.True(strings.Contains(string(b), `"http://example.org/serial":{"type":"Property","value":"12345678901234567891"}`)) // should not fit an int64 and be kept as text
	is.True(strings.Contains(string(b), `"http://example.org/counter":{"type":"Property","value":9007199254740993}`))
}

func TestMissingTypeIsAnError(t *testing.T) {
	is := is.New(t)

	triples := []rdf.Triple{
		rdf.NewTriple(iri("A"), iri("name"), rdf.NewLiteral("untyped", "")),
		typeOf("B", "Device"),
	}

	result, err := Translate(triples)
	is.True(errors.Is(err, ErrMissingType))
	is.Equal(len(result), 1) // the typed entity should still be mapped
	is.Equal(result[0].ID(), ex+"B")
}

func TestInvalidDateTimeIsAnError(t *testing.T) {
	is := is.New(t)

	triples := []rdf.Triple{
		typeOf("A", "Device"),
		rdf.NewTriple(iri("A"), iri("installedAt"), rdf.NewLiteral("yesterday", rdf.XSDDateTime)),
	}

	result, err := Translate(triples)
	is.True(errors.Is(err, ErrInvalidDateTime))
	is.Equal(len(result), 0)
}

func TestTranslateAppliesDecorators(t *testing.T) {
	is := is.New(t)

	result, err := Translate([]rdf.Triple{typeOf("A", "Device")}, entities.Context([]string{"https://example.org/context.jsonld"}))
	is.NoErr(err)

	b, err := json.Marshal(result[0])
	is.NoErr(err)
	is.Equal(string(b), `{"@context":["https://example.org/context.jsonld"],"id":"http://example.org/A","type":"http://example.org/Device"}`)
}

func TestFormatDateTime(t *testing.T) {
	is := is.New(t)

	for input, expected := range map[string]string{
		"2023-01-01T00:00:00Z":           "2023-01-01T00:00:00+00:00",
		"2023-06-15T12:30:45+02:00":      "2023-06-15T12:30:45+02:00",
		"2023-06-15T12:30:45.5-05:30":    "2023-06-15T12:30:45.500000-05:30",
		"2023-06-15T12:30:45.123456789Z": "2023-06-15T12:30:45.123456+00:00",
		"2023-06-15T12:30:45":            "2023-06-15T12:30:45",
		"2023-06-15T12:30:45.000":        "2023-06-15T12:30:45",
		" 2023-06-15T12:30:45.000001Z ":  "2023-06-15T12:30:45.000001+00:00",
	} {
		actual, err := FormatDateTime(input)
		is.NoErr(err)
		is.Equal(actual, expected)
	}

	_, err := FormatDateTime("2023-13-45")
	is.True(errors.Is(err, ErrInvalidDateTime))
}

func attributesOf(e types.Entity) map[string]any {
	attrs := map[string]any{}
	e.ForEachAttribute(func(attributeType, attributeName string, contents any) {
		attrs[attributeName] = contents
	})
	return attrs
}

const roundTripJSON string = `{"@context":["https://uri.etsi.org/ngsi-ld/v1/ngsi-ld-core-context.jsonld"],"http://example.org/connectedTo":{"type":"Relationship","object":"http://example.org/B"},"http://example.org/hasName":{"type":"Property","value":"sensor1"},"http://example.org/installedAt":{"type":"Property","value":{"@type":"DateTime","@value":"2023-01-01T00:00:00+00:00"}},"id":"http://example.org/A","type":"http://example.org/Device"}`
