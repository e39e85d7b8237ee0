package entities

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/diwise/rdf-to-ngsi-ld/pkg/ngsild/types"
	"github.com/diwise/rdf-to-ngsi-ld/pkg/ngsild/types/properties"
	"github.com/diwise/rdf-to-ngsi-ld/pkg/ngsild/types/relationships"
)

type EntityDecoratorFunc func(e *EntityImpl)

func New(entityID, entityType string, decorators ...EntityDecoratorFunc) (types.Entity, error) {
	if entityID == "" {
		return nil, fmt.Errorf("entities must have an id")
	}

	if entityType == "" {
		return nil, fmt.Errorf("entity %s must have a type", entityID)
	}

	e := &EntityImpl{
		entityID:      entityID,
		entityType:    entityType,
		properties:    map[string]types.Property{},
		relationships: map[string]types.Relationship{},
	}

	for _, decorator := range decorators {
		decorator(e)
	}

	// Set the default context if it wasnt decorated by the creator
	if e.context == nil {
		e.context = []string{DefaultContextURL}
	}

	return e, nil
}

func NewFromJSON(body []byte) (types.Entity, error) {
	e := &EntityImpl{}
	err := json.Unmarshal(body, e)

	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal entity: %w", err)
	}

	if e.ID() == "" || e.Type() == "" {
		return nil, fmt.Errorf("failed to parse entity")
	}

	return e, nil
}

type EntityImpl struct {
	entityID   string
	entityType string

	context       []string
	properties    map[string]types.Property
	relationships map[string]types.Relationship
}

func (e EntityImpl) ID() string {
	return e.entityID
}

func (e EntityImpl) Type() string {
	return e.entityType
}

// ForEachAttribute visits properties and relationships ordered by attribute name
func (e EntityImpl) ForEachAttribute(callback func(attributeType, attributeName string, contents any)) error {
	names := make([]string, 0, len(e.properties)+len(e.relationships))

	for k := range e.properties {
		names = append(names, k)
	}

	for k := range e.relationships {
		names = append(names, k)
	}

	sort.Strings(names)

	for _, name := range names {
		if p, ok := e.properties[name]; ok {
			callback(p.Type(), name, p)
		} else if r, ok := e.relationships[name]; ok {
			callback(r.Type(), name, r)
		}
	}

	return nil
}

func (e EntityImpl) MarshalJSON() ([]byte, error) {
	contents := map[string]any{
		"id":   e.ID(),
		"type": e.Type(),
	}

	for k, p := range e.properties {
		contents[k] = p
	}

	for k, r := range e.relationships {
		contents[k] = r
	}

	if len(e.context) > 0 {
		contents["@context"] = e.context
	}

	return json.Marshal(&contents)
}

func (e *EntityImpl) UnmarshalJSON(data []byte) error {
	var contents map[string]any
	err := json.Unmarshal(data, &contents)
	if err != nil {
		return fmt.Errorf("failed to unmarshal entity: %w", err)
	}

	header := struct {
		ID      string          `json:"id"`
		Type    string          `json:"type"`
		Context json.RawMessage `json:"@context"`
	}{}

	err = json.Unmarshal(data, &header)
	if err != nil {
		return fmt.Errorf("failed to unmarshal entity: %w", err)
	}

	// Delete the properties we have already dealt with
	delete(contents, "id")
	delete(contents, "type")
	delete(contents, "@context")

	e.entityID = header.ID
	e.entityType = header.Type

	ctxLength := len(header.Context)

	// a broker answering with application/json leaves the context out
	if ctxLength == 0 {
		e.context = nil
	} else if ctxLength < 2 {
		return fmt.Errorf("invalid context (too short)")
	} else if bytes.HasPrefix(header.Context, []byte("\"")) && bytes.HasSuffix(header.Context, []byte("\"")) {
		ctxString := string(header.Context[1 : ctxLength-1])
		e.context = []string{ctxString}
	} else if bytes.HasPrefix(header.Context, []byte("[")) && bytes.HasSuffix(header.Context, []byte("]")) {
		e.context = []string{}
		json.Unmarshal(header.Context, &e.context)
	} else {
		return fmt.Errorf("unsupported context: %s", string(header.Context))
	}

	e.properties = map[string]types.Property{}
	e.relationships = map[string]types.Relationship{}

	// attributes written by others may use shapes we can not represent, those
	// are left out so that the rest of the entity can still be read
	for k, v := range contents {
		obj, ok := v.(map[string]any)
		if !ok {
			continue
		}

		objType, ok := obj["type"].(string)
		if !ok {
			continue
		}

		if objType == "Property" {
			p, err := properties.UnmarshalP(obj)
			if err != nil {
				continue
			}
			e.properties[k] = p
		} else if objType == "Relationship" {
			r, err := relationships.UnmarshalR(obj)
			if err != nil {
				continue
			}
			e.relationships[k] = r
		}
	}

	return nil
}

func Context(ctx []string) EntityDecoratorFunc {
	return func(e *EntityImpl) {
		e.context = ctx
	}
}

const DefaultContextURL string = "https://uri.etsi.org/ngsi-ld/v1/ngsi-ld-core-context.jsonld"

func DefaultContext() EntityDecoratorFunc {
	return Context([]string{DefaultContextURL})
}

// P sets a property, replacing any earlier property or relationship with the same name
func P(name string, value types.Property) EntityDecoratorFunc {
	return func(e *EntityImpl) {
		delete(e.relationships, name)
		e.properties[name] = value
	}
}

// R sets a relationship, replacing any earlier property or relationship with the same name
func R(name string, value types.Relationship) EntityDecoratorFunc {
	return func(e *EntityImpl) {
		delete(e.properties, name)
		e.relationships[name] = value
	}
}

func Boolean(name string, value bool) EntityDecoratorFunc {
	return P(name, properties.NewBooleanProperty(value))
}

func DateTime(name string, value string) EntityDecoratorFunc {
	return P(name, properties.NewDateTimeProperty(value))
}

func Integer(name string, value int64) EntityDecoratorFunc {
	return P(name, properties.NewIntegerProperty(value))
}

func Number(name string, value float64) EntityDecoratorFunc {
	return P(name, properties.NewNumberProperty(value))
}

func Text(name string, value string) EntityDecoratorFunc {
	return P(name, properties.NewTextProperty(value))
}

func Object(name string, object string) EntityDecoratorFunc {
	return R(name, relationships.NewSingleObjectRelationship(object))
}
