package properties

import (
	"fmt"
	"strconv"

	"github.com/diwise/rdf-to-ngsi-ld/pkg/ngsild/types"
)

// PropertyImpl contains the mandatory Type property
type PropertyImpl struct {
	Type string `json:"type"`
}

// NumberProperty holds a float64 Value
type NumberProperty struct {
	PropertyImpl
	Val float64 `json:"value"`
}

func (np *NumberProperty) Type() string {
	return np.PropertyImpl.Type
}

func (np *NumberProperty) Value() any {
	return np.Val
}

// NewNumberProperty is a convenience function for creating NumberProperty instances
func NewNumberProperty(value float64) *NumberProperty {
	return &NumberProperty{
		PropertyImpl: PropertyImpl{Type: "Property"},
		Val:          value,
	}
}

// IntegerProperty holds an exact int64 Value
type IntegerProperty struct {
	PropertyImpl
	Val int64 `json:"value"`
}

func (ip *IntegerProperty) Type() string {
	return ip.PropertyImpl.Type
}

func (ip *IntegerProperty) Value() any {
	return ip.Val
}

func NewIntegerProperty(value int64) *IntegerProperty {
	return &IntegerProperty{
		PropertyImpl: PropertyImpl{Type: "Property"},
		Val:          value,
	}
}

// BooleanProperty holds a bool Value
type BooleanProperty struct {
	PropertyImpl
	Val bool `json:"value"`
}

func (bp *BooleanProperty) Type() string {
	return bp.PropertyImpl.Type
}

func (bp *BooleanProperty) Value() any {
	return bp.Val
}

func NewBooleanProperty(value bool) *BooleanProperty {
	return &BooleanProperty{
		PropertyImpl: PropertyImpl{Type: "Property"},
		Val:          value,
	}
}

// DateTimeValue is the structured value of a DateTimeProperty
type DateTimeValue struct {
	Type  string `json:"@type"`
	Value string `json:"@value"`
}

// DateTimeProperty stores date and time values (surprise, surprise ...)
type DateTimeProperty struct {
	PropertyImpl
	Val DateTimeValue `json:"value"`
}

// NewDateTimeProperty creates a property from an ISO 8601 time stamp
func NewDateTimeProperty(value string) *DateTimeProperty {
	return &DateTimeProperty{
		PropertyImpl: PropertyImpl{Type: "Property"},
		Val: DateTimeValue{
			Type:  "DateTime",
			Value: value,
		},
	}
}

func (dtp *DateTimeProperty) Type() string {
	return dtp.PropertyImpl.Type
}

func (dtp *DateTimeProperty) Value() any {
	return dtp.Val
}

// TextProperty stores values of type text
type TextProperty struct {
	PropertyImpl
	Val string `json:"value"`
}

func (tp *TextProperty) Type() string {
	return tp.PropertyImpl.Type
}

func (tp *TextProperty) Value() any {
	return tp.Val
}

// NewTextProperty accepts a value as a string and returns a new TextProperty
func NewTextProperty(value string) *TextProperty {
	return &TextProperty{
		PropertyImpl: PropertyImpl{Type: "Property"},
		Val:          value,
	}
}

// TextListProperty stores values of type text list
type TextListProperty struct {
	PropertyImpl
	Val []string `json:"value"`
}

func (tlp *TextListProperty) Type() string {
	return tlp.PropertyImpl.Type
}

func (tlp *TextListProperty) Value() any {
	return tlp.Val
}

// NewTextListProperty accepts a value as a string array and returns a new TextListProperty
func NewTextListProperty(value []string) *TextListProperty {
	return &TextListProperty{
		PropertyImpl: PropertyImpl{Type: "Property"},
		Val:          value,
	}
}

func UnmarshalP(body map[string]any) (types.Property, error) {
	value, ok := body["value"]
	if !ok {
		return nil, fmt.Errorf("properties without a value attribute are not supported")
	}

	if value == nil {
		// nil values are not allowed, but can happen anyway ...
		// here we handle them by returning an empty slice of strings instead
		return NewTextListProperty([]string{}), nil
	}

	switch typedValue := value.(type) {
	case float64:
		return NewNumberProperty(typedValue), nil
	case bool:
		return NewBooleanProperty(typedValue), nil
	case string:
		return NewTextProperty(sanitizeString(typedValue)), nil
	case map[string]any:
		return unmarshalPropertyObject(typedValue)
	case []any:
		values := []string{}
		for _, v := range typedValue {
			str, ok := v.(string)
			if ok {
				values = append(values, sanitizeString(str))
			}
		}
		return NewTextListProperty(values), nil
	default:
		return NewTextProperty(fmt.Sprintf("support for type %T not implemented", typedValue)), nil
	}
}

func sanitizeString(input string) string {
	if len(input) >= 6 {
		for runeIdx, stopIdx := 0, len(input)-6; runeIdx <= stopIdx; runeIdx++ {
			if input[runeIdx] == '\\' {
				if input[runeIdx+1] == 'u' {
					r, err := strconv.ParseInt(input[runeIdx+2:runeIdx+6], 16, 32)
					if err != nil {
						continue
					}

					return input[:runeIdx] + string(rune(r)) + sanitizeString(input[runeIdx+6:])
				}
			}
		}
	}

	return input
}

func unmarshalPropertyObject(object map[string]any) (types.Property, error) {
	objectType, ok := object["@type"]
	if !ok {
		return nil, fmt.Errorf("property objects without a @type attribute are not supported")
	}

	objectValue, ok := object["@value"]
	if !ok {
		return nil, fmt.Errorf("property objects without a @value attribute are not supported")
	}

	objectTypeStr, ok := objectType.(string)
	if !ok {
		return nil, fmt.Errorf("property object @type not convertible to string")
	}

	switch objectTypeStr {
	case "DateTime":
		dateTimeStr, ok := objectValue.(string)
		if !ok {
			return nil, fmt.Errorf("datetime property @value not convertible to string")
		}
		return NewDateTimeProperty(dateTimeStr), nil
	default:
		return nil, fmt.Errorf("property object of type %s not supported", objectTypeStr)
	}
}
