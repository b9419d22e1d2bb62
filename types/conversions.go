package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
)

// FieldType is the storage type of a patchable field.
type FieldType int

const (
	TypeText FieldType = iota
	TypeInt
	TypeDecimal
	TypeBoolean
)

func (t FieldType) String() string {
	switch t {
	case TypeText:
		return "string"
	case TypeInt:
		return "integer"
	case TypeDecimal:
		return "number"
	case TypeBoolean:
		return "boolean"
	}
	return "unknown"
}

type fromJsonFn func(value interface{}) (interface{}, error)

var converters = map[FieldType]fromJsonFn{
	TypeText:    toText,
	TypeInt:     NumberToInt,
	TypeDecimal: NumberToDecimal,
	TypeBoolean: toBoolean,
}

// FromJsonValue converts a decoded JSON value into the Go value bound for a
// column of type t. nil is passed through unchanged.
func FromJsonValue(value interface{}, t FieldType) (interface{}, error) {
	if value == nil {
		return nil, nil
	}
	converter, ok := converters[t]
	if !ok {
		return nil, fmt.Errorf("unsupported field type %d", t)
	}
	return converter(value)
}

func toText(value interface{}) (interface{}, error) {
	if s, ok := value.(string); ok {
		return s, nil
	}
	return nil, errors.New("wrong value provided for string type")
}

func toBoolean(value interface{}) (interface{}, error) {
	if b, ok := value.(bool); ok {
		return b, nil
	}
	return nil, errors.New("wrong value provided for boolean type")
}

// NumberToInt accepts json.Number, float64 or int values without a fractional part.
func NumberToInt(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case json.Number:
		n, err := strconv.ParseInt(v.String(), 10, 64)
		if err != nil {
			return nil, errors.New("wrong value provided for integer type")
		}
		return n, nil
	case float64:
		if v != math.Trunc(v) {
			return nil, errors.New("wrong value provided for integer type")
		}
		return int64(v), nil
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	}
	return nil, errors.New("wrong value provided for integer type")
}

// NumberToDecimal accepts json.Number, float64 or numeric strings.
func NumberToDecimal(value interface{}) (interface{}, error) {
	var s string
	switch v := value.(type) {
	case json.Number:
		s = v.String()
	case string:
		s = v
	case float64:
		s = strconv.FormatFloat(v, 'f', -1, 64)
	case Decimal:
		return v, nil
	default:
		return nil, errors.New("wrong value provided for number type")
	}

	d, err := NewDecimal(s)
	if err != nil {
		return nil, errors.New("wrong value provided for number type")
	}
	return d, nil
}
