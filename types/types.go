// types package contains the public API types
// that are shared between both REST and GraphQL
package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Route represents a request route to be served
type Route struct {
	Method  string
	Pattern string
	Handler http.Handler
}

// FieldValue is a single requested change: the logical field name and its new value.
// A nil Value sets the field to NULL.
type FieldValue struct {
	Field string
	Value interface{}
}

// Patch is an ordered set of field changes used for partial updates. Fields that
// are not present are left unchanged.
type Patch []FieldValue

// Fields returns the field names in patch order.
func (p Patch) Fields() []string {
	fields := make([]string, len(p))
	for i, fv := range p {
		fields[i] = fv.Field
	}
	return fields
}

// Get returns the value for field and whether the field is present.
func (p Patch) Get(field string) (interface{}, bool) {
	for _, fv := range p {
		if fv.Field == field {
			return fv.Value, true
		}
	}
	return nil, false
}

// Set replaces the value of field in place, or appends it when not present.
func (p *Patch) Set(field string, value interface{}) {
	for i := range *p {
		if (*p)[i].Field == field {
			(*p)[i].Value = value
			return
		}
	}
	*p = append(*p, FieldValue{Field: field, Value: value})
}

// UnmarshalJSON decodes a JSON object keeping the order of its keys. Numbers are
// decoded as json.Number. A repeated key keeps its first position and its last value.
func (p *Patch) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("patch must be a JSON object")
	}

	patch := Patch{}
	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return err
		}
		field, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v", tok)
		}

		var value interface{}
		if err := dec.Decode(&value); err != nil {
			return err
		}
		patch.Set(field, value)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*p = patch
	return nil
}

// MarshalJSON encodes the patch as a JSON object in patch order.
func (p Patch) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, fv := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(fv.Field)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(fv.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
