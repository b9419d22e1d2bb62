package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/inf.v0"
)

// Decimal is an arbitrary precision decimal stored as NUMERIC. The zero value
// represents NULL.
type Decimal struct {
	Dec *inf.Dec
}

// NewDecimal parses s into a Decimal.
func NewDecimal(s string) (Decimal, error) {
	d, ok := new(inf.Dec).SetString(s)
	if !ok {
		return Decimal{}, fmt.Errorf("invalid decimal %q", s)
	}
	return Decimal{Dec: d}, nil
}

// MustDecimal is like NewDecimal but panics on invalid input.
func MustDecimal(s string) Decimal {
	d, err := NewDecimal(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Decimal) Valid() bool {
	return d.Dec != nil
}

func (d Decimal) String() string {
	if d.Dec == nil {
		return ""
	}
	return d.Dec.String()
}

func (d Decimal) MarshalJSON() ([]byte, error) {
	if d.Dec == nil {
		return []byte("null"), nil
	}
	return json.Marshal(d.Dec.String())
}

// UnmarshalJSON accepts a JSON number, a numeric string or null.
func (d *Decimal) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		d.Dec = nil
		return nil
	}

	var s string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	} else {
		s = string(data)
	}

	parsed, err := NewDecimal(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Scan implements sql.Scanner.
func (d *Decimal) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		d.Dec = nil
		return nil
	case []byte:
		return d.scanString(string(v))
	case string:
		return d.scanString(v)
	case float64:
		return d.scanString(strconv.FormatFloat(v, 'f', -1, 64))
	case int64:
		d.Dec = inf.NewDec(v, 0)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Decimal", src)
	}
}

func (d *Decimal) scanString(s string) error {
	parsed, err := NewDecimal(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer.
func (d Decimal) Value() (driver.Value, error) {
	if d.Dec == nil {
		return nil, nil
	}
	return d.Dec.String(), nil
}
