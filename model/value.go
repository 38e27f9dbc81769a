package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cast"
)

type ValueKind int

const (
	KindString ValueKind = iota
	KindNumber
)

// Value is a single row cell. It holds either a string or a number,
// numbers are kept in their JSON text form so no precision is lost.
type Value struct {
	kind   ValueKind
	str    string
	number json.Number
}

func StringValue(s string) Value {
	return Value{kind: KindString, str: s}
}

func NumberValue(n json.Number) Value {
	return Value{kind: KindNumber, number: n}
}

// ValueOf converts a scalar Go value into a Value.
// nil becomes the empty string, booleans and composite values are rejected.
func ValueOf(raw any) (Value, error) {
	switch t := raw.(type) {
	case nil:
		return StringValue(""), nil
	case Value:
		return t, nil
	case string:
		return StringValue(t), nil
	case []byte:
		return StringValue(string(t)), nil
	case json.Number:
		return NumberValue(t), nil
	case bool, []any, map[string]any:
		return Value{}, fmt.Errorf("unsupported value type %T", raw)
	}

	s, err := cast.ToStringE(raw)
	if err != nil {
		return Value{}, fmt.Errorf("unsupported value type %T: %w", raw, err)
	}
	return NumberValue(json.Number(s)), nil
}

func (v Value) Kind() ValueKind {
	return v.kind
}

func (v Value) IsNumber() bool {
	return v.kind == KindNumber
}

// String returns the display string of the value.
func (v Value) String() string {
	if v.kind == KindNumber {
		return v.number.String()
	}
	return v.str
}

func (v Value) Equal(other Value) bool {
	return v.kind == other.kind && v.String() == other.String()
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == KindNumber {
		if v.number == "" {
			return []byte("0"), nil
		}
		return []byte(v.number), nil
	}
	return json.Marshal(v.str)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var raw any
	if err := decoder.Decode(&raw); err != nil {
		return err
	}

	switch raw.(type) {
	case nil, string, json.Number:
	default:
		return fmt.Errorf("row values must be strings or numbers, got %s", string(data))
	}

	value, err := ValueOf(raw)
	if err != nil {
		return err
	}
	*v = value
	return nil
}
