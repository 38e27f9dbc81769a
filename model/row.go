package model

import (
	"bytes"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// IDField is the only mandatory field of a row.
const IDField = "id"

// Row is one record of a table. Fields keep the order in which they were
// set or decoded, which is the order columns are displayed in.
type Row struct {
	fields *orderedmap.OrderedMap[string, Value]
}

// NewRow builds a row of string values from alternating field/value pairs.
// A trailing field without value is set to the empty string.
func NewRow(pairs ...string) Row {
	row := Row{fields: orderedmap.New[string, Value]()}
	for i := 0; i < len(pairs); i += 2 {
		value := ""
		if i+1 < len(pairs) {
			value = pairs[i+1]
		}
		row.fields.Set(pairs[i], StringValue(value))
	}
	return row
}

// ID returns the display string of the id field, empty if the row has none.
func (r Row) ID() string {
	value, _ := r.Get(IDField)
	return value.String()
}

func (r Row) Get(field string) (Value, bool) {
	if r.fields == nil {
		return Value{}, false
	}
	return r.fields.Get(field)
}

// Set stores value under field. New fields are appended after existing ones,
// existing fields keep their position.
func (r *Row) Set(field string, value Value) {
	if r.fields == nil {
		r.fields = orderedmap.New[string, Value]()
	}
	r.fields.Set(field, value)
}

func (r *Row) Delete(field string) {
	if r.fields == nil {
		return
	}
	r.fields.Delete(field)
}

func (r Row) Len() int {
	if r.fields == nil {
		return 0
	}
	return r.fields.Len()
}

func (r Row) IsEmpty() bool {
	return r.Len() == 0
}

// Keys returns the field names in row order.
func (r Row) Keys() []string {
	keys := make([]string, 0, r.Len())
	if r.fields == nil {
		return keys
	}
	for pair := r.fields.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Clone returns a deep copy, the copy does not share state with r.
func (r Row) Clone() Row {
	clone := Row{fields: orderedmap.New[string, Value]()}
	if r.fields == nil {
		return clone
	}
	for pair := r.fields.Oldest(); pair != nil; pair = pair.Next() {
		clone.fields.Set(pair.Key, pair.Value)
	}
	return clone
}

// WithStringID returns a copy whose id is stored as a string value.
func (r Row) WithStringID(id string) Row {
	clone := r.Clone()
	clone.Set(IDField, StringValue(id))
	return clone
}

// Equal reports whether both rows have the same fields in the same order
// with equal values.
func (r Row) Equal(other Row) bool {
	if r.Len() != other.Len() {
		return false
	}
	if r.Len() == 0 {
		return true
	}
	b := other.fields.Oldest()
	for a := r.fields.Oldest(); a != nil; a = a.Next() {
		if b == nil || a.Key != b.Key || !a.Value.Equal(b.Value) {
			return false
		}
		b = b.Next()
	}
	return true
}

func (r Row) MarshalJSON() ([]byte, error) {
	if r.fields == nil {
		return []byte("{}"), nil
	}
	return r.fields.MarshalJSON()
}

func (r *Row) UnmarshalJSON(data []byte) error {
	fields := orderedmap.New[string, Value]()
	if !bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		if err := fields.UnmarshalJSON(data); err != nil {
			return err
		}
	}
	r.fields = fields
	return nil
}

// CloneRows deep copies a row sequence, nil stays nil.
func CloneRows(rows []Row) []Row {
	if rows == nil {
		return nil
	}
	clones := make([]Row, len(rows))
	for i, row := range rows {
		clones[i] = row.Clone()
	}
	return clones
}
