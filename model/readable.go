package model

import (
	"unicode"
	"unicode/utf8"
)

// RowReadable is a display form of a row, every value rendered as string.
type RowReadable map[string]string

func (r Row) ToReadable() RowReadable {
	readable := RowReadable{}
	for _, key := range r.Keys() {
		value, _ := r.Get(key)
		readable[key] = value.String()
	}
	return readable
}

func (d RowReadable) GetStringByKey(key string) string {
	if value, ok := d[key]; ok {
		return value
	}
	return ""
}

// Header turns a field name into a column header by upper casing its first letter.
func Header(field string) string {
	first, size := utf8.DecodeRuneInString(field)
	if first == utf8.RuneError {
		return field
	}
	return string(unicode.ToUpper(first)) + field[size:]
}
