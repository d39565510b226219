// Package patch provides a JSON field that tells apart a key that was
// omitted, a key sent as null, and a key sent with a value.
package patch

import (
	"bytes"
	"encoding/json"
)

type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func Value[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

func Null[T any]() Field[T] {
	return Field[T]{Set: true, Null: true}
}

// UnmarshalJSON is only invoked when the key is present, including for null.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		f.Null = true
		f.Value = zero
		return nil
	}
	f.Null = false
	return json.Unmarshal(data, &f.Value)
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set || f.Null {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// HasValue reports whether a non-null value was supplied.
func (f Field[T]) HasValue() bool {
	return f.Set && !f.Null
}

// IsNull reports whether the key was sent as null.
func (f Field[T]) IsNull() bool {
	return f.Set && f.Null
}

func (f Field[T]) Get() (T, bool) {
	return f.Value, f.HasValue()
}
