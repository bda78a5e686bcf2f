// Package optional provides a JSON field type that remembers whether it was
// present in the payload, and whether it was an explicit null.
//
//	{}                   → IsSet()=false
//	{"sku": null}        → IsSet()=true, IsNull()=true
//	{"sku": "ABC-1"}     → IsSet()=true, IsNull()=false, Get()="ABC-1"
//
// Partial updates use it to tell "leave alone" apart from "clear".
package optional

import (
	"bytes"
	"encoding/json"
)

type Value[T any] struct {
	set   bool
	null  bool
	value T
}

// Of returns a present, non-null value.
func Of[T any](v T) Value[T] {
	return Value[T]{set: true, value: v}
}

// Null returns a present, explicitly-null value.
func Null[T any]() Value[T] {
	return Value[T]{set: true, null: true}
}

func (o Value[T]) IsSet() bool { return o.set }

func (o Value[T]) IsNull() bool { return o.set && o.null }

// Get returns the value and true when present and not null.
func (o Value[T]) Get() (T, bool) {
	if !o.set || o.null {
		var zero T
		return zero, false
	}
	return o.value, true
}

// Ptr returns nil for null, otherwise a pointer to a copy of the value.
// Callers check IsSet first.
func (o Value[T]) Ptr() *T {
	if o.null || !o.set {
		return nil
	}
	v := o.value
	return &v
}

// Raw exposes the held value to reflection-based validators.
func (o Value[T]) Raw() any { return o.value }

func (o *Value[T]) UnmarshalJSON(data []byte) error {
	o.set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		o.null = true
		o.value = zero
		return nil
	}
	o.null = false
	return json.Unmarshal(data, &o.value)
}

func (o Value[T]) MarshalJSON() ([]byte, error) {
	if !o.set || o.null {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}
