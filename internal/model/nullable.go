package model

import (
	"bytes"
	"encoding/json"
)

// Nullable records whether a JSON field was present, so an explicit null
// can be told apart from an omitted field. Value is nil for null.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

// Null returns a present field holding null.
func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

// Some returns a present field holding v.
func Some[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Value: &v}
}

// UnmarshalJSON implements json.Unmarshaler. It is only invoked for keys
// present in the payload, including those set to null.
func (n *Nullable[T]) UnmarshalJSON(b []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		n.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}
