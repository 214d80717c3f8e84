package storage

import "encoding/json"

// Optional is a JSON patch field that distinguishes absent, explicit null,
// and valued states. The zero value is absent.
type Optional[T any] struct {
	present bool
	null    bool
	value   T
}

// Some returns a present Optional holding value.
func Some[T any](value T) Optional[T] {
	return Optional[T]{present: true, value: value}
}

// Null returns a present Optional holding an explicit null.
func Null[T any]() Optional[T] {
	return Optional[T]{present: true, null: true}
}

// Present reports whether the field appeared in the payload at all.
func (o Optional[T]) Present() bool { return o.present }

// IsNull reports whether the field was an explicit JSON null.
func (o Optional[T]) IsNull() bool { return o.null }

// Value returns the decoded value, or the zero value when absent or null.
func (o Optional[T]) Value() T { return o.value }

// UnmarshalJSON records presence; json.Unmarshal only calls it for keys
// that exist in the payload, which is what makes absence observable.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.present = true
	if string(data) == "null" {
		o.null = true
		var zero T
		o.value = zero
		return nil
	}
	return json.Unmarshal(data, &o.value)
}
