package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedList is returned when a stored list column cannot be recovered
var ErrMalformedList = errors.New("malformed list value")

type listState uint8

const (
	listValid listState = iota
	listNeedsNormalization
)

// ListField is a list column as read from storage: either a decoded list or
// a raw value that still has to be normalized.
type ListField[T any] struct {
	state listState
	items []T
	raw   []byte
}

// ValidList wraps an already decoded list
func ValidList[T any](items []T) ListField[T] {
	if items == nil {
		items = []T{}
	}
	return ListField[T]{state: listValid, items: items}
}

// NeedsNormalization wraps a raw stored value that is not a JSON array
func NeedsNormalization[T any](raw []byte) ListField[T] {
	return ListField[T]{state: listNeedsNormalization, raw: raw}
}

// DecodeListField classifies a raw JSON column value. NULL and JSON arrays
// are valid lists; anything else needs normalization.
func DecodeListField[T any](raw []byte) ListField[T] {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ValidList[T](nil)
	}
	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err == nil {
			return ValidList(items)
		}
	}
	return NeedsNormalization[T](raw)
}

// IsValid reports whether the field was already a well-formed list
func (f ListField[T]) IsValid() bool {
	return f.state == listValid
}

// Resolve returns the list. A value needing normalization is decoded as a
// JSON string holding a JSON array; when that fails the result is an empty
// list together with ErrMalformedList.
func (f ListField[T]) Resolve() ([]T, error) {
	if f.state == listValid {
		if f.items == nil {
			return []T{}, nil
		}
		return f.items, nil
	}

	var encoded string
	if err := json.Unmarshal(f.raw, &encoded); err != nil {
		return []T{}, fmt.Errorf("%w: %v", ErrMalformedList, err)
	}
	if encoded == "" {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal([]byte(encoded), &items); err != nil {
		return []T{}, fmt.Errorf("%w: %v", ErrMalformedList, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}
