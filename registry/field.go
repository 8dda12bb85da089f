/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"fmt"
	"reflect"

	"github.com/suparena/delta/errors"
)

// Field is a typed key naming one field of T whose value type is V.
// Keys are validated when built, so code holding a Field never names a missing field.
type Field[T, V any] struct {
	name string
}

// Name returns the Go name of the field.
func (f Field[T, V]) Name() string {
	return f.name
}

// Valid reports whether the key was built by NewField, MustField or FieldFor.
func (f Field[T, V]) Valid() bool {
	return f.name != ""
}

// String implements fmt.Stringer.
func (f Field[T, V]) String() string {
	return fmt.Sprintf("%s.%s", typeOf[T](), f.name)
}

// NewField builds the key for the field of T called name (case-insensitive).
func NewField[T, V any](name string) (Field[T, V], error) {
	t := typeOf[T]()
	d, ok := Fields(t).Lookup(name)
	if !ok {
		return Field[T, V]{}, errors.NewUnknownFieldError(TypeName(t), name)
	}
	if want := typeOf[V](); d.Type != want {
		return Field[T, V]{}, errors.NewInvalidAccessorError(TypeName(t),
			fmt.Sprintf("field %s is %s, not %s", d.Name, d.Type, want))
	}
	return Field[T, V]{name: d.Name}, nil
}

// MustField is like NewField but panics on error. Intended for generated key tables.
func MustField[T, V any](name string) Field[T, V] {
	f, err := NewField[T, V](name)
	if err != nil {
		panic(err)
	}
	return f
}

// FieldFor resolves the field whose address accessor returns:
//
//	total, err := registry.FieldFor(func(o *Order) *float64 { return &o.Total })
//
// The accessor must return the address of exactly one field of T (directly declared or
// promoted through embedded structs). Nested members, computed values and addresses
// outside T are rejected with an InvalidAccessorError.
func FieldFor[T, V any](accessor func(*T) *V) (f Field[T, V], err error) {
	t := typeOf[T]()
	if accessor == nil {
		return f, errors.NewInvalidAccessorError(TypeName(t), "accessor is nil")
	}

	base := new(T)
	var p *V
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = errors.NewInvalidAccessorError(TypeName(t), fmt.Sprintf("accessor panicked: %v", r))
			}
		}()
		p = accessor(base)
	}()
	if err != nil {
		return f, err
	}
	if p == nil {
		return f, errors.NewInvalidAccessorError(TypeName(t), "accessor returned nil")
	}

	start := reflect.ValueOf(base).Pointer()
	addr := reflect.ValueOf(p).Pointer()
	if addr < start || addr >= start+t.Size() {
		return f, errors.NewInvalidAccessorError(TypeName(t), "accessor does not return a field of the entity")
	}

	offset := addr - start
	want := typeOf[V]()
	for _, d := range Fields(t).All() {
		if d.Direct && d.Offset == offset && d.Type == want {
			return Field[T, V]{name: d.Name}, nil
		}
	}
	return f, errors.NewInvalidAccessorError(TypeName(t), "accessor does not denote a direct field read")
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
