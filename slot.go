/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package delta

import (
	"reflect"

	"github.com/suparena/delta/payload"
)

// Value is the untyped view of one field of a delta.
type Value struct {
	name string
	typ  reflect.Type
	raw  any
	set  bool
}

// IsSet reports whether the field was supplied.
func (v Value) IsSet() bool {
	return v.set
}

// Raw returns the stored value, already converted to the field type. Nil when unset.
func (v Value) Raw() any {
	return v.raw
}

// Type returns the declared field type.
func (v Value) Type() reflect.Type {
	return v.typ
}

// Name returns the Go field name.
func (v Value) Name() string {
	return v.name
}

// Slot is the typed view of one field of a delta. The zero Slot is unset.
type Slot[V any] struct {
	set   bool
	value V
}

// IsSet reports whether the field was supplied.
func (s Slot[V]) IsSet() bool {
	return s.set
}

// Value returns the supplied value, or the zero value when unset.
func (s Slot[V]) Value() V {
	return s.value
}

// ValueOr returns the supplied value, or def when unset.
func (s Slot[V]) ValueOr(def V) V {
	if !s.set {
		return def
	}
	return s.value
}

func slotOf[V any](v Value) Slot[V] {
	if !v.set {
		return Slot[V]{}
	}
	out, _ := v.raw.(V)
	return Slot[V]{set: true, value: out}
}

// assign converts raw to a value of type t. Payload nodes decode themselves, assignable
// Go values are taken as they are, anything else is coerced. Nil is the zero value.
func assign(t reflect.Type, raw any) (reflect.Value, error) {
	out := reflect.New(t)

	switch v := raw.(type) {
	case nil:
	case payload.Node:
		if err := v.Decode(out.Interface()); err != nil {
			return reflect.Value{}, err
		}
	default:
		rv := reflect.ValueOf(raw)
		if rv.Type().AssignableTo(t) {
			out.Elem().Set(rv)
		} else if err := payload.Coerce(raw, out.Interface()); err != nil {
			return reflect.Value{}, err
		}
	}
	return out.Elem(), nil
}
