/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package delta

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/suparena/delta/errors"
	"github.com/suparena/delta/payload"
	"github.com/suparena/delta/registry"
)

// Delta is a sparse update of T: it records which fields of T were supplied, and their
// values. Fields that were not supplied are unset and are never written by Patch.
//
// A Delta is filled once, when it is decoded, and is read-only afterwards. It is not
// safe for concurrent decoding but may be read and patched from several goroutines.
type Delta[T any] struct {
	values map[string]Value
}

// New returns an empty delta in which every field is unset.
func New[T any]() *Delta[T] {
	return &Delta[T]{values: make(map[string]Value)}
}

// Type returns the entity type T.
func (d *Delta[T]) Type() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Field returns the value of the named field, set or not. The name is matched like
// payload member names: Go name or json tag, ignoring case.
func (d *Delta[T]) Field(name string) (Value, error) {
	desc, ok := registry.FieldsOf[T]().Lookup(name)
	if !ok {
		return Value{}, errors.NewUnknownFieldError(registry.TypeName(d.Type()), name)
	}
	if v, ok := d.values[strings.ToLower(desc.Name)]; ok {
		return v, nil
	}
	return Value{name: desc.Name, typ: desc.Type}, nil
}

// IsSet reports whether the named field was supplied. Unknown names are never set.
func (d *Delta[T]) IsSet(name string) bool {
	v, err := d.Field(name)
	return err == nil && v.IsSet()
}

// Names returns the Go names of the set fields, sorted.
func (d *Delta[T]) Names() []string {
	names := make([]string, 0, len(d.values))
	for _, v := range d.values {
		names = append(names, v.name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of set fields.
func (d *Delta[T]) Len() int {
	return len(d.values)
}

// String implements fmt.Stringer.
func (d *Delta[T]) String() string {
	return fmt.Sprintf("Delta[%s]%v", d.Type(), d.Names())
}

// populate records raw as the value of the named field. Unknown names and fields that
// already hold a value are skipped, so the first of several case variants wins.
func (d *Delta[T]) populate(name string, raw any) error {
	desc, ok := registry.FieldsOf[T]().Lookup(name)
	if !ok {
		return nil
	}

	key := strings.ToLower(desc.Name)
	if _, done := d.values[key]; done {
		return nil
	}

	rv, err := assign(desc.Type, raw)
	if err != nil {
		return errors.NewCoercionError(registry.TypeName(d.Type()), desc.Name, payload.KindOf(raw), err)
	}

	if d.values == nil {
		d.values = make(map[string]Value)
	}
	d.values[key] = Value{name: desc.Name, typ: desc.Type, raw: rv.Interface(), set: true}
	return nil
}

// Lookup returns the typed slot of the named field. V must be the declared field type.
//
//	total, err := delta.Lookup[float64](d, "Total")
func Lookup[V, T any](d *Delta[T], name string) (Slot[V], error) {
	v, err := d.Field(name)
	if err != nil {
		return Slot[V]{}, err
	}
	if want := reflect.TypeOf((*V)(nil)).Elem(); v.Type() != want {
		return Slot[V]{}, errors.NewInvalidAccessorError(registry.TypeName(d.Type()),
			fmt.Sprintf("field %s is %s, not %s", v.Name(), v.Type(), want))
	}
	return slotOf[V](v), nil
}

// Get returns the typed slot for key. A zero key yields an unset slot.
func Get[T, V any](d *Delta[T], key registry.Field[T, V]) Slot[V] {
	if !key.Valid() {
		return Slot[V]{}
	}
	return slotOf[V](d.values[strings.ToLower(key.Name())])
}

// Select returns the typed slot of the field accessor points at.
//
//	placed, err := delta.Select(d, func(o *Order) *time.Time { return &o.Placed })
func Select[T, V any](d *Delta[T], accessor func(*T) *V) (Slot[V], error) {
	key, err := registry.FieldFor(accessor)
	if err != nil {
		return Slot[V]{}, err
	}
	return Get(d, key), nil
}
