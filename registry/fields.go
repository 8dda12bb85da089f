/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"reflect"
	"sort"
	"strings"
	"sync"
)

// Descriptor describes one exported field of an entity type.
type Descriptor struct {
	// Name is the Go field name.
	Name string
	// Alias is the json tag name when it differs from Name, otherwise empty.
	Alias string
	// Type is the declared value type of the field.
	Type reflect.Type
	// Index is the index path for reflect.Value.FieldByIndex, through embedded structs.
	Index []int
	// Offset is the byte offset of the field inside the entity. Only meaningful when Direct is true.
	Offset uintptr
	// Direct reports that no pointer is dereferenced on the way to the field.
	Direct bool
	// Tag is the raw struct tag.
	Tag reflect.StructTag
}

// TypeFields is the cached field directory of one entity type.
type TypeFields struct {
	typ    reflect.Type
	fields []Descriptor
	byName map[string]int
}

var fieldCache sync.Map // map[reflect.Type]*TypeFields

// Fields returns the field directory of t, computing it on first use.
// Pointer types resolve to their element type; non-struct types yield an empty directory.
func Fields(t reflect.Type) *TypeFields {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil {
		return &TypeFields{byName: map[string]int{}}
	}

	if tf, ok := fieldCache.Load(t); ok {
		return tf.(*TypeFields)
	}

	tf, _ := fieldCache.LoadOrStore(t, buildFields(t))
	return tf.(*TypeFields)
}

// FieldsOf returns the field directory of T.
func FieldsOf[T any]() *TypeFields {
	return Fields(reflect.TypeOf((*T)(nil)).Elem())
}

func buildFields(t reflect.Type) *TypeFields {
	tf := &TypeFields{typ: t, byName: map[string]int{}}
	if t.Kind() != reflect.Struct {
		return tf
	}

	for _, sf := range reflect.VisibleFields(t) {
		if sf.Anonymous || !sf.IsExported() {
			continue
		}

		offset, direct := fieldOffset(t, sf.Index)
		d := Descriptor{
			Name:   sf.Name,
			Alias:  jsonAlias(sf),
			Type:   sf.Type,
			Index:  sf.Index,
			Offset: offset,
			Direct: direct,
			Tag:    sf.Tag,
		}

		key := strings.ToLower(d.Name)
		if _, taken := tf.byName[key]; taken {
			continue
		}
		tf.fields = append(tf.fields, d)
		tf.byName[key] = len(tf.fields) - 1
	}

	// Aliases never shadow a Go field name.
	for i, d := range tf.fields {
		if d.Alias == "" {
			continue
		}
		key := strings.ToLower(d.Alias)
		if _, taken := tf.byName[key]; !taken {
			tf.byName[key] = i
		}
	}

	return tf
}

func fieldOffset(t reflect.Type, index []int) (uintptr, bool) {
	var offset uintptr
	for i, idx := range index {
		if t.Kind() == reflect.Ptr {
			return 0, false
		}
		sf := t.Field(idx)
		offset += sf.Offset
		if i < len(index)-1 {
			t = sf.Type
		}
	}
	return offset, true
}

func jsonAlias(sf reflect.StructField) string {
	tag := sf.Tag.Get("json")
	if tag == "" || tag == "-" {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" || strings.EqualFold(name, sf.Name) {
		return ""
	}
	return name
}

// Type returns the entity type the directory describes.
func (tf *TypeFields) Type() reflect.Type {
	return tf.typ
}

// Lookup finds a field by Go name or json alias, ignoring case.
func (tf *TypeFields) Lookup(name string) (Descriptor, bool) {
	i, ok := tf.byName[strings.ToLower(name)]
	if !ok {
		return Descriptor{}, false
	}
	return tf.fields[i], true
}

// LookupName finds a field by Go name, ignoring case. json aliases do not match.
func (tf *TypeFields) LookupName(name string) (Descriptor, bool) {
	d, ok := tf.Lookup(name)
	if !ok || !strings.EqualFold(d.Name, name) {
		return Descriptor{}, false
	}
	return d, true
}

// All returns the descriptors in declaration order.
func (tf *TypeFields) All() []Descriptor {
	out := make([]Descriptor, len(tf.fields))
	copy(out, tf.fields)
	return out
}

// Names returns the Go field names, sorted.
func (tf *TypeFields) Names() []string {
	names := make([]string, 0, len(tf.fields))
	for _, d := range tf.fields {
		names = append(names, d.Name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of fields.
func (tf *TypeFields) Len() int {
	return len(tf.fields)
}

// TypeName renders t for error messages.
func TypeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
