/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package payload

import (
	"errors"
	"fmt"
	"sort"
)

// ErrNotObject is returned when a payload root is not an object with named children.
var ErrNotObject = errors.New("payload is not an object")

// Node is one value of a structured payload.
type Node interface {
	// Decode materializes the node into the value pointed to by v.
	Decode(v any) error
}

// Object is a payload node with named children.
type Object interface {
	Node
	// Fields calls fn for every (name, child) pair, in payload order where the source
	// has one. Iteration stops at the first error fn returns.
	Fields(fn func(name string, child Node) error) error
}

// KindOf describes the value behind n for error messages: the payload kind for nodes
// of this package ("number", "S", "!!map", ...), the Go type otherwise.
func KindOf(n any) string {
	if k, ok := n.(interface{ kind() string }); ok {
		return k.kind()
	}
	return fmt.Sprintf("%T", n)
}

// Value wraps an already materialized Go value as a Node.
func Value(v any) Node {
	return valueNode{v: v}
}

type valueNode struct {
	v any
}

func (n valueNode) Decode(v any) error {
	return Coerce(n.v, v)
}

func (n valueNode) kind() string {
	return fmt.Sprintf("%T", n.v)
}

// FromMap wraps a generic map as an Object. Keys are visited in sorted order.
func FromMap(m map[string]any) Object {
	return mapObject{m: m}
}

type mapObject struct {
	m map[string]any
}

func (o mapObject) Decode(v any) error {
	return Coerce(o.m, v)
}

func (o mapObject) kind() string {
	return "map"
}

func (o mapObject) Fields(fn func(name string, child Node) error) error {
	for _, k := range sortedKeys(o.m) {
		if err := fn(k, valueNode{v: o.m[k]}); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
