/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package payload

import (
	"encoding/json"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/bytedance/sonic/ast"
)

// jsonAPI keeps numbers as json.Number so integers survive until the target type is known.
var jsonAPI = sonic.Config{UseNumber: true}.Froze()

// FromJSON parses a JSON document whose root must be an object.
// Members are visited in document order.
func FromJSON(data []byte) (Object, error) {
	root, err := sonic.Get(data)
	if err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if err := root.LoadAll(); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if root.TypeSafe() != ast.V_OBJECT {
		return nil, ErrNotObject
	}
	return jsonNode{node: root}, nil
}

type jsonNode struct {
	node ast.Node
}

func (n jsonNode) Decode(v any) error {
	raw, err := n.node.Raw()
	if err != nil {
		return err
	}
	var uerr error
	if _, ok := v.(json.Unmarshaler); ok {
		if uerr = jsonAPI.UnmarshalFromString(raw, v); uerr == nil {
			return nil
		}
	}

	// Unmarshalers such as time.Time reject forms Coerce accepts (plain dates).
	var generic any
	if err := jsonAPI.UnmarshalFromString(raw, &generic); err != nil {
		return err
	}
	if err := Coerce(generic, v); err != nil {
		if uerr != nil {
			return uerr
		}
		return err
	}
	return nil
}

func (n jsonNode) kind() string {
	switch n.node.TypeSafe() {
	case ast.V_NULL:
		return "null"
	case ast.V_TRUE, ast.V_FALSE:
		return "boolean"
	case ast.V_NUMBER:
		return "number"
	case ast.V_STRING:
		return "string"
	case ast.V_ARRAY:
		return "array"
	case ast.V_OBJECT:
		return "object"
	default:
		return "json"
	}
}

func (n jsonNode) Fields(fn func(name string, child Node) error) error {
	it, err := n.node.Properties()
	if err != nil {
		return err
	}

	var pair ast.Pair
	for it.Next(&pair) {
		if err := fn(pair.Key, jsonNode{node: pair.Value}); err != nil {
			return err
		}
	}
	return nil
}
