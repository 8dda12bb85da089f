/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package delta

import (
	"bytes"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"gopkg.in/yaml.v3"

	"github.com/suparena/delta/payload"
)

// Decode builds a delta from the members of obj, in the order obj yields them.
// Members that name no field of T are skipped; when several members name the same field
// (differing only in case) the first one wins. A member whose value cannot be converted
// to its field type aborts decoding with a CoercionError.
func Decode[T any](obj payload.Object) (*Delta[T], error) {
	d := New[T]()
	if err := d.decode(obj); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Delta[T]) decode(obj payload.Object) error {
	return obj.Fields(func(name string, child payload.Node) error {
		return d.populate(name, child)
	})
}

// FromJSON decodes a JSON object.
func FromJSON[T any](data []byte) (*Delta[T], error) {
	obj, err := payload.FromJSON(data)
	if err != nil {
		return nil, err
	}
	return Decode[T](obj)
}

// FromYAML decodes a YAML mapping.
func FromYAML[T any](data []byte) (*Delta[T], error) {
	obj, err := payload.FromYAML(data)
	if err != nil {
		return nil, err
	}
	return Decode[T](obj)
}

// FromItem decodes a DynamoDB item. Attribute names match json tags or Go field names.
func FromItem[T any](item map[string]types.AttributeValue) (*Delta[T], error) {
	return Decode[T](payload.FromItem(item))
}

// FromMap decodes a generic map, such as one produced by a form or query decoder.
func FromMap[T any](m map[string]any) (*Delta[T], error) {
	return Decode[T](payload.FromMap(m))
}

// UnmarshalJSON implements json.Unmarshaler. A JSON null leaves the delta unchanged.
func (d *Delta[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	obj, err := payload.FromJSON(data)
	if err != nil {
		return err
	}
	return d.replace(obj)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Delta[T]) UnmarshalYAML(node *yaml.Node) error {
	obj, err := payload.FromYAMLNode(node)
	if err != nil {
		return err
	}
	return d.replace(obj)
}

// UnmarshalDynamoDBAttributeValue implements attributevalue.Unmarshaler.
func (d *Delta[T]) UnmarshalDynamoDBAttributeValue(av types.AttributeValue) error {
	if _, ok := av.(*types.AttributeValueMemberNULL); ok {
		return nil
	}
	obj, err := payload.FromAttributeValue(av)
	if err != nil {
		return err
	}
	return d.replace(obj)
}

func (d *Delta[T]) replace(obj payload.Object) error {
	fresh := New[T]()
	if err := fresh.decode(obj); err != nil {
		return err
	}
	*d = *fresh
	return nil
}
