/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/delta/errors"
	"github.com/suparena/delta/registry"
)

// Key attribute names of the single-table layout.
const (
	PartitionKey = "PK"
	SortKey      = "SK"
)

// macroValues returns a resolver for the {Field} macros of an index map.
// keyInput is a plain key string (every macro expands to it), a map of field values, or
// an entity (struct or pointer to struct) whose fields are looked up by name.
func macroValues(keyInput any) (func(name string) (string, error), error) {
	switch k := keyInput.(type) {
	case string:
		return func(string) (string, error) { return k, nil }, nil
	case map[string]string:
		return func(name string) (string, error) {
			for field, v := range k {
				if strings.EqualFold(field, name) {
					return v, nil
				}
			}
			return "", nil
		}, nil
	case map[string]any:
		return func(name string) (string, error) {
			for field, v := range k {
				if strings.EqualFold(field, name) {
					return attributeString(v)
				}
			}
			return "", nil
		}, nil
	}

	v := reflect.ValueOf(keyInput)
	for v.Kind() == reflect.Ptr && !v.IsNil() {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, errors.NewValidationError("keyInput", fmt.Sprintf("unsupported key type %T", keyInput))
	}

	fields := registry.Fields(v.Type())
	return func(name string) (string, error) {
		desc, ok := fields.Lookup(name)
		if !ok {
			return "", nil
		}
		f, err := v.FieldByIndexErr(desc.Index)
		if err != nil {
			return "", nil
		}
		return attributeString(f.Interface())
	}, nil
}

// expandMacros fills every template of indexMap from values.
func expandMacros(indexMap map[string]string, values func(string) (string, error)) (map[string]string, error) {
	res := make(map[string]string, len(indexMap))
	for attr, template := range indexMap {
		var firstErr error
		res[attr] = registry.MacroPattern.ReplaceAllStringFunc(template, func(macro string) string {
			s, err := values(strings.Trim(macro, "{}"))
			if err != nil && firstErr == nil {
				firstErr = err
			}
			return s
		})
		if firstErr != nil {
			return nil, fmt.Errorf("expand %s: %w", attr, firstErr)
		}
	}
	return res, nil
}

// attributeString renders a key field value the way DynamoDB stores it.
func attributeString(v any) (string, error) {
	av, err := attributevalue.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal key value: %w", err)
	}

	switch tv := av.(type) {
	case *types.AttributeValueMemberS:
		return tv.Value, nil
	case *types.AttributeValueMemberN:
		return tv.Value, nil
	case *types.AttributeValueMemberBOOL:
		return fmt.Sprintf("%v", tv.Value), nil
	case *types.AttributeValueMemberNULL:
		return "", nil
	default:
		return "", fmt.Errorf("key value of type %T cannot be used in a key", v)
	}
}

// primaryKey builds the PK/SK key of an item from its expanded index attributes.
func primaryKey(expanded map[string]string) (map[string]types.AttributeValue, error) {
	pk := expanded[PartitionKey]
	sk := expanded[SortKey]
	if pk == "" || sk == "" {
		return nil, errors.NewValidationError("key", "expanded index map is missing PK or SK")
	}

	return map[string]types.AttributeValue{
		PartitionKey: &types.AttributeValueMemberS{Value: pk},
		SortKey:      &types.AttributeValueMemberS{Value: sk},
	}, nil
}

// attributeName returns the stored attribute name of field name of t: the dynamodbav tag
// name when there is one, otherwise the Go field name. Unknown names are returned as they are.
func attributeName(t reflect.Type, name string) string {
	desc, ok := registry.Fields(t).Lookup(name)
	if !ok {
		return name
	}
	tag, _, _ := strings.Cut(desc.Tag.Get("dynamodbav"), ",")
	if tag != "" && tag != "-" {
		return tag
	}
	return desc.Name
}
