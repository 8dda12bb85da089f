/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package payload

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// FromItem wraps a DynamoDB item. Attributes are visited in sorted name order.
func FromItem(item map[string]types.AttributeValue) Object {
	return itemNode{item: item}
}

// FromAttributeValue wraps a DynamoDB map attribute.
func FromAttributeValue(av types.AttributeValue) (Object, error) {
	m, ok := av.(*types.AttributeValueMemberM)
	if !ok {
		return nil, ErrNotObject
	}
	return FromItem(m.Value), nil
}

func withJSONTags(o *attributevalue.DecoderOptions) {
	o.TagKey = "json"
}

type itemNode struct {
	item map[string]types.AttributeValue
}

func (n itemNode) Decode(v any) error {
	return attributeNode{av: &types.AttributeValueMemberM{Value: n.item}}.Decode(v)
}

func (n itemNode) Fields(fn func(name string, child Node) error) error {
	for _, k := range sortedKeys(n.item) {
		if err := fn(k, attributeNode{av: n.item[k]}); err != nil {
			return err
		}
	}
	return nil
}

func (n itemNode) kind() string {
	return "M"
}

type attributeNode struct {
	av types.AttributeValue
}

// kind returns the DynamoDB type descriptor, e.g. "S" for AttributeValueMemberS.
func (n attributeNode) kind() string {
	return strings.TrimPrefix(fmt.Sprintf("%T", n.av), "*types.AttributeValueMember")
}

// Decode tries the attributevalue decoder first, then falls back to a generic decode
// plus Coerce for shapes it does not convert (date strings into time.Time, for one).
func (n attributeNode) Decode(v any) error {
	err := attributevalue.UnmarshalWithOptions(n.av, v, withJSONTags)
	if err == nil {
		return nil
	}

	var generic any
	if gerr := attributevalue.Unmarshal(n.av, &generic); gerr != nil {
		return err
	}
	if cerr := Coerce(generic, v); cerr != nil {
		return err
	}
	return nil
}
