/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package payload

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// FromYAML parses a YAML document whose root must be a mapping.
// Keys are visited in document order.
func FromYAML(data []byte) (Object, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return FromYAMLNode(&doc)
}

// FromYAMLNode wraps an already parsed YAML node. Document and alias nodes are unwrapped.
func FromYAMLNode(n *yaml.Node) (Object, error) {
	n = unwrapYAML(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil, ErrNotObject
	}
	return yamlNode{node: n}, nil
}

func unwrapYAML(n *yaml.Node) *yaml.Node {
	for n != nil {
		switch {
		case n.Kind == yaml.DocumentNode && len(n.Content) > 0:
			n = n.Content[0]
		case n.Kind == yaml.AliasNode:
			n = n.Alias
		default:
			return n
		}
	}
	return nil
}

type yamlNode struct {
	node *yaml.Node
}

func (n yamlNode) Decode(v any) error {
	if _, ok := v.(yaml.Unmarshaler); ok {
		return n.node.Decode(v)
	}

	var generic any
	if err := n.node.Decode(&generic); err != nil {
		return err
	}
	return Coerce(generic, v)
}

func (n yamlNode) kind() string {
	return n.node.ShortTag()
}

func (n yamlNode) Fields(fn func(name string, child Node) error) error {
	content := n.node.Content
	for i := 0; i+1 < len(content); i += 2 {
		key := unwrapYAML(content[i])
		if key == nil || key.Kind != yaml.ScalarNode {
			continue
		}
		if err := fn(key.Value, yamlNode{node: unwrapYAML(content[i+1])}); err != nil {
			return err
		}
	}
	return nil
}
