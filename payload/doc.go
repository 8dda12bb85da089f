/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

/*
Package payload adapts structured input documents to a single navigable shape.

A Delta is built by walking the top-level members of an incoming document and handing
each member to the field it names. The document may arrive as JSON, YAML, a DynamoDB
item or a plain Go map; this package hides the difference behind two small interfaces:

	type Node interface {
	    Decode(v any) error
	}

	type Object interface {
	    Node
	    Fields(fn func(name string, child Node) error) error
	}

# Sources

  - FromJSON parses with sonic's lazy AST and visits members in document order.
  - FromYAML parses into a yaml.v3 node tree and visits keys in document order.
  - FromItem and FromAttributeValue wrap DynamoDB items and decode with attributevalue,
    honouring json struct tags.
  - FromMap wraps a map[string]any and visits keys in sorted order.

Document order matters to callers that keep the first of several members whose names
differ only in case; map-backed sources are sorted so the outcome is still deterministic.

# Coercion

Coerce converts generic values (scalars, []any, map[string]any) into typed Go values
using mapstructure. Struct fields match by json tag or Go name without regard to case,
embedded structs are flattened, and strings convert to time.Time (RFC 3339 date-times
via strfmt, or plain dates), time.Duration and any encoding.TextUnmarshaler. Strings are
never parsed into numbers or booleans.
*/
package payload
