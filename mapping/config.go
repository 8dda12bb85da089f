/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mapping

import (
	"fmt"
	"reflect"

	"github.com/suparena/delta/errors"
	"github.com/suparena/delta/registry"
)

// Config is a typed view of the policy for source type S and target type D.
// Field keys are checked when they are built, so a Config cannot name missing fields.
type Config[S, D any] struct {
	policy *Policy
}

// For returns the typed configuration of the (S, D) policy, creating the policy if needed.
func For[S, D any](r *Registry) *Config[S, D] {
	return &Config[S, D]{policy: r.Policy(typeOf[S](), typeOf[D]())}
}

// Policy returns the underlying policy.
func (c *Config[S, D]) Policy() *Policy {
	return c.policy
}

// Ignore excludes the named source field.
func (c *Config[S, D]) Ignore(name string) *Config[S, D] {
	c.policy.IgnoreField(name)
	return c
}

// IgnoreUnmapped restricts patching to mapped fields.
func (c *Config[S, D]) IgnoreUnmapped() *Config[S, D] {
	c.policy.IgnoreUnmapped()
	return c
}

// Map sends src to dst. When the value types differ the patcher converts the value.
func Map[S, D, SV, DV any](c *Config[S, D], src registry.Field[S, SV], dst registry.Field[D, DV]) *Config[S, D] {
	c.policy.MapField(src.Name(), dst.Name(), nil)
	return c
}

// MapWith sends src to dst through fn.
func MapWith[S, D, SV, DV any](c *Config[S, D], src registry.Field[S, SV], dst registry.Field[D, DV], fn func(SV) DV) *Config[S, D] {
	return MapWithE(c, src, dst, func(v SV) (DV, error) { return fn(v), nil })
}

// MapWithE sends src to dst through a transform that may fail.
func MapWithE[S, D, SV, DV any](c *Config[S, D], src registry.Field[S, SV], dst registry.Field[D, DV], fn func(SV) (DV, error)) *Config[S, D] {
	c.policy.MapField(src.Name(), dst.Name(), typedTransform(typeOf[S](), src.Name(), fn))
	return c
}

// Ignore excludes the source field named by key.
func Ignore[S, D, V any](c *Config[S, D], key registry.Field[S, V]) *Config[S, D] {
	return c.Ignore(key.Name())
}

func typedTransform[SV, DV any](source reflect.Type, field string, fn func(SV) (DV, error)) Transform {
	return func(v any) (any, error) {
		sv, ok := v.(SV)
		if !ok && v != nil {
			return nil, errors.NewCoercionError(registry.TypeName(source), field,
				fmt.Sprintf("%T", v), fmt.Errorf("transform expects %s", typeOf[SV]()))
		}
		return fn(sv)
	}
}
