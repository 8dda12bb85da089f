/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package delta

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"github.com/suparena/delta/errors"
	"github.com/suparena/delta/mapping"
	"github.com/suparena/delta/payload"
	"github.com/suparena/delta/registry"
)

// Change is one field write resolved from a delta.
type Change struct {
	// Source is the Go name of the delta field.
	Source string
	// Target is the Go name of the target field.
	Target string
	// Value is the value to write, already transformed and converted to the target field type.
	Value any
}

type write struct {
	Change
	index []int
	value reflect.Value
}

// Patch writes every set field of d onto target, which must be a non-nil pointer to a
// struct. Field names and values are resolved through the (T, target type) policy of
// reg; a nil registry, or one without a policy for the pair, copies fields by name.
// Target fields are matched by Go name only; fields the target lacks are skipped.
//
// Every value is transformed and converted before the first write, so on error the
// target is left as it was.
func (d *Delta[T]) Patch(target any, reg *mapping.Registry) error {
	rv := reflect.ValueOf(target)
	if !rv.IsValid() || rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return errors.NewInvalidTargetError(fmt.Sprintf("%T", target))
	}
	dst := rv.Elem()

	writes, err := d.plan(dst.Type(), reg)
	if err != nil {
		return err
	}

	for _, w := range writes {
		if !reachable(dst, w.index) {
			return errors.NewCoercionError(registry.TypeName(dst.Type()), w.Target, payload.KindOf(w.Value),
				fmt.Errorf("nil embedded pointer on the path cannot be allocated"))
		}
	}

	log := reg.Logger()
	for _, w := range writes {
		fieldByIndex(dst, w.index).Set(w.value)
		log.Debug("field patched",
			zap.Stringer("target", dst.Type()),
			zap.String("source_field", w.Source),
			zap.String("target_field", w.Target))
	}
	return nil
}

// Changes returns the writes Patch would perform on a value of type target, ordered by
// source field name.
func (d *Delta[T]) Changes(target reflect.Type, reg *mapping.Registry) ([]Change, error) {
	for target != nil && target.Kind() == reflect.Ptr {
		target = target.Elem()
	}
	if target == nil || target.Kind() != reflect.Struct {
		return nil, errors.NewInvalidTargetError(registry.TypeName(target))
	}

	writes, err := d.plan(target, reg)
	if err != nil {
		return nil, err
	}
	changes := make([]Change, len(writes))
	for i, w := range writes {
		changes[i] = w.Change
	}
	return changes, nil
}

// UpdatesFor returns the writes a patch onto D would perform, keyed by target field name.
//
//	updates, err := delta.UpdatesFor[OrderRecord](d, reg)
func UpdatesFor[D, T any](d *Delta[T], reg *mapping.Registry) (map[string]any, error) {
	changes, err := d.Changes(reflect.TypeOf((*D)(nil)).Elem(), reg)
	if err != nil {
		return nil, err
	}
	updates := make(map[string]any, len(changes))
	for _, c := range changes {
		updates[c.Target] = c.Value
	}
	return updates, nil
}

func (d *Delta[T]) plan(target reflect.Type, reg *mapping.Registry) ([]write, error) {
	log := reg.Logger()
	policy, hasPolicy := reg.Lookup(d.Type(), target)
	fields := registry.Fields(target)

	names := d.Names()
	writes := make([]write, 0, len(names))
	for _, name := range names {
		v, _ := d.Field(name)

		rule := mapping.Rule{Target: v.Name()}
		if hasPolicy {
			r, ok := policy.Resolve(v.Name())
			if !ok {
				log.Debug("field dropped by mapping policy",
					zap.Stringer("source", d.Type()),
					zap.Stringer("target", target),
					zap.String("field", v.Name()))
				continue
			}
			rule = r
		}

		desc, ok := fields.LookupName(rule.Target)
		if !ok {
			log.Debug("target has no matching field",
				zap.Stringer("target", target),
				zap.String("field", rule.Target))
			continue
		}

		raw := v.Raw()
		if rule.Transform != nil {
			out, err := rule.Transform(raw)
			if err != nil {
				return nil, fmt.Errorf("transform %s.%s: %w", registry.TypeName(d.Type()), v.Name(), err)
			}
			raw = out
		}

		value, err := assign(desc.Type, raw)
		if err != nil {
			return nil, errors.NewCoercionError(registry.TypeName(target), desc.Name, payload.KindOf(raw), err)
		}

		writes = append(writes, write{
			Change: Change{Source: v.Name(), Target: desc.Name, Value: value.Interface()},
			index:  desc.Index,
			value:  value,
		})
	}
	return writes, nil
}

// reachable reports whether fieldByIndex can write the field at index. A nil embedded
// pointer on the path must itself be settable to be allocated.
func reachable(v reflect.Value, index []int) bool {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Ptr {
			if v.IsNil() {
				if !v.CanSet() {
					return false
				}
				v = reflect.New(v.Type().Elem())
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v.CanSet()
}

func fieldByIndex(v reflect.Value, index []int) reflect.Value {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Ptr {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v
}
