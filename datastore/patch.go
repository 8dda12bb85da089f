/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"
	"fmt"
	"reflect"

	"github.com/suparena/delta"
	"github.com/suparena/delta/errors"
	"github.com/suparena/delta/mapping"
	"github.com/suparena/delta/registry"
)

// PatchOne loads the entity stored under key, patches d onto it and stores the result.
// The patched entity is returned. A missing entity is a NotFoundError.
//
// The read and the write are separate calls; use ApplyUpdates when the store must apply
// the change atomically.
func PatchOne[T, S any](ctx context.Context, store DataStore[T], key string, d *delta.Delta[S], reg *mapping.Registry) (*T, error) {
	current, err := store.GetOne(ctx, key)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, errors.NewNotFoundError(registry.TypeName(reflect.TypeOf((*T)(nil)).Elem()), key)
	}

	if err := d.Patch(current, reg); err != nil {
		return nil, fmt.Errorf("patch %s: %w", key, err)
	}
	if err := store.Put(ctx, *current); err != nil {
		return nil, err
	}
	return current, nil
}

// ApplyUpdates resolves d against T through reg and sends the resulting field updates
// to the store in a single UpdateWithCondition call. Nothing is sent when no field of
// the delta resolves to a field of T.
func ApplyUpdates[T, S any](ctx context.Context, store DataStore[T], keyInput any, d *delta.Delta[S], reg *mapping.Registry, condition string) error {
	updates, err := delta.UpdatesFor[T](d, reg)
	if err != nil {
		return err
	}
	if len(updates) == 0 {
		return nil
	}
	return store.UpdateWithCondition(ctx, keyInput, updates, condition)
}
