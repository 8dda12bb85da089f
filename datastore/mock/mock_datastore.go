/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package mock provides mock implementations of the DataStore interface for testing
package mock

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/suparena/delta"
	"github.com/suparena/delta/errors"
	"github.com/suparena/delta/registry"
)

// DataStore is an in-memory implementation of datastore.DataStore[T] for testing
type DataStore[T any] struct {
	mu            sync.RWMutex
	data          map[string]T
	getKeyFunc    func(entity T) string
	conditionFunc func(entity T, condition string) bool
	putError      error
	deleteError   error
	updateError   error
}

// New creates a new mock DataStore
func New[T any]() *DataStore[T] {
	return &DataStore[T]{
		data: make(map[string]T),
	}
}

// WithGetKeyFunc sets a custom function to extract keys from entities.
// By default the ID field of the entity is used.
func (m *DataStore[T]) WithGetKeyFunc(f func(T) string) *DataStore[T] {
	m.getKeyFunc = f
	return m
}

// WithConditionFunc sets the evaluator for UpdateWithCondition conditions.
// Without one, non-empty conditions always hold.
func (m *DataStore[T]) WithConditionFunc(f func(entity T, condition string) bool) *DataStore[T] {
	m.conditionFunc = f
	return m
}

// WithPutError makes Put operations return an error
func (m *DataStore[T]) WithPutError(err error) *DataStore[T] {
	m.putError = err
	return m
}

// WithDeleteError makes Delete operations return an error
func (m *DataStore[T]) WithDeleteError(err error) *DataStore[T] {
	m.deleteError = err
	return m
}

// WithUpdateError makes UpdateWithCondition operations return an error
func (m *DataStore[T]) WithUpdateError(err error) *DataStore[T] {
	m.updateError = err
	return m
}

// GetOne retrieves an entity by key
func (m *DataStore[T]) GetOne(ctx context.Context, key string) (*T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if entity, exists := m.data[key]; exists {
		return &entity, nil
	}
	return nil, errors.NewNotFoundError(entityName[T](), key)
}

// Put stores an entity
func (m *DataStore[T]) Put(ctx context.Context, entity T) error {
	if m.putError != nil {
		return m.putError
	}

	key := m.extractKey(entity)
	if key == "" {
		return errors.NewValidationError("key", "unable to extract key from entity")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = entity
	return nil
}

// UpdateWithCondition sets the named fields of the stored entity. keyInput is the key
// string or an entity whose key is extracted. Values are converted to the field types;
// nothing is changed when a name is unknown, a value does not convert or the condition
// does not hold.
func (m *DataStore[T]) UpdateWithCondition(ctx context.Context, keyInput any, updates map[string]any, condition string) error {
	if m.updateError != nil {
		return m.updateError
	}

	var key string
	switch k := keyInput.(type) {
	case string:
		key = k
	case T:
		key = m.extractKey(k)
	case *T:
		key = m.extractKey(*k)
	default:
		return errors.NewValidationError("keyInput", fmt.Sprintf("unsupported key type %T", keyInput))
	}

	fields := registry.FieldsOf[T]()
	for name := range updates {
		if _, ok := fields.Lookup(name); !ok {
			return errors.NewUnknownFieldError(entityName[T](), name)
		}
	}

	d, err := delta.FromMap[T](updates)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entity, exists := m.data[key]
	if !exists {
		return errors.NewNotFoundError(entityName[T](), key)
	}
	if condition != "" && m.conditionFunc != nil && !m.conditionFunc(entity, condition) {
		return errors.NewConditionFailedError("update", condition)
	}

	if err := d.Patch(&entity, nil); err != nil {
		return err
	}
	m.data[key] = entity
	return nil
}

// Delete removes an entity by key
func (m *DataStore[T]) Delete(ctx context.Context, key string) error {
	if m.deleteError != nil {
		return m.deleteError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.data[key]; !exists {
		return errors.NewNotFoundError(entityName[T](), key)
	}

	delete(m.data, key)
	return nil
}

// Helper methods for testing

// SetData directly sets the internal data map (for testing)
func (m *DataStore[T]) SetData(data map[string]T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
}

// GetData returns a copy of the internal data map (for testing)
func (m *DataStore[T]) GetData() map[string]T {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string]T, len(m.data))
	for k, v := range m.data {
		result[k] = v
	}
	return result
}

// Count returns the number of stored entities
func (m *DataStore[T]) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Clear removes all data
func (m *DataStore[T]) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string]T)
}

// extractKey uses the key function, or the ID field of the entity.
func (m *DataStore[T]) extractKey(entity T) string {
	if m.getKeyFunc != nil {
		return m.getKeyFunc(entity)
	}

	desc, ok := registry.FieldsOf[T]().Lookup("ID")
	if !ok {
		return ""
	}
	v := reflect.ValueOf(entity)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}
	f, err := v.FieldByIndexErr(desc.Index)
	if err != nil {
		return ""
	}
	for f.Kind() == reflect.Ptr {
		if f.IsNil() {
			return ""
		}
		f = f.Elem()
	}
	return fmt.Sprint(f.Interface())
}

func entityName[T any]() string {
	return registry.TypeName(reflect.TypeOf((*T)(nil)).Elem())
}
