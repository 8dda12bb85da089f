/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mapping

import (
	"sort"
	"sync"

	"github.com/suparena/delta/errors"
)

// Transforms is a named set of transforms that mapping files refer to by name.
type Transforms struct {
	mu  sync.RWMutex
	fns map[string]Transform
}

// NewTransforms creates an empty set.
func NewTransforms() *Transforms {
	return &Transforms{
		fns: make(map[string]Transform),
	}
}

// Register adds fn under name.
func (t *Transforms) Register(name string, fn Transform) error {
	if name == "" {
		return errors.NewValidationError("name", "transform name is empty")
	}
	if fn == nil {
		return errors.NewValidationError(name, "transform is nil")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.fns[name]; exists {
		return errors.NewAlreadyExistsError("transform", name)
	}
	t.fns[name] = fn
	return nil
}

// Get returns the transform registered under name.
func (t *Transforms) Get(name string) (Transform, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	fn, exists := t.fns[name]
	if !exists {
		return nil, errors.NewNotFoundError("transform", name)
	}
	return fn, nil
}

// Names returns the registered names, sorted.
func (t *Transforms) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	names := make([]string, 0, len(t.fns))
	for k := range t.fns {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
