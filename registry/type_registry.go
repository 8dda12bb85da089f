/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/suparena/delta/errors"
)

// typeRegistry maps entity names used in mapping files to Go types.
var (
	typeRegistry = make(map[string]reflect.Type)
	typeMu       sync.RWMutex
)

// RegisterType registers T under name so mapping files can refer to it.
// If a different type is already registered under name, it panics to prevent accidental overrides.
func RegisterType[T any](name string) {
	t := typeOf[T]()

	typeMu.Lock()
	defer typeMu.Unlock()
	if existing, exists := typeRegistry[name]; exists && existing != t {
		panic(fmt.Sprintf("type registry: name %q already registered for %s", name, existing))
	}
	typeRegistry[name] = t
}

// LookupType returns the type registered under name.
func LookupType(name string) (reflect.Type, error) {
	typeMu.RLock()
	defer typeMu.RUnlock()
	t, ok := typeRegistry[name]
	if !ok {
		return nil, errors.NewNotFoundError("type", name)
	}
	return t, nil
}

// RegisteredTypes returns the registered names, sorted.
func RegisteredTypes() []string {
	typeMu.RLock()
	defer typeMu.RUnlock()
	names := make([]string, 0, len(typeRegistry))
	for name := range typeRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
