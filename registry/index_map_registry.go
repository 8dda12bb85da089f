/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"fmt"
	"reflect"
	"regexp"
	"sync"
)

// MacroPattern matches the {Field} placeholders of an index map template.
var MacroPattern = regexp.MustCompile(`{([^}]+)}`)

var (
	indexMapRegistry = make(map[reflect.Type]map[string]string)
	indexMu          sync.RWMutex
)

// RegisterIndexMap associates T with its key templates (PK, SK, ...).
// Every {Field} macro must name a field of T; otherwise nothing is registered.
func RegisterIndexMap[T any](idxMap map[string]string) error {
	t := typeOf[T]()
	fields := Fields(t)
	for attr, template := range idxMap {
		for _, m := range MacroPattern.FindAllStringSubmatch(template, -1) {
			if _, ok := fields.Lookup(m[1]); !ok {
				return fmt.Errorf("index map %s for %s: macro {%s} names no field", attr, TypeName(t), m[1])
			}
		}
	}

	copied := make(map[string]string, len(idxMap))
	for k, v := range idxMap {
		copied[k] = v
	}

	indexMu.Lock()
	defer indexMu.Unlock()
	indexMapRegistry[t] = copied
	return nil
}

// GetIndexMap retrieves the index map for T, if any.
func GetIndexMap[T any]() (map[string]string, bool) {
	indexMu.RLock()
	defer indexMu.RUnlock()
	m, ok := indexMapRegistry[typeOf[T]()]
	return m, ok
}
