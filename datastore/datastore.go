/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"
)

// DataStore persists entities of type T.
type DataStore[T any] interface {
	GetOne(ctx context.Context, key string) (*T, error)

	Put(ctx context.Context, entity T) error

	// UpdateWithCondition sets the given fields (Go field names of T) on the entity
	// identified by keyInput. An empty condition means the update is unconditional.
	UpdateWithCondition(ctx context.Context, keyInput any, updates map[string]any, condition string) error

	Delete(ctx context.Context, key string) error
}
