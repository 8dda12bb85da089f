/*
Package datastore defines the persistence interface that deltas are applied through.

The main interface is DataStore[T], which provides generic CRUD operations for any entity type T:

	type DataStore[T any] interface {
	    GetOne(ctx context.Context, key string) (*T, error)
	    Put(ctx context.Context, entity T) error
	    UpdateWithCondition(ctx context.Context, keyInput any, updates map[string]any, condition string) error
	    Delete(ctx context.Context, key string) error
	}

Two workflows connect a delta to a store:

  - PatchOne reads the entity, patches the delta onto it and writes it back.
  - ApplyUpdates turns the delta into a field-update map with delta.UpdatesFor and
    hands it to UpdateWithCondition, so the store applies only the supplied fields.

Implementations:
  - ddb: DynamoDB implementation with macro-based single-table keys
  - mock: In-memory mock implementation for testing
*/
package datastore
