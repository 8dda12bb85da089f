/*
Package errors provides semantic error types for the delta library.

Field-level failures raised while building, querying or applying a delta:

	var (
	    ErrUnknownField    = errors.New("unknown field")
	    ErrInvalidAccessor = errors.New("invalid field accessor")
	    ErrCoercion        = errors.New("value coercion failed")
	    ErrInvalidTarget   = errors.New("invalid patch target")
	)

Storage-level failures raised by the datastore packages:

	var (
	    ErrNotFound        = errors.New("entity not found")
	    ErrAlreadyExists   = errors.New("entity already exists")
	    ErrInvalidInput    = errors.New("invalid input")
	    ErrConditionFailed = errors.New("condition check failed")
	    ErrNoIndexMap      = errors.New("no index map found for type")
	)

Usage:

	d, err := delta.FromJSON[User](body)
	if err != nil {
	    if errors.IsCoercion(err) {
	        // The payload carried a value of the wrong shape for a field
	        return badRequest(err)
	    }
	    return err
	}

	slot, err := delta.Lookup[string](d, "Email")
	if errors.IsUnknownField(err) {
	    // User declares no Email field
	}

The typed errors carry the entity type and field name and match their sentinel
through errors.Is, also when wrapped.
*/
package errors
