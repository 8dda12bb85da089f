/*
Package registry holds the process-wide type metadata used by delta.

Field Registry:
Fields and FieldsOf return the cached directory of an entity's exported fields,
including fields promoted from embedded structs. Names are matched case-insensitively,
and a json tag name works as an alias:

	fields := registry.FieldsOf[User]()
	d, ok := fields.Lookup("email")   // finds User.Email

The directory of a type is computed once, on first use, and reused for the lifetime of
the process.

Typed Field Keys:
A Field[T, V] names one field of T holding a V. Keys are built by name or from an
accessor returning the field's address:

	email := registry.MustField[User, string]("Email")
	age, err := registry.FieldFor(func(u *User) *int { return &u.Age })

The deltakeys command generates key tables with MustField for every field of a type.

Type Names and Index Maps:
RegisterType names a Go type for mapping files; RegisterIndexMap associates a type with
the DynamoDB key templates used by datastore/ddb:

	registry.RegisterType[User]("User")
	_ = registry.RegisterIndexMap[User](map[string]string{
	    "PK": "USER#{ID}",
	    "SK": "USER#{ID}",
	})

The registries are thread-safe and are normally populated during initialization.
*/
package registry
