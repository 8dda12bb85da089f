/*
Package ddb provides a DynamoDB implementation of the DataStore interface.

The DynamodbDataStore supports:
  - Single-table design patterns
  - Macro-based key expansion (e.g., "USER#{ID}")
  - Conditional partial updates, the target of datastore.ApplyUpdates
  - Configuration from the environment and .env files

Key Features:

Macro Expansion:
Keys can use macros that are replaced with entity field values. Macros name fields of
the entity (Go name or json tag) and are checked when the index map is registered:

	err := registry.RegisterIndexMap[User](map[string]string{
	    "PK":     "USER#{ID}",        // Becomes "USER#123"
	    "SK":     "PROFILE",          // Static value
	    "GSI1PK": "{Email}",          // Direct field value
	})

Partial updates:
UpdateWithCondition marshals each value with attributevalue and writes it under the
field's dynamodbav name. Together with a delta this updates only the supplied fields:

	d, _ := delta.FromJSON[User](body)
	err := datastore.ApplyUpdates[User](ctx, store, "123", d, reg, "attribute_exists(PK)")

Configuration:

	cfg, err := ddb.ConfigFromEnv()          // AWS_REGION, AWS_DDB_TABLE, ...
	store, err := ddb.FromConfig[User](ctx, cfg, ddb.WithLogger(logger))
*/
package ddb
