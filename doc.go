/*
Package delta provides sparse, field-level partial updates for Go structs.

A Delta[T] records which fields of T an incoming payload supplied and what their values
were. Fields the payload did not mention stay unset, which lets an API tell "set this to
the zero value" apart from "leave this alone". A delta is then patched onto an existing
value, of T or of any other struct type, writing only the supplied fields.

The workflow is decode, inspect, patch:
  - Decode: build a delta from JSON, YAML, a DynamoDB item or a generic map
  - Inspect: read typed slots by name, by generated field key or by accessor
  - Patch: write the set fields onto a target through an optional mapping policy

Key Features:
  - Case-insensitive member names, matching Go field names and json tags
  - First member wins when several differ only in case
  - Fields promoted from embedded structs take part in decoding and patching
  - Per type-pair mapping policies: rename, ignore, transform, ignore-unmapped
  - All-or-nothing patches: nothing is written when any value fails to convert
  - Semantic error types (see the errors package)

Basic Usage:

	type Order struct {
	    ID     string    `json:"id"`
	    Total  float64   `json:"total"`
	    Placed time.Time `json:"placed"`
	}

	d, err := delta.FromJSON[Order]([]byte(`{"total": 12.5}`))
	if err != nil {
	    return err
	}

	total, _ := delta.Lookup[float64](d, "Total")
	fmt.Println(total.IsSet(), total.Value()) // true 12.5

	var stored Order // loaded from storage
	err = d.Patch(&stored, nil)

Mapping onto a different type:

	reg := mapping.NewRegistry()
	reg.Policy(reflect.TypeOf(Order{}), reflect.TypeOf(OrderRecord{})).
	    MapField("Total", "Amount", nil).
	    IgnoreField("ID")

	err = d.Patch(&record, reg)

A delta can sit inside a request type: it implements json.Unmarshaler,
yaml.Unmarshaler and the DynamoDB attributevalue.Unmarshaler.

The datastore package builds on UpdatesFor to push a delta into a store as a partial
update, and cmd/deltakeys generates typed field keys (registry.Field) for entity types.
*/
package delta
