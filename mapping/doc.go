/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

/*
Package mapping holds the policies that control how a delta of one type is patched onto
an instance of another.

A Policy belongs to one (source, target) type pair and combines three kinds of rule:

  - ignored source fields, which are never written;
  - explicit mappings, which rename a source field and optionally transform its value;
  - an IgnoreUnmapped switch, which drops every field without an explicit mapping.

Resolve applies them in that order of precedence: an ignored field stays ignored even
when it is also mapped. Names are matched without regard to case.

Policies are owned by a Registry. There is no package-level registry; callers create one
and pass it to Delta.Patch, which makes isolated configurations trivial in tests:

	reg := mapping.NewRegistry(mapping.WithLogger(logger))

	reg.Policy(reflect.TypeOf(Order{}), reflect.TypeOf(OrderRecord{})).
	    MapField("Total", "Amount", nil).
	    IgnoreField("Internal")

# Typed configuration

For and the Map, MapWith, MapWithE and Ignore functions configure the same policy with
typed field keys from the registry package, so renamed or retyped fields fail at build
time (generated keys) or at start-up (NewField) instead of being skipped silently:

	cfg := mapping.For[Order, OrderRecord](reg)
	mapping.MapWith(cfg, OrderFields.Placed, OrderRecordFields.Day, startOfDay)

# Mapping files

Policies can also be described in YAML and applied with LoadFile or Parse followed by
File.Apply. Type names are resolved through registry.RegisterType and transform names
through a Transforms set:

	version: "1"
	mappings:
	  - source: Order
	    target: OrderRecord
	    ignoreUnmapped: true
	    fields:
	      Total: Amount
	      Placed: {target: Day, transform: startOfDay}
	    ignore: [Internal]

Apply validates every name before changing the registry.
*/
package mapping
