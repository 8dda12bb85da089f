/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package delta

import (
	"encoding/json"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/suparena/delta/errors"
	"github.com/suparena/delta/mapping"
	"github.com/suparena/delta/registry"
)

type TestObject struct {
	Int1      int
	String1   string
	String2   string
	DateTime1 time.Time
	Bool1     bool
}

type TestObject2 struct {
	Int1      int
	Int2      int
	String2   string
	DateTime1 time.Time
	Bool3     bool
}

type TestObjectWithArray struct {
	IntList1 []int
}

type TestObjectWithComplexProperty struct {
	TestObject1 TestObject
}

type SubTestObject struct {
	TestObject
	Int2  int
	Bool2 bool
}

type auditInfo struct {
	Reviewer string
}

type ReviewedObject struct {
	*auditInfo
	*TestObject
	Note string
}

type NarrowObject struct {
	Small  int8
	Count  uint8
	Amount int
	Ratio  float32
}

type PricedObject struct {
	Total int `json:"total"`
	Note  string
}

type AliasedObject struct {
	Amount int `json:"total"`
	Note   string
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewDeltaIsUnset(t *testing.T) {
	d := New[TestObject]()
	assert.Equal(t, 0, d.Len())
	assert.Empty(t, d.Names())

	for _, name := range registry.FieldsOf[TestObject]().Names() {
		v, err := d.Field(name)
		require.NoError(t, err)
		assert.False(t, v.IsSet(), name)
		assert.Nil(t, v.Raw())
		assert.Equal(t, name, v.Name())
	}

	v, err := d.Field("DateTime1")
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeOf(time.Time{}), v.Type())
}

func TestDecodeJSON(t *testing.T) {
	t.Run("SetFields", func(t *testing.T) {
		d, err := FromJSON[TestObject]([]byte(`{"int1": 1, "string1": "val1", "string2": "val2"}`))
		require.NoError(t, err)

		int1, err := Lookup[int](d, "Int1")
		require.NoError(t, err)
		assert.True(t, int1.IsSet())
		assert.Equal(t, 1, int1.Value())

		s1 := Get(d, registry.MustField[TestObject, string]("String1"))
		assert.True(t, s1.IsSet())
		assert.Equal(t, "val1", s1.Value())

		dt, err := Select(d, func(o *TestObject) *time.Time { return &o.DateTime1 })
		require.NoError(t, err)
		assert.False(t, dt.IsSet())
		assert.True(t, dt.Value().IsZero())

		assert.Equal(t, []string{"Int1", "String1", "String2"}, d.Names())
		assert.True(t, d.IsSet("STRING2"))
		assert.False(t, d.IsSet("Bool1"))
	})

	t.Run("Collection", func(t *testing.T) {
		d, err := FromJSON[TestObjectWithArray]([]byte(`{"intList1": [1, 2, 3]}`))
		require.NoError(t, err)
		list, err := Lookup[[]int](d, "IntList1")
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, list.Value())
	})

	t.Run("NestedObject", func(t *testing.T) {
		d, err := FromJSON[TestObjectWithComplexProperty]([]byte(
			`{"testObject1": {"int1": 1, "string1": "val1", "dateTime1": "2018-12-04"}}`))
		require.NoError(t, err)

		nested, err := Lookup[TestObject](d, "TestObject1")
		require.NoError(t, err)
		require.True(t, nested.IsSet())
		assert.Equal(t, 1, nested.Value().Int1)
		assert.Equal(t, "val1", nested.Value().String1)
		assert.True(t, nested.Value().DateTime1.Equal(day(2018, 12, 4)))
	})

	t.Run("UnknownMembersIgnored", func(t *testing.T) {
		d, err := FromJSON[TestObject]([]byte(`{"int1": 1, "nope": {"deep": [1]}, "other": "x"}`))
		require.NoError(t, err)
		assert.Equal(t, []string{"Int1"}, d.Names())
	})

	t.Run("FirstWriteWins", func(t *testing.T) {
		d, err := FromJSON[TestObject]([]byte(`{"string1": "first", "String1": "second", "STRING1": "third"}`))
		require.NoError(t, err)
		s, err := Lookup[string](d, "string1")
		require.NoError(t, err)
		assert.Equal(t, "first", s.Value())
		assert.Equal(t, 1, d.Len())
	})

	t.Run("NullSetsZero", func(t *testing.T) {
		d, err := FromJSON[TestObject]([]byte(`{"string1": null}`))
		require.NoError(t, err)
		s, err := Lookup[string](d, "String1")
		require.NoError(t, err)
		assert.True(t, s.IsSet())
		assert.Equal(t, "", s.Value())
		assert.Equal(t, "fallback", Slot[string]{}.ValueOr("fallback"))
		assert.Equal(t, "", s.ValueOr("fallback"))
	})

	t.Run("InheritedFields", func(t *testing.T) {
		d, err := FromJSON[SubTestObject]([]byte(`{"int1": 1, "int2": 2, "bool2": true}`))
		require.NoError(t, err)
		assert.Equal(t, []string{"Bool2", "Int1", "Int2"}, d.Names())
	})

	t.Run("CoercionErrorAborts", func(t *testing.T) {
		d, err := FromJSON[TestObject]([]byte(`{"string1": "ok", "int1": "one"}`))
		assert.Nil(t, d)
		require.True(t, errors.IsCoercion(err))

		var ce *errors.CoercionError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "Int1", ce.Field)
		assert.Equal(t, "string", ce.ValueType)
	})

	t.Run("NotAnObject", func(t *testing.T) {
		_, err := FromJSON[TestObject]([]byte(`[1]`))
		assert.Error(t, err)
	})
}

func TestNarrowNumericFields(t *testing.T) {
	t.Run("JSONInRange", func(t *testing.T) {
		d, err := FromJSON[NarrowObject]([]byte(`{"small": -128, "count": 255, "amount": 7, "ratio": 0.5}`))
		require.NoError(t, err)

		small, _ := Lookup[int8](d, "Small")
		count, _ := Lookup[uint8](d, "Count")
		ratio, _ := Lookup[float32](d, "Ratio")
		assert.Equal(t, int8(-128), small.Value())
		assert.Equal(t, uint8(255), count.Value())
		assert.Equal(t, float32(0.5), ratio.Value())
	})

	t.Run("JSONOutOfRange", func(t *testing.T) {
		for body, field := range map[string]string{
			`{"small": 300}`:  "Small",
			`{"count": 257}`:  "Count",
			`{"count": -1}`:   "Count",
			`{"ratio": 1e39}`: "Ratio",
		} {
			d, err := FromJSON[NarrowObject]([]byte(body))
			assert.Nil(t, d, body)
			require.True(t, errors.IsCoercion(err), body)

			var ce *errors.CoercionError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, field, ce.Field, body)
			assert.Equal(t, "number", ce.ValueType, body)
		}
	})

	t.Run("MapFractionRejected", func(t *testing.T) {
		_, err := FromMap[NarrowObject](map[string]any{"amount": 1.9})
		require.True(t, errors.IsCoercion(err))

		d, err := FromMap[NarrowObject](map[string]any{"amount": 2.0})
		require.NoError(t, err)
		amount, _ := Lookup[int](d, "Amount")
		assert.Equal(t, 2, amount.Value())
	})

	t.Run("PatchOutOfRange", func(t *testing.T) {
		type narrow struct{ Int1 int8 }
		d, err := FromJSON[TestObject]([]byte(`{"int1": 300}`))
		require.NoError(t, err)

		target := narrow{Int1: 1}
		require.True(t, errors.IsCoercion(d.Patch(&target, nil)))
		assert.Equal(t, int8(1), target.Int1)
	})
}

func TestTypedAccessErrors(t *testing.T) {
	d := New[TestObject]()

	_, err := d.Field("Missing")
	assert.True(t, errors.IsUnknownField(err))

	_, err = Lookup[int](d, "Missing")
	assert.True(t, errors.IsUnknownField(err))

	_, err = Lookup[string](d, "Int1")
	assert.True(t, errors.IsInvalidAccessor(err))

	_, err = Select(d, func(o *TestObject) *string {
		s := o.String1
		return &s
	})
	assert.True(t, errors.IsInvalidAccessor(err))

	assert.False(t, Get(d, registry.Field[TestObject, int]{}).IsSet())
	assert.False(t, d.IsSet("Missing"))
}

func TestDecodeOtherSources(t *testing.T) {
	t.Run("YAML", func(t *testing.T) {
		d, err := FromYAML[TestObject]([]byte("int1: 1\nstring1: val1\ndateTime1: 2018-12-04\n"))
		require.NoError(t, err)
		dt, err := Lookup[time.Time](d, "DateTime1")
		require.NoError(t, err)
		assert.True(t, dt.Value().Equal(day(2018, 12, 4)))
		assert.Equal(t, []string{"DateTime1", "Int1", "String1"}, d.Names())
	})

	t.Run("Item", func(t *testing.T) {
		d, err := FromItem[TestObject](map[string]types.AttributeValue{
			"Int1":  &types.AttributeValueMemberN{Value: "4"},
			"Bool1": &types.AttributeValueMemberBOOL{Value: true},
		})
		require.NoError(t, err)
		b, err := Lookup[bool](d, "Bool1")
		require.NoError(t, err)
		assert.True(t, b.Value())
		i, err := Lookup[int](d, "Int1")
		require.NoError(t, err)
		assert.Equal(t, 4, i.Value())
	})

	t.Run("MapSortedKeysDecideDuplicates", func(t *testing.T) {
		d, err := FromMap[TestObject](map[string]any{"string1": "lower", "String1": "upper", "Int1": 2.0})
		require.NoError(t, err)
		s, err := Lookup[string](d, "String1")
		require.NoError(t, err)
		assert.Equal(t, "upper", s.Value())

		i, err := Lookup[int](d, "Int1")
		require.NoError(t, err)
		assert.Equal(t, 2, i.Value())
	})
}

type updateRequest struct {
	ID    string             `json:"id" yaml:"id" dynamodbav:"id"`
	Patch *Delta[TestObject] `json:"patch" yaml:"patch" dynamodbav:"patch"`
}

func TestEmbeddedInRequests(t *testing.T) {
	t.Run("EncodingJSON", func(t *testing.T) {
		var req updateRequest
		require.NoError(t, json.Unmarshal([]byte(`{"id": "a", "patch": {"int1": 5}}`), &req))
		require.NotNil(t, req.Patch)
		assert.Equal(t, []string{"Int1"}, req.Patch.Names())
	})

	t.Run("Sonic", func(t *testing.T) {
		var req updateRequest
		require.NoError(t, sonic.Unmarshal([]byte(`{"id": "a", "patch": {"bool1": true}}`), &req))
		require.NotNil(t, req.Patch)
		assert.True(t, req.Patch.IsSet("Bool1"))
	})

	t.Run("NullLeavesDeltaEmpty", func(t *testing.T) {
		var d Delta[TestObject]
		require.NoError(t, d.UnmarshalJSON([]byte(" null ")))
		assert.Equal(t, 0, d.Len())
	})

	t.Run("YAML", func(t *testing.T) {
		var req updateRequest
		require.NoError(t, yaml.Unmarshal([]byte("id: a\npatch:\n  string2: x\n"), &req))
		require.NotNil(t, req.Patch)
		assert.Equal(t, []string{"String2"}, req.Patch.Names())
	})

	t.Run("AttributeValue", func(t *testing.T) {
		item := map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: "a"},
			"patch": &types.AttributeValueMemberM{Value: map[string]types.AttributeValue{
				"String1": &types.AttributeValueMemberS{Value: "v"},
			}},
		}
		var req updateRequest
		require.NoError(t, attributevalue.UnmarshalMap(item, &req))
		require.NotNil(t, req.Patch)
		assert.Equal(t, []string{"String1"}, req.Patch.Names())
	})

	t.Run("DecodeReplacesPriorContent", func(t *testing.T) {
		d, err := FromJSON[TestObject]([]byte(`{"int1": 1}`))
		require.NoError(t, err)
		require.NoError(t, d.UnmarshalJSON([]byte(`{"bool1": true}`)))
		assert.Equal(t, []string{"Bool1"}, d.Names())
	})
}

func TestPatch(t *testing.T) {
	t.Run("SameType", func(t *testing.T) {
		d, err := FromJSON[TestObject]([]byte(`{"int1": 1, "string1": "val1", "dateTime1": "2018-12-04"}`))
		require.NoError(t, err)

		var target TestObject
		require.NoError(t, d.Patch(&target, nil))
		assert.Equal(t, 1, target.Int1)
		assert.Equal(t, "val1", target.String1)
		assert.True(t, target.DateTime1.Equal(day(2018, 12, 4)))
		assert.Equal(t, "", target.String2)
		assert.False(t, target.Bool1)
	})

	t.Run("UnsetFieldsUntouched", func(t *testing.T) {
		d, err := FromJSON[TestObject]([]byte(`{"int1": 9}`))
		require.NoError(t, err)

		target := TestObject{Int1: 1, String1: "keep", Bool1: true}
		require.NoError(t, d.Patch(&target, mapping.NewRegistry()))
		assert.Equal(t, TestObject{Int1: 9, String1: "keep", Bool1: true}, target)
	})

	t.Run("DifferentTargetSkipsAbsentFields", func(t *testing.T) {
		d, err := FromJSON[TestObject]([]byte(`{"int1": 1, "string1": "val1", "string2": "val2", "bool1": true}`))
		require.NoError(t, err)

		var target TestObject2
		require.NoError(t, d.Patch(&target, mapping.NewRegistry()))
		assert.Equal(t, TestObject2{Int1: 1, String2: "val2"}, target)
	})

	t.Run("InheritedTarget", func(t *testing.T) {
		d, err := FromJSON[SubTestObject]([]byte(`{"int1": 1, "string1": "s", "int2": 2, "bool2": true}`))
		require.NoError(t, err)

		var target SubTestObject
		require.NoError(t, d.Patch(&target, nil))
		assert.Equal(t, 1, target.Int1)
		assert.Equal(t, "s", target.String1)
		assert.Equal(t, 2, target.Int2)
		assert.True(t, target.Bool2)
	})

	t.Run("NilEmbeddedPointerAllocated", func(t *testing.T) {
		d, err := FromJSON[TestObject]([]byte(`{"int1": 4}`))
		require.NoError(t, err)

		var target ReviewedObject
		require.NoError(t, d.Patch(&target, nil))
		require.NotNil(t, target.TestObject)
		assert.Equal(t, 4, target.Int1)
	})

	t.Run("UnexportedNilEmbeddedPointerRejected", func(t *testing.T) {
		type source struct{ Reviewer string }
		d, err := FromMap[source](map[string]any{"Reviewer": "r"})
		require.NoError(t, err)

		target := ReviewedObject{Note: "n"}
		err = d.Patch(&target, nil)
		assert.True(t, errors.IsCoercion(err))
		assert.Nil(t, target.TestObject)
	})

	t.Run("Mapping", func(t *testing.T) {
		reg := mapping.NewRegistry(mapping.WithLogger(zap.NewNop()))
		reg.Policy(reflect.TypeOf(TestObject{}), reflect.TypeOf(TestObject2{})).
			MapField("Int1", "Int2", nil).
			MapField("String1", "String2", nil).
			MapField("Bool1", "Bool3", nil)

		d, err := FromJSON[TestObject]([]byte(`{"int1": 1, "string1": "val1", "bool1": true}`))
		require.NoError(t, err)

		var target TestObject2
		require.NoError(t, d.Patch(&target, reg))
		assert.Equal(t, 1, target.Int2)
		assert.Equal(t, "val1", target.String2)
		assert.True(t, target.Bool3)
		assert.Equal(t, 0, target.Int1)
	})

	t.Run("Transforms", func(t *testing.T) {
		reg := mapping.NewRegistry()
		cfg := mapping.For[TestObject, TestObject](reg)
		dt := registry.MustField[TestObject, time.Time]("DateTime1")
		i1 := registry.MustField[TestObject, int]("Int1")
		mapping.MapWith(cfg, dt, dt, func(t time.Time) time.Time { return t.AddDate(0, 0, 1) })
		mapping.MapWith(cfg, i1, i1, func(i int) int { return i + 2 })

		d, err := FromJSON[TestObject]([]byte(`{"int1": 1, "dateTime1": "2018-12-04"}`))
		require.NoError(t, err)

		var target TestObject
		require.NoError(t, d.Patch(&target, reg))
		assert.Equal(t, 3, target.Int1)
		assert.True(t, target.DateTime1.Equal(day(2018, 12, 5)))
	})

	t.Run("IgnoreBeatsMapping", func(t *testing.T) {
		reg := mapping.NewRegistry()
		reg.Policy(reflect.TypeOf(TestObject{}), reflect.TypeOf(TestObject2{})).
			MapField("Int1", "Int2", nil).
			IgnoreField("Int1")

		d, err := FromJSON[TestObject]([]byte(`{"int1": 1, "string2": "s"}`))
		require.NoError(t, err)

		var target TestObject2
		require.NoError(t, d.Patch(&target, reg))
		assert.Equal(t, TestObject2{String2: "s"}, target)
	})

	t.Run("TargetMatchedByGoNameOnly", func(t *testing.T) {
		d, err := FromJSON[PricedObject]([]byte(`{"total": 5, "note": "n"}`))
		require.NoError(t, err)

		var target AliasedObject
		require.NoError(t, d.Patch(&target, nil))
		assert.Equal(t, AliasedObject{Note: "n"}, target)

		reg := mapping.NewRegistry()
		reg.Policy(reflect.TypeOf(PricedObject{}), reflect.TypeOf(AliasedObject{})).
			MapField("Total", "total", nil)
		require.NoError(t, d.Patch(&target, reg))
		assert.Equal(t, AliasedObject{Note: "n"}, target, "a json alias is not a target name")

		reg.Policy(reflect.TypeOf(PricedObject{}), reflect.TypeOf(AliasedObject{})).
			MapField("Total", "Amount", nil)
		require.NoError(t, d.Patch(&target, reg))
		assert.Equal(t, AliasedObject{Amount: 5, Note: "n"}, target)
	})

	t.Run("PolicyNamesAcceptAliases", func(t *testing.T) {
		d, err := FromJSON[AliasedObject]([]byte(`{"total": 5, "note": "n"}`))
		require.NoError(t, err)

		reg := mapping.NewRegistry()
		reg.Policy(reflect.TypeOf(AliasedObject{}), reflect.TypeOf(AliasedObject{})).
			IgnoreField("total")

		var target AliasedObject
		require.NoError(t, d.Patch(&target, reg))
		assert.Equal(t, AliasedObject{Note: "n"}, target)

		reg.Clear()
		reg.Policy(reflect.TypeOf(AliasedObject{}), reflect.TypeOf(AliasedObject{})).
			MapField("TOTAL", "", func(v any) (any, error) { return v.(int) * 2, nil })

		target = AliasedObject{}
		require.NoError(t, d.Patch(&target, reg))
		assert.Equal(t, AliasedObject{Amount: 10, Note: "n"}, target)
	})

	t.Run("IgnoreUnmapped", func(t *testing.T) {
		reg := mapping.NewRegistry()
		reg.Policy(reflect.TypeOf(TestObject{}), reflect.TypeOf(TestObject{})).
			MapField("String1", "String2", nil).
			IgnoreUnmapped()

		d, err := FromJSON[TestObject]([]byte(`{"int1": 1, "string1": "s", "bool1": true}`))
		require.NoError(t, err)

		var target TestObject
		require.NoError(t, d.Patch(&target, reg))
		assert.Equal(t, TestObject{String2: "s"}, target)
	})

	t.Run("ConvertsToTargetType", func(t *testing.T) {
		type wide struct{ Int1 int64 }
		d, err := FromJSON[TestObject]([]byte(`{"int1": 7}`))
		require.NoError(t, err)

		var target wide
		require.NoError(t, d.Patch(&target, nil))
		assert.Equal(t, int64(7), target.Int1)
	})

	t.Run("FailedConversionLeavesTargetUntouched", func(t *testing.T) {
		type mismatched struct {
			Int1    int
			String1 int
		}
		d, err := FromJSON[TestObject]([]byte(`{"int1": 7, "string1": "x"}`))
		require.NoError(t, err)

		target := mismatched{Int1: 1}
		err = d.Patch(&target, nil)
		require.True(t, errors.IsCoercion(err))
		assert.Equal(t, mismatched{Int1: 1}, target)
	})

	t.Run("FailingTransform", func(t *testing.T) {
		reg := mapping.NewRegistry()
		reg.Policy(reflect.TypeOf(TestObject{}), reflect.TypeOf(TestObject{})).
			MapField("Int1", "", func(any) (any, error) { return nil, assert.AnError })

		d, err := FromJSON[TestObject]([]byte(`{"int1": 1}`))
		require.NoError(t, err)
		var target TestObject
		assert.ErrorIs(t, d.Patch(&target, reg), assert.AnError)
	})

	t.Run("InvalidTargets", func(t *testing.T) {
		d := New[TestObject]()
		var target TestObject
		var nilPtr *TestObject
		n := 1

		for _, tc := range []any{nil, target, nilPtr, &n} {
			assert.True(t, errors.IsInvalidTarget(d.Patch(tc, nil)), "%T", tc)
		}
	})
}

func TestChanges(t *testing.T) {
	reg := mapping.NewRegistry()
	reg.Policy(reflect.TypeOf(TestObject{}), reflect.TypeOf(TestObject2{})).
		MapField("String1", "String2", nil).
		IgnoreField("Bool1")

	d, err := FromJSON[TestObject]([]byte(`{"string1": "a", "string2": "b", "int1": 3, "bool1": true}`))
	require.NoError(t, err)

	changes, err := d.Changes(reflect.TypeOf(&TestObject2{}), reg)
	require.NoError(t, err)
	assert.Equal(t, []Change{
		{Source: "Int1", Target: "Int1", Value: 3},
		{Source: "String1", Target: "String2", Value: "a"},
		{Source: "String2", Target: "String2", Value: "b"},
	}, changes)

	updates, err := UpdatesFor[TestObject2](d, reg)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"Int1": 3, "String2": "b"}, updates)

	var target TestObject2
	require.NoError(t, d.Patch(&target, reg))
	assert.Equal(t, "b", target.String2)

	_, err = d.Changes(reflect.TypeOf(0), reg)
	assert.True(t, errors.IsInvalidTarget(err))
}

func TestConcurrentReadsAndPatches(t *testing.T) {
	reg := mapping.NewRegistry()
	reg.Policy(reflect.TypeOf(TestObject{}), reflect.TypeOf(TestObject2{})).MapField("Int1", "Int2", nil)

	d, err := FromJSON[TestObject]([]byte(`{"int1": 1, "string2": "s"}`))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var target TestObject2
			assert.NoError(t, d.Patch(&target, reg))
			assert.Equal(t, 1, target.Int2)
			assert.True(t, d.IsSet("Int1"))
		}()
	}
	wg.Wait()
}
