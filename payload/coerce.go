/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package payload

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/mitchellh/mapstructure"
)

var timeType = reflect.TypeOf(time.Time{})

// Coerce converts a generic value (scalars, []any, map[string]any, or any Go value)
// into the value pointed to by dst. Struct fields are matched by json tag or name,
// ignoring case, and embedded structs are flattened. Typing is strict: a string is never
// parsed into a number or bool.
func Coerce(src any, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("coerce destination must be a non-nil pointer, got %T", dst)
	}
	if src == nil {
		return nil
	}

	sv := reflect.ValueOf(src)
	if sv.Type().AssignableTo(rv.Elem().Type()) {
		rv.Elem().Set(sv)
		return nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.DecodeHookFuncType(numberRangeHook),
			mapstructure.DecodeHookFuncType(stringToTimeHook),
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
		),
		Result:  dst,
		TagName: "json",
		Squash:  true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(src)
}

// numberRangeHook rejects numbers the destination kind cannot hold exactly: values out
// of range, negative values for unsigned kinds and fractions for integer kinds.
func numberRangeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if data == nil {
		return data, nil
	}

	var (
		f        float64
		i        int64
		u        uint64
		integral bool
		unsigned bool
	)

	switch n := data.(type) {
	case json.Number:
		if v, err := n.Int64(); err == nil {
			i, f, integral = v, float64(v), true
		} else if v, err := strconv.ParseUint(string(n), 10, 64); err == nil {
			u, f, integral, unsigned = v, float64(v), true, true
		} else if v, err := n.Float64(); err == nil {
			f = v
		} else {
			return data, nil
		}
	default:
		v := reflect.ValueOf(data)
		switch from.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			i, f, integral = v.Int(), float64(v.Int()), true
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			u, f, integral, unsigned = v.Uint(), float64(v.Uint()), true, true
		case reflect.Float32, reflect.Float64:
			f = v.Float()
		default:
			return data, nil
		}
	}

	if !integral && !math.IsNaN(f) && !math.IsInf(f, 0) && f == math.Trunc(f) &&
		f >= math.MinInt64 && f < math.MaxInt64 {
		i, integral = int64(f), true
	}

	limit := reflect.New(to).Elem()
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		switch {
		case unsigned && u > math.MaxInt64:
			return nil, fmt.Errorf("%d overflows %s", u, to)
		case unsigned:
			i = int64(u)
		case !integral:
			return nil, notIntegral(f, to)
		}
		if limit.OverflowInt(i) {
			return nil, fmt.Errorf("%d overflows %s", i, to)
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if !unsigned {
			if !integral {
				return nil, notIntegral(f, to)
			}
			if i < 0 {
				return nil, fmt.Errorf("%d is negative, cannot store in %s", i, to)
			}
			u = uint64(i)
		}
		if limit.OverflowUint(u) {
			return nil, fmt.Errorf("%d overflows %s", u, to)
		}
	case reflect.Float32:
		if !math.IsInf(f, 0) && limit.OverflowFloat(f) {
			return nil, fmt.Errorf("%v overflows %s", f, to)
		}
	}
	return data, nil
}

func notIntegral(f float64, to reflect.Type) error {
	if !math.IsNaN(f) && !math.IsInf(f, 0) && f == math.Trunc(f) {
		return fmt.Errorf("%v overflows %s", f, to)
	}
	return fmt.Errorf("%v is not an integer, cannot store in %s", f, to)
}

func stringToTimeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != timeType {
		return data, nil
	}
	return ParseTime(reflect.ValueOf(data).String())
}

// ParseTime accepts the RFC 3339 / ISO 8601 date-time forms understood by strfmt and
// plain dates (2006-01-02, taken as midnight UTC). The empty string is the zero time.
func ParseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if dt, err := strfmt.ParseDateTime(s); err == nil {
		return time.Time(dt), nil
	}
	t, err := time.Parse(strfmt.RFC3339FullDate, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is neither a date-time nor a date", s)
	}
	return t, nil
}
