package crafts

import (
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// AsInt coerces a raw value to an integer. Integers, floats (truncated toward
// zero), booleans and base-10 numeric strings are accepted; anything else
// reports ok=false.
func AsInt(v gjson.Result) (n int64, ok bool) {
	switch v.Type {
	case gjson.Number:
		if i, err := strconv.ParseInt(v.Raw, 10, 64); err == nil {
			return i, true
		}
		f := v.Num
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		f = math.Trunc(f)
		if f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, false
		}
		return int64(f), true
	case gjson.String:
		i, err := strconv.ParseInt(strings.TrimSpace(v.Str), 10, 64)
		if err != nil {
			return 0, false
		}
		return i, true
	case gjson.True:
		return 1, true
	case gjson.False:
		return 0, true
	}
	return 0, false
}

// AsFloat coerces a raw value to a finite float.
func AsFloat(v gjson.Result) (f float64, ok bool) {
	switch v.Type {
	case gjson.Number:
		f = v.Num
	case gjson.String:
		var err error
		f, err = strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return 0, false
		}
	case gjson.True:
		return 1, true
	case gjson.False:
		return 0, true
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Truthy reports whether v counts as set: missing, null, false, 0, "", [] and
// {} are all falsy.
func Truthy(v gjson.Result) bool {
	switch v.Type {
	case gjson.True:
		return true
	case gjson.Number:
		return v.Num != 0
	case gjson.String:
		return v.Str != ""
	case gjson.JSON:
		nonEmpty := false
		v.ForEach(func(_, _ gjson.Result) bool {
			nonEmpty = true
			return false
		})
		return nonEmpty
	}
	return false
}

func intOrDefault(key, field string, v gjson.Result, def int64) (int64, error) {
	if !Truthy(v) {
		return def, nil
	}
	n, ok := AsInt(v)
	if !ok {
		return 0, &FieldError{Key: key, Field: field, Raw: v.Raw}
	}
	return n, nil
}

func floatOrDefault(key, field string, v gjson.Result, def float64) (float64, error) {
	if !Truthy(v) {
		return def, nil
	}
	f, ok := AsFloat(v)
	if !ok {
		return 0, &FieldError{Key: key, Field: field, Raw: v.Raw}
	}
	return f, nil
}
