package loader

import (
	"encoding/json"
	"math"
)

// asObject reports whether v is a JSON object.
func asObject(v any) (map[string]any, bool) {
	obj, ok := v.(map[string]any)
	return obj, ok
}

// asObjectArray converts v to a list of objects. Any non-object element makes
// the whole array unusable.
func asObjectArray(v any) ([]map[string]any, bool) {
	arr, ok := v.([]any)
	if !ok {
		return nil, false
	}
	objects := make([]map[string]any, 0, len(arr))
	for _, item := range arr {
		obj, ok := asObject(item)
		if !ok {
			return nil, false
		}
		objects = append(objects, obj)
	}
	return objects, true
}

// extractString safely extracts a string field.
func extractString(data map[string]any, key string) (string, bool) {
	val, ok := data[key].(string)
	return val, ok
}

// extractInteger safely extracts an integral number field. Numbers with a
// fractional part, or outside the int64 range, are not integers.
func extractInteger(data map[string]any, key string) (int64, bool) {
	switch v := data[key].(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, true
		}
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return integralFloat(f)
	case float64:
		return integralFloat(v)
	case int:
		return int64(v), true
	case int64:
		return v, true
	}
	return 0, false
}

func integralFloat(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}
