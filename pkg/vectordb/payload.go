package vectordb

import (
	"encoding/json"
	"strings"
)

// ReservedPayloadKey is kept by the Qdrant backend for string ids it has
// to remap. Callers may not write it.
const ReservedPayloadKey = "_point_id"

// NormalizeValue converts values decoded with json.Decoder.UseNumber into
// plain Go scalars: integral numbers become int64, other numbers float64.
// Maps and slices are normalized recursively.
func NormalizeValue(v any) any {
	switch val := v.(type) {
	case json.Number:
		if !strings.ContainsAny(val.String(), ".eE") {
			if i, err := val.Int64(); err == nil {
				return i
			}
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case map[string]any:
		return NormalizePayload(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = NormalizeValue(item)
		}
		return out
	default:
		return v
	}
}

// NormalizePayload applies NormalizeValue to every entry of a payload.
func NormalizePayload(p map[string]any) map[string]any {
	if p == nil {
		return nil
	}
	out := make(map[string]any, len(p))
	for k, v := range p {
		out[k] = NormalizeValue(v)
	}
	return out
}

// IsScalar reports whether v can be used as an equality filter value.
func IsScalar(v any) bool {
	switch v.(type) {
	case string, bool, int, int32, int64, uint, uint32, uint64, float32, float64:
		return true
	}
	return false
}

// ScalarEqual compares two scalar payload values. Numbers compare by value
// regardless of their Go type.
func ScalarEqual(a, b any) bool {
	if af, ok := toFloat(a); ok {
		bf, ok := toFloat(b)
		return ok && af == bf
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	}
	return false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
