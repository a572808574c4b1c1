// Package input provides type-safe helpers for extracting values from spec mappings.
//
// Specs arrive as map[string]any from YAML, JSON or Go literals, so numbers may be
// int, int64, float64 or engineering strings such as "10n". The Get* functions return
// a default on absence or type mismatch; the Require* functions fail with a *KeyError.
package input

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/zero-day-ai/simsetup/units"
)

var (
	// ErrMissingKey indicates a required spec key is absent or nil.
	ErrMissingKey = errors.New("missing required key")

	// ErrWrongType indicates a spec key holds a value of an unexpected type.
	ErrWrongType = errors.New("wrong value type")
)

// KeyError reports a failed lookup of a single spec key.
type KeyError struct {
	Key  string
	Want string
	Got  any
	Err  error
}

// Error implements the error interface.
func (e *KeyError) Error() string {
	if errors.Is(e.Err, ErrWrongType) {
		return fmt.Sprintf("key %q: %v: want %s, got %T", e.Key, e.Err, e.Want, e.Got)
	}
	return fmt.Sprintf("key %q: %v", e.Key, e.Err)
}

// Unwrap returns the underlying sentinel error.
func (e *KeyError) Unwrap() error {
	return e.Err
}

// Has reports whether key is present in m, even when its value is nil.
func Has(m map[string]any, key string) bool {
	if m == nil {
		return false
	}
	_, ok := m[key]
	return ok
}

// Lookup returns the value stored under key and whether it is present and non-nil.
func Lookup(m map[string]any, key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	val, ok := m[key]
	if !ok || val == nil {
		return nil, false
	}
	return val, true
}

// Require returns the value stored under key or a *KeyError wrapping ErrMissingKey.
func Require(m map[string]any, key string) (any, error) {
	val, ok := Lookup(m, key)
	if !ok {
		return nil, &KeyError{Key: key, Err: ErrMissingKey}
	}
	return val, nil
}

// RequireString returns the string stored under key.
func RequireString(m map[string]any, key string) (string, error) {
	val, err := Require(m, key)
	if err != nil {
		return "", err
	}
	str, ok := val.(string)
	if !ok {
		return "", &KeyError{Key: key, Want: "string", Got: val, Err: ErrWrongType}
	}
	return str, nil
}

// RequireMap returns the nested mapping stored under key.
func RequireMap(m map[string]any, key string) (map[string]any, error) {
	val, err := Require(m, key)
	if err != nil {
		return nil, err
	}
	nested, ok := AsMap(val)
	if !ok {
		return nil, &KeyError{Key: key, Want: "mapping", Got: val, Err: ErrWrongType}
	}
	return nested, nil
}

// GetString extracts a string value from the map with a default fallback.
// Returns defaultVal if the key doesn't exist, the value is nil, or not a string.
func GetString(m map[string]any, key string, defaultVal string) string {
	val, ok := Lookup(m, key)
	if !ok {
		return defaultVal
	}

	str, ok := val.(string)
	if !ok {
		return defaultVal
	}

	return str
}

// GetInt extracts an int value from the map with type coercion and default fallback.
// Handles int, int64, float64, and string types.
func GetInt(m map[string]any, key string, defaultVal int) int {
	val, ok := Lookup(m, key)
	if !ok {
		return defaultVal
	}

	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
		return defaultVal
	default:
		return defaultVal
	}
}

// GetBool extracts a bool value from the map with a default fallback.
func GetBool(m map[string]any, key string, defaultVal bool) bool {
	val, ok := Lookup(m, key)
	if !ok {
		return defaultVal
	}

	b, ok := val.(bool)
	if !ok {
		return defaultVal
	}

	return b
}

// GetFloat64 extracts a float64 value from the map with type coercion and default fallback.
// Strings are parsed in engineering notation ("10n", "2.5meg").
func GetFloat64(m map[string]any, key string, defaultVal float64) float64 {
	val, ok := Lookup(m, key)
	if !ok {
		return defaultVal
	}

	if f, ok := AsFloat64(val); ok {
		return f
	}
	return defaultVal
}

// AsFloat64 converts a numeric value or an engineering-notation string to float64.
func AsFloat64(val any) (float64, bool) {
	switch v := val.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	case string:
		if parsed, err := units.Parse(v); err == nil {
			return parsed, true
		}
		return 0, false
	default:
		return 0, false
	}
}

// GetStringSlice extracts a []string value from the map.
// Handles []string, []any (converting each element to string), and single string values.
// Returns nil if the key doesn't exist, the value is nil, or cannot be converted.
func GetStringSlice(m map[string]any, key string) []string {
	val, ok := Lookup(m, key)
	if !ok {
		return nil
	}

	if slice, ok := val.([]string); ok {
		return slice
	}

	if slice, ok := val.([]any); ok {
		result := make([]string, 0, len(slice))
		for _, item := range slice {
			if item == nil {
				continue
			}
			result = append(result, fmt.Sprintf("%v", item))
		}
		return result
	}

	if str, ok := val.(string); ok {
		return []string{str}
	}

	return nil
}

// GetSlice extracts a []any value from the map, converting []string,
// []map[string]any and [][]any.
func GetSlice(m map[string]any, key string) []any {
	val, ok := Lookup(m, key)
	if !ok {
		return nil
	}

	switch v := val.(type) {
	case []any:
		return v
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out
	case []map[string]any:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out
	case [][]any:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out
	default:
		return nil
	}
}

// GetMap extracts a nested mapping from the map.
// Returns nil if the key doesn't exist, the value is nil, or not a mapping.
func GetMap(m map[string]any, key string) map[string]any {
	val, ok := Lookup(m, key)
	if !ok {
		return nil
	}

	nested, ok := AsMap(val)
	if !ok {
		return nil
	}

	return nested
}

// GetMapOrEmpty is GetMap with an empty, non-nil mapping as the default.
func GetMapOrEmpty(m map[string]any, key string) map[string]any {
	if nested := GetMap(m, key); nested != nil {
		return nested
	}
	return map[string]any{}
}

// AsMap converts map[string]any, map[string]string, map[string]float64 and
// map[any]any with string keys to map[string]any.
func AsMap(val any) (map[string]any, bool) {
	switch v := val.(type) {
	case map[string]any:
		return v, true
	case map[string]string:
		out := make(map[string]any, len(v))
		for k, s := range v {
			out[k] = s
		}
		return out, true
	case map[string]float64:
		out := make(map[string]any, len(v))
		for k, f := range v {
			out[k] = f
		}
		return out, true
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = item
		}
		return out, true
	default:
		return nil, false
	}
}

// Clone returns a deep copy of m. Nested mappings and slices are copied;
// scalar values are shared.
func Clone(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = CloneValue(v)
	}
	return out
}

// CloneValue deep-copies mappings and slices inside v.
func CloneValue(v any) any {
	if nested, ok := AsMap(v); ok {
		return Clone(nested)
	}
	switch s := v.(type) {
	case []any:
		out := make([]any, len(s))
		for i, item := range s {
			out[i] = CloneValue(item)
		}
		return out
	case []string:
		return append([]string(nil), s...)
	default:
		return v
	}
}
