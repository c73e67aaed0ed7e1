package parking

import "strconv"

// RawPayload is a decoded upstream JSON document. Schemas vary per city
// and no field can be trusted to exist or to carry the expected type, so
// adapters read it through the coercing accessors below.
type RawPayload = map[string]any

// StringField returns the string at key, or def when the key is absent
// or not a string.
func StringField(m map[string]any, key, def string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return def
}

// IntField normalizes a numeric field from the shapes upstream APIs
// actually send: JSON numbers decode as float64, but some sources emit
// counts as strings. Missing or unparsable values default to def.
func IntField(m map[string]any, key string, def int) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// BoolField returns the boolean at key, or def when absent or mistyped.
func BoolField(m map[string]any, key string, def bool) bool {
	if v, ok := m[key].(bool); ok {
		return v
	}
	return def
}

// MapField returns the object at key, or ok=false when absent or not an
// object.
func MapField(m map[string]any, key string) (map[string]any, bool) {
	v, ok := m[key].(map[string]any)
	return v, ok
}

// ListField returns the array at key, or ok=false when absent or not an
// array.
func ListField(m map[string]any, key string) ([]any, bool) {
	v, ok := m[key].([]any)
	return v, ok
}
