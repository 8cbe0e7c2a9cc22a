// Package jsonutil carries the canonical-default pruner shared by the
// config synthesizer, the URL serializers and the config file writer.
package jsonutil

// Prune walks a decoded JSON value and deletes object members whose value
// equals the type default: empty strings, zero numbers, false booleans,
// empty arrays, empty objects and nulls. A "stats" member is always kept --
// an empty stats object is the marker that enables the stats engine.
//
// The return value reports whether v itself is a default value. Prune is
// idempotent.
func Prune(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case bool:
		return !val
	case float64:
		return val == 0
	case string:
		return val == ""
	case []any:
		for _, item := range val {
			if obj, ok := item.(map[string]any); ok {
				Prune(obj)
			}
		}
		return len(val) == 0
	case map[string]any:
		onlyDefaults := true
		for key, member := range val {
			if key == "stats" {
				continue
			}
			if Prune(member) {
				delete(val, key)
			} else {
				onlyDefaults = false
			}
		}
		return len(val) == 0 || onlyDefaults
	}
	return false
}
