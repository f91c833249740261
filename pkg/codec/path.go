package codec

import "strings"

// GetNested resolves a dotted key against obj, walking one map level per
// segment. It reports false when any segment is missing or when an
// intermediate value is not an object.
func GetNested(obj Object, key string) (any, bool) {
	var current any = obj
	for _, segment := range strings.Split(key, ".") {
		m, ok := current.(Object)
		if !ok {
			return nil, false
		}
		v, ok := m[segment]
		if !ok {
			return nil, false
		}
		current = v
	}
	return current, true
}

// SetNested writes value at the dotted key, creating intermediate objects as
// needed. A non-object intermediate is replaced.
func SetNested(obj Object, key string, value any) {
	segments := strings.Split(key, ".")
	current := obj
	for _, segment := range segments[:len(segments)-1] {
		next, ok := current[segment].(Object)
		if !ok {
			next = Object{}
			current[segment] = next
		}
		current = next
	}
	current[segments[len(segments)-1]] = value
}
