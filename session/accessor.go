package session

import "strings"

// Accessor reads and writes single values in a Store, supporting one
// level of nested addressing via compound field names: "outer[inner]"
// or "outer.inner" address the value stored under inner inside the
// mapping stored under outer. Deeper nesting is not supported; names
// that do not split into exactly two parts are treated as plain keys.
type Accessor struct {
	store Store
}

// NewAccessor wraps a Store in an Accessor.
func NewAccessor(store Store) *Accessor {
	return &Accessor{store: store}
}

// Store returns the underlying Store.
func (a *Accessor) Store() Store {
	return a.store
}

// splitFieldName resolves a compound field name into outer and inner
// parts. The second return is trimmed of whitespace and a trailing "]".
// Malformed or multiply-nested names degrade to a single plain key.
func splitFieldName(name string) (outer, inner string, compound bool) {
	if !strings.ContainsAny(name, "[.") {
		return name, "", false
	}
	parts := strings.Split(strings.ReplaceAll(name, "[", "."), ".")
	if len(parts) != 2 {
		return name, "", false
	}
	inner = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(parts[1]), "]"))
	return parts[0], inner, true
}

// FieldExists reports whether the (possibly nested) key is present.
func (a *Accessor) FieldExists(name string) bool {
	outer, inner, compound := splitFieldName(name)
	if !compound {
		return a.store.Exists(outer)
	}
	m, ok := a.mapping(outer)
	if !ok {
		return false
	}
	_, ok = m[inner]
	return ok
}

// GetFieldValue returns the stored value for the (possibly nested) key,
// or def when the key is absent or the outer value is not a mapping.
func (a *Accessor) GetFieldValue(name string, def any) any {
	outer, inner, compound := splitFieldName(name)
	if !compound {
		if v, ok := a.store.Get(outer); ok {
			return v
		}
		return def
	}
	m, ok := a.mapping(outer)
	if !ok {
		return def
	}
	if v, ok := m[inner]; ok {
		return v
	}
	return def
}

// SetFieldValue stores value at the (possibly nested) key. A nil or
// empty-string value deletes the key instead. Setting a nested key
// auto-creates the outer mapping; if the outer key holds a non-mapping
// value the write is refused and false is returned.
func (a *Accessor) SetFieldValue(name string, value any) bool {
	outer, inner, compound := splitFieldName(name)
	if !compound {
		if isEmptyValue(value) {
			a.store.Delete(outer)
			return true
		}
		a.store.Set(outer, value)
		return true
	}

	m, ok := a.mapping(outer)
	if !ok {
		if a.store.Exists(outer) {
			// Outer key holds a scalar; refuse to clobber it.
			return false
		}
		m = make(map[string]any)
	}
	if isEmptyValue(value) {
		delete(m, inner)
	} else {
		m[inner] = value
	}
	a.store.Set(outer, m)
	return true
}

// mapping fetches the outer key as a string-keyed map. JSON-backed
// stores round-trip nested values as map[string]any already.
func (a *Accessor) mapping(outer string) (map[string]any, bool) {
	v, ok := a.store.Get(outer)
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return m, ok
}

func isEmptyValue(value any) bool {
	return value == nil || value == ""
}
