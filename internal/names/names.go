// Package names provides case-insensitive lookup tables for the string
// spellings accepted by configuration options (matrix names, presets,
// pixel formats and so on).
package names

import (
	"strings"

	"golang.org/x/text/cases"
)

// Key folds s into the form used for table lookups.
// Surrounding whitespace is ignored.
func Key(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// Equal reports whether a and b name the same option value.
func Equal(a, b string) bool {
	return Key(a) == Key(b)
}

// Entry is one spelling of a value.
type Entry[V any] struct {
	Name  string
	Value V
}

// Table maps option spellings to values. Several spellings may map to the
// same value; Name returns the first spelling registered for a value.
type Table[V comparable] struct {
	byKey   map[string]V
	entries []Entry[V]
}

// NewTable builds a lookup table from entries. Later duplicates of a
// spelling are ignored.
func NewTable[V comparable](entries ...Entry[V]) *Table[V] {
	t := &Table[V]{
		byKey:   make(map[string]V, len(entries)),
		entries: entries,
	}
	for _, e := range entries {
		k := Key(e.Name)
		if _, dup := t.byKey[k]; dup {
			continue
		}
		t.byKey[k] = e.Value
	}
	return t
}

// Lookup returns the value registered for name.
func (t *Table[V]) Lookup(name string) (V, bool) {
	v, ok := t.byKey[Key(name)]
	return v, ok
}

// Name returns the canonical spelling of v.
func (t *Table[V]) Name(v V) (string, bool) {
	for _, e := range t.entries {
		if e.Value == v {
			return e.Name, true
		}
	}
	return "", false
}

// Names returns every accepted spelling in registration order.
func (t *Table[V]) Names() []string {
	out := make([]string, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e.Name)
	}
	return out
}
