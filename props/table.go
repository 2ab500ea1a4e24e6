package props

// Pair associates an enum value with its integer property code.
type Pair[E comparable] struct {
	Value E
	Code  int64
}

// Table converts between an enum and the integer codes used in frame
// properties. It is built from one declarative list of pairs into two
// independent ordered lookups. When a value appears with several codes (or
// a code with several values), the first pair wins in that direction.
type Table[E comparable] struct {
	toCode  []Pair[E]
	toValue []Pair[E]
}

// NewTable builds a Table from pairs.
func NewTable[E comparable](pairs ...Pair[E]) *Table[E] {
	t := &Table[E]{}
	seenValue := make(map[E]bool, len(pairs))
	seenCode := make(map[int64]bool, len(pairs))
	for _, p := range pairs {
		if !seenValue[p.Value] {
			seenValue[p.Value] = true
			t.toCode = append(t.toCode, p)
		}
		if !seenCode[p.Code] {
			seenCode[p.Code] = true
			t.toValue = append(t.toValue, p)
		}
	}
	return t
}

// Code returns the property code for v.
func (t *Table[E]) Code(v E) (int64, bool) {
	for _, p := range t.toCode {
		if p.Value == v {
			return p.Code, true
		}
	}
	return 0, false
}

// Value returns the enum value for a property code.
func (t *Table[E]) Value(code int64) (E, bool) {
	for _, p := range t.toValue {
		if p.Code == code {
			return p.Value, true
		}
	}
	var zero E
	return zero, false
}

// Refresh overwrites *target with the value decoded from the integer
// property key, if the property is present and its code is known.
//
// Code 2 means "unspecified" for matrix, transfer, primaries and range, and
// none of their tables map it, so an unspecified tag falls through the
// lookup and leaves *target untouched. There is no separate branch for it.
func (t *Table[E]) Refresh(m Map, key string, target *E) bool {
	code, ok := m.Int(key)
	if !ok {
		return false
	}
	v, ok := t.Value(code)
	if !ok {
		return false
	}
	*target = v
	return true
}

// Sync writes v into m under key, or removes key when v has no code.
func (t *Table[E]) Sync(m Map, key string, v E) {
	if code, ok := t.Code(v); ok {
		m.SetInt(key, code)
		return
	}
	m.Delete(key)
}
