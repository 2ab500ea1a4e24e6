package config

import (
	"cmp"
	"fmt"
)

// Error is an invalid option value. Resolve reports the first one found.
type Error struct {
	Option string
	Msg    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Option, e.Msg)
}

func invalid(option, format string, args ...any) *Error {
	return &Error{Option: option, Msg: fmt.Sprintf(format, args...)}
}

// between copies *v into *dst after checking lo <= *v <= hi. Nil v leaves
// dst untouched.
func between[T cmp.Ordered](option string, v *T, dst *T, lo, hi T) error {
	if v == nil {
		return nil
	}
	if *v < lo || *v > hi {
		return invalid(option, "must be between %v and %v", lo, hi)
	}
	*dst = *v
	return nil
}

// atLeast copies *v into *dst after checking *v >= lo.
func atLeast[T cmp.Ordered](option string, v *T, dst *T, lo T) error {
	if v == nil {
		return nil
	}
	if *v < lo {
		return invalid(option, "must be at least %v", lo)
	}
	*dst = *v
	return nil
}

// lookup parses *v with parse into *dst. It reports whether v was given.
func lookup[V any](option string, v *string, dst *V, parse func(string) (V, error)) (bool, error) {
	if v == nil {
		return false, nil
	}
	p, err := parse(*v)
	if err != nil {
		return true, invalid(option, "invalid value %q", *v)
	}
	*dst = p
	return true, nil
}
