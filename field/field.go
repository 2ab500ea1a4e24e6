// Package field maps output frame indices to source frames and field
// polarities for deinterlacing.
//
// The configured [Mode] is fixed for the lifetime of a render context. The
// only runtime state is the first field of the double-rate pair currently
// being produced, cached so both halves of a pair agree on which field comes
// first.
package field

import (
	"fmt"

	"github.com/gogpu/vidrender/internal/names"
	"github.com/gogpu/vidrender/props"
)

// Mode is the field option. The numeric values are the option values users
// pass on the command line and in configuration files.
type Mode int

// Field modes.
const (
	// DoubleRateAuto outputs one frame per field, field order from frame
	// properties or source parity.
	DoubleRateAuto Mode = -2
	// Auto outputs one frame per source frame, field order from frame
	// properties or source parity.
	Auto Mode = -1
	// BottomFirst and TopFirst force the field order at source rate.
	BottomFirst Mode = 0
	TopFirst    Mode = 1
	// DoubleRateBottomFirst and DoubleRateTopFirst force the field order at
	// double rate.
	DoubleRateBottomFirst Mode = 2
	DoubleRateTopFirst    Mode = 3
)

// Valid reports whether m is in the accepted range.
func (m Mode) Valid() bool {
	return m >= DoubleRateAuto && m <= DoubleRateTopFirst
}

// IsDoubleRate reports whether m produces one output frame per field.
func (m Mode) IsDoubleRate() bool {
	return m == DoubleRateAuto || m > TopFirst
}

// IsFixed reports whether m forces the field order.
func (m Mode) IsFixed() bool {
	return m > Auto
}

func (m Mode) String() string {
	switch m {
	case DoubleRateAuto:
		return "double-rate-auto"
	case Auto:
		return "auto"
	case BottomFirst:
		return "bff"
	case TopFirst:
		return "tff"
	case DoubleRateBottomFirst:
		return "double-rate-bff"
	case DoubleRateTopFirst:
		return "double-rate-tff"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Field is a field polarity.
type Field uint8

// Field polarities.
const (
	None Field = iota
	Top
	Bottom
)

// Opposite returns the other field of a frame. None stays None.
func (f Field) Opposite() Field {
	switch f {
	case Top:
		return Bottom
	case Bottom:
		return Top
	}
	return None
}

func (f Field) String() string {
	switch f {
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	}
	return "none"
}

// Codes converts fields to and from the _FieldBased property.
var Codes = props.NewTable(
	props.Pair[Field]{Value: None, Code: 0},
	props.Pair[Field]{Value: Bottom, Code: 1},
	props.Pair[Field]{Value: Top, Code: 2},
)

// Algorithm is a deinterlacing algorithm.
type Algorithm uint8

// Deinterlacing algorithms.
const (
	Weave Algorithm = iota
	Bob
	Yadif
	Bwdif
)

var algorithms = names.NewTable(
	names.Entry[Algorithm]{Name: "weave", Value: Weave},
	names.Entry[Algorithm]{Name: "bob", Value: Bob},
	names.Entry[Algorithm]{Name: "yadif", Value: Yadif},
	names.Entry[Algorithm]{Name: "bwdif", Value: Bwdif},
)

// ParseAlgorithm parses an algorithm name.
func ParseAlgorithm(s string) (Algorithm, error) {
	if a, ok := algorithms.Lookup(s); ok {
		return a, nil
	}
	return 0, fmt.Errorf("unknown deinterlace algorithm %q", s)
}

func (a Algorithm) String() string {
	if s, ok := algorithms.Name(a); ok {
		return s
	}
	return fmt.Sprintf("Algorithm(%d)", uint8(a))
}

// UsesNeighbors reports whether the algorithm reads the previous and next
// frames.
func (a Algorithm) UsesNeighbors() bool {
	return a == Yadif || a == Bwdif
}

// Params are the deinterlacer parameters handed to the renderer.
type Params struct {
	Algo             Algorithm
	SkipSpatialCheck bool
}

// DefaultParams returns yadif with the spatial check enabled.
func DefaultParams() Params {
	return Params{Algo: Yadif}
}
