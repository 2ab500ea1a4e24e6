package field

import "github.com/gogpu/vidrender/props"

// ParityFunc reports whether source frame n is top field first.
type ParityFunc func(n int) bool

// State is the field parity state machine of one render context.
// It is not safe for concurrent use; the render context serializes access.
type State struct {
	mode Mode

	// Cached first field for the double-rate pair pairIndex.
	pairIndex int
	first     Field
}

// NewState returns the state machine for mode.
func NewState(mode Mode) *State {
	s := &State{mode: mode, pairIndex: -1}
	if mode.IsFixed() {
		s.first = Bottom
		if mode == TopFirst || mode == DoubleRateTopFirst {
			s.first = Top
		}
	}
	return s
}

// Mode returns the configured mode.
func (s *State) Mode() Mode { return s.mode }

// IsDoubleRate reports whether two output frames are produced per source
// frame.
func (s *State) IsDoubleRate() bool { return s.mode.IsDoubleRate() }

// SourceIndex maps an output frame index to the source frame index.
func (s *State) SourceIndex(n int) int {
	if s.IsDoubleRate() {
		return n >> 1
	}
	return n
}

// ScaleStream returns the frame count and frame rate numerator of the
// produced stream.
func (s *State) ScaleStream(frames int, fpsNum int64) (int, int64) {
	if s.IsDoubleRate() {
		return frames << 1, fpsNum << 1
	}
	return frames, fpsNum
}

// Parity reports whether output frame n is top field first. Fixed modes
// report their configured order; otherwise the source parity is used,
// alternating between the two outputs of a source frame at double rate.
func (s *State) Parity(n int, source ParityFunc) bool {
	if s.mode.IsFixed() {
		if s.mode.IsDoubleRate() {
			return s.mode-2 == TopFirst
		}
		return s.mode == TopFirst
	}
	p := source(s.SourceIndex(n))
	if s.IsDoubleRate() && n&1 == 1 {
		return !p
	}
	return p
}

// Resolve returns the field to render for output frame n and the first
// field of its source frame. In automatic modes the first field comes from
// the _FieldBased property of m, or from source when the property is absent,
// and is computed once per double-rate pair.
func (s *State) Resolve(n int, m props.Map, source ParityFunc) (cur, first Field) {
	srcN := s.SourceIndex(n)
	if !s.mode.IsFixed() && !(s.IsDoubleRate() && s.pairIndex == srcN) {
		s.first = Bottom
		v, ok := m.Int(props.FieldBased)
		if (ok && v == 2) || (!ok && source(srcN)) {
			s.first = Top
		}
		s.pairIndex = srcN
	}

	first = s.first
	cur = first
	if s.IsDoubleRate() && n&1 == 1 {
		cur = first.Opposite()
	}
	return cur, first
}
