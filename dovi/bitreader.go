package dovi

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	mathbits "math/bits"

	"github.com/Eyevinn/mp4ff/bits"
)

// bitReader reads MSB-first fields from an escaped RPU payload, dropping
// emulation prevention bytes as it goes. Errors are sticky: after the first
// failure every accessor returns zero, so callers check err once per syntax
// structure. pos counts payload bits consumed.
type bitReader struct {
	r   *bits.EBSPReader
	pos int
}

func newBitReader(escaped []byte) *bitReader {
	return &bitReader{r: bits.NewEBSPReader(bytes.NewReader(escaped))}
}

// err reports the first read failure. Running out of payload is
// ErrTruncated.
func (r *bitReader) err() error {
	err := r.r.AccError()
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return ErrTruncated
	}
	return fmt.Errorf("%w: %v", ErrMalformed, err)
}

func (r *bitReader) bits(n int) uint64 {
	if n == 0 {
		return 0
	}
	r.pos += n
	return uint64(r.r.Read(n))
}

func (r *bitReader) flag() bool {
	return r.bits(1) == 1
}

// ue reads an unsigned Exp-Golomb code.
func (r *bitReader) ue() uint64 {
	v := uint64(r.r.ReadExpGolomb())
	r.pos += golombLen(v)
	return v
}

// se reads a signed Exp-Golomb code.
func (r *bitReader) se() int64 {
	v := int64(r.r.ReadSignedGolomb())
	k := uint64(-2 * v)
	if v > 0 {
		k = uint64(2*v - 1)
	}
	r.pos += golombLen(k)
	return v
}

// golombLen is the coded length of the Exp-Golomb code for v.
func golombLen(v uint64) int {
	return 2*mathbits.Len64(v+1) - 1
}

func (r *bitReader) skip(n int) {
	for n > 0 && r.r.AccError() == nil {
		k := min(n, 32)
		r.bits(k)
		n -= k
	}
}

// align advances to the next byte boundary.
func (r *bitReader) align() {
	if rem := r.pos & 7; rem != 0 {
		r.skip(8 - rem)
	}
}
