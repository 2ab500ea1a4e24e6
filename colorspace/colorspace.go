package colorspace

import (
	"math"

	"github.com/gogpu/vidrender/dovi"
)

// CIExy is a chromaticity coordinate.
type CIExy struct {
	X, Y float64
}

// RawPrimaries are the mastering display primaries and white point.
type RawPrimaries struct {
	Red, Green, Blue, White CIExy
}

// HDRMetadata is the static (and per-frame dynamic) HDR metadata of a color
// space. Luminance values are in cd/m².
type HDRMetadata struct {
	Primaries RawPrimaries
	MinLuma   float64
	MaxLuma   float64
	MaxCLL    float64
	MaxFALL   float64

	// MaxPQY and AvgPQY are the per-frame PQ brightness statistics from
	// Dolby Vision level 1 metadata, normalized to [0,1]. Zero when absent.
	MaxPQY float64
	AvgPQY float64
}

// ColorSpace is the colorimetry of an image.
type ColorSpace struct {
	Primaries Primaries
	Transfer  Transfer
	HDR       HDRMetadata
}

// IsHDR reports whether the transfer function is an HDR transfer.
func (c *ColorSpace) IsHDR() bool { return c.Transfer.IsHDR() }

// Repr is the encoding of pixel values.
type Repr struct {
	System System
	Levels Levels
	Alpha  Alpha

	// ColorDepth is the number of significant bits; SampleDepth the
	// number of bits each sample occupies in memory.
	ColorDepth  int
	SampleDepth int

	// Dovi is the Dolby Vision reshaping applied to this frame, or nil.
	Dovi *dovi.Metadata
}

// Description is the full color description of one side of a conversion.
type Description struct {
	Color  ColorSpace
	Repr   Repr
	Chroma ChromaLocation
}

// Pinned records which source fields were fixed by configuration and must
// not be refreshed from frame properties.
type Pinned struct {
	System    bool
	Transfer  bool
	Primaries bool
	Levels    bool
	MaxLuma   bool
	MinLuma   bool
}

// ST 2084 constants.
const (
	pqM1 = 2610.0 / 16384
	pqM2 = 2523.0 / 4096 * 128
	pqC1 = 3424.0 / 4096
	pqC2 = 2413.0 / 4096 * 32
	pqC3 = 2392.0 / 4096 * 32

	// PQMaxNits is the luminance of PQ code value 1.0.
	PQMaxNits = 10000
)

// PQToNits converts a normalized PQ value to absolute luminance.
func PQToNits(pq float64) float64 {
	if pq <= 0 {
		return 0
	}
	pq = min(pq, 1)
	e := math.Pow(pq, 1/pqM2)
	l := math.Max(e-pqC1, 0) / (pqC2 - pqC3*e)
	return math.Pow(l, 1/pqM1) * PQMaxNits
}

// NitsToPQ is the inverse of PQToNits.
func NitsToPQ(nits float64) float64 {
	if nits <= 0 {
		return 0
	}
	y := math.Pow(min(nits/PQMaxNits, 1), pqM1)
	return math.Pow((pqC1+pqC2*y)/(1+pqC3*y), pqM2)
}
