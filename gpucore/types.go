package gpucore

import (
	"errors"
	"fmt"
)

// Resource IDs
//
// These opaque IDs represent GPU textures. Each device implementation
// maintains a mapping between IDs and actual backend resources.
// IDs are uint64 to accommodate various backend handle sizes.

// TextureID is an opaque handle to a GPU texture.
type TextureID uint64

// InvalidID is the zero value, representing an invalid/null texture.
const InvalidID TextureID = 0

// Common device errors.
var (
	// ErrInvalidTexture is returned when an ID does not name a live texture.
	ErrInvalidTexture = errors.New("gpucore: invalid texture")

	// ErrFormatMismatch is returned when plane data does not match the
	// texture format.
	ErrFormatMismatch = errors.New("gpucore: format mismatch")

	// ErrSizeMismatch is returned when dimensions or buffer sizes disagree.
	ErrSizeMismatch = errors.New("gpucore: size mismatch")

	// ErrUnsupportedFormat is returned for sample layouts no texture format
	// can hold.
	ErrUnsupportedFormat = errors.New("gpucore: unsupported format")

	// ErrDeviceClosed is returned by operations on a closed device.
	ErrDeviceClosed = errors.New("gpucore: device closed")
)

// DeviceError is a failed plane transfer or render pass. Trace is the
// device's record of the steps that led to the failure; it is exposed as
// the error's diagnostic log.
type DeviceError struct {
	Op      string
	Texture TextureID
	Trace   string
	Err     error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("%s texture %d: %v", e.Op, e.Texture, e.Err)
}

func (e *DeviceError) Unwrap() error { return e.Err }

// Log returns the device trace.
func (e *DeviceError) Log() string { return e.Trace }

// SampleType is the numeric interpretation of a texel.
type SampleType uint8

// Sample types.
const (
	// SampleUnorm is a normalized unsigned integer.
	SampleUnorm SampleType = iota + 1

	// SampleFloat is an IEEE 754 floating point value.
	SampleFloat
)

// TextureFormat specifies the format of a single-component texture.
type TextureFormat struct {
	Type  SampleType
	Depth int // bits per texel
}

// Texture formats.
var (
	// R8Unorm is 8-bit red channel only, normalized unsigned integer.
	R8Unorm = TextureFormat{Type: SampleUnorm, Depth: 8}

	// R16Unorm is 16-bit red channel only, normalized unsigned integer.
	R16Unorm = TextureFormat{Type: SampleUnorm, Depth: 16}

	// R32Float is 32-bit red channel only, floating point.
	R32Float = TextureFormat{Type: SampleFloat, Depth: 32}
)

// FormatFor returns the texture format holding samples of componentSize
// bytes. Float samples must be 4 bytes wide.
func FormatFor(componentSize int, float bool) (TextureFormat, error) {
	switch {
	case float && componentSize == 4:
		return R32Float, nil
	case !float && componentSize == 1:
		return R8Unorm, nil
	case !float && componentSize == 2:
		return R16Unorm, nil
	}
	return TextureFormat{}, fmt.Errorf("%w: %d-byte %s samples", ErrUnsupportedFormat, componentSize, typeName(float))
}

func typeName(float bool) string {
	if float {
		return "float"
	}
	return "integer"
}

// BytesPerTexel returns the size of one texel in bytes.
func (f TextureFormat) BytesPerTexel() int {
	return f.Depth / 8
}

// Valid reports whether f is one of the supported formats.
func (f TextureFormat) Valid() bool {
	return f == R8Unorm || f == R16Unorm || f == R32Float
}

// IsFloat reports whether f stores floating point samples.
func (f TextureFormat) IsFloat() bool {
	return f.Type == SampleFloat
}

func (f TextureFormat) String() string {
	switch f {
	case R8Unorm:
		return "r8unorm"
	case R16Unorm:
		return "r16unorm"
	case R32Float:
		return "r32float"
	}
	return fmt.Sprintf("TextureFormat(%d, %d)", f.Type, f.Depth)
}

// TextureDesc describes a texture.
type TextureDesc struct {
	// Label is an optional debug label.
	Label string

	// Width and Height are the texture dimensions in texels.
	Width  int
	Height int

	// Format is the texel format.
	Format TextureFormat

	// Renderable marks textures written by a render pass.
	Renderable bool

	// HostReadable marks textures downloaded to host memory.
	HostReadable bool
}

// Validate checks the descriptor.
func (d *TextureDesc) Validate() error {
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("%w: %dx%d texture", ErrSizeMismatch, d.Width, d.Height)
	}
	if !d.Format.Valid() {
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, d.Format)
	}
	return nil
}

// Compatible reports whether a texture created from d can be reused for
// other. Labels are ignored.
func (d TextureDesc) Compatible(other TextureDesc) bool {
	d.Label, other.Label = "", ""
	return d == other
}

// PlaneData is one host-side plane of pixels.
type PlaneData struct {
	Width  int
	Height int
	Format TextureFormat

	// Stride is the distance between rows in bytes.
	Stride int

	// Pixels holds Height rows; the last row may omit its padding.
	Pixels []byte
}

// RowBytes returns the number of meaningful bytes per row.
func (p *PlaneData) RowBytes() int {
	return p.Width * p.Format.BytesPerTexel()
}

// Validate checks that the buffer covers every row.
func (p *PlaneData) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("%w: %dx%d plane", ErrSizeMismatch, p.Width, p.Height)
	}
	if !p.Format.Valid() {
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, p.Format)
	}
	row := p.RowBytes()
	if p.Stride < row {
		return fmt.Errorf("%w: stride %d < row %d", ErrSizeMismatch, p.Stride, row)
	}
	if need := p.Stride*(p.Height-1) + row; len(p.Pixels) < need {
		return fmt.Errorf("%w: %d bytes, need %d", ErrSizeMismatch, len(p.Pixels), need)
	}
	return nil
}
