package vidrender

import (
	"fmt"
	"strconv"

	"github.com/gogpu/vidrender/gpucore"
	"github.com/gogpu/vidrender/internal/names"
)

// ColorFamily is the component layout of a planar pixel format.
type ColorFamily uint8

// Color families.
const (
	FamilyGray ColorFamily = iota + 1
	FamilyYUV
	FamilyRGB
)

// PixelFormat describes a planar video format. Every component lives in its
// own plane; YUV chroma planes may be subsampled.
type PixelFormat struct {
	Family ColorFamily

	// Bits is the significant bits per sample: 8 to 16 for integer
	// formats, 32 for float.
	Bits int

	// SubW and SubH are the log2 horizontal and vertical chroma
	// subsampling factors.
	SubW, SubH int

	Alpha bool
}

// IsFloat reports whether samples are 32-bit floats.
func (f PixelFormat) IsFloat() bool { return f.Bits == 32 }

// IsRGB reports whether f is an RGB format.
func (f PixelFormat) IsRGB() bool { return f.Family == FamilyRGB }

// ComponentSize returns the size of one sample in bytes.
func (f PixelFormat) ComponentSize() int {
	switch {
	case f.Bits <= 8:
		return 1
	case f.Bits <= 16:
		return 2
	}
	return 4
}

// NumPlanes returns the number of planes, alpha included.
func (f PixelFormat) NumPlanes() int {
	n := 3
	if f.Family == FamilyGray {
		n = 1
	}
	if f.Alpha {
		n++
	}
	return n
}

// IsChroma reports whether plane i holds a chroma difference component,
// which is stored with a +0.5 offset convention in float formats.
func (f PixelFormat) IsChroma(i int) bool {
	return f.Family == FamilyYUV && (i == 1 || i == 2)
}

// PlaneSize returns the dimensions of plane i of a width x height frame.
func (f PixelFormat) PlaneSize(i, width, height int) (int, int) {
	if f.IsChroma(i) {
		return width >> f.SubW, height >> f.SubH
	}
	return width, height
}

// TextureFormat returns the texture format holding one plane of f.
func (f PixelFormat) TextureFormat() (gpucore.TextureFormat, error) {
	return gpucore.FormatFor(f.ComponentSize(), f.IsFloat())
}

// Valid reports whether f is one of the formats ParsePixelFormat accepts.
func (f PixelFormat) Valid() bool {
	_, ok := pixelFormats.Name(f)
	return ok
}

func (f PixelFormat) String() string {
	if s, ok := pixelFormats.Name(f); ok {
		return s
	}
	return fmt.Sprintf("PixelFormat(%d, %d bits, %d:%d, alpha=%v)", f.Family, f.Bits, f.SubW, f.SubH, f.Alpha)
}

// ParsePixelFormat parses a format name such as "YUV420P10", "YV12" or
// "RGBPS". Matching is case-insensitive.
func ParsePixelFormat(s string) (PixelFormat, error) {
	if f, ok := pixelFormats.Lookup(s); ok {
		return f, nil
	}
	return PixelFormat{}, fmt.Errorf("vidrender: unknown pixel format %q", s)
}

// Formats commonly used in tests and presets.
var (
	FormatYUV420P8  = PixelFormat{Family: FamilyYUV, Bits: 8, SubW: 1, SubH: 1}
	FormatYUV420P10 = PixelFormat{Family: FamilyYUV, Bits: 10, SubW: 1, SubH: 1}
	FormatYUV444PS  = PixelFormat{Family: FamilyYUV, Bits: 32}
	FormatRGBP8     = PixelFormat{Family: FamilyRGB, Bits: 8}
	FormatGray8     = PixelFormat{Family: FamilyGray, Bits: 8}
)

var pixelFormats = names.NewTable(formatEntries()...)

// formatEntries lists every planar format by depth, in the order
// gray, 4:2:0, 4:2:2, 4:4:4, RGB, then the alpha variants.
func formatEntries() []names.Entry[PixelFormat] {
	var entries []names.Entry[PixelFormat]
	add := func(name string, f PixelFormat) {
		entries = append(entries, names.Entry[PixelFormat]{Name: name, Value: f})
	}
	for _, bits := range []int{8, 10, 12, 14, 16, 32} {
		depth := strconv.Itoa(bits)
		if bits == 32 {
			depth = "S"
		}
		gray := "Y" + strconv.Itoa(bits)
		rgb := "RGBP" + depth
		if bits == 8 {
			rgb = "RGBP"
			depth = "8"
		}

		add(gray, PixelFormat{Family: FamilyGray, Bits: bits})
		for _, alpha := range []bool{false, true} {
			yuv, rgbName := "YUV", rgb
			if alpha {
				yuv, rgbName = "YUVA", "RGBAP"+rgb[len("RGBP"):]
			}
			add(yuv+"420P"+depth, PixelFormat{Family: FamilyYUV, Bits: bits, SubW: 1, SubH: 1, Alpha: alpha})
			add(yuv+"422P"+depth, PixelFormat{Family: FamilyYUV, Bits: bits, SubW: 1, Alpha: alpha})
			add(yuv+"444P"+depth, PixelFormat{Family: FamilyYUV, Bits: bits, Alpha: alpha})
			add(rgbName, PixelFormat{Family: FamilyRGB, Bits: bits, Alpha: alpha})
		}
	}
	add("YV12", FormatYUV420P8)
	add("YV16", PixelFormat{Family: FamilyYUV, Bits: 8, SubW: 1})
	add("YV24", PixelFormat{Family: FamilyYUV, Bits: 8})
	return entries
}
