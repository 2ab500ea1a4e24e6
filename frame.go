package vidrender

import (
	"fmt"

	"github.com/gogpu/vidrender/colorspace"
	"github.com/gogpu/vidrender/field"
	"github.com/gogpu/vidrender/gpucore"
	"github.com/gogpu/vidrender/props"
)

// Plane is one plane of a host frame.
type Plane struct {
	Width  int
	Height int

	// Stride is the distance between rows in bytes.
	Stride int
	Pixels []byte
}

// HostFrame is a decoded frame in host memory.
type HostFrame struct {
	Format PixelFormat
	Width  int
	Height int
	Planes []Plane

	// Props carries the frame's side-channel properties.
	Props props.Map
}

// NewHostFrame allocates a frame with tightly packed planes.
func NewHostFrame(format PixelFormat, width, height int) *HostFrame {
	f := &HostFrame{
		Format: format,
		Width:  width,
		Height: height,
		Planes: make([]Plane, format.NumPlanes()),
		Props:  make(props.Map),
	}
	size := format.ComponentSize()
	for i := range f.Planes {
		w, h := format.PlaneSize(i, width, height)
		f.Planes[i] = Plane{Width: w, Height: h, Stride: w * size, Pixels: make([]byte, w*h*size)}
	}
	return f
}

// Validate checks that the frame matches its format.
func (f *HostFrame) Validate() error {
	if len(f.Planes) != f.Format.NumPlanes() {
		return fmt.Errorf("vidrender: %v frame has %d planes, want %d", f.Format, len(f.Planes), f.Format.NumPlanes())
	}
	for i, p := range f.Planes {
		w, h := f.Format.PlaneSize(i, f.Width, f.Height)
		if p.Width != w || p.Height != h {
			return fmt.Errorf("vidrender: plane %d is %dx%d, want %dx%d", i, p.Width, p.Height, w, h)
		}
	}
	return nil
}

// planeData describes plane i for upload.
func (f *HostFrame) planeData(i int, tf gpucore.TextureFormat) *gpucore.PlaneData {
	p := &f.Planes[i]
	return &gpucore.PlaneData{
		Width:  p.Width,
		Height: p.Height,
		Format: tf,
		Stride: p.Stride,
		Pixels: p.Pixels,
	}
}

// VideoInfo describes a frame stream.
type VideoInfo struct {
	Width     int
	Height    int
	Format    PixelFormat
	NumFrames int
	FPSNum    int64
	FPSDen    int64
}

// FrameProvider supplies decoded source frames. It is passed explicitly to
// each render context, so independent contexts never share provider state.
type FrameProvider interface {
	// Info describes the source stream.
	Info() VideoInfo

	// Frame returns source frame n. The render context reads the frame
	// but never retains it past the call.
	Frame(n int) (*HostFrame, error)

	// Parity reports whether source frame n is top field first.
	Parity(n int) bool
}

// RenderFrame is the description of one side of a render call: plane
// textures plus color metadata. Textures are borrowed for the duration of
// the call only.
type RenderFrame struct {
	Planes []gpucore.TextureID
	Width  int
	Height int
	Format PixelFormat

	Color  colorspace.ColorSpace
	Repr   colorspace.Repr
	Chroma colorspace.ChromaLocation

	// Field is the field to render; FirstField is the field order of the
	// source frame. Both are field.None for progressive rendering.
	Field      field.Field
	FirstField field.Field

	// Prev and Next are the neighboring source frames used by temporal
	// deinterlacers, or nil.
	Prev, Next *RenderFrame
}

// Renderer is the external render pass.
type Renderer interface {
	// Render draws src into the planes of dst. A failure returns an error
	// carrying the renderer's log.
	Render(src, dst *RenderFrame, p *RenderParams) error

	// InferColorSpaces completes the destination color space from the
	// resolved source.
	InferColorSpaces(src, dst *colorspace.ColorSpace)
}
