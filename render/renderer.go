// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/vidrender"
	"github.com/gogpu/vidrender/colorspace"
	"github.com/gogpu/vidrender/gpucore"
)

// ErrUnsupported is wrapped by errors for conversions a renderer cannot
// perform.
var ErrUnsupported = errors.New("render: unsupported conversion")

// Error is a render failure with the renderer log.
type Error struct {
	log string
	Err error
}

func (e *Error) Error() string { return "render: " + e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

// Log returns the renderer output collected during the failed call.
func (e *Error) Log() string { return e.log }

// Capabilities describes the conversions a renderer supports.
type Capabilities struct {
	// IsGPU indicates that the renderer runs shaders on the device.
	IsGPU bool

	// Scaling indicates that source and output sizes may differ.
	Scaling bool

	// ColorConversion indicates that source and output color families
	// may differ.
	ColorConversion bool

	// Deinterlacing indicates that fields and neighbor frames are used.
	Deinterlacing bool
}

// Passthrough copies each source plane into the output plane of the same
// index. Source and output must share plane count, plane sizes and color
// family; fields and neighbor frames are ignored, so interlaced content is
// woven.
//
// Example:
//
//	r := render.NewPassthrough(dev)
//	rc, err := vidrender.New(cfg, dev, src, r)
type Passthrough struct {
	dev gpucore.Device

	// Infer completes the destination color space. Nil selects
	// colorspace.InferMap.
	Infer colorspace.InferFunc

	frames int
}

// NewPassthrough creates a passthrough renderer on dev.
func NewPassthrough(dev gpucore.Device) *Passthrough {
	return &Passthrough{dev: dev}
}

// Capabilities returns the renderer's capabilities.
func (r *Passthrough) Capabilities() Capabilities {
	return Capabilities{}
}

// Frames returns the number of frames rendered.
func (r *Passthrough) Frames() int {
	return r.frames
}

// Render copies src into dst.
func (r *Passthrough) Render(src, dst *vidrender.RenderFrame, _ *vidrender.RenderParams) error {
	var log strings.Builder
	fail := func(err error) error {
		return &Error{log: log.String(), Err: err}
	}

	fmt.Fprintf(&log, "passthrough %v %dx%d -> %v %dx%d\n",
		src.Format, src.Width, src.Height, dst.Format, dst.Width, dst.Height)
	if src.Format.Family != dst.Format.Family || src.Format.Alpha != dst.Format.Alpha {
		return fail(fmt.Errorf("%w: %v to %v", ErrUnsupported, src.Format, dst.Format))
	}
	if len(src.Planes) != len(dst.Planes) {
		return fail(fmt.Errorf("%w: %d source planes, %d output planes", ErrUnsupported, len(src.Planes), len(dst.Planes)))
	}

	for i := range dst.Planes {
		sd, ok := r.dev.Describe(src.Planes[i])
		if !ok {
			return fail(fmt.Errorf("source plane %d: %w", i, gpucore.ErrInvalidTexture))
		}
		dd, ok := r.dev.Describe(dst.Planes[i])
		if !ok {
			return fail(fmt.Errorf("output plane %d: %w", i, gpucore.ErrInvalidTexture))
		}
		fmt.Fprintf(&log, "plane %d: %dx%d %v -> %dx%d %v\n", i, sd.Width, sd.Height, sd.Format, dd.Width, dd.Height, dd.Format)
		if sd.Width != dd.Width || sd.Height != dd.Height {
			return fail(fmt.Errorf("%w: plane %d scaling", ErrUnsupported, i))
		}
		if err := r.dev.OffsetPass(src.Planes[i], dst.Planes[i], 0); err != nil {
			return fail(fmt.Errorf("plane %d: %w", i, err))
		}
	}
	r.frames++
	return nil
}

// InferColorSpaces completes dst from src.
func (r *Passthrough) InferColorSpaces(src, dst *colorspace.ColorSpace) {
	if r.Infer != nil {
		r.Infer(src, dst)
		return
	}
	colorspace.InferMap(src, dst)
}

// Ensure Passthrough implements vidrender.Renderer.
var _ vidrender.Renderer = (*Passthrough)(nil)

// Ensure Error carries a renderer log.
var _ vidrender.LogError = (*Error)(nil)
