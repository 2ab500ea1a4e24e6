//go:build !nogpu

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/vidrender/gpucore"
)

// UploadPlane writes host pixels into a texture through the queue.
func (d *Device) UploadPlane(id gpucore.TextureID, plane *gpucore.PlaneData) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.steps = d.steps[:0]
	if err := d.upload(id, plane); err != nil {
		return d.fail("upload", id, err)
	}
	return nil
}

func (d *Device) upload(id gpucore.TextureID, plane *gpucore.PlaneData) error {
	if err := plane.Validate(); err != nil {
		return err
	}
	t, err := d.lookup(id)
	if err != nil {
		return err
	}
	if plane.Format != t.desc.Format {
		return fmt.Errorf("%w: %v plane into %v texture", gpucore.ErrFormatMismatch, plane.Format, t.desc.Format)
	}
	if plane.Width != t.desc.Width || plane.Height != t.desc.Height {
		return fmt.Errorf("%w: %dx%d plane into %dx%d texture", gpucore.ErrSizeMismatch,
			plane.Width, plane.Height, t.desc.Width, t.desc.Height)
	}

	row := plane.RowBytes()
	data := plane.Pixels
	if plane.Stride != row {
		data = make([]byte, row*plane.Height)
		repack(data, row, plane.Pixels, plane.Stride, row, plane.Height)
		d.step("repack %d rows from stride %d to %d", plane.Height, plane.Stride, row)
	}
	w, h := uint32(plane.Width), uint32(plane.Height) //nolint:gosec // validated positive
	d.step("write texture %d: %dx%d %v, %d bytes", id, w, h, plane.Format, row*plane.Height)
	err = d.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: t.tex, MipLevel: 0},
		data[:row*plane.Height],
		&hal.ImageDataLayout{Offset: 0, BytesPerRow: uint32(row), RowsPerImage: h}, //nolint:gosec // bounded by texture size
		&hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	)
	if err != nil {
		return fmt.Errorf("write texture: %w", err)
	}
	return nil
}

// DownloadPlane copies a texture into dst through a staging buffer.
func (d *Device) DownloadPlane(id gpucore.TextureID, dst []byte, stride int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.steps = d.steps[:0]
	if err := d.download(id, dst, stride); err != nil {
		return d.fail("download", id, err)
	}
	return nil
}

func (d *Device) download(id gpucore.TextureID, dst []byte, stride int) error {
	t, err := d.lookup(id)
	if err != nil {
		return err
	}
	desc := t.desc
	row := desc.Width * desc.Format.BytesPerTexel()
	if stride < row {
		return fmt.Errorf("%w: stride %d < row %d", gpucore.ErrSizeMismatch, stride, row)
	}
	if need := stride*(desc.Height-1) + row; len(dst) < need {
		return fmt.Errorf("%w: %d bytes, need %d", gpucore.ErrSizeMismatch, len(dst), need)
	}

	pitch := alignedRow(desc.Width, desc.Format)
	size := uint64(pitch) * uint64(desc.Height) //nolint:gosec // validated positive
	d.step("create staging buffer: %d bytes, pitch %d", size, pitch)
	staging, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "download_staging",
		Size:  size,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create staging buffer: %w", err)
	}
	defer d.device.DestroyBuffer(staging)

	w, h := uint32(desc.Width), uint32(desc.Height) //nolint:gosec // validated positive
	err = d.submit("download", func(enc hal.CommandEncoder) {
		if desc.Renderable {
			enc.TransitionTextures([]hal.TextureBarrier{{
				Texture: t.tex,
				Usage: hal.TextureUsageTransition{
					OldUsage: gputypes.TextureUsageRenderAttachment,
					NewUsage: gputypes.TextureUsageCopySrc,
				},
			}})
		}
		enc.CopyTextureToBuffer(t.tex, staging, []hal.BufferTextureCopy{{
			BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: uint32(pitch), RowsPerImage: h}, //nolint:gosec // aligned row
			TextureBase:  hal.ImageCopyTexture{Texture: t.tex, MipLevel: 0},
			Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		}})
	})
	if err != nil {
		return err
	}

	d.step("map staging buffer")
	mapping, err := d.device.MapBuffer(staging, 0, size)
	if err != nil {
		return fmt.Errorf("map staging buffer: %w", err)
	}
	readback := unsafe.Slice((*byte)(mapping.Ptr), size)
	repack(dst, stride, readback, pitch, row, desc.Height)
	if err := d.device.UnmapBuffer(staging); err != nil {
		return fmt.Errorf("unmap staging buffer: %w", err)
	}
	return nil
}

// OffsetPass renders src into dst with the offset shader. Unorm sources are
// read normalized, so depth conversion between unorm formats happens in the
// same pass.
func (d *Device) OffsetPass(src, dst gpucore.TextureID, offset float32) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.steps = d.steps[:0]
	if err := d.offsetPass(src, dst, offset); err != nil {
		return d.fail("offset pass into", dst, err)
	}
	return nil
}

func (d *Device) offsetPass(src, dst gpucore.TextureID, offset float32) error {
	s, err := d.lookup(src)
	if err != nil {
		return err
	}
	t, err := d.lookup(dst)
	if err != nil {
		return err
	}
	if s.desc.Width != t.desc.Width || s.desc.Height != t.desc.Height {
		return fmt.Errorf("%w: offset pass %dx%d into %dx%d", gpucore.ErrSizeMismatch,
			s.desc.Width, s.desc.Height, t.desc.Width, t.desc.Height)
	}
	if !t.desc.Renderable {
		return fmt.Errorf("%w: texture %d is not renderable", gpucore.ErrInvalidTexture, dst)
	}

	if d.offset == nil {
		d.step("create offset pipeline layouts")
		p, err := newOffsetPipeline(d.device)
		if err != nil {
			return err
		}
		d.offset = p
	}
	d.step("offset pipeline for %v", t.format)
	pipeline, err := d.offset.pipeline(t.format)
	if err != nil {
		return err
	}
	d.step("write offset uniforms: %g", offset)
	if err := d.queue.WriteBuffer(d.offset.uniforms, 0, offsetUniform(offset)); err != nil {
		return fmt.Errorf("write offset uniforms: %w", err)
	}
	d.step("bind texture %d", src)
	bindGroup, err := d.offset.bindGroup(s.view)
	if err != nil {
		return fmt.Errorf("create offset bind group: %w", err)
	}
	defer d.device.DestroyBindGroup(bindGroup)

	return d.submit("offset_pass", func(enc hal.CommandEncoder) {
		rp := enc.BeginRenderPass(&hal.RenderPassDescriptor{
			Label: "offset_pass",
			ColorAttachments: []hal.RenderPassColorAttachment{{
				View:       t.view,
				LoadOp:     gputypes.LoadOpClear,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: gputypes.Color{},
			}},
		})
		rp.SetPipeline(pipeline)
		rp.SetBindGroup(0, bindGroup, nil)
		rp.Draw(3, 1, 0, 0)
		rp.End()
	})
}

// step records one HAL call of the current transfer. The caller holds d.mu.
func (d *Device) step(format string, args ...any) {
	d.steps = append(d.steps, fmt.Sprintf(format, args...))
}

// fail attaches the step trace of the current transfer to err.
func (d *Device) fail(op string, id gpucore.TextureID, err error) error {
	return &gpucore.DeviceError{Op: op, Texture: id, Trace: strings.Join(d.steps, "\n"), Err: err}
}
