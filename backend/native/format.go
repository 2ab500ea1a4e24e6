//go:build !nogpu

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/vidrender/gpucore"
)

// copyRowAlignment is the required BytesPerRow alignment for
// texture-to-buffer copies.
const copyRowAlignment = 256

// halFormat maps a plane texture format to its WebGPU format.
func halFormat(f gpucore.TextureFormat) (gputypes.TextureFormat, error) {
	switch f {
	case gpucore.R8Unorm:
		return gputypes.TextureFormatR8Unorm, nil
	case gpucore.R16Unorm:
		return gputypes.TextureFormatR16Unorm, nil
	case gpucore.R32Float:
		return gputypes.TextureFormatR32Float, nil
	}
	return gputypes.TextureFormatUndefined, fmt.Errorf("%w: %v", gpucore.ErrUnsupportedFormat, f)
}

// textureUsage returns the usage flags a texture needs for desc.
func textureUsage(desc *gpucore.TextureDesc) gputypes.TextureUsage {
	usage := gputypes.TextureUsageCopyDst | gputypes.TextureUsageTextureBinding
	if desc.Renderable {
		usage |= gputypes.TextureUsageRenderAttachment
	}
	if desc.HostReadable {
		usage |= gputypes.TextureUsageCopySrc
	}
	return usage
}

// alignedRow returns the padded row pitch for a readback of width texels.
func alignedRow(width int, f gpucore.TextureFormat) int {
	row := width * f.BytesPerTexel()
	return (row + copyRowAlignment - 1) / copyRowAlignment * copyRowAlignment
}

// repack copies height rows of rowBytes from src (srcStride apart) into dst
// (dstStride apart).
func repack(dst []byte, dstStride int, src []byte, srcStride, rowBytes, height int) {
	if dstStride == srcStride && len(src) >= rowBytes*height && srcStride == rowBytes {
		copy(dst, src[:rowBytes*height])
		return
	}
	for y := range height {
		copy(dst[y*dstStride:y*dstStride+rowBytes], src[y*srcStride:y*srcStride+rowBytes])
	}
}
