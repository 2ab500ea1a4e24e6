// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package native provides a Pure Go GPU device using gogpu/wgpu.
//
// Importing the package registers the "native" backend with a higher
// priority than the software backend, so backend.Default selects it when a
// GPU is present:
//
//	import _ "github.com/gogpu/vidrender/backend/native"
//
//	dev, err := backend.Default()
//
// Planes are single-channel textures (r8unorm, r16unorm or r32float).
// Uploads go through the queue, downloads through a staging buffer with
// 256-byte aligned rows, and OffsetPass draws a fullscreen triangle that
// loads the source texel and adds a uniform offset.
//
// To share the GPU of a gogpu window, use NewFromProvider with its
// gpucontext.DeviceProvider.
//
// Build with the nogpu tag to leave the package out.
package native
