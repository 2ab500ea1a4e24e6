// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render provides the renderers bundled with vidrender.
//
// A render context hands every output frame to a vidrender.Renderer. The
// renderer owns the shading math; the context owns textures, metadata and
// the upload and download of planes. This package holds renderers that need
// nothing beyond the gpucore.Device operations, for tests, tooling and
// pipelines where the output matches the source.
//
// # Renderer Implementations
//
//   - Passthrough: copies source planes into the output planes unchanged
//
// # Usage
//
//	dev, _ := backend.Default()
//	r := render.NewPassthrough(dev)
//	rc, err := vidrender.New(cfg, dev, src, r)
//
// # Errors
//
// Render failures are returned as *Error values carrying the renderer log,
// which the render context attaches to the frame error.
//
// # Thread Safety
//
// Renderers are NOT thread-safe. The render context serializes calls on the
// renderer it was given.
package render
