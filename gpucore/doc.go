// Package gpucore provides the GPU abstraction shared by the render context
// and its backends.
//
// This package defines the [Device] interface, which abstracts over the GPU
// implementations able to hold video planes:
//   - backend/native (Pure Go WebGPU via the gogpu/wgpu HAL)
//   - backend/software (CPU reference device used for tests and fallback)
//
// # Resource Management
//
// Textures are referenced by opaque [TextureID] values. Each device keeps the
// mapping between IDs and its own resources. Every texture holds a single
// component (one video plane) in one of the formats returned by [FormatFor].
//
// A render context never hands its device to the cache directly. It acquires
// a [Scope], which records every texture created through it. Releasing the
// scope destroys the recorded textures in reverse creation order and only
// then runs the release function supplied at acquisition, typically closing
// the device:
//
//	scope := gpucore.Acquire(dev, dev.Close)
//	defer scope.Release()
//
//	id, err := scope.CreateTexture(&gpucore.TextureDesc{
//	    Width:  1920,
//	    Height: 1080,
//	    Format: gpucore.R8Unorm,
//	})
//
// # Offset Pass
//
// [Device.OffsetPass] is the only shading operation the core requires. It
// runs a full-screen pass that samples one texture, adds a constant to the
// first channel and writes the result into another texture. With a zero
// offset it doubles as a format-converting copy.
package gpucore
