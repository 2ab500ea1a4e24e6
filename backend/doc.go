// Package backend provides a pluggable GPU device abstraction.
//
// The backend package allows vidrender to run on several device
// implementations. The software backend is always available; the native
// backend (gogpu/wgpu) registers itself when its package is imported.
//
// # Backend Registration
//
// Backends are registered via init() functions and selected at runtime.
// The software backend is automatically registered on import:
//
//	import _ "github.com/gogpu/vidrender/backend"
//
// GPU backends are opt-in:
//
//	import _ "github.com/gogpu/vidrender/backend/native"
//
// # Backend Selection
//
// Use Default() to open the best available device, or Open() to request
// a specific backend by name:
//
//	// Open the default (best available) device
//	dev, err := backend.Default()
//
//	// Or request a specific backend
//	dev, err := backend.Open("software")
//
// Default falls through to lower priority backends when a device cannot be
// opened, so a machine without a usable GPU ends up on the software device.
//
// # Available Backends
//
// - "native": Pure Go WebGPU via gogpu/wgpu (priority 10)
// - "software": CPU reference device (priority 0, always available)
package backend
