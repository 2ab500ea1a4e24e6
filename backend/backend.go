package backend

import (
	"errors"
	"log/slog"

	"github.com/gogpu/vidrender/gpucore"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not
	// registered or cannot open a device.
	ErrBackendNotAvailable = errors.New("backend: not available")
)

// Backend name constants.
const (
	// BackendSoftware is the name of the CPU reference backend.
	BackendSoftware = "software"
	// BackendNative is the name of the Pure Go GPU backend (gogpu/wgpu).
	BackendNative = "native"
)

// Factory opens a new device.
type Factory func() (gpucore.Device, error)

// Backend describes a registered device implementation.
//
// Backends are registered via Register() and are selected via
// Open() or Default().
type Backend struct {
	// Name is the backend identifier (e.g., "software", "native").
	Name string

	// Priority orders backends for Default; higher wins.
	Priority int

	// Open creates a device. It may fail when the backend has no usable
	// hardware.
	Open Factory

	// SetLogger, if set, receives the logger configured with SetLogger.
	SetLogger func(*slog.Logger)
}
