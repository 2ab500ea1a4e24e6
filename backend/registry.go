package backend

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/gogpu/vidrender/gpucore"
)

// registry holds registered backends.
var (
	registryMu sync.RWMutex
	backends   = make(map[string]Backend)
	logger     *slog.Logger
)

// Register registers a backend.
// This is typically called from init() functions in backend packages.
// If a backend with the same name is already registered, it will be replaced.
func Register(b Backend) {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends[b.Name] = b
	if logger != nil && b.SetLogger != nil {
		b.SetLogger(logger)
	}
}

// Unregister removes a backend from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// Available returns the registered backend names, highest priority first.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return namesByPriority()
}

func namesByPriority() []string {
	list := make([]Backend, 0, len(backends))
	for _, b := range backends {
		list = append(list, b)
	}
	slices.SortFunc(list, func(a, b Backend) int {
		if c := cmp.Compare(b.Priority, a.Priority); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	names := make([]string, len(list))
	for i, b := range list {
		names[i] = b.Name
	}
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := backends[name]
	return ok
}

// Open opens a device from the named backend.
func Open(name string) (gpucore.Device, error) {
	registryMu.RLock()
	b, ok := backends[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBackendNotAvailable, name)
	}
	dev, err := b.Open()
	if err != nil {
		return nil, fmt.Errorf("backend %s: %w", name, err)
	}
	return dev, nil
}

// Default opens a device from the best available backend.
// Backends that fail to open are skipped in priority order.
func Default() (gpucore.Device, error) {
	registryMu.RLock()
	names := namesByPriority()
	registryMu.RUnlock()

	for _, name := range names {
		dev, err := Open(name)
		if err == nil {
			return dev, nil
		}
		slogger().Warn("backend unavailable, trying next", "backend", name, "err", err)
	}
	return nil, ErrBackendNotAvailable
}

// SetLogger passes l to every registered backend that accepts a logger, and
// to backends registered later. Nil restores silent logging.
func SetLogger(l *slog.Logger) {
	registryMu.Lock()
	defer registryMu.Unlock()
	logger = l
	setLogger(l)
	for _, b := range backends {
		if b.SetLogger != nil {
			b.SetLogger(l)
		}
	}
}
