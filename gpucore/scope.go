package gpucore

import (
	"slices"
	"sync"
)

// Scope is a Device wrapper that owns every texture created through it.
//
// Release destroys the owned textures in reverse creation order and then
// calls the release function given to Acquire. Textures are therefore always
// destroyed before the device that holds them.
type Scope struct {
	Device

	mu       sync.Mutex
	textures []TextureID
	release  func() error
	released bool
}

// Acquire returns a scope over dev. release runs after all owned textures
// are destroyed; it may be nil when the caller keeps ownership of dev.
func Acquire(dev Device, release func() error) *Scope {
	return &Scope{Device: dev, release: release}
}

// CreateTexture creates a texture owned by the scope.
func (s *Scope) CreateTexture(desc *TextureDesc) (TextureID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return InvalidID, ErrDeviceClosed
	}
	id, err := s.Device.CreateTexture(desc)
	if err != nil {
		return InvalidID, err
	}
	s.textures = append(s.textures, id)
	return id, nil
}

// DestroyTexture destroys an owned texture early.
func (s *Scope) DestroyTexture(id TextureID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.Index(s.textures, id)
	if i < 0 {
		return
	}
	s.textures = slices.Delete(s.textures, i, i+1)
	s.Device.DestroyTexture(id)
}

// Live returns the number of textures the scope still owns.
func (s *Scope) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.textures)
}

// Release destroys all owned textures, newest first, then runs the release
// function. Calling Release again is a no-op.
func (s *Scope) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return nil
	}
	s.released = true

	for i := len(s.textures) - 1; i >= 0; i-- {
		s.Device.DestroyTexture(s.textures[i])
	}
	s.textures = nil

	if s.release == nil {
		return nil
	}
	return s.release()
}

// Close implements Device by releasing the scope.
func (s *Scope) Close() error {
	return s.Release()
}

