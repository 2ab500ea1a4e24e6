//go:build !nogpu

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"fmt"
	"sync"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Register the Vulkan HAL backend.
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/gogpu/vidrender/backend"
	"github.com/gogpu/vidrender/gpucore"
)

const (
	// gpuTimeout bounds every wait on submitted work.
	gpuTimeout = 5 * time.Second

	pollInterval = 50 * time.Microsecond
)

func init() {
	backend.Register(backend.Backend{
		Name:     backend.BackendNative,
		Priority: 10,
		Open: func() (gpucore.Device, error) {
			d, err := Open()
			if err != nil {
				return nil, err
			}
			return d, nil
		},
		SetLogger: SetLogger,
	})
}

// Device implements gpucore.Device on gogpu/wgpu/hal.
//
// Thread Safety: Device is safe for concurrent use. All operations are
// serialized by a mutex and wait for their GPU work before returning.
type Device struct {
	mu       sync.Mutex
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	external bool
	adapter  string

	nextID   gpucore.TextureID
	textures map[gpucore.TextureID]*texture
	offset   *offsetPipeline
	closed   bool

	// steps traces the HAL calls of the transfer in progress.
	steps []string
}

type texture struct {
	desc   gpucore.TextureDesc
	format gputypes.TextureFormat
	tex    hal.Texture
	view   hal.TextureView
}

// Open creates a device on the first discrete or integrated GPU, falling
// back to the first adapter found.
func Open() (*Device, error) {
	b, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("%w: vulkan backend not available", ErrNoGPU)
	}
	instance, err := b.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoGPU
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("open device: %w", err)
	}

	d := newDevice(openDev.Device, openDev.Queue, selected.Info.Name)
	d.instance = instance
	slogger().Info("native device opened", "adapter", selected.Info.Name)
	return d, nil
}

// NewFromProvider creates a device sharing the GPU of an external
// provider (e.g., a gogpu window). The provider must also implement
// HalDevice() any and HalQueue() any returning hal.Device and hal.Queue.
// Close releases the textures created through the Device but leaves the
// shared device alive.
func NewFromProvider(provider gpucontext.DeviceProvider) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHAL
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHAL)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHAL)
	}
	d := newDevice(device, queue, "external")
	d.external = true
	return d, nil
}

func newDevice(device hal.Device, queue hal.Queue, adapter string) *Device {
	return &Device{
		device:   device,
		queue:    queue,
		adapter:  adapter,
		textures: make(map[gpucore.TextureID]*texture),
	}
}

// Name returns the backend identifier.
func (d *Device) Name() string {
	return backend.BackendNative
}

// Adapter returns the name of the GPU adapter in use.
func (d *Device) Adapter() string {
	return d.adapter
}

// CreateTexture allocates a texture and its view.
func (d *Device) CreateTexture(desc *gpucore.TextureDesc) (gpucore.TextureID, error) {
	if err := desc.Validate(); err != nil {
		return gpucore.InvalidID, err
	}
	format, err := halFormat(desc.Format)
	if err != nil {
		return gpucore.InvalidID, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return gpucore.InvalidID, gpucore.ErrDeviceClosed
	}

	tex, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label: desc.Label,
		Size: hal.Extent3D{
			Width:              uint32(desc.Width),  //nolint:gosec // validated positive
			Height:             uint32(desc.Height), //nolint:gosec // validated positive
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         textureUsage(desc),
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("create texture: %w", err)
	}
	view, err := d.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         desc.Label,
		Format:        format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		d.device.DestroyTexture(tex)
		return gpucore.InvalidID, fmt.Errorf("create texture view: %w", err)
	}

	d.nextID++
	d.textures[d.nextID] = &texture{desc: *desc, format: format, tex: tex, view: view}
	slogger().Debug("texture created", "id", d.nextID, "label", desc.Label,
		"size", fmt.Sprintf("%dx%d", desc.Width, desc.Height), "format", desc.Format)
	return d.nextID, nil
}

// DestroyTexture releases a texture and its view.
func (d *Device) DestroyTexture(id gpucore.TextureID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	t, ok := d.textures[id]
	if !ok {
		return
	}
	delete(d.textures, id)
	d.destroyTexture(t)
}

func (d *Device) destroyTexture(t *texture) {
	d.device.DestroyTextureView(t.view)
	d.device.DestroyTexture(t.tex)
}

// Describe returns the descriptor of a live texture.
func (d *Device) Describe(id gpucore.TextureID) (gpucore.TextureDesc, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	t, ok := d.textures[id]
	if !ok {
		return gpucore.TextureDesc{}, false
	}
	return t.desc, true
}

// lookup returns a live texture. The caller holds d.mu.
func (d *Device) lookup(id gpucore.TextureID) (*texture, error) {
	if d.closed {
		return nil, gpucore.ErrDeviceClosed
	}
	t, ok := d.textures[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", gpucore.ErrInvalidTexture, id)
	}
	return t, nil
}

// Close releases every texture, the offset pipelines and, unless the
// device came from a provider, the GPU device itself.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true

	for id, t := range d.textures {
		d.destroyTexture(t)
		delete(d.textures, id)
	}
	if d.offset != nil {
		d.offset.destroy()
		d.offset = nil
	}
	if !d.external {
		d.device.Destroy()
		if d.instance != nil {
			d.instance.Destroy()
		}
	}
	slogger().Debug("native device closed", "adapter", d.adapter)
	return nil
}

// submit records commands, submits them and waits for completion.
func (d *Device) submit(label string, record func(enc hal.CommandEncoder)) error {
	d.step("submit %s", label)
	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(label); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}
	record(encoder)
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer d.device.FreeCommandBuffer(cmdBuf)

	idx, err := d.queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	d.step("wait for submission %d", idx)
	return d.wait(idx)
}

// wait blocks until the queue reports submission idx as completed.
func (d *Device) wait(idx uint64) error {
	deadline := time.Now().Add(gpuTimeout)
	for d.queue.PollCompleted() < idx {
		if time.Now().After(deadline) {
			return ErrTimeout
		}
		time.Sleep(pollInterval)
	}
	return nil
}

// Ensure Device implements gpucore.Device.
var _ gpucore.Device = (*Device)(nil)
