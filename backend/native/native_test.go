//go:build !nogpu

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/vidrender/backend"
	"github.com/gogpu/vidrender/gpucore"
)

func TestHALFormat(t *testing.T) {
	tests := []struct {
		in   gpucore.TextureFormat
		want gputypes.TextureFormat
	}{
		{gpucore.R8Unorm, gputypes.TextureFormatR8Unorm},
		{gpucore.R16Unorm, gputypes.TextureFormatR16Unorm},
		{gpucore.R32Float, gputypes.TextureFormatR32Float},
	}
	for _, tt := range tests {
		got, err := halFormat(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("halFormat(%v) = %v, %v, want %v", tt.in, got, err, tt.want)
		}
	}
	if _, err := halFormat(gpucore.TextureFormat{Type: gpucore.SampleFloat, Depth: 16}); !errors.Is(err, gpucore.ErrUnsupportedFormat) {
		t.Errorf("halFormat(float16) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestTextureUsage(t *testing.T) {
	base := textureUsage(&gpucore.TextureDesc{})
	if base&gputypes.TextureUsageRenderAttachment != 0 || base&gputypes.TextureUsageCopySrc != 0 {
		t.Errorf("plain texture usage = %v", base)
	}
	if base&gputypes.TextureUsageCopyDst == 0 || base&gputypes.TextureUsageTextureBinding == 0 {
		t.Errorf("plain texture cannot be uploaded or sampled: %v", base)
	}
	full := textureUsage(&gpucore.TextureDesc{Renderable: true, HostReadable: true})
	if full&gputypes.TextureUsageRenderAttachment == 0 || full&gputypes.TextureUsageCopySrc == 0 {
		t.Errorf("renderable readable usage = %v", full)
	}
}

func TestAlignedRow(t *testing.T) {
	tests := []struct {
		width  int
		format gpucore.TextureFormat
		want   int
	}{
		{1, gpucore.R8Unorm, 256},
		{256, gpucore.R8Unorm, 256},
		{257, gpucore.R8Unorm, 512},
		{128, gpucore.R16Unorm, 256},
		{1920, gpucore.R32Float, 7680},
		{1921, gpucore.R32Float, 7936},
	}
	for _, tt := range tests {
		if got := alignedRow(tt.width, tt.format); got != tt.want {
			t.Errorf("alignedRow(%d, %v) = %d, want %d", tt.width, tt.format, got, tt.want)
		}
	}
}

func TestRepack(t *testing.T) {
	src := []byte{
		1, 2, 3, 0, 0,
		4, 5, 6, 0, 0,
	}
	dst := make([]byte, 6)
	repack(dst, 3, src, 5, 3, 2)
	if want := []byte{1, 2, 3, 4, 5, 6}; !bytes.Equal(dst, want) {
		t.Errorf("repack() = %v, want %v", dst, want)
	}

	// Tight rows are copied in one go.
	out := make([]byte, 6)
	repack(out, 3, dst, 3, 3, 2)
	if !bytes.Equal(out, dst) {
		t.Errorf("tight repack() = %v, want %v", out, dst)
	}
}

func TestOffsetUniform(t *testing.T) {
	buf := offsetUniform(-0.5)
	if len(buf) != offsetUniformSize {
		t.Fatalf("uniform size = %d, want %d", len(buf), offsetUniformSize)
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(buf)); got != -0.5 {
		t.Errorf("offset = %v, want -0.5", got)
	}
}

// TestOffsetShaderCompilation tests that the WGSL shader compiles to SPIR-V.
func TestOffsetShaderCompilation(t *testing.T) {
	if offsetShaderWGSL == "" {
		t.Fatal("offset shader source is empty")
	}
	spirv, err := naga.Compile(offsetShaderWGSL)
	if err != nil {
		if strings.Contains(err.Error(), "not yet implemented") || strings.Contains(err.Error(), "not supported") {
			t.Skipf("Skipping: naga feature not yet implemented: %v", err)
		}
		t.Fatalf("failed to compile offset shader: %v", err)
	}
	if len(spirv) < 4 {
		t.Fatal("SPIR-V too short")
	}
	if magic := binary.LittleEndian.Uint32(spirv); magic != 0x07230203 {
		t.Errorf("invalid SPIR-V magic: 0x%08X, want 0x07230203", magic)
	}
}

func TestRegistered(t *testing.T) {
	if !backend.IsRegistered(backend.BackendNative) {
		t.Fatal("native backend not registered")
	}
	if got := backend.Available()[0]; got != backend.BackendNative {
		t.Errorf("highest priority backend = %q, want native", got)
	}
}

type noHAL struct{}

func (noHAL) Device() gpucontext.Device   { return nil }
func (noHAL) Queue() gpucontext.Queue     { return nil }
func (noHAL) Adapter() gpucontext.Adapter { return nil }

func (noHAL) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

func (noHAL) AdapterInfo() gpucontext.AdapterInfo { return gpucontext.AdapterInfo{} }

// halShare exposes a HAL device and queue the way a gogpu window does.
type halShare struct {
	noHAL
	device hal.Device
	queue  hal.Queue
}

func (p halShare) HalDevice() any { return p.device }
func (p halShare) HalQueue() any  { return p.queue }

func TestNewFromProviderRequiresHAL(t *testing.T) {
	if _, err := NewFromProvider(noHAL{}); !errors.Is(err, ErrNoHAL) {
		t.Errorf("NewFromProvider() error = %v, want ErrNoHAL", err)
	}
}

// openOrSkip opens a GPU device, skipping the test on machines without one.
func openOrSkip(t *testing.T) *Device {
	t.Helper()
	d, err := Open()
	if err != nil {
		t.Skipf("no GPU available: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestDeviceRoundTrip(t *testing.T) {
	d := openOrSkip(t)

	desc := &gpucore.TextureDesc{Label: "plane", Width: 3, Height: 2, Format: gpucore.R8Unorm, Renderable: true, HostReadable: true}
	src, err := d.CreateTexture(desc)
	if err != nil {
		t.Fatalf("CreateTexture() error = %v", err)
	}
	dst, err := d.CreateTexture(desc)
	if err != nil {
		t.Fatalf("CreateTexture() error = %v", err)
	}

	in := []byte{10, 20, 30, 0, 40, 50, 60}
	if err := d.UploadPlane(src, &gpucore.PlaneData{Width: 3, Height: 2, Format: gpucore.R8Unorm, Stride: 4, Pixels: in}); err != nil {
		t.Fatalf("UploadPlane() error = %v", err)
	}
	if err := d.OffsetPass(src, dst, 0); err != nil {
		t.Fatalf("OffsetPass() error = %v", err)
	}
	out := make([]byte, 6)
	if err := d.DownloadPlane(dst, out, 3); err != nil {
		t.Fatalf("DownloadPlane() error = %v", err)
	}
	if want := []byte{10, 20, 30, 40, 50, 60}; !bytes.Equal(out, want) {
		t.Errorf("downloaded %v, want %v", out, want)
	}
}

func TestDeviceCloseReleasesTextures(t *testing.T) {
	d := openOrSkip(t)
	id, err := d.CreateTexture(&gpucore.TextureDesc{Width: 4, Height: 4, Format: gpucore.R32Float})
	if err != nil {
		t.Fatalf("CreateTexture() error = %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, ok := d.Describe(id); ok {
		t.Error("texture alive after Close")
	}
	if _, err := d.CreateTexture(&gpucore.TextureDesc{Width: 4, Height: 4, Format: gpucore.R8Unorm}); !errors.Is(err, gpucore.ErrDeviceClosed) {
		t.Errorf("CreateTexture() after Close error = %v, want ErrDeviceClosed", err)
	}
}

// newNoopDevice wraps the noop HAL in a Device. The noop backend records
// nothing, so tests check bookkeeping and error paths, not pixels.
func newNoopDevice(t *testing.T) *Device {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	d := newDevice(openDev.Device, openDev.Queue, adapters[0].Info.Name)
	d.instance = instance
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestNoopDeviceTextures(t *testing.T) {
	d := newNoopDevice(t)
	if d.Adapter() != "Noop Adapter" {
		t.Errorf("Adapter() = %q", d.Adapter())
	}

	desc := gpucore.TextureDesc{Label: "luma", Width: 8, Height: 4, Format: gpucore.R16Unorm, Renderable: true}
	a, err := d.CreateTexture(&desc)
	if err != nil {
		t.Fatalf("CreateTexture() error = %v", err)
	}
	b, err := d.CreateTexture(&desc)
	if err != nil {
		t.Fatalf("CreateTexture() error = %v", err)
	}
	if a == gpucore.InvalidID || a == b {
		t.Fatalf("texture IDs %d and %d, want distinct valid IDs", a, b)
	}
	got, ok := d.Describe(a)
	if !ok || got != desc {
		t.Errorf("Describe() = %+v, %v, want %+v", got, ok, desc)
	}

	d.DestroyTexture(a)
	d.DestroyTexture(a)
	if _, ok := d.Describe(a); ok {
		t.Error("texture alive after DestroyTexture")
	}
	if _, ok := d.Describe(b); !ok {
		t.Error("DestroyTexture released the wrong texture")
	}

	tests := []struct {
		name string
		desc gpucore.TextureDesc
		want error
	}{
		{"empty", gpucore.TextureDesc{Format: gpucore.R8Unorm}, gpucore.ErrSizeMismatch},
		{"half float", gpucore.TextureDesc{Width: 1, Height: 1, Format: gpucore.TextureFormat{Type: gpucore.SampleFloat, Depth: 16}}, gpucore.ErrUnsupportedFormat},
	}
	for _, tt := range tests {
		if _, err := d.CreateTexture(&tt.desc); !errors.Is(err, tt.want) {
			t.Errorf("%s: CreateTexture() error = %v, want %v", tt.name, err, tt.want)
		}
	}
}

func TestNoopDeviceTransfers(t *testing.T) {
	d := newNoopDevice(t)
	desc := &gpucore.TextureDesc{Width: 3, Height: 2, Format: gpucore.R8Unorm, Renderable: true, HostReadable: true}
	src, _ := d.CreateTexture(desc)
	dst, _ := d.CreateTexture(desc)

	plane := &gpucore.PlaneData{Width: 3, Height: 2, Format: gpucore.R8Unorm, Stride: 4, Pixels: make([]byte, 7)}
	if err := d.UploadPlane(src, plane); err != nil {
		t.Fatalf("UploadPlane() error = %v", err)
	}
	if err := d.OffsetPass(src, dst, 0.5); err != nil {
		t.Fatalf("OffsetPass() error = %v", err)
	}
	if err := d.OffsetPass(dst, src, -0.5); err != nil {
		t.Fatalf("OffsetPass() error = %v", err)
	}
	if d.offset == nil || len(d.offset.pipelines) != 1 {
		t.Errorf("offset pipelines = %v, want one shared R8 pipeline", d.offset)
	}

	// The staging buffer of the noop HAL is zeroed and never copied into.
	out := bytes.Repeat([]byte{0xFF}, 8)
	if err := d.DownloadPlane(dst, out, 4); err != nil {
		t.Fatalf("DownloadPlane() error = %v", err)
	}
	if want := []byte{0, 0, 0, 0xFF, 0, 0, 0, 0xFF}; !bytes.Equal(out, want) {
		t.Errorf("downloaded %v, want %v", out, want)
	}
}

func TestNoopDeviceTransferErrors(t *testing.T) {
	d := newNoopDevice(t)
	r8, _ := d.CreateTexture(&gpucore.TextureDesc{Width: 2, Height: 2, Format: gpucore.R8Unorm, HostReadable: true})
	small, _ := d.CreateTexture(&gpucore.TextureDesc{Width: 1, Height: 1, Format: gpucore.R8Unorm, Renderable: true})

	tests := []struct {
		name string
		op   string
		run  func() error
		want error
	}{
		{"format mismatch", "upload", func() error {
			return d.UploadPlane(r8, &gpucore.PlaneData{Width: 2, Height: 2, Format: gpucore.R16Unorm, Stride: 4, Pixels: make([]byte, 8)})
		}, gpucore.ErrFormatMismatch},
		{"size mismatch", "upload", func() error {
			return d.UploadPlane(r8, &gpucore.PlaneData{Width: 1, Height: 1, Format: gpucore.R8Unorm, Stride: 1, Pixels: []byte{1}})
		}, gpucore.ErrSizeMismatch},
		{"unknown texture", "upload", func() error {
			return d.UploadPlane(99, &gpucore.PlaneData{Width: 1, Height: 1, Format: gpucore.R8Unorm, Stride: 1, Pixels: []byte{1}})
		}, gpucore.ErrInvalidTexture},
		{"short stride", "download", func() error { return d.DownloadPlane(r8, make([]byte, 4), 1) }, gpucore.ErrSizeMismatch},
		{"short buffer", "download", func() error { return d.DownloadPlane(r8, make([]byte, 3), 2) }, gpucore.ErrSizeMismatch},
		{"pass size", "offset pass into", func() error { return d.OffsetPass(r8, small, 0) }, gpucore.ErrSizeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			var de *gpucore.DeviceError
			if !errors.As(err, &de) || de.Op != tt.op {
				t.Errorf("error = %v, want %q DeviceError", err, tt.op)
			}
		})
	}

	same, _ := d.CreateTexture(&gpucore.TextureDesc{Width: 2, Height: 2, Format: gpucore.R8Unorm})
	if err := d.OffsetPass(r8, same, 0); !errors.Is(err, gpucore.ErrInvalidTexture) {
		t.Errorf("OffsetPass() into sampled texture error = %v, want ErrInvalidTexture", err)
	}
}

func TestNoopDeviceTraceInError(t *testing.T) {
	d := newNoopDevice(t)
	id, _ := d.CreateTexture(&gpucore.TextureDesc{Width: 2, Height: 2, Format: gpucore.R8Unorm, HostReadable: true})
	if err := d.DownloadPlane(id, make([]byte, 4), 2); err != nil {
		t.Fatalf("DownloadPlane() error = %v", err)
	}
	if !strings.Contains(strings.Join(d.steps, "\n"), "submit download") {
		t.Errorf("steps = %q, want the download submission", d.steps)
	}

	err := d.UploadPlane(id, &gpucore.PlaneData{Width: 2, Height: 2, Format: gpucore.R16Unorm, Stride: 4, Pixels: make([]byte, 8)})
	var de *gpucore.DeviceError
	if !errors.As(err, &de) {
		t.Fatalf("UploadPlane() error = %v, want DeviceError", err)
	}
	if de.Log() != "" {
		t.Errorf("Log() = %q, want the trace of the failed call only", de.Log())
	}
}

func TestNoopDeviceClose(t *testing.T) {
	d := newNoopDevice(t)
	desc := &gpucore.TextureDesc{Width: 2, Height: 2, Format: gpucore.R8Unorm, Renderable: true, HostReadable: true}
	src, _ := d.CreateTexture(desc)
	dst, _ := d.CreateTexture(desc)
	if err := d.OffsetPass(src, dst, 0); err != nil {
		t.Fatalf("OffsetPass() error = %v", err)
	}

	if err := d.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
	if len(d.textures) != 0 || d.offset != nil {
		t.Errorf("after Close: %d textures, offset pipeline %v", len(d.textures), d.offset)
	}
	if _, ok := d.Describe(src); ok {
		t.Error("texture alive after Close")
	}

	plane := &gpucore.PlaneData{Width: 2, Height: 2, Format: gpucore.R8Unorm, Stride: 2, Pixels: make([]byte, 4)}
	for name, err := range map[string]error{
		"CreateTexture": func() error { _, err := d.CreateTexture(desc); return err }(),
		"UploadPlane":   d.UploadPlane(src, plane),
		"DownloadPlane": d.DownloadPlane(src, make([]byte, 4), 2),
		"OffsetPass":    d.OffsetPass(src, dst, 0),
	} {
		if !errors.Is(err, gpucore.ErrDeviceClosed) {
			t.Errorf("%s after Close error = %v, want ErrDeviceClosed", name, err)
		}
	}
}

func TestNewFromProviderSharesDevice(t *testing.T) {
	od, err := (&noop.Adapter{}).Open(0, gputypes.DefaultLimits())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	d, err := NewFromProvider(halShare{device: od.Device, queue: od.Queue})
	if err != nil {
		t.Fatalf("NewFromProvider() error = %v", err)
	}
	if !d.external || d.Adapter() != "external" {
		t.Errorf("device external = %v, adapter %q", d.external, d.Adapter())
	}
	id, err := d.CreateTexture(&gpucore.TextureDesc{Width: 1, Height: 1, Format: gpucore.R32Float})
	if err != nil {
		t.Fatalf("CreateTexture() error = %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, ok := d.Describe(id); ok {
		t.Error("texture alive after Close")
	}

	if _, err := NewFromProvider(halShare{device: od.Device}); !errors.Is(err, ErrNoHAL) {
		t.Errorf("NewFromProvider() without queue error = %v, want ErrNoHAL", err)
	}
}
