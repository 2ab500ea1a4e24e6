package backend

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/gogpu/vidrender/gpucore"
)

// init registers the software backend on package import.
func init() {
	Register(Backend{
		Name:     BackendSoftware,
		Priority: 0,
		Open: func() (gpucore.Device, error) {
			return NewSoftwareDevice(), nil
		},
	})
}

// SoftwareDevice is a CPU implementation of gpucore.Device.
//
// Textures live in host memory, tightly packed. The device counts uploads
// and offset passes, keeps an event log and accepts an upload
// failure hook.
type SoftwareDevice struct {
	mu       sync.Mutex
	next     gpucore.TextureID
	textures map[gpucore.TextureID]*softTexture
	closed   bool

	uploads    int
	passes     int
	events     []string
	failUpload func(id gpucore.TextureID) error
}

type softTexture struct {
	desc gpucore.TextureDesc
	data []byte
}

// NewSoftwareDevice creates a new software device.
func NewSoftwareDevice() *SoftwareDevice {
	return &SoftwareDevice{textures: make(map[gpucore.TextureID]*softTexture)}
}

// Name returns the backend identifier.
func (d *SoftwareDevice) Name() string {
	return BackendSoftware
}

// CreateTexture allocates a zeroed texture.
func (d *SoftwareDevice) CreateTexture(desc *gpucore.TextureDesc) (gpucore.TextureID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return gpucore.InvalidID, gpucore.ErrDeviceClosed
	}
	if err := desc.Validate(); err != nil {
		return gpucore.InvalidID, err
	}
	d.next++
	d.textures[d.next] = &softTexture{
		desc: *desc,
		data: make([]byte, desc.Width*desc.Height*desc.Format.BytesPerTexel()),
	}
	d.events = append(d.events, fmt.Sprintf("create texture %d", d.next))
	return d.next, nil
}

// DestroyTexture frees a texture.
func (d *SoftwareDevice) DestroyTexture(id gpucore.TextureID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.textures[id]; !ok {
		return
	}
	delete(d.textures, id)
	d.events = append(d.events, fmt.Sprintf("destroy texture %d", id))
}

// Describe returns the descriptor of a live texture.
func (d *SoftwareDevice) Describe(id gpucore.TextureID) (gpucore.TextureDesc, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	t, ok := d.textures[id]
	if !ok {
		return gpucore.TextureDesc{}, false
	}
	return t.desc, true
}

// UploadPlane copies plane into the texture.
func (d *SoftwareDevice) UploadPlane(id gpucore.TextureID, plane *gpucore.PlaneData) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.upload(id, plane); err != nil {
		return d.fail("upload", id, err)
	}
	d.uploads++
	d.events = append(d.events, fmt.Sprintf("upload texture %d", id))
	return nil
}

func (d *SoftwareDevice) upload(id gpucore.TextureID, plane *gpucore.PlaneData) error {
	t, err := d.lookup(id)
	if err != nil {
		return err
	}
	if err := plane.Validate(); err != nil {
		return err
	}
	if plane.Format != t.desc.Format {
		return fmt.Errorf("%w: plane %v, texture %v", gpucore.ErrFormatMismatch, plane.Format, t.desc.Format)
	}
	if plane.Width != t.desc.Width || plane.Height != t.desc.Height {
		return fmt.Errorf("%w: plane %dx%d, texture %dx%d", gpucore.ErrSizeMismatch,
			plane.Width, plane.Height, t.desc.Width, t.desc.Height)
	}
	if d.failUpload != nil {
		if err := d.failUpload(id); err != nil {
			return err
		}
	}

	row := plane.RowBytes()
	for y := range plane.Height {
		copy(t.data[y*row:(y+1)*row], plane.Pixels[y*plane.Stride:])
	}
	return nil
}

// DownloadPlane copies the texture into dst.
func (d *SoftwareDevice) DownloadPlane(id gpucore.TextureID, dst []byte, stride int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.download(id, dst, stride); err != nil {
		return d.fail("download", id, err)
	}
	return nil
}

func (d *SoftwareDevice) download(id gpucore.TextureID, dst []byte, stride int) error {
	t, err := d.lookup(id)
	if err != nil {
		return err
	}
	row := t.desc.Width * t.desc.Format.BytesPerTexel()
	if stride < row || len(dst) < stride*(t.desc.Height-1)+row {
		return fmt.Errorf("%w: download of %dx%d %v into %d bytes, stride %d", gpucore.ErrSizeMismatch,
			t.desc.Width, t.desc.Height, t.desc.Format, len(dst), stride)
	}
	for y := range t.desc.Height {
		copy(dst[y*stride:y*stride+row], t.data[y*row:(y+1)*row])
	}
	return nil
}

// OffsetPass converts every texel of src to a normalized value, adds offset
// and stores the result into dst in dst's format.
func (d *SoftwareDevice) OffsetPass(src, dst gpucore.TextureID, offset float32) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.offsetPass(src, dst, offset); err != nil {
		return d.fail("offset pass into", dst, err)
	}
	d.passes++
	d.events = append(d.events, fmt.Sprintf("offset pass %d -> %d", src, dst))
	return nil
}

func (d *SoftwareDevice) offsetPass(src, dst gpucore.TextureID, offset float32) error {
	s, err := d.lookup(src)
	if err != nil {
		return err
	}
	t, err := d.lookup(dst)
	if err != nil {
		return err
	}
	if s.desc.Width != t.desc.Width || s.desc.Height != t.desc.Height {
		return fmt.Errorf("%w: offset pass %dx%d -> %dx%d", gpucore.ErrSizeMismatch,
			s.desc.Width, s.desc.Height, t.desc.Width, t.desc.Height)
	}
	if !t.desc.Renderable {
		return fmt.Errorf("%w: texture %d is not renderable", gpucore.ErrInvalidTexture, dst)
	}
	n := s.desc.Width * s.desc.Height
	for i := range n {
		store(t.desc.Format, t.data, i, load(s.desc.Format, s.data, i)+offset)
	}
	return nil
}

// Close releases all textures.
func (d *SoftwareDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	d.textures = nil
	d.events = append(d.events, "close device")
	return nil
}

// fail attaches the event log to a transfer error. The caller holds d.mu.
func (d *SoftwareDevice) fail(op string, id gpucore.TextureID, err error) error {
	return &gpucore.DeviceError{Op: op, Texture: id, Trace: strings.Join(d.events, "\n"), Err: err}
}

func (d *SoftwareDevice) lookup(id gpucore.TextureID) (*softTexture, error) {
	if d.closed {
		return nil, gpucore.ErrDeviceClosed
	}
	t, ok := d.textures[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", gpucore.ErrInvalidTexture, id)
	}
	return t, nil
}

// Uploads returns the number of successful plane uploads.
func (d *SoftwareDevice) Uploads() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.uploads
}

// OffsetPasses returns the number of offset passes run.
func (d *SoftwareDevice) OffsetPasses() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.passes
}

// Live returns the number of live textures.
func (d *SoftwareDevice) Live() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.textures)
}

// Events returns a copy of the event log.
func (d *SoftwareDevice) Events() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.events...)
}

// FailUploads installs a hook consulted before every upload; a non-nil
// error aborts the upload. Pass nil to remove it.
func (d *SoftwareDevice) FailUploads(fn func(id gpucore.TextureID) error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failUpload = fn
}

// Texel reads texel i of a texture as a normalized value.
func (d *SoftwareDevice) Texel(id gpucore.TextureID, i int) (float32, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	t, err := d.lookup(id)
	if err != nil {
		return 0, err
	}
	return load(t.desc.Format, t.data, i), nil
}

func load(f gpucore.TextureFormat, data []byte, i int) float32 {
	switch f {
	case gpucore.R8Unorm:
		return float32(data[i]) / 255
	case gpucore.R16Unorm:
		return float32(binary.LittleEndian.Uint16(data[2*i:])) / 65535
	default:
		return math.Float32frombits(binary.LittleEndian.Uint32(data[4*i:]))
	}
}

func store(f gpucore.TextureFormat, data []byte, i int, v float32) {
	switch f {
	case gpucore.R8Unorm:
		data[i] = uint8(unorm(v, 255))
	case gpucore.R16Unorm:
		binary.LittleEndian.PutUint16(data[2*i:], uint16(unorm(v, 65535)))
	default:
		binary.LittleEndian.PutUint32(data[4*i:], math.Float32bits(v))
	}
}

func unorm(v float32, maxVal float32) float32 {
	return float32(math.Round(float64(min(max(v, 0), 1) * maxVal)))
}
