package hostframe

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/gogpu/vidrender"
	"github.com/gogpu/vidrender/props"
)

var (
	// ErrFrameRange is returned for frame numbers outside the stream.
	ErrFrameRange = errors.New("hostframe: frame out of range")
	// ErrShortInput is returned when the input holds no complete frame or
	// fewer frames than requested.
	ErrShortInput = errors.New("hostframe: input too short")
)

// FrameSize returns the size in bytes of one tightly packed frame.
func FrameSize(f vidrender.PixelFormat, width, height int) int64 {
	var n int64
	for i := range f.NumPlanes() {
		w, h := f.PlaneSize(i, width, height)
		n += int64(w) * int64(h) * int64(f.ComponentSize())
	}
	return n
}

// Raw is a vidrender.FrameProvider over a raw planar stream.
type Raw struct {
	info      vidrender.VideoInfo
	frameSize int64
	r         io.ReaderAt
	closer    io.Closer

	topFirst bool
	props    props.Map
}

// RawOption configures a Raw provider.
type RawOption func(*Raw)

// TopFieldFirst sets the parity reported for every frame.
func TopFieldFirst(top bool) RawOption {
	return func(r *Raw) { r.topFirst = top }
}

// WithProps attaches a copy of m to every frame, for tagging the color
// description of untagged raw input.
func WithProps(m props.Map) RawOption {
	return func(r *Raw) { r.props = m.Clone() }
}

// OpenRaw opens a raw planar file. Files ending in .zst are decompressed
// into memory. A zero info.NumFrames takes every complete frame in the
// file.
func OpenRaw(path string, info vidrender.VideoInfo, opts ...RawOption) (*Raw, error) {
	if strings.HasSuffix(path, ".zst") {
		data, err := readZstd(path)
		if err != nil {
			return nil, err
		}
		return NewRaw(bytes.NewReader(data), int64(len(data)), info, opts...)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("hostframe: %w", err)
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("hostframe: %w", err)
	}
	r, err := NewRaw(f, st.Size(), info, opts...)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	r.closer = f
	return r, nil
}

func readZstd(path string) ([]byte, error) {
	compressed, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("hostframe: %w", err)
	}
	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("hostframe: zstd: %w", err)
	}
	defer dec.Close()
	data, err := dec.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("hostframe: %s: %w", path, err)
	}
	return data, nil
}

// NewRaw reads frames from r, which holds size bytes.
func NewRaw(r io.ReaderAt, size int64, info vidrender.VideoInfo, opts ...RawOption) (*Raw, error) {
	if !info.Format.Valid() {
		return nil, fmt.Errorf("hostframe: unsupported format %v", info.Format)
	}
	if info.Width <= 0 || info.Height <= 0 {
		return nil, fmt.Errorf("hostframe: invalid frame size %dx%d", info.Width, info.Height)
	}
	raw := &Raw{
		info:      info,
		frameSize: FrameSize(info.Format, info.Width, info.Height),
		r:         r,
	}
	for _, opt := range opts {
		opt(raw)
	}

	avail := int(size / raw.frameSize)
	switch {
	case avail == 0:
		return nil, fmt.Errorf("%w: %d bytes, frame is %d", ErrShortInput, size, raw.frameSize)
	case raw.info.NumFrames == 0:
		raw.info.NumFrames = avail
	case raw.info.NumFrames > avail:
		return nil, fmt.Errorf("%w: %d frames requested, %d available", ErrShortInput, raw.info.NumFrames, avail)
	}
	return raw, nil
}

// Info describes the stream.
func (r *Raw) Info() vidrender.VideoInfo { return r.info }

// Frame reads frame n into a new host frame.
func (r *Raw) Frame(n int) (*vidrender.HostFrame, error) {
	if n < 0 || n >= r.info.NumFrames {
		return nil, fmt.Errorf("%w: %d of %d", ErrFrameRange, n, r.info.NumFrames)
	}
	f := vidrender.NewHostFrame(r.info.Format, r.info.Width, r.info.Height)
	off := int64(n) * r.frameSize
	for i := range f.Planes {
		p := f.Planes[i].Pixels
		if _, err := r.r.ReadAt(p, off); err != nil {
			return nil, fmt.Errorf("hostframe: frame %d plane %d: %w", n, i, err)
		}
		off += int64(len(p))
	}

	if r.props != nil {
		f.Props = r.props.Clone()
	}
	if r.info.FPSNum > 0 && r.info.FPSDen > 0 {
		f.Props.SetInt(props.DurationNum, r.info.FPSDen)
		f.Props.SetInt(props.DurationDen, r.info.FPSNum)
	}
	return f, nil
}

// Parity reports the configured field order.
func (r *Raw) Parity(int) bool { return r.topFirst }

// Close releases the underlying file.
func (r *Raw) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

var _ vidrender.FrameProvider = (*Raw)(nil)
