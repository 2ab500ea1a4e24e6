package hostframe

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/gogpu/vidrender"
)

// Writer writes host frames as tightly packed planar data.
type Writer struct {
	bw     *bufio.Writer
	zw     *zstd.Encoder
	closer io.Closer
	frames int
}

// Create creates a raw output file. Paths ending in .zst are zstd
// compressed.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("hostframe: %w", err)
	}
	var w *Writer
	if strings.HasSuffix(path, ".zst") {
		if w, err = NewZstdWriter(f); err != nil {
			_ = f.Close()
			return nil, err
		}
	} else {
		w = NewWriter(f)
	}
	w.closer = f
	return w, nil
}

// NewWriter writes uncompressed frames to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{bw: bufio.NewWriter(w)}
}

// NewZstdWriter writes zstd compressed frames to w.
func NewZstdWriter(w io.Writer) (*Writer, error) {
	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("hostframe: zstd: %w", err)
	}
	return &Writer{bw: bufio.NewWriter(zw), zw: zw}, nil
}

// WriteFrame appends f, dropping any row padding.
func (w *Writer) WriteFrame(f *vidrender.HostFrame) error {
	if err := f.Validate(); err != nil {
		return err
	}
	size := f.Format.ComponentSize()
	for i, p := range f.Planes {
		row := p.Width * size
		for y := range p.Height {
			start := y * p.Stride
			if _, err := w.bw.Write(p.Pixels[start : start+row]); err != nil {
				return fmt.Errorf("hostframe: write plane %d: %w", i, err)
			}
		}
	}
	w.frames++
	return nil
}

// Frames returns the number of frames written.
func (w *Writer) Frames() int { return w.frames }

// Close flushes buffered data, finishes the zstd stream and closes the
// file opened by Create.
func (w *Writer) Close() error {
	err := w.bw.Flush()
	if w.zw != nil {
		if cerr := w.zw.Close(); err == nil {
			err = cerr
		}
	}
	if w.closer != nil {
		if cerr := w.closer.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return fmt.Errorf("hostframe: %w", err)
	}
	return nil
}
