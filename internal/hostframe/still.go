package hostframe

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // register decoders
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/gogpu/vidrender"
	"github.com/gogpu/vidrender/colorspace"
	"github.com/gogpu/vidrender/props"
)

// StillOptions configures a still image source.
type StillOptions struct {
	// Frames is the stream length. Zero means one frame.
	Frames int

	// FPSNum and FPSDen are the reported frame rate. Zero means 1/1.
	FPSNum, FPSDen int64

	// Width and Height resize the image with a Catmull-Rom filter when
	// non-zero.
	Width, Height int
}

// Still is a vidrender.FrameProvider repeating one image as planar 8-bit
// RGB, with an alpha plane when the image is not opaque. Frames are tagged
// as full range sRGB.
type Still struct {
	info  vidrender.VideoInfo
	frame *vidrender.HostFrame
}

// OpenStill decodes a PNG, JPEG, BMP, TIFF or WebP file.
func OpenStill(path string, opts StillOptions) (*Still, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("hostframe: %w", err)
	}
	defer f.Close()
	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("hostframe: decode %s: %w", path, err)
	}
	s, err := NewStill(img, opts)
	if err != nil {
		return nil, fmt.Errorf("hostframe: %s image %s: %w", format, path, err)
	}
	return s, nil
}

// NewStill converts img into a still source.
func NewStill(img image.Image, opts StillOptions) (*Still, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if opts.Width > 0 && opts.Height > 0 {
		w, h = opts.Width, opts.Height
	}
	if w <= 0 || h <= 0 {
		return nil, errors.New("empty image")
	}

	rgba := image.NewNRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(rgba, rgba.Bounds(), img, b, draw.Src, nil)
	}

	format := vidrender.FormatRGBP8
	alpha := !rgba.Opaque()
	if alpha {
		format.Alpha = true
	}
	frame := vidrender.NewHostFrame(format, w, h)
	for y := range h {
		for x := range w {
			px := rgba.Pix[y*rgba.Stride+x*4:]
			i := y*w + x
			frame.Planes[0].Pixels[i] = px[0]
			frame.Planes[1].Pixels[i] = px[1]
			frame.Planes[2].Pixels[i] = px[2]
			if alpha {
				frame.Planes[3].Pixels[i] = px[3]
			}
		}
	}
	colorspace.MatrixCodes.Sync(frame.Props, props.Matrix, colorspace.SystemRGB)
	colorspace.TransferCodes.Sync(frame.Props, props.Transfer, colorspace.TransferSRGB)
	colorspace.PrimariesCodes.Sync(frame.Props, props.Primaries, colorspace.PrimariesBT709)
	colorspace.LevelsCodes.Sync(frame.Props, props.ColorRange, colorspace.LevelsFull)

	info := vidrender.VideoInfo{
		Width:     w,
		Height:    h,
		Format:    format,
		NumFrames: max(opts.Frames, 1),
		FPSNum:    opts.FPSNum,
		FPSDen:    opts.FPSDen,
	}
	if info.FPSNum <= 0 || info.FPSDen <= 0 {
		info.FPSNum, info.FPSDen = 1, 1
	}
	return &Still{info: info, frame: frame}, nil
}

// Info describes the stream.
func (s *Still) Info() vidrender.VideoInfo { return s.info }

// Frame returns the image. Planes are shared between frames; properties
// are copied.
func (s *Still) Frame(n int) (*vidrender.HostFrame, error) {
	if n < 0 || n >= s.info.NumFrames {
		return nil, fmt.Errorf("%w: %d of %d", ErrFrameRange, n, s.info.NumFrames)
	}
	f := *s.frame
	f.Props = s.frame.Props.Clone()
	return &f, nil
}

// Parity reports top field first; stills are progressive.
func (s *Still) Parity(int) bool { return true }

var _ vidrender.FrameProvider = (*Still)(nil)
