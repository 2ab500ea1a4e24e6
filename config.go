package vidrender

import (
	"errors"
	"fmt"

	"github.com/gogpu/vidrender/colorspace"
	"github.com/gogpu/vidrender/field"
)

// CacheSize is the number of texture cache slots.
const CacheSize = 8

// Config is the validated render configuration. It is produced by the
// config package and must not be modified after New.
type Config struct {
	// Name identifies the context in logs and metrics.
	Name string

	// Width, Height and Format describe the output frames.
	Width  int
	Height int
	Format PixelFormat

	// Src and Dst are the starting color descriptions. Src fields not
	// pinned by SrcPinned are refreshed from every frame's properties.
	Src       colorspace.Description
	Dst       colorspace.Description
	SrcPinned colorspace.Pinned

	// Dovi engages Dolby Vision RPU decoding.
	Dovi bool

	// Field selects the field order and rate. Only read when
	// Params.Deinterlace is set.
	Field field.Mode

	Params RenderParams
}

// Deinterlacing reports whether frames are deinterlaced.
func (c *Config) Deinterlacing() bool {
	return c.Params.Deinterlace != nil
}

// CacheSlots returns the number of cache slots in use: all of them when
// deinterlacing needs neighbor frames, a single working set otherwise.
func (c *Config) CacheSlots() int {
	if c.Deinterlacing() {
		return CacheSize
	}
	return 1
}

// Validate checks c against the source stream.
func (c *Config) Validate(src VideoInfo) error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("output size %dx%d", c.Width, c.Height))
	}
	if !c.Format.Valid() {
		errs = append(errs, fmt.Errorf("output format %v", c.Format))
	}
	if !src.Format.Valid() {
		errs = append(errs, fmt.Errorf("source format %v", src.Format))
	}
	if src.NumFrames <= 0 {
		errs = append(errs, fmt.Errorf("source has %d frames", src.NumFrames))
	}
	if c.Format.Valid() && c.Dst.Repr.System.IsRGB() != c.Format.IsRGB() {
		errs = append(errs, fmt.Errorf("output format %v does not match matrix %v", c.Format, c.Dst.Repr.System))
	}
	if c.Dovi && c.Src.Repr.System != colorspace.SystemDolbyVision {
		errs = append(errs, errors.New("Dolby Vision decoding requires the dovi source matrix"))
	}
	if c.Deinterlacing() && !c.Field.Valid() {
		errs = append(errs, fmt.Errorf("field mode %d", int(c.Field)))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("vidrender: invalid config: %w", err)
	}
	return nil
}
