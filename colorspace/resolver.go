package colorspace

import (
	"errors"
	"fmt"

	"github.com/gogpu/vidrender/dovi"
	"github.com/gogpu/vidrender/props"
)

var (
	// ErrMissingRPU is returned when Dolby Vision decoding is engaged and a
	// frame carries no RPU property.
	ErrMissingRPU = errors.New("colorspace: missing DolbyVisionRPU frame property")

	// ErrInvalidRPU is returned for an empty or unparsable RPU property.
	ErrInvalidRPU = errors.New("colorspace: invalid DolbyVisionRPU frame property")

	// ErrProfile5Levels is returned when a Dolby Vision profile 5 frame
	// cannot be interpreted as full range.
	ErrProfile5Levels = errors.New("colorspace: Dolby Vision profile 5 requires full range levels")
)

// Resolver holds the source and destination descriptions of a render
// context and refreshes them from each frame's properties. State is sticky:
// a property missing from a frame keeps the value resolved for an earlier
// frame (or the configured default).
//
// A Resolver is not safe for concurrent use.
type Resolver struct {
	src, dst Description
	pinned   Pinned
	dovi     bool

	meta *dovi.Metadata
	rpu  *dovi.RPU
}

// NewResolver returns a Resolver starting from the configured source and
// destination descriptions. When doviEngaged is set every frame must carry a
// Dolby Vision RPU and the source matrix is taken from it.
func NewResolver(src, dst Description, pinned Pinned, doviEngaged bool) *Resolver {
	return &Resolver{src: src, dst: dst, pinned: pinned, dovi: doviEngaged}
}

// Source returns the resolved source description. The pointer stays valid
// for the lifetime of r and is updated in place by Resolve.
func (r *Resolver) Source() *Description { return &r.src }

// Destination returns the resolved destination description.
func (r *Resolver) Destination() *Description { return &r.dst }

// Dovi returns the Dolby Vision metadata in effect, or nil.
func (r *Resolver) Dovi() *dovi.Metadata { return r.meta }

// RPU returns the RPU parsed for the last frame, or nil.
func (r *Resolver) RPU() *dovi.RPU { return r.rpu }

// Resolve refreshes the source description from the frame properties m.
// Errors are fatal for the frame only; the previously resolved state is
// kept for the next frame.
func (r *Resolver) Resolve(m props.Map) error {
	src := &r.src
	src.Repr.Dovi = nil

	if !r.dovi && !r.pinned.System {
		MatrixCodes.Refresh(m, props.Matrix, &src.Repr.System)
	}
	if !r.pinned.Transfer {
		TransferCodes.Refresh(m, props.Transfer, &src.Color.Transfer)
	}
	if !r.pinned.Primaries {
		PrimariesCodes.Refresh(m, props.Primaries, &src.Color.Primaries)
	}
	if !r.pinned.Levels {
		LevelsCodes.Refresh(m, props.ColorRange, &src.Repr.Levels)
	}

	if src.Color.Transfer.IsHDR() {
		r.refreshHDR(m)
	}
	if r.dovi {
		return r.resolveDovi(m)
	}
	return nil
}

func (r *Resolver) refreshHDR(m props.Map) {
	hdr := &r.src.Color.HDR
	if v, ok := m.Float(props.ContentLightLevelMax); ok {
		hdr.MaxCLL = v
	}
	if v, ok := m.Float(props.ContentLightLevelAverage); ok {
		hdr.MaxFALL = v
	}
	if v, ok := m.Float(props.MasteringDisplayMaxLuminance); ok && !r.pinned.MaxLuma {
		hdr.MaxLuma = v
	}
	if v, ok := m.Float(props.MasteringDisplayMinLuminance); ok && !r.pinned.MinLuma {
		hdr.MinLuma = v
	}

	p := &hdr.Primaries
	if xs, ok := m.FloatArray(props.MasteringDisplayPrimariesX); ok && len(xs) >= 3 {
		p.Red.X, p.Green.X, p.Blue.X = xs[0], xs[1], xs[2]
	}
	if ys, ok := m.FloatArray(props.MasteringDisplayPrimariesY); ok && len(ys) >= 3 {
		p.Red.Y, p.Green.Y, p.Blue.Y = ys[0], ys[1], ys[2]
	}
	if v, ok := m.Float(props.MasteringDisplayWhitePointX); ok {
		p.White.X = v
	}
	if v, ok := m.Float(props.MasteringDisplayWhitePointY); ok {
		p.White.Y = v
	}
}

func (r *Resolver) resolveDovi(m props.Map) error {
	data, ok := m.Data(props.DolbyVisionRPU)
	if !ok {
		return ErrMissingRPU
	}
	if len(data) == 0 {
		return ErrInvalidRPU
	}
	rpu, err := dovi.Parse(data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRPU, err)
	}
	r.rpu = rpu

	// A use-previous RPU decodes to the no-update sentinel; the metadata of
	// the earlier frame stays in effect.
	if meta := dovi.Decode(rpu, &rpu.Header); !meta.IsNoUpdate() {
		r.meta = meta
	}
	src := &r.src
	src.Repr.Dovi = r.meta

	if rpu.Header.GuessedProfile() == 5 && src.Repr.Levels != LevelsFull {
		if r.pinned.Levels {
			return ErrProfile5Levels
		}
		src.Repr.Levels = LevelsFull
	}

	hdr := &src.Color.HDR
	if maxPQ, avgPQ, ok := rpu.PQ(); ok {
		hdr.MaxPQY = float64(maxPQ)
		hdr.AvgPQY = float64(avgPQ)
	}

	if rpu.Header.VDRDMMetadataPresent && rpu.DM != nil {
		// Keep the coded black point when the output is PQ as well.
		if r.dst.Color.Transfer == TransferPQ {
			r.dst.Color.HDR.MinLuma = hdr.MinLuma
		} else {
			hdr.MinLuma = PQToNits(float64(rpu.DM.SourceMinPQ) / dovi.PQMax)
		}
		hdr.MaxLuma = PQToNits(float64(rpu.DM.SourceMaxPQ) / dovi.PQMax)
	}
	return nil
}

// Infer completes the destination color space from the resolved source.
// A nil fn selects InferMap.
func (r *Resolver) Infer(fn InferFunc) {
	if fn == nil {
		fn = InferMap
	}
	fn(&r.src.Color, &r.dst.Color)
}
