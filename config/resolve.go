package config

import (
	"cmp"

	"github.com/gogpu/vidrender"
	"github.com/gogpu/vidrender/colorspace"
	"github.com/gogpu/vidrender/field"
)

// Resolve validates o against the source stream and builds the render
// configuration. The first invalid option is reported as an *Error.
func Resolve(o *Options, src vidrender.VideoInfo) (*vidrender.Config, error) {
	if o == nil {
		o = &Options{}
	}
	if !src.Format.Valid() {
		return nil, invalid("clip", "unsupported source format %v", src.Format)
	}

	preset, ok := presetFor(deref(o.Preset))
	if !ok {
		return nil, invalid("preset", "invalid value %q", *o.Preset)
	}
	r := &resolver{
		o:        o,
		src:      src,
		scalers:  preset.scalers,
		features: preset.features,
		cfg: &vidrender.Config{
			Name:   deref(o.Name),
			Width:  src.Width,
			Height: src.Height,
			Format: src.Format,
			Field:  field.Auto,
		},
	}

	steps := []func() error{
		r.geometry,
		r.source,
		r.destination,
		r.output,
		r.scaling,
		r.deband,
		r.dither,
		r.dovi,
		r.colorMap,
		r.peakDetect,
		r.colorAdjust,
		r.deinterlace,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}

	r.cfg.Params = r.features.Resolve(r.scalers, r.linear)
	if err := r.cfg.Validate(src); err != nil {
		return nil, err
	}
	return r.cfg, nil
}

type resolver struct {
	o   *Options
	src vidrender.VideoInfo
	cfg *vidrender.Config

	scalers  vidrender.ScalerParams
	linear   bool
	features vidrender.Features

	// Set by destination for output.
	dstPresetFormat string
	dstLevelsSet    bool
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// refine applies enable and parameter overrides to a feature. An explicit
// false disables it; true or any touched parameter enables it starting
// from its current parameters; otherwise the feature is left as is.
func refine[T any](cur vidrender.Feature[T], def T, enable *bool, touched bool, apply func(*T) error) (vidrender.Feature[T], error) {
	if enable != nil && !*enable {
		return vidrender.Off[T](), nil
	}
	if enable == nil && !touched {
		return cur, nil
	}
	p := def
	if cur.Variant == vidrender.Overridden {
		p = cur.Override
	}
	if err := apply(&p); err != nil {
		return cur, err
	}
	return vidrender.With(p), nil
}

func (r *resolver) geometry() error {
	return cmp.Or(
		atLeast("width", r.o.Width, &r.cfg.Width, 16),
		atLeast("height", r.o.Height, &r.cfg.Height, 16),
	)
}

func (r *resolver) source() error {
	o, d, pin := r.o, &r.cfg.Src, &r.cfg.SrcPinned
	format := r.src.Format

	csp := "sdr"
	if format.IsRGB() {
		csp = "srgb"
	}
	if o.SrcCSP != nil {
		csp = *o.SrcCSP
	}
	p, ok := colorspace.LookupPreset(csp)
	if !ok {
		return invalid("src_csp", "unknown preset %q", csp)
	}
	p.Apply(d)
	byPreset := o.SrcCSP != nil

	var err error
	if pin.System, err = lookup("src_matrix", o.SrcMatrix, &d.Repr.System, colorspace.ParseSystem); err != nil {
		return err
	}
	if pin.Transfer, err = lookup("src_trc", o.SrcTRC, &d.Color.Transfer, colorspace.ParseTransfer); err != nil {
		return err
	}
	if pin.Primaries, err = lookup("src_prim", o.SrcPrim, &d.Color.Primaries, colorspace.ParsePrimaries); err != nil {
		return err
	}
	if pin.Levels, err = lookup("src_levels", o.SrcLevels, &d.Repr.Levels, colorspace.ParseLevels); err != nil {
		return err
	}
	if !pin.Levels {
		d.Repr.Levels = colorspace.LevelsLimited
		if format.IsRGB() || format.IsFloat() {
			d.Repr.Levels = colorspace.LevelsFull
		}
	}
	pin.System = pin.System || byPreset
	pin.Transfer = pin.Transfer || byPreset
	pin.Primaries = pin.Primaries || byPreset
	pin.Levels = pin.Levels || byPreset

	set, err := lookup("src_alpha", o.SrcAlpha, &d.Repr.Alpha, colorspace.ParseAlpha)
	if err != nil {
		return err
	}
	if !set {
		d.Repr.Alpha = colorspace.AlphaNone
		if format.Alpha {
			d.Repr.Alpha = colorspace.AlphaIndependent
		}
	}
	set, err = lookup("src_cplace", o.SrcCplace, &d.Chroma, colorspace.ParseChromaLocation)
	if err != nil {
		return err
	}
	if !set {
		d.Chroma = colorspace.ChromaLeft
	}
	d.Repr.ColorDepth = format.Bits
	d.Repr.SampleDepth = format.ComponentSize() * 8

	sys := d.Repr.System
	switch {
	case format.IsRGB() && sys != colorspace.SystemRGB && sys != colorspace.SystemXYZ && sys != colorspace.SystemUnknown:
		return invalid("src_matrix", "input is RGB, but the matrix is %v", sys)
	case !format.IsRGB() && sys == colorspace.SystemRGB:
		return invalid("src_matrix", "input is YUV, but the matrix is rgb")
	case sys == colorspace.SystemBT2100PQ || sys == colorspace.SystemBT2100HLG:
		if format.IsRGB() {
			return invalid("src_matrix", "BT.2100 ICtCp requires a YUV input")
		}
		if !d.Color.Transfer.IsHDR() {
			return invalid("src_matrix", "BT.2100 ICtCp requires an HDR transfer (pq or hlg)")
		}
	}

	pin.MaxLuma = o.SrcMax != nil
	pin.MinLuma = o.SrcMin != nil
	return luma("src", o.SrcMax, o.SrcMin, &d.Color.HDR)
}

// luma applies the max/min luminance options.
func luma(side string, maxL, minL *float64, hdr *colorspace.HDRMetadata) error {
	if maxL != nil {
		hdr.MaxLuma = *maxL
	}
	if err := atLeast(side+"_min", minL, &hdr.MinLuma, 0); err != nil {
		return err
	}
	if maxL != nil && minL != nil && *maxL < *minL {
		return invalid(side+"_max", "must not be less than %s_min (%v)", side, *minL)
	}
	return nil
}

func (r *resolver) destination() error {
	o, d := r.o, &r.cfg.Dst

	if o.DstCSP != nil {
		if colorspace.IsDoviPreset(*o.DstCSP) {
			return invalid("dst_csp", "Dolby Vision output is not supported")
		}
		p, ok := colorspace.LookupPreset(*o.DstCSP)
		if !ok {
			return invalid("dst_csp", "unknown preset %q", *o.DstCSP)
		}
		p.Apply(d)
		r.dstPresetFormat = p.Format
	} else {
		d.Color.Primaries = r.cfg.Src.Color.Primaries
		d.Color.Transfer = r.cfg.Src.Color.Transfer
		d.Repr = r.cfg.Src.Repr
	}

	if _, err := lookup("dst_matrix", o.DstMatrix, &d.Repr.System, colorspace.ParseSystem); err != nil {
		return err
	}
	if d.Repr.System == colorspace.SystemDolbyVision {
		return invalid("dst_matrix", "Dolby Vision output is not supported")
	}
	if _, err := lookup("dst_trc", o.DstTRC, &d.Color.Transfer, colorspace.ParseTransfer); err != nil {
		return err
	}
	if _, err := lookup("dst_prim", o.DstPrim, &d.Color.Primaries, colorspace.ParsePrimaries); err != nil {
		return err
	}
	var err error
	if r.dstLevelsSet, err = lookup("dst_levels", o.DstLevels, &d.Repr.Levels, colorspace.ParseLevels); err != nil {
		return err
	}
	if _, err := lookup("dst_alpha", o.DstAlpha, &d.Repr.Alpha, colorspace.ParseAlpha); err != nil {
		return err
	}
	set, err := lookup("dst_cplace", o.DstCplace, &d.Chroma, colorspace.ParseChromaLocation)
	if err != nil {
		return err
	}
	if !set {
		d.Chroma = colorspace.ChromaLeft
	}
	return luma("dst", o.DstMax, o.DstMin, &d.Color.HDR)
}

func (r *resolver) output() error {
	o, d := r.o, &r.cfg.Dst
	if o.OutFmt != nil && o.DstCSP != nil {
		return invalid("out_fmt", "cannot be combined with dst_csp")
	}

	if o.OutFmt == nil && o.DstCSP == nil {
		if r.src.Format.IsRGB() != d.Repr.System.IsRGB() {
			return invalid("dst_matrix", "%v does not match the %v output; set out_fmt", d.Repr.System, r.src.Format)
		}
	} else {
		name, option := r.dstPresetFormat, "dst_csp"
		if o.OutFmt != nil {
			name, option = *o.OutFmt, "out_fmt"
		}
		f, err := vidrender.ParsePixelFormat(name)
		if err != nil {
			return invalid(option, "invalid output format %q", name)
		}
		r.cfg.Format = f

		if f.IsRGB() != d.Repr.System.IsRGB() {
			if o.DstMatrix != nil {
				return invalid("dst_matrix", "%v does not match output format %v", d.Repr.System, f)
			}
			d.Repr.System = colorspace.SystemBT709
			if f.IsRGB() {
				d.Repr.System = colorspace.SystemRGB
			}
			if !r.dstLevelsSet {
				d.Repr.Levels = colorspace.LevelsLimited
				if f.IsRGB() || f.IsFloat() {
					d.Repr.Levels = colorspace.LevelsFull
				}
			}
		}

		if o.DstAlpha != nil {
			if (d.Repr.Alpha == colorspace.AlphaNone) == f.Alpha {
				return invalid("dst_alpha", "%v does not match output format %v", d.Repr.Alpha, f)
			}
		} else {
			d.Repr.Alpha = colorspace.AlphaNone
			if f.Alpha {
				d.Repr.Alpha = colorspace.AlphaIndependent
			}
		}
	}

	d.Repr.ColorDepth = r.cfg.Format.Bits
	d.Repr.SampleDepth = r.cfg.Format.ComponentSize() * 8
	return nil
}

func (r *resolver) scaling() error {
	o, s := r.o, &r.scalers
	for _, sc := range []struct {
		option string
		value  *string
		dst    *string
	}{
		{"upscaler", o.Upscaler, &s.Upscaler},
		{"downscaler", o.Downscaler, &s.Downscaler},
		{"plane_upscaler", o.PlaneUpscaler, &s.PlaneUpscaler},
		{"plane_downscaler", o.PlaneDownscaler, &s.PlaneDownscaler},
	} {
		if _, err := lookup(sc.option, sc.value, sc.dst, parser(scalerNames)); err != nil {
			return err
		}
	}
	if err := between("antiringing_strength", o.AntiringingStrength, &s.AntiRinging, 0, 1); err != nil {
		return err
	}

	r.linear = true
	if o.LinearScaling != nil {
		r.linear = *o.LinearScaling
	}
	if !r.linear {
		r.features.Sigmoid = vidrender.Off[vidrender.SigmoidParams]()
		return nil
	}
	f, err := refine(r.features.Sigmoid, vidrender.DefaultSigmoidParams(), o.Sigmoid,
		o.SigmoidCenter != nil || o.SigmoidSlope != nil,
		func(p *vidrender.SigmoidParams) error {
			return cmp.Or(
				between("sigmoid_center", o.SigmoidCenter, &p.Center, 0, 1),
				between("sigmoid_slope", o.SigmoidSlope, &p.Slope, 1, 20),
			)
		})
	r.features.Sigmoid = f
	return err
}

func (r *resolver) deband() error {
	o := r.o
	f, err := refine(r.features.Deband, vidrender.DefaultDebandParams(), o.Deband,
		o.DebandIterations != nil || o.DebandThreshold != nil || o.DebandRadius != nil || o.DebandGrain != nil,
		func(p *vidrender.DebandParams) error {
			return cmp.Or(
				between("deband_iterations", o.DebandIterations, &p.Iterations, 0, 16),
				between("deband_threshold", o.DebandThreshold, &p.Threshold, 0, 1000),
				between("deband_radius", o.DebandRadius, &p.Radius, 0, 1000),
				between("deband_grain", o.DebandGrain, &p.Grain, 0, 1000),
			)
		})
	r.features.Deband = f
	return err
}

func (r *resolver) dither() error {
	o := r.o
	f, err := refine(r.features.Dither, vidrender.DefaultDitherParams(), o.Dither,
		o.DitherMethod != nil || o.DitherLUTSize != nil || o.DitherTemporal != nil,
		func(p *vidrender.DitherParams) error {
			if _, err := lookup("dither_method", o.DitherMethod, &p.Method, parser(ditherMethods)); err != nil {
				return err
			}
			if o.DitherTemporal != nil {
				p.Temporal = *o.DitherTemporal
			}
			return between("dither_lut_size", o.DitherLUTSize, &p.LUTSize, 1, 8)
		})
	r.features.Dither = f
	return err
}

func (r *resolver) dovi() error {
	engaged := r.cfg.Src.Repr.System == colorspace.SystemDolbyVision
	if v := r.o.DoviMetadata; v != nil {
		if *v && !engaged {
			return invalid("dovi_metadata", "requires the dovi source matrix")
		}
		engaged = engaged && *v
	}
	r.cfg.Dovi = engaged
	return nil
}

func (r *resolver) colorMap() error {
	o := r.o
	base := r.features.ColorMap
	if o.ColorMapPreset != nil {
		hq, ok := qualityPresets.Lookup(*o.ColorMapPreset)
		if !ok {
			return invalid("color_map_preset", "invalid value %q", *o.ColorMapPreset)
		}
		base = vidrender.On[vidrender.ColorMapParams]()
		if hq {
			base = vidrender.With(vidrender.HighQualityColorMapParams())
		}
	}
	if r.cfg.Dovi && base.Variant == vidrender.Disabled {
		base = vidrender.On[vidrender.ColorMapParams]()
	}

	touched := o.GamutMapping != nil || o.ToneMappingFunction != nil || o.InverseToneMapping != nil ||
		o.ToneLUTSize != nil || o.ContrastRecovery != nil || o.ContrastSmoothness != nil || o.ToneMapMetadata != nil
	f, err := refine(base, vidrender.DefaultColorMapParams(), nil, touched,
		func(p *vidrender.ColorMapParams) error {
			if _, err := lookup("gamut_mapping", o.GamutMapping, &p.GamutMapping, parser(gamutMappings)); err != nil {
				return err
			}
			if _, err := lookup("tone_mapping_function", o.ToneMappingFunction, &p.ToneMapping, parser(toneMappings)); err != nil {
				return err
			}
			if _, err := lookup("tone_map_metadata", o.ToneMapMetadata, &p.Metadata, parser(hdrMetadata)); err != nil {
				return err
			}
			if o.InverseToneMapping != nil {
				p.InverseToneMapping = *o.InverseToneMapping
			}
			return cmp.Or(
				between("tone_lut_size", o.ToneLUTSize, &p.LUTSize, 0, 1024),
				between("contrast_recovery", o.ContrastRecovery, &p.ContrastRecovery, 0, 2),
				between("contrast_smoothness", o.ContrastSmoothness, &p.ContrastSmoothness, 1, 32),
			)
		})
	r.features.ColorMap = f
	return err
}

func (r *resolver) peakDetect() error {
	o := r.o
	base := r.features.PeakDetect
	if o.PeakDetectionPreset != nil {
		hq, ok := qualityPresets.Lookup(*o.PeakDetectionPreset)
		if !ok {
			return invalid("peak_detection_preset", "invalid value %q", *o.PeakDetectionPreset)
		}
		base = vidrender.On[vidrender.PeakDetectParams]()
		if hq {
			base = vidrender.With(vidrender.HighQualityPeakDetectParams())
		}
	}

	touched := o.PeakDetectionPreset != nil || o.PeakSmoothingPeriod != nil || o.SceneThresholdLow != nil ||
		o.SceneThresholdHigh != nil || o.PeakPercentile != nil || o.BlackCutoff != nil
	f, err := refine(base, vidrender.DefaultPeakDetectParams(), o.PeakDetect, touched,
		func(p *vidrender.PeakDetectParams) error {
			return cmp.Or(
				between("peak_smoothing_period", o.PeakSmoothingPeriod, &p.SmoothingPeriod, 0, 1000),
				between("scene_threshold_low", o.SceneThresholdLow, &p.SceneThresholdLow, 0, 100),
				between("scene_threshold_high", o.SceneThresholdHigh, &p.SceneThresholdHigh, 0, 100),
				between("peak_percentile", o.PeakPercentile, &p.Percentile, 0, 100),
				between("black_cutoff", o.BlackCutoff, &p.BlackCutoff, 0, 100),
			)
		})
	r.features.PeakDetect = f
	return err
}

func (r *resolver) colorAdjust() error {
	o := r.o
	touched := o.Brightness != nil || o.Contrast != nil || o.Saturation != nil ||
		o.Hue != nil || o.Gamma != nil || o.Temperature != nil
	f, err := refine(r.features.ColorAdjust, vidrender.NeutralColorAdjustment(), nil, touched,
		func(p *vidrender.ColorAdjustment) error {
			if o.Hue != nil {
				p.Hue = *o.Hue
			}
			return cmp.Or(
				between("brightness", o.Brightness, &p.Brightness, -1, 1),
				between("contrast", o.Contrast, &p.Contrast, 0, 100),
				between("saturation", o.Saturation, &p.Saturation, 0, 100),
				between("gamma", o.Gamma, &p.Gamma, 0, 100),
				between("temperature", o.Temperature, &p.Temperature, -1.143, 5.286),
			)
		})
	r.features.ColorAdjust = f
	return err
}

func (r *resolver) deinterlace() error {
	o := r.o
	if o.Field == nil && o.DeinterlaceAlgo == nil && o.SpatialCheck == nil {
		return nil
	}
	mode := int(field.Auto)
	if err := between("field", o.Field, &mode, int(field.DoubleRateAuto), int(field.DoubleRateTopFirst)); err != nil {
		return err
	}
	r.cfg.Field = field.Mode(mode)

	p := field.DefaultParams()
	if _, err := lookup("deinterlace_algo", o.DeinterlaceAlgo, &p.Algo, field.ParseAlgorithm); err != nil {
		return err
	}
	if o.SpatialCheck != nil {
		p.SkipSpatialCheck = !*o.SpatialCheck
	}
	r.features.Deinterlace = vidrender.With(p)
	return nil
}
