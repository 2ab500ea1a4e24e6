package vidrender

import (
	"github.com/gogpu/vidrender/field"
)

// Variant selects how an optional render feature is configured.
type Variant uint8

// Feature variants.
const (
	// Disabled turns the feature off.
	Disabled Variant = iota
	// Default enables the feature with its default parameters.
	Default
	// Overridden enables the feature with explicit parameters.
	Overridden
)

func (v Variant) String() string {
	switch v {
	case Disabled:
		return "disabled"
	case Default:
		return "default"
	case Overridden:
		return "overridden"
	}
	return "unknown"
}

// Feature is the configuration of one optional render feature.
// Override is only read for the Overridden variant.
type Feature[T any] struct {
	Variant  Variant
	Override T
}

// Off returns a disabled feature.
func Off[T any]() Feature[T] { return Feature[T]{} }

// On returns a feature enabled with default parameters.
func On[T any]() Feature[T] { return Feature[T]{Variant: Default} }

// With returns a feature enabled with p.
func With[T any](p T) Feature[T] { return Feature[T]{Variant: Overridden, Override: p} }

// Resolve returns the concrete parameters for f, or nil when disabled.
func (f Feature[T]) Resolve(def T) *T {
	switch f.Variant {
	case Default:
		return &def
	case Overridden:
		p := f.Override
		return &p
	}
	return nil
}

// DebandParams configures the debanding pass.
type DebandParams struct {
	Iterations int
	Threshold  float64
	Radius     float64
	Grain      float64
}

// DefaultDebandParams returns the debanding defaults.
func DefaultDebandParams() DebandParams {
	return DebandParams{Iterations: 1, Threshold: 3, Radius: 16, Grain: 4}
}

// DitherMethod selects the dithering algorithm.
type DitherMethod uint8

// Dither methods.
const (
	DitherBlueNoise DitherMethod = iota
	DitherOrderedLUT
	DitherOrderedFixed
	DitherWhiteNoise
)

// DitherParams configures output dithering.
type DitherParams struct {
	Method   DitherMethod
	LUTSize  int
	Temporal bool
}

// DefaultDitherParams returns the dithering defaults.
func DefaultDitherParams() DitherParams {
	return DitherParams{Method: DitherBlueNoise, LUTSize: 6}
}

// PeakDetectParams configures dynamic HDR peak detection.
type PeakDetectParams struct {
	SmoothingPeriod    float64
	SceneThresholdLow  float64
	SceneThresholdHigh float64
	Percentile         float64
	BlackCutoff        float64
}

// DefaultPeakDetectParams returns the peak detection defaults.
func DefaultPeakDetectParams() PeakDetectParams {
	return PeakDetectParams{
		SmoothingPeriod:    20,
		SceneThresholdLow:  1,
		SceneThresholdHigh: 3,
		Percentile:         100,
		BlackCutoff:        1,
	}
}

// HighQualityPeakDetectParams returns the high quality preset, which
// ignores the brightest 0.005% of pixels.
func HighQualityPeakDetectParams() PeakDetectParams {
	p := DefaultPeakDetectParams()
	p.Percentile = 99.995
	return p
}

// SigmoidParams configures sigmoidal upscaling.
type SigmoidParams struct {
	Center float64
	Slope  float64
}

// DefaultSigmoidParams returns the sigmoidization defaults.
func DefaultSigmoidParams() SigmoidParams {
	return SigmoidParams{Center: 0.75, Slope: 6.5}
}

// ColorAdjustment is a user color correction.
type ColorAdjustment struct {
	Brightness  float64
	Contrast    float64
	Saturation  float64
	Hue         float64
	Gamma       float64
	Temperature float64
}

// NeutralColorAdjustment returns the identity adjustment.
func NeutralColorAdjustment() ColorAdjustment {
	return ColorAdjustment{Contrast: 1, Saturation: 1, Gamma: 1}
}

// ColorMapParams configures gamut and tone mapping.
type ColorMapParams struct {
	GamutMapping       string
	ToneMapping        string
	InverseToneMapping bool
	ContrastRecovery   float64
	ContrastSmoothness float64
	LUTSize            int

	// Metadata selects the HDR metadata source: "any", "none", "hdr10",
	// "hdr10plus" or "cie_y".
	Metadata string
}

// DefaultColorMapParams returns the default color mapping preset.
func DefaultColorMapParams() ColorMapParams {
	return ColorMapParams{
		GamutMapping:       "perceptual",
		ToneMapping:        "spline",
		ContrastSmoothness: 3.5,
		LUTSize:            256,
		Metadata:           "any",
	}
}

// HighQualityColorMapParams returns the high quality color mapping preset.
func HighQualityColorMapParams() ColorMapParams {
	p := DefaultColorMapParams()
	p.ContrastRecovery = 0.3
	return p
}

// ScalerParams names the resampling filters.
type ScalerParams struct {
	Upscaler        string
	Downscaler      string
	PlaneUpscaler   string
	PlaneDownscaler string
	AntiRinging     float64
}

// RenderParams is the resolved parameter record handed to the renderer on
// every frame. Nil pointers are disabled features.
type RenderParams struct {
	Scalers       ScalerParams
	LinearScaling bool

	Sigmoid     *SigmoidParams
	Deband      *DebandParams
	Dither      *DitherParams
	PeakDetect  *PeakDetectParams
	ColorMap    *ColorMapParams
	ColorAdjust *ColorAdjustment
	Deinterlace *field.Params
}

// Features is the per-feature configuration RenderParams are resolved from.
type Features struct {
	Sigmoid     Feature[SigmoidParams]
	Deband      Feature[DebandParams]
	Dither      Feature[DitherParams]
	PeakDetect  Feature[PeakDetectParams]
	ColorMap    Feature[ColorMapParams]
	ColorAdjust Feature[ColorAdjustment]
	Deinterlace Feature[field.Params]
}

// Resolve builds the concrete parameter record.
func (f *Features) Resolve(scalers ScalerParams, linear bool) RenderParams {
	return RenderParams{
		Scalers:       scalers,
		LinearScaling: linear,
		Sigmoid:       f.Sigmoid.Resolve(DefaultSigmoidParams()),
		Deband:        f.Deband.Resolve(DefaultDebandParams()),
		Dither:        f.Dither.Resolve(DefaultDitherParams()),
		PeakDetect:    f.PeakDetect.Resolve(DefaultPeakDetectParams()),
		ColorMap:      f.ColorMap.Resolve(DefaultColorMapParams()),
		ColorAdjust:   f.ColorAdjust.Resolve(NeutralColorAdjustment()),
		Deinterlace:   f.Deinterlace.Resolve(field.DefaultParams()),
	}
}
