package config

import (
	"errors"

	"github.com/gogpu/vidrender"
	"github.com/gogpu/vidrender/internal/names"
)

// renderPreset is the starting point the individual options refine.
type renderPreset struct {
	scalers  vidrender.ScalerParams
	features vidrender.Features
}

// Scaler defaults for options left unset without a preset.
var defaultScalers = vidrender.ScalerParams{
	Upscaler:        "ewa_lanczossharp",
	Downscaler:      "catmull_rom",
	PlaneUpscaler:   "spline36",
	PlaneDownscaler: "spline36",
}

var renderPresets = names.NewTable(
	names.Entry[string]{Name: "default", Value: "default"},
	names.Entry[string]{Name: "fast", Value: "fast"},
	names.Entry[string]{Name: "high_quality", Value: "high_quality"},
)

// presetFor returns the named preset. An empty name selects the bare
// configuration: default scalers and every feature disabled.
func presetFor(name string) (renderPreset, bool) {
	if name == "" {
		return renderPreset{scalers: defaultScalers}, true
	}
	key, ok := renderPresets.Lookup(name)
	if !ok {
		return renderPreset{}, false
	}
	switch key {
	case "fast":
		return renderPreset{scalers: vidrender.ScalerParams{Upscaler: "bilinear", Downscaler: "bilinear"}}, true
	case "high_quality":
		return renderPreset{
			scalers: vidrender.ScalerParams{Upscaler: "ewa_lanczossharp", Downscaler: "mitchell"},
			features: vidrender.Features{
				Sigmoid:    vidrender.On[vidrender.SigmoidParams](),
				Deband:     vidrender.On[vidrender.DebandParams](),
				Dither:     vidrender.On[vidrender.DitherParams](),
				PeakDetect: vidrender.With(vidrender.HighQualityPeakDetectParams()),
				ColorMap:   vidrender.With(vidrender.HighQualityColorMapParams()),
			},
		}, true
	}
	return renderPreset{
		scalers: vidrender.ScalerParams{Upscaler: "spline36", Downscaler: "mitchell"},
		features: vidrender.Features{
			Sigmoid:    vidrender.On[vidrender.SigmoidParams](),
			Dither:     vidrender.On[vidrender.DitherParams](),
			PeakDetect: vidrender.On[vidrender.PeakDetectParams](),
			ColorMap:   vidrender.On[vidrender.ColorMapParams](),
		},
	}, true
}

var scalerNames = names.NewTable(
	names.Entry[string]{Name: "none", Value: ""},
	names.Entry[string]{Name: "nearest", Value: "nearest"},
	names.Entry[string]{Name: "bilinear", Value: "bilinear"},
	names.Entry[string]{Name: "oversample", Value: "oversample"},
	names.Entry[string]{Name: "bicubic", Value: "bicubic"},
	names.Entry[string]{Name: "gaussian", Value: "gaussian"},
	names.Entry[string]{Name: "hermite", Value: "hermite"},
	names.Entry[string]{Name: "catmull_rom", Value: "catmull_rom"},
	names.Entry[string]{Name: "mitchell", Value: "mitchell"},
	names.Entry[string]{Name: "mitchell_clamp", Value: "mitchell_clamp"},
	names.Entry[string]{Name: "robidoux", Value: "robidoux"},
	names.Entry[string]{Name: "robidouxsharp", Value: "robidouxsharp"},
	names.Entry[string]{Name: "spline16", Value: "spline16"},
	names.Entry[string]{Name: "spline36", Value: "spline36"},
	names.Entry[string]{Name: "spline64", Value: "spline64"},
	names.Entry[string]{Name: "sinc", Value: "sinc"},
	names.Entry[string]{Name: "lanczos", Value: "lanczos"},
	names.Entry[string]{Name: "ginseng", Value: "ginseng"},
	names.Entry[string]{Name: "ewa_jinc", Value: "ewa_jinc"},
	names.Entry[string]{Name: "ewa_lanczos", Value: "ewa_lanczos"},
	names.Entry[string]{Name: "ewa_lanczossharp", Value: "ewa_lanczossharp"},
	names.Entry[string]{Name: "ewa_lanczos4sharpest", Value: "ewa_lanczos4sharpest"},
	names.Entry[string]{Name: "ewa_ginseng", Value: "ewa_ginseng"},
	names.Entry[string]{Name: "ewa_hann", Value: "ewa_hann"},
	names.Entry[string]{Name: "ewa_robidoux", Value: "ewa_robidoux"},
	names.Entry[string]{Name: "ewa_robidouxsharp", Value: "ewa_robidouxsharp"},
)

var ditherMethods = names.NewTable(
	names.Entry[vidrender.DitherMethod]{Name: "blue_noise", Value: vidrender.DitherBlueNoise},
	names.Entry[vidrender.DitherMethod]{Name: "ordered_lut", Value: vidrender.DitherOrderedLUT},
	names.Entry[vidrender.DitherMethod]{Name: "ordered_fixed", Value: vidrender.DitherOrderedFixed},
	names.Entry[vidrender.DitherMethod]{Name: "white_noise", Value: vidrender.DitherWhiteNoise},
)

var gamutMappings = names.NewTable(
	names.Entry[string]{Name: "clip", Value: "clip"},
	names.Entry[string]{Name: "perceptual", Value: "perceptual"},
	names.Entry[string]{Name: "softclip", Value: "softclip"},
	names.Entry[string]{Name: "relative", Value: "relative"},
	names.Entry[string]{Name: "saturation", Value: "saturation"},
	names.Entry[string]{Name: "absolute", Value: "absolute"},
	names.Entry[string]{Name: "desaturate", Value: "desaturate"},
	names.Entry[string]{Name: "darken", Value: "darken"},
	names.Entry[string]{Name: "highlight", Value: "highlight"},
	names.Entry[string]{Name: "linear", Value: "linear"},
)

var toneMappings = names.NewTable(
	names.Entry[string]{Name: "clip", Value: "clip"},
	names.Entry[string]{Name: "st2094-40", Value: "st2094-40"},
	names.Entry[string]{Name: "st2094-10", Value: "st2094-10"},
	names.Entry[string]{Name: "bt2390", Value: "bt2390"},
	names.Entry[string]{Name: "bt2446a", Value: "bt2446a"},
	names.Entry[string]{Name: "spline", Value: "spline"},
	names.Entry[string]{Name: "reinhard", Value: "reinhard"},
	names.Entry[string]{Name: "mobius", Value: "mobius"},
	names.Entry[string]{Name: "hable", Value: "hable"},
	names.Entry[string]{Name: "gamma", Value: "gamma"},
	names.Entry[string]{Name: "linear", Value: "linear"},
	names.Entry[string]{Name: "linearlight", Value: "linearlight"},
)

var hdrMetadata = names.NewTable(
	names.Entry[string]{Name: "any", Value: "any"},
	names.Entry[string]{Name: "none", Value: "none"},
	names.Entry[string]{Name: "hdr10", Value: "hdr10"},
	names.Entry[string]{Name: "hdr10plus", Value: "hdr10plus"},
	names.Entry[string]{Name: "cie_y", Value: "cie_y"},
)

var qualityPresets = names.NewTable(
	names.Entry[bool]{Name: "default", Value: false},
	names.Entry[bool]{Name: "high_quality", Value: true},
)

var errUnknown = errors.New("unknown value")

// parser adapts a lookup table to the lookup helper.
func parser[V comparable](t *names.Table[V]) func(string) (V, error) {
	return func(s string) (V, error) {
		v, ok := t.Lookup(s)
		if !ok {
			return v, errUnknown
		}
		return v, nil
	}
}
