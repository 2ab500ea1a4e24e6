package config

import (
	"bytes"
	"fmt"
	"os"

	yaml "github.com/goccy/go-yaml"
)

// Options is the raw option surface. A nil field means the option was not
// given; Resolve then applies the preset value or the documented default.
type Options struct {
	Name   *string `yaml:"name"`
	Preset *string `yaml:"preset"`

	// Output geometry and format.
	Width  *int    `yaml:"width"`
	Height *int    `yaml:"height"`
	OutFmt *string `yaml:"out_fmt"`

	// Scaling.
	Upscaler            *string  `yaml:"upscaler"`
	Downscaler          *string  `yaml:"downscaler"`
	PlaneUpscaler       *string  `yaml:"plane_upscaler"`
	PlaneDownscaler     *string  `yaml:"plane_downscaler"`
	AntiringingStrength *float64 `yaml:"antiringing_strength"`
	LinearScaling       *bool    `yaml:"linear_scaling"`
	Sigmoid             *bool    `yaml:"sigmoid"`
	SigmoidCenter       *float64 `yaml:"sigmoid_center"`
	SigmoidSlope        *float64 `yaml:"sigmoid_slope"`

	// Debanding and dithering.
	Deband           *bool    `yaml:"deband"`
	DebandIterations *int     `yaml:"deband_iterations"`
	DebandThreshold  *float64 `yaml:"deband_threshold"`
	DebandRadius     *float64 `yaml:"deband_radius"`
	DebandGrain      *float64 `yaml:"deband_grain"`
	Dither           *bool    `yaml:"dither"`
	DitherMethod     *string  `yaml:"dither_method"`
	DitherLUTSize    *int     `yaml:"dither_lut_size"`
	DitherTemporal   *bool    `yaml:"dither_temporal"`

	// Source color description.
	SrcCSP    *string  `yaml:"src_csp"`
	SrcMatrix *string  `yaml:"src_matrix"`
	SrcTRC    *string  `yaml:"src_trc"`
	SrcPrim   *string  `yaml:"src_prim"`
	SrcLevels *string  `yaml:"src_levels"`
	SrcAlpha  *string  `yaml:"src_alpha"`
	SrcCplace *string  `yaml:"src_cplace"`
	SrcMax    *float64 `yaml:"src_max"`
	SrcMin    *float64 `yaml:"src_min"`

	// Destination color description.
	DstCSP    *string  `yaml:"dst_csp"`
	DstMatrix *string  `yaml:"dst_matrix"`
	DstTRC    *string  `yaml:"dst_trc"`
	DstPrim   *string  `yaml:"dst_prim"`
	DstLevels *string  `yaml:"dst_levels"`
	DstAlpha  *string  `yaml:"dst_alpha"`
	DstCplace *string  `yaml:"dst_cplace"`
	DstMax    *float64 `yaml:"dst_max"`
	DstMin    *float64 `yaml:"dst_min"`

	// Gamut and tone mapping.
	ColorMapPreset      *string  `yaml:"color_map_preset"`
	GamutMapping        *string  `yaml:"gamut_mapping"`
	ToneMappingFunction *string  `yaml:"tone_mapping_function"`
	InverseToneMapping  *bool    `yaml:"inverse_tone_mapping"`
	ToneLUTSize         *int     `yaml:"tone_lut_size"`
	ContrastRecovery    *float64 `yaml:"contrast_recovery"`
	ContrastSmoothness  *float64 `yaml:"contrast_smoothness"`
	ToneMapMetadata     *string  `yaml:"tone_map_metadata"`
	DoviMetadata        *bool    `yaml:"dovi_metadata"`

	// Peak detection.
	PeakDetect          *bool    `yaml:"peak_detect"`
	PeakDetectionPreset *string  `yaml:"peak_detection_preset"`
	PeakSmoothingPeriod *float64 `yaml:"peak_smoothing_period"`
	SceneThresholdLow   *float64 `yaml:"scene_threshold_low"`
	SceneThresholdHigh  *float64 `yaml:"scene_threshold_high"`
	PeakPercentile      *float64 `yaml:"peak_percentile"`
	BlackCutoff         *float64 `yaml:"black_cutoff"`

	// Color adjustment.
	Brightness  *float64 `yaml:"brightness"`
	Contrast    *float64 `yaml:"contrast"`
	Saturation  *float64 `yaml:"saturation"`
	Hue         *float64 `yaml:"hue"`
	Gamma       *float64 `yaml:"gamma"`
	Temperature *float64 `yaml:"temperature"`

	// Deinterlacing.
	Field           *int    `yaml:"field"`
	DeinterlaceAlgo *string `yaml:"deinterlace_algo"`
	SpatialCheck    *bool   `yaml:"spatial_check"`
}

// Load reads options from a YAML file.
func Load(filename string) (*Options, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", filename, err)
	}
	o, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return o, nil
}

// Parse decodes YAML options. Unknown keys are rejected.
func Parse(b []byte) (*Options, error) {
	o := &Options{}
	if len(bytes.TrimSpace(b)) == 0 {
		return o, nil
	}
	if err := yaml.UnmarshalWithOptions(b, o, yaml.DisallowUnknownField()); err != nil {
		return nil, err
	}
	return o, nil
}

// Ptr returns a pointer to v, for building Options in code.
func Ptr[T any](v T) *T {
	return &v
}
