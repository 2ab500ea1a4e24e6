package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/vidrender"
	"github.com/gogpu/vidrender/colorspace"
	"github.com/gogpu/vidrender/field"
)

func clip(f vidrender.PixelFormat) vidrender.VideoInfo {
	return vidrender.VideoInfo{Width: 1920, Height: 1080, Format: f, NumFrames: 100, FPSNum: 24000, FPSDen: 1001}
}

func TestParse(t *testing.T) {
	o, err := Parse([]byte("preset: fast\nwidth: 640\ndeband: false\nsrc_max: 1000.5\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := &Options{Preset: Ptr("fast"), Width: Ptr(640), Deband: Ptr(false), SrcMax: Ptr(1000.5)}
	if diff := cmp.Diff(want, o); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseEmpty(t *testing.T) {
	o, err := Parse([]byte("  \n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if diff := cmp.Diff(&Options{}, o); diff != "" {
		t.Errorf("Parse(blank) mismatch (-want +got):\n%s", diff)
	}
}

func TestParseUnknownKey(t *testing.T) {
	if _, err := Parse([]byte("upscalr: spline36\n")); err == nil {
		t.Error("Parse() accepted a misspelled option")
	}
}

func TestLoad(t *testing.T) {
	o, err := Load(filepath.Join("testdata", "render.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	cfg, err := Resolve(o, clip(vidrender.FormatYUV420P10))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.Name != "hdr-to-sdr" || cfg.Width != 1280 || cfg.Height != 720 {
		t.Errorf("name/size = %q %dx%d", cfg.Name, cfg.Width, cfg.Height)
	}
	if !cfg.Dovi {
		t.Error("Dolby Vision not engaged for the dovi matrix")
	}
	if cfg.Format != vidrender.FormatYUV420P8 {
		t.Errorf("Format = %v, want the sdr preset format", cfg.Format)
	}
	cm := vidrender.HighQualityColorMapParams()
	cm.ToneMapping = "bt2390"
	cm.ContrastRecovery = 0.5
	if diff := cmp.Diff(&cm, cfg.Params.ColorMap); diff != "" {
		t.Errorf("ColorMap mismatch (-want +got):\n%s", diff)
	}
	if cfg.Field != field.DoubleRateTopFirst {
		t.Errorf("Field = %v, want %v", cfg.Field, field.DoubleRateTopFirst)
	}
	if diff := cmp.Diff(&field.Params{Algo: field.Bwdif}, cfg.Params.Deinterlace); diff != "" {
		t.Errorf("Deinterlace mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join("testdata", "missing.yaml")); err == nil {
		t.Error("Load() of a missing file succeeded")
	}
}

func TestResolveDefaults(t *testing.T) {
	cfg, err := Resolve(nil, clip(vidrender.FormatYUV420P8))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	src := colorspace.Description{
		Color: colorspace.ColorSpace{Primaries: colorspace.PrimariesBT709, Transfer: colorspace.TransferBT1886},
		Repr: colorspace.Repr{
			System:      colorspace.SystemBT709,
			Levels:      colorspace.LevelsLimited,
			Alpha:       colorspace.AlphaNone,
			ColorDepth:  8,
			SampleDepth: 8,
		},
		Chroma: colorspace.ChromaLeft,
	}
	want := &vidrender.Config{
		Width:  1920,
		Height: 1080,
		Format: vidrender.FormatYUV420P8,
		Src:    src,
		Dst:    src,
		Field:  field.Auto,
		Params: vidrender.RenderParams{Scalers: defaultScalers, LinearScaling: true},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Resolve() mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveSourceDefaults(t *testing.T) {
	tests := []struct {
		name   string
		format vidrender.PixelFormat
		system colorspace.System
		levels colorspace.Levels
		alpha  colorspace.Alpha
	}{
		{"yuv", vidrender.FormatYUV420P10, colorspace.SystemBT709, colorspace.LevelsLimited, colorspace.AlphaNone},
		{"float yuv", vidrender.FormatYUV444PS, colorspace.SystemBT709, colorspace.LevelsFull, colorspace.AlphaNone},
		{"rgb", vidrender.FormatRGBP8, colorspace.SystemRGB, colorspace.LevelsFull, colorspace.AlphaNone},
		{"gray", vidrender.FormatGray8, colorspace.SystemBT709, colorspace.LevelsLimited, colorspace.AlphaNone},
		{"yuva", vidrender.PixelFormat{Family: vidrender.FamilyYUV, Bits: 8, Alpha: true}, colorspace.SystemBT709, colorspace.LevelsLimited, colorspace.AlphaIndependent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Resolve(&Options{}, clip(tt.format))
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			r := cfg.Src.Repr
			if r.System != tt.system || r.Levels != tt.levels || r.Alpha != tt.alpha {
				t.Errorf("src repr = %v/%v/%v, want %v/%v/%v", r.System, r.Levels, r.Alpha, tt.system, tt.levels, tt.alpha)
			}
			if r.ColorDepth != tt.format.Bits || r.SampleDepth != tt.format.ComponentSize()*8 {
				t.Errorf("depth = %d/%d for %v", r.ColorDepth, r.SampleDepth, tt.format)
			}
		})
	}
}

func TestResolvePinned(t *testing.T) {
	tests := []struct {
		name string
		opts *Options
		want colorspace.Pinned
	}{
		{"none", &Options{}, colorspace.Pinned{}},
		{"preset pins color", &Options{SrcCSP: Ptr("hdr10")}, colorspace.Pinned{System: true, Transfer: true, Primaries: true, Levels: true}},
		{"levels only", &Options{SrcLevels: Ptr("full")}, colorspace.Pinned{Levels: true}},
		{"luminance", &Options{SrcMax: Ptr(1000.0), SrcMin: Ptr(0.005)}, colorspace.Pinned{MaxLuma: true, MinLuma: true}},
		{"transfer and primaries", &Options{SrcTRC: Ptr("pq"), SrcPrim: Ptr("2020")}, colorspace.Pinned{Transfer: true, Primaries: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.DstCSP = Ptr("sdr")
			cfg, err := Resolve(tt.opts, clip(vidrender.FormatYUV420P10))
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, cfg.SrcPinned); diff != "" {
				t.Errorf("SrcPinned mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveSourceLuminance(t *testing.T) {
	cfg, err := Resolve(&Options{SrcCSP: Ptr("pq"), SrcMax: Ptr(4000.0), SrcMin: Ptr(0.005), DstCSP: Ptr("sdr")},
		clip(vidrender.FormatYUV420P10))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if hdr := cfg.Src.Color.HDR; hdr.MaxLuma != 4000 || hdr.MinLuma != 0.005 {
		t.Errorf("src luminance = %v..%v", hdr.MinLuma, hdr.MaxLuma)
	}
	if cfg.Src.Repr.Levels != colorspace.LevelsLimited {
		t.Errorf("src levels = %v, want limited", cfg.Src.Repr.Levels)
	}
}

func TestResolveOutputFormat(t *testing.T) {
	cfg, err := Resolve(&Options{OutFmt: Ptr("RGBP")}, clip(vidrender.FormatYUV420P8))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.Format != vidrender.FormatRGBP8 {
		t.Errorf("Format = %v, want RGBP", cfg.Format)
	}
	r := cfg.Dst.Repr
	if r.System != colorspace.SystemRGB || r.Levels != colorspace.LevelsFull || r.Alpha != colorspace.AlphaNone {
		t.Errorf("dst repr = %v/%v/%v, want rgb/full/none", r.System, r.Levels, r.Alpha)
	}

	// Explicit levels survive the matrix switch.
	cfg, err = Resolve(&Options{OutFmt: Ptr("YUV420P10"), DstLevels: Ptr("full")}, clip(vidrender.FormatRGBP8))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if r := cfg.Dst.Repr; r.System != colorspace.SystemBT709 || r.Levels != colorspace.LevelsFull || r.ColorDepth != 10 {
		t.Errorf("dst repr = %v/%v depth %d, want 709/full depth 10", r.System, r.Levels, r.ColorDepth)
	}
}

func TestResolveDestinationPreset(t *testing.T) {
	cfg, err := Resolve(&Options{DstCSP: Ptr("hdr10")}, clip(vidrender.FormatYUV420P8))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.Format != vidrender.FormatYUV420P10 {
		t.Errorf("Format = %v, want YUV420P10", cfg.Format)
	}
	if c := cfg.Dst.Color; c.Transfer != colorspace.TransferPQ || c.Primaries != colorspace.PrimariesBT2020 {
		t.Errorf("dst color = %v/%v, want pq/2020", c.Transfer, c.Primaries)
	}
	if cfg.Dst.Repr.SampleDepth != 16 {
		t.Errorf("dst sample depth = %d, want 16", cfg.Dst.Repr.SampleDepth)
	}
}

func TestResolvePresets(t *testing.T) {
	sigmoid := vidrender.DefaultSigmoidParams()
	deband := vidrender.DefaultDebandParams()
	dither := vidrender.DefaultDitherParams()
	peak := vidrender.DefaultPeakDetectParams()
	peakHQ := vidrender.HighQualityPeakDetectParams()
	cm := vidrender.DefaultColorMapParams()
	cmHQ := vidrender.HighQualityColorMapParams()

	tests := []struct {
		preset string
		want   vidrender.RenderParams
	}{
		{"fast", vidrender.RenderParams{
			Scalers:       vidrender.ScalerParams{Upscaler: "bilinear", Downscaler: "bilinear"},
			LinearScaling: true,
		}},
		{"default", vidrender.RenderParams{
			Scalers:       vidrender.ScalerParams{Upscaler: "spline36", Downscaler: "mitchell"},
			LinearScaling: true,
			Sigmoid:       &sigmoid,
			Dither:        &dither,
			PeakDetect:    &peak,
			ColorMap:      &cm,
		}},
		{"High_Quality", vidrender.RenderParams{
			Scalers:       vidrender.ScalerParams{Upscaler: "ewa_lanczossharp", Downscaler: "mitchell"},
			LinearScaling: true,
			Sigmoid:       &sigmoid,
			Deband:        &deband,
			Dither:        &dither,
			PeakDetect:    &peakHQ,
			ColorMap:      &cmHQ,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.preset, func(t *testing.T) {
			cfg, err := Resolve(&Options{Preset: Ptr(tt.preset)}, clip(vidrender.FormatYUV420P8))
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, cfg.Params); diff != "" {
				t.Errorf("Params mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveFeatureOverrides(t *testing.T) {
	yuv := clip(vidrender.FormatYUV420P8)

	t.Run("parameter enables feature", func(t *testing.T) {
		cfg, err := Resolve(&Options{DebandIterations: Ptr(4)}, yuv)
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		want := vidrender.DefaultDebandParams()
		want.Iterations = 4
		if diff := cmp.Diff(&want, cfg.Params.Deband); diff != "" {
			t.Errorf("Deband mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("false disables preset feature", func(t *testing.T) {
		cfg, err := Resolve(&Options{Preset: Ptr("default"), Dither: Ptr(false), PeakDetect: Ptr(false)}, yuv)
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if cfg.Params.Dither != nil || cfg.Params.PeakDetect != nil {
			t.Errorf("disabled features resolved: dither %+v peak %+v", cfg.Params.Dither, cfg.Params.PeakDetect)
		}
	})

	t.Run("override refines preset value", func(t *testing.T) {
		cfg, err := Resolve(&Options{Preset: Ptr("high_quality"), PeakSmoothingPeriod: Ptr(50.0)}, yuv)
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		want := vidrender.HighQualityPeakDetectParams()
		want.SmoothingPeriod = 50
		if diff := cmp.Diff(&want, cfg.Params.PeakDetect); diff != "" {
			t.Errorf("PeakDetect mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("gamma light scaling drops sigmoid", func(t *testing.T) {
		cfg, err := Resolve(&Options{Preset: Ptr("default"), LinearScaling: Ptr(false), SigmoidSlope: Ptr(10.0)}, yuv)
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if cfg.Params.LinearScaling || cfg.Params.Sigmoid != nil {
			t.Errorf("linear = %v, sigmoid = %+v", cfg.Params.LinearScaling, cfg.Params.Sigmoid)
		}
	})

	t.Run("color adjustment", func(t *testing.T) {
		cfg, err := Resolve(&Options{Brightness: Ptr(0.1), Hue: Ptr(3.0)}, yuv)
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		want := vidrender.NeutralColorAdjustment()
		want.Brightness = 0.1
		want.Hue = 3
		if diff := cmp.Diff(&want, cfg.Params.ColorAdjust); diff != "" {
			t.Errorf("ColorAdjust mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("scalers", func(t *testing.T) {
		cfg, err := Resolve(&Options{Upscaler: Ptr("ewa_robidoux"), PlaneDownscaler: Ptr("none"), AntiringingStrength: Ptr(0.5)}, yuv)
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		want := defaultScalers
		want.Upscaler = "ewa_robidoux"
		want.PlaneDownscaler = ""
		want.AntiRinging = 0.5
		if diff := cmp.Diff(want, cfg.Params.Scalers); diff != "" {
			t.Errorf("Scalers mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestResolveDeinterlace(t *testing.T) {
	tests := []struct {
		name  string
		opts  *Options
		field field.Mode
		want  *field.Params
	}{
		{"off", &Options{}, field.Auto, nil},
		{"spatial check only", &Options{SpatialCheck: Ptr(false)}, field.Auto, &field.Params{Algo: field.Yadif, SkipSpatialCheck: true}},
		{"field only", &Options{Field: Ptr(-2)}, field.DoubleRateAuto, &field.Params{Algo: field.Yadif}},
		{"algorithm", &Options{DeinterlaceAlgo: Ptr("bob"), Field: Ptr(0)}, field.Mode(0), &field.Params{Algo: field.Bob}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Resolve(tt.opts, clip(vidrender.FormatYUV420P8))
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if cfg.Field != tt.field {
				t.Errorf("Field = %v, want %v", cfg.Field, tt.field)
			}
			if diff := cmp.Diff(tt.want, cfg.Params.Deinterlace); diff != "" {
				t.Errorf("Deinterlace mismatch (-want +got):\n%s", diff)
			}
			wantSlots := 1
			if tt.want != nil {
				wantSlots = vidrender.CacheSize
			}
			if got := cfg.CacheSlots(); got != wantSlots {
				t.Errorf("CacheSlots() = %d, want %d", got, wantSlots)
			}
		})
	}
}

func TestResolveDovi(t *testing.T) {
	hdr := clip(vidrender.FormatYUV420P10)
	base := func() *Options {
		return &Options{SrcMatrix: Ptr("dovi"), SrcTRC: Ptr("pq"), DstCSP: Ptr("sdr")}
	}

	cfg, err := Resolve(base(), hdr)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !cfg.Dovi || cfg.Params.ColorMap == nil {
		t.Errorf("dovi = %v, color map = %+v; want both engaged", cfg.Dovi, cfg.Params.ColorMap)
	}

	o := base()
	o.DoviMetadata = Ptr(false)
	if cfg, err = Resolve(o, hdr); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.Dovi {
		t.Error("dovi_metadata: false did not disable RPU decoding")
	}
}

func TestResolveErrors(t *testing.T) {
	yuv := clip(vidrender.FormatYUV420P8)
	rgb := clip(vidrender.FormatRGBP8)

	tests := []struct {
		name   string
		opts   *Options
		src    vidrender.VideoInfo
		option string
	}{
		{"unknown preset", &Options{Preset: Ptr("ultra")}, yuv, "preset"},
		{"width too small", &Options{Width: Ptr(8)}, yuv, "width"},
		{"height too small", &Options{Height: Ptr(15)}, yuv, "height"},
		{"unknown src_csp", &Options{SrcCSP: Ptr("bogus")}, yuv, "src_csp"},
		{"rgb matrix on yuv", &Options{SrcMatrix: Ptr("rgb")}, yuv, "src_matrix"},
		{"yuv matrix on rgb", &Options{SrcMatrix: Ptr("709")}, rgb, "src_matrix"},
		{"ictcp without hdr", &Options{SrcMatrix: Ptr("2100pq")}, yuv, "src_matrix"},
		{"bad levels", &Options{SrcLevels: Ptr("studio")}, yuv, "src_levels"},
		{"negative src_min", &Options{SrcMin: Ptr(-1.0)}, yuv, "src_min"},
		{"src_max below src_min", &Options{SrcMax: Ptr(10.0), SrcMin: Ptr(20.0)}, yuv, "src_max"},
		{"dovi dst_csp", &Options{DstCSP: Ptr("dolbyvision")}, yuv, "dst_csp"},
		{"dovi dst_matrix", &Options{DstMatrix: Ptr("dovi")}, yuv, "dst_matrix"},
		{"dovi source without dst", &Options{SrcMatrix: Ptr("dovi"), SrcTRC: Ptr("pq")}, yuv, "dst_matrix"},
		{"out_fmt with dst_csp", &Options{OutFmt: Ptr("RGBP"), DstCSP: Ptr("srgb")}, yuv, "out_fmt"},
		{"unknown out_fmt", &Options{OutFmt: Ptr("NV12")}, yuv, "out_fmt"},
		{"matrix against out_fmt", &Options{OutFmt: Ptr("RGBP"), DstMatrix: Ptr("709")}, yuv, "dst_matrix"},
		{"matrix against source family", &Options{DstMatrix: Ptr("rgb")}, yuv, "dst_matrix"},
		{"alpha against out_fmt", &Options{OutFmt: Ptr("YUV420P8"), DstAlpha: Ptr("independent")}, yuv, "dst_alpha"},
		{"dovi_metadata without dovi", &Options{DoviMetadata: Ptr(true)}, yuv, "dovi_metadata"},
		{"unknown scaler", &Options{Upscaler: Ptr("lanczos9")}, yuv, "upscaler"},
		{"antiringing", &Options{AntiringingStrength: Ptr(1.5)}, yuv, "antiringing_strength"},
		{"sigmoid center", &Options{SigmoidCenter: Ptr(2.0)}, yuv, "sigmoid_center"},
		{"sigmoid slope", &Options{SigmoidSlope: Ptr(0.5)}, yuv, "sigmoid_slope"},
		{"deband iterations", &Options{DebandIterations: Ptr(17)}, yuv, "deband_iterations"},
		{"deband grain", &Options{DebandGrain: Ptr(1001.0)}, yuv, "deband_grain"},
		{"dither method", &Options{DitherMethod: Ptr("floyd")}, yuv, "dither_method"},
		{"color map preset", &Options{ColorMapPreset: Ptr("fast")}, yuv, "color_map_preset"},
		{"gamut mapping", &Options{GamutMapping: Ptr("squash")}, yuv, "gamut_mapping"},
		{"contrast recovery", &Options{ContrastRecovery: Ptr(2.5)}, yuv, "contrast_recovery"},
		{"contrast smoothness", &Options{ContrastSmoothness: Ptr(0.5)}, yuv, "contrast_smoothness"},
		{"peak percentile", &Options{PeakPercentile: Ptr(101.0)}, yuv, "peak_percentile"},
		{"black cutoff", &Options{BlackCutoff: Ptr(-1.0)}, yuv, "black_cutoff"},
		{"brightness", &Options{Brightness: Ptr(1.5)}, yuv, "brightness"},
		{"temperature", &Options{Temperature: Ptr(6.0)}, yuv, "temperature"},
		{"field", &Options{Field: Ptr(4)}, yuv, "field"},
		{"deinterlace algo", &Options{DeinterlaceAlgo: Ptr("nnedi3")}, yuv, "deinterlace_algo"},
		{"invalid source", &Options{}, vidrender.VideoInfo{Width: 16, Height: 16, NumFrames: 1}, "clip"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Resolve(tt.opts, tt.src)
			if err == nil {
				t.Fatalf("Resolve() = %+v, want error", cfg)
			}
			var cerr *Error
			if !errors.As(err, &cerr) {
				t.Fatalf("Resolve() error = %v, want *Error", err)
			}
			if cerr.Option != tt.option {
				t.Errorf("error option = %q, want %q (%v)", cerr.Option, tt.option, err)
			}
		})
	}
}

func TestResolveEmptyClip(t *testing.T) {
	src := clip(vidrender.FormatYUV420P8)
	src.NumFrames = 0
	_, err := Resolve(&Options{}, src)
	if err == nil {
		t.Fatal("Resolve() accepted a clip without frames")
	}
	var cerr *Error
	if errors.As(err, &cerr) {
		t.Errorf("frame count error reported as option %q", cerr.Option)
	}
}
