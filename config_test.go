package vidrender

import (
	"testing"

	"github.com/gogpu/vidrender/colorspace"
	"github.com/gogpu/vidrender/field"
)

func TestConfigValidate(t *testing.T) {
	src := VideoInfo{Width: 4, Height: 4, Format: FormatYUV420P8, NumFrames: 10, FPSNum: 25, FPSDen: 1}

	tests := []struct {
		name    string
		mutate  func(c *Config, src *VideoInfo)
		wantErr bool
	}{
		{"valid", func(*Config, *VideoInfo) {}, false},
		{"zero width", func(c *Config, _ *VideoInfo) { c.Width = 0 }, true},
		{"unknown output format", func(c *Config, _ *VideoInfo) { c.Format = PixelFormat{Family: FamilyYUV, Bits: 9} }, true},
		{"unknown source format", func(_ *Config, s *VideoInfo) { s.Format = PixelFormat{} }, true},
		{"empty source", func(_ *Config, s *VideoInfo) { s.NumFrames = 0 }, true},
		{"rgb format with yuv matrix", func(c *Config, _ *VideoInfo) { c.Format = FormatRGBP8 }, true},
		{"yuv format with rgb matrix", func(c *Config, _ *VideoInfo) { c.Dst.Repr.System = colorspace.SystemRGB }, true},
		{"dovi without dovi matrix", func(c *Config, _ *VideoInfo) { c.Dovi = true }, true},
		{"dovi", func(c *Config, _ *VideoInfo) {
			c.Dovi = true
			c.Src.Repr.System = colorspace.SystemDolbyVision
		}, false},
		{"invalid field mode", func(c *Config, _ *VideoInfo) {
			deinterlaced(c, field.Mode(7))
		}, true},
		{"field mode ignored when progressive", func(c *Config, _ *VideoInfo) { c.Field = field.Mode(7) }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(FormatYUV420P8)
			info := src
			tt.mutate(cfg, &info)
			err := cfg.Validate(info)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigCacheSlots(t *testing.T) {
	cfg := testConfig(FormatYUV420P8)
	if got := cfg.CacheSlots(); got != 1 {
		t.Errorf("progressive CacheSlots() = %d, want 1", got)
	}
	deinterlaced(cfg, field.Auto)
	if got := cfg.CacheSlots(); got != CacheSize {
		t.Errorf("deinterlacing CacheSlots() = %d, want %d", got, CacheSize)
	}
}
