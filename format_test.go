package vidrender

import (
	"testing"

	"github.com/gogpu/vidrender/gpucore"
)

func TestParsePixelFormat(t *testing.T) {
	tests := []struct {
		name    string
		want    PixelFormat
		wantErr bool
	}{
		{"YUV420P8", FormatYUV420P8, false},
		{"yv12", FormatYUV420P8, false},
		{"YUV420P10", FormatYUV420P10, false},
		{"YUV444PS", FormatYUV444PS, false},
		{"RGBP", FormatRGBP8, false},
		{"RGBP16", PixelFormat{Family: FamilyRGB, Bits: 16}, false},
		{"RGBAP10", PixelFormat{Family: FamilyRGB, Bits: 10, Alpha: true}, false},
		{"YUVA422P12", PixelFormat{Family: FamilyYUV, Bits: 12, SubW: 1, Alpha: true}, false},
		{"Y8", FormatGray8, false},
		{"YUY2", PixelFormat{}, true},
		{"", PixelFormat{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePixelFormat(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePixelFormat(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParsePixelFormat(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestPixelFormatString(t *testing.T) {
	// Aliases parse but the canonical name prints.
	if got := FormatYUV420P8.String(); got != "YUV420P8" {
		t.Errorf("String() = %q, want YUV420P8", got)
	}
	if got := FormatRGBP8.String(); got != "RGBP" {
		t.Errorf("String() = %q, want RGBP", got)
	}
}

func TestPixelFormatPlanes(t *testing.T) {
	tests := []struct {
		format PixelFormat
		planes int
		sizes  [][2]int
		tex    gpucore.TextureFormat
	}{
		{FormatYUV420P8, 3, [][2]int{{8, 6}, {4, 3}, {4, 3}}, gpucore.R8Unorm},
		{FormatYUV420P10, 3, [][2]int{{8, 6}, {4, 3}, {4, 3}}, gpucore.R16Unorm},
		{FormatYUV444PS, 3, [][2]int{{8, 6}, {8, 6}, {8, 6}}, gpucore.R32Float},
		{FormatGray8, 1, [][2]int{{8, 6}}, gpucore.R8Unorm},
		{PixelFormat{Family: FamilyRGB, Bits: 8, Alpha: true}, 4, [][2]int{{8, 6}, {8, 6}, {8, 6}, {8, 6}}, gpucore.R8Unorm},
	}
	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			if got := tt.format.NumPlanes(); got != tt.planes {
				t.Fatalf("NumPlanes() = %d, want %d", got, tt.planes)
			}
			for i, want := range tt.sizes {
				w, h := tt.format.PlaneSize(i, 8, 6)
				if w != want[0] || h != want[1] {
					t.Errorf("PlaneSize(%d) = %dx%d, want %dx%d", i, w, h, want[0], want[1])
				}
			}
			tf, err := tt.format.TextureFormat()
			if err != nil || tf != tt.tex {
				t.Errorf("TextureFormat() = %v, %v, want %v", tf, err, tt.tex)
			}
		})
	}
}

func TestPixelFormatChroma(t *testing.T) {
	if FormatRGBP8.IsChroma(1) {
		t.Error("RGB plane 1 reported as chroma")
	}
	if !FormatYUV444PS.IsChroma(2) || FormatYUV444PS.IsChroma(0) {
		t.Error("YUV chroma planes misreported")
	}
	yuva := PixelFormat{Family: FamilyYUV, Bits: 8, Alpha: true}
	if yuva.IsChroma(3) {
		t.Error("alpha plane reported as chroma")
	}
}

func TestNewHostFrameValidates(t *testing.T) {
	f := NewHostFrame(FormatYUV420P10, 8, 6)
	if err := f.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if f.Planes[1].Stride != 8 {
		t.Errorf("chroma stride = %d, want 8", f.Planes[1].Stride)
	}
	f.Planes = f.Planes[:2]
	if err := f.Validate(); err == nil {
		t.Error("Validate() accepted a frame with a missing plane")
	}
}
