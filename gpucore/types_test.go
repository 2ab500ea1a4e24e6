package gpucore

import (
	"errors"
	"testing"
)

func TestFormatFor(t *testing.T) {
	tests := []struct {
		size    int
		float   bool
		want    TextureFormat
		wantErr bool
	}{
		{1, false, R8Unorm, false},
		{2, false, R16Unorm, false},
		{4, true, R32Float, false},
		{2, true, TextureFormat{}, true},
		{4, false, TextureFormat{}, true},
		{3, false, TextureFormat{}, true},
	}
	for _, tt := range tests {
		got, err := FormatFor(tt.size, tt.float)
		if (err != nil) != tt.wantErr {
			t.Errorf("FormatFor(%d, %v) error = %v, wantErr %v", tt.size, tt.float, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("FormatFor(%d, %v) error = %v, want ErrUnsupportedFormat", tt.size, tt.float, err)
		}
		if got != tt.want {
			t.Errorf("FormatFor(%d, %v) = %v, want %v", tt.size, tt.float, got, tt.want)
		}
	}
}

func TestPlaneDataValidate(t *testing.T) {
	tests := []struct {
		name  string
		plane PlaneData
		ok    bool
	}{
		{"tight", PlaneData{Width: 4, Height: 2, Format: R8Unorm, Stride: 4, Pixels: make([]byte, 8)}, true},
		{"padded last row trimmed", PlaneData{Width: 4, Height: 2, Format: R16Unorm, Stride: 16, Pixels: make([]byte, 24)}, true},
		{"short buffer", PlaneData{Width: 4, Height: 2, Format: R16Unorm, Stride: 8, Pixels: make([]byte, 15)}, false},
		{"stride below row", PlaneData{Width: 4, Height: 1, Format: R32Float, Stride: 8, Pixels: make([]byte, 16)}, false},
		{"empty", PlaneData{Format: R8Unorm}, false},
		{"bad format", PlaneData{Width: 1, Height: 1, Stride: 1, Pixels: make([]byte, 1)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.plane.Validate()
			if (err == nil) != tt.ok {
				t.Errorf("Validate() = %v, want ok=%v", err, tt.ok)
			}
		})
	}
}

func TestTextureDescCompatible(t *testing.T) {
	a := TextureDesc{Label: "a", Width: 4, Height: 4, Format: R8Unorm, Renderable: true}
	b := a
	b.Label = "b"
	if !a.Compatible(b) {
		t.Error("labels should not affect compatibility")
	}
	b.Renderable = false
	if a.Compatible(b) {
		t.Error("usage change should break compatibility")
	}
}
