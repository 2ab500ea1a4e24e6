package colorspace

import "testing"

func TestParseNames(t *testing.T) {
	if v, err := ParseSystem("BT2020NC"); err != nil || v != SystemBT2020NC {
		t.Errorf("ParseSystem(BT2020NC) = %v, %v", v, err)
	}
	if v, err := ParseTransfer(" ST2084 "); err != nil || v != TransferPQ {
		t.Errorf("ParseTransfer(ST2084) = %v, %v", v, err)
	}
	if v, err := ParsePrimaries("P3-D65"); err != nil || v != PrimariesDisplayP3 {
		t.Errorf("ParsePrimaries(P3-D65) = %v, %v", v, err)
	}
	if v, err := ParseLevels("pc"); err != nil || v != LevelsFull {
		t.Errorf("ParseLevels(pc) = %v, %v", v, err)
	}
	if v, err := ParseChromaLocation("Top_Left"); err != nil || v != ChromaTopLeft {
		t.Errorf("ParseChromaLocation(Top_Left) = %v, %v", v, err)
	}
	if v, err := ParseAlpha("premultiplied"); err != nil || v != AlphaPremultiplied {
		t.Errorf("ParseAlpha(premultiplied) = %v, %v", v, err)
	}
	if _, err := ParseTransfer("gamma9"); err == nil {
		t.Error("ParseTransfer(gamma9) should fail")
	}
}

func TestEnumStrings(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{SystemBT709.String(), "709"},
		{TransferPQ.String(), "pq"},
		{PrimariesBT601_525.String(), "601-525"},
		{LevelsLimited.String(), "limited"},
		{ChromaLeft.String(), "left"},
		{AlphaNone.String(), "none"},
		{TransferUnknown.String(), "unknown"},
		{Transfer(200).String(), "Transfer(200)"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("String() = %q, want %q", tt.got, tt.want)
		}
	}
}

func TestPropertyCodes(t *testing.T) {
	// Several systems share a code; decoding picks the first listed.
	if v, _ := MatrixCodes.Value(14); v != SystemBT2100PQ {
		t.Errorf("matrix 14 = %v, want 2100pq", v)
	}
	if v, _ := MatrixCodes.Value(0); v != SystemRGB {
		t.Errorf("matrix 0 = %v, want rgb", v)
	}
	if c, _ := MatrixCodes.Code(SystemBT601); c != 5 {
		t.Errorf("code(601) = %d, want 5", c)
	}
	if c, _ := PrimariesCodes.Code(PrimariesBT601_525); c != 6 {
		t.Errorf("code(601-525) = %d, want 6", c)
	}
	if _, ok := MatrixCodes.Code(SystemDolbyVision); ok {
		t.Error("Dolby Vision has no matrix code")
	}

	// No color table maps the unspecified code.
	if _, ok := MatrixCodes.Value(2); ok {
		t.Error("matrix table maps code 2")
	}
	if _, ok := TransferCodes.Value(2); ok {
		t.Error("transfer table maps code 2")
	}
	if _, ok := PrimariesCodes.Value(2); ok {
		t.Error("primaries table maps code 2")
	}
	if _, ok := LevelsCodes.Value(2); ok {
		t.Error("levels table maps code 2")
	}
}

func TestPresets(t *testing.T) {
	p, ok := LookupPreset("HDR10")
	if !ok {
		t.Fatal("hdr10 preset missing")
	}
	var d Description
	p.Apply(&d)
	if d.Color.Transfer != TransferPQ || d.Repr.System != SystemBT2020NC || d.Repr.Levels != LevelsLimited {
		t.Errorf("hdr10 applied = %+v", d)
	}
	if p.Format != "YUV420P10" {
		t.Errorf("hdr10 format = %q", p.Format)
	}
	if s, _ := LookupPreset("srgb"); s.System != SystemRGB || s.Levels != LevelsFull {
		t.Errorf("srgb preset = %+v", s)
	}
	if !IsDoviPreset("DolbyVision") || IsDoviPreset("hdr10") {
		t.Error("IsDoviPreset mismatch")
	}
	if _, ok := LookupPreset("bogus"); ok {
		t.Error("unknown preset resolved")
	}
}
