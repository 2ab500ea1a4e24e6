package colorspace

import "github.com/gogpu/vidrender/internal/names"

// Preset is a named combination of colorimetry and encoding, used for the
// src_csp and dst_csp options. Format is the pixel format implied for the
// output when the preset names the destination.
type Preset struct {
	Primaries Primaries
	Transfer  Transfer
	System    System
	Levels    Levels
	Format    string
}

// Apply writes the preset into d.
func (p Preset) Apply(d *Description) {
	d.Color.Primaries = p.Primaries
	d.Color.Transfer = p.Transfer
	d.Repr.System = p.System
	d.Repr.Levels = p.Levels
}

var (
	presetSDR       = Preset{PrimariesBT709, TransferBT1886, SystemBT709, LevelsLimited, "YV12"}
	presetNTSC      = Preset{PrimariesBT601_525, TransferBT1886, SystemBT601, LevelsLimited, "YV12"}
	presetPAL       = Preset{PrimariesBT601_625, TransferBT1886, SystemBT601, LevelsLimited, "YV12"}
	presetPQ        = Preset{PrimariesBT2020, TransferPQ, SystemBT2020NC, LevelsLimited, "YUV420P10"}
	presetHLG       = Preset{PrimariesBT2020, TransferHLG, SystemBT2020NC, LevelsLimited, "YUV420P10"}
	presetSRGB      = Preset{PrimariesBT709, TransferSRGB, SystemRGB, LevelsFull, "RGBP"}
	presetJPEG      = Preset{PrimariesBT709, TransferSRGB, SystemBT601, LevelsFull, "RGBP"}
	presetAdobe     = Preset{PrimariesAdobe, TransferGamma22, SystemRGB, LevelsFull, "YV12"}
	presetDCIP3     = Preset{PrimariesDCIP3, TransferGamma26, SystemRGB, LevelsFull, "YV12"}
	presetDisplayP3 = Preset{PrimariesDisplayP3, TransferSRGB, SystemRGB, LevelsFull, "RGBP"}
)

var presets = names.NewTable(
	names.Entry[Preset]{Name: "sdr", Value: presetSDR},
	names.Entry[Preset]{Name: "709", Value: presetSDR},
	names.Entry[Preset]{Name: "bt709", Value: presetSDR},
	names.Entry[Preset]{Name: "rec709", Value: presetSDR},
	names.Entry[Preset]{Name: "601_525", Value: presetNTSC},
	names.Entry[Preset]{Name: "ntsc", Value: presetNTSC},
	names.Entry[Preset]{Name: "601_625", Value: presetPAL},
	names.Entry[Preset]{Name: "pal", Value: presetPAL},
	names.Entry[Preset]{Name: "hdr10", Value: presetPQ},
	names.Entry[Preset]{Name: "pq", Value: presetPQ},
	names.Entry[Preset]{Name: "2020", Value: presetPQ},
	names.Entry[Preset]{Name: "bt2020", Value: presetPQ},
	names.Entry[Preset]{Name: "hlg", Value: presetHLG},
	names.Entry[Preset]{Name: "arib-std-b67", Value: presetHLG},
	names.Entry[Preset]{Name: "dovi", Value: presetPQ},
	names.Entry[Preset]{Name: "dolbyvision", Value: presetPQ},
	names.Entry[Preset]{Name: "srgb", Value: presetSRGB},
	names.Entry[Preset]{Name: "jpeg", Value: presetJPEG},
	names.Entry[Preset]{Name: "adobe", Value: presetAdobe},
	names.Entry[Preset]{Name: "adobergb", Value: presetAdobe},
	names.Entry[Preset]{Name: "p3", Value: presetDCIP3},
	names.Entry[Preset]{Name: "dci-p3", Value: presetDCIP3},
	names.Entry[Preset]{Name: "display-p3", Value: presetDisplayP3},
	names.Entry[Preset]{Name: "p3-d65", Value: presetDisplayP3},
)

// LookupPreset returns the preset registered under name.
func LookupPreset(name string) (Preset, bool) {
	return presets.Lookup(name)
}

// PresetNames lists every accepted preset spelling.
func PresetNames() []string {
	return presets.Names()
}

// IsDoviPreset reports whether name selects the Dolby Vision preset.
func IsDoviPreset(name string) bool {
	return names.Equal(name, "dovi") || names.Equal(name, "dolbyvision")
}
