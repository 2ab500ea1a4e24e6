package colorspace

import "fmt"

// System is the YCbCr matrix (or RGB/XYZ) a frame is encoded with.
type System uint8

// Color systems.
const (
	SystemUnknown System = iota
	SystemBT601
	SystemBT709
	SystemSMPTE240M
	SystemBT2020NC
	SystemBT2020C
	SystemBT2100PQ
	SystemBT2100HLG
	SystemDolbyVision
	SystemYCgCo
	SystemYCgCoRe
	SystemYCgCoRo
	SystemRGB
	SystemXYZ
)

// IsRGB reports whether s stores RGB-like components without a YCbCr
// matrix.
func (s System) IsRGB() bool {
	return s == SystemRGB || s == SystemXYZ
}

// IsYCbCr reports whether s is a known matrix system.
func (s System) IsYCbCr() bool {
	return s != SystemUnknown && !s.IsRGB()
}

func (s System) String() string { return enumName(s, systemNames.Name, "System") }

// Transfer is the transfer function of a color space.
type Transfer uint8

// Transfer functions. Everything from TransferPQ on is an HDR transfer.
const (
	TransferUnknown Transfer = iota
	TransferBT1886
	TransferSRGB
	TransferLinear
	TransferGamma18
	TransferGamma20
	TransferGamma22
	TransferGamma24
	TransferGamma26
	TransferGamma28
	TransferProPhoto
	TransferST428
	TransferPQ
	TransferHLG
	TransferVLog
	TransferSLog1
	TransferSLog2
)

// IsHDR reports whether t is a high dynamic range transfer.
func (t Transfer) IsHDR() bool {
	return t >= TransferPQ
}

func (t Transfer) String() string { return enumName(t, transferNames.Name, "Transfer") }

// Primaries identifies a set of RGB primaries and white point.
type Primaries uint8

// Color primaries.
const (
	PrimariesUnknown Primaries = iota
	PrimariesBT601_525
	PrimariesBT601_625
	PrimariesBT709
	PrimariesBT470M
	PrimariesEBU3213
	PrimariesBT2020
	PrimariesApple
	PrimariesAdobe
	PrimariesProPhoto
	PrimariesCIE1931
	PrimariesDCIP3
	PrimariesDisplayP3
	PrimariesVGamut
	PrimariesSGamut
	PrimariesFilmC
	PrimariesACESAP0
	PrimariesACESAP1
)

// IsWideGamut reports whether p is wider than BT.709.
func (p Primaries) IsWideGamut() bool {
	switch p {
	case PrimariesUnknown, PrimariesBT601_525, PrimariesBT601_625,
		PrimariesBT709, PrimariesBT470M, PrimariesEBU3213:
		return false
	}
	return true
}

func (p Primaries) String() string { return enumName(p, primariesNames.Name, "Primaries") }

// Levels is the signal range.
type Levels uint8

// Signal ranges.
const (
	LevelsUnknown Levels = iota
	LevelsLimited
	LevelsFull
)

func (l Levels) String() string { return enumName(l, levelsNames.Name, "Levels") }

// ChromaLocation is the siting of subsampled chroma relative to luma.
type ChromaLocation uint8

// Chroma locations.
const (
	ChromaUnknown ChromaLocation = iota
	ChromaLeft
	ChromaCenter
	ChromaTopLeft
	ChromaTopCenter
	ChromaBottomLeft
	ChromaBottomCenter
)

func (c ChromaLocation) String() string { return enumName(c, chromaNames.Name, "ChromaLocation") }

// Offset returns the chroma sample position relative to the luma sample
// grid, in units of one luma sample.
func (c ChromaLocation) Offset() (x, y float32) {
	switch c {
	case ChromaLeft:
		return -0.5, 0
	case ChromaTopLeft:
		return -0.5, -0.5
	case ChromaTopCenter:
		return 0, -0.5
	case ChromaBottomLeft:
		return -0.5, 0.5
	case ChromaBottomCenter:
		return 0, 0.5
	}
	return 0, 0
}

// Alpha is the alpha plane interpretation.
type Alpha uint8

// Alpha modes.
const (
	AlphaUnknown Alpha = iota
	AlphaIndependent
	AlphaPremultiplied
	AlphaNone
)

func (a Alpha) String() string { return enumName(a, alphaNames.Name, "Alpha") }

func enumName[V ~uint8](v V, lookup func(V) (string, bool), typ string) string {
	if v == 0 {
		return "unknown"
	}
	if name, ok := lookup(v); ok {
		return name
	}
	return fmt.Sprintf("%s(%d)", typ, uint8(v))
}
