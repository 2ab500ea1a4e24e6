package colorspace

import (
	"fmt"

	"github.com/gogpu/vidrender/internal/names"
	"github.com/gogpu/vidrender/props"
)

// Property code tables. Each is declared once as a list of pairs; the
// table derives the enum->code and code->enum directions from it.
var (
	MatrixCodes = props.NewTable(
		props.Pair[System]{Value: SystemRGB, Code: 0},
		props.Pair[System]{Value: SystemXYZ, Code: 0},
		props.Pair[System]{Value: SystemBT709, Code: 1},
		props.Pair[System]{Value: SystemBT601, Code: 5},
		props.Pair[System]{Value: SystemBT601, Code: 6},
		props.Pair[System]{Value: SystemSMPTE240M, Code: 7},
		props.Pair[System]{Value: SystemYCgCo, Code: 8},
		props.Pair[System]{Value: SystemBT2020NC, Code: 9},
		props.Pair[System]{Value: SystemBT2020C, Code: 10},
		props.Pair[System]{Value: SystemBT2100PQ, Code: 14},
		props.Pair[System]{Value: SystemBT2100HLG, Code: 14},
		props.Pair[System]{Value: SystemYCgCoRe, Code: 16},
		props.Pair[System]{Value: SystemYCgCoRo, Code: 17},
	)

	TransferCodes = props.NewTable(
		props.Pair[Transfer]{Value: TransferBT1886, Code: 1},
		props.Pair[Transfer]{Value: TransferGamma22, Code: 4},
		props.Pair[Transfer]{Value: TransferGamma28, Code: 5},
		props.Pair[Transfer]{Value: TransferLinear, Code: 8},
		props.Pair[Transfer]{Value: TransferSRGB, Code: 13},
		props.Pair[Transfer]{Value: TransferPQ, Code: 16},
		props.Pair[Transfer]{Value: TransferST428, Code: 17},
		props.Pair[Transfer]{Value: TransferHLG, Code: 18},
		props.Pair[Transfer]{Value: TransferProPhoto, Code: 30},
	)

	PrimariesCodes = props.NewTable(
		props.Pair[Primaries]{Value: PrimariesBT709, Code: 1},
		props.Pair[Primaries]{Value: PrimariesBT470M, Code: 4},
		props.Pair[Primaries]{Value: PrimariesBT601_625, Code: 5},
		props.Pair[Primaries]{Value: PrimariesBT601_525, Code: 6},
		props.Pair[Primaries]{Value: PrimariesBT601_525, Code: 7},
		props.Pair[Primaries]{Value: PrimariesFilmC, Code: 8},
		props.Pair[Primaries]{Value: PrimariesBT2020, Code: 9},
		props.Pair[Primaries]{Value: PrimariesCIE1931, Code: 10},
		props.Pair[Primaries]{Value: PrimariesDCIP3, Code: 11},
		props.Pair[Primaries]{Value: PrimariesDisplayP3, Code: 12},
		props.Pair[Primaries]{Value: PrimariesEBU3213, Code: 22},
		props.Pair[Primaries]{Value: PrimariesProPhoto, Code: 30},
	)

	LevelsCodes = props.NewTable(
		props.Pair[Levels]{Value: LevelsFull, Code: 0},
		props.Pair[Levels]{Value: LevelsLimited, Code: 1},
	)

	ChromaCodes = props.NewTable(
		props.Pair[ChromaLocation]{Value: ChromaLeft, Code: 0},
		props.Pair[ChromaLocation]{Value: ChromaCenter, Code: 1},
		props.Pair[ChromaLocation]{Value: ChromaTopLeft, Code: 2},
		props.Pair[ChromaLocation]{Value: ChromaTopCenter, Code: 3},
		props.Pair[ChromaLocation]{Value: ChromaBottomLeft, Code: 4},
		props.Pair[ChromaLocation]{Value: ChromaBottomCenter, Code: 5},
	)
)

type sys = names.Entry[System]

var systemNames = names.NewTable(
	sys{Name: "601", Value: SystemBT601},
	sys{Name: "bt601", Value: SystemBT601},
	sys{Name: "smpte170m", Value: SystemBT601},
	sys{Name: "709", Value: SystemBT709},
	sys{Name: "bt709", Value: SystemBT709},
	sys{Name: "240m", Value: SystemSMPTE240M},
	sys{Name: "smpte240m", Value: SystemSMPTE240M},
	sys{Name: "2020nc", Value: SystemBT2020NC},
	sys{Name: "2020", Value: SystemBT2020NC},
	sys{Name: "bt2020", Value: SystemBT2020NC},
	sys{Name: "bt2020nc", Value: SystemBT2020NC},
	sys{Name: "2020c", Value: SystemBT2020C},
	sys{Name: "bt2020c", Value: SystemBT2020C},
	sys{Name: "2100pq", Value: SystemBT2100PQ},
	sys{Name: "bt2100pq", Value: SystemBT2100PQ},
	sys{Name: "ictcp-pq", Value: SystemBT2100PQ},
	sys{Name: "2100hlg", Value: SystemBT2100HLG},
	sys{Name: "bt2100hlg", Value: SystemBT2100HLG},
	sys{Name: "ictcp-hlg", Value: SystemBT2100HLG},
	sys{Name: "dovi", Value: SystemDolbyVision},
	sys{Name: "dolbyvision", Value: SystemDolbyVision},
	sys{Name: "ycgco", Value: SystemYCgCo},
	sys{Name: "ycgco-re", Value: SystemYCgCoRe},
	sys{Name: "ycgco-ro", Value: SystemYCgCoRo},
	sys{Name: "rgb", Value: SystemRGB},
	sys{Name: "xyz", Value: SystemXYZ},
)

type trc = names.Entry[Transfer]

var transferNames = names.NewTable(
	trc{Name: "1886", Value: TransferBT1886},
	trc{Name: "bt1886", Value: TransferBT1886},
	trc{Name: "srgb", Value: TransferSRGB},
	trc{Name: "linear", Value: TransferLinear},
	trc{Name: "gamma1.8", Value: TransferGamma18},
	trc{Name: "gamma2.0", Value: TransferGamma20},
	trc{Name: "gamma2.2", Value: TransferGamma22},
	trc{Name: "gamma2.4", Value: TransferGamma24},
	trc{Name: "gamma2.6", Value: TransferGamma26},
	trc{Name: "gamma2.8", Value: TransferGamma28},
	trc{Name: "prophoto", Value: TransferProPhoto},
	trc{Name: "st428", Value: TransferST428},
	trc{Name: "pq", Value: TransferPQ},
	trc{Name: "st2084", Value: TransferPQ},
	trc{Name: "hlg", Value: TransferHLG},
	trc{Name: "arib-std-b67", Value: TransferHLG},
	trc{Name: "vlog", Value: TransferVLog},
	trc{Name: "v-log", Value: TransferVLog},
	trc{Name: "slog1", Value: TransferSLog1},
	trc{Name: "s-log1", Value: TransferSLog1},
	trc{Name: "slog2", Value: TransferSLog2},
	trc{Name: "s-log2", Value: TransferSLog2},
	trc{Name: "709", Value: TransferBT1886},
	trc{Name: "bt709", Value: TransferBT1886},
)

type prim = names.Entry[Primaries]

var primariesNames = names.NewTable(
	prim{Name: "601-525", Value: PrimariesBT601_525},
	prim{Name: "ntsc", Value: PrimariesBT601_525},
	prim{Name: "bt601-525", Value: PrimariesBT601_525},
	prim{Name: "smpte-c", Value: PrimariesBT601_525},
	prim{Name: "601-625", Value: PrimariesBT601_625},
	prim{Name: "pal", Value: PrimariesBT601_625},
	prim{Name: "secam", Value: PrimariesBT601_625},
	prim{Name: "bt601-625", Value: PrimariesBT601_625},
	prim{Name: "709", Value: PrimariesBT709},
	prim{Name: "bt709", Value: PrimariesBT709},
	prim{Name: "srgb", Value: PrimariesBT709},
	prim{Name: "470m", Value: PrimariesBT470M},
	prim{Name: "bt470m", Value: PrimariesBT470M},
	prim{Name: "ebu3213", Value: PrimariesEBU3213},
	prim{Name: "2020", Value: PrimariesBT2020},
	prim{Name: "bt2020", Value: PrimariesBT2020},
	prim{Name: "apple", Value: PrimariesApple},
	prim{Name: "adobe", Value: PrimariesAdobe},
	prim{Name: "prophoto", Value: PrimariesProPhoto},
	prim{Name: "cie1931", Value: PrimariesCIE1931},
	prim{Name: "dci-p3", Value: PrimariesDCIP3},
	prim{Name: "p3", Value: PrimariesDCIP3},
	prim{Name: "display-p3", Value: PrimariesDisplayP3},
	prim{Name: "p3-d65", Value: PrimariesDisplayP3},
	prim{Name: "v-gamut", Value: PrimariesVGamut},
	prim{Name: "vgamut", Value: PrimariesVGamut},
	prim{Name: "s-gamut", Value: PrimariesSGamut},
	prim{Name: "sgamut", Value: PrimariesSGamut},
	prim{Name: "film-c", Value: PrimariesFilmC},
	prim{Name: "film", Value: PrimariesFilmC},
	prim{Name: "aces-ap0", Value: PrimariesACESAP0},
	prim{Name: "aces", Value: PrimariesACESAP0},
	prim{Name: "ap0", Value: PrimariesACESAP0},
	prim{Name: "aces-ap1", Value: PrimariesACESAP1},
	prim{Name: "ap1", Value: PrimariesACESAP1},
)

var levelsNames = names.NewTable(
	names.Entry[Levels]{Name: "limited", Value: LevelsLimited},
	names.Entry[Levels]{Name: "tv", Value: LevelsLimited},
	names.Entry[Levels]{Name: "full", Value: LevelsFull},
	names.Entry[Levels]{Name: "pc", Value: LevelsFull},
)

var chromaNames = names.NewTable(
	names.Entry[ChromaLocation]{Name: "left", Value: ChromaLeft},
	names.Entry[ChromaLocation]{Name: "center", Value: ChromaCenter},
	names.Entry[ChromaLocation]{Name: "top_left", Value: ChromaTopLeft},
	names.Entry[ChromaLocation]{Name: "top_center", Value: ChromaTopCenter},
	names.Entry[ChromaLocation]{Name: "bottom_left", Value: ChromaBottomLeft},
	names.Entry[ChromaLocation]{Name: "bottom_center", Value: ChromaBottomCenter},
)

var alphaNames = names.NewTable(
	names.Entry[Alpha]{Name: "independent", Value: AlphaIndependent},
	names.Entry[Alpha]{Name: "premultiplied", Value: AlphaPremultiplied},
	names.Entry[Alpha]{Name: "none", Value: AlphaNone},
)

func parse[V comparable](t *names.Table[V], kind, s string) (V, error) {
	if v, ok := t.Lookup(s); ok {
		return v, nil
	}
	var zero V
	return zero, fmt.Errorf("unknown %s %q", kind, s)
}

// ParseSystem parses a matrix name such as "709" or "bt2020nc".
func ParseSystem(s string) (System, error) { return parse(systemNames, "matrix", s) }

// ParseTransfer parses a transfer name such as "pq" or "gamma2.2".
func ParseTransfer(s string) (Transfer, error) { return parse(transferNames, "transfer", s) }

// ParsePrimaries parses a primaries name such as "bt2020" or "display-p3".
func ParsePrimaries(s string) (Primaries, error) { return parse(primariesNames, "primaries", s) }

// ParseLevels parses "limited"/"tv" or "full"/"pc".
func ParseLevels(s string) (Levels, error) { return parse(levelsNames, "levels", s) }

// ParseChromaLocation parses a chroma siting name such as "top_left".
func ParseChromaLocation(s string) (ChromaLocation, error) {
	return parse(chromaNames, "chroma location", s)
}

// ParseAlpha parses an alpha mode name.
func ParseAlpha(s string) (Alpha, error) { return parse(alphaNames, "alpha mode", s) }
