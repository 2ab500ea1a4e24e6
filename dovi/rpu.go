package dovi

import "fmt"

// Syntax limits of the mapping data.
const (
	MaxPivots     = 9
	MaxSegments   = MaxPivots - 1
	MaxPolyCoeffs = 3
	MaxMMROrder   = 3
	MMRCoeffs     = 7
)

// MappingMethod selects how one curve segment is reshaped.
type MappingMethod uint8

// Mapping methods.
const (
	MappingPolynomial MappingMethod = 0
	MappingMMR        MappingMethod = 1
)

// String returns the method name.
func (m MappingMethod) String() string {
	switch m {
	case MappingPolynomial:
		return "polynomial"
	case MappingMMR:
		return "mmr"
	default:
		return fmt.Sprintf("MappingMethod(%d)", uint8(m))
	}
}

// Header is the RPU data header.
type Header struct {
	RPUType       uint8
	RPUFormat     uint16
	VDRRPUProfile uint8
	VDRRPULevel   uint8

	VDRSeqInfoPresent              bool
	ChromaResamplingExplicitFilter bool
	CoefDataType                   uint8
	CoefLog2Denom                  uint64
	VDRRPUNormalizedIdc            uint8
	BLVideoFullRange               bool
	BLBitDepthMinus8               uint64
	ELBitDepthMinus8               uint64
	VDRBitDepthMinus8              uint64
	SpatialResamplingFilter        bool
	ELSpatialResamplingFilter      bool
	DisableResidual                bool

	VDRDMMetadataPresent bool
	UsePrevVDRRPU        bool
	PrevVDRRPUID         uint64
}

// GuessedProfile infers the Dolby Vision profile from header flags.
// It returns 0 when the profile cannot be determined.
func (h *Header) GuessedProfile() int {
	switch h.VDRRPUProfile {
	case 0:
		if h.BLVideoFullRange {
			return 5
		}
	case 1:
		if h.ELSpatialResamplingFilter && !h.DisableResidual {
			if h.VDRBitDepthMinus8 == 4 {
				return 7
			}
			return 4
		}
		return 8
	}
	return 0
}

// PolySegment holds the fixed-point polynomial coefficients of one segment.
type PolySegment struct {
	OrderMinus1 uint64
	Int         [MaxPolyCoeffs]int64
	Frac        [MaxPolyCoeffs]uint64
}

// MMRSegment holds the fixed-point multi-map regression coefficients of
// one segment.
type MMRSegment struct {
	OrderMinus1 uint8
	ConstInt    int64
	ConstFrac   uint64
	Int         [MaxMMROrder][MMRCoeffs]int64
	Frac        [MaxMMROrder][MMRCoeffs]uint64
}

// Curve is one channel's reshaping curve. Pivots are the transmitted
// delta-coded steps; the first entry is the absolute start.
type Curve struct {
	Pivots []uint16
	Method MappingMethod
	Poly   []PolySegment // one per segment when Method is MappingPolynomial
	MMR    []MMRSegment  // one per segment when Method is MappingMMR
}

// Segments returns the number of segments between pivots.
func (c *Curve) Segments() int {
	if len(c.Pivots) == 0 {
		return 0
	}
	return len(c.Pivots) - 1
}

// Mapping is the RPU reshaping data.
type Mapping struct {
	VDRRPUID               uint64
	MappingColorSpace      uint64
	MappingChromaFormatIdc uint64
	NLQMethodIdc           uint8
	NumXPartitionsMinus1   uint64
	NumYPartitionsMinus1   uint64
	Curves                 [3]Curve
}

// NLQ is the non-linear quantization data of dual-layer profiles.
type NLQ struct {
	Offset                     [3]uint64
	VDRInMaxInt                [3]uint64
	VDRInMax                   [3]uint64
	LinearDeadzoneSlopeInt     [3]uint64
	LinearDeadzoneSlope        [3]uint64
	LinearDeadzoneThresholdInt [3]uint64
	LinearDeadzoneThreshold    [3]uint64
}

// Level1 is the per-frame brightness summary extension block.
type Level1 struct {
	MinPQ uint16
	MaxPQ uint16
	AvgPQ uint16
}

// DMData is the VDR display management data.
type DMData struct {
	AffectedDMMetadataID uint64
	CurrentDMMetadataID  uint64
	SceneRefresh         uint64

	YCCToRGB       [9]int16
	YCCToRGBOffset [3]uint32
	RGBToLMS       [9]int16

	SignalEOTF         uint16
	SignalEOTFParam0   uint16
	SignalEOTFParam1   uint16
	SignalEOTFParam2   uint32
	SignalBitDepth     uint8
	SignalColorSpace   uint8
	SignalChromaFormat uint8
	SignalFullRange    uint8

	SourceMinPQ    uint16
	SourceMaxPQ    uint16
	SourceDiagonal uint16

	// Level1 is nil when the RPU carries no level 1 block.
	Level1 *Level1

	// ExtLevels lists the level of every extension block in order.
	ExtLevels []uint8
}

// RPU is a parsed reference processing unit. Mapping and NLQ are nil when
// the header signals reuse of the previous RPU; DM is nil when no display
// management data is present.
type RPU struct {
	Header  Header
	Mapping *Mapping
	NLQ     *NLQ
	DM      *DMData
}

// Parse parses an RPU from an UNSPEC62 NAL unit or a bare payload that
// starts with the 0x19 prefix. An optional Annex B start code is accepted.
func Parse(nalu []byte) (*RPU, error) {
	body, err := unwrap(nalu)
	if err != nil {
		return nil, err
	}
	r := newBitReader(body)
	rpu := &RPU{}
	h := &rpu.Header

	if err := h.parse(r); err != nil {
		return nil, err
	}

	if !h.UsePrevVDRRPU {
		m, err := parseMapping(r, h)
		if err != nil {
			return nil, err
		}
		rpu.Mapping = m

		if h.hasNLQ() {
			nlq, err := parseNLQ(r, h)
			if err != nil {
				return nil, err
			}
			rpu.NLQ = nlq
		}
	}

	if h.VDRDMMetadataPresent {
		dm, err := parseDMData(r)
		if err != nil {
			return nil, err
		}
		rpu.DM = dm
	}
	return rpu, nil
}

func (h *Header) hasNLQ() bool {
	return h.RPUFormat&0x700 == 0 && !h.DisableResidual
}

func (h *Header) parse(r *bitReader) error {
	h.RPUType = uint8(r.bits(6))
	h.RPUFormat = uint16(r.bits(11))
	if err := r.err(); err != nil {
		return err
	}
	if h.RPUType != 2 {
		return fmt.Errorf("%w: rpu_type %d", ErrUnsupported, h.RPUType)
	}

	h.VDRRPUProfile = uint8(r.bits(4))
	h.VDRRPULevel = uint8(r.bits(4))
	h.VDRSeqInfoPresent = r.flag()
	if err := r.err(); err != nil {
		return err
	}
	if !h.VDRSeqInfoPresent {
		return fmt.Errorf("%w: missing sequence info", ErrUnsupported)
	}

	h.ChromaResamplingExplicitFilter = r.flag()
	h.CoefDataType = uint8(r.bits(2))
	if h.CoefDataType != 0 {
		return fmt.Errorf("%w: coefficient_data_type %d", ErrUnsupported, h.CoefDataType)
	}
	h.CoefLog2Denom = r.ue()
	h.VDRRPUNormalizedIdc = uint8(r.bits(2))
	h.BLVideoFullRange = r.flag()

	if h.RPUFormat&0x700 != 0 {
		return fmt.Errorf("%w: rpu_format 0x%03x", ErrUnsupported, h.RPUFormat)
	}
	h.BLBitDepthMinus8 = r.ue()
	h.ELBitDepthMinus8 = r.ue()
	h.VDRBitDepthMinus8 = r.ue()
	h.SpatialResamplingFilter = r.flag()
	r.skip(3) // reserved_zero_3bits
	h.ELSpatialResamplingFilter = r.flag()
	h.DisableResidual = r.flag()

	h.VDRDMMetadataPresent = r.flag()
	h.UsePrevVDRRPU = r.flag()
	if h.UsePrevVDRRPU {
		h.PrevVDRRPUID = r.ue()
	}
	if err := r.err(); err != nil {
		return err
	}

	switch {
	case h.CoefLog2Denom > 32:
		return fmt.Errorf("%w: coefficient_log2_denom %d", ErrMalformed, h.CoefLog2Denom)
	case h.BLBitDepthMinus8 > 8, h.ELBitDepthMinus8 > 8, h.VDRBitDepthMinus8 > 8:
		return fmt.Errorf("%w: bit depth out of range", ErrMalformed)
	}
	return nil
}

func parseMapping(r *bitReader, h *Header) (*Mapping, error) {
	m := &Mapping{}
	m.VDRRPUID = r.ue()
	m.MappingColorSpace = r.ue()
	m.MappingChromaFormatIdc = r.ue()

	blBits := int(h.BLBitDepthMinus8 + 8)
	maxPivot := uint64(1)<<uint(blBits) - 1
	for c := range m.Curves {
		n := r.ue() + 2
		if err := r.err(); err != nil {
			return nil, err
		}
		if n > MaxPivots {
			return nil, fmt.Errorf("%w: %d pivots in component %d", ErrMalformed, n, c)
		}
		pivots := make([]uint16, n)
		var sum uint64
		for i := range pivots {
			v := r.bits(blBits)
			sum += v
			pivots[i] = uint16(v)
		}
		if err := r.err(); err != nil {
			return nil, err
		}
		if sum > maxPivot {
			return nil, fmt.Errorf("%w: pivots of component %d exceed %d", ErrMalformed, c, maxPivot)
		}
		m.Curves[c].Pivots = pivots
	}

	if h.hasNLQ() {
		m.NLQMethodIdc = uint8(r.bits(3))
	}
	m.NumXPartitionsMinus1 = r.ue()
	m.NumYPartitionsMinus1 = r.ue()
	if err := r.err(); err != nil {
		return nil, err
	}

	denom := int(h.CoefLog2Denom)
	for c := range m.Curves {
		if err := parseCurve(r, &m.Curves[c], denom); err != nil {
			return nil, fmt.Errorf("component %d: %w", c, err)
		}
	}
	return m, nil
}

func parseCurve(r *bitReader, c *Curve, denom int) error {
	for seg := range c.Segments() {
		method := MappingMethod(r.ue())
		if err := r.err(); err != nil {
			return err
		}
		if seg == 0 {
			c.Method = method
		} else if method != c.Method {
			return fmt.Errorf("%w: mixed mapping methods", ErrUnsupported)
		}

		switch method {
		case MappingPolynomial:
			var p PolySegment
			p.OrderMinus1 = r.ue()
			if err := r.err(); err != nil {
				return err
			}
			if p.OrderMinus1 > MaxPolyCoeffs-2 {
				return fmt.Errorf("%w: polynomial order %d", ErrMalformed, p.OrderMinus1+1)
			}
			if p.OrderMinus1 == 0 && r.flag() {
				return fmt.Errorf("%w: linear interpolation segments", ErrUnsupported)
			}
			for k := uint64(0); k <= p.OrderMinus1+1; k++ {
				p.Int[k] = r.se()
				p.Frac[k] = r.bits(denom)
			}
			c.Poly = append(c.Poly, p)

		case MappingMMR:
			var s MMRSegment
			s.OrderMinus1 = uint8(r.bits(2))
			if s.OrderMinus1 > MaxMMROrder-1 {
				return fmt.Errorf("%w: mmr order %d", ErrMalformed, s.OrderMinus1+1)
			}
			s.ConstInt = r.se()
			s.ConstFrac = r.bits(denom)
			for j := 0; j <= int(s.OrderMinus1); j++ {
				for k := range MMRCoeffs {
					s.Int[j][k] = r.se()
					s.Frac[j][k] = r.bits(denom)
				}
			}
			c.MMR = append(c.MMR, s)

		default:
			return fmt.Errorf("%w: mapping_idc %d", ErrMalformed, method)
		}
		if err := r.err(); err != nil {
			return err
		}
	}
	return nil
}

func parseNLQ(r *bitReader, h *Header) (*NLQ, error) {
	elBits := int(h.ELBitDepthMinus8 + 8)
	denom := int(h.CoefLog2Denom)
	n := &NLQ{}
	for c := range 3 {
		n.Offset[c] = r.bits(elBits)
		n.VDRInMaxInt[c] = r.ue()
		n.VDRInMax[c] = r.bits(denom)
		n.LinearDeadzoneSlopeInt[c] = r.ue()
		n.LinearDeadzoneSlope[c] = r.bits(denom)
		n.LinearDeadzoneThresholdInt[c] = r.ue()
		n.LinearDeadzoneThreshold[c] = r.bits(denom)
	}
	if err := r.err(); err != nil {
		return nil, err
	}
	return n, nil
}

func parseDMData(r *bitReader) (*DMData, error) {
	d := &DMData{}
	d.AffectedDMMetadataID = r.ue()
	d.CurrentDMMetadataID = r.ue()
	d.SceneRefresh = r.ue()
	for i := range d.YCCToRGB {
		d.YCCToRGB[i] = int16(r.bits(16))
	}
	for i := range d.YCCToRGBOffset {
		d.YCCToRGBOffset[i] = uint32(r.bits(32))
	}
	for i := range d.RGBToLMS {
		d.RGBToLMS[i] = int16(r.bits(16))
	}
	d.SignalEOTF = uint16(r.bits(16))
	d.SignalEOTFParam0 = uint16(r.bits(16))
	d.SignalEOTFParam1 = uint16(r.bits(16))
	d.SignalEOTFParam2 = uint32(r.bits(32))
	d.SignalBitDepth = uint8(r.bits(5))
	d.SignalColorSpace = uint8(r.bits(2))
	d.SignalChromaFormat = uint8(r.bits(2))
	d.SignalFullRange = uint8(r.bits(2))
	d.SourceMinPQ = uint16(r.bits(12))
	d.SourceMaxPQ = uint16(r.bits(12))
	d.SourceDiagonal = uint16(r.bits(10))

	numExt := r.ue()
	if err := r.err(); err != nil {
		return nil, err
	}
	if numExt > 0 {
		r.align()
	}
	for range numExt {
		length := r.ue()
		level := uint8(r.bits(8))
		if err := r.err(); err != nil {
			return nil, err
		}
		payload := int(length) * 8
		if level == 1 && payload >= 36 {
			d.Level1 = &Level1{
				MinPQ: uint16(r.bits(12)),
				MaxPQ: uint16(r.bits(12)),
				AvgPQ: uint16(r.bits(12)),
			}
			payload -= 36
		}
		r.skip(payload)
		if err := r.err(); err != nil {
			return nil, err
		}
		d.ExtLevels = append(d.ExtLevels, level)
	}
	if err := r.err(); err != nil {
		return nil, err
	}
	return d, nil
}
