package dovi

// Fixed-point scale factors of the display management matrices.
const (
	yccToRGBScale  = 1 << 13
	rgbToLMSScale  = 1 << 14
	yccOffsetScale = 1 << 28

	// PQMax is the largest 12-bit PQ code value carried in DM data.
	PQMax = 4095
)

// ReshapeData is the decoded reshaping curve of one channel.
type ReshapeData struct {
	NumPivots   int
	Pivots      [MaxPivots]float32
	Method      [MaxSegments]MappingMethod
	PolyCoeffs  [MaxSegments][MaxPolyCoeffs]float32
	MMROrder    [MaxSegments]uint8
	MMRConstant [MaxSegments]float32
	MMRCoeffs   [MaxSegments][MaxMMROrder][MMRCoeffs]float32
}

// Metadata is the decoded Dolby Vision reshaping and color metadata of one
// frame, in the form the renderer consumes.
type Metadata struct {
	// NonlinearOffset is the YCbCr offset applied before Nonlinear.
	NonlinearOffset [3]float32
	// Nonlinear is the YCbCr to RGB matrix.
	Nonlinear [3][3]float32
	// Linear is the RGB to LMS matrix.
	Linear [3][3]float32
	Comp   [3]ReshapeData

	noUpdate bool
}

// IsNoUpdate reports whether m is the sentinel returned for an RPU that
// asks to reuse the previous one. Callers must keep their previous metadata.
func (m *Metadata) IsNoUpdate() bool {
	return m != nil && m.noUpdate
}

// FixedPoint recombines an integer part and a fraction of log2Denom bits.
// Every coefficient in the mapping data uses this encoding.
func FixedPoint(intPart int64, frac uint64, log2Denom uint64) float32 {
	scale := 1 / float32(uint64(1)<<log2Denom)
	return float32(intPart) + scale*float32(frac)
}

// Decode converts a parsed RPU into renderer metadata. It never fails:
// absent mapping or display management data leaves the corresponding
// fields zero.
func Decode(rpu *RPU, hdr *Header) *Metadata {
	m := &Metadata{}
	if hdr.UsePrevVDRRPU {
		m.noUpdate = true
		return m
	}

	if rpu.Mapping != nil {
		bits := hdr.BLBitDepthMinus8 + 8
		for c := range rpu.Mapping.Curves {
			decodeCurve(&rpu.Mapping.Curves[c], bits, hdr.CoefLog2Denom, &m.Comp[c])
		}
	}

	if hdr.VDRDMMetadataPresent && rpu.DM != nil {
		dm := rpu.DM
		for i := range 3 {
			m.NonlinearOffset[i] = float32(dm.YCCToRGBOffset[i]) / yccOffsetScale
		}
		for i := range 9 {
			m.Nonlinear[i/3][i%3] = float32(dm.YCCToRGB[i]) / yccToRGBScale
			m.Linear[i/3][i%3] = float32(dm.RGBToLMS[i]) / rgbToLMSScale
		}
	}
	return m
}

func decodeCurve(c *Curve, bits, denom uint64, out *ReshapeData) {
	maxVal := uint32(1)<<bits - 1
	n := min(len(c.Pivots), MaxPivots)
	out.NumPivots = n

	var pivot uint32
	for i := range n {
		pivot = min(pivot+uint32(c.Pivots[i]), maxVal)
		out.Pivots[i] = float32(pivot) / float32(maxVal)
	}

	for i := 0; i < n-1; i++ {
		out.Method[i] = c.Method
		switch {
		case c.Method == MappingPolynomial && i < len(c.Poly):
			p := &c.Poly[i]
			for k := uint64(0); k <= p.OrderMinus1+1 && k < MaxPolyCoeffs; k++ {
				out.PolyCoeffs[i][k] = FixedPoint(p.Int[k], p.Frac[k], denom)
			}
		case c.Method == MappingMMR && i < len(c.MMR):
			s := &c.MMR[i]
			out.MMRConstant[i] = FixedPoint(s.ConstInt, s.ConstFrac, denom)
			out.MMROrder[i] = min(s.OrderMinus1+1, MaxMMROrder)
			for j := range int(out.MMROrder[i]) {
				for k := range MMRCoeffs {
					out.MMRCoeffs[i][j][k] = FixedPoint(s.Int[j][k], s.Frac[j][k], denom)
				}
			}
		}
	}
}

// PQ returns the normalized level 1 statistics of the RPU, the per-frame
// brightness summary used for dynamic tone mapping.
func (r *RPU) PQ() (maxPQ, avgPQ float32, ok bool) {
	if r.DM == nil || r.DM.Level1 == nil {
		return 0, 0, false
	}
	l1 := r.DM.Level1
	return float32(l1.MaxPQ) / PQMax, float32(l1.AvgPQ) / PQMax, true
}
