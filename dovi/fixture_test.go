package dovi

import "testing"

// encodeRPU encodes rpu or fails the test.
func encodeRPU(t *testing.T, rpu *RPU) []byte {
	t.Helper()
	data, err := Encode(rpu)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return data
}

// profile8RPU returns a single-layer RPU with polynomial curves and DM data.
func profile8RPU() *RPU {
	poly := func(i0, i1 int64, f0, f1 uint64) PolySegment {
		return PolySegment{OrderMinus1: 0, Int: [3]int64{i0, i1}, Frac: [3]uint64{f0, f1}}
	}
	curve := Curve{
		Pivots: []uint16{0, 400, 623},
		Method: MappingPolynomial,
		Poly:   []PolySegment{poly(0, 1, 0, 0), poly(-1, 2, 1 << 22, 3 << 21)},
	}
	return &RPU{
		Header: Header{
			RPUType:                   2,
			RPUFormat:                 18,
			VDRRPUProfile:             1,
			CoefLog2Denom:             23,
			BLBitDepthMinus8:          2,
			ELBitDepthMinus8:          2,
			VDRBitDepthMinus8:         4,
			ELSpatialResamplingFilter: false,
			DisableResidual:           true,
			VDRDMMetadataPresent:      true,
		},
		Mapping: &Mapping{
			NumXPartitionsMinus1: 0,
			Curves:               [3]Curve{curve, curve, curve},
		},
		DM: &DMData{
			YCCToRGB:       [9]int16{9575, 0, 14742, 9575, -1754, -4383, 9575, 17372, 0},
			YCCToRGBOffset: [3]uint32{1 << 27, 1 << 29, 1 << 29},
			RGBToLMS:       [9]int16{7222, 8771, 390, 2654, 12430, 1300, 0, 422, 15962},
			SignalEOTF:     65535,
			SignalBitDepth: 12,
			SourceMinPQ:    62,
			SourceMaxPQ:    3079,
			SourceDiagonal: 42,
			Level1:         &Level1{MinPQ: 0, MaxPQ: 2081, AvgPQ: 1229},
		},
	}
}
