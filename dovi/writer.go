package dovi

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/Eyevinn/mp4ff/bits"
)

// bitWriter packs the unescaped RPU body. The body is escaped only after
// its CRC has been computed.
type bitWriter struct {
	data []byte
	n    int // bits written
}

func (w *bitWriter) bits(v uint64, n int) {
	for i := n - 1; i >= 0; i-- {
		if w.n%8 == 0 {
			w.data = append(w.data, 0)
		}
		if v>>uint(i)&1 == 1 {
			w.data[len(w.data)-1] |= 1 << (7 - uint(w.n%8))
		}
		w.n++
	}
}

func (w *bitWriter) flag(b bool) {
	if b {
		w.bits(1, 1)
	} else {
		w.bits(0, 1)
	}
}

func (w *bitWriter) ue(v uint64) {
	v++
	n := 0
	for t := v; t > 1; t >>= 1 {
		n++
	}
	w.bits(0, n)
	w.bits(v, n+1)
}

func (w *bitWriter) se(v int64) {
	if v > 0 {
		w.ue(uint64(2*v - 1))
	} else {
		w.ue(uint64(-2 * v))
	}
}

func (w *bitWriter) align() {
	for w.n%8 != 0 {
		w.bits(0, 1)
	}
}

// Encode serializes rpu as an UNSPEC62 NAL unit with CRC trailer and
// emulation prevention. It is the inverse of Parse: tools that rewrite
// metadata (for example, replacing the level 1 block after re-analysis)
// parse the RPU, edit it and encode it back into the DolbyVisionRPU
// property. Only the level 1 extension block is written; other levels are
// dropped.
func Encode(rpu *RPU) ([]byte, error) {
	h := &rpu.Header
	switch {
	case h.RPUFormat&0x700 != 0 || h.CoefDataType != 0:
		return nil, fmt.Errorf("%w: cannot encode rpu_format 0x%03x", ErrUnsupported, h.RPUFormat)
	case !h.UsePrevVDRRPU && rpu.Mapping == nil:
		return nil, fmt.Errorf("%w: mapping data required", ErrMalformed)
	case !h.UsePrevVDRRPU && h.hasNLQ() && rpu.NLQ == nil:
		return nil, fmt.Errorf("%w: NLQ data required", ErrMalformed)
	case h.VDRDMMetadataPresent && rpu.DM == nil:
		return nil, fmt.Errorf("%w: DM data required", ErrMalformed)
	}

	w := &bitWriter{}
	w.bits(uint64(h.RPUType), 6)
	w.bits(uint64(h.RPUFormat), 11)
	w.bits(uint64(h.VDRRPUProfile), 4)
	w.bits(uint64(h.VDRRPULevel), 4)
	w.flag(true) // vdr_seq_info_present_flag
	w.flag(h.ChromaResamplingExplicitFilter)
	w.bits(uint64(h.CoefDataType), 2)
	w.ue(h.CoefLog2Denom)
	w.bits(uint64(h.VDRRPUNormalizedIdc), 2)
	w.flag(h.BLVideoFullRange)
	w.ue(h.BLBitDepthMinus8)
	w.ue(h.ELBitDepthMinus8)
	w.ue(h.VDRBitDepthMinus8)
	w.flag(h.SpatialResamplingFilter)
	w.bits(0, 3)
	w.flag(h.ELSpatialResamplingFilter)
	w.flag(h.DisableResidual)
	w.flag(h.VDRDMMetadataPresent)
	w.flag(h.UsePrevVDRRPU)

	denom := int(h.CoefLog2Denom)
	if h.UsePrevVDRRPU {
		w.ue(h.PrevVDRRPUID)
	} else {
		m := rpu.Mapping
		w.ue(m.VDRRPUID)
		w.ue(m.MappingColorSpace)
		w.ue(m.MappingChromaFormatIdc)
		for _, c := range m.Curves {
			w.ue(uint64(len(c.Pivots) - 2))
			for _, p := range c.Pivots {
				w.bits(uint64(p), int(h.BLBitDepthMinus8+8))
			}
		}
		if h.hasNLQ() {
			w.bits(uint64(m.NLQMethodIdc), 3)
		}
		w.ue(m.NumXPartitionsMinus1)
		w.ue(m.NumYPartitionsMinus1)
		for _, c := range m.Curves {
			for seg := range c.Segments() {
				w.ue(uint64(c.Method))
				if c.Method == MappingPolynomial {
					p := c.Poly[seg]
					w.ue(p.OrderMinus1)
					if p.OrderMinus1 == 0 {
						w.flag(false) // linear_interp_flag
					}
					for k := uint64(0); k <= p.OrderMinus1+1; k++ {
						w.se(p.Int[k])
						w.bits(p.Frac[k], denom)
					}
				} else {
					s := c.MMR[seg]
					w.bits(uint64(s.OrderMinus1), 2)
					w.se(s.ConstInt)
					w.bits(s.ConstFrac, denom)
					for j := 0; j <= int(s.OrderMinus1); j++ {
						for k := range MMRCoeffs {
							w.se(s.Int[j][k])
							w.bits(s.Frac[j][k], denom)
						}
					}
				}
			}
		}
		if h.hasNLQ() {
			n := rpu.NLQ
			for c := range 3 {
				w.bits(n.Offset[c], int(h.ELBitDepthMinus8+8))
				w.ue(n.VDRInMaxInt[c])
				w.bits(n.VDRInMax[c], denom)
				w.ue(n.LinearDeadzoneSlopeInt[c])
				w.bits(n.LinearDeadzoneSlope[c], denom)
				w.ue(n.LinearDeadzoneThresholdInt[c])
				w.bits(n.LinearDeadzoneThreshold[c], denom)
			}
		}
	}

	if h.VDRDMMetadataPresent {
		d := rpu.DM
		w.ue(d.AffectedDMMetadataID)
		w.ue(d.CurrentDMMetadataID)
		w.ue(d.SceneRefresh)
		for _, v := range d.YCCToRGB {
			w.bits(uint64(uint16(v)), 16)
		}
		for _, v := range d.YCCToRGBOffset {
			w.bits(uint64(v), 32)
		}
		for _, v := range d.RGBToLMS {
			w.bits(uint64(uint16(v)), 16)
		}
		w.bits(uint64(d.SignalEOTF), 16)
		w.bits(uint64(d.SignalEOTFParam0), 16)
		w.bits(uint64(d.SignalEOTFParam1), 16)
		w.bits(uint64(d.SignalEOTFParam2), 32)
		w.bits(uint64(d.SignalBitDepth), 5)
		w.bits(uint64(d.SignalColorSpace), 2)
		w.bits(uint64(d.SignalChromaFormat), 2)
		w.bits(uint64(d.SignalFullRange), 2)
		w.bits(uint64(d.SourceMinPQ), 12)
		w.bits(uint64(d.SourceMaxPQ), 12)
		w.bits(uint64(d.SourceDiagonal), 10)
		if d.Level1 != nil {
			w.ue(1)
			w.align()
			w.ue(5) // ext_block_length in bytes
			w.bits(1, 8)
			w.bits(uint64(d.Level1.MinPQ), 12)
			w.bits(uint64(d.Level1.MaxPQ), 12)
			w.bits(uint64(d.Level1.AvgPQ), 12)
			w.bits(0, 4)
		} else {
			w.ue(0)
		}
	}
	w.align()

	body := w.data
	payload := append([]byte{rpuPrefix}, body...)
	payload = binary.BigEndian.AppendUint32(payload, crc32MPEG2(body))
	payload = append(payload, rbspTrailer)

	escaped, err := escape(payload)
	if err != nil {
		return nil, err
	}
	return append(append([]byte(nil), unspec62Header...), escaped...), nil
}

// escape inserts an emulation prevention byte after every two zero bytes
// that are followed by a byte in 0x00..0x03.
func escape(data []byte) ([]byte, error) {
	var out bytes.Buffer
	w := bits.NewEBSPWriter(&out)
	for _, b := range data {
		w.Write(uint(b), 8)
	}
	if err := w.AccError(); err != nil {
		return nil, fmt.Errorf("dovi: escape RPU: %w", err)
	}
	return out.Bytes(), nil
}
