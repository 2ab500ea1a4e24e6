package colorspace

// Reference luminance levels used when a color space carries no mastering
// metadata.
const (
	SDRWhite    = 203.0 // cd/m², ITU-R BT.2408 reference white
	SDRContrast = 1000.0
	HDRBlack    = 1e-6
	HLGPeak     = 1000.0
)

// InferFunc fills the unknown fields of a destination color space from the
// fully resolved source. Implementations may also complete src.
type InferFunc func(src, dst *ColorSpace)

// Infer replaces unknown fields of c with defaults: BT.709 primaries, BT.1886
// transfer and the nominal luminance range of the transfer function.
func Infer(c *ColorSpace) {
	if c.Primaries == PrimariesUnknown {
		c.Primaries = PrimariesBT709
	}
	if c.Transfer == TransferUnknown {
		c.Transfer = TransferBT1886
	}

	hdr := &c.HDR
	if hdr.MaxLuma <= 0 {
		switch {
		case c.Transfer == TransferPQ:
			hdr.MaxLuma = PQMaxNits
		case c.Transfer.IsHDR():
			hdr.MaxLuma = HLGPeak
		default:
			hdr.MaxLuma = SDRWhite
		}
	}
	if hdr.MinLuma <= 0 {
		if c.Transfer.IsHDR() {
			hdr.MinLuma = HDRBlack
		} else {
			hdr.MinLuma = hdr.MaxLuma / SDRContrast
		}
	}
	hdr.MinLuma = min(hdr.MinLuma, hdr.MaxLuma)
}

// InferMap completes src with Infer and fills the unknown fields of dst
// from it. A destination with the source's transfer and no luminance
// metadata of its own inherits the source metadata, so that an identity
// conversion stays an identity.
func InferMap(src, dst *ColorSpace) {
	Infer(src)
	if dst.Primaries == PrimariesUnknown {
		dst.Primaries = src.Primaries
	}
	if dst.Transfer == TransferUnknown {
		dst.Transfer = src.Transfer
	}
	if dst.Transfer == src.Transfer && dst.HDR.MaxLuma <= 0 {
		minLuma := dst.HDR.MinLuma
		dst.HDR = src.HDR
		if minLuma > 0 {
			dst.HDR.MinLuma = minLuma
		}
	}
	Infer(dst)
}
