package vidrender

import (
	"github.com/gogpu/vidrender/colorspace"
	"github.com/gogpu/vidrender/field"
	"github.com/gogpu/vidrender/props"
)

// syncProps replaces the properties of dst with a copy of the source frame
// properties rewritten to describe the destination.
func (c *Context) syncProps(dst *HostFrame, src props.Map) {
	m := src.Clone()
	d := c.resolver.Destination()

	colorspace.LevelsCodes.Sync(m, props.ColorRange, d.Repr.Levels)
	colorspace.MatrixCodes.Sync(m, props.Matrix, d.Repr.System)
	colorspace.TransferCodes.Sync(m, props.Transfer, d.Color.Transfer)
	colorspace.PrimariesCodes.Sync(m, props.Primaries, d.Color.Primaries)
	if d.Repr.System != colorspace.SystemRGB {
		colorspace.ChromaCodes.Sync(m, props.ChromaLocation, d.Chroma)
	}

	if c.fields != nil {
		field.Codes.Sync(m, props.FieldBased, field.None)
		if c.fields.IsDoubleRate() {
			if den, ok := src.Int(props.DurationDen); ok {
				m.SetInt(props.DurationDen, den*2)
			}
		}
	}

	if !d.Color.IsHDR() {
		for _, k := range props.HDRKeys {
			m.Delete(k)
		}
	} else {
		setHDRProps(m, &d.Color.HDR)
	}
	dst.Props = m
}

func setHDRProps(m props.Map, hdr *colorspace.HDRMetadata) {
	p := &hdr.Primaries
	m.SetFloat(props.ContentLightLevelMax, hdr.MaxCLL)
	m.SetFloat(props.ContentLightLevelAverage, hdr.MaxFALL)
	m.SetFloat(props.MasteringDisplayMaxLuminance, hdr.MaxLuma)
	m.SetFloat(props.MasteringDisplayMinLuminance, hdr.MinLuma)
	m.SetFloatArray(props.MasteringDisplayPrimariesX, []float64{p.Red.X, p.Green.X, p.Blue.X})
	m.SetFloatArray(props.MasteringDisplayPrimariesY, []float64{p.Red.Y, p.Green.Y, p.Blue.Y})
	m.SetFloat(props.MasteringDisplayWhitePointX, p.White.X)
	m.SetFloat(props.MasteringDisplayWhitePointY, p.White.Y)
}
