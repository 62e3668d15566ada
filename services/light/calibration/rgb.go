package calibration

import (
	"math"

	"github.com/rmrobinson/xylight/lib/colorspace"
)

// RGB calibrates a red, green and blue channel group.
type RGB struct {
	Red   Channel
	Green Channel
	Blue  Channel

	// Steps quantizes the final levels when at least 2.
	Steps int
}

// DefaultRGB returns an RGB calibration which leaves in-range values untouched.
func DefaultRGB() RGB {
	return RGB{
		Red:   DefaultChannel(),
		Green: DefaultChannel(),
		Blue:  DefaultChannel(),
	}
}

// Weighted scales each channel by its weight, then rescales the result so
// the average of the three channels is unchanged.
func (c RGB) Weighted(in colorspace.RGB) colorspace.RGB {
	out := colorspace.RGB{
		R: in.R * c.Red.Weight,
		G: in.G * c.Green.Weight,
		B: in.B * c.Blue.Weight,
	}

	before := (in.R + in.G + in.B) / 3
	after := (out.R + out.G + out.B) / 3
	if math.Abs(after) < Epsilon {
		return out
	}
	return out.Scale(before / after)
}

// Clip divides every channel by the largest one if it is above 1, keeping the channel ratios.
func Clip(in colorspace.RGB) colorspace.RGB {
	return in.ClampNormalize()
}

// Apply runs the full calibration on a linear value:
// weighting, clipping, gamma compression, min/max mapping, quantization and sanitizing, in that order.
// The profile wide transfer function is applied before each channel's own gamma.
func (c RGB) Apply(in colorspace.RGB, family colorspace.Gamma, gamma float64) colorspace.RGB {
	rgb := Clip(c.Weighted(in))
	rgb = family.CompressRGB(rgb, gamma)

	return colorspace.RGB{
		R: finish(c.Red.Bound(colorspace.PowerCompress(rgb.R, c.Red.Gamma)), c.Steps),
		G: finish(c.Green.Bound(colorspace.PowerCompress(rgb.G, c.Green.Gamma)), c.Steps),
		B: finish(c.Blue.Bound(colorspace.PowerCompress(rgb.B, c.Blue.Gamma)), c.Steps),
	}
}
