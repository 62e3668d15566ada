package calibration

import (
	"math"

	"github.com/rmrobinson/xylight/lib/colorspace"
)

// CwWw calibrates a cold white and warm white channel pair.
// Drivers often reach different levels when a single channel is on than when both share the supply,
// so each channel's bounds blend between its own limits and the combined limits based on the mix.
type CwWw struct {
	MaxCold     float64
	MaxWarm     float64
	MaxCombined float64

	MinCold     float64
	MinWarm     float64
	MinCombined float64

	Steps int
}

// DefaultCwWw returns a calibration which leaves values untouched.
func DefaultCwWw() CwWw {
	return CwWw{
		MaxCold:     1,
		MaxWarm:     1,
		MaxCombined: 1,
	}
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Bounds returns the min and max for each channel given the mix.
// An even mix uses the combined limits, a single channel uses its own.
func (c CwWw) Bounds(in colorspace.CwWw) (cold, warm Channel) {
	ratio := 0.5
	if sum := in.Sum(); sum > Epsilon {
		ratio = in.CW / sum
	}
	p := math.Abs(2*ratio - 1)

	cold = Channel{
		Weight: 1,
		Gamma:  1,
		Max:    lerp(c.MaxCombined, c.MaxCold, p),
		Min:    lerp(c.MinCombined, c.MinCold, p),
	}
	warm = Channel{
		Weight: 1,
		Gamma:  1,
		Max:    lerp(c.MaxCombined, c.MaxWarm, p),
		Min:    lerp(c.MinCombined, c.MinWarm, p),
	}
	return
}

// Apply maps both channels onto their blended bounds.
// A channel carrying no share of the mix is left at exactly 0.
func (c CwWw) Apply(in colorspace.CwWw) colorspace.CwWw {
	cold, warm := c.Bounds(in)

	var out colorspace.CwWw
	sum := in.Sum()
	if sum > Epsilon && in.CW/sum > Epsilon {
		out.CW = cold.Bound(in.CW)
	}
	if sum > Epsilon && in.WW/sum > Epsilon {
		out.WW = warm.Bound(in.WW)
	}

	out.CW = finish(out.CW, c.Steps)
	out.WW = finish(out.WW, c.Steps)
	return out
}
