// Package calibration turns linear channel values into bounded, device ready levels.
package calibration

import (
	"math"

	"github.com/rmrobinson/xylight/lib/colorspace"
)

// Epsilon is the level at or below which a channel is considered off.
const Epsilon = 1e-6

// Channel holds the calibration of a single output channel.
type Channel struct {
	// Weight scales the channel relative to the others in its group.
	Weight float64
	// Max is the highest level the channel is driven to.
	Max float64
	// Min is the level the channel is driven to when it is barely on.
	Min float64
	// Gamma is a power law applied after any profile wide gamma.
	Gamma float64
}

// DefaultChannel returns a channel calibration which leaves values untouched.
func DefaultChannel() Channel {
	return Channel{
		Weight: 1,
		Max:    1,
		Min:    0,
		Gamma:  1,
	}
}

// Bound maps a value onto the [Min, Max] output range.
// Values at or below Epsilon are returned as exactly 0 so an off channel never shows its minimum.
func (c Channel) Bound(v float64) float64 {
	return bound(v, c.Min, c.Max)
}

func bound(v, min, max float64) float64 {
	if v <= Epsilon {
		return 0
	}
	return v*(1-min)*max + min
}

// Sanitize replaces NaN with 0 and infinities with the nearest end of [0, 1].
func Sanitize(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case math.IsInf(v, 1):
		return 1
	case math.IsInf(v, -1):
		return 0
	}
	return v
}

// Quantize rounds v to the closest of steps evenly spaced levels in [0, 1].
// A steps value below 2 leaves v untouched.
func Quantize(v float64, steps int) float64 {
	if steps < 2 {
		return v
	}
	n := float64(steps - 1)
	return math.Round(v*n) / n
}

func finish(v float64, steps int) float64 {
	return Sanitize(Quantize(v, steps))
}

// White calibrates a single white channel.
type White struct {
	Channel
	Steps int
}

// DefaultWhite returns a white calibration which leaves values untouched.
func DefaultWhite() White {
	return White{Channel: DefaultChannel()}
}

// Apply bounds, quantizes and sanitizes v.
func (c White) Apply(v float64) float64 {
	return finish(c.Bound(colorspace.PowerCompress(v, c.Gamma)), c.Steps)
}
