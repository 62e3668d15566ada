package chroma

import (
	"math"

	"github.com/rmrobinson/xylight/lib/colorspace"
)

func ratio(n, d float64) float64 {
	if math.Abs(d) < colorspace.Epsilon {
		return 0
	}
	return n / d
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// Impurity controls how quickly white channels dim as the requested color moves away from
// the white light they can produce.
//
// A larger Decay is more color accurate but dimmer on green and purple hues, and can appear
// to flicker when moving between some hues. A smaller Decay washes colors out but keeps the light brighter.
type Impurity struct {
	// GreenTint is the Duv above the Planckian locus at which the light is fully dimmed.
	GreenTint float64
	// PurpleTint is the Duv magnitude below the locus at which the light is fully dimmed.
	PurpleTint float64
	// Red is the number of mireds past the warmest white at which the light is fully dimmed.
	Red float64
	// Blue is the number of mireds past the coldest white at which the light is fully dimmed.
	Blue float64
	// Decay is the exponent applied to the attenuation factor.
	Decay float64
}

// Tint returns the attenuation from the chromaticity's distance to the Planckian locus.
func (i Impurity) Tint(xy colorspace.Xy) float64 {
	return xy.Uv1960().TintImpurity(i.GreenTint, i.PurpleTint)
}

// WhiteBalance returns the attenuation for a color temperature k (in kelvin) given the warmest and
// coldest white the channels can produce. It is 1 between them and falls linearly, in kelvin,
// to 0 at Red mireds warmer than warm or Blue mireds colder than cold.
func (i Impurity) WhiteBalance(k float64, warm, cold colorspace.ColorTemperature) float64 {
	coldK := cold.Kelvin()
	warmK := warm.Kelvin()

	if k > coldK {
		blue := cold.AddMired(-i.Blue)
		if blue.Mired() <= 0 {
			return 1
		}
		blueK := blue.Kelvin()
		return clamp01(ratio(blueK-k, blueK-coldK))
	} else if k < warmK {
		redK := warm.AddMired(i.Red).Kelvin()
		return clamp01(ratio(k-redK, warmK-redK))
	}
	return 1
}

// attenuate returns the brightness for the color after applying both attenuation factors, along with
// the approximate color temperature in kelvin. The color temperature is only calculated, and the
// result only non-zero, when the tint leaves some light.
func (i Impurity) attenuate(xyY colorspace.XyY, warm, cold colorspace.ColorTemperature) (float64, float64) {
	tint := i.Tint(xyY.Xy)
	if tint == 0 {
		return 0, 0
	}

	k := xyY.Kelvin()
	attn := math.Min(tint, i.WhiteBalance(k, warm, cold))
	if attn == 0 {
		return 0, k
	}

	return math.Pow(attn, i.Decay) * xyY.Luminance, k
}
