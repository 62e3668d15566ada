package chroma

import (
	"github.com/rmrobinson/xylight/lib/colorspace"
	"github.com/rmrobinson/xylight/services/light/calibration"
)

// DefaultWhiteImpurity is the impurity used by new white transforms.
var DefaultWhiteImpurity = Impurity{
	GreenTint:  0.06,
	PurpleTint: 0.05,
	Red:        100,
	Blue:       10,
	Decay:      1.5,
}

// WhiteTransform converts XYZ colors into the level of a single white channel.
type WhiteTransform struct {
	Impurity    Impurity
	Calibration calibration.White
	Gamma       float64

	WhitePoint colorspace.ColorTemperature
}

// NewWhiteTransform creates a transform for a white channel of the supplied color temperature.
func NewWhiteTransform(wp colorspace.ColorTemperature) *WhiteTransform {
	return &WhiteTransform{
		Impurity:    DefaultWhiteImpurity,
		Calibration: calibration.DefaultWhite(),
		Gamma:       1,
		WhitePoint:  wp,
	}
}

// XYZToWhite converts the color to a calibrated white level.
func (t *WhiteTransform) XYZToWhite(xyz colorspace.XYZ) float64 {
	brightness, _ := t.Impurity.attenuate(xyz.XyY(), t.WhitePoint, t.WhitePoint)
	if brightness == 0 {
		return 0
	}
	return t.Calibration.Apply(colorspace.PowerCompress(brightness, t.Gamma))
}
