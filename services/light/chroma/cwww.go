package chroma

import (
	"github.com/rmrobinson/xylight/lib/colorspace"
	"github.com/rmrobinson/xylight/services/light/calibration"
)

// DefaultCwWwImpurity is the impurity used by new CwWw transforms.
var DefaultCwWwImpurity = Impurity{
	GreenTint:  0.06,
	PurpleTint: 0.05,
	Red:        250,
	Blue:       80,
	Decay:      3,
}

// CwWwTransform converts XYZ colors into cold and warm white levels.
type CwWwTransform struct {
	Impurity    Impurity
	Calibration calibration.CwWw
	Gamma       float64

	ColdWhite colorspace.ColorTemperature
	WarmWhite colorspace.ColorTemperature
	// WhitePoint is where both channels are equally bright; it defaults to the midpoint between the two.
	WhitePoint colorspace.ColorTemperature
}

// NewCwWwTransform creates a transform for the supplied cold and warm white channels.
func NewCwWwTransform(cold, warm colorspace.ColorTemperature) *CwWwTransform {
	return &CwWwTransform{
		Impurity:    DefaultCwWwImpurity,
		Calibration: calibration.DefaultCwWw(),
		Gamma:       1,
		ColdWhite:   cold,
		WarmWhite:   warm,
	}
}

func (t *CwWwTransform) whitePointMired() float64 {
	if t.WhitePoint.IsZero() {
		return (t.WarmWhite.Mired() + t.ColdWhite.Mired()) / 2
	}
	return t.WhitePoint.Mired()
}

// XYZToCwWw converts the color to calibrated cold and warm white levels.
func (t *CwWwTransform) XYZToCwWw(xyz colorspace.XYZ) colorspace.CwWw {
	xyY := xyz.XyY()

	brightness, k := t.Impurity.attenuate(xyY, t.WarmWhite, t.ColdWhite)
	if brightness == 0 {
		return colorspace.CwWw{}
	}

	warm := t.WarmWhite.Mired()
	cold := t.ColdWhite.Mired()
	wp := t.whitePointMired()

	mired := ratio(1e6, k)
	if mired > warm {
		mired = warm
	} else if mired < cold {
		mired = cold
	}

	cwww := colorspace.CwWw{
		CW: (1 - ratio(mired-wp, warm-wp)) * brightness,
		WW: (1 - ratio(wp-mired, wp-cold)) * brightness,
	}

	cwww = colorspace.PowerCompressCwWw(cwww, t.Gamma)
	return t.Calibration.Apply(cwww)
}
