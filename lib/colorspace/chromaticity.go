package colorspace

// Chromaticity is a 2D chromaticity stored as either a CIE 1931 xy point or a CIE 1976 u'v' point.
// The xy form is derived on first use and then cached.
type Chromaticity struct {
	xy    Xy
	uv    Uv1976
	hasXy bool
	hasUv bool
}

// ChromaticityFromXy creates a chromaticity from a CIE 1931 point.
func ChromaticityFromXy(xy Xy) Chromaticity {
	return Chromaticity{xy: xy, hasXy: true}
}

// ChromaticityFromUv1976 creates a chromaticity from a CIE 1976 point.
func ChromaticityFromUv1976(uv Uv1976) Chromaticity {
	return Chromaticity{uv: uv, hasUv: true}
}

// IsZero reports whether the chromaticity was never set.
func (c Chromaticity) IsZero() bool {
	return !c.hasXy && !c.hasUv
}

// Xy returns the chromaticity as a CIE 1931 point.
func (c *Chromaticity) Xy() Xy {
	if !c.hasXy && c.hasUv {
		c.xy = c.uv.Xy()
		c.hasXy = true
	}
	return c.xy
}

// Uv1976 returns the chromaticity as a CIE 1976 point.
func (c *Chromaticity) Uv1976() Uv1976 {
	if !c.hasUv && c.hasXy {
		c.uv = c.xy.Uv1976()
		c.hasUv = true
	}
	return c.uv
}

// IlluminantA is incandescent (tungsten) light.
func IlluminantA() Chromaticity {
	return ChromaticityFromXy(Xy{X: 0.44757, Y: 0.40745})
}

// IlluminantD50 is horizon daylight.
func IlluminantD50() Chromaticity {
	return ChromaticityFromXy(Xy{X: 0.34567, Y: 0.35850})
}

// IlluminantD55 is mid-morning or mid-afternoon daylight.
func IlluminantD55() Chromaticity {
	return ChromaticityFromXy(Xy{X: 0.33242, Y: 0.34743})
}

// IlluminantD65 is noon daylight and the sRGB reference white.
func IlluminantD65() Chromaticity {
	return ChromaticityFromXy(Xy{X: 0.31271, Y: 0.32902})
}

// IlluminantE is the equal energy illuminant.
func IlluminantE() Chromaticity {
	return ChromaticityFromXy(Xy{X: 1 / 3.0, Y: 1 / 3.0})
}
