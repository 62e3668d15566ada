package colorspace

import (
	"math"
)

// MaxDuv is the Duv offset either side of the Planckian locus inside which Duv is considered defined.
const MaxDuv = 0.09

// Cct is a correlated color temperature together with its point on the Planckian locus.
type Cct struct {
	kelvin float64
	uv     Uv1960

	hasTangent bool
	sin        float64
	cos        float64
}

// CctFromKelvin places the supplied temperature on the Planckian locus using Krystek's approximation.
func CctFromKelvin(k float64) Cct {
	u := (0.860117757 + 1.54118254e-4*k + 1.28641212e-7*k*k) /
		(1 + 8.42420235e-4*k + 7.08145163e-7*k*k)
	v := (0.317398726 + 4.22806245e-5*k + 4.20481691e-8*k*k) /
		(1 - 2.89741816e-5*k + 1.61456053e-7*k*k)

	return Cct{
		kelvin: k,
		uv:     Uv1960{U: u, V: v},
	}
}

// CctFromMired places the supplied temperature, in mireds, on the Planckian locus.
func CctFromMired(m float64) Cct {
	return CctFromKelvin(safeDiv(1e6, m))
}

// Kelvin returns the color temperature.
func (c Cct) Kelvin() float64 {
	return c.kelvin
}

// Mired returns the color temperature in mireds.
func (c Cct) Mired() float64 {
	return safeDiv(1e6, c.kelvin)
}

// Uv returns the point on the locus.
func (c Cct) Uv() Uv1960 {
	return c.uv
}

// Xy returns the point on the locus as a CIE 1931 chromaticity.
func (c Cct) Xy() Xy {
	return c.uv.Xy()
}

// DeltaUv returns the point offset by duv perpendicular to the locus.
// Positive values move above the locus (green), negative values below it (purple).
// The locus tangent is computed on first use and reused by later calls.
func (c *Cct) DeltaUv(duv float64) Uv1960 {
	if !c.hasTangent {
		next := CctFromKelvin(c.kelvin + 0.1)
		du := c.uv.U - next.uv.U
		dv := c.uv.V - next.uv.V
		l := math.Hypot(du, dv)
		c.cos = safeDiv(du, l)
		c.sin = safeDiv(dv, l)
		c.hasTangent = true
	}

	return Uv1960{
		U: c.uv.U - duv*c.sin,
		V: c.uv.V + duv*c.cos,
	}
}

// Duv approximates the signed distance of the chromaticity from the Planckian locus,
// using Ohno's polynomial fit of the locus radius around (0.292, 0.24).
func (c Uv1960) Duv() float64 {
	du := c.U - 0.292
	dv := c.V - 0.24
	lfp := math.Hypot(du, dv)
	if lfp < Epsilon {
		return 0
	}

	a := math.Acos(clamp(du/lfp, -1, 1))
	lbb := -0.00616793*math.Pow(a, 6) +
		0.0893944*math.Pow(a, 5) -
		0.5179722*math.Pow(a, 4) +
		1.5317403*math.Pow(a, 3) -
		2.4243787*math.Pow(a, 2) +
		1.925865*a -
		0.471106
	return lfp - lbb
}

var duvPolygonKelvins = []float64{
	1000, 1600, 2000, 2500, 3000, 4000, 5000, 6000, 7000, 8000, 10000, 15000, 20000,
}

// duvPolygon bounds the region, in uv1960, where Duv is considered defined.
// It traces the locus offset by +MaxDuv from warm to cold and back along -MaxDuv.
var duvPolygon = buildDuvPolygon()

func buildDuvPolygon() []Uv1960 {
	poly := make([]Uv1960, 0, len(duvPolygonKelvins)*2)
	for _, k := range duvPolygonKelvins {
		cct := CctFromKelvin(k)
		poly = append(poly, cct.DeltaUv(MaxDuv))
	}
	for i := len(duvPolygonKelvins) - 1; i >= 0; i-- {
		cct := CctFromKelvin(duvPolygonKelvins[i])
		poly = append(poly, cct.DeltaUv(-MaxDuv))
	}
	return poly
}

// HasDuv reports whether the chromaticity is close enough to the locus for Duv to be meaningful.
func (c Uv1960) HasDuv() bool {
	inside := false
	for i, j := 0, len(duvPolygon)-1; i < len(duvPolygon); j, i = i, i+1 {
		vi := duvPolygon[i]
		vj := duvPolygon[j]
		if ((vi.V >= c.V) != (vj.V >= c.V)) &&
			c.U <= (vj.U-vi.U)*(c.V-vi.V)/(vj.V-vi.V)+vi.U {
			inside = !inside
		}
	}
	return inside
}

// TintImpurity returns 1 for a chromaticity on the locus, falling linearly to 0 once Duv
// reaches green (positive) or purple (negative). Points without a defined Duv return 0.
func (c Uv1960) TintImpurity(green, purple float64) float64 {
	if !c.HasDuv() {
		return 0
	}

	duv := c.Duv()
	if duv > 0 {
		return clamp(safeDiv(green-duv, green), 0, 1)
	}
	return clamp(safeDiv(purple+duv, purple), 0, 1)
}
