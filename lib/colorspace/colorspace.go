// Package colorspace contains the colorimetric value types used by the light pipeline
// and the conversions between them.
//
// None of the conversions return errors; degenerate inputs produce zero values so that
// a light update never fails part way through.
package colorspace

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/rmrobinson/xylight/lib/matrix"
)

// Epsilon is the smallest denominator the conversions will divide by.
const Epsilon = 1e-8

func safeDiv(n, d float64) float64 {
	if math.Abs(d) < Epsilon {
		return 0
	}
	return n / d
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// RGB is a linear or gamma compressed red/green/blue triple. Components are nominally
// in [0, 1] but may exceed that range in intermediate results.
type RGB struct {
	R float64
	G float64
	B float64
}

// RGBFromVec3 maps the X, Y, Z components of the vector onto R, G, B.
func RGBFromVec3(v matrix.Vec3) RGB {
	return RGB{R: v.X, G: v.Y, B: v.Z}
}

// Vec3 returns the triple as a vector.
func (c RGB) Vec3() matrix.Vec3 {
	return matrix.Vec3{X: c.R, Y: c.G, Z: c.B}
}

// Max returns the largest component.
func (c RGB) Max() float64 {
	return math.Max(math.Max(c.R, c.G), c.B)
}

// Min returns the smallest component.
func (c RGB) Min() float64 {
	return math.Min(math.Min(c.R, c.G), c.B)
}

// Scale multiplies each component by a.
func (c RGB) Scale(a float64) RGB {
	return RGB{R: c.R * a, G: c.G * a, B: c.B * a}
}

// ClampTruncate limits each component to [0, 1].
func (c RGB) ClampTruncate() RGB {
	return RGB{R: clamp(c.R, 0, 1), G: clamp(c.G, 0, 1), B: clamp(c.B, 0, 1)}
}

// ClampNormalize divides each component by the largest one if it exceeds 1.
func (c RGB) ClampNormalize() RGB {
	if max := c.Max(); max > 1 {
		return c.Scale(1 / max)
	}
	return c
}

// HSL converts the triple to hue, saturation and lightness.
func (c RGB) HSL() HSL {
	h, s, l := colorful.Color{R: c.R, G: c.G, B: c.B}.Hsl()
	h = h / 360
	if h >= 1 || h < 0 {
		h = 0
	}
	return HSL{H: h, S: s, L: l}
}

// AdjustBrightnessSaturation scales the saturation and then the lightness of the color.
func (c RGB) AdjustBrightnessSaturation(brightness, saturation float64) RGB {
	hsl := c.HSL()
	hsl.S = clamp(hsl.S*saturation, 0, 1)
	hsl.L = clamp(hsl.L*brightness, 0, 1)
	return hsl.RGB()
}

// HSL is a hue, saturation, lightness triple. All three are in [0, 1].
type HSL struct {
	H float64
	S float64
	L float64
}

// RGB converts the color to red, green and blue components.
func (c HSL) RGB() RGB {
	h := c.H - math.Floor(c.H)
	col := colorful.Hsl(h*360, c.S, c.L)
	return RGB{R: col.R, G: col.G, B: col.B}
}

// CwWw holds cold white and warm white channel levels.
type CwWw struct {
	CW float64
	WW float64
}

// Sum returns the combined level of both channels.
func (c CwWw) Sum() float64 {
	return c.CW + c.WW
}

// XYZ is a CIE 1931 tristimulus value. Y is luminance.
type XYZ struct {
	X float64
	Y float64
	Z float64
}

// XYZFromVec3 maps the vector components onto X, Y, Z.
func XYZFromVec3(v matrix.Vec3) XYZ {
	return XYZ{X: v.X, Y: v.Y, Z: v.Z}
}

// Vec3 returns the value as a vector.
func (c XYZ) Vec3() matrix.Vec3 {
	return matrix.Vec3{X: c.X, Y: c.Y, Z: c.Z}
}

// Sum returns X+Y+Z.
func (c XYZ) Sum() float64 {
	return c.X + c.Y + c.Z
}

// Scale multiplies each component by a.
func (c XYZ) Scale(a float64) XYZ {
	return XYZ{X: c.X * a, Y: c.Y * a, Z: c.Z * a}
}

// XyY converts the value to chromaticity plus luminance.
// A near-zero sum yields the (0, 0) chromaticity with the original luminance.
func (c XYZ) XyY() XyY {
	sum := c.Sum()
	if sum < Epsilon {
		return XyY{Luminance: c.Y}
	}
	return XyY{
		Xy:        Xy{X: c.X / sum, Y: c.Y / sum},
		Luminance: c.Y,
	}
}

// Xy returns the chromaticity of the value.
func (c XYZ) Xy() Xy {
	return c.XyY().Xy
}

// XyY is a CIE 1931 chromaticity with a luminance.
type XyY struct {
	Xy
	Luminance float64
}

// XYZ converts the value back to tristimulus form.
func (c XyY) XYZ() XYZ {
	return c.Xy.XYZ(c.Luminance)
}

// Xy is a CIE 1931 chromaticity.
type Xy struct {
	X float64
	Y float64
}

// Z returns the implied z = 1 - x - y.
func (c Xy) Z() float64 {
	return 1 - c.X - c.Y
}

// XYZ returns the tristimulus value with the chromaticity and the supplied luminance.
func (c Xy) XYZ(luminance float64) XYZ {
	ratio := safeDiv(luminance, c.Y)
	return XYZ{
		X: c.X * ratio,
		Y: luminance,
		Z: c.Z() * ratio,
	}
}

// XyY attaches the supplied luminance to the chromaticity.
func (c Xy) XyY(luminance float64) XyY {
	return XyY{Xy: c, Luminance: luminance}
}

// Uv1960 projects the chromaticity into the CIE 1960 UCS.
func (c Xy) Uv1960() Uv1960 {
	d := -2*c.X + 12*c.Y + 3
	return Uv1960{
		U: safeDiv(4*c.X, d),
		V: safeDiv(6*c.Y, d),
	}
}

// Uv1976 projects the chromaticity into the CIE 1976 UCS.
func (c Xy) Uv1976() Uv1976 {
	d := -2*c.X + 12*c.Y + 3
	return Uv1976{
		U: safeDiv(4*c.X, d),
		V: safeDiv(9*c.Y, d),
	}
}

// Toward moves the chromaticity in a straight line toward target by the supplied fraction.
// A fraction of 0 returns c, 1 returns target.
func (c Xy) Toward(target Xy, fraction float64) Xy {
	return Xy{
		X: c.X + fraction*(target.X-c.X),
		Y: c.Y + fraction*(target.Y-c.Y),
	}
}

// Kelvin approximates the correlated color temperature using McCamy's cubic.
// It is not accurate below roughly 1800K.
func (c Xy) Kelvin() float64 {
	n := safeDiv(c.X-0.3320, c.Y-0.1858)
	return -449*n*n*n + 3525*n*n - 6823.3*n + 5520.33
}

// Mired approximates the correlated color temperature in mireds.
func (c Xy) Mired() float64 {
	return safeDiv(1e6, c.Kelvin())
}

// Uv1960 is a chromaticity in the CIE 1960 UCS.
type Uv1960 struct {
	U float64
	V float64
}

// Xy converts the chromaticity to CIE 1931.
func (c Uv1960) Xy() Xy {
	d := 2*c.U - 8*c.V + 4
	return Xy{
		X: safeDiv(3*c.U, d),
		Y: safeDiv(2*c.V, d),
	}
}

// Uv1976 converts the chromaticity to the CIE 1976 UCS.
func (c Uv1960) Uv1976() Uv1976 {
	return Uv1976{U: c.U, V: c.V * 1.5}
}

// Kelvin approximates the correlated color temperature.
func (c Uv1960) Kelvin() float64 {
	return c.Xy().Kelvin()
}

// Mired approximates the correlated color temperature in mireds.
func (c Uv1960) Mired() float64 {
	return c.Xy().Mired()
}

// Uv1976 is a chromaticity in the CIE 1976 UCS.
type Uv1976 struct {
	U float64
	V float64
}

// Xy converts the chromaticity to CIE 1931.
func (c Uv1976) Xy() Xy {
	d := 6*c.U - 16*c.V + 12
	return Xy{
		X: safeDiv(9*c.U, d),
		Y: safeDiv(4*c.V, d),
	}
}

// Uv1960 converts the chromaticity to the CIE 1960 UCS.
func (c Uv1976) Uv1960() Uv1960 {
	return Uv1960{U: c.U, V: c.V / 1.5}
}
