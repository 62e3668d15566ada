// Package chroma converts CIE XYZ colors into calibrated levels for each kind of light output.
package chroma

import (
	"errors"

	"github.com/rmrobinson/xylight/lib/colorspace"
	"github.com/rmrobinson/xylight/lib/matrix"
	"github.com/rmrobinson/xylight/services/light/calibration"
)

var (
	// ErrUnknownProfile is returned if a standard profile name is not recognized.
	ErrUnknownProfile = errors.New("unknown standard profile")
)

// Standard profile names accepted by UseStandard.
const (
	StandardLED         = "led"
	StandardSRGB        = "sRGB"
	StandardAdobeRGBD55 = "AdobeRGB D55"
	StandardAdobeRGBD65 = "AdobeRGB D65"
	StandardProPhoto    = "ProPhoto"
	StandardACESAP0     = "ACES AP0"
	StandardACESAP1     = "ACES AP1"
)

// Standards lists every standard profile name.
var Standards = []string{
	StandardLED,
	StandardSRGB,
	StandardAdobeRGBD55,
	StandardAdobeRGBD65,
	StandardProPhoto,
	StandardACESAP0,
	StandardACESAP1,
}

type standard struct {
	red    colorspace.Xy
	green  colorspace.Xy
	blue   colorspace.Xy
	white  func() colorspace.Chromaticity
	family colorspace.Gamma
	gamma  float64
}

var acesWhite = func() colorspace.Chromaticity {
	return colorspace.ChromaticityFromXy(colorspace.Xy{X: 0.32168, Y: 0.33767})
}

var standards = map[string]standard{
	StandardLED: {
		red:    colorspace.Xy{X: 0.7, Y: 0.3},
		green:  colorspace.Xy{X: 0.3, Y: 0.6},
		blue:   colorspace.Xy{X: 0.15, Y: 0.06},
		white:  colorspace.IlluminantD65,
		family: colorspace.GammaNone,
		gamma:  1,
	},
	StandardSRGB: {
		red:    colorspace.Xy{X: 0.64, Y: 0.33},
		green:  colorspace.Xy{X: 0.3, Y: 0.6},
		blue:   colorspace.Xy{X: 0.15, Y: 0.06},
		white:  colorspace.IlluminantD65,
		family: colorspace.GammaSRGB,
		gamma:  2.4,
	},
	StandardAdobeRGBD55: {
		red:    colorspace.Xy{X: 0.64, Y: 0.33},
		green:  colorspace.Xy{X: 0.21, Y: 0.71},
		blue:   colorspace.Xy{X: 0.15, Y: 0.06},
		white:  colorspace.IlluminantD55,
		family: colorspace.GammaPower,
		gamma:  2.2,
	},
	StandardAdobeRGBD65: {
		red:    colorspace.Xy{X: 0.64, Y: 0.33},
		green:  colorspace.Xy{X: 0.21, Y: 0.71},
		blue:   colorspace.Xy{X: 0.15, Y: 0.06},
		white:  colorspace.IlluminantD65,
		family: colorspace.GammaPower,
		gamma:  2.2,
	},
	StandardProPhoto: {
		red:    colorspace.Xy{X: 0.7347, Y: 0.2653},
		green:  colorspace.Xy{X: 0.1596, Y: 0.8404},
		blue:   colorspace.Xy{X: 0.0366, Y: 0.0001},
		white:  colorspace.IlluminantD50,
		family: colorspace.GammaPower,
		gamma:  1.8,
	},
	StandardACESAP0: {
		red:    colorspace.Xy{X: 0.7347, Y: 0.2653},
		green:  colorspace.Xy{X: 0, Y: 1},
		blue:   colorspace.Xy{X: 0.0001, Y: -0.077},
		white:  acesWhite,
		family: colorspace.GammaNone,
		gamma:  1,
	},
	StandardACESAP1: {
		red:    colorspace.Xy{X: 0.713, Y: 0.293},
		green:  colorspace.Xy{X: 0.165, Y: 0.83},
		blue:   colorspace.Xy{X: 0.128, Y: 0.044},
		white:  acesWhite,
		family: colorspace.GammaNone,
		gamma:  1,
	},
}

// RGBTransform converts between RGB and XYZ for a set of primaries and a white point.
// The conversion matrices are derived on first use; changing a primary or the white point discards them.
type RGBTransform struct {
	red   colorspace.Chromaticity
	green colorspace.Chromaticity
	blue  colorspace.Chromaticity
	white colorspace.Chromaticity

	family colorspace.Gamma
	gamma  float64

	calibration calibration.RGB

	primaries    *matrix.Matrix3x3
	primariesInv *matrix.Matrix3x3
	scale        *matrix.Vec3
	scaleInv     *matrix.Vec3
	rgbToXYZ     *matrix.Matrix3x3
	xyzToRGB     *matrix.Matrix3x3
}

// NewRGBTransform creates a transform using the typical LED primaries.
func NewRGBTransform() *RGBTransform {
	t := &RGBTransform{
		calibration: calibration.DefaultRGB(),
	}
	t.useStandard(standards[StandardLED])
	return t
}

// NewStandardRGBTransform creates a transform for the named standard profile.
func NewStandardRGBTransform(name string) (*RGBTransform, error) {
	t := NewRGBTransform()
	if err := t.UseStandard(name); err != nil {
		return nil, err
	}
	return t, nil
}

// UseStandard replaces the primaries, white point and transfer function with those of the named profile.
// The calibration is kept.
func (t *RGBTransform) UseStandard(name string) error {
	s, ok := standards[name]
	if !ok {
		return ErrUnknownProfile
	}
	t.useStandard(s)
	return nil
}

func (t *RGBTransform) useStandard(s standard) {
	t.red = colorspace.ChromaticityFromXy(s.red)
	t.green = colorspace.ChromaticityFromXy(s.green)
	t.blue = colorspace.ChromaticityFromXy(s.blue)
	t.white = s.white()
	t.family = s.family
	t.gamma = s.gamma
	t.resetPrimaries()
}

// SetGamma switches the transform to a power law with the supplied exponent.
func (t *RGBTransform) SetGamma(g float64) {
	t.family = colorspace.GammaPower
	t.gamma = g
}

// Gamma returns the transfer function and its exponent.
func (t *RGBTransform) Gamma() (colorspace.Gamma, float64) {
	return t.family, t.gamma
}

// SetRed sets the red primary.
func (t *RGBTransform) SetRed(c colorspace.Chromaticity) {
	t.red = c
	t.resetPrimaries()
}

// SetGreen sets the green primary.
func (t *RGBTransform) SetGreen(c colorspace.Chromaticity) {
	t.green = c
	t.resetPrimaries()
}

// SetBlue sets the blue primary.
func (t *RGBTransform) SetBlue(c colorspace.Chromaticity) {
	t.blue = c
	t.resetPrimaries()
}

// Primaries returns the red, green and blue primaries.
func (t *RGBTransform) Primaries() (red, green, blue colorspace.Xy) {
	return t.red.Xy(), t.green.Xy(), t.blue.Xy()
}

// SetWhitePoint sets the white point.
func (t *RGBTransform) SetWhitePoint(c colorspace.Chromaticity) {
	t.white = c
	t.resetScale()
}

// WhitePoint returns the white point.
func (t *RGBTransform) WhitePoint() colorspace.Xy {
	return t.white.Xy()
}

// SetCalibration replaces the channel calibration.
func (t *RGBTransform) SetCalibration(c calibration.RGB) {
	t.calibration = c
}

// Calibration returns the channel calibration.
func (t *RGBTransform) Calibration() calibration.RGB {
	return t.calibration
}

func (t *RGBTransform) resetPrimaries() {
	t.primaries = nil
	t.primariesInv = nil
	t.resetScale()
}

func (t *RGBTransform) resetScale() {
	t.scale = nil
	t.scaleInv = nil
	t.rgbToXYZ = nil
	t.xyzToRGB = nil
}

func (t *RGBTransform) primaryMatrix() matrix.Matrix3x3 {
	if t.primaries == nil {
		r, g, b := t.Primaries()
		m := matrix.FromRows(
			matrix.Vec3{X: r.X, Y: r.Y, Z: r.Z()},
			matrix.Vec3{X: g.X, Y: g.Y, Z: g.Z()},
			matrix.Vec3{X: b.X, Y: b.Y, Z: b.Z()},
		)
		t.primaries = &m
	}
	return *t.primaries
}

func (t *RGBTransform) primaryMatrixInv() matrix.Matrix3x3 {
	if t.primariesInv == nil {
		m := t.primaryMatrix().Inverse()
		t.primariesInv = &m
	}
	return *t.primariesInv
}

func (t *RGBTransform) scaleVector() matrix.Vec3 {
	if t.scale == nil {
		w := t.white.Xy().XYZ(1).Vec3().MulMatrix(t.primaryMatrixInv())
		t.scale = &w
	}
	return *t.scale
}

func (t *RGBTransform) scaleVectorInv() matrix.Vec3 {
	if t.scaleInv == nil {
		w := t.scaleVector().Reciprocal()
		t.scaleInv = &w
	}
	return *t.scaleInv
}

// RGBToXYZMatrix returns the matrix converting linear RGB column vectors to XYZ.
func (t *RGBTransform) RGBToXYZMatrix() matrix.Matrix3x3 {
	if t.rgbToXYZ == nil {
		m := t.primaryMatrix().Transpose().ScaleColumns(t.scaleVector())
		t.rgbToXYZ = &m
	}
	return *t.rgbToXYZ
}

// XYZToRGBMatrix returns the matrix converting XYZ column vectors to linear RGB.
func (t *RGBTransform) XYZToRGBMatrix() matrix.Matrix3x3 {
	if t.xyzToRGB == nil {
		m := t.primaryMatrixInv().Transpose().ScaleRows(t.scaleVectorInv())
		t.xyzToRGB = &m
	}
	return *t.xyzToRGB
}

// RGBToXYZ linearizes the color with the profile's transfer function and converts it to XYZ.
func (t *RGBTransform) RGBToXYZ(rgb colorspace.RGB) colorspace.XYZ {
	linear := t.family.DecompressRGB(rgb, t.gamma)
	return colorspace.XYZFromVec3(t.RGBToXYZMatrix().MulVec(linear.Vec3()))
}

// LinearRGB converts the color to linear RGB without any calibration.
// The result may be outside of [0, 1] if the color is outside the gamut.
func (t *RGBTransform) LinearRGB(xyz colorspace.XYZ) colorspace.RGB {
	return colorspace.RGBFromVec3(t.XYZToRGBMatrix().MulVec(xyz.Vec3()))
}

// XYZToRGB converts the color to calibrated RGB levels.
func (t *RGBTransform) XYZToRGB(xyz colorspace.XYZ) colorspace.RGB {
	return t.calibration.Apply(t.LinearRGB(xyz), t.family, t.gamma)
}

// AdjustSaturation moves the chromaticity toward the white point.
// A saturation of 1 leaves it unchanged, 0 returns the white point.
func (t *RGBTransform) AdjustSaturation(xy colorspace.Xy, saturation float64) colorspace.Xy {
	return xy.Toward(t.white.Xy(), 1-saturation)
}

// AdjustWhiteBalance scales each XYZ component so that this transform's white point maps onto target.
func (t *RGBTransform) AdjustWhiteBalance(xyz colorspace.XYZ, target colorspace.Xy) colorspace.XYZ {
	source := t.white.Xy().XYZ(1)
	dest := target.XYZ(1)

	sourceSum := source.Sum()
	destSum := dest.Sum()

	return colorspace.XYZ{
		X: xyz.X * ratio(dest.X/destSum, source.X/sourceSum),
		Y: xyz.Y * ratio(dest.Y/destSum, source.Y/sourceSum),
		Z: xyz.Z * ratio(dest.Z/destSum, source.Z/sourceSum),
	}
}
