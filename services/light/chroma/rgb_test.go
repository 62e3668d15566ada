package chroma

import (
	"math/rand"
	"testing"

	"github.com/rmrobinson/xylight/lib/colorspace"
	"github.com/rmrobinson/xylight/lib/matrix"
	"github.com/stretchr/testify/assert"
)

func TestStandardProfiles(t *testing.T) {
	for _, name := range Standards {
		t.Run(name, func(t *testing.T) {
			tr, err := NewStandardRGBTransform(name)
			assert.NoError(t, err)
			assert.NotNil(t, tr)

			product := tr.RGBToXYZMatrix().Mul(tr.XYZToRGBMatrix())
			id := matrix.Identity()
			for r := 0; r < 3; r++ {
				for c := 0; c < 3; c++ {
					assert.InDelta(t, id[r][c], product[r][c], 1e-9)
				}
			}
		})
	}
}

func TestUnknownProfile(t *testing.T) {
	tr, err := NewStandardRGBTransform("Rec. 2020")
	assert.Equal(t, ErrUnknownProfile, err)
	assert.Nil(t, tr)
}

func TestSRGBWhite(t *testing.T) {
	tr, err := NewStandardRGBTransform(StandardSRGB)
	assert.NoError(t, err)

	xyY := tr.RGBToXYZ(colorspace.RGB{R: 1, G: 1, B: 1}).XyY()
	assert.InDelta(t, 0.3127, xyY.X, 1e-4)
	assert.InDelta(t, 0.3290, xyY.Y, 1e-4)
	assert.InDelta(t, 1, xyY.Luminance, 1e-9)
}

func TestSRGBMatrix(t *testing.T) {
	tr, err := NewStandardRGBTransform(StandardSRGB)
	assert.NoError(t, err)

	expected := matrix.Matrix3x3{
		{0.4124, 0.3576, 0.1805},
		{0.2126, 0.7152, 0.0722},
		{0.0193, 0.1192, 0.9505},
	}
	m := tr.RGBToXYZMatrix()
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			assert.InDelta(t, expected[r][c], m[r][c], 1e-3, "element [%d][%d]", r, c)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))

	for _, name := range []string{StandardLED, StandardSRGB, StandardAdobeRGBD65, StandardProPhoto} {
		t.Run(name, func(t *testing.T) {
			tr, err := NewStandardRGBTransform(name)
			assert.NoError(t, err)

			for i := 0; i < 200; i++ {
				rgb := colorspace.RGB{
					R: 0.01 + 0.99*rnd.Float64(),
					G: 0.01 + 0.99*rnd.Float64(),
					B: 0.01 + 0.99*rnd.Float64(),
				}
				out := tr.XYZToRGB(tr.RGBToXYZ(rgb))
				assert.InDelta(t, rgb.R, out.R, 1e-4)
				assert.InDelta(t, rgb.G, out.G, 1e-4)
				assert.InDelta(t, rgb.B, out.B, 1e-4)
			}
		})
	}
}

func TestPrimaryMapsToChannel(t *testing.T) {
	tr := NewRGBTransform()

	red := colorspace.Xy{X: 0.7, Y: 0.3}.XYZ(0.2)
	rgb := tr.LinearRGB(red)
	assert.Greater(t, rgb.R, 0.0)
	assert.InDelta(t, 0, rgb.G, 1e-9)
	assert.InDelta(t, 0, rgb.B, 1e-9)
}

func TestOutOfGamutClipped(t *testing.T) {
	tr := NewRGBTransform()

	// brighter than the red primary can produce alone
	xyz := tr.RGBToXYZ(colorspace.RGB{R: 3, G: 1.5, B: 0})
	rgb := tr.XYZToRGB(xyz)
	assert.InDelta(t, 1, rgb.R, 1e-9)
	assert.InDelta(t, 0.5, rgb.G, 1e-9)
	assert.InDelta(t, 0, rgb.B, 1e-9)
}

func TestCacheInvalidation(t *testing.T) {
	tr := NewRGBTransform()
	before := tr.RGBToXYZMatrix()

	tr.SetWhitePoint(colorspace.IlluminantD50())
	afterWhite := tr.RGBToXYZMatrix()
	assert.NotEqual(t, before, afterWhite)

	// the white point still maps to RGB white
	white := tr.WhitePoint()
	rgb := tr.LinearRGB(white.XYZ(1))
	assert.InDelta(t, 1, rgb.R, 1e-9)
	assert.InDelta(t, 1, rgb.G, 1e-9)
	assert.InDelta(t, 1, rgb.B, 1e-9)

	tr.SetRed(colorspace.ChromaticityFromXy(colorspace.Xy{X: 0.68, Y: 0.32}))
	afterRed := tr.RGBToXYZMatrix()
	assert.NotEqual(t, afterWhite, afterRed)

	red := colorspace.Xy{X: 0.68, Y: 0.32}.XYZ(0.1)
	rgb = tr.LinearRGB(red)
	assert.InDelta(t, 0, rgb.G, 1e-9)
	assert.InDelta(t, 0, rgb.B, 1e-9)

	tr.SetGreen(colorspace.ChromaticityFromUv1976(colorspace.Xy{X: 0.2, Y: 0.7}.Uv1976()))
	_, green, _ := tr.Primaries()
	assert.InDelta(t, 0.2, green.X, 1e-9)
	assert.InDelta(t, 0.7, green.Y, 1e-9)
}

func TestUseStandardKeepsCalibration(t *testing.T) {
	tr := NewRGBTransform()
	cal := tr.Calibration()
	cal.Red.Max = 0.5
	tr.SetCalibration(cal)

	assert.NoError(t, tr.UseStandard(StandardSRGB))
	assert.Equal(t, 0.5, tr.Calibration().Red.Max)

	family, gamma := tr.Gamma()
	assert.Equal(t, colorspace.GammaSRGB, family)
	assert.Equal(t, 2.4, gamma)

	tr.SetGamma(2.2)
	family, gamma = tr.Gamma()
	assert.Equal(t, colorspace.GammaPower, family)
	assert.Equal(t, 2.2, gamma)
}

func TestAdjustSaturation(t *testing.T) {
	tr := NewRGBTransform()
	xy := colorspace.Xy{X: 0.6, Y: 0.35}
	white := tr.WhitePoint()

	assert.Equal(t, xy, tr.AdjustSaturation(xy, 1))

	grey := tr.AdjustSaturation(xy, 0)
	assert.InDelta(t, white.X, grey.X, 1e-12)
	assert.InDelta(t, white.Y, grey.Y, 1e-12)

	half := tr.AdjustSaturation(xy, 0.5)
	assert.InDelta(t, (xy.X+white.X)/2, half.X, 1e-12)
}

func TestAdjustWhiteBalance(t *testing.T) {
	tr := NewRGBTransform()
	target := colorspace.FromKelvin(2700).Xy()

	source := tr.WhitePoint().XYZ(1)
	out := tr.AdjustWhiteBalance(source, target).Xy()
	assert.InDelta(t, target.X, out.X, 1e-9)
	assert.InDelta(t, target.Y, out.Y, 1e-9)

	same := tr.AdjustWhiteBalance(source, tr.WhitePoint())
	assert.InDelta(t, source.X, same.X, 1e-12)
	assert.InDelta(t, source.Y, same.Y, 1e-12)
	assert.InDelta(t, source.Z, same.Z, 1e-12)
}
