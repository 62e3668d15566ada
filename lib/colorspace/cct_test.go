package colorspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKrystekRoundTrip(t *testing.T) {
	for _, k := range []float64{2000, 2500, 3000, 4000, 5000, 6500, 8000, 10000} {
		cct := CctFromKelvin(k)
		assert.InDelta(t, k, cct.Xy().Kelvin(), k*0.02, "kelvin %f", k)
		assert.InDelta(t, k, cct.Uv().Kelvin(), k*0.02, "kelvin %f", k)
	}
}

func TestCctFromMired(t *testing.T) {
	cct := CctFromMired(250)
	assert.InDelta(t, 4000, cct.Kelvin(), 1e-9)
	assert.InDelta(t, 250, cct.Mired(), 1e-9)
	assert.Equal(t, CctFromKelvin(4000).Uv(), cct.Uv())
}

func TestDuvOnLocus(t *testing.T) {
	for _, k := range []float64{2500, 3000, 4000, 6500, 10000, 15000} {
		cct := CctFromKelvin(k)
		assert.InDelta(t, 0, cct.Uv().Duv(), 0.002, "kelvin %f", k)
	}
}

func TestDuvSign(t *testing.T) {
	for _, k := range []float64{2500, 3000, 4000, 6500, 10000} {
		for _, d := range []float64{0.005, 0.02, 0.05} {
			cct := CctFromKelvin(k)
			assert.Greater(t, cct.DeltaUv(d).Duv(), 0.0, "kelvin %f duv %f", k, d)
			assert.Less(t, cct.DeltaUv(-d).Duv(), 0.0, "kelvin %f duv %f", k, -d)
		}
	}
}

func TestDuvFit(t *testing.T) {
	for _, k := range []float64{2500, 3000, 4000, 6500, 10000, 15000} {
		cct := CctFromKelvin(k)
		for _, d := range []float64{-0.05, -0.02, 0, 0.02, 0.05} {
			assert.InDelta(t, d, cct.DeltaUv(d).Duv(), 0.002, "kelvin %f duv %f", k, d)
		}
	}
}

func TestDeltaUvZero(t *testing.T) {
	cct := CctFromKelvin(3000)
	assert.Equal(t, cct.Uv(), cct.DeltaUv(0))
}

func TestDuvDegenerate(t *testing.T) {
	assert.Equal(t, 0.0, Uv1960{U: 0.292, V: 0.24}.Duv())
}

var hasDuvTests = []struct {
	name     string
	uv       Uv1960
	expected bool
}{
	{"d65", d65.Uv1960(), true},
	{"illuminant a", Xy{X: 0.44757, Y: 0.40745}.Uv1960(), true},
	{"green primary", Xy{X: 0.3, Y: 0.6}.Uv1960(), false},
	{"blue primary", Xy{X: 0.15, Y: 0.06}.Uv1960(), false},
	{"too green", deltaUv(3000, 0.1), false},
	{"slightly green", deltaUv(3000, 0.05), true},
	{"slightly purple", deltaUv(3000, -0.08), true},
}

func deltaUv(k, d float64) Uv1960 {
	cct := CctFromKelvin(k)
	return cct.DeltaUv(d)
}

func TestHasDuv(t *testing.T) {
	for _, tt := range hasDuvTests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.uv.HasDuv())
		})
	}
}

func TestDuvPolygon(t *testing.T) {
	assert.Len(t, duvPolygon, 26)

	warm := CctFromKelvin(1000)
	assert.Equal(t, warm.DeltaUv(MaxDuv), duvPolygon[0])
	assert.Equal(t, warm.DeltaUv(-MaxDuv), duvPolygon[25])
}

var tintImpurityTests = []struct {
	name     string
	uv       Uv1960
	expected float64
}{
	{"on locus", CctFromKelvin(3000).Uv(), 1},
	{"half green", deltaUv(3000, 0.03), 0.5},
	{"half purple", deltaUv(3000, -0.025), 0.5},
	{"fully green", deltaUv(3000, 0.07), 0},
	{"fully purple", deltaUv(3000, -0.06), 0},
	{"undefined", Xy{X: 0.3, Y: 0.6}.Uv1960(), 0},
}

func TestTintImpurity(t *testing.T) {
	for _, tt := range tintImpurityTests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, tt.uv.TintImpurity(0.06, 0.05), 0.02)
		})
	}
}
