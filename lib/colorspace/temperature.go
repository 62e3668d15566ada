package colorspace

import (
	"fmt"
)

// ColorTemperature is a color temperature stored in mireds.
type ColorTemperature struct {
	mired float64
}

// FromKelvin creates a color temperature from kelvin.
func FromKelvin(k float64) ColorTemperature {
	return ColorTemperature{mired: safeDiv(1e6, k)}
}

// FromMired creates a color temperature from mireds.
func FromMired(m float64) ColorTemperature {
	return ColorTemperature{mired: m}
}

// Mired returns the temperature in mireds.
func (t ColorTemperature) Mired() float64 {
	return t.mired
}

// Kelvin returns the temperature in kelvin.
func (t ColorTemperature) Kelvin() float64 {
	return safeDiv(1e6, t.mired)
}

// IsZero reports whether the temperature is unset.
func (t ColorTemperature) IsZero() bool {
	return t.mired == 0
}

// AddMired shifts the temperature by m mireds. Negative values make it colder.
func (t ColorTemperature) AddMired(m float64) ColorTemperature {
	return ColorTemperature{mired: t.mired + m}
}

// AddKelvin shifts the temperature by k kelvin. Negative values make it warmer.
func (t ColorTemperature) AddKelvin(k float64) ColorTemperature {
	return FromKelvin(t.Kelvin() + k)
}

// Cct places the temperature on the Planckian locus.
func (t ColorTemperature) Cct() Cct {
	return CctFromMired(t.mired)
}

// Xy returns the temperature's point on the Planckian locus.
func (t ColorTemperature) Xy() Xy {
	return t.Cct().Xy()
}

func (t ColorTemperature) String() string {
	return fmt.Sprintf("%.0fK", t.Kelvin())
}
