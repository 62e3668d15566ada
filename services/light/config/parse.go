package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/rmrobinson/xylight/lib/colorspace"
)

// Limits of the CIE xy values accepted in a configuration.
const (
	MaxX   = 0.75
	MaxY   = 0.85
	MaxDuv = 0.8

	kelvinThreshold = 1000
)

// ParseXy validates a CIE xy pair.
func ParseXy(v []float64) (colorspace.Xy, error) {
	if len(v) != 2 {
		return colorspace.Xy{}, fmt.Errorf("need 2 values, not %d: %w", len(v), ErrInvalidChromaticity)
	}

	x, y := v[0], v[1]
	if x < 0 || x > MaxX {
		return colorspace.Xy{}, fmt.Errorf("x %.4f outside [0, %.2f]: %w", x, MaxX, ErrInvalidChromaticity)
	}
	if y < 0 || y > MaxY {
		return colorspace.Xy{}, fmt.Errorf("y %.4f outside [0, %.2f]: %w", y, MaxY, ErrInvalidChromaticity)
	}
	return colorspace.Xy{X: x, Y: y}, nil
}

// ParseColorTemperature parses values such as "2700K", "370 mireds" or a bare number.
// Bare numbers of at least 1000 are kelvin, smaller ones are mireds.
func ParseColorTemperature(s string) (colorspace.ColorTemperature, error) {
	v := strings.ToLower(strings.TrimSpace(s))

	unit := ""
	switch {
	case strings.HasSuffix(v, "mireds"):
		unit, v = "mired", strings.TrimSuffix(v, "mireds")
	case strings.HasSuffix(v, "mired"):
		unit, v = "mired", strings.TrimSuffix(v, "mired")
	case strings.HasSuffix(v, "k"):
		unit, v = "kelvin", strings.TrimSuffix(v, "k")
	}

	n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || n <= 0 {
		return colorspace.ColorTemperature{}, fmt.Errorf("%q: %w", s, ErrInvalidColorTemperature)
	}

	if unit == "" {
		unit = "mired"
		if n >= kelvinThreshold {
			unit = "kelvin"
		}
	}

	if unit == "kelvin" {
		return colorspace.FromKelvin(n), nil
	}
	return colorspace.FromMired(n), nil
}

// ParseColorTemperatureRange parses two color temperatures and orders them cold then warm.
func ParseColorTemperatureRange(a, b string) (cold, warm colorspace.ColorTemperature, err error) {
	cold, err = ParseColorTemperature(a)
	if err != nil {
		return
	}
	warm, err = ParseColorTemperature(b)
	if err != nil {
		return
	}

	if cold.Mired() > warm.Mired() {
		cold, warm = warm, cold
	}
	return
}

// ParseHex parses a "#rrggbb" color into RGB values in [0, 1].
func ParseHex(s string) (colorspace.RGB, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return colorspace.RGB{}, fmt.Errorf("%q: %w", s, ErrInvalidColor)
	}
	return colorspace.RGB{R: c.R, G: c.G, B: c.B}, nil
}

func checkPercentage(name string, v *float64) error {
	if v == nil {
		return nil
	}
	if *v < 0 || *v > 1 {
		return fmt.Errorf("%s %.4f outside [0, 1]: %w", name, *v, ErrInvalidPercentage)
	}
	return nil
}

func checkGamma(name string, v *float64) error {
	if v == nil {
		return nil
	}
	if *v <= 0 {
		return fmt.Errorf("%s %.4f: %w", name, *v, ErrInvalidGamma)
	}
	return nil
}

func checkDuv(name string, v *float64) error {
	if v == nil {
		return nil
	}
	if *v < 0 || *v > MaxDuv {
		return fmt.Errorf("%s %.4f outside [0, %.1f]: %w", name, *v, MaxDuv, ErrInvalidDuv)
	}
	return nil
}

func checkSteps(steps int) error {
	if steps < 0 {
		return fmt.Errorf("quantization_steps %d: %w", steps, ErrInvalidSteps)
	}
	return nil
}

func valueOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
