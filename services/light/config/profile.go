package config

import (
	"fmt"

	"github.com/rmrobinson/xylight/lib/colorspace"
	"github.com/rmrobinson/xylight/services/light/calibration"
	"github.com/rmrobinson/xylight/services/light/chroma"
)

// RGBProfile configures the primaries, white point and calibration of an RGB output.
// Each primary comes either from a standard profile or from its xy value, not both.
type RGBProfile struct {
	Standard string `mapstructure:"standard" json:"standard,omitempty"`

	RedXy   []float64 `mapstructure:"red_xy" json:"red_xy,omitempty"`
	GreenXy []float64 `mapstructure:"green_xy" json:"green_xy,omitempty"`
	BlueXy  []float64 `mapstructure:"blue_xy" json:"blue_xy,omitempty"`

	RedIntensity    *float64 `mapstructure:"red_intensity" json:"red_intensity,omitempty"`
	RedMaxIntensity *float64 `mapstructure:"red_max_intensity" json:"red_max_intensity,omitempty"`
	RedMinIntensity *float64 `mapstructure:"red_min_intensity" json:"red_min_intensity,omitempty"`
	RedGamma        *float64 `mapstructure:"red_gamma" json:"red_gamma,omitempty"`

	GreenIntensity    *float64 `mapstructure:"green_intensity" json:"green_intensity,omitempty"`
	GreenMaxIntensity *float64 `mapstructure:"green_max_intensity" json:"green_max_intensity,omitempty"`
	GreenMinIntensity *float64 `mapstructure:"green_min_intensity" json:"green_min_intensity,omitempty"`
	GreenGamma        *float64 `mapstructure:"green_gamma" json:"green_gamma,omitempty"`

	BlueIntensity    *float64 `mapstructure:"blue_intensity" json:"blue_intensity,omitempty"`
	BlueMaxIntensity *float64 `mapstructure:"blue_max_intensity" json:"blue_max_intensity,omitempty"`
	BlueMinIntensity *float64 `mapstructure:"blue_min_intensity" json:"blue_min_intensity,omitempty"`
	BlueGamma        *float64 `mapstructure:"blue_gamma" json:"blue_gamma,omitempty"`

	WhitePointXy []float64 `mapstructure:"white_point_xy" json:"white_point_xy,omitempty"`
	WhitePoint   string    `mapstructure:"white_point" json:"white_point,omitempty"`

	Gamma             *float64 `mapstructure:"gamma" json:"gamma,omitempty"`
	QuantizationSteps int      `mapstructure:"quantization_steps" json:"quantization_steps,omitempty"`
}

func rgbChannel(name string, weight, max, min, gamma *float64) (calibration.Channel, error) {
	if err := checkPercentage(name+"_intensity", weight); err != nil {
		return calibration.Channel{}, err
	}
	if err := checkPercentage(name+"_max_intensity", max); err != nil {
		return calibration.Channel{}, err
	}
	if err := checkPercentage(name+"_min_intensity", min); err != nil {
		return calibration.Channel{}, err
	}
	if err := checkGamma(name+"_gamma", gamma); err != nil {
		return calibration.Channel{}, err
	}

	def := calibration.DefaultChannel()
	return calibration.Channel{
		Weight: valueOr(weight, def.Weight),
		Max:    valueOr(max, def.Max),
		Min:    valueOr(min, def.Min),
		Gamma:  valueOr(gamma, def.Gamma),
	}, nil
}

func primary(name string, xy []float64, standard bool) (colorspace.Xy, bool, error) {
	if len(xy) == 0 {
		if !standard {
			return colorspace.Xy{}, false, fmt.Errorf("%s_xy or standard: %w", name, ErrMissingField)
		}
		return colorspace.Xy{}, false, nil
	}
	if standard {
		return colorspace.Xy{}, false, fmt.Errorf("%s_xy and standard: %w", name, ErrConflictingFields)
	}

	p, err := ParseXy(xy)
	if err != nil {
		return colorspace.Xy{}, false, fmt.Errorf("%s_xy: %w", name, err)
	}
	return p, true, nil
}

// Transform validates the profile and builds the transform it describes.
func (p *RGBProfile) Transform() (*chroma.RGBTransform, error) {
	t := chroma.NewRGBTransform()

	hasStandard := len(p.Standard) > 0
	if hasStandard {
		if err := t.UseStandard(p.Standard); err != nil {
			return nil, fmt.Errorf("standard %q: %w", p.Standard, err)
		}
	}

	if err := checkGamma("gamma", p.Gamma); err != nil {
		return nil, err
	}
	if p.Gamma != nil {
		t.SetGamma(*p.Gamma)
	}

	if xy, ok, err := primary("red", p.RedXy, hasStandard); err != nil {
		return nil, err
	} else if ok {
		t.SetRed(colorspace.ChromaticityFromXy(xy))
	}
	if xy, ok, err := primary("green", p.GreenXy, hasStandard); err != nil {
		return nil, err
	} else if ok {
		t.SetGreen(colorspace.ChromaticityFromXy(xy))
	}
	if xy, ok, err := primary("blue", p.BlueXy, hasStandard); err != nil {
		return nil, err
	} else if ok {
		t.SetBlue(colorspace.ChromaticityFromXy(xy))
	}

	cal := calibration.DefaultRGB()
	var err error
	if cal.Red, err = rgbChannel("red", p.RedIntensity, p.RedMaxIntensity, p.RedMinIntensity, p.RedGamma); err != nil {
		return nil, err
	}
	if cal.Green, err = rgbChannel("green", p.GreenIntensity, p.GreenMaxIntensity, p.GreenMinIntensity, p.GreenGamma); err != nil {
		return nil, err
	}
	if cal.Blue, err = rgbChannel("blue", p.BlueIntensity, p.BlueMaxIntensity, p.BlueMinIntensity, p.BlueGamma); err != nil {
		return nil, err
	}
	if err := checkSteps(p.QuantizationSteps); err != nil {
		return nil, err
	}
	cal.Steps = p.QuantizationSteps
	t.SetCalibration(cal)

	switch {
	case len(p.WhitePointXy) > 0 && len(p.WhitePoint) > 0:
		return nil, fmt.Errorf("white_point_xy and white_point: %w", ErrConflictingFields)
	case len(p.WhitePointXy) > 0:
		xy, err := ParseXy(p.WhitePointXy)
		if err != nil {
			return nil, fmt.Errorf("white_point_xy: %w", err)
		}
		t.SetWhitePoint(colorspace.ChromaticityFromXy(xy))
	case len(p.WhitePoint) > 0:
		ct, err := ParseColorTemperature(p.WhitePoint)
		if err != nil {
			return nil, fmt.Errorf("white_point: %w", err)
		}
		t.SetWhitePoint(colorspace.ChromaticityFromXy(ct.Xy()))
	}

	return t, nil
}

// ImpurityConfig holds the settings shared by the cold/warm and single white profiles.
type ImpurityConfig struct {
	GreenTintImpurity  *float64 `mapstructure:"green_tint_impurity" json:"green_tint_impurity,omitempty"`
	PurpleTintImpurity *float64 `mapstructure:"purple_tint_impurity" json:"purple_tint_impurity,omitempty"`
	RedCctImpurity     string   `mapstructure:"red_cct_impurity" json:"red_cct_impurity,omitempty"`
	BlueCctImpurity    string   `mapstructure:"blue_cct_impurity" json:"blue_cct_impurity,omitempty"`
	ImpurityGammaDecay *float64 `mapstructure:"impurity_gamma_decay" json:"impurity_gamma_decay,omitempty"`
}

func (i ImpurityConfig) apply(imp *chroma.Impurity) error {
	if err := checkDuv("green_tint_impurity", i.GreenTintImpurity); err != nil {
		return err
	}
	if err := checkDuv("purple_tint_impurity", i.PurpleTintImpurity); err != nil {
		return err
	}
	if err := checkGamma("impurity_gamma_decay", i.ImpurityGammaDecay); err != nil {
		return err
	}

	imp.GreenTint = valueOr(i.GreenTintImpurity, imp.GreenTint)
	imp.PurpleTint = valueOr(i.PurpleTintImpurity, imp.PurpleTint)
	imp.Decay = valueOr(i.ImpurityGammaDecay, imp.Decay)

	if len(i.RedCctImpurity) > 0 {
		ct, err := ParseColorTemperature(i.RedCctImpurity)
		if err != nil {
			return fmt.Errorf("red_cct_impurity: %w", err)
		}
		imp.Red = ct.Mired()
	}
	if len(i.BlueCctImpurity) > 0 {
		ct, err := ParseColorTemperature(i.BlueCctImpurity)
		if err != nil {
			return fmt.Errorf("blue_cct_impurity: %w", err)
		}
		imp.Blue = ct.Mired()
	}
	return nil
}

// CwWwProfile configures a cold and warm white channel pair.
type CwWwProfile struct {
	ImpurityConfig `mapstructure:",squash"`

	ColdWhite  string   `mapstructure:"cold_white" json:"cold_white,omitempty"`
	WarmWhite  string   `mapstructure:"warm_white" json:"warm_white,omitempty"`
	WhitePoint string   `mapstructure:"white_point" json:"white_point,omitempty"`
	Gamma      *float64 `mapstructure:"gamma" json:"gamma,omitempty"`

	MaxColdWhiteIntensity     *float64 `mapstructure:"max_cold_white_intensity" json:"max_cold_white_intensity,omitempty"`
	MaxWarmWhiteIntensity     *float64 `mapstructure:"max_warm_white_intensity" json:"max_warm_white_intensity,omitempty"`
	MaxCombinedWhiteIntensity *float64 `mapstructure:"max_combined_white_intensity" json:"max_combined_white_intensity,omitempty"`
	MinColdWhiteIntensity     *float64 `mapstructure:"min_cold_white_intensity" json:"min_cold_white_intensity,omitempty"`
	MinWarmWhiteIntensity     *float64 `mapstructure:"min_warm_white_intensity" json:"min_warm_white_intensity,omitempty"`
	MinCombinedWhiteIntensity *float64 `mapstructure:"min_combined_white_intensity" json:"min_combined_white_intensity,omitempty"`

	QuantizationSteps int `mapstructure:"quantization_steps" json:"quantization_steps,omitempty"`
}

// Transform validates the profile and builds the transform it describes.
func (p *CwWwProfile) Transform() (*chroma.CwWwTransform, error) {
	if len(p.ColdWhite) < 1 {
		return nil, fmt.Errorf("cold_white: %w", ErrMissingField)
	}
	if len(p.WarmWhite) < 1 {
		return nil, fmt.Errorf("warm_white: %w", ErrMissingField)
	}

	cold, warm, err := ParseColorTemperatureRange(p.ColdWhite, p.WarmWhite)
	if err != nil {
		return nil, fmt.Errorf("cold_white/warm_white: %w", err)
	}
	t := chroma.NewCwWwTransform(cold, warm)

	if len(p.WhitePoint) > 0 {
		if t.WhitePoint, err = ParseColorTemperature(p.WhitePoint); err != nil {
			return nil, fmt.Errorf("white_point: %w", err)
		}
		// both channels must contribute at the white point
		if wp := t.WhitePoint.Mired(); wp <= cold.Mired() || wp >= warm.Mired() {
			return nil, fmt.Errorf("white_point %s not between %s and %s: %w", t.WhitePoint, cold, warm, ErrInvalidColorTemperature)
		}
	}

	if err := checkGamma("gamma", p.Gamma); err != nil {
		return nil, err
	}
	t.Gamma = valueOr(p.Gamma, t.Gamma)

	if err := p.ImpurityConfig.apply(&t.Impurity); err != nil {
		return nil, err
	}

	for name, v := range map[string]*float64{
		"max_cold_white_intensity":     p.MaxColdWhiteIntensity,
		"max_warm_white_intensity":     p.MaxWarmWhiteIntensity,
		"max_combined_white_intensity": p.MaxCombinedWhiteIntensity,
		"min_cold_white_intensity":     p.MinColdWhiteIntensity,
		"min_warm_white_intensity":     p.MinWarmWhiteIntensity,
		"min_combined_white_intensity": p.MinCombinedWhiteIntensity,
	} {
		if err := checkPercentage(name, v); err != nil {
			return nil, err
		}
	}

	if err := checkSteps(p.QuantizationSteps); err != nil {
		return nil, err
	}

	c := &t.Calibration
	c.MaxCold = valueOr(p.MaxColdWhiteIntensity, c.MaxCold)
	c.MaxWarm = valueOr(p.MaxWarmWhiteIntensity, c.MaxWarm)
	c.MaxCombined = valueOr(p.MaxCombinedWhiteIntensity, c.MaxCombined)
	c.MinCold = valueOr(p.MinColdWhiteIntensity, c.MinCold)
	c.MinWarm = valueOr(p.MinWarmWhiteIntensity, c.MinWarm)
	c.MinCombined = valueOr(p.MinCombinedWhiteIntensity, c.MinCombined)
	c.Steps = p.QuantizationSteps

	return t, nil
}

// WhiteProfile configures a single white channel.
type WhiteProfile struct {
	ImpurityConfig `mapstructure:",squash"`

	// TintImpurity sets both the green and purple tint impurity.
	TintImpurity *float64 `mapstructure:"tint_impurity" json:"tint_impurity,omitempty"`

	WhitePoint string   `mapstructure:"white_point" json:"white_point,omitempty"`
	Gamma      *float64 `mapstructure:"gamma" json:"gamma,omitempty"`

	MaxIntensity      *float64 `mapstructure:"max_intensity" json:"max_intensity,omitempty"`
	MinIntensity      *float64 `mapstructure:"min_intensity" json:"min_intensity,omitempty"`
	QuantizationSteps int      `mapstructure:"quantization_steps" json:"quantization_steps,omitempty"`
}

// Transform validates the profile and builds the transform it describes.
func (p *WhiteProfile) Transform() (*chroma.WhiteTransform, error) {
	if len(p.WhitePoint) < 1 {
		return nil, fmt.Errorf("white_point: %w", ErrMissingField)
	}

	wp, err := ParseColorTemperature(p.WhitePoint)
	if err != nil {
		return nil, fmt.Errorf("white_point: %w", err)
	}
	t := chroma.NewWhiteTransform(wp)

	if err := checkGamma("gamma", p.Gamma); err != nil {
		return nil, err
	}
	t.Gamma = valueOr(p.Gamma, t.Gamma)

	if err := checkDuv("tint_impurity", p.TintImpurity); err != nil {
		return nil, err
	}
	if p.TintImpurity != nil {
		t.Impurity.GreenTint = *p.TintImpurity
		t.Impurity.PurpleTint = *p.TintImpurity
	}
	if err := p.ImpurityConfig.apply(&t.Impurity); err != nil {
		return nil, err
	}

	if err := checkPercentage("max_intensity", p.MaxIntensity); err != nil {
		return nil, err
	}
	if err := checkPercentage("min_intensity", p.MinIntensity); err != nil {
		return nil, err
	}
	if err := checkSteps(p.QuantizationSteps); err != nil {
		return nil, err
	}
	t.Calibration.Max = valueOr(p.MaxIntensity, t.Calibration.Max)
	t.Calibration.Min = valueOr(p.MinIntensity, t.Calibration.Min)
	t.Calibration.Steps = p.QuantizationSteps

	return t, nil
}
