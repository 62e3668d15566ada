package light

import (
	"errors"
	"sort"

	"github.com/rmrobinson/xylight/lib/colorspace"
	"go.uber.org/zap"
)

var (
	// ErrUnknownControlType is returned if a control type name is not recognized.
	ErrUnknownControlType = errors.New("unknown control type")
)

// ControlAttribute is a set of light state values a control forwards to its light.
type ControlAttribute uint8

// Supported attributes.
const (
	AttributeBrightness ControlAttribute = 1 << iota
	AttributeRGB
	AttributeXY
	AttributeCT
	AttributeCwWw
	AttributeSaturation
	AttributeInterlock
)

// Common attribute combinations.
const (
	ControlRGB           = AttributeRGB
	ControlRGBSaturation = AttributeRGB | AttributeSaturation
	ControlRGBCT         = AttributeRGB | AttributeCT | AttributeInterlock
	ControlRGBCwWw       = AttributeRGB | AttributeCwWw
	ControlCT            = AttributeCT
	ControlCwWw          = AttributeCwWw
	ControlW             = AttributeBrightness
	ControlSaturation    = AttributeSaturation
)

var controlTypes = map[string]ControlAttribute{
	"rgb":            ControlRGB,
	"rgb_saturation": ControlRGBSaturation,
	"rgb_ct":         ControlRGBCT,
	"rgb_cwww":       ControlRGBCwWw,
	"ct":             ControlCT,
	"cwww":           ControlCwWw,
	"w":              ControlW,
	"saturation":     ControlSaturation,
}

// ParseControlType returns the attributes for a named control type such as "rgb_ct".
func ParseControlType(name string) (ControlAttribute, error) {
	attr, ok := controlTypes[name]
	if !ok {
		return 0, ErrUnknownControlType
	}
	return attr, nil
}

// Has reports whether any of the supplied attributes are set.
func (a ControlAttribute) Has(attr ControlAttribute) bool {
	return a&attr != 0
}

// ColorMode is a way a host may drive a light.
type ColorMode string

// Color modes reported by a control.
const (
	ColorModeColorTemperature ColorMode = "color_temperature"
	ColorModeColdWarmWhite    ColorMode = "cold_warm_white"
	ColorModeWhite            ColorMode = "white"
	ColorModeRGB              ColorMode = "rgb"
	ColorModeXY               ColorMode = "xy"
)

// State is the host's view of a light.
type State struct {
	On         bool
	Brightness float64

	RGB colorspace.RGB
	Xy  colorspace.Xy

	ColorTemperature colorspace.ColorTemperature
}

// Control maps host light state onto a Light according to its attributes.
type Control struct {
	logger *zap.Logger
	light  *Light

	attributes ControlAttribute

	cold colorspace.ColorTemperature
	warm colorspace.ColorTemperature
}

// NewControl creates a control for the light with the supplied attributes.
func NewControl(logger *zap.Logger, light *Light, attr ControlAttribute) *Control {
	return &Control{
		logger:     logger,
		light:      light,
		attributes: attr,
	}
}

// AddAttributes adds to the attributes the control forwards.
func (c *Control) AddAttributes(attr ControlAttribute) {
	c.attributes |= attr
}

// Attributes returns the attributes the control forwards.
func (c *Control) Attributes() ControlAttribute {
	return c.attributes
}

// SetColorTemperatureRange limits the color temperatures the control accepts.
func (c *Control) SetColorTemperatureRange(cold, warm colorspace.ColorTemperature) {
	if cold.Mired() > warm.Mired() {
		cold, warm = warm, cold
	}
	c.cold = cold
	c.warm = warm
}

// ColorTemperatureRange returns the coldest and warmest accepted color temperature.
func (c *Control) ColorTemperatureRange() (cold, warm colorspace.ColorTemperature) {
	return c.cold, c.warm
}

// ColorModes returns the color modes supported by the control.
func (c *Control) ColorModes() []ColorMode {
	var modes []ColorMode
	if c.attributes.Has(AttributeCT) {
		modes = append(modes, ColorModeColorTemperature)
	}
	if c.attributes.Has(AttributeCwWw) {
		modes = append(modes, ColorModeColdWarmWhite)
	}
	if c.attributes.Has(AttributeBrightness) {
		modes = append(modes, ColorModeWhite)
	}
	if c.attributes.Has(AttributeRGB) {
		modes = append(modes, ColorModeRGB)
	}
	if c.attributes.Has(AttributeXY) {
		modes = append(modes, ColorModeXY)
	}
	sort.Slice(modes, func(i, j int) bool { return modes[i] < modes[j] })
	return modes
}

func (c *Control) clampColorTemperature(ct colorspace.ColorTemperature) colorspace.ColorTemperature {
	if c.cold.IsZero() || c.warm.IsZero() {
		return ct
	}
	if ct.Mired() < c.cold.Mired() {
		return c.cold
	}
	if ct.Mired() > c.warm.Mired() {
		return c.warm
	}
	return ct
}

// WriteState pushes the state to the light and applies it.
func (c *Control) WriteState(s State) {
	if c.light == nil {
		return
	}

	if c.attributes.Has(AttributeCT | AttributeCwWw) {
		if s.ColorTemperature.IsZero() {
			c.light.ResetColorTemperature()
		} else {
			c.light.SetColorTemperature(c.clampColorTemperature(s.ColorTemperature))
		}
	}

	intensity := 0.0
	if s.On {
		intensity = s.Brightness
	}

	if c.attributes.Has(AttributeSaturation) {
		c.light.SetSaturation(intensity)
	} else {
		c.light.SetBrightness(intensity)
	}

	if c.attributes.Has(AttributeRGB) {
		// gamma is handled by the source profile
		c.light.SetRGB(s.RGB)
	}
	if c.attributes.Has(AttributeXY) {
		c.light.SetXy(s.Xy)
	}

	xyz := c.light.Apply()
	c.logger.Debug("wrote state",
		zap.Bool("on", s.On),
		zap.Float64("intensity", intensity),
		zap.Float64("luminance", xyz.Y),
	)
}
