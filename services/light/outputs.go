package light

import (
	"github.com/rmrobinson/xylight/lib/colorspace"
	"github.com/rmrobinson/xylight/services/light/chroma"
	"go.uber.org/zap"
)

// RGBOutput drives red, green and blue channels.
type RGBOutput struct {
	channelSet

	Transform *chroma.RGBTransform
}

// NewRGBOutput creates an RGB output using the supplied transform.
func NewRGBOutput(logger *zap.Logger, name string, t *chroma.RGBTransform) *RGBOutput {
	return &RGBOutput{
		channelSet: newChannelSet(logger, name, ChannelRed, ChannelGreen, ChannelBlue),
		Transform:  t,
	}
}

// SetColorXYZ converts the color and writes it to the channels.
func (o *RGBOutput) SetColorXYZ(xyz colorspace.XYZ) {
	rgb := o.Transform.XYZToRGB(xyz)
	o.write(rgb.R, rgb.G, rgb.B)
}

// CwWwOutput drives a cold white and a warm white channel.
type CwWwOutput struct {
	channelSet

	Transform *chroma.CwWwTransform
}

// NewCwWwOutput creates a cold/warm white output using the supplied transform.
func NewCwWwOutput(logger *zap.Logger, name string, t *chroma.CwWwTransform) *CwWwOutput {
	return &CwWwOutput{
		channelSet: newChannelSet(logger, name, ChannelColdWhite, ChannelWarmWhite),
		Transform:  t,
	}
}

// SetColorXYZ converts the color and writes it to the channels.
func (o *CwWwOutput) SetColorXYZ(xyz colorspace.XYZ) {
	cwww := o.Transform.XYZToCwWw(xyz)
	o.write(cwww.CW, cwww.WW)
}

// WhiteOutput drives a single white channel.
type WhiteOutput struct {
	channelSet

	Transform *chroma.WhiteTransform
}

// NewWhiteOutput creates a white output using the supplied transform.
func NewWhiteOutput(logger *zap.Logger, name string, t *chroma.WhiteTransform) *WhiteOutput {
	return &WhiteOutput{
		channelSet: newChannelSet(logger, name, ChannelWhite),
		Transform:  t,
	}
}

// SetColorXYZ converts the color and writes it to the channel.
func (o *WhiteOutput) SetColorXYZ(xyz colorspace.XYZ) {
	o.write(o.Transform.XYZToWhite(xyz))
}

// RGBWOutput drives red, green, blue and white channels.
// The white channel only lights up for colors close to its own white point.
type RGBWOutput struct {
	channelSet

	RGB   *chroma.RGBTransform
	White *chroma.WhiteTransform
}

// NewRGBWOutput creates an RGBW output using the supplied transforms.
func NewRGBWOutput(logger *zap.Logger, name string, rgb *chroma.RGBTransform, white *chroma.WhiteTransform) *RGBWOutput {
	return &RGBWOutput{
		channelSet: newChannelSet(logger, name, ChannelRed, ChannelGreen, ChannelBlue, ChannelWhite),
		RGB:        rgb,
		White:      white,
	}
}

// SetColorXYZ converts the color and writes it to the channels.
func (o *RGBWOutput) SetColorXYZ(xyz colorspace.XYZ) {
	rgb := o.RGB.XYZToRGB(xyz)
	w := o.White.XYZToWhite(xyz)
	o.write(rgb.R, rgb.G, rgb.B, w)
}

// RGBCwWwOutput drives red, green, blue, cold white and warm white channels.
type RGBCwWwOutput struct {
	channelSet

	RGB  *chroma.RGBTransform
	CwWw *chroma.CwWwTransform
}

// NewRGBCwWwOutput creates an RGB plus cold/warm white output using the supplied transforms.
func NewRGBCwWwOutput(logger *zap.Logger, name string, rgb *chroma.RGBTransform, cwww *chroma.CwWwTransform) *RGBCwWwOutput {
	return &RGBCwWwOutput{
		channelSet: newChannelSet(logger, name, ChannelRed, ChannelGreen, ChannelBlue, ChannelColdWhite, ChannelWarmWhite),
		RGB:        rgb,
		CwWw:       cwww,
	}
}

// SetColorXYZ converts the color and writes it to the channels.
func (o *RGBCwWwOutput) SetColorXYZ(xyz colorspace.XYZ) {
	rgb := o.RGB.XYZToRGB(xyz)
	cwww := o.CwWw.XYZToCwWw(xyz)
	o.write(rgb.R, rgb.G, rgb.B, cwww.CW, cwww.WW)
}
