package light

import (
	"errors"
	"testing"

	"github.com/rmrobinson/xylight/lib/colorspace"
	"github.com/rmrobinson/xylight/services/light/chroma"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

type testChannel struct {
	level float64
	calls int
	err   error
}

func (c *testChannel) SetLevel(level float64) error {
	c.calls++
	if c.err != nil {
		return c.err
	}
	c.level = level
	return nil
}

type recordingOutput struct {
	name   string
	colors []colorspace.XYZ
	order  *[]string
}

func (o *recordingOutput) Name() string {
	return o.name
}

func (o *recordingOutput) SetColorXYZ(xyz colorspace.XYZ) {
	o.colors = append(o.colors, xyz)
	if o.order != nil {
		*o.order = append(*o.order, o.name)
	}
}

func (o *recordingOutput) Levels() []ChannelLevel {
	return nil
}

func (o *recordingOutput) SetChannel(name string, ch Channel) error {
	return ErrUnknownChannel
}

func TestRGBOutput(t *testing.T) {
	o := NewRGBOutput(zaptest.NewLogger(t), "strip", chroma.NewRGBTransform())
	o.EnableCalibrationLogging(true)

	red := &testChannel{}
	blue := &testChannel{}
	assert.NoError(t, o.SetChannel(ChannelRed, red))
	assert.NoError(t, o.SetChannel(ChannelBlue, blue))

	white := o.Transform.RGBToXYZ(colorspace.RGB{R: 1, G: 1, B: 1})
	o.SetColorXYZ(white)

	assert.InDelta(t, 1, red.level, 1e-9)
	assert.InDelta(t, 1, blue.level, 1e-9)

	levels := o.Levels()
	assert.Len(t, levels, 3)
	assert.Equal(t, ChannelGreen, levels[1].Channel)
	assert.InDelta(t, 1, levels[1].Level, 1e-9)
}

func TestOutputClampsLevels(t *testing.T) {
	o := NewWhiteOutput(zaptest.NewLogger(t), "lamp", chroma.NewWhiteTransform(colorspace.FromMired(370)))
	w := &testChannel{}
	assert.NoError(t, o.SetChannel(ChannelWhite, w))

	o.SetColorXYZ(colorspace.FromMired(370).Xy().XYZ(5))
	assert.Equal(t, 1.0, w.level)
}

func TestChannelErrorDoesNotStopUpdate(t *testing.T) {
	o := NewRGBOutput(zaptest.NewLogger(t), "strip", chroma.NewRGBTransform())

	red := &testChannel{err: errors.New("pwm unavailable")}
	green := &testChannel{}
	assert.NoError(t, o.SetChannel(ChannelRed, red))
	assert.NoError(t, o.SetChannel(ChannelGreen, green))

	o.SetColorXYZ(o.Transform.RGBToXYZ(colorspace.RGB{R: 0.5, G: 0.5, B: 0.5}))

	assert.Equal(t, 1, red.calls)
	assert.Equal(t, 1, green.calls)
	assert.InDelta(t, 0.5, green.level, 1e-9)
}

func TestUnknownChannel(t *testing.T) {
	o := NewCwWwOutput(zaptest.NewLogger(t), "panel", chroma.NewCwWwTransform(colorspace.FromMired(154), colorspace.FromMired(370)))

	err := o.SetChannel(ChannelRed, &testChannel{})
	assert.True(t, errors.Is(err, ErrUnknownChannel))
	assert.Equal(t, []string{ChannelColdWhite, ChannelWarmWhite}, o.ChannelNames())
}

func TestCombinedOutputs(t *testing.T) {
	logger := zaptest.NewLogger(t)
	warm := colorspace.FromMired(370)

	rgbw := NewRGBWOutput(logger, "rgbw", chroma.NewRGBTransform(), chroma.NewWhiteTransform(warm))
	rgbcwww := NewRGBCwWwOutput(logger, "rgbcwww", chroma.NewRGBTransform(), chroma.NewCwWwTransform(colorspace.FromMired(154), warm))

	xyz := warm.Xy().XYZ(0.5)
	rgbw.SetColorXYZ(xyz)
	rgbcwww.SetColorXYZ(xyz)

	levels := rgbw.Levels()
	assert.Len(t, levels, 4)
	assert.Equal(t, ChannelWhite, levels[3].Channel)
	assert.InDelta(t, 0.5, levels[3].Level, 0.01)

	levels = rgbcwww.Levels()
	assert.Len(t, levels, 5)
	assert.Equal(t, 0.0, levels[3].Level)
	assert.InDelta(t, 0.97, levels[4].Level, 0.03)
}

func TestLightDefaults(t *testing.T) {
	l := NewLight(zaptest.NewLogger(t))

	xyz := l.Apply()
	xy := xyz.Xy()
	assert.InDelta(t, 0.32168, xy.X, 1e-6)
	assert.InDelta(t, 0.33767, xy.Y, 1e-6)
	assert.InDelta(t, 1, xyz.Y, 1e-6)
}

func TestLightFanOutOrder(t *testing.T) {
	l := NewLight(zaptest.NewLogger(t))

	var order []string
	a := &recordingOutput{name: "a", order: &order}
	b := &recordingOutput{name: "b", order: &order}
	assert.NoError(t, l.AddOutput(a))
	assert.NoError(t, l.AddOutput(b))
	assert.Equal(t, ErrNilArgument, l.AddOutput(nil))

	xyz := l.Apply()
	assert.Equal(t, []string{"a", "b"}, order)
	assert.Equal(t, []colorspace.XYZ{xyz}, a.colors)
	assert.Equal(t, []colorspace.XYZ{xyz}, b.colors)
	assert.Len(t, l.Outputs(), 2)
}

func TestLightBrightness(t *testing.T) {
	l := NewLight(zaptest.NewLogger(t))

	l.SetBrightness(0.999)
	assert.InDelta(t, 1, l.Apply().Y, 1e-9)

	l.SetBrightness(0.25)
	assert.InDelta(t, 0.25, l.Apply().Y, 1e-9)
	assert.Equal(t, 0.25, l.Brightness())
}

func TestLightSaturation(t *testing.T) {
	l := NewLight(zaptest.NewLogger(t))
	source, err := chroma.NewStandardRGBTransform(chroma.StandardSRGB)
	assert.NoError(t, err)
	assert.NoError(t, l.SetSourceProfile(source))

	l.SetRGB(colorspace.RGB{R: 1, G: 0, B: 0})
	red := l.Apply()

	l.SetSaturation(0)
	grey := l.Apply()
	assert.InDelta(t, 0.31271, grey.Xy().X, 1e-9)
	assert.InDelta(t, 0.32902, grey.Xy().Y, 1e-9)
	assert.InDelta(t, red.Y, grey.Y, 1e-9)

	l.SetSaturation(0.5)
	half := l.Apply().Xy()
	assert.InDelta(t, (red.Xy().X+0.31271)/2, half.X, 1e-9)
}

func TestLightXy(t *testing.T) {
	l := NewLight(zaptest.NewLogger(t))

	l.SetXy(colorspace.Xy{X: 0.4, Y: 0.4})
	l.SetBrightness(0.5)
	xyz := l.Apply()
	assert.InDelta(t, 0.4, xyz.Xy().X, 1e-9)
	assert.InDelta(t, 0.4, xyz.Xy().Y, 1e-9)
	assert.InDelta(t, 0.5, xyz.Y, 1e-9)

	l.SetRGB(colorspace.RGB{})
	assert.Equal(t, colorspace.XYZ{}, l.Apply())
}

func TestLightColorTemperature(t *testing.T) {
	l := NewLight(zaptest.NewLogger(t))
	ct := colorspace.FromKelvin(2700)

	l.SetColorTemperature(ct)
	assert.Equal(t, ct, l.ColorTemperature())

	xy := l.Apply().Xy()
	assert.InDelta(t, ct.Xy().X, xy.X, 1e-9)
	assert.InDelta(t, ct.Xy().Y, xy.Y, 1e-9)

	l.ResetColorTemperature()
	xy = l.Apply().Xy()
	assert.InDelta(t, 0.32168, xy.X, 1e-6)
}

func TestLightUpdates(t *testing.T) {
	l := NewLight(zaptest.NewLogger(t))
	o := NewWhiteOutput(zaptest.NewLogger(t), "lamp", chroma.NewWhiteTransform(colorspace.FromKelvin(6000)))
	assert.NoError(t, l.AddOutput(o))

	sink := l.Updates()
	defer sink.Close()

	xyz := l.Apply()

	msg := <-sink.Messages()
	update, ok := msg.(*LevelUpdate)
	assert.True(t, ok)
	assert.Equal(t, xyz, update.XYZ)
	assert.Len(t, update.Outputs, 1)
	assert.Equal(t, "lamp", update.Outputs[0].Output)
	assert.Equal(t, o.Levels(), update.Outputs[0].Levels)
	assert.Contains(t, update.String(), "lamp[white=")
}

func TestLightCwWwEndToEnd(t *testing.T) {
	logger := zaptest.NewLogger(t)
	l := NewLight(logger)

	o := NewCwWwOutput(logger, "panel", chroma.NewCwWwTransform(colorspace.FromMired(154), colorspace.FromMired(370)))
	cw := &testChannel{}
	ww := &testChannel{}
	assert.NoError(t, o.SetChannel(ChannelColdWhite, cw))
	assert.NoError(t, o.SetChannel(ChannelWarmWhite, ww))
	assert.NoError(t, l.AddOutput(o))

	l.SetBrightness(0.5)

	l.SetXy(colorspace.FromMired(370).Xy())
	l.Apply()
	assert.Equal(t, 0.0, cw.level)
	assert.InDelta(t, 0.97, ww.level, 0.03)

	l.SetXy(colorspace.FromMired(154).Xy())
	l.Apply()
	assert.InDelta(t, 0.97, cw.level, 0.03)
	assert.InDelta(t, 0, ww.level, 0.01)

	l.SetXy(colorspace.Xy{X: 0.3, Y: 0.6})
	l.Apply()
	assert.Equal(t, 0.0, cw.level)
	assert.Equal(t, 0.0, ww.level)
}
