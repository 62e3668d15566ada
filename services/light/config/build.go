package config

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/rmrobinson/xylight/lib/colorspace"
	"github.com/rmrobinson/xylight/services/light"
	"github.com/rmrobinson/xylight/services/light/chroma"
	"github.com/rmrobinson/xylight/services/light/schedule"
	"github.com/rmrobinson/xylight/services/light/store"
	"go.uber.org/zap"
)

// ProfileSource looks up stored profiles by id.
type ProfileSource interface {
	Profile(ctx context.Context, id string) (*store.Profile, error)
}

// ChannelFactory returns the channel driving the named channel of an output.
type ChannelFactory func(output string, channel string, index int) (light.Channel, error)

// Light is a light built from a configuration.
type Light struct {
	Light    *light.Light
	Controls []*light.Control
	// States holds the initial state of each control.
	States   []light.State
	Schedule []schedule.Entry
	Location *time.Location
}

// Build creates the light, its outputs, controls and schedule entries.
// Profiles referenced by id are loaded from profiles, which may be nil if none are referenced.
// Channels are created by channels; a nil factory leaves every channel unconfigured.
func Build(ctx context.Context, logger *zap.Logger, c *Config, profiles ProfileSource, channels ChannelFactory) (*Light, error) {
	source, err := chroma.NewStandardRGBTransform(c.SourceProfile)
	if err != nil {
		return nil, fmt.Errorf("source_profile %q: %w", c.SourceProfile, err)
	}

	ret := &Light{
		Light:    light.NewLight(logger),
		Location: time.Local,
	}
	if err := ret.Light.SetSourceProfile(source); err != nil {
		return nil, err
	}

	if len(c.Timezone) > 0 {
		if ret.Location, err = time.LoadLocation(c.Timezone); err != nil {
			return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
		}
	}

	for i := range c.Outputs {
		o := &c.Outputs[i]
		out, err := o.build(ctx, logger, profiles)
		if err != nil {
			return nil, fmt.Errorf("output %s: %w", o.Name, err)
		}

		if channels != nil {
			names := make([]string, 0, len(o.Channels))
			for name := range o.Channels {
				names = append(names, name)
			}
			sort.Strings(names)

			for _, name := range names {
				ch, err := channels(o.Name, name, o.Channels[name])
				if err != nil {
					return nil, fmt.Errorf("output %s channel %s: %w", o.Name, name, err)
				}
				if err := out.SetChannel(name, ch); err != nil {
					return nil, err
				}
			}
		}

		if err := ret.Light.AddOutput(out); err != nil {
			return nil, err
		}
	}

	for i := range c.Controls {
		attr, err := c.Controls[i].validate()
		if err != nil {
			return nil, fmt.Errorf("control %d: %w", i, err)
		}

		ctrl := light.NewControl(logger, ret.Light, attr)
		if c.Controls[i].hasRange() {
			cold, warm, _ := ParseColorTemperatureRange(c.Controls[i].ColdWhite, c.Controls[i].WarmWhite)
			ctrl.SetColorTemperatureRange(cold, warm)
		}

		state, _ := c.Controls[i].state()
		ret.Controls = append(ret.Controls, ctrl)
		ret.States = append(ret.States, state)
	}

	for _, e := range c.Schedule {
		entry, err := e.entry()
		if err != nil {
			return nil, fmt.Errorf("schedule %s: %w", e.Name, err)
		}
		ret.Schedule = append(ret.Schedule, entry)
	}

	return ret, nil
}

type calibrationLogger interface {
	EnableCalibrationLogging(enable bool)
}

func (o *Output) build(ctx context.Context, logger *zap.Logger, profiles ProfileSource) (light.Output, error) {
	var out light.Output
	switch o.Type {
	case OutputRGB:
		rgb, err := o.rgbTransform(ctx, profiles)
		if err != nil {
			return nil, err
		}
		out = light.NewRGBOutput(logger, o.Name, rgb)
	case OutputCwWw:
		cwww, err := o.cwwwTransform(ctx, profiles)
		if err != nil {
			return nil, err
		}
		out = light.NewCwWwOutput(logger, o.Name, cwww)
	case OutputWhite:
		white, err := o.whiteTransform(ctx, profiles)
		if err != nil {
			return nil, err
		}
		out = light.NewWhiteOutput(logger, o.Name, white)
	case OutputRGBW:
		rgb, err := o.rgbTransform(ctx, profiles)
		if err != nil {
			return nil, err
		}
		white, err := o.whiteTransform(ctx, profiles)
		if err != nil {
			return nil, err
		}
		out = light.NewRGBWOutput(logger, o.Name, rgb, white)
	case OutputRGBCwWw:
		rgb, err := o.rgbTransform(ctx, profiles)
		if err != nil {
			return nil, err
		}
		cwww, err := o.cwwwTransform(ctx, profiles)
		if err != nil {
			return nil, err
		}
		out = light.NewRGBCwWwOutput(logger, o.Name, rgb, cwww)
	default:
		return nil, fmt.Errorf("%q: %w", o.Type, ErrUnknownOutputType)
	}

	if cl, ok := out.(calibrationLogger); ok {
		cl.EnableCalibrationLogging(o.CalibrationLogging)
	}
	return out, nil
}

func (o *Output) rgbTransform(ctx context.Context, profiles ProfileSource) (*chroma.RGBTransform, error) {
	p := o.RGBProfile
	if p == nil {
		p = &RGBProfile{}
		if err := loadProfile(ctx, profiles, o.RGBProfileID, store.KindRGB, p); err != nil {
			return nil, err
		}
	}
	return p.Transform()
}

func (o *Output) cwwwTransform(ctx context.Context, profiles ProfileSource) (*chroma.CwWwTransform, error) {
	p := o.CwWwProfile
	if p == nil {
		p = &CwWwProfile{}
		if err := loadProfile(ctx, profiles, o.CwWwProfileID, store.KindCwWw, p); err != nil {
			return nil, err
		}
	}
	return p.Transform()
}

func (o *Output) whiteTransform(ctx context.Context, profiles ProfileSource) (*chroma.WhiteTransform, error) {
	p := o.WhiteProfile
	if p == nil {
		p = &WhiteProfile{}
		if err := loadProfile(ctx, profiles, o.WhiteProfileID, store.KindWhite, p); err != nil {
			return nil, err
		}
	}
	return p.Transform()
}

func loadProfile(ctx context.Context, profiles ProfileSource, id string, kind string, out interface{}) error {
	if profiles == nil {
		return fmt.Errorf("profile %s: %w", id, ErrNoProfileSource)
	}

	p, err := profiles.Profile(ctx, id)
	if err != nil {
		return fmt.Errorf("profile %s: %w", id, err)
	}
	if p.Kind != kind {
		return fmt.Errorf("profile %s is %s, not %s: %w", id, p.Kind, kind, ErrProfileKindMismatch)
	}
	return DecodeProfile(p.Data, out)
}

// ProfileKind returns the store kind of an RGBProfile, CwWwProfile or WhiteProfile.
func ProfileKind(p interface{}) (string, error) {
	switch p.(type) {
	case *RGBProfile:
		return store.KindRGB, nil
	case *CwWwProfile:
		return store.KindCwWw, nil
	case *WhiteProfile:
		return store.KindWhite, nil
	}
	return "", fmt.Errorf("%T: %w", p, ErrProfileKindMismatch)
}

// NewStoredProfile validates and serializes a profile so it can be saved to the store.
func NewStoredProfile(name string, p interface{}) (*store.Profile, error) {
	kind, err := ProfileKind(p)
	if err != nil {
		return nil, err
	}

	switch v := p.(type) {
	case *RGBProfile:
		_, err = v.Transform()
	case *CwWwProfile:
		_, err = v.Transform()
	case *WhiteProfile:
		_, err = v.Transform()
	}
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return &store.Profile{
		Name: name,
		Kind: kind,
		Data: data,
	}, nil
}

// DecodeProfile decodes serialized profile data with the same rules as the configuration file.
func DecodeProfile(data []byte, out interface{}) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

func (c *Control) validate() (light.ControlAttribute, error) {
	attr, err := light.ParseControlType(c.Type)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", c.Type, err)
	}

	if c.hasRange() {
		if _, _, err := ParseColorTemperatureRange(c.ColdWhite, c.WarmWhite); err != nil {
			return 0, fmt.Errorf("cold_white/warm_white: %w", err)
		}
	}

	if _, err := c.state(); err != nil {
		return 0, err
	}
	return attr, nil
}

func (c *Control) hasRange() bool {
	return len(c.ColdWhite) > 0 || len(c.WarmWhite) > 0
}

func (c *Control) state() (light.State, error) {
	s := light.State{
		On:         c.On,
		Brightness: 1,
		RGB:        colorspace.RGB{R: 1, G: 1, B: 1},
	}

	if err := checkPercentage("brightness", c.Brightness); err != nil {
		return s, err
	}
	s.Brightness = valueOr(c.Brightness, s.Brightness)

	if len(c.RGB) > 0 {
		rgb, err := ParseHex(c.RGB)
		if err != nil {
			return s, fmt.Errorf("rgb: %w", err)
		}
		s.RGB = rgb
	}
	if len(c.Xy) > 0 {
		xy, err := ParseXy(c.Xy)
		if err != nil {
			return s, fmt.Errorf("xy: %w", err)
		}
		s.Xy = xy
	}
	if len(c.ColorTemperature) > 0 {
		ct, err := ParseColorTemperature(c.ColorTemperature)
		if err != nil {
			return s, fmt.Errorf("color_temperature: %w", err)
		}
		s.ColorTemperature = ct
	}
	return s, nil
}

func (e ScheduleEntry) entry() (schedule.Entry, error) {
	entry := schedule.Entry{
		Name: e.Name,
		Spec: e.Spec,
	}

	if len(e.Name) < 1 {
		return entry, fmt.Errorf("name: %w", ErrMissingField)
	}
	if len(e.Spec) < 1 {
		return entry, fmt.Errorf("spec: %w", ErrMissingField)
	}

	if len(e.ColorTemperature) > 0 {
		ct, err := ParseColorTemperature(e.ColorTemperature)
		if err != nil {
			return entry, fmt.Errorf("color_temperature: %w", err)
		}
		entry.ColorTemperature = ct
	}

	if err := checkPercentage("brightness", e.Brightness); err != nil {
		return entry, err
	}
	if e.Brightness != nil {
		b := *e.Brightness
		entry.Brightness = &b
	}
	return entry, nil
}
