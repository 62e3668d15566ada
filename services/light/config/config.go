// Package config loads and validates a light's declarative configuration and builds it.
package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rmrobinson/xylight/services/light/chroma"
	"github.com/spf13/viper"
)

var (
	// ErrInvalidChromaticity is returned if a CIE xy value is malformed or out of range.
	ErrInvalidChromaticity = errors.New("invalid CIE xy chromaticity")
	// ErrInvalidColorTemperature is returned if a color temperature can't be parsed.
	ErrInvalidColorTemperature = errors.New("invalid color temperature")
	// ErrInvalidColor is returned if a hex color can't be parsed.
	ErrInvalidColor = errors.New("invalid color")
	// ErrInvalidPercentage is returned if a percentage is outside of [0, 1].
	ErrInvalidPercentage = errors.New("invalid percentage")
	// ErrInvalidGamma is returned if a gamma is not positive.
	ErrInvalidGamma = errors.New("invalid gamma")
	// ErrInvalidSteps is returned if a quantization step count is negative.
	ErrInvalidSteps = errors.New("invalid quantization steps")
	// ErrInvalidDuv is returned if a Duv impurity is outside of [0, 0.8].
	ErrInvalidDuv = errors.New("invalid Duv")
	// ErrMissingField is returned if a required field is not set.
	ErrMissingField = errors.New("missing field")
	// ErrConflictingFields is returned if fields which exclude each other are both set.
	ErrConflictingFields = errors.New("conflicting fields")
	// ErrUnknownOutputType is returned if an output type is not recognized.
	ErrUnknownOutputType = errors.New("unknown output type")
	// ErrProfileKindMismatch is returned if a referenced profile is of the wrong kind.
	ErrProfileKindMismatch = errors.New("profile kind mismatch")
	// ErrNoProfileSource is returned if a profile id is used without a profile store.
	ErrNoProfileSource = errors.New("no profile source configured")
)

// EnvPrefix is the prefix of the environment variables which override configuration values.
const EnvPrefix = "NVS"

// Output types.
const (
	OutputRGB     = "rgb"
	OutputCwWw    = "cwww"
	OutputWhite   = "white"
	OutputRGBW    = "rgbw"
	OutputRGBCwWw = "rgb_cwww"
)

// Config is the configuration of a light and its hardware.
type Config struct {
	// SourceProfile is the standard profile RGB input values are interpreted in.
	SourceProfile string `mapstructure:"source_profile"`
	// ProfileDB is the path of the sqlite profile store.
	ProfileDB string `mapstructure:"profile_db"`
	// Timezone is the location schedule entries are evaluated in.
	Timezone string `mapstructure:"timezone"`

	Serial   Serial          `mapstructure:"serial"`
	Outputs  []Output        `mapstructure:"outputs"`
	Controls []Control       `mapstructure:"controls"`
	Schedule []ScheduleEntry `mapstructure:"schedule"`
}

// Serial configures the PWM controller attached to a serial port.
// Without a port every channel only logs its levels.
type Serial struct {
	Port     string `mapstructure:"port"`
	Baud     int    `mapstructure:"baud"`
	Channels int    `mapstructure:"channels"`
}

// Output configures one output and the controller channels it drives.
type Output struct {
	Name               string `mapstructure:"name"`
	Type               string `mapstructure:"type"`
	CalibrationLogging bool   `mapstructure:"calibration_logging"`

	RGBProfileID   string        `mapstructure:"rgb_profile_id"`
	RGBProfile     *RGBProfile   `mapstructure:"rgb_profile"`
	CwWwProfileID  string        `mapstructure:"cwww_profile_id"`
	CwWwProfile    *CwWwProfile  `mapstructure:"cwww_profile"`
	WhiteProfileID string        `mapstructure:"white_profile_id"`
	WhiteProfile   *WhiteProfile `mapstructure:"white_profile"`

	// Channels maps channel names, such as "red" or "warm_white", to controller channel indexes.
	Channels map[string]int `mapstructure:"channels"`
}

// Control configures how host state is mapped onto the light, along with its initial state.
type Control struct {
	Type string `mapstructure:"type"`

	ColdWhite string `mapstructure:"cold_white"`
	WarmWhite string `mapstructure:"warm_white"`

	// On is read from "power" since YAML 1.1 decodes a bare on key as a boolean.
	On               bool      `mapstructure:"power"`
	Brightness       *float64  `mapstructure:"brightness"`
	RGB              string    `mapstructure:"rgb"`
	Xy               []float64 `mapstructure:"xy"`
	ColorTemperature string    `mapstructure:"color_temperature"`
}

// ScheduleEntry configures a cron driven change of color temperature and brightness.
type ScheduleEntry struct {
	Name             string   `mapstructure:"name"`
	Spec             string   `mapstructure:"spec"`
	ColorTemperature string   `mapstructure:"color_temperature"`
	Brightness       *float64 `mapstructure:"brightness"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.BindEnv("source_profile")
	v.BindEnv("profile_db")
	v.BindEnv("timezone")
	v.BindEnv("serial.port")
	v.BindEnv("serial.baud")
	v.BindEnv("serial.channels")

	v.SetDefault("source_profile", chroma.StandardACESAP0)
	v.SetDefault("serial.baud", 115200)
	v.SetDefault("serial.channels", 16)
	return v
}

// Load reads the configuration file at path, applies environment overrides and validates it.
// The file format is taken from the extension.
func Load(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return decode(v)
}

// Read parses a configuration of the supplied format, such as "yaml" or "json".
func Read(r io.Reader, format string) (*Config, error) {
	v := newViper()
	v.SetConfigType(format)
	if err := v.ReadConfig(r); err != nil {
		return nil, err
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks every value which can be checked without the profile store.
func (c *Config) Validate() error {
	if _, err := chroma.NewStandardRGBTransform(c.SourceProfile); err != nil {
		return fmt.Errorf("source_profile %q: %w", c.SourceProfile, err)
	}

	names := map[string]bool{}
	for i := range c.Outputs {
		o := &c.Outputs[i]
		if len(o.Name) < 1 {
			return fmt.Errorf("output %d name: %w", i, ErrMissingField)
		}
		if names[o.Name] {
			return fmt.Errorf("output %s defined twice: %w", o.Name, ErrConflictingFields)
		}
		names[o.Name] = true

		if err := o.validate(); err != nil {
			return fmt.Errorf("output %s: %w", o.Name, err)
		}
	}

	for i := range c.Controls {
		if _, err := c.Controls[i].validate(); err != nil {
			return fmt.Errorf("control %d: %w", i, err)
		}
	}

	for _, e := range c.Schedule {
		if _, err := e.entry(); err != nil {
			return fmt.Errorf("schedule %s: %w", e.Name, err)
		}
	}
	return nil
}

func (o *Output) validate() error {
	needRGB, needCwWw, needWhite := false, false, false
	switch o.Type {
	case OutputRGB:
		needRGB = true
	case OutputCwWw:
		needCwWw = true
	case OutputWhite:
		needWhite = true
	case OutputRGBW:
		needRGB, needWhite = true, true
	case OutputRGBCwWw:
		needRGB, needCwWw = true, true
	default:
		return fmt.Errorf("%q: %w", o.Type, ErrUnknownOutputType)
	}

	if err := checkProfileRef("rgb_profile", needRGB, o.RGBProfileID, o.RGBProfile != nil); err != nil {
		return err
	}
	if err := checkProfileRef("cwww_profile", needCwWw, o.CwWwProfileID, o.CwWwProfile != nil); err != nil {
		return err
	}
	if err := checkProfileRef("white_profile", needWhite, o.WhiteProfileID, o.WhiteProfile != nil); err != nil {
		return err
	}

	if o.RGBProfile != nil {
		if _, err := o.RGBProfile.Transform(); err != nil {
			return err
		}
	}
	if o.CwWwProfile != nil {
		if _, err := o.CwWwProfile.Transform(); err != nil {
			return err
		}
	}
	if o.WhiteProfile != nil {
		if _, err := o.WhiteProfile.Transform(); err != nil {
			return err
		}
	}
	return nil
}

func checkProfileRef(name string, needed bool, id string, inline bool) error {
	hasID := len(id) > 0
	switch {
	case needed && !hasID && !inline:
		return fmt.Errorf("%s or %s_id: %w", name, name, ErrMissingField)
	case hasID && inline:
		return fmt.Errorf("%s and %s_id: %w", name, name, ErrConflictingFields)
	case !needed && (hasID || inline):
		return fmt.Errorf("%s not used by this output type: %w", name, ErrConflictingFields)
	}
	return nil
}
