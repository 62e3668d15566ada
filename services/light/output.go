package light

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/rmrobinson/xylight/lib/colorspace"
	"go.uber.org/zap"
)

var (
	// ErrUnknownChannel is returned if an output does not have a channel with the supplied name.
	ErrUnknownChannel = errors.New("unknown channel")
	// ErrNilArgument is returned if the specified argument is nil but that is not supported.
	ErrNilArgument = errors.New("nil argument")
)

// Channel names used by the outputs.
const (
	ChannelRed       = "red"
	ChannelGreen     = "green"
	ChannelBlue      = "blue"
	ChannelWhite     = "white"
	ChannelColdWhite = "cold_white"
	ChannelWarmWhite = "warm_white"
)

// Channel is a single physical light channel which can be driven to a level in [0, 1].
type Channel interface {
	SetLevel(level float64) error
}

// Output converts colors into levels for a group of channels.
// Outputs are not safe for concurrent use; the Light serializes calls to them.
type Output interface {
	Name() string
	SetColorXYZ(xyz colorspace.XYZ)
	Levels() []ChannelLevel
	SetChannel(name string, ch Channel) error
}

// ChannelLevel is the last level written to a named channel.
type ChannelLevel struct {
	Channel string
	Level   float64
}

// channelSet holds the channels of an output and writes levels to them.
type channelSet struct {
	logger *zap.Logger
	name   string

	calibrationLogging bool

	names    []string
	channels []Channel
	levels   []float64
}

func newChannelSet(logger *zap.Logger, name string, names ...string) channelSet {
	return channelSet{
		logger:   logger,
		name:     name,
		names:    names,
		channels: make([]Channel, len(names)),
		levels:   make([]float64, len(names)),
	}
}

// Name returns the name of the output.
func (s *channelSet) Name() string {
	return s.name
}

// EnableCalibrationLogging logs the normalized and actual level of every channel on each update.
func (s *channelSet) EnableCalibrationLogging(enable bool) {
	s.calibrationLogging = enable
}

// ChannelNames returns the names of the channels in the order they are written.
func (s *channelSet) ChannelNames() []string {
	return append([]string{}, s.names...)
}

// SetChannel assigns the named channel. A nil channel leaves it unconfigured.
func (s *channelSet) SetChannel(name string, ch Channel) error {
	for i, n := range s.names {
		if n == name {
			s.channels[i] = ch
			return nil
		}
	}
	return fmt.Errorf("%s on output %s: %w", name, s.name, ErrUnknownChannel)
}

// Levels returns the last level written to each channel.
func (s *channelSet) Levels() []ChannelLevel {
	levels := make([]ChannelLevel, len(s.names))
	for i, n := range s.names {
		levels[i] = ChannelLevel{Channel: n, Level: s.levels[i]}
	}
	return levels
}

func (s *channelSet) write(levels ...float64) {
	if s.calibrationLogging {
		s.logCalibration(levels)
	}

	for i, level := range levels {
		level = clampLevel(level)
		s.levels[i] = level

		if s.channels[i] == nil {
			continue
		}
		if err := s.channels[i].SetLevel(level); err != nil {
			s.logger.Warn("error setting channel level",
				zap.String("output_name", s.name),
				zap.String("channel_name", s.names[i]),
				zap.Float64("level", level),
				zap.Error(err),
			)
		}
	}
}

func (s *channelSet) logCalibration(levels []float64) {
	max := 0.0
	for _, l := range levels {
		max = math.Max(max, l)
	}

	fields := []zap.Field{zap.String("output_name", s.name)}
	for i, l := range levels {
		normalized := 0.0
		if max > 0 {
			normalized = l / max * 100
		}
		fields = append(fields,
			zap.Float64(s.names[i]+"_normalized_pct", normalized),
			zap.Float64(s.names[i]+"_pct", l*100),
		)
	}
	s.logger.Info("calibration", fields...)
}

func clampLevel(level float64) float64 {
	if math.IsNaN(level) || level < 0 {
		return 0
	}
	if level > 1 {
		return 1
	}
	return level
}

// formatLevels renders the levels as name=percent pairs.
func formatLevels(levels []ChannelLevel) string {
	parts := make([]string, len(levels))
	for i, l := range levels {
		parts[i] = fmt.Sprintf("%s=%.1f%%", l.Channel, l.Level*100)
	}
	return strings.Join(parts, " ")
}
