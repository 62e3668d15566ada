// Package driver contains the channel sinks a light output writes its levels to.
package driver

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/tarm/serial"
	"go.uber.org/zap"
)

var (
	// ErrChannelIndexInvalid is returned if a channel index is outside of the controller's range.
	ErrChannelIndexInvalid = errors.New("channel index invalid")
	// ErrControllerClosed is returned if a level is written after the controller is closed.
	ErrControllerClosed = errors.New("controller closed")
)

const (
	// DefaultBaudRate is the baud rate used if none is configured.
	DefaultBaudRate = 115200
	// MaxDuty is the duty cycle of a channel at full level.
	MaxDuty = 0xFFFF

	frameStart = 0xA5
	frameSize  = 5
)

// SerialController drives the PWM channels of a controller attached to a serial port.
// Each level is sent as a 5 byte frame: start marker, channel index, big endian 16 bit duty and
// an XOR checksum of the index and duty bytes.
type SerialController struct {
	logger *zap.Logger

	lock     sync.Mutex
	port     io.WriteCloser
	channels int
}

// OpenSerialController opens the serial port at path and returns a controller with the supplied number of channels.
func OpenSerialController(logger *zap.Logger, path string, baud int, channels int) (*SerialController, error) {
	if baud < 1 {
		baud = DefaultBaudRate
	}

	c := &serial.Config{
		Name: path,
		Baud: baud,
	}
	port, err := serial.OpenPort(c)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	logger.Info("opened serial controller",
		zap.String("port_path", path),
		zap.Int("baud", baud),
		zap.Int("channels", channels),
	)
	return NewSerialController(logger, port, channels), nil
}

// NewSerialController creates a controller writing to an already open port.
func NewSerialController(logger *zap.Logger, port io.WriteCloser, channels int) *SerialController {
	return &SerialController{
		logger:   logger,
		port:     port,
		channels: channels,
	}
}

// Channel returns the channel at the supplied index.
func (c *SerialController) Channel(index int) (*SerialChannel, error) {
	if index < 0 || index >= c.channels || index > math.MaxUint8 {
		return nil, ErrChannelIndexInvalid
	}
	return &SerialChannel{
		controller: c,
		index:      index,
	}, nil
}

// Close closes the serial port.
func (c *SerialController) Close() error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.port == nil {
		return nil
	}
	err := c.port.Close()
	c.port = nil
	return err
}

func (c *SerialController) write(index int, level float64) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.port == nil {
		return ErrControllerClosed
	}

	_, err := c.port.Write(frame(index, Duty(level)))
	if err != nil {
		c.logger.Debug("error writing frame",
			zap.Int("channel_index", index),
			zap.Error(err),
		)
	}
	return err
}

// Duty converts a level in [0, 1] to a duty cycle. Levels outside of the range are clamped.
func Duty(level float64) uint16 {
	if math.IsNaN(level) || level <= 0 {
		return 0
	}
	if level >= 1 {
		return MaxDuty
	}
	return uint16(math.Round(level * MaxDuty))
}

func frame(index int, duty uint16) []byte {
	b := make([]byte, frameSize)
	b[0] = frameStart
	b[1] = byte(index)
	b[2] = byte(duty >> 8)
	b[3] = byte(duty)
	b[4] = b[1] ^ b[2] ^ b[3]
	return b
}

// SerialChannel is a single channel of a serial controller.
type SerialChannel struct {
	controller *SerialController
	index      int
}

// Index returns the channel's index on its controller.
func (c *SerialChannel) Index() int {
	return c.index
}

// SetLevel sends the level to the controller.
func (c *SerialChannel) SetLevel(level float64) error {
	return c.controller.write(c.index, level)
}
