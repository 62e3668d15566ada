package driver

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

type bufferPort struct {
	bytes.Buffer
	closed bool
	err    error
}

func (p *bufferPort) Write(b []byte) (int, error) {
	if p.err != nil {
		return 0, p.err
	}
	return p.Buffer.Write(b)
}

func (p *bufferPort) Close() error {
	p.closed = true
	return nil
}

var dutyTests = []struct {
	name  string
	level float64
	duty  uint16
}{
	{"off", 0, 0},
	{"negative", -0.5, 0},
	{"nan", math.NaN(), 0},
	{"full", 1, MaxDuty},
	{"over", 1.5, MaxDuty},
	{"half", 0.5, 32768},
}

func TestDuty(t *testing.T) {
	for _, tt := range dutyTests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.duty, Duty(tt.level))
		})
	}
}

func TestSerialChannelFrames(t *testing.T) {
	port := &bufferPort{}
	c := NewSerialController(zaptest.NewLogger(t), port, 4)

	ch, err := c.Channel(2)
	assert.NoError(t, err)
	assert.Equal(t, 2, ch.Index())

	assert.NoError(t, ch.SetLevel(1))
	assert.NoError(t, ch.SetLevel(0.5))

	assert.Equal(t, []byte{
		0xA5, 0x02, 0xFF, 0xFF, 0x02,
		0xA5, 0x02, 0x80, 0x00, 0x82,
	}, port.Bytes())
}

var channelIndexTests = []struct {
	name  string
	index int
	err   error
}{
	{"first", 0, nil},
	{"last", 3, nil},
	{"negative", -1, ErrChannelIndexInvalid},
	{"past end", 4, ErrChannelIndexInvalid},
}

func TestChannelIndex(t *testing.T) {
	c := NewSerialController(zaptest.NewLogger(t), &bufferPort{}, 4)
	for _, tt := range channelIndexTests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Channel(tt.index)
			assert.Equal(t, tt.err, err)
		})
	}
}

func TestSerialControllerClose(t *testing.T) {
	port := &bufferPort{}
	c := NewSerialController(zaptest.NewLogger(t), port, 1)
	ch, err := c.Channel(0)
	assert.NoError(t, err)

	assert.NoError(t, c.Close())
	assert.True(t, port.closed)
	assert.NoError(t, c.Close())
	assert.Equal(t, ErrControllerClosed, ch.SetLevel(1))
}

func TestSerialWriteError(t *testing.T) {
	writeErr := errors.New("device unplugged")
	c := NewSerialController(zaptest.NewLogger(t), &bufferPort{err: writeErr}, 1)
	ch, err := c.Channel(0)
	assert.NoError(t, err)
	assert.Equal(t, writeErr, ch.SetLevel(0.25))
}

func TestLogAndMemoryChannels(t *testing.T) {
	assert.NoError(t, NewLogChannel(zaptest.NewLogger(t), "lamp.white").SetLevel(0.3))

	m := &MemoryChannel{}
	assert.NoError(t, m.SetLevel(0.3))
	assert.NoError(t, m.SetLevel(0.6))
	assert.Equal(t, 0.6, m.Level())
	assert.Equal(t, 2, m.Writes())
}
