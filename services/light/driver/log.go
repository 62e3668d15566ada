package driver

import (
	"sync"

	"go.uber.org/zap"
)

// LogChannel logs every level written to it. It is used when no hardware is attached.
type LogChannel struct {
	logger *zap.Logger
	name   string
}

// NewLogChannel creates a channel logging under the supplied name.
func NewLogChannel(logger *zap.Logger, name string) *LogChannel {
	return &LogChannel{
		logger: logger,
		name:   name,
	}
}

// SetLevel logs the level.
func (c *LogChannel) SetLevel(level float64) error {
	c.logger.Debug("set level",
		zap.String("channel_name", c.name),
		zap.Float64("level", level),
		zap.Uint16("duty", Duty(level)),
	)
	return nil
}

// MemoryChannel keeps the last level written to it.
type MemoryChannel struct {
	lock  sync.Mutex
	level float64
	count int
}

// SetLevel records the level.
func (c *MemoryChannel) SetLevel(level float64) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.level = level
	c.count++
	return nil
}

// Level returns the last level written.
func (c *MemoryChannel) Level() float64 {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.level
}

// Writes returns how many levels have been written.
func (c *MemoryChannel) Writes() int {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.count
}
