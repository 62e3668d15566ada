package stream

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const sinkBufferSize = 10

// Source broadcasts messages to every sink created from it.
type Source struct {
	logger *zap.Logger

	sinks     map[string]*Sink
	sinksLock sync.Mutex
}

// NewSource creates a new message source.
func NewSource(logger *zap.Logger) *Source {
	return &Source{
		logger: logger,
		sinks:  map[string]*Sink{},
	}
}

// NewSink creates a message sink for this source.
// Sinks must be closed once they are no longer read from.
func (s *Source) NewSink() *Sink {
	sink := &Sink{
		id:      uuid.New().String(),
		channel: make(chan Message, sinkBufferSize),
		source:  s,
	}

	s.sinksLock.Lock()
	s.sinks[sink.id] = sink
	s.sinksLock.Unlock()

	s.logger.Debug("added sink",
		zap.String("sink_id", sink.id))
	return sink
}

// SendMessage sends a message to all created sinks.
func (s *Source) SendMessage(msg Message) {
	s.sinksLock.Lock()

	for _, sink := range s.sinks {
		// Slow sinks miss messages rather than stalling the source
		select {
		case sink.channel <- msg:
		default:
			s.logger.Debug("sink blocked, dropping message",
				zap.String("sink_id", sink.id),
				zap.String("message", msg.String()),
			)
		}
	}

	s.sinksLock.Unlock()
}

// SinkCount returns the number of open sinks.
func (s *Source) SinkCount() int {
	s.sinksLock.Lock()
	defer s.sinksLock.Unlock()

	return len(s.sinks)
}

func (s *Source) removeSink(sink *Sink) {
	s.sinksLock.Lock()
	delete(s.sinks, sink.id)
	s.sinksLock.Unlock()
}
