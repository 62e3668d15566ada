package stream

// Sink receives the messages broadcast by its parent source.
type Sink struct {
	id      string
	channel chan Message

	source *Source
}

// Messages returns the channel of messages broadcast by the source.
// The channel is buffered, but messages sent while it is full are dropped
// so readers should drain it promptly.
func (s *Sink) Messages() <-chan Message {
	return s.channel
}

// Close detaches the sink from its source and closes the message channel.
func (s *Sink) Close() {
	s.source.removeSink(s)
	close(s.channel)
}
