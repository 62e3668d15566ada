package stream

// Message is a value broadcast from a source to its sinks.
type Message interface {
	String() string
}
