package log

// Logger is the interface applications implement to receive trace events.
// Pass nil or NoopLogger to disable tracing.
type Logger interface {
	// Log records a trace event. Implementations must be thread-safe.
	// Log is called from event-dispatch goroutines and must not block.
	Log(event Event)
}

// NoopLogger discards all events. Use when tracing is disabled.
// NoopLogger is safe for concurrent use and usable as a zero value.
type NoopLogger struct{}

// Log discards the event.
func (NoopLogger) Log(Event) {}

// OrNoop returns l, or NoopLogger when l is nil.
func OrNoop(l Logger) Logger {
	if l == nil {
		return NoopLogger{}
	}
	return l
}

// Compile-time interface satisfaction check.
var _ Logger = NoopLogger{}
