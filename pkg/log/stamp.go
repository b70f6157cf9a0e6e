package log

// StampLogger fills in the run identifiers of events that lack them.
type StampLogger struct {
	next     Logger
	traceID  string
	deviceID string
}

// NewStampLogger wraps next.
func NewStampLogger(next Logger, traceID, deviceID string) *StampLogger {
	return &StampLogger{next: OrNoop(next), traceID: traceID, deviceID: deviceID}
}

// Log stamps the event and forwards it.
func (s *StampLogger) Log(event Event) {
	if event.TraceID == "" {
		event.TraceID = s.traceID
	}
	if event.DeviceID == "" {
		event.DeviceID = s.deviceID
	}
	s.next.Log(event)
}

var _ Logger = (*StampLogger)(nil)
