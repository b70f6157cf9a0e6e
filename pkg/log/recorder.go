package log

import (
	"sync"
)

// Recorder keeps trace events in memory. It backs the interactive console's
// trace command and is handy in tests.
type Recorder struct {
	mu     sync.Mutex
	events []Event
	limit  int
}

// NewRecorder creates a Recorder retaining at most limit events (the oldest
// are dropped first). A limit <= 0 retains everything.
func NewRecorder(limit int) *Recorder {
	return &Recorder{limit: limit}
}

// Log stores the event.
func (r *Recorder) Log(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	if r.limit > 0 && len(r.events) > r.limit {
		r.events = append(r.events[:0:0], r.events[len(r.events)-r.limit:]...)
	}
}

// Events returns a copy of the retained events matching filter.
func (r *Recorder) Events(filter Filter) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, 0, len(r.events))
	for _, e := range r.events {
		if filter.Matches(e) {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of retained events.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// Reset discards all retained events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

var _ Logger = (*Recorder)(nil)
