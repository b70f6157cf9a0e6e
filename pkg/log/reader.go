package log

import (
	"errors"
	"io"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Filter specifies criteria for filtering trace events.
// Empty/nil fields match all events for that criterion.
type Filter struct {
	// TraceID filters by bring-up run.
	TraceID string

	// Component filters by capturing component.
	Component *Component

	// Category filters by event category.
	Category *Category

	// Source filters dispatch events by event source. Non-dispatch
	// events never match a non-empty Source.
	Source string

	// TimeStart filters events at or after this time.
	TimeStart *time.Time

	// TimeEnd filters events before this time.
	TimeEnd *time.Time

	// DeviceID filters by device ID.
	DeviceID string
}

// Matches reports whether the event satisfies all filter criteria.
func (f *Filter) Matches(event Event) bool {
	if f.TraceID != "" && event.TraceID != f.TraceID {
		return false
	}
	if f.Component != nil && event.Component != *f.Component {
		return false
	}
	if f.Category != nil && event.Category != *f.Category {
		return false
	}
	if f.Source != "" && (event.Dispatch == nil || event.Dispatch.Source != f.Source) {
		return false
	}
	if f.TimeStart != nil && event.Timestamp.Before(*f.TimeStart) {
		return false
	}
	if f.TimeEnd != nil && !event.Timestamp.Before(*f.TimeEnd) {
		return false
	}
	if f.DeviceID != "" && event.DeviceID != f.DeviceID {
		return false
	}
	return true
}

// Reader streams trace events from a CBOR-encoded file.
type Reader struct {
	file    *os.File
	decoder *cbor.Decoder
	filter  Filter
}

// NewReader creates a Reader that reads all events from the specified file.
func NewReader(path string) (*Reader, error) {
	return NewFilteredReader(path, Filter{})
}

// NewFilteredReader creates a Reader that reads events matching the filter.
func NewFilteredReader(path string, filter Filter) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Reader{
		file:    f,
		decoder: NewDecoder(f),
		filter:  filter,
	}, nil
}

// Next returns the next event that matches the filter.
// Returns io.EOF when no more events are available.
func (r *Reader) Next() (Event, error) {
	for {
		var event Event
		if err := r.decoder.Decode(&event); err != nil {
			if errors.Is(err, io.EOF) {
				return Event{}, io.EOF
			}
			return Event{}, err
		}
		if r.filter.Matches(event) {
			return event, nil
		}
	}
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}
