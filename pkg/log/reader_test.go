package log

import (
	"io"
	"path/filepath"
	"testing"
	"time"
)

func writeTrace(t *testing.T, events ...Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trace.btrace")
	fl, err := NewFileLogger(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, ev := range events {
		fl.Log(ev)
	}
	if err := fl.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func readAll(t *testing.T, r *Reader) []Event {
	t.Helper()
	defer r.Close()
	var out []Event
	for {
		ev, err := r.Next()
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		out = append(out, ev)
	}
}

func TestFilteredReader(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	path := writeTrace(t,
		Event{Timestamp: base, TraceID: "a", Component: ComponentRouter, Category: CategoryDispatch,
			Dispatch: &DispatchEvent{Source: "WIFI_EVENT", ID: 2}},
		Event{Timestamp: base.Add(time.Second), TraceID: "a", Component: ComponentRouter, Category: CategoryDispatch,
			Dispatch: &DispatchEvent{Source: "IP_EVENT", ID: 0}},
		Event{Timestamp: base.Add(2 * time.Second), TraceID: "b", Component: ComponentServer, Category: CategoryState,
			StateChange: &StateChangeEvent{Entity: StateEntityServer, NewState: "RUNNING"}},
	)

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"all", Filter{}, 3},
		{"trace id", Filter{TraceID: "a"}, 2},
		{"source", Filter{Source: "IP_EVENT"}, 1},
		{"component", Filter{Component: ptr(ComponentServer)}, 1},
		{"category", Filter{Category: ptr(CategoryDispatch)}, 2},
		{"time window", Filter{TimeStart: ptr(base.Add(time.Second)), TimeEnd: ptr(base.Add(2 * time.Second))}, 1},
		{"no match", Filter{DeviceID: "other"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewFilteredReader(path, tt.filter)
			if err != nil {
				t.Fatal(err)
			}
			if got := len(readAll(t, r)); got != tt.want {
				t.Errorf("got %d events, want %d", got, tt.want)
			}
		})
	}
}

func TestNewReaderMissingFile(t *testing.T) {
	if _, err := NewReader(filepath.Join(t.TempDir(), "missing.btrace")); err == nil {
		t.Error("expected error for missing file")
	}
}

func ptr[T any](v T) *T { return &v }
