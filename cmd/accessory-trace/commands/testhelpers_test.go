package commands

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/dbahrdt/accessory-bringup/pkg/log"
)

var baseTime = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func sampleEvents() []log.Event {
	code := 7
	return []log.Event{
		{
			Timestamp: baseTime,
			TraceID:   "11111111-aaaa-bbbb-cccc-000000000001",
			DeviceID:  "AA:BB:CC:DD:EE:FF",
			Component: log.ComponentOrchestrator,
			Category:  log.CategoryState,
			StateChange: &log.StateChangeEvent{
				Entity:   log.StateEntityBringup,
				OldState: "IDLE",
				NewState: "INIT_ACCESSORY",
			},
		},
		{
			Timestamp: baseTime.Add(20 * time.Millisecond),
			TraceID:   "11111111-aaaa-bbbb-cccc-000000000001",
			Component: log.ComponentRouter,
			Category:  log.CategoryDispatch,
			Dispatch: &log.DispatchEvent{
				Source:   "WIFI_EVENT",
				ID:       2,
				Name:     "STA_START",
				Seq:      1,
				Handlers: 2,
				Latency:  1500 * time.Microsecond,
			},
		},
		{
			Timestamp: baseTime.Add(40 * time.Millisecond),
			TraceID:   "11111111-aaaa-bbbb-cccc-000000000001",
			Component: log.ComponentRouter,
			Category:  log.CategoryDispatch,
			Dispatch: &log.DispatchEvent{
				Source: "IP_EVENT",
				ID:     0,
				Seq:    2,
			},
		},
		{
			Timestamp: baseTime.Add(2 * time.Second),
			TraceID:   "11111111-aaaa-bbbb-cccc-000000000001",
			Component: log.ComponentServer,
			Category:  log.CategoryError,
			Error: &log.ErrorEventData{
				Message:   "certificate rejected",
				Operation: "start",
				Code:      &code,
				Fatal:     true,
			},
		},
		{
			Timestamp: baseTime.Add(2*time.Second + time.Millisecond),
			TraceID:   "11111111-aaaa-bbbb-cccc-000000000001",
			Component: log.ComponentOrchestrator,
			Category:  log.CategoryState,
			StateChange: &log.StateChangeEvent{
				Entity:   log.StateEntityBringup,
				OldState: "RUNNING",
				NewState: "FAILED",
				Reason:   "server",
			},
		},
		{
			Timestamp: baseTime.Add(time.Minute),
			TraceID:   "22222222-aaaa-bbbb-cccc-000000000002",
			Component: log.ComponentOrchestrator,
			Category:  log.CategoryState,
			StateChange: &log.StateChangeEvent{
				Entity:   log.StateEntityBringup,
				OldState: "IDLE",
				NewState: "INIT_ACCESSORY",
			},
		},
	}
}

func writeTrace(t *testing.T, events []log.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.btrace")
	fl, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger: %v", err)
	}
	for _, e := range events {
		fl.Log(e)
	}
	if err := fl.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return path
}
