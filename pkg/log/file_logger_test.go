package log

import (
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestFileLoggerWriteAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "bringup.btrace")

	fl, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger: %v", err)
	}
	fl.Log(NewStateEvent(ComponentServer, StateEntityServer, "STOPPED", "RUNNING", ""))
	fl.Log(NewStateEvent(ComponentProvisioning, StateEntityStation, "", "CONNECTING", ""))
	if fl.Count() != 2 {
		t.Errorf("Count = %d, want 2", fl.Count())
	}
	if err := fl.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer r.Close()

	var got []Event
	for {
		ev, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		got = append(got, ev)
	}
	if len(got) != 2 {
		t.Fatalf("read %d events, want 2", len(got))
	}
	if got[0].StateChange.NewState != "RUNNING" {
		t.Errorf("first event NewState = %q", got[0].StateChange.NewState)
	}
}

func TestFileLoggerAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "append.btrace")
	for i := 0; i < 2; i++ {
		fl, err := NewFileLogger(path)
		if err != nil {
			t.Fatal(err)
		}
		fl.Log(Event{Timestamp: time.Now(), Component: ComponentOrchestrator})
		fl.Close()
	}

	r, err := NewReader(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	n := 0
	for {
		if _, err := r.Next(); err != nil {
			break
		}
		n++
	}
	if n != 2 {
		t.Errorf("read %d events after reopening, want 2", n)
	}
}

func TestFileLoggerConcurrentAndClosed(t *testing.T) {
	fl, err := NewFileLogger(filepath.Join(t.TempDir(), "c.btrace"))
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				fl.Log(Event{Timestamp: time.Now(), Component: ComponentRouter})
			}
		}()
	}
	wg.Wait()
	if fl.Count() != 200 {
		t.Errorf("Count = %d, want 200", fl.Count())
	}

	if err := fl.Close(); err != nil {
		t.Fatal(err)
	}
	if err := fl.Close(); err != nil {
		t.Errorf("second Close returned %v", err)
	}
	fl.Log(Event{})
	if fl.Count() != 200 {
		t.Error("Log after Close should be ignored")
	}
}
