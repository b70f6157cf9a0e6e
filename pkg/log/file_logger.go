package log

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// FileLogger appends trace events to a .btrace file.
// It is safe for concurrent use from multiple goroutines.
type FileLogger struct {
	mu      sync.Mutex
	file    *os.File
	encoder *cbor.Encoder
	closed  bool
	count   uint64
}

// NewFileLogger opens path for appending, creating the file and its parent
// directory if needed.
func NewFileLogger(path string) (*FileLogger, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &FileLogger{
		file:    f,
		encoder: NewEncoder(f),
	}, nil
}

// Log writes an event to the trace file.
func (l *FileLogger) Log(event Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}

	// Tracing must never disrupt the bring-up.
	if err := l.encoder.Encode(event); err == nil {
		l.count++
	}
}

// Count returns the number of events written so far.
func (l *FileLogger) Count() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}

// Close closes the trace file. Subsequent Log calls are ignored.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}

	l.closed = true
	return l.file.Close()
}

var _ Logger = (*FileLogger)(nil)
