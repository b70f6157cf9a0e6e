package persistence

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// StateVersion is the current version of the state file format.
const StateVersion = 1

// StationState is the persisted station configuration.
type StationState struct {
	// Version is the state file format version.
	Version int `json:"version"`

	// SavedAt is when the state was last saved.
	SavedAt time.Time `json:"saved_at"`

	// SSID of the access point to join.
	SSID string `json:"ssid"`

	// Passphrase for the access point (empty for open networks).
	Passphrase string `json:"passphrase,omitempty"`

	// Source records how the configuration was obtained (e.g. "softap").
	Source string `json:"source,omitempty"`

	// ConnectedAt is the last time an address was acquired with this
	// configuration.
	ConnectedAt time.Time `json:"connected_at,omitempty"`
}

// Configured reports whether the state holds a usable station configuration.
func (s *StationState) Configured() bool {
	return s != nil && s.SSID != ""
}

// StationStore loads and saves the station configuration.
type StationStore interface {
	// Load returns nil, nil when nothing is stored.
	Load() (*StationState, error)
	Save(state *StationState) error
	Clear() error
}

// FileStore keeps the station state in a JSON file.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a file-backed store.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the state file path.
func (s *FileStore) Path() string {
	return s.path
}

// Save persists the station state to disk.
func (s *FileStore) Save(state *StationState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}

	state.Version = StateVersion
	if state.SavedAt.IsZero() {
		state.SavedAt = time.Now()
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	// Credentials: owner-only.
	return os.WriteFile(s.path, data, 0600)
}

// Load reads the station state from disk.
// Returns nil, nil if the file doesn't exist.
func (s *FileStore) Load() (*StationState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	state := &StationState{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, err
	}
	return state, nil
}

// Clear removes the state file.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// MemoryStore keeps the station state in memory.
type MemoryStore struct {
	mu    sync.Mutex
	state *StationState
}

// NewMemoryStore creates a store, optionally pre-populated.
func NewMemoryStore(initial *StationState) *MemoryStore {
	m := &MemoryStore{}
	if initial != nil {
		cp := *initial
		m.state = &cp
	}
	return m
}

// Load returns a copy of the stored state.
func (m *MemoryStore) Load() (*StationState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return nil, nil
	}
	cp := *m.state
	return &cp, nil
}

// Save stores a copy of state.
func (m *MemoryStore) Save(state *StationState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *state
	cp.Version = StateVersion
	if cp.SavedAt.IsZero() {
		cp.SavedAt = time.Now()
	}
	m.state = &cp
	return nil
}

// Clear drops the stored state.
func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = nil
	return nil
}

var (
	_ StationStore = (*FileStore)(nil)
	_ StationStore = (*MemoryStore)(nil)
)
