package storage

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
)

// KV is the durable key-value store the app state lives in.
type KV interface {
	// Get returns the value for key and whether it was present.
	Get(key string) ([]byte, bool, error)
	// Set overwrites the value for key.
	Set(key string, value []byte) error
	Close() error
}

// recoverer is implemented by stores that keep a previous copy of each
// value around and can move a broken value out of the way.
type recoverer interface {
	Backup(key string) ([]byte, bool, error)
	Quarantine(key string) string
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Open returns the KV for the named backend rooted at dir.
func Open(backend, dir string) (KV, error) {
	switch backend {
	case "", BackendFile:
		return NewFileKV(dir)
	case BackendSQLite:
		return NewSQLiteKV(filepath.Join(dir, "todo.db"))
	default:
		return nil, fmt.Errorf("unknown storage backend %q (want %q or %q)", backend, BackendFile, BackendSQLite)
	}
}

// ErrWriteFailed is returned by MemoryKV when writes are switched off.
var ErrWriteFailed = errors.New("storage unavailable")

// MemoryKV keeps values in a map. It is meant for tests.
type MemoryKV struct {
	mu         sync.Mutex
	values     map[string][]byte
	failWrites bool
	writes     int
}

// NewMemoryKV returns an empty in-memory store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string][]byte)}
}

// Get implements KV.
func (m *MemoryKV) Get(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Set implements KV.
func (m *MemoryKV) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites {
		return fmt.Errorf("set %s: %w", key, ErrWriteFailed)
	}
	m.values[key] = append([]byte(nil), value...)
	m.writes++
	return nil
}

// Close implements KV.
func (m *MemoryKV) Close() error { return nil }

// FailWrites makes every following Set fail until called with false.
func (m *MemoryKV) FailWrites(fail bool) {
	m.mu.Lock()
	m.failWrites = fail
	m.mu.Unlock()
}

// Writes returns the number of successful Set calls.
func (m *MemoryKV) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
