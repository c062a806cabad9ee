package geoip

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store is the minimal key-value cache scoped to the local client. Retrieve
// misses return false; implementations treat unreadable entries as misses so
// the lookup path stays best-effort.
type Store interface {
	Retrieve(key string) ([]byte, bool)
	Store(key string, value []byte) error
}

// MemoryStore keeps entries for the lifetime of the process. It is the
// default store and the test double.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

func (m *MemoryStore) Retrieve(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.values[key]
	if !ok {
		return nil, false
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, true
}

func (m *MemoryStore) Store(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]byte, len(value))
	copy(stored, value)
	m.values[key] = stored
	return nil
}

// FileStore persists entries as a single JSON document on disk, surviving
// process restarts the way browser-local storage survives reloads.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore builds a store backed by path. The file and its parent
// directory are created on the first write.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("geoip: store path is required")
	}
	return &FileStore{path: path}, nil
}

func (f *FileStore) Retrieve(key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries, err := f.read()
	if err != nil {
		return nil, false
	}
	value, ok := entries[key]
	if !ok {
		return nil, false
	}
	return value, true
}

func (f *FileStore) Store(key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries, err := f.read()
	if err != nil {
		// A corrupt cache file is replaced rather than kept broken.
		entries = make(map[string]json.RawMessage)
	}
	if !json.Valid(value) {
		return fmt.Errorf("geoip: refusing to store non-JSON value for %q", key)
	}
	entries[key] = json.RawMessage(value)

	payload, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("geoip: encode store: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("geoip: create store dir: %w", err)
	}
	if err := os.WriteFile(f.path, payload, 0o644); err != nil {
		return fmt.Errorf("geoip: write store: %w", err)
	}
	return nil
}

func (f *FileStore) read() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, err
	}
	entries := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
