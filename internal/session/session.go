// Package session provides key-value storage scoped to one user session, the
// terminal counterpart of a browser's sessionStorage.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// Storage is a session-scoped key-value store.
type Storage interface {
	// Get returns the stored value and whether the key was present.
	Get(key string) (string, bool, error)
	// Set overwrites the value for key.
	Set(key, value string) error
}

// Memory keeps values for the lifetime of the process.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values == nil {
		m.values = make(map[string]string)
	}
	m.values[key] = value
	return nil
}

// Files stores one file per key under <dir>/<session id>/. The directory is
// expected to live somewhere the OS clears at logout, such as XDG_RUNTIME_DIR.
type Files struct {
	mu   sync.Mutex
	root string
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// NewFiles returns file-backed storage for the given session.
func NewFiles(dir, sessionID string) (*Files, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("session dir is empty")
	}
	id := sanitize(sessionID)
	if strings.Trim(id, ".") == "" {
		return nil, errors.New("session id is empty")
	}
	return &Files{root: filepath.Join(dir, id)}, nil
}

// Dir returns the directory holding this session's values.
func (f *Files) Dir() string { return f.root }

func (f *Files) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read session value: %w", err)
	}
	return string(data), true, nil
}

func (f *Files) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(f.root, 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	// Write then rename so a crash never leaves a half-written value.
	tmp, err := os.CreateTemp(f.root, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.WriteString(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write session value: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close session value: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path(key)); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("store session value: %w", err)
	}
	return nil
}

// Clear removes every value stored for the session.
func (f *Files) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.RemoveAll(f.root); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (f *Files) path(key string) string {
	return filepath.Join(f.root, sanitize(key)+".json")
}

func sanitize(value string) string {
	return unsafeChars.ReplaceAllString(strings.TrimSpace(value), "_")
}
