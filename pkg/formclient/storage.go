// Package formclient implements the landing page's client-side form
// plumbing: a session tracker over session-scoped storage, the abandonment
// detector wired to page lifecycle signals, and a small API client for the
// lead-capture endpoints.
package formclient

import (
	"errors"
	"io"
	"log/slog"
	"sync"
)

// ErrStorageUnavailable is returned by storage that cannot be accessed,
// e.g. session storage disabled in private browsing.
var ErrStorageUnavailable = errors.New("session storage unavailable")

// Storage is a session-scoped key/value store. Any call may fail.
type Storage interface {
	GetItem(key string) (value string, ok bool, err error)
	SetItem(key, value string) error
	RemoveItem(key string) error
}

// MemoryStorage keeps items in process memory.
type MemoryStorage struct {
	mu    sync.RWMutex
	items map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{items: make(map[string]string)}
}

func (m *MemoryStorage) GetItem(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.items[key]
	return value, ok, nil
}

func (m *MemoryStorage) SetItem(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *MemoryStorage) RemoveItem(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

// UnavailableStorage fails every call with ErrStorageUnavailable.
type UnavailableStorage struct{}

func (UnavailableStorage) GetItem(string) (string, bool, error) {
	return "", false, ErrStorageUnavailable
}
func (UnavailableStorage) SetItem(string, string) error { return ErrStorageUnavailable }
func (UnavailableStorage) RemoveItem(string) error      { return ErrStorageUnavailable }

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
