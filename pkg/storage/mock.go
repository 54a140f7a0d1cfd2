package storage

import (
	"context"
	"errors"
	"sync"
)

// MockStorage is an in-memory Storage for tests. It counts writes so
// callers can assert that no-op operations did not persist.
type MockStorage struct {
	mu        sync.RWMutex
	snapshot  []byte
	saves     int
	pingError error
	loadError error
	saveError error
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

// NewMockStorage creates a new, empty mock storage
func NewMockStorage() *MockStorage {
	return &MockStorage{}
}

// NewMockStorageWith creates a mock storage preloaded with a snapshot.
// Preloading does not count as a save.
func NewMockStorageWith(data []byte) *MockStorage {
	return &MockStorage{snapshot: append([]byte(nil), data...)}
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// SetLoadError makes LoadSnapshot fail with err
func (m *MockStorage) SetLoadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadError = err
}

// SetSaveError makes SaveSnapshot fail with err
func (m *MockStorage) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveError = err
}

// Ping mocks storage ping
func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

// Close mocks storage close
func (m *MockStorage) Close() error {
	return nil
}

// LoadSnapshot returns a copy of the stored bytes
func (m *MockStorage) LoadSnapshot(ctx context.Context) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.loadError != nil {
		return nil, m.loadError
	}
	if m.snapshot == nil {
		return nil, nil
	}
	return append([]byte(nil), m.snapshot...), nil
}

// SaveSnapshot stores a copy of data and counts the write
func (m *MockStorage) SaveSnapshot(ctx context.Context, data []byte) error {
	if data == nil {
		return errors.New("snapshot cannot be nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveError != nil {
		return m.saveError
	}
	m.snapshot = append([]byte(nil), data...)
	m.saves++
	return nil
}

// DeleteSnapshot removes the stored snapshot
func (m *MockStorage) DeleteSnapshot(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot = nil
	return nil
}

// Saves returns how many successful SaveSnapshot calls were made
func (m *MockStorage) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

// Bytes returns a copy of the current snapshot
func (m *MockStorage) Bytes() []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]byte(nil), m.snapshot...)
}
