package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MockStorage is an in-memory Storage for testing
type MockStorage struct {
	mu        sync.RWMutex
	stories   map[string]string
	pingError error
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

// NewMockStorage creates a new mock storage
func NewMockStorage() *MockStorage {
	return &MockStorage{
		stories: make(map[string]string),
	}
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MockStorage) Close() error {
	return nil
}

func (m *MockStorage) ListStories(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.stories))
	for name := range m.stories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (m *MockStorage) GetStory(ctx context.Context, name string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	source, ok := m.stories[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return source, nil
}

func (m *MockStorage) SaveStory(ctx context.Context, name, source string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stories[name] = source
	return nil
}

func (m *MockStorage) DeleteStory(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stories, name)
	return nil
}
