package repositories

import (
	"context"
	"sync"
)

// MemoryStore is a [CredentialStore] kept in process memory.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string]string{}}
}

func (m *MemoryStore) get(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key], nil
}

func (m *MemoryStore) set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStore) Token(context.Context) (string, error) { return m.get(KeyToken) }

func (m *MemoryStore) SetToken(_ context.Context, token string) error { return m.set(KeyToken, token) }

func (m *MemoryStore) ClearToken(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, KeyToken)
	return nil
}

func (m *MemoryStore) Theme(context.Context) (string, error) { return m.get(KeyTheme) }

func (m *MemoryStore) SetTheme(_ context.Context, theme string) error { return m.set(KeyTheme, theme) }
