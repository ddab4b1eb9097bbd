package apiclient

import (
	"context"
	"sync"
)

// TokenStore persists the visitor's bearer token between requests.
// The client reads it before every call and deletes it when the API
// answers 401.
type TokenStore interface {
	Token(ctx context.Context) (string, bool)
	SetToken(ctx context.Context, token string) error
	DeleteToken(ctx context.Context) error
}

// MemoryTokens is an in-process TokenStore, used by tests and tools.
type MemoryTokens struct {
	token string
	mu    sync.RWMutex
}

// NewMemoryTokens returns a store holding the given token (empty for none).
func NewMemoryTokens(token string) *MemoryTokens {
	return &MemoryTokens{token: token}
}

func (m *MemoryTokens) Token(context.Context) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, m.token != ""
}

func (m *MemoryTokens) SetToken(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *MemoryTokens) DeleteToken(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}

var _ TokenStore = (*MemoryTokens)(nil)
