package token

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-token-server/sessions"
)

var _ Registry = (*InMemoryRegistry)(nil)

// identityMap is a map guarded by its own lock.
type identityMap struct {
	mu      sync.RWMutex
	entries map[string]sessions.Identity
}

func newIdentityMap() *identityMap {
	return &identityMap{entries: make(map[string]sessions.Identity)}
}

func (m *identityMap) put(token string, identity sessions.Identity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[token] = identity
}

func (m *identityMap) get(token string) (sessions.Identity, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	identity, ok := m.entries[token]
	return identity, ok
}

func (m *identityMap) delete(token string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[token]; !ok {
		return false
	}
	delete(m.entries, token)
	return true
}

func (m *identityMap) len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// InMemoryRegistry keeps tokens in process memory. Its contents are lost on restart.
type InMemoryRegistry struct {
	access  *identityMap
	refresh *identityMap
}

// NewInMemoryRegistry creates an empty registry.
func NewInMemoryRegistry() *InMemoryRegistry {
	return &InMemoryRegistry{
		access:  newIdentityMap(),
		refresh: newIdentityMap(),
	}
}

func (r *InMemoryRegistry) PutAccess(_ context.Context, token string, identity sessions.Identity) error {
	r.access.put(token, identity)
	return nil
}

func (r *InMemoryRegistry) PutRefresh(_ context.Context, token string, identity sessions.Identity) error {
	r.refresh.put(token, identity)
	return nil
}

func (r *InMemoryRegistry) GetAccess(_ context.Context, token string) (sessions.Identity, bool, error) {
	identity, ok := r.access.get(token)
	return identity, ok, nil
}

func (r *InMemoryRegistry) GetRefresh(_ context.Context, token string) (sessions.Identity, bool, error) {
	identity, ok := r.refresh.get(token)
	return identity, ok, nil
}

func (r *InMemoryRegistry) DeleteAccess(_ context.Context, token string) (bool, error) {
	return r.access.delete(token), nil
}

func (r *InMemoryRegistry) Len(_ context.Context) (int, int, error) {
	return r.access.len(), r.refresh.len(), nil
}
