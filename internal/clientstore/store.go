// Package clientstore holds the opaque per-client blobs that a browser would
// keep in local storage: the cart ledger and the session identity.
package clientstore

import (
	"context"
	"errors"
	"sync"
)

var ErrNotFound = errors.New("client store: key not found")

// Store is a string key-value store. Implementations must make Set visible
// to a following Get on the same key.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, key string) error
}

// Key namespaces a client-owned blob, e.g. Key("vp_cart", clientID).
func Key(name, clientID string) string {
	return name + ":" + clientID
}

// Memory is an in-process Store.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *Memory) Del(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
