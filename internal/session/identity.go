// Package session binds a client to its signed token and its authenticated
// identity.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"storefront/internal/clientstore"
	"storefront/internal/domain"
	applog "storefront/internal/log"
)

// StorageKey names the identity blob in the client store.
const StorageKey = "vp_session"

// Identities is the single read/write accessor for a client's identity.
type Identities struct {
	store clientstore.Store
}

func NewIdentities(store clientstore.Store) *Identities {
	return &Identities{store: store}
}

// Current returns the client's identity, or nil when there is none. Corrupt
// or incomplete blobs are treated as absent.
func (s *Identities) Current(ctx context.Context, clientID string) (*domain.Identity, error) {
	key := clientstore.Key(StorageKey, clientID)
	raw, err := s.store.Get(ctx, key)
	if errors.Is(err, clientstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	var id domain.Identity
	if err := json.Unmarshal([]byte(raw), &id); err != nil {
		applog.Warn("session.load.corrupt", err, map[string]any{"key": key})
		return nil, nil
	}
	if !id.Valid() {
		applog.Warn("session.load.incomplete", nil, map[string]any{"key": key})
		return nil, nil
	}
	return &id, nil
}

// Bind replaces any identity held by the client.
func (s *Identities) Bind(ctx context.Context, clientID string, id domain.Identity) error {
	b, err := json.Marshal(id)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, clientstore.Key(StorageKey, clientID), string(b))
}

func (s *Identities) Unbind(ctx context.Context, clientID string) error {
	return s.store.Del(ctx, clientstore.Key(StorageKey, clientID))
}
