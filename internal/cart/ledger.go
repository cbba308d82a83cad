// Package cart implements the cart ledger: an ordered multiset of product ids
// persisted to the client store after every mutation.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"storefront/internal/clientstore"
	"storefront/internal/domain"
	applog "storefront/internal/log"
)

// StorageKey names the cart blob in the client store.
const StorageKey = "vp_cart"

type Ledger struct {
	store clientstore.Store
	key   string
	items []string
}

// Load restores the ledger for clientID. Missing or unparseable data yields
// an empty ledger; only store failures are returned.
func Load(ctx context.Context, store clientstore.Store, clientID string) (*Ledger, error) {
	l := &Ledger{store: store, key: clientstore.Key(StorageKey, clientID), items: []string{}}

	raw, err := store.Get(ctx, l.key)
	if errors.Is(err, clientstore.ErrNotFound) {
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		applog.Warn("cart.load.corrupt", err, map[string]any{"key": l.key})
		return l, nil
	}
	if items != nil {
		l.items = items
	}
	return l, nil
}

// Add appends id. Duplicates are kept.
func (l *Ledger) Add(ctx context.Context, id string) error {
	prev := l.items
	l.items = append(append([]string{}, prev...), id)
	return l.persist(ctx, prev)
}

// Remove drops the first occurrence of id. Absent ids are a no-op.
func (l *Ledger) Remove(ctx context.Context, id string) error {
	idx := -1
	for i, v := range l.items {
		if v == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	prev := l.items
	next := make([]string, 0, len(prev)-1)
	next = append(next, prev[:idx]...)
	next = append(next, prev[idx+1:]...)
	l.items = next
	return l.persist(ctx, prev)
}

func (l *Ledger) Clear(ctx context.Context) error {
	prev := l.items
	l.items = []string{}
	return l.persist(ctx, prev)
}

func (l *Ledger) Count() int { return len(l.items) }

// Items returns a copy of the ordered entries.
func (l *Ledger) Items() []string {
	return append([]string{}, l.items...)
}

// persist writes the current entries; on failure the in-memory state rolls
// back to prev so memory and storage never diverge.
func (l *Ledger) persist(ctx context.Context, prev []string) error {
	b, err := json.Marshal(l.items)
	if err != nil {
		l.items = prev
		return err
	}
	if err := l.store.Set(ctx, l.key, string(b)); err != nil {
		l.items = prev
		return fmt.Errorf("persist cart: %w", err)
	}
	return nil
}

// Resolution is the ledger mapped onto the current catalog.
type Resolution struct {
	Items   []domain.Product `json:"items"`
	Total   decimal.Decimal  `json:"total"`
	Count   int              `json:"count"`
	Missing []string         `json:"-"`
}

// Resolve maps entries to products by id, in ledger order. Entries whose
// product no longer exists are left out of Items and Total and reported in
// Missing.
func (l *Ledger) Resolve(products []domain.Product) Resolution {
	byID := make(map[string]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	res := Resolution{Items: []domain.Product{}, Total: decimal.Zero}
	for _, id := range l.items {
		p, ok := byID[id]
		if !ok {
			res.Missing = append(res.Missing, id)
			continue
		}
		res.Items = append(res.Items, p)
		res.Total = res.Total.Add(p.Price)
	}
	res.Count = len(res.Items)
	return res
}

// Snapshot copies the resolved products into order line items.
func (r Resolution) Snapshot() []domain.LineItem {
	out := make([]domain.LineItem, 0, len(r.Items))
	for _, p := range r.Items {
		out = append(out, domain.SnapshotOf(p))
	}
	return out
}
