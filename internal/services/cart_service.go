package services

import (
	"context"

	"storefront/internal/apperr"
	"storefront/internal/cart"
	"storefront/internal/clientstore"
	applog "storefront/internal/log"
	"storefront/internal/metrics"
)

type CartService struct {
	Store   clientstore.Store
	Catalog *CatalogService
	Metrics *metrics.Store
}

func NewCartService(store clientstore.Store, catalog *CatalogService, m *metrics.Store) *CartService {
	return &CartService{Store: store, Catalog: catalog, Metrics: m}
}

// Ledger loads the client's cart.
func (s *CartService) Ledger(ctx context.Context, clientID string) (*cart.Ledger, error) {
	l, err := cart.Load(ctx, s.Store, clientID)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeDependency, err, "cart unavailable")
	}
	return l, nil
}

// View resolves the cart against the current catalog.
func (s *CartService) View(ctx context.Context, clientID string) (cart.Resolution, error) {
	l, err := s.Ledger(ctx, clientID)
	if err != nil {
		return cart.Resolution{}, err
	}
	products, err := s.Catalog.ListProducts(ctx)
	if err != nil {
		return cart.Resolution{}, err
	}
	res := l.Resolve(products)
	if len(res.Missing) > 0 {
		applog.Warn("cart.resolve.missing", nil, map[string]any{"client_id": clientID, "missing": res.Missing})
	}
	return res, nil
}

func (s *CartService) Count(ctx context.Context, clientID string) (int, error) {
	l, err := s.Ledger(ctx, clientID)
	if err != nil {
		return 0, err
	}
	return l.Count(), nil
}

// Add appends productID without checking the catalog and returns the new count.
func (s *CartService) Add(ctx context.Context, clientID, productID string) (int, error) {
	return s.mutate(ctx, clientID, "add", func(l *cart.Ledger) error { return l.Add(ctx, productID) })
}

func (s *CartService) Remove(ctx context.Context, clientID, productID string) (int, error) {
	return s.mutate(ctx, clientID, "remove", func(l *cart.Ledger) error { return l.Remove(ctx, productID) })
}

func (s *CartService) Clear(ctx context.Context, clientID string) error {
	_, err := s.mutate(ctx, clientID, "clear", func(l *cart.Ledger) error { return l.Clear(ctx) })
	return err
}

func (s *CartService) mutate(ctx context.Context, clientID, op string, fn func(*cart.Ledger) error) (int, error) {
	l, err := s.Ledger(ctx, clientID)
	if err != nil {
		return 0, err
	}
	if err := fn(l); err != nil {
		return 0, apperr.Wrap(apperr.CodeDependency, err, "cart could not be saved")
	}
	s.Metrics.CartMutation(op)
	return l.Count(), nil
}
