package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"storefront/internal/domain"
)

// Dashboard is the admin landing summary.
type Dashboard struct {
	ProductCount int            `json:"productCount"`
	OrderCount   int            `json:"orderCount"`
	ByStatus     map[string]int `json:"byStatus"`
	Recent       []domain.Order `json:"recentOrders"`
}

type AdminService struct {
	Catalog *CatalogService
	Orders  *OrderService
}

func NewAdminService(catalog *CatalogService, orders *OrderService) *AdminService {
	return &AdminService{Catalog: catalog, Orders: orders}
}

const recentOrders = 5

// Dashboard loads products and orders concurrently.
func (s *AdminService) Dashboard(ctx context.Context) (Dashboard, error) {
	var (
		products []domain.Product
		orders   []domain.Order
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.Catalog.ListProducts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		orders, err = s.Orders.GetOrders(gctx, "")
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}

	d := Dashboard{
		ProductCount: len(products),
		OrderCount:   len(orders),
		ByStatus:     make(map[string]int, len(domain.OrderStatuses)),
		Recent:       orders,
	}
	for _, st := range domain.OrderStatuses {
		d.ByStatus[string(st)] = 0
	}
	for _, o := range orders {
		d.ByStatus[string(o.Status)]++
	}
	if len(d.Recent) > recentOrders {
		d.Recent = d.Recent[:recentOrders]
	}
	return d, nil
}
