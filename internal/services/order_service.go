package services

import (
	"context"
	"strings"

	"storefront/internal/apperr"
	"storefront/internal/domain"
	"storefront/internal/metrics"
	"storefront/internal/repos"
)

type OrderService struct {
	Orders  *repos.OrderRepo
	Metrics *metrics.Store
}

func NewOrderService(orders *repos.OrderRepo, m *metrics.Store) *OrderService {
	return &OrderService{Orders: orders, Metrics: m}
}

// CreateOrder stores the checkout payload. Status always starts at
// Hazırlanıyor regardless of input.
func (s *OrderService) CreateOrder(ctx context.Context, in domain.NewOrder) (domain.Order, error) {
	if strings.TrimSpace(in.Username) == "" || len(in.Items) == 0 {
		return domain.Order{}, apperr.New(apperr.CodeValidation, "order needs a user and at least one item")
	}
	if in.Total.IsNegative() {
		return domain.Order{}, apperr.New(apperr.CodeValidation, "order total must not be negative")
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = domain.PaymentBankTransfer
	}
	o, err := s.Orders.Create(in)
	if err != nil {
		return domain.Order{}, storeErr(err, "order")
	}
	return o, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	o, err := s.Orders.Get(id)
	if err != nil {
		return domain.Order{}, storeErr(err, "order")
	}
	return o, nil
}

// GetOrders lists orders newest first. An empty username lists everyone's.
func (s *OrderService) GetOrders(ctx context.Context, username string) ([]domain.Order, error) {
	out, err := s.Orders.List(username)
	if err != nil {
		return nil, storeErr(err, "order")
	}
	return out, nil
}

// UpdateOrderStatus moves an order to any known status. Transitions are not
// restricted; cancelled or delivered orders can be reopened.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, error) {
	if !status.Valid() {
		allowed := make([]string, 0, len(domain.OrderStatuses))
		for _, st := range domain.OrderStatuses {
			allowed = append(allowed, string(st))
		}
		return domain.Order{}, apperr.New(apperr.CodeValidation, "unknown order status").
			WithDetails(map[string]any{"status": string(status), "allowed": allowed})
	}
	o, err := s.Orders.UpdateStatus(id, status)
	if err != nil {
		return domain.Order{}, storeErr(err, "order")
	}
	s.Metrics.StatusUpdate(string(status))
	return o, nil
}
