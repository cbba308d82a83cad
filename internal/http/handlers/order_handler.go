package handlers

import (
	"github.com/gofiber/fiber/v2"

	"storefront/internal/apperr"
	"storefront/internal/cart"
	"storefront/internal/checkout"
	applog "storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type OrderHandler struct {
	Cart     *services.CartService
	Orders   *services.OrderService
	Checkout *checkout.Process
}

type checkoutResponse struct {
	Checkout checkout.View   `json:"checkout"`
	Cart     cart.Resolution `json:"cart"`
}

// POST /api/checkout opens the flow and returns what the form needs.
func (h *OrderHandler) Begin(c *fiber.Ctx) error {
	res, err := h.Cart.View(c.UserContext(), clientID(c))
	if err != nil {
		return writeError(c, err)
	}
	view := h.Checkout.Begin(clientID(c), currentUser(c))
	return c.JSON(checkoutResponse{Checkout: view, Cart: res})
}

// POST /api/checkout/submit
func (h *OrderHandler) Submit(c *fiber.Ctx) error {
	var form checkout.Form
	if err := validate.Decode(c.Body(), &form); err != nil {
		return writeError(c, err)
	}
	ledger, err := h.Cart.Ledger(c.UserContext(), clientID(c))
	if err != nil {
		return writeError(c, err)
	}

	rec, err := h.Checkout.Submit(c.UserContext(), clientID(c), currentUser(c), ledger, form)
	if err != nil {
		switch {
		case apperr.IsCode(err, apperr.CodeConflict):
			applog.Security(c, "order.place.duplicate", nil)
		case apperr.IsCode(err, apperr.CodeValidation), apperr.IsCode(err, apperr.CodeUnauthorized):
			applog.Info(c, "order.place.rejected", map[string]any{"reason": apperr.As(err).Message()})
		default:
			applog.Error(c, "order.place.fail", err, nil)
		}
		return writeError(c, err)
	}

	applog.Audit(c, "order.place", map[string]any{
		"order_id": rec.Order.ID,
		"total":    rec.Total.StringFixed(2),
		"items":    len(rec.Order.Items),
	})
	return c.Status(fiber.StatusCreated).JSON(rec)
}

// GET /api/orders lists the logged-in user's own orders.
func (h *OrderHandler) History(c *fiber.Ctx) error {
	u := currentUser(c)
	if u == nil {
		return writeError(c, apperr.New(apperr.CodeUnauthorized, "login required"))
	}
	orders, err := h.Orders.GetOrders(c.UserContext(), u.Username)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(orders)
}
