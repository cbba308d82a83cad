package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/apperr"
	"storefront/internal/domain"
	applog "storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type AdminHandler struct {
	Admin   *services.AdminService
	Catalog *services.CatalogService
	Orders  *services.OrderService
	Content *services.SiteContentService
}

// GET /admin/dashboard
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	d, err := h.Admin.Dashboard(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(d)
}

// GET /admin/orders
func (h *AdminHandler) OrdersPage(c *fiber.Ctx) error {
	orders, err := h.Orders.GetOrders(c.UserContext(), "")
	if err != nil {
		applog.Error(c, "admin.orders.list.fail", err, nil)
		return writeError(c, err)
	}
	return c.JSON(orders)
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

// PUT /admin/orders/:id/status
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return writeError(c, apperr.New(apperr.CodeNotFound, "order not found"))
	}
	var req statusRequest
	if err := validate.DecodeJSON(c.Body(), &req); err != nil {
		return writeError(c, err)
	}
	o, err := h.Orders.UpdateOrderStatus(c.UserContext(), id, domain.OrderStatus(req.Status))
	if err != nil {
		return writeError(c, err)
	}
	applog.Audit(c, "admin.orders.update", map[string]any{"order_id": id, "status": req.Status})
	return c.JSON(o)
}

// POST /admin/products
func (h *AdminHandler) CreateProduct(c *fiber.Ctx) error {
	var in services.ProductInput
	if err := validate.DecodeJSON(c.Body(), &in); err != nil {
		return writeError(c, err)
	}
	p, err := h.Catalog.CreateProduct(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	applog.Audit(c, "admin.products.create", map[string]any{"product_id": p.ID, "price": p.Price.StringFixed(2)})
	return c.Status(fiber.StatusCreated).JSON(p)
}

// PUT /admin/products/:id
func (h *AdminHandler) UpdateProduct(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return writeError(c, apperr.New(apperr.CodeNotFound, "product not found"))
	}
	var in services.ProductUpdate
	if err := validate.DecodeJSON(c.Body(), &in); err != nil {
		return writeError(c, err)
	}
	p, err := h.Catalog.UpdateProduct(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	applog.Audit(c, "admin.products.update", map[string]any{"product_id": id})
	return c.JSON(p)
}

// DELETE /admin/products/:id
func (h *AdminHandler) DeleteProduct(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return writeError(c, apperr.New(apperr.CodeNotFound, "product not found"))
	}
	if err := h.Catalog.DeleteProduct(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	applog.Audit(c, "admin.products.delete", map[string]any{"product_id": id})
	return c.SendStatus(fiber.StatusNoContent)
}

type contentRequest struct {
	Key   string          `json:"key" validate:"required"`
	Value json.RawMessage `json:"value" validate:"required"`
}

// PUT /admin/site-config
func (h *AdminHandler) SetContent(c *fiber.Ctx) error {
	var req contentRequest
	if err := validate.DecodeJSON(c.Body(), &req); err != nil {
		return writeError(c, err)
	}
	key, ok := validate.ContentKey(req.Key)
	if !ok {
		return writeError(c, apperr.New(apperr.CodeValidation, "validation failed").
			WithDetails(map[string]string{"key": "is invalid"}))
	}
	if err := h.Content.Set(c.UserContext(), key, req.Value); err != nil {
		return writeError(c, err)
	}
	applog.Audit(c, "admin.content.update", map[string]any{"key": key})
	return c.JSON(fiber.Map{"success": true})
}
