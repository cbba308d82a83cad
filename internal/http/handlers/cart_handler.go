package handlers

import (
	"github.com/gofiber/fiber/v2"

	"storefront/internal/apperr"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type CartHandler struct {
	Cart *services.CartService
}

type addToCartRequest struct {
	ProductID string `json:"productId" validate:"required"`
}

type countResponse struct {
	Count int `json:"count"`
}

// GET /api/cart
func (h *CartHandler) View(c *fiber.Ctx) error {
	res, err := h.Cart.View(c.UserContext(), clientID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// GET /api/cart/count
func (h *CartHandler) Count(c *fiber.Ctx) error {
	n, err := h.Cart.Count(c.UserContext(), clientID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(countResponse{Count: n})
}

// POST /api/cart
func (h *CartHandler) Add(c *fiber.Ctx) error {
	var req addToCartRequest
	if err := validate.DecodeJSON(c.Body(), &req); err != nil {
		return writeError(c, err)
	}
	id, ok := validate.ID(req.ProductID)
	if !ok {
		return writeError(c, apperr.New(apperr.CodeValidation, "validation failed").
			WithDetails(map[string]string{"productId": "is invalid"}))
	}
	n, err := h.Cart.Add(c.UserContext(), clientID(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(countResponse{Count: n})
}

// DELETE /api/cart/items/:id removes one entry.
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return writeError(c, apperr.New(apperr.CodeValidation, "invalid product id"))
	}
	n, err := h.Cart.Remove(c.UserContext(), clientID(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(countResponse{Count: n})
}

// DELETE /api/cart
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	if err := h.Cart.Clear(c.UserContext(), clientID(c)); err != nil {
		return writeError(c, err)
	}
	return c.JSON(countResponse{Count: 0})
}
