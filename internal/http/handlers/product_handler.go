package handlers

import (
	"github.com/gofiber/fiber/v2"

	"storefront/internal/apperr"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

// GET /api/products
func (h *ProductHandler) List(c *fiber.Ctx) error {
	products, err := h.Catalog.ListProducts(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(products)
}

// GET /api/products/:id
func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return writeError(c, apperr.New(apperr.CodeNotFound, "This item is no longer available"))
	}
	p, err := h.Catalog.GetProduct(c.UserContext(), id)
	if err != nil {
		if apperr.IsCode(err, apperr.CodeNotFound) {
			return writeError(c, apperr.New(apperr.CodeNotFound, "This item is no longer available"))
		}
		return writeError(c, err)
	}
	return c.JSON(p)
}
