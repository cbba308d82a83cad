package handlers

import (
	"github.com/gofiber/fiber/v2"

	"storefront/internal/services"
	"storefront/internal/validate"
)

type ContentHandler struct {
	Content *services.SiteContentService
}

// GET /api/site-config?keys=nav_items,hero_banners
func (h *ContentHandler) Get(c *fiber.Ctx) error {
	out, err := h.Content.Get(c.UserContext(), validate.Keys(c.Query("keys")))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
