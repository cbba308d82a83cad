package handlers

import (
	"github.com/gofiber/fiber/v2"

	"storefront/internal/apperr"
	applog "storefront/internal/log"
	"storefront/internal/services"
)

// RequireAdmin checks the stored account role of the attached identity.
func RequireAdmin(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := currentUser(c)
		if u == nil {
			applog.Security(c, "access.denied.admin", map[string]any{"reason": "anonymous"})
			return writeError(c, apperr.New(apperr.CodeUnauthorized, "login required"))
		}
		ok, err := auth.IsAdmin(c.UserContext(), u)
		if err != nil {
			return writeError(c, err)
		}
		if !ok {
			applog.Security(c, "access.denied.admin", map[string]any{"username": u.Username})
			return writeError(c, apperr.New(apperr.CodeForbidden, "admin access required"))
		}
		return c.Next()
	}
}

// RequireUser enforces that a user is logged in.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if currentUser(c) == nil {
			return writeError(c, apperr.New(apperr.CodeUnauthorized, "login required"))
		}
		return c.Next()
	}
}
