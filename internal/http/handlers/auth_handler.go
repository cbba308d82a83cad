package handlers

import (
	"github.com/gofiber/fiber/v2"

	"storefront/internal/apperr"
	"storefront/internal/checkout"
	"storefront/internal/domain"
	"storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type AuthHandler struct {
	Auth     *services.AuthService
	Checkout *checkout.Process
}

type loginRequest struct {
	Username string `json:"username" validate:"required,max=32"`
	Password string `json:"password" validate:"required,max=72"`
}

type meResponse struct {
	User    domain.Identity `json:"user"`
	IsAdmin bool            `json:"isAdmin"`
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := validate.DecodeJSON(c.Body(), &req); err != nil {
		log.Security(c, "auth.login.fail", map[string]any{"reason": "bad_format"})
		return writeError(c, err)
	}
	username, ok := validate.Username(req.Username)
	if !ok || !validate.Password(req.Password) {
		log.Security(c, "auth.login.fail", map[string]any{"username": req.Username, "reason": "bad_format"})
		return writeError(c, services.ErrBadCreds)
	}

	id, err := h.Auth.Login(c.UserContext(), clientID(c), username, req.Password)
	if err != nil {
		if apperr.IsCode(err, apperr.CodeUnauthorized) {
			log.Security(c, "auth.login.fail", map[string]any{"username": username})
		}
		return writeError(c, err)
	}
	isAdmin, err := h.Auth.IsAdmin(c.UserContext(), &id)
	if err != nil {
		return writeError(c, err)
	}

	log.Audit(c, "auth.login.success", map[string]any{"username": username})
	return c.JSON(meResponse{User: id, IsAdmin: isAdmin})
}

// POST /api/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.Auth.Logout(c.UserContext(), clientID(c)); err != nil {
		return writeError(c, err)
	}
	h.Checkout.Reset(clientID(c))
	fields := map[string]any{}
	if u := currentUser(c); u != nil {
		fields["username"] = u.Username
	}
	log.Audit(c, "auth.logout", fields)
	return c.SendStatus(fiber.StatusNoContent)
}

// GET /api/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	u := currentUser(c)
	if u == nil {
		return writeError(c, apperr.New(apperr.CodeUnauthorized, "not logged in"))
	}
	isAdmin, err := h.Auth.IsAdmin(c.UserContext(), u)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(meResponse{User: *u, IsAdmin: isAdmin})
}
