package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/apperr"
	applog "storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/session"
)

const clientCookie = "sid"

// Client resolves the caller's client id from the signed cookie, issuing a
// new one when it is missing or fails verification, and attaches the bound
// identity if any.
type Client struct {
	Tokens *session.Tokens
	Auth   *services.AuthService
	TTL    time.Duration
	Secure bool
}

func (m *Client) Handle(c *fiber.Ctx) error {
	id, err := m.ensureClient(c)
	if err != nil {
		return writeError(c, err)
	}
	c.Locals(localClientID, id)

	u, err := m.Auth.CurrentUser(c.UserContext(), id)
	if err != nil {
		applog.Error(c, "session.load.fail", err, nil)
	} else if u != nil {
		c.Locals(localUser, u)
	}
	return c.Next()
}

func (m *Client) ensureClient(c *fiber.Ctx) (string, error) {
	raw := c.Cookies(clientCookie)
	if raw != "" {
		id, err := m.Tokens.Parse(raw)
		if err == nil {
			return id, nil
		}
		applog.Security(c, "client.token.invalid", map[string]any{"reason": err.Error()})
	}
	tok, id, err := m.Tokens.Issue()
	if err != nil {
		return "", apperr.Wrap(apperr.CodeInternal, err, "could not issue client token")
	}
	c.Cookie(&fiber.Cookie{
		Name:     clientCookie,
		Value:    tok,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   m.Secure,
		Expires:  time.Now().Add(m.TTL),
	})
	return id, nil
}
