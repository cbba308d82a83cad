package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/apperr"
	"storefront/internal/domain"
	applog "storefront/internal/log"
)

const (
	localClientID = "client_id"
	localUser     = "user"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type errorEnvelope struct {
	Error apiError `json:"error"`
}

// writeError renders err in the standard envelope. Internal causes never
// reach the client.
func writeError(c *fiber.Ctx, err error) error {
	if err == nil {
		err = errors.New("unknown error")
	}
	typed := apperr.As(err)
	if typed == nil {
		typed = apperr.Wrap(apperr.CodeInternal, err, "unexpected error")
	}
	meta := apperr.MetadataFor(typed.Code())

	body := apiError{Code: string(typed.Code()), Message: typed.PublicMessage()}
	if meta.DetailsAllowed {
		body.Details = typed.Details()
	}
	c.Status(meta.HTTPStatus)
	if meta.HTTPStatus >= fiber.StatusInternalServerError {
		applog.Error(c, "request.fail", err, map[string]any{"code": string(typed.Code())})
	}
	return c.JSON(errorEnvelope{Error: body})
}

func clientID(c *fiber.Ctx) string {
	id, _ := c.Locals(localClientID).(string)
	return id
}

// currentUser is the identity attached by the client middleware, or nil.
func currentUser(c *fiber.Ctx) *domain.Identity {
	u, _ := c.Locals(localUser).(*domain.Identity)
	return u
}
