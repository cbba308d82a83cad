package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"storefront/internal/apperr"
	"storefront/internal/config"
	applog "storefront/internal/log"
)

const friendlyError = "Something went wrong. Please try again."

// errorHandler keeps internals out of responses.
func errorHandler(c *fiber.Ctx, err error) error {
	if typed := apperr.As(err); typed != nil {
		return writeError(c, typed)
	}
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		return c.Status(fe.Code).JSON(errorEnvelope{Error: apiError{Code: codeForStatus(fe.Code), Message: fe.Message}})
	}
	applog.Error(c, "server.error", err, nil)
	return c.Status(fiber.StatusInternalServerError).JSON(errorEnvelope{Error: apiError{
		Code:    string(apperr.CodeInternal),
		Message: friendlyError,
	}})
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return string(apperr.CodeNotFound)
	case fiber.StatusUnauthorized:
		return string(apperr.CodeUnauthorized)
	case fiber.StatusForbidden:
		return string(apperr.CodeForbidden)
	case fiber.StatusConflict:
		return string(apperr.CodeConflict)
	case fiber.StatusTooManyRequests:
		return "RATE_LIMITED"
	}
	return string(apperr.CodeValidation)
}

// NewApp builds the fiber app with middleware and every route.
func NewApp(cfg config.Config, d *Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "storefront",
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: errorHandler,
	})

	// ---------- Middlewares ----------
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${status} ${method} ${path} ${latency} req=${locals:requestid}\n",
	}))
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimitMax,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			p := c.Path()
			return p == "/healthz" || p == "/metrics"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.global.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(errorEnvelope{Error: apiError{
				Code: "RATE_LIMITED", Message: "rate limit exceeded, retry soon",
			}})
		},
	}))
	if cfg.CSRFEnabled {
		app.Use(csrf.New(csrf.Config{
			KeyLookup:      "header:X-Csrf-Token",
			CookieName:     "csrf_",
			CookieSameSite: "Lax",
			CookieSecure:   cfg.CookieSecure,
			ErrorHandler: func(c *fiber.Ctx, err error) error {
				applog.Security(c, "csrf.fail", map[string]any{"error": err.Error()})
				return writeError(c, apperr.New(apperr.CodeForbidden, "Security check failed. Please refresh and try again."))
			},
		}))
	}

	// Health & metrics
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))

	// Everything below knows its client.
	app.Use(d.Client.Handle)

	api := app.Group("/api")
	api.Get("/products", d.ProductHandler.List)
	api.Get("/products/:id", d.ProductHandler.Detail)
	api.Get("/site-config", d.ContentHandler.Get)

	// Auth routes (login throttled)
	api.Post("/auth/login", limiter.New(limiter.Config{
		Max:        cfg.LoginLimitMax,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(errorEnvelope{Error: apiError{
				Code: "RATE_LIMITED", Message: "Too many attempts. Please try again later.",
			}})
		},
	}), d.AuthHandler.Login)
	api.Post("/auth/logout", d.AuthHandler.Logout)
	api.Get("/auth/me", d.AuthHandler.Me)

	// Cart & checkout
	api.Get("/cart", d.CartHandler.View)
	api.Get("/cart/count", d.CartHandler.Count)
	api.Post("/cart", d.CartHandler.Add)
	api.Delete("/cart/items/:id", d.CartHandler.Remove)
	api.Delete("/cart", d.CartHandler.Clear)
	api.Post("/checkout", d.OrderHandler.Begin)
	api.Post("/checkout/submit", d.OrderHandler.Submit)
	api.Get("/orders", RequireUser(), d.OrderHandler.History)

	// Admin
	admin := app.Group("/admin", RequireAdmin(d.Auth))
	admin.Get("/dashboard", d.AdminHandler.Dashboard)
	admin.Get("/orders", d.AdminHandler.OrdersPage)
	admin.Put("/orders/:id/status", d.AdminHandler.UpdateOrderStatus)
	admin.Post("/products", d.AdminHandler.CreateProduct)
	admin.Put("/products/:id", d.AdminHandler.UpdateProduct)
	admin.Delete("/products/:id", d.AdminHandler.DeleteProduct)
	admin.Put("/site-config", d.AdminHandler.SetContent)

	app.Use(func(c *fiber.Ctx) error {
		return writeError(c, apperr.New(apperr.CodeNotFound, "Page not found"))
	})
	return app
}
