package handlers

import (
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"

	"storefront/internal/checkout"
	"storefront/internal/clientstore"
	"storefront/internal/config"
	"storefront/internal/metrics"
	"storefront/internal/repos"
	"storefront/internal/services"
	"storefront/internal/session"
)

type Deps struct {
	Auth     *services.AuthService
	Checkout *checkout.Process
	Client   *Client
	Gatherer prometheus.Gatherer

	AuthHandler    *AuthHandler
	ProductHandler *ProductHandler
	ContentHandler *ContentHandler
	CartHandler    *CartHandler
	OrderHandler   *OrderHandler
	AdminHandler   *AdminHandler
}

// NewDeps wires repositories, services and handlers. store holds the
// per-client cart and session blobs; reg receives the app's metrics.
func NewDeps(db *sqlx.DB, store clientstore.Store, cfg config.Config, reg *prometheus.Registry, opts ...checkout.Option) *Deps {
	m := metrics.New(reg)

	prodRepo := repos.NewProductRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	userRepo := repos.NewUserRepo(db)
	contentRepo := repos.NewSiteConfigRepo(db)

	authSvc := services.NewAuthService(userRepo, session.NewIdentities(store))
	catalogSvc := services.NewCatalogService(prodRepo)
	orderSvc := services.NewOrderService(orderRepo, m)
	cartSvc := services.NewCartService(store, catalogSvc, m)
	contentSvc := services.NewSiteContentService(contentRepo)
	adminSvc := services.NewAdminService(catalogSvc, orderSvc)

	opts = append([]checkout.Option{checkout.WithDelay(cfg.PaymentDelay), checkout.WithMetrics(m)}, opts...)
	flow := checkout.New(catalogSvc, orderSvc, opts...)

	return &Deps{
		Auth:     authSvc,
		Checkout: flow,
		Client: &Client{
			Tokens: session.NewTokens(cfg.SessionSecret, cfg.SessionTTL),
			Auth:   authSvc,
			TTL:    cfg.SessionTTL,
			Secure: cfg.CookieSecure,
		},
		Gatherer: reg,

		AuthHandler:    &AuthHandler{Auth: authSvc, Checkout: flow},
		ProductHandler: &ProductHandler{Catalog: catalogSvc},
		ContentHandler: &ContentHandler{Content: contentSvc},
		CartHandler:    &CartHandler{Cart: cartSvc},
		OrderHandler:   &OrderHandler{Cart: cartSvc, Orders: orderSvc, Checkout: flow},
		AdminHandler:   &AdminHandler{Admin: adminSvc, Catalog: catalogSvc, Orders: orderSvc, Content: contentSvc},
	}
}
