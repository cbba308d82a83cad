package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          string          `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Price       decimal.Decimal `db:"price" json:"price"`
	Image       string          `db:"image" json:"image"`
	Category    string          `db:"category" json:"category"`
	Description string          `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// LineItem is the product data copied into an order at submit time.
type LineItem struct {
	ProductID string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image,omitempty"`
	Category  string          `json:"category,omitempty"`
}

func SnapshotOf(p Product) LineItem {
	return LineItem{ProductID: p.ID, Name: p.Name, Price: p.Price, Image: p.Image, Category: p.Category}
}

// SiteContent keys with built-in defaults.
const (
	ContentNavItems    = "nav_items"
	ContentHeroBanners = "hero_banners"
)

type NavItem struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

type Banner struct {
	Image      string `json:"image"`
	Title      string `json:"title"`
	ButtonText string `json:"buttonText"`
	ButtonLink string `json:"buttonLink"`
}
