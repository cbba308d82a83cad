package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront/internal/apperr"
	"storefront/internal/domain"
	"storefront/internal/repos"
)

type CatalogService struct {
	Prods *repos.ProductRepo
}

func NewCatalogService(prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Prods: prods}
}

// ListProducts returns the whole catalog, newest first.
func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	out, err := s.Prods.List()
	if err != nil {
		return nil, storeErr(err, "product")
	}
	return out, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	p, err := s.Prods.Get(id)
	if err != nil {
		return domain.Product{}, storeErr(err, "product")
	}
	return p, nil
}

// ProductInput is the admin payload for a new product.
type ProductInput struct {
	Name        string          `json:"name" validate:"required,max=120"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image" validate:"omitempty,url"`
	Category    string          `json:"category" validate:"required,max=60"`
	Description string          `json:"description" validate:"max=2000"`
}

// ProductUpdate carries only the fields being changed.
type ProductUpdate struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=120"`
	Price       *decimal.Decimal `json:"price"`
	Image       *string          `json:"image" validate:"omitempty,url"`
	Category    *string          `json:"category" validate:"omitempty,min=1,max=60"`
	Description *string          `json:"description" validate:"omitempty,max=2000"`
}

func checkPrice(p decimal.Decimal) error {
	if p.IsNegative() {
		return apperr.New(apperr.CodeValidation, "validation failed").
			WithDetails(map[string]string{"price": "must not be negative"})
	}
	return nil
}

// CreateProduct assigns the id and creation time.
func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (domain.Product, error) {
	if err := checkPrice(in.Price); err != nil {
		return domain.Product{}, err
	}
	p := domain.Product{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		Price:       in.Price.Round(2),
		Image:       strings.TrimSpace(in.Image),
		Category:    strings.TrimSpace(in.Category),
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.Prods.Insert(p); err != nil {
		return domain.Product{}, storeErr(err, "product")
	}
	return p, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id string, in ProductUpdate) (domain.Product, error) {
	patch := repos.ProductPatch{Name: in.Name, Image: in.Image, Category: in.Category, Description: in.Description}
	if in.Price != nil {
		if err := checkPrice(*in.Price); err != nil {
			return domain.Product{}, err
		}
		rounded := in.Price.Round(2)
		patch.Price = &rounded
	}
	p, err := s.Prods.Update(id, patch)
	if err != nil {
		return domain.Product{}, storeErr(err, "product")
	}
	return p, nil
}

// DeleteProduct removes the product. Carts holding its id keep the entry; it
// no longer resolves.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	return storeErr(s.Prods.Delete(id), "product")
}
