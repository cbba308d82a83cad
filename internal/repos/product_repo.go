package repos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `id, name, price, image, category, description, created_at`

// List returns every product, newest first.
func (r *ProductRepo) List() ([]domain.Product, error) {
	out := []domain.Product{}
	err := r.db.Select(&out, `SELECT `+productCols+` FROM products ORDER BY created_at DESC, id`)
	return out, err
}

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, r.db.Rebind(`SELECT `+productCols+` FROM products WHERE id = ?`), id)
	return p, err
}

func (r *ProductRepo) Count() (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM products`)
	return n, err
}

func (r *ProductRepo) Insert(p domain.Product) error {
	_, err := r.db.Exec(r.db.Rebind(`
		INSERT INTO products(id, name, price, image, category, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`), p.ID, p.Name, p.Price, p.Image, p.Category, p.Description, p.CreatedAt)
	return err
}

// ProductPatch carries the fields an admin may change; nil means unchanged.
type ProductPatch struct {
	Name        *string
	Price       *decimal.Decimal
	Image       *string
	Category    *string
	Description *string
}

// Update applies the patch and returns the stored row. The id never changes.
func (r *ProductRepo) Update(id string, patch ProductPatch) (domain.Product, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return domain.Product{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var p domain.Product
	if err := tx.Get(&p, tx.Rebind(`SELECT `+productCols+` FROM products WHERE id = ?`), id); err != nil {
		return domain.Product{}, err
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Image != nil {
		p.Image = *patch.Image
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if _, err := tx.Exec(tx.Rebind(`
		UPDATE products SET name = ?, price = ?, image = ?, category = ?, description = ?
		WHERE id = ?
	`), p.Name, p.Price, p.Image, p.Category, p.Description, id); err != nil {
		return domain.Product{}, err
	}
	return p, tx.Commit()
}

// Delete removes the product. Carts may still reference the id.
func (r *ProductRepo) Delete(id string) error {
	res, err := r.db.Exec(r.db.Rebind(`DELETE FROM products WHERE id = ?`), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
