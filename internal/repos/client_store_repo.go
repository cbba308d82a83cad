package repos

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"storefront/internal/clientstore"
)

// ClientStoreRepo keeps per-client blobs (cart, session) in the main database.
// It satisfies clientstore.Store.
type ClientStoreRepo struct{ db *sqlx.DB }

func NewClientStoreRepo(db *sqlx.DB) *ClientStoreRepo { return &ClientStoreRepo{db: db} }

func (r *ClientStoreRepo) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := r.db.GetContext(ctx, &v, r.db.Rebind(`SELECT value FROM client_store WHERE key = ?`), key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", clientstore.ErrNotFound
	}
	return v, err
}

func (r *ClientStoreRepo) Set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO client_store(key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`), key, value, time.Now().UTC())
	return err
}

func (r *ClientStoreRepo) Del(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM client_store WHERE key = ?`), key)
	return err
}
