package repos

import (
	"time"

	"github.com/jmoiron/sqlx"
)

type SiteConfigRepo struct{ db *sqlx.DB }

func NewSiteConfigRepo(db *sqlx.DB) *SiteConfigRepo { return &SiteConfigRepo{db: db} }

// Get returns the raw JSON payload for key, or sql.ErrNoRows.
func (r *SiteConfigRepo) Get(key string) (string, error) {
	var v string
	err := r.db.Get(&v, r.db.Rebind(`SELECT value FROM site_config WHERE key = ?`), key)
	return v, err
}

func (r *SiteConfigRepo) Set(key, value string) error {
	_, err := r.db.Exec(r.db.Rebind(`
		INSERT INTO site_config(key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`), key, value, time.Now().UTC())
	return err
}
