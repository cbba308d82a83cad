package repos

import (
	"time"

	"github.com/jmoiron/sqlx"

	"storefront/internal/domain"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

func (r *UserRepo) ByUsername(username string) (*domain.Account, error) {
	var a domain.Account
	err := r.DB.Get(&a, r.DB.Rebind(`
		SELECT username, display_name, password_hash, role
		FROM accounts WHERE username = ?
	`), username)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *UserRepo) Exists(username string) (bool, error) {
	var n int
	if err := r.DB.Get(&n, r.DB.Rebind(`SELECT COUNT(*) FROM accounts WHERE username = ?`), username); err != nil {
		return false, err
	}
	return n > 0, nil
}

// Characters returns the account's character names in their stored order.
func (r *UserRepo) Characters(username string) ([]string, error) {
	var out []string
	err := r.DB.Select(&out, r.DB.Rebind(`
		SELECT name FROM account_characters
		WHERE username = ?
		ORDER BY position
	`), username)
	return out, err
}

// Create inserts the account and its ordered characters in one transaction.
func (r *UserRepo) Create(a domain.Account, characters []string) error {
	tx, err := r.DB.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(tx.Rebind(`
		INSERT INTO accounts(username, display_name, password_hash, role, created_at)
		VALUES (?, ?, ?, ?, ?)
	`), a.Username, a.DisplayName, a.Hash, a.Role, time.Now().UTC()); err != nil {
		return err
	}
	for i, name := range characters {
		if _, err := tx.Exec(tx.Rebind(`
			INSERT INTO account_characters(username, position, name) VALUES (?, ?, ?)
		`), a.Username, i, name); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *UserRepo) Role(username string) (string, error) {
	var role string
	err := r.DB.Get(&role, r.DB.Rebind(`SELECT role FROM accounts WHERE username = ?`), username)
	return role, err
}
