package repos

import (
	"context"
	"embed"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"storefront/internal/domain"
	applog "storefront/internal/log"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// OpenDB connects with the given driver ("sqlite" or "postgres") and migrates.
func OpenDB(driver, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		// one connection: in-memory databases are per-connection and writers serialize anyway
		db.SetMaxOpenConns(1)
	}
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if driver == "sqlite" {
		if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrate(db, driver); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrate(db *sqlx.DB, driver string) error {
	dialect := "postgres"
	if driver == "sqlite" {
		dialect = "sqlite3"
	}
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(context.Background(), db.DB, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// Seed inserts the demo catalog and accounts when the tables are empty.
// Safe to run on every startup.
func Seed(db *sqlx.DB) error {
	if err := seedProducts(db); err != nil {
		return err
	}
	return seedAccounts(db)
}

func seedProducts(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	applog.Info(nil, "seed.products", map[string]any{"count": 4})

	base := time.Now().UTC()
	items := []domain.Product{
		{ID: "p-hoodie", Name: "Oversized Hoodie", Price: decimal.RequireFromString("45.00"), Category: "Giyim",
			Image: "https://images.unsplash.com/photo-1556821840-3a63f95609a7", Description: "Heavy cotton, boxy fit."},
		{ID: "p-tee", Name: "Logo Tee", Price: decimal.RequireFromString("20.00"), Category: "Giyim",
			Image: "https://images.unsplash.com/photo-1521572163474-6864f9cf17ab"},
		{ID: "p-cap", Name: "Snapback Cap", Price: decimal.RequireFromString("15.50"), Category: "Aksesuar",
			Image: "https://images.unsplash.com/photo-1588850561407-ed78c282e89b"},
		{ID: "p-chain", Name: "Silver Chain", Price: decimal.RequireFromString("120.00"), Category: "Aksesuar",
			Image: "https://images.unsplash.com/photo-1611652022419-a9419f74343d", Description: "925 sterling."},
	}

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	for i, p := range items {
		if _, err := tx.Exec(tx.Rebind(`
			INSERT INTO products(id, name, price, image, category, description, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`), p.ID, p.Name, p.Price, p.Image, p.Category, p.Description, base.Add(time.Duration(i)*time.Second)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// seedAccounts ensures the demo buyer and the two admin accounts exist.
func seedAccounts(db *sqlx.DB) error {
	type acct struct {
		Username, Display, Role string
		Characters              []string
	}
	accounts := []acct{
		{"marcus", "marcus", domain.RoleUser, []string{"Marcus Vance", "Elena Kostic", "Deshawn Williams"}},
		{"admin", "admin", domain.RoleAdmin, []string{"Store Admin"}},
		{"Murat", "Murat", domain.RoleAdmin, []string{"Murat Yilmaz"}},
	}

	users := NewUserRepo(db)
	for _, a := range accounts {
		exists, err := users.Exists(a.Username)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		h, err := bcrypt.GenerateFromPassword([]byte("Passw0rd!"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		if err := users.Create(domain.Account{
			Username: a.Username, DisplayName: a.Display, Hash: string(h), Role: a.Role,
		}, a.Characters); err != nil {
			return err
		}
	}
	return nil
}
