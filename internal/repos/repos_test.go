package repos

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/clientstore"
	"storefront/internal/domain"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := OpenDB("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSeedIsIdempotentAndHashesPasswords(t *testing.T) {
	db := memdb(t)
	require.NoError(t, Seed(db))
	require.NoError(t, Seed(db))

	n, err := NewProductRepo(db).Count()
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	users := NewUserRepo(db)
	for _, name := range []string{"marcus", "admin", "Murat"} {
		a, err := users.ByUsername(name)
		require.NoError(t, err)
		assert.NotEqual(t, "Passw0rd!", a.Hash)
		assert.True(t, strings.HasPrefix(a.Hash, "$2"), "bcrypt hash expected for %s", name)
	}

	chars, err := users.Characters("marcus")
	require.NoError(t, err)
	assert.Equal(t, []string{"Marcus Vance", "Elena Kostic", "Deshawn Williams"}, chars)

	role, err := users.Role("Murat")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, role)
}

func TestSchemaRejectsNegativePriceAndUnknownStatus(t *testing.T) {
	db := memdb(t)
	_, err := db.Exec(`INSERT INTO products(id, name, price, created_at) VALUES ('x', 'x', -1, CURRENT_TIMESTAMP)`)
	require.Error(t, err)

	orders := NewOrderRepo(db)
	o, err := orders.Create(domain.NewOrder{
		Username: "marcus", Items: []domain.LineItem{{ProductID: "p", Name: "P", Price: decimal.NewFromInt(1)}},
		Total: decimal.NewFromInt(1), PaymentMethod: domain.PaymentBankTransfer,
	})
	require.NoError(t, err)
	_, err = orders.UpdateStatus(o.ID, "Lost")
	require.Error(t, err)

	_, err = orders.UpdateStatus("missing", domain.StatusShipped)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestClientStoreRepo(t *testing.T) {
	ctx := context.Background()
	store := NewClientStoreRepo(memdb(t))

	_, err := store.Get(ctx, "vp_cart:c1")
	require.ErrorIs(t, err, clientstore.ErrNotFound)

	require.NoError(t, store.Set(ctx, "vp_cart:c1", `["a"]`))
	require.NoError(t, store.Set(ctx, "vp_cart:c1", `["a","b"]`))
	v, err := store.Get(ctx, "vp_cart:c1")
	require.NoError(t, err)
	assert.Equal(t, `["a","b"]`, v)

	require.NoError(t, store.Del(ctx, "vp_cart:c1"))
	_, err = store.Get(ctx, "vp_cart:c1")
	require.ErrorIs(t, err, clientstore.ErrNotFound)
}

func TestSiteConfigUpsert(t *testing.T) {
	repo := NewSiteConfigRepo(memdb(t))
	_, err := repo.Get("nav_items")
	require.ErrorIs(t, err, sql.ErrNoRows)

	require.NoError(t, repo.Set("nav_items", `[]`))
	require.NoError(t, repo.Set("nav_items", `[{"label":"A","href":"/"}]`))
	v, err := repo.Get("nav_items")
	require.NoError(t, err)
	assert.Equal(t, `[{"label":"A","href":"/"}]`, v)
}
