package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/clientstore"
	"storefront/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	tok, clientID, err := tokens.Issue()
	require.NoError(t, err)
	require.NotEmpty(t, clientID)

	got, err := tokens.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, clientID, got)
}

func TestTokenRejectsForeignSecretAndExpiry(t *testing.T) {
	tok, _, err := NewTokens("secret", time.Hour).Issue()
	require.NoError(t, err)

	_, err = NewTokens("other", time.Hour).Parse(tok)
	require.ErrorIs(t, err, ErrInvalidToken)

	expired := NewTokens("secret", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := expired.Sign("c1")
	require.NoError(t, err)
	_, err = NewTokens("secret", time.Minute).Parse(old)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewTokens("secret", time.Hour).Parse("garbage")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestIdentityLifecycle(t *testing.T) {
	ctx := context.Background()
	ids := NewIdentities(clientstore.NewMemory())

	cur, err := ids.Current(ctx, "c1")
	require.NoError(t, err)
	assert.Nil(t, cur)

	want := domain.Identity{Username: "marcus", DisplayName: "marcus", Characters: []string{"Marcus Vance"}}
	require.NoError(t, ids.Bind(ctx, "c1", want))
	cur, err = ids.Current(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, cur)
	assert.Equal(t, want, *cur)

	require.NoError(t, ids.Unbind(ctx, "c1"))
	cur, err = ids.Current(ctx, "c1")
	require.NoError(t, err)
	assert.Nil(t, cur)
}

func TestCorruptIdentityIsAbsent(t *testing.T) {
	ctx := context.Background()
	store := clientstore.NewMemory()
	ids := NewIdentities(store)

	require.NoError(t, store.Set(ctx, clientstore.Key(StorageKey, "c1"), "{{{"))
	cur, err := ids.Current(ctx, "c1")
	require.NoError(t, err)
	assert.Nil(t, cur)

	require.NoError(t, store.Set(ctx, clientstore.Key(StorageKey, "c1"), `{"username":"x","characters":[]}`))
	cur, err = ids.Current(ctx, "c1")
	require.NoError(t, err)
	assert.Nil(t, cur)
}
