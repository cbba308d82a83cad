package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/apperr"
)

type loginBody struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,max=72"`
}

func TestDecodeJSONReportsEveryMissingField(t *testing.T) {
	var body loginBody
	err := DecodeJSON([]byte(`{}`), &body)
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, apperr.CodeValidation, ae.Code())
	details, ok := ae.Details().(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "is required", details["username"])
	assert.Equal(t, "is required", details["password"])
}

func TestDecodeJSONRejectsUnknownFieldsAndGarbage(t *testing.T) {
	var body loginBody
	assert.True(t, apperr.IsCode(DecodeJSON([]byte(`{"username":"a","password":"b","role":"ADMIN"}`), &body), apperr.CodeValidation))
	assert.True(t, apperr.IsCode(DecodeJSON([]byte(`not json`), &body), apperr.CodeValidation))

	require.NoError(t, DecodeJSON([]byte(`{"username":"a","password":"b"}`), &body))
	assert.Equal(t, "a", body.Username)
}

func TestIdentifiers(t *testing.T) {
	id, ok := ID("  p-hoodie ")
	assert.True(t, ok)
	assert.Equal(t, "p-hoodie", id)
	_, ok = ID("../etc")
	assert.False(t, ok)

	_, ok = Username("Murat")
	assert.True(t, ok)
	_, ok = Username("")
	assert.False(t, ok)

	assert.Equal(t, []string{"nav_items", "hero_banners"}, Keys("nav_items, ,hero_banners,Bad-Key"))
}
