package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/config"
)

func TestLoginLoggingAndThrottle(t *testing.T) {
	e := newEnv(t, envOpts{cfg: func(c *config.Config) { c.LoginLimitMax = 3 }})
	logs := captureLogs(t)
	b := e.browser(t)

	resp, _ := b.do("POST", "/api/auth/login", map[string]string{"username": "marcus", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	b.login("marcus")
	resp, _ = b.do("POST", "/api/auth/login", map[string]string{"username": "marcus"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := b.do("POST", "/api/auth/login", map[string]string{"username": "marcus", "password": "Passw0rd!"})
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Contains(t, string(body), "Too many attempts")

	entries := logs()
	assert.True(t, hasAction(entries, "auth.login.fail"))
	assert.True(t, hasAction(entries, "auth.login.success"))
	assert.True(t, hasAction(entries, "rate.login.hit"))
	for _, e := range entries {
		if e.Action == "auth.login.fail" {
			assert.Equal(t, "security", e.Kind)
			assert.NotContains(t, e.Fields, "password")
		}
	}
}

func TestTamperedClientCookieIsReplaced(t *testing.T) {
	e := newEnv(t)
	logs := captureLogs(t)
	b := e.browser(t)
	b.cookies["sid"] = &http.Cookie{Name: "sid", Value: "forged.token.value"}

	resp, _ := b.do("GET", "/api/cart/count", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEqual(t, "forged.token.value", b.cookies["sid"].Value)
	assert.True(t, b.cookies["sid"].HttpOnly)
	assert.True(t, hasAction(logs(), "client.token.invalid"))
}

func TestGlobalRateLimit(t *testing.T) {
	e := newEnv(t, envOpts{cfg: func(c *config.Config) { c.RateLimitMax = 3 }})
	b := e.browser(t)
	var last int
	for i := 0; i < 5; i++ {
		resp, _ := b.do("GET", "/api/products", nil)
		last = resp.StatusCode
	}
	assert.Equal(t, http.StatusTooManyRequests, last)

	resp, _ := b.do("GET", "/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestBodySizeLimit(t *testing.T) {
	e := newEnv(t, envOpts{cfg: func(c *config.Config) { c.BodyLimit = 1024 }})
	big := `{"productId":"` + strings.Repeat("a", 4096) + `"}`
	req := httptest.NewRequest("POST", "/api/cart", strings.NewReader(big))
	req.Header.Set("Content-Type", "application/json")

	// fasthttp refuses the body while reading it, before any handler runs
	_, err := e.app.Test(req, -1)
	require.ErrorContains(t, err, "body size exceeds")

	b := e.browser(t)
	resp, _ := b.do("POST", "/api/cart", map[string]string{"productId": "p-tee"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCSRFHeaderRequired(t *testing.T) {
	e := newEnv(t, envOpts{cfg: func(c *config.Config) { c.CSRFEnabled = true }})
	b := e.browser(t)

	resp, _ := b.do("GET", "/api/products", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tok, ok := b.cookies["csrf_"]
	require.True(t, ok, "csrf cookie issued on safe request")

	resp, body := b.do("POST", "/api/cart", map[string]string{"productId": "p-tee"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, string(body), "Security check failed")

	b.header["X-Csrf-Token"] = tok.Value
	resp, body = b.do("POST", "/api/cart", map[string]string{"productId": "p-tee"})
	assert.Equal(t, http.StatusOK, resp.StatusCode, string(body))
}

func TestMetricsAndUnknownRoutes(t *testing.T) {
	e := newEnv(t)
	b := e.browser(t)
	b.do("POST", "/api/cart", map[string]string{"productId": "p-tee"})

	resp, body := b.do("GET", "/metrics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `storefront_cart_mutations_total{op="add"} 1`)

	resp, body = b.do("GET", "/nowhere", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decode[envelope](t, body).Error.Code)
}
