package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"storefront/internal/checkout"
	"storefront/internal/clientstore"
	"storefront/internal/config"
	"storefront/internal/http/handlers"
	applog "storefront/internal/log"
	"storefront/internal/repos"
)

type env struct {
	app *fiber.App
	db  *sqlx.DB
	cfg config.Config
}

type envOpts struct {
	cfg   func(*config.Config)
	store clientstore.Store
}

func testConfig() config.Config {
	return config.Config{
		SessionSecret: "test-secret",
		SessionTTL:    time.Hour,
		BodyLimit:     1 << 20,
		RateLimitMax:  1000,
		LoginLimitMax: 100,
	}
}

func newEnv(t *testing.T, opts ...envOpts) *env {
	t.Helper()
	cfg := testConfig()
	db, err := repos.OpenDB("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, repos.Seed(db))

	var store clientstore.Store = repos.NewClientStoreRepo(db)
	for _, o := range opts {
		if o.cfg != nil {
			o.cfg(&cfg)
		}
		if o.store != nil {
			store = o.store
		}
	}
	noWait := func(context.Context, time.Duration) error { return nil }
	deps := handlers.NewDeps(db, store, cfg, prometheus.NewRegistry(), checkout.WithSleep(noWait))
	return &env{app: handlers.NewApp(cfg, deps), db: db, cfg: cfg}
}

// browser keeps cookies between requests like a real client.
type browser struct {
	t       *testing.T
	app     *fiber.App
	cookies map[string]*http.Cookie
	header  map[string]string
}

func (e *env) browser(t *testing.T) *browser {
	return &browser{t: t, app: e.app, cookies: map[string]*http.Cookie{}, header: map[string]string{}}
}

func (b *browser) do(method, path string, body any) (*http.Response, []byte) {
	b.t.Helper()
	var rdr io.Reader
	switch v := body.(type) {
	case nil:
	case string:
		rdr = strings.NewReader(v)
	default:
		raw, err := json.Marshal(v)
		require.NoError(b.t, err)
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	if rdr != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range b.header {
		req.Header.Set(k, v)
	}
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	resp, err := b.app.Test(req, -1)
	require.NoError(b.t, err)
	for _, c := range resp.Cookies() {
		b.cookies[c.Name] = c
	}
	out, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)
	return resp, out
}

func (b *browser) login(username string) {
	b.t.Helper()
	resp, body := b.do("POST", "/api/auth/login", map[string]string{"username": username, "password": "Passw0rd!"})
	require.Equal(b.t, http.StatusOK, resp.StatusCode, string(body))
}

type envelope struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v), string(body))
	return v
}

type logEntry struct {
	Level  string         `json:"level"`
	Kind   string         `json:"kind"`
	Action string         `json:"action"`
	Fields map[string]any `json:"fields"`
}

type lockedWriter struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (w *lockedWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

// captureLogs routes the app logger into a buffer for the rest of the test.
func captureLogs(t *testing.T) func() []logEntry {
	t.Helper()
	w := &lockedWriter{}
	applog.SetOutput(w)
	t.Cleanup(func() { applog.Setup(nil, "json", "info") })
	return func() []logEntry {
		w.mu.Lock()
		defer w.mu.Unlock()
		var out []logEntry
		for _, line := range strings.Split(strings.TrimSpace(w.buf.String()), "\n") {
			var e logEntry
			if json.Unmarshal([]byte(line), &e) == nil {
				out = append(out, e)
			}
		}
		return out
	}
}

func hasAction(entries []logEntry, action string) bool {
	for _, e := range entries {
		if e.Action == action {
			return true
		}
	}
	return false
}
