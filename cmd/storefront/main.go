package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"storefront/internal/clientstore"
	"storefront/internal/config"
	"storefront/internal/http/handlers"
	applog "storefront/internal/log"
	"storefront/internal/repos"
)

func main() {
	if err := run(); err != nil {
		applog.Error(nil, "server.exit", err, nil)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applog.Setup(os.Stdout, cfg.LogFormat, cfg.LogLevel)

	db, err := repos.OpenDB(strings.ToLower(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		return err
	}
	if cfg.Seed {
		if err := repos.Seed(db); err != nil {
			_ = db.Close()
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, storeCloser, err := openClientStore(ctx, cfg, db)
	if err != nil {
		_ = db.Close()
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	deps := handlers.NewDeps(db, store, cfg, reg)
	app := handlers.NewApp(cfg, deps)

	errCh := make(chan error, 1)
	go func() {
		applog.Info(nil, "server.start", map[string]any{
			"port":         cfg.Port,
			"db_driver":    cfg.DBDriver,
			"client_store": cfg.ClientStore,
		})
		errCh <- app.Listen(":" + cfg.Port)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		applog.Info(nil, "server.shutdown", nil)
	case serveErr = <-errCh:
	}

	return multierr.Combine(
		serveErr,
		app.ShutdownWithTimeout(10*time.Second),
		storeCloser.Close(),
		db.Close(),
	)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openClientStore picks where carts and sessions live.
func openClientStore(ctx context.Context, cfg config.Config, db *sqlx.DB) (clientstore.Store, io.Closer, error) {
	switch strings.ToLower(cfg.ClientStore) {
	case config.ClientStoreRedis:
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		r, err := clientstore.NewRedis(pingCtx, cfg.RedisURL, cfg.SessionTTL)
		if err != nil {
			return nil, nil, err
		}
		return r, r, nil
	case config.ClientStoreSQL:
		return repos.NewClientStoreRepo(db), nopCloser{}, nil
	}
	return nil, nil, errors.New("unsupported client store " + cfg.ClientStore)
}
