package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/planetary-hours/internal/infra/config"
)

const shutdownTimeout = 10 * time.Second

// App encapsulates the HTTP server lifecycle and the resources it owns.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
	server *http.Server
	pool   *pgxpool.Pool
}

// NewApp is used by Wire to build the runnable app. pool may be nil when
// the memory repositories are in use.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server, pool *pgxpool.Pool) *App {
	return &App{cfg: cfg, logger: logger.With("component", "bootstrap"), server: server, pool: pool}
}

// Run starts the HTTP server and blocks until ctx is cancelled or the server fails.
func (a *App) Run(ctx context.Context) error {
	defer a.close()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server starting",
			"address", a.cfg.HTTP.Address,
			"default_timezone", a.cfg.Planetary.DefaultTimezone,
			"postgres", a.pool != nil,
			"valkey", a.cfg.Cache.Redis.Enabled,
		)
		if err := a.server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutdown signal received")
		return a.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (a *App) close() {
	if a.pool != nil {
		a.pool.Close()
		a.logger.Info("postgres pool closed")
	}
}
