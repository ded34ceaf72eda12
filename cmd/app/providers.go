package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/planetary-hours/internal/domain/location"
	"github.com/yanqian/planetary-hours/internal/domain/planetary"
	"github.com/yanqian/planetary-hours/internal/domain/querylog"
	"github.com/yanqian/planetary-hours/internal/infra/config"
	"github.com/yanqian/planetary-hours/internal/infra/hourcache"
	"github.com/yanqian/planetary-hours/internal/infra/locationrepo"
	"github.com/yanqian/planetary-hours/internal/infra/postgres"
	"github.com/yanqian/planetary-hours/internal/infra/querylogrepo"
	"github.com/yanqian/planetary-hours/internal/infra/sun"
	"github.com/yanqian/planetary-hours/internal/infra/tzmap"
	httpiface "github.com/yanqian/planetary-hours/internal/interface/http"
)

func providePlanetaryConfig(cfg *config.Config) (planetary.Config, error) {
	loc, err := time.LoadLocation(strings.TrimSpace(cfg.Planetary.DefaultTimezone))
	if err != nil {
		return planetary.Config{}, err
	}
	return planetary.Config{
		DefaultTimezone: loc,
		ResolveTimezone: cfg.Planetary.ResolveTimezone,
		CacheTTL:        cfg.Planetary.CacheTTL,
	}, nil
}

func provideLocationConfig(cfg *config.Config) location.Config {
	return location.Config{
		FallbackLatitude:  cfg.Planetary.DefaultLatitude,
		FallbackLongitude: cfg.Planetary.DefaultLongitude,
	}
}

func provideHandlerConfig(cfg *config.Config) httpiface.HandlerConfig {
	return httpiface.HandlerConfig{LogQueries: cfg.Planetary.LogQueries}
}

func provideSunEventProvider() planetary.SunEventProvider {
	return sun.NewProvider()
}

func provideTimezoneResolver(logger *slog.Logger) planetary.TimezoneResolver {
	return tzmap.NewResolver(logger)
}

// providePostgresPool returns nil when postgres is not configured or unreachable,
// which selects the memory repositories.
func providePostgresPool(cfg *config.Config, logger *slog.Logger) *pgxpool.Pool {
	if strings.TrimSpace(cfg.Postgres.DSN) == "" {
		logger.Info("postgres dsn not set, using memory repositories")
		return nil
	}
	pool, err := postgres.Open(context.Background(), postgres.PoolConfig{
		DSN:         cfg.Postgres.DSN,
		MaxConns:    cfg.Postgres.MaxConns,
		MinConns:    cfg.Postgres.MinConns,
		PingTimeout: 5 * time.Second,
	})
	if err != nil {
		logger.Error("postgres unavailable, using memory repositories", "error", err)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		logger.Error("postgres schema setup failed, using memory repositories", "error", err)
		pool.Close()
		return nil
	}
	logger.Info("postgres repositories enabled")
	return pool
}

func provideLocationRepository(pool *pgxpool.Pool) location.Repository {
	if pool == nil {
		return locationrepo.NewMemoryRepository()
	}
	return locationrepo.NewPostgresRepository(pool)
}

func provideQueryLogRepository(pool *pgxpool.Pool) querylog.Repository {
	if pool == nil {
		return querylogrepo.NewMemoryRepository(querylog.MaxLimit)
	}
	return querylogrepo.NewPostgresRepository(pool)
}

func provideHourCache(cfg *config.Config, logger *slog.Logger) planetary.HourCache {
	if cfg.Cache.Redis.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory cache", "error", err)
			return hourcache.NewMemoryCache(cfg.Cache.MaxEntries)
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory cache", "error", err)
			return hourcache.NewMemoryCache(cfg.Cache.MaxEntries)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory cache", "error", err)
			client.Close()
		} else {
			logger.Info("valkey hour cache enabled", "addr", cfg.Cache.Redis.Addr)
			return hourcache.NewValkeyCache(client, "planetary")
		}
	}
	return hourcache.NewMemoryCache(cfg.Cache.MaxEntries)
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Cache.Redis.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Cache.Redis.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Cache.Redis.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}
