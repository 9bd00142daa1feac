package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/weather-explorer/internal/domain/viewstate"
	"github.com/yanqian/weather-explorer/internal/domain/weather"
	"github.com/yanqian/weather-explorer/internal/infra/config"
	"github.com/yanqian/weather-explorer/internal/infra/lookuplog"
	"github.com/yanqian/weather-explorer/internal/infra/sessionstore"
	"github.com/yanqian/weather-explorer/internal/infra/trending"
	"github.com/yanqian/weather-explorer/internal/infra/weatherapi"
	httpiface "github.com/yanqian/weather-explorer/internal/interface/http"
)

const (
	valkeyPrefix   = "weather"
	inFlightExpiry = 30 * time.Second
)

func provideWeatherConfig(cfg *config.Config) weather.Config {
	return weather.Config{
		RequestTimeout: cfg.Weather.RequestTimeout,
		TopTrending:    cfg.Trending.Top,
		RecentLimit:    cfg.Lookups.RecentLimit,
	}
}

func provideViewStateConfig() viewstate.Config {
	return viewstate.Config{SettleTimeout: 2 * time.Second}
}

func provideCookieConfig(cfg *config.Config) httpiface.CookieConfig {
	return httpiface.CookieConfig{Name: cfg.Session.CookieName, TTL: cfg.Session.TTL}
}

func provideWeatherClient(cfg *config.Config) *weatherapi.Client {
	return weatherapi.NewClient(cfg.Weather.BaseURL, cfg.Weather.APIKey, cfg.Weather.RequestTimeout)
}

// provideValkeyClient returns nil when no store asks for Valkey or the server is unreachable.
func provideValkeyClient(cfg *config.Config, logger *slog.Logger) (valkey.Client, func()) {
	noop := func() {}
	if !cfg.Session.UseRedis && !cfg.Trending.UseRedis {
		return nil, noop
	}
	opt, err := buildValkeyOptions(cfg)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory stores", "error", err)
		return nil, noop
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory stores", "error", err)
		return nil, noop
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory stores", "error", err)
		client.Close()
		return nil, noop
	}
	logger.Info("valkey connected", "addr", cfg.Redis.Addr)
	return client, client.Close
}

func provideTrendingStore(cfg *config.Config, client valkey.Client, logger *slog.Logger) weather.TrendingStore {
	if cfg.Trending.UseRedis && client != nil {
		logger.Info("trending valkey store enabled")
		return trending.NewValkeyStore(client, valkeyPrefix)
	}
	return trending.NewMemoryStore()
}

func provideSessionStore(cfg *config.Config, client valkey.Client, logger *slog.Logger) viewstate.Store {
	if cfg.Session.UseRedis && client != nil {
		logger.Info("session valkey store enabled")
		return sessionstore.NewValkeyStore(client, valkeyPrefix, cfg.Session.TTL, inFlightExpiry)
	}
	return sessionstore.NewMemoryStore(cfg.Session.TTL)
}

func provideLookupLog(cfg *config.Config, logger *slog.Logger) (weather.LookupLog, func()) {
	noop := func() {}
	fallback := lookuplog.NewMemoryRepository(cfg.Lookups.RecentLimit)
	switch cfg.Lookups.Driver {
	case "postgres":
		pool, err := openPostgresPool(cfg.Lookups.Postgres)
		if err != nil {
			logger.Error("postgres unavailable, using memory lookup log", "error", err)
			return fallback, noop
		}
		repo := lookuplog.NewPostgresRepository(pool)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := repo.EnsureSchema(ctx); err != nil {
			logger.Error("postgres schema setup failed, using memory lookup log", "error", err)
			pool.Close()
			return fallback, noop
		}
		logger.Info("postgres lookup log enabled")
		return repo, pool.Close
	case "sqlite":
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		repo, err := lookuplog.OpenSQLite(ctx, cfg.Lookups.SQLitePath)
		if err != nil {
			logger.Error("sqlite unavailable, using memory lookup log", "path", cfg.Lookups.SQLitePath, "error", err)
			return fallback, noop
		}
		logger.Info("sqlite lookup log enabled", "path", cfg.Lookups.SQLitePath)
		return repo, func() {
			if err := repo.Close(); err != nil {
				logger.Warn("sqlite close failed", "error", err)
			}
		}
	default:
		return fallback, noop
	}
}

func openPostgresPool(cfg config.PostgresConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(strings.TrimSpace(cfg.DSN))
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	if strings.Contains(cfg.Redis.Addr, "://") {
		return valkey.ParseURL(cfg.Redis.Addr)
	}
	return valkey.ClientOption{InitAddress: []string{cfg.Redis.Addr}}, nil
}
