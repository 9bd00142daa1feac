package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Weather  WeatherConfig  `yaml:"weather"`
	Session  SessionConfig  `yaml:"session"`
	Trending TrendingConfig `yaml:"trending"`
	Lookups  LookupsConfig  `yaml:"lookups"`
	Redis    RedisConfig    `yaml:"redis"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// WeatherConfig holds the provider credential and call limits.
type WeatherConfig struct {
	APIKey         string        `yaml:"apiKey"`
	BaseURL        string        `yaml:"baseUrl"`
	RequestTimeout time.Duration `yaml:"requestTimeout"`
}

// SessionConfig controls the per-session view state.
type SessionConfig struct {
	CookieName string        `yaml:"cookieName"`
	TTL        time.Duration `yaml:"ttl"`
	UseRedis   bool          `yaml:"useRedis"`
}

// TrendingConfig controls the popular city counter.
type TrendingConfig struct {
	Top      int  `yaml:"top"`
	UseRedis bool `yaml:"useRedis"`
}

// LookupsConfig selects the lookup log backend: memory, postgres or sqlite.
type LookupsConfig struct {
	Driver      string         `yaml:"driver"`
	RecentLimit int            `yaml:"recentLimit"`
	Postgres    PostgresConfig `yaml:"postgres"`
	SQLitePath  string         `yaml:"sqlitePath"`
}

// RedisConfig contains connection information for the shared Valkey instance.
type RedisConfig struct {
	Addr string `yaml:"addr"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("WEATHER_API_KEY"); v != "" {
		cfg.Weather.APIKey = v
	}
	if v := os.Getenv("WEATHER_API_BASE_URL"); v != "" {
		cfg.Weather.BaseURL = v
	}
	if v := os.Getenv("WEATHER_REQUEST_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Weather.RequestTimeout = parsed
		}
	}
	if v := os.Getenv("SESSION_COOKIE_NAME"); v != "" {
		cfg.Session.CookieName = v
	}
	if v := os.Getenv("SESSION_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Session.TTL = parsed
		}
	}
	if v := os.Getenv("SESSION_USE_REDIS"); v != "" {
		cfg.Session.UseRedis = parseBool(v)
	}
	if v := os.Getenv("TRENDING_TOP"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Trending.Top = parsed
		}
	}
	if v := os.Getenv("TRENDING_USE_REDIS"); v != "" {
		cfg.Trending.UseRedis = parseBool(v)
	}
	if v := os.Getenv("LOOKUPS_DRIVER"); v != "" {
		cfg.Lookups.Driver = strings.ToLower(v)
	}
	if v := os.Getenv("LOOKUPS_RECENT_LIMIT"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Lookups.RecentLimit = parsed
		}
	}
	if v := os.Getenv("LOOKUPS_POSTGRES_DSN"); v != "" {
		cfg.Lookups.Postgres.DSN = v
	}
	if v := os.Getenv("LOOKUPS_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Lookups.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("LOOKUPS_POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Lookups.Postgres.MinConns = int32(parsed)
		}
	}
	if v := os.Getenv("LOOKUPS_SQLITE_PATH"); v != "" {
		cfg.Lookups.SQLitePath = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 15 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
		},
		Weather: WeatherConfig{
			BaseURL:        "https://api.weatherapi.com/v1",
			RequestTimeout: 10 * time.Second,
		},
		Session: SessionConfig{
			CookieName: "wx_session",
			TTL:        24 * time.Hour,
		},
		Trending: TrendingConfig{
			Top: 10,
		},
		Lookups: LookupsConfig{
			Driver:      "memory",
			RecentLimit: 20,
			Postgres: PostgresConfig{
				MaxConns: 4,
			},
			SQLitePath: "data/lookups.db",
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if strings.TrimSpace(c.Weather.APIKey) == "" {
		return errors.New("weather.apiKey cannot be empty (set WEATHER_API_KEY)")
	}
	if strings.TrimSpace(c.Weather.BaseURL) == "" {
		return errors.New("weather.baseUrl cannot be empty")
	}
	if c.Weather.RequestTimeout <= 0 {
		return errors.New("weather.requestTimeout must be positive")
	}
	if c.HTTP.WriteTimeout > 0 && c.HTTP.WriteTimeout <= c.Weather.RequestTimeout {
		return errors.New("http.writeTimeout must exceed weather.requestTimeout")
	}
	if strings.TrimSpace(c.Session.CookieName) == "" {
		return errors.New("session.cookieName cannot be empty")
	}
	if c.Session.TTL <= 0 {
		return errors.New("session.ttl must be positive")
	}
	if c.Trending.Top < 0 {
		return errors.New("trending.top cannot be negative")
	}
	if c.Lookups.RecentLimit < 0 {
		return errors.New("lookups.recentLimit cannot be negative")
	}
	switch c.Lookups.Driver {
	case "memory":
	case "postgres":
		if strings.TrimSpace(c.Lookups.Postgres.DSN) == "" {
			return errors.New("lookups.postgres.dsn cannot be empty when driver is postgres")
		}
	case "sqlite":
		if strings.TrimSpace(c.Lookups.SQLitePath) == "" {
			return errors.New("lookups.sqlitePath cannot be empty when driver is sqlite")
		}
	default:
		return fmt.Errorf("lookups.driver %q must be memory, postgres or sqlite", c.Lookups.Driver)
	}
	if (c.Session.UseRedis || c.Trending.UseRedis) && strings.TrimSpace(c.Redis.Addr) == "" {
		return errors.New("redis.addr cannot be empty when a redis backed store is enabled")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	return nil
}
