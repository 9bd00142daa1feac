package weather

import (
	"context"
	"log/slog"
	"strings"
	"time"

	apperrors "github.com/yanqian/weather-explorer/pkg/errors"
	"github.com/yanqian/weather-explorer/pkg/metrics"
	"github.com/yanqian/weather-explorer/pkg/util"
)

// Service exposes weather lookups against the configured provider.
type Service interface {
	Lookup(ctx context.Context, q Query) (View, error)
	Endpoints() []EndpointInfo
	Trending(ctx context.Context) ([]TrendingCity, error)
	Recent(ctx context.Context) ([]Lookup, error)
}

type service struct {
	cfg      Config
	provider Provider
	trending TrendingStore
	lookups  LookupLog
	logger   *slog.Logger
	now      util.Clock
}

// NewService wires up the weather domain.
func NewService(cfg Config, provider Provider, trending TrendingStore, lookups LookupLog, logger *slog.Logger) Service {
	return &service{
		cfg:      cfg,
		provider: provider,
		trending: trending,
		lookups:  lookups,
		logger:   logger.With("component", "weather.service"),
		now:      util.NowUTC,
	}
}

func (s *service) Lookup(ctx context.Context, q Query) (View, error) {
	q.City = strings.TrimSpace(q.City)
	if err := q.Validate(); err != nil {
		return View{}, err
	}

	if s.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.RequestTimeout)
		defer cancel()
	}

	start := time.Now()
	payload, err := s.provider.Fetch(ctx, q)
	timing := metrics.Since(string(q.Endpoint), start)
	if err != nil {
		if apperrors.CodeOf(err) != "" {
			return View{}, err
		}
		s.logger.Warn("weather provider call failed", "endpoint", q.Endpoint, "duration_ms", timing.DurationMs, "error", err)
		return View{}, fetchFailed(q.Endpoint, err)
	}

	view, err := Shape(q.Endpoint, payload, q.City)
	if err != nil {
		s.logger.Info("weather lookup rejected", "endpoint", q.Endpoint, "code", apperrors.CodeOf(err), "message", apperrors.MessageOf(err))
		return View{}, err
	}
	s.logger.Info("weather lookup shaped", "endpoint", q.Endpoint, "city", view.CityName, "duration_ms", timing.DurationMs)

	s.remember(ctx, q, view, timing)
	return view, nil
}

func (s *service) remember(ctx context.Context, q Query, view View, timing metrics.UpstreamTiming) {
	if canonical := canonicalCity(q.City); canonical != "" {
		if err := s.trending.Increment(ctx, canonical, q.City); err != nil {
			s.logger.Warn("trending increment failed", "error", err)
		}
	}
	_, err := s.lookups.Record(ctx, Lookup{
		Endpoint:     q.Endpoint,
		City:         q.City,
		ResolvedName: view.CityName,
		DurationMs:   timing.DurationMs,
		CreatedAt:    s.now(),
	})
	if err != nil {
		s.logger.Warn("lookup log write failed", "error", err)
	}
}

func (s *service) Endpoints() []EndpointInfo {
	endpoints := AllEndpoints()
	out := make([]EndpointInfo, 0, len(endpoints))
	for _, e := range endpoints {
		out = append(out, EndpointInfo{ID: e, Label: e.Label(), RequiresCity: e.RequiresCity()})
	}
	return out
}

func (s *service) Trending(ctx context.Context) ([]TrendingCity, error) {
	items, err := s.trending.Top(ctx, s.cfg.TopTrending)
	if err != nil {
		return nil, apperrors.Wrap("store_error", "failed to load trending cities", err)
	}
	return items, nil
}

func (s *service) Recent(ctx context.Context) ([]Lookup, error) {
	items, err := s.lookups.Recent(ctx, s.cfg.RecentLimit)
	if err != nil {
		return nil, apperrors.Wrap("store_error", "failed to load recent lookups", err)
	}
	return items, nil
}

// canonicalCity lowercases and collapses whitespace so "  New   York" and "new york" count together.
func canonicalCity(city string) string {
	return strings.ToLower(strings.Join(strings.Fields(city), " "))
}
