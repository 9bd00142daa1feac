package viewstate

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/yanqian/weather-explorer/internal/domain/weather"
	apperrors "github.com/yanqian/weather-explorer/pkg/errors"
)

// CodeInFlight rejects a submission while the previous one is still running.
const CodeInFlight = "in_flight"

// Service drives the idle → loading → succeeded|failed cycle of a session.
type Service interface {
	Current(ctx context.Context, session string) (State, error)
	Submit(ctx context.Context, session string, q weather.Query) (State, error)
	Reset(ctx context.Context, session string) error
}

// Config holds runtime knobs for session state.
type Config struct {
	// SettleTimeout bounds the store write that ends a submission.
	SettleTimeout time.Duration
}

type service struct {
	cfg     Config
	weather weather.Service
	store   Store
	logger  *slog.Logger
}

// NewService wires the view state machine to the weather domain.
func NewService(cfg Config, weatherSvc weather.Service, store Store, logger *slog.Logger) Service {
	return &service{
		cfg:     cfg,
		weather: weatherSvc,
		store:   store,
		logger:  logger.With("component", "viewstate.service"),
	}
}

func (s *service) Current(ctx context.Context, session string) (State, error) {
	if strings.TrimSpace(session) == "" {
		return Idle(), nil
	}
	state, err := s.store.Load(ctx, session)
	if err != nil {
		return State{}, apperrors.Wrap("store_error", "failed to load view state", err)
	}
	return state, nil
}

func (s *service) Submit(ctx context.Context, session string, q weather.Query) (State, error) {
	if strings.TrimSpace(session) == "" {
		return State{}, apperrors.Wrap("invalid_input", "session id is required", nil)
	}
	started, err := s.store.Begin(ctx, session)
	if err != nil {
		return State{}, apperrors.Wrap("store_error", "failed to start submission", err)
	}
	if !started {
		return State{}, apperrors.Wrap(CodeInFlight, "a lookup is already in progress", nil)
	}

	var next State
	view, lookupErr := s.weather.Lookup(ctx, q)
	if lookupErr != nil {
		next = Failed(weather.KindOf(lookupErr), apperrors.MessageOf(lookupErr))
	} else {
		next = Succeeded(view)
	}

	// The request context may already be cancelled; the guard must still be released.
	settleCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.settleTimeout())
	defer cancel()
	if err := s.store.Settle(settleCtx, session, next); err != nil {
		s.logger.Error("view state settle failed", "session", session, "error", err)
		return State{}, apperrors.Wrap("store_error", "failed to save view state", err)
	}
	return next, nil
}

func (s *service) Reset(ctx context.Context, session string) error {
	if strings.TrimSpace(session) == "" {
		return nil
	}
	if err := s.store.Clear(ctx, session); err != nil {
		return apperrors.Wrap("store_error", "failed to reset view state", err)
	}
	return nil
}

func (s *service) settleTimeout() time.Duration {
	if s.cfg.SettleTimeout > 0 {
		return s.cfg.SettleTimeout
	}
	return 2 * time.Second
}
