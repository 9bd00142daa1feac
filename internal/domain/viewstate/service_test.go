package viewstate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/weather-explorer/internal/domain/weather"
	apperrors "github.com/yanqian/weather-explorer/pkg/errors"
)

func TestSubmitSuccessReplacesFailure(t *testing.T) {
	store := newStubStore()
	store.states["s1"] = Failed(weather.KindAPI, "old error")
	weatherSvc := &stubWeather{view: weather.View{Endpoint: weather.EndpointCurrent, CityName: "Paris"}}
	svc := newTestService(weatherSvc, store)

	state, err := svc.Submit(context.Background(), "s1", weather.Query{Endpoint: weather.EndpointCurrent, City: "Paris"})
	require.NoError(t, err)
	require.Equal(t, StatusSucceeded, state.Status())
	_, hasFailure := state.Failure()
	require.False(t, hasFailure)

	stored, err := svc.Current(context.Background(), "s1")
	require.NoError(t, err)
	view, ok := stored.View()
	require.True(t, ok)
	require.Equal(t, "Paris", view.CityName)
	require.False(t, store.inFlight["s1"])
}

func TestSubmitFailureReplacesView(t *testing.T) {
	store := newStubStore()
	store.states["s1"] = Succeeded(weather.View{CityName: "Paris"})
	weatherSvc := &stubWeather{err: apperrors.Wrap(weather.CodeValidation, weather.MsgCityRequired, nil)}
	svc := newTestService(weatherSvc, store)

	state, err := svc.Submit(context.Background(), "s1", weather.Query{Endpoint: weather.EndpointSearch})
	require.NoError(t, err)
	failure, ok := state.Failure()
	require.True(t, ok)
	require.Equal(t, weather.KindValidation, failure.Kind)
	require.Equal(t, weather.MsgCityRequired, failure.Message)
	_, hasView := state.View()
	require.False(t, hasView)
}

func TestSubmitRejectsOverlappingSubmission(t *testing.T) {
	store := newStubStore()
	store.inFlight["s1"] = true
	weatherSvc := &stubWeather{}
	svc := newTestService(weatherSvc, store)

	_, err := svc.Submit(context.Background(), "s1", weather.Query{Endpoint: weather.EndpointCurrent, City: "Oslo"})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, CodeInFlight))
	require.Zero(t, weatherSvc.calls)
}

func TestSubmitSettlesWhenRequestCancelled(t *testing.T) {
	store := newStubStore()
	weatherSvc := &stubWeather{err: apperrors.Wrap(weather.CodeTransport, "fetch failed for current.json", context.Canceled)}
	svc := newTestService(weatherSvc, store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	state, err := svc.Submit(ctx, "s1", weather.Query{Endpoint: weather.EndpointCurrent, City: "Oslo"})
	require.NoError(t, err)
	require.Equal(t, StatusFailed, state.Status())
	require.False(t, store.inFlight["s1"])
}

func TestSubmitRequiresSession(t *testing.T) {
	svc := newTestService(&stubWeather{}, newStubStore())
	_, err := svc.Submit(context.Background(), " ", weather.Query{})
	require.True(t, apperrors.IsCode(err, "invalid_input"))
}

func TestCurrentAndReset(t *testing.T) {
	store := newStubStore()
	store.states["s1"] = Succeeded(weather.View{CityName: "Rome"})
	svc := newTestService(&stubWeather{}, store)

	state, err := svc.Current(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, StatusIdle, state.Status())

	require.NoError(t, svc.Reset(context.Background(), "s1"))
	state, err = svc.Current(context.Background(), "s1")
	require.NoError(t, err)
	require.Equal(t, StatusIdle, state.Status())

	store.err = errors.New("down")
	_, err = svc.Current(context.Background(), "s1")
	require.True(t, apperrors.IsCode(err, "store_error"))
}

func newTestService(weatherSvc weather.Service, store Store) Service {
	return NewService(Config{}, weatherSvc, store, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type stubWeather struct {
	view  weather.View
	err   error
	calls int
}

func (s *stubWeather) Lookup(ctx context.Context, q weather.Query) (weather.View, error) {
	s.calls++
	if s.err != nil {
		return weather.View{}, s.err
	}
	return s.view, nil
}

func (s *stubWeather) Endpoints() []weather.EndpointInfo { return nil }

func (s *stubWeather) Trending(ctx context.Context) ([]weather.TrendingCity, error) { return nil, nil }

func (s *stubWeather) Recent(ctx context.Context) ([]weather.Lookup, error) { return nil, nil }

type stubStore struct {
	mu       sync.Mutex
	states   map[string]State
	inFlight map[string]bool
	err      error
}

func newStubStore() *stubStore {
	return &stubStore{states: map[string]State{}, inFlight: map[string]bool{}}
}

func (s *stubStore) Load(ctx context.Context, session string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return State{}, s.err
	}
	if s.inFlight[session] {
		return Loading(), nil
	}
	if state, ok := s.states[session]; ok {
		return state, nil
	}
	return Idle(), nil
}

func (s *stubStore) Begin(ctx context.Context, session string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[session] {
		return false, nil
	}
	s.inFlight[session] = true
	return true, nil
}

func (s *stubStore) Settle(ctx context.Context, session string, state State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[session] = state
	delete(s.inFlight, session)
	return nil
}

func (s *stubStore) Clear(ctx context.Context, session string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, session)
	delete(s.inFlight, session)
	return nil
}
