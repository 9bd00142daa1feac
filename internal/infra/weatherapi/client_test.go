package weatherapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/weather-explorer/internal/domain/weather"
	apperrors "github.com/yanqian/weather-explorer/pkg/errors"
)

const testAPIKey = "test-key"

func TestFetchCurrent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/current.json", r.URL.Path)
		assert.Equal(t, testAPIKey, r.URL.Query().Get("key"))
		assert.Equal(t, "Rio de Janeiro", r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"current":{"temp_c":29.5,"humidity":74,"condition":{"text":"Sunny"}}}`))
	}))
	defer srv.Close()

	payload, err := NewClient(srv.URL+"/v1/", testAPIKey, time.Second).Fetch(context.Background(), weather.Query{Endpoint: weather.EndpointCurrent, City: "Rio de Janeiro"})
	require.NoError(t, err)

	view, err := weather.Shape(weather.EndpointCurrent, payload, "Rio de Janeiro")
	require.NoError(t, err)
	require.Equal(t, 29.5, view.TemperatureCelsius)
	require.Equal(t, "Sunny", view.ConditionText)
}

func TestFetchIPLookupOmitsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ip.json", r.URL.Path)
		_, has := r.URL.Query()["q"]
		assert.False(t, has)
		_, _ = w.Write([]byte(`{"city":"Berlin","tz_id":"Europe/Berlin"}`))
	}))
	defer srv.Close()

	payload, err := NewClient(srv.URL, testAPIKey, time.Second).Fetch(context.Background(), weather.Query{Endpoint: weather.EndpointIPLookup})
	require.NoError(t, err)
	require.Equal(t, "Berlin", payload.(map[string]any)["city"])
}

func TestFetchErrorBodyOnBadRequestIsReturnedAsPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":1006,"message":"No matching location found."}}`))
	}))
	defer srv.Close()

	payload, err := NewClient(srv.URL, testAPIKey, time.Second).Fetch(context.Background(), weather.Query{Endpoint: weather.EndpointCurrent, City: "Atlantis"})
	require.NoError(t, err)

	_, err = weather.Shape(weather.EndpointCurrent, payload, "Atlantis")
	require.True(t, apperrors.IsCode(err, weather.CodeAPI))
	require.Equal(t, "No matching location found.", apperrors.MessageOf(err))
}

func TestFetchServerErrorWithoutErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, testAPIKey, time.Second).Fetch(context.Background(), weather.Query{Endpoint: weather.EndpointCurrent, City: "Oslo"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "status=502")
	require.Empty(t, apperrors.CodeOf(err))
}

func TestFetchMalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"current":`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, testAPIKey, time.Second).Fetch(context.Background(), weather.Query{Endpoint: weather.EndpointCurrent, City: "Oslo"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "decode weather response")
}

func TestFetchSearchWithoutCityMakesNoRequest(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, testAPIKey, time.Second).Fetch(context.Background(), weather.Query{Endpoint: weather.EndpointSearch})
	require.True(t, apperrors.IsCode(err, weather.CodeValidation))
	require.Zero(t, calls)
}

func TestFetchContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(srv.URL, testAPIKey, time.Second).Fetch(ctx, weather.Query{Endpoint: weather.EndpointCurrent, City: "Oslo"})
	require.Error(t, err)
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient("  ", "k", 0)
	require.Equal(t, defaultBaseURL, c.baseURL)
	require.Equal(t, 10*time.Second, c.httpClient.Timeout)
}
