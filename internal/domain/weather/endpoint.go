package weather

import (
	"strings"

	apperrors "github.com/yanqian/weather-explorer/pkg/errors"
)

// Endpoint identifies one query mode of the weather provider by its path.
type Endpoint string

const (
	EndpointCurrent  Endpoint = "current.json"
	EndpointForecast Endpoint = "forecast.json"
	EndpointSearch   Endpoint = "search.json"
	EndpointHistory  Endpoint = "history.json"
	EndpointFuture   Endpoint = "future.json"
	EndpointIPLookup Endpoint = "ip.json"
	EndpointTimeZone Endpoint = "timezone.json"
)

var allEndpoints = []Endpoint{
	EndpointCurrent,
	EndpointForecast,
	EndpointSearch,
	EndpointHistory,
	EndpointFuture,
	EndpointIPLookup,
	EndpointTimeZone,
}

// AllEndpoints returns the endpoints in the order they are offered to users.
func AllEndpoints() []Endpoint {
	out := make([]Endpoint, len(allEndpoints))
	copy(out, allEndpoints)
	return out
}

// ParseEndpoint accepts either the provider path ("current.json") or the bare name ("current").
func ParseEndpoint(raw string) (Endpoint, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	if name == "" {
		return "", apperrors.Wrap(CodeValidation, "endpoint is required", nil)
	}
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	for _, e := range allEndpoints {
		if string(e) == name {
			return e, nil
		}
	}
	return "", apperrors.Wrap(CodeValidation, "unsupported endpoint: "+raw, nil)
}

// Valid reports whether e is one of the known endpoints.
func (e Endpoint) Valid() bool {
	for _, known := range allEndpoints {
		if e == known {
			return true
		}
	}
	return false
}

// Label is the human readable name shown in the endpoint selector.
func (e Endpoint) Label() string {
	switch e {
	case EndpointCurrent:
		return "Current Weather"
	case EndpointForecast:
		return "Forecast"
	case EndpointSearch:
		return "Search"
	case EndpointHistory:
		return "History"
	case EndpointFuture:
		return "Future"
	case EndpointIPLookup:
		return "IP Location"
	case EndpointTimeZone:
		return "Time Zone"
	default:
		return string(e)
	}
}

// RequiresCity reports whether the q parameter is sent. The IP lookup resolves the caller instead.
func (e Endpoint) RequiresCity() bool {
	return e != EndpointIPLookup
}

// ReportsCurrent reports whether the endpoint fills the base temperature/humidity/condition fields.
func (e Endpoint) ReportsCurrent() bool {
	switch e {
	case EndpointCurrent, EndpointForecast, EndpointIPLookup:
		return true
	default:
		return false
	}
}
