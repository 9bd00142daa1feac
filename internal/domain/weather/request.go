package weather

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	apperrors "github.com/yanqian/weather-explorer/pkg/errors"
)

// Validate runs the checks that must pass before any network call is made.
func (q Query) Validate() error {
	if !q.Endpoint.Valid() {
		return apperrors.Wrap(CodeValidation, "unsupported endpoint: "+string(q.Endpoint), nil)
	}
	if q.Endpoint == EndpointSearch && strings.TrimSpace(q.City) == "" {
		return apperrors.Wrap(CodeValidation, MsgCityRequired, nil)
	}
	return nil
}

// BuildURL produces the provider request URL for q, authenticated with apiKey.
func BuildURL(baseURL string, q Query, apiKey string) (string, error) {
	if err := q.Validate(); err != nil {
		return "", err
	}
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	u, err := url.Parse(base + "/" + string(q.Endpoint))
	if err != nil {
		return "", fmt.Errorf("parse provider base url: %w", err)
	}

	params := url.Values{}
	params.Set("key", apiKey)
	if q.Endpoint.RequiresCity() {
		params.Set("q", strings.TrimSpace(q.City))
	}
	if q.Endpoint == EndpointForecast && q.Days > 0 {
		params.Set("days", strconv.Itoa(q.Days))
	}
	if (q.Endpoint == EndpointHistory || q.Endpoint == EndpointFuture) && strings.TrimSpace(q.Date) != "" {
		params.Set("dt", strings.TrimSpace(q.Date))
	}
	u.RawQuery = params.Encode()
	return u.String(), nil
}
