package weather

import (
	"encoding/json"
	"fmt"
	"strings"

	apperrors "github.com/yanqian/weather-explorer/pkg/errors"
)

// Shape maps a decoded provider payload into a View for the endpoint that produced it.
// Missing or mistyped fields leave the matching view field unset.
func Shape(endpoint Endpoint, body any, city string) (View, error) {
	if raw, ok := member(body, "error"); ok {
		return View{}, providerError(raw)
	}

	view := View{
		Endpoint: endpoint,
		CityName: strings.TrimSpace(city),
	}

	switch endpoint {
	case EndpointCurrent:
		applyCurrent(&view, body)
	case EndpointForecast:
		applyCurrent(&view, body)
		view.ForecastDays = days(body)
	case EndpointSearch:
		matches := searchMatches(body)
		if len(matches) == 0 {
			return View{}, apperrors.Wrap(CodeEmptyResult, MsgNoResults, nil)
		}
		view.SearchMatches = matches
	case EndpointHistory, EndpointFuture:
		view.PastWeatherDays = days(body)
	case EndpointIPLookup:
		if _, ok := member(body, "current"); ok {
			applyCurrent(&view, body)
		}
		if name, ok := stringAt(body, "city"); ok && name != "" {
			view.CityName = name
		} else if name, ok := stringAt(body, "location", "name"); ok && name != "" {
			view.CityName = name
		}
		view.TimeZoneID = optionalString(body, "tz_id")
	case EndpointTimeZone:
		if name, ok := stringAt(body, "location", "name"); ok && name != "" {
			view.CityName = name
		}
		view.TimeZoneID = optionalString(body, "location", "tz_id")
	default:
		return View{}, apperrors.Wrap(CodeValidation, "unsupported endpoint: "+string(endpoint), nil)
	}
	return view, nil
}

func providerError(raw any) error {
	message, _ := stringAt(raw, "message")
	if strings.TrimSpace(message) == "" {
		message = msgProviderError
	}
	if code, ok := numberAt(raw, "code"); ok {
		return apperrors.Wrap(CodeAPI, message, fmt.Errorf("provider error code %v", code))
	}
	return apperrors.Wrap(CodeAPI, message, nil)
}

func applyCurrent(view *View, body any) {
	if v, ok := numberAt(body, "current", "temp_c"); ok {
		view.TemperatureCelsius = v
	}
	if v, ok := numberAt(body, "current", "humidity"); ok {
		view.HumidityPercent = v
	}
	if v, ok := stringAt(body, "current", "condition", "text"); ok {
		view.ConditionText = v
	}
}

// days reads forecast.forecastday. A missing array yields nil.
func days(body any) []Day {
	raw, ok := member(body, "forecast", "forecastday")
	if !ok {
		return nil
	}
	entries, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]Day, 0, len(entries))
	for _, entry := range entries {
		if _, isObject := entry.(map[string]any); !isObject {
			continue
		}
		var d Day
		d.Date, _ = stringAt(entry, "date")
		d.AvgTemperatureCelsius, _ = numberAt(entry, "day", "avgtemp_c")
		d.ConditionText, _ = stringAt(entry, "day", "condition", "text")
		out = append(out, d)
	}
	return out
}

// searchMatches accepts the provider's top level array as well as a search_results wrapper.
func searchMatches(body any) []SearchMatch {
	entries, ok := body.([]any)
	if !ok {
		raw, found := member(body, "search_results")
		if !found {
			return nil
		}
		if entries, ok = raw.([]any); !ok {
			return nil
		}
	}
	out := make([]SearchMatch, 0, len(entries))
	for _, entry := range entries {
		if _, isObject := entry.(map[string]any); !isObject {
			continue
		}
		var m SearchMatch
		m.Name, _ = stringAt(entry, "name")
		m.Region, _ = stringAt(entry, "region")
		m.Country, _ = stringAt(entry, "country")
		m.Latitude = optionalNumber(entry, "lat")
		m.Longitude = optionalNumber(entry, "lon")
		m.DetailURL = optionalString(entry, "url")
		out = append(out, m)
	}
	return out
}

func member(v any, path ...string) (any, bool) {
	current := v
	for _, key := range path {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		next, ok := obj[key]
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

func stringAt(v any, path ...string) (string, bool) {
	raw, ok := member(v, path...)
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	return s, ok
}

func numberAt(v any, path ...string) (float64, bool) {
	raw, ok := member(v, path...)
	if !ok {
		return 0, false
	}
	switch n := raw.(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

func optionalString(v any, path ...string) *string {
	s, ok := stringAt(v, path...)
	if !ok || s == "" {
		return nil
	}
	return &s
}

func optionalNumber(v any, path ...string) *float64 {
	n, ok := numberAt(v, path...)
	if !ok {
		return nil
	}
	return &n
}
