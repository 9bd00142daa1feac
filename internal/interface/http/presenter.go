package http

import (
	"github.com/yanqian/weather-explorer/internal/domain/viewstate"
	"github.com/yanqian/weather-explorer/internal/domain/weather"
)

type endpointOption struct {
	ID       weather.Endpoint
	Label    string
	Selected bool
}

// panel is the template model for the console page. Sections are shown only when populated.
type panel struct {
	Endpoints []endpointOption
	Status    viewstate.Status
	Busy      bool

	ErrorKind    weather.ErrorKind
	ErrorMessage string

	HasView     bool
	ShowCurrent bool
	View        weather.View

	ForecastDays    []weather.Day
	SearchMatches   []weather.SearchMatch
	PastWeatherDays []weather.Day
	TimeZoneID      string
}

func present(state viewstate.State, endpoints []weather.EndpointInfo, selected weather.Endpoint) panel {
	p := panel{
		Endpoints: make([]endpointOption, 0, len(endpoints)),
		Status:    state.Status(),
		Busy:      state.Status() == viewstate.StatusLoading,
	}
	for _, e := range endpoints {
		p.Endpoints = append(p.Endpoints, endpointOption{ID: e.ID, Label: e.Label, Selected: e.ID == selected})
	}

	if failure, ok := state.Failure(); ok {
		p.ErrorKind = failure.Kind
		p.ErrorMessage = failure.Message
		return p
	}

	view, ok := state.View()
	if !ok {
		return p
	}
	p.HasView = true
	p.View = view
	p.ShowCurrent = view.Endpoint.ReportsCurrent()
	p.ForecastDays = view.ForecastDays
	p.SearchMatches = view.SearchMatches
	p.PastWeatherDays = view.PastWeatherDays
	if view.TimeZoneID != nil {
		p.TimeZoneID = *view.TimeZoneID
	}
	return p
}
