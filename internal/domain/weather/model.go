package weather

import "time"

// Query is a single user submission.
type Query struct {
	Endpoint Endpoint `json:"endpoint"`
	City     string   `json:"city"`
	// Days is forwarded to forecast.json when positive.
	Days int `json:"days,omitempty"`
	// Date is forwarded as dt to history.json and future.json when set.
	Date string `json:"dt,omitempty"`
}

// View is the normalized record rendered for a lookup. Optional slices and pointers stay nil
// unless the queried endpoint supplied that data.
type View struct {
	Endpoint           Endpoint      `json:"endpoint"`
	CityName           string        `json:"cityName"`
	TemperatureCelsius float64       `json:"temperatureCelsius"`
	HumidityPercent    float64       `json:"humidityPercent"`
	ConditionText      string        `json:"conditionText"`
	ForecastDays       []Day         `json:"forecastDays,omitempty"`
	SearchMatches      []SearchMatch `json:"searchMatches,omitempty"`
	PastWeatherDays    []Day         `json:"pastWeatherDays,omitempty"`
	TimeZoneID         *string       `json:"timeZoneId,omitempty"`
}

// Day is one forecast or historical day.
type Day struct {
	Date                  string  `json:"date"`
	AvgTemperatureCelsius float64 `json:"avgTemperatureCelsius"`
	ConditionText         string  `json:"conditionText"`
}

// SearchMatch is one location returned by the search endpoint.
type SearchMatch struct {
	Name      string   `json:"name"`
	Region    string   `json:"region"`
	Country   string   `json:"country"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	DetailURL *string  `json:"detailUrl,omitempty"`
}

// EndpointInfo describes an endpoint option for clients building a selector.
type EndpointInfo struct {
	ID           Endpoint `json:"id"`
	Label        string   `json:"label"`
	RequiresCity bool     `json:"requiresCity"`
}

// TrendingCity counts successful lookups per city.
type TrendingCity struct {
	City  string `json:"city"`
	Count int64  `json:"count"`
}

// Lookup is a successful lookup kept in the lookup log.
type Lookup struct {
	ID           int64     `json:"id"`
	Endpoint     Endpoint  `json:"endpoint"`
	City         string    `json:"city"`
	ResolvedName string    `json:"resolvedName"`
	DurationMs   int64     `json:"durationMs"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Config wires runtime knobs for the weather domain.
type Config struct {
	RequestTimeout time.Duration
	TopTrending    int
	RecentLimit    int
}
