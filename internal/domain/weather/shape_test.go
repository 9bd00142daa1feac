package weather

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/weather-explorer/pkg/errors"
)

func TestShapeCurrent(t *testing.T) {
	body := decode(t, `{"current":{"temp_c":18,"humidity":60,"condition":{"text":"Cloudy"}}}`)

	view, err := Shape(EndpointCurrent, body, "Paris")
	require.NoError(t, err)
	require.Equal(t, View{
		Endpoint:           EndpointCurrent,
		CityName:           "Paris",
		TemperatureCelsius: 18,
		HumidityPercent:    60,
		ConditionText:      "Cloudy",
	}, view)
	require.Nil(t, view.ForecastDays)
	require.Nil(t, view.SearchMatches)
	require.Nil(t, view.PastWeatherDays)
	require.Nil(t, view.TimeZoneID)
}

func TestShapeForecast(t *testing.T) {
	body := decode(t, `{
		"current":{"temp_c":12.5,"humidity":80,"condition":{"text":"Overcast"}},
		"forecast":{"forecastday":[{"date":"2024-01-01","day":{"avgtemp_c":10,"condition":{"text":"Rain"}}}]}
	}`)

	view, err := Shape(EndpointForecast, body, "London")
	require.NoError(t, err)
	require.Equal(t, 12.5, view.TemperatureCelsius)
	require.Equal(t, []Day{{Date: "2024-01-01", AvgTemperatureCelsius: 10, ConditionText: "Rain"}}, view.ForecastDays)
	require.Nil(t, view.PastWeatherDays)
	require.Nil(t, view.SearchMatches)
}

func TestShapeForecastWithoutDaysLeavesFieldUnset(t *testing.T) {
	view, err := Shape(EndpointForecast, decode(t, `{"current":{"temp_c":1}}`), "Oslo")
	require.NoError(t, err)
	require.Nil(t, view.ForecastDays)

	view, err = Shape(EndpointForecast, decode(t, `{"forecast":{"forecastday":"nope"}}`), "Oslo")
	require.NoError(t, err)
	require.Nil(t, view.ForecastDays)
}

func TestShapeToleratesMalformedFields(t *testing.T) {
	body := decode(t, `{
		"current":{"temp_c":"warm","humidity":null,"condition":"sunny"},
		"forecast":{"forecastday":[42,{"date":"2024-02-02","day":"broken"}]}
	}`)

	view, err := Shape(EndpointForecast, body, "Lima")
	require.NoError(t, err)
	require.Zero(t, view.TemperatureCelsius)
	require.Zero(t, view.HumidityPercent)
	require.Empty(t, view.ConditionText)
	require.Equal(t, []Day{{Date: "2024-02-02"}}, view.ForecastDays)
}

func TestShapeSearchTopLevelArray(t *testing.T) {
	body := decode(t, `[{"name":"Paris","region":"Ile-de-France","country":"France","lat":48.87,"lon":2.33,"url":"paris-ile-de-france-france"},{"name":"Paris","region":"Texas","country":"United States of America"}]`)

	view, err := Shape(EndpointSearch, body, "Paris")
	require.NoError(t, err)
	require.Len(t, view.SearchMatches, 2)
	first := view.SearchMatches[0]
	require.Equal(t, "Ile-de-France", first.Region)
	require.NotNil(t, first.Latitude)
	require.Equal(t, 48.87, *first.Latitude)
	require.Equal(t, "paris-ile-de-france-france", *first.DetailURL)
	require.Nil(t, view.SearchMatches[1].Latitude)
	require.Nil(t, view.SearchMatches[1].DetailURL)
	require.Nil(t, view.ForecastDays)
}

func TestShapeSearchResultsWrapper(t *testing.T) {
	body := decode(t, `{"search_results":[{"name":"Rome","region":"Lazio","country":"Italy"}]}`)
	view, err := Shape(EndpointSearch, body, "Rome")
	require.NoError(t, err)
	require.Equal(t, "Rome", view.SearchMatches[0].Name)
}

func TestShapeSearchEmptyIsError(t *testing.T) {
	for _, raw := range []string{`[]`, `{"search_results":[]}`, `{}`} {
		_, err := Shape(EndpointSearch, decode(t, raw), "Nowhere")
		require.Error(t, err, raw)
		require.True(t, apperrors.IsCode(err, CodeEmptyResult), raw)
		require.Equal(t, MsgNoResults, apperrors.MessageOf(err))
	}
}

func TestShapeHistoryAndFutureFillPastDays(t *testing.T) {
	body := decode(t, `{"forecast":{"forecastday":[{"date":"2023-12-30","day":{"avgtemp_c":-2.5,"condition":{"text":"Snow"}}}]}}`)
	for _, e := range []Endpoint{EndpointHistory, EndpointFuture} {
		view, err := Shape(e, body, "Helsinki")
		require.NoError(t, err)
		require.Equal(t, []Day{{Date: "2023-12-30", AvgTemperatureCelsius: -2.5, ConditionText: "Snow"}}, view.PastWeatherDays)
		require.Nil(t, view.ForecastDays)
		require.Equal(t, "Helsinki", view.CityName)
	}
}

func TestShapeIPLookup(t *testing.T) {
	body := decode(t, `{"ip":"203.0.113.7","city":"Berlin","country_name":"Germany","tz_id":"Europe/Berlin"}`)
	view, err := Shape(EndpointIPLookup, body, "")
	require.NoError(t, err)
	require.Equal(t, "Berlin", view.CityName)
	require.NotNil(t, view.TimeZoneID)
	require.Equal(t, "Europe/Berlin", *view.TimeZoneID)
	require.Zero(t, view.TemperatureCelsius)

	withCurrent := decode(t, `{"location":{"name":"Munich"},"current":{"temp_c":4,"humidity":70,"condition":{"text":"Mist"}}}`)
	view, err = Shape(EndpointIPLookup, withCurrent, "")
	require.NoError(t, err)
	require.Equal(t, "Munich", view.CityName)
	require.Equal(t, 4.0, view.TemperatureCelsius)
	require.Equal(t, "Mist", view.ConditionText)
	require.Nil(t, view.TimeZoneID)
}

func TestShapeTimeZone(t *testing.T) {
	body := decode(t, `{"location":{"name":"Tokyo","tz_id":"Asia/Tokyo"}}`)
	view, err := Shape(EndpointTimeZone, body, "tokyo")
	require.NoError(t, err)
	require.Equal(t, "Tokyo", view.CityName)
	require.Equal(t, "Asia/Tokyo", *view.TimeZoneID)
	require.Nil(t, view.ForecastDays)
	require.Nil(t, view.SearchMatches)
}

func TestShapeAPIErrorTakesPrecedence(t *testing.T) {
	body := decode(t, `{"error":{"code":1006,"message":"No matching location found."},"current":{"temp_c":20}}`)
	for _, e := range AllEndpoints() {
		_, err := Shape(e, body, "Atlantis")
		require.Error(t, err, e)
		require.True(t, apperrors.IsCode(err, CodeAPI), e)
		require.Equal(t, "No matching location found.", apperrors.MessageOf(err))
	}
}

func TestShapeAPIErrorWithoutMessage(t *testing.T) {
	_, err := Shape(EndpointCurrent, decode(t, `{"error":true}`), "x")
	require.True(t, apperrors.IsCode(err, CodeAPI))
	require.Equal(t, msgProviderError, apperrors.MessageOf(err))
}

func TestShapeNilBody(t *testing.T) {
	view, err := Shape(EndpointCurrent, nil, "Paris")
	require.NoError(t, err)
	require.Equal(t, "Paris", view.CityName)

	_, err = Shape(EndpointSearch, nil, "Paris")
	require.True(t, apperrors.IsCode(err, CodeEmptyResult))
}

func decode(t *testing.T, raw string) any {
	t.Helper()
	var body any
	require.NoError(t, json.Unmarshal([]byte(raw), &body))
	return body
}
