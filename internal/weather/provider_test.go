package weather_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmstead/farmstead-backend/internal/weather"
	"github.com/farmstead/farmstead-backend/pkg/logger"
)

const openMeteoPayload = `{
	"latitude": 52.52,
	"longitude": 13.41,
	"current": {
		"time": "2025-06-15T14:00",
		"temperature_2m": 21.3,
		"precipitation": 0.2,
		"wind_speed_10m": 14.8,
		"weather_code": 61
	},
	"daily": {
		"time": ["2025-06-15", "2025-06-16", "2025-06-17"],
		"temperature_2m_max": [24.1, 22.0, 19.5],
		"temperature_2m_min": [12.3, 11.0, 9.8],
		"precipitation_sum": [0.2, 4.5, 0.0],
		"wind_speed_10m_max": [20.1, 25.3, 18.0],
		"weather_code": [61, 80, 0]
	}
}`

func TestOpenMeteoProvider_Fetch(t *testing.T) {
	var gotQuery map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/forecast", r.URL.Path)
		gotQuery = map[string]string{
			"latitude":      r.URL.Query().Get("latitude"),
			"longitude":     r.URL.Query().Get("longitude"),
			"forecast_days": r.URL.Query().Get("forecast_days"),
			"timezone":      r.URL.Query().Get("timezone"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(openMeteoPayload))
	}))
	defer server.Close()

	provider := weather.NewOpenMeteoProvider(server.URL, logger.New("test", "test"))

	report, err := provider.Fetch(context.Background(), 52.52, 13.405)
	require.NoError(t, err)

	assert.Equal(t, "52.5200", gotQuery["latitude"])
	assert.Equal(t, "13.4050", gotQuery["longitude"])
	assert.Equal(t, "7", gotQuery["forecast_days"])
	assert.Equal(t, "UTC", gotQuery["timezone"])

	assert.Equal(t, 52.52, report.Latitude)
	assert.Equal(t, 21.3, report.Current.TemperatureC)
	assert.Equal(t, 14.8, report.Current.WindSpeedKmh)
	assert.Equal(t, 61, report.Current.WeatherCode)
	assert.Equal(t, "rain", report.Current.Description)
	assert.False(t, report.FetchedAt.IsZero())

	require.Len(t, report.Forecast, 3)
	first := report.Forecast[0]
	assert.Equal(t, time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, 24.1, first.MaxTempC)
	assert.Equal(t, 12.3, first.MinTempC)
	assert.Equal(t, "rain", first.Description)

	assert.Equal(t, "rain showers", report.Forecast[1].Description)
	assert.Equal(t, "clear sky", report.Forecast[2].Description)
}

func TestOpenMeteoProvider_Fetch_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer server.Close()

	provider := weather.NewOpenMeteoProvider(server.URL, logger.New("test", "test"))

	_, err := provider.Fetch(context.Background(), 52.52, 13.405)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestOpenMeteoProvider_Fetch_BadPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	provider := weather.NewOpenMeteoProvider(server.URL, logger.New("test", "test"))

	_, err := provider.Fetch(context.Background(), 52.52, 13.405)
	require.Error(t, err)
}

func TestStaticProvider_Fetch(t *testing.T) {
	provider := weather.NewStaticProvider()

	report, err := provider.Fetch(context.Background(), 40.7, -74.0)
	require.NoError(t, err)

	assert.Equal(t, 40.7, report.Latitude)
	assert.Equal(t, -74.0, report.Longitude)
	assert.Equal(t, 18.5, report.Current.TemperatureC)
	require.Len(t, report.Forecast, 7)

	// Forecast days are consecutive starting today
	for i := 1; i < len(report.Forecast); i++ {
		prev := report.Forecast[i-1].Date
		assert.Equal(t, prev.AddDate(0, 0, 1), report.Forecast[i].Date)
	}
}
