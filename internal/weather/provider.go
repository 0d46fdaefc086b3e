package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/farmstead/farmstead-backend/pkg/logger"
)

// Conditions is a single weather observation or forecast day
type Conditions struct {
	Date          time.Time `json:"date"`
	TemperatureC  float64   `json:"temperature_c"`
	MinTempC      float64   `json:"min_temp_c"`
	MaxTempC      float64   `json:"max_temp_c"`
	Precipitation float64   `json:"precipitation_mm"`
	WindSpeedKmh  float64   `json:"wind_speed_kmh"`
	WeatherCode   int       `json:"weather_code"`
	Description   string    `json:"description"`
}

// Report is the current conditions plus a daily forecast
type Report struct {
	Latitude  float64      `json:"latitude"`
	Longitude float64      `json:"longitude"`
	Current   Conditions   `json:"current"`
	Forecast  []Conditions `json:"forecast"`
	FetchedAt time.Time    `json:"fetched_at"`
}

// Provider fetches weather for a coordinate
type Provider interface {
	Fetch(ctx context.Context, latitude, longitude float64) (*Report, error)
}

// OpenMeteoProvider fetches weather from the Open-Meteo forecast API
type OpenMeteoProvider struct {
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewOpenMeteoProvider creates a new Open-Meteo provider
func NewOpenMeteoProvider(baseURL string, log *logger.Logger) *OpenMeteoProvider {
	if baseURL == "" {
		baseURL = "https://api.open-meteo.com"
	}
	return &OpenMeteoProvider{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     log,
	}
}

// openMeteoResponse mirrors the slice of the Open-Meteo payload we consume
type openMeteoResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Current   struct {
		Time          string  `json:"time"`
		Temperature   float64 `json:"temperature_2m"`
		Precipitation float64 `json:"precipitation"`
		WindSpeed     float64 `json:"wind_speed_10m"`
		WeatherCode   int     `json:"weather_code"`
	} `json:"current"`
	Daily struct {
		Time          []string  `json:"time"`
		TempMax       []float64 `json:"temperature_2m_max"`
		TempMin       []float64 `json:"temperature_2m_min"`
		Precipitation []float64 `json:"precipitation_sum"`
		WindSpeedMax  []float64 `json:"wind_speed_10m_max"`
		WeatherCode   []int     `json:"weather_code"`
	} `json:"daily"`
}

// Fetch retrieves current conditions and a 7-day forecast
func (p *OpenMeteoProvider) Fetch(ctx context.Context, latitude, longitude float64) (*Report, error) {
	endpoint := fmt.Sprintf("%s/v1/forecast", p.baseURL)

	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%.4f", latitude))
	params.Set("longitude", fmt.Sprintf("%.4f", longitude))
	params.Set("current", "temperature_2m,precipitation,wind_speed_10m,weather_code")
	params.Set("daily", "temperature_2m_max,temperature_2m_min,precipitation_sum,wind_speed_10m_max,weather_code")
	params.Set("forecast_days", "7")
	params.Set("timezone", "UTC")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather service returned status %d", resp.StatusCode)
	}

	var payload openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode weather response: %w", err)
	}

	return mapReport(&payload), nil
}

func mapReport(payload *openMeteoResponse) *Report {
	now := time.Now().UTC()

	report := &Report{
		Latitude:  payload.Latitude,
		Longitude: payload.Longitude,
		Current: Conditions{
			Date:          now,
			TemperatureC:  payload.Current.Temperature,
			Precipitation: payload.Current.Precipitation,
			WindSpeedKmh:  payload.Current.WindSpeed,
			WeatherCode:   payload.Current.WeatherCode,
			Description:   describeWeatherCode(payload.Current.WeatherCode),
		},
		FetchedAt: now,
	}

	for i, day := range payload.Daily.Time {
		date, err := time.Parse("2006-01-02", day)
		if err != nil {
			continue
		}

		conditions := Conditions{Date: date}
		if i < len(payload.Daily.TempMax) {
			conditions.MaxTempC = payload.Daily.TempMax[i]
		}
		if i < len(payload.Daily.TempMin) {
			conditions.MinTempC = payload.Daily.TempMin[i]
		}
		if i < len(payload.Daily.Precipitation) {
			conditions.Precipitation = payload.Daily.Precipitation[i]
		}
		if i < len(payload.Daily.WindSpeedMax) {
			conditions.WindSpeedKmh = payload.Daily.WindSpeedMax[i]
		}
		if i < len(payload.Daily.WeatherCode) {
			conditions.WeatherCode = payload.Daily.WeatherCode[i]
			conditions.Description = describeWeatherCode(payload.Daily.WeatherCode[i])
		}

		report.Forecast = append(report.Forecast, conditions)
	}

	return report
}

// describeWeatherCode maps WMO weather codes to readable descriptions
func describeWeatherCode(code int) string {
	switch {
	case code == 0:
		return "clear sky"
	case code <= 3:
		return "partly cloudy"
	case code <= 48:
		return "fog"
	case code <= 57:
		return "drizzle"
	case code <= 67:
		return "rain"
	case code <= 77:
		return "snow"
	case code <= 82:
		return "rain showers"
	case code <= 86:
		return "snow showers"
	default:
		return "thunderstorm"
	}
}

// StaticProvider returns deterministic canned weather. Used in development
// and tests where no network access is wanted.
type StaticProvider struct{}

// NewStaticProvider creates a static provider
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{}
}

// Fetch returns a fixed mild-weather report for the coordinate
func (p *StaticProvider) Fetch(_ context.Context, latitude, longitude float64) (*Report, error) {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	report := &Report{
		Latitude:  latitude,
		Longitude: longitude,
		Current: Conditions{
			Date:          now,
			TemperatureC:  18.5,
			Precipitation: 0,
			WindSpeedKmh:  12,
			WeatherCode:   1,
			Description:   "partly cloudy",
		},
		FetchedAt: now,
	}

	for i := 0; i < 7; i++ {
		report.Forecast = append(report.Forecast, Conditions{
			Date:          today.AddDate(0, 0, i),
			MinTempC:      10,
			MaxTempC:      22,
			Precipitation: 0.5,
			WindSpeedKmh:  15,
			WeatherCode:   2,
			Description:   "partly cloudy",
		})
	}

	return report, nil
}
