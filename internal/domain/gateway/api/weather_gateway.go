package api

import (
	"tw-weather-api/internal/domain/model"
)

// WeatherGateway defines the interface for CWA OpenData API calls
type WeatherGateway interface {
	// FetchObservations fetches current station observations and returns
	// the normalized records plus per-station skip diagnostics. Partial
	// parse success is still overall success.
	FetchObservations() (*model.ObservationBatch, error)

	// FetchWeeklyForecast fetches the one-week county forecast grouped by
	// minute-precision time key.
	FetchWeeklyForecast() (*model.ForecastBatch, error)
}
