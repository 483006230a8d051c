package weather

import (
	"context"

	"tw-weather-api/internal/domain/entity"
	"tw-weather-api/internal/domain/model"
)

type UseCase interface {
	// GetCurrentWeather returns current conditions, preferring a live
	// fetch and degrading to the cache and then the durable store
	GetCurrentWeather(ctx context.Context, forceRefresh bool) (*model.WeatherSnapshot, error)

	// GetWeeklyForecast returns the weekly forecast bundle
	GetWeeklyForecast(ctx context.Context, forceRefresh bool) (*model.ForecastSnapshot, error)

	// RefreshObservations fetches current conditions and persists them
	RefreshObservations(ctx context.Context, requestID string) (*model.RefreshResult, error)

	// GetLocationHistory returns the stored history of one location,
	// newest first
	GetLocationHistory(locationName string) ([]entity.WeatherRecord, error)

	// GetRecordsByTimeRange returns stored records inside [start, end]
	GetRecordsByTimeRange(start string, end string) ([]entity.WeatherRecord, error)

	// PruneOldRecords deletes records stored before the retention
	// window. days <= 0 uses the configured retention.
	PruneOldRecords(requestID string, days int) (*model.PruneResult, error)

	// GetStoreStatistics returns aggregate counts over the durable store
	GetStoreStatistics() (*model.StoreStatistics, error)
}
