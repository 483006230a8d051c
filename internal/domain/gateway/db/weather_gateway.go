package db

import (
	"tw-weather-api/internal/domain/entity"
	"tw-weather-api/internal/domain/model"
)

type WeatherDBGateway interface {
	EnsureSchema() error

	Save(records []entity.WeatherRecord) (int, error)

	FindLatest() ([]entity.WeatherRecord, error)
	FindByLocation(locationName string) ([]entity.WeatherRecord, error)
	FindByTimeRange(start string, end string) ([]entity.WeatherRecord, error)

	Prune(retentionDays int) (int64, error)
	Statistics() (*model.StoreStatistics, error)
}
