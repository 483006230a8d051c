package db

import "tw-weather-api/internal/domain/model"

type HealthDBGateway interface {
	Health() model.ComponentHealthStatus
}
