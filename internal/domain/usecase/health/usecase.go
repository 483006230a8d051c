package health

import "tw-weather-api/internal/domain/model"

type UseCase interface {
	CheckHealth() model.HealthResponse
}
