package cache

import (
	"context"
	"time"

	"tw-weather-api/internal/domain/model"
	"tw-weather-api/pkg/redis"
)

type HealthCacheGateway interface {
	Health() model.ComponentHealthStatus
}

type RedisHealthCacheGateway struct {
	client *redis.Client
}

var _ HealthCacheGateway = (*RedisHealthCacheGateway)(nil)

func NewRedisHealthCacheGateway(client *redis.Client) *RedisHealthCacheGateway {
	return &RedisHealthCacheGateway{client: client}
}

func (gateway *RedisHealthCacheGateway) Health() model.ComponentHealthStatus {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := gateway.client.Ping(ctx); err != nil {
		return model.ComponentHealthStatus{
			Status: model.StatusDown,
			Details: map[string]string{
				"message": err.Error(),
			},
		}
	}

	return model.ComponentHealthStatus{
		Status: model.StatusUp,
		Details: map[string]string{
			"message": string(model.StatusUp),
		},
	}
}
