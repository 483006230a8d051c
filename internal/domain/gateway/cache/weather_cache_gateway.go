package cache

import (
	"context"
	"time"

	"tw-weather-api/internal/domain/model"
	"tw-weather-api/pkg/redis"
)

const (
	snapshotKey = "current"
	forecastKey = "weekly"
)

// WeatherCacheGateway is the snapshot cache in front of the durable store.
// A cache miss is (nil, false, nil), never an error.
type WeatherCacheGateway interface {
	StoreSnapshot(ctx context.Context, snapshot *model.WeatherSnapshot) error
	LoadSnapshot(ctx context.Context) (*model.WeatherSnapshot, bool, error)

	StoreForecast(ctx context.Context, snapshot *model.ForecastSnapshot) error
	LoadForecast(ctx context.Context) (*model.ForecastSnapshot, bool, error)

	InvalidateSnapshot(ctx context.Context) error
}

type RedisWeatherCacheGateway struct {
	snapshotCache *redis.Cache
	forecastCache *redis.Cache
}

var _ WeatherCacheGateway = (*RedisWeatherCacheGateway)(nil)

// NewRedisWeatherCacheGateway builds the gateway with separate TTLs: the
// observation snapshot turns over with every upstream publication cycle,
// the forecast only changes a few times a day.
func NewRedisWeatherCacheGateway(client *redis.Client, snapshotTTL time.Duration, forecastTTL time.Duration) *RedisWeatherCacheGateway {
	return &RedisWeatherCacheGateway{
		snapshotCache: redis.NewCache(client, redis.NewCacheOptions().
			WithKeyPrefix("weather:snapshot").
			WithTTL(snapshotTTL)),
		forecastCache: redis.NewCache(client, redis.NewCacheOptions().
			WithKeyPrefix("weather:forecast").
			WithTTL(forecastTTL)),
	}
}

func (gateway *RedisWeatherCacheGateway) StoreSnapshot(ctx context.Context, snapshot *model.WeatherSnapshot) error {
	return gateway.snapshotCache.Set(ctx, snapshotKey, snapshot)
}

func (gateway *RedisWeatherCacheGateway) LoadSnapshot(ctx context.Context) (*model.WeatherSnapshot, bool, error) {
	var snapshot model.WeatherSnapshot
	found, err := gateway.snapshotCache.Get(ctx, snapshotKey, &snapshot)
	if err != nil || !found {
		return nil, false, err
	}
	return &snapshot, true, nil
}

func (gateway *RedisWeatherCacheGateway) StoreForecast(ctx context.Context, snapshot *model.ForecastSnapshot) error {
	return gateway.forecastCache.Set(ctx, forecastKey, snapshot)
}

func (gateway *RedisWeatherCacheGateway) LoadForecast(ctx context.Context) (*model.ForecastSnapshot, bool, error) {
	var snapshot model.ForecastSnapshot
	found, err := gateway.forecastCache.Get(ctx, forecastKey, &snapshot)
	if err != nil || !found {
		return nil, false, err
	}
	return &snapshot, true, nil
}

func (gateway *RedisWeatherCacheGateway) InvalidateSnapshot(ctx context.Context) error {
	return gateway.snapshotCache.Delete(ctx, snapshotKey)
}
