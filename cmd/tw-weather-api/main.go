package main

import (
	"context"

	"github.com/labstack/echo/v4"

	"tw-weather-api/configs"
	"tw-weather-api/internal/application/controller"
	"tw-weather-api/internal/application/middleware"
	"tw-weather-api/internal/application/schedule"
	"tw-weather-api/internal/domain/gateway/api"
	"tw-weather-api/internal/domain/gateway/cache"
	"tw-weather-api/internal/domain/gateway/db"
	"tw-weather-api/internal/domain/model"
	"tw-weather-api/internal/domain/usecase/health"
	"tw-weather-api/internal/domain/usecase/weather"
	"tw-weather-api/internal/infra/database/gorm"
	"tw-weather-api/internal/infra/database/sqlc"
	"tw-weather-api/pkg/log"
	"tw-weather-api/pkg/msg"
	"tw-weather-api/pkg/redis"
	"tw-weather-api/pkg/resource"
)

func main() {
	log.Info(msg.GetMessage("app.start"))

	// Init infra
	e := echo.New()
	e.HideBanner = true
	middleware.SetupRequestLogger(e)
	contextPath := resource.GetString("app.server.context-path")
	if contextPath == "" {
		contextPath = configs.Env.ContextPath
	}
	apiGroup := e.Group(contextPath)

	redisClient := newRedisClient()
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Warnf("Failed to close redis client: %v", err)
		}
	}()

	// Init Gateways
	weatherDBGateway, healthDBGateway := newDBGateways()
	weatherCacheGateway := cache.NewRedisWeatherCacheGateway(
		redisClient,
		resource.GetDuration("app.weather.snapshot-ttl"),
		resource.GetDuration("app.weather.forecast-ttl"),
	)
	healthCacheGateway := cache.NewRedisHealthCacheGateway(redisClient)
	weatherAPIGateway := api.NewWeatherGateway(
		resource.GetString("app.cwa.base-url"),
		cwaKeyResolver,
		api.GatewayOptions{
			ObservationTimeout: resource.GetDuration("app.cwa.observation-timeout"),
			ForecastTimeout:    resource.GetDuration("app.cwa.forecast-timeout"),
			MaxRetries:         resource.GetInt("app.cwa.max-retries"),
			BaseDelay:          resource.GetDuration("app.cwa.base-delay"),
		},
	)

	if err := weatherDBGateway.EnsureSchema(); err != nil {
		log.Fatalf("Failed to ensure database schema: %v", err)
	}

	// Init UseCases
	weatherUseCase := weather.NewWeatherUseCase(
		weatherAPIGateway,
		weatherDBGateway,
		weatherCacheGateway,
		resource.GetInt("app.weather.retention-days"),
	)
	healthUseCase := health.NewHealthUseCase(healthDBGateway, healthCacheGateway)

	// Init Controllers and Routes
	weatherController := controller.NewWeatherController(apiGroup, weatherUseCase)
	healthController := controller.NewHealthController(apiGroup, healthUseCase)
	weatherController.InitWeatherRoutes()
	healthController.InitHealthRoutes()

	// Init Schedule
	weatherScheduler := schedule.NewWeatherScheduler(
		weatherUseCase,
		redisClient,
		resource.GetString("app.weather.refresh.cron"),
		resource.GetInt("app.weather.refresh.lock-ttl"),
		resource.GetInt("app.weather.refresh.lock-refresh-interval"),
	)
	weatherScheduler.InitWeatherScheduleTasks(context.Background())
	defer weatherScheduler.Stop()

	log.Info(msg.GetMessage("app.started"))
	e.Logger.Fatal(e.Start(":" + resource.GetString("app.server.port")))
}

// newDBGateways selects the persistence engine from configuration. Both
// engines target the same schema; sqlc is the default.
func newDBGateways() (db.WeatherDBGateway, db.HealthDBGateway) {
	if resource.GetString("app.db.engine") == "gorm" {
		return db.NewGormWeatherGateway(gorm.Db), db.NewGormHealthDBGateway(gorm.Db)
	}
	return db.NewSQLCWeatherGateway(sqlc.Db), db.NewSQLCHealthDBGateway(sqlc.Db)
}

func newRedisClient() *redis.Client {
	config := redis.NewRedisConfig().
		WithHost(resource.GetString("app.redis.host")).
		WithPort(resource.GetInt("app.redis.port")).
		WithPassword(resource.GetString("app.redis.password")).
		WithDatabase(resource.GetInt("app.redis.database"))

	if err := config.Validate(); err != nil {
		log.Fatalf("Invalid redis configuration: %v", err)
	}
	return redis.NewClient(config)
}

// cwaKeyResolver reads the CWA OpenData API key at call time so a key
// rotated through the environment is picked up without a restart.
func cwaKeyResolver() (string, error) {
	key := resource.GetString("app.cwa.api-key")
	if key == "" {
		return "", model.NewConfigError("CWA_API_KEY")
	}
	return key, nil
}
