package weather

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tw-weather-api/internal/domain/entity"
	"tw-weather-api/internal/domain/gateway/api"
	"tw-weather-api/internal/domain/gateway/cache"
	"tw-weather-api/internal/domain/gateway/db"
	"tw-weather-api/internal/domain/model"
	"tw-weather-api/pkg/log"
	"tw-weather-api/pkg/msg"

	"go.uber.org/zap"
)

// ErrNoWeatherData is returned when neither the upstream, the cache nor
// the durable store can produce any records.
var ErrNoWeatherData = errors.New("no weather data available")

const fetchedAtLayout = "2006-01-02 15:04:05"

type weatherUseCase struct {
	apiGateway    api.WeatherGateway
	dbGateway     db.WeatherDBGateway
	cacheGateway  cache.WeatherCacheGateway
	retentionDays int
}

func NewWeatherUseCase(apiGateway api.WeatherGateway, dbGateway db.WeatherDBGateway, cacheGateway cache.WeatherCacheGateway, retentionDays int) UseCase {
	return &weatherUseCase{
		apiGateway:    apiGateway,
		dbGateway:     dbGateway,
		cacheGateway:  cacheGateway,
		retentionDays: retentionDays,
	}
}

// GetCurrentWeather serves current conditions. Priority order: cached
// snapshot (unless forceRefresh), live fetch, cached snapshot marked
// stale, durable store marked stale.
func (uc *weatherUseCase) GetCurrentWeather(ctx context.Context, forceRefresh bool) (*model.WeatherSnapshot, error) {
	if !forceRefresh {
		if snapshot, found := uc.loadCachedSnapshot(ctx); found {
			snapshot.Source = model.SourceCache
			return snapshot, nil
		}
	}

	snapshot, fetchErr := uc.fetchAndPersist(ctx)
	if fetchErr == nil {
		return snapshot, nil
	}
	log.Warnf(msg.GetMessage("weather.fallback.cache", fetchErr))

	if snapshot, found := uc.loadCachedSnapshot(ctx); found {
		snapshot.Source = model.SourceCache
		snapshot.Stale = true
		return snapshot, nil
	}
	log.Warnf(msg.GetMessage("weather.fallback.store", fetchErr))

	records, err := uc.dbGateway.FindLatest()
	if err != nil {
		return nil, fmt.Errorf("fallback lookup failed after fetch error %v: %w", fetchErr, err)
	}
	if len(records) == 0 {
		return nil, ErrNoWeatherData
	}

	return &model.WeatherSnapshot{
		Source:    model.SourceStore,
		Stale:     true,
		FetchedAt: newestObservationTime(records),
		Records:   records,
		Summary:   model.CalculateTemperatureSummary(records),
	}, nil
}

// GetWeeklyForecast serves the weekly forecast bundle, cache first. The
// forecast is never persisted; a failed fetch can only degrade to the
// cached copy.
func (uc *weatherUseCase) GetWeeklyForecast(ctx context.Context, forceRefresh bool) (*model.ForecastSnapshot, error) {
	if !forceRefresh {
		if snapshot, found, err := uc.cacheGateway.LoadForecast(ctx); err == nil && found {
			snapshot.Source = model.SourceCache
			return snapshot, nil
		} else if err != nil {
			log.Warnf("Forecast cache read failed: %v", err)
		}
	}

	batch, fetchErr := uc.apiGateway.FetchWeeklyForecast()
	if fetchErr == nil {
		snapshot := &model.ForecastSnapshot{
			Source:    model.SourceLive,
			FetchedAt: time.Now().UTC().Format(fetchedAtLayout),
			Forecast:  batch.Bundle,
		}
		if err := uc.cacheGateway.StoreForecast(ctx, snapshot); err != nil {
			log.Warnf("Forecast cache write failed: %v", err)
		}
		return snapshot, nil
	}
	log.Warnf(msg.GetMessage("weather.fallback.cache", fetchErr))

	if snapshot, found, err := uc.cacheGateway.LoadForecast(ctx); err == nil && found {
		snapshot.Source = model.SourceCache
		snapshot.Stale = true
		return snapshot, nil
	}

	return nil, fmt.Errorf("forecast unavailable: %w", fetchErr)
}

// RefreshObservations runs one fetch-and-persist cycle. Used by the
// refresh endpoint and the scheduler.
func (uc *weatherUseCase) RefreshObservations(ctx context.Context, requestID string) (*model.RefreshResult, error) {
	log.Info(msg.GetMessage("weather.refresh.start", requestID))

	snapshot, err := uc.fetchAndPersist(ctx)
	if err != nil {
		log.Error(msg.GetMessage("weather.refresh.failed", requestID, err), zap.Error(err))
		return nil, err
	}

	result := &model.RefreshResult{
		RequestID: requestID,
		Saved:     len(snapshot.Records),
		Skipped:   snapshot.SkippedCount,
	}
	log.Info(msg.GetMessage("weather.refresh.end", result.Saved, result.Skipped, requestID))
	return result, nil
}

func (uc *weatherUseCase) GetLocationHistory(locationName string) ([]entity.WeatherRecord, error) {
	if locationName == "" {
		return nil, errors.New("location name is required")
	}

	records, err := uc.dbGateway.FindByLocation(locationName)
	if err != nil {
		return nil, fmt.Errorf("failed to load history for %q: %w", locationName, err)
	}
	return records, nil
}

func (uc *weatherUseCase) GetRecordsByTimeRange(start string, end string) ([]entity.WeatherRecord, error) {
	if start == "" || end == "" {
		return nil, errors.New("start and end are required")
	}
	if start > end {
		return nil, errors.New("start must not be after end")
	}

	records, err := uc.dbGateway.FindByTimeRange(start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load records in [%s, %s]: %w", start, end, err)
	}
	return records, nil
}

func (uc *weatherUseCase) PruneOldRecords(requestID string, days int) (*model.PruneResult, error) {
	if days <= 0 {
		days = uc.retentionDays
	}
	log.Info(msg.GetMessage("weather.prune.start", requestID))

	deleted, err := uc.dbGateway.Prune(days)
	if err != nil {
		log.Error(msg.GetMessage("weather.prune.failed", requestID, err), zap.Error(err))
		return nil, err
	}

	// Drop the cached snapshot so the next read cannot resurrect records
	// the store just deleted.
	if deleted > 0 {
		if err := uc.cacheGateway.InvalidateSnapshot(context.Background()); err != nil {
			log.Warnf("Snapshot cache invalidation failed: %v", err)
		}
	}

	log.Info(msg.GetMessage("weather.prune.end", deleted, days, requestID))
	return &model.PruneResult{RetentionDays: days, Deleted: deleted}, nil
}

func (uc *weatherUseCase) GetStoreStatistics() (*model.StoreStatistics, error) {
	stats, err := uc.dbGateway.Statistics()
	if err != nil {
		return nil, fmt.Errorf("failed to load store statistics: %w", err)
	}
	return stats, nil
}

// fetchAndPersist is the live path shared by GetCurrentWeather and
// RefreshObservations: fetch, save, refresh the snapshot cache. A cache
// write failure degrades to a warning; the store is the durable backing.
func (uc *weatherUseCase) fetchAndPersist(ctx context.Context) (*model.WeatherSnapshot, error) {
	batch, err := uc.apiGateway.FetchObservations()
	if err != nil {
		return nil, err
	}

	if _, err := uc.dbGateway.Save(batch.Records); err != nil {
		return nil, err
	}

	snapshot := &model.WeatherSnapshot{
		Source:       model.SourceLive,
		FetchedAt:    time.Now().UTC().Format(fetchedAtLayout),
		Records:      batch.Records,
		Summary:      model.CalculateTemperatureSummary(batch.Records),
		SkippedCount: len(batch.Skipped),
	}
	if err := uc.cacheGateway.StoreSnapshot(ctx, snapshot); err != nil {
		log.Warnf("Snapshot cache write failed: %v", err)
	}
	return snapshot, nil
}

func (uc *weatherUseCase) loadCachedSnapshot(ctx context.Context) (*model.WeatherSnapshot, bool) {
	snapshot, found, err := uc.cacheGateway.LoadSnapshot(ctx)
	if err != nil {
		log.Warnf("Snapshot cache read failed: %v", err)
		return nil, false
	}
	return snapshot, found
}

// newestObservationTime picks a representative timestamp for a snapshot
// reconstructed from the store.
func newestObservationTime(records []entity.WeatherRecord) string {
	newest := ""
	for _, record := range records {
		if record.ObservationTime > newest {
			newest = record.ObservationTime
		}
	}
	return newest
}
