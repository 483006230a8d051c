package weather

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tw-weather-api/internal/domain/entity"
	"tw-weather-api/internal/domain/model"
)

type mockAPIGateway struct {
	observationBatch *model.ObservationBatch
	observationErr   error
	forecastBatch    *model.ForecastBatch
	forecastErr      error
	observationCalls int
	forecastCalls    int
}

func (m *mockAPIGateway) FetchObservations() (*model.ObservationBatch, error) {
	m.observationCalls++
	return m.observationBatch, m.observationErr
}

func (m *mockAPIGateway) FetchWeeklyForecast() (*model.ForecastBatch, error) {
	m.forecastCalls++
	return m.forecastBatch, m.forecastErr
}

type mockDBGateway struct {
	savedBatches [][]entity.WeatherRecord
	saveErr      error
	latest       []entity.WeatherRecord
	latestErr    error
	byLocation   []entity.WeatherRecord
	byRange      []entity.WeatherRecord
	pruned       int64
	pruneErr     error
	pruneCalls   []int
	stats        *model.StoreStatistics
}

func (m *mockDBGateway) EnsureSchema() error { return nil }

func (m *mockDBGateway) Save(records []entity.WeatherRecord) (int, error) {
	if m.saveErr != nil {
		return 0, m.saveErr
	}
	m.savedBatches = append(m.savedBatches, records)
	return len(records), nil
}

func (m *mockDBGateway) FindLatest() ([]entity.WeatherRecord, error) {
	return m.latest, m.latestErr
}

func (m *mockDBGateway) FindByLocation(string) ([]entity.WeatherRecord, error) {
	return m.byLocation, nil
}

func (m *mockDBGateway) FindByTimeRange(string, string) ([]entity.WeatherRecord, error) {
	return m.byRange, nil
}

func (m *mockDBGateway) Prune(retentionDays int) (int64, error) {
	m.pruneCalls = append(m.pruneCalls, retentionDays)
	return m.pruned, m.pruneErr
}

func (m *mockDBGateway) Statistics() (*model.StoreStatistics, error) {
	return m.stats, nil
}

type mockCacheGateway struct {
	snapshot       *model.WeatherSnapshot
	forecast       *model.ForecastSnapshot
	storedSnapshot *model.WeatherSnapshot
	storedForecast *model.ForecastSnapshot
	readErr        error
	invalidations  int
}

func (m *mockCacheGateway) StoreSnapshot(_ context.Context, snapshot *model.WeatherSnapshot) error {
	m.storedSnapshot = snapshot
	return nil
}

func (m *mockCacheGateway) LoadSnapshot(context.Context) (*model.WeatherSnapshot, bool, error) {
	if m.readErr != nil {
		return nil, false, m.readErr
	}
	return m.snapshot, m.snapshot != nil, nil
}

func (m *mockCacheGateway) StoreForecast(_ context.Context, snapshot *model.ForecastSnapshot) error {
	m.storedForecast = snapshot
	return nil
}

func (m *mockCacheGateway) LoadForecast(context.Context) (*model.ForecastSnapshot, bool, error) {
	if m.readErr != nil {
		return nil, false, m.readErr
	}
	return m.forecast, m.forecast != nil, nil
}

func (m *mockCacheGateway) InvalidateSnapshot(context.Context) error {
	m.invalidations++
	m.snapshot = nil
	return nil
}

func observationRecord(location string, temperature float64) entity.WeatherRecord {
	return entity.WeatherRecord{
		LocationName:    location,
		Latitude:        25.0,
		Longitude:       121.5,
		Temperature:     temperature,
		Unit:            "C",
		ObservationTime: "2024-06-01T14:00:00+08:00",
	}
}

func newUseCaseWith(apiGw *mockAPIGateway, dbGw *mockDBGateway, cacheGw *mockCacheGateway) UseCase {
	return NewWeatherUseCase(apiGw, dbGw, cacheGw, 30)
}

func TestGetCurrentWeatherLivePath(t *testing.T) {
	apiGw := &mockAPIGateway{
		observationBatch: &model.ObservationBatch{
			Records: []entity.WeatherRecord{
				observationRecord("臺北", 28.5),
				observationRecord("高雄", 31.2),
			},
			Skipped: []model.SkippedItem{{Name: "故障站", Reason: "no temperature data"}},
		},
	}
	dbGw := &mockDBGateway{}
	cacheGw := &mockCacheGateway{}

	snapshot, err := newUseCaseWith(apiGw, dbGw, cacheGw).GetCurrentWeather(context.Background(), false)

	require.NoError(t, err)
	assert.Equal(t, model.SourceLive, snapshot.Source)
	assert.False(t, snapshot.Stale)
	assert.Len(t, snapshot.Records, 2)
	assert.Equal(t, 1, snapshot.SkippedCount)
	require.NotNil(t, snapshot.Summary)
	assert.Equal(t, 2, snapshot.Summary.Count)
	assert.Equal(t, "高雄", snapshot.Summary.MaxLocation)

	require.Len(t, dbGw.savedBatches, 1)
	assert.Len(t, dbGw.savedBatches[0], 2)
	assert.Same(t, snapshot, cacheGw.storedSnapshot)
}

func TestGetCurrentWeatherServesCacheHit(t *testing.T) {
	apiGw := &mockAPIGateway{}
	cacheGw := &mockCacheGateway{
		snapshot: &model.WeatherSnapshot{
			Source:  model.SourceLive,
			Records: []entity.WeatherRecord{observationRecord("臺北", 28.5)},
		},
	}

	snapshot, err := newUseCaseWith(apiGw, &mockDBGateway{}, cacheGw).GetCurrentWeather(context.Background(), false)

	require.NoError(t, err)
	assert.Equal(t, model.SourceCache, snapshot.Source)
	assert.False(t, snapshot.Stale)
	assert.Equal(t, 0, apiGw.observationCalls)
}

func TestGetCurrentWeatherForceRefreshBypassesCache(t *testing.T) {
	apiGw := &mockAPIGateway{
		observationBatch: &model.ObservationBatch{
			Records: []entity.WeatherRecord{observationRecord("臺北", 28.5)},
		},
	}
	cacheGw := &mockCacheGateway{
		snapshot: &model.WeatherSnapshot{Records: []entity.WeatherRecord{observationRecord("舊站", 10.0)}},
	}

	snapshot, err := newUseCaseWith(apiGw, &mockDBGateway{}, cacheGw).GetCurrentWeather(context.Background(), true)

	require.NoError(t, err)
	assert.Equal(t, model.SourceLive, snapshot.Source)
	assert.Equal(t, 1, apiGw.observationCalls)
	assert.Equal(t, "臺北", snapshot.Records[0].LocationName)
}

func TestGetCurrentWeatherFallsBackToCacheOnFetchFailure(t *testing.T) {
	apiGw := &mockAPIGateway{observationErr: model.NewNetworkError(3, errors.New("timeout"))}
	cacheGw := &mockCacheGateway{
		snapshot: &model.WeatherSnapshot{
			Records: []entity.WeatherRecord{observationRecord("臺北", 28.5)},
		},
	}

	snapshot, err := newUseCaseWith(apiGw, &mockDBGateway{}, cacheGw).GetCurrentWeather(context.Background(), true)

	require.NoError(t, err)
	assert.Equal(t, model.SourceCache, snapshot.Source)
	assert.True(t, snapshot.Stale)
}

func TestGetCurrentWeatherFallsBackToStore(t *testing.T) {
	apiGw := &mockAPIGateway{observationErr: model.NewNetworkError(3, errors.New("timeout"))}
	dbGw := &mockDBGateway{
		latest: []entity.WeatherRecord{
			observationRecord("臺北", 28.5),
			observationRecord("高雄", 31.2),
		},
	}

	snapshot, err := newUseCaseWith(apiGw, dbGw, &mockCacheGateway{}).GetCurrentWeather(context.Background(), false)

	require.NoError(t, err)
	assert.Equal(t, model.SourceStore, snapshot.Source)
	assert.True(t, snapshot.Stale)
	assert.Equal(t, "2024-06-01T14:00:00+08:00", snapshot.FetchedAt)
	require.NotNil(t, snapshot.Summary)
	assert.Equal(t, 2, snapshot.Summary.Count)
}

func TestGetCurrentWeatherNoDataAnywhere(t *testing.T) {
	apiGw := &mockAPIGateway{observationErr: model.NewNetworkError(3, errors.New("timeout"))}

	snapshot, err := newUseCaseWith(apiGw, &mockDBGateway{}, &mockCacheGateway{}).GetCurrentWeather(context.Background(), false)

	assert.Nil(t, snapshot)
	assert.ErrorIs(t, err, ErrNoWeatherData)
}

func TestGetWeeklyForecastCachesLiveFetch(t *testing.T) {
	bundle := entity.NewForecastBundle()
	bundle.Dates = []string{"2024-06-01 06:00"}
	bundle.ByDate["2024-06-01 06:00"] = []entity.WeatherRecord{observationRecord("中正區", 24.0)}

	apiGw := &mockAPIGateway{forecastBatch: &model.ForecastBatch{Bundle: bundle}}
	cacheGw := &mockCacheGateway{}

	snapshot, err := newUseCaseWith(apiGw, &mockDBGateway{}, cacheGw).GetWeeklyForecast(context.Background(), false)

	require.NoError(t, err)
	assert.Equal(t, model.SourceLive, snapshot.Source)
	assert.Same(t, bundle, snapshot.Forecast)
	assert.Same(t, snapshot, cacheGw.storedForecast)
}

func TestGetWeeklyForecastFallsBackToCache(t *testing.T) {
	apiGw := &mockAPIGateway{forecastErr: model.NewNetworkError(3, errors.New("timeout"))}
	cacheGw := &mockCacheGateway{
		forecast: &model.ForecastSnapshot{Forecast: entity.NewForecastBundle()},
	}

	snapshot, err := newUseCaseWith(apiGw, &mockDBGateway{}, cacheGw).GetWeeklyForecast(context.Background(), true)

	require.NoError(t, err)
	assert.Equal(t, model.SourceCache, snapshot.Source)
	assert.True(t, snapshot.Stale)
}

func TestGetWeeklyForecastUnavailable(t *testing.T) {
	fetchErr := model.NewNetworkError(3, errors.New("timeout"))
	apiGw := &mockAPIGateway{forecastErr: fetchErr}

	snapshot, err := newUseCaseWith(apiGw, &mockDBGateway{}, &mockCacheGateway{}).GetWeeklyForecast(context.Background(), false)

	assert.Nil(t, snapshot)
	require.Error(t, err)
	var netErr *model.NetworkError
	assert.ErrorAs(t, err, &netErr)
}

func TestRefreshObservations(t *testing.T) {
	apiGw := &mockAPIGateway{
		observationBatch: &model.ObservationBatch{
			Records: []entity.WeatherRecord{observationRecord("臺北", 28.5)},
			Skipped: []model.SkippedItem{{Name: "故障站", Reason: "no temperature data"}},
		},
	}
	dbGw := &mockDBGateway{}

	result, err := newUseCaseWith(apiGw, dbGw, &mockCacheGateway{}).RefreshObservations(context.Background(), "req-1")

	require.NoError(t, err)
	assert.Equal(t, "req-1", result.RequestID)
	assert.Equal(t, 1, result.Saved)
	assert.Equal(t, 1, result.Skipped)
	assert.Len(t, dbGw.savedBatches, 1)
}

func TestRefreshObservationsPropagatesStorageError(t *testing.T) {
	apiGw := &mockAPIGateway{
		observationBatch: &model.ObservationBatch{
			Records: []entity.WeatherRecord{observationRecord("臺北", 28.5)},
		},
	}
	dbGw := &mockDBGateway{saveErr: model.NewStorageError("save", errors.New("connection reset"))}

	result, err := newUseCaseWith(apiGw, dbGw, &mockCacheGateway{}).RefreshObservations(context.Background(), "req-1")

	assert.Nil(t, result)
	var storageErr *model.StorageError
	require.ErrorAs(t, err, &storageErr)
}

func TestPruneOldRecords(t *testing.T) {
	dbGw := &mockDBGateway{pruned: 17}
	cacheGw := &mockCacheGateway{}

	result, err := newUseCaseWith(&mockAPIGateway{}, dbGw, cacheGw).PruneOldRecords("req-2", 0)

	require.NoError(t, err)
	assert.Equal(t, int64(17), result.Deleted)
	assert.Equal(t, 30, result.RetentionDays)
	assert.Equal(t, []int{30}, dbGw.pruneCalls)
	assert.Equal(t, 1, cacheGw.invalidations)
}

func TestPruneOldRecordsDaysOverride(t *testing.T) {
	dbGw := &mockDBGateway{pruned: 3}

	result, err := newUseCaseWith(&mockAPIGateway{}, dbGw, &mockCacheGateway{}).PruneOldRecords("req-3", 7)

	require.NoError(t, err)
	assert.Equal(t, 7, result.RetentionDays)
	assert.Equal(t, []int{7}, dbGw.pruneCalls)
}

func TestPruneOldRecordsKeepsCacheWhenNothingDeleted(t *testing.T) {
	dbGw := &mockDBGateway{pruned: 0}
	cacheGw := &mockCacheGateway{}

	result, err := newUseCaseWith(&mockAPIGateway{}, dbGw, cacheGw).PruneOldRecords("req-4", 0)

	require.NoError(t, err)
	assert.Equal(t, int64(0), result.Deleted)
	assert.Equal(t, 0, cacheGw.invalidations)
}

func TestGetRecordsByTimeRangeValidation(t *testing.T) {
	useCase := newUseCaseWith(&mockAPIGateway{}, &mockDBGateway{}, &mockCacheGateway{})

	_, err := useCase.GetRecordsByTimeRange("", "2024-06-01T00:00:00+08:00")
	assert.Error(t, err)

	_, err = useCase.GetRecordsByTimeRange("2024-06-02T00:00:00+08:00", "2024-06-01T00:00:00+08:00")
	assert.Error(t, err)
}

func TestGetLocationHistoryRequiresName(t *testing.T) {
	useCase := newUseCaseWith(&mockAPIGateway{}, &mockDBGateway{}, &mockCacheGateway{})

	_, err := useCase.GetLocationHistory("")
	assert.Error(t, err)
}
