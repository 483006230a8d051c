package db

import (
	"database/sql"
	"time"

	"tw-weather-api/internal/domain/entity"
	"tw-weather-api/internal/domain/model"
	"tw-weather-api/pkg/log"

	"github.com/google/uuid"
)

const weatherTimeLayout = "2006-01-02 15:04:05"

const weatherSchema = `
	CREATE TABLE IF NOT EXISTS weather_records (
		id VARCHAR(36) PRIMARY KEY,
		location_name VARCHAR(100) NOT NULL,
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		temperature DOUBLE PRECISION NOT NULL,
		unit VARCHAR(10) NOT NULL DEFAULT 'C',
		observation_time VARCHAR(50) NOT NULL,
		county_name VARCHAR(100),
		town_name VARCHAR(100),
		weather_description VARCHAR(200),
		humidity DOUBLE PRECISION,
		wind_speed DOUBLE PRECISION,
		created_at VARCHAR(50) NOT NULL,
		updated_at VARCHAR(50) NOT NULL,
		CONSTRAINT uq_weather_location_time UNIQUE (location_name, observation_time)
	)`

// weatherIndexes back the range query and the retention prune
var weatherIndexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_weather_observation_time ON weather_records (observation_time)`,
	`CREATE INDEX IF NOT EXISTS idx_weather_created_at ON weather_records (created_at)`,
}

const weatherColumns = `id, location_name, latitude, longitude, temperature, unit,
		observation_time, county_name, town_name, weather_description,
		humidity, wind_speed, created_at, updated_at`

type SQLCWeatherGateway struct {
	DB *sql.DB
}

var _ WeatherDBGateway = (*SQLCWeatherGateway)(nil)

func NewSQLCWeatherGateway(db *sql.DB) *SQLCWeatherGateway {
	return &SQLCWeatherGateway{DB: db}
}

func (gateway *SQLCWeatherGateway) EnsureSchema() error {
	if _, err := gateway.DB.Exec(weatherSchema); err != nil {
		return model.NewStorageError("schema", err)
	}
	for _, index := range weatherIndexes {
		if _, err := gateway.DB.Exec(index); err != nil {
			return model.NewStorageError("schema", err)
		}
	}
	return nil
}

// Save upserts a batch inside one transaction. Records without a location
// name or observation time are skipped with a log line; the conflict
// target is (location_name, observation_time), re-observations refresh the
// reading and updated_at but keep the original created_at.
func (gateway *SQLCWeatherGateway) Save(records []entity.WeatherRecord) (int, error) {
	tx, err := gateway.DB.Begin()
	if err != nil {
		return 0, model.NewStorageError("save", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now().UTC().Format(weatherTimeLayout)
	saved := 0

	for _, record := range records {
		if record.LocationName == "" || record.ObservationTime == "" {
			log.Warnf("Skipping unsaveable record (location=%q, observationTime=%q)",
				record.LocationName, record.ObservationTime)
			continue
		}

		_, err := tx.Exec(`
			INSERT INTO weather_records (`+weatherColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			ON CONFLICT (location_name, observation_time) DO UPDATE SET
				latitude = EXCLUDED.latitude,
				longitude = EXCLUDED.longitude,
				temperature = EXCLUDED.temperature,
				unit = EXCLUDED.unit,
				county_name = EXCLUDED.county_name,
				town_name = EXCLUDED.town_name,
				weather_description = EXCLUDED.weather_description,
				humidity = EXCLUDED.humidity,
				wind_speed = EXCLUDED.wind_speed,
				updated_at = EXCLUDED.updated_at`,
			uuid.New().String(), record.LocationName, record.Latitude, record.Longitude,
			record.Temperature, record.Unit, record.ObservationTime, record.CountyName,
			record.TownName, record.WeatherDescription, record.Humidity, record.WindSpeed,
			now, now)
		if err != nil {
			return 0, model.NewStorageError("save", err)
		}
		saved++
	}

	if err := tx.Commit(); err != nil {
		return 0, model.NewStorageError("save", err)
	}
	return saved, nil
}

// FindLatest returns the most recent record of every location, ordered by
// location name.
func (gateway *SQLCWeatherGateway) FindLatest() ([]entity.WeatherRecord, error) {
	rows, err := gateway.DB.Query(`
		SELECT ` + weatherColumns + `
		FROM weather_records w
		WHERE observation_time = (
			SELECT MAX(observation_time)
			FROM weather_records
			WHERE location_name = w.location_name
		)
		ORDER BY location_name ASC`)
	if err != nil {
		return nil, model.NewStorageError("find latest", err)
	}
	return scanWeatherRows(rows, "find latest")
}

func (gateway *SQLCWeatherGateway) FindByLocation(locationName string) ([]entity.WeatherRecord, error) {
	rows, err := gateway.DB.Query(`
		SELECT `+weatherColumns+`
		FROM weather_records
		WHERE location_name = $1
		ORDER BY observation_time DESC`, locationName)
	if err != nil {
		return nil, model.NewStorageError("find by location", err)
	}
	return scanWeatherRows(rows, "find by location")
}

// FindByTimeRange returns records whose observation time lies inside the
// inclusive [start, end] window, newest first with ties broken by location
// name.
func (gateway *SQLCWeatherGateway) FindByTimeRange(start string, end string) ([]entity.WeatherRecord, error) {
	rows, err := gateway.DB.Query(`
		SELECT `+weatherColumns+`
		FROM weather_records
		WHERE observation_time >= $1 AND observation_time <= $2
		ORDER BY observation_time DESC, location_name ASC`, start, end)
	if err != nil {
		return nil, model.NewStorageError("find by time range", err)
	}
	return scanWeatherRows(rows, "find by time range")
}

// Prune deletes records stored more than retentionDays ago, judged by
// created_at rather than the upstream observation time.
func (gateway *SQLCWeatherGateway) Prune(retentionDays int) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays).Format(weatherTimeLayout)

	result, err := gateway.DB.Exec(`
		DELETE FROM weather_records
		WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, model.NewStorageError("prune", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, model.NewStorageError("prune", err)
	}
	return deleted, nil
}

func (gateway *SQLCWeatherGateway) Statistics() (*model.StoreStatistics, error) {
	stats := &model.StoreStatistics{}

	var oldest, newest sql.NullString
	err := gateway.DB.QueryRow(`
		SELECT COUNT(*), COUNT(DISTINCT location_name),
			MIN(observation_time), MAX(observation_time)
		FROM weather_records`).
		Scan(&stats.TotalRecords, &stats.UniqueLocations, &oldest, &newest)
	if err != nil {
		return nil, model.NewStorageError("statistics", err)
	}

	stats.OldestRecord = oldest.String
	stats.NewestRecord = newest.String
	return stats, nil
}

func scanWeatherRows(rows *sql.Rows, op string) ([]entity.WeatherRecord, error) {
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warnf("Failed to close result set: %v", closeErr)
		}
	}()

	results := make([]entity.WeatherRecord, 0)
	for rows.Next() {
		var record entity.WeatherRecord
		if err := rows.Scan(
			&record.ID, &record.LocationName, &record.Latitude, &record.Longitude,
			&record.Temperature, &record.Unit, &record.ObservationTime, &record.CountyName,
			&record.TownName, &record.WeatherDescription, &record.Humidity, &record.WindSpeed,
			&record.CreatedAt, &record.UpdatedAt); err != nil {
			return nil, model.NewStorageError(op, err)
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, model.NewStorageError(op, err)
	}
	return results, nil
}
