package db

import (
	"time"

	"tw-weather-api/internal/domain/entity"
	"tw-weather-api/internal/domain/model"
	"tw-weather-api/pkg/log"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// weatherRecordRow is the gorm persistence shape of a weather record
type weatherRecordRow struct {
	ID                 string   `gorm:"column:id;primaryKey;size:36"`
	LocationName       string   `gorm:"column:location_name;size:100;not null;uniqueIndex:uq_weather_location_time"`
	Latitude           float64  `gorm:"column:latitude;not null"`
	Longitude          float64  `gorm:"column:longitude;not null"`
	Temperature        float64  `gorm:"column:temperature;not null"`
	Unit               string   `gorm:"column:unit;size:10;not null;default:C"`
	ObservationTime    string   `gorm:"column:observation_time;size:50;not null;uniqueIndex:uq_weather_location_time;index:idx_weather_observation_time"`
	CountyName         string   `gorm:"column:county_name;size:100"`
	TownName           string   `gorm:"column:town_name;size:100"`
	WeatherDescription string   `gorm:"column:weather_description;size:200"`
	Humidity           *float64 `gorm:"column:humidity"`
	WindSpeed          *float64 `gorm:"column:wind_speed"`
	CreatedAt          string   `gorm:"column:created_at;size:50;not null;index:idx_weather_created_at"`
	UpdatedAt          string   `gorm:"column:updated_at;size:50;not null"`
}

func (weatherRecordRow) TableName() string {
	return "weather_records"
}

func (row weatherRecordRow) toEntity() entity.WeatherRecord {
	return entity.WeatherRecord{
		ID:                 row.ID,
		LocationName:       row.LocationName,
		Latitude:           row.Latitude,
		Longitude:          row.Longitude,
		Temperature:        row.Temperature,
		Unit:               row.Unit,
		ObservationTime:    row.ObservationTime,
		CountyName:         row.CountyName,
		TownName:           row.TownName,
		WeatherDescription: row.WeatherDescription,
		Humidity:           row.Humidity,
		WindSpeed:          row.WindSpeed,
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}
}

type GormWeatherGateway struct {
	DB *gorm.DB
}

var _ WeatherDBGateway = (*GormWeatherGateway)(nil)

func NewGormWeatherGateway(db *gorm.DB) *GormWeatherGateway {
	return &GormWeatherGateway{DB: db}
}

func (gateway *GormWeatherGateway) EnsureSchema() error {
	if err := gateway.DB.AutoMigrate(&weatherRecordRow{}); err != nil {
		return model.NewStorageError("schema", err)
	}
	return nil
}

func (gateway *GormWeatherGateway) Save(records []entity.WeatherRecord) (int, error) {
	now := time.Now().UTC().Format(weatherTimeLayout)

	rows := make([]weatherRecordRow, 0, len(records))
	for _, record := range records {
		if record.LocationName == "" || record.ObservationTime == "" {
			log.Warnf("Skipping unsaveable record (location=%q, observationTime=%q)",
				record.LocationName, record.ObservationTime)
			continue
		}
		rows = append(rows, weatherRecordRow{
			ID:                 uuid.New().String(),
			LocationName:       record.LocationName,
			Latitude:           record.Latitude,
			Longitude:          record.Longitude,
			Temperature:        record.Temperature,
			Unit:               record.Unit,
			ObservationTime:    record.ObservationTime,
			CountyName:         record.CountyName,
			TownName:           record.TownName,
			WeatherDescription: record.WeatherDescription,
			Humidity:           record.Humidity,
			WindSpeed:          record.WindSpeed,
			CreatedAt:          now,
			UpdatedAt:          now,
		})
	}

	if len(rows) == 0 {
		return 0, nil
	}

	err := gateway.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "location_name"}, {Name: "observation_time"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"latitude", "longitude", "temperature", "unit", "county_name",
			"town_name", "weather_description", "humidity", "wind_speed", "updated_at",
		}),
	}).Create(&rows).Error
	if err != nil {
		return 0, model.NewStorageError("save", err)
	}
	return len(rows), nil
}

func (gateway *GormWeatherGateway) FindLatest() ([]entity.WeatherRecord, error) {
	var rows []weatherRecordRow
	err := gateway.DB.
		Where(`observation_time = (
			SELECT MAX(observation_time)
			FROM weather_records wr
			WHERE wr.location_name = weather_records.location_name
		)`).
		Order("location_name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, model.NewStorageError("find latest", err)
	}
	return rowsToEntities(rows), nil
}

func (gateway *GormWeatherGateway) FindByLocation(locationName string) ([]entity.WeatherRecord, error) {
	var rows []weatherRecordRow
	err := gateway.DB.
		Where("location_name = ?", locationName).
		Order("observation_time DESC").
		Find(&rows).Error
	if err != nil {
		return nil, model.NewStorageError("find by location", err)
	}
	return rowsToEntities(rows), nil
}

func (gateway *GormWeatherGateway) FindByTimeRange(start string, end string) ([]entity.WeatherRecord, error) {
	var rows []weatherRecordRow
	err := gateway.DB.
		Where("observation_time >= ? AND observation_time <= ?", start, end).
		Order("observation_time DESC, location_name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, model.NewStorageError("find by time range", err)
	}
	return rowsToEntities(rows), nil
}

func (gateway *GormWeatherGateway) Prune(retentionDays int) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays).Format(weatherTimeLayout)

	result := gateway.DB.Where("created_at < ?", cutoff).Delete(&weatherRecordRow{})
	if result.Error != nil {
		return 0, model.NewStorageError("prune", result.Error)
	}
	return result.RowsAffected, nil
}

func (gateway *GormWeatherGateway) Statistics() (*model.StoreStatistics, error) {
	stats := &model.StoreStatistics{}

	row := gateway.DB.Model(&weatherRecordRow{}).
		Select("COUNT(*), COUNT(DISTINCT location_name), COALESCE(MIN(observation_time), ''), COALESCE(MAX(observation_time), '')").
		Row()
	if err := row.Scan(&stats.TotalRecords, &stats.UniqueLocations, &stats.OldestRecord, &stats.NewestRecord); err != nil {
		return nil, model.NewStorageError("statistics", err)
	}
	return stats, nil
}

func rowsToEntities(rows []weatherRecordRow) []entity.WeatherRecord {
	results := make([]entity.WeatherRecord, 0, len(rows))
	for _, row := range rows {
		results = append(results, row.toEntity())
	}
	return results
}
