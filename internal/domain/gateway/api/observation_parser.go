package api

import (
	"tw-weather-api/internal/domain/entity"
	"tw-weather-api/internal/domain/model"
	"tw-weather-api/internal/domain/model/external"
	"tw-weather-api/pkg/util/numberutils"
)

// wgs84 is the preferred coordinate system tag in station geo info
const wgs84 = "WGS84"

// ParseObservationResponse normalizes a station observation response.
// Result order follows the API response; a malformed station is recorded
// in Skipped and never aborts the rest of the batch.
func ParseObservationResponse(response *external.ObservationResponse) *model.ObservationBatch {
	stations := response.Records.Station
	batch := &model.ObservationBatch{
		Records: make([]entity.WeatherRecord, 0, len(stations)),
	}

	for _, station := range stations {
		record, skipped := parseStation(station)
		if skipped != nil {
			batch.Skipped = append(batch.Skipped, *skipped)
			continue
		}
		batch.Records = append(batch.Records, *record)
	}

	return batch
}

// parseStation normalizes one station, or explains why it was dropped
func parseStation(station external.StationDTO) (*entity.WeatherRecord, *model.SkippedItem) {
	name := station.StationName
	if name == "" {
		return nil, &model.SkippedItem{Name: "(unnamed)", Reason: "missing station name"}
	}

	lat, lon := resolveCoordinates(station.GeoInfo.Coordinates)
	if lat == nil || lon == nil {
		return nil, &model.SkippedItem{Name: name, Reason: "no valid coordinates"}
	}

	temperature := numberutils.SafeFloat64(station.WeatherElement.AirTemperature)
	if temperature == nil {
		// Temperature is the record's reason for existing.
		return nil, &model.SkippedItem{Name: name, Reason: "no temperature data"}
	}

	return &entity.WeatherRecord{
		LocationName:       name,
		Latitude:           *lat,
		Longitude:          *lon,
		Temperature:        *temperature,
		Unit:               "C",
		ObservationTime:    station.ObsTime.DateTime,
		CountyName:         station.GeoInfo.CountyName,
		TownName:           station.GeoInfo.TownName,
		WeatherDescription: station.WeatherElement.Weather,
		Humidity:           numberutils.SafeFloat64(station.WeatherElement.RelativeHumidity),
		WindSpeed:          numberutils.SafeFloat64(station.WeatherElement.WindSpeed),
	}, nil
}

// resolveCoordinates prefers the WGS84 entry; when WGS84 yields no
// latitude it falls back to the first listed coordinate system.
func resolveCoordinates(coordinates []external.CoordinateDTO) (*float64, *float64) {
	var lat, lon *float64

	for _, coordinate := range coordinates {
		if coordinate.CoordinateName == wgs84 {
			lat = numberutils.SafeFloat64(coordinate.StationLatitude)
			lon = numberutils.SafeFloat64(coordinate.StationLongitude)
			break
		}
	}

	if lat == nil && len(coordinates) > 0 {
		lat = numberutils.SafeFloat64(coordinates[0].StationLatitude)
		lon = numberutils.SafeFloat64(coordinates[0].StationLongitude)
	}

	return lat, lon
}
