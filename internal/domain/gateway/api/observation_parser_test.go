package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tw-weather-api/internal/domain/model/external"
)

func buildStation(name string, temperature any, coordinates ...external.CoordinateDTO) external.StationDTO {
	station := external.StationDTO{
		StationName: name,
		StationID:   "466920",
	}
	station.ObsTime.DateTime = "2024-06-01T14:00:00+08:00"
	station.GeoInfo.Coordinates = coordinates
	station.GeoInfo.CountyName = "臺北市"
	station.GeoInfo.TownName = "中正區"
	station.WeatherElement.Weather = "晴"
	station.WeatherElement.AirTemperature = temperature
	station.WeatherElement.RelativeHumidity = "68"
	station.WeatherElement.WindSpeed = "2.3"
	return station
}

func TestParseObservationResponsePrefersWGS84(t *testing.T) {
	response := &external.ObservationResponse{Success: "true"}
	response.Records.Station = []external.StationDTO{
		buildStation("臺北", "28.5",
			external.CoordinateDTO{CoordinateName: "TWD67", StationLatitude: "25.0300", StationLongitude: "121.5100"},
			external.CoordinateDTO{CoordinateName: "WGS84", StationLatitude: "25.0377", StationLongitude: "121.5149"},
		),
	}

	batch := ParseObservationResponse(response)

	require.Len(t, batch.Records, 1)
	assert.Empty(t, batch.Skipped)

	record := batch.Records[0]
	assert.Equal(t, "臺北", record.LocationName)
	assert.Equal(t, 25.0377, record.Latitude)
	assert.Equal(t, 121.5149, record.Longitude)
	assert.Equal(t, 28.5, record.Temperature)
	assert.Equal(t, "C", record.Unit)
	assert.Equal(t, "2024-06-01T14:00:00+08:00", record.ObservationTime)
	assert.Equal(t, "臺北市", record.CountyName)
	assert.Equal(t, "中正區", record.TownName)
	require.NotNil(t, record.Humidity)
	assert.Equal(t, 68.0, *record.Humidity)
	require.NotNil(t, record.WindSpeed)
	assert.Equal(t, 2.3, *record.WindSpeed)
}

func TestParseObservationResponseFallsBackToFirstCoordinateSystem(t *testing.T) {
	response := &external.ObservationResponse{Success: "true"}
	response.Records.Station = []external.StationDTO{
		buildStation("板橋", "26.1",
			external.CoordinateDTO{CoordinateName: "TWD67", StationLatitude: "24.9990", StationLongitude: "121.4420"},
		),
	}

	batch := ParseObservationResponse(response)

	require.Len(t, batch.Records, 1)
	assert.Equal(t, 24.999, batch.Records[0].Latitude)
	assert.Equal(t, 121.442, batch.Records[0].Longitude)
}

func TestParseObservationResponseSkipsMalformedStations(t *testing.T) {
	tests := []struct {
		name        string
		station     external.StationDTO
		skippedName string
		skipReason  string
	}{
		{
			name:        "missing station name",
			station:     buildStation("", "22.0", external.CoordinateDTO{CoordinateName: "WGS84", StationLatitude: "25.0", StationLongitude: "121.5"}),
			skippedName: "(unnamed)",
			skipReason:  "missing station name",
		},
		{
			name:        "no coordinate entries",
			station:     buildStation("淡水", "22.0"),
			skippedName: "淡水",
			skipReason:  "no valid coordinates",
		},
		{
			name:        "unparsable coordinates",
			station:     buildStation("淡水", "22.0", external.CoordinateDTO{CoordinateName: "WGS84", StationLatitude: "n/a", StationLongitude: "n/a"}),
			skippedName: "淡水",
			skipReason:  "no valid coordinates",
		},
		{
			name:        "missing temperature sentinel",
			station:     buildStation("淡水", "-99", external.CoordinateDTO{CoordinateName: "WGS84", StationLatitude: "25.1", StationLongitude: "121.4"}),
			skippedName: "淡水",
			skipReason:  "no temperature data",
		},
		{
			name:        "empty temperature",
			station:     buildStation("淡水", "", external.CoordinateDTO{CoordinateName: "WGS84", StationLatitude: "25.1", StationLongitude: "121.4"}),
			skippedName: "淡水",
			skipReason:  "no temperature data",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			response := &external.ObservationResponse{Success: "true"}
			response.Records.Station = []external.StationDTO{tt.station}

			batch := ParseObservationResponse(response)

			assert.Empty(t, batch.Records)
			require.Len(t, batch.Skipped, 1)
			assert.Equal(t, tt.skippedName, batch.Skipped[0].Name)
			assert.Equal(t, tt.skipReason, batch.Skipped[0].Reason)
		})
	}
}

func TestParseObservationResponseKeepsValidStationsAroundSkips(t *testing.T) {
	response := &external.ObservationResponse{Success: "true"}
	response.Records.Station = []external.StationDTO{
		buildStation("臺北", "28.5", external.CoordinateDTO{CoordinateName: "WGS84", StationLatitude: "25.0377", StationLongitude: "121.5149"}),
		buildStation("故障站", "-99", external.CoordinateDTO{CoordinateName: "WGS84", StationLatitude: "25.1", StationLongitude: "121.4"}),
		buildStation("高雄", "31.2", external.CoordinateDTO{CoordinateName: "WGS84", StationLatitude: "22.6273", StationLongitude: "120.3014"}),
	}

	batch := ParseObservationResponse(response)

	require.Len(t, batch.Records, 2)
	assert.Equal(t, "臺北", batch.Records[0].LocationName)
	assert.Equal(t, "高雄", batch.Records[1].LocationName)
	require.Len(t, batch.Skipped, 1)
	assert.Equal(t, "故障站", batch.Skipped[0].Name)
}
