package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tw-weather-api/internal/domain/model/external"
)

func buildForecastLocation(name string, slots []external.ForecastTimeDTO, descriptions []external.ForecastTimeDTO) external.ForecastLocationDTO {
	return external.ForecastLocationDTO{
		LocationName: name,
		Latitude:     "25.03",
		Longitude:    "121.51",
		WeatherElement: []external.ForecastElementDTO{
			{ElementName: elementAvgTemperature, Time: slots},
			{ElementName: elementWeatherPhenomenon, Time: descriptions},
		},
	}
}

func temperatureSlot(start string, temperature any) external.ForecastTimeDTO {
	return external.ForecastTimeDTO{
		StartTime:    start,
		ElementValue: []external.ElementValueDTO{{Temperature: temperature}},
	}
}

func weatherSlot(start, weather string) external.ForecastTimeDTO {
	return external.ForecastTimeDTO{
		StartTime:    start,
		ElementValue: []external.ElementValueDTO{{Weather: weather}},
	}
}

func TestParseForecastResponseGroupsByTimeKey(t *testing.T) {
	response := &external.ForecastResponse{Success: "true"}
	response.Records.Locations = []external.ForecastLocationsDTO{
		{
			Location: []external.ForecastLocationDTO{
				buildForecastLocation("中正區",
					[]external.ForecastTimeDTO{
						temperatureSlot("2024-06-01T06:00:00+08:00", "24"),
						temperatureSlot("2024-06-01T18:00:00+08:00", "27"),
					},
					[]external.ForecastTimeDTO{
						weatherSlot("2024-06-01T06:00:00+08:00", "多雲"),
						weatherSlot("2024-06-01T18:00:00+08:00", "晴"),
					},
				),
				buildForecastLocation("大安區",
					[]external.ForecastTimeDTO{
						temperatureSlot("2024-06-01T06:00:00+08:00", "23"),
						temperatureSlot("2024-06-01T18:00:00+08:00", "26"),
					},
					[]external.ForecastTimeDTO{
						weatherSlot("2024-06-01T06:00:00+08:00", "陰"),
						weatherSlot("2024-06-01T18:00:00+08:00", "多雲"),
					},
				),
			},
		},
	}

	batch := ParseForecastResponse(response)

	require.NotNil(t, batch.Bundle)
	assert.Equal(t, []string{"2024-06-01 06:00", "2024-06-01 18:00"}, batch.Bundle.Dates)

	morning := batch.Bundle.ByDate["2024-06-01 06:00"]
	require.Len(t, morning, 2)
	assert.Equal(t, "中正區", morning[0].LocationName)
	assert.Equal(t, 24.0, morning[0].Temperature)
	assert.Equal(t, "多雲", morning[0].WeatherDescription)
	assert.Equal(t, "2024-06-01T06:00:00+08:00", morning[0].ForecastTime)
	assert.Equal(t, "大安區", morning[1].LocationName)

	evening := batch.Bundle.ByDate["2024-06-01 18:00"]
	require.Len(t, evening, 2)
	assert.Equal(t, 27.0, evening[0].Temperature)
}

func TestParseForecastResponseDatesAreSortedAndUnique(t *testing.T) {
	response := &external.ForecastResponse{Success: "true"}
	response.Records.Locations = []external.ForecastLocationsDTO{
		{
			Location: []external.ForecastLocationDTO{
				buildForecastLocation("中正區",
					[]external.ForecastTimeDTO{
						temperatureSlot("2024-06-02T06:00:00+08:00", "25"),
						temperatureSlot("2024-06-01T06:00:00+08:00", "24"),
					},
					nil,
				),
				buildForecastLocation("大安區",
					[]external.ForecastTimeDTO{
						temperatureSlot("2024-06-01T06:00:00+08:00", "23"),
					},
					nil,
				),
			},
		},
	}

	batch := ParseForecastResponse(response)

	assert.Equal(t, []string{"2024-06-01 06:00", "2024-06-02 06:00"}, batch.Bundle.Dates)
}

func TestParseForecastResponseShorterDescriptionSeries(t *testing.T) {
	response := &external.ForecastResponse{Success: "true"}
	response.Records.Locations = []external.ForecastLocationsDTO{
		{
			Location: []external.ForecastLocationDTO{
				buildForecastLocation("中正區",
					[]external.ForecastTimeDTO{
						temperatureSlot("2024-06-01T06:00:00+08:00", "24"),
						temperatureSlot("2024-06-01T18:00:00+08:00", "27"),
					},
					[]external.ForecastTimeDTO{
						weatherSlot("2024-06-01T06:00:00+08:00", "多雲"),
					},
				),
			},
		},
	}

	batch := ParseForecastResponse(response)

	morning := batch.Bundle.ByDate["2024-06-01 06:00"]
	require.Len(t, morning, 1)
	assert.Equal(t, "多雲", morning[0].WeatherDescription)

	evening := batch.Bundle.ByDate["2024-06-01 18:00"]
	require.Len(t, evening, 1)
	assert.Empty(t, evening[0].WeatherDescription)
}

func TestParseForecastResponseTimeKeyFallback(t *testing.T) {
	response := &external.ForecastResponse{Success: "true"}
	response.Records.Locations = []external.ForecastLocationsDTO{
		{
			Location: []external.ForecastLocationDTO{
				buildForecastLocation("中正區",
					[]external.ForecastTimeDTO{
						temperatureSlot("2024-06-01 06:00:00 weird", "24"),
					},
					nil,
				),
			},
		},
	}

	batch := ParseForecastResponse(response)

	assert.Equal(t, []string{"2024-06-01 06:00"}, batch.Bundle.Dates)
}

func TestParseForecastResponseMissingTemperatureStillRecordsTimeKey(t *testing.T) {
	response := &external.ForecastResponse{Success: "true"}
	response.Records.Locations = []external.ForecastLocationsDTO{
		{
			Location: []external.ForecastLocationDTO{
				buildForecastLocation("中正區",
					[]external.ForecastTimeDTO{
						temperatureSlot("2024-06-01T06:00:00+08:00", "-99"),
					},
					nil,
				),
			},
		},
	}

	batch := ParseForecastResponse(response)

	assert.Equal(t, []string{"2024-06-01 06:00"}, batch.Bundle.Dates)
	assert.Empty(t, batch.Bundle.ByDate["2024-06-01 06:00"])
}

func TestParseForecastResponseSkipsLocationsWithoutCoordinates(t *testing.T) {
	location := buildForecastLocation("中正區",
		[]external.ForecastTimeDTO{temperatureSlot("2024-06-01T06:00:00+08:00", "24")},
		nil,
	)
	location.Latitude = ""
	location.Longitude = ""

	response := &external.ForecastResponse{Success: "true"}
	response.Records.Locations = []external.ForecastLocationsDTO{{Location: []external.ForecastLocationDTO{location}}}

	batch := ParseForecastResponse(response)

	assert.Empty(t, batch.Bundle.Dates)
	require.Len(t, batch.Skipped, 1)
	assert.Equal(t, "no valid coordinates", batch.Skipped[0].Reason)
}

func TestParseForecastResponseEmptyLocations(t *testing.T) {
	response := &external.ForecastResponse{Success: "true"}

	batch := ParseForecastResponse(response)

	require.NotNil(t, batch.Bundle)
	assert.Empty(t, batch.Bundle.Dates)
	assert.Empty(t, batch.Bundle.ByDate)
	assert.Empty(t, batch.Skipped)
}
