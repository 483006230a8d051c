package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tw-weather-api/internal/domain/entity"
)

func tempRecord(location string, temperature float64) entity.WeatherRecord {
	return entity.WeatherRecord{LocationName: location, Temperature: temperature}
}

func TestCalculateTemperatureSummary(t *testing.T) {
	summary := CalculateTemperatureSummary([]entity.WeatherRecord{
		tempRecord("臺北", 28.5),
		tempRecord("高雄", 31.2),
		tempRecord("玉山", 5.3),
	})

	assert.Equal(t, 3, summary.Count)
	require.NotNil(t, summary.AvgTemp)
	assert.Equal(t, 21.7, *summary.AvgTemp)
	require.NotNil(t, summary.MinTemp)
	assert.Equal(t, 5.3, *summary.MinTemp)
	assert.Equal(t, "玉山", summary.MinLocation)
	require.NotNil(t, summary.MaxTemp)
	assert.Equal(t, 31.2, *summary.MaxTemp)
	assert.Equal(t, "高雄", summary.MaxLocation)
}

func TestCalculateTemperatureSummaryEmpty(t *testing.T) {
	summary := CalculateTemperatureSummary(nil)

	assert.Equal(t, 0, summary.Count)
	assert.Nil(t, summary.AvgTemp)
	assert.Nil(t, summary.MinTemp)
	assert.Nil(t, summary.MaxTemp)
	assert.Empty(t, summary.MinLocation)
	assert.Empty(t, summary.MaxLocation)
}

func TestCalculateTemperatureSummaryTiesKeepFirstOccurrence(t *testing.T) {
	summary := CalculateTemperatureSummary([]entity.WeatherRecord{
		tempRecord("臺北", 25.0),
		tempRecord("新北", 25.0),
	})

	assert.Equal(t, "臺北", summary.MinLocation)
	assert.Equal(t, "臺北", summary.MaxLocation)
}

func TestCalculateTemperatureSummaryAverageRounding(t *testing.T) {
	summary := CalculateTemperatureSummary([]entity.WeatherRecord{
		tempRecord("a", 20.0),
		tempRecord("b", 20.1),
		tempRecord("c", 20.1),
	})

	require.NotNil(t, summary.AvgTemp)
	assert.Equal(t, 20.1, *summary.AvgTemp)
}

func TestBandForTemperature(t *testing.T) {
	tests := []struct {
		temperature float64
		color       string
	}{
		{-5.0, "#0000FF"},
		{9.9, "#0000FF"},
		{10.0, "#00FFFF"},
		{17.5, "#00FF00"},
		{24.9, "#FFFF00"},
		{25.0, "#FFA500"},
		{30.0, "#FF0000"},
		{38.2, "#FF0000"},
	}

	for _, tt := range tests {
		band := BandForTemperature(tt.temperature)
		assert.Equal(t, tt.color, band.Color, "temperature %.1f", tt.temperature)
	}
}

func TestBandForTemperatureUnknown(t *testing.T) {
	band := BandForTemperature(math.NaN())

	assert.Equal(t, "#808080", band.Color)
	assert.Equal(t, "Unknown", band.Label)
}
