package model

import (
	"math"

	"tw-weather-api/internal/domain/entity"
)

// TemperatureSummary aggregates a record sequence for the dashboard sidebar
type TemperatureSummary struct {
	Count       int      `json:"count"`
	AvgTemp     *float64 `json:"avgTemp,omitempty"`
	MinTemp     *float64 `json:"minTemp,omitempty"`
	MaxTemp     *float64 `json:"maxTemp,omitempty"`
	MinLocation string   `json:"minLocation,omitempty"`
	MaxLocation string   `json:"maxLocation,omitempty"`
}

// CalculateTemperatureSummary computes count, average (rounded to one
// decimal) and the min/max temperatures with their locations. Ties keep the
// first occurrence in sequence order.
func CalculateTemperatureSummary(records []entity.WeatherRecord) *TemperatureSummary {
	summary := &TemperatureSummary{Count: len(records)}
	if len(records) == 0 {
		return summary
	}

	var sum float64
	minIdx, maxIdx := 0, 0
	for i, record := range records {
		sum += record.Temperature
		if record.Temperature < records[minIdx].Temperature {
			minIdx = i
		}
		if record.Temperature > records[maxIdx].Temperature {
			maxIdx = i
		}
	}

	avg := math.Round(sum/float64(len(records))*10) / 10
	minTemp := records[minIdx].Temperature
	maxTemp := records[maxIdx].Temperature

	summary.AvgTemp = &avg
	summary.MinTemp = &minTemp
	summary.MaxTemp = &maxTemp
	summary.MinLocation = records[minIdx].LocationName
	summary.MaxLocation = records[maxIdx].LocationName
	return summary
}
