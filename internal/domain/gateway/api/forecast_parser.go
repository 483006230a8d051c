package api

import (
	"sort"
	"strings"
	"time"

	"tw-weather-api/internal/domain/entity"
	"tw-weather-api/internal/domain/model"
	"tw-weather-api/internal/domain/model/external"
	"tw-weather-api/pkg/util/numberutils"
)

const (
	elementAvgTemperature    = "平均溫度"
	elementWeatherPhenomenon = "天氣現象"

	timeKeyLayout   = "2006-01-02 15:04"
	startTimeLayout = "2006-01-02T15:04:05"
)

// ParseForecastResponse normalizes a township forecast response into a
// bundle grouped by time key. Locations without a usable name or
// coordinates are dropped with a skip diagnostic.
func ParseForecastResponse(response *external.ForecastResponse) *model.ForecastBatch {
	batch := &model.ForecastBatch{Bundle: entity.NewForecastBundle()}
	if len(response.Records.Locations) == 0 {
		return batch
	}

	allTimes := make(map[string]struct{})

	for _, group := range response.Records.Locations {
		for _, location := range group.Location {
			parseForecastLocation(location, batch, allTimes)
		}
	}

	dates := make([]string, 0, len(allTimes))
	for key := range allTimes {
		dates = append(dates, key)
	}
	sort.Strings(dates)
	batch.Bundle.Dates = dates

	return batch
}

func parseForecastLocation(location external.ForecastLocationDTO, batch *model.ForecastBatch, allTimes map[string]struct{}) {
	name := location.LocationName
	if name == "" {
		batch.Skipped = append(batch.Skipped, model.SkippedItem{Name: "(unnamed)", Reason: "missing location name"})
		return
	}

	lat := numberutils.SafeFloat64(location.Latitude)
	lon := numberutils.SafeFloat64(location.Longitude)
	if lat == nil || lon == nil {
		batch.Skipped = append(batch.Skipped, model.SkippedItem{Name: name, Reason: "no valid coordinates"})
		return
	}

	tempElement := findElement(location.WeatherElement, elementAvgTemperature)
	wxElement := findElement(location.WeatherElement, elementWeatherPhenomenon)
	if tempElement == nil {
		batch.Skipped = append(batch.Skipped, model.SkippedItem{Name: name, Reason: "no temperature element"})
		return
	}

	for i, slot := range tempElement.Time {
		if slot.StartTime == "" {
			continue
		}

		timeKey := normalizeTimeKey(slot.StartTime)
		if timeKey == "" {
			continue
		}
		allTimes[timeKey] = struct{}{}

		temperature := firstTemperature(slot.ElementValue)
		if temperature == nil {
			continue
		}

		// Temperature and phenomenon series are joined by slot index.
		// The upstream publishes both on the same 12h grid; a shorter
		// phenomenon series just leaves the trailing descriptions empty.
		description := ""
		if wxElement != nil && i < len(wxElement.Time) {
			description = firstWeather(wxElement.Time[i].ElementValue)
		}

		batch.Bundle.ByDate[timeKey] = append(batch.Bundle.ByDate[timeKey], entity.WeatherRecord{
			LocationName:       name,
			Latitude:           *lat,
			Longitude:          *lon,
			Temperature:        *temperature,
			Unit:               "C",
			ForecastTime:       slot.StartTime,
			CountyName:         name,
			WeatherDescription: description,
		})
	}
}

func findElement(elements []external.ForecastElementDTO, name string) *external.ForecastElementDTO {
	for i := range elements {
		if elements[i].ElementName == name {
			return &elements[i]
		}
	}
	return nil
}

// normalizeTimeKey turns an upstream start time such as
// "2024-06-01T06:00:00+08:00" into the "2006-01-02 15:04" grouping key.
func normalizeTimeKey(raw string) string {
	trimmed := raw
	if idx := strings.Index(trimmed, "+"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	if parsed, err := time.Parse(startTimeLayout, trimmed); err == nil {
		return parsed.Format(timeKeyLayout)
	}
	if len(raw) > 16 {
		return raw[:16]
	}
	return raw
}

func firstTemperature(values []external.ElementValueDTO) *float64 {
	for _, value := range values {
		if temperature := numberutils.SafeFloat64(value.Temperature); temperature != nil {
			return temperature
		}
	}
	return nil
}

func firstWeather(values []external.ElementValueDTO) string {
	for _, value := range values {
		if value.Weather != "" {
			return value.Weather
		}
	}
	return ""
}
