package model

import "math"

// TemperatureBand is one legend bucket: [Min, Max) in Celsius
type TemperatureBand struct {
	Min   float64 `json:"-"`
	Max   float64 `json:"-"`
	Color string  `json:"color"`
	Label string  `json:"label"`
}

// temperatureBands mirrors the dashboard legend. Order matters: bands are
// scanned first to last and the first match wins.
var temperatureBands = []TemperatureBand{
	{Min: math.Inf(-1), Max: 10, Color: "#0000FF", Label: "Cold (<10°C)"},
	{Min: 10, Max: 15, Color: "#00FFFF", Label: "Cool (10-15°C)"},
	{Min: 15, Max: 20, Color: "#00FF00", Label: "Mild (15-20°C)"},
	{Min: 20, Max: 25, Color: "#FFFF00", Label: "Warm (20-25°C)"},
	{Min: 25, Max: 30, Color: "#FFA500", Label: "Hot (25-30°C)"},
	{Min: 30, Max: math.Inf(1), Color: "#FF0000", Label: "Very Hot (>30°C)"},
}

// unknownBand is the fallback for NaN and other unmatchable values
var unknownBand = TemperatureBand{Color: "#808080", Label: "Unknown"}

// BandForTemperature maps a Celsius value to its legend bucket
func BandForTemperature(temperature float64) TemperatureBand {
	for _, band := range temperatureBands {
		if temperature >= band.Min && temperature < band.Max {
			return band
		}
	}
	return unknownBand
}

// TemperatureBands returns the legend buckets in display order
func TemperatureBands() []TemperatureBand {
	bands := make([]TemperatureBand, len(temperatureBands))
	copy(bands, temperatureBands)
	return bands
}
