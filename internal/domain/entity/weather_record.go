package entity

// WeatherRecord is the normalized shape both the observation and forecast
// parsers produce. Observation records carry ObservationTime plus the
// optional sensor readings; forecast records carry ForecastTime, reuse
// CountyName for the forecast region and leave TownName empty.
type WeatherRecord struct {
	ID                 string   `json:"id,omitempty"`
	LocationName       string   `json:"locationName"`
	Latitude           float64  `json:"latitude"`
	Longitude          float64  `json:"longitude"`
	Temperature        float64  `json:"temperature"`
	Unit               string   `json:"unit"`
	ObservationTime    string   `json:"observationTime,omitempty"`
	ForecastTime       string   `json:"forecastTime,omitempty"`
	CountyName         string   `json:"countyName"`
	TownName           string   `json:"townName"`
	WeatherDescription string   `json:"weatherDescription"`
	Humidity           *float64 `json:"humidity,omitempty"`
	WindSpeed          *float64 `json:"windSpeed,omitempty"`
	CreatedAt          string   `json:"createdDate,omitempty"`
	UpdatedAt          string   `json:"updatedDate,omitempty"`
}

// ForecastBundle groups forecast records by minute-precision time key.
// Dates lists every time key observed across all locations, sorted
// ascending and unique (lexicographic order equals chronological order for
// the fixed-width key format); ByDate holds the records of each slot.
type ForecastBundle struct {
	Dates  []string                   `json:"dates"`
	ByDate map[string][]WeatherRecord `json:"byDate"`
}

// NewForecastBundle creates an empty bundle ready to be filled
func NewForecastBundle() *ForecastBundle {
	return &ForecastBundle{
		Dates:  make([]string, 0),
		ByDate: make(map[string][]WeatherRecord),
	}
}

// RecordsFor returns the records of one time slot, nil when the slot is unknown
func (b *ForecastBundle) RecordsFor(timeKey string) []WeatherRecord {
	return b.ByDate[timeKey]
}
