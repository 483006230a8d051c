package external

// DTOs for the CWA (Central Weather Administration) OpenData API.
// Numeric-looking fields are typed as `any` because the upstream mixes
// string and number encodings for the same element across datasets; they
// are coerced downstream with numberutils.SafeFloat64.

// ObservationResponse represents the O-A0003-001 station observation response
type ObservationResponse struct {
	Success string             `json:"success"`
	Records ObservationRecords `json:"records"`
}

// ObservationRecords holds the station list of an observation response
type ObservationRecords struct {
	Station []StationDTO `json:"Station"`
}

// StationDTO represents one physical weather station
type StationDTO struct {
	StationName    string            `json:"StationName"`
	StationID      string            `json:"StationId"`
	ObsTime        ObsTimeDTO        `json:"ObsTime"`
	GeoInfo        GeoInfoDTO        `json:"GeoInfo"`
	WeatherElement WeatherElementDTO `json:"WeatherElement"`
}

// ObsTimeDTO carries the observation timestamp
type ObsTimeDTO struct {
	DateTime string `json:"DateTime"`
}

// GeoInfoDTO carries station geography, with one coordinate entry per
// coordinate system
type GeoInfoDTO struct {
	Coordinates []CoordinateDTO `json:"Coordinates"`
	CountyName  string          `json:"CountyName"`
	TownName    string          `json:"TownName"`
}

// CoordinateDTO represents a station position in one coordinate system
type CoordinateDTO struct {
	CoordinateName   string `json:"CoordinateName"`
	StationLatitude  any    `json:"StationLatitude"`
	StationLongitude any    `json:"StationLongitude"`
}

// WeatherElementDTO carries the sensor readings of one station
type WeatherElementDTO struct {
	Weather          string `json:"Weather"`
	AirTemperature   any    `json:"AirTemperature"`
	RelativeHumidity any    `json:"RelativeHumidity"`
	WindSpeed        any    `json:"WindSpeed"`
}

// ForecastResponse represents the F-D0047-091 weekly forecast response
type ForecastResponse struct {
	Success string          `json:"success"`
	Records ForecastRecords `json:"records"`
}

// ForecastRecords holds the location groups of a forecast response
type ForecastRecords struct {
	Locations []ForecastLocationsDTO `json:"Locations"`
}

// ForecastLocationsDTO wraps the per-region location list
type ForecastLocationsDTO struct {
	DatasetDescription string                `json:"DatasetDescription"`
	Location           []ForecastLocationDTO `json:"Location"`
}

// ForecastLocationDTO represents one administrative region with its
// weather element time series
type ForecastLocationDTO struct {
	LocationName   string               `json:"LocationName"`
	Latitude       any                  `json:"Latitude"`
	Longitude      any                  `json:"Longitude"`
	WeatherElement []ForecastElementDTO `json:"WeatherElement"`
}

// ForecastElementDTO is one named time series (temperature, weather
// phenomenon, ...) of a location
type ForecastElementDTO struct {
	ElementName string            `json:"ElementName"`
	Time        []ForecastTimeDTO `json:"Time"`
}

// ForecastTimeDTO is one slot of a forecast series
type ForecastTimeDTO struct {
	StartTime    string            `json:"StartTime"`
	EndTime      string            `json:"EndTime"`
	ElementValue []ElementValueDTO `json:"ElementValue"`
}

// ElementValueDTO carries the value of one slot; the populated field
// depends on the element the slot belongs to
type ElementValueDTO struct {
	Temperature any    `json:"Temperature"`
	Weather     string `json:"Weather"`
}

// APIErrorResponse represents error payloads from the CWA API
type APIErrorResponse struct {
	Message string `json:"message"`
}
