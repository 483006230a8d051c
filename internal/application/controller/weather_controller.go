package controller

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"tw-weather-api/internal/domain/entity"
	"tw-weather-api/internal/domain/model"
	"tw-weather-api/internal/domain/usecase/weather"
	"tw-weather-api/pkg/msg"
	"tw-weather-api/pkg/util/numberutils"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type WeatherController struct {
	api     *echo.Group
	useCase weather.UseCase
}

func NewWeatherController(api *echo.Group, useCase weather.UseCase) *WeatherController {
	return &WeatherController{api: api, useCase: useCase}
}

// InitWeatherRoutes initializes weather routes
func (controller *WeatherController) InitWeatherRoutes() {
	controller.api.GET("/weather/current", controller.GetCurrentWeather)
	controller.api.GET("/weather/forecast", controller.GetWeeklyForecast)
	controller.api.GET("/weather/bands", controller.GetTemperatureBands)
	controller.api.GET("/weather/locations/:location", controller.GetLocationHistory)
	controller.api.GET("/weather/range", controller.GetRecordsByTimeRange)
	controller.api.GET("/weather/statistics", controller.GetStoreStatistics)
	controller.api.GET("/weather/export", controller.ExportCurrentWeather)
	controller.api.POST("/weather/refresh", controller.RefreshObservations)
	controller.api.DELETE("/weather/records", controller.PruneOldRecords)
}

// GetCurrentWeather godoc
// @Summary Get current weather conditions
// @Description Retrieve current station observations, with source and staleness indicators
// @Tags weather
// @Accept json
// @Produce json
// @Param refresh query bool false "Bypass the snapshot cache" default(false)
// @Success 200 {object} model.WeatherSnapshot "Current conditions snapshot"
// @Failure 404 {object} map[string]string "No weather data available"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /weather/current [get]
func (controller *WeatherController) GetCurrentWeather(c echo.Context) error {
	forceRefresh := c.QueryParam("refresh") == "true"

	snapshot, err := controller.useCase.GetCurrentWeather(c.Request().Context(), forceRefresh)
	if errors.Is(err, weather.ErrNoWeatherData) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": msg.GetMessage("weather.empty")})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, snapshot)
}

// GetWeeklyForecast godoc
// @Summary Get weekly weather forecast
// @Description Retrieve the weekly township forecast grouped by time slot
// @Tags weather
// @Accept json
// @Produce json
// @Param refresh query bool false "Bypass the forecast cache" default(false)
// @Param date query string false "Return only the records of one time slot (yyyy-MM-dd HH:mm)"
// @Success 200 {object} model.ForecastSnapshot "Weekly forecast snapshot"
// @Failure 404 {object} map[string]string "Unknown time slot"
// @Failure 502 {object} map[string]string "Forecast unavailable"
// @Router /weather/forecast [get]
func (controller *WeatherController) GetWeeklyForecast(c echo.Context) error {
	forceRefresh := c.QueryParam("refresh") == "true"

	snapshot, err := controller.useCase.GetWeeklyForecast(c.Request().Context(), forceRefresh)
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	}

	if date := c.QueryParam("date"); date != "" {
		records := snapshot.Forecast.RecordsFor(date)
		if records == nil {
			return c.JSON(http.StatusNotFound, map[string]string{"error": fmt.Sprintf("No forecast slot '%s'", date)})
		}
		return c.JSON(http.StatusOK, records)
	}
	return c.JSON(http.StatusOK, snapshot)
}

// GetTemperatureBands godoc
// @Summary Get the temperature legend
// @Description Retrieve the color bands used to render temperatures
// @Tags weather
// @Accept json
// @Produce json
// @Success 200 {array} model.TemperatureBand "Legend buckets in display order"
// @Router /weather/bands [get]
func (controller *WeatherController) GetTemperatureBands(c echo.Context) error {
	return c.JSON(http.StatusOK, model.TemperatureBands())
}

// GetLocationHistory godoc
// @Summary Get observation history for one location
// @Description Retrieve stored observations of a location, newest first
// @Tags weather
// @Accept json
// @Produce json
// @Param location path string true "Location name"
// @Success 200 {array} entity.WeatherRecord "Observation history"
// @Failure 404 {object} map[string]string "Location has no stored records"
// @Router /weather/locations/{location} [get]
func (controller *WeatherController) GetLocationHistory(c echo.Context) error {
	location := c.Param("location")

	records, err := controller.useCase.GetLocationHistory(location)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if len(records) == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": fmt.Sprintf("No records stored for location '%s'", location)})
	}
	return c.JSON(http.StatusOK, records)
}

// GetRecordsByTimeRange godoc
// @Summary Get observations inside a time range
// @Description Retrieve stored observations with observation time inside [start, end]
// @Tags weather
// @Accept json
// @Produce json
// @Param start query string true "Range start (inclusive)"
// @Param end query string true "Range end (inclusive)"
// @Success 200 {array} entity.WeatherRecord "Observations in range"
// @Failure 400 {object} map[string]string "Missing or inverted range bounds"
// @Router /weather/range [get]
func (controller *WeatherController) GetRecordsByTimeRange(c echo.Context) error {
	start := c.QueryParam("start")
	end := c.QueryParam("end")
	if start == "" || end == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "start and end query parameters are required"})
	}
	if start > end {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "start must not be after end"})
	}

	records, err := controller.useCase.GetRecordsByTimeRange(start, end)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, records)
}

// GetStoreStatistics godoc
// @Summary Get store statistics
// @Description Retrieve aggregate counts over the stored observations
// @Tags weather
// @Accept json
// @Produce json
// @Success 200 {object} model.StoreStatistics "Store statistics"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /weather/statistics [get]
func (controller *WeatherController) GetStoreStatistics(c echo.Context) error {
	stats, err := controller.useCase.GetStoreStatistics()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, stats)
}

// ExportCurrentWeather godoc
// @Summary Export current weather as CSV
// @Description Download current conditions as a CSV attachment, one row per station with its temperature band
// @Tags weather
// @Produce text/csv
// @Success 200 {string} string "CSV payload"
// @Failure 404 {object} map[string]string "No weather data available"
// @Router /weather/export [get]
func (controller *WeatherController) ExportCurrentWeather(c echo.Context) error {
	snapshot, err := controller.useCase.GetCurrentWeather(c.Request().Context(), false)
	if errors.Is(err, weather.ErrNoWeatherData) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": msg.GetMessage("weather.empty")})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	filename := fmt.Sprintf("weather_%s.csv", time.Now().UTC().Format("20060102_150405"))
	c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Response().WriteHeader(http.StatusOK)

	return writeRecordsCSV(c.Response(), snapshot.Records)
}

// RefreshObservations godoc
// @Summary Refresh observations
// @Description Fetch current observations from the upstream and persist them
// @Tags weather
// @Accept json
// @Produce json
// @Success 200 {object} model.RefreshResult "Saved and skipped counts"
// @Failure 502 {object} map[string]string "Refresh failed"
// @Router /weather/refresh [post]
func (controller *WeatherController) RefreshObservations(c echo.Context) error {
	requestID := uuid.New().String()

	result, err := controller.useCase.RefreshObservations(c.Request().Context(), requestID)
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, result)
}

// PruneOldRecords godoc
// @Summary Prune old records
// @Description Delete records stored before the retention window
// @Tags weather
// @Accept json
// @Produce json
// @Param days query int false "Retention window override in days"
// @Success 200 {object} model.PruneResult "Deleted count"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /weather/records [delete]
func (controller *WeatherController) PruneOldRecords(c echo.Context) error {
	days := numberutils.ToIntWithDefault(c.QueryParam("days"), 0)
	requestID := uuid.New().String()

	result, err := controller.useCase.PruneOldRecords(requestID, days)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, result)
}

var csvHeader = []string{
	"location", "county", "town", "latitude", "longitude",
	"temperature", "unit", "observation_time", "weather",
	"humidity", "wind_speed", "band_label", "band_color",
}

func writeRecordsCSV(w http.ResponseWriter, records []entity.WeatherRecord) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, record := range records {
		band := model.BandForTemperature(record.Temperature)
		row := []string{
			record.LocationName,
			record.CountyName,
			record.TownName,
			strconv.FormatFloat(record.Latitude, 'f', -1, 64),
			strconv.FormatFloat(record.Longitude, 'f', -1, 64),
			strconv.FormatFloat(record.Temperature, 'f', 1, 64),
			record.Unit,
			record.ObservationTime,
			record.WeatherDescription,
			formatOptionalFloat(record.Humidity),
			formatOptionalFloat(record.WindSpeed),
			band.Label,
			band.Color,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatOptionalFloat(value *float64) string {
	if value == nil {
		return ""
	}
	return strconv.FormatFloat(*value, 'f', 1, 64)
}
