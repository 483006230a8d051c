package api

import (
	"encoding/json"
	"errors"
	"time"

	"tw-weather-api/internal/domain/model"
	"tw-weather-api/internal/domain/model/external"
	"tw-weather-api/pkg/http"
	"tw-weather-api/pkg/log"
)

// CWA OpenData dataset identifiers
const (
	// observationEndpoint is the real-time station observation dataset
	observationEndpoint = "O-A0003-001"
	// forecastEndpoint is the weekly county forecast dataset (with coordinates)
	forecastEndpoint = "F-D0047-091"
)

// apiSuccess is the success flag value of a well-formed CWA response
const apiSuccess = "true"

// KeyResolver resolves the CWA API key. It returns a ConfigError when the
// key is unavailable; that failure is fatal to the calling operation and
// never retried.
type KeyResolver func() (string, error)

// GatewayOptions configures timeouts and the retry policy of the gateway
type GatewayOptions struct {
	ObservationTimeout time.Duration
	ForecastTimeout    time.Duration
	MaxRetries         int
	BaseDelay          time.Duration
}

// DefaultGatewayOptions returns the gateway defaults: forecast payloads are
// larger than observation payloads and get a longer timeout.
func DefaultGatewayOptions() GatewayOptions {
	return GatewayOptions{
		ObservationTimeout: 10 * time.Second,
		ForecastTimeout:    15 * time.Second,
		MaxRetries:         3,
		BaseDelay:          1 * time.Second,
	}
}

// weatherGatewayImpl implements the WeatherGateway interface
type weatherGatewayImpl struct {
	observationClient *http.Client
	forecastClient    *http.Client
	resolveKey        KeyResolver
	backoff           *http.BackoffConfig
}

// NewWeatherGateway creates a new instance of WeatherGateway against the
// given CWA base URL
func NewWeatherGateway(baseURL string, resolveKey KeyResolver, opts GatewayOptions) WeatherGateway {
	defaults := http.ClientOptions{
		DefaultQueryParams: map[string]string{"format": "JSON"},
		Logger:             http.NewZapHTTPLogger(),
	}

	observationOpts := defaults
	observationOpts.ReadTimeout = opts.ObservationTimeout
	forecastOpts := defaults
	forecastOpts.ReadTimeout = opts.ForecastTimeout

	return &weatherGatewayImpl{
		observationClient: http.NewHttpClient(baseURL, observationOpts),
		forecastClient:    http.NewHttpClient(baseURL, forecastOpts),
		resolveKey:        resolveKey,
		backoff:           http.NewBackoffConfig(opts.MaxRetries, opts.BaseDelay),
	}
}

// FetchObservations fetches and parses the station observation dataset
func (w *weatherGatewayImpl) FetchObservations() (*model.ObservationBatch, error) {
	apiKey, err := w.resolveKey()
	if err != nil {
		return nil, err
	}

	successResp, _, _, err := w.observationClient.Request().
		WithMethod(http.GET).
		WithPath("/" + observationEndpoint).
		WithQueryParams(map[string]string{"Authorization": apiKey}).
		WithSuccessResp(&external.ObservationResponse{}).
		WithErrorResp(&external.APIErrorResponse{}).
		WithBackoff(w.backoff).
		Execute()
	if err != nil {
		return nil, w.classifyFailure(observationEndpoint, err)
	}

	response := successResp.(*external.ObservationResponse)
	if response.Success != apiSuccess {
		return nil, model.NewUpstreamError("observation endpoint declared unsuccessful status", rawResponse(response))
	}

	batch := ParseObservationResponse(response)
	log.Infof("Fetched %d observation records (%d stations skipped)", len(batch.Records), len(batch.Skipped))
	return batch, nil
}

// FetchWeeklyForecast fetches and parses the weekly county forecast dataset
func (w *weatherGatewayImpl) FetchWeeklyForecast() (*model.ForecastBatch, error) {
	apiKey, err := w.resolveKey()
	if err != nil {
		return nil, err
	}

	successResp, _, _, err := w.forecastClient.Request().
		WithMethod(http.GET).
		WithPath("/" + forecastEndpoint).
		WithQueryParams(map[string]string{"Authorization": apiKey}).
		WithSuccessResp(&external.ForecastResponse{}).
		WithErrorResp(&external.APIErrorResponse{}).
		WithBackoff(w.backoff).
		Execute()
	if err != nil {
		return nil, w.classifyFailure(forecastEndpoint, err)
	}

	response := successResp.(*external.ForecastResponse)
	if response.Success != apiSuccess {
		return nil, model.NewUpstreamError("forecast endpoint declared unsuccessful status", rawResponse(response))
	}

	batch := ParseForecastResponse(response)
	log.Infof("Fetched forecast for %d time slots (%d locations skipped)", len(batch.Bundle.Dates), len(batch.Skipped))
	return batch, nil
}

// classifyFailure maps a client error to the error taxonomy: decode
// failures are structural (UpstreamError, already unretried by the backoff
// layer), everything else exhausted the retry budget (NetworkError).
func (w *weatherGatewayImpl) classifyFailure(endpoint string, err error) error {
	if errors.Is(err, http.ErrDecodeResponse) {
		return model.NewUpstreamError("unexpected response schema from "+endpoint, err.Error())
	}
	return model.NewNetworkError(w.backoff.MaxRetries, err)
}

// rawResponse renders a decoded response back to JSON for diagnostics
func rawResponse(response any) string {
	raw, err := json.Marshal(response)
	if err != nil {
		return ""
	}
	return string(raw)
}
