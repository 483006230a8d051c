package http

import (
	"errors"
	"time"
)

// BackoffConfig controls retry behavior for a request. Transport failures
// and HTTP error statuses are considered transient and retried with
// exponential backoff; responses that cannot be decoded into the expected
// schema are structural failures and propagate immediately.
type BackoffConfig struct {
	// MaxRetries is the total number of attempts (not additional retries).
	MaxRetries int
	// BaseDelay is the backoff unit: attempt n (0-indexed) waits
	// BaseDelay * 2^n before the next attempt. No wait after the last one.
	BaseDelay time.Duration
	// Sleep is the wait function, overridable in tests. Defaults to time.Sleep.
	Sleep func(time.Duration)
}

// NewBackoffConfig creates a backoff configuration with the given attempt
// budget and base delay.
func NewBackoffConfig(maxRetries int, baseDelay time.Duration) *BackoffConfig {
	return &BackoffConfig{MaxRetries: maxRetries, BaseDelay: baseDelay}
}

func (bc *BackoffConfig) attempts() int {
	if bc.MaxRetries < 1 {
		return 1
	}
	return bc.MaxRetries
}

func (bc *BackoffConfig) delay(attempt int) time.Duration {
	return bc.BaseDelay * (1 << attempt)
}

func (bc *BackoffConfig) sleep(d time.Duration) {
	if bc.Sleep != nil {
		bc.Sleep(d)
		return
	}
	time.Sleep(d)
}

// doRequestWithBackoff executes a request under the given backoff policy.
// A nil backoff executes exactly one attempt.
func (hc *Client) doRequestWithBackoff(method, path string, queryParams map[string]string, headers map[string]string, body any, successResp any, errorResp any, backoff *BackoffConfig) (any, any, int, error) {
	if backoff == nil {
		return hc.doRequest(method, path, queryParams, headers, body, successResp, errorResp)
	}

	attempts := backoff.attempts()

	var (
		success any
		failure any
		status  int
		err     error
	)

	for attempt := 0; attempt < attempts; attempt++ {
		start := time.Now()
		success, failure, status, err = hc.doRequest(method, path, queryParams, headers, body, successResp, errorResp)
		if err == nil {
			return success, failure, status, nil
		}
		if errors.Is(err, ErrDecodeResponse) {
			// Retrying will not make a malformed body well-formed.
			return success, failure, status, err
		}

		if attempt < attempts-1 {
			if hc.logger != nil {
				hc.logger.LogRequestRetry(method, hc.buildURL(path), headers, "", status, "",
					time.Since(start).Milliseconds(), err, attempt+1, attempts)
			}
			backoff.sleep(backoff.delay(attempt))
		}
	}

	return success, failure, status, err
}
