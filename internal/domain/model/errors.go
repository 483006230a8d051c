package model

import "fmt"

// ConfigError marks a missing or unusable credential/configuration value.
// It is fatal to the calling operation and never retried.
type ConfigError struct {
	Key string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration value %q is not set", e.Key)
}

// NewConfigError creates a ConfigError for the given configuration key
func NewConfigError(key string) *ConfigError {
	return &ConfigError{Key: key}
}

// NetworkError marks a transport-level failure that persisted through all
// retry attempts.
type NetworkError struct {
	Attempts int
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("upstream unreachable after %d attempts: %v", e.Attempts, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a NetworkError wrapping the last transport failure
func NewNetworkError(attempts int, err error) *NetworkError {
	return &NetworkError{Attempts: attempts, Err: err}
}

// UpstreamError marks a response that arrived but is unusable: either the
// API declared an unsuccessful status or the body did not match the
// expected schema. Not transient, never retried.
type UpstreamError struct {
	Message string
	Raw     string
}

func (e *UpstreamError) Error() string {
	if e.Raw != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Raw)
	}
	return e.Message
}

// NewUpstreamError creates an UpstreamError carrying the raw response for diagnostics
func NewUpstreamError(message string, raw string) *UpstreamError {
	return &UpstreamError{Message: message, Raw: raw}
}

// StorageError marks a failed store transaction. The transaction has been
// rolled back and the connection remains usable.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError creates a StorageError for the given operation
func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}
