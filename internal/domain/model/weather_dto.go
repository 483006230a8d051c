package model

import (
	"tw-weather-api/internal/domain/entity"
)

// SkippedItem records one station/location the parser rejected and why.
// Skips are diagnostics, never errors: a batch with skips is still a
// successful batch.
type SkippedItem struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// ObservationBatch is the observation parser output: the normalized records
// in API response order plus the per-station skip diagnostics.
type ObservationBatch struct {
	Records []entity.WeatherRecord `json:"records"`
	Skipped []SkippedItem          `json:"skipped,omitempty"`
}

// ForecastBatch is the forecast parser output
type ForecastBatch struct {
	Bundle  *entity.ForecastBundle `json:"bundle"`
	Skipped []SkippedItem          `json:"skipped,omitempty"`
}

// SnapshotSource tells the presentation layer where a snapshot came from,
// so it can show a staleness indicator instead of silently serving old data
type SnapshotSource string

const (
	// SourceLive marks data fetched from the upstream API in this request
	SourceLive SnapshotSource = "live"
	// SourceCache marks data served from the redis snapshot cache
	SourceCache SnapshotSource = "cache"
	// SourceStore marks data recovered from the durable store after a failed fetch
	SourceStore SnapshotSource = "store"
)

// WeatherSnapshot is the current-conditions payload served to the dashboard
type WeatherSnapshot struct {
	Source       SnapshotSource         `json:"source"`
	Stale        bool                   `json:"stale"`
	FetchedAt    string                 `json:"fetchedAt"`
	Records      []entity.WeatherRecord `json:"records"`
	Summary      *TemperatureSummary    `json:"summary,omitempty"`
	SkippedCount int                    `json:"skippedCount"`
}

// ForecastSnapshot is the weekly-forecast payload served to the dashboard
type ForecastSnapshot struct {
	Source    SnapshotSource         `json:"source"`
	Stale     bool                   `json:"stale"`
	FetchedAt string                 `json:"fetchedAt"`
	Forecast  *entity.ForecastBundle `json:"forecast"`
}

// RefreshResult reports one fetch-and-persist run
type RefreshResult struct {
	RequestID string `json:"requestId"`
	Saved     int    `json:"saved"`
	Skipped   int    `json:"skipped"`
}

// PruneResult reports one retention pruning run
type PruneResult struct {
	RetentionDays int   `json:"retentionDays"`
	Deleted       int64 `json:"deleted"`
}

// StoreStatistics is an aggregate snapshot of the durable store
type StoreStatistics struct {
	TotalRecords    int64  `json:"totalRecords"`
	UniqueLocations int64  `json:"uniqueLocations"`
	OldestRecord    string `json:"oldestRecord"`
	NewestRecord    string `json:"newestRecord"`
}
