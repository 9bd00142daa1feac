package metrics

import "time"

// UpstreamTiming captures how long the provider call behind a response took.
type UpstreamTiming struct {
	Endpoint   string `json:"endpoint"`
	DurationMs int64  `json:"durationMs"`
}

// Since builds a timing for endpoint measured from start.
func Since(endpoint string, start time.Time) UpstreamTiming {
	return UpstreamTiming{Endpoint: endpoint, DurationMs: time.Since(start).Milliseconds()}
}
