// Package metrics defines observability hooks for the upsert service and its
// HTTP boundary.
package metrics

import "time"

// Recorder defines observability hooks for upsert and HTTP metrics.
// Implementations may forward to Prometheus or anything else; the NoopRecorder
// makes injection optional.
type Recorder interface {
	ObserveRequestDuration(path string, status int, d time.Duration)
	IncUpsertOutcome(mode string) // mode: create|update|error
	AddDroppedChildren(n int)
	IncFormatterFallback(kind string)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveRequestDuration(string, int, time.Duration) {}
func (NoopRecorder) IncUpsertOutcome(string)                           {}
func (NoopRecorder) AddDroppedChildren(int)                            {}
func (NoopRecorder) IncFormatterFallback(string)                       {}
