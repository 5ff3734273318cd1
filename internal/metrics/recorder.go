package metrics

import "time"

// Recorder defines observability hooks for batch runs.
type Recorder interface {
	IncFileOutcome(operation, folder, outcome string)
	IncFolderFailure(operation, folder string)
	ObserveRunDuration(operation string, d time.Duration)
	SetLastRun(operation string, at time.Time)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncFileOutcome(string, string, string)    {}
func (NoopRecorder) IncFolderFailure(string, string)          {}
func (NoopRecorder) ObserveRunDuration(string, time.Duration) {}
func (NoopRecorder) SetLastRun(string, time.Time)             {}
