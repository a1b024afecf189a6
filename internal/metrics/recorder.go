package metrics

import "time"

// OutcomeLabel enumerates run outcomes for counters.
type OutcomeLabel string

const (
	OutcomeSuccess OutcomeLabel = "success"
	OutcomeDryRun  OutcomeLabel = "dry_run"
	OutcomeFailed  OutcomeLabel = "failed"
)

// Recorder defines observability hooks for rewrite runs.
type Recorder interface {
	IncDocumentsScanned()
	IncDocumentsChanged()
	AddReplacements(kind string, n int)
	ObserveRunDuration(d time.Duration)
	IncRunOutcome(outcome OutcomeLabel)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncDocumentsScanned()             {}
func (NoopRecorder) IncDocumentsChanged()             {}
func (NoopRecorder) AddReplacements(string, int)      {}
func (NoopRecorder) ObserveRunDuration(time.Duration) {}
func (NoopRecorder) IncRunOutcome(OutcomeLabel)       {}
