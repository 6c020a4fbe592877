package metrics

import "time"

// RouteResult labels the fate of one route in a run.
type RouteResult string

const (
	RouteProcessed RouteResult = "processed"
	RouteCached    RouteResult = "cached"
	RouteFailed    RouteResult = "failed"
	RouteSkipped   RouteResult = "skipped"
)

// Outcome labels how a run ended.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailed  Outcome = "failed"
	OutcomeEmpty   Outcome = "empty"
)

// Recorder receives run observations. Implementations must be safe for
// concurrent use.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveRunDuration(d time.Duration)
	IncRouteResult(result RouteResult)
	IncRunOutcome(outcome Outcome)
}

// NoopRecorder discards everything.
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveRunDuration(time.Duration)           {}
func (NoopRecorder) IncRouteResult(RouteResult)                 {}
func (NoopRecorder) IncRunOutcome(Outcome)                      {}

// Timer measures one stage.
type Timer struct {
	rec   Recorder
	stage string
	start time.Time
}

// StartStage begins timing stage on rec.
func StartStage(rec Recorder, stage string) Timer {
	return Timer{rec: rec, stage: stage, start: time.Now()}
}

// Stop records the elapsed time and returns it.
func (t Timer) Stop() time.Duration {
	d := time.Since(t.start)
	if t.rec != nil {
		t.rec.ObserveStageDuration(t.stage, d)
	}
	return d
}
