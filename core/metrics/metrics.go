package metrics

import "time"

// FacilityAllocation is the outcome for one facility within a run.
type FacilityAllocation struct {
	FacilityID string
	Capacity   int
	Demand     int
	Allocated  float64
}

// AllocationEvent describes one completed allocation run.
type AllocationEvent struct {
	RunID        string
	Path         string // "exact" or "fallback"
	SolverStatus string
	Reason       string
	Objective    float64
	TotalDemand  int
	Facilities   []FacilityAllocation
	Duration     time.Duration
	Time         time.Time
}

// Allocated returns the number of vehicles placed across all facilities.
func (e AllocationEvent) Allocated() float64 {
	var sum float64
	for _, f := range e.Facilities {
		sum += f.Allocated
	}
	return sum
}

// MetricsSink records allocation runs for observability purposes.
type MetricsSink interface {
	RecordAllocation(ev AllocationEvent) error
}

// FallbackEvent records a run that had to leave the exact path.
type FallbackEvent struct {
	RunID        string
	SolverStatus string
	Reason       string
	Shortfall    float64
	Time         time.Time
}

// FallbackRecorder records fallback applications.
type FallbackRecorder interface {
	RecordFallback(ev FallbackEvent) error
}

// SolveLatency is the wall-clock time spent in the solver for one run.
type SolveLatency struct {
	SolverStatus string
	Latency      time.Duration
}

// LatencyRecorder is implemented by sinks able to record solver latency.
type LatencyRecorder interface {
	RecordSolveLatency(l SolveLatency) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordAllocation(AllocationEvent) error { return nil }
func (NopSink) RecordFallback(FallbackEvent) error     { return nil }
func (NopSink) RecordSolveLatency(SolveLatency) error  { return nil }

// StageRecorder counts allocator state machine transitions.
type StageRecorder interface {
	RecordStage(stage string) error
}

func (NopSink) RecordStage(string) error { return nil }
