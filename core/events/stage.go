package events

// Stage is a state of the allocator state machine.
type Stage string

const (
	StageStart    Stage = "start"
	StageTryExact Stage = "try_exact"
	StageSuccess  Stage = "success"
	StageFallback Stage = "fallback"
	StageDone     Stage = "done"
)

// StageEvent is emitted each time an allocation run enters a stage. Reason
// is set when entering StageFallback.
type StageEvent struct {
	RunID  string
	Stage  Stage
	Reason string
}
