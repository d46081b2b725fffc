package allocation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/parkalloc/core/events"
	"github.com/kilianp07/parkalloc/core/logger"
	"github.com/kilianp07/parkalloc/core/metrics"
	"github.com/kilianp07/parkalloc/core/model"
	"github.com/kilianp07/parkalloc/internal/eventbus"
)

// Allocator distributes the vehicles of a snapshot among its facilities. It
// tries the linear program first and runs the greedy fallback whenever the
// exact path fails for any reason, so Allocate always yields a full vector.
//
// An Allocator holds no per-run state and may be reused.
type Allocator struct {
	cfg    Config
	solver Solver
	log    logger.Logger
	sink   metrics.MetricsSink
	bus    eventbus.Publisher[events.StageEvent]
}

// NewAllocator builds an Allocator. A nil solver selects the gonum simplex
// solver; nil sink and bus disable metrics and stage events.
func NewAllocator(cfg Config, solver Solver, log logger.Logger, sink metrics.MetricsSink, bus eventbus.Publisher[events.StageEvent]) (*Allocator, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("allocation config: %w", err)
	}
	if log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if solver == nil {
		solver = NewSimplexSolver(cfg.Tolerance)
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Allocator{cfg: cfg, solver: solver, log: log, sink: sink, bus: bus}, nil
}

// Allocate computes the allocation for s. Errors never escape: an invalid
// snapshot, a failed build, an infeasible or unbounded program, a solver
// error or an expired context all route to the fallback.
func (a *Allocator) Allocate(ctx context.Context, s model.Snapshot) Result {
	start := time.Now()
	res := Result{
		RunID:     uuid.NewString(),
		IDs:       s.IDs(),
		tolerance: a.cfg.Tolerance,
	}
	a.publish(res.RunID, events.StageStart, "")

	a.publish(res.RunID, events.StageTryExact, "")
	solveStart := time.Now()
	sol := a.tryExact(ctx, s)
	a.recordLatency(sol.Status, time.Since(solveStart))
	res.SolverStatus = sol.Status

	if sol.OK() {
		res.Path = PathExact
		res.Allocations = sol.X
		a.publish(res.RunID, events.StageSuccess, "")
		a.log.Infof("optimal allocation found for %d facilities", s.Len())
	} else {
		res.Path = PathFallback
		res.Reason = sol.Err.Error()
		res.Allocations = Greedy(s.Capacities(), s.Demands())
		a.publish(res.RunID, events.StageFallback, res.Reason)
		a.log.Warnf("optimization problem not solved (%s), using alternative allocation: %v", sol.Status, sol.Err)
	}
	res.Objective = floats.Dot(Weights(s), res.Allocations)
	res.Duration = time.Since(start)

	a.record(s, res)
	a.publish(res.RunID, events.StageDone, "")
	a.log.Debugw("allocation done", map[string]any{
		"run_id":    res.RunID,
		"path":      string(res.Path),
		"status":    res.SolverStatus.String(),
		"total":     res.Total(),
		"objective": res.Objective,
		"duration":  res.Duration.String(),
	})
	return res
}

func (a *Allocator) tryExact(ctx context.Context, s model.Snapshot) Solution {
	if err := s.Validate(); err != nil {
		return Solution{Status: StatusError, Err: err}
	}
	p, err := Build(s, a.cfg.MinUtil())
	if err != nil {
		return Solution{Status: StatusError, Err: err}
	}
	if timeout := a.cfg.SolverTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	sol := a.solver.Solve(ctx, p)
	if !sol.OK() && sol.Err == nil {
		sol.Err = fmt.Errorf("solver reported %s", sol.Status)
	}
	return sol
}

func (a *Allocator) publish(runID string, stage events.Stage, reason string) {
	if a.bus == nil {
		return
	}
	a.bus.Publish(events.StageEvent{RunID: runID, Stage: stage, Reason: reason})
}

func (a *Allocator) recordLatency(status Status, d time.Duration) {
	if lr, ok := a.sink.(metrics.LatencyRecorder); ok {
		if err := lr.RecordSolveLatency(metrics.SolveLatency{SolverStatus: status.String(), Latency: d}); err != nil {
			a.log.Errorf("record solve latency: %v", err)
		}
	}
}

func (a *Allocator) record(s model.Snapshot, res Result) {
	now := time.Now()
	facilities := make([]metrics.FacilityAllocation, s.Len())
	for i, f := range s.Facilities {
		facilities[i] = metrics.FacilityAllocation{
			FacilityID: f.ID,
			Capacity:   f.Capacity,
			Demand:     f.Demand,
			Allocated:  res.Allocations[i],
		}
	}
	ev := metrics.AllocationEvent{
		RunID:        res.RunID,
		Path:         string(res.Path),
		SolverStatus: res.SolverStatus.String(),
		Reason:       res.Reason,
		Objective:    res.Objective,
		TotalDemand:  s.TotalDemand(),
		Facilities:   facilities,
		Duration:     res.Duration,
		Time:         now,
	}
	if err := a.sink.RecordAllocation(ev); err != nil {
		a.log.Errorf("record allocation: %v", err)
	}
	if res.Path != PathFallback {
		return
	}
	if fr, ok := a.sink.(metrics.FallbackRecorder); ok {
		fe := metrics.FallbackEvent{
			RunID:        res.RunID,
			SolverStatus: res.SolverStatus.String(),
			Reason:       res.Reason,
			Shortfall:    float64(s.TotalDemand()) - res.Total(),
			Time:         now,
		}
		if err := fr.RecordFallback(fe); err != nil {
			a.log.Errorf("record fallback: %v", err)
		}
	}
}
