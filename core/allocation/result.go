package allocation

import (
	"math"
	"time"
)

// Path names the branch of the allocator that produced a result.
type Path string

const (
	PathExact    Path = "exact"
	PathFallback Path = "fallback"
)

// Result is the allocation produced for one snapshot. Allocations is
// parallel to IDs and to the snapshot's facility order.
type Result struct {
	RunID        string
	Path         Path
	SolverStatus Status
	// Reason explains why the fallback ran. Empty on the exact path.
	Reason      string
	IDs         []string
	Allocations []float64
	Objective   float64
	Duration    time.Duration

	tolerance float64
}

// Exact reports whether the result comes from the linear program.
func (r Result) Exact() bool { return r.Path == PathExact }

// Total sums the allocations.
func (r Result) Total() float64 {
	var sum float64
	for _, a := range r.Allocations {
		sum += a
	}
	return sum
}

// Counts truncates each allocation to a whole number of vehicles. Values
// within the result tolerance of an integer are snapped to it first so that
// solver round-off such as 24.9999999 reports 25.
func (r Result) Counts() []int {
	tol := r.tolerance
	if tol <= 0 {
		tol = DefaultTolerance
	}
	out := make([]int, len(r.Allocations))
	for i, a := range r.Allocations {
		nearest := math.Round(a)
		if math.Abs(a-nearest) <= tol*math.Max(1, math.Abs(a)) {
			out[i] = int(nearest)
			continue
		}
		out[i] = int(math.Trunc(a))
	}
	return out
}
