package allocation

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/kilianp07/parkalloc/core/model"
)

// Bound is the closed interval a decision variable may take.
type Bound struct {
	Lower float64
	Upper float64
}

// Problem is a linear minimisation problem in the form
//
//	minimize   Objectiveᵀ x
//	subject to Aeq x  = Beq
//	           Aub x <= Bub
//	           Bounds[i].Lower <= x[i] <= Bounds[i].Upper
//
// Aub holds the capacity rows first, followed by the utilisation-floor rows.
type Problem struct {
	Objective []float64
	Aeq       *mat.Dense
	Beq       []float64
	Aub       *mat.Dense
	Bub       []float64
	Bounds    []Bound
}

// NumVars returns the number of decision variables.
func (p Problem) NumVars() int { return len(p.Objective) }

// Weight scalarises the facility attributes into the per-vehicle cost
// minimised by the solver. Facilities with a high preference may get a
// negative weight; it is kept as is.
func Weight(f model.Facility) float64 {
	return f.Cost + (1 - f.Proximity) + f.Traffic - (1 - f.Preference)
}

// Weights returns the weight of every facility in snapshot order.
func Weights(s model.Snapshot) []float64 {
	out := make([]float64, s.Len())
	for i, f := range s.Facilities {
		out[i] = Weight(f)
	}
	return out
}

// Build derives the objective, constraints and bounds from the snapshot.
// minUtil is the fraction of capacity enforced as a floor on facilities with
// a positive demand.
func Build(s model.Snapshot, minUtil float64) (Problem, error) {
	n := s.Len()
	if n == 0 {
		return Problem{}, fmt.Errorf("build problem: %w", model.ErrInvalidSnapshot)
	}
	if minUtil < 0 || minUtil > 1 {
		return Problem{}, fmt.Errorf("build problem: min utilization %v out of range", minUtil)
	}

	aeq := mat.NewDense(1, n, nil)
	for i := 0; i < n; i++ {
		aeq.Set(0, i, 1)
	}
	beq := []float64{float64(s.TotalDemand())}

	aub := mat.NewDense(2*n, n, nil)
	bub := make([]float64, 2*n)
	bounds := make([]Bound, n)
	for i, f := range s.Facilities {
		capacity := float64(f.Capacity)
		aub.Set(i, i, 1)
		bub[i] = capacity

		aub.Set(n+i, i, -1)
		if f.Demand > 0 {
			bub[n+i] = -minUtil * capacity
		}

		bounds[i] = Bound{Lower: 0, Upper: capacity}
	}

	return Problem{
		Objective: Weights(s),
		Aeq:       aeq,
		Beq:       beq,
		Aub:       aub,
		Bub:       bub,
		Bounds:    bounds,
	}, nil
}
