package allocation

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// Status is the outcome of a solve.
type Status int

const (
	StatusOptimal Status = iota
	StatusInfeasible
	StatusUnbounded
	StatusTimeout
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	case StatusTimeout:
		return "timeout"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

var (
	// ErrInfeasible indicates no point satisfies all constraints.
	ErrInfeasible = errors.New("lp infeasible")
	// ErrUnbounded indicates the objective can decrease without limit.
	ErrUnbounded = errors.New("lp unbounded")
	// ErrTimeout indicates the solve did not finish before the context ended.
	ErrTimeout = errors.New("lp solve timed out")
	// ErrShape indicates a malformed problem.
	ErrShape = errors.New("lp shape mismatch")
)

// Solution is the tagged result of a solve. X and Objective are only
// meaningful when Status is StatusOptimal; Err carries the failure reason
// otherwise.
type Solution struct {
	Status    Status
	X         []float64
	Objective float64
	Err       error
}

// OK reports whether the solve produced an optimal point.
func (s Solution) OK() bool { return s.Status == StatusOptimal }

// Solver solves a Problem.
type Solver interface {
	Solve(ctx context.Context, p Problem) Solution
}

// lpSimplex points to the simplex implementation. It can be overridden in
// tests to simulate solver failures.
var lpSimplex = lp.Simplex

// SimplexSolver solves problems with gonum's simplex implementation.
type SimplexSolver struct {
	// Tolerance is the accepted constraint violation of the returned point.
	Tolerance float64
}

// NewSimplexSolver returns a solver using the given tolerance, or
// DefaultTolerance when tol is not positive.
func NewSimplexSolver(tol float64) SimplexSolver {
	if tol <= 0 {
		tol = DefaultTolerance
	}
	return SimplexSolver{Tolerance: tol}
}

// Solve runs the simplex method. The solve runs in its own goroutine so that a
// context deadline or cancellation is honoured; an abandoned solve finishes
// in the background and its result is discarded.
func (s SimplexSolver) Solve(ctx context.Context, p Problem) Solution {
	if err := ctx.Err(); err != nil {
		return Solution{Status: StatusTimeout, Err: fmt.Errorf("%w: %v", ErrTimeout, err)}
	}
	if _, ok := ctx.Deadline(); !ok && ctx.Done() == nil {
		return s.solve(p)
	}
	done := make(chan Solution, 1)
	go func() { done <- s.solve(p) }()
	select {
	case sol := <-done:
		return sol
	case <-ctx.Done():
		return Solution{Status: StatusTimeout, Err: fmt.Errorf("%w: %v", ErrTimeout, ctx.Err())}
	}
}

func (s SimplexSolver) solve(p Problem) (sol Solution) {
	defer func() {
		if r := recover(); r != nil {
			sol = Solution{Status: StatusError, Err: fmt.Errorf("simplex panic: %v", r)}
		}
	}()
	tol := s.Tolerance
	if tol <= 0 {
		tol = DefaultTolerance
	}
	if err := p.check(); err != nil {
		return Solution{Status: StatusError, Err: err}
	}

	c, g, h, a, b := generalForm(p)
	cStd, aStd, bStd := lp.Convert(c, g, h, a, b)
	_, xStd, err := lpSimplex(cStd, aStd, bStd, tol/10, nil)
	if err != nil {
		switch {
		case errors.Is(err, lp.ErrInfeasible):
			return Solution{Status: StatusInfeasible, Err: fmt.Errorf("%w: %v", ErrInfeasible, err)}
		case errors.Is(err, lp.ErrUnbounded):
			return Solution{Status: StatusUnbounded, Err: fmt.Errorf("%w: %v", ErrUnbounded, err)}
		default:
			return Solution{Status: StatusError, Err: fmt.Errorf("simplex: %w", err)}
		}
	}

	// Convert splits every free variable into x⁺ - x⁻ ahead of the slacks.
	n := p.NumVars()
	if len(xStd) < 2*n {
		return Solution{Status: StatusError, Err: fmt.Errorf("%w: solution has %d entries, want at least %d", ErrShape, len(xStd), 2*n)}
	}
	x := make([]float64, n)
	for i := range x {
		x[i] = xStd[i] - xStd[n+i]
	}
	if err := p.verify(x, tol); err != nil {
		return Solution{Status: StatusInfeasible, Err: fmt.Errorf("%w: %v", ErrInfeasible, err)}
	}
	for i, bd := range p.Bounds {
		x[i] = math.Min(math.Max(x[i], bd.Lower), bd.Upper)
	}
	return Solution{Status: StatusOptimal, X: x, Objective: floats.Dot(p.Objective, x)}
}

// generalForm stacks the inequality rows and both sides of the variable
// bounds into G x <= h, as expected by lp.Convert.
func generalForm(p Problem) (c []float64, g *mat.Dense, h []float64, a *mat.Dense, b []float64) {
	n := p.NumVars()
	ub, _ := p.Aub.Dims()
	g = mat.NewDense(ub+2*n, n, nil)
	h = make([]float64, ub+2*n)
	g.Slice(0, ub, 0, n).(*mat.Dense).Copy(p.Aub)
	copy(h, p.Bub)
	for i, bd := range p.Bounds {
		g.Set(ub+i, i, 1)
		h[ub+i] = bd.Upper
		g.Set(ub+n+i, i, -1)
		h[ub+n+i] = -bd.Lower
	}
	c = make([]float64, n)
	copy(c, p.Objective)
	a = mat.DenseCopyOf(p.Aeq)
	b = make([]float64, len(p.Beq))
	copy(b, p.Beq)
	return c, g, h, a, b
}

func (p Problem) check() error {
	n := p.NumVars()
	if n == 0 {
		return fmt.Errorf("%w: no variables", ErrShape)
	}
	if p.Aeq == nil || p.Aub == nil {
		return fmt.Errorf("%w: missing constraint matrix", ErrShape)
	}
	if r, cols := p.Aeq.Dims(); cols != n || r != len(p.Beq) {
		return fmt.Errorf("%w: equality matrix is %dx%d with %d rhs, want %d columns", ErrShape, r, cols, len(p.Beq), n)
	}
	if r, cols := p.Aub.Dims(); cols != n || r != len(p.Bub) {
		return fmt.Errorf("%w: inequality matrix is %dx%d with %d rhs, want %d columns", ErrShape, r, cols, len(p.Bub), n)
	}
	if len(p.Bounds) != n {
		return fmt.Errorf("%w: %d bounds for %d variables", ErrShape, len(p.Bounds), n)
	}
	for i, bd := range p.Bounds {
		if bd.Lower > bd.Upper {
			return fmt.Errorf("%w: bound %d is empty", ErrInfeasible, i)
		}
	}
	return nil
}

// verify checks x against every constraint with a tolerance relative to the
// magnitude of the right-hand side.
func (p Problem) verify(x []float64, tol float64) error {
	xv := mat.NewVecDense(len(x), x)
	var eq mat.VecDense
	eq.MulVec(p.Aeq, xv)
	for i, rhs := range p.Beq {
		if math.Abs(eq.AtVec(i)-rhs) > tol*math.Max(1, math.Abs(rhs)) {
			return fmt.Errorf("equality row %d: %v != %v", i, eq.AtVec(i), rhs)
		}
	}
	var ub mat.VecDense
	ub.MulVec(p.Aub, xv)
	for i, rhs := range p.Bub {
		if ub.AtVec(i)-rhs > tol*math.Max(1, math.Abs(rhs)) {
			return fmt.Errorf("inequality row %d: %v > %v", i, ub.AtVec(i), rhs)
		}
	}
	for i, bd := range p.Bounds {
		slack := tol * math.Max(1, math.Abs(bd.Upper))
		if x[i] < bd.Lower-slack || x[i] > bd.Upper+slack {
			return fmt.Errorf("variable %d: %v outside [%v,%v]", i, x[i], bd.Lower, bd.Upper)
		}
	}
	return nil
}
