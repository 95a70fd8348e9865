package mip

import (
	"fmt"
	"time"
)

// DefaultGap is the relative optimality-gap tolerance every benchmark
// solve uses.
const DefaultGap = 1e-5

// SolveResult is what comes back across the solver boundary. Feasible is
// the explicit no-incumbent sentinel: when false, the bound is still
// meaningful but Value and X are the degraded zero placeholders and must
// not be read as an optimal value of 0.
type SolveResult struct {
	Bound    float64
	Value    float64
	X        []float64
	Feasible bool
	TimedOut bool
	Elapsed  time.Duration
}

// Backend wraps one MIP solver. The handle owns the process-wide solver
// environment: it is acquired once before the warm-up solve, reused for
// every model, and released with Close at process end. Solve applies the
// gap tolerance and wall-clock limit, never re-initializes the
// environment, and never lets a solver-internal fault during value
// extraction escape; such faults come back as the degraded SolveResult.
type Backend interface {
	Name() string
	Solve(m *Model, timeLimit, gap float64) (SolveResult, error)
	Close()
}

// NewBackend opens the named solver backend.
func NewBackend(name string) (Backend, error) {
	switch name {
	case "highs":
		return NewHighsBackend()
	case "gurobi":
		return NewGurobiBackend()
	}
	return nil, fmt.Errorf("unknown solver backend %q", name)
}

// Warmup solves a trivial fixed MIP once so that solver initialization
// cost is paid before any measured solve.
func Warmup(b Backend) error {
	m := NewModel()
	x := m.AddVar(12, 0, 4, Continuous, "wx")
	y := m.AddVar(20, 0, 3, Integer, "wy")
	m.AddConstr([]int{x, y}, []float64{6, 8}, GreaterEqual, 10, "warm")
	res, err := b.Solve(m, 60, DefaultGap)
	if err != nil {
		return fmt.Errorf("warm-up solve: %w", err)
	}
	if !res.Feasible {
		return fmt.Errorf("warm-up solve found no solution")
	}
	return nil
}

// degraded is the result of a solve that produced no usable incumbent.
func degraded(bound float64, numVars int, timedOut bool, elapsed time.Duration) SolveResult {
	return SolveResult{
		Bound:    bound,
		Value:    0,
		X:        make([]float64, numVars),
		Feasible: false,
		TimedOut: timedOut,
		Elapsed:  elapsed,
	}
}
