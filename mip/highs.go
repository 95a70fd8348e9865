package mip

import (
	"math"
	"time"

	"github.com/bartolsthoorn/gohighs/highs"
)

// kHighsSolutionStatusFeasible in the HiGHS C API.
const highsPrimalFeasible = 2

// HighsBackend solves models with the embedded HiGHS library. One
// low-level solver handle is created up front and reused for every model;
// Clear resets the model between solves without tearing the instance down.
type HighsBackend struct {
	s *highs.Solver
}

func NewHighsBackend() (*HighsBackend, error) {
	s, err := highs.NewSolver()
	if err != nil {
		return nil, err
	}
	return &HighsBackend{s: s}, nil
}

func (b *HighsBackend) Name() string { return "highs" }

func (b *HighsBackend) Close() { b.s.Close() }

func (b *HighsBackend) Solve(m *Model, timeLimit, gap float64) (SolveResult, error) {
	start := time.Now()
	if err := b.s.Clear(); err != nil {
		return SolveResult{}, err
	}
	if err := b.s.SetBoolOption("output_flag", false); err != nil {
		return SolveResult{}, err
	}
	if timeLimit < 0 {
		timeLimit = 0
	}
	if err := b.s.SetFloatOption("time_limit", timeLimit); err != nil {
		return SolveResult{}, err
	}
	if err := b.s.SetFloatOption("mip_rel_gap", gap); err != nil {
		return SolveResult{}, err
	}

	numCol := m.NumVars()
	numRow := len(m.Rows)
	rowLower := make([]float64, numRow)
	rowUpper := make([]float64, numRow)
	aStart := make([]int, numRow)
	var aIndex []int
	var aValue []float64
	for i, row := range m.Rows {
		aStart[i] = len(aIndex)
		for j, c := range row.Cols {
			if row.Coefs[j] == 0 {
				continue
			}
			aIndex = append(aIndex, c)
			aValue = append(aValue, row.Coefs[j])
		}
		switch row.Sense {
		case Equal:
			rowLower[i], rowUpper[i] = row.RHS, row.RHS
		case LessEqual:
			rowLower[i], rowUpper[i] = math.Inf(-1), row.RHS
		case GreaterEqual:
			rowLower[i], rowUpper[i] = row.RHS, math.Inf(1)
		}
	}

	var types []highs.VariableType
	if m.NumIntVars() > 0 {
		types = make([]highs.VariableType, numCol)
		for i, t := range m.Types {
			if t != Continuous {
				types[i] = highs.Integer
			}
		}
	}

	if err := b.s.PassModel(numCol, numRow,
		m.Obj, m.Lb, m.Ub,
		rowLower, rowUpper,
		aStart, aIndex, aValue,
		types, false, 0); err != nil {
		return SolveResult{}, err
	}

	sol, err := b.s.Run()
	elapsed := time.Since(start)
	if err != nil {
		// Solver-internal faults never cross this boundary.
		return degraded(math.Inf(-1), numCol, false, elapsed), nil
	}
	timedOut := sol.Status == highs.ModelStatusTimeLimit

	bound := math.Inf(-1)
	if m.NumIntVars() > 0 {
		if bd, infoErr := b.s.GetFloatInfo("mip_dual_bound"); infoErr == nil {
			bound = bd
		}
	} else if sol.Status == highs.ModelStatusOptimal {
		// LPs carry no MIP dual bound; the optimum is its own bound.
		bound = sol.Objective
	}

	feasible := sol.Status == highs.ModelStatusOptimal
	if !feasible {
		if ps, infoErr := b.s.GetIntInfo("primal_solution_status"); infoErr == nil && ps == highsPrimalFeasible {
			feasible = true
		}
	}
	if !feasible {
		if sol.Status == highs.ModelStatusInfeasible {
			bound = math.Inf(1)
		}
		return degraded(bound, numCol, timedOut, elapsed), nil
	}

	return SolveResult{
		Bound:    bound,
		Value:    sol.Objective,
		X:        sol.ColValues,
		Feasible: true,
		TimedOut: timedOut,
		Elapsed:  elapsed,
	}, nil
}
