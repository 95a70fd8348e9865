package mip

import (
	"fmt"

	"git.solver4all.com/azaryc2s/plfmip"
	"git.solver4all.com/azaryc2s/plfmip/pwl"
)

// BuildInstanceModel turns a problem instance into a minimization MIP
// under the given encoding: one bounded domain variable per PLF, the
// encoded function values summed as the objective, and the knapsack or
// flow-balance feasible region. The model is purely in-memory; nothing is
// handed to a solver here.
func BuildInstanceModel(inst *plfmip.Instance, method plfmip.Method) (*Model, error) {
	m := NewModel()
	n := inst.N

	bps := make([]pwl.Breakpoints, n)
	xCols := make([]int, n)
	for i := 0; i < n; i++ {
		b, err := pwl.New(inst.X[i], inst.Y[i])
		if err != nil {
			return nil, fmt.Errorf("variable %d: %w", i, err)
		}
		bps[i] = b
		xCols[i] = m.AddVar(0, b.X[0], b.X[len(b.X)-1], Continuous, fmt.Sprintf("X_%d", i))
	}

	valueCols := make([]int, n)
	for i := 0; i < n; i++ {
		z, err := EncodePLF(m, xCols[i], bps[i], method)
		if err != nil {
			return nil, fmt.Errorf("variable %d: %w", i, err)
		}
		m.Obj[z] = 1
		valueCols[i] = z
	}

	switch inst.Kind {
	case plfmip.Knapsack, plfmip.ConcaveKnapsack:
		ones := make([]float64, n)
		for i := range ones {
			ones[i] = 1
		}
		m.AddConstr(append([]int{}, xCols...), ones, Equal, inst.RHS[0], "budget")

	case plfmip.NetworkFlow:
		nr, square := plfmip.IntSqrt(n)
		if !square {
			return nil, fmt.Errorf("%w: network flow needs a square dimension, got n=%d", plfmip.ErrInvalidDimension, n)
		}
		if len(inst.RHS) != nr {
			return nil, fmt.Errorf("%w: network flow with n=%d wants %d right-hand-side values, got %d", plfmip.ErrInvalidDimension, n, nr, len(inst.RHS))
		}
		// Variables form a nr×nr matrix: entry (i,j) is the flow from
		// node i to node j. Outgoing row sum minus incoming column sum
		// must match the node balance. The diagonal entry cancels out.
		for i := 0; i < nr; i++ {
			coef := make([]float64, n)
			for j := i * nr; j < (i+1)*nr; j++ {
				coef[j] += 1
			}
			for j := 0; j < nr; j++ {
				coef[nr*j+i] -= 1
			}
			var cols []int
			var vals []float64
			for j, c := range coef {
				if c != 0 {
					cols = append(cols, xCols[j])
					vals = append(vals, c)
				}
			}
			m.AddConstr(cols, vals, Equal, inst.RHS[i], fmt.Sprintf("balance_%d", i))
		}

	default:
		return nil, fmt.Errorf("%w: unknown problem kind %q", plfmip.ErrInvalidDimension, inst.Kind)
	}

	m.XCols = xCols
	m.ValueCols = valueCols
	return m, nil
}
