package mip

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"git.solver4all.com/azaryc2s/plfmip"
)

// identity breakpoints 0..k for every variable.
func identityInstance(kind plfmip.Kind, n, k int, rhs []float64) *plfmip.Instance {
	grid := make([]float64, k+1)
	for i := range grid {
		grid[i] = float64(i)
	}
	x := make([][]float64, n)
	y := make([][]float64, n)
	for i := 0; i < n; i++ {
		x[i] = grid
		y[i] = grid
	}
	return &plfmip.Instance{Kind: kind, N: n, K: k, RHS: rhs, X: x, Y: y}
}

func TestKnapsackModelValue(t *testing.T) {
	b, err := NewHighsBackend()
	require.NoError(t, err)
	defer b.Close()

	// With identity costs the objective equals the budget, whatever the
	// split between the two variables.
	inst := identityInstance(plfmip.Knapsack, 2, 5, []float64{5})
	for _, mth := range encodableMethods {
		m, err := BuildInstanceModel(inst, mth)
		require.NoError(t, err)
		require.Len(t, m.XCols, 2)
		require.Len(t, m.ValueCols, 2)

		res, err := b.Solve(m, 60, DefaultGap)
		require.NoError(t, err)
		require.True(t, res.Feasible, "%s", mth)
		require.InDelta(t, 5.0, res.Value, 1e-4, "%s", mth)
	}
}

func TestConcaveKnapsackUsesScalarRHS(t *testing.T) {
	inst := identityInstance(plfmip.ConcaveKnapsack, 3, 2, []float64{4})
	m, err := BuildInstanceModel(inst, plfmip.MethodLogarithmic)
	require.NoError(t, err)

	var budget *Row
	for i := range m.Rows {
		if m.Rows[i].Name == "budget" {
			budget = &m.Rows[i]
		}
	}
	require.NotNil(t, budget)
	require.Equal(t, Equal, budget.Sense)
	require.Equal(t, 4.0, budget.RHS)
	require.Len(t, budget.Cols, 3)
}

func TestNetworkFlowBalance(t *testing.T) {
	b, err := NewHighsBackend()
	require.NoError(t, err)
	defer b.Close()

	// 2x2 arc matrix; the two balance rows are x1-x2 = 1 and x2-x1 = -1.
	inst := identityInstance(plfmip.NetworkFlow, 4, 2, []float64{1, -1})
	m, err := BuildInstanceModel(inst, plfmip.MethodZigZag)
	require.NoError(t, err)

	res, err := b.Solve(m, 60, DefaultGap)
	require.NoError(t, err)
	require.True(t, res.Feasible)

	x := make([]float64, 4)
	for i, c := range m.XCols {
		x[i] = res.X[c]
	}
	require.InDelta(t, 1.0, (x[0]+x[1])-(x[0]+x[2]), 1e-6)
	require.InDelta(t, -1.0, (x[2]+x[3])-(x[1]+x[3]), 1e-6)

	sum := 0.0
	for _, v := range x {
		sum += v
	}
	require.InDelta(t, sum, res.Value, 1e-4)
}

func TestNetworkFlowDiagonalCancels(t *testing.T) {
	inst := identityInstance(plfmip.NetworkFlow, 4, 2, []float64{1, -1})
	m, err := BuildInstanceModel(inst, plfmip.MethodLogarithmic)
	require.NoError(t, err)

	for _, row := range m.Rows {
		if row.Name != "balance_0" && row.Name != "balance_1" {
			continue
		}
		require.Len(t, row.Cols, 2, "self-loop arcs must drop out of %s", row.Name)
		for _, c := range row.Coefs {
			require.NotZero(t, c)
		}
	}
}

func TestBuildRejections(t *testing.T) {
	_, err := BuildInstanceModel(identityInstance(plfmip.NetworkFlow, 3, 2, []float64{1}), plfmip.MethodLogarithmic)
	require.ErrorIs(t, err, plfmip.ErrInvalidDimension)

	_, err = BuildInstanceModel(identityInstance(plfmip.NetworkFlow, 4, 2, []float64{1}), plfmip.MethodLogarithmic)
	require.ErrorIs(t, err, plfmip.ErrInvalidDimension)

	_, err = BuildInstanceModel(identityInstance(plfmip.Kind("transport"), 2, 2, []float64{1}), plfmip.MethodLogarithmic)
	require.ErrorIs(t, err, plfmip.ErrInvalidDimension)

	bad := identityInstance(plfmip.Knapsack, 2, 2, []float64{1})
	bad.X[0] = []float64{0, 0, 0}
	_, err = BuildInstanceModel(bad, plfmip.MethodLogarithmic)
	require.ErrorIs(t, err, plfmip.ErrInvalidBreakpoints)

	_, err = BuildInstanceModel(identityInstance(plfmip.Knapsack, 2, 2, []float64{1}), plfmip.MethodSBB)
	require.ErrorIs(t, err, plfmip.ErrUnsupportedMethod)
}

func TestDomainBounds(t *testing.T) {
	inst := identityInstance(plfmip.Knapsack, 2, 3, []float64{2})
	m, err := BuildInstanceModel(inst, plfmip.MethodDisaggLogarithmic)
	require.NoError(t, err)
	for _, c := range m.XCols {
		require.Equal(t, 0.0, m.Lb[c])
		require.Equal(t, 3.0, m.Ub[c])
		require.False(t, math.IsInf(m.Ub[c], 1))
	}
}
