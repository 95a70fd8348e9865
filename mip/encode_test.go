package mip

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.solver4all.com/azaryc2s/plfmip"
	"git.solver4all.com/azaryc2s/plfmip/pwl"
)

var encodableMethods = []plfmip.Method{
	plfmip.MethodLogarithmic,
	plfmip.MethodDisaggLogarithmic,
	plfmip.MethodZigZag,
	plfmip.MethodZigZagInteger,
	plfmip.MethodMultipleChoice,
}

// evalThrough encodes bps with x pinned to the given point and solves the
// model, returning the function value the encoding admits there.
func evalThrough(t *testing.T, b Backend, bps pwl.Breakpoints, method plfmip.Method, at float64) float64 {
	t.Helper()
	m := NewModel()
	x := m.AddVar(0, at, at, Continuous, "X")
	z, err := EncodePLF(m, x, bps, method)
	require.NoError(t, err)
	m.Obj[z] = 1

	res, err := b.Solve(m, 60, DefaultGap)
	require.NoError(t, err)
	require.True(t, res.Feasible, "no solution for %s at x=%g", method, at)
	return res.Value
}

func TestEncodingsMatchInterpolation(t *testing.T) {
	b, err := NewHighsBackend()
	require.NoError(t, err)
	defer b.Close()

	// Nonconvex on purpose, so a wrong segment selection would show up as
	// a value below the interpolant. The 8-segment set pushes the code
	// width to 3, where the zigzag tables stop coinciding with the Gray
	// codes.
	cases := []struct {
		name string
		x, y []float64
	}{
		{"four segments", []float64{0, 1, 2, 3, 4}, []float64{0, 2, 1, 3, 0}},
		{"eight segments",
			[]float64{0, 1, 2, 3, 4, 5, 6, 7, 8},
			[]float64{0, 3, 1, 4, 2, 5, 0, 4, 1}},
	}
	for _, c := range cases {
		bps, err := pwl.New(c.x, c.y)
		require.NoError(t, err)

		var points []float64
		for s := 0; s < bps.Segments(); s++ {
			points = append(points, bps.X[s], (bps.X[s]+bps.X[s+1])/2)
		}
		points = append(points, bps.X[len(bps.X)-1])

		for _, mth := range encodableMethods {
			mth := mth
			t.Run(c.name+"/"+string(mth), func(t *testing.T) {
				for _, at := range points {
					got := evalThrough(t, b, bps, mth, at)
					require.InDelta(t, bps.Eval(at), got, 1e-4, "x=%g", at)
				}
			})
		}
	}
}

func TestSingleSegmentDegenerates(t *testing.T) {
	bps, err := pwl.New([]float64{1, 3}, []float64{2, 6})
	require.NoError(t, err)

	var nv []int
	for _, mth := range encodableMethods {
		m := NewModel()
		x := m.AddVar(0, 1, 3, Continuous, "X")
		_, err := EncodePLF(m, x, bps, mth)
		require.NoError(t, err)
		require.Zero(t, m.NumIntVars(), "%s with one segment must stay continuous", mth)
		nv = append(nv, m.NumVars())
	}
	for _, n := range nv[1:] {
		require.Equal(t, nv[0], n, "one-segment models must coincide across methods")
	}
}

func TestSelectionVariableCounts(t *testing.T) {
	// 4 segments, so the code width is 2.
	bps, err := pwl.New(
		[]float64{0, 1, 2, 3, 4},
		[]float64{0, 1, 0, 1, 0},
	)
	require.NoError(t, err)

	counts := map[plfmip.Method]int{
		plfmip.MethodLogarithmic:       2,
		plfmip.MethodDisaggLogarithmic: 2,
		plfmip.MethodZigZag:            2,
		plfmip.MethodZigZagInteger:     2,
		plfmip.MethodMultipleChoice:    4,
	}
	for mth, want := range counts {
		m := NewModel()
		x := m.AddVar(0, 0, 4, Continuous, "X")
		_, err := EncodePLF(m, x, bps, mth)
		require.NoError(t, err)
		require.Equal(t, want, m.NumIntVars(), "%s", mth)
	}
}

func TestZigZagIntegerBounds(t *testing.T) {
	bps, err := pwl.New(
		[]float64{0, 1, 2, 3, 4, 5, 6, 7, 8},
		[]float64{0, 1, 0, 1, 0, 1, 0, 1, 0},
	)
	require.NoError(t, err)

	m := NewModel()
	x := m.AddVar(0, 0, 8, Continuous, "X")
	_, err = EncodePLF(m, x, bps, plfmip.MethodZigZagInteger)
	require.NoError(t, err)

	var ubs []float64
	for i, tp := range m.Types {
		if tp == Integer {
			ubs = append(ubs, m.Ub[i])
		}
	}
	require.Equal(t, []float64{4, 2, 1}, ubs)
}

func TestEncodeRejections(t *testing.T) {
	bps, err := pwl.New([]float64{0, 1, 2}, []float64{0, 1, 0})
	require.NoError(t, err)

	m := NewModel()
	x := m.AddVar(0, 0, 2, Continuous, "X")

	_, err = EncodePLF(m, x, bps, plfmip.MethodSBB)
	require.ErrorIs(t, err, plfmip.ErrUnsupportedMethod)
	_, err = EncodePLF(m, x, bps, plfmip.Method("Incremental"))
	require.ErrorIs(t, err, plfmip.ErrUnsupportedMethod)

	_, err = EncodePLF(m, x, pwl.Breakpoints{X: []float64{1, 1}, Y: []float64{0, 0}}, plfmip.MethodLogarithmic)
	require.ErrorIs(t, err, plfmip.ErrInvalidBreakpoints)

	require.Zero(t, len(m.Rows), "rejected encodings must not touch the model")
}
