package mip

import (
	"fmt"

	"git.solver4all.com/azaryc2s/plfmip"
	"git.solver4all.com/azaryc2s/plfmip/pwl"
)

// EncodePLF adds the auxiliary variables and constraints representing the
// piecewise-linear function bps evaluated at column x, under the given
// segment-selection encoding. It returns the column of a continuous
// variable constrained to equal the interpolated function value for every
// feasible assignment of x. The caller owns the objective coefficient of
// that column.
//
// All methods describe the same feasible set projected onto (x, value);
// they differ only in how "at most two adjacent breakpoint weights are
// nonzero" is written with binary or integer variables.
func EncodePLF(m *Model, x int, bps pwl.Breakpoints, method plfmip.Method) (int, error) {
	if err := bps.Validate(); err != nil {
		return 0, err
	}
	switch method {
	case plfmip.MethodLogarithmic, plfmip.MethodDisaggLogarithmic,
		plfmip.MethodZigZag, plfmip.MethodZigZagInteger,
		plfmip.MethodMultipleChoice:
	default:
		return 0, fmt.Errorf("%w: %q", plfmip.ErrUnsupportedMethod, method)
	}

	// A single segment needs no selection at all: the bare convex
	// combination of the two endpoints is the whole function. Every
	// method degenerates to the same model here.
	if bps.Segments() == 1 {
		z, _ := addWeightSkeleton(m, x, bps)
		return z, nil
	}

	switch method {
	case plfmip.MethodDisaggLogarithmic:
		return encodeDisaggregated(m, x, bps), nil
	case plfmip.MethodMultipleChoice:
		return encodeMultipleChoice(m, x, bps), nil
	default:
		return encodeWithCodes(m, x, bps, method), nil
	}
}

// addWeightSkeleton adds the breakpoint weights lambda_0..lambda_K with
//
//	sum lambda = 1, sum lambda*d = x, sum lambda*f = value
//
// and returns the value column plus the weight columns.
func addWeightSkeleton(m *Model, x int, bps pwl.Breakpoints) (int, []int) {
	z := m.AddVar(0, minOf(bps.Y), maxOf(bps.Y), Continuous, fmt.Sprintf("F_%d", x))
	lam := make([]int, len(bps.X))
	for v := range lam {
		lam[v] = m.AddVar(0, 0, 1, Continuous, fmt.Sprintf("Lam_%d_%d", x, v))
	}

	ones := make([]float64, len(lam))
	for i := range ones {
		ones[i] = 1
	}
	m.AddConstr(lam, ones, Equal, 1, fmt.Sprintf("conv_%d", x))

	cols := append(append([]int{}, lam...), x)
	coefs := append(append([]float64{}, bps.X...), -1)
	m.AddConstr(cols, coefs, Equal, 0, fmt.Sprintf("dom_%d", x))

	cols = append(append([]int{}, lam...), z)
	coefs = append(append([]float64{}, bps.Y...), -1)
	m.AddConstr(cols, coefs, Equal, 0, fmt.Sprintf("val_%d", x))

	return z, lam
}

// encodeWithCodes is the shared Logarithmic / ZigZag / ZigZagInteger
// formulation: a code table assigns every segment a code, and for every
// branching direction b the weighted selection value dot(b, y) is pinned
// between the smallest and largest code products of the segments incident
// to each positively weighted breakpoint. Only breakpoints of one segment
// (or two segments with equal product) can then carry weight together.
func encodeWithCodes(m *Model, x int, bps pwl.Breakpoints, method plfmip.Method) int {
	z, lam := addWeightSkeleton(m, x, bps)
	K := bps.Segments()
	r := pwl.BitWidth(K)

	var codes, dirs [][]int
	y := make([]int, r)
	switch method {
	case plfmip.MethodLogarithmic:
		codes, dirs = pwl.GrayCodes(r), pwl.UnitDirections(r)
		for j := range y {
			y[j] = m.AddVar(0, 0, 1, Binary, fmt.Sprintf("Z_%d_%d", x, j))
		}
	case plfmip.MethodZigZag:
		codes, dirs = pwl.ZigZagCodes(r), pwl.ZigZagDirections(r)
		for j := range y {
			y[j] = m.AddVar(0, 0, 1, Binary, fmt.Sprintf("Z_%d_%d", x, j))
		}
	case plfmip.MethodZigZagInteger:
		codes, dirs = pwl.IntegerZigZagCodes(r), pwl.UnitDirections(r)
		for j := range y {
			ub := float64(int(1) << uint(r-1-j))
			y[j] = m.AddVar(0, 0, ub, Integer, fmt.Sprintf("Z_%d_%d", x, j))
		}
	}
	codes = codes[:K]

	for j, b := range dirs {
		// Code product of each segment along this direction.
		dots := make([]float64, K)
		for t, c := range codes {
			d := 0
			for l, bl := range b {
				d += bl * c[l]
			}
			dots[t] = float64(d)
		}

		loCoefs := make([]float64, 0, len(lam)+r)
		hiCoefs := make([]float64, 0, len(lam)+r)
		cols := make([]int, 0, len(lam)+r)
		for v := range lam {
			lo, hi := v-1, v
			if lo < 0 {
				lo = 0
			}
			if hi > K-1 {
				hi = K - 1
			}
			mn, mx := dots[lo], dots[hi]
			if mn > mx {
				mn, mx = mx, mn
			}
			cols = append(cols, lam[v])
			loCoefs = append(loCoefs, mn)
			hiCoefs = append(hiCoefs, mx)
		}
		for l, bl := range b {
			if bl == 0 {
				continue
			}
			cols = append(cols, y[l])
			loCoefs = append(loCoefs, -float64(bl))
			hiCoefs = append(hiCoefs, -float64(bl))
		}
		m.AddConstr(cols, loCoefs, LessEqual, 0, fmt.Sprintf("sel_lo_%d_%d", x, j))
		m.AddConstr(append([]int{}, cols...), hiCoefs, GreaterEqual, 0, fmt.Sprintf("sel_hi_%d_%d", x, j))
	}
	return z
}

// encodeDisaggregated gives every segment its own endpoint weight pair
// instead of sharing breakpoint weights, which turns the selection rows
// into plain equalities against the Gray-code bits.
func encodeDisaggregated(m *Model, x int, bps pwl.Breakpoints) int {
	K := bps.Segments()
	z := m.AddVar(0, minOf(bps.Y), maxOf(bps.Y), Continuous, fmt.Sprintf("F_%d", x))

	gamL := make([]int, K)
	gamR := make([]int, K)
	for t := 0; t < K; t++ {
		gamL[t] = m.AddVar(0, 0, 1, Continuous, fmt.Sprintf("GamL_%d_%d", x, t))
		gamR[t] = m.AddVar(0, 0, 1, Continuous, fmt.Sprintf("GamR_%d_%d", x, t))
	}

	cols := make([]int, 0, 2*K+1)
	coefs := make([]float64, 0, 2*K+1)
	for t := 0; t < K; t++ {
		cols = append(cols, gamL[t], gamR[t])
		coefs = append(coefs, 1, 1)
	}
	m.AddConstr(append([]int{}, cols...), append([]float64{}, coefs...), Equal, 1, fmt.Sprintf("conv_%d", x))

	coefs = coefs[:0]
	for t := 0; t < K; t++ {
		coefs = append(coefs, bps.X[t], bps.X[t+1])
	}
	m.AddConstr(append(append([]int{}, cols...), x), append(append([]float64{}, coefs...), -1), Equal, 0, fmt.Sprintf("dom_%d", x))

	coefs = coefs[:0]
	for t := 0; t < K; t++ {
		coefs = append(coefs, bps.Y[t], bps.Y[t+1])
	}
	m.AddConstr(append(append([]int{}, cols...), z), append(append([]float64{}, coefs...), -1), Equal, 0, fmt.Sprintf("val_%d", x))

	r := pwl.BitWidth(K)
	codes := pwl.GrayCodes(r)[:K]
	for j := 0; j < r; j++ {
		bitCols := make([]int, 0, 2*K+1)
		bitCoefs := make([]float64, 0, 2*K+1)
		for t := 0; t < K; t++ {
			if codes[t][j] == 0 {
				continue
			}
			bitCols = append(bitCols, gamL[t], gamR[t])
			bitCoefs = append(bitCoefs, 1, 1)
		}
		yj := m.AddVar(0, 0, 1, Binary, fmt.Sprintf("Z_%d_%d", x, j))
		bitCols = append(bitCols, yj)
		bitCoefs = append(bitCoefs, -1)
		m.AddConstr(bitCols, bitCoefs, Equal, 0, fmt.Sprintf("bit_%d_%d", x, j))
	}
	return z
}

// encodeMultipleChoice is the classical disjunctive encoding: one binary
// and one domain copy per segment.
func encodeMultipleChoice(m *Model, x int, bps pwl.Breakpoints) int {
	K := bps.Segments()
	z := m.AddVar(0, minOf(bps.Y), maxOf(bps.Y), Continuous, fmt.Sprintf("F_%d", x))

	xh := make([]int, K)
	u := make([]int, K)
	for t := 0; t < K; t++ {
		lb, ub := bps.X[t], bps.X[t+1]
		if lb > 0 {
			lb = 0
		}
		if ub < 0 {
			ub = 0
		}
		xh[t] = m.AddVar(0, lb, ub, Continuous, fmt.Sprintf("Xh_%d_%d", x, t))
		u[t] = m.AddVar(0, 0, 1, Binary, fmt.Sprintf("U_%d_%d", x, t))

		// u_t = 0 pinches the copy to zero, u_t = 1 confines it to the
		// segment.
		m.AddConstr([]int{xh[t], u[t]}, []float64{1, -bps.X[t]}, GreaterEqual, 0, fmt.Sprintf("mc_lb_%d_%d", x, t))
		m.AddConstr([]int{xh[t], u[t]}, []float64{1, -bps.X[t+1]}, LessEqual, 0, fmt.Sprintf("mc_ub_%d_%d", x, t))
	}

	ones := make([]float64, K)
	for i := range ones {
		ones[i] = 1
	}
	m.AddConstr(append([]int{}, u...), ones, Equal, 1, fmt.Sprintf("mc_one_%d", x))
	m.AddConstr(append(append([]int{}, xh...), x), append(append([]float64{}, ones...), -1), Equal, 0, fmt.Sprintf("dom_%d", x))

	cols := make([]int, 0, 2*K+1)
	coefs := make([]float64, 0, 2*K+1)
	for t := 0; t < K; t++ {
		slope := bps.Slope(t)
		cols = append(cols, xh[t], u[t])
		coefs = append(coefs, slope, bps.Y[t]-slope*bps.X[t])
	}
	cols = append(cols, z)
	coefs = append(coefs, -1)
	m.AddConstr(cols, coefs, Equal, 0, fmt.Sprintf("val_%d", x))
	return z
}

func minOf(vals []float64) float64 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(vals []float64) float64 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
