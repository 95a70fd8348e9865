// Package pwl holds univariate piecewise-linear functions given by their
// breakpoints, plus the combinatorial code tables the MIP encodings are
// built from.
package pwl

import (
	"sort"

	"git.solver4all.com/azaryc2s/plfmip"
)

// Breakpoints defines a piecewise-linear function by its knots. X must be
// strictly increasing and hold at least 2 values.
type Breakpoints struct {
	X []float64
	Y []float64
}

// New validates the knot sequences and returns the breakpoint set.
func New(x, y []float64) (Breakpoints, error) {
	b := Breakpoints{X: x, Y: y}
	if err := b.Validate(); err != nil {
		return Breakpoints{}, err
	}
	return b, nil
}

func (b Breakpoints) Validate() error {
	if len(b.X) < 2 {
		return plfmip.ErrInvalidBreakpoints
	}
	if len(b.Y) != len(b.X) {
		return plfmip.ErrInvalidBreakpoints
	}
	for i := 1; i < len(b.X); i++ {
		if b.X[i] <= b.X[i-1] {
			return plfmip.ErrInvalidBreakpoints
		}
	}
	return nil
}

// Segments returns the number of linear pieces.
func (b Breakpoints) Segments() int {
	return len(b.X) - 1
}

// Slope returns the slope of segment t (0-based).
func (b Breakpoints) Slope(t int) float64 {
	return (b.Y[t+1] - b.Y[t]) / (b.X[t+1] - b.X[t])
}

// Eval interpolates the function value at x, clamping to the domain.
func (b Breakpoints) Eval(x float64) float64 {
	if x <= b.X[0] {
		return b.Y[0]
	}
	last := len(b.X) - 1
	if x >= b.X[last] {
		return b.Y[last]
	}
	// First knot strictly right of x; its segment brackets x.
	t := sort.SearchFloat64s(b.X, x)
	if b.X[t] == x {
		return b.Y[t]
	}
	return b.Y[t-1] + b.Slope(t-1)*(x-b.X[t-1])
}
