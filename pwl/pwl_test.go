package pwl

import (
	"errors"
	"math"
	"testing"

	"git.solver4all.com/azaryc2s/plfmip"
)

func TestNewValidation(t *testing.T) {
	cases := []struct {
		name string
		x, y []float64
	}{
		{"too short", []float64{1}, []float64{1}},
		{"length mismatch", []float64{0, 1, 2}, []float64{0, 1}},
		{"not increasing", []float64{0, 2, 2}, []float64{0, 1, 2}},
		{"decreasing", []float64{0, 2, 1}, []float64{0, 1, 2}},
	}
	for _, c := range cases {
		if _, err := New(c.x, c.y); !errors.Is(err, plfmip.ErrInvalidBreakpoints) {
			t.Errorf("%s: got %v, want ErrInvalidBreakpoints", c.name, err)
		}
	}
	if _, err := New([]float64{0, 1, 3}, []float64{5, 2, 4}); err != nil {
		t.Errorf("valid breakpoints rejected: %v", err)
	}
}

func TestEval(t *testing.T) {
	b, err := New([]float64{0, 1, 3, 4}, []float64{0, 2, 1, 3})
	if err != nil {
		t.Fatal(err)
	}
	cases := []struct{ x, want float64 }{
		{0, 0}, {1, 2}, {3, 1}, {4, 3},
		{0.5, 1},
		{2, 1.5},
		{3.5, 2},
		{-1, 0},
		{5, 3},
	}
	for _, c := range cases {
		if got := b.Eval(c.x); math.Abs(got-c.want) > 1e-12 {
			t.Errorf("Eval(%g) = %g, want %g", c.x, got, c.want)
		}
	}
}

func TestSegmentsAndSlope(t *testing.T) {
	b, err := New([]float64{0, 2, 3}, []float64{0, 4, 2})
	if err != nil {
		t.Fatal(err)
	}
	if b.Segments() != 2 {
		t.Fatalf("Segments() = %d, want 2", b.Segments())
	}
	if s := b.Slope(0); s != 2 {
		t.Errorf("Slope(0) = %g, want 2", s)
	}
	if s := b.Slope(1); s != -2 {
		t.Errorf("Slope(1) = %g, want -2", s)
	}
}
