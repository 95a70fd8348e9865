package plfmip

// Kind names the feasible-region shape of a problem instance.
type Kind string

const (
	Knapsack        Kind = "knapsack"
	ConcaveKnapsack Kind = "concave-knapsack"
	NetworkFlow     Kind = "network flow"
)

// Method tags one of the PLF segment-selection encodings. The set is
// closed; the encoder switches over it exhaustively and rejects anything
// else with ErrUnsupportedMethod.
type Method string

const (
	// MethodSBB is the external spatial-branch-and-bound baseline. Its
	// solve time is read verbatim from the input tables; it cannot be
	// encoded into a MIP model.
	MethodSBB Method = "sBB"

	MethodLogarithmic       Method = "Logarithmic"
	MethodDisaggLogarithmic Method = "DisaggLogarithmic"
	MethodZigZag            Method = "ZigZag"
	MethodZigZagInteger     Method = "ZigZagInteger"
	MethodMultipleChoice    Method = "MultipleChoice"
)

// DefaultMethods is the fixed sweep order of the benchmark. The sBB column
// is always recorded first from the baseline time, so it is not listed.
var DefaultMethods = []Method{
	MethodLogarithmic,
	MethodDisaggLogarithmic,
	MethodZigZag,
	MethodZigZagInteger,
}

// ParseMethod maps a method name to its tag.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodSBB, MethodLogarithmic, MethodDisaggLogarithmic,
		MethodZigZag, MethodZigZagInteger, MethodMultipleChoice:
		return Method(s), nil
	}
	return "", wrapErrorf(ErrUnsupportedMethod, "%q", s)
}

// BaselineTimes holds the sBB solve time of an instance together with its
// internal operation-time breakdown.
type BaselineTimes struct {
	Total    float64 `json:"total"`
	Solver   float64 `json:"solver"`
	LP       float64 `json:"lp"`
	Envelope float64 `json:"envelope"`
	PLF      float64 `json:"plf"`
}

// Ratios returns the four component times divided by the total baseline
// time, in table column order (solver, lp, envelope, plf).
func (b BaselineTimes) Ratios() [4]float64 {
	if b.Total == 0 {
		return [4]float64{}
	}
	return [4]float64{
		b.Solver / b.Total,
		b.LP / b.Total,
		b.Envelope / b.Total,
		b.PLF / b.Total,
	}
}

// Instance is one problem of a batch: its feasible-region kind, dimension,
// PLF resolution, right-hand side, per-variable breakpoints and the
// precomputed baseline times. Instances are immutable after parsing.
type Instance struct {
	Kind     Kind
	N        int
	K        int
	Baseline BaselineTimes
	RHS      []float64

	// X and Y hold the breakpoints of the n piecewise-linear functions,
	// one row per decision variable, K+1 values per row.
	X [][]float64
	Y [][]float64
}

// SysInfo saves the basic system information
type SysInfo struct {
	Platform string
	CPU      string
	RAM      string
}

// RunInfo is the JSON summary written next to the timing tables.
type RunInfo struct {
	Solver    string      `json:"solver"`
	TimeLimit float64     `json:"timelimit"`
	Gap       float64     `json:"gap"`
	K         []int       `json:"k"`
	Methods   []Method    `json:"methods"`
	Instances map[int]int `json:"instances"`

	Time    string  `json:"time"`
	System  SysInfo `json:"system"`
	Comment string  `json:"comment"`
}
