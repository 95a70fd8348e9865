package mip

import (
	"math"
	"time"

	"git.solver4all.com/azaryc2s/gorobi/gurobi"
)

// Values at or beyond 1e100 are treated as infinite by Gurobi.
const grbInfinity = 1e100

// GurobiBackend solves models through the Gurobi environment. The
// environment is loaded once and reused; each solve builds one model in it
// and frees it again.
type GurobiBackend struct {
	env *gurobi.Env
}

func NewGurobiBackend() (*GurobiBackend, error) {
	env, err := gurobi.LoadEnv("plfmip-gurobi.log")
	if err != nil {
		return nil, err
	}
	env.SetIntParam("LogToConsole", int32(0))
	return &GurobiBackend{env: env}, nil
}

func (b *GurobiBackend) Name() string { return "gurobi" }

func (b *GurobiBackend) Close() { b.env.Free() }

func (b *GurobiBackend) Solve(m *Model, timeLimit, gap float64) (SolveResult, error) {
	start := time.Now()
	if timeLimit < 0 {
		timeLimit = 0
	}
	if err := b.env.SetDblParam("TimeLimit", timeLimit); err != nil {
		return SolveResult{}, err
	}
	if err := b.env.SetDblParam("MIPGap", gap); err != nil {
		return SolveResult{}, err
	}

	model, err := b.env.NewModel("plf", 0, nil, nil, nil, nil, nil)
	if err != nil {
		return SolveResult{}, err
	}
	defer model.Free()

	for i := 0; i < m.NumVars(); i++ {
		var vtype int8
		switch m.Types[i] {
		case Binary:
			vtype = gurobi.BINARY
		case Integer:
			vtype = gurobi.INTEGER
		default:
			vtype = gurobi.CONTINUOUS
		}
		err = model.AddVar(nil, nil, m.Obj[i], clampInf(m.Lb[i]), clampInf(m.Ub[i]), vtype, m.Names[i])
		if err != nil {
			return SolveResult{}, err
		}
	}
	if err = model.SetIntAttr(gurobi.INT_ATTR_MODELSENSE, gurobi.MINIMIZE); err != nil {
		return SolveResult{}, err
	}
	for _, row := range m.Rows {
		var sense int8
		switch row.Sense {
		case LessEqual:
			sense = gurobi.LESS_EQUAL
		case GreaterEqual:
			sense = gurobi.GREATER_EQUAL
		default:
			sense = gurobi.EQUAL
		}
		err = model.AddConstr(gurobi.Int32Slice(row.Cols), row.Coefs, sense, row.RHS, row.Name)
		if err != nil {
			return SolveResult{}, err
		}
	}

	if err = model.Optimize(); err != nil {
		return SolveResult{}, err
	}
	elapsed := time.Since(start)

	// Everything below is value extraction: faults here degrade the
	// result instead of crossing the solver boundary.
	numCol := m.NumVars()
	status, err := model.GetIntAttr(gurobi.INT_ATTR_STATUS)
	if err != nil {
		return degraded(math.Inf(-1), numCol, false, elapsed), nil
	}
	timedOut := status == gurobi.TIME_LIMIT

	bound := math.Inf(-1)
	if bd, err := model.GetDblAttr(gurobi.DBL_ATTR_OBJBOUND); err == nil {
		bound = bd
	}
	if status == gurobi.INF_OR_UNBD {
		return degraded(math.Inf(1), numCol, timedOut, elapsed), nil
	}

	objval, err := model.GetDblAttr(gurobi.DBL_ATTR_OBJVAL)
	if err != nil {
		// No incumbent (or extraction failed): keep the bound, return
		// the sentinel rather than a fake optimal 0.
		return degraded(bound, numCol, timedOut, elapsed), nil
	}
	solA, err := model.GetDblAttrArray(gurobi.DBL_ATTR_X, 0, int32(numCol))
	if err != nil {
		return degraded(bound, numCol, timedOut, elapsed), nil
	}

	return SolveResult{
		Bound:    bound,
		Value:    objval,
		X:        solA,
		Feasible: true,
		TimedOut: timedOut,
		Elapsed:  elapsed,
	}, nil
}

func clampInf(v float64) float64 {
	if math.IsInf(v, 1) {
		return grbInfinity
	}
	if math.IsInf(v, -1) {
		return -grbInfinity
	}
	return v
}
