// Package mip builds mixed-integer models of PLF benchmark instances and
// solves them through interchangeable solver backends.
package mip

// VarType specifies the integrality of a column.
type VarType int8

const (
	Continuous VarType = iota
	Binary
	Integer
)

// Sense is the relation of a linear constraint to its right-hand side.
type Sense int8

const (
	Equal        Sense = '='
	LessEqual    Sense = '<'
	GreaterEqual Sense = '>'
)

// Row is one sparse linear constraint.
type Row struct {
	Cols  []int
	Coefs []float64
	Sense Sense
	RHS   float64
	Name  string
}

// Model is a solver-neutral minimization MIP: column costs, bounds and
// types plus sparse sense rows. Backends translate it into their native
// form; nothing here touches a solver.
type Model struct {
	Obj   []float64
	Lb    []float64
	Ub    []float64
	Types []VarType
	Names []string
	Rows  []Row

	// XCols and ValueCols record the domain-variable and function-value
	// columns of an instance model, in variable order, so callers can read
	// them back out of a solution vector.
	XCols     []int
	ValueCols []int
}

func NewModel() *Model {
	return &Model{}
}

// AddVar appends a column and returns its index.
func (m *Model) AddVar(obj, lb, ub float64, t VarType, name string) int {
	m.Obj = append(m.Obj, obj)
	m.Lb = append(m.Lb, lb)
	m.Ub = append(m.Ub, ub)
	m.Types = append(m.Types, t)
	m.Names = append(m.Names, name)
	return len(m.Obj) - 1
}

// AddConstr appends a sparse constraint row.
func (m *Model) AddConstr(cols []int, coefs []float64, sense Sense, rhs float64, name string) {
	m.Rows = append(m.Rows, Row{Cols: cols, Coefs: coefs, Sense: sense, RHS: rhs, Name: name})
}

// NumVars returns the number of columns.
func (m *Model) NumVars() int {
	return len(m.Obj)
}

// NumIntVars returns the number of binary and general-integer columns.
func (m *Model) NumIntVars() int {
	n := 0
	for _, t := range m.Types {
		if t != Continuous {
			n++
		}
	}
	return n
}
