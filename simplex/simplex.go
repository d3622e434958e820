// Package simplex implements the tableau form of the primal simplex method.
//
// An Engine owns one tableau and its basis for the lifetime of a solve. The
// tableau has one row per constraint followed by the objective row, and one
// column per variable followed by the right-hand side. The objective row is
// seeded with the negated maximisation coefficients, so its right-hand side
// reads directly as the current objective value.
//
// Engine primitives (PivotColumn, PivotRow, Pivot, Solution) do no I/O and
// keep no state besides the tableau and the basis; Solve drives them and
// reports progress to an optional Observer.
package simplex

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"q.log/tableau/model"
)

var (
	ErrUnbounded      = errors.New("simplex: problem is unbounded")
	ErrIterationLimit = errors.New("simplex: iteration limit exceeded")
	ErrInvalidPivot   = errors.New("simplex: invalid pivot position")
)

// None is returned by the selection rules when no column or row qualifies.
const None = -1

type Engine struct {
	table *mat.Dense
	basis []int
	names []string

	// rows and cols count constraints and variables, excluding the
	// objective row and the rhs column.
	rows int
	cols int

	cfg config
}

// New validates m and builds an engine over a fresh copy of its tableau.
func New(m *model.Model, opts ...Option) (*Engine, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	cfg := newConfig(opts)
	if cfg.maxIter < 0 || cfg.tol < 0 || math.IsNaN(cfg.tol) {
		return nil, fmt.Errorf("%w: negative iteration limit or tolerance", model.ErrInvalidInput)
	}
	return &Engine{
		table: m.Tableau(),
		basis: append([]int(nil), m.Basis...),
		names: m.Names(),
		rows:  m.NumRows,
		cols:  m.NumCols,
		cfg:   cfg,
	}, nil
}

// EnteringColumn returns the index of the most negative coefficient of row,
// ignoring its last entry (the rhs). Only values below -tol qualify and the
// leftmost one wins ties. It returns None when the row has no such value.
func EnteringColumn(row []float64, tol float64) int {
	col := None
	minVal := -tol
	for j := 0; j < len(row)-1; j++ {
		if row[j] < minVal {
			minVal = row[j]
			col = j
		}
	}
	return col
}

// LeavingRow performs the minimum-ratio test on column col of t, whose last
// row is the objective row and last column the rhs. A row qualifies when its
// entry and its rhs have the same sign; the topmost of equal ratios wins.
// It returns None when no row qualifies.
func LeavingRow(t mat.Matrix, col int, tol float64) int {
	rows, cols := t.Dims()
	row := None
	minRatio := math.Inf(1)
	for i := 0; i < rows-1; i++ {
		a, rhs := t.At(i, col), t.At(i, cols-1)
		if !eligible(a, rhs, tol) {
			continue
		}
		if ratio := rhs / a; ratio < minRatio {
			minRatio = ratio
			row = i
		}
	}
	return row
}

// eligible reports whether a row with pivot-column entry a and right-hand
// side rhs may leave the basis. A zero rhs counts as positive so degenerate
// rows keep their basic variable non-negative.
func eligible(a, rhs, tol float64) bool {
	switch {
	case a > tol:
		return rhs >= -tol
	case a < -tol:
		return rhs < -tol
	default:
		return false
	}
}

// PivotColumn selects the entering column from the objective row. ok is
// false when the current basic solution is optimal.
func (e *Engine) PivotColumn() (col int, ok bool) {
	col = EnteringColumn(e.table.RawRowView(e.rows), e.cfg.tol)
	return col, col != None
}

// PivotRow selects the leaving row for column col. ok is false when the
// objective is unbounded along col.
func (e *Engine) PivotRow(col int) (row int, ok bool) {
	if col < 0 || col >= e.cols {
		return None, false
	}
	row = LeavingRow(e.table, col, e.cfg.tol)
	return row, row != None
}

// Pivot makes column col a unit column with its 1 at row and records col as
// the basic variable of row.
func (e *Engine) Pivot(row, col int) error {
	if row < 0 || row >= e.rows || col < 0 || col >= e.cols {
		return fmt.Errorf("%w: row %d, column %d outside %dx%d", ErrInvalidPivot, row, col, e.rows, e.cols)
	}
	pivotRow := e.table.RawRowView(row)
	p := pivotRow[col]
	if p == 0 || math.IsNaN(p) {
		return fmt.Errorf("%w: element at row %d, column %d is %v", ErrInvalidPivot, row, col, p)
	}

	for j := range pivotRow {
		pivotRow[j] /= p
	}
	pivotRow[col] = 1

	for i := 0; i <= e.rows; i++ {
		if i == row {
			continue
		}
		r := e.table.RawRowView(i)
		factor := r[col]
		if factor == 0 {
			continue
		}
		floats.AddScaled(r, -factor, pivotRow)
		r[col] = 0
	}

	e.basis[row] = col
	return nil
}

// Solution returns the value of every variable under the current basis.
func (e *Engine) Solution() []float64 {
	return solution(e.table, e.basis, e.cols)
}

// Objective returns the current objective value.
func (e *Engine) Objective() float64 {
	return e.table.At(e.rows, e.cols)
}

// Basis returns a copy of the current basis.
func (e *Engine) Basis() []int {
	return append([]int(nil), e.basis...)
}

// Names returns the variable names in column order.
func (e *Engine) Names() []string {
	return append([]string(nil), e.names...)
}

// Dims returns the number of constraints and variables.
func (e *Engine) Dims() (rows, cols int) {
	return e.rows, e.cols
}

// Snapshot returns a deep copy of the engine state.
func (e *Engine) Snapshot(iteration int) *Snapshot {
	return &Snapshot{
		Iteration: iteration,
		Tableau:   mat.DenseCopyOf(e.table),
		Basis:     e.Basis(),
		Names:     e.Names(),
	}
}

func solution(t mat.Matrix, basis []int, cols int) []float64 {
	x := make([]float64, cols)
	for r, c := range basis {
		x[c] = t.At(r, cols)
	}
	return x
}
