// Package crosscheck verifies tableau results against GLPK's simplex solver.
package crosscheck

import (
	"errors"
	"fmt"
	"math"
	"runtime"

	"github.com/lukpank/go-glpk/glpk"
	"gonum.org/v1/gonum/floats"
	"q.log/tableau/model"
	"q.log/tableau/simplex"
)

var (
	ErrMismatch      = errors.New("crosscheck: result differs from GLPK")
	ErrNotOptimal    = errors.New("crosscheck: GLPK found no optimal solution")
	ErrInfeasibleSol = errors.New("crosscheck: solution violates the constraints")
)

// Outcome is GLPK's answer for a model.
type Outcome struct {
	Optimal   bool
	Unbounded bool
	Objective float64
	X         []float64
}

// Solve hands m to GLPK as
//
//	maximize Z - C x subject to A x = B, x >= 0
//
// and returns its outcome.
func Solve(m *model.Model) (*Outcome, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	lp := glpk.New()
	defer lp.Delete()

	lp.SetProbName(m.Name)
	lp.SetObjDir(glpk.MAX)
	lp.AddRows(m.NumRows)
	lp.AddCols(m.NumCols)

	for c := 0; c < m.NumCols; c++ {
		lp.SetColBnds(c+1, glpk.LO, 0, 0)
		lp.SetObjCoef(c+1, -m.C.At(0, c))
	}

	ind := make([]int32, m.NumCols+1)
	for c := 0; c < m.NumCols; c++ {
		ind[c+1] = int32(c + 1)
	}
	for r := 0; r < m.NumRows; r++ {
		b := m.B.At(r, 0)
		lp.SetRowBnds(r+1, glpk.FX, b, b)
		row := make([]float64, m.NumCols+1)
		copy(row[1:], m.A.RawRowView(r))
		lp.SetMatRow(r+1, ind, row)
	}

	smcp := glpk.NewSmcp()
	smcp.SetMsgLev(glpk.MSG_OFF)
	if err := lp.Simplex(smcp); err != nil {
		return nil, fmt.Errorf("crosscheck: glpk simplex: %w", err)
	}

	out := &Outcome{}
	switch lp.Status() {
	case glpk.OPT:
		out.Optimal = true
	case glpk.UNBND:
		out.Unbounded = true
		return out, nil
	default:
		return out, nil
	}
	out.Objective = lp.ObjVal() + m.Z
	out.X = make([]float64, m.NumCols)
	for c := 0; c < m.NumCols; c++ {
		out.X[c] = lp.ColPrim(c + 1)
	}
	return out, nil
}

// Verify checks res against GLPK and against the constraints of m. An
// optimal res must match GLPK's objective within tol and satisfy A x = B,
// x >= 0; an unbounded res must be unbounded for GLPK too.
func Verify(m *model.Model, res *simplex.Result, tol float64) error {
	if res.Status == simplex.StatusOptimal {
		if err := Feasible(m, res.Solution, tol); err != nil {
			return err
		}
	}

	out, err := Solve(m)
	if err != nil {
		return err
	}
	switch res.Status {
	case simplex.StatusOptimal:
		if !out.Optimal {
			return ErrNotOptimal
		}
		if !floats.EqualWithinAbsOrRel(out.Objective, res.Objective, tol, tol) {
			return fmt.Errorf("%w: objective %v, GLPK %v", ErrMismatch, res.Objective, out.Objective)
		}
	case simplex.StatusUnbounded:
		if !out.Unbounded {
			return fmt.Errorf("%w: tableau reports unbounded, GLPK does not", ErrMismatch)
		}
	}
	return nil
}

// Feasible checks A x = B and x >= 0 within tol.
func Feasible(m *model.Model, x []float64, tol float64) error {
	if len(x) != m.NumCols {
		return fmt.Errorf("%w: %d values for %d variables", ErrInfeasibleSol, len(x), m.NumCols)
	}
	for c, v := range x {
		if v < -tol {
			return fmt.Errorf("%w: %s = %v is negative", ErrInfeasibleSol, m.Names()[c], v)
		}
	}
	for r := 0; r < m.NumRows; r++ {
		lhs := floats.Dot(m.A.RawRowView(r), x)
		if b := m.B.At(r, 0); math.Abs(lhs-b) > tol*math.Max(1, math.Abs(b)) {
			return fmt.Errorf("%w: constraint %d evaluates to %v, want %v", ErrInfeasibleSol, r+1, lhs, b)
		}
	}
	return nil
}
