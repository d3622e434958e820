package model

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrInvalidInput is wrapped by every validation failure of a model.
var ErrInvalidInput = errors.New("model: invalid input")

type Variable struct {
	Name    string
	IsSlack bool
}

// Model is a linear program already in augmented form:
//
//	A x = B, x >= 0, F = Z - C x
//
// with an initial basis whose columns form an identity sub-matrix of A.
type Model struct {
	Name string

	//V variables, one per column of A
	V []*Variable

	//C objective row coefficients, negated relative to the maximisation goal
	C *mat.Dense

	//Z objective row rhs, the objective value of the initial basis
	Z float64

	//A constraints matrix, slack columns included
	A *mat.Dense

	//B constraints rhs
	B *mat.Dense

	//Basis initial basic variable of every constraint row
	Basis []int

	SlackIndexes []int

	NumRows int
	NumCols int
}

func NewModel(numRows, numCols int) *Model {
	m := &Model{
		NumRows: numRows,
		NumCols: numCols,
	}
	if numRows > 0 && numCols > 0 {
		m.A = mat.NewDense(numRows, numCols, nil)
		m.C = mat.NewDense(1, numCols, nil)
	}
	if numRows > 0 {
		m.B = mat.NewDense(numRows, 1, nil)
	}
	return m
}

func (m *Model) SetC(cVec []float64) error {
	if len(cVec) != m.NumCols {
		return fmt.Errorf("%w: objective row has %d coefficients, want %d", ErrInvalidInput, len(cVec), m.NumCols)
	}

	m.C = mat.NewDense(1, m.NumCols, append([]float64(nil), cVec...))

	return nil
}

func (m *Model) SetA(aVec []float64) error {
	if len(aVec) != m.NumCols*m.NumRows {
		return fmt.Errorf("%w: mismatch number of variables and/or constraints", ErrInvalidInput)
	}

	m.A = mat.NewDense(m.NumRows, m.NumCols, append([]float64(nil), aVec...))

	return nil
}

func (m *Model) SetB(bVec []float64) error {
	if len(bVec) != m.NumRows {
		return fmt.Errorf("%w: %d right-hand sides for %d constraints", ErrInvalidInput, len(bVec), m.NumRows)
	}

	m.B = mat.NewDense(m.NumRows, 1, append([]float64(nil), bVec...))

	return nil
}

func (m *Model) SetBasis(basis []int) error {
	if len(basis) != m.NumRows {
		return fmt.Errorf("%w: basis has %d entries for %d constraints", ErrInvalidInput, len(basis), m.NumRows)
	}

	m.Basis = append([]int(nil), basis...)

	return nil
}

// SetNames renames the variables. CreateVariables must have been called.
func (m *Model) SetNames(names []string) error {
	if len(names) != m.NumCols {
		return fmt.Errorf("%w: %d names for %d variables", ErrInvalidInput, len(names), m.NumCols)
	}
	if len(m.V) != m.NumCols {
		m.CreateVariables()
	}
	for c, name := range names {
		if name == "" {
			return fmt.Errorf("%w: variable %d has an empty name", ErrInvalidInput, c+1)
		}
		m.V[c].Name = name
	}

	return nil
}

// AddCol appends a column to A with objective coefficient coef.
func (m *Model) AddCol(cVec []float64, coef float64) error {
	if len(cVec) != m.NumRows {
		return fmt.Errorf("%w: mismatch number of rows, i.e. wrong len of cVec", ErrInvalidInput)
	}

	m.A = mat.DenseCopyOf(m.A.Grow(0, 1))
	m.A.SetCol(m.NumCols, cVec)

	m.C = mat.DenseCopyOf(m.C.Grow(0, 1))
	m.C.Set(0, m.NumCols, coef)

	m.NumCols++
	return nil
}

// AddSlackVariables appends one slack column per constraint and makes the
// slacks the initial basis.
func (m *Model) AddSlackVariables() error {
	if len(m.V) != m.NumCols {
		m.CreateVariables()
	}
	m.SlackIndexes = m.SlackIndexes[:0]
	for r := 0; r < m.NumRows; r++ {
		colVec := make([]float64, m.NumRows)
		colVec[r] = 1
		m.SlackIndexes = append(m.SlackIndexes, m.NumCols)
		if err := m.AddCol(colVec, 0); err != nil {
			return err
		}
		m.V = append(m.V, &Variable{Name: variableName(m.NumCols - 1), IsSlack: true})
	}
	m.Basis = append([]int(nil), m.SlackIndexes...)

	return nil
}

func (m *Model) CreateVariables() {
	m.V = make([]*Variable, m.NumCols)
	for c := 0; c < m.NumCols; c++ {
		m.V[c] = &Variable{Name: variableName(c)}
	}
}

// Names returns the variable names in column order.
func (m *Model) Names() []string {
	names := make([]string, m.NumCols)
	for c := 0; c < m.NumCols; c++ {
		if c < len(m.V) && m.V[c] != nil && m.V[c].Name != "" {
			names[c] = m.V[c].Name
		} else {
			names[c] = variableName(c)
		}
	}
	return names
}

// DetectBasis picks, for every row r, a column of A equal to the unit vector
// e_r with a zero objective coefficient. The rightmost candidate wins, which
// selects slack columns appended after the structural ones.
func (m *Model) DetectBasis() error {
	if err := m.checkShape(); err != nil {
		return err
	}
	basis := make([]int, m.NumRows)
	used := make(map[int]bool, m.NumRows)
	for r := 0; r < m.NumRows; r++ {
		basis[r] = -1
		for c := m.NumCols - 1; c >= 0; c-- {
			if !used[c] && m.isBasicColumn(r, c) {
				basis[r] = c
				used[c] = true
				break
			}
		}
		if basis[r] == -1 {
			return fmt.Errorf("%w: no unit column for constraint %d, basis must be given", ErrInvalidInput, r+1)
		}
	}
	m.Basis = basis

	return nil
}

// Validate checks that the model describes a valid starting tableau: a
// non-empty rectangular matrix with finite entries, non-negative right-hand
// sides and a basis made of distinct unit columns.
func (m *Model) Validate() error {
	if err := m.checkShape(); err != nil {
		return err
	}
	for r := 0; r < m.NumRows; r++ {
		for c := 0; c < m.NumCols; c++ {
			if v := m.A.At(r, c); math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: constraint %d, column %d is not finite", ErrInvalidInput, r+1, c+1)
			}
		}
		b := m.B.At(r, 0)
		if math.IsNaN(b) || math.IsInf(b, 0) {
			return fmt.Errorf("%w: constraint %d has a non-finite right-hand side", ErrInvalidInput, r+1)
		}
		if b < 0 {
			return fmt.Errorf("%w: constraint %d has negative right-hand side %v", ErrInvalidInput, r+1, b)
		}
	}
	for c := 0; c < m.NumCols; c++ {
		if v := m.C.At(0, c); math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: objective column %d is not finite", ErrInvalidInput, c+1)
		}
	}
	if math.IsNaN(m.Z) || math.IsInf(m.Z, 0) {
		return fmt.Errorf("%w: objective right-hand side is not finite", ErrInvalidInput)
	}

	if len(m.Basis) != m.NumRows {
		return fmt.Errorf("%w: basis has %d entries for %d constraints", ErrInvalidInput, len(m.Basis), m.NumRows)
	}
	seen := make(map[int]int, m.NumRows)
	for r, c := range m.Basis {
		if c < 0 || c >= m.NumCols {
			return fmt.Errorf("%w: basis entry %d is out of range [0, %d)", ErrInvalidInput, c, m.NumCols)
		}
		if prev, ok := seen[c]; ok {
			return fmt.Errorf("%w: variable %d is basic in rows %d and %d", ErrInvalidInput, c+1, prev+1, r+1)
		}
		seen[c] = r
		if !m.isBasicColumn(r, c) {
			return fmt.Errorf("%w: column %d is not the unit column of constraint %d", ErrInvalidInput, c+1, r+1)
		}
	}
	if len(m.V) != 0 && len(m.V) != m.NumCols {
		return fmt.Errorf("%w: %d variables for %d columns", ErrInvalidInput, len(m.V), m.NumCols)
	}

	return nil
}

// Tableau builds the (NumRows+1) x (NumCols+1) simplex tableau: constraint
// rows first, objective row last, right-hand sides in the last column.
func (m *Model) Tableau() *mat.Dense {
	t := mat.NewDense(m.NumRows+1, m.NumCols+1, nil)
	t.Slice(0, m.NumRows, 0, m.NumCols).(*mat.Dense).Copy(m.A)
	t.Slice(0, m.NumRows, m.NumCols, m.NumCols+1).(*mat.Dense).Copy(m.B)
	t.Slice(m.NumRows, m.NumRows+1, 0, m.NumCols).(*mat.Dense).Copy(m.C)
	t.Set(m.NumRows, m.NumCols, m.Z)
	return t
}

func (m *Model) checkShape() error {
	if m.NumRows <= 0 || m.NumCols <= 0 || m.A == nil || m.B == nil || m.C == nil {
		return fmt.Errorf("%w: empty tableau", ErrInvalidInput)
	}
	if r, c := m.A.Dims(); r != m.NumRows || c != m.NumCols {
		return fmt.Errorf("%w: constraints matrix is %dx%d, want %dx%d", ErrInvalidInput, r, c, m.NumRows, m.NumCols)
	}
	if r, _ := m.B.Dims(); r != m.NumRows {
		return fmt.Errorf("%w: %d right-hand sides for %d constraints", ErrInvalidInput, r, m.NumRows)
	}
	if _, c := m.C.Dims(); c != m.NumCols {
		return fmt.Errorf("%w: objective row has %d coefficients, want %d", ErrInvalidInput, c, m.NumCols)
	}
	return nil
}

func (m *Model) isBasicColumn(row, col int) bool {
	if m.C.At(0, col) != 0 {
		return false
	}
	for r := 0; r < m.NumRows; r++ {
		want := 0.0
		if r == row {
			want = 1
		}
		if m.A.At(r, col) != want {
			return false
		}
	}
	return true
}

func variableName(c int) string {
	return fmt.Sprintf("x%d", c+1)
}
