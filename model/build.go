package model

import "fmt"

// FromTableau builds a model from an augmented tableau. Every constraint row
// ends with its right-hand side; the objective row may omit its right-hand
// side, which then defaults to zero. A nil basis is detected from the unit
// columns of the constraints.
func FromTableau(constraints [][]float64, objective []float64, basis []int) (*Model, error) {
	if len(constraints) == 0 || len(constraints[0]) < 2 {
		return nil, fmt.Errorf("%w: empty tableau", ErrInvalidInput)
	}
	numRows := len(constraints)
	numCols := len(constraints[0]) - 1

	aVec := make([]float64, 0, numRows*numCols)
	bVec := make([]float64, 0, numRows)
	for r, row := range constraints {
		if len(row) != numCols+1 {
			return nil, fmt.Errorf("%w: constraint %d has %d entries, want %d", ErrInvalidInput, r+1, len(row), numCols+1)
		}
		aVec = append(aVec, row[:numCols]...)
		bVec = append(bVec, row[numCols])
	}

	m := NewModel(numRows, numCols)
	if err := m.SetA(aVec); err != nil {
		return nil, err
	}
	if err := m.SetB(bVec); err != nil {
		return nil, err
	}

	switch len(objective) {
	case numCols:
		if err := m.SetC(objective); err != nil {
			return nil, err
		}
	case numCols + 1:
		if err := m.SetC(objective[:numCols]); err != nil {
			return nil, err
		}
		m.Z = objective[numCols]
	default:
		return nil, fmt.Errorf("%w: objective row has %d entries, want %d", ErrInvalidInput, len(objective), numCols+1)
	}
	m.CreateVariables()

	if basis == nil {
		if err := m.DetectBasis(); err != nil {
			return nil, err
		}
	} else if err := m.SetBasis(basis); err != nil {
		return nil, err
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// FromInequalities builds the augmented model of
//
//	maximize c x subject to a x <= b, x >= 0
//
// by appending one slack column per row. The slacks form the initial basis.
func FromInequalities(a [][]float64, b, c []float64) (*Model, error) {
	if len(a) == 0 || len(a[0]) == 0 {
		return nil, fmt.Errorf("%w: empty tableau", ErrInvalidInput)
	}
	numRows := len(a)
	numCols := len(a[0])

	aVec := make([]float64, 0, numRows*numCols)
	for r, row := range a {
		if len(row) != numCols {
			return nil, fmt.Errorf("%w: constraint %d has %d coefficients, want %d", ErrInvalidInput, r+1, len(row), numCols)
		}
		aVec = append(aVec, row...)
	}

	m := NewModel(numRows, numCols)
	if err := m.SetA(aVec); err != nil {
		return nil, err
	}
	if err := m.SetB(b); err != nil {
		return nil, err
	}
	if len(c) != numCols {
		return nil, fmt.Errorf("%w: objective has %d coefficients, want %d", ErrInvalidInput, len(c), numCols)
	}
	cVec := make([]float64, numCols)
	for i, v := range c {
		cVec[i] = -v
	}
	if err := m.SetC(cVec); err != nil {
		return nil, err
	}

	m.CreateVariables()
	if err := m.AddSlackVariables(); err != nil {
		return nil, err
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}
