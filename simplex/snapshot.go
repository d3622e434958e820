package simplex

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

type Status int

const (
	StatusRunning Status = iota
	StatusOptimal
	StatusUnbounded
	StatusIterationLimit
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusOptimal:
		return "optimal"
	case StatusUnbounded:
		return "unbounded"
	case StatusIterationLimit:
		return "iteration-limit"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Step describes one pivot. Row and Col are 0-indexed tableau positions.
type Step struct {
	Iteration int
	Row       int
	Col       int
	Entering  int
	Leaving   int
}

// Snapshot is an immutable copy of the solver state after Iteration pivots.
type Snapshot struct {
	Iteration int
	Tableau   *mat.Dense
	Basis     []int
	Names     []string
}

// Dims returns the number of constraints and variables of the snapshot.
func (s *Snapshot) Dims() (rows, cols int) {
	r, c := s.Tableau.Dims()
	return r - 1, c - 1
}

func (s *Snapshot) Solution() []float64 {
	_, cols := s.Dims()
	return solution(s.Tableau, s.Basis, cols)
}

func (s *Snapshot) Objective() float64 {
	rows, cols := s.Dims()
	return s.Tableau.At(rows, cols)
}

// Observer receives the state of a solve after every transition. Snapshots
// are owned by the observer.
type Observer interface {
	Start(s *Snapshot)
	Pivoted(step Step, s *Snapshot)
	Done(r *Result)
}

// Result is the terminal state of a solve.
type Result struct {
	Name       string    `json:"name,omitempty"`
	Status     Status    `json:"status"`
	Iterations int       `json:"iterations"`
	Objective  float64   `json:"objective"`
	Solution   []float64 `json:"solution"`
	Basis      []int     `json:"basis"`
	Names      []string  `json:"names"`

	// Entering is the column that could not be pivoted in when Status is
	// StatusUnbounded, None otherwise.
	Entering int `json:"-"`

	Final *Snapshot `json:"-"`
}
