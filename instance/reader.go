package instance

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"k8s.io/klog/v2"
	"q.log/tableau/model"
	"sigs.k8s.io/yaml"
)

// Reader reads a YAML or JSON problem file to construct a model
type Reader struct {
	filename string
}

// File is the on-disk form of a problem. Either the tableau form
// (Constraints, Objective, optional Basis) or the inequality form
// (Maximize, A, B) must be given.
type File struct {
	Name string `json:"name,omitempty"`

	// Constraints are augmented rows ending with their right-hand side.
	Constraints [][]float64 `json:"constraints,omitempty"`
	// Objective is the objective row, optionally ending with its rhs.
	Objective []float64 `json:"objective,omitempty"`
	Basis     []int     `json:"basis,omitempty"`

	// Maximize, A and B describe max c x s.t. A x <= b, x >= 0.
	Maximize []float64   `json:"maximize,omitempty"`
	A        [][]float64 `json:"a,omitempty"`
	B        []float64   `json:"b,omitempty"`

	Names []string `json:"names,omitempty"`
}

func NewReader(filename string) *Reader {
	return &Reader{
		filename: filename,
	}
}

// ConstructModelFromFile returns the validated model described by the file.
// The model is named after the file unless the file names it.
func (r *Reader) ConstructModelFromFile() (*model.Model, error) {
	data, err := os.ReadFile(r.filename)
	if err != nil {
		return nil, err
	}
	klog.V(1).Infof("read %d bytes from %s", len(data), r.filename)

	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.filename, err)
	}
	if m.Name == "" {
		base := filepath.Base(r.filename)
		m.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return m, nil
}

// Parse decodes a problem in YAML or JSON. Unknown keys are rejected.
func Parse(data []byte) (*model.Model, error) {
	var f File
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidInput, err)
	}
	return f.Model()
}

// Model builds and validates the model described by f.
func (f *File) Model() (*model.Model, error) {
	tableau := len(f.Constraints) > 0 || len(f.Objective) > 0 || len(f.Basis) > 0
	inequalities := len(f.Maximize) > 0 || len(f.A) > 0 || len(f.B) > 0

	var (
		m   *model.Model
		err error
	)
	switch {
	case tableau && inequalities:
		return nil, fmt.Errorf("%w: both tableau and inequality form given", model.ErrInvalidInput)
	case tableau:
		m, err = model.FromTableau(f.Constraints, f.Objective, f.Basis)
	case inequalities:
		m, err = model.FromInequalities(f.A, f.B, f.Maximize)
	default:
		return nil, fmt.Errorf("%w: empty tableau", model.ErrInvalidInput)
	}
	if err != nil {
		return nil, err
	}

	if f.Names != nil {
		if err := m.SetNames(f.Names); err != nil {
			return nil, err
		}
	}
	m.Name = f.Name
	return m, nil
}
