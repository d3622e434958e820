// Package report renders solver snapshots as text and results as YAML or JSON.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"q.log/tableau/simplex"
)

// Printer writes a human-readable trace of a solve. It implements
// simplex.Observer. The first write error is kept and returned by Err.
type Printer struct {
	w   io.Writer
	err error

	// Verbose prints every intermediate tableau; otherwise only the
	// terminal state is written.
	Verbose bool
}

var _ simplex.Observer = (*Printer)(nil)

func NewPrinter(w io.Writer, verbose bool) *Printer {
	return &Printer{w: w, Verbose: verbose}
}

func (p *Printer) Err() error {
	return p.err
}

func (p *Printer) Start(s *simplex.Snapshot) {
	if !p.Verbose {
		return
	}
	p.printf("Initial simplex tableau:\n")
	p.Table(s)
}

func (p *Printer) Pivoted(step simplex.Step, s *simplex.Snapshot) {
	if !p.Verbose {
		return
	}
	p.printf("Step %d:\n", step.Iteration)
	p.printf("Variable %s enters the basis, variable %s leaves the basis\n",
		s.Names[step.Entering], s.Names[step.Leaving])
	p.printf("Pivot element: row %d, column %d.\n", step.Row+1, step.Col+1)
	p.Table(s)
	p.printf("Current basic solution: X = %s\n", Vector(s.Solution()))
	p.printf("Current value of F = %s\n\n", Number(s.Objective()))
}

func (p *Printer) Done(r *simplex.Result) {
	switch r.Status {
	case simplex.StatusOptimal:
		p.printf("Optimal solution found\n")
		p.printf("Optimal basic solution: X = %s\n", Vector(r.Solution))
		p.printf("F = %s\n", Number(r.Objective))
	case simplex.StatusUnbounded:
		name := strconv.Itoa(r.Entering + 1)
		if r.Entering >= 0 && r.Entering < len(r.Names) {
			name = r.Names[r.Entering]
		}
		p.printf("No solution: objective is unbounded along %s\n", name)
	case simplex.StatusIterationLimit:
		p.printf("No solution: iteration limit exceeded after %d pivots\n", r.Iterations)
	default:
		p.printf("Solve stopped in state %s\n", r.Status)
	}
}

// Table writes the tableau of s, one line per constraint labelled with its
// basic variable and a last line for the objective row labelled F.
func (p *Printer) Table(s *simplex.Snapshot) {
	if p.err != nil {
		return
	}
	rows, cols := s.Dims()
	tw := tabwriter.NewWriter(p.w, 0, 8, 2, ' ', tabwriter.AlignRight)

	var b strings.Builder
	b.WriteString("Basis\t")
	for j := 0; j < cols; j++ {
		b.WriteString(s.Names[j])
		b.WriteByte('\t')
	}
	b.WriteString("RHS\t\n")
	for i := 0; i < rows+1; i++ {
		if i < rows {
			b.WriteString(s.Names[s.Basis[i]])
		} else {
			b.WriteString("F")
		}
		b.WriteByte('\t')
		for _, v := range s.Tableau.RawRowView(i) {
			b.WriteString(Number(v))
			b.WriteByte('\t')
		}
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	if _, err := io.WriteString(tw, b.String()); err != nil {
		p.err = err
		return
	}
	p.err = tw.Flush()
}

func (p *Printer) printf(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

// Number formats v with six significant digits. Negative zero prints as 0.
func Number(v float64) string {
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// Vector formats x as {x1, x2, ...}.
func Vector(x []float64) string {
	parts := make([]string, len(x))
	for i, v := range x {
		parts[i] = Number(v)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
