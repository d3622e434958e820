package report_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"q.log/tableau/instance"
	"q.log/tableau/model"
	"q.log/tableau/report"
	"q.log/tableau/simplex"
	"sigs.k8s.io/yaml"
)

func fieldsOf(out string) [][]string {
	var lines [][]string
	for _, line := range strings.Split(out, "\n") {
		if f := strings.Fields(line); len(f) > 0 {
			lines = append(lines, f)
		}
	}
	return lines
}

func TestPrinterWorkedExample(t *testing.T) {
	var buf bytes.Buffer
	p := report.NewPrinter(&buf, true)

	_, err := simplex.Solve(context.Background(), instance.Worked(), simplex.WithObserver(p))
	require.NoError(t, err)
	require.NoError(t, p.Err())

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Initial simplex tableau:\n"))
	assert.Contains(t, out, "Step 1:\n")
	assert.Contains(t, out, "Variable x3 enters the basis, variable x6 leaves the basis\n")
	assert.Contains(t, out, "Pivot element: row 2, column 3.\n")
	assert.Contains(t, out, "Current basic solution: X = {0, 0, 20, 0, 20, 0, 20}\n")
	assert.Contains(t, out, "Current value of F = 100\n")
	assert.True(t, strings.HasSuffix(out,
		"Optimal solution found\nOptimal basic solution: X = {0, 0, 20, 0, 20, 0, 20}\nF = 100\n"))

	lines := fieldsOf(out)
	header := []string{"Basis", "x1", "x2", "x3", "x4", "x5", "x6", "x7", "RHS"}
	assert.Equal(t, header, lines[1])
	assert.Equal(t, []string{"x5", "3", "1", "4", "4", "1", "0", "0", "100"}, lines[2])
	assert.Equal(t, []string{"F", "-2.5", "-2", "-5", "-3", "0", "0", "0", "0"}, lines[5])
	assert.Contains(t, lines, []string{"x3", "0.8", "0.4", "1", "1", "0", "0.2", "0", "20"})
}

func TestPrinterQuiet(t *testing.T) {
	var buf bytes.Buffer
	p := report.NewPrinter(&buf, false)

	_, err := simplex.Solve(context.Background(), instance.Worked(), simplex.WithObserver(p))
	require.NoError(t, err)

	assert.Equal(t, "Optimal solution found\nOptimal basic solution: X = {0, 0, 20, 0, 20, 0, 20}\nF = 100\n", buf.String())
}

func TestPrinterFailures(t *testing.T) {
	m, err := model.FromInequalities([][]float64{{1, -1}}, []float64{1}, []float64{1, 1})
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = simplex.Solve(context.Background(), m, simplex.WithObserver(report.NewPrinter(&buf, false)))
	assert.ErrorIs(t, err, simplex.ErrUnbounded)
	assert.Equal(t, "No solution: objective is unbounded along x2\n", buf.String())

	buf.Reset()
	_, err = simplex.Solve(context.Background(), instance.Worked(),
		simplex.WithMaxIterations(0), simplex.WithObserver(report.NewPrinter(&buf, false)))
	assert.ErrorIs(t, err, simplex.ErrIterationLimit)
	assert.Equal(t, "No solution: iteration limit exceeded after 0 pivots\n", buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestPrinterKeepsWriteError(t *testing.T) {
	p := report.NewPrinter(failingWriter{}, true)
	_, err := simplex.Solve(context.Background(), instance.Worked(), simplex.WithObserver(p))
	require.NoError(t, err)
	assert.EqualError(t, p.Err(), "disk full")
}

func TestNumber(t *testing.T) {
	assert.Equal(t, "0", report.Number(math.Copysign(0, -1)))
	assert.Equal(t, "-0.2", report.Number(-0.20000000000000018))
	assert.Equal(t, "1.8", report.Number(1.7999999999999998))
	assert.Equal(t, "100", report.Number(100))
	assert.Equal(t, "{1, -2.5}", report.Vector([]float64{1, -2.5}))
}

func TestEncode(t *testing.T) {
	res, err := simplex.Solve(context.Background(), instance.Worked())
	require.NoError(t, err)
	res.Solution = []float64{0, 0, 20, 0, 20, 0, 20}
	res.Objective = 100

	var buf bytes.Buffer
	require.NoError(t, report.Encode(&buf, []*simplex.Result{res}, report.FormatYAML))

	var decoded []map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "worked", decoded[0]["name"])
	assert.Equal(t, "optimal", decoded[0]["status"])
	assert.Equal(t, float64(100), decoded[0]["objective"])
	assert.NotContains(t, decoded[0], "Final")

	buf.Reset()
	require.NoError(t, report.Encode(&buf, []*simplex.Result{res}, report.FormatJSON))
	decoded = nil
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, []interface{}{4.0, 2.0, 6.0}, decoded[0]["basis"])

	assert.Error(t, report.Encode(&buf, nil, "xml"))
}
