package simplex_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"q.log/tableau/model"
	"q.log/tableau/simplex"
)

// recorder is an Observer checking invariants after every pivot.
type recorder struct {
	t      *testing.T
	starts int
	steps  []simplex.Step
	done   *simplex.Result
}

func (r *recorder) Start(s *simplex.Snapshot) {
	r.starts++
	assert.Equal(r.t, 0, s.Iteration)
}

func (r *recorder) Pivoted(step simplex.Step, s *simplex.Snapshot) {
	r.steps = append(r.steps, step)
	assert.Equal(r.t, len(r.steps), s.Iteration)
	assert.Equal(r.t, step.Col, s.Basis[step.Row])

	seen := make(map[int]bool)
	for _, c := range s.Basis {
		assert.False(r.t, seen[c], "variable %d basic twice in %v", c, s.Basis)
		seen[c] = true
	}

	rows, _ := s.Dims()
	for i := 0; i <= rows; i++ {
		want := 0.0
		if i == step.Row {
			want = 1
		}
		assert.InDelta(r.t, want, s.Tableau.At(i, step.Col), 1e-12)
	}
}

func (r *recorder) Done(res *simplex.Result) {
	r.done = res
}

func inequalities(t *testing.T, a [][]float64, b, c []float64) *model.Model {
	t.Helper()
	m, err := model.FromInequalities(a, b, c)
	require.NoError(t, err)
	return m
}

// assertFeasible checks a x <= b and x >= 0 on the structural part of x.
func assertFeasible(t *testing.T, a [][]float64, b, x []float64) {
	t.Helper()
	for j := range a[0] {
		assert.GreaterOrEqual(t, x[j], -1e-9)
	}
	for i, row := range a {
		assert.LessOrEqual(t, floats.Dot(row, x[:len(row)]), b[i]+1e-9, "constraint %d", i+1)
	}
}

func TestSolveWorkedExample(t *testing.T) {
	rec := &recorder{t: t}
	m := workedModel(t)
	m.Name = "worked"

	res, err := simplex.Solve(context.Background(), m, simplex.WithObserver(rec))
	require.NoError(t, err)

	assert.Equal(t, simplex.StatusOptimal, res.Status)
	assert.Equal(t, "worked", res.Name)
	assert.Equal(t, 1, res.Iterations)
	require.Len(t, rec.steps, 1)
	assert.Equal(t, simplex.Step{Iteration: 1, Row: 1, Col: 2, Entering: 2, Leaving: 5}, rec.steps[0])
	assert.Equal(t, 1, rec.starts)
	assert.Same(t, res, rec.done)

	assert.InDelta(t, 100, res.Objective, 1e-9)
	assert.InDeltaSlice(t, []float64{0, 0, 20, 0, 20, 0, 20}, res.Solution, 1e-9)
	assert.Equal(t, []int{4, 2, 6}, res.Basis)

	a := [][]float64{{3, 1, 4, 4}, {4, 2, 5, 5}, {5, 5, 4, 0}}
	assertFeasible(t, a, []float64{100, 100, 100}, res.Solution)
}

func TestSolveBounded(t *testing.T) {
	tests := []struct {
		name       string
		a          [][]float64
		b, c       []float64
		objective  float64
		x          []float64
		iterations int
	}{
		{
			name:       "two variables",
			a:          [][]float64{{1, 0}, {0, 2}, {3, 2}},
			b:          []float64{4, 12, 18},
			c:          []float64{3, 5},
			objective:  36,
			x:          []float64{2, 6},
			iterations: 2,
		},
		{
			name:       "four variables",
			a:          [][]float64{{2, 4, 5, 7}, {1, 1, 2, 2}, {1, 2, 3, 3}},
			b:          []float64{42, 17, 24},
			c:          []float64{7, 9, 18, 17},
			objective:  147,
			x:          []float64{3, 0, 7, 0},
			iterations: 2,
		},
		{
			name:       "already optimal",
			a:          [][]float64{{1, 1}},
			b:          []float64{5},
			c:          []float64{-1, 0},
			objective:  0,
			x:          []float64{0, 0},
			iterations: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{t: t}
			res, err := simplex.Solve(context.Background(), inequalities(t, tt.a, tt.b, tt.c), simplex.WithObserver(rec))
			require.NoError(t, err)

			assert.Equal(t, simplex.StatusOptimal, res.Status)
			assert.Equal(t, tt.iterations, res.Iterations)
			assert.InDelta(t, tt.objective, res.Objective, 1e-9)
			assert.InDeltaSlice(t, tt.x, res.Solution[:len(tt.x)], 1e-9)
			assertFeasible(t, tt.a, tt.b, res.Solution)
			assert.Len(t, rec.steps, tt.iterations)
		})
	}
}

func TestSolveUnbounded(t *testing.T) {
	t.Run("immediately", func(t *testing.T) {
		m, err := model.FromTableau(
			[][]float64{
				{-1, 1, 1, 0, 5},
				{-1, 0, 0, 1, 3},
			},
			[]float64{-1, 0, 0, 0, 0},
			[]int{2, 3},
		)
		require.NoError(t, err)

		e, err := simplex.New(m)
		require.NoError(t, err)
		col, ok := e.PivotColumn()
		require.True(t, ok)
		_, ok = e.PivotRow(col)
		assert.False(t, ok)

		res, err := e.Solve(context.Background())
		assert.ErrorIs(t, err, simplex.ErrUnbounded)
		require.NotNil(t, res)
		assert.Equal(t, simplex.StatusUnbounded, res.Status)
		assert.Equal(t, 0, res.Entering)
		assert.Equal(t, 0, res.Iterations)
	})

	t.Run("after a pivot", func(t *testing.T) {
		// maximize x1 + x2 subject to x1 - x2 <= 1
		res, err := simplex.Solve(context.Background(), inequalities(t, [][]float64{{1, -1}}, []float64{1}, []float64{1, 1}))
		assert.ErrorIs(t, err, simplex.ErrUnbounded)
		require.NotNil(t, res)
		assert.Equal(t, simplex.StatusUnbounded, res.Status)
		assert.Equal(t, 1, res.Iterations)
		assert.Equal(t, 1, res.Entering)
		assert.True(t, simplex.IsOutcome(err))
	})
}

// bealeModel is Beale's example, which cycles under the most-negative
// column rule with the topmost ratio tie-break.
func bealeModel(t *testing.T) *model.Model {
	return inequalities(t,
		[][]float64{
			{0.25, -8, -1, 9},
			{0.5, -12, -0.5, 3},
			{0, 0, 1, 0},
		},
		[]float64{0, 0, 1},
		[]float64{0.75, -20, 0.5, -6},
	)
}

func TestSolveIterationLimit(t *testing.T) {
	rec := &recorder{t: t}
	res, err := simplex.Solve(context.Background(), bealeModel(t),
		simplex.WithMaxIterations(50), simplex.WithObserver(rec))

	assert.ErrorIs(t, err, simplex.ErrIterationLimit)
	require.NotNil(t, res)
	assert.Equal(t, simplex.StatusIterationLimit, res.Status)
	assert.Equal(t, 50, res.Iterations)
	assert.Len(t, rec.steps, 50)
	// The cycle has length six and returns to the slack basis.
	assert.Equal(t, rec.steps[0], simplex.Step{Iteration: 1, Row: 0, Col: 0, Entering: 0, Leaving: 4})
	assert.Equal(t, rec.steps[0].Col, rec.steps[6].Col)
	assert.Equal(t, rec.steps[0].Row, rec.steps[6].Row)
}

func TestSolveZeroIterationLimit(t *testing.T) {
	res, err := simplex.Solve(context.Background(), workedModel(t), simplex.WithMaxIterations(0))
	assert.ErrorIs(t, err, simplex.ErrIterationLimit)
	assert.Equal(t, 0, res.Iterations)

	// An optimal tableau is recognised before the limit is checked.
	res, err = simplex.Solve(context.Background(), workedModel(t), simplex.WithMaxIterations(1))
	require.NoError(t, err)
	assert.Equal(t, simplex.StatusOptimal, res.Status)
}

func TestSolveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := simplex.Solve(ctx, workedModel(t))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res)
}

func TestSolveAll(t *testing.T) {
	problems := []*model.Model{
		workedModel(t),
		inequalities(t, [][]float64{{1, -1}}, []float64{1}, []float64{1, 1}),
		inequalities(t, [][]float64{{1, 0}, {0, 2}, {3, 2}}, []float64{4, 12, 18}, []float64{3, 5}),
		bealeModel(t),
	}
	for i, m := range problems {
		m.Name = fmt.Sprintf("p%d", i)
	}
	recorders := make([]*recorder, len(problems))
	for i := range recorders {
		recorders[i] = &recorder{t: t}
	}

	results, err := simplex.SolveAll(context.Background(), problems, 2,
		func(i int) simplex.Observer { return recorders[i] },
		simplex.WithMaxIterations(100))
	require.NoError(t, err)
	require.Len(t, results, len(problems))

	want := []simplex.Status{
		simplex.StatusOptimal,
		simplex.StatusUnbounded,
		simplex.StatusOptimal,
		simplex.StatusIterationLimit,
	}
	for i, res := range results {
		assert.Equal(t, fmt.Sprintf("p%d", i), res.Name)
		assert.Equal(t, want[i], res.Status, res.Name)
		assert.Same(t, res, recorders[i].done)
	}
	assert.InDelta(t, 100, results[0].Objective, 1e-9)
	assert.InDelta(t, 36, results[2].Objective, 1e-9)
}

func TestSolveAllInvalidInput(t *testing.T) {
	bad := workedModel(t)
	bad.Basis = []int{0, 1, 2}

	_, err := simplex.SolveAll(context.Background(), []*model.Model{workedModel(t), bad}, 0, nil)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "optimal", simplex.StatusOptimal.String())
	assert.Equal(t, "unbounded", simplex.StatusUnbounded.String())
	assert.Equal(t, "iteration-limit", simplex.StatusIterationLimit.String())
	assert.Equal(t, "running", simplex.StatusRunning.String())
	assert.Equal(t, "Status(9)", simplex.Status(9).String())
}
