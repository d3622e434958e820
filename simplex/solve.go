package simplex

import (
	"context"
	"fmt"

	"k8s.io/klog/v2"
	"q.log/tableau/model"
)

// Solve builds an engine for m and runs it to a terminal state.
func Solve(ctx context.Context, m *model.Model, opts ...Option) (*Result, error) {
	e, err := New(m, opts...)
	if err != nil {
		return nil, err
	}
	res, err := e.Solve(ctx)
	if res != nil {
		res.Name = m.Name
	}
	return res, err
}

// Solve pivots until the objective row has no negative coefficient, the
// ratio test finds no leaving row, or the iteration limit is reached.
//
// The returned error is nil for StatusOptimal and wraps ErrUnbounded or
// ErrIterationLimit for the other terminal states; the Result is returned in
// all three cases. A cancelled ctx stops the solve between pivots.
func (e *Engine) Solve(ctx context.Context) (*Result, error) {
	obs := e.cfg.observer
	if obs != nil {
		obs.Start(e.Snapshot(0))
	}

	status := StatusRunning
	iter := 0
	entering := None
	for status == StatusRunning {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		col, ok := e.PivotColumn()
		if !ok {
			status = StatusOptimal
			break
		}
		if iter >= e.cfg.maxIter {
			status = StatusIterationLimit
			break
		}
		row, ok := e.PivotRow(col)
		if !ok {
			entering = col
			status = StatusUnbounded
			break
		}
		if klog.V(4).Enabled() {
			klog.Infof("ratio test on column %s selected row %d, rhs %v, entry %v",
				e.names[col], row+1, e.table.At(row, e.cols), e.table.At(row, col))
		}

		step := Step{
			Iteration: iter + 1,
			Row:       row,
			Col:       col,
			Entering:  col,
			Leaving:   e.basis[row],
		}
		if err := e.Pivot(row, col); err != nil {
			return nil, err
		}
		iter++
		klog.V(2).Infof("pivot %d: %s enters, %s leaves, objective %v",
			iter, e.names[step.Entering], e.names[step.Leaving], e.Objective())

		if obs != nil {
			obs.Pivoted(step, e.Snapshot(iter))
		}
	}

	res := &Result{
		Status:     status,
		Iterations: iter,
		Objective:  e.Objective(),
		Solution:   e.Solution(),
		Basis:      e.Basis(),
		Names:      e.Names(),
		Entering:   entering,
		Final:      e.Snapshot(iter),
	}
	if obs != nil {
		obs.Done(res)
	}

	switch status {
	case StatusUnbounded:
		return res, fmt.Errorf("%w along %s", ErrUnbounded, e.names[entering])
	case StatusIterationLimit:
		return res, fmt.Errorf("%w: %d pivots", ErrIterationLimit, iter)
	}
	klog.V(2).Infof("optimal after %d pivots, objective %v", iter, res.Objective)
	return res, nil
}
