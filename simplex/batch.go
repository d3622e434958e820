package simplex

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
	"q.log/tableau/model"
)

// SolveAll solves independent problems concurrently, running at most limit
// solves at a time (no limit when limit <= 0). Each problem gets its own
// engine; observe, if not nil, returns the observer of the i-th problem and
// overrides any WithObserver option.
//
// Unbounded and iteration-limit outcomes are reported through the Status of
// the corresponding Result. Any other error, such as invalid input or a
// cancelled ctx, stops the batch and is returned.
func SolveAll(ctx context.Context, problems []*model.Model, limit int, observe func(i int) Observer, opts ...Option) ([]*Result, error) {
	results := make([]*Result, len(problems))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, m := range problems {
		i, m := i, m
		g.Go(func() error {
			o := opts
			if observe != nil {
				o = append(append([]Option(nil), opts...), WithObserver(observe(i)))
			}
			res, err := Solve(ctx, m, o...)
			if err != nil && !IsOutcome(err) {
				return fmt.Errorf("problem %d (%s): %w", i+1, m.Name, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// IsOutcome reports whether err is a terminal outcome of a solve rather than
// a failure to run it.
func IsOutcome(err error) bool {
	return errors.Is(err, ErrUnbounded) || errors.Is(err, ErrIterationLimit)
}
