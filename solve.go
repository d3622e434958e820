package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"
	"q.log/tableau/crosscheck"
	"q.log/tableau/instance"
	"q.log/tableau/model"
	"q.log/tableau/report"
	"q.log/tableau/simplex"
)

var errNotOptimal = errors.New("not every problem has an optimal solution")

type solveOptions struct {
	maxIterations int
	tolerance     float64
	concurrency   int
	output        string
	verify        bool
	quiet         bool
}

func (o *solveOptions) addFlags(fs *pflag.FlagSet) {
	fs.IntVar(&o.maxIterations, "max-iterations", simplex.DefaultMaxIterations, "Stop after this many pivots")
	fs.Float64Var(&o.tolerance, "tolerance", simplex.DefaultTolerance, "Coefficients smaller in magnitude count as zero")
	fs.IntVar(&o.concurrency, "concurrency", 0, "Problems solved in parallel (0 means no limit)")
	fs.StringVarP(&o.output, "output", "o", report.FormatText, "Output format: text, yaml or json")
	fs.BoolVar(&o.verify, "verify", false, "Cross-check every result with GLPK")
	fs.BoolVarP(&o.quiet, "quiet", "q", false, "Print only the final result of each problem")
}

func (o *solveOptions) validate() error {
	switch o.output {
	case report.FormatText, report.FormatYAML, report.FormatJSON:
	default:
		return fmt.Errorf("unknown output format %q", o.output)
	}
	if o.maxIterations < 0 {
		return fmt.Errorf("--max-iterations must not be negative")
	}
	if o.tolerance < 0 {
		return fmt.Errorf("--tolerance must not be negative")
	}
	return nil
}

func (o *solveOptions) solverOptions() []simplex.Option {
	return []simplex.Option{
		simplex.WithMaxIterations(o.maxIterations),
		simplex.WithTolerance(o.tolerance),
	}
}

func newCommandSolve(name string) *cobra.Command {
	o := &solveOptions{}
	cmd := &cobra.Command{
		Use:   name + " FILE...",
		Short: "Solve the problems described by YAML or JSON files",
		Args:  cobra.MinimumNArgs(1),

		SilenceUsage: true,
		RunE: func(c *cobra.Command, args []string) error {
			if err := o.validate(); err != nil {
				return err
			}
			problems := make([]*model.Model, 0, len(args))
			for _, filename := range args {
				m, err := instance.NewReader(filename).ConstructModelFromFile()
				if err != nil {
					return err
				}
				problems = append(problems, m)
			}
			return o.run(c.Context(), c.OutOrStdout(), problems)
		},
	}
	o.addFlags(cmd.Flags())
	return cmd
}

func newCommandExample(name string) *cobra.Command {
	o := &solveOptions{}
	cmd := &cobra.Command{
		Use:   name,
		Short: "Solve the built-in worked example",
		Args:  cobra.NoArgs,

		SilenceUsage: true,
		RunE: func(c *cobra.Command, args []string) error {
			if err := o.validate(); err != nil {
				return err
			}
			return o.run(c.Context(), c.OutOrStdout(), []*model.Model{instance.Worked()})
		},
	}
	o.addFlags(cmd.Flags())
	return cmd
}

// run solves problems concurrently. Text reports are buffered per problem
// and written in input order.
func (o *solveOptions) run(ctx context.Context, out io.Writer, problems []*model.Model) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var printers []*report.Printer
	var observe func(i int) simplex.Observer
	buffers := make([]bytes.Buffer, len(problems))
	if o.output == report.FormatText {
		printers = make([]*report.Printer, len(problems))
		for i := range problems {
			printers[i] = report.NewPrinter(&buffers[i], !o.quiet)
		}
		observe = func(i int) simplex.Observer {
			return printers[i]
		}
	}

	results, err := simplex.SolveAll(ctx, problems, o.concurrency, observe, o.solverOptions()...)
	if err != nil {
		return err
	}

	if o.output == report.FormatText {
		for i, m := range problems {
			if len(problems) > 1 {
				fmt.Fprintf(out, "== %s ==\n", m.Name)
			}
			if err := printers[i].Err(); err != nil {
				return err
			}
			if _, err := buffers[i].WriteTo(out); err != nil {
				return err
			}
		}
	} else if err := report.Encode(out, results, o.output); err != nil {
		return err
	}

	failed := false
	for i, res := range results {
		if res.Status != simplex.StatusOptimal {
			klog.Errorf("%s: %s after %d pivots", problems[i].Name, res.Status, res.Iterations)
			failed = true
		}
		if o.verify {
			if err := crosscheck.Verify(problems[i], res, 1e-6); err != nil {
				return fmt.Errorf("%s: %w", problems[i].Name, err)
			}
			klog.V(1).Infof("%s: GLPK agrees", problems[i].Name)
		}
	}
	if failed {
		return errNotOptimal
	}
	return nil
}
