package simplex

const (
	// DefaultMaxIterations caps the number of pivots of a single solve.
	DefaultMaxIterations = 10000

	// DefaultTolerance is the magnitude below which a coefficient counts as zero.
	DefaultTolerance = 1e-9
)

type config struct {
	maxIter  int
	tol      float64
	observer Observer
}

type Option func(*config)

// WithMaxIterations sets the pivot limit after which Solve stops with
// StatusIterationLimit.
func WithMaxIterations(n int) Option {
	return func(c *config) {
		c.maxIter = n
	}
}

// WithTolerance sets the zero tolerance used by the selection rules. Zero
// makes the rules compare against exact zero.
func WithTolerance(tol float64) Option {
	return func(c *config) {
		c.tol = tol
	}
}

// WithObserver registers o to receive snapshots while solving.
func WithObserver(o Observer) Option {
	return func(c *config) {
		c.observer = o
	}
}

func newConfig(opts []Option) config {
	cfg := config{
		maxIter: DefaultMaxIterations,
		tol:     DefaultTolerance,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
