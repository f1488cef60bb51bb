package linear

import (
	"github.com/YuminosukeSato/linregg/pkg/log"
)

// Option is a function that configures a Model at construction.
type Option func(*Model)

// WithAugmented declares that column 0 of the input already is the
// intercept column, so New does not prepend one.
func WithAugmented(augmented bool) Option {
	return func(m *Model) {
		m.augmented = augmented
	}
}

// WithLogger sets the logger the model and its estimators write to.
func WithLogger(logger log.Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// fitConfig holds the hyperparameters shared by the iterative and
// component-based estimators. Each estimator starts from its own defaults.
type fitConfig struct {
	step       float64
	maxSteps   int
	tolerance  float64
	components int
	parallel   bool
}

// FitOption is a function that configures an estimator run.
type FitOption func(*fitConfig)

// WithStep sets the fixed step of LAR (alpha) and forward stagewise (epsilon).
func WithStep(step float64) FitOption {
	return func(c *fitConfig) {
		c.step = step
	}
}

// WithMaxSteps bounds the number of coefficient updates per output column.
func WithMaxSteps(n int) FitOption {
	return func(c *fitConfig) {
		c.maxSteps = n
	}
}

// WithTolerance sets the correlation below which a residual counts as
// uncorrelated with every predictor.
func WithTolerance(tol float64) FitOption {
	return func(c *fitConfig) {
		c.tolerance = tol
	}
}

// WithComponents sets the number of directions used by PCR and PLS.
// Zero keeps the estimator's default.
func WithComponents(m int) FitOption {
	return func(c *fitConfig) {
		c.components = m
	}
}

// WithParallel fits independent response columns concurrently.
func WithParallel(parallel bool) FitOption {
	return func(c *fitConfig) {
		c.parallel = parallel
	}
}

func newFitConfig(defaults fitConfig, opts []FitOption) fitConfig {
	cfg := defaults
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// testConfig holds the parameters of a coefficient significance test.
type testConfig struct {
	variance    float64
	hasVariance bool
	pValue      float64
	studentT    bool
	output      int
}

// TestOption is a function that configures a significance test.
type TestOption func(*testConfig)

// WithVariance supplies the noise variance instead of the OLS estimate.
func WithVariance(v float64) TestOption {
	return func(c *testConfig) {
		c.variance = v
		c.hasVariance = true
	}
}

// WithPValue sets the two-sided significance level. Default 0.05.
func WithPValue(p float64) TestOption {
	return func(c *testConfig) {
		c.pValue = p
	}
}

// WithStudentT evaluates scores under Student-t with N-p-1 degrees of
// freedom instead of the standard normal.
func WithStudentT(useT bool) TestOption {
	return func(c *testConfig) {
		c.studentT = useT
	}
}

// WithOutput selects the response column whose coefficients are tested.
func WithOutput(k int) TestOption {
	return func(c *testConfig) {
		c.output = k
	}
}

func newTestConfig(opts []TestOption) testConfig {
	cfg := testConfig{pValue: 0.05}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
