package linear

import (
	"math"

	"github.com/YuminosukeSato/linregg/metrics"
	"github.com/YuminosukeSato/linregg/pkg/errors"
	"github.com/YuminosukeSato/linregg/pkg/log"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// survivor is the upper-tail probability of a reference distribution.
type survivor interface {
	Survival(x float64) float64
}

// FTestResult is the outcome of a nested-model F-test.
type FTestResult struct {
	F      float64
	PValue float64
	DFNum  int
	DFDen  int

	// Worse is true when PValue lies outside the central band
	// [pValue/2, 1-pValue/2], read as "the reduced model is worse".
	Worse bool
}

func (m *Model) checkOutput(k int) error {
	if k < 0 || k >= m.k {
		return errors.NewValidationError("output", "must index a response column", k)
	}
	return nil
}

func (m *Model) checkIndex(index int) error {
	if index < 0 || index > m.p {
		return errors.NewValidationError("index", "must be a coefficient index in [0, p]", index)
	}
	return nil
}

func (m *Model) testVariance(cfg testConfig) (float64, error) {
	if cfg.hasVariance {
		if cfg.variance <= 0 {
			return 0, errors.NewValidationError("variance", "must be positive", cfg.variance)
		}
		return cfg.variance, nil
	}
	return m.Variance()
}

func (m *Model) scoreDistribution(cfg testConfig) (survivor, error) {
	if !cfg.studentT {
		return distuv.UnitNormal, nil
	}
	df := m.n - m.p - 1
	if df <= 0 {
		return nil, errors.NewInsufficientSamplesError("Model.IsSignificant", m.n, m.p+1)
	}
	return distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(df)}, nil
}

// insideBand reports whether prob lies in [pValue/2, 1-pValue/2].
func insideBand(prob, pValue float64) bool {
	return prob >= pValue/2 && prob <= 1-pValue/2
}

func (m *Model) zScore(index int, cfg testConfig) (float64, error) {
	if err := m.checkIndex(index); err != nil {
		return 0, err
	}
	if err := m.checkOutput(cfg.output); err != nil {
		return 0, err
	}
	fit, err := m.fitOLS()
	if err != nil {
		return 0, err
	}
	v, err := m.testVariance(cfg)
	if err != nil {
		return 0, err
	}
	return fit.coef.At(index, cfg.output) / math.Sqrt(v*fit.xtxInv.At(index, index)), nil
}

// ZScore returns β̂[index] / sqrt(σ²·diag((XᵗX)⁻¹)[index]). σ² defaults to
// the OLS variance estimate.
func (m *Model) ZScore(index int, opts ...TestOption) (z float64, err error) {
	defer errors.Recover(&err, "Model.ZScore")
	return m.zScore(index, newTestConfig(opts))
}

// IsSignificant evaluates the survival probability of the coefficient's
// score and returns true when it falls inside [pValue/2, 1-pValue/2].
//
// Note the sense: true means the hypothesis that the coefficient is zero
// is NOT rejected at the given level.
func (m *Model) IsSignificant(index int, opts ...TestOption) (inside bool, err error) {
	defer errors.Recover(&err, "Model.IsSignificant")

	cfg := newTestConfig(opts)
	return m.isSignificant(index, cfg)
}

func (m *Model) isSignificant(index int, cfg testConfig) (bool, error) {
	if cfg.pValue <= 0 || cfg.pValue >= 1 {
		return false, errors.NewValidationError("pValue", "must lie in (0, 1)", cfg.pValue)
	}
	z, err := m.zScore(index, cfg)
	if err != nil {
		return false, err
	}
	dist, err := m.scoreDistribution(cfg)
	if err != nil {
		return false, err
	}
	return insideBand(dist.Survival(z), cfg.pValue), nil
}

// BestSubset returns, in ascending order, the coefficient indices whose
// zero hypothesis is rejected, i.e. those for which IsSignificant is false.
func (m *Model) BestSubset(opts ...TestOption) (indices []int, err error) {
	defer errors.Recover(&err, "Model.BestSubset")

	cfg := newTestConfig(opts)
	m.logger.Debug("best subset selection started",
		log.OperationKey, log.OperationSignificance,
		log.FeaturesKey, m.p,
	)
	for index := 0; index <= m.p; index++ {
		inside, err := m.isSignificant(index, cfg)
		if err != nil {
			return nil, err
		}
		if !inside {
			indices = append(indices, index)
		}
	}
	return indices, nil
}

// BestSubsetSolve refits OLS on the given design columns and returns a
// len(indices)×K matrix in the order of indices. A nil slice selects the
// columns with BestSubset at default settings.
func (m *Model) BestSubsetSolve(indices []int) (coef *mat.Dense, err error) {
	defer errors.Recover(&err, "Model.BestSubsetSolve")

	if indices == nil {
		indices, err = m.BestSubset()
		if err != nil {
			return nil, err
		}
	}
	if len(indices) == 0 {
		return nil, errors.NewValidationError("indices", "subset must not be empty", indices)
	}
	for _, j := range indices {
		if err := m.checkIndex(j); err != nil {
			return nil, err
		}
	}

	coef, _, err = normalEquations("Model.BestSubsetSolve", m.columns(indices), m.y)
	return coef, err
}

// columns returns the design matrix restricted to cols, in that order.
func (m *Model) columns(cols []int) *mat.Dense {
	out := mat.NewDense(m.n, len(cols), nil)
	buf := make([]float64, m.n)
	for i, j := range cols {
		mat.Col(buf, j, m.x)
		out.SetCol(i, buf)
	}
	return out
}

// FTest compares the full model against the model with the excluded
// coefficient indices dropped. The intercept can not be excluded.
//
// F = ((RSS_reduced-RSS_full)/(p_full-p_reduced)) / (RSS_full/(N-p-1)).
//
// An empty exclusion list yields F=0 and a p-value of 1.
func (m *Model) FTest(excluded []int, pValue float64) (res *FTestResult, err error) {
	defer errors.Recover(&err, "Model.FTest")

	if pValue <= 0 || pValue >= 1 {
		return nil, errors.NewValidationError("pValue", "must lie in (0, 1)", pValue)
	}
	drop := make(map[int]bool, len(excluded))
	for _, j := range excluded {
		if j <= 0 || j > m.p {
			return nil, errors.NewValidationError("excluded", "indices must lie in [1, p]", j)
		}
		drop[j] = true
	}

	dfDen := m.n - m.p - 1
	if dfDen <= 0 {
		return nil, errors.NewInsufficientSamplesError("Model.FTest", m.n, m.p+1)
	}
	if len(drop) == 0 {
		return &FTestResult{F: 0, PValue: 1, DFDen: dfDen, Worse: !insideBand(1, pValue)}, nil
	}

	full, err := m.fitOLS()
	if err != nil {
		return nil, err
	}

	keep := make([]int, 0, m.p+1-len(drop))
	for j := 0; j <= m.p; j++ {
		if !drop[j] {
			keep = append(keep, j)
		}
	}

	xr := m.columns(keep)
	coef, _, err := normalEquations("Model.FTest", xr, m.y)
	if err != nil {
		return nil, err
	}
	rssReduced := metrics.ResidualSS(residuals(xr, m.y, coef))

	dfNum := len(drop)
	f := ((rssReduced - full.rss) / float64(dfNum)) / (full.rss / float64(dfDen))
	if err := errors.CheckScalar("Model.FTest", f, 0); err != nil {
		return nil, err
	}
	prob := distuv.F{D1: float64(dfNum), D2: float64(dfDen)}.Survival(f)

	m.logger.Debug("f-test finished",
		log.OperationKey, log.OperationFTest,
		log.RSSKey, rssReduced,
		"f", f,
		"p_value", prob,
	)

	return &FTestResult{
		F:      f,
		PValue: prob,
		DFNum:  dfNum,
		DFDen:  dfDen,
		Worse:  !insideBand(prob, pValue),
	}, nil
}
