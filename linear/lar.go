package linear

import (
	"math"
	"slices"
	"sort"

	"github.com/YuminosukeSato/linregg/pkg/errors"
	"github.com/YuminosukeSato/linregg/pkg/log"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Removal records a predictor dropped from the lasso active set.
type Removal struct {
	Step  int // coefficient update that crossed zero, 1-based
	Index int // design column
}

// LARPath describes the path LAR took for one response column.
type LARPath struct {
	// Active is the final active set in ascending column order. It always
	// starts with the intercept column 0.
	Active []int

	// Sizes is the active-set size after every insertion and update.
	Sizes []int

	Removals []Removal

	// Steps counts the coefficient updates.
	Steps int
}

// LARResult holds the coefficients of a LAR fit and the per-output paths.
type LARResult struct {
	Coef  *mat.Dense // (p+1)×K
	Paths []LARPath
}

func defaultLARConfig() fitConfig {
	return fitConfig{step: 0.1, maxSteps: 10000, tolerance: 1e-6}
}

// LAR runs fixed-step least angle regression on every response column.
//
// The active set starts with the intercept at mean(y). Each round the
// predictor most correlated with the residual is located; an inactive one
// joins the active set at its ascending position with a zero coefficient,
// an active one triggers an update β += α·(AᵗA)⁻¹Aᵗr over the active
// columns A. At most min(p, N-1) predictors enter. The path ends once no
// predictor is correlated with the residual beyond the tolerance.
//
// Reaching the entry limit does not end the path by itself: updates go on
// while the most correlated predictor is active, and the path ends the
// first time an inactive predictor would have to enter.
func (m *Model) LAR(opts ...FitOption) (res *LARResult, err error) {
	defer errors.Recover(&err, "Model.LAR")
	return m.lar(log.OperationLAR, false, opts)
}

// LARLasso is LAR with the lasso modification: after every update, any
// predictor whose coefficient changed sign or landed on zero is dropped
// from the active set.
func (m *Model) LARLasso(opts ...FitOption) (res *LARResult, err error) {
	defer errors.Recover(&err, "Model.LARLasso")
	return m.lar(log.OperationLasso, true, opts)
}

func (m *Model) lar(op string, lasso bool, opts []FitOption) (*LARResult, error) {
	cfg := newFitConfig(defaultLARConfig(), opts)
	if cfg.step <= 0 {
		return nil, errors.NewValidationError("step", "must be positive", cfg.step)
	}
	if cfg.maxSteps <= 0 {
		return nil, errors.NewValidationError("maxSteps", "must be positive", cfg.maxSteps)
	}
	if cfg.tolerance < 0 {
		return nil, errors.NewValidationError("tolerance", "must be non-negative", cfg.tolerance)
	}

	m.logger.Debug("lar fit started",
		log.OperationKey, op,
		log.StepSizeKey, cfg.step,
		log.SamplesKey, m.n,
		log.FeaturesKey, m.p,
		log.TargetsKey, m.k,
	)

	cols := make([][]float64, m.p+1)
	for j := range cols {
		cols[j] = mat.Col(nil, j, m.x)
	}

	paths := make([]LARPath, m.k)
	coef, err := m.fitOutputs(cfg.parallel, func(k int, y []float64) ([]float64, error) {
		beta, path, err := m.larPath(op, k, cols, y, cfg, lasso)
		if err != nil {
			return nil, err
		}
		paths[k] = path
		return beta, nil
	})
	if err != nil {
		return nil, err
	}
	if err := errors.CheckMatrix("Model.LAR", coef, 0); err != nil {
		return nil, err
	}

	m.logger.Debug("lar fit finished",
		log.OperationKey, op,
		log.ActiveSizeKey, len(paths[0].Active),
		log.IterationKey, paths[0].Steps,
	)
	return &LARResult{Coef: coef, Paths: paths}, nil
}

func (m *Model) larPath(op string, k int, cols [][]float64, y []float64, cfg fitConfig, lasso bool) ([]float64, LARPath, error) {
	active := []int{0}
	beta := []float64{stat.Mean(y, nil)}
	path := LARPath{Sizes: []int{1}}

	budget := min(m.p, m.n-1)
	yss := centeredSS(y)
	resid := make([]float64, m.n)

	for {
		activeResidual(resid, y, cols, active, beta)
		j, corr := mostCorrelated(cols, resid)
		if j == 0 || corr <= cfg.tolerance || centeredSS(resid) <= cfg.tolerance*cfg.tolerance*yss {
			break
		}

		pos := sort.SearchInts(active, j)
		if pos == len(active) || active[pos] != j {
			if len(active)-1 >= budget {
				break
			}
			active = slices.Insert(active, pos, j)
			beta = slices.Insert(beta, pos, 0)
			path.Sizes = append(path.Sizes, len(active))
			continue
		}

		if path.Steps == cfg.maxSteps {
			errors.Warn(errors.NewConvergenceWarning(op, path.Steps, "step budget exhausted before the residual decorrelated"))
			break
		}

		delta, err := activeDirection(m.n, cols, active, resid)
		if err != nil {
			return nil, LARPath{}, err
		}
		prev := slices.Clone(beta)
		floats.AddScaled(beta, cfg.step, delta)
		path.Steps++
		if err := errors.CheckNumericalStability(op, beta, path.Steps); err != nil {
			return nil, LARPath{}, err
		}

		if lasso {
			var removed []int
			active, beta, removed = dropCrossings(active, prev, beta)
			for _, idx := range removed {
				path.Removals = append(path.Removals, Removal{Step: path.Steps, Index: idx})
				m.logger.Debug("predictor left the active set",
					log.OperationKey, op,
					log.OutputKey, k,
					log.RemovedIndexKey, idx,
					log.IterationKey, path.Steps,
				)
			}
		}
		path.Sizes = append(path.Sizes, len(active))
	}

	full := make([]float64, m.p+1)
	for i, j := range active {
		full[j] = beta[i]
	}
	path.Active = active
	return full, path, nil
}

// activeResidual writes y - Σ beta[i]·cols[active[i]] into dst.
func activeResidual(dst, y []float64, cols [][]float64, active []int, beta []float64) {
	copy(dst, y)
	for i, j := range active {
		floats.AddScaled(dst, -beta[i], cols[j])
	}
}

// mostCorrelated scans predictors 1..p left to right and returns the first
// one with the largest absolute Pearson correlation with r. An undefined
// correlation counts as zero. It returns 0 when there are no predictors.
func mostCorrelated(cols [][]float64, r []float64) (int, float64) {
	best, bestCorr := 0, -1.0
	for j := 1; j < len(cols); j++ {
		c := math.Abs(stat.Correlation(cols[j], r, nil))
		if math.IsNaN(c) {
			c = 0
		}
		if c > bestCorr {
			best, bestCorr = j, c
		}
	}
	return best, bestCorr
}

// activeDirection returns (AᵗA)⁻¹Aᵗr for the active columns A.
func activeDirection(n int, cols [][]float64, active []int, r []float64) ([]float64, error) {
	a := mat.NewDense(n, len(active), nil)
	for i, j := range active {
		a.SetCol(i, cols[j])
	}
	delta, _, err := normalEquations("Model.LAR", a, mat.NewVecDense(n, r))
	if err != nil {
		return nil, err
	}
	return mat.Col(nil, 0, delta), nil
}

// dropCrossings removes every non-intercept entry whose coefficient
// changed sign between prev and next or is exactly zero in next.
func dropCrossings(active []int, prev, next []float64) ([]int, []float64, []int) {
	keptActive := active[:0:0]
	keptBeta := next[:0:0]
	var removed []int
	for i, j := range active {
		crossed := next[i] == 0 || prev[i]*next[i] < 0
		if j != 0 && crossed {
			removed = append(removed, j)
			continue
		}
		keptActive = append(keptActive, j)
		keptBeta = append(keptBeta, next[i])
	}
	return keptActive, keptBeta, removed
}

// centeredSS returns Σ(v_i - mean(v))².
func centeredSS(v []float64) float64 {
	mean := stat.Mean(v, nil)
	var ss float64
	for _, x := range v {
		d := x - mean
		ss += d * d
	}
	return ss
}
