package linear

import (
	"math"

	"github.com/YuminosukeSato/linregg/pkg/errors"
	"github.com/YuminosukeSato/linregg/pkg/log"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

func defaultStagewiseConfig() fitConfig {
	return fitConfig{step: 0.01, maxSteps: 100000, tolerance: 1e-6}
}

// Stagewise fits incremental forward stagewise regression. Starting from
// zero, the predictor most correlated with the residual has its
// coefficient moved by ε in the direction of the correlation, until no
// predictor is correlated beyond the tolerance or a further ε-step would no
// longer lower the residual sum of squares.
func (m *Model) Stagewise(opts ...FitOption) (coef *mat.Dense, err error) {
	defer errors.Recover(&err, "Model.Stagewise")

	cfg := newFitConfig(defaultStagewiseConfig(), opts)
	if cfg.step <= 0 {
		return nil, errors.NewValidationError("step", "must be positive", cfg.step)
	}
	if cfg.maxSteps <= 0 {
		return nil, errors.NewValidationError("maxSteps", "must be positive", cfg.maxSteps)
	}

	m.logger.Debug("stagewise fit started",
		log.OperationKey, log.OperationStagewise,
		log.StepSizeKey, cfg.step,
		log.SamplesKey, m.n,
		log.FeaturesKey, m.p,
	)

	// column 0 of cols stays nil so mostCorrelated skips the intercept
	means := make([]float64, m.p+1)
	cols := make([][]float64, m.p+1)
	for j := 1; j <= m.p; j++ {
		cols[j] = mat.Col(nil, j, m.x)
		means[j] = stat.Mean(cols[j], nil)
		floats.AddConst(-means[j], cols[j])
	}

	coef, err = m.fitOutputs(cfg.parallel, func(k int, y []float64) ([]float64, error) {
		return m.stagewiseOutput(k, cols, means, y, cfg), nil
	})
	if err != nil {
		return nil, err
	}
	if err := errors.CheckMatrix("Model.Stagewise", coef, 0); err != nil {
		return nil, err
	}
	return coef, nil
}

func (m *Model) stagewiseOutput(k int, cols [][]float64, means, y []float64, cfg fitConfig) []float64 {
	beta := make([]float64, m.p+1)
	ybar := stat.Mean(y, nil)
	resid := make([]float64, m.n)
	for i, v := range y {
		resid[i] = v - ybar
	}

	steps := 0
	for ; steps < cfg.maxSteps; steps++ {
		j, corr := mostCorrelated(cols, resid)
		if j == 0 || corr <= cfg.tolerance {
			break
		}
		xr := floats.Dot(cols[j], resid)
		// ‖r - δx‖² < ‖r‖² iff ε‖x‖² < 2|<x,r>|
		if cfg.step*floats.Dot(cols[j], cols[j]) >= 2*math.Abs(xr) {
			break
		}
		delta := math.Copysign(cfg.step, xr)
		beta[j] += delta
		floats.AddScaled(resid, -delta, cols[j])
	}
	if steps == cfg.maxSteps {
		errors.Warn(errors.NewConvergenceWarning(log.OperationStagewise, steps, "step budget exhausted"))
	}

	m.logger.Debug("stagewise fit finished",
		log.OperationKey, log.OperationStagewise,
		log.OutputKey, k,
		log.IterationKey, steps,
		log.RSSKey, floats.Dot(resid, resid),
	)

	beta[0] = ybar - floats.Dot(means[1:], beta[1:])
	return beta
}
