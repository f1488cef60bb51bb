package linear

import (
	"github.com/YuminosukeSato/linregg/pkg/errors"
	"github.com/YuminosukeSato/linregg/pkg/log"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// singularTol is the singular value, relative to the largest, below which
// a principal direction is treated as absent.
const singularTol = 1e-12

// PCR fits principal component regression. The design matrix is
// decomposed by a thin SVD and β = Σ θ_m·v_m over the right singular
// vectors v_m in decreasing singular value order, where θ_m is the simple
// regression coefficient of y on z_m = X·v_m.
//
// WithComponents(m) keeps the m leading directions; the default uses all
// of them, which reproduces the OLS fit.
func (m *Model) PCR(opts ...FitOption) (coef *mat.Dense, err error) {
	defer errors.Recover(&err, "Model.PCR")

	cfg := newFitConfig(fitConfig{}, opts)
	if cfg.components < 0 {
		return nil, errors.NewValidationError("components", "must be non-negative", cfg.components)
	}

	var svd mat.SVD
	if ok := svd.Factorize(m.x, mat.SVDThin); !ok {
		return nil, errors.NewModelError("Model.PCR", "svd failed to converge", errors.ErrSingularMatrix)
	}
	values := svd.Values(nil)
	var v mat.Dense
	svd.VTo(&v)

	dirs := len(values)
	if cfg.components > 0 && cfg.components < dirs {
		dirs = cfg.components
	}

	m.logger.Debug("pcr fit started",
		log.OperationKey, log.OperationPCR,
		log.ComponentsKey, dirs,
		log.SamplesKey, m.n,
		log.FeaturesKey, m.p,
	)

	// z_m = X·v_m, shared by every output
	zs := make([][]float64, 0, dirs)
	vs := make([][]float64, 0, dirs)
	for d := 0; d < dirs; d++ {
		if values[d] <= singularTol*values[0] {
			break
		}
		vd := mat.Col(nil, d, &v)
		var z mat.VecDense
		z.MulVec(m.x, mat.NewVecDense(len(vd), vd))
		zs = append(zs, z.RawVector().Data)
		vs = append(vs, vd)
	}

	coef, err = m.fitOutputs(cfg.parallel, func(_ int, y []float64) ([]float64, error) {
		beta := make([]float64, m.p+1)
		for d, z := range zs {
			theta := floats.Dot(z, y) / floats.Dot(z, z)
			floats.AddScaled(beta, theta, vs[d])
		}
		return beta, nil
	})
	if err != nil {
		return nil, err
	}
	if err := errors.CheckMatrix("Model.PCR", coef, 0); err != nil {
		return nil, err
	}
	return coef, nil
}
