package linear

import (
	"github.com/YuminosukeSato/linregg/pkg/errors"
	"github.com/YuminosukeSato/linregg/pkg/log"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// PLS fits partial least squares with WithComponents(M) latent directions;
// M outside [1, p] means p. Predictors are centered, then each round builds
// z = Σ φ_j·x_j with φ_j = <x_j, y>, regresses y on z and deflates z out of
// every predictor. The coefficients are β = W(PᵗW)⁻¹θ for weights W and
// loadings P, and the intercept is mean(y) - mean(x)ᵗβ.
//
// The rounds stop early when a latent direction vanishes.
func (m *Model) PLS(opts ...FitOption) (coef *mat.Dense, err error) {
	defer errors.Recover(&err, "Model.PLS")

	cfg := newFitConfig(fitConfig{}, opts)
	comps := cfg.components
	if comps <= 0 || comps > m.p {
		comps = m.p
	}

	m.logger.Debug("pls fit started",
		log.OperationKey, log.OperationPLS,
		log.ComponentsKey, comps,
		log.SamplesKey, m.n,
		log.FeaturesKey, m.p,
	)

	means := make([]float64, m.p)
	for j := range means {
		means[j] = stat.Mean(mat.Col(nil, j+1, m.x), nil)
	}

	coef, err = m.fitOutputs(cfg.parallel, func(_ int, y []float64) ([]float64, error) {
		return m.plsOutput(y, means, comps)
	})
	if err != nil {
		return nil, err
	}
	if err := errors.CheckMatrix("Model.PLS", coef, 0); err != nil {
		return nil, err
	}
	return coef, nil
}

func (m *Model) plsOutput(y, means []float64, comps int) ([]float64, error) {
	ybar := stat.Mean(y, nil)
	yc := make([]float64, m.n)
	for i, v := range y {
		yc[i] = v - ybar
	}

	xs := make([][]float64, m.p)
	for j := range xs {
		xs[j] = mat.Col(nil, j+1, m.x)
		floats.AddConst(-means[j], xs[j])
	}

	var (
		weights  [][]float64
		loadings [][]float64
		thetas   []float64
		phi0     float64
	)
	for round := 0; round < comps; round++ {
		phi := make([]float64, m.p)
		z := make([]float64, m.n)
		var xnorm float64
		for j, x := range xs {
			phi[j] = floats.Dot(x, yc)
			floats.AddScaled(z, phi[j], x)
			xnorm += floats.Dot(x, x)
		}

		// y is fully explained once the weights vanish
		phiNorm := floats.Norm(phi, 2)
		if round == 0 {
			phi0 = phiNorm
		}
		if phiNorm == 0 || phiNorm <= 1e-12*phi0 {
			break
		}
		zz := floats.Dot(z, z)
		if zz == 0 || zz <= vanishTol*phiNorm*phiNorm*xnorm {
			break
		}

		load := make([]float64, m.p)
		for j, x := range xs {
			load[j] = floats.Dot(z, x) / zz
			floats.AddScaled(x, -load[j], z)
		}

		weights = append(weights, phi)
		loadings = append(loadings, load)
		thetas = append(thetas, floats.Dot(z, yc)/zz)
	}

	beta := make([]float64, m.p+1)
	if a := len(thetas); a > 0 {
		w := mat.NewDense(m.p, a, nil)
		p := mat.NewDense(m.p, a, nil)
		for i := 0; i < a; i++ {
			w.SetCol(i, weights[i])
			p.SetCol(i, loadings[i])
		}

		var ptw, inv mat.Dense
		ptw.Mul(p.T(), w)
		if err := inv.Inverse(&ptw); err != nil {
			return nil, errors.NewSingularMatrixError("Model.PLS")
		}

		var b, tmp mat.VecDense
		tmp.MulVec(&inv, mat.NewVecDense(a, thetas))
		b.MulVec(w, &tmp)
		for j := 0; j < m.p; j++ {
			beta[j+1] = b.AtVec(j)
		}
	}
	beta[0] = ybar - floats.Dot(means, beta[1:])
	return beta, nil
}
