package linear

import (
	"math"

	"github.com/YuminosukeSato/linregg/pkg/errors"
	"github.com/YuminosukeSato/linregg/pkg/log"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// vanishTol is the relative squared norm below which a Gram-Schmidt
// residual counts as zero.
const vanishTol = 1e-20

// Orthogonalization is the result of regression by successive
// orthogonalization.
type Orthogonalization struct {
	// Coef holds, for every basis vector z_j, the simple regression
	// coefficient of each response column on z_j. (p+1)×K.
	Coef *mat.Dense

	// Z holds the orthogonal basis z_0..z_p as columns. N×(p+1).
	Z *mat.Dense

	// Gamma is unit upper triangular with X = Z·Gamma.
	Gamma *mat.Dense

	// D holds the norms of the basis vectors.
	D *mat.DiagDense

	// Q and R are filled only when the decomposition was requested.
	// Q = Z·D⁻¹ has orthonormal columns, R = D·Gamma and X = Q·R.
	Q *mat.Dense
	R *mat.Dense
}

// Orthogonalize builds an orthogonal basis of the design columns by
// classical Gram-Schmidt: z_0 is the intercept, and z_j is column j with
// its projections onto z_0..z_{j-1} removed. Coefficient j is the simple
// regression of y on z_j, so the last one equals the multiple regression
// coefficient of the last predictor.
//
// With decompose set, Q and R are filled as well. The result is cached
// until Standardize.
func (m *Model) Orthogonalize(decompose bool) (res *Orthogonalization, err error) {
	defer errors.Recover(&err, "Model.Orthogonalize")

	if m.orth == nil {
		m.logger.Debug("orthogonalization started",
			log.OperationKey, log.OperationOrthogonal,
			log.SamplesKey, m.n,
			log.FeaturesKey, m.p,
		)
		orth, err := m.gramSchmidt()
		if err != nil {
			return nil, err
		}
		m.orth = orth
	}
	if decompose && m.orth.Q == nil {
		m.orth.decompose()
	}
	return m.orth, nil
}

func (m *Model) gramSchmidt() (*Orthogonalization, error) {
	cols := m.p + 1
	zs := make([][]float64, cols)
	norms := make([]float64, cols)
	gamma := mat.NewDense(cols, cols, nil)

	for j := 0; j < cols; j++ {
		x := mat.Col(nil, j, m.x)
		z := make([]float64, m.n)
		copy(z, x)
		for l := 0; l < j; l++ {
			g := floats.Dot(zs[l], x) / norms[l]
			gamma.Set(l, j, g)
			floats.AddScaled(z, -g, zs[l])
		}
		gamma.Set(j, j, 1)

		norm := floats.Dot(z, z)
		if norm == 0 || norm <= vanishTol*floats.Dot(x, x) {
			return nil, errors.NewSingularMatrixError("Model.Orthogonalize")
		}
		zs[j] = z
		norms[j] = norm
	}

	z := mat.NewDense(m.n, cols, nil)
	for j, col := range zs {
		z.SetCol(j, col)
	}

	coef := mat.NewDense(cols, m.k, nil)
	y := make([]float64, m.n)
	for k := 0; k < m.k; k++ {
		mat.Col(y, k, m.y)
		for j := 0; j < cols; j++ {
			coef.Set(j, k, floats.Dot(zs[j], y)/norms[j])
		}
	}

	d := mat.NewDiagDense(cols, nil)
	for j, n2 := range norms {
		d.SetDiag(j, math.Sqrt(n2))
	}

	return &Orthogonalization{Coef: coef, Z: z, Gamma: gamma, D: d}, nil
}

func (o *Orthogonalization) decompose() {
	n, cols := o.Z.Dims()

	q := mat.NewDense(n, cols, nil)
	q.Apply(func(i, j int, v float64) float64 {
		return v / o.D.At(j, j)
	}, o.Z)

	r := mat.NewDense(cols, cols, nil)
	r.Mul(o.D, o.Gamma)

	o.Q = q
	o.R = r
}

// OrthogonalVariance returns the OLS variance estimate divided by the
// squared norm of the last basis vector, the variance of the last
// predictor's coefficient.
func (m *Model) OrthogonalVariance() (v float64, err error) {
	defer errors.Recover(&err, "Model.OrthogonalVariance")

	orth, err := m.Orthogonalize(false)
	if err != nil {
		return 0, err
	}
	variance, err := m.Variance()
	if err != nil {
		return 0, err
	}
	last := orth.D.At(m.p, m.p)
	return variance / (last * last), nil
}
