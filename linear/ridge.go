package linear

import (
	"github.com/YuminosukeSato/linregg/pkg/errors"
	"github.com/YuminosukeSato/linregg/pkg/log"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Ridge は説明変数列について (XᵗX+λI)β = Xᵗy を解き、各出力の切片を y の平均とする
// 罰則が説明変数間で公平になるのは Standardize 後のみで、Ridge 自身は標準化しない
func (m *Model) Ridge(lambda float64) (coef *mat.Dense, err error) {
	defer errors.Recover(&err, "Model.Ridge")

	if lambda < 0 {
		return nil, errors.NewValidationError("lambda", "must be non-negative", lambda)
	}
	if m.scaler == nil {
		m.logger.Warn("ridge penalty applied to unstandardized predictors",
			log.OperationKey, log.OperationRidge,
		)
	}
	m.logger.Debug("ridge fit started",
		log.OperationKey, log.OperationRidge,
		log.RegularizationKey, lambda,
		log.SamplesKey, m.n,
		log.FeaturesKey, m.p,
	)

	coef = mat.NewDense(m.p+1, m.k, nil)
	col := make([]float64, m.n)
	for k := 0; k < m.k; k++ {
		mat.Col(col, k, m.y)
		coef.Set(0, k, stat.Mean(col, nil))
	}
	if m.p == 0 {
		return coef, nil
	}

	x := m.x.Slice(0, m.n, 1, m.p+1)

	var a mat.Dense
	a.Mul(x.T(), x)
	for j := 0; j < m.p; j++ {
		a.Set(j, j, a.At(j, j)+lambda)
	}

	var inv mat.Dense
	if err := errors.SafeExecute("Model.Ridge", func() error { return inv.Inverse(&a) }); err != nil {
		return nil, errors.NewSingularMatrixError("Model.Ridge")
	}

	var xty mat.Dense
	xty.Mul(x.T(), m.y)

	beta := coef.Slice(1, m.p+1, 0, m.k).(*mat.Dense)
	beta.Mul(&inv, &xty)

	if err := errors.CheckMatrix("Model.Ridge", coef, 0); err != nil {
		return nil, err
	}
	return coef, nil
}
