package linear

import (
	"github.com/YuminosukeSato/linregg/metrics"
	"github.com/YuminosukeSato/linregg/pkg/errors"
	"github.com/YuminosukeSato/linregg/pkg/log"
	"gonum.org/v1/gonum/mat"
)

// olsFit は計画行列全体に対する最小二乗法の学習結果（メモ化される）
type olsFit struct {
	coef   *mat.Dense // (p+1)×K
	xtxInv *mat.Dense // (XᵗX)⁻¹
	resid  *mat.Dense // N×K
	rss    float64
}

// normalEquations は正規方程式 (XᵗX)β = Xᵗy を逆行列で解く
// 有意性検定で再利用するため、β と (XᵗX)⁻¹ の両方を返す
func normalEquations(op string, x, y mat.Matrix) (coef, xtxInv *mat.Dense, err error) {
	var xtx mat.Dense
	xtx.Mul(x.T(), x)

	xtxInv = &mat.Dense{}
	if err := xtxInv.Inverse(&xtx); err != nil {
		return nil, nil, errors.NewSingularMatrixError(op)
	}

	var xty mat.Dense
	xty.Mul(x.T(), y)

	coef = &mat.Dense{}
	coef.Mul(xtxInv, &xty)
	if err := errors.CheckMatrix(op, coef, 0); err != nil {
		return nil, nil, err
	}
	return coef, xtxInv, nil
}

// residuals は y - Xβ を返す
func residuals(x, y, coef mat.Matrix) *mat.Dense {
	var fitted mat.Dense
	fitted.Mul(x, coef)
	var resid mat.Dense
	resid.Sub(y, &fitted)
	return &resid
}

func (m *Model) fitOLS() (*olsFit, error) {
	if m.ols != nil {
		return m.ols, nil
	}

	m.logger.Debug("ols fit started",
		log.OperationKey, log.OperationSolve,
		log.SamplesKey, m.n,
		log.FeaturesKey, m.p,
		log.TargetsKey, m.k,
	)

	coef, xtxInv, err := normalEquations("Model.Solve", m.x, m.y)
	if err != nil {
		return nil, err
	}
	resid := residuals(m.x, m.y, coef)
	fit := &olsFit{
		coef:   coef,
		xtxInv: xtxInv,
		resid:  resid,
		rss:    metrics.ResidualSS(resid),
	}
	m.ols = fit

	m.logger.Debug("ols fit finished",
		log.OperationKey, log.OperationSolve,
		log.RSSKey, fit.rss,
	)
	return fit, nil
}

// Solve は最小二乗法の係数 (XᵗX)⁻¹Xᵗy を (p+1)×K の行列として返す
// 結果は Standardize までキャッシュされる
func (m *Model) Solve() (coef *mat.Dense, err error) {
	defer errors.Recover(&err, "Model.Solve")

	fit, err := m.fitOLS()
	if err != nil {
		return nil, err
	}
	return mat.DenseCopyOf(fit.coef), nil
}

// Residuals は最小二乗法による N×K の残差を返す
func (m *Model) Residuals() (resid *mat.Dense, err error) {
	defer errors.Recover(&err, "Model.Residuals")

	fit, err := m.fitOLS()
	if err != nil {
		return nil, err
	}
	return mat.DenseCopyOf(fit.resid), nil
}

// RSS は残差行列 R に対する trace(RᵗR) を返す
func (m *Model) RSS() (rss float64, err error) {
	defer errors.Recover(&err, "Model.RSS")

	fit, err := m.fitOLS()
	if err != nil {
		return 0, err
	}
	return fit.rss, nil
}

// Variance はノイズ分散を trace(RᵗR)/(N-p-1) として推定する
func (m *Model) Variance() (v float64, err error) {
	defer errors.Recover(&err, "Model.Variance")

	df := m.n - m.p - 1
	if df <= 0 {
		return 0, errors.NewInsufficientSamplesError("Model.Variance", m.n, m.p+1)
	}
	fit, err := m.fitOLS()
	if err != nil {
		return 0, err
	}
	return fit.rss / float64(df), nil
}
