// Package linear fits linear regression models on an in-memory design
// matrix: ordinary least squares, ridge, least-angle regression and its
// lasso variant, principal-component regression, partial least squares and
// incremental forward stagewise, plus coefficient significance tests.
//
// Every estimator reads one shared Model. The only mutation is the
// one-time Standardize step, which also drops every cached fit.
//
//	m, err := linear.New(X, y)
//	if err != nil { ... }
//	if err := m.Standardize(); err != nil { ... }
//	coef, err := m.Ridge(0.5)
package linear

import (
	"github.com/YuminosukeSato/linregg/core/parallel"
	"github.com/YuminosukeSato/linregg/metrics"
	"github.com/YuminosukeSato/linregg/pkg/errors"
	"github.com/YuminosukeSato/linregg/pkg/log"
	"github.com/YuminosukeSato/linregg/preprocessing"
	"gonum.org/v1/gonum/mat"
)

// Model は計画行列・応答とそこから導かれる学習結果を保持する
// 並行した変更に対しては安全ではない
type Model struct {
	x *mat.Dense // N×(p+1)、0列目が切片
	y *mat.Dense // N×K

	n, p, k int

	augmented bool
	scaler    *preprocessing.StandardScaler
	logger    log.Logger

	// キャッシュ済みの学習結果（Standardize で破棄）
	ols  *olsFit
	orth *Orthogonalization
}

// New は N×p の入力と N×K の応答から Model を作成する
// WithAugmented(true) を指定しない限り、先頭に切片列（すべて1）を追加する
func New(x, y mat.Matrix, opts ...Option) (*Model, error) {
	m := &Model{}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = log.GetLogger().With(
			log.ModelNameKey, "Model",
			log.ComponentKey, "linear",
		)
	}

	r, c := x.Dims()
	ry, cy := y.Dims()
	if r == 0 || c == 0 || cy == 0 {
		return nil, errors.NewModelError("linear.New", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return nil, errors.NewDimensionError("linear.New", r, ry, 0)
	}

	if m.augmented {
		m.x = mat.DenseCopyOf(x)
	} else {
		m.x = withIntercept(x)
	}
	m.y = mat.DenseCopyOf(y)
	m.n, m.k = r, cy
	_, cols := m.x.Dims()
	m.p = cols - 1

	m.logger.Debug("model constructed",
		log.OperationKey, log.OperationConstruct,
		log.SamplesKey, m.n,
		log.FeaturesKey, m.p,
		log.TargetsKey, m.k,
	)
	return m, nil
}

// 切片列の付加を並列化する行数の閾値
const parallelThreshold = 1000

// withIntercept は [1 | x] を返す
func withIntercept(x mat.Matrix) *mat.Dense {
	r, c := x.Dims()
	out := mat.NewDense(r, c+1, nil)
	parallel.ParallelizeWithThreshold(r, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			out.Set(i, 0, 1.0) // 切片項
			for j := 0; j < c; j++ {
				out.Set(i, j+1, x.At(i, j))
			}
		}
	})
	return out
}

// Standardize は各説明変数列を (x-平均)/標準偏差 に置き換える
// 標準偏差は全N行の母標準偏差を用い、切片列は変更しない
// 元に戻せない一度きりの操作で、保存したパラメータは StandardizeQuery が再利用する
func (m *Model) Standardize() (err error) {
	defer errors.Recover(&err, "Model.Standardize")

	if m.scaler != nil {
		return errors.NewModelError("Model.Standardize", "already standardized", errors.ErrAlreadyStandardized)
	}
	if m.p == 0 {
		return errors.NewValueError("Model.Standardize", "model has no predictor columns")
	}

	predictors := m.x.Slice(0, m.n, 1, m.p+1).(*mat.Dense)
	scaler := preprocessing.NewStandardScaler()
	scaled, err := scaler.FitTransform(predictors)
	if err != nil {
		return err
	}
	predictors.Copy(scaled)

	m.scaler = scaler
	m.ols = nil
	m.orth = nil

	m.logger.Debug("predictors standardized",
		log.OperationKey, log.OperationStandardize,
		log.SamplesKey, m.n,
		log.FeaturesKey, m.p,
	)
	return nil
}

// StandardizeQuery は保存済みの標準化を新しい N'×p の行に適用し、切片列を付加する
func (m *Model) StandardizeQuery(x mat.Matrix) (*mat.Dense, error) {
	if m.scaler == nil {
		return nil, errors.NewUndefinedStandardizationError("Model.StandardizeQuery")
	}
	scaled, err := m.scaler.Transform(x)
	if err != nil {
		return nil, err
	}
	return withIntercept(scaled), nil
}

// Dims は観測数N、説明変数の数p、応答の列数Kを返す
func (m *Model) Dims() (n, p, k int) {
	return m.n, m.p, m.k
}

// X は現在の計画行列のコピーを返す
func (m *Model) X() *mat.Dense {
	return mat.DenseCopyOf(m.x)
}

// Y は応答行列のコピーを返す
func (m *Model) Y() *mat.Dense {
	return mat.DenseCopyOf(m.y)
}

// Standardized は Standardize 済みかどうかを返す
func (m *Model) Standardized() bool {
	return m.scaler != nil
}

// Scaler は学習済みのスケーラーを返す（Standardize 前は nil）
func (m *Model) Scaler() *preprocessing.StandardScaler {
	return m.scaler
}

// Predict は標準化前の N'×p の行に対して coef による予測を行う
// モデルが標準化済みの場合は先に行を標準化する
func (m *Model) Predict(coef, x mat.Matrix) (pred *mat.Dense, err error) {
	defer errors.Recover(&err, "Model.Predict")

	rows, _ := coef.Dims()
	if rows != m.p+1 {
		return nil, errors.NewDimensionError("Model.Predict", m.p+1, rows, 0)
	}

	var design *mat.Dense
	if m.scaler != nil {
		design, err = m.StandardizeQuery(x)
		if err != nil {
			return nil, err
		}
	} else {
		if _, c := x.Dims(); c != m.p {
			return nil, errors.NewDimensionError("Model.Predict", m.p, c, 1)
		}
		design = withIntercept(x)
	}

	pred = &mat.Dense{}
	pred.Mul(design, coef)
	return pred, nil
}

// Score は学習データに対する coef の決定係数（R²）を応答列ごとに平均して返す
func (m *Model) Score(coef mat.Matrix) (score float64, err error) {
	defer errors.Recover(&err, "Model.Score")

	rows, cols := coef.Dims()
	if rows != m.p+1 {
		return 0, errors.NewDimensionError("Model.Score", m.p+1, rows, 0)
	}
	if cols != m.k {
		return 0, errors.NewDimensionError("Model.Score", m.k, cols, 1)
	}

	var pred mat.Dense
	pred.Mul(m.x, coef)
	return metrics.R2ScoreMatrix(m.y, &pred)
}

// fitOutputs は応答列ごとに fit を実行し（指定があれば並列に）、
// (p+1)×K の係数行列を組み立てる
func (m *Model) fitOutputs(concurrent bool, fit func(k int, y []float64) ([]float64, error)) (*mat.Dense, error) {
	coef := mat.NewDense(m.p+1, m.k, nil)
	err := parallel.ForEach(m.k, concurrent, func(k int) error {
		y := mat.Col(nil, k, m.y)
		beta, err := fit(k, y)
		if err != nil {
			return err
		}
		coef.SetCol(k, beta)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return coef, nil
}
