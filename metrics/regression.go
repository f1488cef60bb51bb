// Package metrics は回帰の評価指標を提供する
// 多出力（N×K）の場合、RSS は残差行列 R に対する trace(RᵗR)、
// MSE・RMSE・MAE は全要素の平均として定義する
package metrics

import (
	"math"

	"github.com/YuminosukeSato/linregg/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// checkShape は yTrue と yPred が同じ形状の空でない行列であることを確認する
func checkShape(op string, yTrue, yPred mat.Matrix) (int, int, error) {
	r, c := yTrue.Dims()
	if r == 0 || c == 0 {
		return 0, 0, errors.NewValueError(op, "empty matrix")
	}
	rp, cp := yPred.Dims()
	if rp != r {
		return 0, 0, errors.NewDimensionError(op, r, rp, 0)
	}
	if cp != c {
		return 0, 0, errors.NewDimensionError(op, c, cp, 1)
	}
	return r, c, nil
}

// RSS は残差平方和を計算する
// yTrue と yPred は同じ形状（N×K）でなければならない
func RSS(yTrue, yPred mat.Matrix) (float64, error) {
	if _, _, err := checkShape("RSS", yTrue, yPred); err != nil {
		return 0, err
	}

	var resid mat.Dense
	resid.Sub(yTrue, yPred)
	return ResidualSS(&resid), nil
}

// ResidualSS は残差行列 R から trace(RᵗR) を計算する
func ResidualSS(resid mat.Matrix) float64 {
	var rtr mat.Dense
	rtr.Mul(resid.T(), resid)
	return mat.Trace(&rtr)
}

// MSE は全要素の平均二乗誤差 RSS/(N·K) を計算する
func MSE(yTrue, yPred mat.Matrix) (float64, error) {
	r, c, err := checkShape("MSE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var resid mat.Dense
	resid.Sub(yTrue, yPred)
	return ResidualSS(&resid) / float64(r*c), nil
}

// RMSE は MSE の平方根
func RMSE(yTrue, yPred mat.Matrix) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE は全要素の平均絶対誤差を計算する
func MAE(yTrue, yPred mat.Matrix) (float64, error) {
	r, c, err := checkShape("MAE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var sum float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			sum += math.Abs(yTrue.At(i, j) - yPred.At(i, j))
		}
	}
	return sum / float64(r*c), nil
}

// R2Score は1出力の決定係数（R²）を計算する
// yTrue が定数の場合は定義できないためエラーを返す
func R2Score(yTrue, yPred mat.Vector) (float64, error) {
	if _, _, err := checkShape("R2Score", yTrue, yPred); err != nil {
		return 0, err
	}

	truth := mat.Col(nil, 0, yTrue)
	if _, variance := stat.PopMeanVariance(truth, nil); variance == 0 {
		return 0, errors.Newf("R2Score: total sum of squares is zero (no variance in yTrue)")
	}
	return stat.RSquaredFrom(mat.Col(nil, 0, yPred), truth, nil), nil
}

// R2ScoreMatrix は列ごとの R² の平均を計算する（多出力用）
func R2ScoreMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	_, c, err := checkShape("R2ScoreMatrix", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var total float64
	for j := 0; j < c; j++ {
		score, err := R2Score(colView(yTrue, j), colView(yPred, j))
		if err != nil {
			return 0, errors.Wrapf(err, "target %d", j)
		}
		total += score
	}
	return total / float64(c), nil
}

func colView(m mat.Matrix, j int) mat.Vector {
	if cv, ok := m.(mat.ColViewer); ok {
		return cv.ColView(j)
	}
	r, _ := m.Dims()
	return mat.NewVecDense(r, mat.Col(nil, j, m))
}
