package model

import "gonum.org/v1/gonum/mat"

// Transformer はデータ変換のインターフェース
// 標準化のように、学習データから一度だけパラメータを求め、以後の行に同じ変換を適用する
type Transformer interface {
	// Fit は変換に必要なパラメータを学習する
	Fit(X mat.Matrix) error

	// Transform はデータを変換する
	Transform(X mat.Matrix) (mat.Matrix, error)

	// FitTransform はFitとTransformを同時に実行する
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}

// InverseTransformer は変換を保存済みパラメータから元に戻せる Transformer
type InverseTransformer interface {
	Transformer

	// InverseTransform は変換済みデータを元のスケールに戻す
	InverseTransform(X mat.Matrix) (mat.Matrix, error)
}
