// Package model defines the interfaces shared by the evaluator and its
// collaborators: the black-box classifier, transformers and linear models.
package model

import (
	"gonum.org/v1/gonum/mat"
)

// ProbaClassifier is the black box under evaluation. Only its probability
// output matters: PredictProba maps an n×F batch to an n×C matrix of
// per-class probabilities whose rows sum to one.
type ProbaClassifier interface {
	PredictProba(X mat.Matrix) (mat.Matrix, error)
}

// ProbaFunc adapts a plain function to ProbaClassifier.
type ProbaFunc func(X mat.Matrix) (mat.Matrix, error)

// PredictProba calls f(X).
func (f ProbaFunc) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	return f(X)
}

// Transformer はデータ変換のインターフェース
type Transformer interface {
	// Fit は変換に必要なパラメータを学習する
	Fit(X mat.Matrix) error

	// Transform はデータを変換する
	Transform(X mat.Matrix) (mat.Matrix, error)

	// InverseTransform は変換を元に戻す
	InverseTransform(X mat.Matrix) (mat.Matrix, error)
}

// LinearModel は重み付き線形モデルのインターフェース
type LinearModel interface {
	// Fit はサンプル重み w（nil なら一様）で学習する
	Fit(X mat.Matrix, y, w []float64) error
	// Weights は学習された重み（係数）を返す
	Weights() []float64
	// Intercept は学習された切片を返す
	Intercept() float64
	// Score は重み付き決定係数（R²）を計算する
	Score(X mat.Matrix, y, w []float64) (float64, error)
}
