// Package linear は局所サロゲートの学習に使う重み付きリッジ回帰を提供します。
package linear

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/leaf/core/model"
	"github.com/YuminosukeSato/leaf/core/parallel"
	"github.com/YuminosukeSato/leaf/pkg/errors"
)

// parallelThreshold 以下の行数では逐次処理を使用する
const parallelThreshold = 1000

// Ridge はサンプル重み付きのリッジ回帰モデル。
// 目的関数 Σ w_i (y_i − x_i·β − b)² + α‖β‖² を正規方程式で解く。
type Ridge struct {
	state        *model.StateManager
	alpha        float64
	fitIntercept bool

	coef      []float64
	intercept float64
}

// NewRidge は新しいリッジ回帰モデルを作成する（デフォルト: alpha=1, 切片あり）
//
// 使用例:
//
//	r := linear.NewRidge(linear.WithAlpha(1.0))
//	err := r.Fit(X, y, weights)
func NewRidge(opts ...Option) *Ridge {
	r := &Ridge{
		state:        model.NewStateManager("Ridge"),
		alpha:        1.0,
		fitIntercept: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Fit はモデルを学習させる。w が nil の場合は一様重み。
func (r *Ridge) Fit(X mat.Matrix, y, w []float64) error {
	n, c := X.Dims()
	if n == 0 || c == 0 {
		return errors.NewModelError("Ridge.Fit", "empty data", errors.ErrEmptyData)
	}
	if len(y) != n {
		return errors.NewDimensionError("Ridge.Fit", n, len(y), 0)
	}
	if w == nil {
		w = make([]float64, n)
		floats.AddConst(1, w)
	}
	if len(w) != n {
		return errors.NewDimensionError("Ridge.Fit", n, len(w), 0)
	}
	if r.alpha < 0 {
		return errors.NewValidationError("alpha", "must be non-negative", r.alpha)
	}
	wsum := floats.Sum(w)
	if wsum <= 0 {
		return errors.NewValueError("Ridge.Fit", "sample weights must have a positive sum")
	}

	// 重み付き平均で中心化する
	xMean := make([]float64, c)
	yMean := 0.0
	if r.fitIntercept {
		for i := 0; i < n; i++ {
			for j := 0; j < c; j++ {
				xMean[j] += w[i] * X.At(i, j)
			}
			yMean += w[i] * y[i]
		}
		floats.Scale(1/wsum, xMean)
		yMean /= wsum
	}

	// A = diag(√w)(X − x̄), b = diag(√w)(y − ȳ)
	A := mat.NewDense(n, c, nil)
	b := mat.NewVecDense(n, nil)
	parallel.ParallelizeWithThreshold(n, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			sw := math.Sqrt(w[i])
			for j := 0; j < c; j++ {
				A.Set(i, j, sw*(X.At(i, j)-xMean[j]))
			}
			b.SetVec(i, sw*(y[i]-yMean))
		}
	})

	gram := mat.NewSymDense(c, nil)
	gram.SymOuterK(1, A.T())
	for j := 0; j < c; j++ {
		gram.SetSym(j, j, gram.At(j, j)+r.alpha)
	}
	var rhs mat.VecDense
	rhs.MulVec(A.T(), b)

	var beta mat.VecDense
	var chol mat.Cholesky
	if chol.Factorize(gram) {
		if err := chol.SolveVecTo(&beta, &rhs); err != nil {
			return errors.NewModelError("Ridge.Fit", "cholesky solve failed", err)
		}
	} else if err := beta.SolveVec(gram, &rhs); err != nil {
		return errors.NewModelError("Ridge.Fit", "singular matrix", errors.ErrSingularMatrix)
	}

	r.coef = make([]float64, c)
	for j := 0; j < c; j++ {
		r.coef[j] = beta.AtVec(j)
	}
	if err := errors.CheckNumericalStability("Ridge.Fit", r.coef); err != nil {
		return err
	}
	r.intercept = 0
	if r.fitIntercept {
		r.intercept = yMean - floats.Dot(xMean, r.coef)
	}

	r.state.SetFitted(c, n)
	return nil
}

// Predict は入力データに対する予測を行う
func (r *Ridge) Predict(X mat.Matrix) ([]float64, error) {
	n, c := X.Dims()
	if err := r.state.RequireFeatures("Predict", c); err != nil {
		return nil, err
	}
	out := make([]float64, n)
	row := make([]float64, c)
	for i := 0; i < n; i++ {
		mat.Row(row, i, X)
		out[i] = floats.Dot(row, r.coef) + r.intercept
	}
	return out, nil
}

// Weights は学習された重み（係数）のコピーを返す
func (r *Ridge) Weights() []float64 {
	return append([]float64(nil), r.coef...)
}

// Intercept は学習された切片を返す
func (r *Ridge) Intercept() float64 {
	return r.intercept
}

// Score は重み付き決定係数（R²）を計算する。
// 目的変数が定数の場合は完全一致なら1、そうでなければ0を返す。
func (r *Ridge) Score(X mat.Matrix, y, w []float64) (float64, error) {
	pred, err := r.Predict(X)
	if err != nil {
		return 0, err
	}
	if len(y) != len(pred) {
		return 0, errors.NewDimensionError("Ridge.Score", len(pred), len(y), 0)
	}
	if w == nil {
		w = make([]float64, len(y))
		floats.AddConst(1, w)
	}

	yMean := floats.Dot(w, y) / floats.Sum(w)
	var tss, rss float64
	for i := range y {
		tss += w[i] * (y[i] - yMean) * (y[i] - yMean)
		rss += w[i] * (y[i] - pred[i]) * (y[i] - pred[i])
	}
	if tss == 0 {
		if rss == 0 {
			return 1, nil
		}
		return 0, nil
	}
	return 1 - rss/tss, nil
}

// String はモデルの文字列表現を返す
func (r *Ridge) String() string {
	return fmt.Sprintf("Ridge(alpha=%g, fit_intercept=%t, fitted=%t)", r.alpha, r.fitIntercept, r.state.IsFitted())
}

var _ model.LinearModel = (*Ridge)(nil)
