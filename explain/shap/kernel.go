// Package shap implements a kernel SHAP explainer: it estimates per-class
// Shapley values by a weighted linear regression over feature coalitions,
// where absent features take their values from a background sample.
package shap

import (
	"context"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/combin"

	"github.com/YuminosukeSato/leaf/core/model"
	"github.com/YuminosukeSato/leaf/linear"
	"github.com/YuminosukeSato/leaf/pkg/errors"
	"github.com/YuminosukeSato/leaf/surrogate"
)

// DefaultNSamples is the default coalition budget.
const DefaultNSamples = 5000

// KernelExplainer explains a classifier against a fixed background sample.
// After construction it is read-only and safe for concurrent use.
type KernelExplainer struct {
	clf        model.ProbaClassifier
	background *mat.Dense
	expected   []float64
	nSamples   int
	alpha      float64
}

// NewKernelExplainer queries clf once on the background to obtain the
// expected value of every class.
func NewKernelExplainer(clf model.ProbaClassifier, background mat.Matrix, opts ...Option) (*KernelExplainer, error) {
	r, c := background.Dims()
	if r == 0 || c == 0 {
		return nil, errors.NewModelError("NewKernelExplainer", "empty background", errors.ErrEmptyData)
	}
	e := &KernelExplainer{
		clf:        clf,
		background: mat.DenseCopyOf(background),
		nSamples:   DefaultNSamples,
		alpha:      1e-10,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.nSamples < 1 {
		return nil, errors.NewValidationError("nsamples", "must be positive", e.nSamples)
	}

	proba, err := clf.PredictProba(e.background)
	if err != nil {
		return nil, errors.NewModelError("NewKernelExplainer", "black-box query failed", err)
	}
	pr, pc := proba.Dims()
	if pr != r {
		return nil, errors.NewDimensionError("NewKernelExplainer", r, pr, 0)
	}
	if err := errors.CheckMatrix("NewKernelExplainer", proba, pr, pc); err != nil {
		return nil, err
	}
	e.expected = make([]float64, pc)
	for k := 0; k < pc; k++ {
		var sum float64
		for i := 0; i < pr; i++ {
			sum += proba.At(i, k)
		}
		e.expected[k] = sum / float64(pr)
	}
	return e, nil
}

// Expected returns the mean background probability of every class.
func (e *KernelExplainer) Expected() []float64 {
	return append([]float64(nil), e.expected...)
}

// coalition is a set of present features with its regression weight.
type coalition struct {
	mask   []bool
	weight float64
}

// ShapValues estimates phi[class][feature] for x0. Features whose value
// equals the background in every row receive zero attribution.
func (e *KernelExplainer) ShapValues(ctx context.Context, x0 []float64, rng *rand.Rand) (*surrogate.SHAPExplanation, error) {
	nBg, F := e.background.Dims()
	if len(x0) != F {
		return nil, errors.NewDimensionError("KernelExplainer.ShapValues", F, len(x0), 1)
	}
	C := len(e.expected)

	fx, err := e.predictOne(x0)
	if err != nil {
		return nil, err
	}

	phi := make([][]float64, C)
	for k := range phi {
		phi[k] = make([]float64, F)
	}
	exp := &surrogate.SHAPExplanation{Phi: phi, Expected: e.Expected()}

	varying := e.varyingFeatures(x0)
	M := len(varying)
	switch M {
	case 0:
		return exp, nil
	case 1:
		for k := 0; k < C; k++ {
			phi[k][varying[0]] = fx[k] - e.expected[k]
		}
		return exp, nil
	}

	coalitions := e.coalitions(M, rng)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 各連合について背景の欠損特徴量を x0 で置き換えた合成データを作る
	synth := mat.NewDense(len(coalitions)*nBg, F, nil)
	for s, co := range coalitions {
		for b := 0; b < nBg; b++ {
			row := s*nBg + b
			synth.SetRow(row, e.background.RawRowView(b))
			for m, j := range varying {
				if co.mask[m] {
					synth.Set(row, j, x0[j])
				}
			}
		}
	}
	proba, err := e.clf.PredictProba(synth)
	if err != nil {
		return nil, errors.NewModelError("KernelExplainer.ShapValues", "black-box query failed", err)
	}

	ey := make([][]float64, C)
	for k := 0; k < C; k++ {
		ey[k] = make([]float64, len(coalitions))
		for s := range coalitions {
			var sum float64
			for b := 0; b < nBg; b++ {
				sum += proba.At(s*nBg+b, k)
			}
			ey[k][s] = sum / float64(nBg)
		}
	}

	// Σphi = f(x0) − E[f] の制約を最後の特徴量を消去して満たす
	last := M - 1
	design := mat.NewDense(len(coalitions), last, nil)
	weights := make([]float64, len(coalitions))
	for s, co := range coalitions {
		zLast := indicator(co.mask[last])
		for m := 0; m < last; m++ {
			design.Set(s, m, indicator(co.mask[m])-zLast)
		}
		weights[s] = co.weight
	}

	for k := 0; k < C; k++ {
		total := fx[k] - e.expected[k]
		y := make([]float64, len(coalitions))
		for s, co := range coalitions {
			y[s] = ey[k][s] - e.expected[k] - indicator(co.mask[last])*total
		}
		ridge := linear.NewRidge(linear.WithAlpha(e.alpha), linear.WithFitIntercept(false))
		if err := ridge.Fit(design, y, weights); err != nil {
			return nil, err
		}
		coef := ridge.Weights()
		rest := total
		for m := 0; m < last; m++ {
			phi[k][varying[m]] = coef[m]
			rest -= coef[m]
		}
		phi[k][varying[last]] = rest
	}
	return exp, nil
}

func (e *KernelExplainer) predictOne(x0 []float64) ([]float64, error) {
	proba, err := e.clf.PredictProba(mat.NewDense(1, len(x0), append([]float64(nil), x0...)))
	if err != nil {
		return nil, errors.NewModelError("KernelExplainer.ShapValues", "black-box query failed", err)
	}
	_, c := proba.Dims()
	if c != len(e.expected) {
		return nil, errors.NewDimensionError("KernelExplainer.ShapValues", len(e.expected), c, 1)
	}
	return mat.Row(nil, 0, proba), nil
}

func (e *KernelExplainer) varyingFeatures(x0 []float64) []int {
	nBg, F := e.background.Dims()
	var out []int
	for j := 0; j < F; j++ {
		for b := 0; b < nBg; b++ {
			if e.background.At(b, j) != x0[j] {
				out = append(out, j)
				break
			}
		}
	}
	return out
}

// coalitions enumerates every proper non-empty subset when the budget
// allows it, otherwise draws paired subsets with sizes distributed by the
// Shapley kernel. Weights are normalized to sum to one.
func (e *KernelExplainer) coalitions(M int, rng *rand.Rand) []coalition {
	var out []coalition
	if M < 31 && (1<<M)-2 <= e.nSamples {
		for bits := 1; bits < (1<<M)-1; bits++ {
			mask := make([]bool, M)
			size := 0
			for m := 0; m < M; m++ {
				if bits&(1<<m) != 0 {
					mask[m] = true
					size++
				}
			}
			out = append(out, coalition{mask: mask, weight: shapleyWeight(M, size)})
		}
	} else {
		sizeProb := make([]float64, M-1)
		var norm float64
		for s := 1; s < M; s++ {
			sizeProb[s-1] = float64(M-1) / float64(s*(M-s))
			norm += sizeProb[s-1]
		}
		for len(out) < e.nSamples {
			u := rng.Float64() * norm
			size := M - 1
			for s := 1; s < M; s++ {
				u -= sizeProb[s-1]
				if u <= 0 {
					size = s
					break
				}
			}
			mask := make([]bool, M)
			for _, m := range rng.Perm(M)[:size] {
				mask[m] = true
			}
			complement := make([]bool, M)
			for m := range mask {
				complement[m] = !mask[m]
			}
			out = append(out, coalition{mask: mask, weight: 1}, coalition{mask: complement, weight: 1})
		}
	}

	var total float64
	for _, co := range out {
		total += co.weight
	}
	for i := range out {
		out[i].weight /= total
	}
	return out
}

// shapleyWeight returns (M−1) / (C(M,s)·s·(M−s)).
func shapleyWeight(M, s int) float64 {
	return float64(M-1) / (float64(combin.Binomial(M, s)) * float64(s) * float64(M-s))
}

func indicator(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
