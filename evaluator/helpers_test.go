package evaluator

import (
	"context"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/leaf/core/model"
	"github.com/YuminosukeSato/leaf/surrogate"
)

// logisticClassifier returns P(class 1) = sigmoid(w·x + b).
func logisticClassifier(w []float64, b float64) model.ProbaClassifier {
	return model.ProbaFunc(func(X mat.Matrix) (mat.Matrix, error) {
		r, c := X.Dims()
		out := mat.NewDense(r, 2, nil)
		for i := 0; i < r; i++ {
			z := b
			for j := 0; j < c; j++ {
				z += w[j] * X.At(i, j)
			}
			p := 1 / (1 + math.Exp(-z))
			out.Set(i, 0, 1-p)
			out.Set(i, 1, p)
		}
		return out, nil
	})
}

// gridDataset is the symmetric 21×21 grid on [-1, 1]² labelled by x0 + x1 > 0.
func gridDataset() (*mat.Dense, []int) {
	X := mat.NewDense(21*21, 2, nil)
	y := make([]int, 21*21)
	for i := 0; i < 21; i++ {
		for j := 0; j < 21; j++ {
			a, b := float64(i-10)/10, float64(j-10)/10
			X.SetRow(i*21+j, []float64{a, b})
			if a+b > 0 {
				y[i*21+j] = 1
			}
		}
	}
	return X, y
}

// randomDataset draws n rows of F standard normal features labelled by clf.
func randomDataset(n, F int, clf model.ProbaClassifier) (*mat.Dense, []int) {
	rng := rand.New(rand.NewPCG(42, 42))
	X := mat.NewDense(n, F, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < F; j++ {
			X.Set(i, j, rng.NormFloat64())
		}
	}
	proba, _ := clf.PredictProba(X)
	y := make([]int, n)
	for i := range y {
		if proba.At(i, 1) > 0.5 {
			y[i] = 1
		}
	}
	return X, y
}

type stubLIME struct {
	coef      []float64
	intercept float64
	err       error
}

func (s stubLIME) Explain(_ context.Context, _ model.ProbaClassifier, _ []float64, label, _ int, _ *rand.Rand) (*surrogate.LIMEExplanation, error) {
	if s.err != nil {
		return nil, s.err
	}
	var local []surrogate.FeatureWeight
	for j, c := range s.coef {
		local = append(local, surrogate.FeatureWeight{Feature: j, Weight: c})
	}
	return &surrogate.LIMEExplanation{
		LocalExp:  map[int][]surrogate.FeatureWeight{label: local},
		Intercept: map[int]float64{label: s.intercept},
	}, nil
}

type stubSHAP struct {
	phi []float64
	err error
}

func (s stubSHAP) ShapValues(_ context.Context, _ []float64, _ *rand.Rand) (*surrogate.SHAPExplanation, error) {
	if s.err != nil {
		return nil, s.err
	}
	neg := make([]float64, len(s.phi))
	for j, v := range s.phi {
		neg[j] = -v
	}
	return &surrogate.SHAPExplanation{
		Phi:      [][]float64{neg, append([]float64(nil), s.phi...)},
		Expected: []float64{0.5, 0.5},
	}, nil
}

type recordingRenderer struct {
	dirs []string
	err  error
}

func (r *recordingRenderer) Render(_ *Result, dir string) error {
	r.dirs = append(r.dirs, dir)
	return r.err
}
