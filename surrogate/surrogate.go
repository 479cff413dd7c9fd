// Package surrogate converts explanation results into the common local
// linear model g(sx) = Coef·sx + Intercept and selects the most important
// features of that model.
package surrogate

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/YuminosukeSato/leaf/pkg/errors"
)

// Method tags which explanation method produced a surrogate.
type Method int

const (
	// LIME identifies surrogates built from tabular LIME explanations.
	LIME Method = iota
	// SHAP identifies surrogates built from kernel SHAP attributions.
	SHAP
)

// Methods lists every method in report order.
var Methods = []Method{LIME, SHAP}

// String returns the lower-case method name used in file names and logs.
func (m Method) String() string {
	switch m {
	case LIME:
		return "lime"
	case SHAP:
		return "shap"
	default:
		return "unknown"
	}
}

// Linear is a local linear approximation of the black-box probability of
// the explained class.
type Linear struct {
	Coef      []float64
	Intercept float64
}

// Predict returns Coef·sx + Intercept.
func (g Linear) Predict(sx []float64) float64 {
	return floats.Dot(g.Coef, sx) + g.Intercept
}

// Norm returns the Euclidean norm of the coefficients.
func (g Linear) Norm() float64 {
	return floats.Norm(g.Coef, 2)
}

// LIMEExplanation is the output of a LIME-style explainer: for every
// explained label a sparse list of feature weights and an intercept.
type LIMEExplanation struct {
	LocalExp  map[int][]FeatureWeight
	Intercept map[int]float64
	// Score is the weighted R² of the local fit, per label.
	Score map[int]float64
}

// FeatureWeight is one (feature index, weight) pair of a LIME explanation.
type FeatureWeight struct {
	Feature int
	Weight  float64
}

// SHAPExplanation holds per-class attributions Phi[class][feature] and
// per-class expected values.
type SHAPExplanation struct {
	Phi      [][]float64
	Expected []float64
}

// FromLIME builds the surrogate for label from a LIME explanation.
// Features absent from the explanation get coefficient 0.
func FromLIME(exp *LIMEExplanation, label, nFeatures int) (Linear, error) {
	if exp == nil {
		return Linear{}, errors.NewValueError("FromLIME", "nil explanation")
	}
	weights, ok := exp.LocalExp[label]
	if !ok {
		return Linear{}, errors.NewValueError("FromLIME", "explanation does not cover the target label")
	}
	coef := make([]float64, nFeatures)
	for _, fw := range weights {
		if fw.Feature < 0 || fw.Feature >= nFeatures {
			return Linear{}, errors.NewDimensionError("FromLIME", nFeatures, fw.Feature, 1)
		}
		coef[fw.Feature] = fw.Weight
	}
	return Linear{Coef: coef, Intercept: exp.Intercept[label]}, nil
}

// FromSHAP builds the surrogate for label in centered space:
// coef_j = phi[label][j] / (x0_j − mean_j), or 0 when x0_j == mean_j.
// The intercept is the expected value of the label.
func FromSHAP(exp *SHAPExplanation, label int, x0, mean []float64) (Linear, error) {
	if exp == nil {
		return Linear{}, errors.NewValueError("FromSHAP", "nil explanation")
	}
	if label < 0 || label >= len(exp.Phi) || label >= len(exp.Expected) {
		return Linear{}, errors.NewValueError("FromSHAP", "explanation does not cover the target label")
	}
	phi := exp.Phi[label]
	if len(phi) != len(x0) || len(mean) != len(x0) {
		return Linear{}, errors.NewDimensionError("FromSHAP", len(x0), len(phi), 1)
	}
	coef := make([]float64, len(x0))
	for j := range coef {
		if d := x0[j] - mean[j]; d != 0 {
			coef[j] = phi[j] / d
		}
	}
	return Linear{Coef: coef, Intercept: exp.Expected[label]}, nil
}

// PruneTopK keeps, in every class row of phi, only the k features with the
// largest |phi[0][j]| and zeroes the rest. phi is modified in place.
func PruneTopK(phi [][]float64, k int) {
	if len(phi) == 0 {
		return
	}
	keep := Mask(TopK(phi[0], k), len(phi[0]))
	for _, row := range phi {
		for j := range row {
			if !keep[j] {
				row[j] = 0
			}
		}
	}
}

// TopK returns the indices of the k largest |coef| values in decreasing
// order of magnitude. Ties keep the lower index first. k is clamped to
// [0, len(coef)].
func TopK(coef []float64, k int) []int {
	if k > len(coef) {
		k = len(coef)
	}
	if k <= 0 {
		return []int{}
	}
	idx := make([]int, len(coef))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return math.Abs(coef[idx[a]]) > math.Abs(coef[idx[b]])
	})
	return idx[:k]
}

// Mask returns a length-n binary mask with the given indices set.
func Mask(indices []int, n int) []bool {
	m := make([]bool, n)
	for _, i := range indices {
		if i >= 0 && i < n {
			m[i] = true
		}
	}
	return m
}

// ZeroDegenerate forces the coefficients of zero-variance features to 0.
// std holds the population standard deviations (0 for degenerate features).
func ZeroDegenerate(g Linear, std []float64) Linear {
	out := Linear{Coef: append([]float64(nil), g.Coef...), Intercept: g.Intercept}
	for j := range out.Coef {
		if j < len(std) && std[j] == 0 {
			out.Coef[j] = 0
		}
	}
	return out
}
