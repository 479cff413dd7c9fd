// Package lime implements a LIME-style tabular explainer: it perturbs the
// instance with Gaussian noise scaled by the training standard deviations,
// weights the perturbations by an exponential kernel on their standardized
// distance to the instance and fits a weighted ridge model on the
// standardized perturbations.
package lime

import (
	"context"
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/leaf/core/model"
	"github.com/YuminosukeSato/leaf/linear"
	"github.com/YuminosukeSato/leaf/pkg/errors"
	"github.com/YuminosukeSato/leaf/preprocessing"
	"github.com/YuminosukeSato/leaf/surrogate"
)

// DefaultNumSamples is the default perturbation sample size.
const DefaultNumSamples = 5000

// selectionAlpha is the ridge strength used to rank features.
const selectionAlpha = 0.01

// TabularExplainer explains tabular instances. It holds only read-only
// state after construction, so one explainer may serve concurrent calls
// with distinct random sources.
type TabularExplainer struct {
	scaler      *preprocessing.Standardizer
	numSamples  int
	kernelWidth float64
	selection   FeatureSelection
	alpha       float64
}

// NewTabularExplainer creates an explainer on top of a fitted standardizer.
// The default kernel width is 0.75·√F.
func NewTabularExplainer(scaler *preprocessing.Standardizer, opts ...Option) (*TabularExplainer, error) {
	if scaler == nil || !scaler.IsFitted() {
		return nil, errors.NewNotFittedError("Standardizer", "NewTabularExplainer")
	}
	e := &TabularExplainer{
		scaler:      scaler,
		numSamples:  DefaultNumSamples,
		kernelWidth: 0.75 * math.Sqrt(float64(scaler.NFeatures)),
		selection:   HighestWeights,
		alpha:       1.0,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.numSamples < 2 {
		return nil, errors.NewValidationError("num_samples", "must be at least 2", e.numSamples)
	}
	if e.kernelWidth <= 0 {
		return nil, errors.NewValidationError("kernel_width", "must be positive", e.kernelWidth)
	}
	return e, nil
}

// Explain fits a local model of clf's probability for label around x0 using
// at most numFeatures features.
func (e *TabularExplainer) Explain(ctx context.Context, clf model.ProbaClassifier, x0 []float64, label, numFeatures int, rng *rand.Rand) (*surrogate.LIMEExplanation, error) {
	F := e.scaler.NFeatures
	if len(x0) != F {
		return nil, errors.NewDimensionError("TabularExplainer.Explain", F, len(x0), 1)
	}
	if numFeatures <= 0 || numFeatures > F {
		return nil, errors.NewValidationError("num_features", "must be in [1, n_features]", numFeatures)
	}

	// 最初の行は説明対象そのもの
	divisors := e.scaler.Divisors()
	data := mat.NewDense(e.numSamples, F, nil)
	data.SetRow(0, x0)
	for i := 1; i < e.numSamples; i++ {
		for j := 0; j < F; j++ {
			data.Set(i, j, x0[j]+rng.NormFloat64()*divisors[j])
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scaled, err := e.scaler.ScaleRows(data)
	if err != nil {
		return nil, err
	}

	proba, err := clf.PredictProba(data)
	if err != nil {
		return nil, errors.NewModelError("TabularExplainer.Explain", "black-box query failed", err)
	}
	if r, c := proba.Dims(); r != e.numSamples || label >= c || label < 0 {
		return nil, errors.NewDimensionError("TabularExplainer.Explain", e.numSamples, r, 0)
	}
	target := mat.Col(nil, label, proba)
	if err := errors.CheckNumericalStability("TabularExplainer.Explain", target); err != nil {
		return nil, err
	}

	weights := e.kernelWeights(scaled)

	used, err := e.selectFeatures(scaled, target, weights, numFeatures)
	if err != nil {
		return nil, err
	}

	sub := columns(scaled, used)
	ridge := linear.NewRidge(linear.WithAlpha(e.alpha))
	if err := ridge.Fit(sub, target, weights); err != nil {
		return nil, err
	}
	score, err := ridge.Score(sub, target, weights)
	if err != nil {
		return nil, err
	}

	coef := ridge.Weights()
	local := make([]surrogate.FeatureWeight, len(used))
	for k, j := range used {
		local[k] = surrogate.FeatureWeight{Feature: j, Weight: coef[k]}
	}
	sort.SliceStable(local, func(a, b int) bool {
		return math.Abs(local[a].Weight) > math.Abs(local[b].Weight)
	})

	return &surrogate.LIMEExplanation{
		LocalExp:  map[int][]surrogate.FeatureWeight{label: local},
		Intercept: map[int]float64{label: ridge.Intercept()},
		Score:     map[int]float64{label: score},
	}, nil
}

// kernelWeights returns sqrt(exp(−d²/w²)) for the Euclidean distance d of
// every standardized row to the first one.
func (e *TabularExplainer) kernelWeights(scaled *mat.Dense) []float64 {
	n, _ := scaled.Dims()
	origin := scaled.RawRowView(0)
	w := make([]float64, n)
	for i := 0; i < n; i++ {
		d := floats.Distance(scaled.RawRowView(i), origin, 2)
		w[i] = math.Sqrt(math.Exp(-(d * d) / (e.kernelWidth * e.kernelWidth)))
	}
	return w
}

func (e *TabularExplainer) selectFeatures(scaled *mat.Dense, target, weights []float64, k int) ([]int, error) {
	_, F := scaled.Dims()
	if e.selection == AllFeatures || k >= F {
		all := make([]int, F)
		for j := range all {
			all[j] = j
		}
		return all, nil
	}

	ridge := linear.NewRidge(linear.WithAlpha(selectionAlpha))
	if err := ridge.Fit(scaled, target, weights); err != nil {
		return nil, err
	}
	weighted := ridge.Weights()
	floats.Mul(weighted, scaled.RawRowView(0))
	used := surrogate.TopK(weighted, k)
	sort.Ints(used)
	return used, nil
}

func columns(m *mat.Dense, idx []int) *mat.Dense {
	r, _ := m.Dims()
	out := mat.NewDense(r, len(idx), nil)
	for k, j := range idx {
		for i := 0; i < r; i++ {
			out.Set(i, k, m.At(i, j))
		}
	}
	return out
}
