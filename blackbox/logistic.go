// Package blackbox は評価対象となる2クラス分類器と、そのための
// データ読み込みを提供します。LEAF 自体は任意の model.ProbaClassifier を
// 評価できるため、ここにあるのはCLIとテストで使う参照実装です。
package blackbox

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/leaf/core/model"
	"github.com/YuminosukeSato/leaf/pkg/errors"
	"github.com/YuminosukeSato/leaf/preprocessing"
)

// LogisticRegression is a binary L2-regularized logistic regression trained
// by full-batch gradient descent on standardized features.
type LogisticRegression struct {
	state *model.StateManager

	// Hyperparameters
	c            float64 // 正則化の強さの逆数
	fitIntercept bool
	maxIter      int
	tol          float64
	seed         uint64

	scaler    *preprocessing.Standardizer
	coef      []float64 // 標準化空間での係数
	intercept float64
	nIter     int
}

// LogisticOption は LogisticRegression の設定関数
type LogisticOption func(*LogisticRegression)

// WithC sets the inverse regularization strength.
func WithC(c float64) LogisticOption {
	return func(lr *LogisticRegression) {
		lr.c = c
	}
}

// WithFitIntercept sets whether to fit the intercept.
func WithFitIntercept(fit bool) LogisticOption {
	return func(lr *LogisticRegression) {
		lr.fitIntercept = fit
	}
}

// WithMaxIter sets the maximum number of gradient steps.
func WithMaxIter(n int) LogisticOption {
	return func(lr *LogisticRegression) {
		lr.maxIter = n
	}
}

// WithTol sets the gradient tolerance for stopping.
func WithTol(tol float64) LogisticOption {
	return func(lr *LogisticRegression) {
		lr.tol = tol
	}
}

// WithSeed sets the seed of the initial weights.
func WithSeed(seed uint64) LogisticOption {
	return func(lr *LogisticRegression) {
		lr.seed = seed
	}
}

// NewLogisticRegression creates a classifier with C=1, intercept, 500
// iterations and tolerance 1e-6.
func NewLogisticRegression(opts ...LogisticOption) *LogisticRegression {
	lr := &LogisticRegression{
		state:        model.NewStateManager("LogisticRegression"),
		c:            1.0,
		fitIntercept: true,
		maxIter:      500,
		tol:          1e-6,
	}
	for _, opt := range opts {
		opt(lr)
	}
	return lr
}

// Fit trains the model. Labels must be 0 or 1.
func (lr *LogisticRegression) Fit(X mat.Matrix, y []int) error {
	nSamples, nFeatures := X.Dims()
	if nSamples == 0 || nFeatures == 0 {
		return errors.ErrEmptyData
	}
	if len(y) != nSamples {
		return errors.NewDimensionError("LogisticRegression.Fit", nSamples, len(y), 0)
	}
	if lr.c <= 0 {
		return errors.NewValidationError("C", "must be positive", lr.c)
	}
	if lr.maxIter < 1 {
		return errors.NewValidationError("max_iter", "must be positive", lr.maxIter)
	}
	target := make([]float64, nSamples)
	for i, label := range y {
		switch label {
		case 0:
		case 1:
			target[i] = 1
		default:
			return errors.Wrapf(errors.ErrNotBinary, "label %d at row %d", label, i)
		}
	}

	lr.scaler = preprocessing.NewStandardizer()
	if err := lr.scaler.Fit(X); err != nil {
		return err
	}
	scaled, err := lr.scaler.ScaleRows(X)
	if err != nil {
		return err
	}

	// 小さな乱数で初期化
	rng := rand.New(rand.NewPCG(lr.seed, 0))
	lr.coef = make([]float64, nFeatures)
	for j := range lr.coef {
		lr.coef[j] = rng.NormFloat64() * 0.01
	}
	lr.intercept = 0

	lambda := 1.0 / lr.c
	z := mat.NewVecDense(nSamples, nil)
	residual := make([]float64, nSamples)
	grad := mat.NewVecDense(nFeatures, nil)
	baseLearningRate := 1.0

	for iter := 0; iter < lr.maxIter; iter++ {
		z.MulVec(scaled, mat.NewVecDense(nFeatures, lr.coef))
		for i := range residual {
			residual[i] = sigmoid(z.AtVec(i)+lr.intercept) - target[i]
		}

		grad.MulVec(scaled.T(), mat.NewVecDense(nSamples, residual))
		gradWeights := grad.RawVector().Data
		floats.Scale(1/float64(nSamples), gradWeights)
		floats.AddScaled(gradWeights, lambda/float64(nSamples), lr.coef)
		gradIntercept := floats.Sum(residual) / float64(nSamples)

		learningRate := baseLearningRate / (1.0 + 0.01*float64(iter))
		floats.AddScaled(lr.coef, -learningRate, gradWeights)
		if lr.fitIntercept {
			lr.intercept -= learningRate * gradIntercept
		}
		lr.nIter = iter + 1

		maxGrad := math.Max(math.Abs(gradIntercept), floats.Norm(gradWeights, math.Inf(1)))
		if maxGrad < lr.tol {
			break
		}
	}
	if err := errors.CheckNumericalStability("LogisticRegression.Fit", lr.coef); err != nil {
		return err
	}

	lr.state.SetFitted(nFeatures, nSamples)
	return nil
}

// PredictProba returns the n×2 matrix of class probabilities.
func (lr *LogisticRegression) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	_, c := X.Dims()
	if err := lr.state.RequireFeatures("PredictProba", c); err != nil {
		return nil, err
	}
	scaled, err := lr.scaler.ScaleRows(X)
	if err != nil {
		return nil, err
	}
	r, _ := scaled.Dims()
	probas := mat.NewDense(r, 2, nil)
	for i := 0; i < r; i++ {
		p := sigmoid(floats.Dot(scaled.RawRowView(i), lr.coef) + lr.intercept)
		probas.Set(i, 0, 1-p)
		probas.Set(i, 1, p)
	}
	return probas, nil
}

// Predict returns the most probable class of every row, ties going to 0.
func (lr *LogisticRegression) Predict(X mat.Matrix) ([]int, error) {
	probas, err := lr.PredictProba(X)
	if err != nil {
		return nil, err
	}
	r, _ := probas.Dims()
	out := make([]int, r)
	for i := range out {
		if probas.At(i, 1) > probas.At(i, 0) {
			out[i] = 1
		}
	}
	return out, nil
}

// Score returns the accuracy on (X, y).
func (lr *LogisticRegression) Score(X mat.Matrix, y []int) (float64, error) {
	pred, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}
	if len(pred) != len(y) {
		return 0, errors.NewDimensionError("LogisticRegression.Score", len(pred), len(y), 0)
	}
	correct := 0
	for i := range y {
		if pred[i] == y[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(y)), nil
}

// Coef returns the coefficients in standardized feature space.
func (lr *LogisticRegression) Coef() []float64 {
	return append([]float64(nil), lr.coef...)
}

// Intercept returns the intercept.
func (lr *LogisticRegression) Intercept() float64 {
	return lr.intercept
}

// NIter returns the number of gradient steps taken by the last Fit.
func (lr *LogisticRegression) NIter() int {
	return lr.nIter
}

func sigmoid(z float64) float64 {
	z = errors.ClipValue(z, -500, 500)
	return 1.0 / (1.0 + math.Exp(-z))
}
