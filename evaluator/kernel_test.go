package evaluator

import (
	"context"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/leaf/performance"
	"github.com/YuminosukeSato/leaf/pkg/log"
	"github.com/YuminosukeSato/leaf/preprocessing"
	"github.com/YuminosukeSato/leaf/surrogate"
)

func kernelFixture(t *testing.T, n int) (*kernel, *log.TestLogger, space) {
	t.Helper()
	X, _ := gridDataset()
	sc := preprocessing.NewStandardizer()
	require.NoError(t, sc.Fit(X))

	normV, err := sampleNeighborhood(n, identity(2), rand.NewPCG(1, 2))
	require.NoError(t, err)

	logger, _ := log.NewTestLogger(log.LevelDebug)
	k := &kernel{bb: logisticClassifier([]float64{4, 4}, 0), logger: logger, pool: performance.NewMatrixPool()}
	return k, logger, space{scaler: sc, normV: normV}
}

func TestKernelZeroCoefficients(t *testing.T) {
	k, logger, sp := kernelFixture(t, 200)
	x0 := []float64{-0.4, 0.1}
	probs, err := k.predict(x1Matrix(x0))
	require.NoError(t, err)
	label := 0
	if probs.At(0, 1) > probs.At(0, 0) {
		label = 1
	}
	require.Equal(t, 0, label)
	probX0 := probs.At(0, label)

	g := surrogate.Linear{Coef: []float64{0, 0}, Intercept: 0.3}
	m, err := k.evaluate(context.Background(), kernelInput{
		method: surrogate.LIME, g: g, x0: x0, label: label, probX0: probX0, space: sp,
	})
	require.NoError(t, err)

	assert.InDeltaSlice(t, x0, m.X1, 1e-12)
	assert.Zero(t, m.PlaneDistX0)
	assert.InDelta(t, 0.3-probs.At(0, 0), m.BoundaryDiscr, 1e-12)
	assert.InDelta(t, 0.3-probX0, m.SignedLocalDiscr, 1e-12)
	assert.InDelta(t, math.Abs(0.3-probX0), m.LocalDiscr, 1e-12)
	assert.Equal(t, 0, m.ClassX1)
	assert.Equal(t, 1, logger.CountLevel("WARN"))
	assert.True(t, logger.ContainsField(log.MethodKey, "lime"))
}

func TestKernelProjectsOntoBoundary(t *testing.T) {
	k, logger, sp := kernelFixture(t, 2000)
	x0 := []float64{0.3, 0.2}
	probs, err := k.predict(x1Matrix(x0))
	require.NoError(t, err)
	require.Greater(t, probs.At(0, 1), 0.5)

	// P(1) = sigmoid(4(a+b)) と同じ境界を持つ線形サロゲート
	std := sp.scaler.Std
	g := surrogate.Linear{Coef: []float64{0.4 * std[0], 0.4 * std[1]}, Intercept: 0.5}
	m, err := k.evaluate(context.Background(), kernelInput{
		method: surrogate.LIME, g: g, x0: x0, label: 1, probX0: probs.At(0, 1), space: sp,
	})
	require.NoError(t, err)

	sx1, err := sp.scaler.Scale(m.X1)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, g.Predict(sx1), 1e-12)
	assert.InDelta(t, 0.0, m.X1[0]+m.X1[1], 1e-9)
	assert.InDelta(t, 0.5, m.ProbX1F, 1e-9)
	assert.InDelta(t, 0.0, m.BoundaryDiscr, 1e-9)

	sx0, err := sp.scaler.Scale(x0)
	require.NoError(t, err)
	assert.InDelta(t, g.Predict(sx0)/g.Norm(), m.PlaneDistX0, 1e-12)

	assert.InDelta(t, 1.0, m.Fidelity, 1e-12)
	assert.InDelta(t, 1.0, m.FidelityF1, 1e-12)
	assert.Greater(t, m.Prescriptivity, 0.97)
	assert.InDelta(t, 0.5, m.X1ChangeScore, 0.05)
	assert.InDelta(t, m.RatioX1, m.X1ChangeScore, 1e-12)
	assert.Zero(t, logger.CountLevel("WARN"))

	stats := k.pool.Stats()
	assert.Zero(t, stats.CurrentInUse)
	assert.Equal(t, int64(2), stats.TotalRecycled)
}

func TestKernelRejectsNonBinaryOutput(t *testing.T) {
	X := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	assert.Error(t, checkBinary(mat.NewDense(2, 3, nil), X))
	assert.Error(t, checkBinary(mat.NewDense(1, 2, nil), X))
	assert.NoError(t, checkBinary(mat.NewDense(2, 2, nil), X))
}
