package blackbox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/leaf/core/model"
	"github.com/YuminosukeSato/leaf/pkg/errors"
)

func TestLogisticRegressionSeparable(t *testing.T) {
	ds := Synthetic(400, []float64{3, -2}, 3, 1)
	lr := NewLogisticRegression(WithC(10), WithSeed(2))
	require.NoError(t, lr.Fit(ds.X, ds.Y))

	acc, err := lr.Score(ds.X, ds.Y)
	require.NoError(t, err)
	assert.Greater(t, acc, 0.8)

	coef := lr.Coef()
	assert.Greater(t, coef[0], 0.0)
	assert.Less(t, coef[1], 0.0)
	assert.Less(t, abs(coef[2]), abs(coef[0]))
	assert.Greater(t, lr.NIter(), 0)

	var _ model.ProbaClassifier = lr
	proba, err := lr.PredictProba(ds.X)
	require.NoError(t, err)
	r, c := proba.Dims()
	assert.Equal(t, 400, r)
	assert.Equal(t, 2, c)
	for i := 0; i < r; i++ {
		assert.InDelta(t, 1.0, proba.At(i, 0)+proba.At(i, 1), 1e-12)
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func TestLogisticRegressionErrors(t *testing.T) {
	tests := []struct {
		name  string
		run   func() error
		check func(t *testing.T, err error)
	}{
		{
			name: "not fitted",
			run: func() error {
				_, err := NewLogisticRegression().PredictProba(mat.NewDense(1, 2, nil))
				return err
			},
			check: func(t *testing.T, err error) {
				var nf *errors.NotFittedError
				assert.True(t, errors.As(err, &nf))
			},
		},
		{
			name: "non-binary labels",
			run: func() error {
				return NewLogisticRegression().Fit(mat.NewDense(3, 1, []float64{1, 2, 3}), []int{0, 1, 2})
			},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, errors.ErrNotBinary)
			},
		},
		{
			name: "label length",
			run: func() error {
				return NewLogisticRegression().Fit(mat.NewDense(3, 1, []float64{1, 2, 3}), []int{0, 1})
			},
			check: func(t *testing.T, err error) {
				var de *errors.DimensionError
				assert.True(t, errors.As(err, &de))
			},
		},
		{
			name: "invalid C",
			run: func() error {
				return NewLogisticRegression(WithC(0)).Fit(mat.NewDense(2, 1, []float64{1, 2}), []int{0, 1})
			},
			check: func(t *testing.T, err error) {
				var ve *errors.ValidationError
				assert.True(t, errors.As(err, &ve))
			},
		},
		{
			name: "feature mismatch",
			run: func() error {
				lr := NewLogisticRegression()
				if err := lr.Fit(mat.NewDense(2, 1, []float64{1, 2}), []int{0, 1}); err != nil {
					return err
				}
				_, err := lr.PredictProba(mat.NewDense(1, 2, nil))
				return err
			},
			check: func(t *testing.T, err error) {
				var de *errors.DimensionError
				assert.True(t, errors.As(err, &de))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestLoadCSV(t *testing.T) {
	input := "a,class,b\n1.5,yes,2\n-1,no,0.25\n3,yes,-4\n"
	ds, err := LoadCSV(strings.NewReader(input), "class")
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, ds.Features)
	assert.Equal(t, []string{"no", "yes"}, ds.ClassNames)
	assert.Equal(t, []int{1, 0, 1}, ds.Y)
	assert.Equal(t, []float64{1.5, 2, -1, 0.25, 3, -4}, ds.X.RawMatrix().Data)
}

func TestLoadCSVErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		label string
	}{
		{"missing label", "a,b\n1,2\n", "class"},
		{"header only", "a,class\n", "class"},
		{"three classes", "a,class\n1,x\n2,y\n3,z\n", "class"},
		{"non numeric", "a,class\nfoo,x\n2,y\n", "class"},
		{"no features", "class\nx\ny\n", "class"},
		{"ragged", "a,class\n1,x,3\n", "class"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCSV(strings.NewReader(tt.input), tt.label)
			assert.Error(t, err)
		})
	}
}

func TestSyntheticDeterministic(t *testing.T) {
	a := Synthetic(50, []float64{1}, 2, 7)
	b := Synthetic(50, []float64{1}, 2, 7)
	assert.True(t, mat.Equal(a.X, b.X))
	assert.Equal(t, a.Y, b.Y)
	assert.Equal(t, []string{"x0", "x1"}, a.Features)
}
