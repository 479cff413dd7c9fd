package evaluator

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distmv"

	"github.com/YuminosukeSato/leaf/pkg/errors"
)

// covJitter is added to the diagonal when the empirical covariance is not
// positive definite.
const covJitter = 1e-6

// neighborhoodCovariance returns the covariance of the standardized
// background, or the identity when it cannot be used.
func neighborhoodCovariance(scaled *mat.Dense) mat.Symmetric {
	r, F := scaled.Dims()
	if r < 2 {
		errors.Warn(errors.NewCovarianceFallbackWarning(F, "fewer than two background rows"))
		return identity(F)
	}
	cov := mat.NewSymDense(F, nil)
	stat.CovarianceMatrix(cov, scaled, nil)

	var chol mat.Cholesky
	if chol.Factorize(cov) {
		return cov
	}
	for j := 0; j < F; j++ {
		cov.SetSym(j, j, cov.At(j, j)+covJitter)
	}
	if chol.Factorize(cov) {
		return cov
	}
	errors.Warn(errors.NewCovarianceFallbackWarning(F, "not positive definite"))
	return identity(F)
}

func identity(F int) mat.Symmetric {
	ones := make([]float64, F)
	for j := range ones {
		ones[j] = 1
	}
	return mat.NewDiagDense(F, ones)
}

// sampleNeighborhood draws n vectors from N(0, cov).
func sampleNeighborhood(n int, cov mat.Symmetric, src rand.Source) (*mat.Dense, error) {
	F := cov.SymmetricDim()
	normal, ok := distmv.NewNormal(make([]float64, F), cov, src)
	if !ok {
		return nil, errors.NewValueError("sampleNeighborhood", "covariance is not positive definite")
	}
	out := mat.NewDense(n, F, nil)
	for i := 0; i < n; i++ {
		normal.Rand(out.RawRowView(i))
	}
	return out, nil
}

// scaleColumns returns a copy of m with every column j scaled by scale[j].
func scaleColumns(m *mat.Dense, scale []float64) *mat.Dense {
	r, c := m.Dims()
	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		src, dst := m.RawRowView(i), out.RawRowView(i)
		for j := 0; j < c; j++ {
			dst[j] = src[j] * scale[j]
		}
	}
	return out
}
