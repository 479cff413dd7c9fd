package metrics

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/leaf/pkg/errors"
)

// JaccardSimilarity は2つの二値マスクの |a∧b| / |a∨b| を計算する。
// 両方とも空集合の場合は同一とみなし1を返す。
func JaccardSimilarity(a, b []bool) (float64, error) {
	if len(a) != len(b) {
		return 0, errors.NewDimensionError("JaccardSimilarity", len(a), len(b), 1)
	}
	inter, union := 0, 0
	for i := range a {
		if a[i] && b[i] {
			inter++
		}
		if a[i] || b[i] {
			union++
		}
	}
	if union == 0 {
		return 1, nil
	}
	return float64(inter) / float64(union), nil
}

// PairwiseJaccard はすべての組 i<j の類似度を行優先の凝縮形式で返す。
// 長さは n(n−1)/2。
func PairwiseJaccard(masks [][]bool) ([]float64, error) {
	n := len(masks)
	if n < 2 {
		return []float64{}, nil
	}
	out := make([]float64, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			s, err := JaccardSimilarity(masks[i], masks[j])
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
	}
	return out, nil
}

// CrossJaccard は a の各行と b の各行の類似度行列（len(a)×len(b)）を返す
func CrossJaccard(a, b [][]bool) (*mat.Dense, error) {
	if len(a) == 0 || len(b) == 0 {
		return nil, errors.NewValueError("CrossJaccard", "empty mask set")
	}
	out := mat.NewDense(len(a), len(b), nil)
	for i := range a {
		for j := range b {
			s, err := JaccardSimilarity(a[i], b[j])
			if err != nil {
				return nil, err
			}
			out.Set(i, j, s)
		}
	}
	return out, nil
}
