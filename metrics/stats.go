package metrics

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// HingeLoss は max(0, 1 − x) を返す
func HingeLoss(x float64) float64 {
	return math.Max(0, 1-x)
}

// Mean は算術平均を返す。空なら0。
func Mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return stat.Mean(x, nil)
}

// MeanStd は平均と母標準偏差（ddof=0）を返す。空なら (0, 0)。
func MeanStd(x []float64) (mean, std float64) {
	switch len(x) {
	case 0:
		return 0, 0
	case 1:
		return x[0], 0
	}
	return stat.PopMeanStdDev(x, nil)
}

// MeanAbs は |x| の平均に scale を掛けた値を返す
func MeanAbs(x []float64, scale float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum float64
	for _, v := range x {
		sum += math.Abs(v)
	}
	return scale * sum / float64(len(x))
}
