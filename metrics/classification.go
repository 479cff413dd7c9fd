// Package metrics は二値分類の一致度指標、マスク間のJaccard類似度、
// LEAFの要約統計を提供します。
//
// 分類指標は scikit-learn と同じ定義に従います。分母がゼロで値が定義できない場合は
// 0 と *errors.UndefinedMetricWarning を返し、呼び出し側が扱いを決めます。
package metrics

import (
	"github.com/YuminosukeSato/leaf/pkg/errors"
)

// Confusion は二値分類の混同行列
type Confusion struct {
	TP, FP, FN, TN int
}

// Total はサンプル数を返す
func (c Confusion) Total() int {
	return c.TP + c.FP + c.FN + c.TN
}

// NewConfusion は正解 yTrue と予測 yPred から混同行列を作る
func NewConfusion(yTrue, yPred []bool) (Confusion, error) {
	if len(yTrue) == 0 {
		return Confusion{}, errors.NewValueError("Confusion", "empty vector")
	}
	if len(yPred) != len(yTrue) {
		return Confusion{}, errors.NewDimensionError("Confusion", len(yTrue), len(yPred), 0)
	}
	var c Confusion
	for i, t := range yTrue {
		p := yPred[i]
		switch {
		case t && p:
			c.TP++
		case !t && p:
			c.FP++
		case t && !p:
			c.FN++
		default:
			c.TN++
		}
	}
	return c, nil
}

// Accuracy は一致率を計算する
func Accuracy(yTrue, yPred []bool) (float64, error) {
	c, err := NewConfusion(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return float64(c.TP+c.TN) / float64(c.Total()), nil
}

// BalancedAccuracy はクラスごとの再現率の平均を計算する。
// yTrue に現れないクラスは平均から除外する。
func BalancedAccuracy(yTrue, yPred []bool) (float64, error) {
	c, err := NewConfusion(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	var sum float64
	classes := 0
	if pos := c.TP + c.FN; pos > 0 {
		sum += float64(c.TP) / float64(pos)
		classes++
	}
	if neg := c.TN + c.FP; neg > 0 {
		sum += float64(c.TN) / float64(neg)
		classes++
	}
	return sum / float64(classes), nil
}

// Precision は適合率 TP/(TP+FP) を計算する
func Precision(yTrue, yPred []bool) (float64, error) {
	c, err := NewConfusion(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	if c.TP+c.FP == 0 {
		return 0, errors.NewUndefinedMetricWarning("precision", "no predicted samples", 0)
	}
	return float64(c.TP) / float64(c.TP+c.FP), nil
}

// Recall は再現率 TP/(TP+FN) を計算する
func Recall(yTrue, yPred []bool) (float64, error) {
	c, err := NewConfusion(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	if c.TP+c.FN == 0 {
		return 0, errors.NewUndefinedMetricWarning("recall", "no true samples", 0)
	}
	return float64(c.TP) / float64(c.TP+c.FN), nil
}

// F1 は 2TP/(2TP+FP+FN) を計算する
func F1(yTrue, yPred []bool) (float64, error) {
	c, err := NewConfusion(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	denom := 2*c.TP + c.FP + c.FN
	if denom == 0 {
		return 0, errors.NewUndefinedMetricWarning("f1", "no true nor predicted samples", 0)
	}
	return float64(2*c.TP) / float64(denom), nil
}

// Binarize は values > threshold を true とするマスクを返す
func Binarize(values []float64, threshold float64) []bool {
	out := make([]bool, len(values))
	for i, v := range values {
		out[i] = v > threshold
	}
	return out
}

// PositiveRate は true の割合を返す。空なら0。
func PositiveRate(mask []bool) float64 {
	n := 0
	for _, b := range mask {
		if b {
			n++
		}
	}
	return errors.SafeDivide(float64(n), float64(len(mask)))
}
