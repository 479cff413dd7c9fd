// Package preprocessing は説明対象データの標準化と背景サンプルの抽出を提供します。
package preprocessing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/leaf/core/model"
	"github.com/YuminosukeSato/leaf/core/parallel"
	"github.com/YuminosukeSato/leaf/pkg/errors"
)

// zeroStdTolerance 未満の標準偏差を持つ特徴量は退化とみなし、除数1で扱う
const zeroStdTolerance = 1e-8

// rowParallelThreshold を超える行数の行列は並列に変換する
const rowParallelThreshold = 2048

// Standardizer は特徴量ごとの平均 EX と母標準偏差 StdX を保持し、
// z-score 変換 scale(x) = (x − EX) / s とその逆変換を提供する。
// 標準偏差がほぼ0の特徴量は除数 s = 1 で扱うため、往復変換で値が変わらない。
type Standardizer struct {
	model.BaseEstimator

	// Mean は各特徴量の平均値
	Mean []float64

	// Std は各特徴量の母標準偏差（退化特徴量では0のまま）
	Std []float64

	// divisor は実際に使う除数（退化特徴量では1）
	divisor []float64

	// NFeatures は特徴量の数
	NFeatures int
}

// NewStandardizer は未学習のStandardizerを作成する
//
// 使用例:
//
//	std := preprocessing.NewStandardizer()
//	err := std.Fit(X)
//	sx0, err := std.Scale(x0)
func NewStandardizer() *Standardizer {
	return &Standardizer{}
}

// Fit はデータから平均と母標準偏差（ddof=0）を計算する
func (s *Standardizer) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("Standardizer.Fit", "empty data", errors.ErrEmptyData)
	}

	s.NFeatures = c
	s.Mean = make([]float64, c)
	s.Std = make([]float64, c)
	s.divisor = make([]float64, c)

	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, X)
		if err := errors.CheckNumericalStability("Standardizer.Fit", col); err != nil {
			return err
		}
		mean, std := stat.PopMeanStdDev(col, nil)
		s.Mean[j] = mean
		s.divisor[j] = 1.0
		if std >= zeroStdTolerance {
			s.Std[j] = std
			s.divisor[j] = std
		}
	}

	s.SetFitted()
	return nil
}

// Degenerate は特徴量 j の標準偏差がほぼ0かどうかを返す
func (s *Standardizer) Degenerate(j int) bool {
	return s.Std[j] == 0
}

// Divisors は実際に使われる除数のコピーを返す
func (s *Standardizer) Divisors() []float64 {
	out := make([]float64, len(s.divisor))
	copy(out, s.divisor)
	return out
}

// CenterOnly は平均だけを引き、スケーリングしないコピーを返す。
// SHAPのサロゲートは中心化のみの空間で評価される。
func (s *Standardizer) CenterOnly() *Standardizer {
	c := &Standardizer{
		Mean:      append([]float64(nil), s.Mean...),
		Std:       append([]float64(nil), s.Std...),
		divisor:   make([]float64, len(s.divisor)),
		NFeatures: s.NFeatures,
	}
	for j := range c.divisor {
		c.divisor[j] = 1.0
	}
	if s.IsFitted() {
		c.SetFitted()
	}
	return c
}

// Scale は1つのベクトルを標準化する
func (s *Standardizer) Scale(x []float64) ([]float64, error) {
	if err := s.check("Scale", len(x)); err != nil {
		return nil, err
	}
	out := make([]float64, len(x))
	for j, v := range x {
		out[j] = (v - s.Mean[j]) / s.divisor[j]
	}
	return out, nil
}

// Unscale は標準化されたベクトルを元のスケールに戻す
func (s *Standardizer) Unscale(sx []float64) ([]float64, error) {
	if err := s.check("Unscale", len(sx)); err != nil {
		return nil, err
	}
	out := make([]float64, len(sx))
	for j, v := range sx {
		out[j] = v*s.divisor[j] + s.Mean[j]
	}
	return out, nil
}

// ScaleRows は行列の各行を標準化した新しい行列を返す
func (s *Standardizer) ScaleRows(X mat.Matrix) (*mat.Dense, error) {
	return s.apply("ScaleRows", X, func(v float64, j int) float64 {
		return (v - s.Mean[j]) / s.divisor[j]
	})
}

// UnscaleRows は行列の各行を元のスケールに戻した新しい行列を返す
func (s *Standardizer) UnscaleRows(X mat.Matrix) (*mat.Dense, error) {
	return s.apply("UnscaleRows", X, func(v float64, j int) float64 {
		return v*s.divisor[j] + s.Mean[j]
	})
}

// Transform は model.Transformer を満たすための ScaleRows の別名
func (s *Standardizer) Transform(X mat.Matrix) (mat.Matrix, error) {
	return s.ScaleRows(X)
}

// InverseTransform は model.Transformer を満たすための UnscaleRows の別名
func (s *Standardizer) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	return s.UnscaleRows(X)
}

func (s *Standardizer) apply(op string, X mat.Matrix, fn func(v float64, j int) float64) (*mat.Dense, error) {
	r, c := X.Dims()
	if err := s.check(op, c); err != nil {
		return nil, err
	}
	result := mat.NewDense(r, c, nil)
	parallel.ParallelizeWithThreshold(r, rowParallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			for j := 0; j < c; j++ {
				result.Set(i, j, fn(X.At(i, j), j))
			}
		}
	})
	return result, nil
}

func (s *Standardizer) check(op string, nFeatures int) error {
	if !s.IsFitted() {
		return errors.NewNotFittedError("Standardizer", op)
	}
	if nFeatures != s.NFeatures {
		return errors.NewDimensionError("Standardizer."+op, s.NFeatures, nFeatures, 1)
	}
	return nil
}

// String はStandardizerの文字列表現を返す
func (s *Standardizer) String() string {
	if !s.IsFitted() {
		return "Standardizer()"
	}
	degenerate := 0
	for _, v := range s.Std {
		if v == 0 || math.IsNaN(v) {
			degenerate++
		}
	}
	return fmt.Sprintf("Standardizer(n_features=%d, degenerate=%d)", s.NFeatures, degenerate)
}
