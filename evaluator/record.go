package evaluator

import (
	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/leaf/surrogate"
)

// MethodMetrics は1回の反復で1つの説明手法について計算した指標。
// 確率はすべてブラックボックスの出力で、F はクラス0、T はクラス1を指す。
type MethodMetrics struct {
	// Surrogate はこの反復で得られた局所線形モデル
	Surrogate surrogate.Linear

	// PlaneDistX0 は sx0 からサロゲートの決定境界までの符号付き距離
	PlaneDistX0 float64
	// X1 は境界点（元のスケール）
	X1 []float64
	// ClassX1 は x1 でのブラックボックスの予測クラス
	ClassX1     int
	ProbX1F     float64
	ProbX1T     float64
	ProbX1Label float64

	// LocalDiscr は |g(sx0) − P(label|x0)|
	LocalDiscr float64
	// SignedLocalDiscr は g(sx0) − P(label|x0)
	SignedLocalDiscr float64
	// BoundaryDiscr は g(sx1) − P(class 0|x1)
	BoundaryDiscr float64

	// X1ChangeScore は x1 近傍でブラックボックスが元のラベルから外れた点の割合
	X1ChangeScore float64
	AvgBBNX0      float64
	AvgBBNX1      float64
	RatioX0       float64
	RatioX1       float64
	RatioWBX0     float64
	RatioWBX1     float64

	Fidelity          float64
	Prescriptivity    float64
	BalFidelity       float64
	BalPrescriptivity float64
	FidelityF1        float64
	PrescriptivityF1  float64
	PrecisionX1       float64
	RecallX1          float64

	// TopFeatures は |係数| の大きい順の上位K特徴量
	TopFeatures []int
	// Mask は TopFeatures の長さFの二値マスク
	Mask []bool

	// Failed は指標計算が失敗し、指標が0のままであることを示す
	Failed bool
}

// Row は1回の反復の記録
type Row struct {
	Rep     int
	ProbX0  float64
	ProbX0F float64
	ProbX0T float64
	LabelX0 int
	LIME    MethodMetrics
	SHAP    MethodMetrics
}

// Metrics は手法ごとの指標を返す
func (r *Row) Metrics(m surrogate.Method) *MethodMetrics {
	if m == surrogate.SHAP {
		return &r.SHAP
	}
	return &r.LIME
}

// Stability は手法ごとのマスク間Jaccard類似度（凝縮形式）とその統計
type Stability struct {
	Pairwise []float64
	Mean     float64
	Std      float64
}

// Result は ExplainInstance 1回分の結果
type Result struct {
	RunID       uuid.UUID
	Instance    []float64
	Label       int
	ClassName   string
	ProbX0      float64
	NumFeatures int
	Rows        []Row

	// Stability は手法ごとの安定性
	Stability map[surrogate.Method]Stability

	// Cross は LIME×SHAP のマスク類似度行列（NumReps×NumReps）
	Cross     *mat.Dense
	CrossMean float64
	CrossStd  float64
}

// Values は各反復から field で取り出した値を返す
func (r *Result) Values(m surrogate.Method, field func(*MethodMetrics) float64) []float64 {
	out := make([]float64, len(r.Rows))
	for i := range r.Rows {
		out[i] = field(r.Rows[i].Metrics(m))
	}
	return out
}

// Masks は各反復の上位K特徴量マスクを返す
func (r *Result) Masks(m surrogate.Method) [][]bool {
	out := make([][]bool, len(r.Rows))
	for i := range r.Rows {
		out[i] = r.Rows[i].Metrics(m).Mask
	}
	return out
}
