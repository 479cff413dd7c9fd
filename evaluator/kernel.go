package evaluator

import (
	"context"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/leaf/core/model"
	"github.com/YuminosukeSato/leaf/metrics"
	"github.com/YuminosukeSato/leaf/performance"
	"github.com/YuminosukeSato/leaf/pkg/errors"
	"github.com/YuminosukeSato/leaf/pkg/log"
	"github.com/YuminosukeSato/leaf/preprocessing"
	"github.com/YuminosukeSato/leaf/surrogate"
)

// degenerateTolerance は ‖coef‖ と |sx0·coef| の退化判定閾値
const degenerateTolerance = 1e-5

// space はサロゲートが定義される座標系と、その座標系での近傍サンプル
type space struct {
	scaler *preprocessing.Standardizer
	normV  *mat.Dense
}

// kernelInput は1つのサロゲートの評価に必要な入力
type kernelInput struct {
	method surrogate.Method
	g      surrogate.Linear
	x0     []float64
	label  int
	probX0 float64
	space  space
}

// kernel はサロゲートを境界点へ射影し、2つの近傍でブラックボックスと比較する
type kernel struct {
	bb     model.ProbaClassifier
	logger log.Logger
	// pool は近傍の作業行列を再利用する。nil なら毎回確保する
	pool *performance.MatrixPool
}

func (k *kernel) evaluate(ctx context.Context, in kernelInput) (MethodMetrics, error) {
	var m MethodMetrics
	m.Surrogate = in.g
	sc := in.space.scaler

	sx0, err := sc.Scale(in.x0)
	if err != nil {
		return m, err
	}
	sx0w := floats.Dot(sx0, in.g.Coef)
	pScore := sx0w + in.g.Intercept
	norm := in.g.Norm()

	sx1 := append([]float64(nil), sx0...)
	if norm < degenerateTolerance || math.Abs(sx0w) < degenerateTolerance {
		w := errors.NewDegenerateSurrogateWarning(in.method.String(), norm, math.Abs(sx0w), degenerateTolerance)
		k.logger.Warn(w.Error(), log.MethodKey, in.method.String())
		m.PlaneDistX0 = 0
	} else {
		floats.AddScaled(sx1, (0.5-pScore)/sx0w, sx0)
		m.PlaneDistX0 = pScore / norm
	}

	x1, err := sc.Unscale(sx1)
	if err != nil {
		return m, err
	}
	m.X1 = x1

	probX1, err := k.predict(x1Matrix(x1))
	if err != nil {
		return m, err
	}
	m.ProbX1F, m.ProbX1T = probX1.At(0, 0), probX1.At(0, 1)
	m.ProbX1Label = probX1.At(0, in.label)
	if m.ProbX1T > m.ProbX1F {
		m.ClassX1 = 1
	}

	m.SignedLocalDiscr = in.g.Predict(sx0) - in.probX0
	m.LocalDiscr = math.Abs(m.SignedLocalDiscr)
	m.BoundaryDiscr = in.g.Predict(sx1) - m.ProbX1F

	if err := ctx.Err(); err != nil {
		return m, err
	}

	bby0, wby0, err := k.neighborhood(in, sx0)
	if err != nil {
		return m, err
	}
	bby1, wby1, err := k.neighborhood(in, sx1)
	if err != nil {
		return m, err
	}

	bbcls0, wbcls0 := metrics.Binarize(bby0, 0.5), metrics.Binarize(wby0, 0.5)
	bbcls1, wbcls1 := metrics.Binarize(bby1, 0.5), metrics.Binarize(wby1, 0.5)

	// ブラックボックスのクラス: クラス0の確率が0.5を超えれば0
	changed := 0
	for _, isClass0 := range bbcls1 {
		if (isClass0 && in.label != 0) || (!isClass0 && in.label != 1) {
			changed++
		}
	}
	m.X1ChangeScore = float64(changed) / float64(len(bbcls1))
	m.AvgBBNX0 = metrics.Mean(bby0)
	m.AvgBBNX1 = metrics.Mean(bby1)
	m.RatioX0 = metrics.PositiveRate(bbcls0)
	m.RatioX1 = metrics.PositiveRate(bbcls1)
	m.RatioWBX0 = metrics.PositiveRate(wbcls0)
	m.RatioWBX1 = metrics.PositiveRate(wbcls1)

	score := func(name string, fn func(yTrue, yPred []bool) (float64, error), yTrue, yPred []bool) float64 {
		v, err := fn(yTrue, yPred)
		if err == nil {
			return v
		}
		var w *errors.UndefinedMetricWarning
		if errors.As(err, &w) {
			k.logger.Debug(w.Error(), log.MethodKey, in.method.String())
		} else {
			k.logger.Warn("metric computation failed", log.MethodKey, in.method.String(), "metric", name, log.ErrAttrKey, err)
		}
		return 0
	}
	m.Fidelity = score("fidelity", metrics.Accuracy, bbcls0, wbcls0)
	m.Prescriptivity = score("prescriptivity", metrics.Accuracy, bbcls1, wbcls1)
	m.BalFidelity = score("bal_fidelity", metrics.BalancedAccuracy, bbcls0, wbcls0)
	m.BalPrescriptivity = score("bal_prescriptivity", metrics.BalancedAccuracy, bbcls1, wbcls1)
	m.FidelityF1 = score("fidelity_f1", metrics.F1, bbcls0, wbcls0)
	m.PrescriptivityF1 = score("prescriptivity_f1", metrics.F1, bbcls1, wbcls1)
	m.PrecisionX1 = score("precision_x1", metrics.Precision, bbcls1, wbcls1)
	m.RecallX1 = score("recall_x1", metrics.Recall, bbcls1, wbcls1)

	return m, nil
}

// neighborhood translates normV to center, queries the black box (class 0
// column) and the surrogate. The surrogate output is flipped when the
// explained label is 1 so both describe class 0.
func (k *kernel) neighborhood(in kernelInput, center []float64) (bby, wby []float64, err error) {
	normV := in.space.normV
	n, F := normV.Dims()
	snx := k.scratch(n, F)
	defer k.release(snx)
	wby = make([]float64, n)
	for i := 0; i < n; i++ {
		row := snx.RawRowView(i)
		copy(row, normV.RawRowView(i))
		floats.Add(row, center)
		wby[i] = in.g.Predict(row)
		if in.label == 1 {
			wby[i] = 1 - wby[i]
		}
	}
	nx, err := in.space.scaler.UnscaleRows(snx)
	if err != nil {
		return nil, nil, err
	}
	proba, err := k.predict(nx)
	if err != nil {
		return nil, nil, err
	}
	return mat.Col(nil, 0, proba), wby, nil
}

func (k *kernel) scratch(r, c int) *mat.Dense {
	if k.pool == nil {
		return mat.NewDense(r, c, nil)
	}
	return k.pool.Get(r, c)
}

func (k *kernel) release(m *mat.Dense) {
	if k.pool != nil {
		k.pool.Put(m)
	}
}

// predict queries the black box and checks the binary probability shape.
func (k *kernel) predict(X mat.Matrix) (mat.Matrix, error) {
	proba, err := k.bb.PredictProba(X)
	if err != nil {
		return nil, errors.NewModelError("ExplainInstance", "black-box query failed", err)
	}
	return proba, checkBinary(proba, X)
}

func checkBinary(proba, X mat.Matrix) error {
	r, _ := X.Dims()
	pr, pc := proba.Dims()
	if pc != 2 {
		return errors.Wrapf(errors.ErrNotBinary, "classifier returned %d columns", pc)
	}
	if pr != r {
		return errors.NewDimensionError("ExplainInstance", r, pr, 0)
	}
	return nil
}

func x1Matrix(x []float64) *mat.Dense {
	return mat.NewDense(1, len(x), append([]float64(nil), x...))
}
