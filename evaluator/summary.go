package evaluator

import (
	"fmt"

	"github.com/YuminosukeSato/leaf/metrics"
	"github.com/YuminosukeSato/leaf/pkg/errors"
	"github.com/YuminosukeSato/leaf/surrogate"
)

// MethodSummary は1つの説明手法の LEAF 指標
type MethodSummary struct {
	Stability        float64
	StabilityStd     float64
	LocalConcordance float64
	Fidelity         float64
	Prescriptivity   float64
}

// Summary は両手法の LEAF 指標と手法間の類似度
type Summary struct {
	LIME            MethodSummary
	SHAP            MethodSummary
	CrossSimilarity float64
	CrossStd        float64
}

// Method は手法ごとの要約を返す
func (s Summary) Method(m surrogate.Method) MethodSummary {
	if m == surrogate.SHAP {
		return s.SHAP
	}
	return s.LIME
}

// String は要約を1行ずつ整形する
func (s Summary) String() string {
	out := ""
	for _, m := range surrogate.Methods {
		ms := s.Method(m)
		out += fmt.Sprintf("%s: stability=%.3f±%.3f local_concordance=%.3f fidelity=%.3f prescriptivity=%.3f\n",
			m, ms.Stability, ms.StabilityStd, ms.LocalConcordance, ms.Fidelity, ms.Prescriptivity)
	}
	out += fmt.Sprintf("lime×shap similarity=%.3f±%.3f", s.CrossSimilarity, s.CrossStd)
	return out
}

// Summary は4つの LEAF 指標を手法ごとにまとめる
func (r *Result) Summary() Summary {
	s := Summary{CrossSimilarity: r.CrossMean, CrossStd: r.CrossStd}
	for _, m := range surrogate.Methods {
		ms := MethodSummary{
			Stability:        r.StabilityOf(m),
			StabilityStd:     r.Stability[m].Std,
			LocalConcordance: r.LocalConcordance(m),
			Fidelity:         r.Fidelity(m),
			Prescriptivity:   r.Prescriptivity(m),
		}
		if m == surrogate.SHAP {
			s.SHAP = ms
		} else {
			s.LIME = ms
		}
	}
	return s
}

// StabilityOf はマスク間Jaccard類似度の平均
func (r *Result) StabilityOf(m surrogate.Method) float64 {
	return r.Stability[m].Mean
}

// LocalConcordance は hinge(mean(LocalDiscr))
func (r *Result) LocalConcordance(m surrogate.Method) float64 {
	return metrics.HingeLoss(metrics.Mean(r.Values(m, func(mm *MethodMetrics) float64 { return mm.LocalDiscr })))
}

// Fidelity は FidelityF1 の平均
func (r *Result) Fidelity(m surrogate.Method) float64 {
	return metrics.Mean(r.Values(m, func(mm *MethodMetrics) float64 { return mm.FidelityF1 }))
}

// Prescriptivity は hinge(mean(2·|BoundaryDiscr|))
func (r *Result) Prescriptivity(m surrogate.Method) float64 {
	return metrics.HingeLoss(metrics.MeanAbs(r.Values(m, func(mm *MethodMetrics) float64 { return mm.BoundaryDiscr }), 2))
}

// Last は直近の ExplainInstance の結果を返す
func (e *Evaluator) Last() (*Result, error) {
	return e.lastFor("Last")
}

func (e *Evaluator) lastFor(accessor string) (*Result, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.last == nil {
		return nil, errors.NewNotExplainedError(accessor)
	}
	return e.last, nil
}

// Stability は直近の結果の安定性を返す
func (e *Evaluator) Stability(m surrogate.Method) (float64, error) {
	r, err := e.lastFor("Stability")
	if err != nil {
		return 0, err
	}
	return r.StabilityOf(m), nil
}

// LocalConcordance は直近の結果の局所一致度を返す
func (e *Evaluator) LocalConcordance(m surrogate.Method) (float64, error) {
	r, err := e.lastFor("LocalConcordance")
	if err != nil {
		return 0, err
	}
	return r.LocalConcordance(m), nil
}

// Fidelity は直近の結果の忠実度を返す
func (e *Evaluator) Fidelity(m surrogate.Method) (float64, error) {
	r, err := e.lastFor("Fidelity")
	if err != nil {
		return 0, err
	}
	return r.Fidelity(m), nil
}

// Prescriptivity は直近の結果の処方性を返す
func (e *Evaluator) Prescriptivity(m surrogate.Method) (float64, error) {
	r, err := e.lastFor("Prescriptivity")
	if err != nil {
		return 0, err
	}
	return r.Prescriptivity(m), nil
}
