// Package evaluator implements LEAF, a quantitative evaluation of local
// linear explanations (LIME and SHAP) of a black-box binary classifier.
//
// For one instance x0 the Evaluator repeatedly asks both explanation
// methods for a local surrogate, projects x0 onto the surrogate's decision
// boundary, compares surrogate and black box on Gaussian neighborhoods of
// x0 and of the boundary point, and aggregates four metrics per method:
// stability, local concordance, fidelity and prescriptivity.
//
//	ev, err := evaluator.New(clf, X, y, []string{"neg", "pos"})
//	res, err := ev.ExplainInstance(ctx, x0, evaluator.WithNumReps(20))
//	fmt.Println(res.Summary())
package evaluator

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/leaf/core/model"
	"github.com/YuminosukeSato/leaf/core/parallel"
	"github.com/YuminosukeSato/leaf/explain/lime"
	"github.com/YuminosukeSato/leaf/explain/shap"
	"github.com/YuminosukeSato/leaf/metrics"
	"github.com/YuminosukeSato/leaf/performance"
	"github.com/YuminosukeSato/leaf/pkg/errors"
	"github.com/YuminosukeSato/leaf/pkg/log"
	"github.com/YuminosukeSato/leaf/preprocessing"
	"github.com/YuminosukeSato/leaf/surrogate"
)

// 乱数系列のストリーム番号。反復 rep はストリーム rep を使う。
const (
	backgroundStream   = 1 << 40
	neighborhoodStream = 1<<40 + 1
)

// LIMEProvider explains x0 with a sparse local linear model of clf's
// probability for label. Implementations must be safe for concurrent use
// with distinct random sources.
type LIMEProvider interface {
	Explain(ctx context.Context, clf model.ProbaClassifier, x0 []float64, label, numFeatures int, rng *rand.Rand) (*surrogate.LIMEExplanation, error)
}

// SHAPProvider returns per-class attributions of x0 and the expected
// values they are relative to.
type SHAPProvider interface {
	ShapValues(ctx context.Context, x0 []float64, rng *rand.Rand) (*surrogate.SHAPExplanation, error)
}

// Renderer consumes a finished Result. dir is used as a file name prefix.
type Renderer interface {
	Render(r *Result, dir string) error
}

// Evaluator is built once per (classifier, dataset) pair and reused across
// ExplainInstance calls.
type Evaluator struct {
	bb         model.ProbaClassifier
	classNames []string
	cfg        Config

	scaler     *preprocessing.Standardizer
	background *mat.Dense
	lime       LIMEProvider
	shap       SHAPProvider
	renderer   Renderer
	logger     log.Logger
	pool       *performance.MatrixPool

	mu   sync.RWMutex
	last *Result
}

// New draws a stratified background sample from (X, y), fits the feature
// standardizer on it and builds the explanation providers.
func New(bb model.ProbaClassifier, X mat.Matrix, y []int, classNames []string, opts ...Option) (*Evaluator, error) {
	if bb == nil {
		return nil, errors.NewValueError("evaluator.New", "nil classifier")
	}
	if len(classNames) != 2 {
		return nil, errors.Wrapf(errors.ErrNotBinary, "got %d class names", len(classNames))
	}

	e := &Evaluator{
		bb:         bb,
		classNames: append([]string(nil), classNames...),
		cfg:        DefaultConfig(),
		logger:     log.GetLogger(),
		pool:       performance.NewMatrixPool(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}
	e.logger = e.logger.With(log.ComponentKey, "evaluator")

	bgRng := rand.New(rand.NewPCG(e.cfg.Seed, backgroundStream))
	background, _, err := preprocessing.StratifiedSample(X, y, e.cfg.BackgroundSize, bgRng)
	if err != nil {
		return nil, err
	}
	e.background = background

	e.scaler = preprocessing.NewStandardizer()
	if err := e.scaler.Fit(background); err != nil {
		return nil, err
	}

	if e.lime == nil {
		explainer, err := lime.NewTabularExplainer(e.scaler, lime.WithNumSamples(e.cfg.ExplanationSamples))
		if err != nil {
			return nil, err
		}
		e.lime = explainer
	}
	if e.shap == nil {
		explainer, err := shap.NewKernelExplainer(bb, background, shap.WithNSamples(e.cfg.ExplanationSamples))
		if err != nil {
			return nil, err
		}
		e.shap = explainer
	}

	rows, F := background.Dims()
	e.logger.Debug("evaluator ready", log.FeaturesKey, F, log.SamplesKey, rows, log.RandomSeedKey, e.cfg.Seed)
	return e, nil
}

// Standardizer returns the feature standardizer fitted on the background.
func (e *Evaluator) Standardizer() *preprocessing.Standardizer {
	return e.scaler
}

// ExplainInstance evaluates both explanation methods on x0. Provider errors
// abort the call; failures inside one repetition's metric computation are
// logged and leave that repetition's metrics at zero. On success the result
// also becomes the one reported by Last and the summary accessors.
// A renderer error is returned together with the completed result.
func (e *Evaluator) ExplainInstance(ctx context.Context, x0 []float64, opts ...ExplainOption) (*Result, error) {
	start := time.Now()
	cfg := e.cfg.Explain
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	F := e.scaler.NFeatures
	if len(x0) != F {
		return nil, errors.NewDimensionError("ExplainInstance", F, len(x0), 1)
	}
	if cfg.NumFeatures > F {
		return nil, errors.NewValidationError("num_features", fmt.Sprintf("must not exceed the number of features (%d)", F), cfg.NumFeatures)
	}
	x0 = append([]float64(nil), x0...)

	runID := uuid.New()
	logger := e.logger.With(log.RunIDKey, runID.String())
	info := logger.Debug
	if cfg.Verbose {
		info = logger.Info
	}

	k := &kernel{bb: e.bb, logger: logger, pool: e.pool}
	output, err := k.predict(x1Matrix(x0))
	if err != nil {
		return nil, err
	}
	probs := mat.Row(nil, 0, output)
	if err := errors.CheckNumericalStability("ExplainInstance", probs); err != nil {
		return nil, err
	}
	label := 0
	if probs[1] > probs[0] {
		label = 1
	}
	probX0 := probs[label]
	info("explaining instance", log.LabelKey, e.classNames[label], log.ProbabilityKey, probX0,
		log.RepsKey, cfg.NumReps, log.FeaturesKey, cfg.NumFeatures,
		log.NeighborhoodKey, cfg.NeighborhoodSamples, log.WorkersKey, cfg.Workers)

	spaces, err := e.spaces(cfg)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, cfg.NumReps)
	var done int
	var doneMu sync.Mutex
	err = parallel.ForEach(ctx, cfg.NumReps, cfg.Workers, func(ctx context.Context, rep int) error {
		row, err := e.repetition(ctx, k, rep, x0, label, probs, cfg.NumFeatures, spaces)
		if err != nil {
			return err
		}
		rows[rep] = row

		doneMu.Lock()
		done++
		progress := done
		doneMu.Unlock()
		info("repetition done", log.RepKey, rep, "progress", fmt.Sprintf("%d/%d", progress, cfg.NumReps))
		return nil
	})
	if err != nil {
		logger.Error("explanation aborted", err)
		return nil, err
	}

	res := &Result{
		RunID:       runID,
		Instance:    x0,
		Label:       label,
		ClassName:   e.classNames[label],
		ProbX0:      probX0,
		NumFeatures: cfg.NumFeatures,
		Rows:        rows,
		Stability:   make(map[surrogate.Method]Stability, len(surrogate.Methods)),
	}
	if err := res.aggregate(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.last = res
	e.mu.Unlock()

	sum := res.Summary()
	for _, m := range surrogate.Methods {
		ms := sum.Method(m)
		info("method summary", log.MethodKey, m.String(),
			log.StabilityKey, ms.Stability,
			log.LocalConcordanceKey, ms.LocalConcordance,
			log.FidelityKey, ms.Fidelity,
			log.PrescriptivityKey, ms.Prescriptivity)
	}
	stats := e.pool.Stats()
	info("explanation finished", log.DurationMsKey, time.Since(start).Milliseconds(),
		"scratch_allocated", stats.TotalAllocated, "scratch_peak", stats.PeakUsage)

	if cfg.FigureDir != "" {
		if e.renderer == nil {
			logger.Warn("figure directory set but no renderer attached", log.FigurePathKey, cfg.FigureDir)
		} else if err := e.renderer.Render(res, cfg.FigureDir); err != nil {
			logger.Error("rendering failed", err, log.FigurePathKey, cfg.FigureDir)
			return res, errors.Wrap(err, "leaf: rendering result")
		}
	}
	return res, nil
}

// spaces draws the shared neighborhood sample and returns the evaluation
// space of each method: LIME surrogates live in standardized space, SHAP
// surrogates in centered space where the sample is scaled by StdX.
func (e *Evaluator) spaces(cfg ExplainConfig) (map[surrogate.Method]space, error) {
	F := e.scaler.NFeatures
	cov := identity(F)
	if cfg.UseCovMatrix {
		scaled, err := e.scaler.ScaleRows(e.background)
		if err != nil {
			return nil, err
		}
		cov = neighborhoodCovariance(scaled)
	}
	normV, err := sampleNeighborhood(cfg.NeighborhoodSamples, cov, rand.NewPCG(e.cfg.Seed, neighborhoodStream))
	if err != nil {
		return nil, err
	}

	keep := make([]float64, F)
	for j := range keep {
		if !e.scaler.Degenerate(j) {
			keep[j] = 1
		}
	}
	return map[surrogate.Method]space{
		surrogate.LIME: {scaler: e.scaler, normV: scaleColumns(normV, keep)},
		surrogate.SHAP: {scaler: e.scaler.CenterOnly(), normV: scaleColumns(normV, e.scaler.Std)},
	}, nil
}

// repetition runs both providers once and evaluates their surrogates.
func (e *Evaluator) repetition(ctx context.Context, k *kernel, rep int, x0 []float64, label int, probs []float64, numFeatures int, spaces map[surrogate.Method]space) (Row, error) {
	rng := rand.New(rand.NewPCG(e.cfg.Seed, uint64(rep)))
	row := Row{Rep: rep, ProbX0: probs[label], ProbX0F: probs[0], ProbX0T: probs[1], LabelX0: label}

	limeExp, err := e.lime.Explain(ctx, e.bb, x0, label, numFeatures, rng)
	if err != nil {
		return row, errors.NewModelError("ExplainInstance", "lime provider failed", err)
	}
	shapExp, err := e.shap.ShapValues(ctx, x0, rng)
	if err != nil {
		return row, errors.NewModelError("ExplainInstance", "shap provider failed", err)
	}
	surrogate.PruneTopK(shapExp.Phi, numFeatures)

	gLIME, err := surrogate.FromLIME(limeExp, label, len(x0))
	if err != nil {
		return row, err
	}
	gSHAP, err := surrogate.FromSHAP(shapExp, label, x0, e.scaler.Mean)
	if err != nil {
		return row, err
	}

	for _, m := range surrogate.Methods {
		g := gLIME
		if m == surrogate.SHAP {
			g = gSHAP
		}
		g = surrogate.ZeroDegenerate(g, e.scaler.Std)

		in := kernelInput{method: m, g: g, x0: x0, label: label, probX0: probs[label], space: spaces[m]}
		metricsRow, err := errors.SafeCompute("evaluate "+m.String(), func() (MethodMetrics, error) {
			return k.evaluate(ctx, in)
		})
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return row, ctxErr
			}
			k.logger.Error("metric computation failed", err, log.MethodKey, m.String(), log.RepKey, rep)
			metricsRow = MethodMetrics{Surrogate: g, X1: append([]float64(nil), x0...), Failed: true}
		}
		metricsRow.TopFeatures = surrogate.TopK(g.Coef, numFeatures)
		metricsRow.Mask = surrogate.Mask(metricsRow.TopFeatures, len(x0))
		*row.Metrics(m) = metricsRow
	}
	return row, nil
}

// aggregate computes the stability statistics from the repetition masks.
func (r *Result) aggregate() error {
	for _, m := range surrogate.Methods {
		pairwise, err := metrics.PairwiseJaccard(r.Masks(m))
		if err != nil {
			return err
		}
		if len(pairwise) == 0 {
			errors.Warn(errors.NewUndefinedMetricWarning(m.String()+"_stability", "fewer than two repetitions", 0))
		}
		mean, std := metrics.MeanStd(pairwise)
		r.Stability[m] = Stability{Pairwise: pairwise, Mean: mean, Std: std}
	}

	cross, err := metrics.CrossJaccard(r.Masks(surrogate.LIME), r.Masks(surrogate.SHAP))
	if err != nil {
		return err
	}
	r.Cross = cross
	r.CrossMean, r.CrossStd = metrics.MeanStd(cross.RawMatrix().Data)
	return nil
}
