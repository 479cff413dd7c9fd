package evaluator

import (
	"github.com/YuminosukeSato/leaf/pkg/log"
)

// Option is a function that configures an Evaluator at construction time
type Option func(*Evaluator)

// WithConfig replaces the whole configuration
func WithConfig(cfg Config) Option {
	return func(e *Evaluator) {
		e.cfg = cfg
	}
}

// WithExplanationSamples sets the sample budget of both explanation methods
func WithExplanationSamples(n int) Option {
	return func(e *Evaluator) {
		e.cfg.ExplanationSamples = n
	}
}

// WithBackgroundSize sets the number of rows kept in the background sample
func WithBackgroundSize(n int) Option {
	return func(e *Evaluator) {
		e.cfg.BackgroundSize = n
	}
}

// WithSeed sets the seed of every random stream
func WithSeed(seed uint64) Option {
	return func(e *Evaluator) {
		e.cfg.Seed = seed
	}
}

// WithLogger sets the logger
func WithLogger(l log.Logger) Option {
	return func(e *Evaluator) {
		e.logger = l
	}
}

// WithRenderer attaches a renderer invoked when a figure directory is set
func WithRenderer(r Renderer) Option {
	return func(e *Evaluator) {
		e.renderer = r
	}
}

// WithLIMEProvider replaces the built-in LIME explainer
func WithLIMEProvider(p LIMEProvider) Option {
	return func(e *Evaluator) {
		e.lime = p
	}
}

// WithSHAPProvider replaces the built-in kernel SHAP explainer
func WithSHAPProvider(p SHAPProvider) Option {
	return func(e *Evaluator) {
		e.shap = p
	}
}

// ExplainOption overrides the per-call settings of ExplainInstance
type ExplainOption func(*ExplainConfig)

// WithNumReps sets the number of repetitions
func WithNumReps(n int) ExplainOption {
	return func(c *ExplainConfig) {
		c.NumReps = n
	}
}

// WithNumFeatures sets the number of top features per explanation
func WithNumFeatures(k int) ExplainOption {
	return func(c *ExplainConfig) {
		c.NumFeatures = k
	}
}

// WithNeighborhoodSamples sets the size of the shared neighborhood sample
func WithNeighborhoodSamples(n int) ExplainOption {
	return func(c *ExplainConfig) {
		c.NeighborhoodSamples = n
	}
}

// WithCovMatrix draws the neighborhood from the empirical covariance of the
// standardized background instead of the identity
func WithCovMatrix(use bool) ExplainOption {
	return func(c *ExplainConfig) {
		c.UseCovMatrix = use
	}
}

// WithVerbose logs progress at info level
func WithVerbose(v bool) ExplainOption {
	return func(c *ExplainConfig) {
		c.Verbose = v
	}
}

// WithFigureDir sets the prefix of the saved figures
func WithFigureDir(dir string) ExplainOption {
	return func(c *ExplainConfig) {
		c.FigureDir = dir
	}
}

// WithWorkers sets the number of goroutines running repetitions
func WithWorkers(n int) ExplainOption {
	return func(c *ExplainConfig) {
		c.Workers = n
	}
}
