package lime

// FeatureSelection selects which features enter the local ridge fit.
type FeatureSelection int

const (
	// HighestWeights keeps the features with the largest |coef_j·sx0_j|
	// under a lightly regularized ridge fit on all features.
	HighestWeights FeatureSelection = iota
	// AllFeatures fits the local model on every feature.
	AllFeatures
)

// Option is a function that configures TabularExplainer
type Option func(*TabularExplainer)

// WithNumSamples sets the size of the perturbation sample
func WithNumSamples(n int) Option {
	return func(e *TabularExplainer) {
		e.numSamples = n
	}
}

// WithKernelWidth sets the width of the exponential distance kernel
func WithKernelWidth(width float64) Option {
	return func(e *TabularExplainer) {
		e.kernelWidth = width
	}
}

// WithFeatureSelection sets the feature selection strategy
func WithFeatureSelection(fs FeatureSelection) Option {
	return func(e *TabularExplainer) {
		e.selection = fs
	}
}

// WithAlpha sets the ridge regularization of the final local fit
func WithAlpha(alpha float64) Option {
	return func(e *TabularExplainer) {
		e.alpha = alpha
	}
}
