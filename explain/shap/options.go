package shap

// Option is a function that configures KernelExplainer
type Option func(*KernelExplainer)

// WithNSamples sets the coalition budget per explanation
func WithNSamples(n int) Option {
	return func(e *KernelExplainer) {
		e.nSamples = n
	}
}

// WithRegularization sets the ridge strength of the weighted least squares solve
func WithRegularization(alpha float64) Option {
	return func(e *KernelExplainer) {
		e.alpha = alpha
	}
}
