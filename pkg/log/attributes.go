// Package log defines standard attribute keys for LEAF evaluations.
//
// Keys follow a hierarchical naming convention (e.g. "leaf.method",
// "data.features") so that logs of many explanation runs can be filtered
// and aggregated.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the component type.
	// Examples: "Evaluator", "Standardizer", "KernelExplainer"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	// Examples: "evaluator", "report", "lime", "shap"
	ComponentKey = "ml.component"
)

// Evaluation Context
const (
	// RunIDKey identifies one ExplainInstance call.
	RunIDKey = "leaf.run_id"

	// MethodKey is the explanation method tag ("lime" or "shap").
	MethodKey = "leaf.method"

	// RepKey is the zero-based repetition index.
	RepKey = "leaf.rep"

	// RepsKey is the number of repetitions requested.
	RepsKey = "leaf.reps"

	// LabelKey is the class predicted by the black box for the instance.
	LabelKey = "leaf.label"

	// ProbabilityKey is the black-box probability of LabelKey at the instance.
	ProbabilityKey = "leaf.probability"

	// StabilityKey, LocalConcordanceKey, FidelityKey and PrescriptivityKey
	// carry the summary metrics.
	StabilityKey        = "leaf.stability"
	LocalConcordanceKey = "leaf.local_concordance"
	FidelityKey         = "leaf.fidelity"
	PrescriptivityKey   = "leaf.prescriptivity"

	// FigurePathKey is the path of a saved figure.
	FigurePathKey = "leaf.figure_path"
)

// Data Shape and Characteristics
const (
	// SamplesKey indicates the number of samples (rows) in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns) in the dataset.
	FeaturesKey = "data.features"

	// NeighborhoodKey is the number of neighborhood samples.
	NeighborhoodKey = "data.neighborhood"
)

// Performance and Configuration
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// WorkersKey records the number of goroutines used for repetitions.
	WorkersKey = "perf.workers"

	// RandomSeedKey records the random seed for reproducibility.
	RandomSeedKey = "config.random_seed"
)

// Error and Warning Context
const (
	// ErrorTypeKey categorizes the type of error encountered.
	ErrorTypeKey = "error.type"

	// StacktraceKey contains stack trace information for debugging.
	StacktraceKey = "error.stacktrace"
)

// Standard attribute values.
const (
	OperationFit      = "fit"
	OperationExplain  = "explain_instance"
	OperationEvaluate = "evaluate_surrogate"
	OperationRender   = "render"
)
