// Package leaf evaluates local linear explanations of black-box binary
// classifiers, following the LEAF framework.
//
// LIME and SHAP both explain a single prediction with a linear surrogate.
// LEAF asks how good such a surrogate is around the instance x0 and reports
// four metrics per explanation method:
//
// - Stability: how much the top-K features agree across repeated explanations
// - Local Concordance: how close the surrogate's output at x0 is to the black box
// - Fidelity: how well the surrogate mimics the black box in a neighborhood of x0
// - Prescriptivity: how well the surrogate's decision boundary locates the black box's
//
// # Installation
//
//	go get github.com/YuminosukeSato/leaf
//
// # Quick Start
//
//	package main
//
//	import (
//	    "context"
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/leaf/blackbox"
//	    "github.com/YuminosukeSato/leaf/evaluator"
//	)
//
//	func main() {
//	    ds := blackbox.Synthetic(1000, []float64{2, -1}, 4, 42)
//
//	    // Any model.ProbaClassifier can be evaluated
//	    bb := blackbox.NewLogisticRegression()
//	    if err := bb.Fit(ds.X, ds.Y); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    ev, err := evaluator.New(bb, ds.X, ds.Y, ds.ClassNames)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    res, err := ev.ExplainInstance(context.Background(), ds.X.RawRowView(0),
//	        evaluator.WithNumReps(20), evaluator.WithNumFeatures(2))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(res.Summary())
//	}
//
// # Packages
//
// The library is organized into several packages:
//
//   - evaluator: the LEAF evaluation loop, configuration and results
//   - explain/lime: tabular LIME explainer
//   - explain/shap: kernel SHAP explainer
//   - surrogate: linear surrogates built from LIME and SHAP explanations
//   - metrics: classification agreement, Jaccard similarity and summary statistics
//   - report: box plots (gonum/plot) and text tables of a result
//   - blackbox: a reference logistic black box and CSV loading
//   - linear: weighted ridge regression used by both explainers
//   - preprocessing: feature standardization and stratified sampling
//   - core/model: core interfaces and base types
//   - core/parallel: parallel processing utilities
//   - performance: scratch matrix pooling
//   - pkg/errors, pkg/log: structured errors, warnings and logging
//
// # Command line
//
// cmd/leaf trains the reference black box on a CSV file and prints the
// evaluation table:
//
//	leaf explain --data iris_binary.csv --label species --row 12 --reps 20 --features 3 --figures out/
//
// # Reproducibility
//
// Every repetition draws from its own random stream derived from the
// configured seed, so results do not depend on the number of workers.
package leaf
