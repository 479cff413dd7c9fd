package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/YuminosukeSato/leaf/evaluator"
	"github.com/YuminosukeSato/leaf/surrogate"
)

// WriteTable writes one line per repetition and method followed by the
// summary of the four LEAF metrics.
func WriteTable(w io.Writer, res *evaluator.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	fmt.Fprintf(tw, "run %s\tlabel %s\tp(x0) %.3f\tK %d\t\n", res.RunID, res.ClassName, res.ProbX0, res.NumFeatures)
	fmt.Fprintln(tw, "rep\tmethod\ttop features\tlocal discr\tboundary discr\tfidelity f1\tprescriptivity f1\tx1 change\tfailed\t")
	for _, row := range res.Rows {
		for _, m := range surrogate.Methods {
			mm := row.Metrics(m)
			fmt.Fprintf(tw, "%d\t%s\t%v\t%.4f\t%+.4f\t%.4f\t%.4f\t%.4f\t%t\t\n",
				row.Rep, m, mm.TopFeatures, mm.LocalDiscr, mm.BoundaryDiscr,
				mm.FidelityF1, mm.PrescriptivityF1, mm.X1ChangeScore, mm.Failed)
		}
	}
	fmt.Fprintln(tw)

	sum := res.Summary()
	fmt.Fprintln(tw, "method\tstability\tlocal concordance\tfidelity\tprescriptivity\t")
	for _, m := range surrogate.Methods {
		ms := sum.Method(m)
		fmt.Fprintf(tw, "%s\t%.3f ± %.3f\t%.3f\t%.3f\t%.3f\t\n",
			m, ms.Stability, ms.StabilityStd, ms.LocalConcordance, ms.Fidelity, ms.Prescriptivity)
	}
	fmt.Fprintf(tw, "lime×shap\t%.3f ± %.3f\t\t\t\t\n", sum.CrossSimilarity, sum.CrossStd)
	return tw.Flush()
}
