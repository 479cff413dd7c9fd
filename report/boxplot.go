// Package report は LEAF の評価結果を図と表にまとめます。
package report

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/leaf/evaluator"
	"github.com/YuminosukeSato/leaf/pkg/errors"
	"github.com/YuminosukeSato/leaf/pkg/log"
	"github.com/YuminosukeSato/leaf/surrogate"
)

// MetricNames は図の上から順に並ぶ LEAF 指標の名前
var MetricNames = []string{"Stability", "Local Concordance", "Fidelity", "Prescriptivity"}

// BoxPlotRenderer draws one horizontal box plot per method, one box per
// LEAF metric, and saves it as "<dir><method>_leaf.<format>".
type BoxPlotRenderer struct {
	Width  vg.Length
	Height vg.Length
	// Format は保存形式（pdf, png, svg など plot.Save が扱える拡張子）
	Format string

	logger log.Logger
}

// Option は BoxPlotRenderer の設定関数
type Option func(*BoxPlotRenderer)

// WithSize sets the figure size.
func WithSize(w, h vg.Length) Option {
	return func(r *BoxPlotRenderer) {
		r.Width, r.Height = w, h
	}
}

// WithFormat sets the output format.
func WithFormat(format string) Option {
	return func(r *BoxPlotRenderer) {
		r.Format = format
	}
}

// WithLogger sets the logger.
func WithLogger(l log.Logger) Option {
	return func(r *BoxPlotRenderer) {
		r.logger = l
	}
}

// NewBoxPlotRenderer returns a renderer producing 6×2.2 inch PDF figures.
func NewBoxPlotRenderer(opts ...Option) *BoxPlotRenderer {
	r := &BoxPlotRenderer{
		Width:  6 * vg.Inch,
		Height: 2.2 * vg.Inch,
		Format: "pdf",
		logger: log.GetLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With(log.ComponentKey, "report")
	return r
}

// Render implements evaluator.Renderer.
func (r *BoxPlotRenderer) Render(res *evaluator.Result, dir string) error {
	for _, m := range surrogate.Methods {
		p, err := r.Plot(res, m)
		if err != nil {
			return err
		}
		path := FigurePath(dir, m, r.Format)
		// vg の描画バックエンドは不正な寸法で panic することがある
		err = errors.SafeExecute("save "+path, func() error {
			return p.Save(r.Width, r.Height, path)
		})
		if err != nil {
			return errors.Wrapf(err, "leaf: saving %s", path)
		}
		r.logger.Info("figure saved", log.MethodKey, m.String(), log.FigurePathKey, path)
	}
	return nil
}

// FigurePath は dir を接頭辞としてそのまま連結する
func FigurePath(dir string, m surrogate.Method, format string) string {
	return dir + m.String() + "_leaf." + format
}

// Plot builds the box plot of method m without saving it.
func (r *BoxPlotRenderer) Plot(res *evaluator.Result, m surrogate.Method) (*plot.Plot, error) {
	data := Distributions(res, m)

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s (K=%d)", m, res.NumFeatures)
	p.X.Label.Text = "distribution"
	p.Y.Label.Text = "LEAF metrics"

	names := make([]string, len(data))
	for i, values := range data {
		// 上から Stability の順に並べる
		loc := float64(len(data) - 1 - i)
		box, err := plotter.NewBoxPlot(vg.Points(18), loc, plotter.Values(values))
		if err != nil {
			return nil, errors.Wrapf(err, "leaf: box plot of %s", MetricNames[i])
		}
		box.Horizontal = true
		p.Add(box)

		mean, std := stat.PopMeanStdDev(values, nil)
		names[len(data)-1-i] = fmt.Sprintf("%s  %.3f ± %.3f", MetricNames[i], mean, std)
	}
	p.NominalY(names...)
	p.X.Min, p.X.Max = -0.05, 1.05
	return p, nil
}

// Distributions returns the per-repetition values behind each box, in the
// order of MetricNames: pairwise stability, 1−LocalDiscr, FidelityF1 and
// 1−2|BoundaryDiscr|.
func Distributions(res *evaluator.Result, m surrogate.Method) [][]float64 {
	stability := append([]float64(nil), res.Stability[m].Pairwise...)
	if len(stability) == 0 {
		stability = []float64{res.StabilityOf(m)}
	}

	concordance := res.Values(m, func(mm *evaluator.MethodMetrics) float64 { return mm.LocalDiscr })
	floats.Scale(-1, concordance)
	floats.AddConst(1, concordance)

	fidelity := res.Values(m, func(mm *evaluator.MethodMetrics) float64 { return mm.FidelityF1 })

	prescriptivity := res.Values(m, func(mm *evaluator.MethodMetrics) float64 {
		d := mm.BoundaryDiscr
		if d < 0 {
			d = -d
		}
		return 1 - 2*d
	})

	return [][]float64{stability, concordance, fidelity, prescriptivity}
}
