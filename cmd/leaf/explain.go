package main

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/leaf/blackbox"
	"github.com/YuminosukeSato/leaf/evaluator"
	"github.com/YuminosukeSato/leaf/pkg/errors"
	"github.com/YuminosukeSato/leaf/pkg/log"
	"github.com/YuminosukeSato/leaf/report"
)

type explainOptions struct {
	dataFile    string
	labelColumn string
	synthetic   int
	row         int
	configFile  string
	figureDir   string
	figFormat   string

	cfg evaluator.Config
}

func explainCommand() *cobra.Command {
	opts := explainOptions{cfg: evaluator.DefaultConfig()}

	cmd := &cobra.Command{
		Use:   "explain (--data file.csv --label column | --synthetic n) [--row i]",
		Short: "Runs the LEAF evaluation of LIME and SHAP on one row",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.configFile != "" {
				loaded, err := loadConfigFile(opts.configFile)
				if err != nil {
					return err
				}
				// コマンドラインで明示した値を優先する
				mergeFlags(cmd, &loaded, opts.cfg)
				opts.cfg = loaded
			}
			return runExplain(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.dataFile, "data", "i", "", "CSV file with a header row")
	f.StringVarP(&opts.labelColumn, "label", "t", "label", "name of the binary label column")
	f.IntVarP(&opts.synthetic, "synthetic", "", 0, "use n synthetic rows instead of --data")
	f.IntVarP(&opts.row, "row", "r", 0, "index of the row to explain")
	f.StringVarP(&opts.configFile, "config", "c", "", "YAML configuration file")
	f.StringVarP(&opts.figureDir, "figures", "o", "", "prefix of the box plot files (e.g. out/)")
	f.StringVarP(&opts.figFormat, "format", "", "pdf", "box plot format: pdf, png or svg")

	f.IntVarP(&opts.cfg.ExplanationSamples, "explanation-samples", "", opts.cfg.ExplanationSamples, "samples per LIME/SHAP explanation")
	f.IntVarP(&opts.cfg.BackgroundSize, "background", "", opts.cfg.BackgroundSize, "rows of the stratified background sample")
	f.Uint64VarP(&opts.cfg.Seed, "seed", "x", opts.cfg.Seed, "random seed")
	f.IntVarP(&opts.cfg.Explain.NumReps, "reps", "n", opts.cfg.Explain.NumReps, "number of repetitions")
	f.IntVarP(&opts.cfg.Explain.NumFeatures, "features", "k", opts.cfg.Explain.NumFeatures, "features kept per explanation")
	f.IntVarP(&opts.cfg.Explain.NeighborhoodSamples, "neighborhood", "", opts.cfg.Explain.NeighborhoodSamples, "neighborhood sample size")
	f.BoolVarP(&opts.cfg.Explain.UseCovMatrix, "cov", "", false, "sample neighborhoods with the background covariance")
	f.IntVarP(&opts.cfg.Explain.Workers, "workers", "w", opts.cfg.Explain.Workers, "repetitions run in parallel")

	cmd.MarkFlagsMutuallyExclusive("data", "synthetic")
	cmd.MarkFlagsOneRequired("data", "synthetic")
	return cmd
}

func loadConfigFile(path string) (evaluator.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return evaluator.Config{}, errors.Wrap(err, "leaf: opening config")
	}
	defer f.Close()
	return evaluator.LoadConfig(f)
}

// mergeFlags copies into dst the fields whose flags were set explicitly.
func mergeFlags(cmd *cobra.Command, dst *evaluator.Config, flags evaluator.Config) {
	changed := cmd.Flags().Changed
	if changed("explanation-samples") {
		dst.ExplanationSamples = flags.ExplanationSamples
	}
	if changed("background") {
		dst.BackgroundSize = flags.BackgroundSize
	}
	if changed("seed") {
		dst.Seed = flags.Seed
	}
	if changed("reps") {
		dst.Explain.NumReps = flags.Explain.NumReps
	}
	if changed("features") {
		dst.Explain.NumFeatures = flags.Explain.NumFeatures
	}
	if changed("neighborhood") {
		dst.Explain.NeighborhoodSamples = flags.Explain.NeighborhoodSamples
	}
	if changed("cov") {
		dst.Explain.UseCovMatrix = flags.Explain.UseCovMatrix
	}
	if changed("workers") {
		dst.Explain.Workers = flags.Explain.Workers
	}
}

func loadDataset(opts explainOptions) (*blackbox.Dataset, error) {
	if opts.synthetic > 0 {
		return blackbox.Synthetic(opts.synthetic, []float64{2, -1.5, 0.5}, 5, opts.cfg.Seed), nil
	}
	f, err := os.Open(opts.dataFile)
	if err != nil {
		return nil, errors.Wrap(err, "leaf: opening data")
	}
	defer f.Close()
	return blackbox.LoadCSV(f, opts.labelColumn)
}

func runExplain(ctx context.Context, opts explainOptions, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := log.GetLogger().With(log.ComponentKey, "cli")

	ds, err := loadDataset(opts)
	if err != nil {
		return err
	}
	rows, F := ds.X.Dims()
	if opts.row < 0 || opts.row >= rows {
		return errors.NewValidationError("row", "must index a dataset row", opts.row)
	}

	bb := blackbox.NewLogisticRegression(blackbox.WithSeed(opts.cfg.Seed))
	if err := bb.Fit(ds.X, ds.Y); err != nil {
		return err
	}
	acc, err := bb.Score(ds.X, ds.Y)
	if err != nil {
		return err
	}
	logger.Info("black box trained", log.SamplesKey, rows, log.FeaturesKey, F, "accuracy", acc)

	evOpts := []evaluator.Option{evaluator.WithConfig(opts.cfg)}
	if opts.figureDir != "" {
		evOpts = append(evOpts, evaluator.WithRenderer(report.NewBoxPlotRenderer(report.WithFormat(opts.figFormat))))
	}
	ev, err := evaluator.New(bb, ds.X, ds.Y, ds.ClassNames, evOpts...)
	if err != nil {
		return err
	}

	x0 := ds.X.RawRowView(opts.row)
	res, err := ev.ExplainInstance(ctx, x0, evaluator.WithFigureDir(opts.figureDir), evaluator.WithVerbose(true))
	if err != nil {
		return err
	}
	return report.WriteTable(out, res)
}
