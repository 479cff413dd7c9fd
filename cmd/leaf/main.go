// Command leaf trains a logistic black box on a CSV (or synthetic) dataset
// and evaluates LIME and SHAP explanations of one of its rows.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/leaf/pkg/log"
)

var (
	logLevel  string
	logFormat string
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:               "leaf",
		Short:             "Evaluates local linear explanations of a binary classifier",
		SilenceUsage:      true,
		PersistentPreRunE: setupLogging,
	}
	root.PersistentFlags().StringVarP(&logLevel, "log-level", "", "info", "Logging level: debug, info, warn or error")
	root.PersistentFlags().StringVarP(&logFormat, "log-format", "", "pretty", "Logging format: pretty, json or cloud")

	root.AddCommand(explainCommand())
	return root
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setupLogging(cmd *cobra.Command, args []string) error {
	level, err := log.ToLogLevel(logLevel)
	if err != nil {
		return err
	}
	lvl := log.Level(level)

	switch logFormat {
	case "pretty":
		logger := log.NewConsoleLogger(lvl)
		logger.InstallWarnings()
		log.SetLogger(logger)
	case "json":
		logger := log.NewZerologLogger(cmd.ErrOrStderr(), lvl)
		logger.InstallWarnings()
		log.SetLogger(logger)
	case "cloud":
		if err := log.SetupLogger(cmd.ErrOrStderr(), logLevel); err != nil {
			return err
		}
		logger := log.NewSlogLogger(slog.Default())
		logger.InstallWarnings()
		log.SetLogger(logger)
	default:
		return fmt.Errorf("invalid log format: %s", logFormat)
	}
	return nil
}
