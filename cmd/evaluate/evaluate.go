package evaluate

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ng-daniel/depresjon-go/internal/conf"
	"github.com/ng-daniel/depresjon-go/internal/datastore"
	"github.com/ng-daniel/depresjon-go/internal/evaluation"
)

var (
	saveRuns  bool
	breakdown bool
)

// Command creates the evaluate command for scoring classifier prediction
// files.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate [predictions.csv...]",
		Short: "Score classifier prediction files",
		Long: "Score one or more prediction CSV files (subject,fold,actual,predicted,score) into per-fold metrics with a support-weighted average row. " +
			"With several files a combined table and a cross-model summary are printed as well.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvaluate(settings, args)
		},
	}

	setupFlags(cmd, settings)

	return cmd
}

// setupFlags configures flags specific to the evaluate command.
func setupFlags(cmd *cobra.Command, settings *conf.Settings) {
	cmd.Flags().BoolVar(&saveRuns, "save", false, "Store the scored runs in the configured database")
	cmd.Flags().BoolVar(&breakdown, "breakdown", false, "Print a per-class metric breakdown per run")
	cmd.Flags().Float64Var(&settings.Evaluation.Epsilon, "epsilon", viper.GetFloat64("evaluation.epsilon"), "Probability clamp used inside log loss")
	cmd.Flags().StringVarP(&settings.Output.File.Path, "output", "o", "", "Path to output file, stdout if empty")
	cmd.Flags().StringVarP(&settings.Output.File.Type, "format", "f", "table", "Output format: table, csv")

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		fmt.Printf("error binding flags: %v\n", err)
	}
}

func runEvaluate(settings *conf.Settings, paths []string) error {
	runs := make([]evaluation.RunMetrics, 0, len(paths))
	for _, path := range paths {
		preds, err := evaluation.ReadPredictionsFile(path)
		if err != nil {
			return err
		}

		run, err := evaluation.EvaluateFolds(modelName(path), preds, settings.Evaluation.Epsilon)
		if err != nil {
			return err
		}
		runs = append(runs, run)
	}

	if saveRuns {
		if err := storeRuns(settings, runs); err != nil {
			return err
		}
	}

	w, closeFn, err := outputWriter(settings)
	if err != nil {
		return err
	}
	defer closeFn()

	return writeRuns(w, runs, settings.Output.File.Type == "csv")
}

// writeRuns prints each run, and for several runs the combined rows and the
// cross-model summary.
func writeRuns(w io.Writer, runs []evaluation.RunMetrics, asCsv bool) error {
	for i := range runs {
		if asCsv {
			if err := evaluation.WriteRunCsv(w, &runs[i]); err != nil {
				return err
			}
			continue
		}

		if err := evaluation.WriteRunTable(w, &runs[i]); err != nil {
			return err
		}

		if breakdown {
			if avg, ok := runs[i].WeightedAverage(); ok {
				if err := evaluation.WriteClassBreakdown(w, evaluation.ClassBreakdown(&avg)); err != nil {
					return err
				}
			}
		}
	}

	if len(runs) < 2 || asCsv {
		return nil
	}

	combined, err := evaluation.CombineRuns(runs)
	if err != nil {
		return err
	}
	combinedRun := evaluation.RunMetrics{Model: "combined", Rows: combined}
	if err := evaluation.WriteRunTable(w, &combinedRun); err != nil {
		return err
	}

	summaries, err := evaluation.SummaryTable(runs)
	if err != nil {
		return err
	}
	return evaluation.WriteSummaryTable(w, summaries)
}

// modelName derives a model label from a predictions file path.
func modelName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// storeRuns saves the scored runs in the configured database.
func storeRuns(settings *conf.Settings, runs []evaluation.RunMetrics) error {
	store := datastore.New(settings)
	if store == nil {
		return fmt.Errorf("no database output enabled, enable output.sqlite or output.mysql")
	}

	if err := store.Open(); err != nil {
		return err
	}
	defer store.Close()

	for i := range runs {
		stored, folds := datastore.NewEvaluationRun(&runs[i], "evaluate", settings.Main.Name)
		if err := store.SaveEvaluation(&stored, folds); err != nil {
			return err
		}
		fmt.Printf("Stored evaluation run %s for model %s\n", stored.RunID, runs[i].Model)
	}

	return nil
}

// outputWriter opens the configured output file, or stdout when none is set.
func outputWriter(settings *conf.Settings) (io.Writer, func() error, error) {
	if settings.Output.File.Path == "" {
		return os.Stdout, func() error { return nil }, nil
	}

	file, err := os.Create(settings.Output.File.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output file: %w", err)
	}
	return file, file.Close, nil
}
