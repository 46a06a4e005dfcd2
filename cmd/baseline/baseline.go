package baseline

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ng-daniel/depresjon-go/internal/baseline"
	"github.com/ng-daniel/depresjon-go/internal/conf"
	"github.com/ng-daniel/depresjon-go/internal/dataset"
	"github.com/ng-daniel/depresjon-go/internal/datastore"
	"github.com/ng-daniel/depresjon-go/internal/evaluation"
	"github.com/ng-daniel/depresjon-go/internal/scores"
)

var saveRun bool

// Command creates the baseline command that runs the activity-threshold
// classifier over the dataset and scores it.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Run and score the activity-threshold baseline",
		Long:  "Load the dataset, classify each subject by mean daily activity, evaluate the predictions with cross-validation folds and print the fold metrics.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBaseline(settings)
		},
	}

	setupFlags(cmd, settings)

	return cmd
}

// setupFlags configures flags specific to the baseline command.
func setupFlags(cmd *cobra.Command, settings *conf.Settings) {
	cmd.Flags().IntVar(&settings.Evaluation.Folds, "folds", viper.GetInt("evaluation.folds"), "Number of cross-validation folds")
	cmd.Flags().Float64VarP(&settings.Analysis.Baseline.Threshold, "threshold", "t", viper.GetFloat64("analysis.baseline.threshold"), "Mean daily activity at which the score is 0.5")
	cmd.Flags().Float64VarP(&settings.Analysis.Baseline.Sensitivity, "sensitivity", "s", viper.GetFloat64("analysis.baseline.sensitivity"), "Sigmoid sensitivity for baseline scoring")
	cmd.Flags().Float64Var(&settings.Analysis.Baseline.Scale, "scale", viper.GetFloat64("analysis.baseline.scale"), "Activity normalization divisor")
	cmd.Flags().BoolVar(&saveRun, "save", false, "Store the scored run in the configured database")
	cmd.Flags().StringVarP(&settings.Output.File.Path, "output", "o", "", "Path to output file, stdout if empty")
	cmd.Flags().StringVarP(&settings.Output.File.Type, "format", "f", "table", "Output format: table, csv")

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		fmt.Printf("error binding flags: %v\n", err)
	}
}

func runBaseline(settings *conf.Settings) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loader := dataset.NewLoader(settings)
	subjects, err := loader.Load(ctx)
	if err != nil {
		return err
	}

	classified := make([]baseline.Subject, 0, len(subjects))
	for i := range subjects {
		mean, ok := subjects[i].MeanDailyActivity()
		if !ok {
			continue
		}

		actual := evaluation.ClassControl
		if subjects[i].Record.Group == scores.GroupCondition {
			actual = evaluation.ClassCondition
		}

		classified = append(classified, baseline.Subject{
			ID:           subjects[i].Record.Number,
			Actual:       actual,
			MeanActivity: mean,
		})
	}

	classifier := baseline.New(&settings.Analysis.Baseline)
	preds, err := classifier.Predict(classified, settings.Evaluation.Folds)
	if err != nil {
		return err
	}

	run, err := evaluation.EvaluateFolds(baseline.ModelName, preds, settings.Evaluation.Epsilon)
	if err != nil {
		return err
	}

	if saveRun {
		if err := storeRun(settings, &run); err != nil {
			return err
		}
	}

	w, closeFn, err := outputWriter(settings)
	if err != nil {
		return err
	}
	defer closeFn()

	if settings.Output.File.Type == "csv" {
		return evaluation.WriteRunCsv(w, &run)
	}
	return evaluation.WriteRunTable(w, &run)
}

// storeRun saves the scored run in the configured database.
func storeRun(settings *conf.Settings, run *evaluation.RunMetrics) error {
	store := datastore.New(settings)
	if store == nil {
		return fmt.Errorf("no database output enabled, enable output.sqlite or output.mysql")
	}

	if err := store.Open(); err != nil {
		return err
	}
	defer store.Close()

	stored, folds := datastore.NewEvaluationRun(run, "baseline", settings.Main.Name)
	if err := store.SaveEvaluation(&stored, folds); err != nil {
		return err
	}

	fmt.Printf("Stored evaluation run %s\n", stored.RunID)
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
