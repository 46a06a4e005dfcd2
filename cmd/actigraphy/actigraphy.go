package actigraphy

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ng-daniel/depresjon-go/internal/actigraphy"
	"github.com/ng-daniel/depresjon-go/internal/conf"
	"github.com/ng-daniel/depresjon-go/internal/dataset"
	"github.com/ng-daniel/depresjon-go/internal/scores"
)

// Command creates the actigraphy command for inspecting one subject's
// activity features.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "actigraphy [subject]",
		Short: "Compute per-day activity features for one subject",
		Long:  "Read a subject's actigraphy file, e.g. condition_12, and print its per-day activity features as a table or CSV.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runActigraphy(settings, args[0])
		},
	}

	setupFlags(cmd, settings)

	return cmd
}

// setupFlags configures flags specific to the actigraphy command.
func setupFlags(cmd *cobra.Command, settings *conf.Settings) {
	cmd.Flags().IntVar(&settings.Analysis.MinSamples, "min-samples", viper.GetInt("analysis.minsamples"), "Minimum samples for a day to be included, 0 keeps partial days")
	cmd.Flags().StringVarP(&settings.Output.File.Path, "output", "o", "", "Path to output file, stdout if empty")
	cmd.Flags().StringVarP(&settings.Output.File.Type, "format", "f", "table", "Output format: table, csv")

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		fmt.Printf("error binding flags: %v\n", err)
	}
}

func runActigraphy(settings *conf.Settings, subjectID string) error {
	group, _, err := scores.ParseNumber(subjectID)
	if err != nil {
		return err
	}

	layout := dataset.NewLayout(&settings.Dataset)
	record := scores.Record{Number: subjectID, Group: group}

	series, err := actigraphy.ReadFile(layout.SeriesPath(&record))
	if err != nil {
		return err
	}

	features, err := actigraphy.SeriesFeatures(series, settings.Analysis.MinSamples)
	if err != nil {
		return err
	}

	w, closeFn, err := outputWriter(settings)
	if err != nil {
		return err
	}
	defer closeFn()

	if settings.Output.File.Type == "csv" {
		return actigraphy.WriteFeaturesCsv(w, subjectID, features)
	}
	return actigraphy.WriteFeaturesTable(w, subjectID, features)
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
