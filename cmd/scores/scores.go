package scores

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ng-daniel/depresjon-go/internal/conf"
	"github.com/ng-daniel/depresjon-go/internal/dataset"
	"github.com/ng-daniel/depresjon-go/internal/scores"
)

var summarize bool

// Command creates the scores command for inspecting the clinical metadata file.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scores",
		Short: "Inspect the clinical metadata file",
		Long:  "Read and validate the scores file and print its records, or a per-group summary, as a table or CSV.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScores(settings)
		},
	}

	setupFlags(cmd, settings)

	return cmd
}

// setupFlags configures flags specific to the scores command.
func setupFlags(cmd *cobra.Command, settings *conf.Settings) {
	cmd.Flags().BoolVar(&summarize, "summary", false, "Print a per-group summary instead of the records")
	cmd.Flags().StringVarP(&settings.Output.File.Path, "output", "o", "", "Path to output file, stdout if empty")
	cmd.Flags().StringVarP(&settings.Output.File.Type, "format", "f", "table", "Output format: table, csv")

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		fmt.Printf("error binding flags: %v\n", err)
	}
}

func runScores(settings *conf.Settings) error {
	layout := dataset.NewLayout(&settings.Dataset)

	records, err := scores.ReadFile(layout.ScoresPath())
	if err != nil {
		return err
	}

	w, closeFn, err := outputWriter(settings)
	if err != nil {
		return err
	}
	defer closeFn()

	switch {
	case summarize && settings.Output.File.Type == "csv":
		summary := scores.Summarize(records)
		return scores.WriteSummaryCsv(w, &summary)
	case summarize:
		summary := scores.Summarize(records)
		return scores.WriteSummaryTable(w, &summary)
	case settings.Output.File.Type == "csv":
		return scores.WriteRecordsCsv(w, records)
	default:
		return scores.WriteRecordsTable(w, records)
	}
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
