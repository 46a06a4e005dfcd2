package importer

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ng-daniel/depresjon-go/internal/conf"
	"github.com/ng-daniel/depresjon-go/internal/dataset"
	"github.com/ng-daniel/depresjon-go/internal/datastore"
	"github.com/ng-daniel/depresjon-go/internal/observability"
)

// Command creates the import command for loading the dataset into a database.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import the dataset into the configured database",
		Long:  "Load the scores file and every actigraphy file, compute per-day features and store subjects with their activity days in the configured SQLite or MySQL database.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(settings)
		},
	}

	return cmd
}

func runImport(settings *conf.Settings) error {
	store := datastore.New(settings)
	if store == nil {
		return fmt.Errorf("no database output enabled, enable output.sqlite or output.mysql")
	}

	if err := store.Open(); err != nil {
		return err
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics, err := observability.NewMetrics()
	if err != nil {
		return fmt.Errorf("initializing metrics: %w", err)
	}
	store.SetMetrics(metrics.Datastore)

	loader := dataset.NewLoader(settings)
	loader.Metrics = metrics.Dataset

	start := time.Now()
	subjects, err := loader.Load(ctx)
	if err != nil {
		return err
	}

	for i := range subjects {
		stored := datastore.SubjectFromRecord(&subjects[i].Record)

		days := make([]datastore.ActivityDay, 0, len(subjects[i].Features))
		for _, f := range subjects[i].Features {
			days = append(days, datastore.ActivityDay{
				Date:           f.Date,
				SampleCount:    f.Count,
				MeanActivity:   f.Mean,
				StdDev:         f.StdDev,
				ZeroProportion: f.ZeroProportion,
				PeakActivity:   f.Peak,
			})
		}

		if err := store.SaveSubject(&stored, days); err != nil {
			return err
		}

		fmt.Printf("Imported %s (%d days)\n", stored.Number, len(days))
	}

	fmt.Printf("Imported %d subjects in %s\n", len(subjects), time.Since(start).Round(time.Millisecond))
	return nil
}
