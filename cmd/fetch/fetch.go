package fetch

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ng-daniel/depresjon-go/internal/archive"
	"github.com/ng-daniel/depresjon-go/internal/conf"
)

// Command creates the fetch command for downloading the study archive.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download and extract the study dataset",
		Long:  "Download the published dataset archive and extract the scores file and per-subject actigraphy files into the dataset directory.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(settings)
		},
	}

	setupFlags(cmd, settings)

	return cmd
}

// setupFlags configures flags specific to the fetch command.
func setupFlags(cmd *cobra.Command, settings *conf.Settings) {
	cmd.Flags().StringVar(&settings.Dataset.ArchiveURL, "url", viper.GetString("dataset.archiveurl"), "URL of the dataset archive")

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		fmt.Printf("error binding flags: %v\n", err)
	}
}

func runFetch(settings *conf.Settings) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fetcher := archive.NewFetcher(&settings.Dataset)

	fmt.Printf("Downloading %s\n", fetcher.URL)
	count, err := fetcher.Fetch(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Extracted %d files to %s\n", count, settings.Dataset.Dir)
	return nil
}
