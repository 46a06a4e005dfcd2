package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ng-daniel/depresjon-go/cmd/actigraphy"
	"github.com/ng-daniel/depresjon-go/cmd/baseline"
	"github.com/ng-daniel/depresjon-go/cmd/evaluate"
	"github.com/ng-daniel/depresjon-go/cmd/fetch"
	"github.com/ng-daniel/depresjon-go/cmd/importer"
	"github.com/ng-daniel/depresjon-go/cmd/scores"
	"github.com/ng-daniel/depresjon-go/cmd/serve"
	"github.com/ng-daniel/depresjon-go/internal/conf"
)

// RootCommand creates and returns the root command.
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "depresjon",
		Short: "Depresjon dataset CLI",
		Long:  "Tools for fetching, inspecting, importing and evaluating the Depresjon actigraphy dataset.",
	}

	// Set up the global flags for the root command.
	setupFlags(rootCmd, settings)

	subcommands := []*cobra.Command{
		fetch.Command(settings),
		scores.Command(settings),
		actigraphy.Command(settings),
		importer.Command(settings),
		baseline.Command(settings),
		evaluate.Command(settings),
		serve.Command(settings),
	}

	rootCmd.AddCommand(subcommands...)

	return rootCmd
}

// setupFlags defines flags that are global to the command line interface.
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")
	rootCmd.PersistentFlags().StringVar(&settings.Dataset.Dir, "dataset", viper.GetString("dataset.dir"), "Path to the extracted dataset directory")
	rootCmd.PersistentFlags().IntVar(&settings.Analysis.Workers, "workers", viper.GetInt("analysis.workers"), "Number of loader workers, 0 for automatic")
	rootCmd.PersistentFlags().BoolVar(&settings.Dataset.SkipMissing, "skip-missing", viper.GetBool("dataset.skipmissing"), "Skip scores rows without a matching actigraphy file")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		fmt.Printf("error binding flags: %v\n", err)
	}
}
