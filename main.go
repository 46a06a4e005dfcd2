package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/ng-daniel/depresjon-go/cmd"
	"github.com/ng-daniel/depresjon-go/internal/conf"
	"github.com/ng-daniel/depresjon-go/internal/logging"
)

// version and buildDate are populated at build time through ldflags.
var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	// Deferred cleanup must run before exiting with a status code
	os.Exit(run())
}

func run() int {
	logging.Init()

	settings, err := conf.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading configuration: %v\n", err)
		return 1
	}
	settings.Version = version
	settings.BuildDate = buildDate

	// Route the default structured logger to the configured log file
	if settings.Main.Log.Enabled && settings.Main.Log.Path != "" {
		fileLogger, closeLogger, err := logging.NewFileLogger(settings.Main.Log.Path, "main", slog.LevelInfo, settings.Main.Log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error opening log file %s: %v\n", settings.Main.Log.Path, err)
		} else {
			slog.SetDefault(fileLogger)
			defer func() {
				if err := closeLogger(); err != nil {
					fmt.Fprintf(os.Stderr, "error closing log file: %v\n", err)
				}
			}()
		}
	}

	rootCmd := cmd.RootCommand(settings)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	return 0
}
