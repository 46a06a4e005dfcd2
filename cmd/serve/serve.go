package serve

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ng-daniel/depresjon-go/internal/api"
	"github.com/ng-daniel/depresjon-go/internal/conf"
	"github.com/ng-daniel/depresjon-go/internal/datastore"
	"github.com/ng-daniel/depresjon-go/internal/logging"
	"github.com/ng-daniel/depresjon-go/internal/observability"
)

// Command creates the serve command that runs the JSON API server.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API over imported data",
		Long:  "Start the HTTP server exposing subjects, activity analytics and stored evaluation runs from the configured database.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(settings)
		},
	}

	setupFlags(cmd, settings)

	return cmd
}

// setupFlags configures flags specific to the serve command.
func setupFlags(cmd *cobra.Command, settings *conf.Settings) {
	cmd.Flags().StringVarP(&settings.WebServer.Port, "port", "p", viper.GetString("webserver.port"), "Port for the HTTP server")
	cmd.Flags().BoolVar(&settings.Telemetry.Enabled, "telemetry", viper.GetBool("telemetry.enabled"), "Enable the standalone Prometheus telemetry endpoint")
	cmd.Flags().StringVar(&settings.Telemetry.Listen, "listen", viper.GetString("telemetry.listen"), "Listen address and port of the telemetry endpoint")

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		fmt.Printf("error binding flags: %v\n", err)
	}
}

func runServe(settings *conf.Settings) error {
	store := datastore.New(settings)
	if store == nil {
		return fmt.Errorf("no database output enabled, enable output.sqlite or output.mysql")
	}

	if err := store.Open(); err != nil {
		return err
	}
	defer store.Close()

	metrics, err := observability.NewMetrics()
	if err != nil {
		return fmt.Errorf("initializing metrics: %w", err)
	}
	store.SetMetrics(metrics.Datastore)

	var wg sync.WaitGroup
	quitChan := make(chan struct{})

	server := api.NewServer(settings, store, metrics)
	server.Start(&wg, quitChan)

	// Standalone telemetry endpoint, separate from the API server
	if settings.Telemetry.Enabled {
		endpoint, err := observability.NewEndpoint(settings, metrics)
		if err != nil {
			return err
		}
		endpoint.Start(&wg, quitChan)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan

	logging.Info("Shutting down", "signal", sig.String())
	close(quitChan)
	wg.Wait()

	return nil
}
