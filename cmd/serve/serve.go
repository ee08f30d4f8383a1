// Package serve implements the serve subcommand that runs the HTTP service.
package serve

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kicau/birdwatch-go/internal/conf"
	"github.com/kicau/birdwatch-go/internal/server"
)

// Command creates the serve command for running the catalog and
// identification service.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the bird catalog and identification HTTP service",
		Long:  "Start the HTTP server exposing the catalog API, the audio identification endpoint and the health check.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return server.Run(settings)
		},
	}

	if err := setupFlags(cmd, settings); err != nil {
		fmt.Printf("error setting up flags: %v\n", err)
		os.Exit(1)
	}

	return cmd
}

// setupFlags configures flags specific to the serve command.
func setupFlags(cmd *cobra.Command, settings *conf.Settings) error {
	cmd.Flags().StringVar(&settings.WebServer.Port, "port", viper.GetString("webserver.port"), "Port to listen on")
	cmd.Flags().StringVar(&settings.Classifier.URL, "classifier", viper.GetString("classifier.url"), "Base URL of the audio classifier service")
	cmd.Flags().IntVar(&settings.Classifier.Timeout, "classifier-timeout", viper.GetInt("classifier.timeout"), "Classifier request timeout in seconds")
	cmd.Flags().BoolVar(&settings.Telemetry.Enabled, "telemetry", viper.GetBool("telemetry.enabled"), "Enable Prometheus telemetry endpoint")
	cmd.Flags().StringVar(&settings.Telemetry.Listen, "listen", viper.GetString("telemetry.listen"), "Listen address and port of telemetry endpoint")
	cmd.Flags().BoolVar(&settings.Seed.Enabled, "seed", viper.GetBool("seed.enabled"), "Seed an empty catalog from the yaml fixture on startup")
	cmd.Flags().StringVar(&settings.Seed.Path, "seedpath", viper.GetString("seed.path"), "Path to the yaml catalog fixture")

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("error binding flags: %v", err)
	}

	return nil
}
