// Package server wires the datastore, classifier client and HTTP API together
// and owns the process lifecycle of the birdwatch service.
package server

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	api "github.com/kicau/birdwatch-go/internal/api/v2"
	"github.com/kicau/birdwatch-go/internal/classifier"
	"github.com/kicau/birdwatch-go/internal/conf"
	"github.com/kicau/birdwatch-go/internal/datastore"
	"github.com/kicau/birdwatch-go/internal/logging"
	"github.com/kicau/birdwatch-go/internal/observability"
)

const shutdownTimeout = 10 * time.Second

// Run starts the birdwatch HTTP service and blocks until a termination
// signal arrives. All resources are released before it returns.
func Run(settings *conf.Settings) error {
	logging.Init()
	logger := logging.ForService("server")

	ds := datastore.New(settings)
	if err := ds.Open(); err != nil {
		return fmt.Errorf("failed to open datastore: %w", err)
	}
	defer func() {
		if err := ds.Close(); err != nil {
			logger.Error("Failed to close datastore", "error", err)
		}
	}()

	if settings.Seed.Enabled {
		count, err := datastore.Seed(ds, settings.Seed.Path)
		if err != nil {
			logger.Warn("Catalog seeding failed", "path", settings.Seed.Path, "error", err)
		} else if count > 0 {
			logger.Info("Catalog seeded", "birds", count, "path", settings.Seed.Path)
		}
	}

	clf, err := classifier.NewClient(classifier.Config{
		BaseURL: settings.Classifier.URL,
		Timeout: time.Duration(settings.Classifier.Timeout) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to create classifier client: %w", err)
	}
	defer clf.Close()

	metrics, err := observability.NewMetrics()
	if err != nil {
		return fmt.Errorf("failed to create metrics: %w", err)
	}

	e := echo.New()
	e.HideBanner = true

	controller, err := api.New(e, ds, settings, clf, log.Default(), metrics)
	if err != nil {
		return fmt.Errorf("failed to create API controller: %w", err)
	}
	defer controller.Shutdown()

	var wg sync.WaitGroup
	quit := make(chan struct{})

	if settings.Telemetry.Enabled {
		endpoint, err := observability.NewEndpoint(settings, metrics)
		if err != nil {
			logger.Warn("Telemetry endpoint disabled", "error", err)
		} else {
			endpoint.Start(&wg, quit)
		}
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		addr := ":" + settings.WebServer.Port
		logger.Info("HTTP server starting", "address", addr)
		if err := e.Start(addr); err != nil {
			logger.Info("HTTP server stopped", "reason", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info("Shutting down", "signal", sig.String())

	close(quit)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	wg.Wait()
	return nil
}
