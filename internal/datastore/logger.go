// Package datastore logging helpers for database operations
package datastore

import (
	"io"
	"log"
	"log/slog"
	"sync"
	"time"

	gormlogger "gorm.io/gorm/logger"

	"github.com/kicau/birdwatch-go/internal/logging"
)

// slow query threshold for the GORM logger
const defaultSlowQueryThreshold = time.Second

var (
	datastoreLogger   *slog.Logger
	datastoreLevelVar = new(slog.LevelVar)
	loggerOnce        sync.Once
)

// getLogger returns the shared file logger for datastore operations,
// initializing it on first use. Falls back to a disabled logger when the
// log file cannot be opened.
func getLogger() *slog.Logger {
	loggerOnce.Do(func() {
		datastoreLevelVar.Set(slog.LevelDebug)
		logger, _, err := logging.NewFileLogger("logs/datastore.log", "datastore", datastoreLevelVar)
		if err != nil {
			log.Printf("Failed to initialize datastore file logger: %v", err)
			fbHandler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: datastoreLevelVar})
			logger = slog.New(fbHandler).With("service", "datastore")
		}
		datastoreLogger = logger
	})
	return datastoreLogger
}

// createGormLogger configures and returns a new GORM logger instance.
func createGormLogger() gormlogger.Interface {
	return gormlogger.New(
		log.New(log.Writer(), "", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             defaultSlowQueryThreshold,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)
}
