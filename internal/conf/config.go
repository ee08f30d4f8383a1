// config.go: settings struct and functions to load and access the birdwatch configuration.
package conf

import (
	"errors"
	"fmt"
	"sync"

	"github.com/spf13/viper"
)

// ClassifierSettings contains settings for the external inference service.
type ClassifierSettings struct {
	URL     string // base URL of the inference service
	Timeout int    // request timeout in seconds
}

// WebServerSettings contains settings for the HTTP API server.
type WebServerSettings struct {
	Debug bool   // true to enable debug output
	Port  string // port to listen on
}

// SQLiteSettings contains settings for the SQLite database backend.
type SQLiteSettings struct {
	Enabled bool
	Path    string // path to the database file
}

// MySQLSettings contains settings for the MySQL database backend.
type MySQLSettings struct {
	Enabled  bool
	Username string
	Password string
	Database string
	Host     string
	Port     string
}

// OutputSettings selects and configures the database backend.
type OutputSettings struct {
	SQLite SQLiteSettings
	MySQL  MySQLSettings
}

// TelemetrySettings contains settings for the Prometheus metrics endpoint.
type TelemetrySettings struct {
	Enabled bool
	Listen  string // host:port for the metrics listener
}

// SeedSettings contains settings for catalog seeding at startup.
type SeedSettings struct {
	Enabled bool
	Path    string // path to the yaml catalog fixture
}

// Settings contains all runtime configuration for the application.
type Settings struct {
	Debug       bool   // true to enable debug output
	Version     string // runtime value, set from build info
	Environment string // environment label reported by the health endpoint

	WebServer  WebServerSettings
	Classifier ClassifierSettings
	Output     OutputSettings
	Telemetry  TelemetrySettings
	Seed       SeedSettings
}

var (
	settingsInstance *Settings
	settingsMutex    sync.RWMutex
)

// Load reads the configuration file and environment variables into Settings.
func Load() (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	settings := &Settings{}

	// Initialize viper and read config
	if err := initViper(); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	// Unmarshal the config into settings
	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	// Validate settings
	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	settingsInstance = settings
	return settingsInstance, nil
}

// initViper initializes viper with default values and reads the configuration file.
func initViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.config/birdwatch")
	viper.AddConfigPath("/etc/birdwatch")

	// Set default values for each configuration parameter
	// function defined in defaults.go
	setDefaultConfig()

	// Bind environment variables with validation
	// function defined in env.go
	if err := bindEnvVars(); err != nil {
		return err
	}

	// Read configuration file; a missing file is fine, defaults apply
	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("fatal error reading config file: %w", err)
		}
	}

	return nil
}

// GetSettings returns the current settings instance
func GetSettings() *Settings {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}

// Setting is an alias for GetSettings kept for call-site brevity
func Setting() *Settings {
	return GetSettings()
}
