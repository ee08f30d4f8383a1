// env.go - Environment variable configuration and validation for birdwatch
package conf

import (
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/spf13/viper"
)

// envBinding holds metadata for environment variable bindings (internal use)
type envBinding struct {
	ConfigKey string             // Viper config key
	EnvVar    string             // Environment variable name
	Validate  func(string) error // Optional validation function
}

// getEnvBindings returns all environment variable bindings with validation.
// PYTHON_BACKEND_URL is kept as an alias for the classifier URL for
// compatibility with existing deployments.
func getEnvBindings() []envBinding {
	return []envBinding{
		{"classifier.url", "BIRDWATCH_CLASSIFIER_URL", validateEnvURL},
		{"classifier.url", "PYTHON_BACKEND_URL", validateEnvURL},
		{"classifier.timeout", "BIRDWATCH_CLASSIFIER_TIMEOUT", validateEnvPositiveInt},
		{"environment", "BIRDWATCH_ENVIRONMENT", nil},
		{"debug", "BIRDWATCH_DEBUG", validateEnvBool},
		{"webserver.port", "BIRDWATCH_PORT", validateEnvPort},
		{"output.sqlite.path", "BIRDWATCH_SQLITE_PATH", nil},
		{"output.mysql.username", "BIRDWATCH_MYSQL_USERNAME", nil},
		{"output.mysql.password", "BIRDWATCH_MYSQL_PASSWORD", nil},
		{"output.mysql.database", "BIRDWATCH_MYSQL_DATABASE", nil},
		{"output.mysql.host", "BIRDWATCH_MYSQL_HOST", nil},
		{"output.mysql.port", "BIRDWATCH_MYSQL_PORT", validateEnvPort},
	}
}

// bindEnvVars sets up environment variable bindings with validation (internal)
func bindEnvVars() error {
	for _, binding := range getEnvBindings() {
		if err := viper.BindEnv(binding.ConfigKey, binding.EnvVar); err != nil {
			return fmt.Errorf("failed to bind %s: %w", binding.EnvVar, err)
		}

		// Validate the value if it's set and a validation function is provided
		if binding.Validate == nil {
			continue
		}
		value, ok := os.LookupEnv(binding.EnvVar)
		if !ok {
			continue
		}
		if err := binding.Validate(value); err != nil {
			return fmt.Errorf("invalid value for %s: %w", binding.EnvVar, err)
		}
	}
	return nil
}

func validateEnvURL(value string) error {
	parsed, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("not a valid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", parsed.Scheme)
	}
	return nil
}

func validateEnvBool(value string) error {
	if _, err := strconv.ParseBool(value); err != nil {
		return fmt.Errorf("not a valid boolean: %q", value)
	}
	return nil
}

func validateEnvPositiveInt(value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("not a valid integer: %q", value)
	}
	if n <= 0 {
		return fmt.Errorf("must be positive, got %d", n)
	}
	return nil
}

func validateEnvPort(value string) error {
	port, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("not a valid port number: %q", value)
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("port out of range: %d", port)
	}
	return nil
}
