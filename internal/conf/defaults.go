// conf/defaults.go default values for settings
package conf

import (
	"github.com/spf13/viper"
)

// Sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)
	viper.SetDefault("environment", "development")

	viper.SetDefault("webserver.debug", false)
	viper.SetDefault("webserver.port", "8080")

	viper.SetDefault("classifier.url", "http://localhost:8000")
	viper.SetDefault("classifier.timeout", 30)

	viper.SetDefault("output.sqlite.enabled", true)
	viper.SetDefault("output.sqlite.path", "birdwatch.db")

	viper.SetDefault("output.mysql.enabled", false)
	viper.SetDefault("output.mysql.username", "birdwatch")
	viper.SetDefault("output.mysql.password", "")
	viper.SetDefault("output.mysql.database", "birdwatch")
	viper.SetDefault("output.mysql.host", "localhost")
	viper.SetDefault("output.mysql.port", "3306")

	viper.SetDefault("telemetry.enabled", false)
	viper.SetDefault("telemetry.listen", "localhost:9090")

	viper.SetDefault("seed.enabled", false)
	viper.SetDefault("seed.path", "birds.yaml")
}
