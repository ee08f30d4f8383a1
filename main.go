package main

import (
	"fmt"
	"os"

	"github.com/kicau/birdwatch-go/cmd"
	"github.com/kicau/birdwatch-go/internal/conf"
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	settings, err := conf.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading configuration: %v\n", err)
		os.Exit(1)
	}
	settings.Version = version

	rootCmd := cmd.RootCommand(settings)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
