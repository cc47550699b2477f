package main

import (
	"github.com/spf13/cobra"

	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/config"
)

// version can be overridden at build time via:
// go build -ldflags "-X main.version=1.2.3"
var version = "0.1.0"

var configPath string

var rootCmd = &cobra.Command{
	Use:           "vectorapi",
	Short:         "REST access layer for a Qdrant vector database",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"path to a YAML config file; environment variables override it")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(collectionsCmd)
}

func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}
