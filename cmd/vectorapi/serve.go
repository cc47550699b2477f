package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Connect to the vector database and serve the REST API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		app := fx.New(appOptions(cfg))
		if err := app.Err(); err != nil {
			return err
		}
		app.Run()
		return nil
	},
}
