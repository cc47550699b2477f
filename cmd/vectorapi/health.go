package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/config"
	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/connection"
	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/health"
)

var errUnhealthy = errors.New("vector database is unhealthy")

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Probe the vector database and exit non-zero when it is unhealthy",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		report := probe(cmd.Context(), cfg)
		printReport(cmd.OutOrStdout(), cfg, report)
		if !report.Healthy() {
			return errUnhealthy
		}
		return nil
	},
}

// probe connects without failing: a refused connection shows up as an
// unhealthy report.
func probe(ctx context.Context, cfg *config.Config) health.Report {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.Qdrant.Timeout)
	defer cancel()

	m := connection.NewManager(cfg.Qdrant)
	defer func() { _ = m.Close(context.Background()) }()

	if err := m.Connect(ctx); err != nil {
		return health.Report{Status: health.StatusUnhealthy, Error: err.Error()}
	}
	return health.NewMonitor(m, nil, nil).Check(ctx)
}

func printReport(w io.Writer, cfg *config.Config, r health.Report) {
	mode := cfg.Qdrant.ResolveMode()
	fmt.Fprintf(w, "%s %s\n", color.New(color.Bold).Sprint("mode:"), mode)
	if r.Healthy() {
		fmt.Fprintf(w, "%s %s\n", color.New(color.Bold).Sprint("status:"), color.GreenString(string(r.Status)))
		fmt.Fprintf(w, "%s %.2fms\n", color.New(color.Bold).Sprint("latency:"), r.LatencyMS)
		fmt.Fprintf(w, "%s %d\n", color.New(color.Bold).Sprint("collections:"), r.CollectionsCount)
		return
	}
	fmt.Fprintf(w, "%s %s\n", color.New(color.Bold).Sprint("status:"), color.RedString(string(r.Status)))
	fmt.Fprintf(w, "%s %s\n", color.New(color.Bold).Sprint("error:"), color.YellowString(r.Error))
}
