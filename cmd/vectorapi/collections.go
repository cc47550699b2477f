package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/collections"
	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/connection"
	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/vectordb"
)

var collectionsCmd = &cobra.Command{
	Use:     "collections",
	Aliases: []string{"ls"},
	Short:   "List collections with their size and point counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		m := connection.NewManager(cfg.Qdrant)
		if err := m.Connect(ctx); err != nil {
			return err
		}
		defer func() { _ = m.Close(context.Background()) }()

		all, err := collections.NewRegistry(m, nil, nil).List(ctx)
		if err != nil {
			return err
		}
		printCollections(cmd.OutOrStdout(), all)
		return nil
	},
}

func printCollections(w io.Writer, all []vectordb.Collection) {
	if len(all) == 0 {
		fmt.Fprintln(w, color.YellowString("no collections"))
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, color.New(color.Bold).Sprint("NAME\tSIZE\tDISTANCE\tPOINTS\tSTATUS"))
	for _, c := range all {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%d\t%s\n", c.Name, c.VectorSize, c.Distance, c.PointsCount, statusColor(c.Status))
	}
	_ = tw.Flush()
}

func statusColor(s string) string {
	switch s {
	case "green":
		return color.GreenString(s)
	case "yellow":
		return color.YellowString(s)
	case "red":
		return color.RedString(s)
	}
	return s
}
