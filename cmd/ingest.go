package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/fundwatch/internal/domain"
)

// ingestCommand runs one ingestion pass and prints its summary.
func ingestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest",
		Short: "Run a single ingestion pass and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd.Context())
		},
	}
}

func runIngest(ctx context.Context) error {
	deps, err := newCommandDeps()
	if err != nil {
		return err
	}
	defer deps.Close()

	if err = deps.Storage.EnsureIndex(ctx); err != nil {
		return fmt.Errorf("ensure index: %w", err)
	}

	if deps.Runs != nil {
		if err = deps.Runs.EnsureSchema(ctx); err != nil {
			deps.Logger.Warn("run history schema setup failed", "error", err)
		}
	}

	summary, runErr := deps.Ingest.Run(ctx)
	printSummary(summary)

	if runErr != nil {
		return fmt.Errorf("ingestion run: %w", runErr)
	}
	return nil
}

// printSummary renders the run summary as a table on stdout.
func printSummary(summary domain.RunSummary) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Processed", "Skipped", "Errors"})
	t.AppendRow(table.Row{summary.Processed, summary.Skipped, summary.Errors})
	t.Render()
}
