// Package cmd implements the fundwatch command-line interface.
package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fundwatch",
	Short: "A cybersecurity funding announcement tracker",
	Long: `Fundwatch scrapes weekly funding roundup articles, extracts
structured funding records and serves them over a query API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.AddCommand(serveCommand())
	rootCmd.AddCommand(ingestCommand())
}
