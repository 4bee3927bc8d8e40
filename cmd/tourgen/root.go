package main

import (
	"github.com/spf13/cobra"
)

const defaultAlternatives = "configs/tour_frequency_alternatives.yaml"

// newRootCmd builds the command tree. Each call returns a fresh tree so
// tests can run commands with their own flags and output.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tourgen",
		Short: "tourgen expands tour frequency choices into tours with stable ids.",
		Long: `tourgen expands tour frequency choices into tours with stable ids. ` +
			`It reads choices from CSV, writes tours as CSV and can print the ` +
			`canonical label spaces ids are computed from.`,
		SilenceUsage: true,
	}
	root.AddCommand(newLabelsCmd(), newExpandCmd())
	return root
}
