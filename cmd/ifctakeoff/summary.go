package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/philipparndt/ifctakeoff/pkg/report"
	"github.com/philipparndt/ifctakeoff/pkg/takeoff"
)

var summaryCmd = &cobra.Command{
	Use:   "summary [file]",
	Short: "Show all quantities of an IFC file as a table",
	Long:  "Print pipe and duct lengths and fitting counts of all four categories as one table with totals.",
	Args:  cobra.ExactArgs(1),
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	filename := args[0]

	model, err := loadModel(logger, filename)
	if err != nil {
		return fmt.Errorf("could not open %s: %w", filename, err)
	}

	results, err := takeoff.Run(takeoff.NewModelSource(model), cfg.Specs())
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), report.Summary(results))
	return nil
}
