package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/philipparndt/ifctakeoff/internal/config"
	"github.com/philipparndt/ifctakeoff/internal/logging"
	"github.com/philipparndt/ifctakeoff/version"
)

var (
	configPath string
	verbose    bool
	noColor    bool

	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ifctakeoff [file]",
	Short: "Quantity takeoff of pipes, ducts and fittings from IFC models",
	Long: `ifctakeoff reads an IFC building model and sums up pipe and duct lengths
and fitting counts by type and nominal size.

Run without a subcommand for the interactive mode: enter the path of an IFC
file (or drag and drop it onto the terminal), then pick the categories to show
or write the CSV report.`,
	Version:           version.GetFullVersion(),
	Args:              cobra.MaximumNArgs(1),
	PersistentPreRunE: setup,
	RunE:              runInteractive,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./ifctakeoff.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// setup loads the configuration and the logger before any command runs
func setup(cmd *cobra.Command, _ []string) error {
	if noColor {
		color.NoColor = true //nolint:reassign // library global
	}

	loaded, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	level := loaded.Logging.Level
	if verbose {
		level = "debug"
	}

	log, err := logging.New(cmd.ErrOrStderr(), level, loaded.Logging.Format)
	if err != nil {
		return err
	}

	cfg, logger = loaded, log
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
