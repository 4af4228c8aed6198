package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/philipparndt/ifctakeoff/pkg/report"
	"github.com/philipparndt/ifctakeoff/pkg/takeoff"
	"github.com/philipparndt/ifctakeoff/pkg/watcher"
)

const watchDebounce = 500 * time.Millisecond

var (
	exportOutput string
	exportWatch  bool
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write the quantity report of an IFC file as CSV",
	Long: `Write pipe and duct lengths and fitting counts of an IFC file to a
semicolon separated CSV file (Type;Size;Quantity;Unit).

With --watch the report is written again whenever the model file changes.`,
	Example: `  ifctakeoff export building.ifc
  ifctakeoff export building.ifc -o quantities.csv --watch`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default from config, takeoff.csv)")
	exportCmd.Flags().BoolVar(&exportWatch, "watch", false, "write the report again when the model changes")
}

func runExport(cmd *cobra.Command, args []string) error {
	filename := args[0]
	output := cfg.Output.File
	if exportOutput != "" {
		output = exportOutput
	}

	out := cmd.OutOrStdout()
	if err := exportOnce(out, filename, output); err != nil {
		return err
	}

	if !exportWatch {
		return nil
	}

	return watchExport(cmd.Context(), out, filename, output)
}

// exportOnce loads the model, computes all categories and writes the CSV
func exportOnce(out io.Writer, filename, output string) error {
	model, err := loadModel(logger, filename)
	if err != nil {
		return fmt.Errorf("could not open %s: %w", filename, err)
	}

	results, err := takeoff.Run(takeoff.NewModelSource(model), cfg.Specs())
	if err != nil {
		return err
	}

	if err := report.ExportCSV(output, results, cfg.DelimiterRune()); err != nil {
		return err
	}

	rows := 0
	for _, r := range results {
		rows += r.Table.Len()
	}
	fmt.Fprintf(out, "Wrote %d rows to %s\n", rows, output)
	return nil
}

func watchExport(ctx context.Context, out io.Writer, filename, output string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	fw, err := watcher.NewFileWatcher(watchDebounce, logger)
	if err != nil {
		return err
	}
	defer fw.Close()

	var mu sync.Mutex
	err = fw.Watch([]string{filename}, func(string) {
		mu.Lock()
		defer mu.Unlock()

		if err := exportOnce(out, filename, output); err != nil {
			logger.Error("export failed", "path", filename, "error", err)
		}
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Watching %s, press Ctrl+C to stop\n", filename)

	err = fw.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
