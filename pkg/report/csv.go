package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/philipparndt/ifctakeoff/pkg/takeoff"
)

// DefaultDelimiter separates the CSV fields
const DefaultDelimiter = ';'

// DefaultFile is the fixed name of the exported report
const DefaultFile = "takeoff.csv"

// Header is the first row of every exported file
var Header = []string{"Type", "Size", "Quantity", "Unit"}

// WriteCSV writes the header and one row per bucket of every result, in
// the order given. Sizes of the undefined bucket are written as "".
func WriteCSV(w io.Writer, results []takeoff.Result, delimiter rune) error {
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = delimiter

	if err := csvWriter.Write(Header); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for _, result := range results {
		unit := result.Table.Unit()
		for _, row := range result.Table.Rows() {
			record := []string{row.Name, csvSize(row.Size), FormatQuantity(row, unit), string(unit)}
			if err := csvWriter.Write(record); err != nil {
				return fmt.Errorf("writing %s row %q: %w", result.Category.Key, row.Name, err)
			}
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

func csvSize(size takeoff.SizeKey) string {
	if size.IsUndefined() {
		return ""
	}
	return size.String()
}

// ExportCSV writes the report to path. The data goes to a temporary file
// next to path that is renamed into place only after it was written and
// closed, so path never holds a partial report.
func ExportCSV(path string, results []takeoff.Result, delimiter rune) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err := WriteCSV(tmp, results, delimiter); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync output file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("failed to set output file mode: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move output file into place: %w", err)
	}
	return nil
}
