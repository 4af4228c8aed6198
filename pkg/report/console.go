// Package report renders quantity tables for people and spreadsheets.
package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/philipparndt/ifctakeoff/pkg/takeoff"
)

// Console prints quantity tables as indented text
type Console struct {
	w       io.Writer
	title   *color.Color
	heading *color.Color
}

// NewConsole creates a console printer writing to w
func NewConsole(w io.Writer) *Console {
	return &Console{
		w:       w,
		title:   color.New(color.FgCyan, color.Bold),
		heading: color.New(color.Bold),
	}
}

// Print writes one category: each display name followed by a line per size
//
//	Putki
//	  DN 15: 2.50 m
func (c *Console) Print(category takeoff.Category, table *takeoff.Table) error {
	if _, err := c.title.Fprintf(c.w, "%s\n", category.Title); err != nil {
		return err
	}

	if table.Len() == 0 {
		_, err := fmt.Fprintln(c.w, "  (none)")
		return err
	}

	for _, name := range table.Names() {
		if _, err := c.heading.Fprintf(c.w, "%s\n", name); err != nil {
			return err
		}
		for _, row := range table.Buckets(name) {
			if _, err := fmt.Fprintf(c.w, "  %s %s: %s %s\n",
				category.SizeLabel, row.Size, FormatQuantity(row, table.Unit()), table.Unit()); err != nil {
				return err
			}
		}
	}
	return nil
}

// FormatQuantity formats a bucket value: lengths with two decimals,
// counts as plain integers
func FormatQuantity(row takeoff.Row, unit takeoff.Unit) string {
	if unit == takeoff.Pieces {
		return fmt.Sprintf("%d", row.Count)
	}
	return fmt.Sprintf("%.2f", row.Length)
}
