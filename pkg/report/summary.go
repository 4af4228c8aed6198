package report

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/philipparndt/ifctakeoff/pkg/takeoff"
)

// Summary renders all categories as one table with a total per category
func Summary(results []takeoff.Result) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Format.Header = text.FormatDefault
	tbl.Style().Format.Footer = text.FormatDefault
	tbl.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})

	tbl.AppendHeader(table.Row{Header[0], Header[1], Header[2], Header[3]})

	for i, result := range results {
		if i > 0 {
			tbl.AppendSeparator()
		}

		unit := result.Table.Unit()
		tbl.AppendRow(table.Row{result.Category.Title, "", "", ""})
		for _, row := range result.Table.Rows() {
			tbl.AppendRow(table.Row{row.Name, csvSize(row.Size), FormatQuantity(row, unit), string(unit)})
		}
		tbl.AppendRow(table.Row{"", "Total", formatTotal(result.Table), string(unit)})
	}

	tbl.AppendFooter(table.Row{"", "", fmt.Sprintf("%d buckets", bucketCount(results)), ""})
	return tbl.Render()
}

func formatTotal(t *takeoff.Table) string {
	if t.Unit() == takeoff.Pieces {
		return fmt.Sprintf("%d", int(t.Total()))
	}
	return fmt.Sprintf("%.2f", t.Total())
}

func bucketCount(results []takeoff.Result) int {
	n := 0
	for _, r := range results {
		n += r.Table.Len()
	}
	return n
}
