// Package render turns query results into text for the terminal menu and the
// dialog front end.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"

	"github.com/iloveparkjisung/Database-Assesment/pkg/records"
)

// DefaultMaxColumnWidth caps a column in Fixed output.
const DefaultMaxColumnWidth = 45

// Table writes res as an aligned table with its column names as header.
func Table(w io.Writer, res records.Result) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader(Headings(res.Columns))
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.SetColumnSeparator(" ")
	table.SetCenterSeparator("-")
	table.AppendBulk(res.Rows)
	table.Render()

	_, err := fmt.Fprintln(w)
	return err
}

// Fixed lays res out in padded fixed-width columns with a dashed rule under
// the header. Each column is as wide as its widest cell plus one space, capped
// at maxWidth; longer cells are truncated. maxWidth <= 0 uses DefaultMaxColumnWidth.
func Fixed(res records.Result, maxWidth int) string {
	if maxWidth <= 0 {
		maxWidth = DefaultMaxColumnWidth
	}

	headers := Headings(res.Columns)
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h) + 1
	}
	for _, row := range res.Rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], runewidth.StringWidth(cell)+1)
			}
		}
	}
	total := 0
	for i := range widths {
		widths[i] = min(widths[i], maxWidth)
		total += widths[i]
	}

	var b strings.Builder
	writeRow(&b, headers, widths)
	b.WriteString(strings.Repeat("-", total))
	b.WriteByte('\n')
	for _, row := range res.Rows {
		writeRow(&b, row, widths)
	}
	return b.String()
}

func writeRow(b *strings.Builder, cells []string, widths []int) {
	var line strings.Builder
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		cell = runewidth.Truncate(cell, w-1, "")
		line.WriteString(runewidth.FillRight(cell, w))
	}
	b.WriteString(strings.TrimRight(line.String(), " "))
	b.WriteByte('\n')
}

var headingNames = map[string]string{
	"drama_name": "Drama",
	"release":    "Release",
	"country":    "Country",
	"episode":    "Episodes",
	"watched":    "Watched",
	"rating":     "Rating",
	"kpop_group": "Group",
	"real_name":  "Real name",
	"stage_name": "Stage name",
}

// Headings maps column names to display headings. Unknown columns are
// title-cased with underscores turned into spaces.
func Headings(columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		if h, ok := headingNames[c]; ok {
			out[i] = h
			continue
		}
		h := strings.ReplaceAll(c, "_", " ")
		if h != "" {
			h = strings.ToUpper(h[:1]) + h[1:]
		}
		out[i] = h
	}
	return out
}
