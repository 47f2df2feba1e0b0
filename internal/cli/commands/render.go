package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/dbforge-labs/dbforge/pkg/core"
)

// timeRounding trims elapsed times for display.
const timeRounding = time.Millisecond

// renderResult writes one query result in the requested format.
func renderResult(w io.Writer, result *core.QueryResult, format string) error {
	switch format {
	case "json":
		return renderJSON(w, result)
	case "csv":
		return renderCSV(w, result)
	case "md", "markdown":
		return renderMarkdown(w, result)
	default:
		return renderTable(w, result)
	}
}

// renderScript writes every statement result of a script run, errors included.
func renderScript(w io.Writer, results []core.SQLResult, format string) error {
	for i, res := range results {
		if len(results) > 1 && i > 0 {
			_, _ = fmt.Fprintln(w)
		}
		switch {
		case res.Err != nil:
			_, _ = fmt.Fprintf(w, "Error: %s\n  in: %s\n", res.Err.Message, res.Err.SQL)
		case res.Query != nil:
			if err := renderResult(w, res.Query, format); err != nil {
				return err
			}
		case res.Exec != nil:
			_, _ = fmt.Fprintf(w, "%s (%d row(s) affected, %s)\n",
				res.Exec.Message, res.Exec.RowsAffected, res.Exec.Elapsed.Round(timeRounding))
		}
	}
	return nil
}

func renderTable(w io.Writer, result *core.QueryResult, extra ...string) error {
	if len(result.Rows) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	headerRow := make(table.Row, len(result.Columns))
	for i, col := range result.Columns {
		headerRow[i] = col
	}
	t.AppendHeader(headerRow)

	for _, row := range result.Rows {
		tr := make(table.Row, len(result.Columns))
		for i := range tr {
			tr[i] = cellValue(row, i)
		}
		t.AppendRow(tr)
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows", len(result.Rows))
	for _, e := range extra {
		_, _ = fmt.Fprintf(w, ", %s", e)
	}
	if result.Elapsed > 0 {
		_, _ = fmt.Fprintf(w, ", %s", result.Elapsed.Round(timeRounding))
	}
	_, _ = fmt.Fprintln(w, ")")
	return nil
}

func renderJSON(w io.Writer, result *core.QueryResult) error {
	out := make([]map[string]*string, 0, len(result.Rows))
	for _, row := range result.Rows {
		obj := make(map[string]*string, len(result.Columns))
		for i, col := range result.Columns {
			if i < len(row) {
				obj[col] = row[i]
			}
		}
		out = append(out, obj)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func renderCSV(w io.Writer, result *core.QueryResult) error {
	_, _ = fmt.Fprintln(w, strings.Join(result.Columns, ","))
	for _, row := range result.Rows {
		values := make([]string, len(result.Columns))
		for i := range values {
			values[i] = escapeCSV(cellValue(row, i))
		}
		_, _ = fmt.Fprintln(w, strings.Join(values, ","))
	}
	return nil
}

func renderMarkdown(w io.Writer, result *core.QueryResult) error {
	if len(result.Rows) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(result.Columns, " | "))
	seps := make([]string, len(result.Columns))
	for i := range seps {
		seps[i] = "---"
	}
	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(seps, " | "))

	for _, row := range result.Rows {
		values := make([]string, len(result.Columns))
		for i := range values {
			values[i] = cellValue(row, i)
		}
		_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(values, " | "))
	}
	return nil
}

func cellValue(row []*string, i int) string {
	if i >= len(row) || row[i] == nil {
		return "NULL"
	}
	return *row[i]
}

func escapeCSV(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
