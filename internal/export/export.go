// Package export renders query results to interchange formats: CSV, JSON,
// an INSERT-statement SQL dump, and XLSX workbooks.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dbforge-labs/dbforge/pkg/core"
)

// Format identifies an output encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatSQL  Format = "sql"
	FormatXLSX Format = "xlsx"
)

// ParseFormat maps a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "sql":
		return FormatSQL, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unknown export format %q (csv, json, sql, xlsx)", s)
	}
}

// Options tunes format-specific details.
type Options struct {
	// Table names the target table in SQL dumps; required for FormatSQL.
	Table string
	// NullLiteral is what CSV cells print for SQL NULL. Empty by default.
	NullLiteral string
	// QuoteIdentifier quotes names in SQL dumps; ANSI double quotes when nil.
	QuoteIdentifier func(string) string
}

// Write renders the result in the requested format.
func Write(w io.Writer, format Format, result *core.QueryResult, opts Options) error {
	switch format {
	case FormatCSV:
		return writeCSV(w, result, opts)
	case FormatJSON:
		return writeJSON(w, result)
	case FormatSQL:
		return writeSQL(w, result, opts)
	case FormatXLSX:
		return writeXLSX(w, result)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

func writeCSV(w io.Writer, result *core.QueryResult, opts Options) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(result.Columns); err != nil {
		return err
	}
	record := make([]string, len(result.Columns))
	for _, row := range result.Rows {
		for i := range record {
			record[i] = opts.NullLiteral
			if i < len(row) && row[i] != nil {
				record[i] = *row[i]
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// writeJSON emits an array of objects keyed by column name. NULL cells
// become JSON null.
func writeJSON(w io.Writer, result *core.QueryResult) error {
	out := make([]map[string]*string, 0, len(result.Rows))
	for _, row := range result.Rows {
		obj := make(map[string]*string, len(result.Columns))
		for i, col := range result.Columns {
			if i < len(row) {
				obj[col] = row[i]
			} else {
				obj[col] = nil
			}
		}
		out = append(out, obj)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeSQL(w io.Writer, result *core.QueryResult, opts Options) error {
	table := opts.Table
	if table == "" {
		table = result.TableName
	}
	if table == "" {
		return fmt.Errorf("sql export requires a table name")
	}
	quote := opts.QuoteIdentifier
	if quote == nil {
		quote = func(name string) string {
			return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
		}
	}

	cols := make([]string, len(result.Columns))
	for i, c := range result.Columns {
		cols[i] = quote(c)
	}
	head := fmt.Sprintf("INSERT INTO %s (%s) VALUES ", quote(table), strings.Join(cols, ", "))

	for _, row := range result.Rows {
		vals := make([]string, len(result.Columns))
		for i := range vals {
			if i < len(row) && row[i] != nil {
				vals[i] = "'" + strings.ReplaceAll(*row[i], "'", "''") + "'"
			} else {
				vals[i] = "NULL"
			}
		}
		if _, err := fmt.Fprintf(w, "%s(%s);\n", head, strings.Join(vals, ", ")); err != nil {
			return err
		}
	}
	return nil
}
