package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dbforge-labs/dbforge/internal/export"
	"github.com/dbforge-labs/dbforge/pkg/core"
	"github.com/dbforge-labs/dbforge/pkg/plugin"
)

// ExportOptions holds options for the export command.
type ExportOptions struct {
	Format string
	Output string
	Query  string
}

// NewExportCommand creates the export command.
func NewExportCommand() *cobra.Command {
	opts := &ExportOptions{}

	cmd := &cobra.Command{
		Use:   "export [table]",
		Short: "Export table data or a query result",
		Long: `Export a whole table, or the result of an arbitrary query, to CSV, JSON,
an INSERT-statement SQL dump, or an XLSX workbook.`,
		Example: `  # Whole table to CSV on stdout
  dbforge export users --format csv

  # Query result to a workbook
  dbforge export --query "SELECT * FROM orders WHERE total > 100" \
      --format xlsx --out orders.xlsx

  # SQL dump reusing the dialect's identifier quoting
  dbforge export users --format sql --out users.sql`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "csv", "Export format: csv, json, sql, xlsx")
	cmd.Flags().StringVarP(&opts.Output, "out", "O", "", "Write to file instead of stdout")
	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "Export a query result instead of a table")

	return cmd
}

func runExport(cmd *cobra.Command, args []string, opts *ExportOptions) error {
	rt, err := runtimeFrom(cmd)
	if err != nil {
		return err
	}
	conn, err := rt.Connection()
	if err != nil {
		return err
	}

	format, err := export.ParseFormat(opts.Format)
	if err != nil {
		return err
	}

	if (len(args) == 0) == (opts.Query == "") {
		return fmt.Errorf("pass exactly one of a table name or --query")
	}

	result, table, err := fetchExportData(cmd, rt, conn, args, opts.Query)
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if opts.Output != "" {
		f, err := os.Create(opts.Output)
		if err != nil {
			return fmt.Errorf("creating %s: %w", opts.Output, err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	exportOpts := export.Options{Table: table}
	if p, err := plugin.Get(conn.DatabaseType); err == nil {
		exportOpts.QuoteIdentifier = p.QuoteIdentifier
	}

	if err := export.Write(w, format, result, exportOpts); err != nil {
		return err
	}
	if opts.Output != "" {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d row(s) to %s\n", len(result.Rows), opts.Output)
	}
	return nil
}

// fetchExportData reads the full table (no paging) or runs the query.
func fetchExportData(cmd *cobra.Command, rt *Runtime, conn core.ConnConfig, args []string, query string) (*core.QueryResult, string, error) {
	ctx := cmd.Context()

	if query != "" {
		result, err := rt.Manager.Query(ctx, conn.ID, query)
		return result, "", err
	}

	table := args[0]
	req := core.TableDataRequest{
		Database: conn.Database,
		Table:    table,
		Page:     1,
		PageSize: 0, // whole table
	}
	resp, err := rt.Manager.QueryTableData(ctx, conn.ID, req)
	if err != nil {
		return nil, "", err
	}

	result := &core.QueryResult{
		SQL:       resp.ExecutedSQL,
		Rows:      resp.Rows,
		Elapsed:   resp.Elapsed,
		TableName: table,
	}
	for _, col := range resp.Columns {
		result.Columns = append(result.Columns, col.Name)
	}
	return result, table, nil
}
