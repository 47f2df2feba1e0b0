package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dbforge-labs/dbforge/pkg/core"
)

// NewTablesCommand creates the tables command.
func NewTablesCommand() *cobra.Command {
	format := "table"
	schemaFlag := ""

	cmd := &cobra.Command{
		Use:   "tables [name]",
		Short: "List tables or describe one table",
		Long: `List the tables of a connection, or show the columns and indexes of a
single table when a name is given.`,
		Example: `  # List tables on the default connection
  dbforge tables

  # Describe one table
  dbforge tables users

  # Another connection, JSON output
  dbforge tables -c analytics --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := runtimeFrom(cmd)
			if err != nil {
				return err
			}
			conn, err := rt.Connection()
			if err != nil {
				return err
			}
			format = outputFormat(cmd, rt, format)
			if len(args) == 1 {
				return describeTable(cmd, rt, conn, schemaFlag, args[0], format)
			}
			return printTables(cmd, rt, conn, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table, json, csv, md")
	cmd.Flags().StringVar(&schemaFlag, "schema", "", "Schema the table lives in")
	return cmd
}

// printTables renders the table catalog as a result set so every output
// format works.
func printTables(cmd *cobra.Command, rt *Runtime, conn core.ConnConfig, format string) error {
	tables, err := rt.Manager.ListTables(cmd.Context(), conn.ID, conn.Database, "")
	if err != nil {
		return err
	}

	result := &core.QueryResult{
		Columns: []string{"name", "schema", "rows", "comment"},
	}
	for _, t := range tables {
		result.Rows = append(result.Rows, []*string{
			strp(t.Name),
			strpOrNil(t.Schema),
			strp(strconv.FormatInt(t.RowCount, 10)),
			strpOrNil(t.Comment),
		})
	}
	return renderResult(cmd.OutOrStdout(), result, format)
}

// describeTable prints the columns and indexes of one table.
func describeTable(cmd *cobra.Command, rt *Runtime, conn core.ConnConfig, schema, name, format string) error {
	return printTableSchemaIn(cmd, rt, conn, schema, name, format)
}

// printTableSchema is the shell's .schema helper; it uses the connection's
// default schema.
func printTableSchema(cmd *cobra.Command, rt *Runtime, conn core.ConnConfig, name, format string) error {
	return printTableSchemaIn(cmd, rt, conn, "", name, format)
}

func printTableSchemaIn(cmd *cobra.Command, rt *Runtime, conn core.ConnConfig, schema, name, format string) error {
	ctx := cmd.Context()
	w := cmd.OutOrStdout()

	columns, err := rt.Manager.ListColumns(ctx, conn.ID, conn.Database, schema, name)
	if err != nil {
		return err
	}
	if len(columns) == 0 {
		return fmt.Errorf("table %q not found", name)
	}

	result := &core.QueryResult{
		Columns: []string{"column", "type", "nullable", "default", "key"},
	}
	for _, c := range columns {
		nullable := "YES"
		if !c.Nullable {
			nullable = "NO"
		}
		key := ""
		if c.IsPrimaryKey {
			key = "PRI"
		}
		result.Rows = append(result.Rows, []*string{
			strp(c.Name),
			strp(c.DBType),
			strp(nullable),
			strpOrNil(c.DefaultValue),
			strpOrNil(key),
		})
	}

	_, _ = fmt.Fprintf(w, "Table: %s\n", name)
	if err := renderResult(w, result, format); err != nil {
		return err
	}

	indexes, err := rt.Manager.ListIndexes(ctx, conn.ID, conn.Database, schema, name)
	if err != nil || len(indexes) == 0 {
		return nil
	}

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Indexes:")
	for _, idx := range indexes {
		kind := ""
		switch {
		case idx.IsPrimary:
			kind = " primary"
		case idx.IsUnique:
			kind = " unique"
		}
		_, _ = fmt.Fprintf(w, "  %s%s (%s)\n", idx.Name, kind, strings.Join(idx.Columns, ", "))
	}
	return nil
}

func strp(s string) *string { return &s }

func strpOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
