package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dbforge-labs/dbforge/pkg/core"
)

// QueryOptions holds options for the query command.
type QueryOptions struct {
	Format        string
	Input         string
	StopOnError   bool
	Transactional bool
	MaxRows       int
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query [SQL]",
		Short: "Run SQL against a configured connection",
		Long: `Execute SQL against one of the configured connections.

Scripts may contain several statements separated by semicolons; each
statement's result is rendered in turn. Queries print rows, DML and DDL
print the affected row count and a summary message.`,
		Example: `  # Execute SQL directly
  dbforge query "SELECT * FROM users WHERE active = 1"

  # Pick the connection explicitly
  dbforge query -c staging "SELECT count(*) FROM orders"

  # Run a script from a file
  dbforge query -i migrate.sql

  # Pipe SQL in and get JSON out
  echo "SELECT * FROM users" | dbforge query --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "table", "Output format: table, json, csv, md")
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")
	cmd.Flags().BoolVar(&opts.StopOnError, "stop-on-error", true, "Stop the script at the first failing statement")
	cmd.Flags().BoolVar(&opts.Transactional, "transactional", false, "Wrap the whole script in one transaction")
	cmd.Flags().IntVar(&opts.MaxRows, "max-rows", core.DefaultExecOptions().MaxRows, "Row cap per query result")

	return cmd
}

func runQuery(cmd *cobra.Command, args []string, opts *QueryOptions) error {
	rt, err := runtimeFrom(cmd)
	if err != nil {
		return err
	}
	conn, err := rt.Connection()
	if err != nil {
		return err
	}
	format := outputFormat(cmd, rt, opts.Format)

	script, err := readScript(cmd, args, opts.Input)
	if err != nil {
		return err
	}
	if strings.TrimSpace(script) == "" {
		return fmt.Errorf("no SQL given: pass it as an argument, via --input, or on stdin")
	}

	execOpts := core.DefaultExecOptions()
	execOpts.StopOnError = opts.StopOnError
	execOpts.Transactional = opts.Transactional
	execOpts.MaxRows = opts.MaxRows

	results, err := rt.Manager.ExecuteScript(cmd.Context(), conn.ID, script, execOpts)
	if err != nil {
		return err
	}

	if err := renderScript(cmd.OutOrStdout(), results, format); err != nil {
		return err
	}
	for _, res := range results {
		if res.IsError() {
			return fmt.Errorf("script finished with errors")
		}
	}
	return nil
}

// readScript collects the SQL from args, the --input file, or piped stdin.
func readScript(cmd *cobra.Command, args []string, input string) (string, error) {
	switch {
	case len(args) > 0:
		return strings.Join(args, " "), nil
	case input != "":
		content, err := os.ReadFile(input)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", input, err)
		}
		return string(content), nil
	default:
		if f, ok := cmd.InOrStdin().(*os.File); ok && isTerminal(f) {
			return "", nil
		}
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(content), nil
	}
}

// isTerminal reports whether f is an interactive terminal.
func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
