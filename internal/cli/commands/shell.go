package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/dbforge-labs/dbforge/pkg/core"
	"github.com/dbforge-labs/dbforge/pkg/sqlintel"
)

// NewShellCommand creates the interactive shell command.
func NewShellCommand() *cobra.Command {
	format := "table"

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive SQL shell",
		Long: `Open an interactive SQL shell against a configured connection.

Statements end with a semicolon and may span multiple lines. Tab completion
offers keywords, functions, and the connection's tables and columns.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShell(cmd, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table, json, csv, md")
	return cmd
}

func runShell(cmd *cobra.Command, format string) error {
	rt, err := runtimeFrom(cmd)
	if err != nil {
		return err
	}
	conn, err := rt.Connection()
	if err != nil {
		return err
	}
	format = outputFormat(cmd, rt, format)
	ctx := cmd.Context()

	completer := newSQLCompleter(cmd, rt, conn)

	historyFile := ""
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = filepath.Join(home, ".dbforge_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "dbforge> ",
		HistoryFile:     historyFile,
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("initializing shell: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "dbforge shell (connection: %s, %s)\n", displayName(conn), conn.DatabaseType)
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	var buffer strings.Builder
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			buffer.Reset()
			rl.SetPrompt("dbforge> ")
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if buffer.Len() == 0 && strings.HasPrefix(line, ".") {
			if quit := handleDotCommand(cmd, rt, conn, line, format); quit {
				break
			}
			continue
		}

		// Accumulate until the statement terminator.
		buffer.WriteString(line)
		if !strings.HasSuffix(line, ";") {
			buffer.WriteString(" ")
			rl.SetPrompt("    ...> ")
			continue
		}
		rl.SetPrompt("dbforge> ")

		script := buffer.String()
		buffer.Reset()

		results, err := rt.Manager.ExecuteScript(ctx, conn.ID, script, core.DefaultExecOptions())
		if err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			continue
		}
		if err := renderScript(cmd.OutOrStdout(), results, format); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout())
	}

	return nil
}

// handleDotCommand runs a shell meta command, reporting whether to exit.
func handleDotCommand(cmd *cobra.Command, rt *Runtime, conn core.ConnConfig, line, format string) bool {
	parts := strings.Fields(line)
	switch strings.ToLower(parts[0]) {
	case ".quit", ".exit":
		return true

	case ".help":
		printShellHelp(cmd.OutOrStdout())

	case ".tables":
		if err := printTables(cmd, rt, conn, format); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}

	case ".schema":
		if len(parts) < 2 {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Usage: .schema <table>")
			return false
		}
		if err := printTableSchema(cmd, rt, conn, parts[1], format); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}

	case ".connections":
		for _, c := range rt.Config.Connections {
			marker := " "
			if c.ID == conn.ID {
				marker = "*"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", marker, displayName(c), c.DatabaseType)
		}

	case ".clear":
		_, _ = fmt.Fprint(cmd.OutOrStdout(), "\033[H\033[2J")

	default:
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Unknown command: %s (type .help for commands)\n", parts[0])
	}
	return false
}

func printShellHelp(w io.Writer) {
	help := `
Commands:
  .help           Show this help message
  .tables         List tables on the current connection
  .schema <name>  Show columns and indexes for a table
  .connections    List configured connections
  .clear          Clear the screen
  .quit / .exit   Exit the shell

Tips:
  - SQL statements must end with a semicolon (;)
  - Use arrow keys to navigate history
  - Tab completion knows keywords, tables, and columns
`
	_, _ = fmt.Fprintln(w, help)
}

// sqlCompleter adapts the completion engine to readline's interface.
type sqlCompleter struct {
	engine *sqlintel.Engine
}

// newSQLCompleter builds a completer over the connection's catalog. Failures
// degrade to keyword-only completion; the shell still works.
func newSQLCompleter(cmd *cobra.Command, rt *Runtime, conn core.ConnConfig) *sqlCompleter {
	ctx := cmd.Context()

	schema := sqlintel.Schema{ColumnsByTable: map[string][]sqlintel.DocEntry{}}
	tables, err := rt.Manager.ListTables(ctx, conn.ID, conn.Database, "")
	if err != nil {
		rt.Logger.Warn("shell completion: listing tables failed", "error", err)
	}
	for _, t := range tables {
		schema.Tables = append(schema.Tables, sqlintel.DocEntry{Label: t.Name, Doc: t.Comment})
		cols, err := rt.Manager.ListColumns(ctx, conn.ID, conn.Database, t.Schema, t.Name)
		if err != nil {
			continue
		}
		for _, c := range cols {
			entry := sqlintel.DocEntry{Label: c.Name, Doc: c.DBType}
			schema.ColumnsByTable[t.Name] = append(schema.ColumnsByTable[t.Name], entry)
			schema.Columns = append(schema.Columns, entry)
		}
	}

	engine := sqlintel.NewEngine(schema)
	if info, err := rt.Manager.CompletionInfo(conn.ID); err == nil {
		engine.WithInfo(info)
	}
	return &sqlCompleter{engine: engine}
}

// Do implements readline.AutoCompleter. Snippet suggestions are skipped; the
// shell has no placeholder support.
func (c *sqlCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])
	items := c.engine.Complete(text, len(text))

	var (
		candidates [][]rune
		wordLen    int
	)
	for _, item := range items {
		if item.IsSnippet {
			continue
		}
		prefix := len(text) - item.ReplaceStart
		if prefix < 0 || prefix > len(item.NewText) {
			continue
		}
		wordLen = utf8.RuneCountInString(text[item.ReplaceStart:])
		candidates = append(candidates, []rune(item.NewText[prefix:]))
	}
	return candidates, wordLen
}
