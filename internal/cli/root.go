// Package cli provides the dbforge command-line interface.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dbforge-labs/dbforge/internal/cli/commands"
	"github.com/dbforge-labs/dbforge/internal/config"
	"github.com/dbforge-labs/dbforge/internal/state"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "dbforge",
		Short: "dbforge - multi-database client toolkit",
		Long: `dbforge is a multi-database client toolkit for MySQL, PostgreSQL,
SQL Server, SQLite, and Oracle.

It runs queries and scripts, browses catalogs, exports data, and serves
SQL completion to editors over LSP, all driven by one connection file.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Help and completion do not need a loaded config.
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			logger := newLogger(cmd, cfg.Verbose)
			if cfg.Verbose {
				if used := config.ConfigFileUsed(); used != "" {
					fmt.Fprintf(cmd.ErrOrStderr(), "Using config file: %s\n", used)
				}
			}

			manager := state.NewManager(logger)
			for _, c := range cfg.Connections {
				if err := manager.Register(c); err != nil {
					return fmt.Errorf("registering connection %q: %w", c.ID, err)
				}
			}

			rt := &commands.Runtime{Config: cfg, Manager: manager, Logger: logger}
			cmd.SetContext(commands.WithRuntime(cmd.Context(), rt))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if rt := commands.RuntimeFrom(cmd.Context()); rt != nil {
				rt.Manager.DisconnectAll()
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
Multi-database client toolkit
`)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./dbforge.yaml)")
	rootCmd.PersistentFlags().StringP("connection", "c", "", "Connection id or name to use")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Default output format (table|json|csv|md)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"table", "json", "csv", "md"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(commands.NewQueryCommand())
	rootCmd.AddCommand(commands.NewShellCommand())
	rootCmd.AddCommand(commands.NewTablesCommand())
	rootCmd.AddCommand(commands.NewExportCommand())
	rootCmd.AddCommand(commands.NewLSPCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// newLogger builds the CLI logger. Logs always go to stderr so command
// output and the LSP transport stay parseable.
func newLogger(cmd *cobra.Command, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}
