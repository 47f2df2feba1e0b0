package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dbforge-labs/dbforge/internal/config"
	"github.com/dbforge-labs/dbforge/internal/lsp"
)

// NewLSPCommand creates the lsp command.
func NewLSPCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		Long: `Start the LSP server for editor integration.

The server speaks JSON-RPC over stdin/stdout and serves SQL completion and
hover against the selected connection's catalog. Logs go to stderr so the
transport stays clean.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := runtimeFrom(cmd)
			if err != nil {
				return err
			}
			conn, err := rt.Connection()
			if err != nil {
				return err
			}

			// Pick up edits to the connection file while the server runs.
			if path := config.ConfigFileUsed(); path != "" {
				go func() {
					_ = config.Watch(cmd.Context(), path, rt.Logger, func(cfg *config.Config) {
						for _, c := range cfg.Connections {
							if err := rt.Manager.Register(c); err != nil {
								rt.Logger.Warn("re-registering connection failed", "id", c.ID, "error", err)
							}
						}
					})
				}()
			}

			server := lsp.NewServer(os.Stdin, os.Stdout, rt.Manager, conn.ID, rt.Logger)
			return server.Run()
		},
	}
}
