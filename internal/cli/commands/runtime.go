// Package commands implements the dbforge subcommands.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dbforge-labs/dbforge/internal/config"
	"github.com/dbforge-labs/dbforge/internal/state"
	"github.com/dbforge-labs/dbforge/pkg/core"
)

// Runtime carries the loaded configuration and the connection manager into
// subcommands via the command context.
type Runtime struct {
	Config  *config.Config
	Manager *state.Manager
	Logger  *slog.Logger
}

type runtimeKey struct{}

// WithRuntime stores the runtime in a context.
func WithRuntime(ctx context.Context, rt *Runtime) context.Context {
	return context.WithValue(ctx, runtimeKey{}, rt)
}

// RuntimeFrom returns the runtime stored in ctx, nil when absent.
func RuntimeFrom(ctx context.Context) *Runtime {
	rt, _ := ctx.Value(runtimeKey{}).(*Runtime)
	return rt
}

// runtimeFrom extracts the runtime placed in the command context by the root
// command's PersistentPreRunE.
func runtimeFrom(cmd *cobra.Command) (*Runtime, error) {
	rt, ok := cmd.Context().Value(runtimeKey{}).(*Runtime)
	if !ok || rt == nil {
		return nil, fmt.Errorf("no configuration loaded")
	}
	return rt, nil
}

// Connection resolves the connection the command should use: the --connection
// flag (already folded into the config), else the configured default, else
// the only configured connection.
func (rt *Runtime) Connection() (core.ConnConfig, error) {
	if cfg, ok := rt.Config.Connection(""); ok {
		return cfg, nil
	}
	if rt.Config.DefaultConnection == "" && len(rt.Config.Connections) == 1 {
		return rt.Config.Connections[0], nil
	}
	if len(rt.Config.Connections) == 0 {
		return core.ConnConfig{}, fmt.Errorf("no connections configured (create %s)", config.ConfigFileName)
	}
	return core.ConnConfig{}, fmt.Errorf("no connection selected: pass --connection or set default_connection")
}

// outputFormat picks the effective display format: an explicit --format flag
// wins, then the configured output default.
func outputFormat(cmd *cobra.Command, rt *Runtime, flagValue string) string {
	if f := cmd.Flags().Lookup("format"); f != nil && f.Changed {
		return flagValue
	}
	if rt.Config != nil && rt.Config.Output != "" {
		return rt.Config.Output
	}
	return flagValue
}

// displayName prefers the human-readable connection name over its id.
func displayName(c core.ConnConfig) string {
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}
