// Package conn provides the live database session abstraction. A Connection
// wraps one database/sql handle, serializes operations, and renders rows into
// dialect-agnostic string cells.
package conn

import (
	"context"

	"github.com/dbforge-labs/dbforge/pkg/core"
)

// Connection is a live session against one database. Implementations
// serialize operations: callers may invoke methods concurrently but they
// execute one at a time.
type Connection interface {
	// Connect establishes the session. Calling it on a live connection is a
	// no-op.
	Connect(ctx context.Context) error

	// Ping verifies liveness.
	Ping(ctx context.Context) error

	// Query runs one row-returning statement with optional driver-level
	// parameter binding.
	Query(ctx context.Context, sql string, args ...any) (*core.QueryResult, error)

	// Exec runs one statement for its side effects.
	Exec(ctx context.Context, sql string, args ...any) (*core.ExecResult, error)

	// ExecuteScript splits a multi-statement script and runs each statement
	// in order, honoring opts.StopOnError and opts.Transactional.
	ExecuteScript(ctx context.Context, script string, opts core.ExecOptions) ([]core.SQLResult, error)

	// Connected reports whether the session is live.
	Connected() bool

	// Close tears down the session. Idempotent.
	Close() error
}
