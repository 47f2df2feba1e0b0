package conn

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dbforge-labs/dbforge/pkg/core"
	"github.com/dbforge-labs/dbforge/pkg/sqltext"
)

// SQLConnection is the database/sql-backed Connection used by every dialect.
// The driver name and DSN come from the dialect plugin; everything past the
// handshake is uniform.
type SQLConnection struct {
	driver string
	dsn    string
	logger *slog.Logger

	mu sync.Mutex // serializes all session operations
	db *sql.DB
}

// NewSQLConnection returns an unconnected session. A nil logger discards.
func NewSQLConnection(driver, dsn string, logger *slog.Logger) *SQLConnection {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQLConnection{driver: driver, dsn: dsn, logger: logger}
}

// NewSQLConnectionFromDB wraps an already-open handle. Used by tests and by
// callers that manage the pool themselves.
func NewSQLConnectionFromDB(db *sql.DB, logger *slog.Logger) *SQLConnection {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQLConnection{db: db, logger: logger}
}

// Connect opens the handle and verifies it with a ping.
func (c *SQLConnection) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db != nil {
		return nil
	}
	db, err := sql.Open(c.driver, c.dsn)
	if err != nil {
		return core.DBWrapf(core.ConfigError, err, "open %s connection", c.driver)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		if errors.Is(err, context.Canceled) {
			return core.DBWrapf(core.Cancelled, err, "connect")
		}
		return core.DBWrapf(core.ConnectFailed, err, "connect to %s", c.driver)
	}
	c.logger.Debug("connection established", "driver", c.driver)
	c.db = db
	return nil
}

// Ping verifies the session is alive.
func (c *SQLConnection) Ping(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db == nil {
		return core.DBErrorf(core.Disconnected, "ping: not connected")
	}
	if err := c.db.PingContext(ctx); err != nil {
		return core.DBWrapf(core.ConnectFailed, err, "ping")
	}
	return nil
}

// Connected reports whether the handle is open.
func (c *SQLConnection) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.db != nil
}

// Close tears down the handle. Safe to call repeatedly.
func (c *SQLConnection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	if err != nil {
		return fmt.Errorf("close connection: %w", err)
	}
	return nil
}

// Query runs one row-returning statement and materializes the rows as
// optional strings.
func (c *SQLConnection) Query(ctx context.Context, sqlStr string, args ...any) (*core.QueryResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queryLocked(ctx, sqlStr, args...)
}

func (c *SQLConnection) queryLocked(ctx context.Context, sqlStr string, args ...any) (*core.QueryResult, error) {
	if c.db == nil {
		return nil, core.DBErrorf(core.Disconnected, "query: not connected")
	}

	start := time.Now()
	rows, err := c.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, queryError(ctx, err, sqlStr)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, core.DBWrapf(core.QueryFailed, err, "read result columns")
	}

	result := &core.QueryResult{SQL: sqlStr, Columns: columns}
	for rows.Next() {
		cells := make([]sql.NullString, len(columns))
		dest := make([]any, len(columns))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, core.DBWrapf(core.QueryFailed, err, "scan row")
		}
		row := make([]*string, len(columns))
		for i, cell := range cells {
			if cell.Valid {
				v := cell.String
				row[i] = &v
			}
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, queryError(ctx, err, sqlStr)
	}

	result.Elapsed = time.Since(start)
	c.logger.Debug("query executed", "rows", len(result.Rows), "elapsed", result.Elapsed)
	return result, nil
}

// Exec runs one statement for its side effects.
func (c *SQLConnection) Exec(ctx context.Context, sqlStr string, args ...any) (*core.ExecResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.execLocked(ctx, sqlStr, args...)
}

func (c *SQLConnection) execLocked(ctx context.Context, sqlStr string, args ...any) (*core.ExecResult, error) {
	if c.db == nil {
		return nil, core.DBErrorf(core.Disconnected, "exec: not connected")
	}

	start := time.Now()
	res, err := c.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, queryError(ctx, err, sqlStr)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		// Some drivers cannot report this for DDL; treat as zero.
		affected = 0
	}

	elapsed := time.Since(start)
	c.logger.Debug("statement executed", "rows_affected", affected, "elapsed", elapsed)
	return &core.ExecResult{
		SQL:          sqlStr,
		RowsAffected: affected,
		Elapsed:      elapsed,
		Message:      core.ExecMessage(sqlStr, affected),
	}, nil
}

// ExecuteScript splits and runs a script statement by statement. When
// opts.Transactional is set the whole script runs in one transaction that
// rolls back on the first error.
func (c *SQLConnection) ExecuteScript(ctx context.Context, script string, opts core.ExecOptions) ([]core.SQLResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db == nil {
		return nil, core.DBErrorf(core.Disconnected, "execute script: not connected")
	}

	statements := sqltext.Split(script)
	if opts.Transactional {
		return c.runScriptTx(ctx, statements)
	}

	var results []core.SQLResult
	for _, stmt := range statements {
		r := c.runStatementLocked(ctx, stmt)
		results = append(results, r)
		if r.IsError() && opts.StopOnError {
			break
		}
	}
	return results, nil
}

func (c *SQLConnection) runStatementLocked(ctx context.Context, stmt string) core.SQLResult {
	if sqltext.IsQuery(stmt) {
		q, err := c.queryLocked(ctx, stmt)
		if err != nil {
			return core.SQLResult{Err: &core.SQLErrorInfo{SQL: stmt, Message: err.Error()}}
		}
		if table, ok := sqltext.EditableTable(stmt); ok {
			q.TableName = table
			q.Editable = true
		}
		return core.SQLResult{Query: q}
	}
	e, err := c.execLocked(ctx, stmt)
	if err != nil {
		return core.SQLResult{Err: &core.SQLErrorInfo{SQL: stmt, Message: err.Error()}}
	}
	return core.SQLResult{Exec: e}
}

func (c *SQLConnection) runScriptTx(ctx context.Context, statements []string) ([]core.SQLResult, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, core.DBWrapf(core.QueryFailed, err, "begin transaction")
	}

	var results []core.SQLResult
	for _, stmt := range statements {
		start := time.Now()
		res, err := tx.ExecContext(ctx, stmt)
		if err != nil {
			_ = tx.Rollback()
			results = append(results, core.SQLResult{Err: &core.SQLErrorInfo{SQL: stmt, Message: err.Error()}})
			return results, nil
		}
		affected, raErr := res.RowsAffected()
		if raErr != nil {
			affected = 0
		}
		results = append(results, core.SQLResult{Exec: &core.ExecResult{
			SQL:          stmt,
			RowsAffected: affected,
			Elapsed:      time.Since(start),
			Message:      core.ExecMessage(stmt, affected),
		}})
	}
	if err := tx.Commit(); err != nil {
		return nil, core.DBWrapf(core.QueryFailed, err, "commit transaction")
	}
	return results, nil
}

func queryError(ctx context.Context, err error, sqlStr string) error {
	if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
		return core.DBWrapf(core.Cancelled, err, "statement cancelled")
	}
	return core.DBWrapf(core.QueryFailed, err, "execute %q", truncateSQL(sqlStr))
}

func truncateSQL(s string) string {
	const limit = 120
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "…"
}
