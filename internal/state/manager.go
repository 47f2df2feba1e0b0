// Package state holds the process-wide registry of connection configurations
// and live connections, and the high-level facade operations that route
// through the dialect plugin and the connection layer.
package state

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dbforge-labs/dbforge/pkg/conn"
	"github.com/dbforge-labs/dbforge/pkg/core"
	"github.com/dbforge-labs/dbforge/pkg/plugin"
	"github.com/dbforge-labs/dbforge/pkg/sqlintel"
)

// Manager owns every registered connection. Connections are created lazily
// on first use and live until removed, replaced, or disconnected. All methods
// are safe for concurrent use.
type Manager struct {
	logger *slog.Logger

	mu      sync.RWMutex
	configs map[string]core.ConnConfig
	conns   map[string]conn.Connection
}

// NewManager returns an empty manager. A nil logger discards.
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Manager{
		logger:  logger,
		configs: make(map[string]core.ConnConfig),
		conns:   make(map[string]conn.Connection),
	}
}

// Register adds or replaces a connection configuration. A live connection
// under the same id is closed; the next use reconnects with the new config.
func (m *Manager) Register(cfg core.ConnConfig) error {
	if cfg.ID == "" {
		return core.DBErrorf(core.ConfigError, "connection config has no id")
	}
	if !plugin.IsRegistered(cfg.DatabaseType) {
		return &plugin.UnknownPluginError{Type: cfg.DatabaseType, Available: plugin.List()}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.conns[cfg.ID]; ok {
		_ = old.Close()
		delete(m.conns, cfg.ID)
	}
	m.configs[cfg.ID] = cfg
	m.logger.Info("connection registered", "id", cfg.ID, "type", cfg.DatabaseType)
	return nil
}

// RegisterWithConnection registers a config bound to an existing live
// connection instead of a lazily dialed one.
func (m *Manager) RegisterWithConnection(cfg core.ConnConfig, c conn.Connection) error {
	if err := m.Register(cfg); err != nil {
		return err
	}
	m.mu.Lock()
	m.conns[cfg.ID] = c
	m.mu.Unlock()
	return nil
}

// Remove drops a configuration and closes its connection if live.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.conns[id]; ok {
		_ = c.Close()
		delete(m.conns, id)
	}
	delete(m.configs, id)
}

// Config returns the registered configuration for an id.
func (m *Manager) Config(id string) (core.ConnConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cfg, ok := m.configs[id]
	if !ok {
		return core.ConnConfig{}, core.DBErrorf(core.ConfigError, "unknown connection %q", id)
	}
	return cfg, nil
}

// Configs returns all registered configurations.
func (m *Manager) Configs() []core.ConnConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]core.ConnConfig, 0, len(m.configs))
	for _, cfg := range m.configs {
		out = append(out, cfg)
	}
	return out
}

// Connected reports whether the id currently has a live connection.
func (m *Manager) Connected(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.conns[id]
	return ok && c.Connected()
}

// Disconnect closes the live connection for an id, keeping its config.
func (m *Manager) Disconnect(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.conns[id]; ok {
		_ = c.Close()
		delete(m.conns, id)
		m.logger.Info("connection closed", "id", id)
	}
}

// DisconnectAll closes every live connection. Configs remain registered.
func (m *Manager) DisconnectAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, c := range m.conns {
		_ = c.Close()
		delete(m.conns, id)
	}
}

// resolve returns the plugin, live connection, and config for an id,
// establishing the connection on first use.
func (m *Manager) resolve(ctx context.Context, id string) (plugin.Plugin, conn.Connection, core.ConnConfig, error) {
	cfg, err := m.Config(id)
	if err != nil {
		return nil, nil, core.ConnConfig{}, err
	}
	p, err := plugin.Get(cfg.DatabaseType)
	if err != nil {
		return nil, nil, core.ConnConfig{}, err
	}

	m.mu.Lock()
	c, ok := m.conns[id]
	if !ok {
		dsn, dsnErr := p.DSN(cfg)
		if dsnErr != nil {
			m.mu.Unlock()
			return nil, nil, core.ConnConfig{}, dsnErr
		}
		c = conn.NewSQLConnection(p.DriverName(), dsn, m.logger.With("connection", id))
		m.conns[id] = c
	}
	m.mu.Unlock()

	if err := c.Connect(ctx); err != nil {
		return nil, nil, core.ConnConfig{}, err
	}
	return p, c, cfg, nil
}

// Ping verifies a connection end to end.
func (m *Manager) Ping(ctx context.Context, id string) error {
	_, c, _, err := m.resolve(ctx, id)
	if err != nil {
		return err
	}
	return c.Ping(ctx)
}

// === Catalog facades ===

func (m *Manager) ListDatabases(ctx context.Context, id string) ([]string, error) {
	p, c, _, err := m.resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	return p.ListDatabases(ctx, c)
}

func (m *Manager) ListSchemas(ctx context.Context, id, database string) ([]core.SchemaInfo, error) {
	p, c, _, err := m.resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	return p.ListSchemas(ctx, c, database)
}

func (m *Manager) ListTables(ctx context.Context, id, database, schema string) ([]core.TableInfo, error) {
	p, c, _, err := m.resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	return p.ListTables(ctx, c, database, schema)
}

func (m *Manager) ListColumns(ctx context.Context, id, database, schema, table string) ([]core.ColumnInfo, error) {
	p, c, _, err := m.resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	return p.ListColumns(ctx, c, database, schema, table)
}

func (m *Manager) ListIndexes(ctx context.Context, id, database, schema, table string) ([]core.IndexInfo, error) {
	p, c, _, err := m.resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	return p.ListIndexes(ctx, c, database, schema, table)
}

func (m *Manager) ListViews(ctx context.Context, id, database, schema string) ([]core.ViewInfo, error) {
	p, c, _, err := m.resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	return p.ListViews(ctx, c, database, schema)
}

func (m *Manager) ListDatabasesDetailed(ctx context.Context, id string) ([]core.DatabaseInfo, error) {
	p, c, _, err := m.resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	return p.ListDatabasesDetailed(ctx, c)
}

func (m *Manager) ListFunctions(ctx context.Context, id, database, schema string) ([]core.RoutineInfo, error) {
	p, c, _, err := m.resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	return p.ListFunctions(ctx, c, database, schema)
}

func (m *Manager) ListProcedures(ctx context.Context, id, database, schema string) ([]core.RoutineInfo, error) {
	p, c, _, err := m.resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	return p.ListProcedures(ctx, c, database, schema)
}

func (m *Manager) ListTriggers(ctx context.Context, id, database, schema string) ([]core.TriggerInfo, error) {
	p, c, _, err := m.resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	return p.ListTriggers(ctx, c, database, schema)
}

func (m *Manager) ListSequences(ctx context.Context, id, database, schema string) ([]core.SequenceInfo, error) {
	p, c, _, err := m.resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	return p.ListSequences(ctx, c, database, schema)
}

func (m *Manager) ListTableChecks(ctx context.Context, id, database, schema, table string) ([]core.CheckInfo, error) {
	p, c, _, err := m.resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	return p.ListTableChecks(ctx, c, database, schema, table)
}

// === Execution facades ===

// Query runs one row-returning statement.
func (m *Manager) Query(ctx context.Context, id, sql string) (*core.QueryResult, error) {
	_, c, _, err := m.resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	return c.Query(ctx, sql)
}

// Exec runs one statement for its side effects.
func (m *Manager) Exec(ctx context.Context, id, sql string) (*core.ExecResult, error) {
	_, c, _, err := m.resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	return c.Exec(ctx, sql)
}

// ExecuteScript runs a multi-statement script.
func (m *Manager) ExecuteScript(ctx context.Context, id, script string, opts core.ExecOptions) ([]core.SQLResult, error) {
	_, c, _, err := m.resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	return c.ExecuteScript(ctx, script, opts)
}

// === DDL facades: build through the plugin, run through the connection ===

func (m *Manager) DropDatabase(ctx context.Context, id, name string) (*core.ExecResult, error) {
	p, c, _, err := m.resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	return c.Exec(ctx, p.BuildDropDatabaseSQL(name))
}

func (m *Manager) DropTable(ctx context.Context, id, schema, table string) (*core.ExecResult, error) {
	p, c, _, err := m.resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	return c.Exec(ctx, p.BuildDropTableSQL(schema, table))
}

func (m *Manager) TruncateTable(ctx context.Context, id, schema, table string) (*core.ExecResult, error) {
	p, c, _, err := m.resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	return c.Exec(ctx, p.BuildTruncateTableSQL(schema, table))
}

func (m *Manager) RenameTable(ctx context.Context, id, schema, oldName, newName string) (*core.ExecResult, error) {
	p, c, _, err := m.resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	sql, err := p.BuildRenameTableSQL(schema, oldName, newName)
	if err != nil {
		return nil, err
	}
	return c.Exec(ctx, sql)
}

func (m *Manager) DropView(ctx context.Context, id, schema, view string) (*core.ExecResult, error) {
	p, c, _, err := m.resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	return c.Exec(ctx, p.BuildDropViewSQL(schema, view))
}

// === Data grid facades ===

func (m *Manager) QueryTableData(ctx context.Context, id string, req core.TableDataRequest) (*core.TableDataResponse, error) {
	p, c, _, err := m.resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	return p.QueryTableData(ctx, c, req)
}

// SaveTableData turns grid edits into statements and applies them in order.
// When the request does not name the table's keys they are looked up in the
// catalog first, so updates and deletes target rows by key where one exists.
func (m *Manager) SaveTableData(ctx context.Context, id string, req core.TableSaveRequest) (*core.TableSaveResponse, error) {
	p, c, cfg, err := m.resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	m.fillRowKeys(ctx, p, c, cfg, &req)
	statements, err := p.BuildTableChangeSQL(req)
	if err != nil {
		return nil, err
	}

	resp := &core.TableSaveResponse{Statements: statements}
	for _, stmt := range statements {
		res, execErr := c.Exec(ctx, stmt)
		if execErr != nil {
			return resp, execErr
		}
		resp.RowsAffected += res.RowsAffected
	}
	return resp, nil
}

// fillRowKeys loads the primary key and unique indexes for the request's
// table when the caller named neither. Catalog failures degrade to
// all-column row matching instead of failing the save.
func (m *Manager) fillRowKeys(ctx context.Context, p plugin.Plugin, c conn.Connection, cfg core.ConnConfig, req *core.TableSaveRequest) {
	if len(req.PrimaryKeys) > 0 || len(req.UniqueKeys) > 0 {
		return
	}
	db := req.Database
	if db == "" {
		db = cfg.Database
	}

	columns, err := p.ListColumns(ctx, c, db, req.Schema, req.Table)
	if err != nil {
		m.logger.Warn("primary key lookup failed, matching rows on all columns",
			"table", req.Table, "error", err)
		return
	}
	for _, col := range columns {
		if col.IsPrimaryKey {
			req.PrimaryKeys = append(req.PrimaryKeys, col.Name)
		}
	}

	indexes, err := p.ListIndexes(ctx, c, db, req.Schema, req.Table)
	if err != nil {
		m.logger.Warn("unique index lookup failed", "table", req.Table, "error", err)
		return
	}
	for _, idx := range indexes {
		if idx.IsUnique && !idx.IsPrimary && len(idx.Columns) > 0 {
			req.UniqueKeys = append(req.UniqueKeys, idx.Columns)
		}
	}
}

// CompletionInfo returns the dialect vocabulary for a registered connection
// without requiring it to be live.
func (m *Manager) CompletionInfo(id string) (*sqlintel.CompletionInfo, error) {
	cfg, err := m.Config(id)
	if err != nil {
		return nil, err
	}
	p, err := plugin.Get(cfg.DatabaseType)
	if err != nil {
		return nil, err
	}
	return p.CompletionInfo(), nil
}
