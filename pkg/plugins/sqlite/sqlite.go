// Package sqlite implements the SQLite dialect plugin. A connection maps to
// one database file; catalog reads go through sqlite_master and PRAGMAs.
package sqlite

import (
	"context"
	"fmt"

	_ "modernc.org/sqlite" // registers the pure-Go sqlite driver

	"github.com/dbforge-labs/dbforge/pkg/conn"
	"github.com/dbforge-labs/dbforge/pkg/core"
	"github.com/dbforge-labs/dbforge/pkg/plugin"
)

func init() {
	plugin.Register(New())
}

// Plugin is the SQLite dialect implementation. Stateless.
type Plugin struct {
	plugin.Base
}

func New() *Plugin {
	return &Plugin{Base: plugin.Base{
		QuoteStart: `"`,
		QuoteEnd:   `"`,
		SingleRow: func(table, predicate string) string {
			return fmt.Sprintf("rowid = (SELECT rowid FROM %s WHERE %s LIMIT 1)", table, predicate)
		},
	}}
}

func (p *Plugin) Type() core.DatabaseType { return core.SQLite }

func (p *Plugin) SupportsSchemas() bool    { return false }
func (p *Plugin) SupportsSequences() bool  { return false }
func (p *Plugin) SupportsFunctions() bool  { return false }
func (p *Plugin) SupportsProcedures() bool { return false }

func (p *Plugin) DriverName() string { return "sqlite" }

// DSN is the database file path; an empty path opens an in-memory database.
func (p *Plugin) DSN(cfg core.ConnConfig) (string, error) {
	if cfg.Database == "" {
		return ":memory:", nil
	}
	return cfg.Database, nil
}

// === Catalog ===

// ListDatabases returns the single attached database.
func (p *Plugin) ListDatabases(ctx context.Context, c conn.Connection) ([]string, error) {
	return []string{"main"}, nil
}

func (p *Plugin) ListDatabasesDetailed(ctx context.Context, c conn.Connection) ([]core.DatabaseInfo, error) {
	return []core.DatabaseInfo{{Name: "main", Charset: "UTF-8"}}, nil
}

func (p *Plugin) ListSchemas(ctx context.Context, c conn.Connection, database string) ([]core.SchemaInfo, error) {
	return nil, nil
}

func (p *Plugin) ListTables(ctx context.Context, c conn.Connection, database, schema string) ([]core.TableInfo, error) {
	rows, err := plugin.QueryRows(ctx, c,
		"SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		return nil, err
	}
	out := make([]core.TableInfo, 0, len(rows))
	for _, name := range plugin.FirstColumn(rows) {
		out = append(out, core.TableInfo{Name: name})
	}
	return out, nil
}

// ListColumns reads PRAGMA table_info: cid, name, type, notnull, dflt_value, pk.
func (p *Plugin) ListColumns(ctx context.Context, c conn.Connection, database, schema, table string) ([]core.ColumnInfo, error) {
	rows, err := plugin.QueryRows(ctx, c, fmt.Sprintf("PRAGMA table_info(%s)", p.QuoteIdentifier(table)))
	if err != nil {
		return nil, err
	}
	out := make([]core.ColumnInfo, 0, len(rows))
	for i, row := range rows {
		col := plugin.ColumnInfoFromRow(
			plugin.Str(row, 1), plugin.Str(row, 2),
			plugin.Flag(row, 3, "0"),       // notnull=0 means nullable
			!plugin.Flag(row, 5, "0"),      // pk>0 means primary key member
			plugin.Str(row, 4), "", i)
		out = append(out, col)
	}
	return out, nil
}

// ListIndexes reads PRAGMA index_list, then index_info per index for the
// column names.
func (p *Plugin) ListIndexes(ctx context.Context, c conn.Connection, database, schema, table string) ([]core.IndexInfo, error) {
	rows, err := plugin.QueryRows(ctx, c, fmt.Sprintf("PRAGMA index_list(%s)", p.QuoteIdentifier(table)))
	if err != nil {
		return nil, err
	}

	out := make([]core.IndexInfo, 0, len(rows))
	for _, row := range rows {
		// index_list: seq, name, unique, origin, partial
		name := plugin.Str(row, 1)
		if name == "" {
			continue
		}
		idx := core.IndexInfo{
			Name:      name,
			IsUnique:  plugin.Flag(row, 2, "1"),
			IsPrimary: plugin.Str(row, 3) == "pk",
		}

		infoRows, err := plugin.QueryRows(ctx, c, fmt.Sprintf("PRAGMA index_info(%s)", p.QuoteIdentifier(name)))
		if err != nil {
			return nil, err
		}
		for _, info := range infoRows {
			// index_info: seqno, cid, name
			idx.Columns = append(idx.Columns, plugin.Str(info, 2))
		}
		out = append(out, idx)
	}
	return out, nil
}

func (p *Plugin) ListViews(ctx context.Context, c conn.Connection, database, schema string) ([]core.ViewInfo, error) {
	rows, err := plugin.QueryRows(ctx, c,
		"SELECT name, sql FROM sqlite_master WHERE type='view' ORDER BY name")
	if err != nil {
		return nil, err
	}
	out := make([]core.ViewInfo, 0, len(rows))
	for _, row := range rows {
		out = append(out, core.ViewInfo{Name: plugin.Str(row, 0), Definition: plugin.Str(row, 1)})
	}
	return out, nil
}

// ListFunctions returns empty: SQLite has no stored functions.
func (p *Plugin) ListFunctions(ctx context.Context, c conn.Connection, database, schema string) ([]core.RoutineInfo, error) {
	return nil, nil
}

// ListProcedures returns empty: SQLite has no stored procedures.
func (p *Plugin) ListProcedures(ctx context.Context, c conn.Connection, database, schema string) ([]core.RoutineInfo, error) {
	return nil, nil
}

func (p *Plugin) ListTriggers(ctx context.Context, c conn.Connection, database, schema string) ([]core.TriggerInfo, error) {
	rows, err := plugin.QueryRows(ctx, c,
		"SELECT name, tbl_name, sql FROM sqlite_master WHERE type='trigger' ORDER BY name")
	if err != nil {
		return nil, err
	}
	out := make([]core.TriggerInfo, 0, len(rows))
	for _, row := range rows {
		out = append(out, core.TriggerInfo{
			Name:      plugin.Str(row, 0),
			Table:     plugin.Str(row, 1),
			Statement: plugin.Str(row, 2),
		})
	}
	return out, nil
}

// ListSequences returns empty: SQLite only has the internal sqlite_sequence
// bookkeeping table.
func (p *Plugin) ListSequences(ctx context.Context, c conn.Connection, database, schema string) ([]core.SequenceInfo, error) {
	return nil, nil
}

// ListTableChecks returns empty: SQLite does not expose check constraints
// outside the raw CREATE TABLE text.
func (p *Plugin) ListTableChecks(ctx context.Context, c conn.Connection, database, schema, table string) ([]core.CheckInfo, error) {
	return nil, nil
}

// === Data ===

func (p *Plugin) QueryTableData(ctx context.Context, c conn.Connection, req core.TableDataRequest) (*core.TableDataResponse, error) {
	columns, err := p.ListColumns(ctx, c, req.Database, req.Schema, req.Table)
	if err != nil {
		return nil, err
	}
	var indexes []core.IndexInfo
	if !hasPrimaryKey(columns) {
		indexes, _ = p.ListIndexes(ctx, c, req.Database, req.Schema, req.Table)
	}
	return p.FetchTableData(ctx, c, req,
		plugin.TableQuery{Table: p.QuoteIdentifier(req.Table)},
		columns, indexes)
}

// BuildTableChangeSQL never schema-qualifies: one database per file.
func (p *Plugin) BuildTableChangeSQL(req core.TableSaveRequest) ([]string, error) {
	req.Schema = ""
	req.Database = ""
	return p.Base.BuildTableChangeSQL(req)
}

func hasPrimaryKey(columns []core.ColumnInfo) bool {
	for _, col := range columns {
		if col.IsPrimaryKey {
			return true
		}
	}
	return false
}
