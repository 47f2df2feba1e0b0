// Package mysql implements the MySQL dialect plugin.
package mysql

import (
	"context"
	"fmt"
	"strings"

	gomysql "github.com/go-sql-driver/mysql"

	"github.com/dbforge-labs/dbforge/pkg/conn"
	"github.com/dbforge-labs/dbforge/pkg/core"
	"github.com/dbforge-labs/dbforge/pkg/plugin"
)

func init() {
	plugin.Register(New())
}

// Plugin is the MySQL dialect implementation. Stateless.
type Plugin struct {
	plugin.Base
}

func New() *Plugin {
	return &Plugin{Base: plugin.Base{
		QuoteStart: "`",
		QuoteEnd:   "`",
		SingleRow: func(_, predicate string) string {
			return predicate + " LIMIT 1"
		},
	}}
}

func (p *Plugin) Type() core.DatabaseType { return core.MySQL }

func (p *Plugin) SupportsSchemas() bool    { return false }
func (p *Plugin) SupportsSequences() bool  { return false }
func (p *Plugin) SupportsFunctions() bool  { return true }
func (p *Plugin) SupportsProcedures() bool { return true }

func (p *Plugin) DriverName() string { return "mysql" }

// DSN renders a go-sql-driver DSN. parseTime is always on so temporal
// columns scan cleanly.
func (p *Plugin) DSN(cfg core.ConnConfig) (string, error) {
	if cfg.Host == "" {
		return "", core.DBErrorf(core.ConfigError, "mysql: host is required")
	}
	port := cfg.Port
	if port == 0 {
		port = 3306
	}

	mc := gomysql.NewConfig()
	mc.User = cfg.Username
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = fmt.Sprintf("%s:%d", cfg.Host, port)
	mc.DBName = cfg.Database
	mc.ParseTime = true
	mc.Params = map[string]string{"charset": cfg.Param("charset", "utf8mb4")}
	return mc.FormatDSN(), nil
}

// === Catalog ===

func (p *Plugin) ListDatabases(ctx context.Context, c conn.Connection) ([]string, error) {
	rows, err := plugin.QueryRows(ctx, c,
		"SELECT SCHEMA_NAME FROM INFORMATION_SCHEMA.SCHEMATA ORDER BY SCHEMA_NAME")
	if err != nil {
		return nil, err
	}
	return plugin.FirstColumn(rows), nil
}

func (p *Plugin) ListDatabasesDetailed(ctx context.Context, c conn.Connection) ([]core.DatabaseInfo, error) {
	rows, err := plugin.QueryRows(ctx, c,
		`SELECT SCHEMA_NAME, DEFAULT_CHARACTER_SET_NAME, DEFAULT_COLLATION_NAME
		 FROM INFORMATION_SCHEMA.SCHEMATA ORDER BY SCHEMA_NAME`)
	if err != nil {
		return nil, err
	}
	out := make([]core.DatabaseInfo, 0, len(rows))
	for _, row := range rows {
		out = append(out, core.DatabaseInfo{
			Name:      plugin.Str(row, 0),
			Charset:   plugin.Str(row, 1),
			Collation: plugin.Str(row, 2),
		})
	}
	return out, nil
}

func (p *Plugin) ListSchemas(ctx context.Context, c conn.Connection, database string) ([]core.SchemaInfo, error) {
	return nil, nil
}

func (p *Plugin) ListTables(ctx context.Context, c conn.Connection, database, schema string) ([]core.TableInfo, error) {
	sql := fmt.Sprintf(
		`SELECT TABLE_NAME, TABLE_COMMENT, ENGINE, TABLE_ROWS, CREATE_TIME, TABLE_COLLATION
		 FROM INFORMATION_SCHEMA.TABLES
		 WHERE TABLE_SCHEMA = %s AND TABLE_TYPE = 'BASE TABLE'
		 ORDER BY TABLE_NAME`, p.QuoteLiteral(database))
	rows, err := plugin.QueryRows(ctx, c, sql)
	if err != nil {
		return nil, err
	}

	out := make([]core.TableInfo, 0, len(rows))
	for _, row := range rows {
		collation := plugin.Str(row, 5)
		charset := ""
		if i := strings.IndexByte(collation, '_'); i > 0 {
			charset = collation[:i]
		}
		out = append(out, core.TableInfo{
			Name:      plugin.Str(row, 0),
			Comment:   plugin.Str(row, 1),
			Engine:    plugin.Str(row, 2),
			RowCount:  plugin.Int64(row, 3),
			CreatedAt: plugin.Str(row, 4),
			Charset:   charset,
			Collation: collation,
		})
	}
	return out, nil
}

func (p *Plugin) ListColumns(ctx context.Context, c conn.Connection, database, schema, table string) ([]core.ColumnInfo, error) {
	sql := fmt.Sprintf(
		`SELECT COLUMN_NAME, COLUMN_TYPE, IS_NULLABLE, COLUMN_KEY, COLUMN_DEFAULT, COLUMN_COMMENT, EXTRA
		 FROM INFORMATION_SCHEMA.COLUMNS
		 WHERE TABLE_SCHEMA = %s AND TABLE_NAME = %s
		 ORDER BY ORDINAL_POSITION`, p.QuoteLiteral(database), p.QuoteLiteral(table))
	rows, err := plugin.QueryRows(ctx, c, sql)
	if err != nil {
		return nil, err
	}

	out := make([]core.ColumnInfo, 0, len(rows))
	for i, row := range rows {
		col := plugin.ColumnInfoFromRow(
			plugin.Str(row, 0), plugin.Str(row, 1),
			plugin.Flag(row, 2, "YES"), plugin.Flag(row, 3, "PRI"),
			plugin.Str(row, 4), plugin.Str(row, 5), i)
		col.IsAutoIncrement = strings.Contains(plugin.Str(row, 6), "auto_increment")
		col.IsUnsigned = strings.Contains(strings.ToLower(col.DBType), "unsigned")
		out = append(out, col)
	}
	return out, nil
}

func (p *Plugin) ListIndexes(ctx context.Context, c conn.Connection, database, schema, table string) ([]core.IndexInfo, error) {
	sql := fmt.Sprintf(
		`SELECT INDEX_NAME, COLUMN_NAME, NON_UNIQUE, INDEX_TYPE
		 FROM INFORMATION_SCHEMA.STATISTICS
		 WHERE TABLE_SCHEMA = %s AND TABLE_NAME = %s
		 ORDER BY INDEX_NAME, SEQ_IN_INDEX`, p.QuoteLiteral(database), p.QuoteLiteral(table))
	rows, err := plugin.QueryRows(ctx, c, sql)
	if err != nil {
		return nil, err
	}
	return plugin.GroupIndexRows(rows, func(row []*string) bool {
		return plugin.Flag(row, 2, "0")
	}), nil
}

func (p *Plugin) ListViews(ctx context.Context, c conn.Connection, database, schema string) ([]core.ViewInfo, error) {
	sql := fmt.Sprintf(
		`SELECT TABLE_NAME, VIEW_DEFINITION FROM INFORMATION_SCHEMA.VIEWS
		 WHERE TABLE_SCHEMA = %s ORDER BY TABLE_NAME`, p.QuoteLiteral(database))
	rows, err := plugin.QueryRows(ctx, c, sql)
	if err != nil {
		return nil, err
	}
	out := make([]core.ViewInfo, 0, len(rows))
	for _, row := range rows {
		out = append(out, core.ViewInfo{Name: plugin.Str(row, 0), Definition: plugin.Str(row, 1)})
	}
	return out, nil
}

func (p *Plugin) ListFunctions(ctx context.Context, c conn.Connection, database, schema string) ([]core.RoutineInfo, error) {
	return p.listRoutines(ctx, c, database, "FUNCTION")
}

func (p *Plugin) ListProcedures(ctx context.Context, c conn.Connection, database, schema string) ([]core.RoutineInfo, error) {
	return p.listRoutines(ctx, c, database, "PROCEDURE")
}

func (p *Plugin) listRoutines(ctx context.Context, c conn.Connection, database, kind string) ([]core.RoutineInfo, error) {
	sql := fmt.Sprintf(
		`SELECT ROUTINE_NAME, DTD_IDENTIFIER FROM INFORMATION_SCHEMA.ROUTINES
		 WHERE ROUTINE_SCHEMA = %s AND ROUTINE_TYPE = '%s'
		 ORDER BY ROUTINE_NAME`, p.QuoteLiteral(database), kind)
	rows, err := plugin.QueryRows(ctx, c, sql)
	if err != nil {
		return nil, err
	}
	out := make([]core.RoutineInfo, 0, len(rows))
	for _, row := range rows {
		out = append(out, core.RoutineInfo{
			Name:       plugin.Str(row, 0),
			ReturnType: plugin.Str(row, 1),
			Language:   "SQL",
		})
	}
	return out, nil
}

func (p *Plugin) ListTriggers(ctx context.Context, c conn.Connection, database, schema string) ([]core.TriggerInfo, error) {
	sql := fmt.Sprintf(
		`SELECT TRIGGER_NAME, EVENT_OBJECT_TABLE, EVENT_MANIPULATION, ACTION_TIMING
		 FROM INFORMATION_SCHEMA.TRIGGERS
		 WHERE TRIGGER_SCHEMA = %s ORDER BY TRIGGER_NAME`, p.QuoteLiteral(database))
	rows, err := plugin.QueryRows(ctx, c, sql)
	if err != nil {
		return nil, err
	}
	out := make([]core.TriggerInfo, 0, len(rows))
	for _, row := range rows {
		out = append(out, core.TriggerInfo{
			Name:   plugin.Str(row, 0),
			Table:  plugin.Str(row, 1),
			Event:  plugin.Str(row, 2),
			Timing: plugin.Str(row, 3),
		})
	}
	return out, nil
}

// ListSequences returns empty: MySQL has no sequences, only AUTO_INCREMENT.
func (p *Plugin) ListSequences(ctx context.Context, c conn.Connection, database, schema string) ([]core.SequenceInfo, error) {
	return nil, nil
}

func (p *Plugin) ListTableChecks(ctx context.Context, c conn.Connection, database, schema, table string) ([]core.CheckInfo, error) {
	sql := fmt.Sprintf(
		`SELECT cc.CONSTRAINT_NAME, cc.CHECK_CLAUSE
		 FROM INFORMATION_SCHEMA.CHECK_CONSTRAINTS cc
		 JOIN INFORMATION_SCHEMA.TABLE_CONSTRAINTS tc
		   ON cc.CONSTRAINT_SCHEMA = tc.CONSTRAINT_SCHEMA AND cc.CONSTRAINT_NAME = tc.CONSTRAINT_NAME
		 WHERE tc.TABLE_SCHEMA = %s AND tc.TABLE_NAME = %s
		 ORDER BY cc.CONSTRAINT_NAME`, p.QuoteLiteral(database), p.QuoteLiteral(table))
	rows, err := plugin.QueryRows(ctx, c, sql)
	if err != nil {
		return nil, err
	}
	out := make([]core.CheckInfo, 0, len(rows))
	for _, row := range rows {
		out = append(out, core.CheckInfo{
			Name:   plugin.Str(row, 0),
			Table:  table,
			Clause: plugin.Str(row, 1),
		})
	}
	return out, nil
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
		plugin.TableQuery{Table: p.QualifyTable(req.Database, req.Table)},
		columns, indexes)
}

func hasPrimaryKey(columns []core.ColumnInfo) bool {
	for _, col := range columns {
		if col.IsPrimaryKey {
			return true
		}
	}
	return false
}
