// Package mssql implements the SQL Server dialect plugin. Catalog reads go
// through sys.* and INFORMATION_SCHEMA views qualified with the target
// database name.
package mssql

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/microsoft/go-mssqldb" // registers the sqlserver driver

	"github.com/dbforge-labs/dbforge/pkg/conn"
	"github.com/dbforge-labs/dbforge/pkg/core"
	"github.com/dbforge-labs/dbforge/pkg/plugin"
)

func init() {
	plugin.Register(New())
}

// Plugin is the SQL Server dialect implementation. Stateless.
type Plugin struct {
	plugin.Base
}

func New() *Plugin {
	return &Plugin{Base: plugin.Base{
		QuoteStart: "[",
		QuoteEnd:   "]",
		RowLimit:   "TOP (1) ",
	}}
}

func (p *Plugin) Type() core.DatabaseType { return core.MSSQL }

func (p *Plugin) SupportsSchemas() bool    { return true }
func (p *Plugin) SupportsSequences() bool  { return true }
func (p *Plugin) SupportsFunctions() bool  { return true }
func (p *Plugin) SupportsProcedures() bool { return true }

func (p *Plugin) DriverName() string { return "sqlserver" }

func (p *Plugin) DSN(cfg core.ConnConfig) (string, error) {
	if cfg.Host == "" {
		return "", core.DBErrorf(core.ConfigError, "sqlserver connection requires a host")
	}
	port := cfg.Port
	if port == 0 {
		port = 1433
	}

	u := url.URL{
		Scheme: "sqlserver",
		User:   url.UserPassword(cfg.Username, cfg.Password),
		Host:   fmt.Sprintf("%s:%d", cfg.Host, port),
	}
	q := u.Query()
	if cfg.Database != "" {
		q.Set("database", cfg.Database)
	}
	q.Set("encrypt", cfg.Param("encrypt", "disable"))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// === Catalog ===

func (p *Plugin) ListDatabases(ctx context.Context, c conn.Connection) ([]string, error) {
	rows, err := plugin.QueryRows(ctx, c,
		"SELECT name FROM sys.databases WHERE name NOT IN ('master', 'tempdb', 'model', 'msdb') ORDER BY name")
	if err != nil {
		return nil, err
	}
	return plugin.FirstColumn(rows), nil
}

func (p *Plugin) ListDatabasesDetailed(ctx context.Context, c conn.Connection) ([]core.DatabaseInfo, error) {
	rows, err := plugin.QueryRows(ctx, c, `
		SELECT d.name, d.collation_name
		FROM sys.databases d
		WHERE d.name NOT IN ('master', 'tempdb', 'model', 'msdb')
		ORDER BY d.name`)
	if err != nil {
		return nil, err
	}
	out := make([]core.DatabaseInfo, 0, len(rows))
	for _, row := range rows {
		out = append(out, core.DatabaseInfo{
			Name:      plugin.Str(row, 0),
			Collation: plugin.Str(row, 1),
		})
	}
	return out, nil
}

func (p *Plugin) ListSchemas(ctx context.Context, c conn.Connection, database string) ([]core.SchemaInfo, error) {
	rows, err := plugin.QueryRows(ctx, c, fmt.Sprintf(`
		SELECT s.name, USER_NAME(s.principal_id)
		FROM %s.sys.schemas s
		WHERE s.name NOT IN ('sys', 'INFORMATION_SCHEMA', 'guest')
			AND s.name NOT LIKE 'db[_]%%'
		ORDER BY s.name`, p.QuoteIdentifier(database)))
	if err != nil {
		return nil, err
	}
	out := make([]core.SchemaInfo, 0, len(rows))
	for _, row := range rows {
		out = append(out, core.SchemaInfo{Name: plugin.Str(row, 0), Owner: plugin.Str(row, 1)})
	}
	return out, nil
}

func (p *Plugin) ListTables(ctx context.Context, c conn.Connection, database, schema string) ([]core.TableInfo, error) {
	rows, err := plugin.QueryRows(ctx, c, fmt.Sprintf(`
		SELECT t.TABLE_NAME, t.TABLE_SCHEMA
		FROM %s.INFORMATION_SCHEMA.TABLES t
		WHERE t.TABLE_TYPE = 'BASE TABLE' AND t.TABLE_SCHEMA = %s
		ORDER BY t.TABLE_NAME`,
		p.QuoteIdentifier(database), p.QuoteLiteral(schemaOrDbo(schema))))
	if err != nil {
		return nil, err
	}
	out := make([]core.TableInfo, 0, len(rows))
	for _, row := range rows {
		out = append(out, core.TableInfo{
			Name:   plugin.Str(row, 0),
			Schema: plugin.Str(row, 1),
		})
	}
	return out, nil
}

func (p *Plugin) ListColumns(ctx context.Context, c conn.Connection, database, schema, table string) ([]core.ColumnInfo, error) {
	db := p.QuoteIdentifier(database)
	rows, err := plugin.QueryRows(ctx, c, fmt.Sprintf(`
		SELECT
			c.COLUMN_NAME,
			c.DATA_TYPE,
			c.IS_NULLABLE,
			c.COLUMN_DEFAULT,
			COLUMNPROPERTY(OBJECT_ID(%s), c.COLUMN_NAME, 'IsIdentity') AS is_identity,
			CASE WHEN pk.COLUMN_NAME IS NOT NULL THEN 1 ELSE 0 END AS is_primary_key
		FROM %s.INFORMATION_SCHEMA.COLUMNS c
		LEFT JOIN (
			SELECT ku.COLUMN_NAME
			FROM %s.INFORMATION_SCHEMA.TABLE_CONSTRAINTS tc
			JOIN %s.INFORMATION_SCHEMA.KEY_COLUMN_USAGE ku
				ON tc.CONSTRAINT_NAME = ku.CONSTRAINT_NAME
				AND tc.TABLE_SCHEMA = ku.TABLE_SCHEMA
			WHERE tc.CONSTRAINT_TYPE = 'PRIMARY KEY' AND tc.TABLE_NAME = %s
		) pk ON c.COLUMN_NAME = pk.COLUMN_NAME
		WHERE c.TABLE_NAME = %s AND c.TABLE_SCHEMA = %s
		ORDER BY c.ORDINAL_POSITION`,
		p.QuoteLiteral(p.QualifyTable(schemaOrDbo(schema), table)),
		db, db, db,
		p.QuoteLiteral(table), p.QuoteLiteral(table), p.QuoteLiteral(schemaOrDbo(schema))))
	if err != nil {
		return nil, err
	}

	out := make([]core.ColumnInfo, 0, len(rows))
	for i, row := range rows {
		col := plugin.ColumnInfoFromRow(
			plugin.Str(row, 0), plugin.Str(row, 1),
			plugin.Flag(row, 2, "YES"),
			plugin.Flag(row, 5, "1"),
			plugin.Str(row, 3), "", i)
		col.IsAutoIncrement = plugin.Flag(row, 4, "1")
		out = append(out, col)
	}
	return out, nil
}

func (p *Plugin) ListIndexes(ctx context.Context, c conn.Connection, database, schema, table string) ([]core.IndexInfo, error) {
	rows, err := plugin.QueryRows(ctx, c, fmt.Sprintf(`
		SELECT
			i.name AS index_name,
			COL_NAME(ic.object_id, ic.column_id) AS column_name,
			i.is_unique,
			i.type_desc
		FROM %s.sys.indexes i
		INNER JOIN %s.sys.index_columns ic
			ON i.object_id = ic.object_id AND i.index_id = ic.index_id
		WHERE i.object_id = OBJECT_ID(%s) AND i.type > 0
		ORDER BY i.name, ic.key_ordinal`,
		p.QuoteIdentifier(database), p.QuoteIdentifier(database),
		p.QuoteLiteral(p.QualifyTable(schemaOrDbo(schema), table))))
	if err != nil {
		return nil, err
	}
	indexes := plugin.GroupIndexRows(rows, func(row []*string) bool {
		v := plugin.Str(row, 2)
		return v == "1" || strings.EqualFold(v, "true")
	})
	for i := range indexes {
		if strings.HasPrefix(indexes[i].Name, "PK_") {
			indexes[i].IsPrimary = true
		}
	}
	return indexes, nil
}

func (p *Plugin) ListViews(ctx context.Context, c conn.Connection, database, schema string) ([]core.ViewInfo, error) {
	rows, err := plugin.QueryRows(ctx, c, fmt.Sprintf(`
		SELECT v.TABLE_NAME, v.TABLE_SCHEMA, v.VIEW_DEFINITION
		FROM %s.INFORMATION_SCHEMA.VIEWS v
		WHERE v.TABLE_SCHEMA = %s
		ORDER BY v.TABLE_NAME`,
		p.QuoteIdentifier(database), p.QuoteLiteral(schemaOrDbo(schema))))
	if err != nil {
		return nil, err
	}
	out := make([]core.ViewInfo, 0, len(rows))
	for _, row := range rows {
		out = append(out, core.ViewInfo{
			Name:       plugin.Str(row, 0),
			Schema:     plugin.Str(row, 1),
			Definition: plugin.Str(row, 2),
		})
	}
	return out, nil
}

func (p *Plugin) ListFunctions(ctx context.Context, c conn.Connection, database, schema string) ([]core.RoutineInfo, error) {
	return p.listRoutines(ctx, c, database, schema, "FUNCTION")
}

func (p *Plugin) ListProcedures(ctx context.Context, c conn.Connection, database, schema string) ([]core.RoutineInfo, error) {
	return p.listRoutines(ctx, c, database, schema, "PROCEDURE")
}

func (p *Plugin) listRoutines(ctx context.Context, c conn.Connection, database, schema, kind string) ([]core.RoutineInfo, error) {
	rows, err := plugin.QueryRows(ctx, c, fmt.Sprintf(`
		SELECT r.ROUTINE_NAME, r.ROUTINE_SCHEMA, r.DATA_TYPE
		FROM %s.INFORMATION_SCHEMA.ROUTINES r
		WHERE r.ROUTINE_TYPE = %s AND r.ROUTINE_SCHEMA = %s
		ORDER BY r.ROUTINE_NAME`,
		p.QuoteIdentifier(database), p.QuoteLiteral(kind), p.QuoteLiteral(schemaOrDbo(schema))))
	if err != nil {
		return nil, err
	}
	out := make([]core.RoutineInfo, 0, len(rows))
	for _, row := range rows {
		out = append(out, core.RoutineInfo{
			Name:       plugin.Str(row, 0),
			Schema:     plugin.Str(row, 1),
			Language:   "T-SQL",
			ReturnType: plugin.Str(row, 2),
		})
	}
	return out, nil
}

func (p *Plugin) ListTriggers(ctx context.Context, c conn.Connection, database, schema string) ([]core.TriggerInfo, error) {
	rows, err := plugin.QueryRows(ctx, c, fmt.Sprintf(`
		SELECT tr.name, OBJECT_NAME(tr.parent_id)
		FROM %s.sys.triggers tr
		WHERE tr.is_ms_shipped = 0
		ORDER BY tr.name`, p.QuoteIdentifier(database)))
	if err != nil {
		return nil, err
	}
	out := make([]core.TriggerInfo, 0, len(rows))
	for _, row := range rows {
		out = append(out, core.TriggerInfo{
			Name:  plugin.Str(row, 0),
			Table: plugin.Str(row, 1),
		})
	}
	return out, nil
}

func (p *Plugin) ListSequences(ctx context.Context, c conn.Connection, database, schema string) ([]core.SequenceInfo, error) {
	rows, err := plugin.QueryRows(ctx, c, fmt.Sprintf(`
		SELECT
			sq.name,
			SCHEMA_NAME(sq.schema_id),
			CAST(sq.start_value AS BIGINT),
			CAST(sq.increment AS BIGINT),
			CAST(sq.minimum_value AS BIGINT),
			CAST(sq.maximum_value AS BIGINT),
			CAST(sq.current_value AS BIGINT),
			sq.is_cycling
		FROM %s.sys.sequences sq
		ORDER BY sq.name`, p.QuoteIdentifier(database)))
	if err != nil {
		return nil, err
	}
	out := make([]core.SequenceInfo, 0, len(rows))
	for _, row := range rows {
		out = append(out, core.SequenceInfo{
			Name:      plugin.Str(row, 0),
			Schema:    plugin.Str(row, 1),
			StartWith: plugin.Int64(row, 2),
			Increment: plugin.Int64(row, 3),
			MinValue:  plugin.Int64(row, 4),
			MaxValue:  plugin.Int64(row, 5),
			LastValue: plugin.Int64(row, 6),
			Cycle:     plugin.Flag(row, 7, "1"),
		})
	}
	return out, nil
}

func (p *Plugin) ListTableChecks(ctx context.Context, c conn.Connection, database, schema, table string) ([]core.CheckInfo, error) {
	rows, err := plugin.QueryRows(ctx, c, fmt.Sprintf(`
		SELECT cc.name, cc.definition
		FROM %s.sys.check_constraints cc
		WHERE cc.parent_object_id = OBJECT_ID(%s)
		ORDER BY cc.name`,
		p.QuoteIdentifier(database),
		p.QuoteLiteral(p.QualifyTable(schemaOrDbo(schema), table))))
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
	return p.FetchTableData(ctx, c, req, plugin.TableQuery{
		Table: p.QualifyTable(schemaOrDbo(req.Schema), req.Table),
		Page:  offsetFetchPage,
	}, columns, indexes)
}

// offsetFetchPage appends T-SQL pagination. OFFSET requires an ORDER BY, so
// an arbitrary one is injected when the request has none.
func offsetFetchPage(sql string, page, size int) string {
	if size <= 0 {
		return sql
	}
	if !strings.Contains(strings.ToUpper(sql), "ORDER BY") {
		sql += " ORDER BY (SELECT NULL)"
	}
	offset := 0
	if page > 1 {
		offset = (page - 1) * size
	}
	return fmt.Sprintf("%s OFFSET %d ROWS FETCH NEXT %d ROWS ONLY", sql, offset, size)
}

// BuildTableChangeSQL defaults the schema to dbo.
func (p *Plugin) BuildTableChangeSQL(req core.TableSaveRequest) ([]string, error) {
	req.Schema = schemaOrDbo(req.Schema)
	return p.Base.BuildTableChangeSQL(req)
}

func schemaOrDbo(schema string) string {
	if schema == "" {
		return "dbo"
	}
	return schema
}

func hasPrimaryKey(columns []core.ColumnInfo) bool {
	for _, col := range columns {
		if col.IsPrimaryKey {
			return true
		}
	}
	return false
}
