// Package postgres implements the PostgreSQL dialect plugin.
package postgres

import (
	"context"
	"fmt"
	"net/url"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the pgx database/sql driver

	"github.com/dbforge-labs/dbforge/pkg/conn"
	"github.com/dbforge-labs/dbforge/pkg/core"
	"github.com/dbforge-labs/dbforge/pkg/plugin"
)

func init() {
	plugin.Register(New())
}

// Plugin is the PostgreSQL dialect implementation. Stateless.
type Plugin struct {
	plugin.Base
}

func New() *Plugin {
	return &Plugin{Base: plugin.Base{
		QuoteStart: `"`,
		QuoteEnd:   `"`,
		SingleRow: func(table, predicate string) string {
			return fmt.Sprintf("ctid = (SELECT ctid FROM %s WHERE %s FETCH FIRST 1 ROWS ONLY)",
				table, predicate)
		},
	}}
}

func (p *Plugin) Type() core.DatabaseType { return core.PostgreSQL }

func (p *Plugin) SupportsSchemas() bool    { return true }
func (p *Plugin) SupportsSequences() bool  { return true }
func (p *Plugin) SupportsFunctions() bool  { return true }
func (p *Plugin) SupportsProcedures() bool { return true }

func (p *Plugin) DriverName() string { return "pgx" }

func (p *Plugin) DSN(cfg core.ConnConfig) (string, error) {
	if cfg.Host == "" {
		return "", core.DBErrorf(core.ConfigError, "postgres: host is required")
	}
	port := cfg.Port
	if port == 0 {
		port = 5432
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.Username, cfg.Password),
		Host:   fmt.Sprintf("%s:%d", cfg.Host, port),
		Path:   "/" + cfg.Database,
	}
	q := url.Values{}
	q.Set("sslmode", cfg.Param("ssl_mode", "prefer"))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// === Catalog ===

func (p *Plugin) ListDatabases(ctx context.Context, c conn.Connection) ([]string, error) {
	rows, err := plugin.QueryRows(ctx, c,
		"SELECT datname FROM pg_database WHERE datistemplate = false ORDER BY datname")
	if err != nil {
		return nil, err
	}
	return plugin.FirstColumn(rows), nil
}

func (p *Plugin) ListDatabasesDetailed(ctx context.Context, c conn.Connection) ([]core.DatabaseInfo, error) {
	rows, err := plugin.QueryRows(ctx, c,
		`SELECT d.datname,
		        pg_encoding_to_char(d.encoding),
		        d.datcollate,
		        pg_database_size(d.datname),
		        shobj_description(d.oid, 'pg_database')
		 FROM pg_database d
		 WHERE d.datistemplate = false
		 ORDER BY d.datname`)
	if err != nil {
		return nil, err
	}
	out := make([]core.DatabaseInfo, 0, len(rows))
	for _, row := range rows {
		out = append(out, core.DatabaseInfo{
			Name:      plugin.Str(row, 0),
			Charset:   plugin.Str(row, 1),
			Collation: plugin.Str(row, 2),
			SizeBytes: plugin.Int64(row, 3),
			Comment:   plugin.Str(row, 4),
		})
	}
	return out, nil
}

func (p *Plugin) ListSchemas(ctx context.Context, c conn.Connection, database string) ([]core.SchemaInfo, error) {
	rows, err := plugin.QueryRows(ctx, c,
		`SELECT schema_name, schema_owner FROM information_schema.schemata
		 WHERE schema_name NOT IN ('pg_catalog', 'information_schema', 'pg_toast')
		 ORDER BY schema_name`)
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
	sql := fmt.Sprintf(
		`SELECT t.tablename,
		        t.schemaname,
		        obj_description(format('%%s.%%s', t.schemaname, t.tablename)::regclass, 'pg_class'),
		        (SELECT reltuples::bigint FROM pg_class c
		         JOIN pg_namespace n ON c.relnamespace = n.oid
		         WHERE c.relname = t.tablename AND n.nspname = t.schemaname)
		 FROM pg_tables t
		 WHERE t.schemaname = %s
		 ORDER BY t.tablename`, p.QuoteLiteral(schemaOrPublic(schema)))
	rows, err := plugin.QueryRows(ctx, c, sql)
	if err != nil {
		return nil, err
	}
	out := make([]core.TableInfo, 0, len(rows))
	for _, row := range rows {
		out = append(out, core.TableInfo{
			Name:     plugin.Str(row, 0),
			Schema:   plugin.Str(row, 1),
			Comment:  plugin.Str(row, 2),
			RowCount: plugin.Int64(row, 3),
		})
	}
	return out, nil
}

func (p *Plugin) ListColumns(ctx context.Context, c conn.Connection, database, schema, table string) ([]core.ColumnInfo, error) {
	sql := fmt.Sprintf(
		`SELECT c.column_name,
		        c.data_type,
		        c.is_nullable,
		        c.column_default,
		        (SELECT COUNT(*) FROM information_schema.key_column_usage kcu
		         JOIN information_schema.table_constraints tc
		           ON kcu.constraint_name = tc.constraint_name
		          AND kcu.table_schema = tc.table_schema
		         WHERE tc.constraint_type = 'PRIMARY KEY'
		           AND kcu.table_schema = c.table_schema
		           AND kcu.table_name = c.table_name
		           AND kcu.column_name = c.column_name) > 0
		 FROM information_schema.columns c
		 WHERE c.table_schema = %s AND c.table_name = %s
		 ORDER BY c.ordinal_position`,
		p.QuoteLiteral(schemaOrPublic(schema)), p.QuoteLiteral(table))
	rows, err := plugin.QueryRows(ctx, c, sql)
	if err != nil {
		return nil, err
	}

	out := make([]core.ColumnInfo, 0, len(rows))
	for i, row := range rows {
		pk := plugin.Flag(row, 4, "true") || plugin.Flag(row, 4, "t")
		col := plugin.ColumnInfoFromRow(
			plugin.Str(row, 0), plugin.Str(row, 1),
			plugin.Flag(row, 2, "YES"), pk,
			plugin.Str(row, 3), "", i)
		out = append(out, col)
	}
	return out, nil
}

func (p *Plugin) ListIndexes(ctx context.Context, c conn.Connection, database, schema, table string) ([]core.IndexInfo, error) {
	sql := fmt.Sprintf(
		`SELECT i.relname,
		        a.attname,
		        ix.indisunique,
		        am.amname
		 FROM pg_class t
		 JOIN pg_index ix ON t.oid = ix.indrelid
		 JOIN pg_class i ON i.oid = ix.indexrelid
		 JOIN pg_am am ON i.relam = am.oid
		 JOIN pg_attribute a ON a.attrelid = t.oid AND a.attnum = ANY(ix.indkey)
		 WHERE t.relname = %s
		 ORDER BY i.relname, a.attnum`, p.QuoteLiteral(table))
	rows, err := plugin.QueryRows(ctx, c, sql)
	if err != nil {
		return nil, err
	}
	return plugin.GroupIndexRows(rows, func(row []*string) bool {
		return plugin.Flag(row, 2, "true") || plugin.Flag(row, 2, "t")
	}), nil
}

func (p *Plugin) ListViews(ctx context.Context, c conn.Connection, database, schema string) ([]core.ViewInfo, error) {
	sql := fmt.Sprintf(
		`SELECT table_name, table_schema, view_definition FROM information_schema.views
		 WHERE table_schema = %s ORDER BY table_name`, p.QuoteLiteral(schemaOrPublic(schema)))
	rows, err := plugin.QueryRows(ctx, c, sql)
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
	return p.listRoutines(ctx, c, schema, "FUNCTION")
}

func (p *Plugin) ListProcedures(ctx context.Context, c conn.Connection, database, schema string) ([]core.RoutineInfo, error) {
	return p.listRoutines(ctx, c, schema, "PROCEDURE")
}

func (p *Plugin) listRoutines(ctx context.Context, c conn.Connection, schema, kind string) ([]core.RoutineInfo, error) {
	sql := fmt.Sprintf(
		`SELECT routine_name, data_type, external_language FROM information_schema.routines
		 WHERE routine_schema = %s AND routine_type = '%s'
		 ORDER BY routine_name`, p.QuoteLiteral(schemaOrPublic(schema)), kind)
	rows, err := plugin.QueryRows(ctx, c, sql)
	if err != nil {
		return nil, err
	}
	out := make([]core.RoutineInfo, 0, len(rows))
	for _, row := range rows {
		out = append(out, core.RoutineInfo{
			Name:       plugin.Str(row, 0),
			ReturnType: plugin.Str(row, 1),
			Language:   plugin.Str(row, 2),
		})
	}
	return out, nil
}

func (p *Plugin) ListTriggers(ctx context.Context, c conn.Connection, database, schema string) ([]core.TriggerInfo, error) {
	sql := fmt.Sprintf(
		`SELECT trigger_name, event_object_table, event_manipulation, action_timing
		 FROM information_schema.triggers
		 WHERE trigger_schema = %s ORDER BY trigger_name`, p.QuoteLiteral(schemaOrPublic(schema)))
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

func (p *Plugin) ListSequences(ctx context.Context, c conn.Connection, database, schema string) ([]core.SequenceInfo, error) {
	sql := fmt.Sprintf(
		`SELECT sequence_name, start_value::bigint, increment::bigint, minimum_value::bigint, maximum_value::bigint
		 FROM information_schema.sequences
		 WHERE sequence_schema = %s ORDER BY sequence_name`, p.QuoteLiteral(schemaOrPublic(schema)))
	rows, err := plugin.QueryRows(ctx, c, sql)
	if err != nil {
		return nil, err
	}
	out := make([]core.SequenceInfo, 0, len(rows))
	for _, row := range rows {
		out = append(out, core.SequenceInfo{
			Name:      plugin.Str(row, 0),
			Schema:    schemaOrPublic(schema),
			StartWith: plugin.Int64(row, 1),
			Increment: plugin.Int64(row, 2),
			MinValue:  plugin.Int64(row, 3),
			MaxValue:  plugin.Int64(row, 4),
		})
	}
	return out, nil
}

func (p *Plugin) ListTableChecks(ctx context.Context, c conn.Connection, database, schema, table string) ([]core.CheckInfo, error) {
	sql := fmt.Sprintf(
		`SELECT con.conname, pg_get_constraintdef(con.oid)
		 FROM pg_constraint con
		 JOIN pg_class rel ON rel.oid = con.conrelid
		 WHERE con.contype = 'c' AND rel.relname = %s
		 ORDER BY con.conname`, p.QuoteLiteral(table))
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
		plugin.TableQuery{Table: p.QualifyTable(schemaOrPublic(req.Schema), req.Table)},
		columns, indexes)
}

func schemaOrPublic(schema string) string {
	if schema == "" {
		return "public"
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
