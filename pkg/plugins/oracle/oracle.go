// Package oracle implements the Oracle dialect plugin. Schemas map to users;
// catalog reads go through the all_* dictionary views.
package oracle

import (
	"context"
	"fmt"
	"net/url"

	_ "github.com/sijms/go-ora/v2" // registers the oracle driver

	"github.com/dbforge-labs/dbforge/pkg/conn"
	"github.com/dbforge-labs/dbforge/pkg/core"
	"github.com/dbforge-labs/dbforge/pkg/plugin"
)

func init() {
	plugin.Register(New())
}

// Plugin is the Oracle dialect implementation. Stateless.
type Plugin struct {
	plugin.Base
}

func New() *Plugin {
	return &Plugin{Base: plugin.Base{
		QuoteStart: `"`,
		QuoteEnd:   `"`,
		SingleRow: func(_, predicate string) string {
			return "(" + predicate + ") AND ROWNUM <= 1"
		},
	}}
}

func (p *Plugin) Type() core.DatabaseType { return core.Oracle }

func (p *Plugin) SupportsSchemas() bool    { return true }
func (p *Plugin) SupportsSequences() bool  { return true }
func (p *Plugin) SupportsFunctions() bool  { return true }
func (p *Plugin) SupportsProcedures() bool { return true }

func (p *Plugin) DriverName() string { return "oracle" }

func (p *Plugin) DSN(cfg core.ConnConfig) (string, error) {
	if cfg.Host == "" {
		return "", core.DBErrorf(core.ConfigError, "oracle connection requires a host")
	}
	port := cfg.Port
	if port == 0 {
		port = 1521
	}
	service := cfg.Database
	if service == "" {
		service = cfg.Param("service_name", "XEPDB1")
	}

	u := url.URL{
		Scheme: "oracle",
		User:   url.UserPassword(cfg.Username, cfg.Password),
		Host:   fmt.Sprintf("%s:%d", cfg.Host, port),
		Path:   "/" + service,
	}
	return u.String(), nil
}

// === Catalog ===

// ListDatabases returns non-maintained users; Oracle schemas and users are
// the same namespace.
func (p *Plugin) ListDatabases(ctx context.Context, c conn.Connection) ([]string, error) {
	rows, err := plugin.QueryRows(ctx, c,
		"SELECT username FROM all_users WHERE oracle_maintained = 'N' ORDER BY username")
	if err != nil {
		return nil, err
	}
	return plugin.FirstColumn(rows), nil
}

func (p *Plugin) ListDatabasesDetailed(ctx context.Context, c conn.Connection) ([]core.DatabaseInfo, error) {
	rows, err := plugin.QueryRows(ctx, c, `
		SELECT u.username, u.default_tablespace
		FROM all_users u
		WHERE u.oracle_maintained = 'N'
		ORDER BY u.username`)
	if err != nil {
		return nil, err
	}
	out := make([]core.DatabaseInfo, 0, len(rows))
	for _, row := range rows {
		out = append(out, core.DatabaseInfo{
			Name:    plugin.Str(row, 0),
			Comment: plugin.Str(row, 1),
		})
	}
	return out, nil
}

func (p *Plugin) ListSchemas(ctx context.Context, c conn.Connection, database string) ([]core.SchemaInfo, error) {
	rows, err := plugin.QueryRows(ctx, c,
		"SELECT username FROM all_users WHERE oracle_maintained = 'N' ORDER BY username")
	if err != nil {
		return nil, err
	}
	out := make([]core.SchemaInfo, 0, len(rows))
	for _, name := range plugin.FirstColumn(rows) {
		out = append(out, core.SchemaInfo{Name: name, Owner: name})
	}
	return out, nil
}

func (p *Plugin) ListTables(ctx context.Context, c conn.Connection, database, schema string) ([]core.TableInfo, error) {
	rows, err := plugin.QueryRows(ctx, c, fmt.Sprintf(`
		SELECT t.table_name, t.num_rows, c.comments
		FROM all_tables t
		LEFT JOIN all_tab_comments c ON t.owner = c.owner AND t.table_name = c.table_name
		WHERE t.owner = %s
		ORDER BY t.table_name`, p.QuoteLiteral(ownerOf(schema, database))))
	if err != nil {
		return nil, err
	}
	out := make([]core.TableInfo, 0, len(rows))
	for _, row := range rows {
		out = append(out, core.TableInfo{
			Name:     plugin.Str(row, 0),
			Schema:   ownerOf(schema, database),
			RowCount: plugin.Int64(row, 1),
			Comment:  plugin.Str(row, 2),
		})
	}
	return out, nil
}

// ListColumns renders the type with its length or precision inline, the way
// the dictionary exposes it.
func (p *Plugin) ListColumns(ctx context.Context, c conn.Connection, database, schema, table string) ([]core.ColumnInfo, error) {
	rows, err := plugin.QueryRows(ctx, c, fmt.Sprintf(`
		SELECT
			c.column_name,
			c.data_type ||
				CASE
					WHEN c.data_type IN ('VARCHAR2', 'NVARCHAR2', 'CHAR', 'NCHAR', 'RAW') THEN '(' || c.data_length || ')'
					WHEN c.data_type = 'NUMBER' AND c.data_precision IS NOT NULL THEN '(' || c.data_precision || ',' || NVL(c.data_scale, 0) || ')'
					ELSE ''
				END AS data_type,
			c.nullable,
			c.data_default,
			(SELECT CASE WHEN COUNT(*) > 0 THEN 'Y' ELSE 'N' END
			 FROM all_cons_columns cc
			 JOIN all_constraints con ON cc.constraint_name = con.constraint_name AND cc.owner = con.owner
			 WHERE cc.owner = c.owner AND cc.table_name = c.table_name AND cc.column_name = c.column_name
			   AND con.constraint_type = 'P') AS is_pk,
			cm.comments
		FROM all_tab_columns c
		LEFT JOIN all_col_comments cm ON c.owner = cm.owner AND c.table_name = cm.table_name AND c.column_name = cm.column_name
		WHERE c.owner = %s AND c.table_name = %s
		ORDER BY c.column_id`,
		p.QuoteLiteral(ownerOf(schema, database)), p.QuoteLiteral(table)))
	if err != nil {
		return nil, err
	}

	out := make([]core.ColumnInfo, 0, len(rows))
	for i, row := range rows {
		out = append(out, plugin.ColumnInfoFromRow(
			plugin.Str(row, 0), plugin.Str(row, 1),
			plugin.Flag(row, 2, "Y"),
			plugin.Flag(row, 4, "Y"),
			plugin.Str(row, 3), plugin.Str(row, 5), i))
	}
	return out, nil
}

func (p *Plugin) ListIndexes(ctx context.Context, c conn.Connection, database, schema, table string) ([]core.IndexInfo, error) {
	rows, err := plugin.QueryRows(ctx, c, fmt.Sprintf(`
		SELECT i.index_name, ic.column_name, i.uniqueness, i.index_type
		FROM all_indexes i
		JOIN all_ind_columns ic ON i.owner = ic.index_owner AND i.index_name = ic.index_name
		WHERE i.owner = %s AND i.table_name = %s
		ORDER BY i.index_name, ic.column_position`,
		p.QuoteLiteral(ownerOf(schema, database)), p.QuoteLiteral(table)))
	if err != nil {
		return nil, err
	}
	return plugin.GroupIndexRows(rows, func(row []*string) bool { return plugin.Str(row, 2) == "UNIQUE" }), nil
}

func (p *Plugin) ListViews(ctx context.Context, c conn.Connection, database, schema string) ([]core.ViewInfo, error) {
	rows, err := plugin.QueryRows(ctx, c, fmt.Sprintf(`
		SELECT v.view_name, c.comments
		FROM all_views v
		LEFT JOIN all_tab_comments c ON v.owner = c.owner AND v.view_name = c.table_name
		WHERE v.owner = %s
		ORDER BY v.view_name`, p.QuoteLiteral(ownerOf(schema, database))))
	if err != nil {
		return nil, err
	}
	out := make([]core.ViewInfo, 0, len(rows))
	for _, row := range rows {
		out = append(out, core.ViewInfo{
			Name:    plugin.Str(row, 0),
			Schema:  ownerOf(schema, database),
			Comment: plugin.Str(row, 1),
		})
	}
	return out, nil
}

func (p *Plugin) ListFunctions(ctx context.Context, c conn.Connection, database, schema string) ([]core.RoutineInfo, error) {
	return p.listObjects(ctx, c, ownerOf(schema, database), "FUNCTION")
}

func (p *Plugin) ListProcedures(ctx context.Context, c conn.Connection, database, schema string) ([]core.RoutineInfo, error) {
	return p.listObjects(ctx, c, ownerOf(schema, database), "PROCEDURE")
}

func (p *Plugin) listObjects(ctx context.Context, c conn.Connection, owner, kind string) ([]core.RoutineInfo, error) {
	rows, err := plugin.QueryRows(ctx, c, fmt.Sprintf(`
		SELECT object_name
		FROM all_objects
		WHERE owner = %s AND object_type = %s
		ORDER BY object_name`, p.QuoteLiteral(owner), p.QuoteLiteral(kind)))
	if err != nil {
		return nil, err
	}
	out := make([]core.RoutineInfo, 0, len(rows))
	for _, name := range plugin.FirstColumn(rows) {
		out = append(out, core.RoutineInfo{Name: name, Schema: owner, Language: "PL/SQL"})
	}
	return out, nil
}

func (p *Plugin) ListTriggers(ctx context.Context, c conn.Connection, database, schema string) ([]core.TriggerInfo, error) {
	rows, err := plugin.QueryRows(ctx, c, fmt.Sprintf(`
		SELECT trigger_name, table_name, trigger_type, triggering_event
		FROM all_triggers
		WHERE owner = %s
		ORDER BY trigger_name`, p.QuoteLiteral(ownerOf(schema, database))))
	if err != nil {
		return nil, err
	}
	out := make([]core.TriggerInfo, 0, len(rows))
	for _, row := range rows {
		out = append(out, core.TriggerInfo{
			Name:   plugin.Str(row, 0),
			Table:  plugin.Str(row, 1),
			Timing: plugin.Str(row, 2),
			Event:  plugin.Str(row, 3),
		})
	}
	return out, nil
}

func (p *Plugin) ListSequences(ctx context.Context, c conn.Connection, database, schema string) ([]core.SequenceInfo, error) {
	rows, err := plugin.QueryRows(ctx, c, fmt.Sprintf(`
		SELECT sequence_name, min_value, max_value, increment_by, last_number, cycle_flag
		FROM all_sequences
		WHERE sequence_owner = %s
		ORDER BY sequence_name`, p.QuoteLiteral(ownerOf(schema, database))))
	if err != nil {
		return nil, err
	}
	out := make([]core.SequenceInfo, 0, len(rows))
	for _, row := range rows {
		out = append(out, core.SequenceInfo{
			Name:      plugin.Str(row, 0),
			Schema:    ownerOf(schema, database),
			MinValue:  plugin.Int64(row, 1),
			MaxValue:  plugin.Int64(row, 2),
			Increment: plugin.Int64(row, 3),
			LastValue: plugin.Int64(row, 4),
			Cycle:     plugin.Flag(row, 5, "Y"),
		})
	}
	return out, nil
}

func (p *Plugin) ListTableChecks(ctx context.Context, c conn.Connection, database, schema, table string) ([]core.CheckInfo, error) {
	rows, err := plugin.QueryRows(ctx, c, fmt.Sprintf(`
		SELECT constraint_name, search_condition
		FROM all_constraints
		WHERE owner = %s AND table_name = %s AND constraint_type = 'C'
		ORDER BY constraint_name`,
		p.QuoteLiteral(ownerOf(schema, database)), p.QuoteLiteral(table)))
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
		Table: p.QualifyTable(ownerOf(req.Schema, req.Database), req.Table),
		Page:  offsetFetchPage,
	}, columns, indexes)
}

// offsetFetchPage appends row-limiting syntax for Oracle 12c and later.
func offsetFetchPage(sql string, page, size int) string {
	if size <= 0 {
		return sql
	}
	offset := 0
	if page > 1 {
		offset = (page - 1) * size
	}
	return fmt.Sprintf("%s OFFSET %d ROWS FETCH NEXT %d ROWS ONLY", sql, offset, size)
}

func (p *Plugin) BuildTableChangeSQL(req core.TableSaveRequest) ([]string, error) {
	req.Schema = ownerOf(req.Schema, req.Database)
	return p.Base.BuildTableChangeSQL(req)
}

// ownerOf resolves the effective owner: the schema when given, otherwise the
// selected "database" (an Oracle user).
func ownerOf(schema, database string) string {
	if schema != "" {
		return schema
	}
	return database
}

func hasPrimaryKey(columns []core.ColumnInfo) bool {
	for _, col := range columns {
		if col.IsPrimaryKey {
			return true
		}
	}
	return false
}
