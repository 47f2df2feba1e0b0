// Package plugin defines the dialect plugin contract and its registry.
//
// A Plugin is the single point of dialect awareness in the system: identifier
// quoting, catalog queries, DDL generation, data paging, and the completion
// vocabulary all live behind it. Plugins are stateless; concrete
// implementations are in pkg/plugins/ subdirectories and register themselves
// in their init() functions.
package plugin

import (
	"context"

	"github.com/dbforge-labs/dbforge/pkg/conn"
	"github.com/dbforge-labs/dbforge/pkg/core"
	"github.com/dbforge-labs/dbforge/pkg/sqlintel"
)

// Plugin is the uniform per-engine contract. Catalog operations that do not
// apply to a dialect return empty results rather than errors; only calls that
// are semantically meaningless (e.g. renaming across MSSQL schemas) fail with
// core.UnsupportedOperation.
type Plugin interface {
	// Type is the registry key.
	Type() core.DatabaseType

	// Capabilities.
	SupportsSchemas() bool
	SupportsSequences() bool
	SupportsFunctions() bool
	SupportsProcedures() bool

	// Driver identity for opening sessions.
	DriverName() string
	// DSN renders a driver connection string from a config.
	DSN(cfg core.ConnConfig) (string, error)

	// Quoting. QuoteIdentifier doubles the closing quote character inside
	// the name; QuoteLiteral doubles single quotes.
	QuoteIdentifier(name string) string
	QuoteLiteral(value string) string

	// Catalog reads.
	ListDatabases(ctx context.Context, c conn.Connection) ([]string, error)
	ListDatabasesDetailed(ctx context.Context, c conn.Connection) ([]core.DatabaseInfo, error)
	ListSchemas(ctx context.Context, c conn.Connection, database string) ([]core.SchemaInfo, error)
	ListTables(ctx context.Context, c conn.Connection, database, schema string) ([]core.TableInfo, error)
	ListColumns(ctx context.Context, c conn.Connection, database, schema, table string) ([]core.ColumnInfo, error)
	ListIndexes(ctx context.Context, c conn.Connection, database, schema, table string) ([]core.IndexInfo, error)
	ListViews(ctx context.Context, c conn.Connection, database, schema string) ([]core.ViewInfo, error)
	ListFunctions(ctx context.Context, c conn.Connection, database, schema string) ([]core.RoutineInfo, error)
	ListProcedures(ctx context.Context, c conn.Connection, database, schema string) ([]core.RoutineInfo, error)
	ListTriggers(ctx context.Context, c conn.Connection, database, schema string) ([]core.TriggerInfo, error)
	ListSequences(ctx context.Context, c conn.Connection, database, schema string) ([]core.SequenceInfo, error)
	ListTableChecks(ctx context.Context, c conn.Connection, database, schema, table string) ([]core.CheckInfo, error)

	// DDL builders. Pure; the returned SQL is self-contained and quoted with
	// this dialect's rules.
	BuildCreateDatabaseSQL(req core.CreateDatabaseRequest) (string, error)
	BuildModifyDatabaseSQL(req core.ModifyDatabaseRequest) (string, error)
	BuildDropDatabaseSQL(name string) string
	BuildCreateSchemaSQL(req core.CreateSchemaRequest) (string, error)
	BuildDropSchemaSQL(name string) (string, error)
	BuildDropTableSQL(schema, table string) string
	BuildTruncateTableSQL(schema, table string) string
	BuildRenameTableSQL(schema, oldName, newName string) (string, error)
	BuildDropViewSQL(schema, view string) string
	BuildColumnDef(col core.ColumnDefinition) string
	BuildCreateTableSQL(design core.TableDesign) (string, error)
	BuildAlterTableSQL(original, updated core.TableDesign) (string, error)

	// Dialect vocabulary.
	DataTypes() []core.DataTypeInfo
	Charsets() []core.CharsetInfo
	Collations(charset string) []core.CollationInfo
	CompletionInfo() *sqlintel.CompletionInfo

	// Data reads and grid edits.
	QueryTableData(ctx context.Context, c conn.Connection, req core.TableDataRequest) (*core.TableDataResponse, error)
	BuildTableChangeSQL(req core.TableSaveRequest) ([]string, error)
}
