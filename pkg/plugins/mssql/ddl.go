package mssql

import (
	"fmt"
	"strings"

	"github.com/dbforge-labs/dbforge/pkg/core"
	"github.com/dbforge-labs/dbforge/pkg/plugin"
)

func (p *Plugin) BuildCreateDatabaseSQL(req core.CreateDatabaseRequest) (string, error) {
	if req.Name == "" {
		return "", core.DBErrorf(core.ConfigError, "database name is required")
	}
	sql := "CREATE DATABASE " + p.QuoteIdentifier(req.Name)
	if req.Collation != "" {
		sql += " COLLATE " + req.Collation
	}
	return sql + ";", nil
}

func (p *Plugin) BuildModifyDatabaseSQL(req core.ModifyDatabaseRequest) (string, error) {
	if req.Collation == "" {
		return plugin.NoChanges, nil
	}
	return fmt.Sprintf("ALTER DATABASE %s COLLATE %s;",
		p.QuoteIdentifier(req.Name), req.Collation), nil
}

func (p *Plugin) BuildDropDatabaseSQL(name string) string {
	return "DROP DATABASE " + p.QuoteIdentifier(name) + ";"
}

func (p *Plugin) BuildCreateSchemaSQL(req core.CreateSchemaRequest) (string, error) {
	if req.Name == "" {
		return "", core.DBErrorf(core.ConfigError, "schema name is required")
	}
	sql := "CREATE SCHEMA " + p.QuoteIdentifier(req.Name)
	if req.Owner != "" {
		sql += " AUTHORIZATION " + p.QuoteIdentifier(req.Owner)
	}
	return sql + ";", nil
}

func (p *Plugin) BuildDropSchemaSQL(name string) (string, error) {
	return "DROP SCHEMA " + p.QuoteIdentifier(name) + ";", nil
}

func (p *Plugin) BuildDropTableSQL(schema, table string) string {
	return "DROP TABLE IF EXISTS " + p.QualifyTable(schemaOrDbo(schema), table) + ";"
}

func (p *Plugin) BuildTruncateTableSQL(schema, table string) string {
	return "TRUNCATE TABLE " + p.QualifyTable(schemaOrDbo(schema), table) + ";"
}

// BuildRenameTableSQL uses sp_rename. The procedure cannot move a table to a
// different schema, so a qualified new name is rejected.
func (p *Plugin) BuildRenameTableSQL(schema, oldName, newName string) (string, error) {
	if strings.Contains(newName, ".") {
		return "", core.DBErrorf(core.UnsupportedOperation,
			"sp_rename cannot move table %q across schemas", oldName)
	}
	return fmt.Sprintf("EXEC sp_rename %s, %s;",
		p.QuoteLiteral(schemaOrDbo(schema)+"."+oldName), p.QuoteLiteral(newName)), nil
}

func (p *Plugin) BuildDropViewSQL(schema, view string) string {
	return "DROP VIEW IF EXISTS " + p.QualifyTable(schemaOrDbo(schema), view) + ";"
}

func (p *Plugin) BuildColumnDef(col core.ColumnDefinition) string {
	var sb strings.Builder
	sb.WriteString(p.QuoteIdentifier(col.Name))
	sb.WriteByte(' ')
	sb.WriteString(plugin.TypeString(col))

	if col.IsAutoIncrement {
		sb.WriteString(" IDENTITY(1,1)")
	}
	if !col.Nullable {
		sb.WriteString(" NOT NULL")
	}
	if col.HasDefault && col.DefaultValue != "" {
		sb.WriteString(" DEFAULT " + col.DefaultValue)
	}
	return sb.String()
}

// BuildCreateTableSQL emits secondary indexes as trailing CREATE INDEX
// statements; T-SQL has no inline INDEX clause in CREATE TABLE.
func (p *Plugin) BuildCreateTableSQL(design core.TableDesign) (string, error) {
	return p.CreateTableSQL(design, p.BuildColumnDef, plugin.CreateHooks{
		Index: func(d core.TableDesign, idx core.IndexDefinition) string {
			return p.CreateIndexSQL(d.Name, idx)
		},
	})
}

func (p *Plugin) BuildAlterTableSQL(original, updated core.TableDesign) (string, error) {
	return p.AlterTableSQL(original, updated, p.BuildColumnDef, plugin.AlterHooks{
		ModifyColumn: func(table string, orig, updated core.ColumnDefinition) []string {
			var statements []string

			if !strings.EqualFold(orig.DataType, updated.DataType) ||
				orig.Length != updated.Length || orig.Scale != updated.Scale ||
				orig.Nullable != updated.Nullable {
				null := " NOT NULL"
				if updated.Nullable {
					null = " NULL"
				}
				statements = append(statements, fmt.Sprintf(
					"ALTER TABLE %s ALTER COLUMN %s %s%s;",
					table, p.QuoteIdentifier(updated.Name), plugin.TypeString(updated), null))
			}
			if orig.DefaultValue != updated.DefaultValue || orig.HasDefault != updated.HasDefault {
				constraint := p.QuoteIdentifier("DF_" + strings.Trim(table, "[]") + "_" + updated.Name)
				if orig.HasDefault {
					statements = append(statements, fmt.Sprintf(
						"ALTER TABLE %s DROP CONSTRAINT %s;", table, constraint))
				}
				if updated.HasDefault && updated.DefaultValue != "" {
					statements = append(statements, fmt.Sprintf(
						"ALTER TABLE %s ADD CONSTRAINT %s DEFAULT %s FOR %s;",
						table, constraint, updated.DefaultValue, p.QuoteIdentifier(updated.Name)))
				}
			}
			return statements
		},
		AddColumn: func(table, def, suffix string) string {
			return fmt.Sprintf("ALTER TABLE %s ADD %s;", table, def)
		},
		DropIndex: func(table, index string) string {
			return fmt.Sprintf("DROP INDEX %s ON %s;", p.QuoteIdentifier(index), table)
		},
		AddIndex: func(table string, idx core.IndexDefinition) string {
			unique := ""
			if idx.IsUnique {
				unique = "UNIQUE "
			}
			return fmt.Sprintf("CREATE %sINDEX %s ON %s (%s);",
				unique, p.QuoteIdentifier(idx.Name), table, strings.Join(p.QuoteAll(idx.Columns), ", "))
		},
	})
}
