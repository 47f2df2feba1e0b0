package postgres

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
	if req.Charset != "" {
		sql += " ENCODING " + p.QuoteLiteral(req.Charset)
	}
	return sql + ";", nil
}

// BuildModifyDatabaseSQL only supports comments; encoding cannot change
// after creation.
func (p *Plugin) BuildModifyDatabaseSQL(req core.ModifyDatabaseRequest) (string, error) {
	if req.Comment == "" {
		return plugin.NoChanges, nil
	}
	return fmt.Sprintf("COMMENT ON DATABASE %s IS %s;",
		p.QuoteIdentifier(req.Name), p.QuoteLiteral(req.Comment)), nil
}

func (p *Plugin) BuildDropDatabaseSQL(name string) string {
	return "DROP DATABASE IF EXISTS " + p.QuoteIdentifier(name) + ";"
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
	return "DROP SCHEMA " + p.QuoteIdentifier(name) + " CASCADE;", nil
}

func (p *Plugin) BuildDropTableSQL(schema, table string) string {
	return "DROP TABLE IF EXISTS " + p.QualifyTable(schema, table) + ";"
}

func (p *Plugin) BuildTruncateTableSQL(schema, table string) string {
	return "TRUNCATE TABLE " + p.QualifyTable(schema, table) + ";"
}

func (p *Plugin) BuildRenameTableSQL(schema, oldName, newName string) (string, error) {
	return fmt.Sprintf("ALTER TABLE %s RENAME TO %s;",
		p.QualifyTable(schema, oldName), p.QuoteIdentifier(newName)), nil
}

func (p *Plugin) BuildDropViewSQL(schema, view string) string {
	return "DROP VIEW IF EXISTS " + p.QualifyTable(schema, view) + ";"
}

func (p *Plugin) BuildColumnDef(col core.ColumnDefinition) string {
	var sb strings.Builder
	sb.WriteString(p.QuoteIdentifier(col.Name))
	sb.WriteByte(' ')
	sb.WriteString(typeOrSerial(col))

	if !col.Nullable {
		sb.WriteString(" NOT NULL")
	}
	if col.HasDefault && col.DefaultValue != "" {
		sb.WriteString(" DEFAULT " + col.DefaultValue)
	}
	return sb.String()
}

// typeOrSerial maps auto-increment integer columns onto the serial
// pseudo-types.
func typeOrSerial(col core.ColumnDefinition) string {
	if col.IsAutoIncrement {
		switch strings.ToUpper(col.DataType) {
		case "SMALLINT":
			return "SMALLSERIAL"
		case "BIGINT":
			return "BIGSERIAL"
		case "INT", "INTEGER":
			return "SERIAL"
		}
	}
	return plugin.TypeString(col)
}

// BuildCreateTableSQL emits secondary indexes as trailing CREATE INDEX
// statements; PostgreSQL has no inline INDEX clause.
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
			name := p.QuoteIdentifier(updated.Name)
			var statements []string

			if !strings.EqualFold(orig.DataType, updated.DataType) ||
				orig.Length != updated.Length || orig.Scale != updated.Scale {
				statements = append(statements, fmt.Sprintf(
					"ALTER TABLE %s ALTER COLUMN %s TYPE %s;",
					table, name, plugin.TypeString(updated)))
			}
			if orig.Nullable != updated.Nullable {
				action := "SET NOT NULL"
				if updated.Nullable {
					action = "DROP NOT NULL"
				}
				statements = append(statements, fmt.Sprintf(
					"ALTER TABLE %s ALTER COLUMN %s %s;", table, name, action))
			}
			if orig.DefaultValue != updated.DefaultValue || orig.HasDefault != updated.HasDefault {
				if updated.HasDefault && updated.DefaultValue != "" {
					statements = append(statements, fmt.Sprintf(
						"ALTER TABLE %s ALTER COLUMN %s SET DEFAULT %s;",
						table, name, updated.DefaultValue))
				} else {
					statements = append(statements, fmt.Sprintf(
						"ALTER TABLE %s ALTER COLUMN %s DROP DEFAULT;", table, name))
				}
			}
			return statements
		},
		DropIndex: func(table, index string) string {
			return "DROP INDEX " + p.QuoteIdentifier(index) + ";"
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

// BuildTableChangeSQL defaults the schema to public.
func (p *Plugin) BuildTableChangeSQL(req core.TableSaveRequest) ([]string, error) {
	req.Schema = schemaOrPublic(req.Schema)
	return p.Base.BuildTableChangeSQL(req)
}
