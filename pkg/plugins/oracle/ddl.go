package oracle

import (
	"fmt"
	"strings"

	"github.com/dbforge-labs/dbforge/pkg/core"
	"github.com/dbforge-labs/dbforge/pkg/plugin"
)

// Oracle has no CREATE DATABASE from a client session; a "database" here is
// a user with its own schema.

func (p *Plugin) BuildCreateDatabaseSQL(req core.CreateDatabaseRequest) (string, error) {
	if req.Name == "" {
		return "", core.DBErrorf(core.ConfigError, "user name is required")
	}
	user := p.QuoteIdentifier(req.Name)
	return fmt.Sprintf("CREATE USER %s IDENTIFIED BY %s;\nGRANT CONNECT, RESOURCE TO %s;",
		user, p.QuoteIdentifier("changeme"), user), nil
}

func (p *Plugin) BuildModifyDatabaseSQL(req core.ModifyDatabaseRequest) (string, error) {
	if req.Comment == "" {
		return plugin.NoChanges, nil
	}
	return fmt.Sprintf("ALTER USER %s DEFAULT TABLESPACE %s;",
		p.QuoteIdentifier(req.Name), req.Comment), nil
}

func (p *Plugin) BuildDropDatabaseSQL(name string) string {
	return "DROP USER " + p.QuoteIdentifier(name) + " CASCADE;"
}

func (p *Plugin) BuildCreateSchemaSQL(req core.CreateSchemaRequest) (string, error) {
	if req.Name == "" {
		return "", core.DBErrorf(core.ConfigError, "user name is required")
	}
	user := p.QuoteIdentifier(req.Name)
	return fmt.Sprintf("CREATE USER %s IDENTIFIED BY %s;\nGRANT CONNECT, RESOURCE TO %s;",
		user, p.QuoteIdentifier("changeme"), user), nil
}

func (p *Plugin) BuildDropSchemaSQL(name string) (string, error) {
	return "DROP USER " + p.QuoteIdentifier(name) + " CASCADE;", nil
}

func (p *Plugin) BuildDropTableSQL(schema, table string) string {
	return "DROP TABLE " + p.QualifyTable(schema, table) + ";"
}

func (p *Plugin) BuildTruncateTableSQL(schema, table string) string {
	return "TRUNCATE TABLE " + p.QualifyTable(schema, table) + ";"
}

func (p *Plugin) BuildRenameTableSQL(schema, oldName, newName string) (string, error) {
	return fmt.Sprintf("ALTER TABLE %s RENAME TO %s;",
		p.QualifyTable(schema, oldName), p.QuoteIdentifier(newName)), nil
}

func (p *Plugin) BuildDropViewSQL(schema, view string) string {
	return "DROP VIEW " + p.QualifyTable(schema, view) + ";"
}

func (p *Plugin) BuildColumnDef(col core.ColumnDefinition) string {
	var sb strings.Builder
	sb.WriteString(p.QuoteIdentifier(col.Name))
	sb.WriteByte(' ')
	sb.WriteString(plugin.TypeString(col))

	if col.IsAutoIncrement {
		sb.WriteString(" GENERATED BY DEFAULT AS IDENTITY")
	}
	if col.HasDefault && col.DefaultValue != "" {
		sb.WriteString(" DEFAULT " + col.DefaultValue)
	}
	if !col.Nullable {
		sb.WriteString(" NOT NULL")
	}
	return sb.String()
}

// BuildCreateTableSQL emits secondary indexes as trailing CREATE INDEX
// statements; Oracle has no inline INDEX clause.
func (p *Plugin) BuildCreateTableSQL(design core.TableDesign) (string, error) {
	return p.CreateTableSQL(design, p.BuildColumnDef, plugin.CreateHooks{
		Index: func(d core.TableDesign, idx core.IndexDefinition) string {
			return p.CreateIndexSQL(d.Name, idx)
		},
	})
}

// BuildAlterTableSQL uses MODIFY clauses; each changed aspect gets its own
// statement so a failure points at the offending change.
func (p *Plugin) BuildAlterTableSQL(original, updated core.TableDesign) (string, error) {
	return p.AlterTableSQL(original, updated, p.BuildColumnDef, plugin.AlterHooks{
		ModifyColumn: func(table string, orig, updated core.ColumnDefinition) []string {
			name := p.QuoteIdentifier(updated.Name)
			var statements []string

			if !strings.EqualFold(orig.DataType, updated.DataType) ||
				orig.Length != updated.Length || orig.Scale != updated.Scale {
				statements = append(statements, fmt.Sprintf(
					"ALTER TABLE %s MODIFY %s %s;", table, name, plugin.TypeString(updated)))
			}
			if orig.Nullable != updated.Nullable {
				null := "NOT NULL"
				if updated.Nullable {
					null = "NULL"
				}
				statements = append(statements, fmt.Sprintf(
					"ALTER TABLE %s MODIFY %s %s;", table, name, null))
			}
			if orig.DefaultValue != updated.DefaultValue || orig.HasDefault != updated.HasDefault {
				def := "NULL"
				if updated.HasDefault && updated.DefaultValue != "" {
					def = updated.DefaultValue
				}
				statements = append(statements, fmt.Sprintf(
					"ALTER TABLE %s MODIFY %s DEFAULT %s;", table, name, def))
			}
			return statements
		},
		AddColumn: func(table, def, suffix string) string {
			return fmt.Sprintf("ALTER TABLE %s ADD %s;", table, def)
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
