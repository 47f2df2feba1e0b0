package mysql

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
		sql += " CHARACTER SET " + req.Charset
	}
	if req.Collation != "" {
		sql += " COLLATE " + req.Collation
	}
	return sql + ";", nil
}

func (p *Plugin) BuildModifyDatabaseSQL(req core.ModifyDatabaseRequest) (string, error) {
	var parts []string
	if req.Charset != "" {
		parts = append(parts, "CHARACTER SET "+req.Charset)
	}
	if req.Collation != "" {
		parts = append(parts, "COLLATE "+req.Collation)
	}
	if len(parts) == 0 {
		return plugin.NoChanges, nil
	}
	return fmt.Sprintf("ALTER DATABASE %s %s;", p.QuoteIdentifier(req.Name), strings.Join(parts, " ")), nil
}

func (p *Plugin) BuildDropDatabaseSQL(name string) string {
	return "DROP DATABASE IF EXISTS " + p.QuoteIdentifier(name) + ";"
}

func (p *Plugin) BuildCreateSchemaSQL(req core.CreateSchemaRequest) (string, error) {
	return "", core.DBErrorf(core.UnsupportedOperation, "mysql does not support schemas")
}

func (p *Plugin) BuildDropSchemaSQL(name string) (string, error) {
	return "", core.DBErrorf(core.UnsupportedOperation, "mysql does not support schemas")
}

func (p *Plugin) BuildDropTableSQL(schema, table string) string {
	return "DROP TABLE IF EXISTS " + p.QualifyTable(schema, table) + ";"
}

func (p *Plugin) BuildTruncateTableSQL(schema, table string) string {
	return "TRUNCATE TABLE " + p.QualifyTable(schema, table) + ";"
}

func (p *Plugin) BuildRenameTableSQL(schema, oldName, newName string) (string, error) {
	return fmt.Sprintf("RENAME TABLE %s TO %s;",
		p.QuoteIdentifier(oldName), p.QuoteIdentifier(newName)), nil
}

func (p *Plugin) BuildDropViewSQL(schema, view string) string {
	return "DROP VIEW IF EXISTS " + p.QuoteIdentifier(view) + ";"
}

// BuildColumnDef renders one column clause with the MySQL attribute order:
// type, UNSIGNED, NOT NULL, AUTO_INCREMENT, DEFAULT, COMMENT.
func (p *Plugin) BuildColumnDef(col core.ColumnDefinition) string {
	var sb strings.Builder
	sb.WriteString(p.QuoteIdentifier(col.Name))
	sb.WriteByte(' ')
	sb.WriteString(plugin.TypeString(col))

	if col.IsUnsigned {
		sb.WriteString(" UNSIGNED")
	}
	if !col.Nullable {
		sb.WriteString(" NOT NULL")
	}
	if col.IsAutoIncrement {
		sb.WriteString(" AUTO_INCREMENT")
	}
	if col.HasDefault && col.DefaultValue != "" {
		sb.WriteString(" DEFAULT " + col.DefaultValue)
	}
	if col.Comment != "" {
		sb.WriteString(" COMMENT " + p.QuoteLiteral(col.Comment))
	}
	return sb.String()
}

// BuildCreateTableSQL keeps secondary indexes inline; MySQL accepts INDEX
// clauses inside CREATE TABLE.
func (p *Plugin) BuildCreateTableSQL(design core.TableDesign) (string, error) {
	return p.CreateTableSQL(design, p.BuildColumnDef, plugin.CreateHooks{
		Suffix: tableOptionsSuffix(design.Options),
	})
}

func tableOptionsSuffix(opts core.TableOptions) string {
	var sb strings.Builder
	if opts.Engine != "" {
		sb.WriteString(" ENGINE=" + opts.Engine)
	}
	if opts.Charset != "" {
		sb.WriteString(" DEFAULT CHARSET=" + opts.Charset)
	}
	if opts.Collation != "" {
		sb.WriteString(" COLLATE=" + opts.Collation)
	}
	if opts.Comment != "" {
		sb.WriteString(" COMMENT='" + strings.ReplaceAll(opts.Comment, "'", "''") + "'")
	}
	return sb.String()
}

func (p *Plugin) BuildAlterTableSQL(original, updated core.TableDesign) (string, error) {
	return p.AlterTableSQL(original, updated, p.BuildColumnDef, plugin.AlterHooks{
		ModifyColumn: func(table string, _, updated core.ColumnDefinition) []string {
			return []string{fmt.Sprintf("ALTER TABLE %s MODIFY COLUMN %s;", table, p.BuildColumnDef(updated))}
		},
		AddColumnSuffix: func(design core.TableDesign, idx int) string {
			if idx == 0 {
				return " FIRST"
			}
			return " AFTER " + p.QuoteIdentifier(design.Columns[idx-1].Name)
		},
		DropIndex: func(table, index string) string {
			return fmt.Sprintf("ALTER TABLE %s DROP INDEX %s;", table, p.QuoteIdentifier(index))
		},
		AddIndex: func(table string, idx core.IndexDefinition) string {
			kind := "INDEX"
			if idx.IsUnique {
				kind = "UNIQUE INDEX"
			}
			return fmt.Sprintf("ALTER TABLE %s ADD %s %s (%s);",
				table, kind, p.QuoteIdentifier(idx.Name), strings.Join(p.QuoteAll(idx.Columns), ", "))
		},
		TableOptions: func(original, updated core.TableDesign) []string {
			var parts []string
			if updated.Options.Engine != "" && updated.Options.Engine != original.Options.Engine {
				parts = append(parts, "ENGINE="+updated.Options.Engine)
			}
			if updated.Options.Charset != "" && updated.Options.Charset != original.Options.Charset {
				parts = append(parts, "DEFAULT CHARSET="+updated.Options.Charset)
			}
			if updated.Options.Collation != "" && updated.Options.Collation != original.Options.Collation {
				parts = append(parts, "COLLATE="+updated.Options.Collation)
			}
			if updated.Options.Comment != "" && updated.Options.Comment != original.Options.Comment {
				parts = append(parts, "COMMENT='"+strings.ReplaceAll(updated.Options.Comment, "'", "''")+"'")
			}
			if len(parts) == 0 {
				return nil
			}
			return []string{fmt.Sprintf("ALTER TABLE %s %s;",
				p.QuoteIdentifier(updated.Name), strings.Join(parts, " "))}
		},
	})
}

// BuildTableChangeSQL qualifies the table with the database name; MySQL has
// no separate schema level.
func (p *Plugin) BuildTableChangeSQL(req core.TableSaveRequest) ([]string, error) {
	if req.Schema == "" {
		req.Schema = req.Database
	}
	return p.Base.BuildTableChangeSQL(req)
}
