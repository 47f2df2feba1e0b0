package sqlite

import (
	"fmt"
	"strings"

	"github.com/dbforge-labs/dbforge/pkg/core"
	"github.com/dbforge-labs/dbforge/pkg/plugin"
)

// Suffix of the temporary table used by the recreate flow.
const tmpSuffix = "_dg_tmp"

// SQLite creates the database when the file is first opened, so the database
// level statements are informational comments rather than executable SQL.

func (p *Plugin) BuildCreateDatabaseSQL(req core.CreateDatabaseRequest) (string, error) {
	return "-- SQLite: database is created when opening a file", nil
}

func (p *Plugin) BuildModifyDatabaseSQL(req core.ModifyDatabaseRequest) (string, error) {
	return "-- SQLite: database modification not supported", nil
}

func (p *Plugin) BuildDropDatabaseSQL(name string) string {
	return "-- SQLite: delete the database file to drop the database"
}

func (p *Plugin) BuildCreateSchemaSQL(req core.CreateSchemaRequest) (string, error) {
	return "", core.DBErrorf(core.UnsupportedOperation, "sqlite does not support schemas")
}

func (p *Plugin) BuildDropSchemaSQL(name string) (string, error) {
	return "", core.DBErrorf(core.UnsupportedOperation, "sqlite does not support schemas")
}

func (p *Plugin) BuildDropTableSQL(schema, table string) string {
	return "DROP TABLE IF EXISTS " + p.QuoteIdentifier(table) + ";"
}

// BuildTruncateTableSQL deletes all rows; SQLite has no TRUNCATE statement.
func (p *Plugin) BuildTruncateTableSQL(schema, table string) string {
	return "DELETE FROM " + p.QuoteIdentifier(table) + ";"
}

func (p *Plugin) BuildRenameTableSQL(schema, oldName, newName string) (string, error) {
	return fmt.Sprintf("ALTER TABLE %s RENAME TO %s;",
		p.QuoteIdentifier(oldName), p.QuoteIdentifier(newName)), nil
}

func (p *Plugin) BuildDropViewSQL(schema, view string) string {
	return "DROP VIEW IF EXISTS " + p.QuoteIdentifier(view) + ";"
}

func (p *Plugin) BuildColumnDef(col core.ColumnDefinition) string {
	var sb strings.Builder
	sb.WriteString(p.QuoteIdentifier(col.Name))
	sb.WriteByte(' ')
	sb.WriteString(plugin.TypeString(col))

	if !col.Nullable {
		sb.WriteString(" NOT NULL")
	}
	if col.HasDefault && col.DefaultValue != "" {
		sb.WriteString(" DEFAULT " + col.DefaultValue)
	}
	return sb.String()
}

// BuildCreateTableSQL keeps a single-column primary key inline on its column
// definition; AUTOINCREMENT is only legal in that position. Secondary indexes
// become trailing CREATE INDEX statements.
func (p *Plugin) BuildCreateTableSQL(design core.TableDesign) (string, error) {
	pkCol, inlinePK := singleColumnPK(design)
	colDef := func(col core.ColumnDefinition) string {
		def := p.BuildColumnDef(col)
		if inlinePK && col.Name == pkCol {
			def += " PRIMARY KEY"
			if col.IsAutoIncrement {
				def += " AUTOINCREMENT"
			}
		}
		return def
	}
	return p.CreateTableSQL(design, colDef, plugin.CreateHooks{
		Index: func(d core.TableDesign, idx core.IndexDefinition) string {
			return p.createIndexSQL(d, idx, false)
		},
		PrimaryKey: func(_ core.TableDesign, pk []string) string {
			if inlinePK {
				return ""
			}
			return "PRIMARY KEY (" + strings.Join(p.QuoteAll(pk), ", ") + ")"
		},
	})
}

// singleColumnPK reports the primary key column when the design has exactly
// one.
func singleColumnPK(design core.TableDesign) (string, bool) {
	pk := design.PrimaryKeyColumns()
	if len(pk) != 1 {
		return "", false
	}
	return pk[0], true
}

// createIndexSQL renders one index statement. Unique indexes get a partial
// WHERE excluding NULLs for every nullable participating column, so NULL
// cells never collide under the uniqueness check.
func (p *Plugin) createIndexSQL(design core.TableDesign, idx core.IndexDefinition, lower bool) string {
	kw := func(s string) string {
		if lower {
			return strings.ToLower(s)
		}
		return s
	}

	nullable := make(map[string]bool, len(design.Columns))
	for _, col := range design.Columns {
		nullable[col.Name] = col.Nullable
	}

	var sb strings.Builder
	sb.WriteString(kw("CREATE "))
	if idx.IsUnique {
		sb.WriteString(kw("UNIQUE "))
	}
	sb.WriteString(kw("INDEX "))
	sb.WriteString(p.QuoteIdentifier(idx.Name))
	sb.WriteString(kw(" ON "))
	sb.WriteString(p.QuoteIdentifier(design.Name))
	sb.WriteString(" (" + strings.Join(p.QuoteAll(idx.Columns), ", ") + ")")

	if idx.IsUnique {
		var conds []string
		for _, col := range idx.Columns {
			if nullable[col] {
				conds = append(conds, p.QuoteIdentifier(col)+" "+kw("IS NOT NULL"))
			}
		}
		if len(conds) > 0 {
			sb.WriteString(kw(" WHERE ") + strings.Join(conds, kw(" AND ")))
		}
	}
	sb.WriteString(";")
	return sb.String()
}

// BuildAlterTableSQL handles additions and index changes in place. Anything
// SQLite's ALTER TABLE cannot express (modified columns, dropped columns,
// primary key changes) falls back to the recreate flow: build a temporary
// table with the new shape, copy the surviving columns over, drop the old
// table and rename the temporary one into place.
func (p *Plugin) BuildAlterTableSQL(original, updated core.TableDesign) (string, error) {
	if needsRecreate(original, updated) {
		return p.recreateTableSQL(original, updated)
	}
	return p.AlterTableSQL(original, updated, p.BuildColumnDef, plugin.AlterHooks{
		DropIndex: func(table, index string) string {
			return "DROP INDEX " + p.QuoteIdentifier(index) + ";"
		},
		AddIndex: func(_ string, idx core.IndexDefinition) string {
			return p.createIndexSQL(updated, idx, false)
		},
	})
}

func needsRecreate(original, updated core.TableDesign) bool {
	updatedCols := make(map[string]core.ColumnDefinition, len(updated.Columns))
	for _, col := range updated.Columns {
		updatedCols[col.Name] = col
	}
	for _, col := range original.Columns {
		after, kept := updatedCols[col.Name]
		if !kept {
			return true
		}
		if plugin.ColumnChanged(col, after) {
			return true
		}
	}
	pkBefore := strings.Join(original.PrimaryKeyColumns(), ",")
	pkAfter := strings.Join(updated.PrimaryKeyColumns(), ",")
	return pkBefore != pkAfter
}

// recreateTableSQL emits the four-step rebuild. Keywords are lowercase to
// match the generated-script convention for this flow.
func (p *Plugin) recreateTableSQL(original, updated core.TableDesign) (string, error) {
	if len(updated.Columns) == 0 {
		return "", core.DBErrorf(core.ConfigError, "table %q has no columns", updated.Name)
	}

	table := p.QuoteIdentifier(updated.Name)
	tmp := p.QuoteIdentifier(updated.Name + tmpSuffix)

	pkCol, inlinePK := singleColumnPK(updated)
	var defs []string
	for _, col := range updated.Columns {
		def := p.recreateColumnDef(col)
		if inlinePK && col.Name == pkCol {
			def += " primary key"
			if col.IsAutoIncrement {
				def += " autoincrement"
			}
		}
		defs = append(defs, "  "+def)
	}
	if pk := updated.PrimaryKeyColumns(); len(pk) > 0 && !inlinePK {
		defs = append(defs, "  primary key ("+strings.Join(p.QuoteAll(pk), ", ")+")")
	}

	originalCols := make(map[string]struct{}, len(original.Columns))
	for _, col := range original.Columns {
		originalCols[col.Name] = struct{}{}
	}
	var carried []string
	for _, col := range updated.Columns {
		if _, ok := originalCols[col.Name]; ok {
			carried = append(carried, p.QuoteIdentifier(col.Name))
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "create table %s\n(\n%s\n);\n\n", tmp, strings.Join(defs, ",\n"))
	if len(carried) > 0 {
		cols := strings.Join(carried, ", ")
		fmt.Fprintf(&sb, "insert into %s(%s)\nselect %s\nfrom %s;\n\n", tmp, cols, cols, table)
	}
	fmt.Fprintf(&sb, "drop table %s;\n\n", table)
	fmt.Fprintf(&sb, "alter table %s rename to %s;", tmp, table)

	for _, idx := range updated.Indexes {
		sb.WriteString("\n\n" + p.createIndexSQL(updated, idx, true))
	}
	return sb.String(), nil
}

func (p *Plugin) recreateColumnDef(col core.ColumnDefinition) string {
	var sb strings.Builder
	sb.WriteString(p.QuoteIdentifier(col.Name))
	sb.WriteByte(' ')
	sb.WriteString(plugin.TypeString(col))

	if !col.Nullable {
		sb.WriteString(" not null")
	}
	if col.HasDefault && col.DefaultValue != "" {
		sb.WriteString(" default " + col.DefaultValue)
	}
	return sb.String()
}
