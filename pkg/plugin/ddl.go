package plugin

import (
	"fmt"
	"strings"

	"github.com/dbforge-labs/dbforge/pkg/core"
)

// ColumnDefFunc renders one column clause in a dialect's syntax.
type ColumnDefFunc func(core.ColumnDefinition) string

// TypeString renders the column type with its length/scale suffix,
// e.g. VARCHAR(100) or DECIMAL(10,2).
func TypeString(col core.ColumnDefinition) string {
	if col.Length > 0 {
		if col.Scale > 0 {
			return fmt.Sprintf("%s(%d,%d)", col.DataType, col.Length, col.Scale)
		}
		return fmt.Sprintf("%s(%d)", col.DataType, col.Length)
	}
	return col.DataType
}

// ColumnChanged reports whether two definitions of the same column differ in
// a way that requires DDL.
func ColumnChanged(original, updated core.ColumnDefinition) bool {
	return !strings.EqualFold(original.DataType, updated.DataType) ||
		original.Length != updated.Length ||
		original.Precision != updated.Precision ||
		original.Scale != updated.Scale ||
		original.Nullable != updated.Nullable ||
		original.IsAutoIncrement != updated.IsAutoIncrement ||
		original.IsUnsigned != updated.IsUnsigned ||
		original.DefaultValue != updated.DefaultValue ||
		original.HasDefault != updated.HasDefault ||
		original.Comment != updated.Comment ||
		original.Charset != updated.Charset ||
		original.Collation != updated.Collation
}

// NoChanges is returned by ALTER builders when the two designs are identical.
const NoChanges = "-- No changes detected"

// IndexFunc renders one standalone secondary index statement.
type IndexFunc func(design core.TableDesign, idx core.IndexDefinition) string

// CreateHooks are the dialect-specific pieces of the shared CREATE TABLE.
type CreateHooks struct {
	// Suffix is appended after the closing parenthesis (MySQL table options).
	Suffix string
	// Index renders one standalone index statement appended after the table.
	// Nil emits inline INDEX clauses, which only MySQL accepts.
	Index IndexFunc
	// PrimaryKey renders the table-level primary key clause for the named
	// columns. Nil uses PRIMARY KEY (cols); returning "" omits the clause.
	PrimaryKey func(design core.TableDesign, pk []string) string
}

// CreateTableSQL renders the shared CREATE TABLE shape: column definitions,
// a table-level PRIMARY KEY when any column is marked primary, secondary
// indexes either inline or as trailing CREATE INDEX statements, and a
// dialect suffix before the terminator.
func (b Base) CreateTableSQL(design core.TableDesign, colDef ColumnDefFunc, hooks CreateHooks) (string, error) {
	if design.Name == "" {
		return "", core.DBErrorf(core.ConfigError, "table design has no name")
	}
	if len(design.Columns) == 0 {
		return "", core.DBErrorf(core.ConfigError, "table %q has no columns", design.Name)
	}

	var sb strings.Builder
	sb.WriteString("CREATE TABLE ")
	sb.WriteString(b.QuoteIdentifier(design.Name))
	sb.WriteString(" (\n")

	var defs []string
	for _, col := range design.Columns {
		defs = append(defs, "  "+colDef(col))
	}

	if pk := design.PrimaryKeyColumns(); len(pk) > 0 {
		clause := fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(b.QuoteAll(pk), ", "))
		if hooks.PrimaryKey != nil {
			clause = hooks.PrimaryKey(design, pk)
		}
		if clause != "" {
			defs = append(defs, "  "+clause)
		}
	}

	if hooks.Index == nil {
		for _, idx := range design.Indexes {
			kind := "INDEX"
			if idx.IsUnique {
				kind = "UNIQUE INDEX"
			}
			defs = append(defs, fmt.Sprintf("  %s %s (%s)",
				kind, b.QuoteIdentifier(idx.Name), strings.Join(b.QuoteAll(idx.Columns), ", ")))
		}
	}

	sb.WriteString(strings.Join(defs, ",\n"))
	sb.WriteString("\n)")
	sb.WriteString(hooks.Suffix)
	sb.WriteString(";")

	if hooks.Index != nil {
		for _, idx := range design.Indexes {
			sb.WriteString("\n")
			sb.WriteString(hooks.Index(design, idx))
		}
	}
	return sb.String(), nil
}

// CreateIndexSQL renders a standalone CREATE INDEX statement.
func (b Base) CreateIndexSQL(table string, idx core.IndexDefinition) string {
	unique := ""
	if idx.IsUnique {
		unique = "UNIQUE "
	}
	return fmt.Sprintf("CREATE %sINDEX %s ON %s (%s);",
		unique, b.QuoteIdentifier(idx.Name), b.QuoteIdentifier(table),
		strings.Join(b.QuoteAll(idx.Columns), ", "))
}

// AlterHooks are the dialect-specific pieces of the shared ALTER diff.
// A nil hook skips that class of change.
type AlterHooks struct {
	// ModifyColumn renders the statements that change an existing column.
	ModifyColumn func(table string, original, updated core.ColumnDefinition) []string
	// AddColumnSuffix returns a position clause for a newly added column
	// (MySQL FIRST/AFTER). Nil means no clause.
	AddColumnSuffix func(design core.TableDesign, idx int) string
	// AddColumn renders the statement that adds a column. Nil uses the
	// standard ADD COLUMN form; T-SQL and Oracle omit the COLUMN keyword.
	AddColumn func(table, def, suffix string) string
	// DropIndex renders the statement that removes a secondary index.
	DropIndex func(table, index string) string
	// AddIndex renders the statement that creates a secondary index.
	AddIndex func(table string, idx core.IndexDefinition) string
	// TableOptions renders statements for changed table-level options.
	TableOptions func(original, updated core.TableDesign) []string
}

// AlterTableSQL diffs two designs of the same table and renders the change
// script. Statement order: dropped columns, added/modified columns in design
// order, index changes, table options. Returns NoChanges when the designs
// are equal.
func (b Base) AlterTableSQL(original, updated core.TableDesign, colDef ColumnDefFunc, hooks AlterHooks) (string, error) {
	table := b.QuoteIdentifier(updated.Name)

	originalCols := make(map[string]core.ColumnDefinition, len(original.Columns))
	for _, col := range original.Columns {
		originalCols[col.Name] = col
	}
	updatedCols := make(map[string]core.ColumnDefinition, len(updated.Columns))
	for _, col := range updated.Columns {
		updatedCols[col.Name] = col
	}

	var statements []string

	for _, col := range original.Columns {
		if _, kept := updatedCols[col.Name]; !kept {
			statements = append(statements, fmt.Sprintf(
				"ALTER TABLE %s DROP COLUMN %s;", table, b.QuoteIdentifier(col.Name)))
		}
	}

	for idx, col := range updated.Columns {
		orig, existed := originalCols[col.Name]
		if existed {
			if ColumnChanged(orig, col) && hooks.ModifyColumn != nil {
				statements = append(statements, hooks.ModifyColumn(table, orig, col)...)
			}
			continue
		}
		suffix := ""
		if hooks.AddColumnSuffix != nil {
			suffix = hooks.AddColumnSuffix(updated, idx)
		}
		if hooks.AddColumn != nil {
			statements = append(statements, hooks.AddColumn(table, colDef(col), suffix))
		} else {
			statements = append(statements, fmt.Sprintf(
				"ALTER TABLE %s ADD COLUMN %s%s;", table, colDef(col), suffix))
		}
	}

	originalIdx := make(map[string]core.IndexDefinition, len(original.Indexes))
	for _, ix := range original.Indexes {
		originalIdx[ix.Name] = ix
	}
	updatedIdx := make(map[string]core.IndexDefinition, len(updated.Indexes))
	for _, ix := range updated.Indexes {
		updatedIdx[ix.Name] = ix
	}

	for _, ix := range original.Indexes {
		if _, kept := updatedIdx[ix.Name]; !kept && hooks.DropIndex != nil {
			statements = append(statements, hooks.DropIndex(table, ix.Name))
		}
	}
	for _, ix := range updated.Indexes {
		if _, existed := originalIdx[ix.Name]; !existed && hooks.AddIndex != nil {
			statements = append(statements, hooks.AddIndex(table, ix))
		}
	}

	if hooks.TableOptions != nil {
		statements = append(statements, hooks.TableOptions(original, updated)...)
	}

	if len(statements) == 0 {
		return NoChanges, nil
	}
	return strings.Join(statements, "\n"), nil
}
