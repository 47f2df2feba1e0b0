package core

// Catalog records are denormalized reads of the database's self-description.
// Relationships are by name, never by reference. All fields except Name are
// best-effort: dialects that cannot supply a field leave it zero.

// DatabaseInfo describes one database (or SQLite file / Oracle user).
type DatabaseInfo struct {
	Name      string
	Charset   string
	Collation string
	SizeBytes int64
	Comment   string
}

// SchemaInfo describes a schema on dialects that support them.
type SchemaInfo struct {
	Name    string
	Owner   string
	Comment string
}

// TableInfo describes one table.
type TableInfo struct {
	Name      string
	Schema    string
	Engine    string
	RowCount  int64
	SizeBytes int64
	Charset   string
	Collation string
	Comment   string
	CreatedAt string
	UpdatedAt string
}

// ColumnInfo describes one column of a table.
type ColumnInfo struct {
	Name            string
	DBType          string // raw type as reported, e.g. "varchar(255)"
	FieldType       FieldType
	Length          int64
	Precision       int64
	Scale           int64
	Nullable        bool
	IsPrimaryKey    bool
	IsAutoIncrement bool
	IsUnsigned      bool
	DefaultValue    string
	HasDefault      bool
	Comment         string
	Charset         string
	Collation       string
	Ordinal         int
}

// IndexInfo describes one index.
type IndexInfo struct {
	Name      string
	Columns   []string
	IsUnique  bool
	IsPrimary bool
	IndexType string // BTREE, HASH, ...
	Comment   string
}

// ViewInfo describes one view.
type ViewInfo struct {
	Name       string
	Schema     string
	Definition string
	Comment    string
}

// RoutineInfo describes a stored function or procedure.
type RoutineInfo struct {
	Name       string
	Schema     string
	Language   string
	ReturnType string
	Definition string
	Comment    string
}

// TriggerInfo describes one trigger.
type TriggerInfo struct {
	Name      string
	Table     string
	Timing    string // BEFORE, AFTER, INSTEAD OF
	Event     string // INSERT, UPDATE, DELETE
	Statement string
}

// SequenceInfo describes one sequence on dialects that support them.
type SequenceInfo struct {
	Name      string
	Schema    string
	StartWith int64
	Increment int64
	MinValue  int64
	MaxValue  int64
	LastValue int64
	Cycle     bool
}

// CheckInfo describes one check constraint.
type CheckInfo struct {
	Name   string
	Table  string
	Clause string
}

// DataTypeInfo is one entry of a dialect's data-type catalog.
type DataTypeInfo struct {
	Name        string
	Description string
	Category    TypeCategory
}

// TypeCategory groups data types for the designer's type picker.
type TypeCategory string

const (
	CategoryNumeric  TypeCategory = "numeric"
	CategoryString   TypeCategory = "string"
	CategoryDateTime TypeCategory = "datetime"
	CategoryBinary   TypeCategory = "binary"
	CategoryBoolean  TypeCategory = "boolean"
	CategoryOther    TypeCategory = "other"
)

// InferCategory guesses the category from a type name. Used by dialects whose
// catalogs do not label their types.
func InferCategory(name string) TypeCategory {
	switch FieldTypeFromDBType(name) {
	case FieldNumeric:
		return CategoryNumeric
	case FieldString:
		return CategoryString
	case FieldDateTime:
		return CategoryDateTime
	case FieldBinary:
		return CategoryBinary
	case FieldBoolean:
		return CategoryBoolean
	default:
		return CategoryOther
	}
}

// CharsetInfo describes one character set (MySQL).
type CharsetInfo struct {
	Name             string
	Description      string
	DefaultCollation string
}

// CollationInfo describes one collation (MySQL).
type CollationInfo struct {
	Name      string
	Charset   string
	IsDefault bool
}

// ObjectView is a column/row projection of catalog entities suitable for
// tabular display. Owned by the core, consumed by UI.
type ObjectView struct {
	Columns []string
	Rows    [][]string
}
