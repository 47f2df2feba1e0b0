package core

// Designer types. A TableDesign is produced by the table designer UI and
// consumed by the pure DDL builders; both consumer paths are side-effect
// free.

// ColumnDefinition is one column of a table design. Column order inside
// TableDesign.Columns is significant and user-controlled.
type ColumnDefinition struct {
	Name            string
	DataType        string
	Length          int64 // 0 means no length clause
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
}

// IndexDefinition is one secondary index of a table design.
type IndexDefinition struct {
	Name     string
	Columns  []string
	IsUnique bool
	Comment  string
}

// ForeignKeyDefinition is one foreign key of a table design.
type ForeignKeyDefinition struct {
	Name       string
	Columns    []string
	RefTable   string
	RefColumns []string
	OnDelete   string // CASCADE, SET NULL, RESTRICT, NO ACTION
	OnUpdate   string
}

// TableOptions carries engine-level table attributes.
type TableOptions struct {
	Engine        string
	Charset       string
	Collation     string
	Comment       string
	AutoIncrement int64
}

// TableDesign is the full designer state for one table.
type TableDesign struct {
	Name        string
	Database    string
	Schema      string
	Columns     []ColumnDefinition
	Indexes     []IndexDefinition
	ForeignKeys []ForeignKeyDefinition
	Options     TableOptions
}

// PrimaryKeyColumns returns the names of all primary-key columns in design
// order.
func (d TableDesign) PrimaryKeyColumns() []string {
	var keys []string
	for _, c := range d.Columns {
		if c.IsPrimaryKey {
			keys = append(keys, c.Name)
		}
	}
	return keys
}

// FindColumn returns the column with the given name, or nil.
func (d TableDesign) FindColumn(name string) *ColumnDefinition {
	for i := range d.Columns {
		if d.Columns[i].Name == name {
			return &d.Columns[i]
		}
	}
	return nil
}

// CreateDatabaseRequest is the designer input for database creation.
type CreateDatabaseRequest struct {
	Name      string
	Charset   string
	Collation string
	Comment   string
}

// ModifyDatabaseRequest is the designer input for database alteration.
type ModifyDatabaseRequest struct {
	Name      string
	Charset   string
	Collation string
	Comment   string
}

// CreateSchemaRequest is the designer input for schema creation on dialects
// that support schemas.
type CreateSchemaRequest struct {
	Name    string
	Owner   string
	Comment string
}
