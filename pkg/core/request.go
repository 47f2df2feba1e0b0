package core

import "time"

// FilterOperator is one comparison in a table-data filter.
type FilterOperator string

const (
	OpEqual        FilterOperator = "="
	OpNotEqual     FilterOperator = "<>"
	OpLess         FilterOperator = "<"
	OpLessEqual    FilterOperator = "<="
	OpGreater      FilterOperator = ">"
	OpGreaterEqual FilterOperator = ">="
	OpLike         FilterOperator = "LIKE"
	OpNotLike      FilterOperator = "NOT LIKE"
	OpIn           FilterOperator = "IN"
	OpNotIn        FilterOperator = "NOT IN"
	OpIsNull       FilterOperator = "IS NULL"
	OpIsNotNull    FilterOperator = "IS NOT NULL"
)

// NeedsValue reports whether the operator takes a right-hand value.
func (op FilterOperator) NeedsValue() bool {
	return op != OpIsNull && op != OpIsNotNull
}

// FilterCondition is one WHERE predicate of a table data request.
type FilterCondition struct {
	Column   string
	Operator FilterOperator
	Value    string // ignored for NULL predicates
}

// SortCondition is one ORDER BY entry; list order is the ORDER BY order.
type SortCondition struct {
	Column     string
	Descending bool
}

// TableDataRequest asks for one page of a table. Page is 1-based;
// PageSize 0 disables pagination.
type TableDataRequest struct {
	Database    string
	Schema      string
	Table       string
	Page        int
	PageSize    int
	Filters     []FilterCondition
	Sorts       []SortCondition
	WhereClause string // raw clause, wins over Filters when set
	OrderClause string // raw clause, wins over Sorts when set
}

// NewTableDataRequest returns a request for the first page with the default
// page size.
func NewTableDataRequest(database, table string) TableDataRequest {
	return TableDataRequest{Database: database, Table: table, Page: 1, PageSize: 100}
}

// WithPage sets pagination.
func (r TableDataRequest) WithPage(page, size int) TableDataRequest {
	r.Page, r.PageSize = page, size
	return r
}

// WithFilter appends one filter condition.
func (r TableDataRequest) WithFilter(column string, op FilterOperator, value string) TableDataRequest {
	r.Filters = append(r.Filters, FilterCondition{Column: column, Operator: op, Value: value})
	return r
}

// WithSort appends one sort condition.
func (r TableDataRequest) WithSort(column string, descending bool) TableDataRequest {
	r.Sorts = append(r.Sorts, SortCondition{Column: column, Descending: descending})
	return r
}

// TableDataResponse is one page of table data plus the metadata the grid
// needs to present and edit it.
type TableDataResponse struct {
	Columns       []ColumnMeta
	Rows          [][]*string
	TotalCount    int64
	Page          int
	PageSize      int
	PrimaryKeyIdx []int // column indices of the primary key
	UniqueKeyIdx  []int // indices of the first unique index when no PK
	ExecutedSQL   string
	Elapsed       time.Duration
}

// CellChange is one edited cell inside a row change.
type CellChange struct {
	Column   string
	NewValue *string // nil writes NULL
}

// RowChangeKind discriminates RowChange.
type RowChangeKind int

const (
	RowAdded RowChangeKind = iota
	RowUpdated
	RowDeleted
)

// RowChange is one row-level edit from the data grid. Original holds the
// pre-edit cell values keyed by column name, used to locate the row.
type RowChange struct {
	Kind     RowChangeKind
	Original map[string]*string
	Cells    []CellChange
}

// TableSaveRequest is a batch of grid edits against one table. PrimaryKeys
// and UniqueKeys name the table's key columns; edits are located by primary
// key when every key cell is present, then by the first complete unique key,
// then by every original cell.
type TableSaveRequest struct {
	Database    string
	Schema      string
	Table       string
	PrimaryKeys []string
	UniqueKeys  [][]string
	Changes     []RowChange
}

// TableSaveResponse reports the generated statements and how many applied.
type TableSaveResponse struct {
	Statements   []string
	RowsAffected int64
}
