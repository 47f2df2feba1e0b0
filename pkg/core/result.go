package core

import (
	"fmt"
	"strings"
	"time"
)

// ExecOptions controls script and query execution.
type ExecOptions struct {
	// StopOnError stops a multi-statement script at the first failure.
	StopOnError bool
	// Transactional wraps the whole script in one transaction.
	Transactional bool
	// MaxRows caps query result size; 0 means unlimited.
	MaxRows int
}

// DefaultExecOptions returns the options used when the caller passes none.
func DefaultExecOptions() ExecOptions {
	return ExecOptions{StopOnError: true, MaxRows: 1000}
}

// SQLResult is the outcome of executing one SQL statement. Exactly one of
// Query, Exec, or Err is set.
type SQLResult struct {
	Query *QueryResult
	Exec  *ExecResult
	Err   *SQLErrorInfo
}

// IsError reports whether this result carries a statement error.
func (r SQLResult) IsError() bool { return r.Err != nil }

// QueryResult holds rows returned by a query statement. Cell values are
// rendered to strings for dialect-agnostic display; nil means SQL NULL.
type QueryResult struct {
	SQL       string
	Columns   []string
	Rows      [][]*string
	Elapsed   time.Duration
	TableName string // set when this is a simple single-table query
	Editable  bool
}

// ExecResult holds the outcome of a non-query statement.
type ExecResult struct {
	SQL          string
	RowsAffected int64
	Elapsed      time.Duration
	Message      string
}

// SQLErrorInfo records a statement that failed mid-script.
type SQLErrorInfo struct {
	SQL     string
	Message string
}

// ColumnMeta is the per-column metadata attached to table data reads.
type ColumnMeta struct {
	Name         string
	DBType       string
	FieldType    FieldType
	Nullable     bool
	IsPrimaryKey bool
	Ordinal      int
}

// ExecMessage formats a human-readable summary for a non-query statement.
func ExecMessage(sql string, rowsAffected int64) string {
	head := strings.ToUpper(strings.TrimSpace(sql))
	switch {
	case strings.HasPrefix(head, "INSERT"):
		return fmt.Sprintf("Inserted %d row(s)", rowsAffected)
	case strings.HasPrefix(head, "UPDATE"):
		return fmt.Sprintf("Updated %d row(s)", rowsAffected)
	case strings.HasPrefix(head, "DELETE"):
		return fmt.Sprintf("Deleted %d row(s)", rowsAffected)
	case strings.HasPrefix(head, "REPLACE"):
		return fmt.Sprintf("Replaced %d row(s)", rowsAffected)
	case strings.HasPrefix(head, "CREATE"):
		return "Object created successfully"
	case strings.HasPrefix(head, "ALTER"):
		return "Object altered successfully"
	case strings.HasPrefix(head, "DROP"):
		return "Object dropped successfully"
	case strings.HasPrefix(head, "TRUNCATE"):
		return "Table truncated successfully"
	case strings.HasPrefix(head, "RENAME"):
		return "Object renamed successfully"
	case strings.HasPrefix(head, "USE"):
		return "Database changed successfully"
	case strings.HasPrefix(head, "SET"):
		return "Variable set successfully"
	case strings.HasPrefix(head, "BEGIN"), strings.HasPrefix(head, "START TRANSACTION"):
		return "Transaction started"
	case strings.HasPrefix(head, "COMMIT"):
		return "Transaction committed"
	case strings.HasPrefix(head, "ROLLBACK"):
		return "Transaction rolled back"
	default:
		return fmt.Sprintf("Query executed successfully, %d row(s) affected", rowsAffected)
	}
}
