package sqltext

import "strings"

// StatementType categorizes a single SQL statement.
type StatementType int

const (
	// StatementQuery returns rows (SELECT, SHOW, EXPLAIN, ...).
	StatementQuery StatementType = iota
	// StatementDML modifies rows (INSERT, UPDATE, DELETE, REPLACE).
	StatementDML
	// StatementDDL modifies schema objects (CREATE, ALTER, DROP, ...).
	StatementDDL
	// StatementTransaction is transaction control (BEGIN, COMMIT, ROLLBACK).
	StatementTransaction
	// StatementCommand is a session command (USE, SET).
	StatementCommand
	// StatementExec is anything else run for its side effects.
	StatementExec
)

func (t StatementType) String() string {
	switch t {
	case StatementQuery:
		return "query"
	case StatementDML:
		return "dml"
	case StatementDDL:
		return "ddl"
	case StatementTransaction:
		return "transaction"
	case StatementCommand:
		return "command"
	}
	return "exec"
}

// IsQuery reports whether the statement returns a row set.
func IsQuery(sql string) bool {
	head := strings.ToUpper(strings.TrimSpace(sql))
	for _, prefix := range []string{
		"SELECT", "SHOW", "DESC", "DESCRIBE", "EXPLAIN", "WITH", "TABLE", "PRAGMA",
	} {
		if strings.HasPrefix(head, prefix) {
			return true
		}
	}
	return false
}

// Classify determines the statement category from its leading keyword.
func Classify(sql string) StatementType {
	if IsQuery(sql) {
		return StatementQuery
	}
	head := strings.ToUpper(strings.TrimSpace(sql))

	switch {
	case hasAnyPrefix(head, "INSERT", "UPDATE", "DELETE", "REPLACE"):
		return StatementDML
	case hasAnyPrefix(head, "CREATE", "ALTER", "DROP", "TRUNCATE", "RENAME"):
		return StatementDDL
	case hasAnyPrefix(head, "BEGIN", "COMMIT", "ROLLBACK", "START TRANSACTION"):
		return StatementTransaction
	case hasAnyPrefix(head, "USE", "SET"):
		return StatementCommand
	}
	return StatementExec
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// complexMarkers disqualify a SELECT from in-grid editing.
var complexMarkers = []string{
	" JOIN ", " INNER JOIN ", " LEFT JOIN ", " RIGHT JOIN ", " OUTER JOIN ",
	" CROSS JOIN ", " FULL JOIN ",
	" UNION ", " INTERSECT ", " EXCEPT ",
	" GROUP BY ", " HAVING ",
	"DISTINCT",
}

var aggregateMarkers = []string{
	"COUNT(", "SUM(", "AVG(", "MAX(", "MIN(",
	"GROUP_CONCAT(", "STRING_AGG(",
}

// EditableTable reports whether sql is a simple single-table SELECT whose
// result grid can be edited in place, and if so which table it reads. The
// check is a heuristic: joins, set operations, grouping, DISTINCT, and
// aggregates all disqualify.
func EditableTable(sql string) (string, bool) {
	trimmed := strings.TrimSpace(sql)
	upper := strings.ToUpper(trimmed)

	if !strings.HasPrefix(upper, "SELECT") {
		return "", false
	}
	for _, marker := range complexMarkers {
		if strings.Contains(upper, marker) {
			return "", false
		}
	}
	for _, fn := range aggregateMarkers {
		if strings.Contains(upper, fn) {
			return "", false
		}
	}

	fromPos := strings.Index(upper, " FROM ")
	if fromPos < 0 {
		return "", false
	}
	afterFrom := strings.TrimSpace(trimmed[fromPos+6:])
	fields := strings.Fields(afterFrom)
	if len(fields) == 0 {
		return "", false
	}
	table := strings.TrimRight(fields[0], ";")
	table = strings.Trim(table, "`\"'")
	if table == "" || strings.ContainsAny(table, "(,") {
		return "", false
	}
	return table, true
}
