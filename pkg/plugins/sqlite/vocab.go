package sqlite

import (
	"github.com/dbforge-labs/dbforge/pkg/core"
	"github.com/dbforge-labs/dbforge/pkg/sqlintel"
)

// CompletionInfo returns the SQLite-specific editor vocabulary.
func (p *Plugin) CompletionInfo() *sqlintel.CompletionInfo {
	return &sqlintel.CompletionInfo{
		Keywords: []sqlintel.DocEntry{
			{Label: "PRAGMA", Doc: "Query or change internal settings"},
			{Label: "AUTOINCREMENT", Doc: "Monotonic rowid allocation"},
			{Label: "ATTACH", Doc: "Attach another database file"},
			{Label: "DETACH", Doc: "Detach an attached database"},
			{Label: "VACUUM", Doc: "Rebuild the database file"},
			{Label: "REINDEX", Doc: "Rebuild indexes"},
			{Label: "WITHOUT ROWID", Doc: "Clustered table without rowid"},
			{Label: "STRICT", Doc: "Strict type checking table"},
			{Label: "GLOB", Doc: "Case-sensitive glob match"},
			{Label: "INDEXED BY", Doc: "Force a specific index"},
		},
		Functions: []sqlintel.DocEntry{
			{Label: "LAST_INSERT_ROWID()", Doc: "Rowid of the last insert"},
			{Label: "CHANGES()", Doc: "Rows changed by the last statement"},
			{Label: "TOTAL_CHANGES()", Doc: "Rows changed since the connection opened"},
			{Label: "RANDOM()", Doc: "Random 64-bit integer"},
			{Label: "RANDOMBLOB(N)", Doc: "N random bytes"},
			{Label: "HEX(blob)", Doc: "Hexadecimal rendering"},
			{Label: "QUOTE(value)", Doc: "SQL literal rendering"},
			{Label: "TYPEOF(value)", Doc: "Storage class of a value"},
			{Label: "IFNULL(a, b)", Doc: "First non-NULL argument"},
			{Label: "INSTR(haystack, needle)", Doc: "1-based substring position"},
			{Label: "PRINTF(format, ...)", Doc: "Formatted string"},
			{Label: "GROUP_CONCAT(expr, sep)", Doc: "Concatenate group values"},
			{Label: "STRFTIME(format, time)", Doc: "Format a date/time"},
			{Label: "DATE(time, modifier)", Doc: "Date with modifiers"},
			{Label: "DATETIME(time, modifier)", Doc: "Date and time with modifiers"},
			{Label: "JULIANDAY(time)", Doc: "Julian day number"},
			{Label: "UNIXEPOCH(time)", Doc: "Unix timestamp"},
			{Label: "JSON_EXTRACT(json, path)", Doc: "Extract a JSON value"},
			{Label: "JSON_EACH(json)", Doc: "Expand JSON to rows"},
			{Label: "SQLITE_VERSION()", Doc: "Library version string"},
		},
		Operators: []sqlintel.DocEntry{
			{Label: "||", Doc: "String concatenation"},
			{Label: "GLOB", Doc: "Glob pattern match"},
			{Label: "MATCH", Doc: "Full-text match"},
			{Label: "->", Doc: "JSON field access"},
			{Label: "->>", Doc: "JSON field as text"},
		},
		DataTypes: []sqlintel.DocEntry{
			{Label: "INTEGER", Doc: "Signed integer"},
			{Label: "REAL", Doc: "Floating point"},
			{Label: "TEXT", Doc: "Text string"},
			{Label: "BLOB", Doc: "Binary data"},
			{Label: "NUMERIC", Doc: "Numeric affinity"},
			{Label: "BOOLEAN", Doc: "Stored as integer 0/1"},
			{Label: "DATE", Doc: "Stored as text/integer"},
			{Label: "DATETIME", Doc: "Stored as text/integer"},
		},
		Snippets: []sqlintel.Snippet{
			{Label: "pragma", Body: "PRAGMA $1", Doc: "Pragma statement"},
			{Label: "crt", Body: "CREATE TABLE $1 (\n  id INTEGER PRIMARY KEY AUTOINCREMENT,\n  $2\n)", Doc: "Create table"},
			{Label: "att", Body: "ATTACH DATABASE '$1' AS $2", Doc: "Attach database"},
			{Label: "fts", Body: "CREATE VIRTUAL TABLE $1 USING fts5($2)", Doc: "Full-text table"},
		},
	}
}

func (p *Plugin) DataTypes() []core.DataTypeInfo {
	return []core.DataTypeInfo{
		{Name: "INTEGER", Description: "Signed integer", Category: core.CategoryNumeric},
		{Name: "REAL", Description: "Floating point", Category: core.CategoryNumeric},
		{Name: "NUMERIC", Description: "Numeric affinity", Category: core.CategoryNumeric},
		{Name: "TEXT", Description: "Text string", Category: core.CategoryString},
		{Name: "BLOB", Description: "Binary data", Category: core.CategoryBinary},
		{Name: "BOOLEAN", Description: "Stored as integer 0/1", Category: core.CategoryBoolean},
		{Name: "DATE", Description: "Stored as text/integer", Category: core.CategoryDateTime},
		{Name: "DATETIME", Description: "Stored as text/integer", Category: core.CategoryDateTime},
	}
}

// Charsets returns empty: SQLite text is always UTF-8/UTF-16.
func (p *Plugin) Charsets() []core.CharsetInfo { return nil }

func (p *Plugin) Collations(charset string) []core.CollationInfo { return nil }
