package postgres

import (
	"github.com/dbforge-labs/dbforge/pkg/core"
	"github.com/dbforge-labs/dbforge/pkg/sqlintel"
)

// CompletionInfo returns the PostgreSQL-specific editor vocabulary.
func (p *Plugin) CompletionInfo() *sqlintel.CompletionInfo {
	return &sqlintel.CompletionInfo{
		Keywords: []sqlintel.DocEntry{
			{Label: "RETURNING", Doc: "Return rows from INSERT/UPDATE/DELETE"},
			{Label: "ILIKE", Doc: "Case-insensitive LIKE"},
			{Label: "LATERAL", Doc: "Lateral subquery reference"},
			{Label: "TABLESAMPLE", Doc: "Sample rows from a table"},
			{Label: "CONFLICT", Doc: "ON CONFLICT upsert clause"},
			{Label: "NOTHING", Doc: "DO NOTHING conflict action"},
			{Label: "CONCURRENTLY", Doc: "Build index without locking"},
			{Label: "MATERIALIZED", Doc: "Materialized view or CTE"},
			{Label: "INHERITS", Doc: "Table inheritance"},
			{Label: "UNLOGGED", Doc: "Unlogged table"},
		},
		Functions: []sqlintel.DocEntry{
			{Label: "SUBSTRING(str FROM pos FOR len)", Doc: "Extract substring (PostgreSQL syntax)"},
			{Label: "EXTRACT(field FROM source)", Doc: "Extract date/time field"},
			{Label: "AGE(timestamp)", Doc: "Interval since timestamp"},
			{Label: "NOW()", Doc: "Current timestamp"},
			{Label: "DATE_TRUNC(field, source)", Doc: "Truncate to precision"},
			{Label: "TO_CHAR(value, format)", Doc: "Format value as string"},
			{Label: "TO_DATE(str, format)", Doc: "Parse string to date"},
			{Label: "TO_TIMESTAMP(str, format)", Doc: "Parse string to timestamp"},
			{Label: "STRING_AGG(expr, delimiter)", Doc: "Concatenate group values"},
			{Label: "ARRAY_AGG(expr)", Doc: "Aggregate into array"},
			{Label: "UNNEST(array)", Doc: "Expand array to rows"},
			{Label: "JSONB_BUILD_OBJECT(key, val, ...)", Doc: "Build JSONB object"},
			{Label: "JSONB_ARRAY_ELEMENTS(jsonb)", Doc: "Expand JSONB array"},
			{Label: "JSONB_SET(target, path, value)", Doc: "Set JSONB path"},
			{Label: "GENERATE_SERIES(start, stop)", Doc: "Generate value series"},
			{Label: "GEN_RANDOM_UUID()", Doc: "Generate random UUID"},
			{Label: "ROW_NUMBER() OVER ()", Doc: "Row number window function"},
			{Label: "RANK() OVER ()", Doc: "Rank window function"},
			{Label: "LAG(expr) OVER ()", Doc: "Previous row value"},
			{Label: "LEAD(expr) OVER ()", Doc: "Next row value"},
			{Label: "PG_SLEEP(seconds)", Doc: "Pause execution"},
			{Label: "CURRENT_DATABASE()", Doc: "Current database name"},
			{Label: "VERSION()", Doc: "PostgreSQL version"},
		},
		Operators: []sqlintel.DocEntry{
			{Label: "@>", Doc: "Contains (array/jsonb)"},
			{Label: "<@", Doc: "Contained by"},
			{Label: "?", Doc: "JSONB key exists"},
			{Label: "?|", Doc: "Any key exists"},
			{Label: "?&", Doc: "All keys exist"},
			{Label: "#>", Doc: "JSONB path extraction"},
			{Label: "~", Doc: "Regex match"},
			{Label: "~*", Doc: "Case-insensitive regex match"},
			{Label: "||/", Doc: "Cube root"},
		},
		DataTypes: []sqlintel.DocEntry{
			{Label: "SMALLINT", Doc: "2 byte integer"},
			{Label: "INTEGER", Doc: "4 byte integer"},
			{Label: "BIGINT", Doc: "8 byte integer"},
			{Label: "SERIAL", Doc: "Auto-incrementing integer"},
			{Label: "BIGSERIAL", Doc: "Auto-incrementing bigint"},
			{Label: "NUMERIC(p,s)", Doc: "Exact numeric"},
			{Label: "REAL", Doc: "Single-precision float"},
			{Label: "DOUBLE PRECISION", Doc: "Double-precision float"},
			{Label: "VARCHAR(N)", Doc: "Variable-length string"},
			{Label: "TEXT", Doc: "Unlimited-length string"},
			{Label: "BYTEA", Doc: "Binary data"},
			{Label: "DATE", Doc: "Calendar date"},
			{Label: "TIMESTAMP", Doc: "Date and time"},
			{Label: "TIMESTAMPTZ", Doc: "Date and time with timezone"},
			{Label: "INTERVAL", Doc: "Time span"},
			{Label: "BOOLEAN", Doc: "True/false"},
			{Label: "UUID", Doc: "Universally unique identifier"},
			{Label: "JSON", Doc: "JSON text"},
			{Label: "JSONB", Doc: "Binary JSON"},
			{Label: "ARRAY", Doc: "Array of any type"},
			{Label: "INET", Doc: "IPv4/IPv6 address"},
			{Label: "CIDR", Doc: "Network address"},
		},
		Snippets: []sqlintel.Snippet{
			{Label: "cte", Body: "WITH $1 AS (\n  $2\n)\nSELECT * FROM $1", Doc: "Common table expression"},
			{Label: "rcte", Body: "WITH RECURSIVE $1 AS (\n  $2\n  UNION ALL\n  $3\n)\nSELECT * FROM $1", Doc: "Recursive CTE"},
			{Label: "wf", Body: "SELECT $1,\n  ROW_NUMBER() OVER (PARTITION BY $2 ORDER BY $3) AS rn\nFROM $4", Doc: "Window function"},
			{Label: "ups", Body: "INSERT INTO $1 ($2) VALUES ($3)\nON CONFLICT ($4) DO UPDATE SET $5", Doc: "Upsert"},
		},
	}
}

func (p *Plugin) DataTypes() []core.DataTypeInfo {
	return []core.DataTypeInfo{
		{Name: "SMALLINT", Description: "2 byte integer", Category: core.CategoryNumeric},
		{Name: "INTEGER", Description: "4 byte integer", Category: core.CategoryNumeric},
		{Name: "BIGINT", Description: "8 byte integer", Category: core.CategoryNumeric},
		{Name: "SERIAL", Description: "Auto-incrementing integer", Category: core.CategoryNumeric},
		{Name: "BIGSERIAL", Description: "Auto-incrementing bigint", Category: core.CategoryNumeric},
		{Name: "NUMERIC(10,2)", Description: "Exact numeric", Category: core.CategoryNumeric},
		{Name: "REAL", Description: "Single-precision float", Category: core.CategoryNumeric},
		{Name: "DOUBLE PRECISION", Description: "Double-precision float", Category: core.CategoryNumeric},
		{Name: "VARCHAR(255)", Description: "Variable-length string", Category: core.CategoryString},
		{Name: "TEXT", Description: "Unlimited-length string", Category: core.CategoryString},
		{Name: "CHAR(10)", Description: "Fixed-length string", Category: core.CategoryString},
		{Name: "UUID", Description: "Universally unique identifier", Category: core.CategoryString},
		{Name: "DATE", Description: "Calendar date", Category: core.CategoryDateTime},
		{Name: "TIME", Description: "Time of day", Category: core.CategoryDateTime},
		{Name: "TIMESTAMP", Description: "Date and time", Category: core.CategoryDateTime},
		{Name: "TIMESTAMPTZ", Description: "Date and time with timezone", Category: core.CategoryDateTime},
		{Name: "INTERVAL", Description: "Time span", Category: core.CategoryDateTime},
		{Name: "BYTEA", Description: "Binary data", Category: core.CategoryBinary},
		{Name: "BOOLEAN", Description: "True/false", Category: core.CategoryBoolean},
		{Name: "JSON", Description: "JSON text", Category: core.CategoryOther},
		{Name: "JSONB", Description: "Binary JSON", Category: core.CategoryOther},
		{Name: "INET", Description: "IPv4/IPv6 address", Category: core.CategoryOther},
	}
}

// Charsets returns empty: PostgreSQL encoding is fixed per database at
// creation time.
func (p *Plugin) Charsets() []core.CharsetInfo { return nil }

func (p *Plugin) Collations(charset string) []core.CollationInfo { return nil }
