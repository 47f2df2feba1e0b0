package oracle

import (
	"github.com/dbforge-labs/dbforge/pkg/core"
	"github.com/dbforge-labs/dbforge/pkg/sqlintel"
)

// CompletionInfo returns the Oracle-specific editor vocabulary.
func (p *Plugin) CompletionInfo() *sqlintel.CompletionInfo {
	return &sqlintel.CompletionInfo{
		Keywords: []sqlintel.DocEntry{
			{Label: "ROWNUM", Doc: "Row number pseudo-column"},
			{Label: "ROWID", Doc: "Row identifier"},
			{Label: "DUAL", Doc: "Dummy table for SELECT"},
			{Label: "CONNECT BY", Doc: "Hierarchical query"},
			{Label: "START WITH", Doc: "Hierarchical query start"},
			{Label: "LEVEL", Doc: "Hierarchical query level"},
			{Label: "PRIOR", Doc: "Parent row in hierarchy"},
			{Label: "PIVOT", Doc: "Pivot rows to columns"},
			{Label: "UNPIVOT", Doc: "Unpivot columns to rows"},
			{Label: "MERGE", Doc: "Merge statement"},
			{Label: "FLASHBACK", Doc: "Flashback query"},
			{Label: "AS OF", Doc: "Point-in-time query"},
			{Label: "RETURNING", Doc: "Return clause"},
			{Label: "EXECUTE IMMEDIATE", Doc: "Dynamic SQL"},
		},
		Functions: []sqlintel.DocEntry{
			{Label: "NVL(expr, alt)", Doc: "Return alt if expr is NULL"},
			{Label: "NVL2(expr, val1, val2)", Doc: "Return val1 if not NULL, else val2"},
			{Label: "DECODE(expr, search, result, ...)", Doc: "Conditional expression"},
			{Label: "TO_CHAR(expr, format)", Doc: "Convert to string"},
			{Label: "TO_DATE(str, format)", Doc: "Convert to date"},
			{Label: "TO_NUMBER(str)", Doc: "Convert to number"},
			{Label: "TRUNC(date, fmt)", Doc: "Truncate date"},
			{Label: "ADD_MONTHS(date, n)", Doc: "Add months to date"},
			{Label: "MONTHS_BETWEEN(d1, d2)", Doc: "Months between dates"},
			{Label: "LAST_DAY(date)", Doc: "Last day of month"},
			{Label: "EXTRACT(part FROM date)", Doc: "Extract date component"},
			{Label: "SYSDATE", Doc: "Current date and time"},
			{Label: "SYSTIMESTAMP", Doc: "Current timestamp with timezone"},
			{Label: "INSTR(str, substr)", Doc: "Find substring position"},
			{Label: "SUBSTR(str, pos, len)", Doc: "Extract substring"},
			{Label: "INITCAP(str)", Doc: "Capitalize first letter"},
			{Label: "LPAD(str, len, pad)", Doc: "Left pad string"},
			{Label: "RPAD(str, len, pad)", Doc: "Right pad string"},
			{Label: "REGEXP_LIKE(str, pattern)", Doc: "Regex match"},
			{Label: "REGEXP_SUBSTR(str, pattern)", Doc: "Regex substring"},
			{Label: "REGEXP_REPLACE(str, pattern, repl)", Doc: "Regex replace"},
			{Label: "LISTAGG(col, sep)", Doc: "Aggregate to list"},
			{Label: "JSON_VALUE(json, path)", Doc: "Extract JSON scalar"},
			{Label: "JSON_TABLE(json, path)", Doc: "Parse JSON to table"},
			{Label: "ROW_NUMBER() OVER(...)", Doc: "Row number window function"},
			{Label: "RANK() OVER(...)", Doc: "Rank window function"},
			{Label: "LAG(col, offset) OVER(...)", Doc: "Previous row value"},
			{Label: "LEAD(col, offset) OVER(...)", Doc: "Next row value"},
			{Label: "SYS_GUID()", Doc: "Generate GUID"},
			{Label: "USER", Doc: "Current user name"},
			{Label: "SYS_CONTEXT(namespace, param)", Doc: "Get context value"},
		},
		Operators: []sqlintel.DocEntry{
			{Label: "||", Doc: "String concatenation"},
			{Label: ":=", Doc: "Assignment (PL/SQL)"},
			{Label: "=>", Doc: "Named parameter"},
			{Label: "**", Doc: "Exponentiation"},
			{Label: "..", Doc: "Range (PL/SQL)"},
		},
		DataTypes: []sqlintel.DocEntry{
			{Label: "NUMBER", Doc: "Numeric (default precision)"},
			{Label: "NUMBER(p,s)", Doc: "Numeric with precision and scale"},
			{Label: "VARCHAR2(n)", Doc: "Variable-length string"},
			{Label: "NVARCHAR2(n)", Doc: "Unicode variable-length string"},
			{Label: "CHAR(n)", Doc: "Fixed-length string"},
			{Label: "CLOB", Doc: "Character large object"},
			{Label: "BLOB", Doc: "Binary large object"},
			{Label: "DATE", Doc: "Date and time"},
			{Label: "TIMESTAMP", Doc: "Timestamp"},
			{Label: "TIMESTAMP WITH TIME ZONE", Doc: "Timestamp with timezone"},
			{Label: "INTERVAL DAY TO SECOND", Doc: "Day-second interval"},
			{Label: "RAW(n)", Doc: "Raw binary data"},
			{Label: "XMLTYPE", Doc: "XML data"},
			{Label: "JSON", Doc: "JSON data (21c+)"},
			{Label: "BINARY_FLOAT", Doc: "32-bit floating point"},
			{Label: "BINARY_DOUBLE", Doc: "64-bit floating point"},
		},
		Snippets: []sqlintel.Snippet{
			{Label: "crt", Body: "CREATE TABLE $1 (\n  id NUMBER GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,\n  $2\n)", Doc: "Create table with identity"},
			{Label: "idx", Body: "CREATE INDEX $1 ON $2 ($3)", Doc: "Create index"},
			{Label: "seq", Body: "CREATE SEQUENCE $1 START WITH 1 INCREMENT BY 1", Doc: "Create sequence"},
			{Label: "proc", Body: "CREATE OR REPLACE PROCEDURE $1 AS\nBEGIN\n  $2\nEND;", Doc: "Create procedure"},
			{Label: "func", Body: "CREATE OR REPLACE FUNCTION $1 RETURN $2 AS\nBEGIN\n  RETURN $3;\nEND;", Doc: "Create function"},
			{Label: "trg", Body: "CREATE OR REPLACE TRIGGER $1\nBEFORE INSERT ON $2\nFOR EACH ROW\nBEGIN\n  $3\nEND;", Doc: "Create trigger"},
		},
	}
}

func (p *Plugin) DataTypes() []core.DataTypeInfo {
	return []core.DataTypeInfo{
		{Name: "NUMBER", Description: "Numeric (default precision)", Category: core.CategoryNumeric},
		{Name: "NUMBER(10,2)", Description: "Numeric with precision and scale", Category: core.CategoryNumeric},
		{Name: "BINARY_FLOAT", Description: "32-bit floating point", Category: core.CategoryNumeric},
		{Name: "BINARY_DOUBLE", Description: "64-bit floating point", Category: core.CategoryNumeric},
		{Name: "VARCHAR2(255)", Description: "Variable-length string", Category: core.CategoryString},
		{Name: "NVARCHAR2(255)", Description: "Unicode variable-length string", Category: core.CategoryString},
		{Name: "CHAR(10)", Description: "Fixed-length string", Category: core.CategoryString},
		{Name: "CLOB", Description: "Character large object", Category: core.CategoryString},
		{Name: "BLOB", Description: "Binary large object", Category: core.CategoryBinary},
		{Name: "RAW(2000)", Description: "Raw binary data", Category: core.CategoryBinary},
		{Name: "DATE", Description: "Date and time", Category: core.CategoryDateTime},
		{Name: "TIMESTAMP", Description: "Timestamp", Category: core.CategoryDateTime},
		{Name: "TIMESTAMP WITH TIME ZONE", Description: "Timestamp with timezone", Category: core.CategoryDateTime},
		{Name: "INTERVAL DAY TO SECOND", Description: "Day-second interval", Category: core.CategoryDateTime},
		{Name: "XMLTYPE", Description: "XML data", Category: core.CategoryOther},
		{Name: "JSON", Description: "JSON data (21c+)", Category: core.CategoryOther},
	}
}

// Charsets returns empty: the database character set is fixed at creation.
func (p *Plugin) Charsets() []core.CharsetInfo { return nil }

func (p *Plugin) Collations(charset string) []core.CollationInfo { return nil }
