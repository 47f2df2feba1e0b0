package mssql

import (
	"github.com/dbforge-labs/dbforge/pkg/core"
	"github.com/dbforge-labs/dbforge/pkg/sqlintel"
)

// CompletionInfo returns the T-SQL specific editor vocabulary.
func (p *Plugin) CompletionInfo() *sqlintel.CompletionInfo {
	return &sqlintel.CompletionInfo{
		Keywords: []sqlintel.DocEntry{
			{Label: "TOP", Doc: "Limit result rows"},
			{Label: "IDENTITY", Doc: "Auto-increment column"},
			{Label: "OFFSET", Doc: "Skip rows"},
			{Label: "FETCH", Doc: "Fetch rows"},
			{Label: "OUTPUT", Doc: "Return modified rows"},
			{Label: "MERGE", Doc: "Upsert statement"},
			{Label: "PIVOT", Doc: "Rotate rows to columns"},
			{Label: "UNPIVOT", Doc: "Rotate columns to rows"},
			{Label: "NOLOCK", Doc: "Read without locks hint"},
			{Label: "GO", Doc: "Batch separator"},
			{Label: "TRY", Doc: "BEGIN TRY block"},
			{Label: "CATCH", Doc: "BEGIN CATCH block"},
		},
		Functions: []sqlintel.DocEntry{
			{Label: "GETDATE()", Doc: "Current date and time"},
			{Label: "GETUTCDATE()", Doc: "Current UTC date and time"},
			{Label: "SYSDATETIME()", Doc: "Current datetime2"},
			{Label: "DATEADD(part, n, date)", Doc: "Add interval to date"},
			{Label: "DATEDIFF(part, start, end)", Doc: "Interval between dates"},
			{Label: "FORMAT(value, format)", Doc: "Format value as string"},
			{Label: "CONVERT(type, value)", Doc: "Convert between types"},
			{Label: "TRY_CAST(value AS type)", Doc: "Cast, NULL on failure"},
			{Label: "ISNULL(check, replacement)", Doc: "Replace NULL"},
			{Label: "IIF(condition, a, b)", Doc: "Inline conditional"},
			{Label: "CHARINDEX(needle, haystack)", Doc: "Substring position"},
			{Label: "STUFF(str, start, len, replace)", Doc: "Replace substring"},
			{Label: "STRING_AGG(expr, sep)", Doc: "Concatenate group values"},
			{Label: "STRING_SPLIT(str, sep)", Doc: "Split string to rows"},
			{Label: "SCOPE_IDENTITY()", Doc: "Last identity value"},
			{Label: "@@IDENTITY", Doc: "Last identity value"},
			{Label: "@@ROWCOUNT", Doc: "Rows affected by last statement"},
			{Label: "NEWID()", Doc: "Generate uniqueidentifier"},
			{Label: "ROW_NUMBER() OVER ()", Doc: "Row number window function"},
			{Label: "OBJECT_ID(name)", Doc: "Object id by name"},
			{Label: "DB_NAME()", Doc: "Current database name"},
		},
		Operators: []sqlintel.DocEntry{
			{Label: "+", Doc: "String concatenation"},
			{Label: "%", Doc: "Modulo"},
			{Label: "!=", Doc: "Not equal"},
			{Label: "!<", Doc: "Not less than"},
			{Label: "!>", Doc: "Not greater than"},
		},
		DataTypes: []sqlintel.DocEntry{
			{Label: "TINYINT", Doc: "1 byte integer"},
			{Label: "SMALLINT", Doc: "2 byte integer"},
			{Label: "INT", Doc: "4 byte integer"},
			{Label: "BIGINT", Doc: "8 byte integer"},
			{Label: "DECIMAL(p,s)", Doc: "Exact numeric"},
			{Label: "MONEY", Doc: "Currency value"},
			{Label: "FLOAT", Doc: "Floating point"},
			{Label: "BIT", Doc: "0, 1 or NULL"},
			{Label: "CHAR(N)", Doc: "Fixed-length string"},
			{Label: "VARCHAR(N)", Doc: "Variable-length string"},
			{Label: "NVARCHAR(N)", Doc: "Variable-length Unicode string"},
			{Label: "NVARCHAR(MAX)", Doc: "Large Unicode string"},
			{Label: "TEXT", Doc: "Legacy large string"},
			{Label: "VARBINARY(MAX)", Doc: "Binary data"},
			{Label: "DATE", Doc: "Calendar date"},
			{Label: "TIME", Doc: "Time of day"},
			{Label: "DATETIME2", Doc: "Date and time"},
			{Label: "DATETIMEOFFSET", Doc: "Datetime with timezone"},
			{Label: "UNIQUEIDENTIFIER", Doc: "GUID"},
			{Label: "XML", Doc: "XML data"},
		},
		Snippets: []sqlintel.Snippet{
			{Label: "crt", Body: "CREATE TABLE $1 (\n  id INT IDENTITY(1,1) PRIMARY KEY,\n  $2\n)", Doc: "Create table"},
			{Label: "alt", Body: "ALTER TABLE $1 ADD $2", Doc: "Add column"},
			{Label: "top", Body: "SELECT TOP $1 * FROM $2", Doc: "Top-N query"},
			{Label: "pag", Body: "SELECT $1 FROM $2 ORDER BY $3 OFFSET $4 ROWS FETCH NEXT $5 ROWS ONLY", Doc: "Paginated query"},
			{Label: "try", Body: "BEGIN TRY\n  $1\nEND TRY\nBEGIN CATCH\n  SELECT ERROR_MESSAGE()\nEND CATCH", Doc: "Try-catch block"},
			{Label: "mrg", Body: "MERGE $1 AS target\nUSING $2 AS source ON $3\nWHEN MATCHED THEN UPDATE SET $4\nWHEN NOT MATCHED THEN INSERT ($5) VALUES ($6);", Doc: "Merge upsert"},
		},
	}
}

func (p *Plugin) DataTypes() []core.DataTypeInfo {
	return []core.DataTypeInfo{
		{Name: "TINYINT", Description: "1 byte integer", Category: core.CategoryNumeric},
		{Name: "SMALLINT", Description: "2 byte integer", Category: core.CategoryNumeric},
		{Name: "INT", Description: "4 byte integer", Category: core.CategoryNumeric},
		{Name: "BIGINT", Description: "8 byte integer", Category: core.CategoryNumeric},
		{Name: "DECIMAL(18,2)", Description: "Exact numeric", Category: core.CategoryNumeric},
		{Name: "MONEY", Description: "Currency value", Category: core.CategoryNumeric},
		{Name: "FLOAT", Description: "Floating point", Category: core.CategoryNumeric},
		{Name: "CHAR(10)", Description: "Fixed-length string", Category: core.CategoryString},
		{Name: "VARCHAR(255)", Description: "Variable-length string", Category: core.CategoryString},
		{Name: "NVARCHAR(255)", Description: "Variable-length Unicode string", Category: core.CategoryString},
		{Name: "NVARCHAR(MAX)", Description: "Large Unicode string", Category: core.CategoryString},
		{Name: "DATE", Description: "Calendar date", Category: core.CategoryDateTime},
		{Name: "TIME", Description: "Time of day", Category: core.CategoryDateTime},
		{Name: "DATETIME2", Description: "Date and time", Category: core.CategoryDateTime},
		{Name: "DATETIMEOFFSET", Description: "Datetime with timezone", Category: core.CategoryDateTime},
		{Name: "VARBINARY(MAX)", Description: "Binary data", Category: core.CategoryBinary},
		{Name: "BIT", Description: "0, 1 or NULL", Category: core.CategoryBoolean},
		{Name: "UNIQUEIDENTIFIER", Description: "GUID", Category: core.CategoryString},
		{Name: "XML", Description: "XML data", Category: core.CategoryOther},
	}
}

// Charsets returns empty: SQL Server ties character handling to collations.
func (p *Plugin) Charsets() []core.CharsetInfo { return nil }

func (p *Plugin) Collations(charset string) []core.CollationInfo {
	return []core.CollationInfo{
		{Name: "SQL_Latin1_General_CP1_CI_AS"},
		{Name: "Latin1_General_100_CI_AS"},
		{Name: "Latin1_General_100_CS_AS"},
		{Name: "Latin1_General_100_CI_AS_SC_UTF8"},
	}
}
