package mysql

import (
	"github.com/dbforge-labs/dbforge/pkg/core"
	"github.com/dbforge-labs/dbforge/pkg/sqlintel"
)

// CompletionInfo returns the MySQL-specific editor vocabulary. Standard SQL
// keywords and functions are supplied by the completion engine itself.
func (p *Plugin) CompletionInfo() *sqlintel.CompletionInfo {
	return &sqlintel.CompletionInfo{
		Keywords: []sqlintel.DocEntry{
			{Label: "AUTO_INCREMENT", Doc: "Auto-increment column attribute"},
			{Label: "ENGINE", Doc: "Storage engine specification"},
			{Label: "CHARSET", Doc: "Character set specification"},
			{Label: "COLLATE", Doc: "Collation specification"},
			{Label: "UNSIGNED", Doc: "Unsigned integer attribute"},
			{Label: "ZEROFILL", Doc: "Zero-fill display attribute"},
			{Label: "IGNORE", Doc: "Ignore errors during operation"},
			{Label: "REPLACE", Doc: "Replace existing rows"},
			{Label: "DUPLICATE KEY UPDATE", Doc: "On duplicate key update"},
			{Label: "STRAIGHT_JOIN", Doc: "Force join order"},
			{Label: "SQL_CALC_FOUND_ROWS", Doc: "Calculate total rows"},
			{Label: "FORCE INDEX", Doc: "Force index usage"},
			{Label: "USE INDEX", Doc: "Suggest index usage"},
		},
		Functions: []sqlintel.DocEntry{
			{Label: "CONCAT_WS(sep, str1, str2, ...)", Doc: "Concatenate with separator"},
			{Label: "CHAR_LENGTH(str)", Doc: "String length in characters"},
			{Label: "LPAD(str, len, pad)", Doc: "Left pad string"},
			{Label: "RPAD(str, len, pad)", Doc: "Right pad string"},
			{Label: "LOCATE(substr, str)", Doc: "Find substring position"},
			{Label: "REPEAT(str, count)", Doc: "Repeat string"},
			{Label: "FORMAT(num, decimals)", Doc: "Format number"},
			{Label: "RAND()", Doc: "Random number 0-1"},
			{Label: "CURDATE()", Doc: "Current date"},
			{Label: "CURTIME()", Doc: "Current time"},
			{Label: "DATE(expr)", Doc: "Extract date part"},
			{Label: "YEAR(date)", Doc: "Extract year"},
			{Label: "MONTH(date)", Doc: "Extract month"},
			{Label: "DAY(date)", Doc: "Extract day"},
			{Label: "DATE_ADD(date, INTERVAL)", Doc: "Add interval to date"},
			{Label: "DATE_SUB(date, INTERVAL)", Doc: "Subtract interval from date"},
			{Label: "DATEDIFF(date1, date2)", Doc: "Difference in days"},
			{Label: "DATE_FORMAT(date, format)", Doc: "Format date"},
			{Label: "STR_TO_DATE(str, format)", Doc: "Parse string to date"},
			{Label: "UNIX_TIMESTAMP()", Doc: "Current Unix timestamp"},
			{Label: "FROM_UNIXTIME(ts)", Doc: "Convert Unix timestamp"},
			{Label: "GROUP_CONCAT(col)", Doc: "Concatenate group values"},
			{Label: "IF(cond, then, else)", Doc: "Conditional expression"},
			{Label: "IFNULL(expr, alt)", Doc: "Return alt if expr is NULL"},
			{Label: "JSON_EXTRACT(doc, path)", Doc: "Extract JSON value"},
			{Label: "JSON_OBJECT(key, val, ...)", Doc: "Create JSON object"},
			{Label: "JSON_ARRAY(val, ...)", Doc: "Create JSON array"},
			{Label: "UUID()", Doc: "Generate UUID"},
			{Label: "LAST_INSERT_ID()", Doc: "Last auto-increment ID"},
			{Label: "DATABASE()", Doc: "Current database name"},
			{Label: "USER()", Doc: "Current user"},
			{Label: "VERSION()", Doc: "MySQL version"},
		},
		Operators: []sqlintel.DocEntry{
			{Label: "REGEXP", Doc: "Regular expression match"},
			{Label: "RLIKE", Doc: "Regular expression match (alias)"},
			{Label: "SOUNDS LIKE", Doc: "Soundex comparison"},
			{Label: "<=>", Doc: "NULL-safe equal"},
			{Label: "DIV", Doc: "Integer division"},
			{Label: "XOR", Doc: "Logical XOR"},
			{Label: ":=", Doc: "Assignment operator"},
		},
		DataTypes: []sqlintel.DocEntry{
			{Label: "TINYINT", Doc: "1 byte integer"},
			{Label: "SMALLINT", Doc: "2 byte integer"},
			{Label: "MEDIUMINT", Doc: "3 byte integer"},
			{Label: "INT", Doc: "4 byte integer"},
			{Label: "BIGINT", Doc: "8 byte integer"},
			{Label: "DECIMAL(M,D)", Doc: "Fixed-point number"},
			{Label: "FLOAT", Doc: "Single-precision float"},
			{Label: "DOUBLE", Doc: "Double-precision float"},
			{Label: "CHAR(N)", Doc: "Fixed-length string"},
			{Label: "VARCHAR(N)", Doc: "Variable-length string"},
			{Label: "TINYTEXT", Doc: "Tiny text (255 bytes)"},
			{Label: "TEXT", Doc: "Text (64KB)"},
			{Label: "MEDIUMTEXT", Doc: "Medium text (16MB)"},
			{Label: "LONGTEXT", Doc: "Long text (4GB)"},
			{Label: "BLOB", Doc: "BLOB (64KB)"},
			{Label: "DATE", Doc: "Date (YYYY-MM-DD)"},
			{Label: "TIME", Doc: "Time (HH:MM:SS)"},
			{Label: "DATETIME", Doc: "Date and time"},
			{Label: "TIMESTAMP", Doc: "Timestamp"},
			{Label: "YEAR", Doc: "Year (4 digits)"},
			{Label: "ENUM('a','b')", Doc: "Enumeration"},
			{Label: "SET('a','b')", Doc: "Set of values"},
			{Label: "JSON", Doc: "JSON document"},
		},
		Snippets: []sqlintel.Snippet{
			{Label: "crt", Body: "CREATE TABLE $1 (\n  id INT AUTO_INCREMENT PRIMARY KEY,\n  $2\n) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4", Doc: "Create table"},
			{Label: "idx", Body: "CREATE INDEX $1 ON $2 ($3)", Doc: "Create index"},
			{Label: "alt", Body: "ALTER TABLE $1 ADD COLUMN $2", Doc: "Add column"},
			{Label: "jn", Body: "JOIN $1 ON $2.$3 = $4.$5", Doc: "Join clause"},
			{Label: "lj", Body: "LEFT JOIN $1 ON $2.$3 = $4.$5", Doc: "Left join clause"},
		},
	}
}

func (p *Plugin) DataTypes() []core.DataTypeInfo {
	return []core.DataTypeInfo{
		{Name: "TINYINT", Description: "Very small integer (-128 to 127)", Category: core.CategoryNumeric},
		{Name: "SMALLINT", Description: "Small integer (-32768 to 32767)", Category: core.CategoryNumeric},
		{Name: "MEDIUMINT", Description: "Medium integer (-8388608 to 8388607)", Category: core.CategoryNumeric},
		{Name: "INT", Description: "Standard integer", Category: core.CategoryNumeric},
		{Name: "BIGINT", Description: "Large integer", Category: core.CategoryNumeric},
		{Name: "DECIMAL(10,2)", Description: "Fixed-point number", Category: core.CategoryNumeric},
		{Name: "FLOAT", Description: "Single-precision floating-point", Category: core.CategoryNumeric},
		{Name: "DOUBLE", Description: "Double-precision floating-point", Category: core.CategoryNumeric},
		{Name: "CHAR(255)", Description: "Fixed-length string", Category: core.CategoryString},
		{Name: "VARCHAR(255)", Description: "Variable-length string", Category: core.CategoryString},
		{Name: "TINYTEXT", Description: "Very small text (255 bytes)", Category: core.CategoryString},
		{Name: "TEXT", Description: "Text (65,535 bytes)", Category: core.CategoryString},
		{Name: "MEDIUMTEXT", Description: "Medium text (16MB)", Category: core.CategoryString},
		{Name: "LONGTEXT", Description: "Large text (4GB)", Category: core.CategoryString},
		{Name: "DATE", Description: "Date (YYYY-MM-DD)", Category: core.CategoryDateTime},
		{Name: "TIME", Description: "Time (HH:MM:SS)", Category: core.CategoryDateTime},
		{Name: "DATETIME", Description: "Date and time", Category: core.CategoryDateTime},
		{Name: "TIMESTAMP", Description: "Timestamp with timezone", Category: core.CategoryDateTime},
		{Name: "YEAR", Description: "Year (1901-2155)", Category: core.CategoryDateTime},
		{Name: "BINARY(255)", Description: "Fixed-length binary", Category: core.CategoryBinary},
		{Name: "VARBINARY(255)", Description: "Variable-length binary", Category: core.CategoryBinary},
		{Name: "BLOB", Description: "BLOB (65KB)", Category: core.CategoryBinary},
		{Name: "LONGBLOB", Description: "Large BLOB (4GB)", Category: core.CategoryBinary},
		{Name: "BOOLEAN", Description: "Boolean (TINYINT(1))", Category: core.CategoryBoolean},
		{Name: "JSON", Description: "JSON document", Category: core.CategoryOther},
		{Name: "ENUM('value1','value2')", Description: "Enumeration", Category: core.CategoryOther},
		{Name: "SET('value1','value2')", Description: "Set of values", Category: core.CategoryOther},
	}
}

func (p *Plugin) Charsets() []core.CharsetInfo {
	return []core.CharsetInfo{
		{Name: "utf8mb4", Description: "UTF-8 Unicode (4 bytes)", DefaultCollation: "utf8mb4_general_ci"},
		{Name: "utf8mb3", Description: "UTF-8 Unicode (3 bytes)", DefaultCollation: "utf8mb3_general_ci"},
		{Name: "latin1", Description: "cp1252 West European", DefaultCollation: "latin1_swedish_ci"},
		{Name: "ascii", Description: "US ASCII", DefaultCollation: "ascii_general_ci"},
		{Name: "binary", Description: "Binary pseudo charset", DefaultCollation: "binary"},
	}
}

func (p *Plugin) Collations(charset string) []core.CollationInfo {
	switch charset {
	case "utf8mb4":
		return []core.CollationInfo{
			{Name: "utf8mb4_general_ci", Charset: "utf8mb4", IsDefault: true},
			{Name: "utf8mb4_unicode_ci", Charset: "utf8mb4"},
			{Name: "utf8mb4_0900_ai_ci", Charset: "utf8mb4"},
			{Name: "utf8mb4_bin", Charset: "utf8mb4"},
		}
	case "utf8mb3":
		return []core.CollationInfo{
			{Name: "utf8mb3_general_ci", Charset: "utf8mb3", IsDefault: true},
			{Name: "utf8mb3_unicode_ci", Charset: "utf8mb3"},
			{Name: "utf8mb3_bin", Charset: "utf8mb3"},
		}
	case "latin1":
		return []core.CollationInfo{
			{Name: "latin1_swedish_ci", Charset: "latin1", IsDefault: true},
			{Name: "latin1_general_ci", Charset: "latin1"},
			{Name: "latin1_bin", Charset: "latin1"},
		}
	default:
		return nil
	}
}
