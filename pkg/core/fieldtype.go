package core

import "strings"

// FieldType is the engine-agnostic normalization of a column's data type,
// used for display and edit-widget selection.
type FieldType string

const (
	FieldNumeric    FieldType = "numeric"
	FieldString     FieldType = "string"
	FieldDateTime   FieldType = "datetime"
	FieldBinary     FieldType = "binary"
	FieldBoolean    FieldType = "boolean"
	FieldStructured FieldType = "structured"
	FieldOther      FieldType = "other"
)

// FieldTypeFromDBType normalizes a raw database type name. Length suffixes
// like "(255)" are ignored.
func FieldTypeFromDBType(dbType string) FieldType {
	base := strings.ToUpper(dbType)
	if i := strings.IndexByte(base, '('); i >= 0 {
		base = base[:i]
	}
	base = strings.TrimSpace(base)

	switch base {
	case "INT", "INTEGER", "BIGINT", "SMALLINT", "TINYINT", "MEDIUMINT",
		"SERIAL", "BIGSERIAL", "SMALLSERIAL", "NUMBER",
		"DECIMAL", "NUMERIC", "FLOAT", "DOUBLE", "REAL", "DOUBLE PRECISION", "MONEY":
		return FieldNumeric
	case "BOOL", "BOOLEAN", "BIT":
		return FieldBoolean
	case "DATE", "TIME", "DATETIME", "DATETIME2", "TIMESTAMP", "TIMESTAMPTZ", "INTERVAL":
		return FieldDateTime
	case "CHAR", "VARCHAR", "VARCHAR2", "NCHAR", "NVARCHAR", "NVARCHAR2",
		"CHARACTER VARYING", "CHARACTER",
		"TEXT", "LONGTEXT", "MEDIUMTEXT", "TINYTEXT", "CLOB", "NCLOB", "NTEXT", "UUID":
		return FieldString
	case "BLOB", "LONGBLOB", "MEDIUMBLOB", "TINYBLOB", "BINARY", "VARBINARY",
		"BYTEA", "IMAGE", "RAW":
		return FieldBinary
	case "JSON", "JSONB", "XML":
		return FieldStructured
	default:
		return FieldOther
	}
}
