package core

import "fmt"

// DatabaseType identifies a supported database engine. It is the dispatch
// key for the plugin registry.
type DatabaseType string

const (
	MySQL      DatabaseType = "mysql"
	PostgreSQL DatabaseType = "postgres"
	MSSQL      DatabaseType = "mssql"
	SQLite     DatabaseType = "sqlite"
	Oracle     DatabaseType = "oracle"
)

// ParseDatabaseType maps a config string to a DatabaseType.
// Accepts the common aliases used in connection files.
func ParseDatabaseType(s string) (DatabaseType, error) {
	switch s {
	case "mysql", "mariadb":
		return MySQL, nil
	case "postgres", "postgresql", "pg":
		return PostgreSQL, nil
	case "mssql", "sqlserver":
		return MSSQL, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	case "oracle":
		return Oracle, nil
	default:
		return "", fmt.Errorf("unknown database type %q", s)
	}
}

// String returns the canonical name of the database type.
func (t DatabaseType) String() string { return string(t) }

// ConnConfig describes a registered database connection. It is immutable
// after registration; the password is treated as opaque and is never logged.
type ConnConfig struct {
	ID           string            `koanf:"id"`
	Name         string            `koanf:"name"`
	DatabaseType DatabaseType      `koanf:"type"`
	Host         string            `koanf:"host"`
	Port         uint16            `koanf:"port"`
	Username     string            `koanf:"username"`
	Password     string            `koanf:"password"`
	Database     string            `koanf:"database"`
	WorkspaceID  string            `koanf:"workspace_id"`
	ExtraParams  map[string]string `koanf:"params"`
}

// Param returns an extra connection parameter, or the fallback if unset.
func (c ConnConfig) Param(key, fallback string) string {
	if v, ok := c.ExtraParams[key]; ok && v != "" {
		return v
	}
	return fallback
}
