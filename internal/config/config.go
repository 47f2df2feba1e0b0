// Package config loads the dbforge configuration: defaults, an optional
// dbforge.yaml, DBFORGE_ environment variables, and CLI flags, in increasing
// precedence. It also persists and watches the connection definitions.
package config

import "github.com/dbforge-labs/dbforge/pkg/core"

// ConfigFileName is the primary config file name.
const ConfigFileName = "dbforge.yaml"

// ConfigFileNameAlt is the alternate config file name.
const ConfigFileNameAlt = "dbforge.yml"

// Config is the resolved application configuration.
type Config struct {
	// Verbose enables debug logging.
	Verbose bool `koanf:"verbose"`
	// Output selects the rendering style for command results: table, csv,
	// json.
	Output string `koanf:"output"`
	// DefaultConnection is the connection id used when a command does not
	// name one.
	DefaultConnection string `koanf:"default_connection"`
	// Connections are the registered database connections.
	Connections []core.ConnConfig `koanf:"connections"`
}

// Connection returns the named connection, or the default one when name is
// empty.
func (c *Config) Connection(name string) (core.ConnConfig, bool) {
	if name == "" {
		name = c.DefaultConnection
	}
	for _, cc := range c.Connections {
		if cc.ID == name || cc.Name == name {
			return cc, true
		}
	}
	return core.ConnConfig{}, false
}
