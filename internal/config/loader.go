package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/dbforge-labs/dbforge/pkg/core"
)

// DefaultOutput is the rendering style used when none is configured.
const DefaultOutput = "table"

var configFileUsed string

// findConfigFile picks the config file to use.
// Priority: explicit path > dbforge.yaml > dbforge.yml.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat(ConfigFileName); err == nil {
		return ConfigFileName
	}
	if _, err := os.Stat(ConfigFileNameAlt); err == nil {
		return ConfigFileNameAlt
	}
	return ""
}

// Load resolves the configuration.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"verbose": false,
		"output":  DefaultOutput,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	configFileUsed = findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configFileUsed, err)
		}
	}

	// DBFORGE_DEFAULT_CONNECTION -> default_connection
	if err := k.Load(env.Provider("DBFORGE_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "DBFORGE_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			// --connection names the default for this invocation.
			if key == "connection" {
				return "default_connection", posflag.FlagVal(flags, f)
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := normalizeConnections(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// normalizeConnections resolves type aliases, expands ${VAR} references in
// credentials, and assigns ids to connections that lack one.
func normalizeConnections(cfg *Config) error {
	seen := make(map[string]struct{}, len(cfg.Connections))
	for i := range cfg.Connections {
		cc := &cfg.Connections[i]

		dbType, err := core.ParseDatabaseType(string(cc.DatabaseType))
		if err != nil {
			return fmt.Errorf("connection %q: %w", cc.Name, err)
		}
		cc.DatabaseType = dbType

		cc.Host = expandEnvVars(cc.Host)
		cc.Username = expandEnvVars(cc.Username)
		cc.Password = expandEnvVars(cc.Password)
		cc.Database = expandEnvVars(cc.Database)

		if cc.ID == "" {
			cc.ID = uuid.NewString()
		}
		if _, dup := seen[cc.ID]; dup {
			return fmt.Errorf("duplicate connection id %q", cc.ID)
		}
		seen[cc.ID] = struct{}{}
	}
	return nil
}

// ConfigFileUsed returns the path of the loaded config file, if any.
func ConfigFileUsed() string {
	return configFileUsed
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR} references with environment values, leaving
// unresolved references intact.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := match[2 : len(match)-1]
		if val := os.Getenv(name); val != "" {
			return val
		}
		return match
	})
}
