package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Save writes the configuration back to path in the same shape Load reads.
// Field keys are spelled out so the file round-trips through the koanf tags.
func Save(cfg *Config, path string) error {
	doc := map[string]any{
		"verbose":            cfg.Verbose,
		"output":             cfg.Output,
		"default_connection": cfg.DefaultConnection,
	}

	conns := make([]map[string]any, 0, len(cfg.Connections))
	for _, cc := range cfg.Connections {
		entry := map[string]any{
			"id":       cc.ID,
			"name":     cc.Name,
			"type":     cc.DatabaseType.String(),
			"host":     cc.Host,
			"port":     cc.Port,
			"username": cc.Username,
			"password": cc.Password,
			"database": cc.Database,
		}
		if cc.WorkspaceID != "" {
			entry["workspace_id"] = cc.WorkspaceID
		}
		if len(cc.ExtraParams) > 0 {
			entry["params"] = cc.ExtraParams
		}
		conns = append(conns, entry)
	}
	doc["connections"] = conns

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config file %s: %w", path, err)
	}
	return nil
}
