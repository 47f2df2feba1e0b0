package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbforge-labs/dbforge/pkg/core"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dbforge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.NoError(t, err)
	assert.Equal(t, "table", cfg.Output)
	assert.False(t, cfg.Verbose)
	assert.Empty(t, cfg.Connections)
}

func TestLoadConnections(t *testing.T) {
	path := writeConfig(t, `
default_connection: local
connections:
  - id: local
    name: Local Postgres
    type: postgresql
    host: localhost
    port: 5432
    username: app
    password: secret
    database: shop
  - name: scratch
    type: sqlite3
    database: /tmp/scratch.db
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	require.Len(t, cfg.Connections, 2)

	pg := cfg.Connections[0]
	assert.Equal(t, core.PostgreSQL, pg.DatabaseType, "alias postgresql resolves")
	assert.Equal(t, uint16(5432), pg.Port)

	lite := cfg.Connections[1]
	assert.Equal(t, core.SQLite, lite.DatabaseType, "alias sqlite3 resolves")
	assert.NotEmpty(t, lite.ID, "missing id is generated")

	got, ok := cfg.Connection("")
	require.True(t, ok, "default connection resolves")
	assert.Equal(t, "local", got.ID)
}

func TestLoadRejectsUnknownType(t *testing.T) {
	path := writeConfig(t, `
connections:
  - id: bad
    name: legacy
    type: db2
`)

	_, err := Load(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db2")
}

func TestLoadRejectsDuplicateIDs(t *testing.T) {
	path := writeConfig(t, `
connections:
  - id: same
    type: sqlite
  - id: same
    type: sqlite
`)

	_, err := Load(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate connection id")
}

func TestLoadExpandsEnvVars(t *testing.T) {
	t.Setenv("DBFORGE_TEST_PASSWORD", "s3cret")
	path := writeConfig(t, `
connections:
  - id: c1
    type: mysql
    host: db.local
    password: ${DBFORGE_TEST_PASSWORD}
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Connections[0].Password)
}

func TestFlagsOverrideFile(t *testing.T) {
	path := writeConfig(t, `
output: table
default_connection: local
connections:
  - id: local
    type: sqlite
  - id: other
    type: sqlite
`)

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("output", "table", "")
	flags.String("connection", "", "")
	require.NoError(t, flags.Parse([]string{"--output=json", "--connection=other"}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Output)
	assert.Equal(t, "other", cfg.DefaultConnection)
}

func TestSaveRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dbforge.yaml")
	original := &Config{
		Output:            "table",
		DefaultConnection: "c1",
		Connections: []core.ConnConfig{
			{
				ID: "c1", Name: "main", DatabaseType: core.MySQL,
				Host: "db.local", Port: 3306, Username: "root",
				Database:    "app",
				ExtraParams: map[string]string{"charset": "utf8mb4"},
			},
		},
	}

	require.NoError(t, Save(original, path))

	loaded, err := Load(path, nil)
	require.NoError(t, err)
	require.Len(t, loaded.Connections, 1)
	assert.Equal(t, original.Connections[0].ID, loaded.Connections[0].ID)
	assert.Equal(t, core.MySQL, loaded.Connections[0].DatabaseType)
	assert.Equal(t, "utf8mb4", loaded.Connections[0].ExtraParams["charset"])
	assert.Equal(t, "c1", loaded.DefaultConnection)
}
