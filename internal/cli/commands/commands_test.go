package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbforge-labs/dbforge/internal/config"
	"github.com/dbforge-labs/dbforge/internal/state"
	"github.com/dbforge-labs/dbforge/pkg/conn"
	"github.com/dbforge-labs/dbforge/pkg/core"
	"github.com/dbforge-labs/dbforge/pkg/sqlintel"

	_ "github.com/dbforge-labs/dbforge/pkg/plugins/sqlite"
)

func sampleResult() *core.QueryResult {
	name := "Ada"
	return &core.QueryResult{
		Columns: []string{"id", "name"},
		Rows: [][]*string{
			{strp("1"), &name},
			{strp("2"), nil},
		},
	}
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderResult(&buf, sampleResult(), "table"))

	out := buf.String()
	assert.Contains(t, out, "id")
	assert.Contains(t, out, "Ada")
	assert.Contains(t, out, "NULL")
	assert.Contains(t, out, "(2 rows")
}

func TestRenderTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderResult(&buf, &core.QueryResult{Columns: []string{"id"}}, "table"))
	assert.Equal(t, "(0 rows)\n", buf.String())
}

func TestRenderCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderResult(&buf, sampleResult(), "csv"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,name", lines[0])
	assert.Equal(t, "2,NULL", lines[2])
}

func TestRenderMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderResult(&buf, sampleResult(), "md"))

	assert.Contains(t, buf.String(), "| id | name |")
	assert.Contains(t, buf.String(), "| --- | --- |")
	assert.Contains(t, buf.String(), "| 1 | Ada |")
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderResult(&buf, sampleResult(), "json"))

	var rows []map[string]*string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "Ada", *rows[0]["name"])
	assert.Nil(t, rows[1]["name"])
}

func TestRenderScriptMixed(t *testing.T) {
	var buf bytes.Buffer
	results := []core.SQLResult{
		{Exec: &core.ExecResult{SQL: "UPDATE t SET x = 1", RowsAffected: 3, Message: "Updated 3 row(s)"}},
		{Err: &core.SQLErrorInfo{SQL: "DROP TABLE missing", Message: "no such table"}},
	}
	require.NoError(t, renderScript(&buf, results, "table"))

	assert.Contains(t, buf.String(), "Updated 3 row(s) (3 row(s) affected")
	assert.Contains(t, buf.String(), "Error: no such table")
}

func TestRuntimeConnectionResolution(t *testing.T) {
	one := core.ConnConfig{ID: "a", Name: "First", DatabaseType: core.SQLite}
	two := core.ConnConfig{ID: "b", Name: "Second", DatabaseType: core.SQLite}

	t.Run("default connection wins", func(t *testing.T) {
		rt := &Runtime{Config: &config.Config{
			DefaultConnection: "b",
			Connections:       []core.ConnConfig{one, two},
		}}
		got, err := rt.Connection()
		require.NoError(t, err)
		assert.Equal(t, "b", got.ID)
	})

	t.Run("single connection is implicit", func(t *testing.T) {
		rt := &Runtime{Config: &config.Config{Connections: []core.ConnConfig{one}}}
		got, err := rt.Connection()
		require.NoError(t, err)
		assert.Equal(t, "a", got.ID)
	})

	t.Run("ambiguous without default", func(t *testing.T) {
		rt := &Runtime{Config: &config.Config{Connections: []core.ConnConfig{one, two}}}
		_, err := rt.Connection()
		require.Error(t, err)
	})

	t.Run("none configured", func(t *testing.T) {
		rt := &Runtime{Config: &config.Config{}}
		_, err := rt.Connection()
		require.Error(t, err)
	})
}

// newMockRuntime wires a runtime whose single connection runs against a
// sqlmock database.
func newMockRuntime(t *testing.T) (*Runtime, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cfg := core.ConnConfig{ID: "mock", Name: "Mock", DatabaseType: core.SQLite}
	manager := state.NewManager(nil)
	require.NoError(t, manager.RegisterWithConnection(cfg, conn.NewSQLConnectionFromDB(db, nil)))

	rt := &Runtime{
		Config: &config.Config{
			Output:            "table",
			DefaultConnection: "mock",
			Connections:       []core.ConnConfig{cfg},
		},
		Manager: manager,
	}
	return rt, mock
}

func TestQueryCommandRendersRows(t *testing.T) {
	rt, mock := newMockRuntime(t)
	mock.ExpectQuery("SELECT id FROM users").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2))

	cmd := NewQueryCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"SELECT id FROM users"})

	require.NoError(t, cmd.ExecuteContext(WithRuntime(context.Background(), rt)))
	assert.Contains(t, out.String(), "(2 rows")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryCommandScriptError(t *testing.T) {
	rt, mock := newMockRuntime(t)
	mock.ExpectExec("DELETE FROM ghosts").
		WillReturnError(assert.AnError)

	cmd := NewQueryCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"DELETE FROM ghosts"})

	err := cmd.ExecuteContext(WithRuntime(context.Background(), rt))
	require.Error(t, err)
	assert.Contains(t, out.String(), "Error:")
}

func TestSQLCompleterSuggestsTables(t *testing.T) {
	engine := sqlintel.NewEngine(sqlintel.Schema{
		Tables: []sqlintel.DocEntry{{Label: "users"}, {Label: "orders"}},
	})
	c := &sqlCompleter{engine: engine}

	line := []rune("SELECT * FROM us")
	candidates, wordLen := c.Do(line, len(line))

	require.NotEmpty(t, candidates)
	assert.Equal(t, 2, wordLen, "completes the typed word 'us'")
	assert.Equal(t, "ers", string(candidates[0]), "suffix of users after the typed prefix")
}

func TestSQLCompleterSkipsSnippets(t *testing.T) {
	engine := &sqlintel.Engine{}
	c := &sqlCompleter{engine: engine}

	// Empty statement start offers snippets among others; none may leak
	// $n placeholders into the shell.
	candidates, _ := c.Do([]rune(""), 0)
	for _, cand := range candidates {
		assert.NotContains(t, string(cand), "$1")
	}
}
