package state

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbforge-labs/dbforge/pkg/conn"
	"github.com/dbforge-labs/dbforge/pkg/core"
	"github.com/dbforge-labs/dbforge/pkg/plugin"
)

func newMockManager(t *testing.T, cfg core.ConnConfig) (*Manager, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	m := NewManager(nil)
	require.NoError(t, m.RegisterWithConnection(cfg, conn.NewSQLConnectionFromDB(db, nil)))
	return m, mock
}

func TestRegisterValidates(t *testing.T) {
	m := NewManager(nil)

	err := m.Register(core.ConnConfig{DatabaseType: core.SQLite})
	require.Error(t, err)
	assert.Equal(t, core.ConfigError, core.KindOf(err))

	err = m.Register(core.ConnConfig{ID: "c1", DatabaseType: core.DatabaseType("db2")})
	require.Error(t, err)
	var unknown *plugin.UnknownPluginError
	assert.ErrorAs(t, err, &unknown)

	require.NoError(t, m.Register(core.ConnConfig{ID: "c1", DatabaseType: core.SQLite}))
	cfg, err := m.Config("c1")
	require.NoError(t, err)
	assert.Equal(t, core.SQLite, cfg.DatabaseType)
}

func TestReregisterReplacesLiveConnection(t *testing.T) {
	cfg := core.ConnConfig{ID: "c1", DatabaseType: core.SQLite}
	m, mock := newMockManager(t, cfg)
	mock.ExpectClose()

	assert.True(t, m.Connected("c1"))
	require.NoError(t, m.Register(cfg))
	assert.False(t, m.Connected("c1"), "re-registration drops the live connection")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListTablesRoutesThroughPlugin(t *testing.T) {
	m, mock := newMockManager(t, core.ConnConfig{ID: "lite", DatabaseType: core.SQLite})

	mock.ExpectQuery("SELECT name FROM sqlite_master WHERE type='table'").WillReturnRows(
		sqlmock.NewRows([]string{"name"}).AddRow("users"),
	)

	tables, err := m.ListTables(context.Background(), "lite", "main", "")
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, "users", tables[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnknownConnection(t *testing.T) {
	m := NewManager(nil)

	_, err := m.ListTables(context.Background(), "nope", "", "")
	require.Error(t, err)
	assert.Equal(t, core.ConfigError, core.KindOf(err))
}

func TestDropTableBuildsDialectSQL(t *testing.T) {
	m, mock := newMockManager(t, core.ConnConfig{ID: "lite", DatabaseType: core.SQLite})

	mock.ExpectExec(`DROP TABLE IF EXISTS "old_logs"`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	res, err := m.DropTable(context.Background(), "lite", "", "old_logs")
	require.NoError(t, err)
	assert.Equal(t, "Object dropped successfully", res.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveTableDataAppliesStatements(t *testing.T) {
	m, mock := newMockManager(t, core.ConnConfig{ID: "lite", DatabaseType: core.SQLite})

	mock.ExpectQuery(`PRAGMA table_info\("users"\)`).WillReturnRows(
		sqlmock.NewRows([]string{"cid", "name", "type", "notnull", "dflt_value", "pk"}).
			AddRow(0, "id", "INTEGER", 1, nil, 1).
			AddRow(1, "name", "TEXT", 0, nil, 0),
	)
	mock.ExpectQuery(`PRAGMA index_list\("users"\)`).WillReturnRows(
		sqlmock.NewRows([]string{"seq", "name", "unique", "origin", "partial"}),
	)
	mock.ExpectExec(`DELETE FROM "users" WHERE "id" = '3'`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	id, name := "3", "carol"
	resp, err := m.SaveTableData(context.Background(), "lite", core.TableSaveRequest{
		Table: "users",
		Changes: []core.RowChange{
			{Kind: core.RowDeleted, Original: map[string]*string{"id": &id, "name": &name}},
		},
	})
	require.NoError(t, err)
	require.Len(t, resp.Statements, 1)
	assert.Equal(t, `DELETE FROM "users" WHERE "id" = '3';`, resp.Statements[0])
	assert.Equal(t, int64(1), resp.RowsAffected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveTableDataWithoutKeysLimitsToOneRow(t *testing.T) {
	m, mock := newMockManager(t, core.ConnConfig{ID: "lite", DatabaseType: core.SQLite})

	mock.ExpectQuery(`PRAGMA table_info\("logs"\)`).WillReturnRows(
		sqlmock.NewRows([]string{"cid", "name", "type", "notnull", "dflt_value", "pk"}).
			AddRow(0, "msg", "TEXT", 0, nil, 0),
	)
	mock.ExpectQuery(`PRAGMA index_list\("logs"\)`).WillReturnRows(
		sqlmock.NewRows([]string{"seq", "name", "unique", "origin", "partial"}),
	)
	mock.ExpectExec(`DELETE FROM "logs" WHERE rowid = \(SELECT rowid FROM "logs" WHERE "msg" = 'boot' LIMIT 1\)`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	msg := "boot"
	resp, err := m.SaveTableData(context.Background(), "lite", core.TableSaveRequest{
		Table: "logs",
		Changes: []core.RowChange{
			{Kind: core.RowDeleted, Original: map[string]*string{"msg": &msg}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.RowsAffected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDropDatabaseBuildsDialectSQL(t *testing.T) {
	m, mock := newMockManager(t, core.ConnConfig{ID: "my", DatabaseType: core.MySQL})

	mock.ExpectExec("DROP DATABASE IF EXISTS `staging`").
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := m.DropDatabase(context.Background(), "my", "staging")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListTriggersRoutesThroughPlugin(t *testing.T) {
	m, mock := newMockManager(t, core.ConnConfig{ID: "lite", DatabaseType: core.SQLite})

	mock.ExpectQuery("SELECT name, tbl_name, sql FROM sqlite_master WHERE type='trigger'").WillReturnRows(
		sqlmock.NewRows([]string{"name", "tbl_name", "sql"}).
			AddRow("audit_users", "users", "CREATE TRIGGER audit_users ..."),
	)

	triggers, err := m.ListTriggers(context.Background(), "lite", "main", "")
	require.NoError(t, err)
	require.Len(t, triggers, 1)
	assert.Equal(t, "audit_users", triggers[0].Name)
	assert.Equal(t, "users", triggers[0].Table)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListDatabasesDetailedRoutesThroughPlugin(t *testing.T) {
	m, _ := newMockManager(t, core.ConnConfig{ID: "lite", DatabaseType: core.SQLite})

	dbs, err := m.ListDatabasesDetailed(context.Background(), "lite")
	require.NoError(t, err)
	require.Len(t, dbs, 1)
	assert.Equal(t, "main", dbs[0].Name)
}

func TestCatalogFacadesOnEmptyCatalog(t *testing.T) {
	m, _ := newMockManager(t, core.ConnConfig{ID: "lite", DatabaseType: core.SQLite})
	ctx := context.Background()

	funcs, err := m.ListFunctions(ctx, "lite", "main", "")
	require.NoError(t, err)
	assert.Empty(t, funcs)

	procs, err := m.ListProcedures(ctx, "lite", "main", "")
	require.NoError(t, err)
	assert.Empty(t, procs)

	seqs, err := m.ListSequences(ctx, "lite", "main", "")
	require.NoError(t, err)
	assert.Empty(t, seqs)

	checks, err := m.ListTableChecks(ctx, "lite", "main", "", "users")
	require.NoError(t, err)
	assert.Empty(t, checks)
}

func TestCompletionInfoWithoutLiveConnection(t *testing.T) {
	m := NewManager(nil)
	require.NoError(t, m.Register(core.ConnConfig{ID: "pg", DatabaseType: core.PostgreSQL}))

	info, err := m.CompletionInfo("pg")
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.NotEmpty(t, info.Keywords)
}

func TestDisconnectAll(t *testing.T) {
	m, mock := newMockManager(t, core.ConnConfig{ID: "lite", DatabaseType: core.SQLite})
	mock.ExpectClose()

	m.DisconnectAll()
	assert.False(t, m.Connected("lite"))

	cfg, err := m.Config("lite")
	require.NoError(t, err)
	assert.Equal(t, "lite", cfg.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
