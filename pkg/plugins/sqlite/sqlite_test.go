package sqlite

import (
	"context"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbforge-labs/dbforge/pkg/conn"
	"github.com/dbforge-labs/dbforge/pkg/core"
	"github.com/dbforge-labs/dbforge/pkg/plugin"
)

func assertContainsInOrder(t *testing.T, s string, markers ...string) {
	t.Helper()
	rest := s
	for _, m := range markers {
		i := strings.Index(rest, m)
		require.GreaterOrEqual(t, i, 0, "missing %q in:\n%s", m, s)
		rest = rest[i+len(m):]
	}
}

func TestPlugin_Registered(t *testing.T) {
	p, err := plugin.Get(core.SQLite)
	require.NoError(t, err)
	assert.Equal(t, core.SQLite, p.Type())
	assert.Equal(t, "sqlite", p.DriverName())
	assert.False(t, p.SupportsSchemas())
	assert.False(t, p.SupportsSequences())
}

func TestDSN(t *testing.T) {
	p := New()

	dsn, err := p.DSN(core.ConnConfig{Database: "/data/app.db"})
	require.NoError(t, err)
	assert.Equal(t, "/data/app.db", dsn)

	dsn, err = p.DSN(core.ConnConfig{})
	require.NoError(t, err)
	assert.Equal(t, ":memory:", dsn)
}

func TestDatabaseStatementsAreInformational(t *testing.T) {
	p := New()

	sql, err := p.BuildCreateDatabaseSQL(core.CreateDatabaseRequest{Name: "app"})
	require.NoError(t, err)
	assert.Equal(t, "-- SQLite: database is created when opening a file", sql)

	sql, err = p.BuildModifyDatabaseSQL(core.ModifyDatabaseRequest{Name: "app"})
	require.NoError(t, err)
	assert.Equal(t, "-- SQLite: database modification not supported", sql)

	assert.Equal(t, "-- SQLite: delete the database file to drop the database",
		p.BuildDropDatabaseSQL("app"))
}

func TestSchemaStatementsUnsupported(t *testing.T) {
	p := New()

	_, err := p.BuildCreateSchemaSQL(core.CreateSchemaRequest{Name: "x"})
	require.Error(t, err)
	assert.Equal(t, core.UnsupportedOperation, core.KindOf(err))

	_, err = p.BuildDropSchemaSQL("x")
	require.Error(t, err)
	assert.Equal(t, core.UnsupportedOperation, core.KindOf(err))
}

func TestBuildTableStatements(t *testing.T) {
	p := New()

	assert.Equal(t, `DROP TABLE IF EXISTS "users";`, p.BuildDropTableSQL("", "users"))
	assert.Equal(t, `DELETE FROM "users";`, p.BuildTruncateTableSQL("", "users"))
	assert.Equal(t, `DROP VIEW IF EXISTS "v_users";`, p.BuildDropViewSQL("", "v_users"))

	rename, err := p.BuildRenameTableSQL("", "users", "customers")
	require.NoError(t, err)
	assert.Equal(t, `ALTER TABLE "users" RENAME TO "customers";`, rename)
}

func TestBuildAlterTableSQL_AdditionsStayInPlace(t *testing.T) {
	p := New()

	original := core.TableDesign{
		Name: "users",
		Columns: []core.ColumnDefinition{
			{Name: "id", DataType: "INTEGER", IsPrimaryKey: true},
		},
	}
	updated := core.TableDesign{
		Name: "users",
		Columns: []core.ColumnDefinition{
			{Name: "id", DataType: "INTEGER", IsPrimaryKey: true},
			{Name: "email", DataType: "TEXT", Nullable: true},
		},
	}

	sql, err := p.BuildAlterTableSQL(original, updated)
	require.NoError(t, err)
	assert.Equal(t, `ALTER TABLE "users" ADD COLUMN "email" TEXT;`, sql)
	assert.NotContains(t, sql, "_dg_tmp")
}

func TestBuildAlterTableSQL_ModifyRecreatesTable(t *testing.T) {
	p := New()

	original := core.TableDesign{
		Name: "users",
		Columns: []core.ColumnDefinition{
			{Name: "id", DataType: "INTEGER", IsPrimaryKey: true},
			{Name: "name", DataType: "VARCHAR", Length: 50, Nullable: true},
		},
	}
	updated := core.TableDesign{
		Name: "users",
		Columns: []core.ColumnDefinition{
			{Name: "id", DataType: "INTEGER", IsPrimaryKey: true},
			{Name: "name", DataType: "VARCHAR", Length: 100, Nullable: true},
		},
	}

	sql, err := p.BuildAlterTableSQL(original, updated)
	require.NoError(t, err)
	assertContainsInOrder(t, sql,
		`create table "users_dg_tmp"`,
		`"name" VARCHAR(100)`,
		`insert into "users_dg_tmp"("id", "name")`,
		`select "id", "name"`,
		`from "users";`,
		`drop table "users";`,
		`alter table "users_dg_tmp" rename to "users";`,
	)
}

func TestBuildAlterTableSQL_DropColumnRecreates(t *testing.T) {
	p := New()

	original := core.TableDesign{
		Name: "logs",
		Columns: []core.ColumnDefinition{
			{Name: "id", DataType: "INTEGER", IsPrimaryKey: true},
			{Name: "level", DataType: "TEXT", Nullable: true},
			{Name: "message", DataType: "TEXT", Nullable: true},
		},
	}
	updated := core.TableDesign{
		Name: "logs",
		Columns: []core.ColumnDefinition{
			{Name: "id", DataType: "INTEGER", IsPrimaryKey: true},
			{Name: "message", DataType: "TEXT", Nullable: true},
		},
	}

	sql, err := p.BuildAlterTableSQL(original, updated)
	require.NoError(t, err)
	assertContainsInOrder(t, sql,
		`create table "logs_dg_tmp"`,
		`insert into "logs_dg_tmp"("id", "message")`,
		`drop table "logs";`,
		`alter table "logs_dg_tmp" rename to "logs";`,
	)
	assert.NotContains(t, sql, `"level"`)
}

func TestBuildAlterTableSQL_RecreateRebuildsIndexes(t *testing.T) {
	p := New()

	original := core.TableDesign{
		Name: "users",
		Columns: []core.ColumnDefinition{
			{Name: "id", DataType: "INTEGER", IsPrimaryKey: true},
			{Name: "email", DataType: "TEXT", Nullable: true},
		},
	}
	updated := core.TableDesign{
		Name: "users",
		Columns: []core.ColumnDefinition{
			{Name: "id", DataType: "INTEGER", IsPrimaryKey: true},
			{Name: "email", DataType: "TEXT", Nullable: false},
		},
		Indexes: []core.IndexDefinition{
			{Name: "uq_users_email", Columns: []string{"email"}, IsUnique: true},
		},
	}

	sql, err := p.BuildAlterTableSQL(original, updated)
	require.NoError(t, err)
	assertContainsInOrder(t, sql,
		`alter table "users_dg_tmp" rename to "users";`,
		`create unique index "uq_users_email" on "users" ("email");`,
	)
}

func TestBuildCreateTableSQL_InlinePrimaryKey(t *testing.T) {
	p := New()

	sql, err := p.BuildCreateTableSQL(core.TableDesign{
		Name: "users",
		Columns: []core.ColumnDefinition{
			{Name: "id", DataType: "INTEGER", IsPrimaryKey: true, IsAutoIncrement: true},
			{Name: "email", DataType: "TEXT", Nullable: true},
		},
		Indexes: []core.IndexDefinition{
			{Name: "ux_email", Columns: []string{"email"}, IsUnique: true},
		},
	})
	require.NoError(t, err)
	assert.Contains(t, sql, `"id" INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT`)
	assert.NotContains(t, sql, `PRIMARY KEY ("id")`,
		"a single-column key stays on the column definition")
	assert.Contains(t, sql,
		`CREATE UNIQUE INDEX "ux_email" ON "users" ("email") WHERE "email" IS NOT NULL;`,
		"unique indexes over nullable columns exclude NULLs")
}

func TestBuildCreateTableSQL_CompositeKeyStaysTableLevel(t *testing.T) {
	p := New()

	sql, err := p.BuildCreateTableSQL(core.TableDesign{
		Name: "memberships",
		Columns: []core.ColumnDefinition{
			{Name: "user_id", DataType: "INTEGER", IsPrimaryKey: true},
			{Name: "group_id", DataType: "INTEGER", IsPrimaryKey: true},
		},
	})
	require.NoError(t, err)
	assert.Contains(t, sql, `PRIMARY KEY ("user_id", "group_id")`)
	assert.NotContains(t, sql, `"user_id" INTEGER NOT NULL PRIMARY KEY`)
}

func TestBuildAlterTableSQL_RecreateKeepsInlinePrimaryKey(t *testing.T) {
	p := New()

	original := core.TableDesign{
		Name: "users",
		Columns: []core.ColumnDefinition{
			{Name: "id", DataType: "INTEGER", IsPrimaryKey: true, IsAutoIncrement: true},
			{Name: "email", DataType: "TEXT", Nullable: true},
			{Name: "bio", DataType: "TEXT", Nullable: true},
		},
	}
	updated := core.TableDesign{
		Name: "users",
		Columns: []core.ColumnDefinition{
			{Name: "id", DataType: "INTEGER", IsPrimaryKey: true, IsAutoIncrement: true},
			{Name: "email", DataType: "TEXT", Nullable: true},
		},
		Indexes: []core.IndexDefinition{
			{Name: "uq_users_email", Columns: []string{"email"}, IsUnique: true},
		},
	}

	sql, err := p.BuildAlterTableSQL(original, updated)
	require.NoError(t, err)
	assertContainsInOrder(t, sql,
		`create table "users_dg_tmp"`,
		`"id" INTEGER not null primary key autoincrement`,
		`alter table "users_dg_tmp" rename to "users";`,
		`create unique index "uq_users_email" on "users" ("email") where "email" is not null;`,
	)
	assert.NotContains(t, sql, `primary key ("id")`,
		"autoincrement is only legal on the column definition")
}

func TestBuildAlterTableSQL_NoChanges(t *testing.T) {
	p := New()

	design := core.TableDesign{
		Name: "users",
		Columns: []core.ColumnDefinition{
			{Name: "id", DataType: "INTEGER", IsPrimaryKey: true},
		},
	}

	sql, err := p.BuildAlterTableSQL(design, design)
	require.NoError(t, err)
	assert.Equal(t, "-- No changes detected", sql)
}

func TestListTables(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	c := conn.NewSQLConnectionFromDB(db, nil)

	mock.ExpectQuery("SELECT name FROM sqlite_master WHERE type='table'").WillReturnRows(
		sqlmock.NewRows([]string{"name"}).AddRow("orders").AddRow("users"),
	)

	tables, err := New().ListTables(context.Background(), c, "main", "")
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Equal(t, "orders", tables[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListColumnsFromTableInfo(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	c := conn.NewSQLConnectionFromDB(db, nil)

	mock.ExpectQuery(`PRAGMA table_info`).WillReturnRows(
		sqlmock.NewRows([]string{"cid", "name", "type", "notnull", "dflt_value", "pk"}).
			AddRow("0", "id", "INTEGER", "1", nil, "1").
			AddRow("1", "name", "TEXT", "0", "'anon'", "0"),
	)

	columns, err := New().ListColumns(context.Background(), c, "main", "", "users")
	require.NoError(t, err)
	require.Len(t, columns, 2)

	assert.Equal(t, "id", columns[0].Name)
	assert.False(t, columns[0].Nullable)
	assert.True(t, columns[0].IsPrimaryKey)

	assert.Equal(t, "name", columns[1].Name)
	assert.True(t, columns[1].Nullable)
	assert.False(t, columns[1].IsPrimaryKey)
	assert.True(t, columns[1].HasDefault)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListIndexesResolvesColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	c := conn.NewSQLConnectionFromDB(db, nil)

	mock.ExpectQuery(`PRAGMA index_list`).WillReturnRows(
		sqlmock.NewRows([]string{"seq", "name", "unique", "origin", "partial"}).
			AddRow("0", "uq_users_email", "1", "u", "0"),
	)
	mock.ExpectQuery(`PRAGMA index_info`).WillReturnRows(
		sqlmock.NewRows([]string{"seqno", "cid", "name"}).
			AddRow("0", "2", "email"),
	)

	indexes, err := New().ListIndexes(context.Background(), c, "main", "", "users")
	require.NoError(t, err)
	require.Len(t, indexes, 1)
	assert.Equal(t, "uq_users_email", indexes[0].Name)
	assert.True(t, indexes[0].IsUnique)
	assert.Equal(t, []string{"email"}, indexes[0].Columns)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBuildTableChangeSQLNeverQualifies(t *testing.T) {
	p := New()
	v := "3"

	statements, err := p.BuildTableChangeSQL(core.TableSaveRequest{
		Database:    "main",
		Table:       "users",
		PrimaryKeys: []string{"id"},
		Changes: []core.RowChange{
			{Kind: core.RowDeleted, Original: map[string]*string{"id": &v}},
		},
	})
	require.NoError(t, err)
	require.Len(t, statements, 1)
	assert.Equal(t, `DELETE FROM "users" WHERE "id" = '3';`, statements[0])
}

func TestBuildTableChangeSQLUnkeyedUsesRowid(t *testing.T) {
	p := New()
	v := "3"

	statements, err := p.BuildTableChangeSQL(core.TableSaveRequest{
		Table: "users",
		Changes: []core.RowChange{
			{Kind: core.RowDeleted, Original: map[string]*string{"id": &v}},
		},
	})
	require.NoError(t, err)
	require.Len(t, statements, 1)
	assert.Equal(t,
		`DELETE FROM "users" WHERE rowid = (SELECT rowid FROM "users" WHERE "id" = '3' LIMIT 1);`,
		statements[0])
}

func TestCompletionInfoIsDialectOnly(t *testing.T) {
	info := New().CompletionInfo()
	for _, kw := range info.Keywords {
		assert.NotEqual(t, "SELECT", kw.Label)
	}
	labels := make([]string, 0, len(info.Keywords))
	for _, kw := range info.Keywords {
		labels = append(labels, kw.Label)
	}
	assert.Contains(t, labels, "PRAGMA")
}
