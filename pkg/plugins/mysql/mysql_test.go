package mysql

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

// assertContainsInOrder checks that every marker appears in s, each after the
// previous one.
func assertContainsInOrder(t *testing.T, s string, markers ...string) {
	t.Helper()
	pos := 0
	for _, m := range markers {
		i := strings.Index(s[pos:], m)
		require.GreaterOrEqual(t, i, 0, "expected %q after offset %d in:\n%s", m, pos, s)
		pos += i + len(m)
	}
}

func TestPlugin_Registered(t *testing.T) {
	p, err := plugin.Get(core.MySQL)
	require.NoError(t, err)
	assert.Equal(t, core.MySQL, p.Type())
	assert.Equal(t, "mysql", p.DriverName())
}

func TestDSN(t *testing.T) {
	p := New()

	dsn, err := p.DSN(core.ConnConfig{
		Host: "db.local", Port: 3307, Username: "root", Password: "s3cret", Database: "app",
	})
	require.NoError(t, err)
	assert.Contains(t, dsn, "root:s3cret@tcp(db.local:3307)/app")
	assert.Contains(t, dsn, "charset=utf8mb4")
	assert.Contains(t, dsn, "parseTime=true")

	_, err = p.DSN(core.ConnConfig{})
	require.Error(t, err)
	assert.Equal(t, core.ConfigError, core.KindOf(err))
}

func TestBuildCreateTableSQL(t *testing.T) {
	p := New()

	design := core.TableDesign{
		Name: "users",
		Columns: []core.ColumnDefinition{
			{Name: "id", DataType: "INT", Nullable: false, IsPrimaryKey: true, IsAutoIncrement: true},
			{Name: "name", DataType: "VARCHAR", Length: 100, Nullable: true},
		},
		Options: core.TableOptions{
			Engine:    "InnoDB",
			Charset:   "utf8mb4",
			Collation: "utf8mb4_unicode_ci",
			Comment:   "Product table",
		},
	}

	sql, err := p.BuildCreateTableSQL(design)
	require.NoError(t, err)

	assertContainsInOrder(t, sql,
		"CREATE TABLE `users`",
		"`id` INT NOT NULL AUTO_INCREMENT",
		"`name` VARCHAR(100)",
		"PRIMARY KEY",
		"ENGINE=InnoDB",
		"DEFAULT CHARSET=utf8mb4",
		"COLLATE=utf8mb4_unicode_ci",
		"COMMENT='Product table'",
	)
}

func TestBuildCreateTableSQLKeepsIndexesInline(t *testing.T) {
	p := New()

	sql, err := p.BuildCreateTableSQL(core.TableDesign{
		Name: "users",
		Columns: []core.ColumnDefinition{
			{Name: "id", DataType: "INT", IsPrimaryKey: true},
			{Name: "email", DataType: "VARCHAR", Length: 255, Nullable: true},
		},
		Indexes: []core.IndexDefinition{
			{Name: "ux_email", Columns: []string{"email"}, IsUnique: true},
		},
	})
	require.NoError(t, err)
	assert.Contains(t, sql, "UNIQUE INDEX `ux_email` (`email`)")
	assert.NotContains(t, sql, "CREATE UNIQUE INDEX")
}

func TestBuildAlterTableSQL(t *testing.T) {
	p := New()

	original := core.TableDesign{
		Name: "users",
		Columns: []core.ColumnDefinition{
			{Name: "id", DataType: "INT", IsPrimaryKey: true},
			{Name: "name", DataType: "VARCHAR", Length: 50, Nullable: true},
		},
	}

	t.Run("no changes", func(t *testing.T) {
		sql, err := p.BuildAlterTableSQL(original, original)
		require.NoError(t, err)
		assert.Equal(t, "-- No changes detected", sql)
	})

	t.Run("modify column", func(t *testing.T) {
		updated := original
		updated.Columns = []core.ColumnDefinition{
			original.Columns[0],
			{Name: "name", DataType: "VARCHAR", Length: 100, Nullable: true},
		}
		sql, err := p.BuildAlterTableSQL(original, updated)
		require.NoError(t, err)
		assert.Equal(t, "ALTER TABLE `users` MODIFY COLUMN `name` VARCHAR(100);", sql)
	})

	t.Run("add column positions", func(t *testing.T) {
		updated := original
		updated.Columns = []core.ColumnDefinition{
			{Name: "tenant", DataType: "INT", Nullable: true},
			original.Columns[0],
			original.Columns[1],
			{Name: "email", DataType: "VARCHAR", Length: 255, Nullable: true},
		}
		sql, err := p.BuildAlterTableSQL(original, updated)
		require.NoError(t, err)
		assert.Contains(t, sql, "ADD COLUMN `tenant` INT FIRST;")
		assert.Contains(t, sql, "ADD COLUMN `email` VARCHAR(255) AFTER `name`;")
	})

	t.Run("drop column", func(t *testing.T) {
		updated := original
		updated.Columns = original.Columns[:1]
		sql, err := p.BuildAlterTableSQL(original, updated)
		require.NoError(t, err)
		assert.Equal(t, "ALTER TABLE `users` DROP COLUMN `name`;", sql)
	})

	t.Run("index changes", func(t *testing.T) {
		withIndex := original
		withIndex.Indexes = []core.IndexDefinition{
			{Name: "idx_name", Columns: []string{"name"}, IsUnique: true},
		}
		sql, err := p.BuildAlterTableSQL(original, withIndex)
		require.NoError(t, err)
		assert.Equal(t, "ALTER TABLE `users` ADD UNIQUE INDEX `idx_name` (`name`);", sql)

		sql, err = p.BuildAlterTableSQL(withIndex, original)
		require.NoError(t, err)
		assert.Equal(t, "ALTER TABLE `users` DROP INDEX `idx_name`;", sql)
	})

	t.Run("table options", func(t *testing.T) {
		updated := original
		updated.Options = core.TableOptions{Engine: "MyISAM", Comment: "archive"}
		sql, err := p.BuildAlterTableSQL(original, updated)
		require.NoError(t, err)
		assert.Equal(t, "ALTER TABLE `users` ENGINE=MyISAM COMMENT='archive';", sql)
	})
}

func TestBuildDDLStatements(t *testing.T) {
	p := New()

	sql, err := p.BuildCreateDatabaseSQL(core.CreateDatabaseRequest{
		Name: "shop", Charset: "utf8mb4", Collation: "utf8mb4_unicode_ci",
	})
	require.NoError(t, err)
	assert.Equal(t, "CREATE DATABASE `shop` CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci;", sql)

	assert.Equal(t, "DROP DATABASE IF EXISTS `shop`;", p.BuildDropDatabaseSQL("shop"))
	assert.Equal(t, "DROP TABLE IF EXISTS `shop`.`users`;", p.BuildDropTableSQL("shop", "users"))
	assert.Equal(t, "TRUNCATE TABLE `users`;", p.BuildTruncateTableSQL("", "users"))
	assert.Equal(t, "DROP VIEW IF EXISTS `v_users`;", p.BuildDropViewSQL("", "v_users"))

	rename, err := p.BuildRenameTableSQL("", "users", "customers")
	require.NoError(t, err)
	assert.Equal(t, "RENAME TABLE `users` TO `customers`;", rename)

	_, err = p.BuildCreateSchemaSQL(core.CreateSchemaRequest{Name: "x"})
	require.Error(t, err)
	assert.Equal(t, core.UnsupportedOperation, core.KindOf(err))
}

func TestListColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	c := conn.NewSQLConnectionFromDB(db, nil)

	mock.ExpectQuery("SELECT COLUMN_NAME, COLUMN_TYPE").WillReturnRows(
		sqlmock.NewRows([]string{"COLUMN_NAME", "COLUMN_TYPE", "IS_NULLABLE", "COLUMN_KEY", "COLUMN_DEFAULT", "COLUMN_COMMENT", "EXTRA"}).
			AddRow("id", "int unsigned", "NO", "PRI", nil, "", "auto_increment").
			AddRow("email", "varchar(255)", "YES", "", nil, "login email", ""),
	)

	columns, err := New().ListColumns(context.Background(), c, "app", "", "users")
	require.NoError(t, err)
	require.Len(t, columns, 2)

	assert.Equal(t, "id", columns[0].Name)
	assert.True(t, columns[0].IsPrimaryKey)
	assert.True(t, columns[0].IsAutoIncrement)
	assert.True(t, columns[0].IsUnsigned)
	assert.False(t, columns[0].Nullable)

	assert.Equal(t, "varchar(255)", columns[1].DBType)
	assert.Equal(t, core.FieldString, columns[1].FieldType)
	assert.Equal(t, "login email", columns[1].Comment)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListIndexesGroupsColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	c := conn.NewSQLConnectionFromDB(db, nil)

	mock.ExpectQuery("SELECT INDEX_NAME, COLUMN_NAME").WillReturnRows(
		sqlmock.NewRows([]string{"INDEX_NAME", "COLUMN_NAME", "NON_UNIQUE", "INDEX_TYPE"}).
			AddRow("PRIMARY", "id", "0", "BTREE").
			AddRow("idx_name_email", "name", "1", "BTREE").
			AddRow("idx_name_email", "email", "1", "BTREE"),
	)

	indexes, err := New().ListIndexes(context.Background(), c, "app", "", "users")
	require.NoError(t, err)
	require.Len(t, indexes, 2)

	assert.Equal(t, "PRIMARY", indexes[0].Name)
	assert.True(t, indexes[0].IsUnique)
	assert.True(t, indexes[0].IsPrimary)
	assert.Equal(t, []string{"name", "email"}, indexes[1].Columns)
	assert.False(t, indexes[1].IsUnique)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBuildTableChangeSQLUsesDatabaseQualifier(t *testing.T) {
	p := New()
	v := "1"

	statements, err := p.BuildTableChangeSQL(core.TableSaveRequest{
		Database:    "app",
		Table:       "users",
		PrimaryKeys: []string{"id"},
		Changes: []core.RowChange{
			{Kind: core.RowDeleted, Original: map[string]*string{"id": &v}},
		},
	})
	require.NoError(t, err)
	require.Len(t, statements, 1)
	assert.Equal(t, "DELETE FROM `app`.`users` WHERE `id` = '1';", statements[0])
}

func TestBuildTableChangeSQLUnkeyedAppendsLimit(t *testing.T) {
	p := New()
	v := "1"

	statements, err := p.BuildTableChangeSQL(core.TableSaveRequest{
		Table: "users",
		Changes: []core.RowChange{
			{Kind: core.RowDeleted, Original: map[string]*string{"id": &v}},
		},
	})
	require.NoError(t, err)
	require.Len(t, statements, 1)
	assert.Equal(t, "DELETE FROM `users` WHERE `id` = '1' LIMIT 1;", statements[0])
}

func TestCompletionInfoIsDialectOnly(t *testing.T) {
	info := New().CompletionInfo()

	labels := make([]string, 0, len(info.Keywords))
	for _, kw := range info.Keywords {
		labels = append(labels, kw.Label)
	}
	assert.Contains(t, labels, "AUTO_INCREMENT")
	assert.NotContains(t, labels, "SELECT", "standard keywords come from the engine")
	assert.NotEmpty(t, info.DataTypes)
	assert.NotEmpty(t, info.Snippets)
}
