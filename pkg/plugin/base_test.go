package plugin

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbforge-labs/dbforge/pkg/conn"
	"github.com/dbforge-labs/dbforge/pkg/core"
)

func strp(s string) *string { return &s }

func TestBase_QuoteIdentifier(t *testing.T) {
	tests := []struct {
		name     string
		base     Base
		input    string
		expected string
	}{
		{"backtick", Base{QuoteStart: "`", QuoteEnd: "`"}, "users", "`users`"},
		{"backtick escape", Base{QuoteStart: "`", QuoteEnd: "`"}, "od`d", "`od``d`"},
		{"double quote", Base{QuoteStart: `"`, QuoteEnd: `"`}, "Order Items", `"Order Items"`},
		{"bracket", Base{QuoteStart: "[", QuoteEnd: "]"}, "users", "[users]"},
		{"bracket escape", Base{QuoteStart: "[", QuoteEnd: "]"}, "od]d", "[od]]d]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.base.QuoteIdentifier(tt.input))
		})
	}
}

func TestBase_QuoteLiteral(t *testing.T) {
	b := Base{QuoteStart: `"`, QuoteEnd: `"`}
	assert.Equal(t, "'abc'", b.QuoteLiteral("abc"))
	assert.Equal(t, "'it''s'", b.QuoteLiteral("it's"))
}

func TestBase_WhereClause(t *testing.T) {
	b := Base{QuoteStart: `"`, QuoteEnd: `"`}

	tests := []struct {
		name     string
		req      core.TableDataRequest
		expected string
	}{
		{"empty", core.TableDataRequest{}, ""},
		{
			"raw clause wins",
			core.TableDataRequest{
				WhereClause: "id > 5",
				Filters:     []core.FilterCondition{{Column: "id", Operator: core.OpEqual, Value: "1"}},
			},
			" WHERE id > 5",
		},
		{
			"equality filter",
			core.NewTableDataRequest("db", "t").WithFilter("name", core.OpEqual, "alice"),
			` WHERE "name" = 'alice'`,
		},
		{
			"null predicate carries no value",
			core.NewTableDataRequest("db", "t").WithFilter("deleted_at", core.OpIsNull, ""),
			` WHERE "deleted_at" IS NULL`,
		},
		{
			"in list quotes each element",
			core.NewTableDataRequest("db", "t").WithFilter("status", core.OpIn, "new, open"),
			` WHERE "status" IN ('new', 'open')`,
		},
		{
			"filters joined with AND",
			core.NewTableDataRequest("db", "t").
				WithFilter("a", core.OpGreater, "1").
				WithFilter("b", core.OpLike, "x%"),
			` WHERE "a" > '1' AND "b" LIKE 'x%'`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, b.WhereClause(tt.req))
		})
	}
}

func TestBase_OrderClause(t *testing.T) {
	b := Base{QuoteStart: "`", QuoteEnd: "`"}

	req := core.NewTableDataRequest("db", "t").WithSort("created_at", true).WithSort("id", false)
	assert.Equal(t, " ORDER BY `created_at` DESC, `id` ASC", b.OrderClause(req))

	req.OrderClause = "rand()"
	assert.Equal(t, " ORDER BY rand()", b.OrderClause(req))

	assert.Equal(t, "", b.OrderClause(core.TableDataRequest{}))
}

func TestBase_LimitOffsetPage(t *testing.T) {
	b := Base{}
	assert.Equal(t, "SELECT * FROM t LIMIT 100 OFFSET 200", b.LimitOffsetPage("SELECT * FROM t", 3, 100))
	assert.Equal(t, "SELECT * FROM t", b.LimitOffsetPage("SELECT * FROM t", 1, 0), "size 0 disables paging")
}

func TestBase_FetchTableData(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	c := conn.NewSQLConnectionFromDB(db, nil)

	mock.MatchExpectationsInOrder(false)
	mock.ExpectQuery(`SELECT \* FROM "users" LIMIT 2 OFFSET 2`).WillReturnRows(
		sqlmock.NewRows([]string{"id", "email"}).
			AddRow("3", "c@x.io").
			AddRow("4", nil),
	)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM "users"`).WillReturnRows(
		sqlmock.NewRows([]string{"count"}).AddRow("7"),
	)

	b := Base{QuoteStart: `"`, QuoteEnd: `"`}
	req := core.NewTableDataRequest("app", "users").WithPage(2, 2)
	columns := []core.ColumnInfo{
		ColumnInfoFromRow("id", "INTEGER", false, true, "", "", 0),
		ColumnInfoFromRow("email", "VARCHAR(255)", true, false, "", "", 1),
	}

	resp, err := b.FetchTableData(context.Background(), c, req,
		TableQuery{Table: b.QuoteIdentifier("users")}, columns, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(7), resp.TotalCount)
	assert.Equal(t, 2, resp.Page)
	require.Len(t, resp.Rows, 2)
	assert.Nil(t, resp.Rows[1][1])

	require.Len(t, resp.Columns, 2)
	assert.Equal(t, core.FieldNumeric, resp.Columns[0].FieldType)
	assert.True(t, resp.Columns[0].IsPrimaryKey)
	assert.Equal(t, []int{0}, resp.PrimaryKeyIdx)
	assert.Empty(t, resp.UniqueKeyIdx)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBase_FetchTableDataUniqueFallback(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	c := conn.NewSQLConnectionFromDB(db, nil)

	mock.MatchExpectationsInOrder(false)
	mock.ExpectQuery(`SELECT \* FROM "events"`).WillReturnRows(
		sqlmock.NewRows([]string{"ref", "payload"}).AddRow("a", "x"),
	)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM "events"`).WillReturnRows(
		sqlmock.NewRows([]string{"count"}).AddRow("1"),
	)

	b := Base{QuoteStart: `"`, QuoteEnd: `"`}
	columns := []core.ColumnInfo{
		ColumnInfoFromRow("ref", "VARCHAR(36)", false, false, "", "", 0),
		ColumnInfoFromRow("payload", "TEXT", true, false, "", "", 1),
	}
	indexes := []core.IndexInfo{
		{Name: "idx_events_payload", Columns: []string{"payload"}, IsUnique: false},
		{Name: "uq_events_ref", Columns: []string{"ref"}, IsUnique: true},
	}

	resp, err := b.FetchTableData(context.Background(), c,
		core.NewTableDataRequest("app", "events").WithPage(1, 0),
		TableQuery{Table: b.QuoteIdentifier("events")}, columns, indexes)
	require.NoError(t, err)

	assert.Empty(t, resp.PrimaryKeyIdx)
	assert.Equal(t, []int{0}, resp.UniqueKeyIdx, "first unique index stands in for the PK")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBase_BuildTableChangeSQL(t *testing.T) {
	b := Base{QuoteStart: "`", QuoteEnd: "`"}

	req := core.TableSaveRequest{
		Table: "users",
		Changes: []core.RowChange{
			{
				Kind: core.RowAdded,
				Cells: []core.CellChange{
					{Column: "id", NewValue: strp("10")},
					{Column: "email", NewValue: nil},
				},
			},
			{
				Kind:     core.RowUpdated,
				Original: map[string]*string{"id": strp("3")},
				Cells:    []core.CellChange{{Column: "email", NewValue: strp("new@x.io")}},
			},
			{
				Kind:     core.RowDeleted,
				Original: map[string]*string{"id": strp("4"), "email": nil},
			},
		},
	}

	statements, err := b.BuildTableChangeSQL(req)
	require.NoError(t, err)
	require.Len(t, statements, 3)

	assert.Equal(t, "INSERT INTO `users` (`id`, `email`) VALUES ('10', NULL);", statements[0])
	assert.Equal(t, "UPDATE `users` SET `email` = 'new@x.io' WHERE `id` = '3';", statements[1])
	assert.Equal(t, "DELETE FROM `users` WHERE `email` IS NULL AND `id` = '4';", statements[2])
}

func TestBase_BuildTableChangeSQLSchemaQualified(t *testing.T) {
	b := Base{QuoteStart: `"`, QuoteEnd: `"`}

	statements, err := b.BuildTableChangeSQL(core.TableSaveRequest{
		Schema: "sales",
		Table:  "orders",
		Changes: []core.RowChange{
			{Kind: core.RowDeleted, Original: map[string]*string{"id": strp("1")}},
		},
	})
	require.NoError(t, err)
	require.Len(t, statements, 1)
	assert.Equal(t, `DELETE FROM "sales"."orders" WHERE "id" = '1';`, statements[0])
}

func TestBase_BuildTableChangeSQLPrefersPrimaryKey(t *testing.T) {
	b := Base{QuoteStart: "`", QuoteEnd: "`", RowLimit: "TOP (1) "}

	statements, err := b.BuildTableChangeSQL(core.TableSaveRequest{
		Table:       "users",
		PrimaryKeys: []string{"id"},
		Changes: []core.RowChange{
			{
				Kind:     core.RowUpdated,
				Original: map[string]*string{"id": strp("3"), "email": strp("a@x.io")},
				Cells:    []core.CellChange{{Column: "email", NewValue: strp("b@x.io")}},
			},
			{
				Kind:     core.RowDeleted,
				Original: map[string]*string{"id": strp("4"), "email": strp("c@x.io")},
			},
		},
	})
	require.NoError(t, err)
	require.Len(t, statements, 2)
	assert.Equal(t, "UPDATE `users` SET `email` = 'b@x.io' WHERE `id` = '3';", statements[0],
		"key predicate carries no limiter and ignores non-key cells")
	assert.Equal(t, "DELETE FROM `users` WHERE `id` = '4';", statements[1])
}

func TestBase_BuildTableChangeSQLUniqueKeyFallback(t *testing.T) {
	b := Base{QuoteStart: `"`, QuoteEnd: `"`}

	statements, err := b.BuildTableChangeSQL(core.TableSaveRequest{
		Table:       "users",
		PrimaryKeys: []string{"id"},
		UniqueKeys:  [][]string{{"email"}},
		Changes: []core.RowChange{
			{
				Kind:     core.RowDeleted,
				Original: map[string]*string{"id": nil, "email": strp("a@x.io")},
			},
		},
	})
	require.NoError(t, err)
	require.Len(t, statements, 1)
	assert.Equal(t, `DELETE FROM "users" WHERE "email" = 'a@x.io';`, statements[0],
		"a NULL primary key cell falls through to the first complete unique key")
}

func TestBase_BuildTableChangeSQLUnkeyedLimitsToOneRow(t *testing.T) {
	verb := Base{QuoteStart: "[", QuoteEnd: "]", RowLimit: "TOP (1) "}

	statements, err := verb.BuildTableChangeSQL(core.TableSaveRequest{
		Table: "logs",
		Changes: []core.RowChange{
			{Kind: core.RowDeleted, Original: map[string]*string{"msg": strp("boot")}},
			{
				Kind:     core.RowUpdated,
				Original: map[string]*string{"msg": strp("boot")},
				Cells:    []core.CellChange{{Column: "msg", NewValue: strp("booted")}},
			},
		},
	})
	require.NoError(t, err)
	require.Len(t, statements, 2)
	assert.Equal(t, "DELETE TOP (1) FROM [logs] WHERE [msg] = 'boot';", statements[0])
	assert.Equal(t, "UPDATE TOP (1) [logs] SET [msg] = 'booted' WHERE [msg] = 'boot';", statements[1])

	sub := Base{QuoteStart: `"`, QuoteEnd: `"`, SingleRow: func(table, predicate string) string {
		return "ctid = (SELECT ctid FROM " + table + " WHERE " + predicate + " FETCH FIRST 1 ROWS ONLY)"
	}}
	statements, err = sub.BuildTableChangeSQL(core.TableSaveRequest{
		Table: "logs",
		Changes: []core.RowChange{
			{Kind: core.RowDeleted, Original: map[string]*string{"msg": strp("boot")}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t,
		`DELETE FROM "logs" WHERE ctid = (SELECT ctid FROM "logs" WHERE "msg" = 'boot' FETCH FIRST 1 ROWS ONLY);`,
		statements[0], "dialects without a verb limiter rewrite the predicate instead")
}

func TestBase_BuildTableChangeSQLRejectsUnlocatable(t *testing.T) {
	b := Base{QuoteStart: "`", QuoteEnd: "`"}

	_, err := b.BuildTableChangeSQL(core.TableSaveRequest{
		Table:   "t",
		Changes: []core.RowChange{{Kind: core.RowDeleted}},
	})
	require.Error(t, err)
	assert.Equal(t, core.InternalError, core.KindOf(err))
}
