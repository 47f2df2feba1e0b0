package sqltext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsQuery(t *testing.T) {
	queries := []string{
		"SELECT * FROM users",
		"select id from t",
		"  SHOW TABLES",
		"DESCRIBE users",
		"DESC users",
		"EXPLAIN SELECT * FROM users",
		"WITH cte AS (SELECT 1) SELECT * FROM cte",
		"TABLE users",
		"PRAGMA table_info(users)",
	}
	for _, sql := range queries {
		assert.True(t, IsQuery(sql), "expected query: %q", sql)
	}

	nonQueries := []string{
		"INSERT INTO users VALUES (1)",
		"UPDATE users SET name = 'test'",
		"DELETE FROM users",
		"CREATE TABLE test (id INT)",
		"DROP TABLE test",
	}
	for _, sql := range nonQueries {
		assert.False(t, IsQuery(sql), "expected non-query: %q", sql)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		sql  string
		want StatementType
	}{
		{"SELECT * FROM users", StatementQuery},
		{"SHOW DATABASES", StatementQuery},
		{"INSERT INTO users VALUES (1)", StatementDML},
		{"UPDATE users SET a = 1", StatementDML},
		{"DELETE FROM users", StatementDML},
		{"REPLACE INTO users VALUES (1)", StatementDML},
		{"CREATE TABLE test (id INT)", StatementDDL},
		{"ALTER TABLE t ADD c INT", StatementDDL},
		{"DROP TABLE test", StatementDDL},
		{"TRUNCATE TABLE t", StatementDDL},
		{"BEGIN", StatementTransaction},
		{"COMMIT", StatementTransaction},
		{"ROLLBACK", StatementTransaction},
		{"START TRANSACTION", StatementTransaction},
		{"USE mydb", StatementCommand},
		{"SET autocommit = 0", StatementCommand},
		{"CALL some_proc()", StatementExec},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.sql), "sql=%q", tt.sql)
	}
}

func TestEditableTable(t *testing.T) {
	tests := []struct {
		name      string
		sql       string
		wantTable string
		wantOK    bool
	}{
		{"simple select", "SELECT * FROM users", "users", true},
		{"with where", "SELECT id, name FROM users WHERE id > 10", "users", true},
		{"backtick quoted", "SELECT * FROM `users`", "users", true},
		{"trailing semicolon", "SELECT * FROM users;", "users", true},

		{"count", "SELECT COUNT(*) FROM login_user", "", false},
		{"sum", "SELECT SUM(amount) FROM orders", "", false},
		{"avg", "SELECT AVG(price) FROM products", "", false},
		{"max min", "SELECT MAX(score), MIN(score) FROM results", "", false},
		{"join", "SELECT u.*, o.* FROM users u JOIN orders o", "", false},
		{"group by", "SELECT city, COUNT(*) FROM users GROUP BY city", "", false},
		{"distinct", "SELECT DISTINCT city FROM users", "", false},
		{"union", "SELECT id FROM a UNION SELECT id FROM b", "", false},
		{"subquery source", "SELECT * FROM (SELECT 1) x", "", false},
		{"not a select", "UPDATE users SET a = 1", "", false},
		{"no from", "SELECT 1", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, ok := EditableTable(tt.sql)
			require.Equal(t, tt.wantOK, ok, "sql=%q", tt.sql)
			assert.Equal(t, tt.wantTable, table)
		})
	}
}

func TestFormat(t *testing.T) {
	in := "SELECT\nid,\nname\nFROM users\nWHERE active = 1"
	want := "SELECT\n  id,\n  name\nFROM users\nWHERE active = 1"
	assert.Equal(t, want, Format(in))
}

func TestMinify(t *testing.T) {
	assert.Equal(t, "SELECT * FROM users", Minify("  SELECT \n  *\tFROM\n\n  users  "))
}

func TestUppercaseKeywords(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"select id from users", "SELECT id FROM users"},
		{"select 'from' from t", "SELECT 'from' FROM t"},
		{"Select name From users Where id = 1", "SELECT name FROM users WHERE id = 1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, UppercaseKeywords(tt.in))
	}
}
