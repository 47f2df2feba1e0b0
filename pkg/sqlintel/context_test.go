package sqlintel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func inferAt(sql string, offset int) Context {
	tokens := Tokenize(sql)
	st := BuildSymbolTable(tokens)
	return InferContext(tokens, offset, st)
}

func TestInferContext_Kinds(t *testing.T) {
	tests := []struct {
		name   string
		sql    string
		offset int
		want   ContextKind
	}{
		{"empty", "", 0, CtxStart},
		{"whitespace only", "   ", 3, CtxStart},

		{"after SELECT", "SELECT ", 7, CtxSelectColumns},
		{"after select list comma", "SELECT id, ", 11, CtxSelectColumns},
		{"after DISTINCT", "SELECT DISTINCT ", 16, CtxSelectColumns},

		{"after FROM", "SELECT * FROM ", 14, CtxTableName},
		{"after JOIN", "SELECT * FROM users JOIN ", 25, CtxTableName},
		{"after LEFT JOIN", "SELECT * FROM users LEFT JOIN ", 30, CtxTableName},
		{"after INTO", "INSERT INTO ", 12, CtxTableName},
		{"after UPDATE", "UPDATE ", 7, CtxTableName},

		{"after WHERE", "SELECT * FROM users WHERE ", 26, CtxCondition},
		{"after AND", "SELECT * FROM users WHERE id = 1 AND ", 37, CtxCondition},
		{"after OR", "SELECT * FROM users WHERE id = 1 OR ", 36, CtxCondition},

		{"after ORDER BY", "SELECT * FROM users ORDER BY ", 29, CtxOrderBy},
		{"after GROUP BY", "SELECT * FROM users GROUP BY ", 29, CtxOrderBy},

		{"after SET", "UPDATE users SET ", 17, CtxSetClause},
		{"after VALUES", "INSERT INTO users VALUES ", 25, CtxValues},
		{"inside VALUES paren", "INSERT INTO users VALUES (", 26, CtxValues},
		{"inside VALUES tuple", "INSERT INTO users VALUES (1, ", 29, CtxValues},

		{"after CREATE TABLE", "CREATE TABLE ", 13, CtxCreateTable},
		{"inside CREATE TABLE paren", "CREATE TABLE users (", 20, CtxCreateTable},
		{"typing column type", "CREATE TABLE users (id ", 23, CtxCreateTable},
		{"second column", "CREATE TABLE users (id INT, name ", 33, CtxCreateTable},

		{"inside function", "SELECT COUNT(", 13, CtxFunctionArgs},
		{"inside function args", "SELECT MAX(id, ", 15, CtxFunctionArgs},

		{"second statement", "SELECT 1; UPDATE ", 17, CtxTableName},

		{"bare identifier", "foo ", 4, CtxSelectColumns},
		{"unrecognized prefix", "foo bar ", 8, CtxSelectColumns},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := inferAt(tt.sql, tt.offset)
			assert.Equal(t, tt.want, got.Kind, "sql=%q offset=%d", tt.sql, tt.offset)
		})
	}
}

func TestInferContext_DotColumn(t *testing.T) {
	tests := []struct {
		name      string
		sql       string
		offset    int
		wantTable string
	}{
		{"bare alias without FROM", "SELECT u.", 9, "u"},
		{"second dot expression", "SELECT u.id, u.", 15, "u"},
		{"table name directly", "SELECT users.", 13, "users"},
		{"alias resolves through FROM", "SELECT u. FROM users u", 9, "users"},
		{"alias with AS", "SELECT u. FROM users AS u", 9, "users"},
		{"join alias", "SELECT u.id, d. FROM users u JOIN departments d ON u.dept_id = d.id", 15, "departments"},
		{"table maps to itself", "SELECT users. FROM users", 13, "users"},
		{"unknown alias passes through", "SELECT x. FROM users u", 9, "x"},
		{"dot in where clause", "SELECT * FROM users u WHERE u.", 30, "users"},
		{"third dot expression", "SELECT u.id, u.name, u. FROM users u", 23, "users"},
		{"cursor inside partial column", "SELECT u.em FROM users u", 11, "users"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := inferAt(tt.sql, tt.offset)
			assert.Equal(t, CtxDotColumn, got.Kind, "sql=%q offset=%d", tt.sql, tt.offset)
			assert.Equal(t, tt.wantTable, got.Table)
		})
	}
}

func TestInferContext_DotColumnEndsAfterIdent(t *testing.T) {
	// Cursor past the completed identifier is no longer a dot context.
	got := inferAt("SELECT u.id FROM users u WHERE ", 31)
	assert.Equal(t, CtxCondition, got.Kind)
}
