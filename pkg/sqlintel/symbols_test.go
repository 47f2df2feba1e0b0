package sqlintel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSymbols(sql string) *SymbolTable {
	return BuildSymbolTable(Tokenize(sql))
}

func TestBuildSymbolTable(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want map[string]string
	}{
		{
			name: "simple alias",
			sql:  "SELECT u.id FROM users u",
			want: map[string]string{"u": "users"},
		},
		{
			name: "explicit AS",
			sql:  "SELECT u.id FROM users AS u",
			want: map[string]string{"u": "users"},
		},
		{
			name: "no alias maps to itself",
			sql:  "SELECT id FROM users",
			want: map[string]string{"users": "users"},
		},
		{
			name: "join with aliases",
			sql:  "SELECT u.id FROM users u JOIN departments d ON u.dept_id = d.id",
			want: map[string]string{"u": "users", "d": "departments"},
		},
		{
			name: "left join",
			sql:  "SELECT * FROM users u LEFT JOIN orders o ON u.id = o.user_id",
			want: map[string]string{"u": "users", "o": "orders"},
		},
		{
			name: "comma separated tables",
			sql:  "SELECT * FROM users u, orders o WHERE u.id = o.user_id",
			want: map[string]string{"u": "users", "o": "orders"},
		},
		{
			name: "schema qualified table",
			sql:  "SELECT * FROM public.users u",
			want: map[string]string{"u": "users"},
		},
		{
			name: "quoted table name",
			sql:  `SELECT * FROM "Order Items" oi`,
			want: map[string]string{"oi": "Order Items"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := buildSymbols(tt.sql)
			require.Equal(t, len(tt.want), st.Len())
			for alias, table := range tt.want {
				got, ok := st.Resolve(alias)
				require.True(t, ok, "alias %q not registered", alias)
				assert.Equal(t, table, got)
			}
		})
	}
}

func TestSymbolTable_CaseInsensitiveLookup(t *testing.T) {
	st := buildSymbols("SELECT u.id FROM users u")

	assert.True(t, st.IsAlias("u"))
	assert.True(t, st.IsAlias("U"))

	got, ok := st.Resolve("U")
	require.True(t, ok)
	assert.Equal(t, "users", got)
}

func TestSymbolTable_SubqueryAliasSkipped(t *testing.T) {
	st := buildSymbols("SELECT * FROM (SELECT id FROM users) sub JOIN orders o ON sub.id = o.id")

	// The subquery alias has no backing table and must not be registered.
	assert.False(t, st.IsAlias("sub"))

	got, ok := st.Resolve("o")
	require.True(t, ok)
	assert.Equal(t, "orders", got)
}

func TestSymbolTable_Scopes(t *testing.T) {
	st := NewSymbolTable()
	st.RegisterAlias("u", "users")

	st.EnterScope()
	st.RegisterAlias("o", "orders")

	_, ok := st.Resolve("u")
	assert.True(t, ok)
	_, ok = st.Resolve("o")
	assert.True(t, ok)

	st.ExitScope()

	_, ok = st.Resolve("u")
	assert.True(t, ok)
	_, ok = st.Resolve("o")
	assert.False(t, ok, "scoped alias must vanish on exit")
	assert.Equal(t, 0, st.Scope())
}

func TestSymbolTable_TablesInRegistrationOrder(t *testing.T) {
	st := buildSymbols("SELECT * FROM users u JOIN orders o ON u.id = o.user_id JOIN users u2 ON u2.id = o.user_id")

	assert.Equal(t, []string{"users", "orders"}, st.Tables(), "duplicates collapse, order preserved")
}
