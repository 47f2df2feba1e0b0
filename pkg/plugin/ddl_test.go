package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbforge-labs/dbforge/pkg/core"
)

func TestTypeString(t *testing.T) {
	tests := []struct {
		name     string
		col      core.ColumnDefinition
		expected string
	}{
		{"bare", core.ColumnDefinition{DataType: "TEXT"}, "TEXT"},
		{"length", core.ColumnDefinition{DataType: "VARCHAR", Length: 100}, "VARCHAR(100)"},
		{"length and scale", core.ColumnDefinition{DataType: "DECIMAL", Length: 10, Scale: 2}, "DECIMAL(10,2)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TypeString(tt.col))
		})
	}
}

func TestColumnChanged(t *testing.T) {
	base := core.ColumnDefinition{Name: "name", DataType: "VARCHAR", Length: 50, Nullable: true}

	same := base
	same.DataType = "varchar" // case-insensitive type compare
	assert.False(t, ColumnChanged(base, same))

	longer := base
	longer.Length = 100
	assert.True(t, ColumnChanged(base, longer))

	notNull := base
	notNull.Nullable = false
	assert.True(t, ColumnChanged(base, notNull))
}

func TestAlterTableSQL_NoChanges(t *testing.T) {
	b := Base{QuoteStart: `"`, QuoteEnd: `"`}
	design := core.TableDesign{
		Name: "users",
		Columns: []core.ColumnDefinition{
			{Name: "id", DataType: "INTEGER"},
		},
	}

	sql, err := b.AlterTableSQL(design, design, func(c core.ColumnDefinition) string {
		return b.QuoteIdentifier(c.Name) + " " + TypeString(c)
	}, AlterHooks{})
	require.NoError(t, err)
	assert.Equal(t, NoChanges, sql)
}

func TestCreateTableSQL_RequiresColumns(t *testing.T) {
	b := Base{QuoteStart: `"`, QuoteEnd: `"`}

	_, err := b.CreateTableSQL(core.TableDesign{Name: "empty"}, func(c core.ColumnDefinition) string {
		return c.Name
	}, CreateHooks{})
	require.Error(t, err)
	assert.Equal(t, core.ConfigError, core.KindOf(err))
}

func TestCreateTableSQL_IndexPlacement(t *testing.T) {
	b := Base{QuoteStart: `"`, QuoteEnd: `"`}
	design := core.TableDesign{
		Name: "users",
		Columns: []core.ColumnDefinition{
			{Name: "id", DataType: "INTEGER"},
			{Name: "email", DataType: "TEXT"},
		},
		Indexes: []core.IndexDefinition{
			{Name: "ux_email", Columns: []string{"email"}, IsUnique: true},
		},
	}
	colDef := func(c core.ColumnDefinition) string {
		return b.QuoteIdentifier(c.Name) + " " + TypeString(c)
	}

	inline, err := b.CreateTableSQL(design, colDef, CreateHooks{})
	require.NoError(t, err)
	assert.Contains(t, inline, `UNIQUE INDEX "ux_email" ("email")`,
		"nil index hook keeps indexes inside CREATE TABLE")

	trailing, err := b.CreateTableSQL(design, colDef, CreateHooks{
		Index: func(d core.TableDesign, idx core.IndexDefinition) string {
			return b.CreateIndexSQL(d.Name, idx)
		},
	})
	require.NoError(t, err)
	assert.NotContains(t, trailing, `UNIQUE INDEX "ux_email" ("email")`)
	assert.Contains(t, trailing, "\n"+`CREATE UNIQUE INDEX "ux_email" ON "users" ("email");`,
		"index hook moves indexes after the CREATE TABLE statement")
}
