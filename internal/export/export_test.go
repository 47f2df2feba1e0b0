package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/dbforge-labs/dbforge/pkg/core"
)

func sampleResult() *core.QueryResult {
	name := "Ada"
	email := "ada@example.com"
	return &core.QueryResult{
		Columns: []string{"id", "name", "email"},
		Rows: [][]*string{
			{strp("1"), &name, &email},
			{strp("2"), strp("O'Brien"), nil},
		},
		TableName: "users",
	}
}

func strp(s string) *string { return &s }

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"csv": FormatCSV, "json": FormatJSON, "sql": FormatSQL,
		"xlsx": FormatXLSX, "excel": FormatXLSX, "XLSX": FormatXLSX,
	} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat("parquet")
	require.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, sampleResult(), Options{NullLiteral: "NULL"}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,name,email", lines[0])
	assert.Equal(t, "2,O'Brien,NULL", lines[2])
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, sampleResult(), Options{}))

	var rows []map[string]*string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "Ada", *rows[0]["name"])
	assert.Nil(t, rows[1]["email"], "NULL maps to JSON null")
}

func TestWriteSQL(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatSQL, sampleResult(), Options{}))

	out := buf.String()
	assert.Contains(t, out, `INSERT INTO "users" ("id", "name", "email") VALUES ('1', 'Ada', 'ada@example.com');`)
	assert.Contains(t, out, `('2', 'O''Brien', NULL);`, "quotes doubled, NULL unquoted")
}

func TestWriteSQLCustomQuoting(t *testing.T) {
	var buf bytes.Buffer
	quote := func(name string) string { return "`" + name + "`" }
	require.NoError(t, Write(&buf, FormatSQL, sampleResult(), Options{Table: "people", QuoteIdentifier: quote}))

	assert.Contains(t, buf.String(), "INSERT INTO `people` (`id`, `name`, `email`)")
}

func TestWriteSQLRequiresTable(t *testing.T) {
	res := sampleResult()
	res.TableName = ""
	err := Write(&bytes.Buffer{}, FormatSQL, res, Options{})
	require.Error(t, err)
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatXLSX, sampleResult(), Options{}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	rows, err := f.GetRows("Results")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"id", "name", "email"}, rows[0])
	assert.Equal(t, "O'Brien", rows[2][1])
}
