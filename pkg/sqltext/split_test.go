package sqltext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit_SimpleStatements(t *testing.T) {
	script := "SELECT * FROM users; INSERT INTO users VALUES (1); DELETE FROM users;"
	statements := Split(script)

	require.Len(t, statements, 3)
	assert.Equal(t, "SELECT * FROM users", statements[0])
	assert.Equal(t, "INSERT INTO users VALUES (1)", statements[1])
	assert.Equal(t, "DELETE FROM users", statements[2])
}

func TestSplit_SemicolonInsideStringLiteral(t *testing.T) {
	script := "INSERT INTO users VALUES ('John; Doe'); SELECT * FROM users WHERE name = 'test;';"
	statements := Split(script)

	require.Len(t, statements, 2)
	assert.Contains(t, statements[0], "John; Doe")
	assert.Contains(t, statements[1], "test;")
}

func TestSplit_SemicolonInsideQuotedIdentifiers(t *testing.T) {
	script := "SELECT `a;b` FROM t; SELECT \"c;d\" FROM t;"
	statements := Split(script)

	require.Len(t, statements, 2)
	assert.Contains(t, statements[0], "`a;b`")
	assert.Contains(t, statements[1], `"c;d"`)
}

func TestSplit_StripsComments(t *testing.T) {
	script := `
		-- This is a comment
		SELECT * FROM users; -- inline comment
		# Another comment style
		INSERT INTO users VALUES (1);
		/* Block comment
		   spanning multiple lines */
		DELETE FROM users;
	`
	statements := Split(script)

	require.Len(t, statements, 3)
	assert.Contains(t, statements[0], "SELECT")
	assert.Contains(t, statements[1], "INSERT")
	assert.Contains(t, statements[2], "DELETE")
	for _, s := range statements {
		assert.NotContains(t, s, "comment")
	}
}

func TestSplit_MultilineStatement(t *testing.T) {
	script := `
		SELECT
			id,
			name,
			email
		FROM users
		WHERE active = 1;
	`
	statements := Split(script)

	require.Len(t, statements, 1)
	assert.Contains(t, statements[0], "SELECT")
	assert.Contains(t, statements[0], "FROM users")
}

func TestSplit_NoTrailingSemicolon(t *testing.T) {
	statements := Split("SELECT * FROM users")

	require.Len(t, statements, 1)
	assert.Equal(t, "SELECT * FROM users", statements[0])
}

func TestSplit_EmptyAndWhitespaceOnly(t *testing.T) {
	assert.Empty(t, Split(""))
	assert.Empty(t, Split("   \n\t  "))
	assert.Empty(t, Split(";;;"))
	assert.Empty(t, Split("-- only a comment"))
}
