package sqlintel

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func concatTokens(tokens []Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.Text)
	}
	return b.String()
}

func kindsOf(tokens []Token) []TokenKind {
	kinds := make([]TokenKind, 0, len(tokens))
	for _, t := range tokens {
		if t.Kind == KindWhitespace {
			continue
		}
		kinds = append(kinds, t.Kind)
	}
	return kinds
}

func TestTokenize_RoundTrip(t *testing.T) {
	inputs := []string{
		"SELECT a, b FROM t WHERE c = 1 -- trailing\n",
		"SELECT * FROM users WHERE name = 'O''Brien'",
		`SELECT "weird ""col""" FROM t`,
		"/* block\ncomment */ SELECT 1;",
		"INSERT INTO t VALUES (1, 2.5, 1e10, 1.5e-3)",
		"a <= b >= c <> d != e || f && g :: h -> i",
		"SELECT 'unterminated",
		"/* unterminated block",
		"",
		"   \t\n  ",
	}

	for _, sql := range inputs {
		tokens := Tokenize(sql)
		assert.Equal(t, sql, concatTokens(tokens), "input: %q", sql)
	}
}

func TestTokenize_TrailingComment(t *testing.T) {
	input := "SELECT a, b FROM t WHERE c = 1 -- trailing\n"
	tokens := Tokenize(input)

	require.Equal(t, input, concatTokens(tokens))

	var comment *Token
	var finalNewline *Token
	for i := range tokens {
		if tokens[i].Kind == KindLineComment {
			comment = &tokens[i]
		}
		if tokens[i].Kind == KindWhitespace && tokens[i].Text == "\n" {
			finalNewline = &tokens[i]
		}
	}
	require.NotNil(t, comment, "expected a line comment token")
	assert.Equal(t, "-- trailing", comment.Text)
	require.NotNil(t, finalNewline, "expected the trailing newline as whitespace")
}

func TestTokenize_Kinds(t *testing.T) {
	tests := []struct {
		name  string
		sql   string
		kinds []TokenKind
	}{
		{
			name:  "basic select",
			sql:   "SELECT id FROM users;",
			kinds: []TokenKind{KindKeyword, KindIdent, KindKeyword, KindIdent, KindSemicolon},
		},
		{
			name:  "string and number",
			sql:   "'abc' 42 3.14",
			kinds: []TokenKind{KindString, KindNumber, KindNumber},
		},
		{
			name:  "quoted ident and dot",
			sql:   `"users".id`,
			kinds: []TokenKind{KindQuotedIdent, KindDot, KindIdent},
		},
		{
			name:  "parens and comma",
			sql:   "(a, b)",
			kinds: []TokenKind{KindLParen, KindIdent, KindComma, KindIdent, KindRParen},
		},
		{
			name:  "operators",
			sql:   "a <> b::int",
			kinds: []TokenKind{KindIdent, KindOperator, KindIdent, KindOperator, KindIdent},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kinds, kindsOf(Tokenize(tt.sql)))
		})
	}
}

func TestTokenize_KeywordsCaseInsensitive(t *testing.T) {
	for _, text := range []string{"select", "SELECT", "Select", "sElEcT"} {
		tokens := Tokenize(text)
		require.Len(t, tokens, 1)
		assert.Equal(t, KindKeyword, tokens[0].Kind)
		assert.Equal(t, KwSelect, tokens[0].Keyword)
		assert.Equal(t, text, tokens[0].Text, "original case preserved")
	}
}

func TestTokenize_Offsets(t *testing.T) {
	sql := "SELECT u.id"
	tokens := Tokenize(sql)

	pos := 0
	for _, tok := range tokens {
		assert.Equal(t, pos, tok.Start)
		assert.Equal(t, tok.Start+len(tok.Text), tok.End)
		pos = tok.End
	}
	assert.Equal(t, len(sql), pos)
}

func TestTokenize_EscapedString(t *testing.T) {
	tokens := Tokenize("'it''s'")
	require.Len(t, tokens, 1)
	assert.Equal(t, KindString, tokens[0].Kind)
	assert.Equal(t, "'it''s'", tokens[0].Text)
}

func TestTokenize_NumberExponent(t *testing.T) {
	tests := []struct {
		sql  string
		want string
	}{
		{"1e10", "1e10"},
		{"2.5E-3", "2.5E-3"},
		{"10e+2", "10e+2"},
		{"5e", "5"}, // bare e is not an exponent
	}
	for _, tt := range tests {
		tokens := Tokenize(tt.sql)
		require.NotEmpty(t, tokens, tt.sql)
		assert.Equal(t, KindNumber, tokens[0].Kind, tt.sql)
		assert.Equal(t, tt.want, tokens[0].Text, tt.sql)
	}
}
