package sqltext

import (
	"strings"

	"github.com/dbforge-labs/dbforge/pkg/sqlintel"
)

// Format re-indents a SQL statement line by line: clause-opening lines reset
// to column zero, everything after a SELECT indents one level. Blank lines
// are dropped. This is a readability pass, not a full pretty-printer.
func Format(sql string) string {
	var b strings.Builder
	indent := 0
	for _, line := range strings.Split(sql, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if hasAnyPrefix(trimmed,
			"FROM", "WHERE", "JOIN", "INNER", "LEFT", "RIGHT",
			"ORDER BY", "GROUP BY", "HAVING", "LIMIT") {
			indent = 0
		}
		b.WriteString(strings.Repeat("  ", indent))
		b.WriteString(trimmed)
		b.WriteByte('\n')
		if strings.HasPrefix(trimmed, "SELECT") {
			indent = 1
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// Minify collapses all whitespace runs to single spaces.
func Minify(sql string) string {
	return strings.Join(strings.Fields(sql), " ")
}

// UppercaseKeywords uppercases SQL keywords outside string literals, leaving
// identifiers and quoted runs untouched.
func UppercaseKeywords(sql string) string {
	var result strings.Builder
	var word strings.Builder
	inString := false
	var stringChar rune

	flushWord := func() {
		if word.Len() > 0 {
			result.WriteString(uppercaseIfKeyword(word.String()))
			word.Reset()
		}
	}

	for _, ch := range sql {
		if (ch == '\'' || ch == '"') && !inString {
			flushWord()
			inString = true
			stringChar = ch
			result.WriteRune(ch)
			continue
		}
		if inString && ch == stringChar {
			inString = false
			result.WriteRune(ch)
			continue
		}
		if inString {
			result.WriteRune(ch)
			continue
		}
		if ch == '_' || isWordRune(ch) {
			word.WriteRune(ch)
		} else {
			flushWord()
			result.WriteRune(ch)
		}
	}
	flushWord()
	return result.String()
}

func uppercaseIfKeyword(word string) string {
	upper := strings.ToUpper(word)
	for _, kw := range sqlintel.StandardKeywords {
		if kw.Label == upper {
			return upper
		}
	}
	return word
}

func isWordRune(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') || ch > 0x7F
}
