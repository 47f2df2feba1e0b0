// Package sqltext provides dialect-agnostic SQL script processing: splitting
// scripts into statements, classifying statements, and light reformatting.
// Everything here operates on raw text, before any driver sees the SQL.
package sqltext

import "strings"

// Split breaks a SQL script into individual trimmed statements. Semicolons
// inside single-quoted, double-quoted, or backtick-quoted runs do not split;
// line comments (-- or #) and block comments are stripped from the output.
func Split(script string) []string {
	var statements []string
	var current strings.Builder

	inSingle := false
	inDouble := false
	inBacktick := false
	inLineComment := false
	inBlockComment := false

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			statements = append(statements, s)
		}
		current.Reset()
	}

	runes := []rune(script)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		inQuote := inSingle || inDouble || inBacktick

		if !inQuote && !inBlockComment && !inLineComment {
			if ch == '-' && i+1 < len(runes) && runes[i+1] == '-' {
				i++
				inLineComment = true
				continue
			}
			if ch == '#' {
				inLineComment = true
				continue
			}
		}

		if inLineComment {
			if ch == '\n' {
				inLineComment = false
				current.WriteRune(ch)
			}
			continue
		}

		if !inQuote && ch == '/' && i+1 < len(runes) && runes[i+1] == '*' {
			i++
			inBlockComment = true
			continue
		}
		if inBlockComment {
			if ch == '*' && i+1 < len(runes) && runes[i+1] == '/' {
				i++
				inBlockComment = false
			}
			continue
		}

		switch {
		case ch == '\'' && !inDouble && !inBacktick:
			inSingle = !inSingle
			current.WriteRune(ch)
		case ch == '"' && !inSingle && !inBacktick:
			inDouble = !inDouble
			current.WriteRune(ch)
		case ch == '`' && !inSingle && !inDouble:
			inBacktick = !inBacktick
			current.WriteRune(ch)
		case ch == ';' && !inSingle && !inDouble && !inBacktick:
			flush()
		default:
			current.WriteRune(ch)
		}
	}
	flush()

	return statements
}
