package sqlintel

import "unicode/utf8"

// Tokenize scans sql into a lossless token stream: concatenating the Text of
// every token reproduces the input byte for byte. Whitespace and comments are
// emitted as tokens so callers can reconstruct or skip them as needed.
// Malformed input never fails; unterminated strings and block comments run to
// the end of the input.
func Tokenize(sql string) []Token {
	var tokens []Token
	i := 0
	for i < len(sql) {
		start := i
		c := sql[i]

		switch {
		case isSpace(c):
			for i < len(sql) && isSpace(sql[i]) {
				i++
			}
			tokens = append(tokens, tok(KindWhitespace, sql, start, i))

		case c == '-' && i+1 < len(sql) && sql[i+1] == '-':
			for i < len(sql) && sql[i] != '\n' {
				i++
			}
			tokens = append(tokens, tok(KindLineComment, sql, start, i))

		case c == '/' && i+1 < len(sql) && sql[i+1] == '*':
			i += 2
			for i < len(sql) {
				if sql[i] == '*' && i+1 < len(sql) && sql[i+1] == '/' {
					i += 2
					break
				}
				i++
			}
			tokens = append(tokens, tok(KindBlockComment, sql, start, i))

		case c == '\'':
			i = scanQuoted(sql, i, '\'')
			tokens = append(tokens, tok(KindString, sql, start, i))

		case c == '"':
			i = scanQuoted(sql, i, '"')
			tokens = append(tokens, tok(KindQuotedIdent, sql, start, i))

		case c >= '0' && c <= '9':
			i = scanNumber(sql, i)
			tokens = append(tokens, tok(KindNumber, sql, start, i))

		case isIdentStart(c):
			for i < len(sql) && isIdentPart(sql[i]) {
				i++
			}
			t := tok(KindIdent, sql, start, i)
			if kw, ok := LookupKeyword(t.Text); ok {
				t.Kind = KindKeyword
				t.Keyword = kw
			}
			tokens = append(tokens, t)

		case c == '.':
			i++
			tokens = append(tokens, tok(KindDot, sql, start, i))
		case c == ',':
			i++
			tokens = append(tokens, tok(KindComma, sql, start, i))
		case c == ';':
			i++
			tokens = append(tokens, tok(KindSemicolon, sql, start, i))
		case c == '(':
			i++
			tokens = append(tokens, tok(KindLParen, sql, start, i))
		case c == ')':
			i++
			tokens = append(tokens, tok(KindRParen, sql, start, i))

		case isOperatorByte(c):
			if i+1 < len(sql) && isTwoByteOperator(sql[i:i+2]) {
				i += 2
			} else {
				i++
			}
			tokens = append(tokens, tok(KindOperator, sql, start, i))

		default:
			_, size := utf8.DecodeRuneInString(sql[i:])
			i += size
			tokens = append(tokens, tok(KindUnknown, sql, start, i))
		}
	}
	return tokens
}

// scanQuoted consumes a quote-delimited token starting at i, honoring the
// doubled-quote escape. Returns the index past the closing quote, or len(sql)
// when unterminated.
func scanQuoted(sql string, i int, quote byte) int {
	i++ // opening quote
	for i < len(sql) {
		if sql[i] == quote {
			if i+1 < len(sql) && sql[i+1] == quote {
				i += 2
				continue
			}
			return i + 1
		}
		i++
	}
	return i
}

// scanNumber consumes digits with an optional decimal part and exponent.
func scanNumber(sql string, i int) int {
	for i < len(sql) && sql[i] >= '0' && sql[i] <= '9' {
		i++
	}
	if i+1 < len(sql) && sql[i] == '.' && sql[i+1] >= '0' && sql[i+1] <= '9' {
		i++
		for i < len(sql) && sql[i] >= '0' && sql[i] <= '9' {
			i++
		}
	}
	if i < len(sql) && (sql[i] == 'e' || sql[i] == 'E') {
		j := i + 1
		if j < len(sql) && (sql[j] == '+' || sql[j] == '-') {
			j++
		}
		if j < len(sql) && sql[j] >= '0' && sql[j] <= '9' {
			i = j
			for i < len(sql) && sql[i] >= '0' && sql[i] <= '9' {
				i++
			}
		}
	}
	return i
}

func tok(kind TokenKind, sql string, start, end int) Token {
	return Token{Kind: kind, Text: sql[start:end], Start: start, End: end}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isIdentPart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') || c >= 0x80
}

func isOperatorByte(c byte) bool {
	switch c {
	case '+', '-', '*', '/', '%', '=', '<', '>', '!', '|', '&', '^', '~', ':', '?', '@', '#', '$':
		return true
	}
	return false
}

func isTwoByteOperator(s string) bool {
	switch s {
	case "<=", ">=", "<>", "!=", "||", "&&", "::", "->":
		return true
	}
	return false
}
