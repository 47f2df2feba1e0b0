// Package sqlintel implements the SQL intelligence pipeline: a lossless
// tokenizer, a table-alias symbol table, a cursor context inferrer, and the
// ranked completion and hover engine built on top of them.
//
// The pipeline is pure and synchronous. Dialect dictionaries and user schema
// are passed in; nothing here touches a connection.
package sqlintel

// Keyword is a recognized SQL keyword in canonical uppercase form.
type Keyword string

const (
	KwSelect     Keyword = "SELECT"
	KwFrom       Keyword = "FROM"
	KwWhere      Keyword = "WHERE"
	KwJoin       Keyword = "JOIN"
	KwInner      Keyword = "INNER"
	KwLeft       Keyword = "LEFT"
	KwRight      Keyword = "RIGHT"
	KwFull       Keyword = "FULL"
	KwCross      Keyword = "CROSS"
	KwOn         Keyword = "ON"
	KwAs         Keyword = "AS"
	KwAnd        Keyword = "AND"
	KwOr         Keyword = "OR"
	KwNot        Keyword = "NOT"
	KwIn         Keyword = "IN"
	KwBetween    Keyword = "BETWEEN"
	KwLike       Keyword = "LIKE"
	KwIs         Keyword = "IS"
	KwNull       Keyword = "NULL"
	KwOrder      Keyword = "ORDER"
	KwGroup      Keyword = "GROUP"
	KwBy         Keyword = "BY"
	KwHaving     Keyword = "HAVING"
	KwLimit      Keyword = "LIMIT"
	KwOffset     Keyword = "OFFSET"
	KwInsert     Keyword = "INSERT"
	KwInto       Keyword = "INTO"
	KwValues     Keyword = "VALUES"
	KwUpdate     Keyword = "UPDATE"
	KwSet        Keyword = "SET"
	KwDelete     Keyword = "DELETE"
	KwCreate     Keyword = "CREATE"
	KwAlter      Keyword = "ALTER"
	KwDrop       Keyword = "DROP"
	KwTable      Keyword = "TABLE"
	KwIndex      Keyword = "INDEX"
	KwView       Keyword = "VIEW"
	KwUnion      Keyword = "UNION"
	KwIntersect  Keyword = "INTERSECT"
	KwExcept     Keyword = "EXCEPT"
	KwAll        Keyword = "ALL"
	KwDistinct   Keyword = "DISTINCT"
	KwCase       Keyword = "CASE"
	KwWhen       Keyword = "WHEN"
	KwThen       Keyword = "THEN"
	KwElse       Keyword = "ELSE"
	KwEnd        Keyword = "END"
	KwWith       Keyword = "WITH"
	KwRecursive  Keyword = "RECURSIVE"
	KwAsc        Keyword = "ASC"
	KwDesc       Keyword = "DESC"
	KwUsing      Keyword = "USING"
	KwExists     Keyword = "EXISTS"
	KwPrimary    Keyword = "PRIMARY"
	KwForeign    Keyword = "FOREIGN"
	KwKey        Keyword = "KEY"
	KwReferences Keyword = "REFERENCES"
	KwUnique     Keyword = "UNIQUE"
	KwCheck      Keyword = "CHECK"
	KwDefault    Keyword = "DEFAULT"
	KwTruncate   Keyword = "TRUNCATE"
	KwTrue       Keyword = "TRUE"
	KwFalse      Keyword = "FALSE"
)

var keywords = func() map[string]Keyword {
	all := []Keyword{
		KwSelect, KwFrom, KwWhere, KwJoin, KwInner, KwLeft, KwRight, KwFull,
		KwCross, KwOn, KwAs, KwAnd, KwOr, KwNot, KwIn, KwBetween, KwLike,
		KwIs, KwNull, KwOrder, KwGroup, KwBy, KwHaving, KwLimit, KwOffset,
		KwInsert, KwInto, KwValues, KwUpdate, KwSet, KwDelete, KwCreate,
		KwAlter, KwDrop, KwTable, KwIndex, KwView, KwUnion, KwIntersect,
		KwExcept, KwAll, KwDistinct, KwCase, KwWhen, KwThen, KwElse, KwEnd,
		KwWith, KwRecursive, KwAsc, KwDesc, KwUsing, KwExists, KwPrimary,
		KwForeign, KwKey, KwReferences, KwUnique, KwCheck, KwDefault,
		KwTruncate, KwTrue, KwFalse,
	}
	m := make(map[string]Keyword, len(all))
	for _, kw := range all {
		m[string(kw)] = kw
	}
	return m
}()

// TokenKind classifies a token.
type TokenKind int

const (
	KindKeyword TokenKind = iota
	KindIdent
	KindQuotedIdent // "identifier" with "" escaping
	KindString      // 'literal' with '' escaping
	KindNumber
	KindLineComment  // -- to end of line
	KindBlockComment // /* ... */
	KindDot
	KindComma
	KindSemicolon
	KindLParen
	KindRParen
	KindOperator
	KindWhitespace
	KindUnknown
)

// Token is one lexical unit. [Start, End) is a half-open byte range into the
// source; the ranges of a token stream partition the input exactly.
type Token struct {
	Kind    TokenKind
	Keyword Keyword // set when Kind == KindKeyword
	Text    string
	Start   int
	End     int
}

// IsKeyword reports whether the token is the given keyword.
func (t Token) IsKeyword(kw Keyword) bool {
	return t.Kind == KindKeyword && t.Keyword == kw
}

// IsComment reports whether the token is a line or block comment.
func (t Token) IsComment() bool {
	return t.Kind == KindLineComment || t.Kind == KindBlockComment
}

// IsJoinIntro reports whether the token starts a JOIN clause (JOIN or one of
// its qualifiers).
func (t Token) IsJoinIntro() bool {
	if t.Kind != KindKeyword {
		return false
	}
	switch t.Keyword {
	case KwJoin, KwInner, KwLeft, KwRight, KwFull, KwCross:
		return true
	}
	return false
}

// LookupKeyword resolves a case-insensitive keyword match.
func LookupKeyword(s string) (Keyword, bool) {
	kw, ok := keywords[upperASCII(s)]
	return kw, ok
}

// upperASCII uppercases ASCII letters without allocating for already-upper
// input the way strings.ToUpper does not; keyword text is always ASCII.
func upperASCII(s string) string {
	hasLower := false
	for i := 0; i < len(s); i++ {
		if s[i] >= 'a' && s[i] <= 'z' {
			hasLower = true
			break
		}
	}
	if !hasLower {
		return s
	}
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}
