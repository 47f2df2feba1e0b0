package sqlintel

import "strings"

type aliasEntry struct {
	table string
	scope int
}

// SymbolTable maps table aliases declared in FROM and JOIN clauses to their
// source table names. Alias lookup is case-insensitive; table names keep
// their original case. Scopes support subqueries: aliases registered inside a
// scope vanish when the scope exits.
type SymbolTable struct {
	aliases map[string]aliasEntry
	order   []string // lowercase alias keys in registration order
	scope   int
}

// NewSymbolTable returns an empty table at scope depth 0.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{aliases: make(map[string]aliasEntry)}
}

// RegisterAlias maps alias to table in the current scope. Re-registering an
// alias overwrites its target but keeps its original position.
func (st *SymbolTable) RegisterAlias(alias, table string) {
	key := strings.ToLower(alias)
	if _, seen := st.aliases[key]; !seen {
		st.order = append(st.order, key)
	}
	st.aliases[key] = aliasEntry{table: table, scope: st.scope}
}

// Resolve returns the table an alias maps to.
func (st *SymbolTable) Resolve(alias string) (string, bool) {
	e, ok := st.aliases[strings.ToLower(alias)]
	return e.table, ok
}

// IsAlias reports whether name is a registered alias.
func (st *SymbolTable) IsAlias(name string) bool {
	_, ok := st.aliases[strings.ToLower(name)]
	return ok
}

// EnterScope increments the scope depth for a subquery.
func (st *SymbolTable) EnterScope() { st.scope++ }

// ExitScope drops every alias registered in the current scope and decrements
// the depth. A no-op at depth 0.
func (st *SymbolTable) ExitScope() {
	if st.scope == 0 {
		return
	}
	kept := st.order[:0]
	for _, key := range st.order {
		if st.aliases[key].scope < st.scope {
			kept = append(kept, key)
		} else {
			delete(st.aliases, key)
		}
	}
	st.order = kept
	st.scope--
}

// Scope returns the current scope depth.
func (st *SymbolTable) Scope() int { return st.scope }

// Len returns the number of registered aliases.
func (st *SymbolTable) Len() int { return len(st.aliases) }

// Tables returns the referenced table names in registration order, without
// duplicates.
func (st *SymbolTable) Tables() []string {
	var tables []string
	seen := make(map[string]bool)
	for _, key := range st.order {
		t := st.aliases[key].table
		lower := strings.ToLower(t)
		if !seen[lower] {
			seen[lower] = true
			tables = append(tables, t)
		}
	}
	return tables
}

// BuildSymbolTable extracts table aliases from a token stream:
//
//	FROM users u        -> u maps to users
//	FROM users AS u     -> u maps to users
//	JOIN orders o ON .. -> o maps to orders
//	FROM users          -> users maps to itself
//
// Parenthesized subqueries are skipped; schema-qualified names register the
// name after the dot.
func BuildSymbolTable(tokens []Token) *SymbolTable {
	st := NewSymbolTable()
	toks := meaningful(tokens)

	i := 0
	parenDepth := 0
	for i < len(toks) {
		t := toks[i]
		switch t.Kind {
		case KindLParen:
			parenDepth++
			i++
			continue
		case KindRParen:
			if parenDepth > 0 {
				parenDepth--
			}
			i++
			continue
		}

		if t.IsKeyword(KwFrom) || t.IsJoinIntro() {
			j := i + 1
			// INNER/LEFT/RIGHT/FULL/CROSS: skip ahead past the JOIN itself.
			if t.IsJoinIntro() && !t.IsKeyword(KwJoin) {
				for j < len(toks) {
					if toks[j].IsKeyword(KwJoin) {
						j++
						break
					}
					j++
				}
			}
			i = parseTableRefs(st, toks, j)
		} else {
			i++
		}
	}
	return st
}

// meaningful strips whitespace and comment tokens.
func meaningful(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens))
	for _, t := range tokens {
		if t.Kind == KindWhitespace || t.IsComment() {
			continue
		}
		out = append(out, t)
	}
	return out
}

func parseTableRefs(st *SymbolTable, toks []Token, start int) int {
	i := start
	for i < len(toks) {
		// Subquery: skip the parenthesized body, then any alias.
		if toks[i].Kind == KindLParen {
			depth := 1
			i++
			for i < len(toks) && depth > 0 {
				switch toks[i].Kind {
				case KindLParen:
					depth++
				case KindRParen:
					depth--
				}
				i++
			}
			if i < len(toks) && toks[i].IsKeyword(KwAs) {
				i++
			}
			if i < len(toks) && toks[i].Kind == KindIdent {
				i++ // subquery alias has no backing table
			}
			continue
		}

		if toks[i].Kind != KindIdent && toks[i].Kind != KindQuotedIdent {
			break
		}
		tableName := identText(toks[i])
		i++

		if i < len(toks) && toks[i].Kind == KindDot {
			i++
			if i < len(toks) && (toks[i].Kind == KindIdent || toks[i].Kind == KindQuotedIdent) {
				actual := identText(toks[i])
				i++
				i = parseAlias(st, toks, i, actual)
			} else {
				st.RegisterAlias(tableName, tableName)
			}
		} else {
			i = parseAlias(st, toks, i, tableName)
		}

		if i < len(toks) && toks[i].Kind == KindComma {
			i++
			continue
		}
		break
	}
	return i
}

func parseAlias(st *SymbolTable, toks []Token, start int, tableName string) int {
	i := start
	hasAs := i < len(toks) && toks[i].IsKeyword(KwAs)
	if hasAs {
		i++
	}
	if i < len(toks) && toks[i].Kind == KindIdent {
		st.RegisterAlias(toks[i].Text, tableName)
		i++
	} else if !hasAs {
		st.RegisterAlias(tableName, tableName)
	}
	return i
}

// identText unwraps quoted identifiers, unescaping doubled quotes.
func identText(t Token) string {
	if t.Kind == KindQuotedIdent && len(t.Text) >= 2 {
		return strings.ReplaceAll(t.Text[1:len(t.Text)-1], `""`, `"`)
	}
	return t.Text
}
