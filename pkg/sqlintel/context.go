package sqlintel

// ContextKind is the semantic position of the cursor inside a statement. It
// drives which completion groups are offered and how they are ranked.
type ContextKind int

const (
	// CtxStart is the start of a statement: nothing but whitespace or
	// comments before the cursor.
	CtxStart ContextKind = iota
	// CtxSelectColumns follows SELECT, before FROM.
	CtxSelectColumns
	// CtxTableName follows FROM, JOIN, INTO, or UPDATE.
	CtxTableName
	// CtxCondition follows WHERE, AND, OR, ON, or HAVING.
	CtxCondition
	// CtxOrderBy follows ORDER BY or GROUP BY.
	CtxOrderBy
	// CtxSetClause follows SET in an UPDATE.
	CtxSetClause
	// CtxValues follows VALUES.
	CtxValues
	// CtxCreateTable is inside a CREATE TABLE column list.
	CtxCreateTable
	// CtxDotColumn follows "alias." and expects that table's columns.
	CtxDotColumn
	// CtxFunctionArgs is inside any other open parenthesis.
	CtxFunctionArgs
)

func (k ContextKind) String() string {
	switch k {
	case CtxStart:
		return "Start"
	case CtxSelectColumns:
		return "SelectColumns"
	case CtxTableName:
		return "TableName"
	case CtxCondition:
		return "Condition"
	case CtxOrderBy:
		return "OrderBy"
	case CtxSetClause:
		return "SetClause"
	case CtxValues:
		return "Values"
	case CtxCreateTable:
		return "CreateTable"
	case CtxDotColumn:
		return "DotColumn"
	case CtxFunctionArgs:
		return "FunctionArgs"
	}
	return "Start"
}

// Context is the inferred cursor context. Table is the resolved table name
// for CtxDotColumn (the alias itself when it resolves to nothing).
type Context struct {
	Kind  ContextKind
	Table string
}

// InferContext determines the cursor context from the token stream. Only the
// current statement (tokens after the last semicolon before the cursor) is
// considered.
func InferContext(tokens []Token, offset int, st *SymbolTable) Context {
	// Dot context wins over everything.
	if alias, ok := dotContextAlias(tokens, offset); ok {
		resolved := alias
		if table, found := st.Resolve(alias); found {
			resolved = table
		}
		return Context{Kind: CtxDotColumn, Table: resolved}
	}

	var before []Token
	for _, t := range meaningful(tokens) {
		if t.End <= offset {
			before = append(before, t)
		}
	}
	if len(before) == 0 {
		return Context{Kind: CtxStart}
	}

	stmtStart := 0
	for i := len(before) - 1; i >= 0; i-- {
		if before[i].Kind == KindSemicolon {
			stmtStart = i + 1
			break
		}
	}
	stmt := before[stmtStart:]

	parenDepth := 0
	for _, t := range stmt {
		switch t.Kind {
		case KindLParen:
			parenDepth++
		case KindRParen:
			if parenDepth > 0 {
				parenDepth--
			}
		}
	}

	return Context{Kind: determineContext(stmt, parenDepth)}
}

// dotContextAlias reports whether the cursor sits after "ident." (possibly
// inside a partial identifier following the dot) and returns the identifier
// before the dot.
func dotContextAlias(tokens []Token, offset int) (string, bool) {
	toks := meaningful(tokens)

	lastDot := -1
	for i, t := range toks {
		if t.Kind == KindDot && t.End <= offset {
			lastDot = i
		}
	}
	if lastDot <= 0 {
		return "", false
	}

	// A complete token after the dot with the cursor beyond it means the dot
	// expression is finished.
	if lastDot+1 < len(toks) {
		next := toks[lastDot+1]
		if next.Start >= toks[lastDot].End && offset > next.End {
			return "", false
		}
	}

	before := toks[lastDot-1]
	switch before.Kind {
	case KindIdent:
		return before.Text, true
	case KindQuotedIdent:
		return identText(before), true
	}
	return "", false
}

func determineContext(stmt []Token, parenDepth int) ContextKind {
	if len(stmt) == 0 {
		return CtxStart
	}

	if parenDepth > 0 {
		// Inside an unclosed paren: CREATE TABLE column list when the paren
		// is preceded by CREATE TABLE, otherwise function arguments.
		depth := 0
		parenIdx := -1
		for i := len(stmt) - 1; i >= 0; i-- {
			switch stmt[i].Kind {
			case KindRParen:
				depth++
			case KindLParen:
				if depth == 0 {
					parenIdx = i
				} else {
					depth--
				}
			}
			if parenIdx >= 0 {
				break
			}
		}
		// A paren opened right after VALUES is a row constructor, not a
		// function call.
		if parenIdx > 0 && stmt[parenIdx-1].IsKeyword(KwValues) {
			return CtxValues
		}
		if parenIdx >= 0 {
		scan:
			for i := parenIdx - 1; i >= 0; i-- {
				switch stmt[i].Kind {
				case KindIdent, KindQuotedIdent:
					// keep looking past the table name
				case KindKeyword:
					if stmt[i].Keyword == KwTable {
						if i > 0 && stmt[i-1].IsKeyword(KwCreate) {
							return CtxCreateTable
						}
					}
					break scan
				default:
					break scan
				}
			}
		}
		return CtxFunctionArgs
	}

	lastKw := -1
	for i, t := range stmt {
		if t.Kind == KindKeyword {
			lastKw = i
		}
	}
	// Unrecognized non-empty prefixes fall back to the select list; CtxStart
	// is reserved for empty or whitespace-only input.
	if lastKw < 0 {
		return CtxSelectColumns
	}
	return contextFromKeyword(stmt, lastKw)
}

func contextFromKeyword(stmt []Token, kwIdx int) ContextKind {
	after := stmt[kwIdx+1:]

	switch stmt[kwIdx].Keyword {
	case KwSelect, KwDistinct, KwAll:
		if hasKeyword(after, KwFrom) {
			return findLaterContext(after)
		}
		return CtxSelectColumns

	case KwFrom, KwJoin, KwInner, KwLeft, KwRight, KwFull, KwCross:
		if hasKeyword(after, KwWhere, KwOn, KwGroup, KwOrder, KwHaving, KwLimit) {
			return findLaterContext(after)
		}
		return CtxTableName

	case KwInto:
		return CtxTableName

	case KwUpdate:
		if hasKeyword(after, KwSet) {
			return findLaterContext(after)
		}
		return CtxTableName

	case KwWhere, KwAnd, KwOr, KwOn, KwHaving:
		return CtxCondition

	case KwOrder, KwGroup:
		if hasKeyword(after, KwBy) {
			return CtxOrderBy
		}
		return CtxSelectColumns

	case KwBy:
		if kwIdx > 0 {
			prev := stmt[kwIdx-1]
			if prev.IsKeyword(KwOrder) || prev.IsKeyword(KwGroup) {
				return CtxOrderBy
			}
		}
		return CtxSelectColumns

	case KwSet:
		return CtxSetClause

	case KwValues:
		return CtxValues

	case KwCreate:
		if hasKeyword(after, KwTable) {
			return CtxCreateTable
		}
		return CtxSelectColumns

	case KwTable:
		if kwIdx > 0 && stmt[kwIdx-1].IsKeyword(KwCreate) {
			return CtxCreateTable
		}
		return CtxSelectColumns
	}
	return CtxSelectColumns
}

func hasKeyword(toks []Token, kws ...Keyword) bool {
	for _, t := range toks {
		if t.Kind != KindKeyword {
			continue
		}
		for _, kw := range kws {
			if t.Keyword == kw {
				return true
			}
		}
	}
	return false
}

// findLaterContext resolves the context from the last clause keyword when the
// cursor is past the clause the dispatch keyword opened.
func findLaterContext(toks []Token) ContextKind {
	for i := len(toks) - 1; i >= 0; i-- {
		if toks[i].Kind != KindKeyword {
			continue
		}
		switch toks[i].Keyword {
		case KwWhere, KwAnd, KwOr, KwOn, KwHaving:
			return CtxCondition
		case KwOrder, KwGroup:
			return CtxOrderBy
		case KwSet:
			return CtxSetClause
		case KwFrom, KwJoin, KwInner, KwLeft, KwRight, KwFull, KwCross:
			return CtxTableName
		case KwSelect:
			return CtxSelectColumns
		}
	}
	return CtxSelectColumns
}
