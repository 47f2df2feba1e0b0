package sqlintel

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Schema carries the catalog hints the completion engine draws from. Docs
// ride along with every name and surface in the completion detail popup.
type Schema struct {
	// Tables in the current database.
	Tables []DocEntry
	// Columns across all tables, used where no table scope applies.
	Columns []DocEntry
	// ColumnsByTable maps a table name to its columns.
	ColumnsByTable map[string][]DocEntry
}

// CompletionInfo is the dialect-specific vocabulary a plugin contributes on
// top of the standard SQL core.
type CompletionInfo struct {
	Keywords  []DocEntry
	Functions []DocEntry
	Operators []DocEntry
	DataTypes []DocEntry
	Snippets  []Snippet
}

// CompletionItem is one ranked suggestion. NewText replaces the byte range
// [ReplaceStart, ReplaceEnd) of the source text, which covers the word being
// typed.
type CompletionItem struct {
	Label        string
	Kind         ItemKind
	Detail       string
	Doc          string
	NewText      string
	ReplaceStart int
	ReplaceEnd   int
	FilterText   string
	SortText     string
	IsSnippet    bool // NewText uses $n placeholders
}

// maxCompletionItems caps the response size.
const maxCompletionItems = 50

// Engine produces completions and hovers for one editor session. Zero value
// works with an empty schema and no dialect info.
type Engine struct {
	Schema Schema
	Info   *CompletionInfo
}

// NewEngine returns an engine over the given schema hints.
func NewEngine(schema Schema) *Engine {
	return &Engine{Schema: schema}
}

// WithInfo attaches dialect vocabulary.
func (e *Engine) WithInfo(info *CompletionInfo) *Engine {
	e.Info = info
	return e
}

// IsCompletionTrigger reports whether typing newText should open the
// completion popup. A statement terminator never does.
func (e *Engine) IsCompletionTrigger(newText string) bool {
	return !strings.HasSuffix(newText, ";")
}

// Complete returns ranked suggestions for the cursor at byte offset into
// text. Inside a line comment it returns nothing.
func (e *Engine) Complete(text string, offset int) []CompletionItem {
	if offset > len(text) {
		offset = len(text)
	}

	before := text[:offset]
	lineStart := strings.LastIndexByte(before, '\n') + 1
	if strings.Contains(before[lineStart:], "--") {
		return nil
	}

	tokens := Tokenize(text)
	st := BuildSymbolTable(tokens)
	ctx := InferContext(tokens, offset, st)

	wordStart := currentWordStart(text, offset)
	currentWord := strings.ToUpper(text[wordStart:offset])

	b := &itemBuilder{
		ctx:          ctx.Kind,
		currentWord:  currentWord,
		replaceStart: wordStart,
		replaceEnd:   offset,
	}

	if ctx.Kind == CtxDotColumn {
		for _, col := range e.tableColumns(ctx.Table) {
			b.add(col.Label, ItemColumn, ctx.Table+".column", col.Doc, col.Label, false)
		}
		return b.finish()
	}

	show := showFlags(ctx.Kind)

	if show.tables {
		for _, t := range e.Schema.Tables {
			b.add(t.Label, ItemTable, "Table", t.Doc, t.Label, false)
		}
	}

	if show.columns {
		switch ctx.Kind {
		case CtxSelectColumns, CtxCondition, CtxOrderBy, CtxSetClause:
			// Scope to the tables named in FROM/JOIN.
			for _, table := range st.Tables() {
				for _, col := range e.tableColumns(table) {
					b.add(col.Label, ItemColumn, table+".column", col.Doc, col.Label, false)
				}
			}
		default:
			for _, col := range e.Schema.Columns {
				b.add(col.Label, ItemColumn, "Column", col.Doc, col.Label, false)
			}
		}
	}

	if show.keywords {
		for _, kw := range StandardKeywords {
			b.add(kw.Label, ItemKeyword, "", kw.Doc, kw.Label, false)
		}
		if e.Info != nil {
			for _, kw := range e.Info.Keywords {
				b.add(kw.Label, ItemKeyword, "", kw.Doc, kw.Label, false)
			}
			for _, op := range e.Info.Operators {
				b.add(op.Label, ItemOperator, "", op.Doc, op.Label, false)
			}
		}
	}

	if show.functions {
		for _, fn := range StandardFunctions {
			b.addFunction(fn)
		}
		if e.Info != nil {
			for _, fn := range e.Info.Functions {
				b.addFunction(fn)
			}
		}
	}

	if show.types && e.Info != nil {
		for _, dt := range e.Info.DataTypes {
			b.add(dt.Label, ItemDataType, "", dt.Doc, dt.Label, false)
		}
	}

	if ctx.Kind == CtxStart {
		for _, sn := range StandardSnippets {
			b.addSnippet(sn)
		}
		if e.Info != nil {
			for _, sn := range e.Info.Snippets {
				b.addSnippet(sn)
			}
		}
	}

	return b.finish()
}

// tableColumns finds the column list for a table, falling back to a
// case-insensitive match on the catalog key.
func (e *Engine) tableColumns(table string) []DocEntry {
	if cols, ok := e.Schema.ColumnsByTable[table]; ok {
		return cols
	}
	lower := strings.ToLower(table)
	for k, cols := range e.Schema.ColumnsByTable {
		if strings.ToLower(k) == lower {
			return cols
		}
	}
	return nil
}

type groupFlags struct {
	tables, columns, keywords, functions, types bool
}

func showFlags(ctx ContextKind) groupFlags {
	switch ctx {
	case CtxTableName:
		return groupFlags{tables: true}
	case CtxSelectColumns, CtxOrderBy, CtxSetClause, CtxCondition:
		return groupFlags{columns: true, keywords: true, functions: true}
	case CtxFunctionArgs:
		return groupFlags{columns: true, functions: true}
	case CtxCreateTable:
		return groupFlags{keywords: true, types: true}
	case CtxValues:
		return groupFlags{functions: true}
	case CtxDotColumn:
		return groupFlags{columns: true}
	default: // CtxStart
		return groupFlags{tables: true, columns: true, keywords: true}
	}
}

// itemBuilder accumulates filtered, scored completion items.
type itemBuilder struct {
	ctx          ContextKind
	currentWord  string // uppercased
	replaceStart int
	replaceEnd   int
	items        []CompletionItem
}

// add appends one candidate when it passes the current-word filter.
// filterLabel is the text matched against the typed word; for functions it is
// the bare name before the parenthesis.
func (b *itemBuilder) add(label string, kind ItemKind, detail, doc, newText string, snippet bool) {
	b.addFiltered(label, label, kind, detail, doc, newText, snippet)
}

func (b *itemBuilder) addFunction(fn DocEntry) {
	name := fn.Label
	if i := strings.IndexByte(name, '('); i >= 0 {
		name = name[:i]
	}
	b.addFiltered(fn.Label, name, ItemFunction, "", fn.Doc, fn.Label, false)
}

func (b *itemBuilder) addSnippet(sn Snippet) {
	b.addFiltered(sn.Label, sn.Label, ItemSnippet, "", sn.Doc, sn.Body, true)
}

func (b *itemBuilder) addFiltered(label, filterLabel string, kind ItemKind, detail, doc, newText string, snippet bool) {
	upper := strings.ToUpper(filterLabel)
	matchesPrefix := b.currentWord != "" && strings.HasPrefix(upper, b.currentWord)
	if b.currentWord != "" && !matchesPrefix {
		return
	}

	filterText := ""
	if matchesPrefix {
		filterText = prefixRunes(filterLabel, utf8.RuneCountInString(b.currentWord))
	}

	score := baseScore(kind)
	if contextMatches(b.ctx, kind) {
		score -= contextBoost
	}
	if matchesPrefix {
		score -= prefixBoost
	}

	b.items = append(b.items, CompletionItem{
		Label:        label,
		Kind:         kind,
		Detail:       detail,
		Doc:          doc,
		NewText:      newText,
		ReplaceStart: b.replaceStart,
		ReplaceEnd:   b.replaceEnd,
		FilterText:   filterText,
		SortText:     SortText(score, label),
		IsSnippet:    snippet,
	})
}

func (b *itemBuilder) finish() []CompletionItem {
	sort.SliceStable(b.items, func(i, j int) bool {
		return b.items[i].SortText < b.items[j].SortText
	})
	if len(b.items) > maxCompletionItems {
		b.items = b.items[:maxCompletionItems]
	}
	return b.items
}

// currentWordStart scans backwards from offset over identifier runes.
func currentWordStart(text string, offset int) int {
	start := offset
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(text[:start])
		if !(r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)) {
			break
		}
		start -= size
	}
	return start
}

func prefixRunes(s string, n int) string {
	for i := range s {
		if n == 0 {
			return s[:i]
		}
		n--
	}
	return s
}
