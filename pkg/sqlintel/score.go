package sqlintel

import (
	"fmt"
	"strings"
)

// ItemKind classifies a completion item for ranking and display.
type ItemKind int

const (
	ItemKeyword ItemKind = iota
	ItemTable
	ItemColumn
	ItemSnippet
	ItemOperator
	ItemFunction
	ItemDataType
)

// Base priorities per item kind; lower ranks earlier.
const (
	priorityKeyword  = 1000
	priorityTable    = 2000
	priorityColumn   = 3000
	prioritySnippet  = 4000
	priorityOperator = 4500
	priorityFunction = 5000

	// contextBoost promotes a kind that matches the cursor context.
	contextBoost = 2500
	// prefixBoost promotes labels starting with the word being typed.
	prefixBoost = 200
)

func baseScore(kind ItemKind) int {
	switch kind {
	case ItemKeyword:
		return priorityKeyword
	case ItemTable:
		return priorityTable
	case ItemSnippet:
		return prioritySnippet
	case ItemOperator:
		return priorityOperator
	case ItemFunction:
		return priorityFunction
	}
	// Columns, data types, and anything unclassified rank together.
	return priorityColumn
}

// contextMatches reports whether kind is the natural completion for ctx.
func contextMatches(ctx ContextKind, kind ItemKind) bool {
	switch kind {
	case ItemColumn:
		switch ctx {
		case CtxDotColumn, CtxSelectColumns, CtxCondition, CtxOrderBy, CtxSetClause, CtxFunctionArgs:
			return true
		}
	case ItemTable:
		return ctx == CtxTableName
	}
	return false
}

// Score ranks one candidate: base priority minus context and prefix boosts.
// The current word never grants a prefix boost when empty.
func Score(ctx ContextKind, kind ItemKind, label, currentWord string) int {
	score := baseScore(kind)
	if contextMatches(ctx, kind) {
		score -= contextBoost
	}
	if currentWord != "" && strings.HasPrefix(strings.ToUpper(label), strings.ToUpper(currentWord)) {
		score -= prefixBoost
	}
	return score
}

// SortText encodes a score and label into a lexicographically sortable key.
func SortText(score int, label string) string {
	if score < 0 {
		score = 0
	}
	if score > 99999 {
		score = 99999
	}
	return fmt.Sprintf("%05d_%s", score, label)
}
