package sqlintel

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Hover returns markdown documentation for the word at byte offset, or ""
// when nothing is known about it. Lookup order: standard keywords, standard
// functions, then the dialect's keywords, functions, operators, and data
// types.
func (e *Engine) Hover(text string, offset int) string {
	word := strings.ToUpper(wordAt(text, offset))
	if word == "" {
		return ""
	}

	for _, kw := range StandardKeywords {
		if kw.Label == word {
			return hoverMarkdown(kw.Label, kw.Doc)
		}
	}
	for _, fn := range StandardFunctions {
		if nameBeforeParen(fn.Label) == word {
			return hoverMarkdown(fn.Label, fn.Doc)
		}
	}

	if e.Info == nil {
		return ""
	}
	for _, kw := range e.Info.Keywords {
		if kw.Label == word {
			return hoverMarkdown(kw.Label, kw.Doc)
		}
	}
	for _, fn := range e.Info.Functions {
		if nameBeforeParen(fn.Label) == word {
			return hoverMarkdown(fn.Label, fn.Doc)
		}
	}
	for _, op := range e.Info.Operators {
		if op.Label == word {
			return hoverMarkdown(op.Label, op.Doc)
		}
	}
	for _, dt := range e.Info.DataTypes {
		if nameBeforeParen(dt.Label) == word {
			return hoverMarkdown(dt.Label, dt.Doc)
		}
	}
	return ""
}

func hoverMarkdown(label, doc string) string {
	return fmt.Sprintf("**%s**\n\n%s", label, doc)
}

func nameBeforeParen(label string) string {
	if i := strings.IndexByte(label, '('); i >= 0 {
		return label[:i]
	}
	return label
}

// wordAt returns the identifier word surrounding byte offset.
func wordAt(text string, offset int) string {
	if offset > len(text) {
		offset = len(text)
	}
	start := currentWordStart(text, offset)
	end := offset
	for end < len(text) {
		r, size := utf8.DecodeRuneInString(text[end:])
		if !(r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)) {
			break
		}
		end += size
	}
	return text[start:end]
}
