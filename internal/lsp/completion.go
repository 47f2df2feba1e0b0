package lsp

import (
	"github.com/dbforge-labs/dbforge/pkg/sqlintel"
)

// itemKinds maps engine item kinds to LSP completion kinds. Columns show as
// fields and tables as structs, matching how editors render them.
var itemKinds = map[sqlintel.ItemKind]CompletionItemKind{
	sqlintel.ItemKeyword:  CompletionItemKindKeyword,
	sqlintel.ItemTable:    CompletionItemKindStruct,
	sqlintel.ItemColumn:   CompletionItemKindField,
	sqlintel.ItemSnippet:  CompletionItemKindSnippet,
	sqlintel.ItemOperator: CompletionItemKindOperator,
	sqlintel.ItemFunction: CompletionItemKindFunction,
	sqlintel.ItemDataType: CompletionItemKindTypeParameter,
}

// getCompletions runs the engine against the document at the cursor and
// translates the ranked items to the wire format.
func (s *Server) getCompletions(params CompletionParams) []CompletionItem {
	doc := s.documents.Get(params.TextDocument.URI)
	if doc == nil {
		return nil
	}

	offset := doc.PositionToOffset(params.Position)
	suggestions := s.completionEngine().Complete(doc.Content, offset)

	items := make([]CompletionItem, 0, len(suggestions))
	for _, sg := range suggestions {
		item := CompletionItem{
			Label:         sg.Label,
			Kind:          itemKinds[sg.Kind],
			Detail:        sg.Detail,
			Documentation: sg.Doc,
			SortText:      sg.SortText,
			FilterText:    sg.FilterText,
			TextEdit: &TextEdit{
				Range: Range{
					Start: doc.OffsetToPosition(sg.ReplaceStart),
					End:   doc.OffsetToPosition(sg.ReplaceEnd),
				},
				NewText: sg.NewText,
			},
			InsertTextFormat: InsertTextFormatPlainText,
		}
		if sg.IsSnippet {
			item.InsertTextFormat = InsertTextFormatSnippet
		}
		items = append(items, item)
	}
	return items
}

// getHover asks the engine for documentation at the cursor. A nil result
// tells the client there is nothing to show.
func (s *Server) getHover(params HoverParams) *Hover {
	doc := s.documents.Get(params.TextDocument.URI)
	if doc == nil {
		return nil
	}

	offset := doc.PositionToOffset(params.Position)
	md := s.completionEngine().Hover(doc.Content, offset)
	if md == "" {
		return nil
	}

	return &Hover{
		Contents: MarkupContent{
			Kind:  MarkupKindMarkdown,
			Value: md,
		},
	}
}
