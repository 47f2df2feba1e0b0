package lsp

import "sync"

// Document is one open text document in the editor.
type Document struct {
	URI     string
	Content string
	Version int
	// Byte offsets of line starts for position lookups.
	lines []int
}

// DocumentStore keeps the open documents in memory.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]*Document
}

// NewDocumentStore creates an empty store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{documents: make(map[string]*Document)}
}

// Open adds or replaces a document.
func (s *DocumentStore) Open(uri, content string, version int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.documents[uri] = &Document{
		URI:     uri,
		Content: content,
		Version: version,
		lines:   lineOffsets(content),
	}
}

// Close removes a document.
func (s *DocumentStore) Close(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.documents, uri)
}

// Get retrieves a document by URI, nil when not open.
func (s *DocumentStore) Get(uri string) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.documents[uri]
}

// Update replaces an open document's content.
func (s *DocumentStore) Update(uri, content string, version int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if doc, ok := s.documents[uri]; ok {
		doc.Content = content
		doc.Version = version
		doc.lines = lineOffsets(content)
	}
}

// lineOffsets records the byte offset each line starts at.
func lineOffsets(content string) []int {
	offsets := []int{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}

// PositionToOffset converts a Position to a byte offset, clamped to the
// document bounds.
func (d *Document) PositionToOffset(pos Position) int {
	if d == nil || len(d.lines) == 0 {
		return 0
	}

	line := int(pos.Line)
	if line >= len(d.lines) {
		return len(d.Content)
	}

	offset := d.lines[line] + int(pos.Character)
	if offset > len(d.Content) {
		return len(d.Content)
	}
	return offset
}

// OffsetToPosition converts a byte offset back to a Position.
func (d *Document) OffsetToPosition(offset int) Position {
	if d == nil || len(d.lines) == 0 {
		return Position{}
	}

	if offset < 0 {
		offset = 0
	}
	if offset > len(d.Content) {
		offset = len(d.Content)
	}

	line := 0
	for i, start := range d.lines {
		if start > offset {
			break
		}
		line = i
	}

	return Position{
		Line:      uint32(line),
		Character: uint32(offset - d.lines[line]),
	}
}
