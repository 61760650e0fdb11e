package syntax

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/kitedit/kite/pkg/buffer"
)

// Highlight is one styled span: a char range plus the capture name it
// matched (e.g. "keyword", "string", "comment").
type Highlight struct {
	Begin, End int // char indices
	Capture    string
}

// HighlightIterator yields highlights for a requested character range. It
// snapshots the tree and source bytes it was built against, so it survives
// a concurrent reparse triggered by further edits (§4.C).
type HighlightIterator struct {
	matches  *tree_sitter.QueryMatches
	tree     *tree_sitter.Tree
	query    *tree_sitter.Query
	names    []string
	source   []byte
	cursor   *tree_sitter.QueryCursor
	toChar   func(byteOffset int) int
	pending  []Highlight
}

// NewHighlightIterator evaluates the parsing tuple's highlight query over
// its current tree, restricted to [beginByte, endByte). toChar converts a
// byte offset back to a char index (callers pass buffer.Rope-backed
// conversion). Returns an iterator with no captures if the tuple is
// disabled or has no tree yet — highlighting falls back to "no captures"
// rather than erroring (§4.C).
func NewHighlightIterator(p *ParsingTuple, beginByte, endByte int, toChar func(int) int) *HighlightIterator {
	p.mu.Lock()
	defer p.mu.Unlock()

	it := &HighlightIterator{names: p.captureNames, toChar: toChar}
	if p.disabled || p.tree == nil || p.query == nil {
		return it
	}

	src := p.source()
	it.source = src
	it.query = p.query

	cursor := tree_sitter.NewQueryCursor()
	cursor.SetByteRange(uint(beginByte), uint(endByte))
	it.cursor = cursor
	it.tree = p.tree.Clone()
	it.matches = cursor.Matches(p.query, it.tree.RootNode(), src)
	return it
}

// Next returns the next highlight, or false when exhausted.
func (it *HighlightIterator) Next() (Highlight, bool) {
	if len(it.pending) > 0 {
		h := it.pending[0]
		it.pending = it.pending[1:]
		return h, true
	}
	if it.matches == nil {
		return Highlight{}, false
	}
	match := it.matches.Next()
	if match == nil {
		return Highlight{}, false
	}
	for _, cap := range match.Captures {
		name := ""
		if int(cap.Index) < len(it.names) {
			name = it.names[cap.Index]
		}
		start := cap.Node.StartByte()
		end := cap.Node.EndByte()
		it.pending = append(it.pending, Highlight{
			Begin:   it.toChar(int(start)),
			End:     it.toChar(int(end)),
			Capture: name,
		})
	}
	return it.Next()
}

// Close releases the query cursor and the tree snapshot.
func (it *HighlightIterator) Close() {
	if it.cursor != nil {
		it.cursor.Close()
	}
	if it.tree != nil {
		it.tree.Close()
	}
}

// HighlightsInRange collects every highlight in [beginChar, endChar) against
// rope, reparsing lazily if the tuple has never been parsed.
func HighlightsInRange(p *ParsingTuple, r *buffer.Rope, beginChar, endChar int) []Highlight {
	if p.CurrentTree() == nil {
		p.Reparse()
	}
	beginByte := r.ByteOffset(beginChar)
	endByte := r.ByteOffset(endChar)
	toChar := func(b int) int {
		// The rope exposes byte<->char conversion only at the whole-string
		// level, so this decodes the document's bytes up to b on each
		// call; single documents are small enough for that to be
		// acceptable.
		return charIndexForByte(r, b)
	}

	it := NewHighlightIterator(p, beginByte, endByte, toChar)
	defer it.Close()

	var out []Highlight
	for {
		h, ok := it.Next()
		if !ok {
			break
		}
		out = append(out, h)
	}
	return out
}

func charIndexForByte(r *buffer.Rope, byteOffset int) int {
	full := r.String()
	if byteOffset <= 0 {
		return 0
	}
	if byteOffset >= len(full) {
		return r.LenChars()
	}
	return len([]rune(full[:byteOffset]))
}
