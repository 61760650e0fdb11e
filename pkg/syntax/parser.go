package syntax

import (
	"sync"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/kitedit/kite/pkg/buffer"
)

// ParsingTuple is the per-buffer tree-sitter state described in §3: a
// mutexed parser, the compiled language descriptor, the highlight query and
// its capture-name table, and the current tree (nil until the first parse).
//
// It implements buffer.ParsingTuple so a Buffer can report edits to it
// without pkg/buffer importing pkg/syntax.
type ParsingTuple struct {
	mu sync.Mutex

	languageID   string
	parser       *tree_sitter.Parser
	desc         *LanguageDescriptor
	query        *tree_sitter.Query
	captureNames []string

	tree *tree_sitter.Tree

	callback buffer.ParserCallback
	source   func() []byte

	// disabled is set when SetLanguage or query compilation failed; the
	// tuple then degrades to "no captures" forever, never crashing the
	// editor (§4.C failure semantics).
	disabled bool
}

// NewParsingTuple creates a parsing tuple for the given language, reading
// full buffer contents through source (called on every (re)parse; §4.C asks
// the parser to consult the buffer via the callback-for-parser interface,
// which in this implementation amounts to handing the parser the current
// byte slice directly rather than pull-based chunking, since go-tree-sitter
// parses from a single byte slice).
func NewParsingTuple(registry *Registry, languageID string, source func() []byte) (*ParsingTuple, bool) {
	desc, query, names, ok := registry.Get(languageID)
	if !ok {
		return nil, false
	}

	parser := tree_sitter.NewParser()
	if err := parser.SetLanguage(desc.Language); err != nil {
		return nil, false
	}

	return &ParsingTuple{
		languageID:   languageID,
		parser:       parser,
		desc:         desc,
		query:        query,
		captureNames: names,
		source:       source,
	}, true
}

// Reparse runs (or reruns) a full parse against the current buffer
// contents, using the previous tree incrementally if one exists.
func (p *ParsingTuple) Reparse() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reparseLocked()
}

func (p *ParsingTuple) reparseLocked() {
	if p.disabled {
		return
	}
	src := p.source()
	tree := p.parser.Parse(src, p.tree)
	if p.tree != nil {
		p.tree.Close()
	}
	p.tree = tree
}

// ReportEdit implements buffer.ParsingTuple: it applies the edit delta to
// the current tree (so the next Reparse is incremental) and reparses
// immediately, since the spec requires the editor to report edits
// synchronously on every buffer mutation (§4.C).
func (p *ParsingTuple) ReportEdit(e buffer.EditReport) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.disabled {
		return
	}
	if p.tree != nil {
		p.tree.Edit(&tree_sitter.InputEdit{
			StartByte:   uint(e.OldStartByte),
			OldEndByte:  uint(e.OldEndByte),
			NewEndByte:  uint(e.NewEndByte),
			StartPosition: tree_sitter.Point{Row: uint(e.OldStartPoint.Row), Column: uint(e.OldStartPoint.Column)},
			OldEndPosition: tree_sitter.Point{Row: uint(e.OldEndPoint.Row), Column: uint(e.OldEndPoint.Column)},
			NewEndPosition: tree_sitter.Point{Row: uint(e.NewEndPoint.Row), Column: uint(e.NewEndPoint.Column)},
		})
	}
	p.reparseLocked()
}

// CurrentTree returns the tree as of the last (re)parse, or nil.
func (p *ParsingTuple) CurrentTree() *tree_sitter.Tree {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tree
}

// Close releases the parser and tree.
func (p *ParsingTuple) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tree != nil {
		p.tree.Close()
		p.tree = nil
	}
	p.parser.Close()
}
