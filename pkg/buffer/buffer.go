package buffer

import "github.com/google/uuid"

// Point is a (row, column) position in characters, used to report edits to
// the parser layer (§4.C) without buffer importing pkg/syntax.
type Point struct {
	Row, Column int
}

// EditReport is the delta §4.C's parser layer needs after each buffer edit.
type EditReport struct {
	OldStartByte, OldEndByte, NewEndByte    int
	OldStartPoint, OldEndPoint, NewEndPoint Point
}

// ParsingTuple is the contract a language parser (pkg/syntax) satisfies so a
// Buffer can notify it of edits without creating an import cycle.
type ParsingTuple interface {
	ReportEdit(EditReport)
}

// FileIdentity is the buffer's opaque file handle: a uuid allocated once
// when the buffer is created from a path, plus the canonical path and a
// modification marker. The uuid lets callers (e.g. the LSP client's
// textDocument/didOpen bookkeeping) key a buffer by identity rather than by
// path, which can be renamed out from under it.
type FileIdentity struct {
	ID       uuid.UUID
	Path     string
	Modified bool
}

// NewFileIdentity allocates a fresh ID for a buffer opened from path.
func NewFileIdentity(path string) FileIdentity {
	return FileIdentity{ID: uuid.New(), Path: path}
}

// Buffer is one editable document: a rope, a cursor set, undo/redo history,
// an optional language binding, and file identity.
type Buffer struct {
	rope    *Rope
	cursors *CursorSet
	history *History

	LanguageID string
	Parsing    ParsingTuple
	File       FileIdentity
}

// New creates a Buffer over the given initial text.
func New(text string) *Buffer {
	return &Buffer{
		rope:    NewRope(text),
		cursors: NewCursorSet(),
		history: newHistory(),
	}
}

// Rope exposes the underlying rope for read access (rendering, LSP sync).
func (b *Buffer) Rope() *Rope { return b.rope }

// Cursors exposes the cursor set for read access.
func (b *Buffer) Cursors() *CursorSet { return b.cursors }

// Text returns the full buffer contents.
func (b *Buffer) Text() string { return b.rope.String() }

// CharToLine and LineToChar are the buffer-level inverses required by §4.B.
func (b *Buffer) CharToLine(i int) int { return b.rope.CharToLine(i) }
func (b *Buffer) LineToChar(l int) int { return b.rope.LineToChar(l) }

// InsertChar/InsertBlock/Remove are the primitive total operations; they
// report the edit to the parsing tuple (if any) and push undo history on
// success, but do not touch cursors (callers normalise separately via
// ApplyCommonEdit for the common case).
func (b *Buffer) InsertChar(at int, ch rune) bool {
	return b.InsertBlock(at, string(ch))
}

func (b *Buffer) InsertBlock(at int, text string) bool {
	if at < 0 || at > b.rope.LenChars() {
		return false
	}
	before := b.snapshot()
	oldStartByte := b.rope.ByteOffset(at)
	oldStartPt := pointAt(b.rope, at)
	ok := b.rope.InsertBlock(at, text)
	if !ok {
		return false
	}
	b.pushHistory(before)
	newEnd := at + len([]rune(text))
	b.reportEdit(oldStartByte, oldStartByte, b.rope.ByteOffset(newEnd), oldStartPt, oldStartPt, pointAt(b.rope, newEnd))
	return true
}

func (b *Buffer) Remove(begin, end int) bool {
	if begin < 0 || end < begin || end > b.rope.LenChars() {
		return false
	}
	if begin == end {
		return true
	}
	before := b.snapshot()
	oldStartByte := b.rope.ByteOffset(begin)
	oldEndByte := b.rope.ByteOffset(end)
	oldStartPt := pointAt(b.rope, begin)
	oldEndPt := pointAt(b.rope, end)
	ok := b.rope.Remove(begin, end)
	if !ok {
		return false
	}
	b.pushHistory(before)
	newPt := pointAt(b.rope, begin)
	b.reportEdit(oldStartByte, oldEndByte, oldStartByte, oldStartPt, oldEndPt, newPt)
	return true
}

func pointAt(r *Rope, charIdx int) Point {
	row, col := r.CharToPoint(charIdx)
	return Point{Row: row, Column: col}
}

func (b *Buffer) reportEdit(oldStartByte, oldEndByte, newEndByte int, oldStart, oldEnd, newEnd Point) {
	if b.Parsing == nil {
		return
	}
	b.Parsing.ReportEdit(EditReport{
		OldStartByte: oldStartByte, OldEndByte: oldEndByte, NewEndByte: newEndByte,
		OldStartPoint: oldStart, OldEndPoint: oldEnd, NewEndPoint: newEnd,
	})
}

// ParserCallback is the function shape required by tree-sitter's incremental
// parse: given a byte offset and point, return the remaining bytes from
// there. CallbackForParser returns one bound to this buffer's current rope.
type ParserCallback func(byteOffset int, point Point) []byte

// CallbackForParser yields a function mapping (byte_offset, point) to a byte
// slice of the remainder, suitable for incremental parsing (§4.C).
func (b *Buffer) CallbackForParser() ParserCallback {
	r := b.rope
	return func(byteOffset int, _ Point) []byte {
		full := []byte(r.String())
		if byteOffset < 0 || byteOffset > len(full) {
			return nil
		}
		return full[byteOffset:]
	}
}
