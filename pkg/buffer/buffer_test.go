package buffer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitedit/kite/pkg/buffer"
)

func TestCharToLineLineToCharInverse(t *testing.T) {
	b := buffer.New("ab\ncd\nef")
	r := b.Rope()
	for l := 0; l < r.LineCount(); l++ {
		i := r.LineToChar(l)
		assert.Equal(t, l, r.CharToLine(i), "char_to_line(line_to_char) mismatch at line %d", l)
	}
	for i := 0; i <= r.LenChars(); i++ {
		l := r.CharToLine(i)
		assert.LessOrEqual(t, r.LineToChar(l), i)
	}
}

func TestInsertBlockThenRemoveIsIdentity(t *testing.T) {
	b := buffer.New("hello world")
	before := b.Text()
	ok := b.InsertBlock(5, ", there")
	require.True(t, ok)
	ok = b.Remove(5, 5+len([]rune(", there")))
	require.True(t, ok)
	assert.Equal(t, before, b.Text())
}

func TestUndoRestoresExactState(t *testing.T) {
	b := buffer.New("abc")
	before := b.Text()
	beforeCursors := append([]buffer.Cursor(nil), b.Cursors().Cursors()...)

	changed := b.ApplyCommonEdit(buffer.EditMsg{Kind: buffer.Char, Char: 'X'}, 10, nil, false)
	require.True(t, changed)
	require.NotEqual(t, before, b.Text())

	ok := b.Undo()
	require.True(t, ok)
	assert.Equal(t, before, b.Text())
	assert.Equal(t, beforeCursors, b.Cursors().Cursors())
}

func TestRedoRestoresPostEditState(t *testing.T) {
	b := buffer.New("abc")
	b.ApplyCommonEdit(buffer.EditMsg{Kind: buffer.Char, Char: 'X'}, 10, nil, false)
	afterEdit := b.Text()

	require.True(t, b.Undo())
	require.True(t, b.Redo())
	assert.Equal(t, afterEdit, b.Text())
}

func TestBackspaceAtStartIsNoOp(t *testing.T) {
	b := buffer.New("abc")
	changed := b.ApplyCommonEdit(buffer.EditMsg{Kind: buffer.Backspace}, 10, nil, false)
	assert.False(t, changed)
	assert.Equal(t, "abc", b.Text())
}

func TestDeleteAtEndIsNoOp(t *testing.T) {
	b := buffer.New("abc")
	b.Cursors().Set([]buffer.Cursor{{Anchor: 3}}, b.Rope().LenChars())
	changed := b.ApplyCommonEdit(buffer.EditMsg{Kind: buffer.Delete}, 10, nil, false)
	assert.False(t, changed)
	assert.Equal(t, "abc", b.Text())
}

func TestArrowUpOnFirstLineIsNoOp(t *testing.T) {
	b := buffer.New("abc\ndef")
	before := append([]buffer.Cursor(nil), b.Cursors().Cursors()...)
	b.ApplyCommonEdit(buffer.EditMsg{Kind: buffer.ArrowUp}, 10, nil, false)
	assert.Equal(t, before, b.Cursors().Cursors())
}

func TestArrowDownOnLastLineIsNoOp(t *testing.T) {
	b := buffer.New("abc\ndef")
	b.Cursors().Set([]buffer.Cursor{{Anchor: 5}}, b.Rope().LenChars())
	before := append([]buffer.Cursor(nil), b.Cursors().Cursors()...)
	b.ApplyCommonEdit(buffer.EditMsg{Kind: buffer.ArrowDown}, 10, nil, false)
	assert.Equal(t, before, b.Cursors().Cursors())
}

func TestCursorSetNormalizationMergesOverlappingSelections(t *testing.T) {
	b := buffer.New("0123456789")
	cursors := []buffer.Cursor{
		{Anchor: 5, Selection: &buffer.Selection{Begin: 2, End: 5}},
		{Anchor: 8, Selection: &buffer.Selection{Begin: 4, End: 8}},
	}
	b.Cursors().Set(cursors, b.Rope().LenChars())
	got := b.Cursors().Cursors()
	require.Len(t, got, 1, "overlapping selections must merge into one cursor")
	assert.Equal(t, 2, got[0].Selection.Begin)
	assert.Equal(t, 8, got[0].Selection.End)
}

func TestCursorSetNeverEmpty(t *testing.T) {
	b := buffer.New("abc")
	b.Cursors().Set(nil, b.Rope().LenChars())
	assert.Len(t, b.Cursors().Cursors(), 1)
}

func TestPasteSingleLineAllCursorsGetIt(t *testing.T) {
	b := buffer.New("a\nb\nc")
	cursors := []buffer.Cursor{{Anchor: 0}, {Anchor: 2}, {Anchor: 4}}
	b.Cursors().Set(cursors, b.Rope().LenChars())
	clip := &fakeClipboard{text: "X"}
	changed := b.ApplyCommonEdit(buffer.EditMsg{Kind: buffer.Paste}, 10, clip, false)
	require.True(t, changed)
	assert.Equal(t, "Xa\nXb\nXc", b.Text())
}

func TestPasteNLinesNCursorsEachGetsOwnLine(t *testing.T) {
	b := buffer.New("a\nb")
	cursors := []buffer.Cursor{{Anchor: 0}, {Anchor: 2}}
	b.Cursors().Set(cursors, b.Rope().LenChars())
	clip := &fakeClipboard{text: "1\n2"}
	b.ApplyCommonEdit(buffer.EditMsg{Kind: buffer.Paste}, 10, clip, false)
	assert.Equal(t, "1a\n2b", b.Text())
}

func TestPasteMismatchedLineCountInsertsWholeClipboardEverywhere(t *testing.T) {
	b := buffer.New("a\nb")
	cursors := []buffer.Cursor{{Anchor: 0}, {Anchor: 2}}
	b.Cursors().Set(cursors, b.Rope().LenChars())
	clip := &fakeClipboard{text: "1\n2\n3"}
	b.ApplyCommonEdit(buffer.EditMsg{Kind: buffer.Paste}, 10, clip, false)
	assert.Equal(t, "1\n2\n3a\n1\n2\n3b", b.Text())
}

func TestReadOnlyBufferIgnoresMutatingEdits(t *testing.T) {
	b := buffer.New("abc")
	changed := b.ApplyCommonEdit(buffer.EditMsg{Kind: buffer.Char, Char: 'X'}, 10, nil, true)
	assert.False(t, changed)
	assert.Equal(t, "abc", b.Text())
}

func TestOutOfRangeIndicesFailWithoutMutatingState(t *testing.T) {
	b := buffer.New("abc")
	assert.False(t, b.InsertBlock(-1, "x"))
	assert.False(t, b.InsertBlock(100, "x"))
	assert.False(t, b.Remove(2, 100))
	assert.Equal(t, "abc", b.Text())
}

func TestPrimaryCursorTracksLastMovedNotLargestAnchor(t *testing.T) {
	b := buffer.New("0123456789")
	// Two cursors; SetPrimary names index 0 (anchor 2) as the one the user
	// last touched, which is not the cursor with the largest anchor.
	b.Cursors().SetPrimary([]buffer.Cursor{{Anchor: 2}, {Anchor: 8}}, b.Rope().LenChars(), 0)
	require.Equal(t, 2, b.Cursors().Cursors()[b.Cursors().Primary()].Anchor)

	// ArrowLeft moves every cursor (2 -> 1, 8 -> 7) and renormalises the
	// set. Primary must still point at the cursor that started at 2, not
	// at whichever now has the largest anchor (7).
	b.ApplyCommonEdit(buffer.EditMsg{Kind: buffer.ArrowLeft}, 10, nil, false)
	got := b.Cursors().Cursors()
	primary := got[b.Cursors().Primary()]
	assert.Equal(t, 1, primary.Anchor, "primary should be the cursor that moved from 2 to 1")
}

func TestPrimaryCursorSurvivesMerge(t *testing.T) {
	b := buffer.New("0123456789")
	// Cursor 0's selection [2,6) overlaps cursor 1's [5,8); normalising
	// merges them into one cursor, and that merged cursor must still be
	// the one Primary() names, since cursor 0 was designated primary.
	b.Cursors().SetPrimary([]buffer.Cursor{
		{Anchor: 6, Selection: &buffer.Selection{Begin: 2, End: 6}},
		{Anchor: 8, Selection: &buffer.Selection{Begin: 5, End: 8}},
	}, b.Rope().LenChars(), 0)
	require.Len(t, b.Cursors().Cursors(), 1, "overlapping selections merge into one cursor")
	assert.Equal(t, 0, b.Cursors().Primary())
}

func TestBackspaceWithThreeTransitivelyOverlappingSelectionsMergesOnce(t *testing.T) {
	b := buffer.New("0123456789")
	// Selections [0,4), [3,6), [5,8) only pairwise-chain through the
	// middle one; a merge that isn't transitive would treat the first and
	// third as unrelated and delete their text twice.
	b.Cursors().Set([]buffer.Cursor{
		{Anchor: 4, Selection: &buffer.Selection{Begin: 0, End: 4}},
		{Anchor: 6, Selection: &buffer.Selection{Begin: 3, End: 6}},
		{Anchor: 8, Selection: &buffer.Selection{Begin: 5, End: 8}},
	}, b.Rope().LenChars())
	changed := b.ApplyCommonEdit(buffer.EditMsg{Kind: buffer.Backspace}, 10, nil, false)
	require.True(t, changed)
	assert.Equal(t, "89", b.Text())
	assert.Len(t, b.Cursors().Cursors(), 1)
	assert.Equal(t, 0, b.Cursors().Cursors()[0].Anchor)
}

type fakeClipboard struct{ text string }

func (f *fakeClipboard) Read() (string, error)  { return f.text, nil }
func (f *fakeClipboard) Write(s string) error   { f.text = s; return nil }
