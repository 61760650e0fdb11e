package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitedit/kite/pkg/buffer"
	"github.com/kitedit/kite/pkg/clipboard"
	"github.com/kitedit/kite/pkg/geometry"
	"github.com/kitedit/kite/pkg/scroll"
	"github.com/kitedit/kite/pkg/theme"
	"github.com/kitedit/kite/pkg/widget"
)

func TestBufferViewPrelayoutReportsLineCountAndWidth(t *testing.T) {
	buf := buffer.New("ab\nlonger line\nc")
	view := NewBufferView(buf, nil, clipboard.NewMem())

	view.Prelayout()

	assert.Equal(t, 3, int(view.FullSize().Y))
	assert.GreaterOrEqual(t, int(view.FullSize().X), len("longer line"))
}

func TestBufferViewKiteFollowsPrimaryCursor(t *testing.T) {
	buf := buffer.New("ab\ncd\nef")
	view := NewBufferView(buf, nil, clipboard.NewMem())
	view.Prelayout()

	buf.Cursors().Set([]buffer.Cursor{{Anchor: buf.LineToChar(2)}}, buf.Rope().LenChars())

	kite := view.Kite()
	assert.Equal(t, 2, int(kite.Y))
}

func TestBufferViewOnInputInsertsCharacter(t *testing.T) {
	buf := buffer.New("")
	view := NewBufferView(buf, nil, clipboard.NewMem())
	view.Layout(geometry.Full(geometry.NewXY(80, 24)))

	ok := view.OnInput(widget.InputMsg{Rune: 'x'})
	require.True(t, ok)
	assert.Equal(t, "x", buf.Text())
}

func TestBufferViewOnInputUnknownKeyNotConsumed(t *testing.T) {
	buf := buffer.New("")
	view := NewBufferView(buf, nil, clipboard.NewMem())

	ok := view.OnInput(widget.InputMsg{Key: "f13"})
	assert.False(t, ok)
}

func TestBufferViewRenderAppliesCursorRoleOnFocusedColumn(t *testing.T) {
	buf := buffer.New("abc")
	view := NewBufferView(buf, nil, clipboard.NewMem())
	view.SetFocused(true)
	view.Layout(geometry.Full(geometry.NewXY(10, 1)))

	out := scroll.NewBaseOutput(geometry.NewXY(10, 1))
	view.Render(theme.DefaultDark(), true, out)

	assert.Equal(t, "a", out.Cell(geometry.XY{X: 0, Y: 0}).Grapheme)
	// DefaultDark's cursor role is the only one drawn in reverse video.
	assert.True(t, out.Cell(geometry.XY{X: 0, Y: 0}).Style.GetReverse(), "cursor column uses the cursor role")
	assert.False(t, out.Cell(geometry.XY{X: 1, Y: 0}).Style.GetReverse(), "other columns do not")
}

func TestFindBarFindsNextOccurrence(t *testing.T) {
	buf := buffer.New("foo bar foo baz")
	bar := NewFindBar(buf)
	bar.Query = []rune("foo")

	bar.findNext()
	begin, end := buf.Cursors().Cursors()[0].Range()
	assert.Equal(t, 0, begin)
	assert.Equal(t, 3, end)

	bar.findNext()
	begin, end = buf.Cursors().Cursors()[0].Range()
	assert.Equal(t, 8, begin)
	assert.Equal(t, 11, end)
}

func TestFindBarReplaceOneSubstitutesMatch(t *testing.T) {
	buf := buffer.New("foo bar foo")
	bar := NewFindBar(buf)
	bar.Query = []rune("foo")
	bar.Replace = []rune("baz")

	bar.findNext()
	bar.replaceOne()

	assert.Equal(t, "baz bar foo", buf.Text())
}

func TestSaveAsDialogNeedsPromptWhenPathUnset(t *testing.T) {
	d := NewSaveAsDialog()
	assert.True(t, d.needsPrompt())

	d.Path0 = "/tmp/file.go"
	assert.False(t, d.needsPrompt())
}

func TestEditorModeSwitchesOnCtrlF(t *testing.T) {
	buf := buffer.New("hello")
	ed := NewEditor(buf, nil, clipboard.NewMem(), nil)
	ed.Prelayout()
	ed.Layout(geometry.Full(geometry.NewXY(40, 10)))

	ok := ed.OnInput(widget.InputMsg{Key: "ctrl+f"})
	require.True(t, ok)
	assert.Equal(t, ModeFind, ed.mode)

	ok = ed.OnInput(widget.InputMsg{Key: "esc"})
	require.True(t, ok)
	assert.Equal(t, ModeNormal, ed.mode)
}

func TestEditorTestModeCollectsMetadata(t *testing.T) {
	buf := buffer.New("hello")
	ed := NewEditor(buf, nil, clipboard.NewMem(), nil)
	ed.TestMode = true
	ed.Prelayout()
	ed.Layout(geometry.Full(geometry.NewXY(40, 10)))

	meta := ed.Metadata()
	require.Len(t, meta, 2)
	assert.Equal(t, "Editor", meta[0].Typename)
	assert.Equal(t, "BufferView", meta[1].Typename)
}
