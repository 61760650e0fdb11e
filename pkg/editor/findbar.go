package editor

import (
	"strings"

	"github.com/kitedit/kite/pkg/buffer"
	"github.com/kitedit/kite/pkg/geometry"
	"github.com/kitedit/kite/pkg/scroll"
	"github.com/kitedit/kite/pkg/theme"
	"github.com/kitedit/kite/pkg/widget"
)

// FindBar is the single-line find/replace prompt shown at the bottom of an
// Editor (§4.F). It searches the buffer's current text directly; it does
// not index the buffer, since a find bar is opened for the length of one
// interactive search rather than kept live across edits.
type FindBar struct {
	widget.Leaf

	buf *buffer.Buffer

	Query     []rune
	Replace   []rune
	replacing bool

	lastFound int // char offset of the last match, or -1
	lastSize  geometry.XY
}

// NewFindBar builds a find/replace bar operating on buf.
func NewFindBar(buf *buffer.Buffer) *FindBar {
	return &FindBar{Leaf: widget.NewLeaf(), buf: buf, lastFound: -1}
}

func (f *FindBar) Typename() string         { return "FindBar" }
func (f *FindBar) FullSize() geometry.XY    { return f.lastSize }
func (f *FindBar) SizePolicy() widget.SizePolicy {
	return widget.SizePolicy{Width: widget.Axis{Flex: true}, Height: widget.Axis{Min: 1, Preferred: 1}}
}

func (f *FindBar) Prelayout() {}

func (f *FindBar) Layout(ss geometry.Screenspace) {
	f.lastSize = ss.VisibleRect.Size
}

func (f *FindBar) GetFocused() widget.Widget {
	if f.Focused() {
		return f
	}
	return nil
}

// OnInput appends to the query (or replacement, once tab has switched
// fields) or edits it; enter searches forward (shift+enter backward) and
// ctrl+h replaces the current match.
func (f *FindBar) OnInput(msg widget.InputMsg) bool {
	switch {
	case msg.Key == "tab":
		f.replacing = !f.replacing
		return true
	case msg.Key == "enter":
		if msg.Shift {
			f.findPrev()
		} else {
			f.findNext()
		}
		return true
	case msg.Key == "ctrl+h":
		f.replaceOne()
		return true
	case msg.Key == "backspace":
		f.backspace()
		return true
	case msg.Key == "":
		f.insert(msg.Rune)
		return true
	default:
		return false
	}
}

func (f *FindBar) insert(r rune) {
	if f.replacing {
		f.Replace = append(f.Replace, r)
	} else {
		f.Query = append(f.Query, r)
	}
}

func (f *FindBar) backspace() {
	if f.replacing {
		if len(f.Replace) > 0 {
			f.Replace = f.Replace[:len(f.Replace)-1]
		}
		return
	}
	if len(f.Query) > 0 {
		f.Query = f.Query[:len(f.Query)-1]
	}
}

// findNext selects the next occurrence of Query after the current cursor,
// wrapping to the start of the buffer when none remains.
func (f *FindBar) findNext() {
	query := string(f.Query)
	if query == "" {
		return
	}
	text := f.buf.Rope().String()
	from := f.searchStart()
	idx := strings.Index(text[from:], query)
	if idx < 0 {
		idx = strings.Index(text, query)
		if idx < 0 {
			f.lastFound = -1
			return
		}
	} else {
		idx += from
	}
	f.selectMatch(idx, len([]rune(query)))
}

// findPrev selects the nearest occurrence of Query before the current
// cursor, wrapping to the end of the buffer when none remains.
func (f *FindBar) findPrev() {
	query := string(f.Query)
	if query == "" {
		return
	}
	text := f.buf.Rope().String()
	before := text[:f.searchStart()]
	idx := strings.LastIndex(before, query)
	if idx < 0 {
		idx = strings.LastIndex(text, query)
		if idx < 0 {
			f.lastFound = -1
			return
		}
	}
	f.selectMatch(idx, len([]rune(query)))
}

func (f *FindBar) searchStart() int {
	cursors := f.buf.Cursors().Cursors()
	if len(cursors) == 0 {
		return 0
	}
	_, end := cursors[len(cursors)-1].Range()
	return f.buf.Rope().ByteOffset(end)
}

func (f *FindBar) selectMatch(byteIdx, runeLen int) {
	r := f.buf.Rope()
	charBegin := charIndexForByte(r.String(), byteIdx)
	charEnd := charBegin + runeLen
	f.lastFound = charBegin
	f.buf.Cursors().Set([]buffer.Cursor{{
		Anchor:    charEnd,
		Selection: &buffer.Selection{Begin: charBegin, End: charEnd},
	}}, r.LenChars())
}

// replaceOne replaces the currently selected match (if it is the last one
// found) with Replace, then advances to the next match.
func (f *FindBar) replaceOne() {
	if f.lastFound < 0 || len(f.Query) == 0 {
		return
	}
	begin := f.lastFound
	end := begin + len([]rune(f.Query))
	f.buf.Remove(begin, end)
	f.buf.InsertBlock(begin, string(f.Replace))
	f.findNext()
}

func (f *FindBar) Update(msg widget.Msg) widget.Cmd { return nil }

func (f *FindBar) Render(th *theme.Theme, focused bool, out scroll.Output) {
	style := th.Style(theme.RoleStatusBar)
	label := "Find: "
	if f.replacing {
		label = "Replace: "
	}
	line := label + string(f.Query)
	if f.replacing {
		line = "Find: " + string(f.Query) + "  Replace: " + string(f.Replace)
	}
	out.PrintAt(geometry.Zero, style, padRight(line, int(f.lastSize.X)))
}

func padRight(s string, width int) string {
	for len([]rune(s)) < width {
		s += " "
	}
	return s
}

// charIndexForByte converts a byte offset within s to the rune (character)
// index at that offset.
func charIndexForByte(s string, byteIdx int) int {
	n := 0
	for i := range s {
		if i >= byteIdx {
			return n
		}
		n++
	}
	return n
}
