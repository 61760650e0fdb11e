// Package editor binds the buffer, syntax, scroll, and widget layers into
// the editable text view and its surrounding chrome: gutter, find/replace,
// save-as dialog, and completion overlay (§4.F).
package editor

import (
	"github.com/kitedit/kite/pkg/buffer"
	"github.com/kitedit/kite/pkg/geometry"
	"github.com/kitedit/kite/pkg/scroll"
	"github.com/kitedit/kite/pkg/syntax"
	"github.com/kitedit/kite/pkg/theme"
	"github.com/kitedit/kite/pkg/widget"
)

// keyToEditKind maps a decoded key name to the edit it produces, the same
// binding table an editor's input handler would hold (§4.B).
var keyToEditKind = map[string]buffer.EditKind{
	"tab":        buffer.Tab,
	"enter":      buffer.Enter,
	"backspace":  buffer.Backspace,
	"delete":     buffer.Delete,
	"left":       buffer.ArrowLeft,
	"right":      buffer.ArrowRight,
	"up":         buffer.ArrowUp,
	"down":       buffer.ArrowDown,
	"home":       buffer.Home,
	"end":        buffer.End,
	"pageup":     buffer.PageUp,
	"pagedown":   buffer.PageDown,
	"ctrl+c":     buffer.Copy,
	"ctrl+x":     buffer.Cut,
	"ctrl+v":     buffer.Paste,
	"ctrl+z":     buffer.Undo,
	"ctrl+y":     buffer.Redo,
	"ctrl+a":     buffer.SelectAll,
	"ctrl+left":  buffer.WordLeft,
	"ctrl+right": buffer.WordRight,
}

// ReadOnly reports whether a view should reject mutation; BufferView asks
// its owner rather than holding the flag itself, since the same buffer may
// back both an editable view and a read-only preview.
type ReadOnly func() bool

// BufferView is the leaf widget rendering one Buffer: text, syntax
// highlighting, selections, and the hardware cursor position it reports
// via Kite (§4.F).
type BufferView struct {
	widget.Leaf

	Buf       *buffer.Buffer
	Parsing   *syntax.ParsingTuple // nil disables highlighting
	ReadOnly  ReadOnly
	Clipboard buffer.Clipboard

	pageHeight int
	fullSize   geometry.XY
}

// NewBufferView wraps buf in a widget. parsing may be nil.
func NewBufferView(buf *buffer.Buffer, parsing *syntax.ParsingTuple, clip buffer.Clipboard) *BufferView {
	return &BufferView{
		Leaf:       widget.NewLeaf(),
		Buf:        buf,
		Parsing:    parsing,
		Clipboard:  clip,
		pageHeight: 1,
	}
}

func (v *BufferView) Typename() string { return "BufferView" }

func (v *BufferView) FullSize() geometry.XY { return v.fullSize }

func (v *BufferView) SizePolicy() widget.SizePolicy {
	return widget.SizePolicy{
		Width:  widget.Axis{Min: 1, Flex: true},
		Height: widget.Axis{Min: 1, Flex: true},
	}
}

// Prelayout recomputes FullSize from the buffer's current line count and
// longest line, in characters. A cell-accurate width pass happens at
// Render time via displaywidth; Prelayout only needs an upper bound so
// WithScroll can size its content space.
func (v *BufferView) Prelayout() {
	r := v.Buf.Rope()
	lines := r.LineCount()
	maxWidth := 0
	for i := 0; i < lines; i++ {
		begin, end := r.LineRange(i)
		if w := end - begin; w > maxWidth {
			maxWidth = w
		}
	}
	v.fullSize = geometry.NewXY(maxWidth+1, lines)
}

func (v *BufferView) Layout(ss geometry.Screenspace) {
	v.pageHeight = int(ss.VisibleRect.Size.Y)
	if v.pageHeight < 1 {
		v.pageHeight = 1
	}
}

// Kite reports the primary cursor's position in buffer (row, col)
// coordinates, the point an ancestor WithScroll keeps visible. Primary
// names the cursor the user actually last moved or edited (§4.F), which
// CursorSet tracks through its anchor-sort and merge — not merely the
// cursor with the largest anchor.
func (v *BufferView) Kite() geometry.XY {
	cs := v.Buf.Cursors()
	cursors := cs.Cursors()
	if len(cursors) == 0 {
		return geometry.Zero
	}
	primary := cursors[cs.Primary()]
	row := v.Buf.CharToLine(primary.Anchor)
	col := int(buffer.VisualColumn(v.Buf.Rope(), primary.Anchor))
	return geometry.NewXY(col, row)
}

func (v *BufferView) readOnly() bool {
	return v.ReadOnly != nil && v.ReadOnly()
}

// OnInput translates a raw key/rune event into a buffer.EditMsg and applies
// it via Buf.ApplyCommonEdit (§4.B/§4.F wiring). Every rune and every
// mapped key is reported as consumed; unmapped keys are not.
func (v *BufferView) OnInput(msg widget.InputMsg) bool {
	var edit buffer.EditMsg
	if msg.Key == "" {
		edit = buffer.EditMsg{Kind: buffer.Char, Char: msg.Rune}
	} else {
		kind, ok := keyToEditKind[msg.Key]
		if !ok {
			return false
		}
		if msg.Key == "tab" && msg.Shift {
			kind = buffer.ShiftTab
		}
		edit = buffer.EditMsg{Kind: kind, Shift: msg.Shift}
	}
	v.Buf.ApplyCommonEdit(edit, v.pageHeight, v.Clipboard, v.readOnly())
	return true
}

func (v *BufferView) Update(msg widget.Msg) widget.Cmd { return nil }

func (v *BufferView) GetFocused() widget.Widget {
	if v.Focused() {
		return v
	}
	return nil
}

// Render draws every visible line: syntax highlight spans assign a theme
// role per column, a selection span overrides those columns' role, and the
// primary cursor's own column overrides both — the style-priority
// invariant (§4.F). Roles (not resolved styles) are tracked per column so
// contiguous same-role runs can be merged into one PrintAt call without
// comparing lipgloss.Style values directly.
func (v *BufferView) Render(th *theme.Theme, focused bool, out scroll.Output) {
	r := v.Buf.Rope()
	visible := out.VisibleRect()
	firstLine := int(visible.Pos.Y)
	lastLine := firstLine + int(visible.Size.Y)
	if lastLine > r.LineCount() {
		lastLine = r.LineCount()
	}
	if firstLine < 0 {
		firstLine = 0
	}

	var highlights []syntax.Highlight
	if v.Parsing != nil && firstLine < lastLine {
		beginChar, _ := r.LineRange(firstLine)
		endChar := r.LenChars()
		if lastLine < r.LineCount() {
			endChar, _ = r.LineRange(lastLine)
		}
		highlights = syntax.HighlightsInRange(v.Parsing, r, beginChar, endChar)
	}

	cursorAt := -1
	if focused {
		cs := v.Buf.Cursors()
		cursors := cs.Cursors()
		if len(cursors) > 0 {
			cursorAt = cursors[cs.Primary()].Anchor
		}
	}

	for line := firstLine; line < lastLine; line++ {
		begin, end := r.LineRange(line)
		lineText := []rune(r.Slice(begin, end))
		roles := make([]theme.Role, len(lineText))
		for i := range roles {
			roles[i] = theme.RoleDefault
		}
		applyCaptures(roles, highlights, begin, end)
		applySelections(roles, v.Buf, begin, end)
		if cursorAt >= begin && cursorAt < end {
			roles[cursorAt-begin] = theme.RoleCursor
		}

		row := uint16(line - firstLine)
		printRuns(out, th, row, lineText, roles)
	}
}

func applyCaptures(roles []theme.Role, highlights []syntax.Highlight, lineBegin, lineEnd int) {
	for _, h := range highlights {
		b, e := clampToLine(h.Begin, h.End, lineBegin, lineEnd)
		role := theme.RoleForCapture(h.Capture)
		for i := b; i < e; i++ {
			roles[i-lineBegin] = role
		}
	}
}

func applySelections(roles []theme.Role, buf *buffer.Buffer, lineBegin, lineEnd int) {
	for _, c := range buf.Cursors().Cursors() {
		if !c.HasSelection() {
			continue
		}
		b, e := clampToLine(c.Selection.Begin, c.Selection.End, lineBegin, lineEnd)
		for i := b; i < e; i++ {
			roles[i-lineBegin] = theme.RoleSelection
		}
	}
}

func clampToLine(begin, end, lineBegin, lineEnd int) (int, int) {
	if begin < lineBegin {
		begin = lineBegin
	}
	if end > lineEnd {
		end = lineEnd
	}
	if begin > end {
		begin = end
	}
	return begin, end
}

// printRuns merges adjacent runes sharing an identical role into a single
// PrintAt call, resolving the role to a style only once per run.
func printRuns(out scroll.Output, th *theme.Theme, row uint16, line []rune, roles []theme.Role) {
	col := 0
	for col < len(line) {
		start := col
		role := roles[col]
		for col < len(line) && roles[col] == role {
			col++
		}
		out.PrintAt(geometry.XY{X: uint16(start), Y: row}, th.Style(role), string(line[start:col]))
	}
}
