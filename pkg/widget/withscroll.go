package widget

import (
	"strconv"

	"github.com/kitedit/kite/pkg/geometry"
	"github.com/kitedit/kite/pkg/scroll"
	"github.com/kitedit/kite/pkg/theme"
)

// WithScroll wraps an inner widget with a Scroll offset that follows the
// inner widget's Kite, offering it an unbounded (or gutter-adjusted)
// screenspace and presenting only the visible slice to the terminal
// (§4.D/§4.E). GutterWidth, when non-nil, is asked for the number of
// leading columns to reserve each render (e.g. line numbers); it receives
// the inner widget's current FullSize.
type WithScroll struct {
	id     ID
	Inner  Widget
	scroll scroll.Scroll

	GutterWidth func(contentSize geometry.XY) int

	lastViewport geometry.XY
}

// NewWithScroll wraps inner with a scroll offset restricted to dir.
func NewWithScroll(inner Widget, dir scroll.Direction) *WithScroll {
	return &WithScroll{id: NewID(), Inner: inner, scroll: scroll.NewScroll(dir)}
}

func (w *WithScroll) ID() ID          { return w.id }
func (w *WithScroll) Typename() string { return "WithScroll<" + w.Inner.Typename() + ">" }

func (w *WithScroll) FullSize() geometry.XY { return w.lastViewport }

func (w *WithScroll) SizePolicy() SizePolicy {
	return SizePolicy{
		Width:  Axis{Min: 1, Flex: true},
		Height: Axis{Min: 1, Flex: true},
	}
}

// Prelayout forwards to the inner widget so it reports its full content
// size, independent of the viewport.
func (w *WithScroll) Prelayout() {
	w.Inner.Prelayout()
}

// Layout assigns the viewport rect to this wrapper, derives the gutter
// width from the inner content size, follows the kite, and lays the inner
// widget out into an enlarged (content-sized) screenspace shifted by the
// scroll offset.
func (w *WithScroll) Layout(ss geometry.Screenspace) {
	w.lastViewport = ss.VisibleRect.Size

	gutter := 0
	if w.GutterWidth != nil {
		gutter = w.GutterWidth(w.Inner.FullSize())
	}
	viewport, ok := ss.VisibleRect.Size.TrySub(geometry.XY{X: uint16(gutter)})
	if !ok {
		viewport = geometry.Zero
	}

	content := w.Inner.FullSize()
	content = geometry.Max(content, viewport)

	w.scroll.FollowKite(viewport, content, w.Inner.Kite())

	innerSS, ok := geometry.NewScreenspace(content, geometry.Rect{Pos: w.scroll.Offset, Size: viewport})
	if !ok {
		innerSS = geometry.Full(content)
	}
	w.Inner.Layout(innerSS)
}

// ScrollOffset exposes the current content offset, e.g. so an ancestor can
// translate the inner widget's kite into screen coordinates itself.
func (w *WithScroll) ScrollOffset() geometry.XY { return w.scroll.Offset }

// Kite returns the inner widget's kite minus the scroll offset, i.e. its
// position within this wrapper's viewport, so an ancestor WithScroll can
// in turn follow it.
func (w *WithScroll) Kite() geometry.XY {
	inner := w.Inner.Kite()
	shifted, ok := inner.TrySub(w.scroll.Offset)
	if !ok {
		return geometry.Zero
	}
	return shifted
}

func (w *WithScroll) OnInput(msg InputMsg) bool { return w.Inner.OnInput(msg) }
func (w *WithScroll) Update(msg Msg) Cmd        { return w.Inner.Update(msg) }

func (w *WithScroll) GetFocused() Widget { return w.Inner.GetFocused() }
func (w *WithScroll) SetFocused(focused bool) { w.Inner.SetFocused(focused) }

// Render composes an OverOutput (the inner widget's enlarged coordinate
// space) over a SubOutput (the gutter-adjusted viewport) and renders the
// gutter itself, if configured, before delegating to the inner widget.
func (w *WithScroll) Render(th *theme.Theme, focused bool, out scroll.Output) {
	gutter := 0
	if w.GutterWidth != nil {
		gutter = w.GutterWidth(w.Inner.FullSize())
	}

	size := out.Size()
	textRect := geometry.Rect{Pos: geometry.XY{X: uint16(gutter)}, Size: geometry.XY{
		X: saturatingSub(size.X, uint16(gutter)),
		Y: size.Y,
	}}
	textOut := scroll.NewSubOutput(out, textRect)

	content := w.Inner.FullSize()
	content = geometry.Max(content, textOut.Size())
	over := scroll.NewOverOutput(textOut, content, w.scroll.Offset)

	if gutter > 0 {
		w.renderGutter(th, out, gutter, int(size.Y))
	}

	w.Inner.Render(th, focused, over)
}

func (w *WithScroll) renderGutter(th *theme.Theme, out scroll.Output, width, rows int) {
	style := th.Style(theme.RoleGutter)
	firstLine := int(w.scroll.Offset.Y)
	for row := 0; row < rows; row++ {
		lineNo := firstLine + row + 1
		label := padLeft(strconv.Itoa(lineNo), width-1)
		out.PrintAt(geometry.XY{X: 0, Y: uint16(row)}, style, label+" ")
	}
}

func saturatingSub(a, b uint16) uint16 {
	if b >= a {
		return 0
	}
	return a - b
}

func padLeft(s string, width int) string {
	for len(s) < width {
		s = " " + s
	}
	return s
}
