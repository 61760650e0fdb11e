package widget_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitedit/kite/pkg/geometry"
	"github.com/kitedit/kite/pkg/scroll"
	"github.com/kitedit/kite/pkg/theme"
	"github.com/kitedit/kite/pkg/widget"
)

// fakeWidget is a minimal Widget used to exercise layout/focus/dispatch
// without depending on the real editor/buffer widgets.
type fakeWidget struct {
	widget.Leaf
	full      geometry.XY
	kite      geometry.XY
	lastLayed geometry.Screenspace
	updates   int
	inputs    int
}

func newFake(full geometry.XY) *fakeWidget {
	f := &fakeWidget{Leaf: widget.NewLeaf(), full: full}
	return f
}

func (f *fakeWidget) Typename() string             { return "fake" }
func (f *fakeWidget) FullSize() geometry.XY         { return f.full }
func (f *fakeWidget) SizePolicy() widget.SizePolicy { return widget.SizePolicy{} }
func (f *fakeWidget) Prelayout()                    {}
func (f *fakeWidget) Layout(ss geometry.Screenspace) { f.lastLayed = ss }
func (f *fakeWidget) Kite() geometry.XY             { return f.kite }
func (f *fakeWidget) OnInput(msg widget.InputMsg) bool {
	f.inputs++
	return true
}
func (f *fakeWidget) Update(msg widget.Msg) widget.Cmd {
	f.updates++
	return nil
}
func (f *fakeWidget) Render(th *theme.Theme, focused bool, out scroll.Output) {}
func (f *fakeWidget) GetFocused() widget.Widget {
	if f.Focused() {
		return f
	}
	return nil
}

func TestMoveFocusPicksNearestInDirection(t *testing.T) {
	left := widget.Focusable{Widget: newFake(geometry.XY{}), Rect: geometry.Rect{Pos: geometry.XY{X: 0, Y: 0}, Size: geometry.XY{X: 5, Y: 5}}}
	right := widget.Focusable{Widget: newFake(geometry.XY{}), Rect: geometry.Rect{Pos: geometry.XY{X: 10, Y: 0}, Size: geometry.XY{X: 5, Y: 5}}}
	below := widget.Focusable{Widget: newFake(geometry.XY{}), Rect: geometry.Rect{Pos: geometry.XY{X: 0, Y: 10}, Size: geometry.XY{X: 5, Y: 5}}}

	candidates := []widget.Focusable{right, below}
	got, ok := widget.MoveFocus(candidates, left.Rect, widget.Right)
	require.True(t, ok)
	assert.Same(t, right.Widget, got)

	got, ok = widget.MoveFocus(candidates, left.Rect, widget.Down)
	require.True(t, ok)
	assert.Same(t, below.Widget, got)

	_, ok = widget.MoveFocus(candidates, left.Rect, widget.Up)
	assert.False(t, ok, "nothing above: no candidate")
}

func TestHitTestPicksTopmostOverlappingCandidate(t *testing.T) {
	back := newFake(geometry.XY{})
	front := newFake(geometry.XY{})
	candidates := []widget.Focusable{
		{Widget: back, Rect: geometry.Rect{Pos: geometry.Zero, Size: geometry.XY{X: 10, Y: 10}}},
		{Widget: front, Rect: geometry.Rect{Pos: geometry.XY{X: 2, Y: 2}, Size: geometry.XY{X: 4, Y: 4}}},
	}
	got, ok := widget.HitTest(candidates, geometry.XY{X: 3, Y: 3})
	require.True(t, ok)
	assert.Same(t, front, got)

	got, ok = widget.HitTest(candidates, geometry.XY{X: 8, Y: 8})
	require.True(t, ok)
	assert.Same(t, back, got)
}

func TestContainerUpdateBroadcastsToAllChildren(t *testing.T) {
	a := newFake(geometry.XY{})
	b := newFake(geometry.XY{})
	c := widget.NewContainer(a, b)

	c.Update("tick")
	assert.Equal(t, 1, a.updates)
	assert.Equal(t, 1, b.updates)
}

func TestContainerOnInputRoutesOnlyToFocusedChild(t *testing.T) {
	a := newFake(geometry.XY{})
	b := newFake(geometry.XY{})
	c := widget.NewContainer(a, b)

	c.FocusChild(1)
	c.OnInput(widget.InputMsg{Rune: 'x'})
	assert.Equal(t, 0, a.inputs)
	assert.Equal(t, 1, b.inputs)
}

func TestWithScrollFollowsInnerKite(t *testing.T) {
	inner := newFake(geometry.XY{X: 200, Y: 200})
	inner.kite = geometry.XY{X: 150, Y: 150}

	ws := widget.NewWithScroll(inner, scroll.Both)
	ss, ok := geometry.NewScreenspace(geometry.XY{X: 20, Y: 10}, geometry.Rect{Pos: geometry.Zero, Size: geometry.XY{X: 20, Y: 10}})
	require.True(t, ok)

	ws.Layout(ss)

	assert.LessOrEqual(t, int(inner.lastLayed.VisibleRect.Pos.X)+20, 151)
	assert.GreaterOrEqual(t, int(inner.lastLayed.VisibleRect.Pos.X)+20, 150)
}

func TestWithScrollReservesGutterWidth(t *testing.T) {
	inner := newFake(geometry.XY{X: 5, Y: 200})
	ws := widget.NewWithScroll(inner, scroll.Both)
	ws.GutterWidth = func(geometry.XY) int { return 4 }

	ss, ok := geometry.NewScreenspace(geometry.XY{X: 20, Y: 10}, geometry.Rect{Pos: geometry.Zero, Size: geometry.XY{X: 20, Y: 10}})
	require.True(t, ok)
	ws.Layout(ss)

	assert.Equal(t, uint16(16), inner.lastLayed.VisibleRect.Size.X)
}
