package widget

import "github.com/kitedit/kite/pkg/geometry"

// Container is an embeddable base for widgets that hold an ordered list of
// children and dispatch Update/OnInput/Render to them (§4.E). It mirrors the
// teacher's pitui.Container, generalized from a flat line-renderer to the
// full Widget contract.
type Container struct {
	id       ID
	children []Widget
	focusIdx int // index into children of the one holding focus, or -1
}

// NewContainer allocates a container with the given children, taking the
// first child that already holds focus, if any, as its focus target. It
// does not focus any child itself.
func NewContainer(children ...Widget) *Container {
	c := &Container{id: NewID(), children: children, focusIdx: -1}
	for i, ch := range children {
		if ch.GetFocused() != nil {
			c.focusIdx = i
			break
		}
	}
	return c
}

func (c *Container) ID() ID { return c.id }

// Children exposes the child list for layout algorithms in embedding types.
func (c *Container) Children() []Widget { return c.children }

// AddChild appends a child widget.
func (c *Container) AddChild(w Widget) { c.children = append(c.children, w) }

// Prelayout runs Prelayout bottom-up across all children.
func (c *Container) Prelayout() {
	for _, ch := range c.children {
		ch.Prelayout()
	}
}

// GetFocused returns the child currently holding focus, if any.
func (c *Container) GetFocused() Widget {
	if c.focusIdx < 0 || c.focusIdx >= len(c.children) {
		return nil
	}
	return c.children[c.focusIdx].GetFocused()
}

// SetFocused sets or clears focus on the current focus target. Clearing
// focus (focused=false) is forwarded to whichever child currently holds it.
func (c *Container) SetFocused(focused bool) {
	if c.focusIdx < 0 || c.focusIdx >= len(c.children) {
		return
	}
	c.children[c.focusIdx].SetFocused(focused)
}

// FocusChild moves focus to children[idx], clearing it from whoever had it.
// No-op if idx is out of range.
func (c *Container) FocusChild(idx int) {
	if idx < 0 || idx >= len(c.children) {
		return
	}
	if c.focusIdx >= 0 && c.focusIdx < len(c.children) {
		c.children[c.focusIdx].SetFocused(false)
	}
	c.focusIdx = idx
	c.children[idx].SetFocused(true)
}

// Kite forwards to the focused child, or the origin if none.
func (c *Container) Kite() geometry.XY {
	if f := c.GetFocused(); f != nil {
		return f.Kite()
	}
	return geometry.Zero
}

// OnInput forwards to the focused child only: exactly one widget in a
// container ever has hardware focus (§4.E).
func (c *Container) OnInput(msg InputMsg) bool {
	if c.focusIdx < 0 || c.focusIdx >= len(c.children) {
		return false
	}
	return c.children[c.focusIdx].OnInput(msg)
}

// Update bubbles msg to every child in declaration order and collects the
// first non-nil Cmd. Every child still sees the message regardless of
// focus: ticks, LSP responses, and theme changes are broadcast, not routed.
func (c *Container) Update(msg Msg) Cmd {
	var cmd Cmd
	for _, ch := range c.children {
		if got := ch.Update(msg); got != nil && cmd == nil {
			cmd = got
		}
	}
	return cmd
}

// Focusables collects the current screenspace-relative rects of every
// focusable child, for use with MoveFocus/HitTest. Embedding widgets must
// track each child's last-assigned rect themselves and pass it in here,
// since Container has no visibility into layout math performed by a
// concrete parent's Layout method.
func (c *Container) Focusables(rects []geometry.Rect) []Focusable {
	out := make([]Focusable, 0, len(c.children))
	for i, ch := range c.children {
		if i >= len(rects) {
			break
		}
		out = append(out, Focusable{Widget: ch, Rect: rects[i]})
	}
	return out
}
