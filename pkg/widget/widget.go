// Package widget implements the retained-mode widget tree: the Widget
// contract, geometric focus graph, and message dispatch (§4.E).
package widget

import (
	"sync/atomic"

	"github.com/kitedit/kite/pkg/geometry"
	"github.com/kitedit/kite/pkg/scroll"
	"github.com/kitedit/kite/pkg/theme"
)

// ID uniquely identifies a widget instance for the lifetime of the process.
type ID uint64

var nextID atomic.Uint64

// NewID allocates a fresh widget identity.
func NewID() ID {
	return ID(nextID.Add(1))
}

// Axis is one sizing dimension's policy: a minimum it will not shrink below,
// a preferred size it asks for when space allows, and whether it should
// grow to absorb any extra space offered by its parent.
type Axis struct {
	Min       int
	Preferred int
	Flex      bool
}

// SizePolicy is a widget's sizing contract along both axes (§4.E).
type SizePolicy struct {
	Width  Axis
	Height Axis
}

// InputMsg is a single raw input event delivered to the focused widget.
type InputMsg struct {
	// Key is the decoded key name ("enter", "tab", "ctrl+c", ...), empty if
	// this event carries a literal rune instead.
	Key string
	// Rune is the literal character typed, valid when Key is empty.
	Rune rune
	// Shift/Alt/Ctrl report modifier state for Key events.
	Shift, Alt, Ctrl bool
}

// Msg is any application-level message bubbled through Update (LSP
// responses, ticks, completion results, ...). Widgets type-switch on the
// concrete type they care about and ignore the rest.
type Msg any

// Cmd is an optional follow-up action returned from Update, run by the
// owning app loop (e.g. "send this request", "quit"). A nil Cmd means no
// follow-up.
type Cmd func() Msg

// Widget is the contract every node in the tree implements (§4.E). Layout
// happens in two passes: Prelayout lets a widget report its FullSize before
// any rectangle is assigned (so a parent can decide how to divide space),
// then Layout assigns the Screenspace the widget will actually draw into.
type Widget interface {
	ID() ID
	Typename() string

	// FullSize reports the size this widget would like if given unlimited
	// space, after the most recent Prelayout call.
	FullSize() geometry.XY
	SizePolicy() SizePolicy

	// Prelayout is called bottom-up: children compute FullSize before their
	// parent does, so a parent's own Prelayout can consult them.
	Prelayout()
	// Layout assigns this widget's screenspace and recurses into children.
	Layout(ss geometry.Screenspace)

	// Kite returns this widget's (or its focused descendant's) point of
	// interest in local coordinates, used by an ancestor WithScroll to keep
	// it in view.
	Kite() geometry.XY

	// OnInput handles a raw input event when this widget (or a descendant)
	// has focus. Returns true if the event was consumed.
	OnInput(msg InputMsg) bool
	// Update handles an application message, bubbling to children first in
	// implementations that embed Container.
	Update(msg Msg) Cmd

	Render(th *theme.Theme, focused bool, out scroll.Output)

	// GetFocused returns the currently focused descendant (or itself, or
	// nil if nothing in this subtree currently holds focus).
	GetFocused() Widget
	SetFocused(focused bool)
}

// Leaf is an embeddable base for widgets with no children: it supplies an
// identity and a focus flag. GetFocused still has to be implemented by the
// embedding type (it must return itself as a Widget, which Leaf cannot name).
type Leaf struct {
	id      ID
	focused bool
}

// NewLeaf allocates a fresh leaf identity.
func NewLeaf() Leaf { return Leaf{id: NewID()} }

func (l *Leaf) ID() ID { return l.id }

func (l *Leaf) SetFocused(focused bool) { l.focused = focused }

func (l *Leaf) Focused() bool { return l.focused }

func (l *Leaf) Kite() geometry.XY { return geometry.Zero }
