package editor

import (
	"github.com/kitedit/kite/pkg/buffer"
	"github.com/kitedit/kite/pkg/geometry"
	"github.com/kitedit/kite/pkg/lspclient"
	"github.com/kitedit/kite/pkg/scroll"
	"github.com/kitedit/kite/pkg/syntax"
	"github.com/kitedit/kite/pkg/theme"
	"github.com/kitedit/kite/pkg/widget"
)

// Mode selects which of the editor's overlays, if any, currently owns
// keyboard focus.
type Mode int

const (
	ModeNormal Mode = iota
	ModeFind
	ModeSaveAs
)

// Metadata is the per-widget snapshot emitted in test mode (§4.F): enough
// for a test harness to assert on layout and focus without scraping
// rendered cells.
type Metadata struct {
	WidgetID widget.ID
	Typename string
	Rect     geometry.Rect
	Focused  bool
}

// Editor composes the scrollable buffer view with its chrome: a gutter,
// a find/replace bar, a save-as prompt, and a completion overlay anchored
// at the cursor (§4.F).
type Editor struct {
	id widget.ID

	body *widget.WithScroll
	view *BufferView

	find       *FindBar
	saveAs     *SaveAsDialog
	completion *CompletionMenu

	mode Mode

	lastRect geometry.Rect
	lastSize geometry.XY

	TestMode bool
	lastMeta []Metadata

	onSave      func(path string) error
	lastSaveErr error
}

// NewEditor builds an Editor around buf, wiring an optional parsing tuple
// for syntax highlighting and an optional LSP client for completions.
func NewEditor(buf *buffer.Buffer, parsing *syntax.ParsingTuple, clip buffer.Clipboard, lsp *lspclient.Client) *Editor {
	view := NewBufferView(buf, parsing, clip)
	view.SetFocused(true)
	body := widget.NewWithScroll(view, scroll.Both)
	body.GutterWidth = func(content geometry.XY) int {
		return scroll.GutterWidth(int(content.Y))
	}

	e := &Editor{
		id:     widget.NewID(),
		body:   body,
		view:   view,
		find:   NewFindBar(buf),
		saveAs: NewSaveAsDialog(),
	}
	e.saveAs.Submit = func(path string) {
		e.saveAs.Path0 = path
		e.doSave(path)
		e.mode = ModeNormal
		e.view.SetFocused(true)
	}
	if lsp != nil {
		e.completion = NewCompletionMenu(lsp)
	}
	return e
}

// SetSavePath tells the editor the buffer already has a known path, so
// ctrl+s writes directly instead of opening the save-as prompt.
func (e *Editor) SetSavePath(path string) {
	e.saveAs.Path0 = path
}

// OnSave installs the callback invoked with the target path whenever the
// user confirms a save, via either ctrl+s on an already-named buffer or the
// save-as prompt.
func (e *Editor) OnSave(fn func(path string) error) {
	e.onSave = fn
}

func (e *Editor) doSave(path string) {
	if e.onSave == nil {
		return
	}
	if err := e.onSave(path); err != nil {
		e.lastSaveErr = err
	} else {
		e.lastSaveErr = nil
	}
}

func (e *Editor) ID() widget.ID          { return e.id }
func (e *Editor) Typename() string       { return "Editor" }
func (e *Editor) FullSize() geometry.XY  { return e.lastSize }

func (e *Editor) SizePolicy() widget.SizePolicy {
	return widget.SizePolicy{Width: widget.Axis{Flex: true}, Height: widget.Axis{Flex: true}}
}

func (e *Editor) Prelayout() {
	e.body.Prelayout()
	if e.mode == ModeFind {
		e.find.Prelayout()
	}
	if e.mode == ModeSaveAs {
		e.saveAs.Prelayout()
	}
}

// Layout reserves the bottom row for the find bar or save-as prompt when
// active, and gives the rest to the scrollable buffer body.
func (e *Editor) Layout(ss geometry.Screenspace) {
	e.lastRect = ss.VisibleRect
	e.lastSize = ss.VisibleRect.Size

	barHeight := uint16(0)
	if e.mode == ModeFind || e.mode == ModeSaveAs {
		barHeight = 1
	}

	bodyHeight := saturatingSub16(ss.VisibleRect.Size.Y, barHeight)
	bodySS, ok := geometry.NewScreenspace(ss.OutputSize, geometry.Rect{
		Pos:  ss.VisibleRect.Pos,
		Size: geometry.XY{X: ss.VisibleRect.Size.X, Y: bodyHeight},
	})
	if ok {
		e.body.Layout(bodySS)
	}

	if barHeight > 0 {
		barPos := geometry.XY{X: ss.VisibleRect.Pos.X, Y: ss.VisibleRect.Pos.Y + bodyHeight}
		barSS, ok := geometry.NewScreenspace(ss.OutputSize, geometry.Rect{Pos: barPos, Size: geometry.XY{X: ss.VisibleRect.Size.X, Y: 1}})
		if ok {
			if e.mode == ModeFind {
				e.find.Layout(barSS)
			} else {
				e.saveAs.Layout(barSS)
			}
		}
	}

	if e.completion != nil && e.completion.Visible {
		cursor, _ := e.cursorScreenPos().TrySub(ss.VisibleRect.Pos)
		overlayRect := widget.ResolveOverlay(widget.OverlayOptions{
			Width:     widget.SizeAbs(40),
			MaxHeight: widget.SizeAbs(8),
			Anchor:    widget.AnchorTopLeft,
			Row:       widget.SizeAbs(int(cursor.Y) + 1),
			Col:       widget.SizeAbs(int(cursor.X)),
			NoFocus:   true,
		}, len(e.completion.Items), ss.VisibleRect, ss.VisibleRect)
		overlaySS, ok := geometry.NewScreenspace(ss.OutputSize, overlayRect)
		if ok {
			e.completion.Layout(overlaySS)
		}
	}

	if e.TestMode {
		e.lastMeta = e.collectMetadata()
	}
}

// cursorScreenPos translates the buffer cursor's kite into this editor's
// own coordinate space, accounting for the body's scroll offset, so the
// completion overlay can anchor beside it.
func (e *Editor) cursorScreenPos() geometry.XY {
	kite := e.view.Kite()
	shifted, ok := kite.TrySub(e.body.ScrollOffset())
	if !ok {
		return e.lastRect.Pos
	}
	if e.body.GutterWidth != nil {
		shifted.X += uint16(e.body.GutterWidth(e.view.FullSize()))
	}
	return e.lastRect.Pos.Add(shifted)
}

func (e *Editor) collectMetadata() []Metadata {
	out := []Metadata{{WidgetID: e.id, Typename: e.Typename(), Rect: e.lastRect, Focused: true}}
	out = append(out, Metadata{WidgetID: e.view.ID(), Typename: e.view.Typename(), Rect: e.lastRect, Focused: e.view.Focused()})
	return out
}

// Metadata returns the most recent test-mode widget snapshot, or nil if
// TestMode is false.
func (e *Editor) Metadata() []Metadata { return e.lastMeta }

func (e *Editor) Kite() geometry.XY { return e.body.Kite() }

// OnInput routes to whichever surface currently owns focus: the
// find/replace bar, the save-as prompt, or the buffer body.
func (e *Editor) OnInput(msg widget.InputMsg) bool {
	switch e.mode {
	case ModeFind:
		if msg.Key == "esc" {
			e.mode = ModeNormal
			e.view.SetFocused(true)
			return true
		}
		return e.find.OnInput(msg)
	case ModeSaveAs:
		if msg.Key == "esc" {
			e.mode = ModeNormal
			e.view.SetFocused(true)
			return true
		}
		return e.saveAs.OnInput(msg)
	default:
		if msg.Key == "ctrl+f" {
			e.mode = ModeFind
			e.view.SetFocused(false)
			e.find.SetFocused(true)
			return true
		}
		if msg.Key == "ctrl+s" {
			if e.saveAs.needsPrompt() {
				e.mode = ModeSaveAs
				e.view.SetFocused(false)
				e.saveAs.SetFocused(true)
			} else {
				e.doSave(e.saveAs.Path0)
			}
			return true
		}
		if e.completion != nil && e.completion.Visible {
			switch msg.Key {
			case "ctrl+n":
				e.completion.SelectNext()
				return true
			case "ctrl+p":
				e.completion.SelectPrev()
				return true
			}
		}
		return e.body.OnInput(msg)
	}
}

func (e *Editor) Update(msg widget.Msg) widget.Cmd {
	if e.completion != nil {
		if n, ok := msg.(lspclient.Notification); ok {
			e.completion.HandleNotification(n)
		}
	}
	return e.body.Update(msg)
}

func (e *Editor) Render(th *theme.Theme, focused bool, out scroll.Output) {
	bodyRect := geometry.Rect{Pos: geometry.Zero, Size: e.lastSize}
	if e.mode == ModeFind || e.mode == ModeSaveAs {
		bodyRect.Size.Y = saturatingSub16(bodyRect.Size.Y, 1)
	}
	bodyOut := scroll.NewSubOutput(out, bodyRect)
	e.body.Render(th, focused && e.mode == ModeNormal, bodyOut)

	if e.mode == ModeFind || e.mode == ModeSaveAs {
		barRect := geometry.Rect{Pos: geometry.XY{Y: bodyRect.Size.Y}, Size: geometry.XY{X: e.lastSize.X, Y: 1}}
		barOut := scroll.NewSubOutput(out, barRect)
		if e.mode == ModeFind {
			e.find.Render(th, true, barOut)
		} else {
			e.saveAs.Render(th, true, barOut)
		}
	}

	if e.completion != nil && e.completion.Visible {
		e.completion.Render(th, false, out)
	}
}

func (e *Editor) GetFocused() widget.Widget {
	switch e.mode {
	case ModeFind:
		return e.find.GetFocused()
	case ModeSaveAs:
		return e.saveAs.GetFocused()
	default:
		return e.body.GetFocused()
	}
}

func (e *Editor) SetFocused(focused bool) {
	e.view.SetFocused(focused)
}

func saturatingSub16(a, b uint16) uint16 {
	if b >= a {
		return 0
	}
	return a - b
}
