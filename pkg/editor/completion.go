package editor

import (
	"context"

	"github.com/kitedit/kite/pkg/geometry"
	"github.com/kitedit/kite/pkg/lspclient"
	"github.com/kitedit/kite/pkg/scroll"
	"github.com/kitedit/kite/pkg/theme"
)

// CompletionMenu is the non-modal overlay listing completion items
// returned by the active language server, anchored just below the cursor
// (§4.F/§4.H wiring). It never takes focus: BufferView keeps editing while
// the menu is shown, and ctrl+n/ctrl+p (handled by the owning Editor) move
// the selection.
type CompletionMenu struct {
	client *lspclient.Client

	Items    []lspclient.CompletionItem
	Selected int
	Visible  bool

	lastRect geometry.Rect
}

// NewCompletionMenu builds a menu backed by an already-initialized
// language server client.
func NewCompletionMenu(client *lspclient.Client) *CompletionMenu {
	return &CompletionMenu{client: client}
}

// Trigger requests completions at pos in uri and shows the menu if any
// come back.
func (m *CompletionMenu) Trigger(ctx context.Context, uri string, pos lspclient.Position) error {
	items, err := m.client.Completion(ctx, uri, pos)
	if err != nil {
		return err
	}
	m.Items = items
	m.Selected = 0
	m.Visible = len(items) > 0
	return nil
}

// Dismiss hides the menu without accepting anything.
func (m *CompletionMenu) Dismiss() {
	m.Visible = false
	m.Items = nil
}

// SelectNext/SelectPrev move the highlighted item, wrapping around.
func (m *CompletionMenu) SelectNext() {
	if len(m.Items) == 0 {
		return
	}
	m.Selected = (m.Selected + 1) % len(m.Items)
}

func (m *CompletionMenu) SelectPrev() {
	if len(m.Items) == 0 {
		return
	}
	m.Selected = (m.Selected - 1 + len(m.Items)) % len(m.Items)
}

// Accept returns the currently highlighted item's insert text, or "" if
// the menu is empty.
func (m *CompletionMenu) Accept() string {
	if len(m.Items) == 0 {
		return ""
	}
	item := m.Items[m.Selected]
	if item.InsertText != "" {
		return item.InsertText
	}
	return item.Label
}

// HandleNotification reacts to server push notifications that should
// invalidate a stale menu, e.g. diagnostics republished after an edit.
func (m *CompletionMenu) HandleNotification(n lspclient.Notification) {
	if n.Method == "textDocument/publishDiagnostics" {
		m.Dismiss()
	}
}

func (m *CompletionMenu) Layout(ss geometry.Screenspace) {
	m.lastRect = ss.VisibleRect
}

func (m *CompletionMenu) Render(th *theme.Theme, focused bool, out scroll.Output) {
	sub := scroll.NewSubOutput(out, m.lastRect)
	style := th.Style(theme.RoleOverlay)
	selStyle := th.Style(theme.RoleSelection)
	for i, item := range m.Items {
		if int(m.lastRect.Size.Y) <= i {
			break
		}
		rowStyle := style
		if i == m.Selected {
			rowStyle = selStyle
		}
		label := item.Label
		if item.Detail != "" {
			label += "  " + item.Detail
		}
		sub.PrintAt(geometry.XY{Y: uint16(i)}, rowStyle, padRight(label, int(m.lastRect.Size.X)))
	}
}
