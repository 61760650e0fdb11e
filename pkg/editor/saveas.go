package editor

import (
	"github.com/kitedit/kite/pkg/geometry"
	"github.com/kitedit/kite/pkg/scroll"
	"github.com/kitedit/kite/pkg/theme"
	"github.com/kitedit/kite/pkg/widget"
)

// SaveAsDialog is the single-line path prompt shown when a buffer has no
// file path yet and the user asks to save it (§4.F).
type SaveAsDialog struct {
	widget.Leaf

	Path     []rune
	Path0    string // the buffer's existing path, if any; empty means "untitled"
	Submit   func(path string)
	lastSize geometry.XY
}

// NewSaveAsDialog builds an empty save-as prompt. Submit is set by the
// owning Editor (NewEditor), which performs the write through its OnSave
// callback.
func NewSaveAsDialog() *SaveAsDialog {
	return &SaveAsDialog{Leaf: widget.NewLeaf()}
}

func (d *SaveAsDialog) Typename() string      { return "SaveAsDialog" }
func (d *SaveAsDialog) FullSize() geometry.XY { return d.lastSize }

func (d *SaveAsDialog) SizePolicy() widget.SizePolicy {
	return widget.SizePolicy{Width: widget.Axis{Flex: true}, Height: widget.Axis{Min: 1, Preferred: 1}}
}

func (d *SaveAsDialog) Prelayout() {}

func (d *SaveAsDialog) Layout(ss geometry.Screenspace) {
	d.lastSize = ss.VisibleRect.Size
}

func (d *SaveAsDialog) GetFocused() widget.Widget {
	if d.Focused() {
		return d
	}
	return nil
}

// needsPrompt reports whether the buffer this dialog guards has no known
// path yet, so ctrl+s should open the prompt instead of saving silently.
func (d *SaveAsDialog) needsPrompt() bool {
	return d.Path0 == ""
}

func (d *SaveAsDialog) OnInput(msg widget.InputMsg) bool {
	switch {
	case msg.Key == "enter":
		if d.Submit != nil && len(d.Path) > 0 {
			d.Submit(string(d.Path))
		}
		return true
	case msg.Key == "backspace":
		if len(d.Path) > 0 {
			d.Path = d.Path[:len(d.Path)-1]
		}
		return true
	case msg.Key == "":
		d.Path = append(d.Path, msg.Rune)
		return true
	default:
		return false
	}
}

func (d *SaveAsDialog) Update(msg widget.Msg) widget.Cmd { return nil }

func (d *SaveAsDialog) Render(th *theme.Theme, focused bool, out scroll.Output) {
	style := th.Style(theme.RoleStatusBar)
	line := "Save as: " + string(d.Path)
	out.PrintAt(geometry.Zero, style, padRight(line, int(d.lastSize.X)))
}
