package term

import (
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/kitedit/kite/pkg/widget"
)

// Decoder turns raw input bytes into decoded ultraviolet events, one
// widget.InputMsg at a time, grounded on the teacher's own handleInput loop
// (pitui.TUI.handleInput): decoding is stateless enough to run on the
// reader goroutine, leaving the app loop to just consume InputMsg values.
type Decoder struct {
	dec uv.EventDecoder
}

// NewDecoder builds a fresh event decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Feed decodes every complete event in data and returns the InputMsg
// translations, in order. Partial trailing sequences are buffered inside
// the decoder until the remaining bytes arrive.
func (d *Decoder) Feed(data []byte) []widget.InputMsg {
	var out []widget.InputMsg
	buf := data
	for len(buf) > 0 {
		n, ev := d.dec.Decode(buf)
		if n == 0 {
			break
		}
		buf = buf[n:]
		if ev == nil {
			continue
		}
		if msg, ok := translate(ev); ok {
			out = append(out, msg)
		}
	}
	return out
}

func translate(ev uv.Event) (widget.InputMsg, bool) {
	key, ok := ev.(uv.KeyPressEvent)
	if !ok {
		return widget.InputMsg{}, false
	}

	msg := widget.InputMsg{
		Shift: key.Mod.Contains(uv.ModShift),
		Alt:   key.Mod.Contains(uv.ModAlt),
		Ctrl:  key.Mod.Contains(uv.ModCtrl),
	}

	if name, named := namedKeys[key.Code]; named {
		msg.Key = withModifierPrefix(name, msg)
		return msg, true
	}

	if msg.Ctrl && key.Text != "" {
		msg.Key = "ctrl+" + key.Text
		return msg, true
	}

	if key.Text == "" {
		return widget.InputMsg{}, false
	}

	msg.Rune = []rune(key.Text)[0]
	return msg, true
}

// withModifierPrefix folds Ctrl into the key name (matching
// pkg/editor.keyToEditKind's "ctrl+left" style bindings) but leaves Shift
// as the InputMsg.Shift flag, since callers distinguish plain Tab from
// Shift+Tab themselves.
func withModifierPrefix(name string, msg widget.InputMsg) string {
	if msg.Ctrl {
		return "ctrl+" + name
	}
	return name
}

var namedKeys = map[rune]string{
	uv.KeyEnter:     "enter",
	uv.KeyTab:       "tab",
	uv.KeyBackspace: "backspace",
	uv.KeyDelete:    "delete",
	uv.KeyLeft:      "left",
	uv.KeyRight:     "right",
	uv.KeyUp:        "up",
	uv.KeyDown:      "down",
	uv.KeyHome:      "home",
	uv.KeyEnd:       "end",
	uv.KeyEscape:    "esc",
	uv.KeyPgUp:      "pageup",
	uv.KeyPgDown:    "pagedown",
}
