package widget

import "github.com/kitedit/kite/pkg/geometry"

// Anchor specifies where an overlay is positioned relative to its reference
// rect (either the terminal viewport or, when ContentRelative is set, the
// rendered content bounds), adapted from the teacher's pitui.OverlayAnchor.
type Anchor int

const (
	AnchorCenter Anchor = iota
	AnchorTopLeft
	AnchorTopRight
	AnchorBottomLeft
	AnchorBottomRight
	AnchorTopCenter
	AnchorBottomCenter
	AnchorLeftCenter
	AnchorRightCenter
)

// Margin is spacing kept clear from the reference rect's edges.
type Margin struct {
	Top, Right, Bottom, Left int
}

// SizeValue is either an absolute cell count or a percentage of the
// reference dimension.
type SizeValue struct {
	abs   int
	pct   float64
	isPct bool
	isSet bool
}

// SizeAbs builds an absolute SizeValue.
func SizeAbs(n int) SizeValue { return SizeValue{abs: n, isSet: true} }

// SizePct builds a percentage SizeValue (0-100).
func SizePct(p float64) SizeValue { return SizeValue{pct: p, isPct: true, isSet: true} }

func (v SizeValue) resolve(ref int) (int, bool) {
	if !v.isSet {
		return 0, false
	}
	if v.isPct {
		return int(float64(ref) * v.pct / 100), true
	}
	return v.abs, true
}

// OverlayOptions configures an overlay's positioning and sizing, e.g. a
// completion menu placed just below the cursor (§4.F).
type OverlayOptions struct {
	Width     SizeValue
	MinWidth  int
	MaxHeight SizeValue

	Anchor  Anchor
	OffsetX int
	OffsetY int

	Row SizeValue
	Col SizeValue

	Margin Margin

	// ContentRelative positions the overlay against ref (a content rect,
	// e.g. the cursor's cell) instead of the full viewport.
	ContentRelative bool

	// NoFocus keeps the overlay from stealing focus when shown, for
	// non-modal popups like completion menus.
	NoFocus bool
}

// ResolveOverlay computes the rect an overlay should occupy within
// viewport, given its desired height and options. ref is the
// content-relative reference rect, used only when opts.ContentRelative.
func ResolveOverlay(opts OverlayOptions, desiredHeight int, viewport, ref geometry.Rect) geometry.Rect {
	base := viewport
	if opts.ContentRelative {
		base = ref
	}
	termW := int(base.Size.X)
	termH := int(base.Size.Y)

	mTop := maxInt(0, opts.Margin.Top)
	mRight := maxInt(0, opts.Margin.Right)
	mBottom := maxInt(0, opts.Margin.Bottom)
	mLeft := maxInt(0, opts.Margin.Left)

	availW := maxInt(1, termW-mLeft-mRight)
	availH := maxInt(1, termH-mTop-mBottom)

	width := minInt(80, availW)
	if w, ok := opts.Width.resolve(termW); ok {
		width = w
	}
	if opts.MinWidth > 0 && width < opts.MinWidth {
		width = opts.MinWidth
	}
	width = clampInt(width, 1, availW)

	maxH := availH
	maxHSet := false
	if mh, ok := opts.MaxHeight.resolve(termH); ok {
		maxH = clampInt(mh, 1, availH)
		maxHSet = true
	}

	effectiveH := desiredHeight
	if maxHSet && effectiveH > maxH {
		effectiveH = maxH
	}
	if effectiveH < 1 {
		effectiveH = 1
	}

	var row, col int
	if opts.Row.isSet {
		if opts.Row.isPct {
			maxRow := maxInt(0, availH-effectiveH)
			row = mTop + int(float64(maxRow)*opts.Row.pct/100)
		} else {
			row = opts.Row.abs
		}
	} else {
		row = anchorRow(opts.Anchor, effectiveH, availH, mTop)
	}

	if opts.Col.isSet {
		if opts.Col.isPct {
			maxCol := maxInt(0, availW-width)
			col = mLeft + int(float64(maxCol)*opts.Col.pct/100)
		} else {
			col = opts.Col.abs
		}
	} else {
		col = anchorCol(opts.Anchor, width, availW, mLeft)
	}

	row += opts.OffsetY
	col += opts.OffsetX

	row = clampInt(row, mTop, termH-mBottom-effectiveH)
	col = clampInt(col, mLeft, termW-mRight-width)

	return geometry.Rect{
		Pos:  geometry.NewXY(int(base.Pos.X)+col, int(base.Pos.Y)+row),
		Size: geometry.NewXY(width, effectiveH),
	}
}

func anchorRow(a Anchor, h, availH, mTop int) int {
	switch a {
	case AnchorTopLeft, AnchorTopCenter, AnchorTopRight:
		return mTop
	case AnchorBottomLeft, AnchorBottomCenter, AnchorBottomRight:
		return mTop + availH - h
	default:
		return mTop + (availH-h)/2
	}
}

func anchorCol(a Anchor, w, availW, mLeft int) int {
	switch a {
	case AnchorTopLeft, AnchorLeftCenter, AnchorBottomLeft:
		return mLeft
	case AnchorTopRight, AnchorRightCenter, AnchorBottomRight:
		return mLeft + availW - w
	default:
		return mLeft + (availW-w)/2
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
