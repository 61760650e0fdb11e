package scroll

import "github.com/kitedit/kite/pkg/geometry"

// Direction selects which axes a Scroll is allowed to move along.
type Direction int

const (
	// Both scrolls horizontally and vertically.
	Both Direction = iota
	// Vertical scrolls only along Y.
	Vertical
	// Horizontal scrolls only along X (e.g. a single-line search field never
	// needs to scroll vertically).
	Horizontal
)

// Scroll tracks a content offset into a viewport and keeps a requested
// "kite" point in view by adjusting that offset (§4.D). The kite is the
// point the viewport should chase — typically the primary cursor.
type Scroll struct {
	Offset    geometry.XY
	Direction Direction
}

// NewScroll starts at the origin.
func NewScroll(dir Direction) Scroll {
	return Scroll{Direction: dir}
}

// FollowKite nudges Offset so that kite (in content coordinates) stays
// within [Offset, Offset+visible), clamping Offset to at most
// content-visible (0 when the content fits), so the viewport never scrolls
// past the point where the last content line sits at its bottom edge.
// visible is the viewport size;
// content is the full content size.
func (s *Scroll) FollowKite(visible, content, kite geometry.XY) {
	if s.Direction != Vertical {
		s.Offset.X = followAxis(s.Offset.X, visible.X, content.X, kite.X)
	}
	if s.Direction != Horizontal {
		s.Offset.Y = followAxis(s.Offset.Y, visible.Y, content.Y, kite.Y)
	}
}

// followAxis computes the new offset along one axis so kite sits inside
// [offset, offset+visible), preferring to scroll the minimal amount.
func followAxis(offset, visible, content, kite uint16) uint16 {
	if kite < offset {
		offset = kite
	} else if visible > 0 && kite >= offset+visible {
		offset = kite - visible + 1
	}
	maxOffset := uint16(0)
	if content > visible {
		maxOffset = content - visible
	}
	if offset > maxOffset {
		offset = maxOffset
	}
	return offset
}

// VisibleRect returns the content-space rectangle currently visible given
// a viewport of size visible.
func (s *Scroll) VisibleRect(visible geometry.XY) geometry.Rect {
	return geometry.Rect{Pos: s.Offset, Size: visible}
}

// GutterWidth computes the width (in cells) needed to print line numbers up
// to lineCount, plus one trailing space separating the gutter from the
// text (§4.D); used by the editor widget when composing its WithScroll
// wrapper around the buffer view.
func GutterWidth(lineCount int) int {
	digits := 1
	for n := lineCount; n >= 10; n /= 10 {
		digits++
	}
	return digits + 1
}
