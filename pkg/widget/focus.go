package widget

import "github.com/kitedit/kite/pkg/geometry"

// Focusable is any widget paired with the screenspace it was last laid out
// into, the unit the focus graph reasons about.
type Focusable struct {
	Widget Widget
	Rect   geometry.Rect
}

// Direction is a navigation direction for MoveFocus.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// MoveFocus looks from the currently focused rect's center in dir and
// returns the candidate whose center lies in that direction at the
// smallest distance along dir's axis. Rect extents are not considered,
// only centers. Ties (multiple candidates at the same distance) are broken
// by picking the one whose center is closest to the ray's own axis, then
// by declaration order in candidates (§4.E).
func MoveFocus(candidates []Focusable, from geometry.Rect, dir Direction) (Widget, bool) {
	origin := from.Center()

	var best Focusable
	bestDist := -1
	bestOffAxis := -1
	found := false

	for _, c := range candidates {
		center := c.Rect.Center()
		dist, offAxis, ok := rayHit(origin, center, dir)
		if !ok {
			continue
		}
		if !found || dist < bestDist || (dist == bestDist && offAxis < bestOffAxis) {
			best = c
			bestDist = dist
			bestOffAxis = offAxis
			found = true
		}
	}
	if !found {
		return nil, false
	}
	return best.Widget, true
}

// rayHit reports whether target lies in the half-plane dir points into from
// origin, along with the distance along the ray's axis and the
// perpendicular offset used for tie-breaking.
func rayHit(origin, target geometry.XY, dir Direction) (dist, offAxis int, ok bool) {
	dx := int(target.X) - int(origin.X)
	dy := int(target.Y) - int(origin.Y)
	switch dir {
	case Up:
		if dy >= 0 {
			return 0, 0, false
		}
		return -dy, abs(dx), true
	case Down:
		if dy <= 0 {
			return 0, 0, false
		}
		return dy, abs(dx), true
	case Left:
		if dx >= 0 {
			return 0, 0, false
		}
		return -dx, abs(dy), true
	case Right:
		if dx <= 0 {
			return 0, 0, false
		}
		return dx, abs(dy), true
	}
	return 0, 0, false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// HitTest returns the topmost (last-declared) candidate whose rect contains
// p, used to focus a widget the user clicked on.
func HitTest(candidates []Focusable, p geometry.XY) (Widget, bool) {
	for i := len(candidates) - 1; i >= 0; i-- {
		if candidates[i].Rect.Contains(p) {
			return candidates[i].Widget, true
		}
	}
	return nil, false
}
