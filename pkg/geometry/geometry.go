// Package geometry provides the 2-D primitives (points, rectangles,
// screenspaces) shared by the scroll and widget layers.
package geometry

import "fmt"

// XY is a 2-D point or size in cell coordinates. Both components are
// unsigned; subtraction that could go below zero goes through TrySub or
// Rect.ShiftSub, which report the underflow instead of wrapping.
type XY struct {
	X, Y uint16
}

// NewXY constructs an XY from plain ints, clamping negative values to 0.
func NewXY(x, y int) XY {
	return XY{X: clampU16(x), Y: clampU16(y)}
}

func clampU16(v int) uint16 {
	if v < 0 {
		return 0
	}
	if v > 0xffff {
		return 0xffff
	}
	return uint16(v)
}

// Zero is the origin.
var Zero = XY{0, 0}

// LessEq is the partial order: a <= b iff both components are pairwise <=.
func (a XY) LessEq(b XY) bool {
	return a.X <= b.X && a.Y <= b.Y
}

// Add returns a+b componentwise.
func (a XY) Add(b XY) XY {
	return XY{X: a.X + b.X, Y: a.Y + b.Y}
}

// Sub returns a-b componentwise, clamping each component at 0 on underflow.
func (a XY) Sub(b XY) XY {
	x, y := 0, 0
	if a.X > b.X {
		x = int(a.X - b.X)
	}
	if a.Y > b.Y {
		y = int(a.Y - b.Y)
	}
	return XY{X: uint16(x), Y: uint16(y)}
}

// TrySub returns a-b componentwise, or false if either component would
// underflow.
func (a XY) TrySub(b XY) (XY, bool) {
	if a.X < b.X || a.Y < b.Y {
		return XY{}, false
	}
	return XY{X: a.X - b.X, Y: a.Y - b.Y}, true
}

// Min returns the componentwise minimum.
func Min(a, b XY) XY {
	return XY{X: minU16(a.X, b.X), Y: minU16(a.Y, b.Y)}
}

// Max returns the componentwise maximum.
func Max(a, b XY) XY {
	return XY{X: maxU16(a.X, b.X), Y: maxU16(a.Y, b.Y)}
}

func minU16(a, b uint16) uint16 {
	if a < b {
		return a
	}
	return b
}

func maxU16(a, b uint16) uint16 {
	if a > b {
		return a
	}
	return b
}

func (a XY) String() string {
	return fmt.Sprintf("(%d,%d)", a.X, a.Y)
}

// Rect is a half-open rectangle: Pos is inclusive, Pos+Size is exclusive.
type Rect struct {
	Pos  XY
	Size XY
}

// NewRect builds a rect from a position and size.
func NewRect(pos, size XY) Rect {
	return Rect{Pos: pos, Size: size}
}

// RectAt builds a rect spanning [pos, lowerRight).
func RectAt(pos, lowerRight XY) Rect {
	sz, ok := lowerRight.TrySub(pos)
	if !ok {
		return Rect{}
	}
	return Rect{Pos: pos, Size: sz}
}

// LowerRight returns Pos+Size, the exclusive corner.
func (r Rect) LowerRight() XY {
	return r.Pos.Add(r.Size)
}

// Empty reports whether the rect has zero area.
func (r Rect) Empty() bool {
	return r.Size.X == 0 || r.Size.Y == 0
}

// Contains reports whether p lies within the half-open rect.
func (r Rect) Contains(p XY) bool {
	lr := r.LowerRight()
	return p.X >= r.Pos.X && p.Y >= r.Pos.Y && p.X < lr.X && p.Y < lr.Y
}

// ContainsRect reports whether other lies entirely within r.
func (r Rect) ContainsRect(other Rect) bool {
	if other.Empty() {
		return r.Contains(other.Pos)
	}
	olr := other.LowerRight()
	rlr := r.LowerRight()
	return other.Pos.X >= r.Pos.X && other.Pos.Y >= r.Pos.Y &&
		olr.X <= rlr.X && olr.Y <= rlr.Y
}

// Intersect returns the intersection of r and other, and whether it is
// non-empty. Edge-touching rects (sharing only a boundary) intersect to the
// empty rect, reported as false.
func (r Rect) Intersect(other Rect) (Rect, bool) {
	pos := Max(r.Pos, other.Pos)
	lr := Min(r.LowerRight(), other.LowerRight())
	if lr.X <= pos.X || lr.Y <= pos.Y {
		return Rect{}, false
	}
	return RectAt(pos, lr), true
}

// Shift translates r by delta.
func (r Rect) Shift(delta XY) Rect {
	return Rect{Pos: r.Pos.Add(delta), Size: r.Size}
}

// ShiftSub translates r by -delta; returns false if the position would
// underflow below zero.
func (r Rect) ShiftSub(delta XY) (Rect, bool) {
	pos, ok := r.Pos.TrySub(delta)
	if !ok {
		return Rect{}, false
	}
	return Rect{Pos: pos, Size: r.Size}, true
}

// ExpandToContain enlarges r to the minimum rect containing both r and p.
func (r Rect) ExpandToContain(p XY) Rect {
	if r.Empty() {
		return Rect{Pos: p, Size: XY{1, 1}}
	}
	newPos := Min(r.Pos, p)
	lr := Max(r.LowerRight(), XY{X: p.X + 1, Y: p.Y + 1})
	return RectAt(newPos, lr)
}

// Center returns the (floor-rounded) center point of r.
func (r Rect) Center() XY {
	return XY{X: r.Pos.X + r.Size.X/2, Y: r.Pos.Y + r.Size.Y/2}
}

func (r Rect) String() string {
	return fmt.Sprintf("Rect{%s+%s}", r.Pos, r.Size)
}

// Screenspace tells a widget how big its canvas is and which sub-rectangle
// of it will actually be visible to the user.
type Screenspace struct {
	OutputSize  XY
	VisibleRect Rect
}

// NewScreenspace validates and constructs a Screenspace. It returns false if
// VisibleRect is empty, deformed, or not contained within [0,0)-OutputSize.
func NewScreenspace(outputSize XY, visible Rect) (Screenspace, bool) {
	if visible.Empty() {
		return Screenspace{}, false
	}
	full := Rect{Pos: Zero, Size: outputSize}
	if !full.ContainsRect(visible) {
		return Screenspace{}, false
	}
	return Screenspace{OutputSize: outputSize, VisibleRect: visible}, true
}

// Full returns a Screenspace whose visible rect is the entire output.
func Full(outputSize XY) Screenspace {
	return Screenspace{OutputSize: outputSize, VisibleRect: Rect{Pos: Zero, Size: outputSize}}
}
