// Package scroll implements the geometry-driven viewport layer: a grid of
// drawable cells, the composable output stack (base/sub/over), and the
// Scroll offset with kite-following (§4.D).
package scroll

import (
	"charm.land/lipgloss/v2"
	"github.com/clipperhouse/displaywidth"
	"github.com/rivo/uniseg"

	"github.com/kitedit/kite/pkg/geometry"
)

// Cell is one terminal cell: a single grapheme cluster (possibly multiple
// runes, e.g. a combining sequence or emoji) plus its style. Continuation
// marks the trailing cell(s) of a wide grapheme.
type Cell struct {
	Grapheme     string
	Style        lipgloss.Style
	Continuation bool
}

// Output is the drawing contract shared by BaseOutput, SubOutput, and
// OverOutput (§4.D).
type Output interface {
	// PrintAt writes text at p in local coordinates, clipping anything
	// beyond the output's bounds.
	PrintAt(p geometry.XY, style lipgloss.Style, text string)
	// VisibleRect returns the sub-rectangle (in local coordinates) that is
	// actually visible to the user.
	VisibleRect() geometry.Rect
	// Size returns the full local coordinate space.
	Size() geometry.XY
}

// BaseOutput owns a 2-D grid of cells sized to the terminal.
type BaseOutput struct {
	size  geometry.XY
	cells [][]Cell
}

// NewBaseOutput allocates a grid of the given size, fully blank.
func NewBaseOutput(size geometry.XY) *BaseOutput {
	cells := make([][]Cell, size.Y)
	for y := range cells {
		row := make([]Cell, size.X)
		for x := range row {
			row[x] = Cell{Grapheme: " "}
		}
		cells[y] = row
	}
	return &BaseOutput{size: size, cells: cells}
}

// Size returns the grid's dimensions.
func (o *BaseOutput) Size() geometry.XY { return o.size }

// VisibleRect for a base output is always the entire grid.
func (o *BaseOutput) VisibleRect() geometry.Rect {
	return geometry.Rect{Pos: geometry.Zero, Size: o.size}
}

// Cell returns the cell at p, or the zero Cell if out of range.
func (o *BaseOutput) Cell(p geometry.XY) Cell {
	if int(p.Y) >= len(o.cells) || int(p.X) >= len(o.cells[p.Y]) {
		return Cell{}
	}
	return o.cells[p.Y][p.X]
}

// PrintAt writes text starting at p, one grapheme cluster per cell, marking
// continuation cells for wide graphemes. Anything beyond the grid is
// silently clipped; this never panics.
func (o *BaseOutput) PrintAt(p geometry.XY, style lipgloss.Style, text string) {
	col := int(p.X)
	row := int(p.Y)
	if row < 0 || row >= len(o.cells) {
		return
	}
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		if col < 0 {
			col++
			continue
		}
		if col >= len(o.cells[row]) {
			return
		}
		cluster := gr.Str()
		w := displaywidth.String(cluster)
		if w < 1 {
			w = 1
		}
		o.cells[row][col] = Cell{Grapheme: cluster, Style: style}
		for k := 1; k < w && col+k < len(o.cells[row]); k++ {
			o.cells[row][col+k] = Cell{Grapheme: "", Style: style, Continuation: true}
		}
		col += w
	}
}

// SubOutput restricts a parent Output to a rectangular sub-region,
// translating writes into the child's local coordinates.
type SubOutput struct {
	parent Output
	rect   geometry.Rect // in parent's local coordinates
}

// NewSubOutput builds a SubOutput over rect within parent.
func NewSubOutput(parent Output, rect geometry.Rect) *SubOutput {
	return &SubOutput{parent: parent, rect: rect}
}

// Size returns the sub-rectangle's size.
func (s *SubOutput) Size() geometry.XY { return s.rect.Size }

// VisibleRect returns the intersection of the parent's visible rect with
// this sub-rectangle, translated into local (sub) coordinates.
func (s *SubOutput) VisibleRect() geometry.Rect {
	parentVisible := s.parent.VisibleRect()
	inter, ok := parentVisible.Intersect(s.rect)
	if !ok {
		return geometry.Rect{}
	}
	local, ok := inter.ShiftSub(s.rect.Pos)
	if !ok {
		return geometry.Rect{}
	}
	return local
}

// PrintAt translates p into parent coordinates and clips to the
// sub-rectangle before delegating.
func (s *SubOutput) PrintAt(p geometry.XY, style lipgloss.Style, text string) {
	local := geometry.Rect{Pos: geometry.Zero, Size: s.rect.Size}
	if !local.Contains(p) {
		return
	}
	// Cut text at the sub-rectangle's right edge so it never spills into
	// the parent beyond it.
	room, used, end := int(s.rect.Size.X)-int(p.X), 0, 0
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		w := displaywidth.String(gr.Str())
		if w < 1 {
			w = 1
		}
		if used+w > room {
			break
		}
		used += w
		_, end = gr.Positions()
	}
	s.parent.PrintAt(p.Add(s.rect.Pos), style, text[:end])
}

// OverOutput is an enlargement used for scrolling: it declares a logical
// size larger than its parent and an offset; writes at p go to the parent
// at p-offset.
type OverOutput struct {
	parent      Output
	logicalSize geometry.XY
	offset      geometry.XY
}

// NewOverOutput builds an OverOutput with the given logical size and
// scroll offset over parent.
func NewOverOutput(parent Output, logicalSize, offset geometry.XY) *OverOutput {
	return &OverOutput{parent: parent, logicalSize: logicalSize, offset: offset}
}

// Size returns the logical (enlarged) size.
func (o *OverOutput) Size() geometry.XY { return o.logicalSize }

// VisibleRect computes what portion of the logical area is visible: the
// parent's visible rect shifted by offset, clipped to the logical bounds.
func (o *OverOutput) VisibleRect() geometry.Rect {
	parentVisible := o.parent.VisibleRect()
	shifted := parentVisible.Shift(o.offset)
	full := geometry.Rect{Pos: geometry.Zero, Size: o.logicalSize}
	inter, ok := full.Intersect(shifted)
	if !ok {
		return geometry.Rect{}
	}
	return inter
}

// PrintAt writes at p (logical coordinates); it is translated to p-offset
// in the parent and dropped silently if that underflows or falls outside
// the parent's own bounds (the parent itself re-clips).
func (o *OverOutput) PrintAt(p geometry.XY, style lipgloss.Style, text string) {
	target, ok := p.TrySub(o.offset)
	if !ok {
		return
	}
	o.parent.PrintAt(target, style, text)
}
