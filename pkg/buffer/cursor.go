package buffer

import "sort"

// Selection is an inclusive-exclusive character range [Begin, End).
type Selection struct {
	Begin, End int
}

// Cursor is a single logical editing position: an anchor, an optional
// selection, and a sticky preferred visual column used to keep vertical
// motion sane over ragged lines.
type Cursor struct {
	Anchor    int
	Selection *Selection
	// PreferredColumn is nil until the first horizontal motion sets it.
	PreferredColumn *uint16
}

// HasSelection reports whether the cursor currently selects a range.
func (c Cursor) HasSelection() bool {
	return c.Selection != nil && c.Selection.End > c.Selection.Begin
}

// Range returns (begin, end) of the cursor's selection, or (anchor, anchor)
// if there is none.
func (c Cursor) Range() (int, int) {
	if c.HasSelection() {
		return c.Selection.Begin, c.Selection.End
	}
	return c.Anchor, c.Anchor
}

func (c Cursor) clone() Cursor {
	cp := c
	if c.Selection != nil {
		sel := *c.Selection
		cp.Selection = &sel
	}
	if c.PreferredColumn != nil {
		pc := *c.PreferredColumn
		cp.PreferredColumn = &pc
	}
	return cp
}

// CursorSet is the non-empty, normalised multi-cursor state of one buffer.
type CursorSet struct {
	cursors []Cursor
	// primary is the index into cursors of the one last touched by the
	// user: the §4.F Kite policy ("the last cursor the user moved") and
	// the one cursor whose glyph BufferView renders.
	primary int
}

// NewCursorSet returns a set with a single cursor at 0.
func NewCursorSet() *CursorSet {
	return &CursorSet{cursors: []Cursor{{Anchor: 0}}}
}

// Cursors returns the normalised cursor slice. Callers must not mutate it;
// use Set/SetPrimary instead.
func (cs *CursorSet) Cursors() []Cursor {
	return cs.cursors
}

// Len returns the number of cursors.
func (cs *CursorSet) Len() int {
	return len(cs.cursors)
}

// Primary returns the index into Cursors() of the cursor last touched by
// a motion or edit. Falls back to the highest-anchor cursor if no touched
// cursor was ever recorded (e.g. a set built without SetPrimary).
func (cs *CursorSet) Primary() int {
	if cs.primary < 0 || cs.primary >= len(cs.cursors) {
		return len(cs.cursors) - 1
	}
	return cs.primary
}

// Set replaces the cursor list and normalises it against maxChar, tracking
// the last cursor in the slice as primary. Most callers that move every
// cursor in lockstep (move, editAllCursors) want SetPrimary instead so a
// specific touched cursor's identity survives the sort and merge.
func (cs *CursorSet) Set(cursors []Cursor, maxChar int) {
	cs.SetPrimary(cursors, maxChar, len(cursors)-1)
}

// SetPrimary replaces the cursor list and normalises it against maxChar,
// tracking the cursor originally at primaryIdx (an index into the
// pre-normalise cursors slice) through the sort and any merge so
// Primary() still names it afterward.
func (cs *CursorSet) SetPrimary(cursors []Cursor, maxChar int, primaryIdx int) {
	cs.cursors = cursors
	cs.primary = cs.normalize(maxChar, primaryIdx)
}

// Clone returns a deep, independent copy (for undo/redo snapshots).
func (cs *CursorSet) Clone() *CursorSet {
	cp := make([]Cursor, len(cs.cursors))
	for i, c := range cs.cursors {
		cp[i] = c.clone()
	}
	return &CursorSet{cursors: cp, primary: cs.primary}
}

// normalize enforces the §3/§4.B invariants:
//  1. clip anchors and selection endpoints to [0, maxChar]
//  2. sort by selection range (Begin, then End; a cursor without a
//     selection sorts at its anchor)
//  3. merge cursors with equal anchors or overlapping selections
//  4. guarantee a non-empty set
//
// It returns the post-merge index of the cursor that started at trackIdx
// in the pre-sort cursors slice, or -1 if trackIdx was out of range.
func (cs *CursorSet) normalize(maxChar int, trackIdx int) int {
	for i := range cs.cursors {
		c := &cs.cursors[i]
		c.Anchor = clamp(c.Anchor, 0, maxChar)
		if c.Selection != nil {
			c.Selection.Begin = clamp(c.Selection.Begin, 0, maxChar)
			c.Selection.End = clamp(c.Selection.End, 0, maxChar)
			if c.Selection.End <= c.Selection.Begin {
				c.Selection = nil
			} else if c.Anchor != c.Selection.Begin && c.Anchor != c.Selection.End {
				c.Anchor = c.Selection.End
			}
		}
	}

	order := make([]int, len(cs.cursors))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		ib, ie := cs.cursors[order[i]].Range()
		jb, je := cs.cursors[order[j]].Range()
		if ib != jb {
			return ib < jb
		}
		return ie < je
	})

	sorted := make([]Cursor, len(order))
	trackSorted := -1
	for pos, idx := range order {
		sorted[pos] = cs.cursors[idx]
		if idx == trackIdx {
			trackSorted = pos
		}
	}

	merged := make([]Cursor, 0, len(sorted))
	trackMerged := -1
	for pos, c := range sorted {
		if len(merged) == 0 {
			merged = append(merged, c)
		} else if last := &merged[len(merged)-1]; overlapsOrTouchesAnchor(*last, c) {
			*last = mergeCursors(*last, c)
		} else {
			merged = append(merged, c)
		}
		if pos == trackSorted {
			trackMerged = len(merged) - 1
		}
	}
	if len(merged) == 0 {
		merged = []Cursor{{Anchor: 0}}
		trackMerged = 0
	}
	cs.cursors = merged
	return trackMerged
}

func overlapsOrTouchesAnchor(a, b Cursor) bool {
	if a.Anchor == b.Anchor && !a.HasSelection() && !b.HasSelection() {
		return true
	}
	ab, ae := a.Range()
	bb, be := b.Range()
	if ab == ae && bb == be && ab == bb {
		return true
	}
	return ab < be && bb < ae
}

func mergeCursors(a, b Cursor) Cursor {
	ab, ae := a.Range()
	bb, be := b.Range()
	begin := ab
	if bb < begin {
		begin = bb
	}
	end := ae
	if be > end {
		end = be
	}
	out := Cursor{}
	if begin == end {
		out.Anchor = begin
		return out
	}
	out.Selection = &Selection{Begin: begin, End: end}
	// Anchor at the outer end in the direction of the later cursor's motion;
	// b was inserted later in iteration order, so prefer its anchor side.
	if b.Anchor == bb {
		out.Anchor = begin
	} else {
		out.Anchor = end
	}
	return out
}

// VisualColumn returns the rune-count column of char index i within its
// line, used to compute/compare preferred columns.
func VisualColumn(r *Rope, charIdx int) uint16 {
	line := r.CharToLine(charIdx)
	start, _ := r.LineRange(line)
	col := charIdx - start
	if col < 0 {
		col = 0
	}
	if col > 0xffff {
		col = 0xffff
	}
	return uint16(col)
}
