package buffer

import (
	"sort"

	"github.com/clipperhouse/uax29/v2/words"
	"github.com/rivo/uniseg"
)

// EditKind enumerates the operations apply_common_edit understands.
type EditKind int

const (
	Char EditKind = iota
	Tab
	ShiftTab
	Enter
	Backspace
	Delete
	ArrowLeft
	ArrowRight
	ArrowUp
	ArrowDown
	WordLeft
	WordRight
	LineBegin
	LineEnd
	Home
	End
	PageUp
	PageDown
	Copy
	Cut
	Paste
	Undo
	Redo
	SelectAll
)

// EditMsg is one editing command, as dispatched by apply_common_edit. Shift
// is set for the selection-extending variants of the arrow/word/line/home
// motions.
type EditMsg struct {
	Kind  EditKind
	Char  rune   // valid when Kind == Char
	Shift bool   // selection-extending variant
	Text  string // clipboard contents, valid for Paste
}

// IndentWidth is the number of spaces a Tab inserts/removes per level.
const IndentWidth = 4

// ApplyCommonEdit applies msg to every cursor simultaneously and
// renormalises the cursor set. It returns whether the buffer text changed.
// pageHeight is the number of visible rows, used by PageUp/PageDown.
// clipboard is read for Paste and written for Copy/Cut; it may be nil, in
// which case Copy/Cut/Paste are no-ops. isReadOnly suppresses any
// text-mutating operation while still allowing cursor motion.
func (b *Buffer) ApplyCommonEdit(msg EditMsg, pageHeight int, clipboard Clipboard, isReadOnly bool) bool {
	if b.Parsing == nil || msg.Kind == Undo || msg.Kind == Redo {
		return b.applyCommonEdit(msg, pageHeight, clipboard, isReadOnly)
	}
	// The edits below change the rope without going through InsertBlock/
	// Remove, so the parsing tuple is told about them as one whole-document
	// edit. Undo/Redo report their own through restore.
	oldLen := b.rope.LenChars()
	oldEndByte, oldEnd := b.rope.ByteOffset(oldLen), pointAt(b.rope, oldLen)
	changed := b.applyCommonEdit(msg, pageHeight, clipboard, isReadOnly)
	if changed {
		n := b.rope.LenChars()
		b.reportEdit(0, oldEndByte, b.rope.ByteOffset(n), Point{}, oldEnd, pointAt(b.rope, n))
	}
	return changed
}

func (b *Buffer) applyCommonEdit(msg EditMsg, pageHeight int, clipboard Clipboard, isReadOnly bool) bool {
	switch msg.Kind {
	case Undo:
		return b.Undo()
	case Redo:
		return b.Redo()
	case SelectAll:
		b.selectAll()
		return false
	case Copy, Cut:
		cuts := msg.Kind == Cut && !isReadOnly && clipboard != nil && b.hasAnySelection()
		b.copyOrCut(msg.Kind == Cut, clipboard, isReadOnly)
		return cuts
	case Paste:
		if isReadOnly || clipboard == nil {
			return false
		}
		return b.paste(clipboard)
	case ArrowLeft, ArrowRight, ArrowUp, ArrowDown, WordLeft, WordRight,
		LineBegin, LineEnd, Home, End, PageUp, PageDown:
		b.move(msg, pageHeight)
		return false
	default:
		if isReadOnly {
			return false
		}
		return b.editAllCursors(msg)
	}
}

func (b *Buffer) hasAnySelection() bool {
	for _, c := range b.cursors.Cursors() {
		if c.HasSelection() {
			return true
		}
	}
	return false
}

// selectAll collapses the cursor set to a single cursor selecting the whole
// document.
func (b *Buffer) selectAll() {
	n := b.rope.LenChars()
	cur := Cursor{Anchor: n}
	if n > 0 {
		cur.Selection = &Selection{Begin: 0, End: n}
	}
	b.cursors.Set([]Cursor{cur}, n)
}

// editAllCursors performs a text-mutating edit for every cursor, right to
// left so earlier indices stay valid, then normalises and records history.
func (b *Buffer) editAllCursors(msg EditMsg) bool {
	cursors := append([]Cursor(nil), b.cursors.Cursors()...)
	prevPrimary := b.cursors.Primary()

	// Merge overlapping delete ranges first (tie-break rule in §4.B), so
	// Backspace/Delete on selections that cover each other collapse to one
	// edit instead of each cursor independently removing its own copy of
	// the shared text.
	ranges := mergedDeleteRanges(cursors, msg, b.rope)

	before := b.snapshot()
	changed := false

	// Process cursors right-to-left by anchor so that earlier char indices
	// stay valid while we mutate.
	order := make([]int, len(cursors))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		return cursors[order[i]].Anchor > cursors[order[j]].Anchor
	})

	newCursors := make([]Cursor, len(cursors))
	copy(newCursors, cursors)

	skip := make(map[int]bool, len(ranges))
	for _, idx := range order {
		if skip[idx] {
			continue
		}
		c := cursors[idx]
		if merged, ok := ranges[idx]; ok {
			newCursors[idx] = Cursor{Anchor: merged.Begin}
			if merged.End > merged.Begin {
				b.rope.Remove(merged.Begin, merged.End)
				changed = true
			}
			for otherIdx, r := range ranges {
				if otherIdx != idx && r == merged {
					newCursors[otherIdx] = Cursor{Anchor: merged.Begin}
					skip[otherIdx] = true
				}
			}
			continue
		}
		nc, did := applyOneCursor(b.rope, c, msg)
		newCursors[idx] = nc
		changed = changed || did
	}

	if changed {
		b.pushHistory(before)
	}
	b.cursors.SetPrimary(newCursors, b.rope.LenChars(), prevPrimary)
	return changed
}

// mergedDeleteRanges pre-computes the union of delete ranges for Backspace/
// Delete-with-selection cases so overlapping selections across cursors
// collapse into one removal instead of each cursor deleting its own copy
// of the shared text (the merge-first tie-break in §4.B). It is the same
// sorted-sweep merge CursorSet.normalize uses for overlapping selections,
// so a chain of three or more transitively-overlapping selections merges
// correctly regardless of cursor order. Cursors sharing an identical
// merged range are each reported that union so the caller can apply it
// once and snap every participant's new cursor to its start. For
// operations where each cursor acts independently (Char, Enter, Tab), it
// returns nil.
func mergedDeleteRanges(cursors []Cursor, msg EditMsg, r *Rope) map[int]Selection {
	switch msg.Kind {
	case Backspace, Delete:
	default:
		return nil
	}

	type entry struct {
		idx int
		sel Selection
	}
	var entries []entry
	for i, c := range cursors {
		if c.HasSelection() {
			entries = append(entries, entry{idx: i, sel: *c.Selection})
		}
	}
	if len(entries) == 0 {
		return nil
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].sel.Begin < entries[j].sel.Begin })

	out := make(map[int]Selection, len(entries))
	groupStart := 0
	merged := entries[0].sel
	flush := func(end int) {
		for k := groupStart; k < end; k++ {
			out[entries[k].idx] = merged
		}
	}
	for k := 1; k < len(entries); k++ {
		sel := entries[k].sel
		if sel.Begin < merged.End {
			if sel.End > merged.End {
				merged.End = sel.End
			}
			continue
		}
		flush(k)
		groupStart = k
		merged = sel
	}
	flush(len(entries))
	return out
}

// applyOneCursor mutates the rope for a single cursor/message pair and
// returns the cursor's post-edit position plus whether text changed. It is
// not used for Backspace/Delete when mergedDeleteRanges has already
// computed that cursor's range; see editAllCursors.
func applyOneCursor(r *Rope, c Cursor, msg EditMsg) (Cursor, bool) {
	switch msg.Kind {
	case Char:
		return insertAtCursor(r, c, string(msg.Char))
	case Tab:
		if c.HasSelection() {
			return indentSelection(r, c, true)
		}
		return insertAtCursor(r, c, spaces(IndentWidth))
	case ShiftTab:
		return indentSelection(r, c, false)
	case Enter:
		return insertAtCursor(r, c, "\n")
	case Backspace:
		if c.Anchor == 0 {
			return c, false
		}
		prev := priorGraphemeStart(r, c.Anchor)
		r.Remove(prev, c.Anchor)
		return Cursor{Anchor: prev}, true
	case Delete:
		if c.Anchor >= r.LenChars() {
			return c, false
		}
		next := nextGraphemeEnd(r, c.Anchor)
		r.Remove(c.Anchor, next)
		return Cursor{Anchor: c.Anchor}, true
	default:
		return c, false
	}
}

func insertAtCursor(r *Rope, c Cursor, text string) (Cursor, bool) {
	if c.HasSelection() {
		begin, end := c.Range()
		r.Remove(begin, end)
		r.InsertBlock(begin, text)
		return Cursor{Anchor: begin + len([]rune(text))}, true
	}
	r.InsertBlock(c.Anchor, text)
	return Cursor{Anchor: c.Anchor + len([]rune(text))}, true
}

func indentSelection(r *Rope, c Cursor, add bool) (Cursor, bool) {
	begin, end := c.Range()
	if !c.HasSelection() {
		begin, end = c.Anchor, c.Anchor
	}
	startLine := r.CharToLine(begin)
	endLine := r.CharToLine(end)
	changed := false
	// Apply bottom-up so earlier line starts remain valid.
	for l := endLine; l >= startLine; l-- {
		lineStart, _ := r.LineRange(l)
		if add {
			r.InsertBlock(lineStart, spaces(IndentWidth))
			changed = true
		} else {
			lineEnd, _ := r.LineRange(l)
			_ = lineEnd
			n := countLeadingSpaces(r, lineStart, IndentWidth)
			if n > 0 {
				r.Remove(lineStart, lineStart+n)
				changed = true
			}
		}
	}
	newBegin := begin
	newEnd := end
	if add {
		newEnd += IndentWidth * (endLine - startLine + 1)
	}
	if newEnd <= newBegin {
		return Cursor{Anchor: newBegin}, changed
	}
	return Cursor{Anchor: newEnd, Selection: &Selection{Begin: newBegin, End: newEnd}}, changed
}

func countLeadingSpaces(r *Rope, at, max int) int {
	n := 0
	for n < max && at+n < r.LenChars() {
		ch := []rune(r.Slice(at+n, at+n+1))
		if len(ch) == 0 || (ch[0] != ' ' && ch[0] != '\t') {
			break
		}
		n++
	}
	return n
}

func spaces(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}

func priorGraphemeStart(r *Rope, at int) int {
	// Look back a small bounded window; grapheme clusters are short.
	lo := at - 64
	if lo < 0 {
		lo = 0
	}
	s := r.Slice(lo, at)
	if s == "" {
		return at - 1
	}
	g := uniseg.NewGraphemes(s)
	var lastStart int
	offset := lo
	prevOffset := offset
	for g.Next() {
		start := offset
		runes := g.Runes()
		offset += len(runes)
		prevOffset = start
	}
	lastStart = prevOffset
	if lastStart >= at {
		return at - 1
	}
	return lastStart
}

func nextGraphemeEnd(r *Rope, at int) int {
	hi := at + 64
	if hi > r.LenChars() {
		hi = r.LenChars()
	}
	s := r.Slice(at, hi)
	if s == "" {
		return at + 1
	}
	g := uniseg.NewGraphemes(s)
	if g.Next() {
		return at + len(g.Runes())
	}
	return at + 1
}

// move applies a non-mutating cursor motion to every cursor, preserving
// which cursor was primary so Kite and cursor rendering keep following it
// across the post-motion anchor-sort and merge (§4.F).
func (b *Buffer) move(msg EditMsg, pageHeight int) {
	cursors := append([]Cursor(nil), b.cursors.Cursors()...)
	prevPrimary := b.cursors.Primary()
	for i, c := range cursors {
		cursors[i] = b.moveOne(c, msg, pageHeight)
	}
	b.cursors.SetPrimary(cursors, b.rope.LenChars(), prevPrimary)
}

func (b *Buffer) moveOne(c Cursor, msg EditMsg, pageHeight int) Cursor {
	r := b.rope
	extend := msg.Shift
	from := c.Anchor

	resetCol := func(nc Cursor, newAnchor int) Cursor {
		col := VisualColumn(r, newAnchor)
		nc.PreferredColumn = &col
		return nc
	}

	applyMotion := func(newAnchor int, stickyCol bool) Cursor {
		nc := Cursor{}
		if extend {
			begin, end := from, newAnchor
			if c.HasSelection() {
				begin, end = c.Selection.Begin, c.Selection.End
				if from == c.Selection.Begin {
					begin = newAnchor
					end = c.Selection.End
				} else {
					begin = c.Selection.Begin
					end = newAnchor
				}
			} else {
				if newAnchor < from {
					begin, end = newAnchor, from
				} else {
					begin, end = from, newAnchor
				}
			}
			if begin > end {
				begin, end = end, begin
			}
			nc.Anchor = newAnchor
			if begin != end {
				nc.Selection = &Selection{Begin: begin, End: end}
			}
		} else {
			nc.Anchor = newAnchor
		}
		if !stickyCol {
			nc = resetCol(nc, newAnchor)
		} else {
			nc.PreferredColumn = c.PreferredColumn
		}
		return nc
	}

	switch msg.Kind {
	case ArrowLeft:
		if !extend && c.HasSelection() {
			return applyMotion(c.Selection.Begin, false)
		}
		if from == 0 {
			return applyMotion(from, false)
		}
		return applyMotion(priorGraphemeStart(r, from), false)
	case ArrowRight:
		if !extend && c.HasSelection() {
			return applyMotion(c.Selection.End, false)
		}
		if from >= r.LenChars() {
			return applyMotion(from, false)
		}
		return applyMotion(nextGraphemeEnd(r, from), false)
	case ArrowUp:
		line := r.CharToLine(from)
		if line == 0 {
			return applyMotion(from, true)
		}
		return applyMotion(verticalTarget(r, c, line-1), true)
	case ArrowDown:
		line := r.CharToLine(from)
		if line >= r.LineCount()-1 {
			return applyMotion(from, true)
		}
		return applyMotion(verticalTarget(r, c, line+1), true)
	case WordLeft:
		return applyMotion(wordBoundaryLeft(r, from), false)
	case WordRight:
		return applyMotion(wordBoundaryRight(r, from), false)
	case LineBegin, Home:
		line := r.CharToLine(from)
		start, _ := r.LineRange(line)
		return applyMotion(start, false)
	case LineEnd, End:
		line := r.CharToLine(from)
		_, end := r.LineRange(line)
		return applyMotion(end, false)
	case PageUp:
		line := r.CharToLine(from)
		target := line - pageHeight
		if target < 0 {
			target = 0
		}
		return applyMotion(verticalTarget(r, c, target), true)
	case PageDown:
		line := r.CharToLine(from)
		target := line + pageHeight
		if target > r.LineCount()-1 {
			target = r.LineCount() - 1
		}
		return applyMotion(verticalTarget(r, c, target), true)
	}
	return c
}

func verticalTarget(r *Rope, c Cursor, line int) int {
	start, end := r.LineRange(line)
	col := VisualColumn(r, c.Anchor)
	if c.PreferredColumn != nil {
		col = *c.PreferredColumn
	}
	target := start + int(col)
	if target > end {
		target = end
	}
	return target
}

func wordBoundaryLeft(r *Rope, from int) int {
	if from == 0 {
		return 0
	}
	lo := from - 256
	if lo < 0 {
		lo = 0
	}
	text := r.Slice(lo, from)
	bounds := wordBoundsWithin(text)
	for i := len(bounds) - 1; i >= 0; i-- {
		abs := lo + bounds[i]
		if abs < from {
			return abs
		}
	}
	return lo
}

func wordBoundaryRight(r *Rope, from int) int {
	n := r.LenChars()
	if from >= n {
		return n
	}
	hi := from + 256
	if hi > n {
		hi = n
	}
	text := r.Slice(from, hi)
	bounds := wordBoundsWithin(text)
	for _, b := range bounds {
		abs := from + b
		if abs > from {
			return abs
		}
	}
	return hi
}

// wordBoundsWithin returns char-offset boundaries (start of each token,
// including the final end-of-text boundary) for s, using Unicode word
// segmentation (UAX #29).
func wordBoundsWithin(s string) []int {
	if s == "" {
		return nil
	}
	bounds := []int{0}
	charOffset := 0
	seg := words.FromString(s)
	for seg.Next() {
		tok := seg.Value()
		charOffset += len([]rune(tok))
		bounds = append(bounds, charOffset)
	}
	return bounds
}

// Clipboard is the contract the editor uses for Copy/Cut/Paste (§5: a
// single-process shared resource that serialises its own writes).
type Clipboard interface {
	Read() (string, error)
	Write(string) error
}

func (b *Buffer) copyOrCut(cut bool, clipboard Clipboard, isReadOnly bool) {
	if clipboard == nil {
		return
	}
	var pieces []string
	for _, c := range b.cursors.Cursors() {
		if c.HasSelection() {
			begin, end := c.Range()
			pieces = append(pieces, b.rope.Slice(begin, end))
		}
	}
	if len(pieces) == 0 {
		return
	}
	text := pieces[0]
	if len(pieces) > 1 {
		text = joinLines(pieces)
	}
	_ = clipboard.Write(text)
	if cut && !isReadOnly {
		before := b.snapshot()
		prevPrimary := b.cursors.Primary()
		cursors := append([]Cursor(nil), b.cursors.Cursors()...)

		// Process right-to-left by anchor without reordering the cursors
		// slice itself, so each index keeps naming the same cursor and
		// prevPrimary still identifies the right one afterward.
		order := make([]int, len(cursors))
		for i := range order {
			order[i] = i
		}
		sort.Slice(order, func(i, j int) bool { return cursors[order[i]].Anchor > cursors[order[j]].Anchor })

		changed := false
		for _, idx := range order {
			c := cursors[idx]
			if c.HasSelection() {
				begin, end := c.Range()
				b.rope.Remove(begin, end)
				cursors[idx] = Cursor{Anchor: begin}
				changed = true
			}
		}
		if changed {
			b.pushHistory(before)
		}
		b.cursors.SetPrimary(cursors, b.rope.LenChars(), prevPrimary)
	}
}

func joinLines(lines []string) string {
	out := lines[0]
	for _, l := range lines[1:] {
		out += "\n" + l
	}
	return out
}

// paste implements the §4.B paste policy:
//   - one clipboard line, N cursors: each cursor inserts that line
//   - N clipboard lines, N cursors: each cursor receives its own line
//   - otherwise: every cursor inserts the full clipboard text
func (b *Buffer) paste(clipboard Clipboard) bool {
	text, err := clipboard.Read()
	if err != nil || text == "" {
		return false
	}
	lines := splitLines(text)
	cursors := append([]Cursor(nil), b.cursors.Cursors()...)
	prevPrimary := b.cursors.Primary()
	n := len(cursors)

	perCursor := make([]string, n)
	switch {
	case len(lines) == 1:
		for i := range perCursor {
			perCursor[i] = lines[0]
		}
	case len(lines) == n:
		for i := range perCursor {
			perCursor[i] = lines[i]
		}
	default:
		for i := range perCursor {
			perCursor[i] = text
		}
	}

	before := b.snapshot()
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return cursors[order[i]].Anchor > cursors[order[j]].Anchor })

	for _, idx := range order {
		c := cursors[idx]
		nc, _ := insertAtCursor(b.rope, c, perCursor[idx])
		cursors[idx] = nc
	}
	b.pushHistory(before)
	b.cursors.SetPrimary(cursors, b.rope.LenChars(), prevPrimary)
	return true
}

func splitLines(s string) []string {
	var out []string
	start := 0
	runes := []rune(s)
	for i, ch := range runes {
		if ch == '\n' {
			out = append(out, string(runes[start:i]))
			start = i + 1
		}
	}
	out = append(out, string(runes[start:]))
	return out
}
