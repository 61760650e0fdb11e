package buffer

// MaxHistoryDepth bounds the undo stack so long editing sessions don't grow
// memory unboundedly. The finite ordered sequence required by §3.
const MaxHistoryDepth = 1000

// snapshotState is a single undo/redo entry: the rope text and the
// normalised cursor set at that point in time.
type snapshotState struct {
	text    string
	cursors *CursorSet
}

// History is a finite ordered undo stack plus a redo stack, per §3.
type History struct {
	undo []snapshotState
	redo []snapshotState
}

func newHistory() *History {
	return &History{}
}

func (b *Buffer) snapshot() snapshotState {
	return snapshotState{text: b.rope.String(), cursors: b.cursors.Clone()}
}

// pushHistory records the state as it was *before* the mutation that is
// about to be (or was just) applied, and clears the redo stack.
func (b *Buffer) pushHistory(before snapshotState) {
	b.history.undo = append(b.history.undo, before)
	if len(b.history.undo) > MaxHistoryDepth {
		b.history.undo = b.history.undo[len(b.history.undo)-MaxHistoryDepth:]
	}
	b.history.redo = nil
}

func (b *Buffer) restore(s snapshotState) {
	oldLen := b.rope.LenChars()
	oldEndByte, oldEnd := b.rope.ByteOffset(oldLen), pointAt(b.rope, oldLen)
	b.rope = NewRope(s.text)
	b.cursors = s.cursors.Clone()
	if b.Parsing != nil {
		// A full-text restore is reported as a single whole-document edit;
		// the parser layer reparses from scratch rather than trying to
		// reconcile a jump through history as an incremental delta.
		n := b.rope.LenChars()
		end := pointAt(b.rope, n)
		b.Parsing.ReportEdit(EditReport{
			OldEndByte: oldEndByte, NewEndByte: len(s.text),
			OldEndPoint: oldEnd, NewEndPoint: end,
		})
	}
}

// Undo pops the most recent snapshot into the current state, pushing the
// current state onto redo. Returns whether anything changed.
func (b *Buffer) Undo() bool {
	if len(b.history.undo) == 0 {
		return false
	}
	n := len(b.history.undo) - 1
	prior := b.history.undo[n]
	b.history.undo = b.history.undo[:n]

	current := b.snapshot()
	b.history.redo = append(b.history.redo, current)

	b.restore(prior)
	return true
}

// Redo pops the most recent redo snapshot back into the current state,
// pushing the current state onto undo. Returns whether anything changed.
func (b *Buffer) Redo() bool {
	if len(b.history.redo) == 0 {
		return false
	}
	n := len(b.history.redo) - 1
	next := b.history.redo[n]
	b.history.redo = b.history.redo[:n]

	current := b.snapshot()
	b.history.undo = append(b.history.undo, current)

	b.restore(next)
	return true
}
