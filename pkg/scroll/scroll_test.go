package scroll_test

import (
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitedit/kite/pkg/geometry"
	"github.com/kitedit/kite/pkg/scroll"
)

func TestFollowKiteScrollsMinimallyWhenKiteLeavesViewport(t *testing.T) {
	s := scroll.NewScroll(scroll.Both)
	visible := geometry.XY{X: 10, Y: 5}
	content := geometry.XY{X: 100, Y: 100}

	s.FollowKite(visible, content, geometry.XY{X: 3, Y: 2})
	assert.Equal(t, geometry.Zero, s.Offset, "kite already inside viewport: no scroll")

	s.FollowKite(visible, content, geometry.XY{X: 20, Y: 12})
	assert.Equal(t, geometry.XY{X: 11, Y: 8}, s.Offset)

	s.FollowKite(visible, content, geometry.XY{X: 0, Y: 0})
	assert.Equal(t, geometry.Zero, s.Offset, "kite moved back above viewport: offset follows it up")
}

func TestFollowKiteClampsToContentBounds(t *testing.T) {
	s := scroll.NewScroll(scroll.Both)
	visible := geometry.XY{X: 10, Y: 5}
	content := geometry.XY{X: 12, Y: 6}

	s.FollowKite(visible, content, geometry.XY{X: 11, Y: 5})
	assert.LessOrEqual(t, s.Offset.X, uint16(2))
	assert.LessOrEqual(t, s.Offset.Y, uint16(1))
}

func TestFollowKiteRespectsSingleAxisDirection(t *testing.T) {
	s := scroll.NewScroll(scroll.Vertical)
	visible := geometry.XY{X: 10, Y: 5}
	content := geometry.XY{X: 100, Y: 100}

	s.FollowKite(visible, content, geometry.XY{X: 50, Y: 12})
	assert.Equal(t, uint16(0), s.Offset.X, "horizontal axis is frozen")
	assert.Equal(t, uint16(8), s.Offset.Y)
}

func TestBaseOutputPrintAtClipsSilently(t *testing.T) {
	out := scroll.NewBaseOutput(geometry.XY{X: 5, Y: 2})
	out.PrintAt(geometry.XY{X: 3, Y: 0}, lipgloss.NewStyle(), "hello")
	assert.Equal(t, "h", out.Cell(geometry.XY{X: 3, Y: 0}).Grapheme)
	assert.Equal(t, "e", out.Cell(geometry.XY{X: 4, Y: 0}).Grapheme)
	// "llo" falls past the edge of a 5-wide grid and must not panic.
	out.PrintAt(geometry.XY{X: 0, Y: 9}, lipgloss.NewStyle(), "off-grid row")
}

func TestBaseOutputPrintAtWidensForWideGraphemes(t *testing.T) {
	out := scroll.NewBaseOutput(geometry.XY{X: 4, Y: 1})
	out.PrintAt(geometry.Zero, lipgloss.NewStyle(), "世a")
	assert.Equal(t, "世", out.Cell(geometry.XY{X: 0, Y: 0}).Grapheme)
	assert.True(t, out.Cell(geometry.XY{X: 1, Y: 0}).Continuation)
	assert.Equal(t, "a", out.Cell(geometry.XY{X: 2, Y: 0}).Grapheme)
}

func TestSubOutputTranslatesAndClips(t *testing.T) {
	base := scroll.NewBaseOutput(geometry.XY{X: 20, Y: 10})
	sub := scroll.NewSubOutput(base, geometry.Rect{Pos: geometry.XY{X: 5, Y: 2}, Size: geometry.XY{X: 6, Y: 3}})

	sub.PrintAt(geometry.XY{X: 0, Y: 0}, lipgloss.NewStyle(), "x")
	assert.Equal(t, "x", base.Cell(geometry.XY{X: 5, Y: 2}).Grapheme)

	// Out of the sub-rectangle's own bounds: dropped, does not leak into base.
	sub.PrintAt(geometry.XY{X: 100, Y: 100}, lipgloss.NewStyle(), "y")

	vis := sub.VisibleRect()
	assert.Equal(t, geometry.Rect{Pos: geometry.Zero, Size: geometry.XY{X: 6, Y: 3}}, vis)
}

func TestOverOutputTranslatesByOffset(t *testing.T) {
	base := scroll.NewBaseOutput(geometry.XY{X: 10, Y: 10})
	over := scroll.NewOverOutput(base, geometry.XY{X: 100, Y: 100}, geometry.XY{X: 20, Y: 5})

	over.PrintAt(geometry.XY{X: 20, Y: 5}, lipgloss.NewStyle(), "z")
	assert.Equal(t, "z", base.Cell(geometry.Zero).Grapheme)

	// Logical point above the offset underflows and must be dropped, not
	// wrap around uint16 into the base.
	over.PrintAt(geometry.XY{X: 0, Y: 0}, lipgloss.NewStyle(), "nope")
	assert.Equal(t, " ", base.Cell(geometry.XY{X: 0, Y: 9}).Grapheme)

	vis := over.VisibleRect()
	require.False(t, vis.Empty())
	assert.Equal(t, geometry.XY{X: 20, Y: 5}, vis.Pos)
}

func TestGutterWidth(t *testing.T) {
	assert.Equal(t, 2, scroll.GutterWidth(7))
	assert.Equal(t, 3, scroll.GutterWidth(42))
	assert.Equal(t, 4, scroll.GutterWidth(999))
}
