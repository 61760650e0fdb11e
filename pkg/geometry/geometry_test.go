package geometry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitedit/kite/pkg/geometry"
)

func TestRectContainsIsHalfOpen(t *testing.T) {
	r := geometry.NewRect(geometry.XY{X: 1, Y: 1}, geometry.XY{X: 3, Y: 3})
	assert.True(t, r.Contains(geometry.XY{X: 1, Y: 1}))
	assert.True(t, r.Contains(geometry.XY{X: 3, Y: 3}))
	assert.False(t, r.Contains(geometry.XY{X: 4, Y: 3}))
	assert.False(t, r.Contains(geometry.XY{X: 1, Y: 4}))
}

func TestRectLowerRightExcludedButGreaterThanContainedPoints(t *testing.T) {
	r := geometry.NewRect(geometry.XY{X: 0, Y: 0}, geometry.XY{X: 5, Y: 5})
	lr := r.LowerRight()
	for x := uint16(0); x < 5; x++ {
		for y := uint16(0); y < 5; y++ {
			p := geometry.XY{X: x, Y: y}
			require.True(t, r.Contains(p))
			assert.True(t, lr.X > p.X && lr.Y > p.Y)
		}
	}
}

func TestIntersectEdgeTouchingIsEmpty(t *testing.T) {
	a := geometry.NewRect(geometry.XY{X: 0, Y: 0}, geometry.XY{X: 5, Y: 5})
	b := geometry.NewRect(geometry.XY{X: 5, Y: 0}, geometry.XY{X: 5, Y: 5})
	_, ok := a.Intersect(b)
	assert.False(t, ok)
}

func TestIntersectOverlapping(t *testing.T) {
	a := geometry.NewRect(geometry.XY{X: 0, Y: 0}, geometry.XY{X: 5, Y: 5})
	b := geometry.NewRect(geometry.XY{X: 3, Y: 3}, geometry.XY{X: 5, Y: 5})
	got, ok := a.Intersect(b)
	require.True(t, ok)
	assert.Equal(t, geometry.NewRect(geometry.XY{X: 3, Y: 3}, geometry.XY{X: 2, Y: 2}), got)
}

func TestShiftSubUnderflow(t *testing.T) {
	r := geometry.NewRect(geometry.XY{X: 1, Y: 1}, geometry.XY{X: 2, Y: 2})
	_, ok := r.ShiftSub(geometry.XY{X: 2, Y: 0})
	assert.False(t, ok)

	shifted, ok := r.ShiftSub(geometry.XY{X: 1, Y: 1})
	require.True(t, ok)
	assert.Equal(t, geometry.XY{X: 0, Y: 0}, shifted.Pos)
}

func TestExpandToContain(t *testing.T) {
	r := geometry.NewRect(geometry.XY{X: 2, Y: 2}, geometry.XY{X: 2, Y: 2})
	got := r.ExpandToContain(geometry.XY{X: 10, Y: 1})
	assert.True(t, got.Contains(geometry.XY{X: 2, Y: 2}))
	assert.True(t, got.Contains(geometry.XY{X: 10, Y: 1}))
}

func TestNewScreenspaceRejectsDeformedOrUncontained(t *testing.T) {
	_, ok := geometry.NewScreenspace(geometry.XY{X: 10, Y: 10}, geometry.Rect{})
	assert.False(t, ok, "empty visible rect must be rejected")

	_, ok = geometry.NewScreenspace(geometry.XY{X: 10, Y: 10},
		geometry.NewRect(geometry.XY{X: 5, Y: 5}, geometry.XY{X: 10, Y: 10}))
	assert.False(t, ok, "visible rect must be contained in output")

	ss, ok := geometry.NewScreenspace(geometry.XY{X: 10, Y: 10},
		geometry.NewRect(geometry.XY{X: 1, Y: 1}, geometry.XY{X: 5, Y: 5}))
	require.True(t, ok)
	assert.True(t, ss.VisibleRect.Size.X > 0 && ss.VisibleRect.Size.Y > 0)
}
