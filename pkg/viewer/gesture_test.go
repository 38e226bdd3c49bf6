package viewer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWheelZoom(t *testing.T) {
	s, _, _ := readySession(t, 1)
	g := NewGestureController(s)

	// Without the modifier the wheel scrolls, never zooms.
	assert.False(t, g.Wheel(120, false))
	assert.Equal(t, 1.0, s.Snapshot().Zoom)

	// Scroll up zooms in, scroll down zooms out.
	assert.True(t, g.Wheel(-120, true))
	assert.Equal(t, 1.1, s.Snapshot().Zoom)

	assert.True(t, g.Wheel(120, true))
	assert.Equal(t, 1.0, s.Snapshot().Zoom)
}

func TestPointerDragPansWhenZoomed(t *testing.T) {
	s, _, _ := readySession(t, 1)
	g := NewGestureController(s)

	s.AdjustZoom(1.0) // zoom 2.0

	g.PointerDown(100, 100)
	assert.Equal(t, CursorGrabbing, g.Cursor())

	g.PointerMove(130, 80)
	st := s.Snapshot()
	assert.Equal(t, 30.0, st.PosX)
	assert.Equal(t, -20.0, st.PosY)

	// The grabbed point stays under the pointer across moves.
	g.PointerMove(150, 150)
	st = s.Snapshot()
	assert.Equal(t, 50.0, st.PosX)
	assert.Equal(t, 50.0, st.PosY)

	g.PointerUp()
	assert.Equal(t, CursorGrab, g.Cursor())
}

func TestPointerDownIgnoredAtBaseZoom(t *testing.T) {
	s, _, _ := readySession(t, 1)
	g := NewGestureController(s)

	g.PointerDown(100, 100)
	g.PointerMove(150, 150)

	st := s.Snapshot()
	assert.Equal(t, 0.0, st.PosX)
	assert.Equal(t, 0.0, st.PosY)
	assert.Equal(t, CursorDefault, g.Cursor())
}

func TestDragStopsWhenZoomResets(t *testing.T) {
	s, _, _ := readySession(t, 1)
	g := NewGestureController(s)

	s.AdjustZoom(0.5) // zoom 1.5
	g.PointerDown(100, 100)
	g.PointerMove(120, 120)

	s.ResetZoom()
	g.PointerMove(200, 200)
	assert.Equal(t, CursorDefault, g.Cursor())
	assert.Equal(t, 0.0, s.Snapshot().PosX)
}

func TestPinchZoom(t *testing.T) {
	s, _, _ := readySession(t, 1)
	g := NewGestureController(s)

	// First two-finger frame only establishes the baseline.
	g.Touch([]Point{{X: 100, Y: 100}, {X: 200, Y: 100}})
	assert.Equal(t, 1.0, s.Snapshot().Zoom)

	// Fingers spread by 50 units: zoom grows by 50 * PinchZoomFactor.
	g.Touch([]Point{{X: 75, Y: 100}, {X: 225, Y: 100}})
	assert.Equal(t, 1.5, s.Snapshot().Zoom)

	// Fingers close in again.
	g.Touch([]Point{{X: 100, Y: 100}, {X: 200, Y: 100}})
	assert.Equal(t, 1.0, s.Snapshot().Zoom)
}

func TestPinchBaselineResets(t *testing.T) {
	s, _, _ := readySession(t, 1)
	g := NewGestureController(s)

	g.Touch([]Point{{X: 100, Y: 100}, {X: 200, Y: 100}})
	g.Touch([]Point{{X: 50, Y: 100}, {X: 250, Y: 100}})
	assert.Equal(t, 2.0, s.Snapshot().Zoom)

	g.TouchEnd()

	// A new pinch must not zoom on its first frame even though the finger
	// distance differs from the previous pinch.
	g.Touch([]Point{{X: 140, Y: 100}, {X: 160, Y: 100}})
	assert.Equal(t, 2.0, s.Snapshot().Zoom)

	g.Touch([]Point{{X: 130, Y: 100}, {X: 170, Y: 100}})
	assert.Equal(t, 2.2, s.Snapshot().Zoom)
}

func TestSingleTouchDrags(t *testing.T) {
	s, _, _ := readySession(t, 1)
	g := NewGestureController(s)

	s.AdjustZoom(1.0) // zoom 2.0

	g.Touch([]Point{{X: 100, Y: 100}})
	g.Touch([]Point{{X: 140, Y: 90}})

	st := s.Snapshot()
	assert.Equal(t, 40.0, st.PosX)
	assert.Equal(t, -10.0, st.PosY)
}

func TestThreeFingersResetGestureState(t *testing.T) {
	s, _, _ := readySession(t, 1)
	g := NewGestureController(s)

	g.Touch([]Point{{X: 100, Y: 100}, {X: 200, Y: 100}})
	g.Touch([]Point{{X: 100, Y: 100}, {X: 200, Y: 100}, {X: 150, Y: 200}})

	// Back to two fingers: the stale baseline must not apply.
	g.Touch([]Point{{X: 50, Y: 100}, {X: 250, Y: 100}})
	assert.Equal(t, 1.0, s.Snapshot().Zoom)
}
