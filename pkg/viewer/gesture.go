package viewer

import "math"

// Cursor is the pointer affordance the view should show.
type Cursor int

const (
	CursorDefault Cursor = iota
	CursorGrab
	CursorGrabbing
)

// Point is a pointer or touch coordinate in viewport space.
type Point struct {
	X, Y float64
}

// GestureController translates raw pointer, wheel, and touch input into
// session operations. It is stateful across a drag or pinch and is not safe
// for concurrent use; drive it from a single input loop.
type GestureController struct {
	session *Session

	dragging         bool
	anchorX, anchorY float64

	pinchActive   bool
	pinchDistance float64
}

func NewGestureController(s *Session) *GestureController {
	return &GestureController{session: s}
}

// Wheel handles a scroll tick. With the zoom modifier held, each tick steps
// the zoom by WheelZoomStep, scrolling down zooming out. Without the
// modifier the event is left to natural scrolling.
func (g *GestureController) Wheel(deltaY float64, zoomModifier bool) bool {
	if !zoomModifier || deltaY == 0 {
		return false
	}
	if deltaY > 0 {
		g.session.AdjustZoom(-WheelZoomStep)
	} else {
		g.session.AdjustZoom(WheelZoomStep)
	}
	return true
}

// PointerDown starts a drag when the view is zoomed in past 1.0. The anchor
// keeps the grabbed point under the pointer for the whole drag.
func (g *GestureController) PointerDown(x, y float64) {
	if !g.session.zoomedIn() {
		return
	}
	state := g.session.Snapshot()
	g.dragging = true
	g.anchorX = x - state.PosX
	g.anchorY = y - state.PosY
}

// PointerMove pans the view while a drag is active.
func (g *GestureController) PointerMove(x, y float64) {
	if !g.dragging {
		return
	}
	if !g.session.Pan(x-g.anchorX, y-g.anchorY) {
		g.dragging = false
	}
}

// PointerUp ends an active drag.
func (g *GestureController) PointerUp() {
	g.dragging = false
}

// Touch handles a touch frame. One finger drags like a pointer, two fingers
// pinch-zoom by PinchZoomFactor per unit of distance change. Anything else
// resets gesture state so the next pinch starts a fresh baseline.
func (g *GestureController) Touch(points []Point) {
	switch len(points) {
	case 1:
		g.pinchActive = false
		p := points[0]
		if g.dragging {
			g.PointerMove(p.X, p.Y)
		} else {
			g.PointerDown(p.X, p.Y)
		}
	case 2:
		g.dragging = false
		dist := math.Hypot(points[1].X-points[0].X, points[1].Y-points[0].Y)
		if g.pinchActive {
			g.session.AdjustZoom((dist - g.pinchDistance) * PinchZoomFactor)
		}
		g.pinchActive = true
		g.pinchDistance = dist
	default:
		g.dragging = false
		g.pinchActive = false
	}
}

// TouchEnd clears drag and pinch state when all fingers lift.
func (g *GestureController) TouchEnd() {
	g.dragging = false
	g.pinchActive = false
}

// Cursor reports the affordance for the current state: grabbing during a
// drag, grab while zoomed in, default otherwise.
func (g *GestureController) Cursor() Cursor {
	if g.dragging {
		return CursorGrabbing
	}
	if g.session.zoomedIn() {
		return CursorGrab
	}
	return CursorDefault
}
