package bump

import (
	"github.com/cbodonnell/bump/pkg/geom"
)

// Built-in response names, registered on every new world.
const (
	ResponseTouch  = "touch"
	ResponseCross  = "cross"
	ResponseSlide  = "slide"
	ResponseBounce = "bounce"
)

// Filter decides how a moving item reacts to another item: it returns the
// name of a response registered with the world, or "" to ignore the pair
// entirely. Filters must not mutate the world.
type Filter func(item, other Item) string

// DefaultFilter makes everything solid: every pair resolves with the slide
// response. It is used by Project, Check and Move when the filter is nil.
func DefaultFilter(item, other Item) string {
	return ResponseSlide
}

// Response turns a detected collision into an adjusted goal and the next set
// of projected collisions for the resolution loop in Check. The rectangle
// arguments are the moving item's original rectangle, not its touch position.
// Responses must not mutate the world.
type Response func(w *World, col *Collision, x, y, width, height, goalX, goalY float64, filter Filter) (gx, gy float64, cols []*Collision, err error)

// AddResponse registers a response under the given name, replacing any
// previous registration. The built-in responses may be overridden.
func (w *World) AddResponse(name string, resp Response) {
	w.responses[name] = resp
}

// touchResponse stops the item at the contact point.
func touchResponse(w *World, col *Collision, x, y, width, height, goalX, goalY float64, filter Filter) (float64, float64, []*Collision, error) {
	return col.Touch.X, col.Touch.Y, nil, nil
}

// crossResponse lets the item pass through, collecting any further contacts
// on the way to the original goal.
func crossResponse(w *World, col *Collision, x, y, width, height, goalX, goalY float64, filter Filter) (float64, float64, []*Collision, error) {
	return goalX, goalY, w.Project(col.Item, x, y, width, height, goalX, goalY, filter), nil
}

// slideResponse cancels the component of the remaining movement along the
// contact normal and continues from the touch point.
func slideResponse(w *World, col *Collision, x, y, width, height, goalX, goalY float64, filter Filter) (float64, float64, []*Collision, error) {
	if col.Move.X != 0 || col.Move.Y != 0 {
		if col.Normal.X != 0 {
			goalX = col.Touch.X
		} else {
			goalY = col.Touch.Y
		}
	}
	col.Slide = &geom.Vector{X: goalX, Y: goalY}

	cols := w.Project(col.Item, col.Touch.X, col.Touch.Y, width, height, goalX, goalY, filter)
	return goalX, goalY, cols, nil
}

// bounceResponse reflects the remaining movement about the contact normal and
// continues from the touch point.
func bounceResponse(w *World, col *Collision, x, y, width, height, goalX, goalY float64, filter Filter) (float64, float64, []*Collision, error) {
	tx, ty := col.Touch.X, col.Touch.Y
	bx, by := goalX, goalY

	if col.Move.X != 0 || col.Move.Y != 0 {
		bnx, bny := goalX-tx, goalY-ty
		if col.Normal.X == 0 {
			bny = -bny
		} else {
			bnx = -bnx
		}
		bx, by = tx+bnx, ty+bny
	}

	col.Bounce = &geom.Vector{X: bx, Y: by}

	cols := w.Project(col.Item, tx, ty, width, height, bx, by, filter)
	return bx, by, cols, nil
}
