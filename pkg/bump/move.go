package bump

import (
	"math"
	"sort"

	"github.com/cbodonnell/bump/pkg/geom"
	"github.com/cbodonnell/bump/pkg/grid"
	"github.com/cbodonnell/bump/pkg/log"
)

// Collision is a single contact produced by the movement pipeline. It extends
// the geometric collision record with the items involved, the response name
// chosen by the filter, and the post-response goals written by the slide and
// bounce responses.
type Collision struct {
	geom.Collision
	// Item is the moving item; nil for hypothetical projections.
	Item Item
	// Other is the item being collided with.
	Other Item
	// Type is the response name returned by the filter.
	Type string
	// Slide is the adjusted goal written by the slide response.
	Slide *geom.Vector
	// Bounce is the reflected goal written by the bounce response.
	Bounce *geom.Vector
}

// Project returns the collisions the rectangle would produce moving from
// (x, y) toward the goal, earliest first, without mutating the world. The
// item is only used to exclude itself from the candidates; it may be nil to
// project a hypothetical rectangle that is not in the world.
func (w *World) Project(item Item, x, y, width, height, goalX, goalY float64, filter Filter) []*Collision {
	if filter == nil {
		filter = DefaultFilter
	}
	rect := geom.Rect{X: x, Y: y, W: width, H: height}

	// broadphase over the bounding rectangle of the whole movement
	tl := math.Min(goalX, x)
	tt := math.Min(goalY, y)
	tr := math.Max(goalX, x) + width
	tb := math.Max(goalY, y) + height
	cl, ct, cw, ch := grid.ToCellRect(w.cellSize, geom.Rect{X: tl, Y: tt, W: tr - tl, H: tb - tt})

	var cols []*Collision
	for other := range w.itemsInCellRect(cl, ct, cw, ch) {
		if other == item {
			continue
		}
		name := filter(item, other)
		if name == "" {
			continue
		}
		gc, ok := geom.DetectCollision(rect, w.items[other].rect, goalX, goalY)
		if !ok {
			continue
		}
		cols = append(cols, &Collision{
			Collision: gc,
			Item:      item,
			Other:     other,
			Type:      name,
		})
	}

	sort.Slice(cols, func(i, j int) bool {
		a, b := cols[i], cols[j]
		if a.TI != b.TI {
			return a.TI < b.TI
		}
		ad := a.ItemRect.SquareDistance(a.OtherRect)
		bd := b.ItemRect.SquareDistance(b.OtherRect)
		if ad != bd {
			return ad < bd
		}
		return w.items[a.Other].seq < w.items[b.Other].seq
	})
	return cols
}

// Check resolves the movement of the item toward the goal without mutating
// the world. It returns the position the item would end up in and every
// collision met along the way, in resolution order. Each collided item is
// visited at most once, so the loop runs at most once per item in the world.
func (w *World) Check(item Item, goalX, goalY float64, filter Filter) (actualX, actualY float64, cols []*Collision, err error) {
	rec, ok := w.items[item]
	if !ok {
		return 0, 0, nil, &ErrItemNotFound{Item: item}
	}
	if filter == nil {
		filter = DefaultFilter
	}

	visited := map[Item]struct{}{item: {}}
	visitedFilter := func(itm, other Item) string {
		if _, ok := visited[other]; ok {
			return ""
		}
		return filter(itm, other)
	}

	rect := rec.rect
	projected := w.Project(item, rect.X, rect.Y, rect.W, rect.H, goalX, goalY, visitedFilter)

	for len(projected) > 0 {
		col := projected[0]
		cols = append(cols, col)
		visited[col.Other] = struct{}{}

		resp, ok := w.responses[col.Type]
		if !ok {
			return 0, 0, nil, &ErrUnknownResponse{Name: col.Type}
		}

		goalX, goalY, projected, err = resp(w, col, rect.X, rect.Y, rect.W, rect.H, goalX, goalY, visitedFilter)
		if err != nil {
			return 0, 0, nil, err
		}
	}

	return goalX, goalY, cols, nil
}

// Move resolves the movement of the item toward the goal and commits the
// resulting position, keeping the item's size.
func (w *World) Move(item Item, goalX, goalY float64, filter Filter) (actualX, actualY float64, cols []*Collision, err error) {
	actualX, actualY, cols, err = w.Check(item, goalX, goalY, filter)
	if err != nil {
		return 0, 0, nil, err
	}
	if err := w.Update(item, actualX, actualY); err != nil {
		return 0, 0, nil, err
	}
	log.Trace("bump: moved item %v to (%v, %v) with %d collisions", item, actualX, actualY, len(cols))
	return actualX, actualY, cols, nil
}
