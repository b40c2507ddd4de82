package bump

import (
	"github.com/cbodonnell/bump/pkg/grid"
)

// cell holds the items whose rectangles touch one grid square. Cells are
// created on first occupancy and freed when the last item leaves, so the row
// maps only ever hold live cells.
type cell struct {
	cx    int
	cy    int
	items map[Item]struct{}
}

func (w *World) addItemToCell(item Item, cx, cy int) {
	row, ok := w.rows[cy]
	if !ok {
		row = make(map[int]*cell)
		w.rows[cy] = row
	}
	c, ok := row[cx]
	if !ok {
		c = &cell{cx: cx, cy: cy, items: make(map[Item]struct{})}
		row[cx] = c
		w.nonEmpty[c] = struct{}{}
	}
	c.items[item] = struct{}{}
}

func (w *World) removeItemFromCell(item Item, cx, cy int) bool {
	row, ok := w.rows[cy]
	if !ok {
		return false
	}
	c, ok := row[cx]
	if !ok {
		return false
	}
	if _, ok := c.items[item]; !ok {
		return false
	}
	delete(c.items, item)
	if len(c.items) == 0 {
		delete(w.nonEmpty, c)
		delete(row, cx)
		if len(row) == 0 {
			delete(w.rows, cy)
		}
	}
	return true
}

// itemsInCellRect gathers the distinct items in a span of cells.
func (w *World) itemsInCellRect(cl, ct, cw, ch int) map[Item]struct{} {
	found := make(map[Item]struct{})
	for cy := ct; cy < ct+ch; cy++ {
		row, ok := w.rows[cy]
		if !ok {
			continue
		}
		for cx := cl; cx < cl+cw; cx++ {
			c, ok := row[cx]
			if !ok {
				continue
			}
			for item := range c.items {
				found[item] = struct{}{}
			}
		}
	}
	return found
}

// cellsTouchedBySegment gathers the distinct occupied cells crossed by a
// segment, in traversal order.
func (w *World) cellsTouchedBySegment(x1, y1, x2, y2 float64) []*cell {
	var cells []*cell
	visited := make(map[*cell]struct{})
	grid.Traverse(w.cellSize, x1, y1, x2, y2, func(cx, cy int) {
		row, ok := w.rows[cy]
		if !ok {
			return
		}
		c, ok := row[cx]
		if !ok {
			return
		}
		if _, ok := visited[c]; ok {
			return
		}
		visited[c] = struct{}{}
		cells = append(cells, c)
	})
	return cells
}
