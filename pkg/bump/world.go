// Package bump implements a grid based collision engine for axis-aligned
// rectangles. A World indexes items by the cells their rectangles occupy,
// answers rectangle, point and segment queries, and resolves continuous
// movement against the indexed items with pluggable collision responses.
//
// Worlds are not safe for concurrent use.
package bump

import (
	"sort"

	"github.com/cbodonnell/bump/pkg/geom"
	"github.com/cbodonnell/bump/pkg/grid"
	"github.com/cbodonnell/bump/pkg/log"
)

// DefaultCellSize works well for worlds whose items are a few dozen units
// across. Cells should be roughly four times larger than the typical item.
const DefaultCellSize = 64.0

// Item identifies an entry in a world. The engine never inspects it beyond
// using it as a map key, so it must be comparable and is returned verbatim in
// collision records. Callers that need identity semantics for equal-valued
// objects should use pointers or unique handles.
type Item interface{}

type itemRecord struct {
	rect geom.Rect
	seq  uint64
}

// World is a collection of rectangles indexed by a sparse uniform grid.
type World struct {
	cellSize  float64
	items     map[Item]*itemRecord
	rows      map[int]map[int]*cell
	nonEmpty  map[*cell]struct{}
	responses map[string]Response
	nextSeq   uint64
}

// NewWorld creates an empty world with the given cell size. The cell size is
// immutable for the lifetime of the world.
func NewWorld(cellSize float64) (*World, error) {
	if cellSize <= 0 {
		return nil, &ErrInvalidCellSize{CellSize: cellSize}
	}
	w := &World{
		cellSize:  cellSize,
		items:     make(map[Item]*itemRecord),
		rows:      make(map[int]map[int]*cell),
		nonEmpty:  make(map[*cell]struct{}),
		responses: make(map[string]Response),
	}
	w.AddResponse(ResponseTouch, touchResponse)
	w.AddResponse(ResponseCross, crossResponse)
	w.AddResponse(ResponseSlide, slideResponse)
	w.AddResponse(ResponseBounce, bounceResponse)
	return w, nil
}

// CellSize returns the world's cell size.
func (w *World) CellSize() float64 {
	return w.cellSize
}

// Add registers the item with the given rectangle and inserts it into every
// cell the rectangle touches.
func (w *World) Add(item Item, x, y, width, height float64) error {
	if _, ok := w.items[item]; ok {
		return &ErrItemExists{Item: item}
	}
	rect := geom.Rect{X: x, Y: y, W: width, H: height}
	w.nextSeq++
	w.items[item] = &itemRecord{rect: rect, seq: w.nextSeq}

	cl, ct, cw, ch := grid.ToCellRect(w.cellSize, rect)
	for cy := ct; cy < ct+ch; cy++ {
		for cx := cl; cx < cl+cw; cx++ {
			w.addItemToCell(item, cx, cy)
		}
	}
	log.Trace("bump: added item %v at (%v, %v) with size (%v, %v)", item, x, y, width, height)
	return nil
}

// Remove takes the item out of the world and out of every cell it occupies.
func (w *World) Remove(item Item) error {
	rec, ok := w.items[item]
	if !ok {
		return &ErrItemNotFound{Item: item}
	}
	delete(w.items, item)

	cl, ct, cw, ch := grid.ToCellRect(w.cellSize, rec.rect)
	for cy := ct; cy < ct+ch; cy++ {
		for cx := cl; cx < cl+cw; cx++ {
			w.removeItemFromCell(item, cx, cy)
		}
	}
	log.Trace("bump: removed item %v", item)
	return nil
}

// Update moves the item to a new position, keeping its current size, and
// reindexes it. It performs no collision resolution; use Move for that.
func (w *World) Update(item Item, x, y float64) error {
	rec, ok := w.items[item]
	if !ok {
		return &ErrItemNotFound{Item: item}
	}
	w.updateRect(rec, item, geom.Rect{X: x, Y: y, W: rec.rect.W, H: rec.rect.H})
	return nil
}

// UpdateRect moves and resizes the item and reindexes it.
func (w *World) UpdateRect(item Item, x, y, width, height float64) error {
	rec, ok := w.items[item]
	if !ok {
		return &ErrItemNotFound{Item: item}
	}
	w.updateRect(rec, item, geom.Rect{X: x, Y: y, W: width, H: height})
	return nil
}

func (w *World) updateRect(rec *itemRecord, item Item, next geom.Rect) {
	prev := rec.rect
	if prev == next {
		return
	}

	cl1, ct1, cw1, ch1 := grid.ToCellRect(w.cellSize, prev)
	cl2, ct2, cw2, ch2 := grid.ToCellRect(w.cellSize, next)
	if cl1 != cl2 || ct1 != ct2 || cw1 != cw2 || ch1 != ch2 {
		// symmetric difference: only touch the cells the move actually
		// leaves or enters
		cr1, cb1 := cl1+cw1-1, ct1+ch1-1
		cr2, cb2 := cl2+cw2-1, ct2+ch2-1

		for cy := ct1; cy <= cb1; cy++ {
			rowOut := cy < ct2 || cy > cb2
			for cx := cl1; cx <= cr1; cx++ {
				if rowOut || cx < cl2 || cx > cr2 {
					w.removeItemFromCell(item, cx, cy)
				}
			}
		}
		for cy := ct2; cy <= cb2; cy++ {
			rowOut := cy < ct1 || cy > cb1
			for cx := cl2; cx <= cr2; cx++ {
				if rowOut || cx < cl1 || cx > cr1 {
					w.addItemToCell(item, cx, cy)
				}
			}
		}
	}

	rec.rect = next
}

// GetRect returns the item's current rectangle.
func (w *World) GetRect(item Item) (geom.Rect, error) {
	rec, ok := w.items[item]
	if !ok {
		return geom.Rect{}, &ErrItemNotFound{Item: item}
	}
	return rec.rect, nil
}

// HasItem returns true if the item is in the world.
func (w *World) HasItem(item Item) bool {
	_, ok := w.items[item]
	return ok
}

// Items returns every item in the world in insertion order.
func (w *World) Items() []Item {
	items := make([]Item, 0, len(w.items))
	for item := range w.items {
		items = append(items, item)
	}
	w.sortBySeq(items)
	return items
}

// CountItems returns the number of items in the world.
func (w *World) CountItems() int {
	return len(w.items)
}

// CountCells returns the number of cells occupied by at least one item.
func (w *World) CountCells() int {
	return len(w.nonEmpty)
}

// ToCell returns the cell containing the world point.
func (w *World) ToCell(x, y float64) (int, int) {
	return grid.ToCell(w.cellSize, x, y)
}

// ToWorld returns the world coordinates of the top-left corner of the cell.
func (w *World) ToWorld(cx, cy int) (float64, float64) {
	return grid.ToWorld(w.cellSize, cx, cy)
}

// sortBySeq orders items by insertion sequence. Map iteration order is
// randomized, so every result set is sorted before it is returned.
func (w *World) sortBySeq(items []Item) {
	sort.Slice(items, func(i, j int) bool {
		return w.items[items[i]].seq < w.items[items[j]].seq
	})
}
