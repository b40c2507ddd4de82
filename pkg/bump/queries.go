package bump

import (
	"math"
	"sort"

	"github.com/cbodonnell/bump/pkg/geom"
	"github.com/cbodonnell/bump/pkg/grid"
)

// ItemFilter screens query results. A nil filter accepts every item.
type ItemFilter func(item Item) bool

// SegmentInfo describes one item hit by QuerySegmentWithCoords: the clipped
// parametric range along the segment and the world coordinates where the
// segment enters and leaves the item's rectangle.
type SegmentInfo struct {
	Item Item
	TI1  float64
	TI2  float64
	X1   float64
	Y1   float64
	X2   float64
	Y2   float64
}

// QueryRect returns the items whose rectangles intersect the given rectangle,
// in insertion order.
func (w *World) QueryRect(x, y, width, height float64, filter ItemFilter) []Item {
	rect := geom.Rect{X: x, Y: y, W: width, H: height}
	cl, ct, cw, ch := grid.ToCellRect(w.cellSize, rect)

	var items []Item
	for item := range w.itemsInCellRect(cl, ct, cw, ch) {
		if (filter == nil || filter(item)) && w.items[item].rect.Intersects(rect) {
			items = append(items, item)
		}
	}
	w.sortBySeq(items)
	return items
}

// QueryPoint returns the items whose rectangles strictly contain the point,
// in insertion order. Points on an item's border do not count as contained.
func (w *World) QueryPoint(x, y float64, filter ItemFilter) []Item {
	cx, cy := w.ToCell(x, y)

	var items []Item
	for item := range w.itemsInCellRect(cx, cy, 1, 1) {
		if (filter == nil || filter(item)) && w.items[item].rect.ContainsPoint(x, y) {
			items = append(items, item)
		}
	}
	w.sortBySeq(items)
	return items
}

// QuerySegment returns the items touched by the segment, ordered from the
// start of the segment to its end.
func (w *World) QuerySegment(x1, y1, x2, y2 float64, filter ItemFilter) []Item {
	hits := w.segmentHits(x1, y1, x2, y2, filter)
	items := make([]Item, len(hits))
	for i, hit := range hits {
		items[i] = hit.item
	}
	return items
}

// QuerySegmentWithCoords returns the items touched by the segment along with
// the points where the segment enters and leaves each of them, ordered from
// the start of the segment to its end.
func (w *World) QuerySegmentWithCoords(x1, y1, x2, y2 float64, filter ItemFilter) []SegmentInfo {
	hits := w.segmentHits(x1, y1, x2, y2, filter)
	dx, dy := x2-x1, y2-y1
	infos := make([]SegmentInfo, len(hits))
	for i, hit := range hits {
		infos[i] = SegmentInfo{
			Item: hit.item,
			TI1:  hit.ti1,
			TI2:  hit.ti2,
			X1:   x1 + dx*hit.ti1,
			Y1:   y1 + dy*hit.ti1,
			X2:   x1 + dx*hit.ti2,
			Y2:   y1 + dy*hit.ti2,
		}
	}
	return infos
}

type segmentHit struct {
	item   Item
	ti1    float64
	ti2    float64
	weight float64
}

func (w *World) segmentHits(x1, y1, x2, y2 float64, filter ItemFilter) []segmentHit {
	var hits []segmentHit
	visited := make(map[Item]struct{})

	for _, c := range w.cellsTouchedBySegment(x1, y1, x2, y2) {
		for item := range c.items {
			if _, ok := visited[item]; ok {
				continue
			}
			visited[item] = struct{}{}
			if filter != nil && !filter(item) {
				continue
			}
			rect := w.items[item].rect
			clip, ok := rect.ClipSegment(x1, y1, x2, y2, 0, 1)
			if !ok {
				continue
			}
			if !(0 < clip.TI1 && clip.TI1 < 1 || 0 < clip.TI2 && clip.TI2 < 1) {
				continue
			}
			// sort by the entry of the infinite line through the segment, so
			// items surrounding the start still order naturally
			unbounded, _ := rect.ClipSegment(x1, y1, x2, y2, math.Inf(-1), math.Inf(1))
			hits = append(hits, segmentHit{
				item:   item,
				ti1:    clip.TI1,
				ti2:    clip.TI2,
				weight: math.Min(unbounded.TI1, unbounded.TI2),
			})
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].weight != hits[j].weight {
			return hits[i].weight < hits[j].weight
		}
		return w.items[hits[i].item].seq < w.items[hits[j].item].seq
	})
	return hits
}
