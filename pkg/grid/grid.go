package grid

// This package includes the uniform grid primitives used by the collision
// engine: cell/world coordinate mapping and segment traversal. Cell
// coordinates are 1-based, so cell (1,1) spans [0, cellSize) on both axes.

import (
	"math"

	"github.com/cbodonnell/bump/pkg/geom"
)

// ToCell returns the cell containing the world point.
func ToCell(cellSize, x, y float64) (int, int) {
	return int(math.Floor(x/cellSize)) + 1, int(math.Floor(y/cellSize)) + 1
}

// ToWorld returns the world coordinates of the top-left corner of the cell.
func ToWorld(cellSize float64, cx, cy int) (float64, float64) {
	return float64(cx-1) * cellSize, float64(cy-1) * cellSize
}

// ToCellRect returns the inclusive span of cells covered by the rectangle as
// (left, top, columns, rows).
func ToCellRect(cellSize float64, r geom.Rect) (cl, ct, cw, ch int) {
	cl, ct = ToCell(cellSize, r.X, r.Y)
	cr := int(math.Ceil((r.X + r.W) / cellSize))
	cb := int(math.Ceil((r.Y + r.H) / cellSize))
	return cl, ct, cr - cl + 1, cb - ct + 1
}

// Traverse walks the segment (x1,y1)->(x2,y2) and calls f for each cell it
// crosses, in order. When the segment passes exactly through a cell corner
// the diagonal neighbor cells are reported too, so segment queries do not
// miss items touching only at that corner. The walk finishes when it is next
// to the end cell and then reports the end cell itself; stepping all the way
// can loop forever on floating point drift near the endpoint.
func Traverse(cellSize, x1, y1, x2, y2 float64, f func(cx, cy int)) {
	cx1, cy1 := ToCell(cellSize, x1, y1)
	cx2, cy2 := ToCell(cellSize, x2, y2)
	stepX, dx, tx := initStep(cellSize, cx1, x1, x2)
	stepY, dy, ty := initStep(cellSize, cy1, y1, y2)
	cx, cy := cx1, cy1

	f(cx, cy)

	for abs(cx-cx2)+abs(cy-cy2) > 1 {
		if tx < ty {
			tx, cx = tx+dx, cx+stepX
			f(cx, cy)
		} else {
			if tx == ty {
				f(cx+stepX, cy)
			}
			ty, cy = ty+dy, cy+stepY
			f(cx, cy)
		}
	}

	if cx != cx2 || cy != cy2 {
		f(cx2, cy2)
	}
}

// initStep returns the cell step direction along one axis plus the parametric
// distance between cell boundaries and the distance to the first boundary.
func initStep(cellSize float64, ct int, t1, t2 float64) (int, float64, float64) {
	v := t2 - t1
	switch {
	case v > 0:
		return 1, cellSize / v, (float64(ct)*cellSize - t1) / v
	case v < 0:
		return -1, -cellSize / v, (float64(ct-1)*cellSize - t1) / v
	default:
		return 0, math.Inf(1), math.Inf(1)
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
