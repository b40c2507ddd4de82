package geom

import (
	"math"
)

// SegmentClip is the result of clipping a segment against a rectangle with a
// generalized Liang-Barsky pass. TI1 and TI2 are the parametric entry and
// exit points along the segment; the normals are the sides crossed at each.
// The normals are only meaningful when the initial clip range was unbounded.
type SegmentClip struct {
	TI1     float64
	TI2     float64
	Normal1 Vector
	Normal2 Vector
}

// ClipSegment clips the segment (x1,y1)->(x2,y2) against the rectangle,
// tightening the parametric range [ti1, ti2]. It reports false when the
// segment misses the rectangle entirely.
func (r Rect) ClipSegment(x1, y1, x2, y2, ti1, ti2 float64) (SegmentClip, bool) {
	dx, dy := x2-x1, y2-y1
	clip := SegmentClip{TI1: ti1, TI2: ti2}

	sides := [4]struct {
		nx, ny float64
		p, q   float64
	}{
		{-1, 0, -dx, x1 - r.X},     // left
		{1, 0, dx, r.X + r.W - x1}, // right
		{0, -1, -dy, y1 - r.Y},     // top
		{0, 1, dy, r.Y + r.H - y1}, // bottom
	}

	for _, s := range sides {
		if s.p == 0 {
			// segment parallel to this slab
			if s.q <= 0 {
				return SegmentClip{}, false
			}
			continue
		}
		t := s.q / s.p
		if s.p < 0 {
			if t > clip.TI2 {
				return SegmentClip{}, false
			}
			if t > clip.TI1 {
				clip.TI1 = t
				clip.Normal1 = Vector{X: s.nx, Y: s.ny}
			}
		} else {
			if t < clip.TI1 {
				return SegmentClip{}, false
			}
			if t < clip.TI2 {
				clip.TI2 = t
				clip.Normal2 = Vector{X: s.nx, Y: s.ny}
			}
		}
	}

	return clip, true
}

// Collision describes the contact between a rectangle moving toward a goal
// and a static rectangle.
type Collision struct {
	// Overlaps is true when the rectangles were already intersecting before
	// the movement.
	Overlaps bool
	// TI is the time of impact in [0, 1) for tunneling collisions. For
	// overlapping rectangles it is the negative area of the intersection, so
	// that sorting by TI resolves deeper overlaps first.
	TI float64
	// Move is the requested displacement.
	Move Vector
	// Normal is the unit vector of the side being touched, one of (±1,0) or
	// (0,±1).
	Normal Vector
	// Touch is the position the moving rectangle occupies at first contact.
	Touch Vector
	// ItemRect and OtherRect are snapshots of both rectangles at detection.
	ItemRect  Rect
	OtherRect Rect
}

// DetectCollision resolves the continuous collision of itemRect moving toward
// (goalX, goalY) against otherRect. It reports false when the movement does
// not produce contact, including grazes through a corner.
func DetectCollision(itemRect, otherRect Rect, goalX, goalY float64) (Collision, bool) {
	dx, dy := goalX-itemRect.X, goalY-itemRect.Y
	diff := itemRect.Diff(otherRect)

	var (
		overlaps bool
		ti       float64
		nx, ny   float64
		found    bool
	)

	if diff.ContainsPoint(0, 0) {
		// already intersecting: encode the overlap area as a negative time
		// of impact so deeper overlaps sort first
		px, py := diff.NearestCorner(0, 0)
		wi := math.Min(itemRect.W, math.Abs(px))
		hi := math.Min(itemRect.H, math.Abs(py))
		ti = -wi * hi
		overlaps = true
		found = true
	} else {
		clip, ok := diff.ClipSegment(0, 0, dx, dy, math.Inf(-1), math.Inf(1))
		if ok && clip.TI1 < 1 &&
			math.Abs(clip.TI1-clip.TI2) >= Epsilon &&
			(0 < clip.TI1+Epsilon || clip.TI1 == 0 && clip.TI2 > 0) {
			// item tunnels into other
			ti = clip.TI1
			nx, ny = clip.Normal1.X, clip.Normal1.Y
			found = true
		}
	}

	if !found {
		return Collision{}, false
	}

	var tx, ty float64
	switch {
	case overlaps && dx == 0 && dy == 0:
		// intersecting and not moving: push out along the minimum
		// displacement axis
		px, py := diff.NearestCorner(0, 0)
		if math.Abs(px) < math.Abs(py) {
			py = 0
		} else {
			px = 0
		}
		nx, ny = sign(px), sign(py)
		tx, ty = itemRect.X+px, itemRect.Y+py
	case overlaps:
		// intersecting and moving: exit against the movement. TI keeps the
		// overlap area; only the touch point and normal come from this clip.
		clip, ok := diff.ClipSegment(0, 0, dx, dy, math.Inf(-1), 1)
		if !ok {
			return Collision{}, false
		}
		nx, ny = clip.Normal1.X, clip.Normal1.Y
		tx, ty = itemRect.X+dx*clip.TI1, itemRect.Y+dy*clip.TI1
	default:
		tx, ty = itemRect.X+dx*ti, itemRect.Y+dy*ti
	}

	return Collision{
		Overlaps:  overlaps,
		TI:        ti,
		Move:      Vector{X: dx, Y: dy},
		Normal:    Vector{X: nx, Y: ny},
		Touch:     Vector{X: tx, Y: ty},
		ItemRect:  itemRect,
		OtherRect: otherRect,
	}, true
}
