package bump

import (
	"fmt"
	"testing"

	"github.com/cbodonnell/bump/pkg/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoveSlideAlongWall(t *testing.T) {
	w := newTestWorld(t)
	require.NoError(t, w.Add("a", 0, 0, 8, 8))
	require.NoError(t, w.Add("b", 8, 0, 100, 8))

	x, y, cols, err := w.Move("a", 64, 4, nil)
	require.NoError(t, err)

	assert.Equal(t, 0.0, x)
	assert.Equal(t, 4.0, y)
	require.Len(t, cols, 1)

	col := cols[0]
	assert.Equal(t, "a", col.Item)
	assert.Equal(t, "b", col.Other)
	assert.Equal(t, ResponseSlide, col.Type)
	assert.Equal(t, 0.0, col.TI)
	assert.Equal(t, geom.Vector{X: -1, Y: 0}, col.Normal)
	require.NotNil(t, col.Slide)
	assert.Equal(t, geom.Vector{X: 0, Y: 4}, *col.Slide)

	// the world committed the resolved position
	rect, err := w.GetRect("a")
	require.NoError(t, err)
	assert.Equal(t, geom.Rect{X: 0, Y: 4, W: 8, H: 8}, rect)
}

func TestMoveBounceOffCeiling(t *testing.T) {
	w := newTestWorld(t)
	require.NoError(t, w.Add("a", 0, 10, 8, 8))
	require.NoError(t, w.Add("ceiling", 0, 0, 64, 8))

	bounce := func(item, other Item) string { return ResponseBounce }

	x, y, cols, err := w.Move("a", 0, 2, bounce)
	require.NoError(t, err)

	// the item touches the ceiling at y=8 and the remaining -6 reflects
	assert.Equal(t, 0.0, x)
	assert.Equal(t, 14.0, y)
	require.Len(t, cols, 1)

	col := cols[0]
	assert.Equal(t, "ceiling", col.Other)
	assert.Equal(t, geom.Vector{X: 0, Y: 1}, col.Normal)
	assert.Equal(t, geom.Vector{X: 0, Y: 8}, col.Touch)
	require.NotNil(t, col.Bounce)
	assert.Equal(t, geom.Vector{X: 0, Y: 14}, *col.Bounce)
}

func TestMoveCrossSensor(t *testing.T) {
	w := newTestWorld(t)
	require.NoError(t, w.Add("a", 0, 0, 8, 8))
	require.NoError(t, w.Add("sensor", 20, 0, 8, 8))
	require.NoError(t, w.Add("wall", 40, 0, 8, 64))

	filter := func(item, other Item) string {
		if other == "sensor" {
			return ResponseCross
		}
		return ResponseSlide
	}

	x, y, cols, err := w.Move("a", 100, 0, filter)
	require.NoError(t, err)

	assert.Equal(t, 32.0, x)
	assert.Equal(t, 0.0, y)
	require.Len(t, cols, 2)
	assert.Equal(t, "sensor", cols[0].Other)
	assert.Equal(t, ResponseCross, cols[0].Type)
	assert.Equal(t, "wall", cols[1].Other)
	assert.Equal(t, ResponseSlide, cols[1].Type)
}

func TestMoveTouchPreventsTunneling(t *testing.T) {
	w := newTestWorld(t)
	require.NoError(t, w.Add("a", 0, 0, 2, 2))
	require.NoError(t, w.Add("b", 500, 0, 2, 2))

	touch := func(item, other Item) string { return ResponseTouch }

	x, y, cols, err := w.Move("a", 1000, 0, touch)
	require.NoError(t, err)

	// a fast mover stops at the obstacle instead of passing through it
	assert.InDelta(t, 498, x, 1e-9)
	assert.Equal(t, 0.0, y)
	require.Len(t, cols, 1)
	assert.Equal(t, "b", cols[0].Other)
	assert.InDelta(t, 0.498, cols[0].TI, 1e-12)
}

func TestMoveWithoutObstacles(t *testing.T) {
	w := newTestWorld(t)
	require.NoError(t, w.Add("a", 0, 0, 8, 8))

	x, y, cols, err := w.Move("a", 300, -200, nil)
	require.NoError(t, err)
	assert.Equal(t, 300.0, x)
	assert.Equal(t, -200.0, y)
	assert.Empty(t, cols)
}

func TestMoveUnknownItem(t *testing.T) {
	w := newTestWorld(t)

	_, _, _, err := w.Move("ghost", 10, 10, nil)
	var notFound *ErrItemNotFound
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "ghost", notFound.Item)
}

func TestCheckUnknownResponse(t *testing.T) {
	w := newTestWorld(t)
	require.NoError(t, w.Add("a", 0, 0, 8, 8))
	require.NoError(t, w.Add("b", 20, 0, 8, 8))

	phase := func(item, other Item) string { return "phase" }

	_, _, _, err := w.Check("a", 100, 0, phase)
	var unknown *ErrUnknownResponse
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "phase", unknown.Name)
}

func TestCheckDoesNotMutate(t *testing.T) {
	w := newTestWorld(t)
	require.NoError(t, w.Add("a", 0, 0, 8, 8))
	require.NoError(t, w.Add("b", 20, 0, 8, 8))

	x, y, cols, err := w.Check("a", 100, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, 12.0, x)
	assert.Equal(t, 0.0, y)
	require.Len(t, cols, 1)

	rect, err := w.GetRect("a")
	require.NoError(t, err)
	assert.Equal(t, geom.Rect{X: 0, Y: 0, W: 8, H: 8}, rect)
}

func TestCheckTermination(t *testing.T) {
	w := newTestWorld(t)
	require.NoError(t, w.Add("a", 0, 0, 8, 8))

	const n = 20
	for i := 0; i < n; i++ {
		require.NoError(t, w.Add(fmt.Sprintf("sensor-%d", i), float64(10+i*12), 0, 8, 8))
	}

	cross := func(item, other Item) string { return ResponseCross }

	_, _, cols, err := w.Check("a", 1000, 0, cross)
	require.NoError(t, err)

	// each item resolves at most once, so the loop is bounded by the
	// number of items in the world
	assert.Len(t, cols, n)
	seen := make(map[Item]bool)
	for _, col := range cols {
		assert.False(t, seen[col.Other])
		seen[col.Other] = true
	}
}

func TestProjectHypothetical(t *testing.T) {
	w := newTestWorld(t)
	require.NoError(t, w.Add("b", 20, 0, 8, 8))

	// a nil item projects a rectangle that is not in the world
	cols := w.Project(nil, 0, 0, 8, 8, 100, 0, nil)
	require.Len(t, cols, 1)
	assert.Equal(t, "b", cols[0].Other)
	assert.Nil(t, cols[0].Item)
}

func TestProjectOrder(t *testing.T) {
	w := newTestWorld(t)
	require.NoError(t, w.Add("far", 60, 0, 8, 8))
	require.NoError(t, w.Add("near", 20, 0, 8, 8))

	cols := w.Project(nil, 0, 0, 8, 8, 100, 0, nil)
	require.Len(t, cols, 2)
	assert.Equal(t, "near", cols[0].Other)
	assert.Equal(t, "far", cols[1].Other)
	assert.Less(t, cols[0].TI, cols[1].TI)
}

func TestProjectOverlapsSortDeepestFirst(t *testing.T) {
	w := newTestWorld(t)
	require.NoError(t, w.Add("shallow", 7, 0, 8, 8))
	require.NoError(t, w.Add("deep", 4, 0, 8, 8))

	cols := w.Project(nil, 0, 0, 8, 8, 0, 1, nil)
	require.Len(t, cols, 2)
	assert.Equal(t, "deep", cols[0].Other)
	assert.Equal(t, "shallow", cols[1].Other)
	assert.Less(t, cols[0].TI, cols[1].TI)
	assert.Negative(t, cols[0].TI)
	assert.Negative(t, cols[1].TI)
}

func BenchmarkMove(b *testing.B) {
	w, err := NewWorld(DefaultCellSize)
	if err != nil {
		b.Fatal(err)
	}
	for i := 0; i < 40; i++ {
		if err := w.Add(fmt.Sprintf("block-%d", i), float64(i%8)*80, float64(i/8)*80, 32, 32); err != nil {
			b.Fatal(err)
		}
	}
	if err := w.Add("mover", 0, 0, 16, 16); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		goal := float64((i % 50) * 10)
		if _, _, _, err := w.Move("mover", goal, goal/2, nil); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkQueryRect(b *testing.B) {
	w, err := NewWorld(DefaultCellSize)
	if err != nil {
		b.Fatal(err)
	}
	for i := 0; i < 200; i++ {
		if err := w.Add(i, float64(i%20)*40, float64(i/20)*40, 30, 30); err != nil {
			b.Fatal(err)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w.QueryRect(float64(i%10)*50, 0, 200, 200, nil)
	}
}
