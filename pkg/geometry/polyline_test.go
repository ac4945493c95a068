package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPolylineLength(t *testing.T) {
	pl := Polyline{{X: 0, Y: 0}, {X: 3, Y: 0}, {X: 3, Y: 4}}
	require.InDelta(t, 7.0, pl.Length(), 1e-9)

	require.Equal(t, 0.0, Polyline{}.Length())
	require.Equal(t, 0.0, Polyline{{X: 5, Y: 5}}.Length())
}

func TestPolylinePointAt(t *testing.T) {
	pl := Polyline{{X: 0, Y: 0}, {X: 10, Y: 0}}

	require.Equal(t, Point2D{X: 0, Y: 0}, pl.PointAt(0))
	require.Equal(t, Point2D{X: 10, Y: 0}, pl.PointAt(1))
	require.Equal(t, Point2D{X: 5, Y: 0}, pl.PointAt(0.5))

	// Clamped outside [0,1].
	require.Equal(t, Point2D{X: 0, Y: 0}, pl.PointAt(-0.5))
	require.Equal(t, Point2D{X: 10, Y: 0}, pl.PointAt(1.5))

	// Multi-segment: half the arc length of an L lands at the corner.
	l := Polyline{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}}
	p := l.PointAt(0.5)
	require.InDelta(t, 4.0, p.X, 1e-9)
	require.InDelta(t, 0.0, p.Y, 1e-9)
}

func TestPolylinePointAtDegenerate(t *testing.T) {
	require.Equal(t, Point2D{}, Polyline{}.PointAt(0.5))
	require.Equal(t, Point2D{X: 2, Y: 3}, Polyline{{X: 2, Y: 3}}.PointAt(0.5))

	// All vertices coincident: zero total length.
	same := Polyline{{X: 1, Y: 1}, {X: 1, Y: 1}}
	require.Equal(t, Point2D{X: 1, Y: 1}, same.PointAt(0.5))
}

func TestPolylineProject(t *testing.T) {
	pl := Polyline{{X: 0, Y: 0}, {X: 10, Y: 0}}

	require.InDelta(t, 0.5, pl.Project(Point2D{X: 5, Y: 3}), 1e-9)
	require.InDelta(t, 0.0, pl.Project(Point2D{X: -5, Y: 0}), 1e-9)
	require.InDelta(t, 1.0, pl.Project(Point2D{X: 15, Y: 0}), 1e-9)

	// A point near the second segment of an L projects past the corner.
	l := Polyline{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}}
	tpos := l.Project(Point2D{X: 5, Y: 2})
	require.Greater(t, tpos, 0.5)
	require.LessOrEqual(t, tpos, 1.0)
}

func TestPolylineProjectRoundTrip(t *testing.T) {
	pl := Polyline{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 20, Y: 10}}
	for _, tpos := range []float64{0, 0.1, 0.25, 0.5, 0.75, 0.9, 1} {
		p := pl.PointAt(tpos)
		require.InDelta(t, tpos, pl.Project(p), 1e-9, "t=%v", tpos)
	}
}

func TestPolylineDistanceTo(t *testing.T) {
	pl := Polyline{{X: 0, Y: 0}, {X: 10, Y: 0}}

	require.InDelta(t, 3.0, pl.DistanceTo(Point2D{X: 5, Y: 3}), 1e-9)
	require.InDelta(t, 5.0, pl.DistanceTo(Point2D{X: -3, Y: 4}), 1e-9)
	require.InDelta(t, 0.0, pl.DistanceTo(Point2D{X: 7, Y: 0}), 1e-9)

	require.Equal(t, 0.0, Polyline{}.DistanceTo(Point2D{X: 1, Y: 1}))
	require.InDelta(t, math.Sqrt2, Polyline{{X: 0, Y: 0}}.DistanceTo(Point2D{X: 1, Y: 1}), 1e-9)
}

func TestRectFromCorners(t *testing.T) {
	for _, tc := range []struct {
		x1, y1, x2, y2 float64
	}{
		{0, 0, 10, 20},
		{10, 20, 0, 0},
		{10, 0, 0, 20},
		{0, 20, 10, 0},
	} {
		r := RectFromCorners(tc.x1, tc.y1, tc.x2, tc.y2)
		require.Equal(t, Rect{X: 0, Y: 0, Width: 10, Height: 20}, r)
	}
}

func TestBoundingBox(t *testing.T) {
	require.Equal(t, Rect{}, BoundingBox(nil))

	r := BoundingBox([]Point2D{{X: 5, Y: -3}, {X: -2, Y: 7}, {X: 1, Y: 1}})
	require.Equal(t, Rect{X: -2, Y: -3, Width: 7, Height: 10}, r)
}
