package geometry

import (
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Polyline is an ordered sequence of vertices connected by straight segments.
type Polyline []Point2D

// segmentLengths returns the length of each segment.
func (pl Polyline) segmentLengths() []float64 {
	if len(pl) < 2 {
		return nil
	}
	segs := make([]float64, len(pl)-1)
	for i := range segs {
		segs[i] = pl[i].Distance(pl[i+1])
	}
	return segs
}

// Length returns the total arc length of the polyline.
func (pl Polyline) Length() float64 {
	return floats.Sum(pl.segmentLengths())
}

// cumLengths returns the cumulative arc length at each vertex; cum[0] is 0
// and cum[len(pl)-1] is the total length.
func (pl Polyline) cumLengths() []float64 {
	cum := make([]float64, len(pl))
	segs := pl.segmentLengths()
	if len(segs) == 0 {
		return cum
	}
	floats.CumSum(cum[1:], segs)
	return cum
}

// PointAt returns the point at fractional arc length t along the polyline.
// t is clamped to [0,1]. A polyline with fewer than two vertices returns its
// first vertex (or the zero point when empty).
func (pl Polyline) PointAt(t float64) Point2D {
	if len(pl) == 0 {
		return Point2D{}
	}
	if len(pl) == 1 {
		return pl[0]
	}
	if t <= 0 {
		return pl[0]
	}
	if t >= 1 {
		return pl[len(pl)-1]
	}

	cum := pl.cumLengths()
	total := cum[len(cum)-1]
	if total == 0 {
		return pl[0]
	}
	target := t * total

	// Index of the first vertex at or past the target length.
	i := sort.SearchFloat64s(cum, target)
	if i == 0 {
		i = 1
	}
	segLen := cum[i] - cum[i-1]
	if segLen == 0 {
		return pl[i-1]
	}
	frac := (target - cum[i-1]) / segLen
	return Point2D{
		X: pl[i-1].X + (pl[i].X-pl[i-1].X)*frac,
		Y: pl[i-1].Y + (pl[i].Y-pl[i-1].Y)*frac,
	}
}

// Project returns the fractional arc length of the point on the polyline
// closest to p, in [0,1].
func (pl Polyline) Project(p Point2D) float64 {
	if len(pl) < 2 {
		return 0
	}
	cum := pl.cumLengths()
	total := cum[len(cum)-1]
	if total == 0 {
		return 0
	}

	best := 0.0
	bestDist := p.Distance(pl[0])
	for i := 0; i < len(pl)-1; i++ {
		a, b := pl[i], pl[i+1]
		seg := b.Sub(a)
		segLen2 := seg.X*seg.X + seg.Y*seg.Y
		u := 0.0
		if segLen2 > 0 {
			u = ((p.X-a.X)*seg.X + (p.Y-a.Y)*seg.Y) / segLen2
			if u < 0 {
				u = 0
			} else if u > 1 {
				u = 1
			}
		}
		closest := Point2D{X: a.X + seg.X*u, Y: a.Y + seg.Y*u}
		d := p.Distance(closest)
		if d < bestDist {
			bestDist = d
			best = (cum[i] + u*(cum[i+1]-cum[i])) / total
		}
	}
	return best
}

// DistanceTo returns the shortest distance from p to the polyline.
func (pl Polyline) DistanceTo(p Point2D) float64 {
	if len(pl) == 0 {
		return 0
	}
	if len(pl) == 1 {
		return p.Distance(pl[0])
	}
	best := p.Distance(pl[0])
	for i := 0; i < len(pl)-1; i++ {
		a, b := pl[i], pl[i+1]
		seg := b.Sub(a)
		segLen2 := seg.X*seg.X + seg.Y*seg.Y
		u := 0.0
		if segLen2 > 0 {
			u = ((p.X-a.X)*seg.X + (p.Y-a.Y)*seg.Y) / segLen2
			if u < 0 {
				u = 0
			} else if u > 1 {
				u = 1
			}
		}
		closest := Point2D{X: a.X + seg.X*u, Y: a.Y + seg.Y*u}
		if d := p.Distance(closest); d < best {
			best = d
		}
	}
	return best
}
