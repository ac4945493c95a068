package geometry

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

const zoomTolerance = 1e-6

func approxEqual(a, b Point2D) bool {
	return math.Abs(a.X-b.X) < zoomTolerance && math.Abs(a.Y-b.Y) < zoomTolerance
}

// Zoom is defined as x' = (x - cx)*f + cx, so two zooms about the same
// center compose multiplicatively and the reciprocal factor undoes a zoom.
func TestZoomProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	coord := gen.Float64Range(-1000, 1000)
	factor := gen.Float64Range(0.1, 10)

	properties.Property("zoom composition", prop.ForAll(
		func(x, y, cx, cy, f1, f2 float64) bool {
			p := Point2D{X: x, Y: y}
			c := Point2D{X: cx, Y: cy}
			composed := p.ZoomAbout(c, f1).ZoomAbout(c, f2)
			direct := p.ZoomAbout(c, f1*f2)
			return approxEqual(composed, direct)
		},
		coord, coord, coord, coord, factor, factor,
	))

	properties.Property("zoom inverse", prop.ForAll(
		func(x, y, cx, cy, f float64) bool {
			p := Point2D{X: x, Y: y}
			c := Point2D{X: cx, Y: cy}
			back := p.ZoomAbout(c, f).ZoomAbout(c, 1/f)
			return approxEqual(back, p)
		},
		coord, coord, coord, coord, factor,
	))

	properties.Property("center is a fixed point", prop.ForAll(
		func(cx, cy, f float64) bool {
			c := Point2D{X: cx, Y: cy}
			return approxEqual(c.ZoomAbout(c, f), c)
		},
		coord, coord, factor,
	))

	properties.TestingRun(t)
}

func TestZoomAboutIdentity(t *testing.T) {
	p := Point2D{X: 3, Y: -7}
	c := Point2D{X: 100, Y: 200}
	if got := p.ZoomAbout(c, 1); got != p {
		t.Fatalf("zoom factor 1 moved the point: %v", got)
	}
}
