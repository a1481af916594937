// Package path provides the sampling kernels used to tessellate contours.
package path

import "math"

// Point represents a 2D point (internal copy to avoid import cycle).
type Point struct {
	X, Y float64
}

// twoPi is a full turn.
const twoPi = 2 * math.Pi

// sweepEpsilon is the span below which an arc is considered empty.
const sweepEpsilon = 1e-12

// Quad evaluates the quadratic Bezier p0, p1, p2 at t using the Bernstein basis.
func Quad(p0, p1, p2 Point, t float64) Point {
	k := 1 - t
	b0, b1, b2 := k*k, 2*k*t, t*t
	return Point{
		X: b0*p0.X + b1*p1.X + b2*p2.X,
		Y: b0*p0.Y + b1*p1.Y + b2*p2.Y,
	}
}

// Cubic evaluates the cubic Bezier p0..p3 at t using the Bernstein basis.
func Cubic(p0, p1, p2, p3 Point, t float64) Point {
	k := 1 - t
	b0 := k * k * k
	b1 := 3 * k * k * t
	b2 := 3 * k * t * t
	b3 := t * t * t
	return Point{
		X: b0*p0.X + b1*p1.X + b2*p2.X + b3*p3.X,
		Y: b0*p0.Y + b1*p1.Y + b2*p2.Y + b3*p3.Y,
	}
}

// SampleQuad returns the curve sampled at t = i/divisions for i in 1..divisions.
// The start point is not included.
func SampleQuad(p0, p1, p2 Point, divisions int) []Point {
	divisions = max(divisions, 1)
	pts := make([]Point, 0, divisions)
	for i := 1; i <= divisions; i++ {
		pts = append(pts, Quad(p0, p1, p2, float64(i)/float64(divisions)))
	}
	pts[len(pts)-1] = p2
	return pts
}

// SampleCubic returns the curve sampled at t = i/divisions for i in 1..divisions.
// The start point is not included.
func SampleCubic(p0, p1, p2, p3 Point, divisions int) []Point {
	divisions = max(divisions, 1)
	pts := make([]Point, 0, divisions)
	for i := 1; i <= divisions; i++ {
		pts = append(pts, Cubic(p0, p1, p2, p3, float64(i)/float64(divisions)))
	}
	pts[len(pts)-1] = p3
	return pts
}

// Sweep returns the signed angular span travelled from start to end.
// The span is normalized into one turn; positive spans run in the direction
// of increasing angle, negative ones when ccw is set. Equal angles yield 0,
// angles a whole number of turns apart yield a full turn.
func Sweep(start, end float64, ccw bool) float64 {
	delta := end - start
	same := math.Abs(delta) < sweepEpsilon

	delta = math.Mod(delta, twoPi)
	if delta < 0 {
		delta += twoPi
	}
	if delta < sweepEpsilon {
		if same {
			delta = 0
		} else {
			delta = twoPi
		}
	}

	if ccw && !same {
		if delta == twoPi {
			delta = -twoPi
		} else {
			delta -= twoPi
		}
	}
	return delta
}

// EllipseAt returns the point at parametric angle on the ellipse whose
// x radius is rotated by rotation radians.
func EllipseAt(center Point, rx, ry, rotation, angle float64) Point {
	sin, cos := math.Sincos(angle)
	x, y := rx*cos, ry*sin
	if rotation != 0 {
		rs, rc := math.Sincos(rotation)
		x, y = x*rc-y*rs, x*rs+y*rc
	}
	return Point{X: center.X + x, Y: center.Y + y}
}

// SampleEllipse samples the ellipse from start over sweep radians at
// divisions equal steps. The start point is not included.
func SampleEllipse(center Point, rx, ry, rotation, start, sweep float64, divisions int) []Point {
	divisions = max(divisions, 1)
	pts := make([]Point, 0, divisions)
	for i := 1; i <= divisions; i++ {
		pts = append(pts, EllipseAt(center, rx, ry, rotation, start+sweep*float64(i)/float64(divisions)))
	}
	return pts
}

// Distance returns the distance between two points.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// PolylineLength returns the summed segment length of pts.
func PolylineLength(pts []Point) float64 {
	var l float64
	for i := 1; i < len(pts); i++ {
		l += pts[i-1].Distance(pts[i])
	}
	return l
}
