// Package polygon runs boolean operations and offsetting over fixed-point
// integer polygons on top of the tdewolff/canvas path engine.
//
// Polygons are implicitly closed. Results are oriented so that the filled
// region lies to the left of every edge: outer boundaries run
// counter-clockwise and holes clockwise (in a y-up frame).
package polygon

import (
	"errors"
	"math"

	"github.com/tdewolff/canvas"
)

// ErrEmpty is returned by Offset when the operation leaves no area.
var ErrEmpty = errors.New("polygon: offset produced no area")

// Point is a fixed-point coordinate.
type Point struct {
	X, Y int64
}

// Polygon is an implicitly closed ring of points.
type Polygon []Point

// Polygons is a set of rings forming one region.
type Polygons []Polygon

// FillRule decides from a winding number whether a point is inside.
type FillRule int

const (
	// NonZero fills points with a nonzero winding number.
	NonZero FillRule = iota
	// EvenOdd fills points with an odd winding number.
	EvenOdd
)

// String returns the SVG name of the rule.
func (r FillRule) String() string {
	if r == EvenOdd {
		return "evenodd"
	}
	return "nonzero"
}

// Op is a boolean operation between a subject and a clip region.
type Op int

const (
	// Intersection keeps area covered by both regions.
	Intersection Op = iota
	// Union keeps area covered by either region.
	Union
	// Difference keeps subject area not covered by the clip.
	Difference
	// Xor keeps area covered by exactly one region.
	Xor
)

func (op Op) apply(p, q *canvas.Path) *canvas.Path {
	switch op {
	case Union:
		return p.Or(q)
	case Difference:
		return p.Not(q)
	case Xor:
		return p.Xor(q)
	default:
		return p.And(q)
	}
}

// Area returns the signed area; positive for counter-clockwise rings.
func (p Polygon) Area() float64 {
	var a float64
	n := len(p)
	for i := range p {
		j := (i + 1) % n
		a += float64(p[i].X)*float64(p[j].Y) - float64(p[j].X)*float64(p[i].Y)
	}
	return a / 2
}

// Reverse returns the ring traversed in the opposite direction.
func (p Polygon) Reverse() Polygon {
	r := make(Polygon, len(p))
	for i, pt := range p {
		r[len(p)-1-i] = pt
	}
	return r
}

// Area returns the summed signed area of all rings.
func (ps Polygons) Area() float64 {
	var a float64
	for _, p := range ps {
		a += p.Area()
	}
	return a
}

// bounds returns the corners of the box around all rings.
func (ps Polygons) bounds() (lo, hi Point, ok bool) {
	for _, p := range ps {
		for _, pt := range p {
			if !ok {
				lo, hi, ok = pt, pt, true
				continue
			}
			lo.X, lo.Y = min(lo.X, pt.X), min(lo.Y, pt.Y)
			hi.X, hi.Y = max(hi.X, pt.X), max(hi.Y, pt.Y)
		}
	}
	return lo, hi, ok
}

// toPath converts the rings into closed subpaths. Rings with fewer than
// three points enclose nothing and are skipped.
func toPath(ps Polygons) *canvas.Path {
	p := &canvas.Path{}
	for _, r := range ps {
		if len(r) < 3 {
			continue
		}
		p.MoveTo(float64(r[0].X), float64(r[0].Y))
		for _, pt := range r[1:] {
			p.LineTo(float64(pt.X), float64(pt.Y))
		}
		p.Close()
	}
	return p
}

// fromPath flattens p and rounds every subpath back onto the integer grid.
// The closing point is dropped and rings that round to nothing are skipped.
func fromPath(p *canvas.Path) Polygons {
	if p.Empty() {
		return nil
	}
	var ps Polygons
	for _, sub := range p.Flatten(canvas.Tolerance).Split() {
		var r Polygon
		for _, c := range sub.Coords() {
			pt := Point{X: int64(math.Round(c.X)), Y: int64(math.Round(c.Y))}
			if len(r) > 0 && r[len(r)-1] == pt {
				continue
			}
			r = append(r, pt)
		}
		if len(r) > 1 && r[0] == r[len(r)-1] {
			r = r[:len(r)-1]
		}
		if len(r) < 3 || r.Area() == 0 {
			continue
		}
		ps = append(ps, r)
	}
	return ps
}
