package gcanvas

import (
	"math"

	"github.com/gogpu/gcanvas/internal/polygon"
)

// FillRule selects how overlapping contours are filled.
type FillRule int

const (
	// NonZero fills points with a nonzero winding number.
	NonZero FillRule = iota
	// EvenOdd fills points with an odd winding number.
	EvenOdd
)

func (r FillRule) engine() polygon.FillRule {
	if r == EvenOdd {
		return polygon.EvenOdd
	}
	return polygon.NonZero
}

// String returns the SVG name of the rule.
func (r FillRule) String() string {
	return r.engine().String()
}

// Op is a boolean operation used by Clip.
type Op int

const (
	// OpIntersection keeps area covered by both paths.
	OpIntersection Op = iota
	// OpUnion keeps area covered by either path.
	OpUnion
	// OpDifference keeps area of the receiver not covered by the other path.
	OpDifference
	// OpXor keeps area covered by exactly one path.
	OpXor
)

func (op Op) engine() polygon.Op {
	switch op {
	case OpUnion:
		return polygon.Union
	case OpDifference:
		return polygon.Difference
	case OpXor:
		return polygon.Xor
	default:
		return polygon.Intersection
	}
}

// Geometry carries the resolution used when paths cross into the polygon
// engine: curves are sampled at Divisions steps and coordinates are scaled
// by Scale into integers.
type Geometry struct {
	Scale     float64
	Divisions int
}

// DefaultGeometry returns a scale of 1000 and 40 divisions.
func DefaultGeometry() Geometry {
	return Geometry{Scale: 1000, Divisions: 40}
}

// OffsetBounds brackets the largest inward offset a path survives.
type OffsetBounds struct {
	// Lower is the largest probed offset that still produced a path.
	Lower float64
	// Upper is the smallest probed offset that failed.
	Upper float64
}

func (g Geometry) polygons(p *Path) polygon.Polygons {
	ps := make(polygon.Polygons, 0, p.Len())
	for _, c := range p.contours {
		pts := c.Points(g.Divisions)
		if c.Closed() {
			pts = pts[:len(pts)-1]
		}
		if len(pts) < 3 {
			continue
		}
		ring := make(polygon.Polygon, len(pts))
		for i, pt := range pts {
			ring[i] = polygon.Point{
				X: int64(math.Round(pt.X * g.Scale)),
				Y: int64(math.Round(pt.Y * g.Scale)),
			}
		}
		ps = append(ps, ring)
	}
	return ps
}

func (g Geometry) path(ps polygon.Polygons) *Path {
	out := NewPath()
	for _, ring := range ps {
		c := NewContour(Pt(float64(ring[0].X)/g.Scale, float64(ring[0].Y)/g.Scale))
		for _, q := range ring[1:] {
			c.add(LineTo{Point: Pt(float64(q.X)/g.Scale, float64(q.Y)/g.Scale)})
		}
		c.Close()
		out.Add(c)
	}
	return out
}

// Simplify resolves self-intersections and overlaps under rule. The result
// has outer contours counter-clockwise and holes clockwise.
func (p *Path) Simplify(rule FillRule, g Geometry) *Path {
	return g.path(polygon.Simplify(g.polygons(p), rule.engine()))
}

// Clip combines p with other under op and returns the result as a new path.
func (p *Path) Clip(other *Path, op Op, g Geometry) *Path {
	return g.path(polygon.Boolean(g.polygons(p), g.polygons(other), op.engine(), polygon.NonZero))
}

// Offset grows the path outward by delta, or shrinks it for negative
// delta. It reports false when the offset collapses the path.
//
// A path made of a single arc is offset exactly by changing its radii.
func (p *Path) Offset(delta float64, g Geometry) (*Path, bool) {
	if delta == 0 {
		return p.Clone(), true
	}

	if len(p.contours) == 1 {
		if e, ok := p.contours[0].singleEllipse(); ok {
			e.RX += delta
			e.RY += delta
			if e.RX <= 0 || e.RY <= 0 {
				Logger().Debug("gcanvas: offset collapsed arc", "delta", delta)
				return nil, false
			}
			c := NewContour(e.StartPoint())
			c.add(e)
			out := NewPath()
			out.Add(c)
			return out, true
		}
	}

	ps, err := polygon.Offset(g.polygons(p), delta*g.Scale, polygon.DefaultMiterLimit)
	if err != nil {
		Logger().Debug("gcanvas: offset failed", "delta", delta, "error", err)
		return nil, false
	}
	return g.path(ps), true
}

// EstimateMaxOffset searches for the largest inward offset that does not
// collapse the path, bisecting five times between zero and half the
// smaller side of the bounding box.
func (p *Path) EstimateMaxOffset(g Geometry) OffsetBounds {
	b := p.Bounds(g.Divisions)
	lo, hi := 0.0, math.Min(b.Width(), b.Height())/2
	for range 5 {
		mid := (lo + hi) / 2
		if _, ok := p.Offset(-mid, g); ok {
			lo = mid
		} else {
			hi = mid
		}
	}
	return OffsetBounds{Lower: lo, Upper: hi}
}

// FillPath returns concentric passes covering the inside of p with a round
// tool of the given diameter. Passes are spaced diameter*sin(45°) apart,
// run from the innermost outwards in reversed direction, and end with a
// finishing pass at exactly half the diameter. Inner passes stop at the
// first offset that fails.
func (p *Path) FillPath(diameter float64, g Geometry) *Path {
	out := NewPath()
	if diameter <= 0 {
		return out
	}
	step := diameter * math.Sin(math.Pi/4)
	radius := diameter / 2

	est := p.EstimateMaxOffset(g)
	for m := est.Lower - radius; m > radius; m -= step {
		pass, ok := p.Offset(-m, g)
		if !ok {
			break
		}
		out.Add(pass.Reverse(g.Divisions).contours...)
	}
	if pass, ok := p.Offset(-radius, g); ok {
		out.Add(pass.contours...)
	}
	return out
}
