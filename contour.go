package gcanvas

import (
	ipath "github.com/gogpu/gcanvas/internal/path"
)

// Contour is one continuous outline: a MoveTo followed by drawing actions.
// Actions are append-only; tessellations are cached per resolution and
// dropped whenever an action is appended.
type Contour struct {
	actions []Action
	first   Point
	last    Point
	cache   map[int][]Point
}

// NewContour creates a contour starting at p.
func NewContour(p Point) *Contour {
	c := &Contour{}
	c.add(MoveTo{Point: p})
	return c
}

func (c *Contour) add(a Action) {
	if len(c.actions) == 0 {
		c.first = a.EndPoint()
		if e, ok := a.(Ellipse); ok {
			c.first = e.StartPoint()
		}
	}
	c.actions = append(c.actions, a)
	c.last = a.EndPoint()
	c.cache = nil
}

// Actions returns the recorded actions. The slice must not be modified.
func (c *Contour) Actions() []Action {
	return c.actions
}

// Len returns the number of actions, including the leading MoveTo.
func (c *Contour) Len() int {
	return len(c.actions)
}

// FirstPoint returns the starting point.
func (c *Contour) FirstPoint() Point {
	return c.first
}

// LastPoint returns the point reached by the final action.
func (c *Contour) LastPoint() Point {
	return c.last
}

// Closed reports whether the contour draws something and ends where it
// started.
func (c *Contour) Closed() bool {
	return len(c.actions) > 1 && c.first.Equals(c.last)
}

// Clone returns an independent copy.
func (c *Contour) Clone() *Contour {
	return &Contour{
		actions: append([]Action(nil), c.actions...),
		first:   c.first,
		last:    c.last,
	}
}

// Close appends a line back to the first point unless the contour is
// already closed.
func (c *Contour) Close() {
	if len(c.actions) == 0 || c.Closed() {
		return
	}
	c.add(LineTo{Point: c.first})
}

// singleEllipse returns the arc of a contour made of a MoveTo and one Ellipse.
func (c *Contour) singleEllipse() (Ellipse, bool) {
	if len(c.actions) != 2 {
		return Ellipse{}, false
	}
	e, ok := c.actions[1].(Ellipse)
	return e, ok
}

// Points tessellates the contour into a polyline. Curves are sampled at
// divisions equal parameter steps. For closed contours the last point is
// exactly the first.
func (c *Contour) Points(divisions int) []Point {
	divisions = max(divisions, 1)
	if pts, ok := c.cache[divisions]; ok {
		return pts
	}

	pts := make([]Point, 0, len(c.actions))
	var cur Point
	for _, a := range c.actions {
		switch a := a.(type) {
		case MoveTo:
			pts = append(pts, a.Point)
		case LineTo:
			pts = append(pts, a.Point)
		case QuadTo:
			pts = appendSamples(pts, cur, a.Point, ipath.SampleQuad(ip(cur), ip(a.Control), ip(a.Point), divisions))
		case CubicTo:
			pts = appendSamples(pts, cur, a.Point,
				ipath.SampleCubic(ip(cur), ip(a.Control1), ip(a.Control2), ip(a.Point), divisions))
		case Ellipse:
			samples := ipath.SampleEllipse(ip(a.Center), a.RX, a.RY, a.Rotation, a.Start, a.Sweep(), divisions)
			pts = appendSamples(pts, cur, a.EndPoint(), samples)
		}
		cur = a.EndPoint()
	}
	if c.Closed() {
		pts[len(pts)-1] = pts[0]
	}

	if c.cache == nil {
		c.cache = make(map[int][]Point)
	}
	c.cache[divisions] = pts
	return pts
}

// appendSamples converts curve samples, interpolating the auxiliary axis
// between the curve's end points.
func appendSamples(pts []Point, from, to Point, samples []ipath.Point) []Point {
	n := float64(len(samples))
	for i, s := range samples {
		t := float64(i+1) / n
		pts = append(pts, Point{X: s.X, Y: s.Y, A: from.A + (to.A-from.A)*t})
	}
	return pts
}

// Length returns the length of the tessellated contour.
func (c *Contour) Length(divisions int) float64 {
	pts := c.Points(divisions)
	var l float64
	for i := 1; i < len(pts); i++ {
		l += pts[i-1].Distance(pts[i])
	}
	return l
}

// Reverse returns the contour traversed backwards. A lone arc is reversed
// exactly; anything else becomes a polyline through the tessellated points.
func (c *Contour) Reverse(divisions int) *Contour {
	if e, ok := c.singleEllipse(); ok {
		e.Start, e.End = e.End, e.Start
		e.CCW = !e.CCW
		r := NewContour(e.StartPoint())
		r.add(e)
		return r
	}

	pts := c.Points(divisions)
	if len(pts) == 0 {
		return &Contour{}
	}
	r := NewContour(pts[len(pts)-1])
	for i := len(pts) - 2; i >= 0; i-- {
		r.add(LineTo{Point: pts[i]})
	}
	return r
}

// Shift returns a closed contour rebuilt as a polyline that starts at
// vertex n of its tessellation and closes back to it. Open contours are
// returned as a copy.
func (c *Contour) Shift(n, divisions int) *Contour {
	if !c.Closed() {
		return c.Clone()
	}
	pts := c.Points(divisions)
	verts := pts[:len(pts)-1]
	k := len(verts)
	n = ((n % k) + k) % k

	r := NewContour(verts[n])
	for i := 1; i < k; i++ {
		r.add(LineTo{Point: verts[(n+i)%k]})
	}
	r.add(LineTo{Point: verts[n]})
	return r
}

// NearestVertex returns the index of the tessellated vertex closest to p.
func (c *Contour) NearestVertex(p Point, divisions int) int {
	best, bestDist := 0, -1.0
	for i, q := range c.Points(divisions) {
		if d := q.Distance(p); bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
