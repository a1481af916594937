package gcanvas

import "math"

// Path is an ordered set of contours. The order is kept through boolean
// operations and is the order in which toolpaths are cut.
type Path struct {
	contours []*Contour
	// current is the contour receiving drawing calls; nil until the next
	// MoveTo or auto-open.
	current *Contour
	// reopen is where a drawing call after Close starts its new contour.
	reopen *Point
}

// NewPath creates a new empty path.
func NewPath() *Path {
	return &Path{contours: make([]*Contour, 0, 4)}
}

// Contours returns the contours of the path. The slice must not be modified.
func (p *Path) Contours() []*Contour {
	return p.contours
}

// Len returns the number of contours.
func (p *Path) Len() int {
	return len(p.contours)
}

// Empty reports whether the path has no contours.
func (p *Path) Empty() bool {
	return len(p.contours) == 0
}

// Clone returns a path sharing the contours of p in a new list.
func (p *Path) Clone() *Path {
	return &Path{contours: append([]*Contour(nil), p.contours...)}
}

// Add appends contours to the path.
func (p *Path) Add(cs ...*Contour) {
	p.contours = append(p.contours, cs...)
	p.current = nil
	p.reopen = nil
}

// CurrentPoint returns the last point of the open contour.
func (p *Path) CurrentPoint() (Point, bool) {
	if p.current == nil {
		if p.reopen != nil {
			return *p.reopen, true
		}
		return Point{}, false
	}
	return p.current.LastPoint(), true
}

// ensure returns the open contour, starting one at pt if needed.
func (p *Path) ensure(pt Point) *Contour {
	if p.current == nil {
		if p.reopen != nil {
			pt = *p.reopen
			p.reopen = nil
		}
		p.MoveTo(pt)
	}
	return p.current
}

// MoveTo starts a new contour at pt.
func (p *Path) MoveTo(pt Point) {
	p.current = NewContour(pt)
	p.contours = append(p.contours, p.current)
	p.reopen = nil
}

// LineTo draws a line to pt. Without an open contour it only starts one
// at pt.
func (p *Path) LineTo(pt Point) {
	if p.current == nil && p.reopen == nil {
		p.MoveTo(pt)
		return
	}
	p.ensure(pt).add(LineTo{Point: pt})
}

// QuadraticCurveTo draws a quadratic curve through control c to pt.
func (p *Path) QuadraticCurveTo(c, pt Point) {
	p.ensure(c).add(QuadTo{Control: c, Point: pt})
}

// BezierCurveTo draws a cubic curve through controls c1 and c2 to pt.
func (p *Path) BezierCurveTo(c1, c2, pt Point) {
	p.ensure(c1).add(CubicTo{Control1: c1, Control2: c2, Point: pt})
}

// Ellipse draws an elliptical arc. When the open contour does not end at
// the arc's start a connecting line is drawn first.
func (p *Path) Ellipse(e Ellipse) {
	start := e.StartPoint()
	c := p.ensure(start)
	if !c.LastPoint().Equals(start) {
		c.add(LineTo{Point: start})
	}
	c.add(e)
}

// Arc draws a circular arc. A zero span draws nothing and a span of
// exactly minus one turn is drawn as a full circle.
func (p *Path) Arc(center Point, r, start, end float64, ccw bool) {
	switch span := end - start; {
	case span == 0:
		return
	case span == -2*math.Pi:
		end = start + 2*math.Pi
	}
	p.Ellipse(Ellipse{Center: center, RX: r, RY: r, Start: start, End: end, CCW: ccw})
}

// Close closes the open contour. Drawing continues in a new contour from
// the closed contour's first point. It reports false without an open
// contour.
func (p *Path) Close() bool {
	if p.current == nil {
		return false
	}
	p.current.Close()
	first := p.current.FirstPoint()
	p.current = nil
	p.reopen = &first
	return true
}

// Points tessellates every contour.
func (p *Path) Points(divisions int) [][]Point {
	out := make([][]Point, len(p.contours))
	for i, c := range p.contours {
		out[i] = c.Points(divisions)
	}
	return out
}

// Reverse reverses every contour, keeping contour order.
func (p *Path) Reverse(divisions int) *Path {
	r := NewPath()
	for _, c := range p.contours {
		r.Add(c.Reverse(divisions))
	}
	return r
}

// Bounds returns the bounding box of the tessellated path.
func (p *Path) Bounds(divisions int) Rect {
	r := emptyRect()
	for _, c := range p.contours {
		for _, pt := range c.Points(divisions) {
			r = r.extend(pt)
		}
	}
	if math.IsInf(r.Min.X, 1) {
		return Rect{}
	}
	return r
}

// Length returns the summed length of all contours.
func (p *Path) Length(divisions int) float64 {
	var l float64
	for _, c := range p.contours {
		l += c.Length(divisions)
	}
	return l
}
