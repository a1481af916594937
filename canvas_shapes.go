package gcanvas

import "math"

// Circle adds a full circle contour around (x, y), starting at angle 0.
func (c *GCanvas) Circle(x, y, r float64) {
	c.MoveTo(x+r, y)
	c.Arc(x, y, r, 0, 2*math.Pi, false)
}

// Polyline adds an open contour through pts.
func (c *GCanvas) Polyline(pts ...Point) {
	if len(pts) == 0 {
		return
	}
	c.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		c.LineTo(p.X, p.Y)
	}
}

// Polygon adds a closed contour through pts.
func (c *GCanvas) Polygon(pts ...Point) {
	if len(pts) < 2 {
		c.Polyline(pts...)
		return
	}
	c.Polyline(pts...)
	c.path.Close()
}

// StrokeCircle strokes a circle without touching the current path.
func (c *GCanvas) StrokeCircle(x, y, r float64) error {
	saved := c.path
	defer func() { c.path = saved }()
	c.path = NewPath()
	c.Circle(x, y, r)
	return c.Stroke()
}

// FillCircle pockets a circle without touching the current path.
func (c *GCanvas) FillCircle(x, y, r float64) error {
	saved := c.path
	defer func() { c.path = saved }()
	c.path = NewPath()
	c.Circle(x, y, r)
	return c.Fill()
}
