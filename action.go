package gcanvas

import (
	"math"

	ipath "github.com/gogpu/gcanvas/internal/path"
)

// Action is a single drawing step of a contour.
// The set of actions is closed: MoveTo, LineTo, QuadTo, CubicTo and Ellipse.
type Action interface {
	// EndPoint returns where the tool is after the action.
	EndPoint() Point
	isAction()
}

// MoveTo starts a contour at a point.
type MoveTo struct {
	Point Point
}

func (MoveTo) isAction() {}

// EndPoint returns the target point.
func (a MoveTo) EndPoint() Point { return a.Point }

// LineTo draws a straight line to a point.
type LineTo struct {
	Point Point
}

func (LineTo) isAction() {}

// EndPoint returns the target point.
func (a LineTo) EndPoint() Point { return a.Point }

// QuadTo draws a quadratic Bezier curve.
type QuadTo struct {
	Control Point
	Point   Point
}

func (QuadTo) isAction() {}

// EndPoint returns the target point.
func (a QuadTo) EndPoint() Point { return a.Point }

// CubicTo draws a cubic Bezier curve.
type CubicTo struct {
	Control1 Point
	Control2 Point
	Point    Point
}

func (CubicTo) isAction() {}

// EndPoint returns the target point.
func (a CubicTo) EndPoint() Point { return a.Point }

// Ellipse draws an elliptical arc around Center from angle Start to End.
// Without CCW the arc runs towards increasing angles. Rotation turns the
// X radius away from the X axis.
type Ellipse struct {
	Center     Point
	RX, RY     float64
	Rotation   float64
	Start, End float64
	CCW        bool
}

func (Ellipse) isAction() {}

// Sweep returns the signed angle travelled, normalized to at most one turn.
func (e Ellipse) Sweep() float64 {
	return ipath.Sweep(e.Start, e.End, e.CCW)
}

// At returns the point at parametric angle on the ellipse.
func (e Ellipse) At(angle float64) Point {
	p := ipath.EllipseAt(ipath.Point{X: e.Center.X, Y: e.Center.Y}, e.RX, e.RY, e.Rotation, angle)
	return Point{X: p.X, Y: p.Y, A: e.Center.A}
}

// StartPoint returns the first point of the arc.
func (e Ellipse) StartPoint() Point { return e.At(e.Start) }

// EndPoint returns the last point of the arc.
func (e Ellipse) EndPoint() Point { return e.At(e.Start + e.Sweep()) }

// Circular reports whether both radii are equal.
func (e Ellipse) Circular() bool {
	return math.Abs(e.RX-e.RY) <= Epsilon*math.Max(1, e.RX)
}

// Transform maps the arc through m. Similarity transforms keep the arc
// exact; the second result is false when m skews or scales unevenly and
// the arc can only be represented by sampling.
func (e Ellipse) Transform(m Matrix) (Ellipse, bool) {
	a, b, d, ee := m.A, m.B, m.D, m.E
	similar := math.Abs(a-ee) < 1e-12 && math.Abs(b+d) < 1e-12
	mirrored := math.Abs(a+ee) < 1e-12 && math.Abs(b-d) < 1e-12
	if !similar && !mirrored {
		return e, false
	}

	s := m.ScaleFactor()
	phi := m.Rotation()
	out := Ellipse{
		Center: m.TransformPoint(e.Center),
		RX:     e.RX * s,
		RY:     e.RY * s,
	}
	if mirrored {
		out.Rotation = phi - e.Rotation
		out.Start, out.End = -e.Start, -e.End
		out.CCW = !e.CCW
	} else {
		out.Rotation = phi + e.Rotation
		out.Start, out.End = e.Start, e.End
		out.CCW = e.CCW
	}
	if out.Circular() {
		// fold the rotation into the angles
		out.Start += out.Rotation
		out.End += out.Rotation
		out.Rotation = 0
	}
	return out, true
}

func ip(p Point) ipath.Point { return ipath.Point{X: p.X, Y: p.Y} }
