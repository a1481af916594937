package gcanvas

import (
	"fmt"
	"image/color"
	"math"

	"github.com/gogpu/gcanvas/gcode"
	ipath "github.com/gogpu/gcanvas/internal/path"
)

// Mirror receives the geometry a GCanvas cuts, in machine coordinates.
// It is meant for previews and never affects the emitted commands.
type Mirror interface {
	// Stroke receives a stroked path and its color.
	Stroke(p *Path, col color.Color)
	// Fill receives a filled path and its color.
	Fill(p *Path, col color.Color)
	// Toolpath receives the tool centerline of every cut.
	Toolpath(p *Path)
}

// GCanvas records canvas-style drawing calls and compiles strokes and
// fills into G-code.
//
// A GCanvas is not safe for concurrent use.
type GCanvas struct {
	opts   options
	gc     *gcode.Serializer
	mem    *gcode.MemoryStream
	motion *Motion

	state State
	stack []State
	path  *Path
}

// New creates a canvas. Without WithStream or WithSerializer the output is
// kept in memory and returned by Output.
func New(opts ...Option) *GCanvas {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	c := &GCanvas{opts: o, state: DefaultState(), path: NewPath()}
	c.gc = o.serializer
	if c.gc == nil {
		stream := o.stream
		if stream == nil {
			c.mem = gcode.NewMemoryStream()
			stream = c.mem
		}
		c.gc = gcode.New(stream, gcode.WithArcs(o.arcs))
	}
	c.motion = NewMotion(c.gc, &c.state, o.geometry.Divisions, o.clearance)
	return c
}

// Serializer returns the command serializer.
func (c *GCanvas) Serializer() *gcode.Serializer { return c.gc }

// Motion returns the motion planner.
func (c *GCanvas) Motion() *Motion { return c.motion }

// Geometry returns the sampling and fixed-point resolution in use.
func (c *GCanvas) Geometry() Geometry { return c.opts.geometry }

// Output returns the commands collected in memory, or "" when the canvas
// writes to a caller-provided stream.
func (c *GCanvas) Output() string {
	if c.mem == nil {
		return ""
	}
	return c.mem.String()
}

// Path returns the current path in machine coordinates.
func (c *GCanvas) Path() *Path { return c.path }

// Reset clears the output stream, the state stack and the current path and
// forgets the machine position.
func (c *GCanvas) Reset() error {
	c.state = DefaultState()
	c.stack = c.stack[:0]
	c.path = NewPath()
	c.motion.Reset()
	return c.gc.Reset()
}

// Flush retracts the tool and switches off spindle and coolant if they
// were turned on.
func (c *GCanvas) Flush() error {
	if err := c.motion.Retract(); err != nil {
		return err
	}
	if c.state.Speed != 0 || c.state.Coolant != gcode.CoolantOff {
		c.state.Speed = 0
		c.state.Coolant = gcode.CoolantOff
		return c.motion.syncModal()
	}
	return nil
}

// Comment writes a comment line.
func (c *GCanvas) Comment(text string) error {
	return c.gc.Comment(text)
}

// ToolChange retracts and switches to tool n.
func (c *GCanvas) ToolChange(n int) error {
	if err := c.motion.Retract(); err != nil {
		return err
	}
	c.state.AtcTool = n
	return c.motion.syncModal()
}

// Zero declares the current tool position to be (x, y, z) in machine
// coordinates.
func (c *GCanvas) Zero(x, y, z float64) error {
	if err := c.gc.Zero(gcode.Params{gcode.X: x, gcode.Y: y, gcode.Z: z}); err != nil {
		return err
	}
	c.motion.update(gcode.Params{gcode.X: x, gcode.Y: y, gcode.Z: z})
	return nil
}

func (c *GCanvas) xf(x, y float64) Point {
	return c.state.Transform.TransformPoint(Pt(x, y))
}

// BeginPath discards the current path.
func (c *GCanvas) BeginPath() {
	c.path = NewPath()
}

// MoveTo starts a new contour at (x, y).
func (c *GCanvas) MoveTo(x, y float64) {
	c.path.MoveTo(c.xf(x, y))
}

// LineTo draws a line to (x, y).
func (c *GCanvas) LineTo(x, y float64) {
	c.path.LineTo(c.xf(x, y))
}

// QuadraticCurveTo draws a quadratic curve with control (cpx, cpy).
func (c *GCanvas) QuadraticCurveTo(cpx, cpy, x, y float64) {
	c.path.QuadraticCurveTo(c.xf(cpx, cpy), c.xf(x, y))
}

// BezierCurveTo draws a cubic curve with controls (cp1x, cp1y) and
// (cp2x, cp2y).
func (c *GCanvas) BezierCurveTo(cp1x, cp1y, cp2x, cp2y, x, y float64) {
	c.path.BezierCurveTo(c.xf(cp1x, cp1y), c.xf(cp2x, cp2y), c.xf(x, y))
}

// Arc draws a circular arc around (x, y). A zero span draws nothing and a
// span of exactly minus one turn draws a full circle.
func (c *GCanvas) Arc(x, y, r, start, end float64, ccw bool) {
	switch span := end - start; {
	case span == 0:
		return
	case span == -2*math.Pi:
		end = start + 2*math.Pi
	}
	c.ellipse(Ellipse{Center: Pt(x, y), RX: r, RY: r, Start: start, End: end, CCW: ccw})
}

// Ellipse draws an elliptical arc around (x, y) with the X radius turned
// by rotation.
func (c *GCanvas) Ellipse(x, y, rx, ry, rotation, start, end float64, ccw bool) {
	if end == start {
		return
	}
	c.ellipse(Ellipse{Center: Pt(x, y), RX: rx, RY: ry, Rotation: rotation, Start: start, End: end, CCW: ccw})
}

// ellipse records e given in user coordinates. Arcs that the transform
// would skew are recorded as sampled lines.
func (c *GCanvas) ellipse(e Ellipse) {
	if te, ok := e.Transform(c.state.Transform); ok {
		c.path.Ellipse(te)
		return
	}
	d := c.opts.geometry.Divisions
	c.path.LineTo(c.state.Transform.TransformPoint(e.StartPoint()))
	for _, s := range ipath.SampleEllipse(ip(e.Center), e.RX, e.RY, e.Rotation, e.Start, e.Sweep(), d) {
		c.path.LineTo(c.xf(s.X, s.Y))
	}
}

// ArcTo draws a line towards (x1, y1) rounded into the direction of
// (x2, y2) by an arc of radius r. Collinear or degenerate input draws a
// straight line to (x1, y1).
func (c *GCanvas) ArcTo(x1, y1, x2, y2, r float64) {
	cur, ok := c.path.CurrentPoint()
	if !ok {
		c.MoveTo(x1, y1)
		return
	}
	inv, ok := c.state.Transform.Invert()
	if !ok {
		c.LineTo(x1, y1)
		return
	}
	p0 := inv.TransformPoint(cur)
	p1, p2 := Pt(x1, y1), Pt(x2, y2)

	v1, v2 := p0.Sub(p1), p2.Sub(p1)
	l1, l2 := v1.Length(), v2.Length()
	if r <= 0 || l1 < Epsilon || l2 < Epsilon || math.Abs(v1.Cross(v2)) < Epsilon*l1*l2 {
		c.LineTo(x1, y1)
		return
	}
	n1, n2 := v1.Div(l1), v2.Div(l2)
	half := math.Acos(math.Max(-1, math.Min(1, n1.Dot(n2)))) / 2
	tangent := r / math.Tan(half)
	t1 := p1.Add(n1.Mul(tangent))
	t2 := p1.Add(n2.Mul(tangent))
	center := p1.Add(n1.Add(n2).Normalize().Mul(r / math.Sin(half)))

	start := t1.Sub(center).Angle()
	end := t2.Sub(center).Angle()
	ccw := ipath.Sweep(start, end, false) > math.Pi

	c.LineTo(t1.X, t1.Y)
	c.ellipse(Ellipse{Center: center, RX: r, RY: r, Start: start, End: end, CCW: ccw})
}

// Rect adds a closed rectangle contour.
func (c *GCanvas) Rect(x, y, w, h float64) {
	c.MoveTo(x, y)
	c.LineTo(x+w, y)
	c.LineTo(x+w, y+h)
	c.LineTo(x, y+h)
	c.path.Close()
}

// ClosePath closes the open contour.
func (c *GCanvas) ClosePath() error {
	if !c.path.Close() {
		return fmt.Errorf("close path: %w", ErrNoCurrentPath)
	}
	return nil
}

// Clip intersects the clip region with the current path. The clip region
// restricts fills and is part of the saved state.
func (c *GCanvas) Clip() {
	g := c.opts.geometry
	region := c.path.Simplify(NonZero, g)
	if c.state.clip != nil {
		region = c.state.clip.Clip(region, OpIntersection, g)
	}
	c.state.clip = region
}

// ResetClip removes the clip region.
func (c *GCanvas) ResetClip() {
	c.state.clip = nil
}

// Stroke cuts the current path with the current alignment and depth.
func (c *GCanvas) Stroke() error {
	return c.StrokeWith(c.state.Align, c.state.Depth)
}

// StrokeWith cuts the current path with the given alignment and depth.
//
// Outer and inner alignments first resolve the path under the even-odd
// rule and offset it by half the tool diameter; inner toolpaths are
// reversed to climb mill. A transparent stroke style cuts nothing.
func (c *GCanvas) StrokeWith(align Align, depth float64) error {
	if Transparent(c.state.StrokeStyle) {
		return nil
	}
	if m := c.opts.mirror; m != nil {
		m.Stroke(c.path, c.state.StrokeStyle)
	}
	g := c.opts.geometry
	p := c.path
	if align != AlignCenter {
		delta := c.state.ToolDiameter / 2
		if align == AlignInner {
			delta = -delta
		}
		off, ok := p.Simplify(EvenOdd, g).Offset(delta, g)
		if !ok {
			Logger().Debug("gcanvas: stroke offset failed", "align", align, "tool", c.state.ToolDiameter)
			return nil
		}
		p = off
		if align == AlignInner {
			p = p.Reverse(g.Divisions)
		}
	}
	if c.opts.sortContours {
		p = c.sortContours(p)
	}
	return c.cut(p, depth)
}

// Fill cuts the inside of the current path under the non-zero rule.
func (c *GCanvas) Fill() error {
	return c.FillWith(NonZero, c.state.Depth)
}

// FillWith pockets the inside of the current path with concentric passes
// of the tool. It needs a tool diameter; a transparent fill style cuts
// nothing.
func (c *GCanvas) FillWith(rule FillRule, depth float64) error {
	if Transparent(c.state.FillStyle) {
		return nil
	}
	d := c.state.ToolDiameter
	if d <= 0 {
		return fmt.Errorf("fill: %w", ErrNoToolDiameter)
	}
	if m := c.opts.mirror; m != nil {
		m.Fill(c.path, c.state.FillStyle)
	}
	g := c.opts.geometry
	p := c.path.Simplify(rule, g)
	if c.state.clip != nil {
		p = p.Clip(c.state.clip, OpIntersection, g)
	}
	return c.cut(p.FillPath(d, g).ConnectEnds(d), depth)
}

// StrokeRect strokes a rectangle without touching the current path.
func (c *GCanvas) StrokeRect(x, y, w, h float64) error {
	saved := c.path
	defer func() { c.path = saved }()
	c.path = NewPath()
	c.Rect(x, y, w, h)
	return c.Stroke()
}

// FillRect fills a rectangle without touching the current path.
func (c *GCanvas) FillRect(x, y, w, h float64) error {
	saved := c.path
	defer func() { c.path = saved }()
	c.path = NewPath()
	c.Rect(x, y, w, h)
	return c.Fill()
}

// cut clips p to the work area, layers every contour and retracts.
func (c *GCanvas) cut(p *Path, depth float64) error {
	if wa := c.opts.workArea; wa != nil {
		p = p.ClipToBounds(*wa, c.opts.geometry.Divisions)
	}
	if m := c.opts.mirror; m != nil {
		m.Toolpath(p)
	}
	for _, ct := range p.contours {
		if ct.Len() < 2 {
			continue
		}
		if err := c.layer(ct, depth); err != nil {
			return err
		}
	}
	return c.motion.Retract()
}

// layer cuts ct down to depth in passes of at most DepthOfCut. Without a
// depth of cut there is a single pass on the surface, as for a pen or a
// laser. Ramped closed contours get a finishing pass at full depth.
func (c *GCanvas) layer(ct *Contour, depth float64) error {
	top := -c.state.Top
	doc := math.Abs(c.state.DepthOfCut)
	if doc == 0 {
		return c.motion.FollowPath(ct, top)
	}

	steps := max(int(math.Ceil(math.Abs(depth/doc))), 1)
	step := math.Copysign(doc, depth)
	z := top
	for range steps {
		z -= step
		if math.Abs(z-top) > math.Abs(depth) {
			z = top - depth
		}
		if err := c.motion.FollowPath(ct, z); err != nil {
			return err
		}
	}
	if c.state.Ramping && ct.Closed() {
		return c.motion.FollowPath(ct, z)
	}
	return nil
}

// sortContours orders contours by proximity and starts every closed
// polyline contour at the vertex nearest to where the tool arrives.
func (c *GCanvas) sortContours(p *Path) *Path {
	div := c.opts.geometry.Divisions
	out := NewPath()
	pos, _ := c.motion.Position()
	for _, ct := range p.SortCustom().contours {
		if _, arc := ct.singleEllipse(); ct.Closed() && !arc {
			ct = ct.Shift(ct.NearestVertex(pos, div), div)
		}
		out.Add(ct)
		pos = ct.LastPoint()
	}
	return out
}
