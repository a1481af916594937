package gcanvas

import (
	"errors"
	"math"

	"github.com/gogpu/gcanvas/gcode"
	ipath "github.com/gogpu/gcanvas/internal/path"
)

// ErrNoMove is returned by the motion planner when a target equals the
// current tool position. Callers treat it as "emit nothing".
var ErrNoMove = errors.New("gcanvas: target equals current position")

// Motion tracks the tool position and the modal machine state and lowers
// contours into motion commands.
//
// The tool tip starts at an unknown position after Reset; unknown axes are
// reported as zero and always count as moved.
type Motion struct {
	gc        *gcode.Serializer
	state     *State
	divisions int
	clearance float64

	pos Point
	z   float64

	unitSet    bool
	unit       gcode.Unit
	tool       float64
	speed      float64
	coolantSet bool
	coolant    gcode.Coolant
	atc        int
	inverse    bool
}

// NewMotion creates a planner emitting to gc. It reads feed, speed, unit
// and tool parameters from state at every move.
func NewMotion(gc *gcode.Serializer, state *State, divisions int, clearance float64) *Motion {
	m := &Motion{gc: gc, state: state, divisions: divisions, clearance: clearance}
	m.Reset()
	return m
}

// Reset forgets the tool position and all modal values, so the next
// emission re-synchronizes the machine.
func (m *Motion) Reset() {
	nan := math.NaN()
	m.pos = Point{X: nan, Y: nan, A: nan}
	m.z = nan
	m.unitSet = false
	m.tool = nan
	m.speed = nan
	m.coolantSet = false
	m.atc = 0
	m.inverse = false
}

// Position returns the tracked tool position. Unknown axes read as zero.
func (m *Motion) Position() (Point, float64) {
	return Point{X: known(m.pos.X), Y: known(m.pos.Y), A: known(m.pos.A)}, known(m.z)
}

func known(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}

// syncModal emits the modal commands whose value changed since they were
// last sent.
func (m *Motion) syncModal() error {
	s := m.state
	var errs []error
	if !m.unitSet || m.unit != s.Unit {
		errs = append(errs, m.gc.Unit(s.Unit))
		m.unit, m.unitSet = s.Unit, true
	}
	if s.AtcTool > 0 && s.AtcTool != m.atc {
		errs = append(errs, m.gc.ATC(s.AtcTool))
		m.atc = s.AtcTool
	}
	if s.ToolDiameter != m.tool {
		if s.ToolDiameter > 0 {
			errs = append(errs, m.gc.Meta("tooldiameter", s.ToolDiameter))
		}
		m.tool = s.ToolDiameter
	}
	if s.Speed != m.speed {
		if !(math.IsNaN(m.speed) && s.Speed == 0) {
			errs = append(errs, m.gc.Speed(s.Speed))
		}
		m.speed = s.Speed
	}
	if !m.coolantSet || m.coolant != s.Coolant {
		if m.coolantSet || s.Coolant != gcode.CoolantOff {
			errs = append(errs, m.gc.Coolant(s.Coolant))
		}
		m.coolant, m.coolantSet = s.Coolant, true
	}
	return errors.Join(errs...)
}

// postProcess syncs modal state and completes a move target. Rapid moves
// carry no feed. Feed moves get an inverse-time F from their XY length
// (or Z length for pure plunges); arcs pass their own arc length and are
// never suppressed, since a full circle ends where it starts.
func (m *Motion) postProcess(p gcode.Params, rapid bool, arcLen float64) (gcode.Params, error) {
	if err := m.syncModal(); err != nil {
		return nil, err
	}

	out := make(gcode.Params, len(p)+1)
	moved := arcLen > 0
	for w, v := range p {
		v = round5(v)
		var cur float64
		switch w {
		case gcode.X:
			cur = m.pos.X
		case gcode.Y:
			cur = m.pos.Y
		case gcode.Z:
			cur = m.z
		case gcode.A:
			cur = m.pos.A
		default:
			out[w] = v
			continue
		}
		if !math.IsNaN(cur) && cur == v && arcLen == 0 {
			continue
		}
		out[w] = v
		moved = true
	}
	if !moved {
		return nil, ErrNoMove
	}

	if _, ok := p[gcode.F]; !rapid && !ok && m.state.Feed > 0 {
		d := arcLen
		if d == 0 {
			cur, cz := m.Position()
			d = math.Hypot(target(out, gcode.X, cur.X)-cur.X, target(out, gcode.Y, cur.Y)-cur.Y)
			if d == 0 {
				d = math.Abs(target(out, gcode.Z, cz) - cz)
			}
		}
		if !m.inverse {
			if err := m.gc.InverseTime(); err != nil {
				return nil, err
			}
			m.inverse = true
		}
		out[gcode.F] = InverseTimeFeed(d, m.state.Feed)
	}
	return out, nil
}

// InverseTimeFeed returns the F word for a move of length d at feed
// setting feed, rounded to 1e-6.
func InverseTimeFeed(d, feed float64) float64 {
	return math.Round(d*feed*1e6) / 1e6
}

func target(p gcode.Params, w gcode.Word, cur float64) float64 {
	if v, ok := p[w]; ok {
		return v
	}
	return cur
}

func round5(v float64) float64 {
	return math.Round(v*1e5) / 1e5
}

func (m *Motion) update(p gcode.Params) {
	if v, ok := p[gcode.X]; ok {
		m.pos.X = v
	}
	if v, ok := p[gcode.Y]; ok {
		m.pos.Y = v
	}
	if v, ok := p[gcode.A]; ok {
		m.pos.A = v
	}
	if v, ok := p[gcode.Z]; ok {
		m.z = v
	}
}

func (m *Motion) move(p gcode.Params, rapid bool) error {
	t, err := m.postProcess(p, rapid, 0)
	if errors.Is(err, ErrNoMove) {
		return nil
	}
	if err != nil {
		return err
	}
	if rapid {
		err = m.gc.Rapid(t)
	} else {
		err = m.gc.Linear(t)
	}
	if err != nil {
		return err
	}
	m.update(t)
	return nil
}

// Rapid moves at traverse speed. A move to the current position emits
// nothing.
func (m *Motion) Rapid(p gcode.Params) error {
	return m.move(p, true)
}

// Linear moves at feed. A move to the current position emits nothing.
func (m *Motion) Linear(p gcode.Params) error {
	return m.move(p, false)
}

// Retract lifts the tool to the clearance height above the surface.
func (m *Motion) Retract() error {
	return m.Rapid(gcode.Params{gcode.Z: -m.state.Top + m.clearance})
}

// Plunge drops the tool to the surface.
func (m *Motion) Plunge() error {
	return m.Rapid(gcode.Params{gcode.Z: -m.state.Top})
}

// Arc moves along the circular arc e to z. Native G2/G3 is used when the
// serializer supports arcs; otherwise the arc is walked as line segments.
func (m *Motion) Arc(e Ellipse, z float64) error {
	sweep := e.Sweep()
	if sweep == 0 {
		return nil
	}
	if !m.gc.SupportsArcs() || !e.Circular() {
		cur, cz := m.Position()
		samples := ipath.SampleEllipse(ip(e.Center), e.RX, e.RY, e.Rotation, e.Start, sweep, m.divisions)
		pts := appendSamples(nil, cur, e.EndPoint(), samples)
		return m.interpolate(pts, func(t float64) float64 { return cz + (z-cz)*t })
	}

	cur, _ := m.Position()
	end := e.EndPoint()
	t, err := m.postProcess(gcode.Params{gcode.X: end.X, gcode.Y: end.Y, gcode.Z: z}, false, e.RX*math.Abs(sweep))
	if err != nil {
		return err
	}
	t[gcode.I] = round5(e.Center.X - cur.X)
	t[gcode.J] = round5(e.Center.Y - cur.Y)
	if sweep > 0 {
		err = m.gc.ArcCCW(t)
	} else {
		err = m.gc.ArcCW(t)
	}
	if err != nil {
		return err
	}
	m.update(t)
	return nil
}

// interpolate walks pts as linear moves. zAt maps the fraction of the
// walked length to a Z value.
func (m *Motion) interpolate(pts []Point, zAt func(t float64) float64) error {
	cur, _ := m.Position()
	total := 0.0
	prev := cur
	for _, p := range pts {
		total += prev.Distance(p)
		prev = p
	}

	walked := 0.0
	prev = cur
	for _, p := range pts {
		walked += prev.Distance(p)
		prev = p
		frac := 1.0
		if total > 0 {
			frac = walked / total
		}
		if err := m.Linear(m.params(p, zAt(frac))); err != nil {
			return err
		}
	}
	return nil
}

func (m *Motion) params(p Point, z float64) gcode.Params {
	out := gcode.Params{gcode.X: p.X, gcode.Y: p.Y, gcode.Z: z}
	if p.A != 0 || !math.IsNaN(m.pos.A) && m.pos.A != 0 {
		out[gcode.A] = p.A
	}
	return out
}

// FollowPath cuts contour c with its final depth at zEnd.
//
// When the contour is closed and ramping is enabled, Z descends linearly
// with the distance travelled along the contour instead of plunging.
// Arc lengths used for the ramp are approximated as the swept angle times
// the Y radius.
func (m *Motion) FollowPath(c *Contour, zEnd float64) error {
	ramping := c.Closed() && m.state.Ramping
	total := m.rampLength(c)

	_, zStart := m.Position()
	curLen := 0.0
	rampZ := func(l float64) float64 {
		// A contour without length has nowhere to ramp; cut it at depth.
		if !ramping || total == 0 {
			return zEnd
		}
		return zStart + min(l/total, 1)*(zEnd-zStart)
	}

	var cur Point
	for _, a := range c.actions {
		switch a := a.(type) {
		case MoveTo:
			pos, _ := m.Position()
			if math.IsNaN(m.pos.X) || math.IsNaN(m.pos.Y) || pos.X != round5(a.Point.X) || pos.Y != round5(a.Point.Y) {
				if err := m.Retract(); err != nil {
					return err
				}
				p := gcode.Params{gcode.X: a.Point.X, gcode.Y: a.Point.Y}
				if a.Point.A != 0 {
					p[gcode.A] = a.Point.A
				}
				if err := m.Rapid(p); err != nil {
					return err
				}
				if !ramping {
					if err := m.Plunge(); err != nil {
						return err
					}
				}
			}
			if !ramping {
				if err := m.Linear(gcode.Params{gcode.Z: zEnd}); err != nil {
					return err
				}
			}
			_, zStart = m.Position()
			curLen = 0

		case LineTo:
			curLen += cur.Distance(a.Point)
			if err := m.Linear(m.params(a.Point, rampZ(curLen))); err != nil {
				return err
			}

		case QuadTo:
			samples := ipath.SampleQuad(ip(cur), ip(a.Control), ip(a.Point), m.divisions)
			if err := m.walk(cur, appendSamples(nil, cur, a.Point, samples), &curLen, rampZ); err != nil {
				return err
			}

		case CubicTo:
			samples := ipath.SampleCubic(ip(cur), ip(a.Control1), ip(a.Control2), ip(a.Point), m.divisions)
			if err := m.walk(cur, appendSamples(nil, cur, a.Point, samples), &curLen, rampZ); err != nil {
				return err
			}

		case Ellipse:
			from := curLen
			curLen += math.Abs(a.Sweep()) * a.RY
			if a.Circular() && m.gc.SupportsArcs() {
				if err := m.Arc(a, rampZ(curLen)); err != nil {
					return err
				}
				break
			}
			samples := ipath.SampleEllipse(ip(a.Center), a.RX, a.RY, a.Rotation, a.Start, a.Sweep(), m.divisions)
			pts := appendSamples(nil, cur, a.EndPoint(), samples)
			to := curLen
			if err := m.interpolate(pts, func(t float64) float64 { return rampZ(from + (to-from)*t) }); err != nil {
				return err
			}
		}
		cur = a.EndPoint()
	}
	return nil
}

// walk emits sampled curve points starting after prev, advancing the ramp
// by the true distance between samples.
func (m *Motion) walk(prev Point, pts []Point, curLen *float64, rampZ func(float64) float64) error {
	for _, p := range pts {
		*curLen += prev.Distance(p)
		prev = p
		if err := m.Linear(m.params(p, rampZ(*curLen))); err != nil {
			return err
		}
	}
	return nil
}

// rampLength measures c the way FollowPath advances its ramp, so that the
// ramp ends exactly at the last point: sampled distance for lines and
// curves, swept angle times the Y radius for ellipses. Only the part after
// the last move counts.
func (m *Motion) rampLength(c *Contour) float64 {
	var l float64
	var cur Point
	for _, a := range c.actions {
		switch a := a.(type) {
		case MoveTo:
			l = 0
		case LineTo:
			l += cur.Distance(a.Point)
		case QuadTo:
			l += polyLength(cur, appendSamples(nil, cur, a.Point, ipath.SampleQuad(ip(cur), ip(a.Control), ip(a.Point), m.divisions)))
		case CubicTo:
			l += polyLength(cur, appendSamples(nil, cur, a.Point, ipath.SampleCubic(ip(cur), ip(a.Control1), ip(a.Control2), ip(a.Point), m.divisions)))
		case Ellipse:
			l += math.Abs(a.Sweep()) * a.RY
		}
		cur = a.EndPoint()
	}
	return l
}

func polyLength(prev Point, pts []Point) float64 {
	var l float64
	for _, p := range pts {
		l += prev.Distance(p)
		prev = p
	}
	return l
}
