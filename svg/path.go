package svg

import (
	"errors"
	"fmt"
	"math"

	"github.com/tdewolff/parse/v2/strconv"
)

// ErrInvalidPath is returned for malformed path data.
var ErrInvalidPath = errors.New("svg: invalid path data")

// PathBuilder receives the drawing calls of parsed path data.
// *gcanvas.GCanvas implements it.
type PathBuilder interface {
	MoveTo(x, y float64)
	LineTo(x, y float64)
	QuadraticCurveTo(cpx, cpy, x, y float64)
	BezierCurveTo(cp1x, cp1y, cp2x, cp2y, x, y float64)
	Ellipse(x, y, rx, ry, rotation, start, end float64, ccw bool)
	ClosePath() error
}

type scanner struct {
	b []byte
	i int
}

func (s *scanner) skip() {
	for s.i < len(s.b) {
		switch s.b[s.i] {
		case ' ', ',', '\n', '\r', '\t':
			s.i++
		default:
			return
		}
	}
}

func (s *scanner) done() bool {
	s.skip()
	return s.i >= len(s.b)
}

func (s *scanner) num() (float64, bool) {
	s.skip()
	f, n := strconv.ParseFloat(s.b[s.i:])
	if n == 0 {
		return 0, false
	}
	s.i += n
	return f, true
}

// nums fills dst and reports whether all values were present.
func (s *scanner) nums(dst []float64) bool {
	for k := range dst {
		v, ok := s.num()
		if !ok {
			return false
		}
		dst[k] = v
	}
	return true
}

// flag reads an arc flag, which may be written without a separator.
func (s *scanner) flag() (bool, bool) {
	s.skip()
	if s.i >= len(s.b) || (s.b[s.i] != '0' && s.b[s.i] != '1') {
		return false, false
	}
	s.i++
	return s.b[s.i-1] == '1', true
}

func isCommand(c byte) bool {
	switch c {
	case 'M', 'm', 'Z', 'z', 'L', 'l', 'H', 'h', 'V', 'v',
		'C', 'c', 'S', 's', 'Q', 'q', 'T', 't', 'A', 'a':
		return true
	}
	return false
}

// ParsePath replays SVG path data onto b. Parsing stops at the first
// malformed command; everything before it has already been drawn.
func ParsePath(d string, b PathBuilder) error {
	s := &scanner{b: []byte(d)}

	var cmd, prev byte
	var x, y, sx, sy float64 // current point and subpath start
	var cpx, cpy float64     // last control point
	open := false
	var v [6]float64

	for !s.done() {
		if c := s.b[s.i]; isCommand(c) {
			cmd = c
			s.i++
		} else if cmd == 0 || cmd == 'Z' || cmd == 'z' {
			return fmt.Errorf("%w: unexpected %q at offset %d", ErrInvalidPath, c, s.i)
		}
		at := s.i

		rel := cmd >= 'a'
		ox, oy := 0.0, 0.0
		if rel {
			ox, oy = x, y
		}

		switch cmd {
		case 'M', 'm':
			if !s.nums(v[:2]) {
				return pathError(cmd, at)
			}
			x, y = ox+v[0], oy+v[1]
			sx, sy = x, y
			b.MoveTo(x, y)
			open = true
			// further coordinate pairs are implicit line commands
			cmd = 'L'
			if rel {
				cmd = 'l'
			}
		case 'Z', 'z':
			if open {
				if err := b.ClosePath(); err != nil {
					return err
				}
				open = false
			}
			x, y = sx, sy
		case 'L', 'l':
			if !s.nums(v[:2]) {
				return pathError(cmd, at)
			}
			x, y = ox+v[0], oy+v[1]
			b.LineTo(x, y)
			open = true
		case 'H', 'h':
			if !s.nums(v[:1]) {
				return pathError(cmd, at)
			}
			x = ox + v[0]
			b.LineTo(x, y)
			open = true
		case 'V', 'v':
			if !s.nums(v[:1]) {
				return pathError(cmd, at)
			}
			y = oy + v[0]
			b.LineTo(x, y)
			open = true
		case 'C', 'c':
			if !s.nums(v[:6]) {
				return pathError(cmd, at)
			}
			cpx, cpy = ox+v[2], oy+v[3]
			b.BezierCurveTo(ox+v[0], oy+v[1], cpx, cpy, ox+v[4], oy+v[5])
			x, y = ox+v[4], oy+v[5]
			open = true
		case 'S', 's':
			if !s.nums(v[:4]) {
				return pathError(cmd, at)
			}
			c1x, c1y := x, y
			if prev == 'C' || prev == 'c' || prev == 'S' || prev == 's' {
				c1x, c1y = 2*x-cpx, 2*y-cpy
			}
			cpx, cpy = ox+v[0], oy+v[1]
			b.BezierCurveTo(c1x, c1y, cpx, cpy, ox+v[2], oy+v[3])
			x, y = ox+v[2], oy+v[3]
			open = true
		case 'Q', 'q':
			if !s.nums(v[:4]) {
				return pathError(cmd, at)
			}
			cpx, cpy = ox+v[0], oy+v[1]
			b.QuadraticCurveTo(cpx, cpy, ox+v[2], oy+v[3])
			x, y = ox+v[2], oy+v[3]
			open = true
		case 'T', 't':
			if !s.nums(v[:2]) {
				return pathError(cmd, at)
			}
			c1x, c1y := x, y
			if prev == 'Q' || prev == 'q' || prev == 'T' || prev == 't' {
				c1x, c1y = 2*x-cpx, 2*y-cpy
			}
			cpx, cpy = c1x, c1y
			b.QuadraticCurveTo(cpx, cpy, ox+v[0], oy+v[1])
			x, y = ox+v[0], oy+v[1]
			open = true
		case 'A', 'a':
			if !s.nums(v[:3]) {
				return pathError(cmd, at)
			}
			large, ok1 := s.flag()
			sweep, ok2 := s.flag()
			if !ok1 || !ok2 || !s.nums(v[3:5]) {
				return pathError(cmd, at)
			}
			x1, y1 := x, y
			x, y = ox+v[3], oy+v[4]
			arcTo(b, x1, y1, v[0], v[1], v[2]*math.Pi/180, large, sweep, x, y)
			open = true
		}
		prev = cmd
	}
	return nil
}

func pathError(cmd byte, at int) error {
	return fmt.Errorf("%w: bad arguments for %q at offset %d", ErrInvalidPath, cmd, at)
}

// arcTo converts an endpoint-parametrized elliptical arc to its center
// parametrization and draws it. Out of range radii are scaled up until the
// arc fits; zero radii draw a line.
func arcTo(b PathBuilder, x1, y1, rx, ry, phi float64, large, sweep bool, x2, y2 float64) {
	if x1 == x2 && y1 == y2 {
		return
	}
	rx, ry = math.Abs(rx), math.Abs(ry)
	if rx == 0 || ry == 0 {
		b.LineTo(x2, y2)
		return
	}

	sin, cos := math.Sincos(phi)
	dx, dy := (x1-x2)/2, (y1-y2)/2
	x1p := cos*dx + sin*dy
	y1p := -sin*dx + cos*dy

	if lambda := x1p*x1p/(rx*rx) + y1p*y1p/(ry*ry); lambda > 1 {
		k := math.Sqrt(lambda)
		rx, ry = rx*k, ry*k
	}

	num := rx*rx*ry*ry - rx*rx*y1p*y1p - ry*ry*x1p*x1p
	den := rx*rx*y1p*y1p + ry*ry*x1p*x1p
	coef := math.Sqrt(math.Max(0, num/den))
	if large == sweep {
		coef = -coef
	}
	cxp := coef * rx * y1p / ry
	cyp := -coef * ry * x1p / rx

	cx := cos*cxp - sin*cyp + (x1+x2)/2
	cy := sin*cxp + cos*cyp + (y1+y2)/2

	start := math.Atan2((y1p-cyp)/ry, (x1p-cxp)/rx)
	end := math.Atan2((-y1p-cyp)/ry, (-x1p-cxp)/rx)
	b.Ellipse(cx, cy, rx, ry, phi, start, end, !sweep)
}
