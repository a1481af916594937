// Package svg replays SVG documents as GCanvas drawing calls.
//
// Shapes (path, rect, circle, ellipse, line, polyline and polygon) are
// cut with the fill and stroke they are painted with: a visible fill is
// pocketed and a visible stroke is followed by the tool. Groups nest the
// canvas state, so transform, fill, stroke and the CAM attributes
// data-depth, data-depth-of-cut and data-align inherit like SVG
// presentation attributes.
//
// Lengths are read in millimetres: unitless values are taken as they are,
// physical units are converted.
package svg

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"strings"

	"github.com/gogpu/gcanvas"
	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"github.com/tdewolff/parse/v2/strconv"
	"github.com/tdewolff/parse/v2/xml"
)

// ErrNotSVG is returned when the document has no <svg> root element.
var ErrNotSVG = errors.New("svg: expected <svg> root element")

// Canvas is the drawing surface Decode replays onto. *gcanvas.GCanvas
// implements it.
type Canvas interface {
	PathBuilder
	Save()
	Restore() error
	Transform(m gcanvas.Matrix)
	BeginPath()
	Rect(x, y, w, h float64)
	Circle(x, y, r float64)
	Polyline(pts ...gcanvas.Point)
	Polygon(pts ...gcanvas.Point)
	SetStrokeStyle(col color.Color)
	SetFillStyle(col color.Color)
	SetLineWidth(w float64)
	SetDepth(d float64)
	SetDepthOfCut(d float64)
	SetAlign(a gcanvas.Align)
	State() gcanvas.State
	Stroke() error
	FillWith(rule gcanvas.FillRule, depth float64) error
}

// Option configures Decode.
type Option func(*decoder)

// WithFlipY mirrors the document vertically inside its viewport, turning
// the downward SVG Y axis into the upward machine Y axis.
func WithFlipY(on bool) Option {
	return func(d *decoder) {
		d.flipY = on
	}
}

type decoder struct {
	c     Canvas
	z     *parse.Input
	flipY bool

	root   bool
	rules  []gcanvas.FillRule // one per open element, parallel to Save
	skip   int
	shapes int

	width, height float64
	warned        map[string]bool
	err           error
}

// Decode reads an SVG document from r and draws it on c.
//
// Decoding stops at the first malformed attribute or failed cut. The canvas
// state stack is left as it was found.
func Decode(r io.Reader, c Canvas, opts ...Option) error {
	z := parse.NewInput(r)
	defer z.Restore()

	d := &decoder{c: c, z: z, warned: map[string]bool{}}
	for _, opt := range opts {
		opt(d)
	}
	defer func() {
		for range d.rules {
			_ = c.Restore()
		}
	}()

	l := xml.NewLexer(z)
	for {
		tt, data := l.Next()
		switch tt {
		case xml.ErrorToken:
			if err := l.Err(); err != io.EOF {
				return fmt.Errorf("svg: %w", err)
			}
			if !d.root {
				return ErrNotSVG
			}
			gcanvas.Logger().Debug("svg: decoded", "shapes", d.shapes)
			return nil
		case xml.StartTagToken:
			attrs := map[string]string{}
			names := []string{}
			for {
				tt, _ = l.Next()
				if tt != xml.AttributeToken {
					break
				}
				val := l.AttrVal()
				if len(val) >= 2 && (val[0] == '"' || val[0] == '\'') {
					val = val[1 : len(val)-1]
				}
				key := string(l.Text())
				names = append(names, key)
				attrs[key] = string(val)
			}
			if tt == xml.ErrorToken {
				return fmt.Errorf("svg: %w", l.Err())
			}

			if err := d.open(localName(data[1:]), names, attrs); err != nil {
				return err
			}
			if tt == xml.StartTagCloseVoidToken {
				if err := d.close(); err != nil {
					return err
				}
			}
		case xml.EndTagToken:
			if err := d.close(); err != nil {
				return err
			}
		}
	}
}

func localName(b []byte) string {
	s := string(b)
	if i := strings.IndexByte(s, ':'); i >= 0 {
		s = s[i+1:]
	}
	return s
}

func (d *decoder) fail(format string, a ...any) {
	if d.err == nil {
		d.err = parse.NewErrorLexer(d.z, format, a...)
	}
}

func (d *decoder) warn(tag string) {
	if !d.warned[tag] {
		d.warned[tag] = true
		gcanvas.Logger().Warn("svg: unsupported element skipped", "element", tag)
	}
}

func (d *decoder) push() {
	rule := gcanvas.NonZero
	if n := len(d.rules); n > 0 {
		rule = d.rules[n-1]
	}
	d.c.Save()
	d.rules = append(d.rules, rule)
}

func (d *decoder) open(tag string, names []string, attrs map[string]string) error {
	if d.skip > 0 || (d.root && len(d.rules) == 0) {
		d.skip++
		return nil
	}
	if !d.root {
		if tag != "svg" {
			return fmt.Errorf("%w: found <%s>", ErrNotSVG, tag)
		}
		d.root = true
		d.push()
		d.c.SetFillStyle(color.Black)
		d.c.SetStrokeStyle(color.Transparent)
		d.viewport(attrs)
		d.style(names, attrs)
		return d.err
	}

	switch tag {
	case "g", "a", "switch", "svg",
		"path", "rect", "circle", "ellipse", "line", "polyline", "polygon":
	case "defs", "clipPath", "mask", "symbol", "marker", "pattern",
		"linearGradient", "radialGradient", "style", "title", "desc", "metadata", "script":
		d.skip = 1
		return nil
	default:
		d.warn(tag)
		d.skip = 1
		return nil
	}
	if attrs["display"] == "none" {
		d.skip = 1
		return nil
	}

	d.push()
	d.style(names, attrs)
	if tag == "svg" {
		d.c.Transform(gcanvas.Translate(d.length(attrs["x"], d.width), d.length(attrs["y"], d.height)))
	}
	if d.err != nil {
		return d.err
	}
	return d.draw(tag, attrs)
}

func (d *decoder) close() error {
	if d.skip > 0 {
		d.skip--
		return nil
	}
	if len(d.rules) == 0 {
		return nil
	}
	d.rules = d.rules[:len(d.rules)-1]
	return d.c.Restore()
}

// viewport maps the root viewBox onto the document size.
func (d *decoder) viewport(attrs map[string]string) {
	var vb []float64
	if s, ok := attrs["viewBox"]; ok {
		var good bool
		if vb, good = numbers(s); !good || len(vb) != 4 {
			d.fail("bad viewBox: %s", s)
			return
		}
		if vb[2] <= 0 || vb[3] <= 0 {
			vb = nil
		}
	}
	w := d.length(attrs["width"], 0)
	h := d.length(attrs["height"], 0)
	if vb != nil {
		if w <= 0 {
			w = vb[2]
		}
		if h <= 0 {
			h = vb[3]
		}
	}

	m := gcanvas.Identity()
	if d.flipY {
		m = gcanvas.Translate(0, h).Multiply(gcanvas.Scale(1, -1))
	}
	d.width, d.height = w, h
	if vb != nil {
		m = m.Multiply(gcanvas.Scale(w/vb[2], h/vb[3])).Multiply(gcanvas.Translate(-vb[0], -vb[1]))
		d.width, d.height = vb[2], vb[3]
	}
	if !m.IsIdentity() {
		d.c.Transform(m)
	}
}

// style applies presentation attributes, then the inline style
// declarations which take precedence.
func (d *decoder) style(names []string, attrs map[string]string) {
	for _, key := range names {
		if key != "style" {
			d.set(key, attrs[key])
		}
	}
	s, ok := attrs["style"]
	if !ok {
		return
	}
	p := css.NewParser(parse.NewInputString(s), true)
	for {
		gt, _, data := p.Next()
		if gt == css.ErrorGrammar {
			break
		}
		if gt == css.DeclarationGrammar {
			var val strings.Builder
			for _, v := range p.Values() {
				val.Write(v.Data)
			}
			d.set(strings.ToLower(string(data)), strings.TrimSpace(val.String()))
		}
	}
}

func (d *decoder) set(key, val string) {
	switch key {
	case "fill":
		d.c.SetFillStyle(d.paint(val))
	case "stroke":
		d.c.SetStrokeStyle(d.paint(val))
	case "stroke-width":
		d.c.SetLineWidth(d.length(val, d.diagonal()))
	case "fill-rule":
		switch val {
		case "evenodd":
			d.rules[len(d.rules)-1] = gcanvas.EvenOdd
		case "nonzero":
			d.rules[len(d.rules)-1] = gcanvas.NonZero
		}
	case "transform":
		d.c.Transform(d.transform(val))
	case "data-depth":
		d.c.SetDepth(d.length(val, 0))
	case "data-depth-of-cut":
		d.c.SetDepthOfCut(d.length(val, 0))
	case "data-align":
		a, ok := gcanvas.ParseAlign(val)
		if !ok {
			d.fail("bad data-align: %s", val)
			return
		}
		d.c.SetAlign(a)
	}
}

func (d *decoder) diagonal() float64 {
	return math.Sqrt((d.width*d.width + d.height*d.height) / 2)
}

// length parses a length in millimetres; percentages are relative to ref.
func (d *decoder) length(v string, ref float64) float64 {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	nn, _ := parse.Dimension([]byte(v))
	num, n := strconv.ParseFloat([]byte(v[:nn]))
	if nn == 0 || n != nn {
		d.fail("bad length: %s", v)
		return 0
	}
	switch strings.ToLower(v[nn:]) {
	case "", "mm":
		return num
	case "cm":
		return num * 10
	case "q":
		return num * 0.25
	case "in":
		return num * 25.4
	case "pc":
		return num * 25.4 / 6
	case "pt":
		return num * 25.4 / 72
	case "px":
		return num * 25.4 / 96
	case "%":
		return num * ref / 100
	}
	d.fail("unknown unit in length: %s", v)
	return 0
}

// paint parses a fill or stroke value. Paint servers and currentColor cut
// like black.
func (d *decoder) paint(v string) color.Color {
	if col, ok := gcanvas.ParseColor(v); ok {
		return col
	}
	lower := strings.ToLower(strings.TrimSpace(v))
	if strings.HasPrefix(lower, "rgb") {
		if col, ok := parseRGB(lower); ok {
			return col
		}
		d.fail("bad color: %s", v)
		return color.Black
	}
	gcanvas.Logger().Warn("svg: unsupported paint cut as black", "paint", v)
	return color.Black
}

// parseRGB parses rgb() and rgba() functions with numeric or percentage
// components.
func parseRGB(v string) (color.Color, bool) {
	open, end := strings.IndexByte(v, '('), strings.LastIndexByte(v, ')')
	if open < 0 || end < open {
		return nil, false
	}
	fields := strings.FieldsFunc(v[open+1:end], func(r rune) bool {
		return r == ',' || r == ' ' || r == '/' || r == '\t'
	})
	if len(fields) != 3 && len(fields) != 4 {
		return nil, false
	}
	var c [4]float64
	for i, f := range fields {
		pct := strings.HasSuffix(f, "%")
		f = strings.TrimSuffix(f, "%")
		num, n := strconv.ParseFloat([]byte(f))
		if n == 0 || n != len(f) {
			return nil, false
		}
		switch {
		case i < 3 && pct:
			num = num * 255 / 100
		case i == 3 && pct:
			num /= 100
		}
		c[i] = num
	}
	if len(fields) == 3 {
		c[3] = 1
	}
	for i := range 3 {
		c[i] = math.Max(0, math.Min(c[i], 255))
	}
	a := math.Max(0, math.Min(c[3], 1))
	return color.NRGBA{R: uint8(c[0] + 0.5), G: uint8(c[1] + 0.5), B: uint8(c[2] + 0.5), A: uint8(a*255 + 0.5)}, true
}

// numbers parses a comma or whitespace separated list of numbers.
func numbers(v string) ([]float64, bool) {
	s := &scanner{b: []byte(v)}
	var out []float64
	for !s.done() {
		f, ok := s.num()
		if !ok {
			return out, false
		}
		out = append(out, f)
	}
	return out, true
}

// transform parses a transform list. Functions compose left to right, so
// the last one applies to the shape first.
func (d *decoder) transform(v string) gcanvas.Matrix {
	m := gcanvas.Identity()
	rest := v
	for {
		open := strings.IndexByte(rest, '(')
		end := strings.IndexByte(rest, ')')
		if open < 0 || end < open {
			if strings.Trim(rest, " ,\t\r\n") != "" {
				d.fail("bad transform: %s", v)
			}
			return m
		}
		fun := strings.ToLower(strings.Trim(rest[:open], " ,\t\r\n"))
		args, ok := numbers(rest[open+1 : end])
		rest = rest[end+1:]
		if !ok {
			d.fail("bad transform arguments: %s", v)
			return m
		}

		var t gcanvas.Matrix
		switch {
		case fun == "matrix" && len(args) == 6:
			t = gcanvas.Matrix{A: args[0], B: args[2], C: args[4], D: args[1], E: args[3], F: args[5]}
		case fun == "translate" && len(args) == 1:
			t = gcanvas.Translate(args[0], 0)
		case fun == "translate" && len(args) == 2:
			t = gcanvas.Translate(args[0], args[1])
		case fun == "scale" && len(args) == 1:
			t = gcanvas.Scale(args[0], args[0])
		case fun == "scale" && len(args) == 2:
			t = gcanvas.Scale(args[0], args[1])
		case fun == "rotate" && len(args) == 1:
			t = gcanvas.Rotate(args[0] * math.Pi / 180)
		case fun == "rotate" && len(args) == 3:
			t = gcanvas.RotateAbout(args[0]*math.Pi/180, args[1], args[2])
		case fun == "skewx" && len(args) == 1:
			t = gcanvas.Shear(math.Tan(args[0]*math.Pi/180), 0)
		case fun == "skewy" && len(args) == 1:
			t = gcanvas.Shear(0, math.Tan(args[0]*math.Pi/180))
		default:
			d.fail("bad transform %s with %d arguments", fun, len(args))
			return m
		}
		m = m.Multiply(t)
	}
}

// draw builds the outline of a shape element and cuts it.
func (d *decoder) draw(tag string, a map[string]string) error {
	w, h := d.width, d.height
	d.c.BeginPath()
	switch tag {
	case "path":
		if err := ParsePath(a["d"], d.c); err != nil {
			return fmt.Errorf("svg: <path>: %w", err)
		}
	case "rect":
		x, y := d.length(a["x"], w), d.length(a["y"], h)
		rw, rh := d.length(a["width"], w), d.length(a["height"], h)
		rx, okx := a["rx"]
		ry, oky := a["ry"]
		if !okx {
			rx = ry
		}
		if !oky {
			ry = rx
		}
		if rw <= 0 || rh <= 0 {
			return d.err
		}
		d.rect(x, y, rw, rh, d.length(rx, w), d.length(ry, h))
	case "circle":
		r := d.length(a["r"], d.diagonal())
		if r <= 0 {
			return d.err
		}
		d.c.Circle(d.length(a["cx"], w), d.length(a["cy"], h), r)
	case "ellipse":
		cx, cy := d.length(a["cx"], w), d.length(a["cy"], h)
		rx, ry := d.length(a["rx"], w), d.length(a["ry"], h)
		if rx <= 0 || ry <= 0 {
			return d.err
		}
		d.c.MoveTo(cx+rx, cy)
		d.c.Ellipse(cx, cy, rx, ry, 0, 0, 2*math.Pi, false)
	case "line":
		d.c.MoveTo(d.length(a["x1"], w), d.length(a["y1"], h))
		d.c.LineTo(d.length(a["x2"], w), d.length(a["y2"], h))
	case "polyline", "polygon":
		vals, ok := numbers(a["points"])
		if !ok {
			d.fail("bad points: %s", a["points"])
		}
		pts := make([]gcanvas.Point, 0, len(vals)/2)
		for i := 0; i+1 < len(vals); i += 2 {
			pts = append(pts, gcanvas.Pt(vals[i], vals[i+1]))
		}
		if tag == "polygon" {
			d.c.Polygon(pts...)
		} else {
			d.c.Polyline(pts...)
		}
	default:
		return nil
	}
	if d.err != nil {
		return d.err
	}

	d.shapes++
	if err := d.c.FillWith(d.rules[len(d.rules)-1], d.c.State().Depth); err != nil {
		return fmt.Errorf("svg: <%s>: %w", tag, err)
	}
	if err := d.c.Stroke(); err != nil {
		return fmt.Errorf("svg: <%s>: %w", tag, err)
	}
	return nil
}

// rect draws a rectangle with corners rounded by rx, ry.
func (d *decoder) rect(x, y, w, h, rx, ry float64) {
	rx, ry = math.Min(math.Abs(rx), w/2), math.Min(math.Abs(ry), h/2)
	if rx == 0 || ry == 0 {
		d.c.Rect(x, y, w, h)
		return
	}
	const quarter = math.Pi / 2
	c := d.c
	c.MoveTo(x+rx, y)
	c.LineTo(x+w-rx, y)
	c.Ellipse(x+w-rx, y+ry, rx, ry, 0, -quarter, 0, false)
	c.LineTo(x+w, y+h-ry)
	c.Ellipse(x+w-rx, y+h-ry, rx, ry, 0, 0, quarter, false)
	c.LineTo(x+rx, y+h)
	c.Ellipse(x+rx, y+h-ry, rx, ry, 0, quarter, 2*quarter, false)
	c.LineTo(x, y+ry)
	c.Ellipse(x+rx, y+ry, rx, ry, 0, 2*quarter, 3*quarter, false)
	_ = c.ClosePath()
}
