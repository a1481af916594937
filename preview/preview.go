// Package preview rasterizes what a GCanvas cuts.
//
// A Preview is a gcanvas.Mirror: pass it with gcanvas.WithMirror and it
// paints the filled and stroked shapes in their own colors and the tool
// centerline on top, in machine coordinates scaled to fit the image.
//
//	p := preview.New(800, 600, gcanvas.Rect{Max: gcanvas.Pt(200, 150)})
//	c := gcanvas.New(gcanvas.WithMirror(p))
//	// draw ...
//	err := p.Save("job.png")
package preview

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/colornames"
	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/gogpu/gcanvas"
)

// Option configures a Preview.
type Option func(*Preview)

// WithFlipY draws machine Y upwards, as seen from above the machine bed.
func WithFlipY(on bool) Option {
	return func(p *Preview) {
		p.flipY = on
	}
}

// WithBackground sets the background color. The default is white.
func WithBackground(c color.Color) Option {
	return func(p *Preview) {
		p.background = c
	}
}

// WithToolColor sets the color of the tool centerline. The default is
// red.
func WithToolColor(c color.Color) Option {
	return func(p *Preview) {
		p.tool = c
	}
}

// WithDivisions sets how finely curves are sampled.
func WithDivisions(n int) Option {
	return func(p *Preview) {
		if n >= 1 {
			p.divisions = n
		}
	}
}

// Stats counts the mirrored calls.
type Stats struct {
	Strokes   int
	Fills     int
	Toolpaths int
}

// Preview is a raster image of the drawn shapes and the toolpath.
//
// A Preview is not safe for concurrent use.
type Preview struct {
	img        *image.NRGBA
	ras        *vector.Rasterizer
	view       gcanvas.Matrix
	flipY      bool
	background color.Color
	tool       color.Color
	divisions  int
	stats      Stats
}

// New creates a width x height preview showing area, scaled uniformly and
// centered. An empty area maps machine units to pixels one to one.
func New(width, height int, area gcanvas.Rect, opts ...Option) *Preview {
	p := &Preview{
		img:        image.NewNRGBA(image.Rect(0, 0, width, height)),
		ras:        vector.NewRasterizer(width, height),
		background: colornames.White,
		tool:       colornames.Red,
		divisions:  gcanvas.DefaultGeometry().Divisions,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.view = p.fit(width, height, area)
	p.Clear()
	return p
}

func (p *Preview) fit(width, height int, area gcanvas.Rect) gcanvas.Matrix {
	w, h := float64(width), float64(height)
	s := 1.0
	if !area.Empty() {
		s = math.Min(w/area.Width(), h/area.Height())
	}
	cx, cy := (area.Min.X+area.Max.X)/2, (area.Min.Y+area.Max.Y)/2
	if area.Empty() {
		cx, cy = w/2, h/2
	}
	sy := s
	if p.flipY {
		sy = -s
	}
	return gcanvas.Translate(w/2, h/2).Multiply(gcanvas.Scale(s, sy)).Multiply(gcanvas.Translate(-cx, -cy))
}

// Clear paints the background and resets the statistics.
func (p *Preview) Clear() {
	draw.Draw(p.img, p.img.Bounds(), image.NewUniform(p.background), image.Point{}, draw.Src)
	p.stats = Stats{}
}

// Image returns the rendered image.
func (p *Preview) Image() image.Image { return p.img }

// Stats returns how many strokes, fills and toolpaths were drawn.
func (p *Preview) Stats() Stats { return p.stats }

// Pixel returns the image position of a machine coordinate.
func (p *Preview) Pixel(pt gcanvas.Point) gcanvas.Point {
	return p.view.TransformPoint(pt)
}

// Fill paints the area of path translucently.
func (p *Preview) Fill(path *gcanvas.Path, col color.Color) {
	p.stats.Fills++
	p.reset()
	for _, pts := range path.Points(p.divisions) {
		if len(pts) < 3 {
			continue
		}
		p.polygon(pts)
	}
	p.paint(fade(col, 0x60))
}

// Stroke paints the outline of path in its color, two pixels wide.
func (p *Preview) Stroke(path *gcanvas.Path, col color.Color) {
	p.stats.Strokes++
	p.lines(path, 2)
	p.paint(col)
}

// Toolpath paints the tool centerline one pixel wide.
func (p *Preview) Toolpath(path *gcanvas.Path) {
	p.stats.Toolpaths++
	p.lines(path, 1)
	p.paint(p.tool)
}

func (p *Preview) reset() {
	b := p.img.Bounds()
	p.ras.Reset(b.Dx(), b.Dy())
}

func (p *Preview) paint(col color.Color) {
	p.ras.DrawOp = draw.Over
	p.ras.Draw(p.img, p.img.Bounds(), image.NewUniform(col), image.Point{})
}

func (p *Preview) polygon(pts []gcanvas.Point) {
	for i, pt := range pts {
		q := p.view.TransformPoint(pt)
		if i == 0 {
			p.ras.MoveTo(float32(q.X), float32(q.Y))
		} else {
			p.ras.LineTo(float32(q.X), float32(q.Y))
		}
	}
	p.ras.ClosePath()
}

// lines adds every segment of path as a quad of the given pixel width.
// The quads share one winding so overlaps at joints stay covered.
func (p *Preview) lines(path *gcanvas.Path, width float64) {
	p.reset()
	half := width / 2
	for _, pts := range path.Points(p.divisions) {
		for i := 1; i < len(pts); i++ {
			a := p.view.TransformPoint(pts[i-1])
			b := p.view.TransformPoint(pts[i])
			d := b.Sub(a)
			if d.Length() == 0 {
				continue
			}
			n := gcanvas.Pt(-d.Y, d.X).Normalize().Mul(half)
			e := d.Normalize().Mul(half)
			a, b = a.Sub(e), b.Add(e)
			p.polygon([]gcanvas.Point{a.Add(n), b.Add(n), b.Sub(n), a.Sub(n)})
		}
	}
}

func fade(c color.Color, alpha uint8) color.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(uint16(n.A) * uint16(alpha) / 0xff)
	return n
}
