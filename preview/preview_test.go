package preview

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/colornames"
	"golang.org/x/image/tiff"

	"github.com/gogpu/gcanvas"
)

func area(w, h float64) gcanvas.Rect {
	return gcanvas.Rect{Max: gcanvas.Pt(w, h)}
}

func nrgba(img image.Image, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

func square(x0, y0, x1, y1 float64) *gcanvas.Path {
	p := gcanvas.NewPath()
	p.MoveTo(gcanvas.Pt(x0, y0))
	p.LineTo(gcanvas.Pt(x1, y0))
	p.LineTo(gcanvas.Pt(x1, y1))
	p.LineTo(gcanvas.Pt(x0, y1))
	p.Close()
	return p
}

func TestPixelMapping(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		in   gcanvas.Point
		want gcanvas.Point
	}{
		{"origin", nil, gcanvas.Pt(0, 0), gcanvas.Pt(0, 0)},
		{"scaled", nil, gcanvas.Pt(10, 5), gcanvas.Pt(20, 10)},
		{"flipped origin", []Option{WithFlipY(true)}, gcanvas.Pt(0, 0), gcanvas.Pt(0, 20)},
		{"flipped top", []Option{WithFlipY(true)}, gcanvas.Pt(10, 10), gcanvas.Pt(20, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(20, 20, area(10, 10), tt.opts...)
			if got := p.Pixel(tt.in); !got.Equals(tt.want) {
				t.Errorf("Pixel(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestPixelMappingCentersAspect(t *testing.T) {
	p := New(40, 20, area(10, 10))
	if got := p.Pixel(gcanvas.Pt(0, 0)); !got.Equals(gcanvas.Pt(10, 0)) {
		t.Errorf("Pixel(origin) = %v, want (10,0)", got)
	}
}

func TestFill(t *testing.T) {
	p := New(20, 20, area(10, 10))
	p.Fill(square(2, 2, 8, 8), colornames.Blue)

	in := nrgba(p.Image(), 10, 10)
	if in.B != 255 || in.R >= 255 || in.A != 255 {
		t.Errorf("inside = %v, want translucent blue over white", in)
	}
	if out := nrgba(p.Image(), 1, 1); out != (color.NRGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("outside = %v, want white", out)
	}
	if s := p.Stats(); s.Fills != 1 {
		t.Errorf("Stats() = %+v", s)
	}
}

func TestStrokeAndToolpath(t *testing.T) {
	p := New(20, 20, area(10, 10), WithBackground(colornames.Black), WithToolColor(colornames.Lime))
	p.Stroke(square(2, 2, 8, 8), colornames.White)
	p.Toolpath(square(4, 4, 6, 6))

	if got := nrgba(p.Image(), 4, 10); got.R != 255 || got.G != 255 {
		t.Errorf("stroke pixel = %v, want white", got)
	}
	if got := nrgba(p.Image(), 10, 10); got != (color.NRGBA{A: 255}) {
		t.Errorf("center = %v, want background", got)
	}
	if got := nrgba(p.Image(), 8, 10); got.G == 0 || got.R != 0 {
		t.Errorf("toolpath pixel = %v, want green", got)
	}
	if s := p.Stats(); s.Strokes != 1 || s.Toolpaths != 1 {
		t.Errorf("Stats() = %+v", s)
	}

	p.Clear()
	if got := nrgba(p.Image(), 4, 10); got != (color.NRGBA{A: 255}) || p.Stats() != (Stats{}) {
		t.Error("Clear() kept drawing or stats")
	}
}

func TestMirrorsCanvas(t *testing.T) {
	p := New(50, 50, area(10, 10))
	c := gcanvas.New(gcanvas.WithMirror(p))
	c.SetToolDiameter(1)
	if err := c.StrokeRect(1, 1, 8, 8); err != nil {
		t.Fatal(err)
	}
	if err := c.FillRect(2, 2, 6, 6); err != nil {
		t.Fatal(err)
	}
	want := Stats{Strokes: 1, Fills: 1, Toolpaths: 2}
	if got := p.Stats(); got != want {
		t.Errorf("Stats() = %+v, want %+v", got, want)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		ext  string
		want Format
	}{
		{".png", PNG},
		{"PNG", PNG},
		{".tif", TIFF},
		{"tiff", TIFF},
		{".bmp", BMP},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.ext)
		if err != nil || got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, %v, want %v", tt.ext, got, err, tt.want)
		}
	}
	if _, err := ParseFormat(".gif"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("ParseFormat(.gif) error = %v, want ErrUnknownFormat", err)
	}
}

func TestEncode(t *testing.T) {
	decoders := map[Format]func(*bytes.Reader) (image.Image, error){
		PNG:  func(r *bytes.Reader) (image.Image, error) { return png.Decode(r) },
		TIFF: func(r *bytes.Reader) (image.Image, error) { return tiff.Decode(r) },
		BMP:  func(r *bytes.Reader) (image.Image, error) { return bmp.Decode(r) },
	}
	p := New(16, 8, area(16, 8))
	for f, decode := range decoders {
		t.Run(f.String(), func(t *testing.T) {
			var buf bytes.Buffer
			if err := p.Encode(&buf, f); err != nil {
				t.Fatal(err)
			}
			img, err := decode(bytes.NewReader(buf.Bytes()))
			if err != nil {
				t.Fatal(err)
			}
			if got := img.Bounds().Size(); got != image.Pt(16, 8) {
				t.Errorf("size = %v, want 16x8", got)
			}
		})
	}
	if err := p.Encode(&bytes.Buffer{}, Format(42)); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Encode(42) error = %v", err)
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	p := New(4, 4, gcanvas.Rect{})

	name := filepath.Join(dir, "out.png")
	if err := p.Save(name); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(name)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := png.Decode(f); err != nil {
		t.Errorf("saved file is not a PNG: %v", err)
	}

	if err := p.Save(filepath.Join(dir, "out.jpg")); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Save(out.jpg) error = %v, want ErrUnknownFormat", err)
	}
}
