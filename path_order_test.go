package gcanvas

import (
	"testing"
)

func segment(p *Path, x0, y0, x1, y1 float64) {
	p.MoveTo(Pt(x0, y0))
	p.LineTo(Pt(x1, y1))
}

func TestPathConnectEnds(t *testing.T) {
	tests := []struct {
		name      string
		gap       float64
		wantLen   int
		wantSteps int
	}{
		{"touching", 0, 1, 3},
		{"near", 1.5, 1, 4},
		{"far", 3, 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPath()
			segment(p, 0, 0, 10, 0)
			segment(p, 10+tt.gap, 0, 20, 0)
			got := p.ConnectEnds(1)
			if got.Len() != tt.wantLen {
				t.Fatalf("Len() = %d, want %d", got.Len(), tt.wantLen)
			}
			if n := got.Contours()[0].Len(); n != tt.wantSteps {
				t.Errorf("first contour Len() = %d, want %d", n, tt.wantSteps)
			}
			if got.Contours()[got.Len()-1].LastPoint() != Pt(20, 0) {
				t.Errorf("LastPoint() = %v, want (20,0)", got.Contours()[got.Len()-1].LastPoint())
			}
		})
	}
}

func TestPathSortCustom(t *testing.T) {
	p := NewPath()
	segment(p, 0, 0, 1, 0)
	segment(p, 100, 0, 101, 0)
	segment(p, 50, 50, 60, 50)
	segment(p, 2, 0, 3, 0)
	segment(p, 61, 50, 99, 1)

	got := p.SortCustom()
	want := []Point{Pt(0, 0), Pt(2, 0), Pt(50, 50), Pt(61, 50), Pt(100, 0)}
	if got.Len() != len(want) {
		t.Fatalf("Len() = %d, want %d", got.Len(), len(want))
	}
	for i, c := range got.Contours() {
		if c.FirstPoint() != want[i] {
			t.Errorf("contour %d starts at %v, want %v", i, c.FirstPoint(), want[i])
		}
	}
	if p.Contours()[1].FirstPoint() != Pt(100, 0) {
		t.Error("SortCustom reordered the receiver")
	}
}

func TestPathSortCustomSmall(t *testing.T) {
	p := NewPath()
	segment(p, 10, 0, 11, 0)
	segment(p, 0, 0, 1, 0)
	got := p.SortCustom()
	if got.Contours()[0].FirstPoint() != Pt(10, 0) {
		t.Error("two contours were reordered")
	}
}

func TestPathClipToBounds(t *testing.T) {
	p := NewPath()
	segment(p, -5, 2, 10, 2)
	segment(p, 20, 20, 30, 30)
	p.MoveTo(Pt(1, 1))
	p.LineTo(Pt(4, 1))
	p.LineTo(Pt(4, 4))

	got := p.ClipToBounds(Rect{Min: Pt(0, 0), Max: Pt(5, 5)}, 40)
	if got.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", got.Len())
	}
	first := got.Contours()[0]
	if first.FirstPoint() != Pt(0, 2) || first.LastPoint() != Pt(5, 2) {
		t.Errorf("clipped segment = %v..%v, want (0,2)..(5,2)", first.FirstPoint(), first.LastPoint())
	}
	if n := got.Contours()[1].Len(); n != 3 {
		t.Errorf("inside polyline Len() = %d, want 3", n)
	}
}
