package path

import (
	"math"
	"testing"
)

func TestSweep(t *testing.T) {
	tests := []struct {
		name       string
		start, end float64
		ccw        bool
		want       float64
	}{
		{"quarter", 0, math.Pi / 2, false, math.Pi / 2},
		{"quarter ccw", 0, math.Pi / 2, true, -3 * math.Pi / 2},
		{"backwards wraps", math.Pi / 2, 0, false, 3 * math.Pi / 2},
		{"backwards ccw", math.Pi / 2, 0, true, -math.Pi / 2},
		{"full turn", 0, 2 * math.Pi, false, 2 * math.Pi},
		{"full turn ccw", 0, 2 * math.Pi, true, -2 * math.Pi},
		{"negative full turn", 0, -2 * math.Pi, false, 2 * math.Pi},
		{"same angle", 1, 1, false, 0},
		{"same angle ccw", 1, 1, true, 0},
		{"more than a turn", 0, 5 * math.Pi, false, math.Pi},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sweep(tt.start, tt.end, tt.ccw)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Sweep(%v, %v, %v) = %v, want %v", tt.start, tt.end, tt.ccw, got, tt.want)
			}
		})
	}
}

func TestSampleCubicEndpoints(t *testing.T) {
	p0, p1, p2, p3 := Point{0, 0}, Point{0, 10}, Point{10, 10}, Point{10, 0}
	pts := SampleCubic(p0, p1, p2, p3, 8)
	if len(pts) != 8 {
		t.Fatalf("len(SampleCubic) = %d, want 8", len(pts))
	}
	if pts[7] != p3 {
		t.Errorf("last sample = %v, want %v", pts[7], p3)
	}
	mid := Cubic(p0, p1, p2, p3, 0.5)
	if math.Abs(mid.X-5) > 1e-12 || math.Abs(mid.Y-7.5) > 1e-12 {
		t.Errorf("Cubic(0.5) = %v, want (5, 7.5)", mid)
	}
}

func TestSampleQuad(t *testing.T) {
	pts := SampleQuad(Point{0, 0}, Point{5, 10}, Point{10, 0}, 2)
	want := []Point{{5, 5}, {10, 0}}
	for i := range want {
		if pts[i] != want[i] {
			t.Errorf("SampleQuad()[%d] = %v, want %v", i, pts[i], want[i])
		}
	}
}

func TestSampleEllipse(t *testing.T) {
	pts := SampleEllipse(Point{0, 0}, 2, 1, 0, 0, math.Pi, 2)
	want := []Point{{0, 1}, {-2, 0}}
	for i := range want {
		if pts[i].Distance(want[i]) > 1e-12 {
			t.Errorf("SampleEllipse()[%d] = %v, want %v", i, pts[i], want[i])
		}
	}
	rot := EllipseAt(Point{1, 1}, 2, 1, math.Pi/2, 0)
	if rot.Distance(Point{1, 3}) > 1e-12 {
		t.Errorf("EllipseAt() rotated = %v, want (1, 3)", rot)
	}
	if l := PolylineLength([]Point{{0, 0}, {3, 4}, {3, 0}}); l != 9 {
		t.Errorf("PolylineLength() = %v, want 9", l)
	}
}
