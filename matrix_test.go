package gcanvas

import (
	"math"
	"testing"
)

func TestMatrixTransformPoint(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix
		in   Point
		want Point
	}{
		{"identity", Identity(), Pt(3, 4), Pt(3, 4)},
		{"translate", Translate(10, -2), Pt(1, 1), Pt(11, -1)},
		{"scale", Scale(2, 3), Pt(1, 1), Pt(2, 3)},
		{"rotate 90deg", Rotate(math.Pi / 2), Pt(1, 0), Pt(0, 1)},
		{"shear x", Shear(1, 0), Pt(1, 1), Pt(2, 1)},
		{"rotate about", RotateAbout(math.Pi, 5, 5), Pt(0, 0), Pt(10, 10)},
		{"scale about", ScaleAbout(2, 2, 1, 1), Pt(2, 2), Pt(3, 3)},
		{"aux axis kept", Translate(1, 1), Point{X: 0, Y: 0, A: 7}, Point{X: 1, Y: 1, A: 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.m.TransformPoint(tt.in)
			if !got.Equals(tt.want) {
				t.Errorf("TransformPoint(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMatrixMultiplyOrder(t *testing.T) {
	// m.Multiply(n) applies n first.
	m := Translate(10, 0).Multiply(Scale(2, 2))
	got := m.TransformPoint(Pt(1, 1))
	if want := Pt(12, 2); !got.Equals(want) {
		t.Errorf("Translate*Scale on (1,1) = %v, want %v", got, want)
	}
}

func TestMatrixInvert(t *testing.T) {
	m := Translate(3, 4).Multiply(Rotate(0.3)).Multiply(Scale(2, 0.5))
	inv, ok := m.Invert()
	if !ok {
		t.Fatal("Invert() ok = false, want true")
	}
	p := Pt(7, -2)
	if got := inv.TransformPoint(m.TransformPoint(p)); !got.Equals(p) {
		t.Errorf("inv(m(p)) = %v, want %v", got, p)
	}
}

func TestMatrixInvertSingular(t *testing.T) {
	inv, ok := Scale(0, 1).Invert()
	if ok {
		t.Error("Invert() of singular matrix ok = true, want false")
	}
	if !inv.IsIdentity() {
		t.Errorf("Invert() of singular matrix = %+v, want identity", inv)
	}
}

func TestMatrixScaleFactor(t *testing.T) {
	tests := []struct {
		m    Matrix
		want float64
	}{
		{Identity(), 1},
		{Scale(2, 2), 2},
		{Scale(4, 1), 2},
		{Rotate(1.2).Multiply(Scale(3, 3)), 3},
		{Scale(-2, 2), 2},
	}
	for _, tt := range tests {
		if got := tt.m.ScaleFactor(); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Matrix%+v.ScaleFactor() = %v, want %v", tt.m, got, tt.want)
		}
	}
	if !Scale(-1, 1).Flips() {
		t.Error("Scale(-1, 1).Flips() = false, want true")
	}
}
