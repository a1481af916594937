package gcanvas

import (
	"image/color"
	"testing"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in     string
		want   color.Color
		wantOK bool
	}{
		{"#f00", color.NRGBA{255, 0, 0, 255}, true},
		{"#F00", color.NRGBA{255, 0, 0, 255}, true},
		{"#0f08", color.NRGBA{0, 255, 0, 136}, true},
		{"#336699", color.NRGBA{0x33, 0x66, 0x99, 255}, true},
		{"#33669900", color.NRGBA{0x33, 0x66, 0x99, 0}, true},
		{"red", color.RGBA{255, 0, 0, 255}, true},
		{" Black ", color.RGBA{0, 0, 0, 255}, true},
		{"none", color.Transparent, true},
		{"transparent", color.Transparent, true},
		{"#12", nil, false},
		{"#zzz", nil, false},
		{"notacolor", nil, false},
		{"", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseColor(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("ParseColor(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			r1, g1, b1, a1 := got.RGBA()
			r2, g2, b2, a2 := tt.want.RGBA()
			if r1 != r2 || g1 != g2 || b1 != b2 || a1 != a2 {
				t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTransparent(t *testing.T) {
	tests := []struct {
		name string
		c    color.Color
		want bool
	}{
		{"nil", nil, true},
		{"transparent", color.Transparent, true},
		{"zero alpha", color.NRGBA{255, 255, 255, 0}, true},
		{"black", color.Black, false},
		{"faint", color.NRGBA{0, 0, 0, 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Transparent(tt.c); got != tt.want {
				t.Errorf("Transparent(%v) = %v, want %v", tt.c, got, tt.want)
			}
		})
	}
}
