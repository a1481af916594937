package gcanvas

import (
	"errors"
	"image/color"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/gcanvas/gcode"
)

// motionLines keeps the G0 and G1 lines of the output.
func motionLines(out string) []string {
	var lines []string
	for _, l := range strings.Split(strings.TrimSpace(out), "\n") {
		if strings.HasPrefix(l, "G0 ") || strings.HasPrefix(l, "G1 ") {
			lines = append(lines, l)
		}
	}
	return lines
}

type recordingMirror struct {
	strokes, fills int
	toolpaths      []*Path
}

func (m *recordingMirror) Stroke(*Path, color.Color) { m.strokes++ }
func (m *recordingMirror) Fill(*Path, color.Color)   { m.fills++ }
func (m *recordingMirror) Toolpath(p *Path)          { m.toolpaths = append(m.toolpaths, p) }

func TestStrokeRectEndToEnd(t *testing.T) {
	c := New()
	c.SetToolDiameter(1)
	c.SetAlign(AlignCenter)
	c.SetDepth(0)
	start, _ := c.Motion().Position()

	if err := c.StrokeRect(0, 0, 10, 10); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"G0 Z1",
		"G0 X0 Y0",
		"G0 Z0",
		"G1 X10",
		"G1 Y10",
		"G1 X0",
		"G1 Y0",
		"G0 Z1",
	}
	if diff := cmp.Diff(want, motionLines(c.Output())); diff != "" {
		t.Errorf("motion mismatch (-want +got):\n%s", diff)
	}
	if !strings.HasPrefix(c.Output(), "G21\n(tooldiameter=1)\n") {
		t.Errorf("output does not start with unit and tool: %q", c.Output())
	}
	if end, _ := c.Motion().Position(); end.X != start.X || end.Y != start.Y {
		t.Errorf("final position = %v, want %v", end, start)
	}
	if !c.Path().Empty() {
		t.Error("StrokeRect changed the current path")
	}
}

func TestStrokeTransparentIsNoop(t *testing.T) {
	c := New()
	c.SetStrokeStyle(color.Transparent)
	c.Rect(0, 0, 5, 5)
	if err := c.Stroke(); err != nil {
		t.Fatal(err)
	}
	c.SetFillStyle(color.Transparent)
	if err := c.Fill(); err != nil {
		t.Fatal(err)
	}
	if got := c.Output(); got != "" {
		t.Errorf("Output() = %q, want empty", got)
	}
}

func TestFillRequiresToolDiameter(t *testing.T) {
	c := New()
	c.Rect(0, 0, 5, 5)
	if err := c.Fill(); !errors.Is(err, ErrNoToolDiameter) {
		t.Errorf("Fill() error = %v, want ErrNoToolDiameter", err)
	}
}

func TestRestoreUnbalanced(t *testing.T) {
	c := New()
	c.Save()
	if err := c.Restore(); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if err := c.Restore(); !errors.Is(err, ErrUnbalancedRestore) {
		t.Errorf("Restore() error = %v, want ErrUnbalancedRestore", err)
	}
}

func TestClosePathWithoutContour(t *testing.T) {
	c := New()
	if err := c.ClosePath(); !errors.Is(err, ErrNoCurrentPath) {
		t.Errorf("ClosePath() error = %v, want ErrNoCurrentPath", err)
	}
	c.MoveTo(0, 0)
	c.LineTo(1, 0)
	if err := c.ClosePath(); err != nil {
		t.Errorf("ClosePath() error = %v", err)
	}
}

func TestSaveRestoreState(t *testing.T) {
	c := New()
	c.SetDepth(3)
	c.Translate(5, 5)
	c.Save()
	c.SetDepth(7)
	c.Rotate(math.Pi / 2)
	c.SetFeed(100)
	if err := c.Restore(); err != nil {
		t.Fatal(err)
	}
	s := c.State()
	if s.Depth != 3 || s.Feed != 0 {
		t.Errorf("restored Depth, Feed = %v, %v, want 3, 0", s.Depth, s.Feed)
	}
	if s.Transform != Translate(5, 5) {
		t.Errorf("restored Transform = %v, want translate(5,5)", s.Transform)
	}
}

func TestTransformAppliesToRecordedPoints(t *testing.T) {
	c := New()
	c.Translate(10, 0)
	c.Scale(2, 2)
	c.MoveTo(1, 1)
	c.LineTo(2, 1)
	c.Arc(0, 0, 1, 0, math.Pi, false)

	ct := c.Path().Contours()[0]
	if got := ct.FirstPoint(); !got.Equals(Pt(12, 2)) {
		t.Errorf("FirstPoint() = %v, want (12,2)", got)
	}
	e, ok := ct.Actions()[len(ct.Actions())-1].(Ellipse)
	if !ok {
		t.Fatal("arc not recorded as an ellipse")
	}
	if !e.Center.Equals(Pt(10, 0)) || e.RX != 2 {
		t.Errorf("arc = %+v, want center (10,0) radius 2", e)
	}
}

func TestSkewedArcIsSampled(t *testing.T) {
	c := New(WithDivisions(8))
	c.Scale(2, 1)
	c.Arc(0, 0, 1, 0, math.Pi, false)
	ct := c.Path().Contours()[0]
	for _, a := range ct.Actions() {
		if _, ok := a.(Ellipse); ok {
			t.Fatal("unevenly scaled arc recorded as an ellipse")
		}
	}
	if ct.Len() != 9 {
		t.Errorf("Len() = %d, want 9", ct.Len())
	}
	if got := ct.LastPoint(); !got.Equals(Pt(-2, 0)) {
		t.Errorf("LastPoint() = %v, want (-2,0)", got)
	}
}

func TestArcTo(t *testing.T) {
	t.Run("fillet", func(t *testing.T) {
		c := New()
		c.MoveTo(0, 0)
		c.ArcTo(10, 0, 10, 10, 2)
		acts := c.Path().Contours()[0].Actions()
		if len(acts) != 3 {
			t.Fatalf("got %d actions, want 3", len(acts))
		}
		if got := acts[1].EndPoint(); !got.Equals(Pt(8, 0)) {
			t.Errorf("tangent point = %v, want (8,0)", got)
		}
		e := acts[2].(Ellipse)
		if !e.Center.Equals(Pt(8, 2)) || e.RX != 2 {
			t.Errorf("fillet = %+v, want center (8,2) radius 2", e)
		}
		if got := e.EndPoint(); !got.Equals(Pt(10, 2)) {
			t.Errorf("fillet ends at %v, want (10,2)", got)
		}
		if math.Abs(math.Abs(e.Sweep())-math.Pi/2) > 1e-9 {
			t.Errorf("fillet sweep = %v, want quarter turn", e.Sweep())
		}
	})
	t.Run("collinear", func(t *testing.T) {
		c := New()
		c.MoveTo(0, 0)
		c.ArcTo(5, 0, 10, 0, 2)
		acts := c.Path().Contours()[0].Actions()
		if len(acts) != 2 {
			t.Fatalf("got %d actions, want 2", len(acts))
		}
		if _, ok := acts[1].(LineTo); !ok || !acts[1].EndPoint().Equals(Pt(5, 0)) {
			t.Errorf("collinear ArcTo = %+v, want LineTo (5,0)", acts[1])
		}
	})
	t.Run("no current point", func(t *testing.T) {
		c := New()
		c.ArcTo(5, 5, 10, 0, 2)
		if got := c.Path().Contours()[0].FirstPoint(); !got.Equals(Pt(5, 5)) {
			t.Errorf("FirstPoint() = %v, want (5,5)", got)
		}
	})
}

func TestLayering(t *testing.T) {
	tests := []struct {
		name       string
		depth, doc float64
		ramping    bool
		want       []string
	}{
		{"single pass on the surface", 2, 0, false, nil},
		{"stepped", 2.5, 1, false, []string{"G1 Z-1", "G1 Z-2", "G1 Z-2.5"}},
		{"exact steps", 2, 1, false, []string{"G1 Z-1", "G1 Z-2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			c.SetToolDiameter(1)
			c.SetDepthOfCut(tt.doc)
			c.SetDepth(tt.depth)
			if err := c.StrokeRect(0, 0, 10, 10); err != nil {
				t.Fatal(err)
			}
			var got []string
			for _, l := range motionLines(c.Output()) {
				if strings.HasPrefix(l, "G1 Z") {
					got = append(got, l)
				}
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("plunges mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLayeringWithoutDepthOfCutCutsAtTop(t *testing.T) {
	tests := []struct {
		name string
		top  float64
		want string
	}{
		{"surface", 0, "G0 Z0\n"},
		{"raised stock", -1.5, "G0 Z1.5\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			c.SetDepth(3)
			c.SetTop(tt.top)
			if err := c.StrokeRect(0, 0, 10, 10); err != nil {
				t.Fatal(err)
			}
			out := c.Output()
			if !strings.Contains(out, tt.want) || strings.Contains(out, "Z-3") {
				t.Errorf("output does not cut at the top:\n%s", out)
			}
		})
	}
}

func TestLayeringRampingAddsFinishingPass(t *testing.T) {
	c := New()
	c.SetToolDiameter(1)
	c.SetDepthOfCut(1)
	c.SetDepth(2)
	c.SetRamping(true)
	if err := c.StrokeRect(0, 0, 10, 10); err != nil {
		t.Fatal(err)
	}
	// two ramped passes and one flat pass, four sides each
	var cuts int
	for _, l := range motionLines(c.Output()) {
		if strings.HasPrefix(l, "G1 ") {
			cuts++
		}
	}
	if cuts != 12 {
		t.Errorf("got %d cutting moves, want 12:\n%s", cuts, c.Output())
	}
	if !strings.Contains(c.Output(), "G1 Y0 Z-2\n") {
		t.Errorf("ramp does not reach full depth:\n%s", c.Output())
	}
}

func TestStrokeAlignment(t *testing.T) {
	tests := []struct {
		align Align
		want  Rect
	}{
		{AlignCenter, Rect{Min: Pt(0, 0), Max: Pt(10, 10)}},
		{AlignOuter, Rect{Min: Pt(-1, -1), Max: Pt(11, 11)}},
		{AlignInner, Rect{Min: Pt(1, 1), Max: Pt(9, 9)}},
	}
	for _, tt := range tests {
		t.Run(tt.align.String(), func(t *testing.T) {
			m := &recordingMirror{}
			c := New(WithMirror(m))
			c.SetToolDiameter(2)
			c.SetAlign(tt.align)
			if err := c.StrokeRect(0, 0, 10, 10); err != nil {
				t.Fatal(err)
			}
			if len(m.toolpaths) != 1 || m.strokes != 1 {
				t.Fatalf("mirror saw %d toolpaths, %d strokes", len(m.toolpaths), m.strokes)
			}
			tp := m.toolpaths[0]
			boundsNear(t, tp.Bounds(40), tt.want, 1e-9)
			a := signedArea(tp.Contours()[0].Points(40))
			if tt.align == AlignInner && a > 0 {
				t.Errorf("inner toolpath area = %v, want clockwise", a)
			}
			if tt.align == AlignOuter && a < 0 {
				t.Errorf("outer toolpath area = %v, want counter-clockwise", a)
			}
		})
	}
}

func TestStrokeAlignmentCollapse(t *testing.T) {
	c := New()
	c.SetToolDiameter(4)
	c.SetAlign(AlignInner)
	if err := c.StrokeRect(0, 0, 3, 3); err != nil {
		t.Fatalf("StrokeRect() error = %v", err)
	}
	if got := c.Output(); got != "" {
		t.Errorf("collapsed inner stroke emitted %q", got)
	}
}

func TestFillCircle(t *testing.T) {
	m := &recordingMirror{}
	c := New(WithMirror(m), WithArcs(true))
	c.SetToolDiameter(2)
	if err := c.FillCircle(0, 0, 5); err != nil {
		t.Fatal(err)
	}
	if m.fills != 1 || len(m.toolpaths) != 1 {
		t.Fatalf("mirror saw %d fills, %d toolpaths", m.fills, len(m.toolpaths))
	}
	if n := strings.Count(c.Output(), "G2 ") + strings.Count(c.Output(), "G3 "); n != 4 {
		t.Errorf("got %d arc moves, want 4:\n%s", n, c.Output())
	}
}

func TestFillRespectsClip(t *testing.T) {
	m := &recordingMirror{}
	c := New(WithMirror(m))
	c.SetToolDiameter(1)
	c.Rect(0, 0, 5, 5)
	c.Clip()
	c.BeginPath()
	c.Rect(0, 0, 20, 20)
	if err := c.Fill(); err != nil {
		t.Fatal(err)
	}
	b := m.toolpaths[0].Bounds(40)
	if b.Max.X > 5 || b.Max.Y > 5 {
		t.Errorf("fill escaped the clip region: %v", b)
	}

	c.ResetClip()
	if err := c.Fill(); err != nil {
		t.Fatal(err)
	}
	if b := m.toolpaths[1].Bounds(40); b.Max.X < 19 {
		t.Errorf("ResetClip did not widen the fill: %v", b)
	}
}

func TestWorkArea(t *testing.T) {
	c := New(WithWorkArea(Rect{Min: Pt(0, 0), Max: Pt(5, 5)}))
	c.MoveTo(-5, 2)
	c.LineTo(10, 2)
	if err := c.Stroke(); err != nil {
		t.Fatal(err)
	}
	want := []string{"G0 Z1", "G0 X0 Y2", "G0 Z0", "G1 X5", "G0 Z1"}
	if diff := cmp.Diff(want, motionLines(c.Output())); diff != "" {
		t.Errorf("motion mismatch (-want +got):\n%s", diff)
	}
}

func TestSortContours(t *testing.T) {
	c := New(WithSortContours(true))
	for _, x := range []float64{0, 100, 2} {
		c.MoveTo(x, 0)
		c.LineTo(x+1, 0)
	}
	if err := c.Stroke(); err != nil {
		t.Fatal(err)
	}
	var rapids []string
	for _, l := range motionLines(c.Output()) {
		if strings.HasPrefix(l, "G0 X") {
			rapids = append(rapids, l)
		}
	}
	want := []string{"G0 X0 Y0", "G0 X2", "G0 X100"}
	if diff := cmp.Diff(want, rapids); diff != "" {
		t.Errorf("rapid order mismatch (-want +got):\n%s", diff)
	}
}

func TestSortContoursShiftsEntry(t *testing.T) {
	m := &recordingMirror{}
	c := New(WithSortContours(true), WithMirror(m))
	_ = c.Zero(9, 11, 0)
	c.Rect(0, 0, 10, 10)
	if err := c.Stroke(); err != nil {
		t.Fatal(err)
	}
	if got := m.toolpaths[0].Contours()[0].FirstPoint(); !got.Equals(Pt(10, 10)) {
		t.Errorf("entry point = %v, want (10,10)", got)
	}
}

func TestMachineCommands(t *testing.T) {
	c := New()
	c.SetSpeed(10000)
	_ = c.Comment("job (1)")
	_ = c.ToolChange(3)
	_ = c.Flush()
	want := []string{
		"(job [1])",
		"G21",
		"M3 S10000",
		"G0 Z1",
		"M6 T3",
		"M5",
	}
	got := strings.Split(strings.TrimSpace(c.Output()), "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestResetClearsOutput(t *testing.T) {
	c := New()
	c.SetToolDiameter(1)
	_ = c.StrokeRect(0, 0, 1, 1)
	c.Translate(3, 3)
	if err := c.Reset(); err != nil {
		t.Fatal(err)
	}
	if c.Output() != "" {
		t.Errorf("Output() after Reset = %q", c.Output())
	}
	if !c.State().Transform.IsIdentity() {
		t.Error("Reset kept the transform")
	}
}

func TestWithStream(t *testing.T) {
	var sb strings.Builder
	c := New(WithStream(gcode.NewNumberedStream(&sb)))
	c.SetToolDiameter(1)
	_ = c.StrokeRect(0, 0, 1, 1)
	if c.Output() != "" {
		t.Error("Output() should be empty with a caller stream")
	}
	if !strings.HasPrefix(sb.String(), "N10 G21\n") {
		t.Errorf("stream output = %q", sb.String())
	}
}
