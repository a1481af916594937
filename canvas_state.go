package gcanvas

import (
	"fmt"
	"image/color"

	"github.com/gogpu/gcanvas/gcode"
)

// Align selects where the tool centerline runs relative to a stroked line.
type Align int

const (
	// AlignCenter runs the tool along the line itself.
	AlignCenter Align = iota
	// AlignOuter runs the tool outside the shape, half a diameter away.
	AlignOuter
	// AlignInner runs the tool inside the shape, half a diameter away.
	AlignInner
)

// String returns the lower-case name of the alignment.
func (a Align) String() string {
	switch a {
	case AlignOuter:
		return "outer"
	case AlignInner:
		return "inner"
	default:
		return "center"
	}
}

// ParseAlign parses "center", "outer" or "inner".
func ParseAlign(s string) (Align, bool) {
	switch s {
	case "center":
		return AlignCenter, true
	case "outer":
		return AlignOuter, true
	case "inner":
		return AlignInner, true
	}
	return AlignCenter, false
}

// State is the graphics and machining state saved and restored as a unit
// by Save and Restore.
type State struct {
	// Transform maps user coordinates to machine coordinates.
	Transform Matrix

	StrokeStyle color.Color
	FillStyle   color.Color
	LineWidth   float64

	// Depth is how far below Top strokes and fills cut.
	Depth float64
	// DepthOfCut is the maximum depth of a single pass; 0 cuts in one pass.
	DepthOfCut   float64
	ToolDiameter float64
	Align        Align
	// Ramping descends along closed contours instead of plunging.
	Ramping bool
	// Top is the depth of the material surface below Z0.
	Top float64

	Unit    gcode.Unit
	Feed    float64
	Speed   float64
	Coolant gcode.Coolant
	// AtcTool is the tool number for the automatic tool changer; 0 is none.
	AtcTool int

	clip *Path
}

// DefaultState returns the state of a new canvas: identity transform,
// black stroke and fill, millimeters and no tool.
func DefaultState() State {
	return State{
		Transform:   Identity(),
		StrokeStyle: color.Black,
		FillStyle:   color.Black,
		LineWidth:   1,
		Unit:        gcode.UnitMM,
	}
}

// Save pushes the current state.
func (c *GCanvas) Save() {
	c.stack = append(c.stack, c.state)
}

// Restore pops the state pushed by the matching Save.
func (c *GCanvas) Restore() error {
	if len(c.stack) == 0 {
		return fmt.Errorf("restore: %w", ErrUnbalancedRestore)
	}
	c.state = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	return nil
}

// State returns a copy of the current state.
func (c *GCanvas) State() State {
	return c.state
}

// SetState replaces the current state, keeping the clip region.
func (c *GCanvas) SetState(s State) {
	s.clip = c.state.clip
	c.state = s
}

// Translate moves the origin of subsequent drawing by (x, y).
func (c *GCanvas) Translate(x, y float64) {
	c.state.Transform = c.state.Transform.Multiply(Translate(x, y))
}

// Scale scales subsequent drawing.
func (c *GCanvas) Scale(x, y float64) {
	c.state.Transform = c.state.Transform.Multiply(Scale(x, y))
}

// Rotate rotates subsequent drawing by angle radians.
func (c *GCanvas) Rotate(angle float64) {
	c.state.Transform = c.state.Transform.Multiply(Rotate(angle))
}

// Transform applies m before the current transform.
func (c *GCanvas) Transform(m Matrix) {
	c.state.Transform = c.state.Transform.Multiply(m)
}

// SetTransform replaces the current transform.
func (c *GCanvas) SetTransform(m Matrix) {
	c.state.Transform = m
}

// ResetTransform restores the identity transform.
func (c *GCanvas) ResetTransform() {
	c.state.Transform = Identity()
}

// SetStrokeStyle sets the stroke color. A transparent color disables strokes.
func (c *GCanvas) SetStrokeStyle(col color.Color) { c.state.StrokeStyle = col }

// SetFillStyle sets the fill color. A transparent color disables fills.
func (c *GCanvas) SetFillStyle(col color.Color) { c.state.FillStyle = col }

// SetLineWidth sets the line width used by preview mirrors.
func (c *GCanvas) SetLineWidth(w float64) { c.state.LineWidth = w }

// SetDepth sets the cutting depth below the material top.
func (c *GCanvas) SetDepth(d float64) { c.state.Depth = d }

// SetDepthOfCut sets the maximum depth of a single pass.
func (c *GCanvas) SetDepthOfCut(d float64) { c.state.DepthOfCut = d }

// SetToolDiameter sets the tool diameter used for alignment and fills.
func (c *GCanvas) SetToolDiameter(d float64) { c.state.ToolDiameter = d }

// SetAlign sets the stroke alignment.
func (c *GCanvas) SetAlign(a Align) { c.state.Align = a }

// SetRamping enables ramping into closed contours.
func (c *GCanvas) SetRamping(on bool) { c.state.Ramping = on }

// SetTop sets the depth of the material surface.
func (c *GCanvas) SetTop(top float64) { c.state.Top = top }

// SetUnit sets the machine unit.
func (c *GCanvas) SetUnit(u gcode.Unit) { c.state.Unit = u }

// SetFeed sets the feed setting.
func (c *GCanvas) SetFeed(f float64) { c.state.Feed = f }

// SetSpeed sets the spindle speed; 0 stops the spindle.
func (c *GCanvas) SetSpeed(rpm float64) { c.state.Speed = rpm }

// SetCoolant sets the coolant mode.
func (c *GCanvas) SetCoolant(m gcode.Coolant) { c.state.Coolant = m }
