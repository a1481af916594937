package gcanvas

import "github.com/gogpu/gcanvas/gcode"

// Option configures a GCanvas during creation.
//
// Example:
//
//	// Write G-code to stdout with native arcs
//	gc := gcanvas.New(gcanvas.WithStream(gcode.NewTextStream(os.Stdout)), gcanvas.WithArcs(true))
type Option func(*options)

// options holds optional configuration for GCanvas creation.
type options struct {
	stream       gcode.Stream
	serializer   *gcode.Serializer
	arcs         bool
	geometry     Geometry
	clearance    float64
	sortContours bool
	workArea     *Rect
	mirror       Mirror
}

func defaultOptions() options {
	return options{
		geometry:  DefaultGeometry(),
		clearance: 1,
	}
}

// WithStream sets the output stream. Without it commands are collected in
// a gcode.MemoryStream, available through GCanvas.Stream.
func WithStream(s gcode.Stream) Option {
	return func(o *options) {
		o.stream = s
	}
}

// WithSerializer sets a preconfigured serializer. It takes precedence over
// WithStream and WithArcs.
func WithSerializer(s *gcode.Serializer) Option {
	return func(o *options) {
		o.serializer = s
	}
}

// WithArcs enables native G2/G3 arc output for circular arcs.
func WithArcs(enabled bool) Option {
	return func(o *options) {
		o.arcs = enabled
	}
}

// WithDivisions sets how many segments each curve is sampled into.
// Values below 1 are ignored.
func WithDivisions(n int) Option {
	return func(o *options) {
		if n >= 1 {
			o.geometry.Divisions = n
		}
	}
}

// WithScale sets the fixed-point scale used by boolean and offset
// operations. Non-positive values are ignored.
func WithScale(scale float64) Option {
	return func(o *options) {
		if scale > 0 {
			o.geometry.Scale = scale
		}
	}
}

// WithClearance sets the retract height above the material top.
func WithClearance(c float64) Option {
	return func(o *options) {
		o.clearance = c
	}
}

// WithSortContours reorders the contours of every stroke to shorten
// travel between them.
func WithSortContours(enabled bool) Option {
	return func(o *options) {
		o.sortContours = enabled
	}
}

// WithWorkArea clips all toolpaths to r.
func WithWorkArea(r Rect) Option {
	return func(o *options) {
		o.workArea = &r
	}
}

// WithMirror forwards transformed drawing and toolpath geometry to m.
func WithMirror(m Mirror) Option {
	return func(o *options) {
		o.mirror = m
	}
}
