// Package gcanvas compiles vector drawing into G-code.
//
// # Overview
//
// A GCanvas offers the drawing API of an HTML canvas: paths made of lines,
// Bezier curves and elliptical arcs, transforms, a save/restore state stack
// and stroke/fill calls. Instead of painting pixels it turns every stroke
// and fill into toolpaths for a milling machine and writes the G-code to a
// gcode.Stream.
//
// # Quick Start
//
//	c := gcanvas.New()
//	c.SetToolDiameter(3)
//	c.SetDepth(2)
//	c.SetDepthOfCut(0.5)
//	c.SetFeed(600)
//
//	c.Circle(50, 50, 20)
//	if err := c.Fill(); err != nil {
//		return err
//	}
//	c.Flush()
//	fmt.Print(c.Output())
//
// # Cutting
//
// Stroke runs the tool along the path, centered or offset to the outside
// or inside by half a tool diameter (see Align). Fill clears the inside of
// the path with concentric passes one tool diameter apart. Both descend in
// layers of DepthOfCut down to Depth below Top, optionally ramping into the
// material instead of plunging. With a zero DepthOfCut every path is cut
// once at Top, which suits pens and lasers.
//
// Feed rates are written in inverse-time mode (G93), so every move carries
// the time it should take.
//
// # Coordinate System
//
// Drawing coordinates are transformed by the current matrix into machine
// coordinates. Positive depths cut below the top of the stock, which is at
// machine Z = -Top. Angles are in radians; without ccw an arc runs towards
// increasing angles.
//
// # Sub-packages
//
//   - gcode: command serialization and output streams
//   - svg: an SVG front end driving a GCanvas
//   - preview: raster previews of strokes, fills and toolpaths
package gcanvas

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
