package main

import (
	"image/color"
	"io"

	"github.com/tdewolff/argp"

	"github.com/gogpu/gcanvas"
	"github.com/gogpu/gcanvas/preview"
)

// extent collects the bounds of everything a canvas cuts.
type extent struct {
	divisions int
	r         gcanvas.Rect
}

func (e *extent) Stroke(p *gcanvas.Path, _ color.Color) { e.r = e.r.Union(p.Bounds(e.divisions)) }
func (e *extent) Fill(p *gcanvas.Path, _ color.Color)   { e.r = e.r.Union(p.Bounds(e.divisions)) }
func (e *extent) Toolpath(p *gcanvas.Path)              { e.r = e.r.Union(p.Bounds(e.divisions)) }

func (cmd *Preview) Run() error {
	if cmd.Input == "" || cmd.Output == "" {
		return argp.ShowUsage
	}
	setupLogging(cmd.Verbose)

	job, err := resolve(cmd.Job, Job{ToolDiameter: cmd.Tool, Depth: cmd.Depth, FlipY: cmd.FlipY})
	if err != nil {
		return err
	}
	p, err := render(job, cmd.Input, cmd.Width, cmd.Height)
	if err != nil {
		return err
	}
	return p.Save(cmd.Output)
}

// render compiles input twice: once to measure it and once to draw it.
// The work area of the job, if set, is shown instead of the measured
// bounds.
func render(job Job, input string, width, height int) (*preview.Preview, error) {
	area := gcanvas.Rect{}
	if len(job.WorkArea) == 4 {
		a := job.WorkArea
		area = gcanvas.Rect{Min: gcanvas.Pt(a[0], a[1]), Max: gcanvas.Pt(a[2], a[3])}
	} else {
		e := &extent{divisions: divisions(job)}
		if _, err := compile(job, input, io.Discard, e); err != nil {
			return nil, err
		}
		area = margin(e.r, 0.05)
	}

	// SVG is drawn with Y down unless flipped, and the preview follows it.
	p := preview.New(width, height, area, preview.WithFlipY(job.FlipY), preview.WithDivisions(divisions(job)))
	if _, err := compile(job, input, io.Discard, p); err != nil {
		return nil, err
	}
	return p, nil
}

func divisions(job Job) int {
	if job.Divisions > 0 {
		return job.Divisions
	}
	return gcanvas.DefaultGeometry().Divisions
}

// margin grows r by a fraction of its larger side.
func margin(r gcanvas.Rect, f float64) gcanvas.Rect {
	d := f * max(r.Width(), r.Height())
	return gcanvas.Rect{Min: r.Min.Sub(gcanvas.Pt(d, d)), Max: r.Max.Add(gcanvas.Pt(d, d))}
}
