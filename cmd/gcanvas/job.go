package main

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/gcanvas"
	"github.com/gogpu/gcanvas/gcode"
)

// Job holds the machining parameters of a conversion. It is read from a
// YAML job file; command line flags override single fields.
type Job struct {
	ToolDiameter float64   `yaml:"tool_diameter"`
	Depth        float64   `yaml:"depth"`
	DepthOfCut   float64   `yaml:"depth_of_cut"`
	Top          float64   `yaml:"top"`
	Feed         float64   `yaml:"feed"`
	Speed        float64   `yaml:"speed"`
	Coolant      string    `yaml:"coolant"`
	Unit         string    `yaml:"unit"`
	Align        string    `yaml:"align"`
	Ramping      bool      `yaml:"ramping"`
	Tool         int       `yaml:"tool"`
	Arcs         bool      `yaml:"arcs"`
	Clearance    float64   `yaml:"clearance"`
	Divisions    int       `yaml:"divisions"`
	Sort         bool      `yaml:"sort"`
	FlipY        bool      `yaml:"flip_y"`
	WorkArea     []float64 `yaml:"work_area"`
	Stream       string    `yaml:"stream"`
}

// LoadJob reads a job file. Unknown keys are an error so that typos do not
// silently fall back to defaults.
func LoadJob(path string) (Job, error) {
	var j Job
	f, err := os.Open(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return j, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&j); err != nil {
		return j, fmt.Errorf("job %s: %w", path, err)
	}
	return j, j.validate()
}

func (j Job) validate() error {
	var errs []error
	if j.Coolant != "" {
		if _, ok := gcode.ParseCoolant(j.Coolant); !ok {
			errs = append(errs, fmt.Errorf("unknown coolant %q", j.Coolant))
		}
	}
	if j.Unit != "" {
		if _, ok := gcode.ParseUnit(j.Unit); !ok {
			errs = append(errs, fmt.Errorf("unknown unit %q", j.Unit))
		}
	}
	if j.Align != "" {
		if _, ok := gcanvas.ParseAlign(j.Align); !ok {
			errs = append(errs, fmt.Errorf("unknown align %q", j.Align))
		}
	}
	if len(j.WorkArea) != 0 && len(j.WorkArea) != 4 {
		errs = append(errs, errors.New("work_area needs four numbers: x0 y0 x1 y1"))
	}
	if j.Stream != "" && !gcode.IsRegistered(j.Stream) {
		errs = append(errs, fmt.Errorf("unknown stream %q", j.Stream))
	}
	return errors.Join(errs...)
}

// merge returns j with every non-zero field of o taking precedence.
func (j Job) merge(o Job) Job {
	setF := func(dst *float64, v float64) {
		if v != 0 {
			*dst = v
		}
	}
	setS := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	setF(&j.ToolDiameter, o.ToolDiameter)
	setF(&j.Depth, o.Depth)
	setF(&j.DepthOfCut, o.DepthOfCut)
	setF(&j.Top, o.Top)
	setF(&j.Feed, o.Feed)
	setF(&j.Speed, o.Speed)
	setF(&j.Clearance, o.Clearance)
	setS(&j.Coolant, o.Coolant)
	setS(&j.Unit, o.Unit)
	setS(&j.Align, o.Align)
	setS(&j.Stream, o.Stream)
	if o.Tool != 0 {
		j.Tool = o.Tool
	}
	if o.Divisions != 0 {
		j.Divisions = o.Divisions
	}
	if o.WorkArea != nil {
		j.WorkArea = o.WorkArea
	}
	j.Ramping = j.Ramping || o.Ramping
	j.Arcs = j.Arcs || o.Arcs
	j.Sort = j.Sort || o.Sort
	j.FlipY = j.FlipY || o.FlipY
	return j
}

// resolve loads the job file, if any, and applies the flag overrides.
func resolve(path string, flags Job) (Job, error) {
	var j Job
	if path != "" {
		var err error
		if j, err = LoadJob(path); err != nil {
			return j, err
		}
	}
	j = j.merge(flags)
	return j, j.validate()
}

// options returns the canvas options for a job writing to stream.
func (j Job) options(stream gcode.Stream, mirror gcanvas.Mirror) []gcanvas.Option {
	opts := []gcanvas.Option{
		gcanvas.WithStream(stream),
		gcanvas.WithArcs(j.Arcs),
		gcanvas.WithSortContours(j.Sort),
		gcanvas.WithDivisions(j.Divisions),
	}
	if j.Clearance != 0 {
		opts = append(opts, gcanvas.WithClearance(j.Clearance))
	}
	if len(j.WorkArea) == 4 {
		a := j.WorkArea
		opts = append(opts, gcanvas.WithWorkArea(gcanvas.Rect{Min: gcanvas.Pt(a[0], a[1]), Max: gcanvas.Pt(a[2], a[3])}))
	}
	if mirror != nil {
		opts = append(opts, gcanvas.WithMirror(mirror))
	}
	return opts
}

// setup applies the machining state of j to c. The job must be valid.
func (j Job) setup(c *gcanvas.GCanvas) error {
	c.SetToolDiameter(j.ToolDiameter)
	c.SetDepth(j.Depth)
	c.SetDepthOfCut(j.DepthOfCut)
	c.SetTop(j.Top)
	c.SetFeed(j.Feed)
	c.SetSpeed(j.Speed)
	c.SetRamping(j.Ramping)
	if m, ok := gcode.ParseCoolant(j.Coolant); ok {
		c.SetCoolant(m)
	}
	if u, ok := gcode.ParseUnit(j.Unit); ok {
		c.SetUnit(u)
	}
	if a, ok := gcanvas.ParseAlign(j.Align); ok {
		c.SetAlign(a)
	}
	if j.Tool > 0 {
		return c.ToolChange(j.Tool)
	}
	return nil
}

func (j Job) streamName() string {
	if j.Stream == "" {
		return "text"
	}
	return j.Stream
}
