// Command gcanvas compiles SVG drawings into G-code.
//
//	gcanvas -t 3 -d 2 -o part.nc part.svg
//	gcanvas watch -j job.yaml -o part.nc part.svg
//	gcanvas preview -j job.yaml -o part.png part.svg
//
// Machining parameters come from an optional YAML job file; flags override
// single fields of it.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/tdewolff/argp"

	"github.com/gogpu/gcanvas"
	"github.com/gogpu/gcanvas/gcode"
)

// Convert compiles one file.
type Convert struct {
	Job        string  `short:"j" desc:"YAML job file"`
	Output     string  `short:"o" desc:"Output G-code file, stdout if empty"`
	Tool       float64 `short:"t" desc:"Tool diameter"`
	Depth      float64 `short:"d" desc:"Cut depth below the top"`
	DepthOfCut float64 `desc:"Depth of one pass, 0 for a single pass at the top"`
	Feed       float64 `short:"f" desc:"Feed rate in units per minute"`
	Arcs       bool    `desc:"Emit G2/G3 arcs"`
	FlipY      bool    `desc:"Flip the Y axis so that up in the drawing is +Y"`
	Stream     string  `desc:"Output stream: text or numbered"`
	Verbose    bool    `short:"v" desc:"Log to stderr"`
	Input      string  `index:"0" desc:"Input SVG file"`
}

// Watch recompiles a file whenever it or its job file changes.
type Watch Convert

// Preview renders the drawing and the toolpath to an image.
type Preview struct {
	Job     string  `short:"j" desc:"YAML job file"`
	Output  string  `short:"o" desc:"Output image: .png, .tif or .bmp"`
	Width   int     `default:"800" desc:"Image width in pixels"`
	Height  int     `default:"600" desc:"Image height in pixels"`
	Tool    float64 `short:"t" desc:"Tool diameter"`
	Depth   float64 `short:"d" desc:"Cut depth below the top"`
	FlipY   bool    `desc:"Flip the Y axis so that up in the drawing is +Y"`
	Verbose bool    `short:"v" desc:"Log to stderr"`
	Input   string  `index:"0" desc:"Input SVG file"`
}

// Streams lists the registered output streams.
type Streams struct{}

func main() {
	root := argp.NewCmd(&Convert{}, "SVG to G-code compiler "+gcanvas.Version)
	root.AddCmd(&Watch{}, "watch", "Recompile on change")
	root.AddCmd(&Preview{}, "preview", "Render a preview image")
	root.AddCmd(&Streams{}, "streams", "List output streams")
	root.Parse()
	root.PrintHelp()
}

// setupLogging installs a text logger on stderr. Without verbose only
// warnings are shown.
func setupLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelInfo
	}
	gcanvas.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func (cmd *Convert) flags() Job {
	return Job{
		ToolDiameter: cmd.Tool,
		Depth:        cmd.Depth,
		DepthOfCut:   cmd.DepthOfCut,
		Feed:         cmd.Feed,
		Arcs:         cmd.Arcs,
		FlipY:        cmd.FlipY,
		Stream:       cmd.Stream,
	}
}

func (cmd *Convert) Run() error {
	if cmd.Input == "" {
		return argp.ShowUsage
	}
	setupLogging(cmd.Verbose)

	job, err := resolve(cmd.Job, cmd.flags())
	if err != nil {
		return err
	}
	s, err := convert(job, cmd.Input, cmd.Output)
	if err != nil {
		return err
	}
	if cmd.Output != "" && cmd.Output != "-" {
		s.print(os.Stderr)
	}
	return nil
}

func (cmd *Streams) Run() error {
	for _, name := range gcode.Streams() {
		fmt.Println(name)
	}
	return nil
}
