package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/transform"

	"github.com/gogpu/gcanvas"
	"github.com/gogpu/gcanvas/gcode"
	"github.com/gogpu/gcanvas/svg"
)

// summary describes one conversion.
type summary struct {
	Input   string
	Lines   int
	Bytes   int
	Elapsed time.Duration
}

func (s summary) print(w io.Writer) {
	p := message.NewPrinter(language.English)
	p.Fprintf(w, "%s: %d lines, %d bytes in %v\n", filepath.Base(s.Input), s.Lines, s.Bytes, s.Elapsed.Round(time.Millisecond))
}

// counter counts the bytes and lines written through it.
type counter struct {
	w            io.Writer
	lines, bytes int
}

func (c *counter) Write(b []byte) (int, error) {
	n, err := c.w.Write(b)
	c.bytes += n
	c.lines += bytes.Count(b[:n], []byte{'\n'})
	return n, err
}

// compile converts the SVG file input to G-code on w. A byte order mark
// selects the input encoding; without one the input is read as UTF-8.
func compile(job Job, input string, w io.Writer, mirror gcanvas.Mirror) (summary, error) {
	start := time.Now()
	s := summary{Input: input}

	f, err := os.Open(input) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return s, err
	}
	defer f.Close()

	cw := &counter{w: w}
	stream, err := gcode.NewStream(job.streamName(), cw)
	if err != nil {
		return s, err
	}
	c := gcanvas.New(job.options(stream, mirror)...)
	if err := c.Comment("gcanvas " + filepath.Base(input)); err != nil {
		return s, err
	}
	if err := job.setup(c); err != nil {
		return s, err
	}

	r := transform.NewReader(f, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	if err := svg.Decode(r, c, svg.WithFlipY(job.FlipY)); err != nil {
		return s, fmt.Errorf("%s: %w", input, err)
	}
	if err := c.Flush(); err != nil {
		return s, err
	}

	s.Lines, s.Bytes = cw.lines, cw.bytes
	s.Elapsed = time.Since(start)
	gcanvas.Logger().Info("gcanvas: compiled", "input", input, "lines", s.Lines, "elapsed", s.Elapsed)
	return s, nil
}

// convert compiles input and writes the result to output, or to stdout if
// output is empty or "-". Nothing is written when compilation fails.
func convert(job Job, input, output string) (summary, error) {
	var buf bytes.Buffer
	s, err := compile(job, input, &buf, nil)
	if err != nil {
		return s, err
	}
	if output == "" || output == "-" {
		_, err = buf.WriteTo(os.Stdout)
		return s, err
	}
	return s, os.WriteFile(output, buf.Bytes(), 0o644) //nolint:gosec // G-code is not secret
}
