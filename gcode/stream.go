package gcode

import (
	"errors"
	"io"
	"strconv"
	"strings"
)

// ErrStreamClosed is returned when writing to a closed stream.
var ErrStreamClosed = errors.New("gcode: stream closed")

// Stream receives command lines in order.
type Stream interface {
	// Write appends one command line. The line has no terminator.
	Write(line string) error
	// Reset discards everything written so far where the sink allows it.
	Reset() error
}

// TextStream writes newline-terminated lines to an io.Writer. The first
// write error is kept and returned by every later Write.
type TextStream struct {
	w        io.Writer
	numbered bool
	n        int
	err      error
	closed   bool
}

// NewTextStream creates a stream writing plain lines to w.
func NewTextStream(w io.Writer) *TextStream {
	return &TextStream{w: w}
}

// NewNumberedStream creates a stream prefixing every line with a block
// number N10, N20, and so on.
func NewNumberedStream(w io.Writer) *TextStream {
	return &TextStream{w: w, numbered: true}
}

// Write implements Stream.
func (s *TextStream) Write(line string) error {
	if s.closed {
		return ErrStreamClosed
	}
	if s.err != nil {
		return s.err
	}
	if s.numbered {
		s.n += 10
		line = "N" + strconv.Itoa(s.n) + " " + line
	}
	if _, err := io.WriteString(s.w, line+"\n"); err != nil {
		s.err = err
	}
	return s.err
}

// Reset restarts block numbering and clears the sticky error. If the
// writer has a Reset method (like bytes.Buffer) it is called too.
func (s *TextStream) Reset() error {
	if s.closed {
		return ErrStreamClosed
	}
	s.n = 0
	s.err = nil
	if r, ok := s.w.(interface{ Reset() }); ok {
		r.Reset()
	}
	return nil
}

// Err returns the first write error.
func (s *TextStream) Err() error {
	return s.err
}

// Close closes the writer if it is an io.Closer. Further writes fail with
// ErrStreamClosed.
func (s *TextStream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if c, ok := s.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// MemoryStream keeps lines in memory.
type MemoryStream struct {
	lines []string
}

// NewMemoryStream creates an empty in-memory stream.
func NewMemoryStream() *MemoryStream {
	return &MemoryStream{}
}

// Write implements Stream.
func (s *MemoryStream) Write(line string) error {
	s.lines = append(s.lines, line)
	return nil
}

// Reset implements Stream.
func (s *MemoryStream) Reset() error {
	s.lines = s.lines[:0]
	return nil
}

// Lines returns a copy of the lines written so far.
func (s *MemoryStream) Lines() []string {
	return append([]string(nil), s.lines...)
}

// String returns the lines joined with newlines.
func (s *MemoryStream) String() string {
	if len(s.lines) == 0 {
		return ""
	}
	return strings.Join(s.lines, "\n") + "\n"
}
