// Package gcode encodes semantic machine calls as G-code lines.
//
// A Serializer turns calls such as Rapid or Linear into one text command per
// line and hands the line to a Stream:
//
//	var buf bytes.Buffer
//	s := gcode.New(gcode.NewTextStream(&buf))
//	s.Linear(gcode.Params{gcode.X: 10, gcode.Y: 5})
//	// buf: "G1 X10 Y5\n"
//
// Parameters are written in the fixed order X Y Z A B C I J K F T. Values
// that are NaN or infinite are dropped rather than reported.
package gcode

import (
	"math"
	"strings"
)

// Word is a parameter letter.
type Word byte

// Parameter letters.
const (
	X Word = 'X'
	Y Word = 'Y'
	Z Word = 'Z'
	A Word = 'A'
	B Word = 'B'
	C Word = 'C'
	I Word = 'I'
	J Word = 'J'
	K Word = 'K'
	F Word = 'F'
	T Word = 'T'
)

// Order is the sequence in which parameters are written.
var Order = [...]Word{X, Y, Z, A, B, C, I, J, K, F, T}

// Params maps parameter letters to values. Letters outside Order are ignored.
type Params map[Word]float64

// Unit is the machine length unit.
type Unit int

const (
	// UnitMM selects millimeters (G21).
	UnitMM Unit = iota
	// UnitInch selects inches (G20).
	UnitInch
)

// String returns the unit abbreviation.
func (u Unit) String() string {
	if u == UnitInch {
		return "in"
	}
	return "mm"
}

// ParseUnit parses "mm", "in" or "inch".
func ParseUnit(s string) (Unit, bool) {
	switch s {
	case "mm":
		return UnitMM, true
	case "in", "inch":
		return UnitInch, true
	}
	return UnitMM, false
}

// Coolant is the coolant mode.
type Coolant int

const (
	// CoolantOff turns coolant off (M9).
	CoolantOff Coolant = iota
	// CoolantMist turns on mist coolant (M7).
	CoolantMist
	// CoolantFlood turns on flood coolant (M8).
	CoolantFlood
)

// String returns "off", "mist" or "flood".
func (c Coolant) String() string {
	switch c {
	case CoolantMist:
		return "mist"
	case CoolantFlood:
		return "flood"
	default:
		return "off"
	}
}

// ParseCoolant parses the names returned by Coolant.String.
func ParseCoolant(s string) (Coolant, bool) {
	for _, c := range []Coolant{CoolantOff, CoolantMist, CoolantFlood} {
		if c.String() == s {
			return c, true
		}
	}
	return CoolantOff, false
}

// Serializer writes commands to a Stream.
type Serializer struct {
	stream Stream
	arcs   bool
}

// Option configures a Serializer.
type Option func(*Serializer)

// WithArcs sets whether the target accepts native G2/G3 arcs.
// Arcs are enabled by default.
func WithArcs(enabled bool) Option {
	return func(s *Serializer) {
		s.arcs = enabled
	}
}

// New creates a serializer writing to stream.
func New(stream Stream, opts ...Option) *Serializer {
	s := &Serializer{stream: stream, arcs: true}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SupportsArcs reports whether native arc commands may be sent.
func (s *Serializer) SupportsArcs() bool {
	return s.arcs
}

// Stream returns the output stream.
func (s *Serializer) Stream() Stream {
	return s.stream
}

// Reset resets the output stream.
func (s *Serializer) Reset() error {
	return s.stream.Reset()
}

// Send writes code followed by the usable parameters of p.
func (s *Serializer) Send(code string, p Params) error {
	var sb strings.Builder
	sb.WriteString(code)
	for _, w := range Order {
		v, ok := p[w]
		if !ok {
			continue
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			slogger().Debug("gcode: dropped parameter", "code", code, "word", string(w), "value", v)
			continue
		}
		sb.WriteByte(' ')
		sb.WriteByte(byte(w))
		sb.WriteString(FormatNumber(v))
	}
	return s.stream.Write(sb.String())
}

// Rapid moves at traverse speed (G0).
func (s *Serializer) Rapid(p Params) error { return s.Send("G0", p) }

// Linear moves in a straight line at feed (G1).
func (s *Serializer) Linear(p Params) error { return s.Send("G1", p) }

// ArcCW moves along a clockwise arc (G2).
func (s *Serializer) ArcCW(p Params) error { return s.Send("G2", p) }

// ArcCCW moves along a counter-clockwise arc (G3).
func (s *Serializer) ArcCCW(p Params) error { return s.Send("G3", p) }

// Unit selects the length unit (G20 or G21).
func (s *Serializer) Unit(u Unit) error {
	if u == UnitInch {
		return s.Send("G20", nil)
	}
	return s.Send("G21", nil)
}

// InverseTime switches feed interpretation to inverse time (G93).
func (s *Serializer) InverseTime() error { return s.Send("G93", nil) }

// Speed starts the spindle clockwise at rpm (M3), or stops it for 0 (M5).
func (s *Serializer) Speed(rpm float64) error {
	if rpm == 0 || math.IsNaN(rpm) {
		return s.Send("M5", nil)
	}
	return s.stream.Write("M3 S" + FormatNumber(rpm))
}

// Coolant sets the coolant mode (M7, M8 or M9).
func (s *Serializer) Coolant(c Coolant) error {
	switch c {
	case CoolantMist:
		return s.Send("M7", nil)
	case CoolantFlood:
		return s.Send("M8", nil)
	default:
		return s.Send("M9", nil)
	}
}

// Zero declares the current position to have the given coordinates (G92).
func (s *Serializer) Zero(p Params) error { return s.Send("G92", p) }

// ATC changes to tool number n (M6 T).
func (s *Serializer) ATC(n int) error { return s.Send("M6", Params{T: float64(n)}) }

// Meta writes a key=value comment line.
func (s *Serializer) Meta(key string, v float64) error {
	return s.Comment(key + "=" + FormatNumber(v))
}

// Comment writes text as a comment line.
func (s *Serializer) Comment(text string) error {
	text = strings.Map(func(r rune) rune {
		switch r {
		case '(':
			return '['
		case ')':
			return ']'
		case '\n', '\r':
			return ' '
		}
		return r
	}, text)
	return s.stream.Write("(" + text + ")")
}
