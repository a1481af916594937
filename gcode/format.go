package gcode

import (
	"fmt"
	"math"

	"github.com/tdewolff/minify/v2"
)

// Precision is the number of decimals written for parameter values.
const Precision = 5

// FormatNumber writes v with at most Precision decimals and strips
// superfluous zeros, so 5.0 is written as "5".
func FormatNumber(v float64) string {
	v = math.Round(v*1e5) / 1e5
	if v == 0 {
		// also folds negative zero
		return "0"
	}
	b := minify.Decimal([]byte(fmt.Sprintf("%.*f", Precision, v)), 0)
	// minify drops the integer zero; controllers expect "0.5", not ".5"
	switch {
	case b[0] == '.':
		return "0" + string(b)
	case b[0] == '-' && len(b) > 1 && b[1] == '.':
		return "-0" + string(b[1:])
	}
	return string(b)
}
