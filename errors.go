package gcanvas

import "errors"

// Caller errors returned by the builder. They are wrapped with the failing
// operation's name; test with errors.Is.
var (
	// ErrNoToolDiameter is returned by Fill when no tool diameter is set.
	ErrNoToolDiameter = errors.New("gcanvas: tool diameter must be set before fill")

	// ErrUnbalancedRestore is returned by Restore without a matching Save.
	ErrUnbalancedRestore = errors.New("gcanvas: restore without matching save")

	// ErrNoCurrentPath is returned by ClosePath when no contour is open.
	ErrNoCurrentPath = errors.New("gcanvas: no current path")
)
