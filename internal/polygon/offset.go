package polygon

import (
	"math"

	"github.com/tdewolff/canvas"
)

// DefaultMiterLimit is the miter limit used when Offset receives a value
// below 1.
const DefaultMiterLimit = 2

// Offset grows (delta > 0) or shrinks (delta < 0) the region described by ps
// by delta fixed-point units, joining corners with miters. A corner whose
// miter would reach further than miterLimit*|delta| is beveled.
//
// The input is normalized with the NonZero rule first, so ring direction
// does not matter. ErrEmpty is returned when nothing is left.
func Offset(ps Polygons, delta, miterLimit float64) (Polygons, error) {
	region := settle(ps, NonZero)
	if region.Empty() {
		return nil, ErrEmpty
	}
	if delta == 0 {
		return nonEmpty(fromPath(region))
	}
	if miterLimit < 1 {
		miterLimit = DefaultMiterLimit
	}

	// The band covers everything within |delta| of the boundary.
	d := math.Abs(delta)
	join := canvas.MiterJoiner{GapJoiner: canvas.BevelJoin, Limit: miterLimit * d}
	band := region.Stroke(2*d, canvas.ButtCap, join, canvas.Tolerance)
	if delta > 0 {
		return nonEmpty(fromPath(region.Or(band)))
	}
	return nonEmpty(eroded(fromPath(region.Not(band)), ps, d))
}

// eroded drops rings that cannot be part of ps shrunk by d: every point left
// after shrinking has room for d on all sides inside the bounds of ps.
func eroded(out, ps Polygons, d float64) Polygons {
	lo, hi, _ := ps.bounds()
	slack := int64(math.Ceil(canvas.Tolerance)) + 1
	room := max(int64(math.Floor(d))-slack, 0)
	kept := out[:0]
	for _, r := range out {
		rlo, rhi, _ := Polygons{r}.bounds()
		if rlo.X-room < lo.X || rlo.Y-room < lo.Y || rhi.X+room > hi.X || rhi.Y+room > hi.Y {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}

func nonEmpty(ps Polygons) (Polygons, error) {
	if len(ps) == 0 {
		return nil, ErrEmpty
	}
	return ps, nil
}
