package polygon

import "github.com/tdewolff/canvas"

// Simplify resolves self-intersections and overlaps of ps under rule and
// returns non-overlapping rings oriented left-filled.
func Simplify(ps Polygons, rule FillRule) Polygons {
	return fromPath(settle(ps, rule))
}

// Boolean combines subject and clip, each interpreted with rule.
func Boolean(subject, clip Polygons, op Op, rule FillRule) Polygons {
	return fromPath(op.apply(settle(subject, rule), settle(clip, rule)))
}

// settle returns the filled region of ps as a path the engine can combine
// further. The engine fills with the nonzero rule, so EvenOdd is built by
// folding the rings together with Xor.
func settle(ps Polygons, rule FillRule) *canvas.Path {
	p := toPath(ps)
	if rule == EvenOdd {
		acc := &canvas.Path{}
		for _, r := range ps {
			acc = acc.Xor(toPath(Polygons{r}))
		}
		p = acc
	}
	lo, hi, ok := ps.bounds()
	if !ok || p.Empty() {
		return &canvas.Path{}
	}
	return frame(lo, hi).And(p)
}

// frame returns a counter-clockwise rectangle strictly enclosing lo..hi.
// Intersecting with it leaves a region unchanged but rebuilds its boundary.
func frame(lo, hi Point) *canvas.Path {
	x0, y0 := float64(lo.X-1), float64(lo.Y-1)
	x1, y1 := float64(hi.X+1), float64(hi.Y+1)
	p := &canvas.Path{}
	p.MoveTo(x0, y0)
	p.LineTo(x1, y0)
	p.LineTo(x1, y1)
	p.LineTo(x0, y1)
	p.Close()
	return p
}
