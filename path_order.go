package gcanvas

import (
	"math"

	"github.com/asim/quadtree"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/clip"
)

// ConnectEnds joins consecutive contours whose gap from the end of one to
// the start of the next is at most twice the tool diameter, so the tool
// stays down between them.
func (p *Path) ConnectEnds(diameter float64) *Path {
	out := NewPath()
	var cur *Contour
	for _, c := range p.contours {
		if cur == nil {
			cur = c
			continue
		}
		gap := cur.LastPoint().Distance(c.FirstPoint())
		if gap > 2*diameter {
			out.Add(cur)
			cur = c
			continue
		}
		if len(c.actions) < 2 {
			continue
		}
		merged := cur.Clone()
		if gap > 0 {
			merged.add(LineTo{Point: c.FirstPoint()})
		}
		for _, a := range c.actions[1:] {
			merged.add(a)
		}
		cur = merged
	}
	if cur != nil {
		out.Add(cur)
	}
	return out
}

// SortCustom reorders contours greedily: starting with the first, the next
// contour is always the one whose start is nearest to the previous end.
func (p *Path) SortCustom() *Path {
	n := len(p.contours)
	if n < 3 {
		return p.Clone()
	}

	b := emptyRect()
	for _, c := range p.contours {
		b = b.extend(c.FirstPoint())
	}
	half := math.Max(b.Width(), b.Height())/2 + 1
	tree := quadtree.New(quadtree.NewAABB(
		quadtree.NewPoint((b.Min.X+b.Max.X)/2, (b.Min.Y+b.Max.Y)/2, nil),
		quadtree.NewPoint(half, half, nil),
	), 0, nil)
	for i, c := range p.contours[1:] {
		fp := c.FirstPoint()
		tree.Insert(quadtree.NewPoint(fp.X, fp.Y, i+1))
	}

	starts := make([]Point, n)
	for i, c := range p.contours {
		starts[i] = c.FirstPoint()
	}
	used := make([]bool, n)
	used[0] = true
	out := NewPath()
	cur := p.contours[0]
	out.Add(cur)
	for remaining := n - 1; remaining > 0; remaining-- {
		next := nearestUnused(tree, cur.LastPoint(), starts, used, half)
		used[next] = true
		cur = p.contours[next]
		out.Add(cur)
	}
	return out
}

// nearestUnused searches a growing window around q for the closest contour
// start that has not been used yet.
func nearestUnused(tree *quadtree.QuadTree, q Point, starts []Point, used []bool, extent float64) int {
	limit := 4 * (extent + q.Length())
	for r := extent / 16; r <= limit; r *= 2 {
		best, bestDist := -1, math.Inf(1)
		window := quadtree.NewAABB(quadtree.NewPoint(q.X, q.Y, nil), quadtree.NewPoint(r, r, nil))
		for _, pt := range tree.Search(window) {
			i := pt.Data().(int)
			if used[i] {
				continue
			}
			x, y := pt.Coordinates()
			if d := math.Hypot(x-q.X, y-q.Y); d < bestDist {
				best, bestDist = i, d
			}
		}
		// a hit farther than r may be beaten by a start outside the window
		if best >= 0 && bestDist <= r {
			return best
		}
	}

	best, bestDist := -1, math.Inf(1)
	for i, s := range starts {
		if d := s.Distance(q); !used[i] && d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// ClipToBounds cuts the tessellated path against an axis-aligned rectangle
// and keeps the pieces inside it as polylines.
func (p *Path) ClipToBounds(bounds Rect, divisions int) *Path {
	bound := orb.Bound{
		Min: orb.Point{bounds.Min.X, bounds.Min.Y},
		Max: orb.Point{bounds.Max.X, bounds.Max.Y},
	}
	out := NewPath()
	for _, c := range p.contours {
		pts := c.Points(divisions)
		if len(pts) < 2 {
			continue
		}
		ls := make(orb.LineString, len(pts))
		for i, pt := range pts {
			ls[i] = orb.Point{pt.X, pt.Y}
		}
		for _, piece := range clip.LineString(bound, ls) {
			if len(piece) < 2 {
				continue
			}
			pc := NewContour(Pt(piece[0][0], piece[0][1]))
			for _, q := range piece[1:] {
				pc.add(LineTo{Point: Pt(q[0], q[1])})
			}
			out.Add(pc)
		}
	}
	return out
}
