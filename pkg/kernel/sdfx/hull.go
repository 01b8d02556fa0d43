package sdfx

import (
	"errors"
	"math"
	"sort"

	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

var errDegenerateHull = errors.New("convex hull of fewer than 4 non-coplanar points")

type plane struct {
	n v3.Vec
	d float64
}

// hullSDF3 is the intersection of the half-spaces bounding a convex hull.
type hullSDF3 struct {
	planes []plane
	bb     sdf.Box3
}

func (s *hullSDF3) Evaluate(p v3.Vec) float64 {
	d := math.Inf(-1)
	for _, pl := range s.planes {
		if v := pl.n.Dot(p) - pl.d; v > d {
			d = v
		}
	}
	return d
}

func (s *hullSDF3) BoundingBox() sdf.Box3 { return s.bb }

// dedupe drops points closer than eps on every axis to an earlier one.
func dedupe(pts []v3.Vec, eps float64) []v3.Vec {
	type key struct{ x, y, z int64 }
	seen := make(map[key]bool, len(pts))
	out := pts[:0:0]
	for _, p := range pts {
		k := key{int64(math.Round(p.X / eps)), int64(math.Round(p.Y / eps)), int64(math.Round(p.Z / eps))}
		if !seen[k] {
			seen[k] = true
			out = append(out, p)
		}
	}
	return out
}

type tri struct {
	a, b, c int
	n       v3.Vec
	d       float64
}

// convexHull3 computes the hull of pts incrementally and returns its
// bounding planes.
func convexHull3(pts []v3.Vec) (*hullSDF3, error) {
	pts = dedupe(pts, 1e-9)
	if len(pts) < 4 {
		return nil, errDegenerateHull
	}

	bb := sdf.Box3{Min: pts[0], Max: pts[0]}
	for _, p := range pts {
		bb.Min = bb.Min.Min(p)
		bb.Max = bb.Max.Max(p)
	}
	scale := bb.Max.Sub(bb.Min).Length()
	eps := 1e-9 * math.Max(scale, 1)

	// Initial tetrahedron from extreme points.
	i0 := 0
	for i, p := range pts {
		if p.X < pts[i0].X {
			i0 = i
		}
	}
	i1 := farthest(pts, func(p v3.Vec) float64 { return p.Sub(pts[i0]).Length() })
	i2 := farthest(pts, func(p v3.Vec) float64 {
		return pts[i1].Sub(pts[i0]).Cross(p.Sub(pts[i0])).Length()
	})
	n012 := pts[i1].Sub(pts[i0]).Cross(pts[i2].Sub(pts[i0]))
	i3 := farthest(pts, func(p v3.Vec) float64 { return math.Abs(n012.Dot(p.Sub(pts[i0]))) })
	if n012.Length() <= eps || math.Abs(n012.Dot(pts[i3].Sub(pts[i0]))) <= eps*scale {
		return nil, errDegenerateHull
	}

	inside := pts[i0].Add(pts[i1]).Add(pts[i2]).Add(pts[i3]).MulScalar(0.25)
	mk := func(a, b, c int) tri {
		n := pts[b].Sub(pts[a]).Cross(pts[c].Sub(pts[a]))
		if n.Dot(inside.Sub(pts[a])) > 0 {
			b, c = c, b
			n = n.Neg()
		}
		l := n.Length()
		if l == 0 {
			nan := math.NaN()
			return tri{a: a, b: b, c: c, n: v3.Vec{X: nan, Y: nan, Z: nan}, d: nan}
		}
		n = n.MulScalar(1 / l)
		return tri{a: a, b: b, c: c, n: n, d: n.Dot(pts[a])}
	}
	faces := []tri{mk(i0, i1, i2), mk(i0, i1, i3), mk(i0, i2, i3), mk(i1, i2, i3)}

	type edge struct{ a, b int }
	for i, p := range pts {
		if i == i0 || i == i1 || i == i2 || i == i3 {
			continue
		}
		visible := make([]bool, len(faces))
		seen := false
		for j, f := range faces {
			if f.n.Dot(p)-f.d > eps {
				visible[j] = true
				seen = true
			}
		}
		if !seen {
			continue
		}
		directed := make(map[edge]bool)
		for j, f := range faces {
			if visible[j] {
				directed[edge{f.a, f.b}] = true
				directed[edge{f.b, f.c}] = true
				directed[edge{f.c, f.a}] = true
			}
		}
		kept := faces[:0:0]
		for j, f := range faces {
			if !visible[j] {
				kept = append(kept, f)
			}
		}
		for e := range directed {
			if !directed[edge{e.b, e.a}] {
				kept = append(kept, mk(e.a, e.b, i))
			}
		}
		faces = kept
	}

	planes := make([]plane, 0, len(faces))
	for _, f := range faces {
		// Collinear triangles have no normal.
		if math.IsNaN(f.d) || math.IsNaN(f.n.X) {
			continue
		}
		planes = append(planes, plane{n: f.n, d: f.d})
	}
	return &hullSDF3{planes: planes, bb: bb}, nil
}

func farthest(pts []v3.Vec, dist func(v3.Vec) float64) int {
	best, bi := -1.0, 0
	for i, p := range pts {
		if d := dist(p); d > best {
			best, bi = d, i
		}
	}
	return bi
}

// convexHull2 returns the counter-clockwise hull of pts (monotone chain).
func convexHull2(pts []v2.Vec) []v2.Vec {
	p := append([]v2.Vec(nil), pts...)
	sort.Slice(p, func(i, j int) bool {
		if p[i].X != p[j].X {
			return p[i].X < p[j].X
		}
		return p[i].Y < p[j].Y
	})
	if len(p) < 3 {
		return p
	}
	cross := func(o, a, b v2.Vec) float64 {
		return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
	}
	h := make([]v2.Vec, 0, 2*len(p))
	for _, q := range p {
		for len(h) >= 2 && cross(h[len(h)-2], h[len(h)-1], q) <= 0 {
			h = h[:len(h)-1]
		}
		h = append(h, q)
	}
	lower := len(h) + 1
	for i := len(p) - 2; i >= 0; i-- {
		q := p[i]
		for len(h) >= lower && cross(h[len(h)-2], h[len(h)-1], q) <= 0 {
			h = h[:len(h)-1]
		}
		h = append(h, q)
	}
	return h[:len(h)-1]
}
