package sdfx

import (
	"math"

	"github.com/chazu/rcad/pkg/kernel"
	"github.com/chazu/rcad/pkg/xform"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// transformSDF3 applies an affine transform to an SDF3. Distances are
// rescaled by the transform's mean scale, so they are exact for rigid and
// uniformly scaled transforms and approximate otherwise.
type transformSDF3 struct {
	s     sdf.SDF3
	inv   xform.Transform
	scale float64
	bb    sdf.Box3
}

func newTransformSDF3(s sdf.SDF3, t xform.Transform) (sdf.SDF3, error) {
	inv, err := t.TryInverse()
	if err != nil {
		return nil, err
	}
	return &transformSDF3{
		s:     s,
		inv:   inv,
		scale: math.Cbrt(math.Abs(t.Determinant())),
		bb:    t.ApplyBox(s.BoundingBox()),
	}, nil
}

func (s *transformSDF3) Evaluate(p v3.Vec) float64 {
	return s.s.Evaluate(s.inv.Apply(p)) * s.scale
}

func (s *transformSDF3) BoundingBox() sdf.Box3 { return s.bb }

// transformSDF2 applies the planar part of a transform to an SDF2.
type transformSDF2 struct {
	s     sdf.SDF2
	inv   xform.Transform
	scale float64
	bb    sdf.Box2
}

// planar reports whether t maps the XY plane onto itself.
func planar(t xform.Transform) bool {
	const eps = 1e-12
	l := t.Linear()
	return math.Abs(l[2]) < eps && math.Abs(l[5]) < eps &&
		math.Abs(l[6]) < eps && math.Abs(l[7]) < eps &&
		math.Abs(t.Translation().Z) < eps
}

func newTransformSDF2(s sdf.SDF2, t xform.Transform) (sdf.SDF2, error) {
	inv, err := t.TryInverse()
	if err != nil {
		return nil, err
	}
	sb := s.BoundingBox()
	b := t.ApplyBox(sdf.Box3{
		Min: v3.Vec{X: sb.Min.X, Y: sb.Min.Y},
		Max: v3.Vec{X: sb.Max.X, Y: sb.Max.Y},
	})
	l := t.Linear()
	return &transformSDF2{
		s:     s,
		inv:   inv,
		scale: math.Sqrt(math.Abs(l[0]*l[4] - l[1]*l[3])),
		bb:    sdf.Box2{Min: v2.Vec{X: b.Min.X, Y: b.Min.Y}, Max: v2.Vec{X: b.Max.X, Y: b.Max.Y}},
	}, nil
}

func (s *transformSDF2) Evaluate(p v2.Vec) float64 {
	q := s.inv.Apply(v3.Vec{X: p.X, Y: p.Y})
	return s.s.Evaluate(v2.Vec{X: q.X, Y: q.Y}) * s.scale
}

func (s *transformSDF2) BoundingBox() sdf.Box2 { return s.bb }

// polygonSDF2 is a region bounded by closed rings under the even-odd rule,
// so ring orientation does not matter and nested rings alternate between
// holes and islands.
type polygonSDF2 struct {
	rings [][]v2.Vec
	bb    sdf.Box2
}

func newPolygonSDF2(rings [][]v2.Vec) *polygonSDF2 {
	inf := math.Inf(1)
	bb := sdf.Box2{Min: v2.Vec{X: inf, Y: inf}, Max: v2.Vec{X: -inf, Y: -inf}}
	for _, r := range rings {
		for _, p := range r {
			bb.Min = v2.Vec{X: math.Min(bb.Min.X, p.X), Y: math.Min(bb.Min.Y, p.Y)}
			bb.Max = v2.Vec{X: math.Max(bb.Max.X, p.X), Y: math.Max(bb.Max.Y, p.Y)}
		}
	}
	return &polygonSDF2{rings: rings, bb: bb}
}

func (s *polygonSDF2) Evaluate(p v2.Vec) float64 {
	d2 := math.Inf(1)
	for _, r := range s.rings {
		for i, j := 0, len(r)-1; i < len(r); j, i = i, i+1 {
			if d := segmentDist2(p, r[j], r[i]); d < d2 {
				d2 = d
			}
		}
	}
	d := math.Sqrt(d2)
	if kernel.InsidePolygons(s.rings, p) {
		return -d
	}
	return d
}

func (s *polygonSDF2) BoundingBox() sdf.Box2 { return s.bb }

func segmentDist2(p, a, b v2.Vec) float64 {
	abx, aby := b.X-a.X, b.Y-a.Y
	apx, apy := p.X-a.X, p.Y-a.Y
	l2 := abx*abx + aby*aby
	t := 0.0
	if l2 > 0 {
		t = math.Max(0, math.Min(1, (apx*abx+apy*aby)/l2))
	}
	dx, dy := apx-t*abx, apy-t*aby
	return dx*dx + dy*dy
}

func fromSdfBox3(b sdf.Box3) kernel.Box {
	return kernel.Box{Min: b.Min, Max: b.Max}
}

func fromSdfBox2(b sdf.Box2) kernel.Box {
	return kernel.Box{
		Min: v3.Vec{X: b.Min.X, Y: b.Min.Y},
		Max: v3.Vec{X: b.Max.X, Y: b.Max.Y},
	}
}
