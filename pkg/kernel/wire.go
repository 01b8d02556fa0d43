package kernel

import (
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

// EdgeKind tags an Edge.
type EdgeKind int

const (
	LineEdge EdgeKind = iota
	CurveEdge // cubic Bezier through C1, C2
)

// Edge is a planar line or cubic Bezier segment.
type Edge struct {
	Kind   EdgeKind
	From   v2.Vec
	C1, C2 v2.Vec
	To     v2.Vec
}

// Line returns a straight edge.
func Line(from, to v2.Vec) Edge {
	return Edge{Kind: LineEdge, From: from, To: to}
}

// Cubic returns a cubic Bezier edge.
func Cubic(from, c1, c2, to v2.Vec) Edge {
	return Edge{Kind: CurveEdge, From: from, C1: c1, C2: c2, To: to}
}

// Quad returns the cubic edge equal to the quadratic Bezier from, c, to.
func Quad(from, c, to v2.Vec) Edge {
	c1 := v2.Vec{X: from.X + 2.0/3.0*(c.X-from.X), Y: from.Y + 2.0/3.0*(c.Y-from.Y)}
	c2 := v2.Vec{X: to.X + 2.0/3.0*(c.X-to.X), Y: to.Y + 2.0/3.0*(c.Y-to.Y)}
	return Cubic(from, c1, c2, to)
}

// Reverse returns the same edge traversed backwards.
func (e Edge) Reverse() Edge {
	return Edge{Kind: e.Kind, From: e.To, C1: e.C2, C2: e.C1, To: e.From}
}

// At evaluates the edge at parameter u in [0, 1].
func (e Edge) At(u float64) v2.Vec {
	if e.Kind == LineEdge {
		return v2.Vec{X: e.From.X + u*(e.To.X-e.From.X), Y: e.From.Y + u*(e.To.Y-e.From.Y)}
	}
	w := 1 - u
	a, b, c, d := w*w*w, 3*w*w*u, 3*w*u*u, u*u*u
	return v2.Vec{
		X: a*e.From.X + b*e.C1.X + c*e.C2.X + d*e.To.X,
		Y: a*e.From.Y + b*e.C1.Y + c*e.C2.Y + d*e.To.Y,
	}
}

// Flatten appends the points after From approximating e within tol.
func (e Edge) Flatten(dst []v2.Vec, tol float64) []v2.Vec {
	if e.Kind == LineEdge {
		return append(dst, e.To)
	}
	n := curveSteps(e, tol)
	for i := 1; i <= n; i++ {
		dst = append(dst, e.At(float64(i)/float64(n)))
	}
	return dst
}

// curveSteps bounds the chord error of a uniform subdivision using the
// second difference of the control polygon.
func curveSteps(e Edge, tol float64) int {
	if tol <= 0 {
		tol = 0.05
	}
	dd := math.Max(
		math.Hypot(e.From.X-2*e.C1.X+e.C2.X, e.From.Y-2*e.C1.Y+e.C2.Y),
		math.Hypot(e.C1.X-2*e.C2.X+e.To.X, e.C1.Y-2*e.C2.Y+e.To.Y),
	)
	n := int(math.Ceil(math.Sqrt(3 * dd / (4 * tol))))
	if n < 1 {
		n = 1
	}
	if n > 256 {
		n = 256
	}
	return n
}

// Wire is an ordered, connected list of edges plus its starting point.
type Wire struct {
	Start v2.Vec
	Edges []Edge
}

// Closed reports whether the last edge ends at Start.
func (w Wire) Closed() bool {
	if len(w.Edges) == 0 {
		return false
	}
	end := w.Edges[len(w.Edges)-1].To
	return end.X == w.Start.X && end.Y == w.Start.Y
}

// Reverse returns the wire traversed in the opposite direction. A closed
// wire keeps its start point.
func (w Wire) Reverse() Wire {
	n := len(w.Edges)
	out := Wire{Start: w.Start, Edges: make([]Edge, n)}
	for i, e := range w.Edges {
		out.Edges[n-1-i] = e.Reverse()
	}
	if n > 0 && !w.Closed() {
		out.Start = w.Edges[n-1].To
	}
	return out
}

// Points flattens the wire into a polyline beginning at Start.
func (w Wire) Points(tol float64) []v2.Vec {
	pts := []v2.Vec{w.Start}
	for _, e := range w.Edges {
		pts = e.Flatten(pts, tol)
	}
	if len(pts) > 1 && w.Closed() {
		pts = pts[:len(pts)-1]
	}
	return pts
}

// SignedArea is positive for counter-clockwise wires.
func (w Wire) SignedArea(tol float64) float64 {
	return PolygonArea(w.Points(tol))
}

// PolygonArea returns the signed shoelace area of a closed polyline.
func PolygonArea(pts []v2.Vec) float64 {
	var a float64
	for i := range pts {
		j := (i + 1) % len(pts)
		a += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return a / 2
}

// InsidePolygons applies the even-odd rule to p against every ring.
func InsidePolygons(rings [][]v2.Vec, p v2.Vec) bool {
	inside := false
	for _, r := range rings {
		for i, j := 0, len(r)-1; i < len(r); j, i = i, i+1 {
			a, b := r[i], r[j]
			if (a.Y > p.Y) != (b.Y > p.Y) &&
				p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
				inside = !inside
			}
		}
	}
	return inside
}
