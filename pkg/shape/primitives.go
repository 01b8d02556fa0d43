package shape

import (
	"fmt"
	"math"

	"github.com/chazu/rcad/pkg/args"
	"github.com/chazu/rcad/pkg/glyph"
	"github.com/chazu/rcad/pkg/outline"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Parameter specifications of the primitive constructors.
var (
	boxSpec      = args.NewSpec("box", args.P("x"), args.P("y"), args.P("z"))
	cubeSpec     = args.NewSpec("cube", args.P("size"))
	cylinderSpec = args.NewSpec("cylinder", args.D("d"), args.P("h"))
	coneSpec     = args.NewSpec("cone", args.P("h"), args.D("d0"), args.D("dh")).WithDefault("dh", 0)
	sphereSpec   = args.NewSpec("sphere", args.D("d"))
	torusSpec    = args.NewSpec("torus", args.P("id"), args.P("od"), args.P("angle")).WithDefault("angle", 0)
	prismSpec    = args.NewSpec("regular-prism", args.P("sides"), args.P("r"), args.P("h"))
	ngonSpec     = args.NewSpec("regular-polygon", args.P("sides"), args.P("r"))
	rectSpec     = args.NewSpec("rectangle", args.P("x"), args.P("y"))
	squareSpec   = args.NewSpec("square", args.P("size"))
	circleSpec   = args.NewSpec("circle", args.D("d"))
	textSpec     = args.NewSpec("text", args.P("font"), args.P("size")).WithDefault("font", "").WithDefault("size", DefaultTextSize)
)

// DefaultTextSize is the em height used by Text when no size is given.
const DefaultTextSize = 12.0

// Must returns n or panics with err.
func Must(n *Node, err error) *Node {
	if err != nil {
		panic(err)
	}
	return n
}

func prim(k PrimKind, label string, params ...float64) *Node {
	return &Node{kind: KindPrimitive, prim: k, params: params, label: label}
}

// Box returns a box with its minimum corner at the origin: Box(x, y, z).
func Box(vals ...any) (*Node, error) {
	p, err := boxSpec.Floats(vals...)
	if err != nil {
		return nil, err
	}
	return prim(PrimBox, "", p...), nil
}

// Cube returns Box(size, size, size).
func Cube(vals ...any) (*Node, error) {
	p, err := cubeSpec.Floats(vals...)
	if err != nil {
		return nil, err
	}
	return prim(PrimBox, "cube", p[0], p[0], p[0]), nil
}

// Cylinder returns a cylinder standing on the XY plane along +Z:
// Cylinder(d, h), or with r instead of d.
func Cylinder(vals ...any) (*Node, error) {
	p, err := cylinderSpec.Floats(vals...)
	if err != nil {
		return nil, err
	}
	return prim(PrimCylinder, "", p...), nil
}

// Cone returns a truncated cone standing on the XY plane: Cone(h, d0, dh)
// where dh defaults to 0. r0 and rh are accepted as radius aliases.
func Cone(vals ...any) (*Node, error) {
	p, err := coneSpec.Floats(vals...)
	if err != nil {
		return nil, err
	}
	return prim(PrimCone, "", p...), nil
}

// Sphere returns a sphere centered on the origin: Sphere(d) or Sphere(r: ...).
func Sphere(vals ...any) (*Node, error) {
	p, err := sphereSpec.Floats(vals...)
	if err != nil {
		return nil, err
	}
	return prim(PrimSphere, "", p...), nil
}

// Torus returns a torus in the XY plane centered on the origin from its
// inner and outer diameters. A zero angle sweeps the full turn.
func Torus(vals ...any) (*Node, error) {
	p, err := torusSpec.Floats(vals...)
	if err != nil {
		return nil, err
	}
	return prim(PrimTorus, "", p...), nil
}

// Polyhedron returns a solid from vertices and faces given as vertex index
// lists.
func Polyhedron(points []v3.Vec, faces [][]int) (*Node, error) {
	for i, f := range faces {
		if len(f) < 3 {
			return nil, &args.ArgumentError{Kind: args.Usage, Shape: "polyhedron", Param: "faces",
				Msg: fmt.Sprintf("face %d has %d vertices, want at least 3", i, len(f))}
		}
		for _, idx := range f {
			if idx < 0 || idx >= len(points) {
				return nil, &args.ArgumentError{Kind: args.Usage, Shape: "polyhedron", Param: "faces",
					Msg: fmt.Sprintf("face %d references vertex %d of %d", i, idx, len(points))}
			}
		}
	}
	n := prim(PrimPolyhedron, "")
	n.points = append([]v3.Vec(nil), points...)
	n.faces = make([][]int, len(faces))
	for i, f := range faces {
		n.faces[i] = append([]int(nil), f...)
	}
	return n, nil
}

// RegularPrism extrudes a regular polygon of circumradius r by h.
func RegularPrism(vals ...any) (*Node, error) {
	p, err := prismSpec.Floats(vals...)
	if err != nil {
		return nil, err
	}
	base, err := regularPolygon(p[0], p[1])
	if err != nil {
		return nil, err
	}
	return base.Extrude(p[2], 0), nil
}

// Polygon returns a planar polygon. Without paths the points form one
// outline in order; otherwise each path lists point indices, the first path
// being the outer boundary and the rest holes.
func Polygon(points []v2.Vec, paths ...[]int) (*Node, error) {
	if len(paths) == 0 {
		idx := make([]int, len(points))
		for i := range idx {
			idx[i] = i
		}
		paths = [][]int{idx}
	}
	n := prim(PrimPolygon, "")
	for i, path := range paths {
		if len(path) < 3 {
			return nil, &args.ArgumentError{Kind: args.Usage, Shape: "polygon", Param: "paths",
				Msg: fmt.Sprintf("path %d has %d points, want at least 3", i, len(path))}
		}
		ring := make([]v2.Vec, len(path))
		for j, idx := range path {
			if idx < 0 || idx >= len(points) {
				return nil, &args.ArgumentError{Kind: args.Usage, Shape: "polygon", Param: "paths",
					Msg: fmt.Sprintf("path %d references point %d of %d", i, idx, len(points))}
			}
			ring[j] = points[idx]
		}
		n.paths = append(n.paths, ring)
	}
	return n, nil
}

func polygonFromRings(label string, rings ...[]v2.Vec) *Node {
	n := prim(PrimPolygon, label)
	n.paths = rings
	return n
}

// RegularPolygon returns a planar regular polygon of circumradius r
// centered on the origin with a vertex on +X.
func RegularPolygon(vals ...any) (*Node, error) {
	p, err := ngonSpec.Floats(vals...)
	if err != nil {
		return nil, err
	}
	return regularPolygon(p[0], p[1])
}

func regularPolygon(sides, r float64) (*Node, error) {
	n := int(sides)
	if float64(n) != sides || n < 3 {
		return nil, &args.ArgumentError{Kind: args.Usage, Shape: "regular-polygon", Param: "sides",
			Msg: fmt.Sprintf("got %g, want an integer of at least 3", sides)}
	}
	ring := make([]v2.Vec, n)
	for i := range ring {
		a := 2 * math.Pi * float64(i) / float64(n)
		ring[i] = v2.Vec{X: r * math.Cos(a), Y: r * math.Sin(a)}
	}
	return polygonFromRings("regular-polygon", ring), nil
}

func rectangle(label string, x, y float64) *Node {
	return polygonFromRings(label, []v2.Vec{{X: 0, Y: 0}, {X: x, Y: 0}, {X: x, Y: y}, {X: 0, Y: y}})
}

// Rectangle returns a planar rectangle with its minimum corner at the origin.
func Rectangle(vals ...any) (*Node, error) {
	p, err := rectSpec.Floats(vals...)
	if err != nil {
		return nil, err
	}
	return rectangle("rectangle", p[0], p[1]), nil
}

// Square returns Rectangle(size, size).
func Square(vals ...any) (*Node, error) {
	p, err := squareSpec.Floats(vals...)
	if err != nil {
		return nil, err
	}
	return rectangle("square", p[0], p[0]), nil
}

// Circle returns a planar circle centered on the origin.
func Circle(vals ...any) (*Node, error) {
	p, err := circleSpec.Floats(vals...)
	if err != nil {
		return nil, err
	}
	return prim(PrimCircle, "", p...), nil
}

// Text lays out s with a font (path, empty for the built-in face) and an em
// size: Text("abc"), Text("abc", args.Named{"size": 20}).
func Text(s string, vals ...any) (*Node, error) {
	raw, err := textSpec.Resolve(args.Split(vals))
	if err != nil {
		return nil, err
	}
	font, ok := raw[0].(string)
	if !ok {
		return nil, &args.ArgumentError{Kind: args.Usage, Shape: "text", Param: "font",
			Msg: fmt.Sprintf("got %T, want a font path", raw[0])}
	}
	size, err := args.Float(raw[1])
	if err != nil {
		return nil, &args.ArgumentError{Kind: args.Usage, Shape: "text", Param: "size", Msg: err.Error()}
	}
	instrs, err := glyph.Instructions(s, font, size)
	if err != nil {
		return nil, err
	}
	n := Outline(instrs)
	n.label = s
	return n, nil
}

// Outline returns a planar profile built from drawing instructions. Nested
// sub-paths become holes and islands when the node is realized.
func Outline(instrs []outline.Instruction) *Node {
	return &Node{kind: KindOutline, instrs: append([]outline.Instruction(nil), instrs...)}
}
