package engine

import (
	"errors"
	"fmt"

	"github.com/chazu/rcad/pkg/anchor"
	"github.com/chazu/rcad/pkg/args"
	"github.com/chazu/rcad/pkg/kernel"
	"github.com/chazu/rcad/pkg/scope"
	"github.com/chazu/rcad/pkg/shape"
	"github.com/chazu/rcad/pkg/xform"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"
)

// state is the per-evaluation context shared by the builtins.
type state struct {
	ctx      *scope.Context
	kernel   kernel.Kernel
	font     string
	fontSize float64
}

type builtinFunc = func(env *zygo.Zlisp, name string, argv []zygo.Sexp) (zygo.Sexp, error)

// constructor adapts a variadic shape constructor into a builtin.
func constructor(fn func(vals ...any) (*shape.Node, error)) builtinFunc {
	return func(env *zygo.Zlisp, name string, argv []zygo.Sexp) (zygo.Sexp, error) {
		n, err := fn(callValues(argv)...)
		if err != nil {
			return zygo.SexpNull, err
		}
		return shapeSexp(n), nil
	}
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs all rcad builtins into a zygomys environment.
// Shapes put at top level or inside add/sub/mul/hull blocks accumulate in
// st.ctx.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, st *state) {
	fns := map[string]builtinFunc{
		// Primitives.
		"box":             constructor(shape.Box),
		"cube":            constructor(shape.Cube),
		"cylinder":        constructor(shape.Cylinder),
		"cone":            constructor(shape.Cone),
		"sphere":          constructor(shape.Sphere),
		"torus":           constructor(shape.Torus),
		"regular_prism":   constructor(shape.RegularPrism),
		"regular_polygon": constructor(shape.RegularPolygon),
		"rectangle":       constructor(shape.Rectangle),
		"square":          constructor(shape.Square),
		"circle":          constructor(shape.Circle),
		"text":            st.text,
		"polygon":         polygon,
		"polyhedron":      polyhedron,

		// Booleans.
		"union":        combinator(shape.OpUnion),
		"difference":   combinator(shape.OpDifference),
		"intersection": combinator(shape.OpIntersection),
		"hull":         st.hull,

		// Accumulation.
		"put": st.put,
		"add": st.block(scope.Union),
		"sub": st.block(scope.Difference),
		"mul": st.block(scope.Intersection),

		// Transforms.
		"identity":  identity,
		"move":      move,
		"move_x":    axisOp(xform.MoveX, false),
		"move_y":    axisOp(xform.MoveY, false),
		"move_z":    axisOp(xform.MoveZ, false),
		"rotate":    rotate,
		"rot_x":     axisOp(xform.RotX, true),
		"rot_y":     axisOp(xform.RotY, true),
		"rot_z":     axisOp(xform.RotZ, true),
		"scale":     scale,
		"scale_x":   axisOp(xform.ScaleX, false),
		"scale_y":   axisOp(xform.ScaleY, false),
		"scale_z":   axisOp(xform.ScaleZ, false),
		"mirror":    mirror,
		"mirror_x":  fixedOp(xform.MirrorX),
		"mirror_y":  fixedOp(xform.MirrorY),
		"mirror_z":  fixedOp(xform.MirrorZ),
		"transform": applyTransform,
		"compose":   compose,
		"inverse":   inverse,

		// Sweeps.
		"extrude": extrude,
		"revolve": revolve,

		// Anchors and alignment.
		"anchor": st.anchor,
		"of":     of,
		"align":  st.align,

		// Units.
		"mm":   unit(xform.MM),
		"cm":   unit(xform.CM),
		"um":   unit(xform.UM),
		"inch": unit(xform.Inch),

		// Queries.
		"min_x":    st.bound(shape.Bounds.MinX),
		"min_y":    st.bound(shape.Bounds.MinY),
		"min_z":    st.bound(shape.Bounds.MinZ),
		"max_x":    st.bound(shape.Bounds.MaxX),
		"max_y":    st.bound(shape.Bounds.MaxY),
		"max_z":    st.bound(shape.Bounds.MaxZ),
		"x_size":   st.bound(shape.Bounds.XSize),
		"y_size":   st.bound(shape.Bounds.YSize),
		"z_size":   st.bound(shape.Bounds.ZSize),
		"cx":       st.bound(shape.Bounds.CX),
		"cy":       st.bound(shape.Bounds.CY),
		"cz":       st.bound(shape.Bounds.CZ),
		"describe": describe,
	}
	for name, fn := range fns {
		env.AddFunction(name, fn)
	}
}

// ---------------------------------------------------------------------------
// Primitives
// ---------------------------------------------------------------------------

// (text "label" :size 10 :font "path.ttf")
func (st *state) text(env *zygo.Zlisp, name string, argv []zygo.Sexp) (zygo.Sexp, error) {
	if len(argv) == 0 {
		return zygo.SexpNull, fmt.Errorf("text requires a string argument")
	}
	s, err := toString(argv[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("text: %w", err)
	}
	vals := callValues(argv[1:])
	if st.font != "" {
		vals = withDefault(vals, 0, "font", st.font)
	}
	if st.fontSize > 0 {
		vals = withDefault(vals, 1, "size", st.fontSize)
	}
	n, err := shape.Text(s, vals...)
	if err != nil {
		return zygo.SexpNull, err
	}
	return shapeSexp(n), nil
}

// withDefault adds a named value for the parameter at position pos unless
// the call already supplies it.
func withDefault(vals []any, pos int, name string, v any) []any {
	c := args.Split(vals)
	if len(c.Positional) > pos {
		return vals
	}
	if _, ok := c.Named[name]; ok {
		return vals
	}
	named := args.Named{name: v}
	for k, val := range c.Named {
		named[k] = val
	}
	return append(append([]any(nil), c.Positional...), named)
}

// (polygon [[x y] ...] [[i j k] ...])
func polygon(env *zygo.Zlisp, name string, argv []zygo.Sexp) (zygo.Sexp, error) {
	if len(argv) == 0 {
		return zygo.SexpNull, fmt.Errorf("polygon requires a list of points")
	}
	items, err := sexpListToSlice(argv[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("polygon: points: %w", err)
	}
	pts := make([]v2.Vec, len(items))
	for i, it := range items {
		if pts[i], err = toVec2(it); err != nil {
			return zygo.SexpNull, fmt.Errorf("polygon: point %d: %w", i, err)
		}
	}
	var paths [][]int
	if len(argv) > 1 {
		rings, err := sexpListToSlice(argv[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("polygon: paths: %w", err)
		}
		for i, r := range rings {
			p, err := toInts(r)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("polygon: path %d: %w", i, err)
			}
			paths = append(paths, p)
		}
	}
	n, err := shape.Polygon(pts, paths...)
	if err != nil {
		return zygo.SexpNull, err
	}
	return shapeSexp(n), nil
}

// (polyhedron [[x y z] ...] [[i j k] ...])
func polyhedron(env *zygo.Zlisp, name string, argv []zygo.Sexp) (zygo.Sexp, error) {
	if len(argv) != 2 {
		return zygo.SexpNull, fmt.Errorf("polyhedron requires points and faces, got %d arguments", len(argv))
	}
	items, err := sexpListToSlice(argv[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("polyhedron: points: %w", err)
	}
	pts := make([]v3.Vec, len(items))
	for i, it := range items {
		if pts[i], err = toVec3(it); err != nil {
			return zygo.SexpNull, fmt.Errorf("polyhedron: point %d: %w", i, err)
		}
	}
	rows, err := sexpListToSlice(argv[1])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("polyhedron: faces: %w", err)
	}
	faces := make([][]int, len(rows))
	for i, r := range rows {
		if faces[i], err = toInts(r); err != nil {
			return zygo.SexpNull, fmt.Errorf("polyhedron: face %d: %w", i, err)
		}
	}
	n, err := shape.Polyhedron(pts, faces)
	if err != nil {
		return zygo.SexpNull, err
	}
	return shapeSexp(n), nil
}

// ---------------------------------------------------------------------------
// Booleans and accumulation
// ---------------------------------------------------------------------------

func combinator(op shape.Op) builtinFunc {
	return func(env *zygo.Zlisp, name string, argv []zygo.Sexp) (zygo.Sexp, error) {
		nodes, err := toShapes(argv)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
		}
		if len(nodes) == 0 {
			return zygo.SexpNull, fmt.Errorf("%s requires at least one shape", name)
		}
		return shapeSexp(shape.Combine(op, nodes...)), nil
	}
}

// hull takes either shapes, (hull a b c), or a block, (hull (fn [] ...)).
func (st *state) hull(env *zygo.Zlisp, name string, argv []zygo.Sexp) (zygo.Sexp, error) {
	if len(argv) == 1 {
		if _, ok := argv[0].(*zygo.SexpFunction); ok {
			return st.block(scope.Hull)(env, name, argv)
		}
	}
	nodes, err := toShapes(argv)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("hull: %w", err)
	}
	if len(nodes) == 0 {
		return zygo.SexpNull, fmt.Errorf("hull requires at least one shape")
	}
	return shapeSexp(shape.Hull(nodes...)), nil
}

// (put shape ...) contributes each shape to the innermost open block and
// returns the last one. Nil, the result of an empty block, is skipped.
func (st *state) put(env *zygo.Zlisp, name string, argv []zygo.Sexp) (zygo.Sexp, error) {
	var last zygo.Sexp = zygo.SexpNull
	for i, a := range argv {
		if a == zygo.SexpNull {
			continue
		}
		n, err := toShape(a)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("put: argument %d: %w", i+1, err)
		}
		st.ctx.Put(n)
		last = a
	}
	return last, nil
}

// block runs a zero-argument function with a fresh accumulator in mode m and
// returns what it accumulated, or nil for an empty block. The result is not
// contributed to the enclosing block.
func (st *state) block(m scope.Mode) builtinFunc {
	return func(env *zygo.Zlisp, name string, argv []zygo.Sexp) (zygo.Sexp, error) {
		if len(argv) != 1 {
			return zygo.SexpNull, fmt.Errorf("%s requires one function argument, got %d", name, len(argv))
		}
		fn, ok := argv[0].(*zygo.SexpFunction)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("%s: expected function, got %T", name, argv[0])
		}
		n, err := st.ctx.Block(m, func() error {
			_, err := env.Apply(fn, nil)
			return err
		})
		if err != nil {
			return zygo.SexpNull, err
		}
		return shapeSexp(n), nil
	}
}

// ---------------------------------------------------------------------------
// Transforms
// ---------------------------------------------------------------------------

// transformTarget applies t to a shape, or composes it after a transform.
func transformTarget(name string, target zygo.Sexp, t xform.Transform) (zygo.Sexp, error) {
	switch v := target.(type) {
	case *sexpShape:
		return shapeSexp(v.node.Transform(t)), nil
	case *sexpXform:
		return &sexpXform{t: t.Compose(v.t)}, nil
	}
	return zygo.SexpNull, fmt.Errorf("%s: expected shape or transform, got %T (%s)", name, target, target.SexpString(nil))
}

func identity(env *zygo.Zlisp, name string, argv []zygo.Sexp) (zygo.Sexp, error) {
	return &sexpXform{t: xform.Identity()}, nil
}

var (
	moveSpec = args.NewSpec("move", args.P("x"), args.P("y"), args.P("z")).
			WithDefault("x", 0.0).WithDefault("y", 0.0).WithDefault("z", 0.0)
	scaleSpec = args.NewSpec("scale", args.P("x"), args.P("y"), args.P("z")).
			WithDefault("x", 1.0).WithDefault("y", 1.0).WithDefault("z", 1.0)
	extrudeSpec = args.NewSpec("extrude", args.P("height"), args.P("twist")).
			WithDefault("twist", 0.0)
	revolveSpec = args.NewSpec("revolve", args.P("angle")).WithDefault("angle", 0.0)
)

// rejectSequences enforces separately passed coordinates.
func rejectSequences(name string, argv []zygo.Sexp) error {
	for _, a := range argv {
		switch a.(type) {
		case *zygo.SexpPair, *zygo.SexpArray:
			return fmt.Errorf("%s: please pass coordinates separately", name)
		}
	}
	return nil
}

// (move target dx dy dz) or (move target :z 5)
func move(env *zygo.Zlisp, name string, argv []zygo.Sexp) (zygo.Sexp, error) {
	if len(argv) == 0 {
		return zygo.SexpNull, fmt.Errorf("move requires a target")
	}
	if err := rejectSequences(name, argv[1:]); err != nil {
		return zygo.SexpNull, err
	}
	d, err := moveSpec.Floats(callValues(argv[1:])...)
	if err != nil {
		return zygo.SexpNull, err
	}
	return transformTarget(name, argv[0], xform.Translate(d[0], d[1], d[2]))
}

// axisOp builds single-value transforms such as (move_z target 5) or
// (rot_x target 90). Angles are in degrees.
func axisOp(mk func(float64) xform.Transform, degrees bool) builtinFunc {
	return func(env *zygo.Zlisp, name string, argv []zygo.Sexp) (zygo.Sexp, error) {
		if len(argv) != 2 {
			return zygo.SexpNull, fmt.Errorf("%s requires a target and a value, got %d arguments", name, len(argv))
		}
		v, err := toFloat64(argv[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
		}
		if degrees {
			v = xform.Deg(v)
		}
		return transformTarget(name, argv[0], mk(v))
	}
}

func fixedOp(mk func() xform.Transform) builtinFunc {
	return func(env *zygo.Zlisp, name string, argv []zygo.Sexp) (zygo.Sexp, error) {
		if len(argv) != 1 {
			return zygo.SexpNull, fmt.Errorf("%s requires a target", name)
		}
		return transformTarget(name, argv[0], mk())
	}
}

// (rotate target degrees) about z, or (rotate target degrees [ax ay az]).
func rotate(env *zygo.Zlisp, name string, argv []zygo.Sexp) (zygo.Sexp, error) {
	kw := parseArgs(argv)
	if len(kw.positional) < 2 || len(kw.positional) > 3 {
		return zygo.SexpNull, fmt.Errorf("rotate requires a target, an angle and an optional axis")
	}
	deg, err := toFloat64(kw.positional[1])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("rotate: angle: %w", err)
	}
	axis := xform.AxisZ
	axisArg, hasKW := kw.kw["axis"]
	switch {
	case len(kw.positional) == 3 && hasKW:
		return zygo.SexpNull, fmt.Errorf("rotate: axis given both positionally and by name")
	case len(kw.positional) == 3:
		axisArg, hasKW = kw.positional[2], true
	}
	if hasKW {
		if axis, err = toVec3(axisArg); err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate: axis: %w", err)
		}
	}
	return transformTarget(name, kw.positional[0], xform.Rotate(xform.Deg(deg), axis))
}

// (scale target s), (scale target sx sy sz) or (scale target :z 2)
func scale(env *zygo.Zlisp, name string, argv []zygo.Sexp) (zygo.Sexp, error) {
	if len(argv) == 0 {
		return zygo.SexpNull, fmt.Errorf("scale requires a target")
	}
	if err := rejectSequences(name, argv[1:]); err != nil {
		return zygo.SexpNull, err
	}
	if len(argv) == 2 {
		if _, kw := isKW(argv[1]); !kw {
			s, err := toFloat64(argv[1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("scale: %w", err)
			}
			return transformTarget(name, argv[0], xform.ScaleUniform(s))
		}
	}
	f, err := scaleSpec.Floats(callValues(argv[1:])...)
	if err != nil {
		return zygo.SexpNull, err
	}
	return transformTarget(name, argv[0], xform.Scale(f[0], f[1], f[2]))
}

// (mirror target [nx ny nz]) reflects across the plane through the origin
// with the given normal.
func mirror(env *zygo.Zlisp, name string, argv []zygo.Sexp) (zygo.Sexp, error) {
	if len(argv) != 2 {
		return zygo.SexpNull, fmt.Errorf("mirror requires a target and a normal")
	}
	n, err := toVec3(argv[1])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("mirror: normal: %w", err)
	}
	return transformTarget(name, argv[0], xform.Mirror(n))
}

// (transform target xf)
func applyTransform(env *zygo.Zlisp, name string, argv []zygo.Sexp) (zygo.Sexp, error) {
	if len(argv) != 2 {
		return zygo.SexpNull, fmt.Errorf("transform requires a target and a transform")
	}
	t, err := toXform(argv[1])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("transform: %w", err)
	}
	return transformTarget(name, argv[0], t)
}

// (compose a b c) applies c first, then b, then a.
func compose(env *zygo.Zlisp, name string, argv []zygo.Sexp) (zygo.Sexp, error) {
	t := xform.Identity()
	for i, a := range argv {
		x, err := toXform(a)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("compose: argument %d: %w", i+1, err)
		}
		t = t.Compose(x)
	}
	return &sexpXform{t: t}, nil
}

func inverse(env *zygo.Zlisp, name string, argv []zygo.Sexp) (zygo.Sexp, error) {
	if len(argv) != 1 {
		return zygo.SexpNull, fmt.Errorf("inverse requires one transform")
	}
	t, err := toXform(argv[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("inverse: %w", err)
	}
	inv, err := t.TryInverse()
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("inverse: %w", err)
	}
	return &sexpXform{t: inv}, nil
}

// ---------------------------------------------------------------------------
// Sweeps
// ---------------------------------------------------------------------------

// (extrude profile height [twist-degrees])
func extrude(env *zygo.Zlisp, name string, argv []zygo.Sexp) (zygo.Sexp, error) {
	if len(argv) == 0 {
		return zygo.SexpNull, fmt.Errorf("extrude requires a profile")
	}
	n, err := toShape(argv[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("extrude: %w", err)
	}
	f, err := extrudeSpec.Floats(callValues(argv[1:])...)
	if err != nil {
		return zygo.SexpNull, err
	}
	return shapeSexp(n.Extrude(f[0], xform.Deg(f[1]))), nil
}

// (revolve profile [degrees]); zero or no angle is a full turn.
func revolve(env *zygo.Zlisp, name string, argv []zygo.Sexp) (zygo.Sexp, error) {
	if len(argv) == 0 {
		return zygo.SexpNull, fmt.Errorf("revolve requires a profile")
	}
	n, err := toShape(argv[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("revolve: %w", err)
	}
	f, err := revolveSpec.Floats(callValues(argv[1:])...)
	if err != nil {
		return zygo.SexpNull, err
	}
	return shapeSexp(n.Revolve(xform.Deg(f[0]))), nil
}

// ---------------------------------------------------------------------------
// Anchors and alignment
// ---------------------------------------------------------------------------

// (anchor shape :top) returns the transform from the origin to the named
// point of the shape's bounding box.
func (st *state) anchor(env *zygo.Zlisp, name string, argv []zygo.Sexp) (zygo.Sexp, error) {
	if len(argv) != 2 {
		return zygo.SexpNull, fmt.Errorf("anchor requires a shape and an anchor name")
	}
	n, err := toShape(argv[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("anchor: %w", err)
	}
	a, err := toAnchorName(argv[1])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("anchor: %w", err)
	}
	t, err := anchor.Anchor(st.kernel, n, a)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("anchor: %w", err)
	}
	return &sexpXform{t: t}, nil
}

func toAnchorName(s zygo.Sexp) (anchor.Name, error) {
	k, err := toKeywordString(s)
	if err != nil {
		return 0, err
	}
	return anchor.ParseName(k)
}

// (of other designator) resolves the designator against other instead of
// the shape being aligned.
func of(env *zygo.Zlisp, name string, argv []zygo.Sexp) (zygo.Sexp, error) {
	if len(argv) != 2 {
		return zygo.SexpNull, fmt.Errorf("of requires a shape and a designator")
	}
	other, err := toShape(argv[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("of: %w", err)
	}
	d, err := toDesignator(env, argv[1])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("of: %w", err)
	}
	return &sexpDesignator{d: anchor.Of(other, d)}, nil
}

// (align shape d1 ... target) moves shape so that the composition of the
// leading designators lands on target.
func (st *state) align(env *zygo.Zlisp, name string, argv []zygo.Sexp) (zygo.Sexp, error) {
	if len(argv) == 0 {
		return zygo.SexpNull, fmt.Errorf("align requires a shape")
	}
	n, err := toShape(argv[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("align: %w", err)
	}
	ds := make([]anchor.Designator, 0, len(argv)-1)
	for i, a := range argv[1:] {
		d, err := toDesignator(env, a)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("align: designator %d: %w", i+1, err)
		}
		ds = append(ds, d)
	}
	out, err := anchor.Align(st.kernel, n, ds...)
	if err != nil {
		return zygo.SexpNull, err
	}
	return shapeSexp(out), nil
}

// toDesignator accepts an anchor keyword, a transform, a function of the
// shape returning a transform, a result of of, or a list of any of these.
func toDesignator(env *zygo.Zlisp, s zygo.Sexp) (anchor.Designator, error) {
	switch v := s.(type) {
	case *zygo.SexpStr:
		return toAnchorName(v)
	case *sexpXform:
		return anchor.At(v.t), nil
	case *sexpDesignator:
		return v.d, nil
	case *zygo.SexpFunction:
		return anchor.Func(func(n *shape.Node) (xform.Transform, error) {
			res, err := env.Apply(v, []zygo.Sexp{shapeSexp(n)})
			if err != nil {
				return xform.Transform{}, err
			}
			return toXform(res)
		}), nil
	case *zygo.SexpPair, *zygo.SexpArray:
		items, err := sexpListToSlice(v)
		if err != nil {
			return nil, err
		}
		l := make(anchor.List, 0, len(items))
		for _, it := range items {
			d, err := toDesignator(env, it)
			if err != nil {
				return nil, err
			}
			l = append(l, d)
		}
		return l, nil
	}
	return nil, fmt.Errorf("expected anchor, transform, function or list, got %T (%s)", s, s.SexpString(nil))
}

// ---------------------------------------------------------------------------
// Units and queries
// ---------------------------------------------------------------------------

// unit converts a length in the named unit to millimetres: (cm 3) => 30.
func unit(factor float64) builtinFunc {
	return func(env *zygo.Zlisp, name string, argv []zygo.Sexp) (zygo.Sexp, error) {
		if len(argv) != 1 {
			return zygo.SexpNull, fmt.Errorf("%s requires one number", name)
		}
		v, err := toFloat64(argv[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
		}
		return floatSexp(v * factor), nil
	}
}

// bound queries one bounding-box coordinate of a shape.
func (st *state) bound(get func(shape.Bounds) float64) builtinFunc {
	return func(env *zygo.Zlisp, name string, argv []zygo.Sexp) (zygo.Sexp, error) {
		if len(argv) != 1 {
			return zygo.SexpNull, fmt.Errorf("%s requires one shape", name)
		}
		n, err := toShape(argv[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
		}
		b, err := n.Bounds(st.kernel)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
		}
		if b.IsEmpty() {
			return zygo.SexpNull, fmt.Errorf("%s: %w", name, errEmptyBounds)
		}
		return floatSexp(get(b)), nil
	}
}

var errEmptyBounds = errors.New("shape has an empty bounding box")

// (describe shape) returns the shape tree as indented JSON.
func describe(env *zygo.Zlisp, name string, argv []zygo.Sexp) (zygo.Sexp, error) {
	if len(argv) != 1 {
		return zygo.SexpNull, fmt.Errorf("describe requires one shape")
	}
	n, err := toShape(argv[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("describe: %w", err)
	}
	b, err := shape.DescribeJSON(n)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("describe: %w", err)
	}
	return &zygo.SexpStr{S: string(b)}, nil
}
