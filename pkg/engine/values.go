package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/rcad/pkg/anchor"
	"github.com/chazu/rcad/pkg/args"
	"github.com/chazu/rcad/pkg/shape"
	"github.com/chazu/rcad/pkg/xform"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpShape wraps a shape node so it can be passed between builtins.
type sexpShape struct {
	node *shape.Node
}

func (s *sexpShape) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(shape %s %s)", s.node, s.node.ID().Short())
}
func (s *sexpShape) Type() *zygo.RegisteredType { return nil }

// sexpXform wraps a rigid or affine transform, as returned by anchor.
type sexpXform struct {
	t xform.Transform
}

func (x *sexpXform) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(xform %s)", x.t)
}
func (x *sexpXform) Type() *zygo.RegisteredType { return nil }

// sexpDesignator wraps an anchor designator built by of.
type sexpDesignator struct {
	d anchor.Designator
}

func (d *sexpDesignator) SexpString(ps *zygo.PrintState) string { return "(designator)" }
func (d *sexpDesignator) Type() *zygo.RegisteredType          { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(argv []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(argv) {
		name, ok := isKW(argv[i])
		if ok && i+1 < len(argv) {
			result.kw[name] = argv[i+1]
			i += 2
			continue
		}
		if ok {
			// Trailing keyword with no value is a flag.
			result.kw[name] = zygo.SexpNull
			i++
			continue
		}
		result.positional = append(result.positional, argv[i])
		i++
	}
	return result
}

// callValues converts a builtin's arguments into the variadic form the shape
// constructors take: positional Go values followed by an args.Named.
func callValues(argv []zygo.Sexp) []any {
	kw := parseArgs(argv)
	vals := make([]any, 0, len(kw.positional)+1)
	for _, p := range kw.positional {
		vals = append(vals, toValue(p))
	}
	if len(kw.kw) > 0 {
		named := make(args.Named, len(kw.kw))
		for k, v := range kw.kw {
			named[strings.ReplaceAll(k, "-", "_")] = toValue(v)
		}
		vals = append(vals, named)
	}
	return vals
}

// toValue maps a Sexp onto the Go value args understands. Lists become
// []any so the resolver reports them as sequences.
func toValue(s zygo.Sexp) any {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return v.Val
	case *zygo.SexpFloat:
		return v.Val
	case *zygo.SexpStr:
		if name, ok := isKW(v); ok {
			return name
		}
		return v.S
	case *sexpShape:
		return v.node
	case *zygo.SexpPair, *zygo.SexpArray:
		items, err := sexpListToSlice(v)
		if err != nil {
			return s
		}
		out := make([]any, len(items))
		for i, it := range items {
			out[i] = toValue(it)
		}
		return out
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil
		}
	}
	return s
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	case *zygo.SexpPair, *zygo.SexpArray:
		return 0, fmt.Errorf("expected number, got a list; please pass coordinates separately")
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_top) and plain strings ("top").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toShape extracts a shape node from a sexpShape.
func toShape(s zygo.Sexp) (*shape.Node, error) {
	if sh, ok := s.(*sexpShape); ok {
		return sh.node, nil
	}
	return nil, fmt.Errorf("expected shape, got %T (%s)", s, s.SexpString(nil))
}

// toShapes extracts every argument as a shape.
func toShapes(argv []zygo.Sexp) ([]*shape.Node, error) {
	out := make([]*shape.Node, 0, len(argv))
	for i, a := range argv {
		n, err := toShape(a)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		out = append(out, n)
	}
	return out, nil
}

// toXform extracts a transform from a sexpXform.
func toXform(s zygo.Sexp) (xform.Transform, error) {
	if x, ok := s.(*sexpXform); ok {
		return x.t, nil
	}
	return xform.Transform{}, fmt.Errorf("expected transform, got %T (%s)", s, s.SexpString(nil))
}

// toVec2 converts a two-element list to a 2-D point.
func toVec2(s zygo.Sexp) (v2.Vec, error) {
	f, err := toFloats(s, 2)
	if err != nil {
		return v2.Vec{}, err
	}
	return v2.Vec{X: f[0], Y: f[1]}, nil
}

// toVec3 converts a three-element list to a 3-D point.
func toVec3(s zygo.Sexp) (v3.Vec, error) {
	f, err := toFloats(s, 3)
	if err != nil {
		return v3.Vec{}, err
	}
	return v3.Vec{X: f[0], Y: f[1], Z: f[2]}, nil
}

func toFloats(s zygo.Sexp, n int) ([]float64, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, err
	}
	if len(items) != n {
		return nil, fmt.Errorf("expected %d numbers, got %d", n, len(items))
	}
	out := make([]float64, n)
	for i, it := range items {
		if out[i], err = toFloat64(it); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// toInts converts a list of integers, as used for face and path indices.
func toInts(s zygo.Sexp) ([]int, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(items))
	for i, it := range items {
		n, ok := it.(*zygo.SexpInt)
		if !ok {
			return nil, fmt.Errorf("expected integer index, got %T", it)
		}
		out[i] = int(n.Val)
	}
	return out, nil
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

func floatSexp(f float64) zygo.Sexp { return &zygo.SexpFloat{Val: f} }

func shapeSexp(n *shape.Node) zygo.Sexp {
	if n == nil {
		return zygo.SexpNull
	}
	return &sexpShape{node: n}
}
