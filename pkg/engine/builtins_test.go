package engine

import (
	"strings"
	"testing"

	"github.com/chazu/rcad/pkg/args"
	"github.com/chazu/rcad/pkg/kernel/kerneltest"
	"github.com/chazu/rcad/pkg/shape"
	"github.com/chazu/rcad/pkg/xform"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(anchor s :top)`,
			expect: `(anchor s "__kw_top")`,
		},
		{
			name:   "multiple keywords",
			input:  `(cone :h 10 :r0 3)`,
			expect: `(cone "__kw_h" 10 "__kw_r0" 3)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(move-z base 100)`,
			expect: `(move_z base 100)`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "negative literal preserved",
			input:  `(move b -50 -50 0)`,
			expect: `(move b -50 -50 0)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "single semicolon comment",
			input:  `; simple comment`,
			expect: `// simple comment`,
		},
		{
			name:   "hyphen in keyword preserved",
			input:  `:x-center`,
			expect: `"__kw_x-center"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

func TestCallValues(t *testing.T) {
	argv := []zygo.Sexp{
		&zygo.SexpInt{Val: 10},
		&zygo.SexpStr{S: kwPrefix + "r0"},
		&zygo.SexpFloat{Val: 1.5},
	}
	vals := callValues(argv)
	if len(vals) != 2 {
		t.Fatalf("callValues() = %v, want one positional and a Named", vals)
	}
	if vals[0] != int64(10) {
		t.Errorf("positional = %#v, want int64(10)", vals[0])
	}
	named, ok := vals[1].(args.Named)
	if !ok || named["r0"] != 1.5 {
		t.Errorf("named = %#v, want r0=1.5", vals[1])
	}
}

// ---------------------------------------------------------------------------
// Evaluation helpers
// ---------------------------------------------------------------------------

func mustEval(t *testing.T, source string) *shape.Node {
	t.Helper()
	res, evalErrs, err := newTestEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	n, err := res.Root()
	if err != nil {
		t.Fatalf("Root() error: %v", err)
	}
	return n
}

func evalError(t *testing.T, source string) string {
	t.Helper()
	res, evalErrs, err := newTestEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) == 0 {
		t.Fatalf("expected eval error, got result %v", res.Shape)
	}
	return evalErrs[0].Message
}

func sameTree(t *testing.T, got, want *shape.Node) {
	t.Helper()
	if got.ID() != want.ID() {
		t.Errorf("tree = %v (%s), want %v (%s)", got, got.ID().Short(), want, want.ID().Short())
	}
}

// ---------------------------------------------------------------------------
// Builtin tests
// ---------------------------------------------------------------------------

func TestPedestal(t *testing.T) {
	got := mustEval(t, `
; a square base, a column and a cap, turned 45 degrees
(def base (move (box 100 100 30) -50 -50 0))
(def pedestal
  (add (fn []
    (put base)
    (put (move-z (cylinder 80 70) 30))
    (put (move-z base 100)))))
(put (rot-z pedestal 45))
`)
	base := shape.Must(shape.Box(100, 100, 30)).Move(-50, -50, 0)
	col := shape.Must(shape.Cylinder(80, 70)).MoveZ(30)
	want := base.Union(col).Union(base.MoveZ(100)).RotZ(xform.Deg(45))
	sameTree(t, got, want)
}

func TestKeywordArguments(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   *shape.Node
	}{
		{"cone radius alias", `(put (cone 10 :r0 3))`, shape.Must(shape.Cone(10, 6))},
		{"cylinder by name", `(put (cylinder :h 5 :r 2))`, shape.Must(shape.Cylinder(4, 5))},
		{"sphere radius", `(put (sphere :r 1.5))`, shape.Must(shape.Sphere(3))},
		{"torus default angle", `(put (torus 4 8))`, shape.Must(shape.Torus(4, 8, 0))},
		{"units", `(put (box (cm 1) (mm 2) (inch 1)))`, shape.Must(shape.Box(10, 2, 25.4))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sameTree(t, mustEval(t, tt.source), tt.want)
		})
	}
}

func TestArgumentErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"alias conflict", `(put (cylinder :d 2 :r 1 :h 3))`, "conflicting parameter"},
		{"missing", `(put (cone 10))`, "missing parameter"},
		{"unknown name", `(put (box 1 1 1 :w 2))`, "unknown parameter"},
		{"coordinates as list", `(put (move (box 1 1 1) [1 2 3]))`, "please pass coordinates separately"},
		{"union needs shapes", `(put (union 1 2))`, "expected shape"},
		{"block needs function", `(add (box 1 1 1))`, "expected function"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if msg := evalError(t, tt.source); !strings.Contains(msg, tt.want) {
				t.Errorf("error = %q, want containing %q", msg, tt.want)
			}
		})
	}
}

func TestTransforms(t *testing.T) {
	b := shape.Must(shape.Box(1, 1, 1))
	tests := []struct {
		name   string
		source string
		want   *shape.Node
	}{
		{"move keywords", `(put (move (box 1 1 1) :z 5))`, b.Move(0, 0, 5)},
		{"rotate default axis", `(put (rotate (box 1 1 1) 90))`, b.Rotate(xform.Deg(90), xform.AxisZ)},
		{"rotate about x", `(put (rotate (box 1 1 1) 90 [1 0 0]))`, b.Rotate(xform.Deg(90), xform.AxisX)},
		{"uniform scale", `(put (scale (box 1 1 1) 2))`, b.Transform(xform.ScaleUniform(2))},
		{"scale keywords", `(put (scale (box 1 1 1) :z 3))`, b.Scale(1, 1, 3)},
		{"mirror", `(put (mirror-x (box 1 1 1)))`, b.MirrorX()},
		{"transform value", `(def xf (move-z (identity) 5)) (put (transform (box 1 1 1) xf))`, b.MoveZ(5)},
		{"chained", `(put (rot-x (move-y (box 1 1 1) 2) 90))`, b.MoveY(2).RotX(xform.Deg(90))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sameTree(t, mustEval(t, tt.source), tt.want)
		})
	}
}

func TestBlocks(t *testing.T) {
	t.Run("sub", func(t *testing.T) {
		got := mustEval(t, `(put (sub (fn [] (put (box 10 10 10)) (put (cylinder 2 20)))))`)
		want := shape.Must(shape.Box(10, 10, 10)).Difference(shape.Must(shape.Cylinder(2, 20)))
		sameTree(t, got, want)
	})
	t.Run("hull block", func(t *testing.T) {
		got := mustEval(t, `(put (hull (fn [] (put (box 1 1 1)) (put (move-x (box 1 1 1) 5)))))`)
		if got.Kind() != shape.KindHull || len(got.Children()) != 2 {
			t.Errorf("got %v, want hull of 2", got)
		}
	})
	t.Run("nested blocks restore", func(t *testing.T) {
		got := mustEval(t, `
(put (add (fn []
  (put (box 1 1 1))
  (put (mul (fn [] (put (sphere 2)) (put (box 1 1 1)))))
  (put (sphere 4)))))`)
		b := shape.Must(shape.Box(1, 1, 1))
		inner := shape.Must(shape.Sphere(2)).Intersect(b)
		sameTree(t, got, b.Union(inner).Union(shape.Must(shape.Sphere(4))))
	})
	t.Run("block result is not contributed", func(t *testing.T) {
		res, evalErrs, err := newTestEngine().Evaluate(`(add (fn [] (put (box 1 1 1))))`)
		if err != nil || len(evalErrs) > 0 {
			t.Fatalf("Evaluate() = %v, %v", evalErrs, err)
		}
		if res.Shape != nil {
			t.Errorf("Shape = %v, want nil", res.Shape)
		}
	})
	t.Run("empty block", func(t *testing.T) {
		got := mustEval(t, `(put (box 1 1 1)) (put (add (fn [] 1)))`)
		sameTree(t, got, shape.Must(shape.Box(1, 1, 1)))
	})
}

func TestAlign(t *testing.T) {
	k := kerneltest.New()
	tests := []struct {
		name    string
		source  string
		minZ    float64
		maxZ    float64
		centerX float64
	}{
		{
			name:    "stack on top",
			source:  `(def base (box 10 10 3)) (put (align (box 2 2 2) :bottom (of base :top)))`,
			minZ:    3,
			maxZ:    5,
			centerX: 1,
		},
		{
			name:    "list of anchors onto a transform",
			source:  `(put (align (box 2 2 2) [:x-center :ycenter] (move (identity) 5 5 0)))`,
			minZ:    0,
			maxZ:    2,
			centerX: 5,
		},
		{
			name:    "function designator",
			source:  `(put (align (box 2 2 2) (fn [s] (anchor s :top)) (identity)))`,
			minZ:    -2,
			maxZ:    0,
			centerX: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := mustEval(t, tt.source).Bounds(k)
			if err != nil {
				t.Fatalf("Bounds() error: %v", err)
			}
			if b.MinZ() != tt.minZ || b.MaxZ() != tt.maxZ || b.CX() != tt.centerX {
				t.Errorf("bounds z=[%v,%v] cx=%v, want z=[%v,%v] cx=%v",
					b.MinZ(), b.MaxZ(), b.CX(), tt.minZ, tt.maxZ, tt.centerX)
			}
		})
	}
}

func TestBoundsQueries(t *testing.T) {
	got := mustEval(t, `(def tall (box 2 2 4)) (put (move-z (box 1 1 1) (+ (max-z tall) (x-size tall))))`)
	sameTree(t, got, shape.Must(shape.Box(1, 1, 1)).MoveZ(6))
}

func TestProfiles(t *testing.T) {
	t.Run("polygon", func(t *testing.T) {
		got := mustEval(t, `(put (polygon [[0 0] [10 0] [0 10]]))`)
		if got.Dim() != 2 {
			t.Errorf("Dim() = %d, want 2", got.Dim())
		}
	})
	t.Run("extrude with twist", func(t *testing.T) {
		got := mustEval(t, `(put (extrude (square 4) 10 :twist 90))`)
		want := shape.Must(shape.Square(4)).Extrude(10, xform.Deg(90))
		sameTree(t, got, want)
	})
	t.Run("revolve", func(t *testing.T) {
		got := mustEval(t, `(put (revolve (move-x (circle 2) 5)))`)
		if got.Kind() != shape.KindRevolution || got.Angle() != 0 {
			t.Errorf("got %v angle %v, want full revolution", got, got.Angle())
		}
	})
	t.Run("text", func(t *testing.T) {
		got := mustEval(t, `(put (extrude (text "o" :size 10) 2))`)
		profile := got.Children()[0]
		if profile.Kind() != shape.KindOutline || profile.Label() != "o" {
			t.Errorf("profile = %v label %q, want outline \"o\"", profile, profile.Label())
		}
	})
}

func TestDescribeBuiltin(t *testing.T) {
	n := shape.Must(shape.Box(1, 2, 3))
	out, err := describe(nil, "describe", []zygo.Sexp{shapeSexp(n)})
	if err != nil {
		t.Fatalf("describe() error: %v", err)
	}
	s, ok := out.(*zygo.SexpStr)
	if !ok {
		t.Fatalf("describe() = %T, want *zygo.SexpStr", out)
	}
	if !strings.Contains(s.S, `"primitive": "box"`) {
		t.Errorf("describe() = %s, want box primitive", s.S)
	}
}

func TestWithDefault(t *testing.T) {
	tests := []struct {
		name string
		vals []any
		want int // number of values after injection
		font any
	}{
		{"nothing given", nil, 1, "/f.ttf"},
		{"font positional", []any{"/g.ttf"}, 1, nil},
		{"font by name", []any{args.Named{"font": "/g.ttf"}}, 1, "/g.ttf"},
		{"size by name", []any{args.Named{"size": 3.0}}, 1, "/f.ttf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := withDefault(tt.vals, 0, "font", "/f.ttf")
			if len(got) != tt.want {
				t.Fatalf("withDefault() = %v, want %d values", got, tt.want)
			}
			c := args.Split(got)
			if c.Named["font"] != tt.font {
				t.Errorf("font = %v, want %v", c.Named["font"], tt.font)
			}
		})
	}
}
