package outline

import (
	"errors"
	"testing"

	"github.com/chazu/rcad/pkg/kernel"
	"github.com/chazu/rcad/pkg/kernel/kerneltest"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

func pt(x, y float64) v2.Vec { return v2.Vec{X: x, Y: y} }

func concat(parts ...[]Instruction) []Instruction {
	var out []Instruction
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func areas(ws []kernel.Wire) []float64 {
	out := make([]float64, len(ws))
	for i, w := range ws {
		out[i] = w.SignedArea(0.01)
	}
	return out
}

func TestWiresSegmentation(t *testing.T) {
	tests := []struct {
		name   string
		instrs []Instruction
		edges  []int
	}{
		{"closed rect", Rect(0, 0, 2, 1), []int{4}},
		{"implicit close at end", []Instruction{MoveTo(pt(0, 0)), LineTo(pt(1, 0)), LineTo(pt(1, 1))}, []int{3}},
		{"implicit close at move", []Instruction{
			MoveTo(pt(0, 0)), LineTo(pt(1, 0)), LineTo(pt(1, 1)),
			MoveTo(pt(5, 5)), LineTo(pt(6, 5)), LineTo(pt(6, 6)), Close(),
		}, []int{3, 3}},
		{"explicit return needs no extra edge", []Instruction{
			MoveTo(pt(0, 0)), LineTo(pt(1, 0)), LineTo(pt(1, 1)), LineTo(pt(0, 0)), Close(),
		}, []int{3}},
		{"empty sub-paths dropped", []Instruction{MoveTo(pt(0, 0)), MoveTo(pt(1, 1)), Close(), Close()}, nil},
		{"curves", []Instruction{
			MoveTo(pt(0, 0)), QuadTo(pt(1, 2), pt(2, 0)), CurveTo(pt(2, -1), pt(0, -1), pt(0, 0)), Close(),
		}, []int{2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws, err := Wires(tt.instrs)
			if err != nil {
				t.Fatalf("Wires() error: %v", err)
			}
			if len(ws) != len(tt.edges) {
				t.Fatalf("Wires() = %d wires, want %d", len(ws), len(tt.edges))
			}
			for i, w := range ws {
				if len(w.Edges) != tt.edges[i] {
					t.Errorf("wire %d has %d edges, want %d", i, len(w.Edges), tt.edges[i])
				}
				if !w.Closed() {
					t.Errorf("wire %d is not closed", i)
				}
			}
		})
	}
}

func TestWiresCurveEdges(t *testing.T) {
	ws, err := Wires([]Instruction{MoveTo(pt(0, 0)), QuadTo(pt(1, 2), pt(2, 0)), Close()})
	if err != nil {
		t.Fatal(err)
	}
	if got := ws[0].Edges[0].Kind; got != kernel.CurveEdge {
		t.Errorf("first edge kind = %v, want CurveEdge", got)
	}
	if got := ws[0].Edges[1].Kind; got != kernel.LineEdge {
		t.Errorf("closing edge kind = %v, want LineEdge", got)
	}
}

func TestWiresDrawBeforeMove(t *testing.T) {
	_, err := Wires([]Instruction{LineTo(pt(1, 1))})
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("Wires() error = %v, want ErrMalformed", err)
	}
}

func TestGroupNested(t *testing.T) {
	outer := Rect(0, 0, 10, 10)
	inner := Rect(3, 3, 4, 4)
	for _, tc := range []struct {
		name   string
		instrs []Instruction
	}{
		{"outer first", concat(outer, inner)},
		{"inner first", concat(inner, outer)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ws, err := Wires(tc.instrs)
			if err != nil {
				t.Fatal(err)
			}
			groups, err := Group(kerneltest.New(), ws)
			if err != nil {
				t.Fatalf("Group() error: %v", err)
			}
			if len(groups) != 1 {
				t.Fatalf("Group() = %d faces, want 1", len(groups))
			}
			got := areas(groups[0])
			if len(got) != 2 || got[0] != 100 || got[1] != -16 {
				t.Errorf("face areas = %v, want [100 -16]", got)
			}
		})
	}
}

func TestGroupIslandAndDisjoint(t *testing.T) {
	instrs := concat(
		Rect(0, 0, 10, 10),
		Rect(2, 2, 6, 6),
		Rect(4, 4, 2, 2),
		Rect(20, 0, 1, 1),
	)
	ws, err := Wires(instrs)
	if err != nil {
		t.Fatal(err)
	}
	groups, err := Group(kerneltest.New(), ws)
	if err != nil {
		t.Fatalf("Group() error: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("Group() = %d faces, want 2", len(groups))
	}
	got := areas(groups[0])
	want := []float64{100, -36, 4}
	if len(got) != len(want) {
		t.Fatalf("first face areas = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("first face areas = %v, want %v", got, want)
			break
		}
	}
	if got := areas(groups[1]); len(got) != 1 || got[0] != 1 {
		t.Errorf("second face areas = %v, want [1]", got)
	}
}

func TestGroupMalformed(t *testing.T) {
	tests := []struct {
		name   string
		instrs []Instruction
	}{
		{"mutual containment", []Instruction{
			MoveTo(pt(1, 1)), LineTo(pt(30, 0)), LineTo(pt(30, 2)), Close(),
			MoveTo(pt(29, 1)), LineTo(pt(0, 0)), LineTo(pt(0, 2)), Close(),
		}},
		{"two direct parents", concat(
			Rect(0, 0, 10, 10),
			[]Instruction{MoveTo(pt(15, 15)), LineTo(pt(5, 15)), LineTo(pt(5, 5)), LineTo(pt(15, 5)), Close()},
			Rect(6, 6, 3, 3),
		)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws, err := Wires(tt.instrs)
			if err != nil {
				t.Fatal(err)
			}
			if _, err := Group(kerneltest.New(), ws); !errors.Is(err, ErrMalformed) {
				t.Errorf("Group() error = %v, want ErrMalformed", err)
			}
		})
	}
}

func TestBuild(t *testing.T) {
	k := kerneltest.New()
	s, err := Build(k, concat(Rect(0, 0, 10, 10), Rect(3, 3, 4, 4)))
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if got := s.(*kerneltest.Solid).Expr; got != "face(2)" {
		t.Errorf("Build() = %q, want face(2)", got)
	}
	inHole, _ := k.Contains(s, pt(5, 5))
	inRing, _ := k.Contains(s, pt(1, 1))
	if inHole || !inRing {
		t.Errorf("Contains(hole) = %v, Contains(ring) = %v, want false, true", inHole, inRing)
	}

	s, err = Build(k, concat(Rect(0, 0, 1, 1), Rect(5, 0, 1, 1)))
	if err != nil {
		t.Fatal(err)
	}
	if got := s.(*kerneltest.Solid).Expr; got != "compound(face(1),face(1))" {
		t.Errorf("Build() = %q, want compound of two faces", got)
	}

	if _, err := Build(k, nil); !errors.Is(err, ErrMalformed) {
		t.Errorf("Build(nil) error = %v, want ErrMalformed", err)
	}
}
