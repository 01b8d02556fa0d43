package glyph

import (
	"math"
	"testing"

	"github.com/chazu/rcad/pkg/kernel/kerneltest"
	"github.com/chazu/rcad/pkg/outline"
)

func TestLoadDefaultCached(t *testing.T) {
	a, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}
	b, _ := Load("")
	if a != b {
		t.Error("Load(\"\") returned a different font on the second call")
	}
	if a.Name != "goregular" {
		t.Errorf("Name = %q, want goregular", a.Name)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load("/nonexistent/font.ttf"); err == nil {
		t.Fatal("Load(missing) error = nil, want error")
	}
}

func TestInstructionsClosedContours(t *testing.T) {
	instrs, err := Instructions("oi", "", 10)
	if err != nil {
		t.Fatalf("Instructions() error: %v", err)
	}
	if len(instrs) == 0 {
		t.Fatal("Instructions() returned nothing")
	}
	if instrs[0].Op != outline.OpMoveTo {
		t.Errorf("first op = %v, want move-to", instrs[0].Op)
	}
	if instrs[len(instrs)-1].Op != outline.OpClose {
		t.Errorf("last op = %v, want close", instrs[len(instrs)-1].Op)
	}
	for i := 1; i < len(instrs); i++ {
		if instrs[i].Op == outline.OpMoveTo && instrs[i-1].Op != outline.OpClose {
			t.Errorf("move-to at %d not preceded by close", i)
		}
	}
}

func TestInstructionsLayout(t *testing.T) {
	instrs, err := Instructions("o", "", 10)
	if err != nil {
		t.Fatal(err)
	}
	ws, err := outline.Wires(instrs)
	if err != nil {
		t.Fatal(err)
	}
	// "o" is a ring: one outer contour and one hole.
	groups, err := outline.Group(kerneltest.New(), ws)
	if err != nil {
		t.Fatalf("Group() error: %v", err)
	}
	if len(groups) != 1 || len(groups[0]) != 2 {
		t.Fatalf("groups = %d faces, want one face with two wires", len(groups))
	}
	if len(ws) != 2 {
		t.Fatalf("wires = %d, want 2", len(ws))
	}
	// The outer contour keeps its winding; the hole is reversed relative to
	// its own natural winding, whatever the font's convention is.
	const tol = 0.01
	outer, hole := 0, 1
	if math.Abs(ws[1].SignedArea(tol)) > math.Abs(ws[0].SignedArea(tol)) {
		outer, hole = 1, 0
	}
	if got, want := groups[0][0].SignedArea(tol), ws[outer].SignedArea(tol); math.Abs(got-want) > 1e-6 {
		t.Errorf("outer area = %v, want natural %v", got, want)
	}
	if got, want := groups[0][1].SignedArea(tol), -ws[hole].SignedArea(tol); math.Abs(got-want) > 1e-6 {
		t.Errorf("hole area = %v, want reversed %v", got, want)
	}

	var maxY float64
	for _, in := range instrs {
		if in.Op != outline.OpClose && in.End().Y > maxY {
			maxY = in.End().Y
		}
	}
	if maxY <= 0 || maxY > 10 {
		t.Errorf("glyph top = %v, want above the baseline and below the em size", maxY)
	}

	two, err := Instructions("oo", "", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(two) != 2*len(instrs) {
		t.Errorf("len(oo) = %d, want %d", len(two), 2*len(instrs))
	}
	if two[len(instrs)].P[0].X <= instrs[0].P[0].X {
		t.Error("second glyph did not advance along x")
	}
}

func TestInstructionsBadSize(t *testing.T) {
	if _, err := Instructions("a", "", 0); err == nil {
		t.Fatal("Instructions(size 0) error = nil, want error")
	}
}
