package shape

import (
	"strings"
	"testing"

	"github.com/chazu/rcad/pkg/outline"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

func TestValidate(t *testing.T) {
	sq := Must(Square(1))
	b := Must(Box(1, 1, 1))
	tetra := Must(Polyhedron(
		[]v3.Vec{{}, {X: 1}, {Y: 1}, {Z: 1}},
		[][]int{{0, 2, 1}, {0, 1, 3}, {0, 3, 2}},
	))
	tests := []struct {
		name     string
		node     *Node
		severity Severity
		contains string
	}{
		{"non-positive box", Must(Box(0, 1, 1)), SeverityError, "box x is 0.0000"},
		{"negative cone top", Must(Cone(1, 1, -1)), SeverityError, "top diameter"},
		{"torus inverted", Must(Torus(6, 2)), SeverityError, "outer diameter"},
		{"few faces", tetra, SeverityError, "3 faces"},
		{"single child", Combine(OpUnion, b), SeverityWarning, "single child"},
		{"mixed dimensions", b.Union(sq), SeverityError, "mixes dimensions"},
		{"singular transform", b.ScaleZ(0), SeverityError, "singular"},
		{"extrude solid", b.Extrude(1, 0), SeverityError, "profile is 3-D"},
		{"extrude zero height", sq.Extrude(0, 0), SeverityError, "height"},
		{"revolve solid", b.Revolve(0), SeverityError, "profile is 3-D"},
		{"lonely hull", Hull(b), SeverityWarning, "single shape"},
		{"empty outline", Outline(nil), SeverityError, "no closed wires"},
		{"draw before move", Outline([]outline.Instruction{outline.LineTo(v2.Vec{X: 1})}), SeverityError, "before any move-to"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := Validate(tt.node)
			for _, f := range fs {
				if f.Severity == tt.severity && strings.Contains(f.Error(), tt.contains) {
					return
				}
			}
			t.Errorf("Validate() = %v, want a %s containing %q", fs, tt.severity, tt.contains)
		})
	}
}

func TestValidateClean(t *testing.T) {
	b := Must(Box(1, 1, 1))
	tree := b.Union(b.MoveX(2)).Difference(Must(Sphere(1))).RotZ(1)
	if fs := Validate(tree); len(fs) != 0 {
		t.Errorf("Validate() = %v, want no findings", fs)
	}
	if fs := Validate(Hull(Must(Circle(2)), b.MoveZ(5))); len(fs) != 0 {
		t.Errorf("Validate(mixed hull) = %v, want no findings", fs)
	}
	if HasErrors(nil) {
		t.Error("HasErrors(nil) = true")
	}
}

func TestFindingFormat(t *testing.T) {
	n := Must(Box(0, 1, 1))
	fs := Validate(n)
	if len(fs) != 1 {
		t.Fatalf("Validate() = %v, want one finding", fs)
	}
	want := "[error] node " + n.ID().Short() + ": box x is 0.0000, must be positive"
	if got := fs[0].Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !HasErrors(fs) {
		t.Error("HasErrors() = false, want true")
	}
}
