package shape

import (
	"fmt"
	"math"

	"github.com/chazu/rcad/pkg/outline"
)

// Severity indicates whether a finding blocks realization or is merely
// informational.
type Severity int

const (
	SeverityError   Severity = iota // realization would fail or be meaningless
	SeverityWarning                 // legal but probably unintended
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Finding describes one validation result.
type Finding struct {
	Node     ID
	Message  string
	Severity Severity
}

func (f Finding) Error() string {
	if f.Node.IsZero() {
		return fmt.Sprintf("[%s] %s", f.Severity, f.Message)
	}
	return fmt.Sprintf("[%s] node %s: %s", f.Severity, f.Node.Short(), f.Message)
}

// Validate checks the tree without a kernel and returns its findings,
// errors and warnings mixed in tree order. Shared subtrees are reported once.
func Validate(root *Node) []Finding {
	var out []Finding
	seen := map[*Node]bool{}
	var visit func(n *Node)
	visit = func(n *Node) {
		if seen[n] {
			return
		}
		seen[n] = true
		out = append(out, validateNode(n)...)
		for _, c := range n.children {
			visit(c)
		}
	}
	visit(root)
	return out
}

// HasErrors reports whether any finding is an error.
func HasErrors(fs []Finding) bool {
	for _, f := range fs {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

func validateNode(n *Node) []Finding {
	var fs []Finding
	errorf := func(format string, a ...any) {
		fs = append(fs, Finding{Node: n.ID(), Message: fmt.Sprintf(format, a...), Severity: SeverityError})
	}
	warnf := func(format string, a ...any) {
		fs = append(fs, Finding{Node: n.ID(), Message: fmt.Sprintf(format, a...), Severity: SeverityWarning})
	}
	positive := func(name string, v float64) {
		if v <= 0 {
			errorf("%s %s is %.4f, must be positive", n.prim, name, v)
		}
	}
	sameDim := func(what string) {
		for i, c := range n.children[1:] {
			if c.Dim() != n.children[0].Dim() {
				errorf("%s mixes dimensions: child %d is %d-D, child 0 is %d-D", what, i+1, c.Dim(), n.children[0].Dim())
			}
		}
	}

	switch n.kind {
	case KindPrimitive:
		p := n.params
		switch n.prim {
		case PrimBox:
			positive("x", p[0])
			positive("y", p[1])
			positive("z", p[2])
		case PrimCylinder:
			positive("diameter", p[0])
			positive("height", p[1])
		case PrimCone:
			positive("height", p[0])
			positive("base diameter", p[1])
			if p[2] < 0 {
				errorf("cone top diameter is %.4f, must not be negative", p[2])
			}
		case PrimSphere, PrimCircle:
			positive("diameter", p[0])
		case PrimTorus:
			if p[0] < 0 {
				errorf("torus inner diameter is %.4f, must not be negative", p[0])
			}
			if p[1] <= p[0] {
				errorf("torus outer diameter %.4f must exceed inner diameter %.4f", p[1], p[0])
			}
		case PrimPolyhedron:
			if len(n.faces) < 4 {
				errorf("polyhedron has %d faces, want at least 4", len(n.faces))
			}
		}

	case KindCombinator:
		switch len(n.children) {
		case 0:
			errorf("%s has no children", n.op)
		case 1:
			warnf("%s has a single child", n.op)
		default:
			sameDim(n.op.String())
		}

	case KindTransformed:
		if math.Abs(n.xf.Determinant()) < 1e-12 {
			errorf("transform is singular")
		}

	case KindExtrusion:
		if d := n.children[0].Dim(); d != 2 {
			errorf("extrusion profile is %d-D, want 2-D", d)
		}
		if n.height <= 0 {
			errorf("extrusion height is %.4f, must be positive", n.height)
		}

	case KindRevolution:
		if d := n.children[0].Dim(); d != 2 {
			errorf("revolution profile is %d-D, want 2-D", d)
		}

	case KindHull:
		switch len(n.children) {
		case 0:
			errorf("hull has no children")
		case 1:
			warnf("hull of a single shape")
		}

	case KindOutline:
		ws, err := outline.Wires(n.instrs)
		switch {
		case err != nil:
			errorf("%v", err)
		case len(ws) == 0:
			errorf("outline has no closed wires")
		}
	}
	return fs
}
