package outline

import (
	"errors"
	"fmt"

	"github.com/chazu/rcad/pkg/kernel"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// ErrMalformed is returned for outlines whose wires do not nest properly:
// mutually containing wires, containment cycles, or a wire directly inside
// two others.
var ErrMalformed = errors.New("outline: malformed outline")

// Wires splits instructions into closed wires. A sub-path is closed by a
// close instruction, by the next move-to or by the end of the stream; a
// closing straight edge is added when the pen is not back at the start.
// Sub-paths without edges are dropped.
func Wires(instrs []Instruction) ([]kernel.Wire, error) {
	var (
		wires   []kernel.Wire
		edges   []kernel.Edge
		start   v2.Vec
		cur     v2.Vec
		started bool
	)
	finish := func() {
		if len(edges) > 0 && cur != start {
			edges = append(edges, kernel.Line(cur, start))
		}
		if len(edges) > 0 {
			wires = append(wires, kernel.Wire{Start: start, Edges: edges})
		}
		edges = nil
		cur = start
	}

	for i, in := range instrs {
		switch in.Op {
		case OpMoveTo:
			if started {
				finish()
			}
			start, cur, started = in.P[0], in.P[0], true
			continue
		case OpClose:
			if started {
				finish()
			}
			continue
		}
		if !started {
			return nil, fmt.Errorf("%w: instruction %d (%s) before any move-to", ErrMalformed, i, in.Op)
		}
		end := in.End()
		switch in.Op {
		case OpLineTo:
			if end != cur {
				edges = append(edges, kernel.Line(cur, end))
			}
		case OpQuadTo:
			edges = append(edges, kernel.Quad(cur, in.P[0], end))
		case OpCurveTo:
			edges = append(edges, kernel.Cubic(cur, in.P[0], in.P[1], end))
		default:
			return nil, fmt.Errorf("%w: unknown instruction %v", ErrMalformed, in.Op)
		}
		cur = end
	}
	if started {
		finish()
	}
	return wires, nil
}

// Nesting is the direct-containment forest of a set of wires.
type Nesting struct {
	Children [][]int // direct children per wire, in wire order
	Roots    []int   // wires inside no other wire, in wire order
}

// Nest builds the containment forest. Wire a contains wire b when b's start
// point lies inside the single-wire face of a.
func Nest(k kernel.Kernel, wires []kernel.Wire) (*Nesting, error) {
	n := len(wires)
	contains := make([][]bool, n)
	for a := range wires {
		contains[a] = make([]bool, n)
		face, err := k.Face(wires[a : a+1])
		if err != nil {
			return nil, err
		}
		for b := range wires {
			if a == b {
				continue
			}
			in, err := k.Contains(face, wires[b].Start)
			if err != nil {
				return nil, err
			}
			contains[a][b] = in
		}
	}

	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			if contains[a][b] && contains[b][a] {
				return nil, fmt.Errorf("%w: wires %d and %d contain each other", ErrMalformed, a, b)
			}
		}
	}

	// Direct children: a's containees minus everything its containees contain.
	nest := &Nesting{Children: make([][]int, n)}
	parents := make([]int, n)
	for a := 0; a < n; a++ {
		for b := 0; b < n; b++ {
			if !contains[a][b] {
				continue
			}
			indirect := false
			for c := 0; c < n; c++ {
				if contains[a][c] && contains[c][b] {
					indirect = true
					break
				}
			}
			if !indirect {
				nest.Children[a] = append(nest.Children[a], b)
				parents[b]++
			}
		}
	}
	for w, p := range parents {
		switch {
		case p == 0:
			nest.Roots = append(nest.Roots, w)
		case p > 1:
			return nil, fmt.Errorf("%w: wire %d lies directly inside %d wires", ErrMalformed, w, p)
		}
	}
	if len(nest.Roots) == 0 && n > 0 {
		return nil, fmt.Errorf("%w: containment cycle", ErrMalformed)
	}
	return nest, nil
}

// Group orders and orients the wires of each face. Each root yields one
// wire list: the root in its natural orientation followed by its
// descendants depth first, reversed at odd depth (holes) and natural at even
// depth (islands).
func Group(k kernel.Kernel, wires []kernel.Wire) ([][]kernel.Wire, error) {
	nest, err := Nest(k, wires)
	if err != nil {
		return nil, err
	}
	seen := make([]bool, len(wires))
	var collect func(w, depth int, dst []kernel.Wire) ([]kernel.Wire, error)
	collect = func(w, depth int, dst []kernel.Wire) ([]kernel.Wire, error) {
		if seen[w] {
			return nil, fmt.Errorf("%w: containment cycle through wire %d", ErrMalformed, w)
		}
		seen[w] = true
		if depth%2 == 1 {
			dst = append(dst, wires[w].Reverse())
		} else {
			dst = append(dst, wires[w])
		}
		for _, c := range nest.Children[w] {
			if dst, err = collect(c, depth+1, dst); err != nil {
				return nil, err
			}
		}
		return dst, nil
	}

	faces := make([][]kernel.Wire, 0, len(nest.Roots))
	for _, r := range nest.Roots {
		f, err := collect(r, 0, nil)
		if err != nil {
			return nil, err
		}
		faces = append(faces, f)
	}
	for w, ok := range seen {
		if !ok {
			return nil, fmt.Errorf("%w: wire %d is unreachable from any outer wire", ErrMalformed, w)
		}
	}
	return faces, nil
}

// Faces runs the whole pipeline and builds one kernel face per outer wire.
func Faces(k kernel.Kernel, instrs []Instruction) ([]kernel.Solid, error) {
	wires, err := Wires(instrs)
	if err != nil {
		return nil, err
	}
	groups, err := Group(k, wires)
	if err != nil {
		return nil, err
	}
	faces := make([]kernel.Solid, len(groups))
	for i, g := range groups {
		if faces[i], err = k.Face(g); err != nil {
			return nil, err
		}
	}
	return faces, nil
}

// Build returns the outline as a single solid: the face itself when there is
// one, otherwise a compound of all faces.
func Build(k kernel.Kernel, instrs []Instruction) (kernel.Solid, error) {
	faces, err := Faces(k, instrs)
	if err != nil {
		return nil, err
	}
	switch len(faces) {
	case 0:
		return nil, fmt.Errorf("%w: no closed wires", ErrMalformed)
	case 1:
		return faces[0], nil
	}
	return k.Compound(faces)
}
