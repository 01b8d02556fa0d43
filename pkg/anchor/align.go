package anchor

import (
	"fmt"

	"github.com/chazu/rcad/pkg/kernel"
	"github.com/chazu/rcad/pkg/shape"
	"github.com/chazu/rcad/pkg/xform"
)

// AlignmentError reports an align request that cannot be satisfied.
type AlignmentError struct {
	Msg string
	Err error
}

func (e *AlignmentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("align: %s: %v", e.Msg, e.Err)
	}
	return "align: " + e.Msg
}

func (e *AlignmentError) Unwrap() error { return e.Err }

// A Designator resolves to a reference transform of a shape.
type Designator interface {
	Resolve(k kernel.Kernel, n *shape.Node) (xform.Transform, error)
}

// Resolve returns the named anchor of n.
func (a Name) Resolve(k kernel.Kernel, n *shape.Node) (xform.Transform, error) {
	return Anchor(k, n, a)
}

type fixed xform.Transform

// At designates an already computed transform.
func At(t xform.Transform) Designator { return fixed(t) }

func (f fixed) Resolve(kernel.Kernel, *shape.Node) (xform.Transform, error) {
	return xform.Transform(f), nil
}

// List composes its designators left to right: List(a, b) resolves to
// a.Compose(b).
type List []Designator

func (l List) Resolve(k kernel.Kernel, n *shape.Node) (xform.Transform, error) {
	acc := xform.Identity()
	for _, d := range l {
		t, err := d.Resolve(k, n)
		if err != nil {
			return xform.Transform{}, err
		}
		acc = acc.Compose(t)
	}
	return acc, nil
}

// Func computes a reference transform from the shape being aligned.
type Func func(n *shape.Node) (xform.Transform, error)

func (f Func) Resolve(_ kernel.Kernel, n *shape.Node) (xform.Transform, error) { return f(n) }

type of struct {
	other *shape.Node
	d     Designator
}

// Of resolves d against other instead of the shape being aligned. It is the
// usual way to name a target: Of(base, Top).
func Of(other *shape.Node, d Designator) Designator { return of{other, d} }

func (o of) Resolve(k kernel.Kernel, _ *shape.Node) (xform.Transform, error) {
	return o.d.Resolve(k, o.other)
}

// Align moves n so that its reference point lands on a target. The last
// designator is the target; the ones before it are composed left to right
// into the self reference S (the identity when there are none). The result
// is n transformed by target.Compose(S.Inverse()).
func Align(k kernel.Kernel, n *shape.Node, ds ...Designator) (*shape.Node, error) {
	t, err := Placement(k, n, ds...)
	if err != nil {
		return nil, err
	}
	return n.Transform(t), nil
}

// Placement returns the transform Align would apply to n.
func Placement(k kernel.Kernel, n *shape.Node, ds ...Designator) (xform.Transform, error) {
	if len(ds) == 0 {
		return xform.Transform{}, &AlignmentError{Msg: "no target given"}
	}
	target, err := ds[len(ds)-1].Resolve(k, n)
	if err != nil {
		return xform.Transform{}, &AlignmentError{Msg: "resolve target", Err: err}
	}
	self, err := List(ds[:len(ds)-1]).Resolve(k, n)
	if err != nil {
		return xform.Transform{}, &AlignmentError{Msg: "resolve self anchor", Err: err}
	}
	inv, err := self.TryInverse()
	if err != nil {
		return xform.Transform{}, &AlignmentError{Msg: "self anchor", Err: err}
	}
	return target.Compose(inv), nil
}
