// Package scope implements nested accumulation blocks. Inside a block,
// contributed shapes fold into the block's accumulator with the block's mode;
// leaving the block restores the enclosing one and yields the result.
package scope

import (
	"fmt"

	"github.com/chazu/rcad/pkg/shape"
)

// Mode is the combining mode of a block.
type Mode int

const (
	Union Mode = iota
	Difference
	Intersection
	Hull
)

func (m Mode) String() string {
	switch m {
	case Union:
		return "union"
	case Difference:
		return "difference"
	case Intersection:
		return "intersection"
	case Hull:
		return "hull"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// StateError is returned when a result is requested before anything was
// contributed.
type StateError struct {
	Msg string
}

func (e *StateError) Error() string { return "scope: " + e.Msg }

type frame struct {
	mode Mode
	acc  *shape.Node
	hull []*shape.Node
}

func (f *frame) put(n *shape.Node) {
	switch {
	case f.mode == Hull:
		f.hull = append(f.hull, n)
	case f.acc == nil:
		f.acc = n
	case f.mode == Union:
		f.acc = f.acc.Union(n)
	case f.mode == Difference:
		f.acc = f.acc.Difference(n)
	case f.mode == Intersection:
		f.acc = f.acc.Intersect(n)
	}
}

func (f *frame) result() *shape.Node {
	if f.mode == Hull {
		if len(f.hull) == 0 {
			return nil
		}
		return shape.Hull(f.hull...)
	}
	return f.acc
}

// Context is the accumulation stack of one build. Its root frame is a union
// block. A Context is not safe for concurrent use; concurrent builds each
// use their own.
type Context struct {
	cur   frame
	saved []frame
}

// New returns a context with an empty union root.
func New() *Context {
	return &Context{cur: frame{mode: Union}}
}

// Put contributes n to the innermost block. A nil shape is ignored.
func (c *Context) Put(n *shape.Node) {
	if n == nil {
		return
	}
	c.cur.put(n)
}

// Block runs fn inside a new block of mode m and returns what the block
// accumulated, which may be nil. The enclosing block is restored even if fn
// fails or panics. The result is not contributed to the enclosing block.
func (c *Context) Block(m Mode, fn func() error) (res *shape.Node, err error) {
	c.saved = append(c.saved, c.cur)
	c.cur = frame{mode: m}
	defer func() {
		res = c.cur.result()
		c.cur = c.saved[len(c.saved)-1]
		c.saved = c.saved[:len(c.saved)-1]
		if err != nil {
			res = nil
		}
	}()
	err = fn()
	return res, err
}

// Add runs fn in a union block.
func (c *Context) Add(fn func() error) (*shape.Node, error) { return c.Block(Union, fn) }

// Sub runs fn in a difference block; the first contribution is the base.
func (c *Context) Sub(fn func() error) (*shape.Node, error) { return c.Block(Difference, fn) }

// Mul runs fn in an intersection block.
func (c *Context) Mul(fn func() error) (*shape.Node, error) { return c.Block(Intersection, fn) }

// Hull runs fn in a hull block. The contributions become the children of
// one hull node, in order.
func (c *Context) Hull(fn func() error) (*shape.Node, error) { return c.Block(Hull, fn) }

// Mode returns the mode of the innermost block.
func (c *Context) Mode() Mode { return c.cur.mode }

// Depth returns the number of open blocks above the root.
func (c *Context) Depth() int { return len(c.saved) }

// Current returns what the innermost block has accumulated so far.
func (c *Context) Current() *shape.Node { return c.cur.result() }

// Result returns the root accumulation.
func (c *Context) Result() (*shape.Node, error) {
	if len(c.saved) > 0 {
		return nil, &StateError{Msg: fmt.Sprintf("%d blocks still open", len(c.saved))}
	}
	n := c.cur.result()
	if n == nil {
		return nil, &StateError{Msg: "no shape has been contributed"}
	}
	return n, nil
}
