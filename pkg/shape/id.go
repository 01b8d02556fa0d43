package shape

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"
	"math"
)

// ID is the content hash of a subtree. Structurally equal trees have equal
// IDs regardless of node identity.
type ID [sha256.Size]byte

func (id ID) String() string { return hex.EncodeToString(id[:]) }

// Short returns the first eight hex digits.
func (id ID) Short() string { return hex.EncodeToString(id[:4]) }

func (id ID) IsZero() bool { return id == ID{} }

// ID returns the node's content hash, computed once.
func (n *Node) ID() ID {
	n.idOnce.Do(func() {
		h := sha256.New()
		n.hashInto(h)
		copy(n.id[:], h.Sum(nil))
	})
	return n.id
}

func (n *Node) hashInto(h hash.Hash) {
	var buf [8]byte
	num := func(f float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		h.Write(buf[:])
	}
	integer := func(i int) { num(float64(i)) }

	integer(int(n.kind))
	switch n.kind {
	case KindPrimitive:
		integer(int(n.prim))
		integer(len(n.params))
		for _, p := range n.params {
			num(p)
		}
		integer(len(n.points))
		for _, p := range n.points {
			num(p.X)
			num(p.Y)
			num(p.Z)
		}
		integer(len(n.faces))
		for _, f := range n.faces {
			integer(len(f))
			for _, i := range f {
				integer(i)
			}
		}
		integer(len(n.paths))
		for _, r := range n.paths {
			integer(len(r))
			for _, p := range r {
				num(p.X)
				num(p.Y)
			}
		}
	case KindCombinator:
		integer(int(n.op))
	case KindTransformed:
		for _, v := range n.xf.Linear() {
			num(v)
		}
		o := n.xf.Translation()
		num(o.X)
		num(o.Y)
		num(o.Z)
	case KindExtrusion:
		num(n.height)
		num(n.twist)
	case KindRevolution:
		num(n.angle)
	case KindOutline:
		integer(len(n.instrs))
		for _, in := range n.instrs {
			integer(int(in.Op))
			for _, p := range in.P {
				num(p.X)
				num(p.Y)
			}
		}
	}
	integer(len(n.children))
	for _, c := range n.children {
		id := c.ID()
		h.Write(id[:])
	}
}
