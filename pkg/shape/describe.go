package shape

import (
	_ "embed"
	"encoding/json"
)

// Schema is the JSON schema of the output of Describe.
//
//go:embed schema.json
var Schema []byte

// Description is the JSON form of a node.
type Description struct {
	ID        string         `json:"id"`
	Kind      string         `json:"kind"`
	Primitive string         `json:"primitive,omitempty"`
	Label     string         `json:"label,omitempty"`
	Params    []float64      `json:"params,omitempty"`
	Op        string         `json:"op,omitempty"`
	Transform *TransformDesc `json:"transform,omitempty"`
	Height    *float64       `json:"height,omitempty"`
	Twist     *float64       `json:"twist,omitempty"`
	Angle     *float64       `json:"angle,omitempty"`
	Points    int            `json:"points,omitempty"`
	Faces     int            `json:"faces,omitempty"`
	Paths     int            `json:"paths,omitempty"`
	Commands  int            `json:"commands,omitempty"`
	Children  []*Description `json:"children,omitempty"`
}

// TransformDesc is a transform as a row-major linear part plus offset.
type TransformDesc struct {
	Linear [9]float64 `json:"linear"`
	Offset [3]float64 `json:"offset"`
}

// Describe returns the description tree of n.
func Describe(n *Node) *Description {
	d := &Description{ID: n.ID().Short(), Kind: n.kind.String(), Label: n.label}
	switch n.kind {
	case KindPrimitive:
		d.Primitive = n.prim.String()
		d.Params = n.Params()
		d.Points = len(n.points)
		d.Faces = len(n.faces)
		d.Paths = len(n.paths)
	case KindCombinator:
		d.Op = n.op.String()
	case KindTransformed:
		o := n.xf.Translation()
		d.Transform = &TransformDesc{Linear: n.xf.Linear(), Offset: [3]float64{o.X, o.Y, o.Z}}
	case KindExtrusion:
		h, tw := n.height, n.twist
		d.Height, d.Twist = &h, &tw
	case KindRevolution:
		a := n.angle
		d.Angle = &a
	case KindOutline:
		d.Commands = len(n.instrs)
	}
	for _, c := range n.children {
		d.Children = append(d.Children, Describe(c))
	}
	return d
}

// MarshalJSON renders the node's description.
func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(Describe(n))
}

// DescribeJSON returns the indented JSON description of n.
func DescribeJSON(n *Node) ([]byte, error) {
	return json.MarshalIndent(Describe(n), "", "  ")
}
