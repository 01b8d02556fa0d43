// Package anchor derives reference transforms from a shape's bounding box
// and aligns shapes by matching those references against a target.
package anchor

import (
	"fmt"
	"strings"

	"github.com/chazu/rcad/pkg/kernel"
	"github.com/chazu/rcad/pkg/shape"
	"github.com/chazu/rcad/pkg/xform"
)

// Name is a named anchor of a bounding box.
type Name int

const (
	Origin  Name = iota // identity
	Left                // min x
	Right               // max x
	Front               // min y
	Back                // max y
	Bottom              // min z
	Top                 // max z
	XCenter             // mid x
	YCenter             // mid y
	ZCenter             // mid z
	Center              // mid x, y and z
)

var names = [...]string{"origin", "left", "right", "front", "back", "bottom", "top",
	"xcenter", "ycenter", "zcenter", "center"}

func (n Name) String() string {
	if n >= 0 && int(n) < len(names) {
		return names[n]
	}
	return fmt.Sprintf("Name(%d)", int(n))
}

// ParseName looks up an anchor by name, case-insensitively. Separators are
// ignored, so x-center and x_center name XCenter.
func ParseName(s string) (Name, error) {
	s = strings.ToLower(strings.NewReplacer("-", "", "_", "").Replace(s))
	for i, name := range names {
		if name == s {
			return Name(i), nil
		}
	}
	return 0, fmt.Errorf("anchor: unknown anchor %q", s)
}

// FromBox returns the anchor transform of name for bounding box b.
func FromBox(b kernel.Box, name Name) (xform.Transform, error) {
	c := b.Center()
	switch name {
	case Origin:
		return xform.Identity(), nil
	case Left:
		return xform.MoveX(b.Min.X), nil
	case Right:
		return xform.MoveX(b.Max.X), nil
	case Front:
		return xform.MoveY(b.Min.Y), nil
	case Back:
		return xform.MoveY(b.Max.Y), nil
	case Bottom:
		return xform.MoveZ(b.Min.Z), nil
	case Top:
		return xform.MoveZ(b.Max.Z), nil
	case XCenter:
		return xform.MoveX(c.X), nil
	case YCenter:
		return xform.MoveY(c.Y), nil
	case ZCenter:
		return xform.MoveZ(c.Z), nil
	case Center:
		return xform.TranslateVec(c), nil
	}
	return xform.Transform{}, fmt.Errorf("anchor: unknown anchor %v", name)
}

// Anchor returns the named anchor of n, computed from its bounding box.
func Anchor(k kernel.Kernel, n *shape.Node, name Name) (xform.Transform, error) {
	if name == Origin {
		return xform.Identity(), nil
	}
	b, err := n.BoundingBox(k)
	if err != nil {
		return xform.Transform{}, err
	}
	return FromBox(b, name)
}
