// Package args resolves constructor arguments given positionally, by name,
// through a radius alias of a diameter parameter, or by default into a fixed
// parameter vector.
package args

import (
	"fmt"
	"sort"
	"strings"
)

// Named is the trailing name->value mapping of a call.
type Named map[string]any

// Call holds the arguments supplied at a call site.
type Call struct {
	Positional []any
	Named      Named
}

// Split turns a variadic argument list into a Call. A trailing Named (or
// map[string]any) becomes the named mapping; every other value is positional.
func Split(vals []any) Call {
	if len(vals) == 0 {
		return Call{}
	}
	switch last := vals[len(vals)-1].(type) {
	case Named:
		return Call{Positional: vals[:len(vals)-1], Named: last}
	case map[string]any:
		return Call{Positional: vals[:len(vals)-1], Named: Named(last)}
	}
	return Call{Positional: vals}
}

// Param declares one parameter. A diameter parameter also accepts its radius
// alias; the resolved value is then twice the alias value.
type Param struct {
	Name     string
	Diameter bool
	Alias    string
}

// P declares a plain parameter.
func P(name string) Param { return Param{Name: name} }

// D declares a diameter parameter. Its alias is the name with the leading
// "d" replaced by "r" (d -> r, d0 -> r0, dh -> rh).
func D(name string) Param {
	alias := "r"
	if strings.HasPrefix(name, "d") {
		alias += name[1:]
	}
	return Param{Name: name, Diameter: true, Alias: alias}
}

// Spec is the parameter specification of one constructor.
type Spec struct {
	Kind     string // used in error messages, e.g. "cone"
	Params   []Param
	Defaults map[string]any
}

// NewSpec builds a Spec with no defaults.
func NewSpec(kind string, params ...Param) Spec {
	return Spec{Kind: kind, Params: params}
}

// WithDefault returns a copy of s with a default for name.
func (s Spec) WithDefault(name string, v any) Spec {
	d := make(map[string]any, len(s.Defaults)+1)
	for k, val := range s.Defaults {
		d[k] = val
	}
	d[name] = v
	s.Defaults = d
	return s
}

// Resolve produces one value per declared parameter, in declaration order.
// Per parameter the first match wins: next unused positional value, the
// named value, twice the radius alias value, the default. Otherwise the
// parameter is missing.
func (s Spec) Resolve(c Call) ([]any, error) {
	if len(c.Positional) > len(s.Params) {
		return nil, usageErr(s.Kind, "", fmt.Sprintf("got %d positional arguments, want at most %d",
			len(c.Positional), len(s.Params)))
	}
	if err := s.checkNames(c.Named); err != nil {
		return nil, err
	}

	out := make([]any, len(s.Params))
	for i, p := range s.Params {
		nv, hasName := c.Named[p.Name]
		var av any
		hasAlias := false
		if p.Diameter && p.Alias != "" {
			av, hasAlias = c.Named[p.Alias]
		}
		if hasName && hasAlias {
			return nil, &ArgumentError{Kind: Conflict, Shape: s.Kind, Param: p.Name, Alias: p.Alias}
		}

		switch {
		case i < len(c.Positional):
			if hasName || hasAlias {
				return nil, &ArgumentError{Kind: Conflict, Shape: s.Kind, Param: p.Name, Alias: p.Alias,
					Msg: "given both positionally and by name"}
			}
			out[i] = c.Positional[i]
		case hasName:
			out[i] = nv
		case hasAlias:
			r, err := Float(av)
			if err != nil {
				return nil, usageErr(s.Kind, p.Alias, err.Error())
			}
			out[i] = 2 * r
		default:
			d, ok := s.Defaults[p.Name]
			if !ok {
				return nil, &ArgumentError{Kind: Missing, Shape: s.Kind, Param: p.Name, Alias: p.Alias}
			}
			out[i] = d
		}
	}
	return out, nil
}

// checkNames rejects named keys that match no declared parameter or alias.
func (s Spec) checkNames(named Named) error {
	if len(named) == 0 {
		return nil
	}
	known := make(map[string]bool, len(s.Params)*2)
	for _, p := range s.Params {
		known[p.Name] = true
		if p.Diameter && p.Alias != "" {
			known[p.Alias] = true
		}
	}
	var unknown []string
	for k := range named {
		if !known[k] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return usageErr(s.Kind, unknown[0], "unknown parameter "+strings.Join(unknown, ", "))
}

// Floats resolves vals and converts every parameter to float64.
func (s Spec) Floats(vals ...any) ([]float64, error) {
	raw, err := s.Resolve(Split(vals))
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(raw))
	for i, v := range raw {
		f, err := Float(v)
		if err != nil {
			return nil, usageErr(s.Kind, s.Params[i].Name, err.Error())
		}
		out[i] = f
	}
	return out, nil
}

// Float converts a numeric value to float64. Sequences are rejected rather
// than flattened.
func Float(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int8:
		return float64(n), nil
	case int16:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint8:
		return float64(n), nil
	case uint16:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case []float64, []int, []any:
		return 0, fmt.Errorf("got sequence %v, want a single number", n)
	case nil:
		return 0, fmt.Errorf("got nil, want a number")
	}
	return 0, fmt.Errorf("got %T, want a number", v)
}

// Int converts an integral value to int. Floats must have no fraction.
func Int(v any) (int, error) {
	f, err := Float(v)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("got %g, want an integer", f)
	}
	return int(f), nil
}
