package args

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

var coneSpec = NewSpec("cone", P("h"), D("d0"), D("dh")).WithDefault("dh", 0)

func TestResolveCone(t *testing.T) {
	tests := []struct {
		name string
		call []any
		want []float64
	}{
		{"named with radius alias", []any{Named{"h": 10, "r0": 3}}, []float64{10, 6, 0}},
		{"positional", []any{10, 6, 2}, []float64{10, 6, 2}},
		{"mixed", []any{10, Named{"d0": 4, "rh": 1}}, []float64{10, 4, 2}},
		{"all named", []any{Named{"h": 1.5, "d0": 2, "dh": 3}}, []float64{1.5, 2, 3}},
		{"plain map", []any{map[string]any{"h": 10, "r0": 0.5}}, []float64{10, 1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := coneSpec.Floats(tt.call...)
			if err != nil {
				t.Fatalf("Floats() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Floats() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name string
		call []any
		kind ErrorKind
		msg  string
	}{
		{"missing diameter", []any{Named{"h": 10}}, Missing, "d0 (or r0)"},
		{"missing plain", []any{}, Missing, "cone: missing parameter h"},
		{"alias and primary", []any{Named{"h": 10, "d0": 2, "r0": 1}}, Conflict, "d0"},
		{"positional and named", []any{10, Named{"h": 5, "d0": 1}}, Conflict, "h"},
		{"too many positional", []any{1, 2, 3, 4}, Usage, "at most 3"},
		{"unknown name", []any{Named{"h": 1, "d0": 1, "height": 2}}, Usage, "height"},
		{"sequence for number", []any{[]float64{1, 2}, 3}, Usage, "sequence"},
		{"sequence for alias", []any{Named{"h": 1, "r0": []any{1, 2}}}, Usage, "sequence"},
		{"string for number", []any{"ten", 3}, Usage, "want a number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := coneSpec.Floats(tt.call...)
			if err == nil {
				t.Fatal("expected error")
			}
			var ae *ArgumentError
			if !errors.As(err, &ae) {
				t.Fatalf("error %T is not *ArgumentError", err)
			}
			if ae.Kind != tt.kind {
				t.Errorf("kind = %v, want %v", ae.Kind, tt.kind)
			}
			if !errors.Is(err, &ArgumentError{Kind: tt.kind}) {
				t.Errorf("errors.Is did not match kind %v", tt.kind)
			}
			if !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("error = %q, want it to contain %q", err, tt.msg)
			}
		})
	}
}

func TestResolveKeepsRawValues(t *testing.T) {
	spec := NewSpec("polygon", P("points"), P("paths")).WithDefault("paths", nil)
	pts := [][2]float64{{0, 0}, {1, 0}, {0, 1}}
	got, err := spec.Resolve(Split([]any{pts}))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !reflect.DeepEqual(got[0], pts) {
		t.Errorf("points = %v, want %v", got[0], pts)
	}
	if got[1] != nil {
		t.Errorf("paths = %v, want nil default", got[1])
	}
}

func TestWithDefaultDoesNotShare(t *testing.T) {
	base := NewSpec("x", P("a"), P("b")).WithDefault("a", 1)
	other := base.WithDefault("b", 2)
	if _, ok := base.Defaults["b"]; ok {
		t.Error("WithDefault mutated the receiver's defaults")
	}
	if other.Defaults["a"] != 1 {
		t.Errorf("other.Defaults[a] = %v, want 1", other.Defaults["a"])
	}
}

func TestDAlias(t *testing.T) {
	tests := []struct {
		name, alias string
	}{
		{"d", "r"},
		{"d0", "r0"},
		{"dh", "rh"},
		{"size", "r"},
	}
	for _, tt := range tests {
		if got := D(tt.name).Alias; got != tt.alias {
			t.Errorf("D(%q).Alias = %q, want %q", tt.name, got, tt.alias)
		}
	}
}

func TestInt(t *testing.T) {
	if n, err := Int(6.0); err != nil || n != 6 {
		t.Errorf("Int(6.0) = %d, %v, want 6, nil", n, err)
	}
	if _, err := Int(2.5); err == nil {
		t.Error("Int(2.5) should fail")
	}
	if n, err := Int(int64(3)); err != nil || n != 3 {
		t.Errorf("Int(int64(3)) = %d, %v, want 3, nil", n, err)
	}
}
