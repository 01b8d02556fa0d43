package scope

import (
	"errors"
	"testing"

	"github.com/chazu/rcad/pkg/shape"
)

var (
	a = shape.Must(shape.Box(1, 1, 1))
	b = shape.Must(shape.Sphere(1))
	c = shape.Must(shape.Cylinder(1, 2))
)

func TestBlockFoldsInOrder(t *testing.T) {
	tests := []struct {
		mode Mode
		want *shape.Node
	}{
		{Union, a.Union(b).Union(c)},
		{Difference, a.Difference(b).Difference(c)},
		{Intersection, a.Intersect(b).Intersect(c)},
		{Hull, shape.Hull(a, b, c)},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			ctx := New()
			got, err := ctx.Block(tt.mode, func() error {
				ctx.Put(a)
				ctx.Put(b)
				ctx.Put(c)
				return nil
			})
			if err != nil {
				t.Fatal(err)
			}
			if got.ID() != tt.want.ID() {
				t.Errorf("Block(%s) = %v, want %v", tt.mode, got, tt.want)
			}
		})
	}
}

func TestSingleContribution(t *testing.T) {
	ctx := New()
	got, _ := ctx.Sub(func() error {
		ctx.Put(a)
		return nil
	})
	if got != a {
		t.Errorf("Sub() with one shape = %v, want the shape itself", got)
	}
}

func TestEmptyBlocks(t *testing.T) {
	ctx := New()
	for _, m := range []Mode{Union, Difference, Intersection, Hull} {
		got, err := ctx.Block(m, func() error { return nil })
		if err != nil || got != nil {
			t.Errorf("empty %s block = %v, %v, want nil, nil", m, got, err)
		}
	}
}

func TestPutNilIgnored(t *testing.T) {
	ctx := New()
	ctx.Put(nil)
	ctx.Put(a)
	ctx.Put(nil)
	if got := ctx.Current(); got != a {
		t.Errorf("Current() = %v, want %v", got, a)
	}
}

func TestNestedRestoresOuter(t *testing.T) {
	ctx := New()
	var inner *shape.Node
	outer, err := ctx.Add(func() error {
		ctx.Put(a)
		before := ctx.Current()
		var err error
		inner, err = ctx.Hull(func() error {
			if ctx.Mode() != Hull || ctx.Depth() != 2 {
				t.Errorf("inside hull: mode %v depth %d, want hull 2", ctx.Mode(), ctx.Depth())
			}
			ctx.Put(b)
			ctx.Put(c)
			ctx.Put(a)
			return nil
		})
		if err != nil {
			return err
		}
		if ctx.Mode() != Union || ctx.Depth() != 1 {
			t.Errorf("after hull: mode %v depth %d, want union 1", ctx.Mode(), ctx.Depth())
		}
		if ctx.Current() != before {
			t.Errorf("outer accumulator = %v, want %v", ctx.Current(), before)
		}
		ctx.Put(inner)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if want := a.Union(shape.Hull(b, c, a)); outer.ID() != want.ID() {
		t.Errorf("Add() = %v, want %v", outer, want)
	}
	if ctx.Depth() != 0 || ctx.Current() != nil {
		t.Errorf("root after blocks: depth %d current %v, want 0 nil", ctx.Depth(), ctx.Current())
	}
}

func TestBlockResultNotContributed(t *testing.T) {
	ctx := New()
	if _, err := ctx.Add(func() error { ctx.Put(a); return nil }); err != nil {
		t.Fatal(err)
	}
	if _, err := ctx.Result(); err == nil {
		t.Error("Result() error = nil, want StateError: block results are not auto-contributed")
	}
}

func TestRestoredOnError(t *testing.T) {
	ctx := New()
	ctx.Put(a)
	boom := errors.New("boom")
	got, err := ctx.Sub(func() error {
		ctx.Put(b)
		return boom
	})
	if !errors.Is(err, boom) || got != nil {
		t.Errorf("Sub() = %v, %v, want nil, boom", got, err)
	}
	if ctx.Mode() != Union || ctx.Depth() != 0 || ctx.Current() != a {
		t.Errorf("after failing block: mode %v depth %d current %v", ctx.Mode(), ctx.Depth(), ctx.Current())
	}
}

func TestRestoredOnPanic(t *testing.T) {
	ctx := New()
	ctx.Put(a)
	func() {
		defer func() {
			if recover() == nil {
				t.Error("panic did not propagate")
			}
		}()
		ctx.Mul(func() error {
			ctx.Put(b)
			panic("boom")
		})
	}()
	if ctx.Mode() != Union || ctx.Depth() != 0 || ctx.Current() != a {
		t.Errorf("after panicking block: mode %v depth %d current %v", ctx.Mode(), ctx.Depth(), ctx.Current())
	}
}

func TestResult(t *testing.T) {
	ctx := New()
	_, err := ctx.Result()
	var se *StateError
	if !errors.As(err, &se) {
		t.Fatalf("Result() on empty context error = %v, want StateError", err)
	}
	ctx.Put(a)
	ctx.Put(b)
	got, err := ctx.Result()
	if err != nil {
		t.Fatal(err)
	}
	if got.ID() != a.Union(b).ID() {
		t.Errorf("Result() = %v, want union of a and b", got)
	}
}

func TestResultWithOpenBlock(t *testing.T) {
	ctx := New()
	ctx.Put(a)
	ctx.Add(func() error {
		if _, err := ctx.Result(); err == nil {
			t.Error("Result() inside a block error = nil, want StateError")
		}
		return nil
	})
}
