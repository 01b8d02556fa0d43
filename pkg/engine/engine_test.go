package engine

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/chazu/rcad/pkg/kernel/kerneltest"
	"github.com/chazu/rcad/pkg/scope"
)

func newTestEngine() *Engine {
	return NewEngine(kerneltest.New())
}

func TestEvaluateEmptyString(t *testing.T) {
	eng := newTestEngine()

	res, evalErrs, err := eng.Evaluate("")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if res == nil {
		t.Fatal("expected non-nil result")
	}
	if res.Shape != nil {
		t.Errorf("expected no shape, got %v", res.Shape)
	}
	if res.BuildID == "" {
		t.Error("expected a build id")
	}
}

func TestEvaluateWhitespaceOnly(t *testing.T) {
	eng := newTestEngine()

	res, evalErrs, err := eng.Evaluate("   \n\t  \n  ")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if res == nil || res.Shape != nil {
		t.Fatalf("expected empty result, got %+v", res)
	}
}

func TestEvaluateValidExpression(t *testing.T) {
	eng := newTestEngine()

	// Plain arithmetic contributes nothing.
	res, evalErrs, err := eng.Evaluate("(+ 1 2)")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if res.Shape != nil {
		t.Errorf("expected no shape, got %v", res.Shape)
	}
}

func TestResultRootWithoutContribution(t *testing.T) {
	eng := newTestEngine()

	res, _, err := eng.Evaluate("(def b (box 1 2 3))")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	_, err = res.Root()
	var se *scope.StateError
	if !errors.As(err, &se) {
		t.Fatalf("Root() error = %v, want *scope.StateError", err)
	}
}

func TestEvaluateSyntaxError(t *testing.T) {
	eng := newTestEngine()

	// Unmatched paren is a parse error.
	res, evalErrs, err := eng.Evaluate("(+ 1 2")
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if res != nil {
		t.Fatal("expected nil result on syntax error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error for syntax error")
	}
	if evalErrs[0].Message == "" {
		t.Error("eval error message should not be empty")
	}
}

func TestEvaluateUndefinedSymbol(t *testing.T) {
	eng := newTestEngine()

	res, evalErrs, err := eng.Evaluate("(put (box 1 1 undefined-symbol))")
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if res != nil {
		t.Fatal("expected nil result on eval error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error for undefined symbol")
	}
}

func TestEvaluateSyntaxErrorHasLineInfo(t *testing.T) {
	eng := newTestEngine()

	// Put the error on line 2.
	source := "(put (box 1 1 1))\n(+ 3"
	res, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if res != nil {
		t.Fatal("expected nil result on syntax error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error")
	}
	e := evalErrs[0]
	if e.Message == "" {
		t.Error("eval error message should not be empty")
	}
	if e.Line > 0 {
		t.Logf("extracted line info: line=%d, message=%q", e.Line, e.Message)
	}
}

func TestEvalErrorImplementsError(t *testing.T) {
	e := EvalError{Line: 5, Message: "something went wrong"}
	s := e.Error()
	if !strings.Contains(s, "line 5") {
		t.Errorf("Error() should contain line info, got: %s", s)
	}
	if !strings.Contains(s, "something went wrong") {
		t.Errorf("Error() should contain message, got: %s", s)
	}

	e2 := EvalError{Message: "no location"}
	if s2 := e2.Error(); strings.Contains(s2, "line") {
		t.Errorf("Error() with no line should not contain 'line', got: %s", s2)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	eng := newTestEngine()

	var first string
	for i := 0; i < 5; i++ {
		res, evalErrs, err := eng.Evaluate("(put (union (box 1 2 3) (move-x (sphere 4) 2)))")
		if err != nil {
			t.Fatalf("iteration %d: unexpected fatal error: %v", i, err)
		}
		if len(evalErrs) > 0 {
			t.Fatalf("iteration %d: unexpected eval errors: %v", i, evalErrs)
		}
		id := res.Shape.ID().String()
		if i == 0 {
			first = id
		} else if id != first {
			t.Errorf("iteration %d: id = %s, want %s", i, id, first)
		}
	}
}

func TestEvaluateFindings(t *testing.T) {
	eng := newTestEngine()

	res, evalErrs, err := eng.Evaluate("(put (hull (box 1 1 1)))")
	if err != nil || len(evalErrs) > 0 {
		t.Fatalf("Evaluate() = %v, %v", evalErrs, err)
	}
	if len(res.Findings) != 1 {
		t.Fatalf("findings = %v, want one warning", res.Findings)
	}
	if !strings.Contains(res.Findings[0].Message, "single shape") {
		t.Errorf("finding = %q, want hull warning", res.Findings[0].Message)
	}
}

func TestEvaluateTimeout(t *testing.T) {
	var mu sync.Mutex
	var gen uint64 = 1
	ch := make(chan evalResult) // Never sends

	done := make(chan struct{})
	var resultErr error
	go func() {
		defer close(done)
		_, _, resultErr = waitWithTimeout(ch, 20*time.Millisecond, 1, &mu, &gen)
	}()

	select {
	case <-done:
		if resultErr == nil {
			t.Fatal("expected timeout error, got nil")
		}
		if !strings.Contains(resultErr.Error(), "timed out") {
			t.Errorf("expected timeout error message, got: %v", resultErr)
		}
	case <-time.After(DefaultTimeout):
		t.Fatal("test itself timed out waiting for evaluation timeout")
	}
}

func TestEvaluateGenerationDiscardsStale(t *testing.T) {
	var mu sync.Mutex
	gen := uint64(2) // Current generation is 2

	ch := make(chan evalResult, 1)
	ch <- evalResult{}

	// Pass generation 1 (stale).
	_, _, err := waitWithTimeout(ch, time.Second, 1, &mu, &gen)
	if err == nil {
		t.Fatal("expected error for stale generation")
	}
	if !strings.Contains(err.Error(), "superseded") {
		t.Errorf("expected superseded error, got: %v", err)
	}
}

func TestWithTimeout(t *testing.T) {
	eng := NewEngine(kerneltest.New(), WithTimeout(time.Minute), WithFont("/fonts/a.ttf"))
	if eng.timeout != time.Minute {
		t.Errorf("timeout = %v, want 1m", eng.timeout)
	}
	if eng.font != "/fonts/a.ttf" {
		t.Errorf("font = %q, want /fonts/a.ttf", eng.font)
	}
	if d := NewEngine(kerneltest.New(), WithTimeout(0)).timeout; d != DefaultTimeout {
		t.Errorf("zero timeout = %v, want %v", d, DefaultTimeout)
	}
}

func TestParseZygomysError(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		wantLine int
		wantMsg  string
	}{
		{
			name:     "error on line format",
			msg:      "Error on line 5: unexpected token\n",
			wantLine: 5,
			wantMsg:  "unexpected token",
		},
		{
			name:     "no line info",
			msg:      "some generic error",
			wantLine: 0,
			wantMsg:  "some generic error",
		},
		{
			name:     "line format lowercase",
			msg:      "error on line 12: missing paren",
			wantLine: 12,
			wantMsg:  "missing paren",
		},
		{
			name:     "short line format",
			msg:      "line 3: cone: missing parameter h",
			wantLine: 3,
			wantMsg:  "missing parameter h",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := parseZygomysError(errString(tt.msg))
			if len(errs) == 0 {
				t.Fatal("expected at least one error")
			}
			e := errs[0]
			if e.Line != tt.wantLine {
				t.Errorf("line = %d, want %d", e.Line, tt.wantLine)
			}
			if !strings.Contains(e.Message, tt.wantMsg) {
				t.Errorf("message = %q, want containing %q", e.Message, tt.wantMsg)
			}
		})
	}
}

// errString is a simple error type for testing.
type errString string

func (e errString) Error() string { return string(e) }
