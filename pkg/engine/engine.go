// Package engine evaluates rcad Lisp scripts. It wraps zygomys in a
// sandboxed environment, exposes the modeling builtins and returns the shape
// the script accumulated.
package engine

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chazu/rcad/pkg/kernel"
	"github.com/chazu/rcad/pkg/log"
	"github.com/chazu/rcad/pkg/scope"
	"github.com/chazu/rcad/pkg/shape"
	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/google/uuid"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Result is the output of a successful evaluation.
type Result struct {
	BuildID  string
	Shape    *shape.Node // root accumulation, nil if nothing was contributed
	Findings []shape.Finding
	Duration time.Duration
}

// Root returns the accumulated shape, or a *scope.StateError when the
// script contributed nothing.
func (r *Result) Root() (*shape.Node, error) {
	if r == nil || r.Shape == nil {
		return nil, &scope.StateError{Msg: "script contributed no shape"}
	}
	return r.Shape, nil
}

// Engine wraps the zygomys interpreter. It is safe for concurrent use; each
// call to Evaluate creates a fresh sandbox and a fresh accumulation context.
type Engine struct {
	mu         sync.Mutex
	generation uint64

	kernel   kernel.Kernel
	timeout  time.Duration
	font     string
	fontSize float64
	log      *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout bounds a single evaluation.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithFont sets the font file used by text when the script names none.
func WithFont(path string) Option {
	return func(e *Engine) { e.font = path }
}

// WithFontSize sets the em size used by text when the script gives none.
func WithFontSize(size float64) Option {
	return func(e *Engine) {
		if size > 0 {
			e.fontSize = size
		}
	}
}

// NewEngine creates an Engine that queries k for bounding boxes during
// evaluation (anchors, align, bounds builtins).
func NewEngine(k kernel.Kernel, opts ...Option) *Engine {
	e := &Engine{kernel: k, timeout: DefaultTimeout}
	for _, o := range opts {
		o(e)
	}
	e.log = log.WithComponent("engine")
	return e
}

// Evaluate runs source and returns what it accumulated.
//
// Return semantics:
//   - On success: returns result + nil errors + nil error
//   - On parse/eval failure: returns nil result + eval errors + nil error
//   - On fatal failure (timeout, panic): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*Result, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	buildID := uuid.NewString()
	lg := e.log.With("build_id", buildID)
	start := time.Now()
	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		res, evalErrs, err := e.evaluate(source)
		ch <- evalResult{result: res, errors: evalErrs, err: err}
	}()

	res, evalErrs, err := waitWithTimeout(ch, e.timeout, gen, &e.mu, &e.generation)
	elapsed := time.Since(start)
	switch {
	case err != nil:
		lg.Error("evaluation failed", "err", err, "duration", elapsed)
		return nil, nil, err
	case len(evalErrs) > 0:
		lg.Warn("evaluation errors", "errors", len(evalErrs), "first", evalErrs[0].Error(), "duration", elapsed)
		return nil, evalErrs, nil
	}
	res.BuildID = buildID
	res.Duration = elapsed
	nodes := 0
	if res.Shape != nil {
		nodes = res.Shape.Count()
	}
	lg.Info("evaluated", "duration", elapsed, "nodes", nodes, "findings", len(res.Findings))
	return res, nil, nil
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*Result, []EvalError, error) {
	// Empty source is a valid program that builds nothing.
	if strings.TrimSpace(source) == "" {
		return &Result{}, nil, nil
	}

	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	st := &state{ctx: scope.New(), kernel: e.kernel, font: e.font, fontSize: e.fontSize}
	registerBuiltins(env, st)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}

	res := &Result{Shape: st.ctx.Current()}
	if res.Shape != nil {
		res.Findings = shape.Validate(res.Shape)
	}
	return res, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	// zygomys formats parse errors as "Error on line N: <details>\n"
	if m := linePattern.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
	}
	if m := linePatternShort.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
