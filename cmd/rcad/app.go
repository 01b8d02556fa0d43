package main

import (
	"fmt"
	"log/slog"

	"github.com/chazu/rcad/pkg/config"
	"github.com/chazu/rcad/pkg/engine"
	"github.com/chazu/rcad/pkg/kernel"
	"github.com/chazu/rcad/pkg/kernel/manifold"
	"github.com/chazu/rcad/pkg/kernel/sdfx"
	"github.com/chazu/rcad/pkg/log"
	"github.com/chazu/rcad/pkg/shape"
	"github.com/chazu/rcad/pkg/tessellate"
)

// colorPalette is a default palette used to assign distinct colors to parts.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App runs the build pipeline: script, shape tree, validation, meshes.
type App struct {
	engine *engine.Engine
	kernel kernel.Kernel
	log    *slog.Logger
}

// MeshData is the JSON-serializable mesh format written by -json.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
}

// EvalErrorData is a JSON-serializable evaluation error or finding.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result of one build.
type EvalResult struct {
	BuildID  string          `json:"buildId"`
	Meshes   []MeshData      `json:"meshes"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`

	root   *shape.Node
	meshes []*kernel.Mesh
}

// newKernel builds the kernel named in cfg.
func newKernel(cfg config.KernelConfig) (kernel.Kernel, error) {
	switch cfg.Name {
	case "sdfx":
		return sdfx.New(sdfx.WithMeshCells(cfg.MeshCells), sdfx.WithTolerance(cfg.Tolerance)), nil
	case "manifold":
		return manifold.New(manifold.WithSegments(cfg.Segments))
	}
	return nil, fmt.Errorf("unknown kernel %q", cfg.Name)
}

// NewApp creates an App with the configured kernel and engine.
func NewApp(cfg config.Config) (*App, error) {
	k, err := newKernel(cfg.Kernel)
	if err != nil {
		return nil, err
	}
	return &App{
		engine: engine.NewEngine(k,
			engine.WithTimeout(cfg.Engine.Timeout),
			engine.WithFont(cfg.Font.Path),
			engine.WithFontSize(cfg.Font.Size)),
		kernel: k,
		log:    log.WithComponent("app"),
	}, nil
}

// Evaluate takes Lisp source and returns mesh data + errors.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Meshes:   []MeshData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	// Step 1: Evaluate the Lisp source into a shape tree.
	res, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		a.log.Error("evaluate fatal error", "err", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}

	// Step 2: Convert eval errors to the output format.
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}
	result.BuildID = res.BuildID
	result.root = res.Shape

	// Step 3: Validation findings; errors stop the build before the kernel.
	for _, f := range res.Findings {
		d := EvalErrorData{Message: f.Error()}
		if f.Severity == shape.SeverityError {
			result.Errors = append(result.Errors, d)
		} else {
			result.Warnings = append(result.Warnings, d)
		}
	}
	if shape.HasErrors(res.Findings) {
		a.log.Warn("validation failed", "build_id", res.BuildID, "findings", len(res.Findings))
		return result
	}
	if res.Shape == nil {
		return result
	}

	// Step 4: Tessellate the shape tree into one mesh per part.
	meshes, err := tessellate.Tessellate(res.Shape, a.kernel)
	if err != nil {
		a.log.Error("tessellate error", "err", err, "build_id", res.BuildID)
		result.Errors = append(result.Errors, EvalErrorData{
			Message: "tessellation failed: " + err.Error(),
		})
		return result
	}
	result.meshes = meshes

	// Step 5: Convert kernel meshes to the MeshData format.
	for i, m := range meshes {
		result.Meshes = append(result.Meshes, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			PartName: m.Name,
			Color:    colorPalette[i%len(colorPalette)],
		})
	}
	return result
}
