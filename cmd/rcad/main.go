// Command rcad evaluates a solid-modeling script and writes the result as
// binary STL.
//
//	rcad [-config rcad.yaml] [-o out.stl] [-parts] [-json meshes.json] [-describe] script.rcad
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/rcad/pkg/config"
	"github.com/chazu/rcad/pkg/log"
	"github.com/chazu/rcad/pkg/shape"
	"github.com/chazu/rcad/pkg/tessellate"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run is main without the process exit, for tests.
func run(argv []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("rcad", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		cfgPath  = fs.String("config", "", "YAML configuration file")
		output   = fs.String("o", "", "output STL file (default: script name with .stl)")
		parts    = fs.Bool("parts", false, "write one STL file per top-level part")
		jsonPath = fs.String("json", "", "also write meshes and diagnostics as JSON")
		describe = fs.Bool("describe", false, "print the shape tree as JSON and exit")
		kernelNm = fs.String("kernel", "", "geometry kernel (sdfx or manifold), overrides config")
	)
	if err := fs.Parse(argv); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: rcad [flags] script.rcad")
		fs.PrintDefaults()
		return 2
	}
	script := fs.Arg(0)

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if *kernelNm != "" {
		cfg.Kernel.Name = *kernelNm
	}
	lg := log.Init(log.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
	})

	source, err := os.ReadFile(script)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	app, err := NewApp(cfg)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	if *describe {
		return describeScript(app, string(source), stdout, stderr)
	}

	result := app.Evaluate(string(source))
	for _, w := range result.Warnings {
		fmt.Fprintln(stderr, "warning:", w.Message)
	}
	if *jsonPath != "" {
		if err := writeJSON(*jsonPath, result); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
	}
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			if e.Line > 0 {
				fmt.Fprintf(stderr, "%s:%d: %s\n", script, e.Line, e.Message)
			} else {
				fmt.Fprintf(stderr, "%s: %s\n", script, e.Message)
			}
		}
		return 1
	}
	if result.root == nil {
		fmt.Fprintf(stderr, "%s: script contributed no shape\n", script)
		return 1
	}

	out := *output
	if out == "" {
		out = strings.TrimSuffix(script, filepath.Ext(script)) + ".stl"
	}
	written, err := writeSTL(out, *parts, result)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	for _, p := range written {
		fmt.Fprintln(stdout, p)
	}
	lg.Info("build complete", "build_id", result.BuildID, "files", len(written))
	return 0
}

// describeScript prints the evaluated tree without realizing it.
func describeScript(app *App, source string, stdout, stderr io.Writer) int {
	res, evalErrs, err := app.engine.Evaluate(source)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			fmt.Fprintln(stderr, e.Error())
		}
		return 1
	}
	root, err := res.Root()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	b, err := shape.DescribeJSON(root)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	fmt.Fprintln(stdout, string(b))
	return 0
}

// writeSTL writes the build to out, or to out-N.stl per part when split is
// set, and returns the written paths.
func writeSTL(out string, split bool, result EvalResult) ([]string, error) {
	if !split || len(result.meshes) == 1 {
		return []string{out}, tessellate.SaveMeshes(out, result.meshes...)
	}
	base := strings.TrimSuffix(out, filepath.Ext(out))
	paths := make([]string, 0, len(result.meshes))
	for i, m := range result.meshes {
		p := fmt.Sprintf("%s-%d.stl", base, i+1)
		if err := tessellate.SaveMeshes(p, m); err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func writeJSON(path string, result EvalResult) error {
	b, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("json: %w", err)
	}
	return os.WriteFile(path, b, 0o644)
}
