package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dofolin/brilc/cfg"
	"github.com/dofolin/brilc/ir"
	"github.com/dofolin/brilc/ssa"
)

// loadProgram decodes an IL program from path, or from stdin if path is
// empty (spec.md §6).
func loadProgram(path string) (*ir.Program, error) {
	r, name, err := openInput(path)
	if err != nil {
		return nil, err
	}
	if c, ok := r.(io.Closer); ok {
		defer c.Close()
	}

	var prog ir.Program
	if err := json.NewDecoder(r).Decode(&prog); err != nil {
		return nil, fmt.Errorf("brilc: decode %s: %w", name, err)
	}
	for i := range prog.Functions {
		if err := prog.Functions[i].Validate(); err != nil {
			return nil, err
		}
	}
	return &prog, nil
}

func openInput(path string) (io.Reader, string, error) {
	if path == "" {
		return os.Stdin, "stdin", nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, path, fmt.Errorf("brilc: open %s: %w", path, err)
	}
	return f, path, nil
}

// openOutput opens the destination for -o/--output, or stdout if empty.
func openOutput(path string) (io.Writer, func() error, error) {
	if path == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("brilc: create %s: %w", path, err)
	}
	return f, f.Close, nil
}

// toSSA builds the CFG for fn, inserts missing labels, and converts it
// to SSA form (spec.md §4.1–§4.4). It returns the graph and label
// generator so a caller can optionally destruct afterward.
func toSSA(fn *ir.Function) (*cfg.Graph, *cfg.LabelGenerator, error) {
	blocks := cfg.WithEntry(cfg.Split(fn.Instrs))
	graph, err := cfg.Build(blocks)
	if err != nil {
		return nil, nil, fmt.Errorf("brilc: function %q: %w", fn.Name, err)
	}

	gen := cfg.NewLabelGenerator(blocks)
	cfg.InsertLabels(graph, gen)

	params := make([]string, len(fn.Args))
	for i, a := range fn.Args {
		params[i] = a.Name
	}
	if err := ssa.Construct(graph, params); err != nil {
		return nil, nil, fmt.Errorf("brilc: function %q: %w", fn.Name, err)
	}
	return graph, gen, nil
}
