package cfg

import (
	"fmt"

	"github.com/dofolin/brilc/ir"
)

// LabelGenerator produces fresh, collision-free block labels (spec.md
// §4.2, C7). It tracks labels already present in the function and a
// monotonically increasing counter, emitting "anonymous<k>" for the
// smallest k not already used.
type LabelGenerator struct {
	// Prefix defaults to "anonymous" (spec.md §4.2) but is overridable
	// for deterministic testing (SPEC_FULL.md §6, C12).
	Prefix string

	used    map[string]bool
	counter int
}

// NewLabelGenerator seeds a LabelGenerator from the labels already
// present in blocks.
func NewLabelGenerator(blocks []BasicBlock) *LabelGenerator {
	used := make(map[string]bool)
	for _, b := range blocks {
		if len(b) > 0 && b[0].IsLabel() {
			used[b[0].Label] = true
		}
	}
	return &LabelGenerator{Prefix: "anonymous", used: used}
}

// Next returns the next fresh label and records it as used.
func (g *LabelGenerator) Next() string {
	prefix := g.Prefix
	if prefix == "" {
		prefix = "anonymous"
	}
	for {
		name := fmt.Sprintf("%s%d", prefix, g.counter)
		g.counter++
		if !g.used[name] {
			g.used[name] = true
			return name
		}
	}
}

// InsertLabels gives every node's block that lacks a leading Label a
// freshly generated one (spec.md §4.2, run after the graph is built and
// before dominance). Label insertion never changes graph edges, so it is
// safe to apply directly to the already-linked nodes.
func InsertLabels(g *Graph, gen *LabelGenerator) {
	for _, n := range g.Nodes {
		if n.Label() == "" {
			labeled := make(BasicBlock, 0, len(n.Block)+1)
			labeled = append(labeled, ir.Item{Label: gen.Next()})
			labeled = append(labeled, n.Block...)
			n.Block = labeled
		}
	}
}
