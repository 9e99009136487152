// Package cfg turns a function's linear instruction stream into basic
// blocks and links them into a control-flow graph (spec.md §4.1, §4.2).
package cfg

import "github.com/dofolin/brilc/ir"

// BasicBlock is a non-empty ordered sequence of Items with at most one
// leading Label and at most one trailing terminator (spec.md §3).
type BasicBlock []ir.Item

// EntryLabel is the label given to the synthetic first block every
// function gains before CFG construction (spec.md §4.1).
const EntryLabel = "__entry"

// Split partitions a linear instruction stream into basic blocks.
// Scanning left to right, a block ends immediately before each Label
// (the Label begins the next block) and immediately after each
// terminator; empty spans between adjacent boundaries produce no block.
//
// Concatenating the returned blocks in order reproduces items exactly
// (spec.md §8 invariant 1).
func Split(items []ir.Item) []BasicBlock {
	var blocks []BasicBlock
	lead := 0
	for i, item := range items {
		switch {
		case item.IsLabel():
			if lead < i {
				blocks = append(blocks, BasicBlock(items[lead:i]))
			}
			lead = i
		case ir.IsTerminator(item.Op):
			blocks = append(blocks, BasicBlock(items[lead:i+1]))
			lead = i + 1
		}
	}
	if lead < len(items) {
		blocks = append(blocks, BasicBlock(items[lead:]))
	}
	return blocks
}

// WithEntry prepends the synthetic [Label("__entry")] block required
// before CFG construction (spec.md §4.1), giving the entry no
// predecessors and a known label.
func WithEntry(blocks []BasicBlock) []BasicBlock {
	out := make([]BasicBlock, 0, len(blocks)+1)
	out = append(out, BasicBlock{{Label: EntryLabel}})
	out = append(out, blocks...)
	return out
}

// Flatten concatenates blocks back into a single instruction stream,
// the inverse of Split (modulo the blocks having been edited in place).
func Flatten(blocks []BasicBlock) []ir.Item {
	var items []ir.Item
	for _, b := range blocks {
		items = append(items, b...)
	}
	return items
}

// FlattenGraph concatenates every node's block, in node-id order, back
// into a single instruction stream. Node ids are assigned sequentially
// (0..n-1 at Build time, then appended in order by SSA destruction), so
// this reproduces the reference driver's "flatten graph.all" output
// exactly, synthetic entry label and any destruction-inserted blocks
// included.
func FlattenGraph(g *Graph) []ir.Item {
	var items []ir.Item
	for _, n := range g.Nodes {
		items = append(items, n.Block...)
	}
	return items
}
