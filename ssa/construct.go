// Package ssa builds (and, optionally, tears back down) SSA form over a
// cfg.Graph: phi placement and dominator-tree-walk renaming (spec.md
// §4.4), and edge-splitting destruction (spec.md §4.5).
package ssa

import (
	"fmt"
	"sort"

	"github.com/dofolin/brilc/cfg"
	"github.com/dofolin/brilc/dom"
	"github.com/dofolin/brilc/ir"
)

// Construct inserts phi-instructions at the dominance frontier of every
// variable's definitions, then renames every variable under a
// dominator-tree walk so each definition gets a unique name (spec.md
// §4.4). params lists formal parameter names, whose rename stacks are
// seeded with their own name (spec.md §4.4 phase 2).
//
// Construct mutates g's node blocks in place; it does not add or remove
// nodes or edges.
func Construct(g *cfg.Graph, params []string) error {
	doms := dom.Dominators(g)
	frontier := dom.BuildFrontier(g, doms)
	tree := dom.BuildTree(g, doms)

	types, defs, err := collectDefs(g)
	if err != nil {
		return err
	}

	placePhis(g, frontier, types, defs)

	stacks := make(map[string][]string, len(defs))
	for _, p := range params {
		stacks[p] = []string{p}
	}
	counters := make(map[string]int, len(defs))

	rename(g, tree[g.Entry], stacks, counters)
	return nil
}

// collectDefs gathers, for each variable, its declared type and the
// nodes that contain one of its (pre-renaming) definitions, in the
// order phase 1 needs: one entry per node that defines the variable,
// keyed by node id (spec.md §4.4 phase 1).
func collectDefs(g *cfg.Graph) (types map[string]ir.Type, defs map[string][]int, err error) {
	types = map[string]ir.Type{}
	defs = map[string][]int{}
	seenInNode := make([]map[string]bool, len(g.Nodes))
	for i := range seenInNode {
		seenInNode[i] = map[string]bool{}
	}

	for _, n := range g.Nodes {
		for _, it := range n.Block {
			if !it.HasDest() {
				continue
			}
			v := it.Dest
			if existing, ok := types[v]; ok {
				if !it.Type.Equal(existing) {
					return nil, nil, fmt.Errorf("ssa: variable %q redefined with type %s, previously %s", v, it.Type, existing)
				}
			} else {
				types[v] = *it.Type
			}
			if !seenInNode[n.ID][v] {
				seenInNode[n.ID][v] = true
				defs[v] = append(defs[v], n.ID)
			}
		}
	}
	return types, defs, nil
}

// placePhis runs the Cytron et al. iterative worklist: pop a
// definition site, insert a phi at each node in its dominance frontier
// lacking one already, and push any such node that has no original
// definition of the variable onto the worklist (spec.md §4.4 phase 1). Variables are processed in sorted order so
// phi placement (and therefore later renaming) is deterministic.
func placePhis(g *cfg.Graph, frontier dom.Frontier, types map[string]ir.Type, defs map[string][]int) {
	vars := make([]string, 0, len(defs))
	for v := range defs {
		vars = append(vars, v)
	}
	sort.Strings(vars)

	hasPhi := make([]map[string]bool, len(g.Nodes))
	// Tracks which nodes already had an *original* definition of a
	// variable, so a phi-induced "definition" doesn't get pushed back
	// onto the worklist for a node whose own definition already seeded it.
	origDef := make([]map[string]bool, len(g.Nodes))
	for i := range hasPhi {
		hasPhi[i] = map[string]bool{}
		origDef[i] = map[string]bool{}
	}
	for v, sites := range defs {
		for _, nid := range sites {
			origDef[nid][v] = true
		}
	}

	for _, v := range vars {
		worklist := append([]int(nil), defs[v]...)
		vtype := types[v]
		for len(worklist) > 0 {
			n := worklist[len(worklist)-1]
			worklist = worklist[:len(worklist)-1]

			for _, s := range frontier[n].Slice() {
				if hasPhi[s][v] {
					continue
				}
				hasPhi[s][v] = true

				target := g.Nodes[s]
				args := make([]string, len(target.Preds))
				labels := make([]string, len(target.Preds))
				for i, p := range target.Preds {
					args[i] = v
					labels[i] = g.Nodes[p].Label()
				}
				phiType := vtype
				instr := ir.Item{
					Op: ir.Phi, Dest: v, Type: &phiType,
					Labels: labels, Args: args,
				}.WithPhiVar(v)
				insertAfterLabel(target, instr)

				if !origDef[s][v] {
					worklist = append(worklist, s)
				}
			}
		}
	}
}

// insertAfterLabel prepends instr to n's block immediately after a
// leading Label, if any, else at the very front (spec.md §4.4).
func insertAfterLabel(n *cfg.Node, instr ir.Item) {
	pos := 0
	if n.Label() != "" {
		pos = 1
	}
	blk := make(cfg.BasicBlock, 0, len(n.Block)+1)
	blk = append(blk, n.Block[:pos]...)
	blk = append(blk, instr)
	blk = append(blk, n.Block[pos:]...)
	n.Block = blk
}

// rename walks the dominator tree from node t, substituting uses with
// the current top-of-stack, allocating a fresh versioned name for each
// new definition, patching successor phis, recursing into children, and
// finally popping this node's own pushes (spec.md §4.4 phase 2).
func rename(g *cfg.Graph, t *dom.Tree, stacks map[string][]string, counters map[string]int) {
	node := g.Nodes[t.NodeID]
	pushed := map[string]int{}

	for i := range node.Block {
		it := &node.Block[i]
		if it.IsLabel() {
			continue
		}
		if it.Op != ir.Phi {
			for ai, a := range it.Args {
				if s := stacks[a]; len(s) > 0 {
					it.Args[ai] = s[len(s)-1]
				}
			}
		}
		if it.HasDest() {
			v := it.Dest
			newName := fmt.Sprintf("%s.%d", v, counters[v])
			counters[v]++
			stacks[v] = append(stacks[v], newName)
			pushed[v]++
			it.Dest = newName
		}
	}

	occurrence := map[int]int{}
	for _, sid := range node.Succs {
		occurrence[sid]++
		k := occurrence[sid]
		succ := g.Nodes[sid]
		j := nthIndex(succ.Preds, node.ID, k)
		if j < 0 {
			continue
		}
		for i := range succ.Block {
			phi := &succ.Block[i]
			if phi.IsLabel() || phi.Op != ir.Phi {
				continue
			}
			v := phi.PhiVar()
			renamed := "__undef"
			if s := stacks[v]; len(s) > 0 {
				renamed = s[len(s)-1]
			}
			phi.Args[j] = renamed
		}
	}

	for _, child := range t.Children {
		rename(g, child, stacks, counters)
	}

	for v, n := range pushed {
		stacks[v] = stacks[v][:len(stacks[v])-n]
	}
}

// nthIndex returns the index of the k-th (1-based) occurrence of val in
// xs, or -1 if there are fewer than k occurrences. Needed because a
// predecessor can reach a successor through more than one of its
// terminator's labels, producing duplicate entries in Preds/Succs
// (spec.md §3).
func nthIndex(xs []int, val, k int) int {
	for i, x := range xs {
		if x == val {
			k--
			if k == 0 {
				return i
			}
		}
	}
	return -1
}
