package cfg

import (
	"fmt"

	"github.com/dofolin/brilc/ir"
)

// Node is a CFG vertex wrapping a BasicBlock. Nodes refer to each other
// by integer id (an index into Graph.Nodes) rather than by pointer, so
// the structure stays valid while the node vector grows during SSA
// destruction (spec.md §9 "graph representation").
type Node struct {
	ID    int
	Block BasicBlock
	Preds []int
	Succs []int
}

// Label returns the node's leading label, or "" if it has none.
func (n *Node) Label() string {
	if len(n.Block) > 0 && n.Block[0].IsLabel() {
		return n.Block[0].Label
	}
	return ""
}

// Terminator returns the node's trailing operation and true if its last
// Item is a terminator (jmp/br/ret).
func (n *Node) Terminator() (ir.Item, bool) {
	if len(n.Block) == 0 {
		return ir.Item{}, false
	}
	last := n.Block[len(n.Block)-1]
	return last, !last.IsLabel() && ir.IsTerminator(last.Op)
}

// Graph is a CFG: it owns a vector of Nodes, designates an entry node,
// and maintains the set of exit nodes (spec.md §3).
type Graph struct {
	Nodes []*Node
	Entry int
	Exits []int
}

// Build links blocks into a Graph: fresh ids by index, a label→node map,
// successor/predecessor lists, and the exit set (spec.md §4.2). It also
// runs the explicit-return pass, appending {op: ret} to any exit lacking
// a terminator.
func Build(blocks []BasicBlock) (*Graph, error) {
	nodes := make([]*Node, len(blocks))
	for i, b := range blocks {
		nodes[i] = &Node{ID: i, Block: b}
	}

	labels := make(map[string]int, len(nodes))
	for i, n := range nodes {
		if lbl := n.Label(); lbl != "" {
			if _, dup := labels[lbl]; dup {
				return nil, fmt.Errorf("cfg: duplicate label %q", lbl)
			}
			labels[lbl] = i
		}
	}

	for i, n := range nodes {
		succs, err := successors(i, nodes, labels)
		if err != nil {
			return nil, err
		}
		n.Succs = succs
		for _, s := range succs {
			nodes[s].Preds = append(nodes[s].Preds, i)
		}
	}

	var exits []int
	for i := range nodes {
		if isExit(i, nodes) {
			exits = append(exits, i)
		}
	}

	g := &Graph{Nodes: nodes, Entry: 0, Exits: exits}
	insertExplicitReturns(g)
	return g, nil
}

// successors derives node i's successors from its last Item: a
// terminator carrying a labels list resolves each label through the
// map (order preserved, duplicates allowed); a ret terminator has no
// successors; otherwise control falls through to i+1, or nowhere if i
// is the last block (spec.md §4.2).
func successors(i int, nodes []*Node, labels map[string]int) ([]int, error) {
	last := nodes[i].Block[len(nodes[i].Block)-1]

	if len(last.Labels) > 0 {
		succs := make([]int, 0, len(last.Labels))
		for _, lbl := range last.Labels {
			id, ok := labels[lbl]
			if !ok {
				return nil, fmt.Errorf("cfg: unreachable label reference %q", lbl)
			}
			succs = append(succs, id)
		}
		return succs, nil
	}

	if (!last.IsLabel() && last.Op == ir.Ret) || i+1 == len(nodes) {
		return nil, nil
	}

	return []int{i + 1}, nil
}

// isExit reports whether node i is a CFG exit: its last Item is ret, or
// its last Item is non-terminating and it is the last block in textual
// order (spec.md §3).
func isExit(i int, nodes []*Node) bool {
	last := nodes[i].Block[len(nodes[i].Block)-1]
	if !last.IsLabel() {
		switch last.Op {
		case ir.Ret:
			return true
		case ir.Jmp, ir.Br:
			return false
		}
	}
	return i+1 == len(nodes)
}

// insertExplicitReturns appends {op: ret} to any exit node whose block
// doesn't already end in a terminator (spec.md §4.2).
func insertExplicitReturns(g *Graph) {
	for _, id := range g.Exits {
		n := g.Nodes[id]
		if _, ok := n.Terminator(); !ok {
			n.Block = append(n.Block, ir.Item{Op: ir.Ret})
		}
	}
}
