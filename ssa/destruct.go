package ssa

import (
	"github.com/dofolin/brilc/cfg"
	"github.com/dofolin/brilc/ir"
)

// Destruct lowers SSA form back to conventional form: for every node
// with phis, each predecessor edge is split into a fresh block holding
// a copy (or, for an __undef argument, a const 0 of the phi's type) per
// phi, and every phi is then stripped (spec.md §4.5). gen supplies
// fresh labels for the inserted blocks.
//
// Destruct only ever appends nodes to g.Nodes; it never removes or
// reorders existing ones, so node ids already referenced elsewhere
// (e.g. by a caller holding onto g.Entry) stay valid.
func Destruct(g *cfg.Graph, gen *cfg.LabelGenerator) {
	original := len(g.Nodes)
	for i := 0; i < original; i++ {
		node := g.Nodes[i]
		for j, predID := range node.Preds {
			pred := g.Nodes[predID]

			var assignments []ir.Item
			for _, it := range node.Block {
				if it.IsLabel() || it.Op != ir.Phi {
					continue
				}
				arg := it.Args[j]
				if arg == "__undef" {
					zeroType := *it.Type
					zero := ir.IntLiteral(0)
					assignments = append(assignments, ir.Item{
						Op: ir.Const, Dest: it.Dest, Type: &zeroType,
						Value: &zero,
					})
					continue
				}
				assignments = append(assignments, ir.Item{
					Op: ir.Id, Dest: it.Dest,
					Args: []string{arg},
				})
			}
			if len(assignments) == 0 {
				continue
			}

			thisLabel := node.Label()
			newLabel := gen.Next()
			replaceTarget(pred, thisLabel, newLabel)

			block := make(cfg.BasicBlock, 0, len(assignments)+2)
			block = append(block, ir.Item{Label: newLabel})
			block = append(block, assignments...)
			block = append(block, ir.Item{Op: ir.Jmp, Labels: []string{thisLabel}})

			newID := len(g.Nodes)
			split := &cfg.Node{ID: newID, Block: block, Preds: []int{predID}, Succs: []int{node.ID}}
			g.Nodes = append(g.Nodes, split)

			for k, s := range pred.Succs {
				if s == node.ID {
					pred.Succs[k] = newID
					break
				}
			}
			node.Preds[j] = newID
		}
	}

	for _, node := range g.Nodes {
		stripped := node.Block[:0:0]
		for _, it := range node.Block {
			if !it.IsLabel() && it.Op == ir.Phi {
				continue
			}
			stripped = append(stripped, it)
		}
		node.Block = stripped
	}
}

// replaceTarget rewrites pred's terminator to target newLabel wherever
// it targeted oldLabel, or — if pred has no explicit terminator — turns
// its fallthrough into an explicit jmp (spec.md §4.5).
func replaceTarget(pred *cfg.Node, oldLabel, newLabel string) {
	last := &pred.Block[len(pred.Block)-1]
	if len(last.Labels) > 0 {
		for i, l := range last.Labels {
			if l == oldLabel {
				last.Labels[i] = newLabel
			}
		}
		return
	}
	pred.Block = append(pred.Block, ir.Item{Op: ir.Jmp, Labels: []string{newLabel}})
}
