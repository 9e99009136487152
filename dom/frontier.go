package dom

import (
	"sort"

	"github.com/dofolin/brilc/cfg"
)

// Frontier[d] is the set of nodes in d's dominance frontier: successors
// of nodes d dominates that d does not strictly dominate (spec.md
// §4.3). A node dominates itself, so DF[d] may contain d.
type Frontier []Set

// BuildFrontier computes the dominance frontier for every node.
func BuildFrontier(g *cfg.Graph, dom Sets) Frontier {
	doms := dominates(g, dom)
	frontier := make(Frontier, len(g.Nodes))
	for i := range frontier {
		frontier[i] = Set{}
	}

	for node := range g.Nodes {
		for dominated := range doms[node] {
			for _, succ := range g.Nodes[dominated].Succs {
				if !dom[succ][node] || node == succ {
					frontier[node][succ] = true
				}
			}
		}
	}
	return frontier
}

// Slice returns the members of a Set (or a Frontier entry) as a slice
// in ascending node-id order, for deterministic iteration by callers.
func (s Set) Slice() []int {
	out := make([]int, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}
