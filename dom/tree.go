package dom

import "github.com/dofolin/brilc/cfg"

// Tree is a node in the dominator forest: the CFG node it represents,
// an optional parent, and an ordered children list (spec.md §3, §4.3).
// Roots (Parent == nil) are CFG entries.
type Tree struct {
	NodeID   int
	Parent   *Tree
	Children []*Tree
}

// BuildTree derives the dominator tree from the dominator sets: for
// each node n, its immediate dominator is the strict dominator that
// does not itself strictly dominate any other strict dominator of n
// (spec.md §4.3). Children are appended in node-id order for
// determinism.
func BuildTree(g *cfg.Graph, dom Sets) []*Tree {
	all := make([]*Tree, len(g.Nodes))
	for i := range all {
		all[i] = &Tree{NodeID: i}
	}

	for i := range all {
		for d := 0; d < len(g.Nodes); d++ {
			if !dom[i][d] || d == i {
				continue
			}
			immediate := true
			for other := 0; other < len(g.Nodes); other++ {
				if !dom[i][other] || other == d || other == i {
					continue
				}
				if dom[other][d] {
					immediate = false
					break
				}
			}
			if immediate {
				all[i].Parent = all[d]
				all[d].Children = append(all[d].Children, all[i])
			}
		}
	}
	return all
}
