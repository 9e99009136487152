// Package dom computes dominator sets, the dominator tree, and
// dominance frontiers over a cfg.Graph (spec.md §4.3).
package dom

import "github.com/dofolin/brilc/cfg"

// Set is a set of node ids.
type Set map[int]bool

func fullSet(n int) Set {
	s := make(Set, n)
	for i := 0; i < n; i++ {
		s[i] = true
	}
	return s
}

func (s Set) clone() Set {
	out := make(Set, len(s))
	for k := range s {
		out[k] = true
	}
	return out
}

func (s Set) intersect(o Set) {
	for k := range s {
		if !o[k] {
			delete(s, k)
		}
	}
}

func (s Set) equal(o Set) bool {
	if len(s) != len(o) {
		return false
	}
	for k := range s {
		if !o[k] {
			return false
		}
	}
	return true
}

// Sets maps each node id to its dominator set (spec.md §4.3).
type Sets []Set

// postOrderFromEntry visits nodes reachable from g.Entry in DFS post
// order, matching the original reference driver's traversal exactly so
// reverse-post-order iteration below lines up with it.
func postOrderFromEntry(g *cfg.Graph) []int {
	visited := make(map[int]bool, len(g.Nodes))
	var order []int
	var visit func(id int)
	visit = func(id int) {
		visited[id] = true
		for _, s := range g.Nodes[id].Succs {
			if !visited[s] {
				visit(s)
			}
		}
		order = append(order, id)
	}
	visit(g.Entry)
	return order
}

// Dominators computes Dom[n] for every node by the saturating iterative
// algorithm: Dom[entry] = {entry}; Dom[n] starts as the full node set
// and is refined to {n} ∪ ⋂ Dom[preds(n)] until a fixed point. Only
// nodes reachable from entry are ever revisited after initialization —
// unreachable nodes retain the universal set (spec.md §4.3, §9 open
// question 4).
func Dominators(g *cfg.Graph) Sets {
	n := len(g.Nodes)
	dom := make(Sets, n)
	for i := range dom {
		dom[i] = fullSet(n)
	}
	dom[g.Entry] = Set{g.Entry: true}

	post := postOrderFromEntry(g)

	changed := true
	for changed {
		changed = false
		for i := len(post) - 1; i >= 0; i-- {
			id := post[i]
			if id == g.Entry {
				continue
			}
			next := fullSet(n)
			for _, p := range g.Nodes[id].Preds {
				next.intersect(dom[p])
			}
			next[id] = true
			if !next.equal(dom[id]) {
				dom[id] = next
				changed = true
			}
		}
	}
	return dom
}

// dominates inverts Dom into, for each node d, the set of nodes d
// dominates.
func dominates(g *cfg.Graph, dom Sets) Sets {
	out := make(Sets, len(g.Nodes))
	for i := range out {
		out[i] = Set{}
	}
	for n, doms := range dom {
		for d := range doms {
			out[d][n] = true
		}
	}
	return out
}
