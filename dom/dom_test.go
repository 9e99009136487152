package dom_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dofolin/brilc/cfg"
	"github.com/dofolin/brilc/dom"
	"github.com/dofolin/brilc/ir"
)

// diamond builds the classic if/then/else/join CFG:
//
//	0 entry -> {1 then, 2 else}
//	1 then  -> {3 join}
//	2 else  -> {3 join}
//	3 join  -> {}
func diamond(t *testing.T) *cfg.Graph {
	t.Helper()
	instrs := []ir.Item{
		{Label: "entry"},
		{Op: ir.Br, Args: []string{"c"}, Labels: []string{"then", "else"}},
		{Label: "then"},
		{Op: ir.Jmp, Labels: []string{"join"}},
		{Label: "else"},
		{Op: ir.Jmp, Labels: []string{"join"}},
		{Label: "join"},
		{Op: ir.Ret},
	}
	g, err := cfg.Build(cfg.Split(instrs))
	require.NoError(t, err)
	require.Len(t, g.Nodes, 4)
	return g
}

func TestDominatorsOnDiamond(t *testing.T) {
	g := diamond(t)
	doms := dom.Dominators(g)

	assert.Equal(t, dom.Set{0: true}, doms[0])
	assert.Equal(t, dom.Set{0: true, 1: true}, doms[1])
	assert.Equal(t, dom.Set{0: true, 2: true}, doms[2])
	assert.Equal(t, dom.Set{0: true, 3: true}, doms[3])
}

func TestDominatorTreeOnDiamond(t *testing.T) {
	g := diamond(t)
	doms := dom.Dominators(g)
	tree := dom.BuildTree(g, doms)

	require.Nil(t, tree[0].Parent)
	require.Len(t, tree[0].Children, 3)

	for _, child := range []int{1, 2, 3} {
		require.NotNil(t, tree[child].Parent)
		assert.Equal(t, 0, tree[child].Parent.NodeID)
	}
}

func TestDominanceFrontierOnDiamond(t *testing.T) {
	g := diamond(t)
	doms := dom.Dominators(g)
	frontier := dom.BuildFrontier(g, doms)

	assert.Empty(t, frontier[0].Slice())
	assert.Equal(t, []int{3}, frontier[1].Slice())
	assert.Equal(t, []int{3}, frontier[2].Slice())
	assert.Empty(t, frontier[3].Slice())
}
