package ssa_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dofolin/brilc/cfg"
	"github.com/dofolin/brilc/ir"
	"github.com/dofolin/brilc/ssa"
)

func lit(l ir.Literal) *ir.Literal { return &l }

// buildDiamond returns the CFG for:
//
//	entry: c: bool = const true; br c, then, else
//	then:  x: int = const 1; jmp join
//	else:  x: int = const 2; jmp join
//	join:  print x; ret
func buildDiamond(t *testing.T) (*cfg.Graph, *cfg.LabelGenerator) {
	t.Helper()
	instrs := []ir.Item{
		{Label: "entry"},
		{Op: ir.Const, Dest: "c", Type: &ir.BoolType, Value: lit(ir.BoolLiteral(true))},
		{Op: ir.Br, Args: []string{"c"}, Labels: []string{"then", "else"}},
		{Label: "then"},
		{Op: ir.Const, Dest: "x", Type: &ir.IntType, Value: lit(ir.IntLiteral(1))},
		{Op: ir.Jmp, Labels: []string{"join"}},
		{Label: "else"},
		{Op: ir.Const, Dest: "x", Type: &ir.IntType, Value: lit(ir.IntLiteral(2))},
		{Op: ir.Jmp, Labels: []string{"join"}},
		{Label: "join"},
		{Op: ir.Print, Args: []string{"x"}},
		{Op: ir.Ret},
	}
	blocks := cfg.Split(instrs)
	g, err := cfg.Build(blocks)
	require.NoError(t, err)
	gen := cfg.NewLabelGenerator(blocks)
	cfg.InsertLabels(g, gen)
	return g, gen
}

func TestConstructInsertsPhiAtJoin(t *testing.T) {
	g, _ := buildDiamond(t)
	require.NoError(t, ssa.Construct(g, nil))

	join := g.Nodes[3]
	require.Equal(t, "join", join.Label())

	var phi *ir.Item
	for i := range join.Block {
		if !join.Block[i].IsLabel() && join.Block[i].Op == ir.Phi {
			phi = &join.Block[i]
			break
		}
	}
	require.NotNil(t, phi, "expected a phi instruction at the join point")
	assert.Len(t, phi.Args, 2)
	assert.Equal(t, []string{"then", "else"}, phi.Labels)
}

func TestConstructRenamesEveryDefinitionUniquely(t *testing.T) {
	g, _ := buildDiamond(t)
	require.NoError(t, ssa.Construct(g, nil))

	seen := map[string]bool{}
	for _, n := range g.Nodes {
		for _, it := range n.Block {
			if it.HasDest() {
				assert.False(t, seen[it.Dest], "destination %q renamed more than once", it.Dest)
				seen[it.Dest] = true
			}
		}
	}
	assert.Contains(t, seen, "c.0")
	assert.Contains(t, seen, "x.0")
	assert.Contains(t, seen, "x.1")
}

func TestConstructRejectsTypeMismatchAcrossDefinitions(t *testing.T) {
	instrs := []ir.Item{
		{Label: "entry"},
		{Op: ir.Const, Dest: "x", Type: &ir.IntType, Value: lit(ir.IntLiteral(1))},
		{Op: ir.Const, Dest: "x", Type: &ir.BoolType, Value: lit(ir.BoolLiteral(true))},
		{Op: ir.Ret},
	}
	g, err := cfg.Build(cfg.Split(instrs))
	require.NoError(t, err)
	assert.Error(t, ssa.Construct(g, nil))
}

func TestDestructStripsPhisAndSplitsEdges(t *testing.T) {
	g, gen := buildDiamond(t)
	require.NoError(t, ssa.Construct(g, nil))

	ssa.Destruct(g, gen)

	for _, n := range g.Nodes {
		for _, it := range n.Block {
			assert.NotEqual(t, ir.Phi, it.Op, "phi survived destruction")
		}
	}
	// The join node should now be reached through split edges carrying
	// copies of the branch-specific x, not directly from then/else.
	join := g.Nodes[3]
	assert.Len(t, join.Preds, 2)
	for _, p := range join.Preds {
		assert.Greater(t, p, 3, "join's predecessors should be the newly split edge blocks")
	}
}
