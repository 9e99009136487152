package cfg_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dofolin/brilc/cfg"
	"github.com/dofolin/brilc/ir"
)

func TestSplitReproducesInputWhenFlattened(t *testing.T) {
	instrs := []ir.Item{
		{Label: "start"},
		{Op: ir.Const, Dest: "x", Type: &ir.IntType, Value: litPtr(ir.IntLiteral(1))},
		{Op: ir.Jmp, Labels: []string{"end"}},
		{Label: "end"},
		{Op: ir.Ret},
	}
	blocks := cfg.Split(instrs)
	assert.Equal(t, instrs, cfg.Flatten(blocks))
}

func TestSplitBoundaries(t *testing.T) {
	instrs := []ir.Item{
		{Label: "a"},
		{Op: ir.Const, Dest: "x", Type: &ir.IntType, Value: litPtr(ir.IntLiteral(1))},
		{Op: ir.Jmp, Labels: []string{"b"}},
		{Label: "b"},
		{Op: ir.Ret},
	}
	blocks := cfg.Split(instrs)
	require.Len(t, blocks, 2)
	assert.Equal(t, "a", blocks[0][0].Label)
	assert.Len(t, blocks[0], 3)
	assert.Equal(t, "b", blocks[1][0].Label)
	assert.Len(t, blocks[1], 2)
}

func TestBuildLinksFallthroughAndExplicitEdges(t *testing.T) {
	instrs := []ir.Item{
		{Label: "entry"},
		{Op: ir.Br, Args: []string{"cond"}, Labels: []string{"then", "else"}},
		{Label: "then"},
		{Op: ir.Jmp, Labels: []string{"join"}},
		{Label: "else"},
		{Label: "join"},
		{Op: ir.Ret},
	}
	blocks := cfg.Split(instrs)
	g, err := cfg.Build(blocks)
	require.NoError(t, err)
	require.Len(t, g.Nodes, 4)

	entry, then, els, join := g.Nodes[0], g.Nodes[1], g.Nodes[2], g.Nodes[3]
	assert.Equal(t, []int{1, 2}, entry.Succs)
	assert.Equal(t, []int{3}, then.Succs)
	assert.Equal(t, []int{3}, els.Succs, "else falls through to join")
	assert.ElementsMatch(t, []int{0, 0}, append(append([]int{}, then.Preds...), els.Preds...))
	assert.ElementsMatch(t, []int{1, 2}, join.Preds)
}

func TestBuildRejectsUnreachableLabel(t *testing.T) {
	instrs := []ir.Item{
		{Label: "entry"},
		{Op: ir.Jmp, Labels: []string{"nowhere"}},
	}
	_, err := cfg.Build(cfg.Split(instrs))
	assert.Error(t, err)
}

func TestBuildRejectsDuplicateLabel(t *testing.T) {
	instrs := []ir.Item{
		{Label: "l"},
		{Op: ir.Ret},
		{Label: "l"},
		{Op: ir.Ret},
	}
	_, err := cfg.Build(cfg.Split(instrs))
	assert.Error(t, err)
}

func TestBuildInsertsExplicitReturnAtFallthroughExit(t *testing.T) {
	instrs := []ir.Item{
		{Label: "entry"},
		{Op: ir.Const, Dest: "x", Type: &ir.IntType, Value: litPtr(ir.IntLiteral(0))},
	}
	g, err := cfg.Build(cfg.Split(instrs))
	require.NoError(t, err)
	last := g.Nodes[0].Block[len(g.Nodes[0].Block)-1]
	assert.Equal(t, ir.Ret, last.Op)
}

func TestLabelGeneratorAvoidsCollisions(t *testing.T) {
	blocks := []cfg.BasicBlock{
		{{Label: "anonymous0"}, {Op: ir.Ret}},
	}
	gen := cfg.NewLabelGenerator(blocks)
	assert.Equal(t, "anonymous1", gen.Next())
	assert.Equal(t, "anonymous2", gen.Next())
}

func TestInsertLabelsGivesUnlabeledBlocksNames(t *testing.T) {
	instrs := []ir.Item{
		{Label: "entry"},
		{Op: ir.Br, Args: []string{"c"}, Labels: []string{"t", "j"}},
		{Label: "t"},
		{Op: ir.Jmp, Labels: []string{"j"}},
		// an unlabeled block after t's terminator, which falls through to "j"
		{Op: ir.Const, Dest: "x", Type: &ir.IntType, Value: litPtr(ir.IntLiteral(1))},
		{Label: "j"},
		{Op: ir.Ret},
	}
	blocks := cfg.Split(instrs)
	g, err := cfg.Build(blocks)
	require.NoError(t, err)
	gen := cfg.NewLabelGenerator(blocks)
	cfg.InsertLabels(g, gen)

	for _, n := range g.Nodes {
		assert.NotEmpty(t, n.Label())
	}
}

func litPtr(l ir.Literal) *ir.Literal { return &l }
