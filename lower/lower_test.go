package lower_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dofolin/brilc/ir"
	"github.com/dofolin/brilc/lower"
)

func lit(l ir.Literal) *ir.Literal { return &l }

func TestProgramComputesRecordLayout(t *testing.T) {
	prog := &ir.Program{
		Structs: []ir.StructDecl{
			{Name: "point", Mbrs: []ir.Param{
				{Name: "x", Type: ir.IntType},
				{Name: "y", Type: ir.IntType},
			}},
			{Name: "flagged", Mbrs: []ir.Param{
				{Name: "ok", Type: ir.BoolType},
				{Name: "at", Type: ir.RecordType("point")},
			}},
		},
	}
	p := lower.NewProgram(prog)

	assert.Equal(t, 16, p.StructSizes["point"])
	assert.Equal(t, 17, p.StructSizes["flagged"])
	assert.Equal(t, map[string]int{"x": 0, "y": 1}, p.StructMbrOffsets["point"])
	assert.Equal(t, map[string]int{"ok": 0, "at": 1}, p.StructMbrOffsets["flagged"])
}

func TestContextResolvesConstantsAndCanonicalCopies(t *testing.T) {
	fn := &ir.Function{
		Name: "__main",
		Instrs: []ir.Item{
			{Op: ir.Const, Dest: "a", Type: &ir.IntType, Value: lit(ir.IntLiteral(7))},
			{Op: ir.Id, Dest: "b", Type: &ir.IntType, Args: []string{"a"}},
			{Op: ir.Id, Dest: "c", Type: &ir.IntType, Args: []string{"b"}},
			{Op: ir.Add, Dest: "v", Type: &ir.IntType, Args: []string{"w1", "w2"}},
			{Op: ir.Id, Dest: "d", Type: &ir.IntType, Args: []string{"v"}},
		},
	}
	ctxt := lower.NewContext(fn, true)

	// b and c both fold straight through to the constant 7.
	assert.Equal(t, "7", ctxt.FormatArgs([]string{"b"}, false))
	assert.Equal(t, "7", ctxt.FormatArgs([]string{"c"}, false))
	// d is a copy of v, a non-constant; it renders through its canonical name.
	assert.Equal(t, "%v", ctxt.FormatArgs([]string{"d"}, false))
}

func TestContextRendersFalsyPointerAsNull(t *testing.T) {
	fn := &ir.Function{
		Instrs: []ir.Item{
			{Op: ir.Const, Dest: "p", Type: lit2(ir.PointerTo(ir.IntType)), Value: lit(ir.IntLiteral(0))},
		},
	}
	ctxt := lower.NewContext(fn, false)
	assert.Equal(t, "i64* null", ctxt.FormatArgs([]string{"p"}, true))
}

func lit2(t ir.Type) *ir.Type { return &t }

func TestEmitInstrArithmeticAndRet(t *testing.T) {
	fn := ir.Function{
		Name: "add_one",
		Type: &ir.IntType,
		Args: []ir.Param{{Name: "n", Type: ir.IntType}},
		Instrs: []ir.Item{
			{Op: ir.Const, Dest: "one", Type: &ir.IntType, Value: lit(ir.IntLiteral(1))},
			{Op: ir.Add, Dest: "r", Type: &ir.IntType, Args: []string{"n", "one"}},
			{Op: ir.Ret, Args: []string{"r"}},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, lower.EmitFunc(&buf, fn, "__add_one", false, lower.NewProgram(&ir.Program{})))

	out := buf.String()
	assert.Contains(t, out, "define dso_local i64 @__add_one(i64 %n)")
	assert.Contains(t, out, "%r = add i64 %n, 1")
	assert.Contains(t, out, "ret i64 %r")
}

func TestEmitMainVoidsReturnValue(t *testing.T) {
	fn := ir.Function{
		Name: "main",
		Type: &ir.IntType,
		Instrs: []ir.Item{
			{Op: ir.Ret, Args: []string{"ignored"}},
		},
	}
	var buf bytes.Buffer
	ctxt := lower.NewContext(&fn, true)
	ctxt.Types["ignored"] = ir.IntType
	ctxt.Constants["ignored"] = 0
	require.NoError(t, lower.EmitInstr(&buf, fn.Instrs[0], ctxt, lower.NewProgram(&ir.Program{})))
	assert.Equal(t, "  ret void\n", buf.String())
}

func TestEmitPhiReversesArgLabelPairs(t *testing.T) {
	it := ir.Item{
		Op: ir.Phi, Dest: "x.2", Type: &ir.IntType,
		Args: []string{"x.0", "x.1"}, Labels: []string{"then", "else"},
	}
	ctxt := &lower.Context{
		Types:     map[string]ir.Type{"x.0": ir.IntType, "x.1": ir.IntType},
		Constants: map[string]int64{},
		Canonical: map[string]string{},
	}
	var buf bytes.Buffer
	require.NoError(t, lower.EmitInstr(&buf, it, ctxt, lower.NewProgram(&ir.Program{})))

	out := strings.TrimSpace(buf.String())
	assert.Equal(t, "%x.2 = phi i64 [ %x.1, %else ], [ %x.0, %then ]", out)
}
