// Package lower translates an SSA-form IL program into a textual
// LLVM-dialect target assembly (spec.md §4.6): record layout, a
// per-function typed-value context, and per-operation emission rules.
package lower

import (
	"fmt"

	"github.com/dofolin/brilc/ir"
)

// Program carries the record-layout tables every function's lowering
// needs: each record's total size in bytes and each member's ordinal
// index within its record declaration. These live on a value scoped to one lowering run rather than as
// package-level state, so two lowerings (e.g. concurrent CLI
// invocations sharing this process) never collide (spec.md §9 "struct
// layout state").
type Program struct {
	StructSizes      map[string]int
	StructMbrOffsets map[string]map[string]int
}

// NewProgram computes record layout for every struct declaration, in
// declaration order, so a record containing an earlier record by value
// can size itself from the table already being built (spec.md §4.6).
func NewProgram(prog *ir.Program) *Program {
	p := &Program{
		StructSizes:      make(map[string]int, len(prog.Structs)),
		StructMbrOffsets: make(map[string]map[string]int, len(prog.Structs)),
	}
	for _, s := range prog.Structs {
		offsets := make(map[string]int, len(s.Mbrs))
		size := 0
		for i, m := range s.Mbrs {
			offsets[m.Name] = i
			size += p.sizeOf(m.Type)
		}
		p.StructMbrOffsets[s.Name] = offsets
		p.StructSizes[s.Name] = size
	}
	return p
}

// sizeOf returns the byte size a value of type t occupies (spec.md
// §4.6): 1 for bool, 8 for a pointer, a record's computed size for a
// record type, 8 (a machine word) otherwise.
func (p *Program) sizeOf(t ir.Type) int {
	switch {
	case t.Prim == ir.Bool:
		return 1
	case t.IsPointer():
		return 8
	case t.IsRecord():
		return p.StructSizes[t.Record]
	default:
		return 8
	}
}

// typeName renders t as the LLVM type spelling: i64 for int, i1 for
// bool, elem* for a pointer, and %name for a record reference (spec.md
// §4.6).
func typeName(t ir.Type) string {
	switch {
	case t.IsPointer():
		return typeName(*t.Pointee) + "*"
	case t.IsRecord():
		return "%" + t.Record
	case t.Prim == ir.Bool:
		return "i1"
	default:
		return "i64"
	}
}

// declareStruct renders a record's LLVM type declaration line, e.g.
// "%point = type { i64, i64 }".
func declareStruct(s ir.StructDecl) string {
	members := ""
	for i, m := range s.Mbrs {
		if i > 0 {
			members += ", "
		}
		members += typeName(m.Type)
	}
	return fmt.Sprintf("%%%s = type { %s }", s.Name, members)
}
