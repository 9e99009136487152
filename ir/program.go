package ir

import "fmt"

// Param is a {name, type} pair: a function argument or a record field.
type Param struct {
	Name string `json:"name"`
	Type Type   `json:"type"`
}

// Function is one IL function: a name, optional formal parameters and
// return type, and a linear instruction stream (spec.md §6).
type Function struct {
	Name   string `json:"name"`
	Args   []Param `json:"args,omitempty"`
	Type   *Type   `json:"type,omitempty"`
	Instrs []Item  `json:"instrs"`
}

// StructDecl is a record declaration: an ordered sequence of
// (field-name, Type) pairs (spec.md §3).
type StructDecl struct {
	Name string  `json:"name"`
	Mbrs []Param `json:"mbrs"`
}

// Program is the top-level JSON document: a list of functions and an
// optional list of record declarations (spec.md §6).
type Program struct {
	Functions []Function   `json:"functions"`
	Structs   []StructDecl `json:"structs,omitempty"`
}

// Validate performs the minimal structural checks spec.md §7 calls
// "malformed input": a destination lacking a type, a phi lacking labels
// or args, and a branch lacking exactly two labels. These are checked
// eagerly so later passes can assume well-formed instructions.
func (f Function) Validate() error {
	for i, it := range f.Instrs {
		if it.IsLabel() {
			continue
		}
		if it.Dest != "" && it.Type == nil {
			return fmt.Errorf("ir: function %q instr %d: destination %q has no declared type", f.Name, i, it.Dest)
		}
		switch it.Op {
		case Phi:
			if len(it.Labels) == 0 || len(it.Args) == 0 {
				return fmt.Errorf("ir: function %q instr %d: phi missing labels or args", f.Name, i)
			}
			if len(it.Labels) != len(it.Args) {
				return fmt.Errorf("ir: function %q instr %d: phi has %d labels but %d args", f.Name, i, len(it.Labels), len(it.Args))
			}
		case Br:
			if len(it.Labels) != 2 {
				return fmt.Errorf("ir: function %q instr %d: br needs exactly two labels, got %d", f.Name, i, len(it.Labels))
			}
		}
	}
	return nil
}
