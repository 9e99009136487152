package ir

import (
	"encoding/json"
	"fmt"
)

// Op is an IL operator name, drawn from the fixed set spec.md §6 lists.
type Op string

const (
	Jmp  Op = "jmp"
	Br   Op = "br"
	Ret  Op = "ret"
	Phi  Op = "phi"
	Add  Op = "add"
	Mul  Op = "mul"
	Sub  Op = "sub"
	Div  Op = "div"
	Eq   Op = "eq"
	Lt   Op = "lt"
	Gt   Op = "gt"
	Le   Op = "le"
	Ge   Op = "ge"
	And  Op = "and"
	Or   Op = "or"
	Not  Op = "not"
	Id   Op = "id"
	Const Op = "const"
	Call  Op = "call"
	Print Op = "print"
	Alloc Op = "alloc"
	Load  Op = "load"
	Store Op = "store"
	Ptradd Op = "ptradd"
	Getmbr Op = "getmbr"
	Isnull Op = "isnull"
	Free   Op = "free"
)

// Terminators are the operation kinds that may only appear as a block's
// last Item (spec.md §3).
var Terminators = map[Op]bool{Jmp: true, Br: true, Ret: true}

// IsTerminator reports whether op is jmp, br, or ret.
func IsTerminator(op Op) bool {
	return Terminators[op]
}

// Literal is an optional bool-or-signed-integer value carried by const
// instructions (and nothing else).
type Literal struct {
	Bool    bool
	IsBool  bool
	Int     int64
}

// IntLiteral and BoolLiteral construct Literals of each kind.
func IntLiteral(v int64) Literal  { return Literal{Int: v} }
func BoolLiteral(v bool) Literal  { return Literal{Bool: v, IsBool: true} }

func (l Literal) MarshalJSON() ([]byte, error) {
	if l.IsBool {
		return json.Marshal(l.Bool)
	}
	return json.Marshal(l.Int)
}

func (l *Literal) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*l = Literal{Bool: b, IsBool: true}
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("ir: decode literal value: %w", err)
	}
	*l = Literal{Int: n}
	return nil
}

// Item is either a Label or an Operation (spec.md §3). Exactly one of
// Label or Op is set.
type Item struct {
	Label string

	Op     Op
	Dest   string
	Type   *Type
	Value  *Literal
	Args   []string
	Funcs  []string
	Labels []string

	// phiVar tags a phi inserted by SSA construction with the source
	// variable it renames, so renaming can recover it
	// without re-deriving it from Dest (spec.md §4.4 "each inserted phi
	// is tagged with its originating variable name").
	phiVar string
}

// IsLabel reports whether the Item is a label rather than an operation.
func (it Item) IsLabel() bool { return it.Label != "" }

// HasDest reports whether the Item defines a variable.
func (it Item) HasDest() bool { return !it.IsLabel() && it.Dest != "" }

// PhiVar returns the variable a phi instruction was inserted for.
func (it Item) PhiVar() string { return it.phiVar }

// WithPhiVar returns a copy of it tagged with the originating variable
// for a phi instruction (spec.md §4.4).
func (it Item) WithPhiVar(v string) Item {
	it.phiVar = v
	return it
}

// jsonItem mirrors the wire schema: {"label": "..."} or an operation
// object with optional fields.
type jsonItem struct {
	Label  string    `json:"label,omitempty"`
	Op     Op        `json:"op,omitempty"`
	Dest   string    `json:"dest,omitempty"`
	Type   *Type     `json:"type,omitempty"`
	Value  *Literal  `json:"value,omitempty"`
	Args   []string  `json:"args,omitempty"`
	Funcs  []string  `json:"funcs,omitempty"`
	Labels []string  `json:"labels,omitempty"`
}

func (it Item) MarshalJSON() ([]byte, error) {
	if it.IsLabel() {
		return json.Marshal(jsonItem{Label: it.Label})
	}
	return json.Marshal(jsonItem{
		Op: it.Op, Dest: it.Dest, Type: it.Type, Value: it.Value,
		Args: it.Args, Funcs: it.Funcs, Labels: it.Labels,
	})
}

func (it *Item) UnmarshalJSON(data []byte) error {
	var j jsonItem
	if err := json.Unmarshal(data, &j); err != nil {
		return fmt.Errorf("ir: decode instruction: %w", err)
	}
	if j.Label != "" {
		*it = Item{Label: j.Label}
		return nil
	}
	if j.Op == "" {
		return fmt.Errorf("ir: instruction has neither %q nor %q", "label", "op")
	}
	*it = Item{
		Op: j.Op, Dest: j.Dest, Type: j.Type, Value: j.Value,
		Args: j.Args, Funcs: j.Funcs, Labels: j.Labels,
	}
	return nil
}
