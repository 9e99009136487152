// Package ir defines the in-memory representation of IL programs: types,
// instructions, basic blocks (as built by package cfg), functions and
// record declarations, plus their JSON surface form.
package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Prim is the primitive tag a Type carries when it is neither a pointer
// nor a record reference.
type Prim string

const (
	Int  Prim = "int"
	Bool Prim = "bool"
)

// Type is a recursive value: a primitive tag, a pointer to another Type,
// or a record name keyed into the program's record table.
//
// Exactly one of the following holds: Record != "", Pointee != nil, or
// Prim is Int/Bool.
type Type struct {
	Prim    Prim
	Record  string
	Pointee *Type
}

// IntType, BoolType are the two primitive Types.
var (
	IntType  = Type{Prim: Int}
	BoolType = Type{Prim: Bool}
)

// PointerTo builds a pointer-to-elem Type.
func PointerTo(elem Type) Type {
	return Type{Pointee: &elem}
}

// RecordType builds a Type referencing the named record declaration.
func RecordType(name string) Type {
	return Type{Record: name}
}

// IsPointer reports whether t is a pointer type.
func (t Type) IsPointer() bool {
	return t.Pointee != nil
}

// IsRecord reports whether t names a record.
func (t Type) IsRecord() bool {
	return t.Record != "" && t.Pointee == nil
}

// Equal reports whether two types denote the same shape. Used to check
// the "all definitions of a variable agree on type" invariant (spec.md §4.4).
func (t Type) Equal(o Type) bool {
	switch {
	case t.IsPointer() != o.IsPointer():
		return false
	case t.IsPointer():
		return t.Pointee.Equal(*o.Pointee)
	case t.IsRecord() || o.IsRecord():
		return t.Record == o.Record
	default:
		return t.Prim == o.Prim
	}
}

func (t Type) String() string {
	switch {
	case t.IsPointer():
		return "ptr<" + t.Pointee.String() + ">"
	case t.IsRecord():
		return t.Record
	default:
		return string(t.Prim)
	}
}

// jsonPtr is the wire shape of a pointer type: {"ptr": <Type>}.
type jsonPtr struct {
	Ptr *Type `json:"ptr"`
}

// MarshalJSON renders a Type per the IL's JSON schema: a bare string for
// primitives and record names, or {"ptr": ...} for pointers.
func (t Type) MarshalJSON() ([]byte, error) {
	if t.IsPointer() {
		return json.Marshal(jsonPtr{Ptr: t.Pointee})
	}
	if t.IsRecord() {
		return json.Marshal(t.Record)
	}
	return json.Marshal(string(t.Prim))
}

// UnmarshalJSON accepts either a bare string (primitive or record name) or
// a {"ptr": <Type>} object, mirroring the IL's Type = Union[str, dict] shape.
func (t *Type) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var name string
		if err := json.Unmarshal(trimmed, &name); err != nil {
			return fmt.Errorf("ir: decode type string: %w", err)
		}
		switch Prim(name) {
		case Int, Bool:
			*t = Type{Prim: Prim(name)}
		default:
			*t = Type{Record: name}
		}
		return nil
	}

	var p jsonPtr
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return fmt.Errorf("ir: decode pointer type: %w", err)
	}
	if p.Ptr == nil {
		return fmt.Errorf("ir: type object missing %q key", "ptr")
	}
	*t = Type{Pointee: p.Ptr}
	return nil
}
