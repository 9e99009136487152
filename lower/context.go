package lower

import (
	"strconv"

	"github.com/dofolin/brilc/ir"
)

// Context carries per-function information the emitter needs at every
// use site: each variable's declared type, the constant value (if any)
// backing it, and the canonical source variable for an `id` copy chain
// (spec.md §4.6).
type Context struct {
	Types     map[string]ir.Type
	Constants map[string]int64
	Canonical map[string]string
	IsMain    bool

	nextTemp int
}

// NewContext builds a Context from one pass over fn's instructions,
// threading constant-folding and copy-canonicalization through `id`
// destinations exactly as their source operands resolve. A `phi`
// destination only takes the type of its first argument; it is neither
// folded nor canonicalized (spec.md §4.6).
func NewContext(fn *ir.Function, isMain bool) *Context {
	c := &Context{
		Types:     map[string]ir.Type{},
		Constants: map[string]int64{},
		Canonical: map[string]string{},
		IsMain:    isMain,
	}

	for _, a := range fn.Args {
		c.Types[a.Name] = a.Type
	}

	for _, it := range fn.Instrs {
		if it.IsLabel() {
			continue
		}
		if it.HasDest() {
			switch {
			case it.Op == ir.Phi:
				c.Types[it.Dest] = c.Types[it.Args[0]]
			case it.Op == ir.Id:
				src := it.Args[0]
				// A destruction-inserted copy (spec.md §4.5) carries no
				// Type; it always inherits the source variable's type.
				if it.Type != nil {
					c.Types[it.Dest] = *it.Type
				} else {
					c.Types[it.Dest] = c.Types[src]
				}
				switch {
				case hasConst(c.Constants, src):
					c.Constants[it.Dest] = c.Constants[src]
				case hasCanonical(c.Canonical, src):
					c.Canonical[it.Dest] = c.Canonical[src]
				default:
					c.Canonical[it.Dest] = src
				}
			default:
				c.Types[it.Dest] = *it.Type
			}
		}
		if it.Value != nil {
			declared := it.Type
			if declared != nil && declared.Prim == ir.Bool {
				if literalTruthy(*it.Value) {
					c.Constants[it.Dest] = 1
				} else {
					c.Constants[it.Dest] = 0
				}
			} else {
				c.Constants[it.Dest] = literalInt(*it.Value)
			}
		}
	}
	return c
}

func hasConst(m map[string]int64, k string) bool    { _, ok := m[k]; return ok }
func hasCanonical(m map[string]string, k string) bool { _, ok := m[k]; return ok }

func literalTruthy(l ir.Literal) bool {
	if l.IsBool {
		return l.Bool
	}
	return l.Int != 0
}

func literalInt(l ir.Literal) int64 {
	if l.IsBool {
		if l.Bool {
			return 1
		}
		return 0
	}
	return l.Int
}

// FormatArgs renders args as a comma-joined operand list: a constant
// renders as its literal (or "null" when it's a falsy pointer), an `id`
// copy renders through its canonical source, otherwise the variable's
// own SSA name is used; showTypes prefixes each with its LLVM type
// (spec.md §4.6).
func (c *Context) FormatArgs(args []string, showTypes bool) string {
	out := ""
	for i, a := range args {
		if i > 0 {
			out += ", "
		}
		t := c.Types[a]
		var rendered string
		switch {
		case hasConst(c.Constants, a):
			v := c.Constants[a]
			if t.IsPointer() && v == 0 {
				rendered = "null"
			} else {
				rendered = strconv.FormatInt(v, 10)
			}
		case hasCanonical(c.Canonical, a):
			rendered = "%" + c.Canonical[a]
		default:
			rendered = "%" + a
		}
		if showTypes {
			rendered = typeName(t) + " " + rendered
		}
		out += rendered
	}
	return out
}

// NewTemp allocates a fresh "z<n>" temporary of type t and records its
// type for later FormatArgs/typeName lookups. Some callers (alloc's and
// free's byte-pointer casts) never query the temporary's type again; t
// is ignored in that case by convention, not enforced by the type.
func (c *Context) NewTemp(t ir.Type) string {
	v := "z" + strconv.Itoa(c.nextTemp)
	c.nextTemp++
	c.Types[v] = t
	return v
}
