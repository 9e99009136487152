package lower

import (
	"fmt"
	"io"

	"github.com/dofolin/brilc/ir"
)

// EmitProgram lowers prog to the textual target assembly, writing it to
// w. sourceName labels the module (the input path, or "stdin") per
// spec.md §4.6. The "main" function, if present, is special-cased: its
// declared return type is dropped (it is never actually returned to the
// generated main wrapper) and a C-callable main is generated to parse
// argv into its arguments.
func EmitProgram(w io.Writer, prog *ir.Program, sourceName string) error {
	p := NewProgram(prog)

	if _, err := fmt.Fprintf(w, progHdr, sourceName); err != nil {
		return err
	}

	for _, s := range prog.Structs {
		if _, err := fmt.Fprintln(w, declareStruct(s)); err != nil {
			return err
		}
	}

	var mainArgs []ir.Param
	for _, fn := range prog.Functions {
		isMain := fn.Name == "main"
		mangled := "__" + fn.Name
		if isMain {
			mainArgs = fn.Args
		}
		if err := EmitFunc(w, fn, mangled, isMain, p); err != nil {
			return fmt.Errorf("lower: function %q: %w", fn.Name, err)
		}
	}

	return EmitMain(w, mainArgs)
}

// EmitFunc lowers one function's header, body, and footer. name is the
// already-mangled (possibly "__"-prefixed) symbol to emit.
func EmitFunc(w io.Writer, fn ir.Function, name string, isMain bool, p *Program) error {
	ctxt := NewContext(&fn, isMain)

	rettype := "void"
	if !isMain && fn.Type != nil {
		rettype = typeName(*fn.Type)
	}

	args := ""
	for i, a := range fn.Args {
		if i > 0 {
			args += ", "
		}
		args += typeName(a.Type) + " %" + a.Name
	}

	if _, err := fmt.Fprintf(w, funHdr, rettype, name, args); err != nil {
		return err
	}
	for _, it := range fn.Instrs {
		if err := EmitInstr(w, it, ctxt, p); err != nil {
			return err
		}
	}
	_, err := fmt.Fprint(w, funFtr)
	return err
}

// EmitInstr lowers one instruction (or label) to its target-assembly
// rendering (spec.md §4.6). It is the direct per-operator counterpart
// of the SSA-form IL's fixed operator set.
func EmitInstr(w io.Writer, it ir.Item, c *Context, p *Program) error {
	if it.IsLabel() {
		_, err := fmt.Fprintf(w, "%s:\n", it.Label)
		return err
	}

	args := it.Args

	switch {
	case it.HasDest():
		return emitValueOp(w, it, args, c, p)
	default:
		return emitEffectOp(w, it, args, c)
	}
}

func emitValueOp(w io.Writer, it ir.Item, args []string, c *Context, p *Program) error {
	switch it.Op {
	case ir.Call:
		_, err := fmt.Fprintf(w, "  %%%s = call %s @__%s(%s)\n",
			it.Dest, typeName(*it.Type), it.Funcs[0], c.FormatArgs(args, true))
		return err

	case ir.Not:
		_, err := fmt.Fprintf(w, "  %%%s = xor i1 1, %s\n", it.Dest, c.FormatArgs(args, false))
		return err

	case ir.Phi:
		return emitPhi(w, it, c)

	case ir.Alloc:
		return emitAlloc(w, it, args, c, p)

	case ir.Load:
		_, err := fmt.Fprintf(w, "  %%%s = load %s, %s\n",
			it.Dest, typeName(*it.Type), c.FormatArgs(args, true))
		return err

	case ir.Ptradd:
		_, err := fmt.Fprintf(w, "  %%%s = getelementptr inbounds %s, %s\n",
			it.Dest, typeName(*it.Type.Pointee), c.FormatArgs(args, true))
		return err

	case ir.Getmbr:
		structType := c.Types[args[0]]
		elem := *structType.Pointee
		_, err := fmt.Fprintf(w, "  %%%s = getelementptr inbounds %s, %s, i64 0, i32 %d\n",
			it.Dest, typeName(elem), c.FormatArgs(args[:1], true), p.StructMbrOffsets[elem.Record][args[1]])
		return err

	case ir.Isnull:
		tmp := c.NewTemp(ir.IntType)
		if _, err := fmt.Fprintf(w, "  %%%s = ptrtoint %s to i64\n", tmp, c.FormatArgs(args, true)); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "  %%%s = icmp eq i64 0, %%%s\n", it.Dest, tmp)
		return err

	default:
		if mnemonic, ok := opTable[string(it.Op)]; ok {
			_, err := fmt.Fprintf(w, "  %%%s = %s %s %s\n",
				it.Dest, mnemonic, typeName(c.Types[args[0]]), c.FormatArgs(args, false))
			return err
		}
		// Unknown operators are silently skipped (spec.md §9 open question 3).
		return nil
	}
}

func emitPhi(w io.Writer, it ir.Item, c *Context) error {
	argsLeft := append([]string(nil), it.Args...)
	labelsLeft := append([]string(nil), it.Labels...)

	if _, err := fmt.Fprintf(w, "  %%%s = phi %s ", it.Dest, typeName(c.Types[argsLeft[0]])); err != nil {
		return err
	}
	out := ""
	for len(argsLeft) > 0 {
		a := argsLeft[len(argsLeft)-1]
		argsLeft = argsLeft[:len(argsLeft)-1]
		lbl := labelsLeft[len(labelsLeft)-1]
		labelsLeft = labelsLeft[:len(labelsLeft)-1]
		if out != "" {
			out += ", "
		}
		out += fmt.Sprintf("[ %s, %%%s ]", c.FormatArgs([]string{a}, false), lbl)
	}
	_, err := fmt.Fprintln(w, out)
	return err
}

func emitAlloc(w io.Writer, it ir.Item, args []string, c *Context, p *Program) error {
	count := c.NewTemp(ir.IntType)
	if _, err := fmt.Fprintf(w, "  %%%s = mul i64 %s, %d\n",
		count, c.FormatArgs(args, false), p.sizeOf(*it.Type.Pointee)); err != nil {
		return err
	}
	ptr := c.NewTemp(ir.IntType)
	if _, err := fmt.Fprintf(w, "  %%%s = call i8* @malloc(%s)\n", ptr, c.FormatArgs([]string{count}, true)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "  %%%s = bitcast i8* %%%s to %s\n", it.Dest, ptr, typeName(*it.Type))
	return err
}

// printKind maps a type to the print_<kind> builtin the preamble
// defines for it (spec.md §4.6; print_bool/print_int/print_ptr are the
// only print_<kind> builtins PROG_HDR provides).
func printKind(t ir.Type) string {
	switch {
	case t.IsPointer():
		return "ptr"
	case t.Prim == ir.Bool:
		return "bool"
	default:
		return "int"
	}
}

func emitEffectOp(w io.Writer, it ir.Item, args []string, c *Context) error {
	switch it.Op {
	case ir.Br:
		_, err := fmt.Fprintf(w, "  br i1 %s, label %%%s, label %%%s\n",
			c.FormatArgs(args, false), it.Labels[0], it.Labels[1])
		return err

	case ir.Jmp:
		_, err := fmt.Fprintf(w, "  br label %%%s\n", it.Labels[0])
		return err

	case ir.Ret:
		r := c.FormatArgs(args, true)
		if r == "" || c.IsMain {
			r = "void"
		}
		_, err := fmt.Fprintf(w, "  ret %s\n", r)
		return err

	case ir.Call:
		_, err := fmt.Fprintf(w, "  call void @__%s(%s)\n", it.Funcs[0], c.FormatArgs(args, true))
		return err

	case ir.Print:
		for i, a := range args {
			if i > 0 {
				if _, err := fmt.Fprintln(w, "  call void @print_space()"); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintf(w, "  call void @print_%s(%s)\n",
				printKind(c.Types[a]), c.FormatArgs([]string{a}, true)); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintln(w, "  call void @print_newline()")
		return err

	case ir.Free:
		bytePtr := c.NewTemp(ir.IntType)
		if _, err := fmt.Fprintf(w, "  %%%s = bitcast %s to i8*\n", bytePtr, c.FormatArgs(args, true)); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "  call void @free(i8* %%%s)\n", bytePtr)
		return err

	case ir.Store:
		reversed := []string{args[1], args[0]}
		_, err := fmt.Fprintf(w, "  store %s\n", c.FormatArgs(reversed, true))
		return err

	default:
		return nil
	}
}
