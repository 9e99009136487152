package lower

import (
	"fmt"
	"io"

	"github.com/dofolin/brilc/ir"
)

// EmitMain renders the C-callable main wrapper that decodes argv into
// mainArgs's typed parameters and calls the generated __main, bailing
// out with the expected-arity message on a count mismatch (spec.md
// §4.6).
func EmitMain(w io.Writer, mainArgs []ir.Param) error {
	setup := ""
	callArgs := ""
	for i, a := range mainArgs {
		setup += argvDecode(i, a.Type)
		if i > 0 {
			callArgs += ", "
		}
		callArgs += typeName(a.Type) + fmt.Sprintf(" %%a%d", i)
	}

	_, err := fmt.Fprintf(w, mainTemplate, len(mainArgs), len(mainArgs), setup, callArgs)
	return err
}

// argvDecode renders the argv[i]-decoding prologue for a main argument
// of type t: atol for an int, btoi+trunc for a bool.
func argvDecode(i int, t ir.Type) string {
	if t.Prim == ir.Bool {
		return fmt.Sprintf(argvBoolTemplate, i, i+1)
	}
	return fmt.Sprintf(argvIntTemplate, i, i+1)
}
