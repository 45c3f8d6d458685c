package jslint

import "fmt"

const (
	msgGlobalNonLexicalBinding = "Unexpected %s declaration in the global scope, wrap in an IIFE for a local variable, assign as global property for a global variable."
	msgGlobalVariableLeak      = "Global variable leak, declare the variable if it is intended to be local."
	msgAssignmentToReadonly    = "Unexpected assignment to read-only global variable."
	msgRedeclarationOfReadonly = "Unexpected redeclaration of read-only global variable."
)

func init() {
	register(noImplicitGlobals{})
}

// noImplicitGlobals flags global var and function declarations and
// assignments to undeclared names in sloppy code.
type noImplicitGlobals struct{}

func (noImplicitGlobals) Name() string { return RuleNoImplicitGlobals }

func (noImplicitGlobals) Description() string {
	return "disallow declarations and assignments that create global variables"
}

func (noImplicitGlobals) Check(ctx *Context) {
	for _, v := range ctx.analysis.global.order {
		writable, declared := ctx.globals.lookup(v.name)
		if declared && writable {
			continue
		}
		for _, def := range v.defs {
			var kind string
			switch def.kind {
			case defFunctionName:
				kind = "function"
			case defVar:
				kind = "'var'"
			default:
				continue
			}
			if declared {
				ctx.Report(def.node, msgRedeclarationOfReadonly)
				continue
			}
			ctx.Report(def.node, fmt.Sprintf(msgGlobalNonLexicalBinding, kind))
		}
	}

	for _, v := range ctx.analysis.implicit {
		writable, declared := ctx.globals.lookup(v.name)
		if declared && writable {
			continue
		}
		msg := msgGlobalVariableLeak
		if declared {
			msg = msgAssignmentToReadonly
		}
		for _, def := range v.defs {
			ctx.Report(def.node, msg)
		}
	}
}
